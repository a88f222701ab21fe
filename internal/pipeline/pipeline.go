package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/shouni/go-link-scraper/pkg/httpclient"
	"github.com/shouni/go-link-scraper/pkg/scraper"
	"github.com/shouni/go-link-scraper/pkg/types"
)

// Config は、リンク抽出パイプライン1回分の設定です。
type Config struct {
	URL        string
	OutputPath string
	Timeout    time.Duration // 0 の場合はタイムアウトなし
	MaxRetries uint64
	FeedMode   bool
	Logger     *log.Logger

	// HTTPClient はテストなどで差し替えるためのものです。nil の場合は標準の http.Client を使用します。
	HTTPClient httpclient.Doer
}

// ScrapeLinks は依存性を組み立て、URLから同一オリジンのリンクを抽出して保存するメインの処理パイプラインです。
// スクレイピング自体の失敗は LinkResult.Error で返し、戻り値の error は初期化の失敗のみを表します。
func ScrapeLinks(ctx context.Context, cfg Config) (types.LinkResult, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	// 1. 外部の Fetcher 実装を初期化
	clientOpts := []httpclient.ClientOption{
		httpclient.WithMaxRetries(cfg.MaxRetries),
		httpclient.WithRetryNotify(func(attempt int, err error) {
			logger.Debug("リトライします", "attempt", attempt, "max_retries", cfg.MaxRetries, "err", err)
		}),
	}
	if cfg.HTTPClient != nil {
		clientOpts = append(clientOpts, httpclient.WithHTTPClient(cfg.HTTPClient))
	}
	fetcher := httpclient.New(cfg.Timeout, clientOpts...)

	// 2. Scraper を初期化 (DI)
	s, err := scraper.New(fetcher,
		scraper.WithOutputPath(cfg.OutputPath),
		scraper.WithFeedMode(cfg.FeedMode),
		scraper.WithLogger(logger),
	)
	if err != nil {
		return types.LinkResult{}, fmt.Errorf("Scraperの初期化エラー: %w", err)
	}

	// 3. 抽出の実行
	return s.Scrape(ctx, cfg.URL), nil
}
