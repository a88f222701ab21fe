package scraper

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/shouni/go-link-scraper/pkg/anchor"
	"github.com/shouni/go-link-scraper/pkg/httpclient"
	"github.com/shouni/go-link-scraper/pkg/linkset"
	"github.com/shouni/go-link-scraper/pkg/types"
)

// Fetcher は、Webページを取得する機能のインターフェースを定義します。
// *httpclient.Client はこのインターフェースを満たします。
type Fetcher interface {
	FetchPage(ctx context.Context, url string) (*httpclient.Page, error)
}

// Scraper はページを1回だけ取得し、同一オリジンのリンクを抽出・保存するパイプラインです。
type Scraper struct {
	fetcher    Fetcher
	outputPath string
	feedMode   bool
	logger     *log.Logger
}

// Option は Scraper の設定を行うための関数型です。
type Option func(*Scraper)

// WithOutputPath は出力ファイルのパスを設定します。
func WithOutputPath(path string) Option {
	return func(s *Scraper) {
		if path != "" {
			s.outputPath = path
		}
	}
}

// WithFeedMode は取得した本文をHTMLではなくRSS/Atomフィードとして解析するかどうかを設定します。
func WithFeedMode(enabled bool) Option {
	return func(s *Scraper) {
		s.feedMode = enabled
	}
}

// WithLogger はログの出力先を設定します。
func WithLogger(logger *log.Logger) Option {
	return func(s *Scraper) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New は Scraper を初期化します。
func New(fetcher Fetcher, opts ...Option) (*Scraper, error) {
	if fetcher == nil {
		return nil, errors.New("scraper.New: Fetcher cannot be nil")
	}
	s := &Scraper{
		fetcher:    fetcher,
		outputPath: linkset.DefaultOutputFile,
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// OutputPath は書き込み先のファイルパスを返します。
func (s *Scraper) OutputPath() string {
	return s.outputPath
}

// ValidateURL はURLが http:// または https:// で始まっているかを検証します。
func ValidateURL(rawURL string) error {
	if strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://") {
		return nil
	}
	return types.ErrInvalidURL
}

// Scrape はURLを取得し、同一オリジンのリンクを重複排除・ソートしてファイルに保存します。
// 失敗した場合は Error に *types.ScrapeError を設定し、Links は空のスライスになります。
// ファイルへの書き込みより前に失敗した場合、既存の出力ファイルは変更されません。
func (s *Scraper) Scrape(ctx context.Context, rawURL string) types.LinkResult {
	links, err := s.run(ctx, rawURL)
	if err != nil {
		if types.KindOf(err) == types.FetchError {
			s.logger.Error("Webページの取得エラー", "url", rawURL, "err", err)
		} else {
			s.logger.Error("エラーが発生しました", "url", rawURL, "err", err)
		}
		return types.LinkResult{URL: rawURL, Links: []string{}, Error: err}
	}
	return types.LinkResult{URL: rawURL, Links: links}
}

func (s *Scraper) run(ctx context.Context, rawURL string) ([]string, error) {
	// 1. URLの検証 (通信より前に行う)
	if err := ValidateURL(rawURL); err != nil {
		return nil, &types.ScrapeError{Kind: types.InvalidInput, URL: rawURL, Err: err}
	}

	// 2. ページの取得
	s.logger.Info("URLを取得しています", "url", rawURL)
	page, err := s.fetcher.FetchPage(ctx, rawURL)
	if err != nil {
		return nil, &types.ScrapeError{Kind: types.FetchError, URL: rawURL, Err: err}
	}
	s.logger.Debug("ページを取得しました", "status", page.StatusCode, "content_type", page.ContentType, "final_url", page.FinalURL)

	// 3. オリジンはリダイレクト先ではなく、指定されたURLから求める
	origin, err := linkset.NewOrigin(rawURL)
	if err != nil {
		return nil, &types.ScrapeError{Kind: types.GenericFailure, URL: rawURL, Err: err}
	}

	// 4. アンカーの抽出
	source, err := s.parse(page.Body)
	if err != nil {
		return nil, &types.ScrapeError{Kind: types.GenericFailure, URL: rawURL, Err: err}
	}
	hrefs := anchor.AllHrefs(source)

	// 5. 解決・絞り込み・重複排除・ソート
	set := linkset.NewSet()
	set.AddAll(origin.Filter(hrefs))
	links := set.Sorted()
	s.logger.Debug("リンクを抽出しました", "anchors", len(hrefs), "unique", len(links), "origin", origin.String())

	// 6. 保存
	if err := linkset.WriteFile(s.outputPath, links); err != nil {
		return nil, &types.ScrapeError{Kind: types.GenericFailure, URL: rawURL, Err: err}
	}
	s.logger.Info("リンクを保存しました", "count", len(links), "file", s.outputPath)

	return links, nil
}

func (s *Scraper) parse(body string) (anchor.Source, error) {
	if s.feedMode {
		return anchor.ParseFeed(body)
	}
	return anchor.ParseHTML(body)
}
