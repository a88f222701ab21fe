package cmd

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/shouni/go-link-scraper/internal/pipeline"
	"github.com/shouni/go-link-scraper/pkg/linkset"
)

// runScrapePipeline は、リンク抽出を実行し、結果を標準出力に表示します。
// 抽出に失敗した場合は何も表示せず、--strict の場合のみエラーを返します。
func runScrapePipeline(cmd *cobra.Command, rawURL string) error {
	if Flags.TimeoutSec < 0 {
		return fmt.Errorf("--timeout には0以上の値を指定してください: %d", Flags.TimeoutSec)
	}
	if Flags.MaxRetries < 0 {
		return fmt.Errorf("--max-retries には0以上の値を指定してください: %d", Flags.MaxRetries)
	}

	// 1. パイプラインの実行
	result, err := pipeline.ScrapeLinks(cmd.Context(), pipeline.Config{
		URL:        rawURL,
		OutputPath: Flags.Output,
		Timeout:    time.Duration(Flags.TimeoutSec) * time.Second,
		MaxRetries: uint64(Flags.MaxRetries),
		FeedMode:   Flags.Feed,
		Logger:     log.Default(),
	})
	if err != nil {
		return err
	}

	// 2. 失敗の扱い (ログは Scraper 側で出力済み)
	if result.Failed() {
		if Flags.Strict {
			return fmt.Errorf("リンク抽出パイプラインの実行エラー: %w", result.Error)
		}
		return nil
	}

	// 3. 結果の出力 (ファイル書き込み後)
	if err := linkset.Write(cmd.OutOrStdout(), result.Links); err != nil {
		return fmt.Errorf("標準出力への書き込みエラー: %w", err)
	}
	return nil
}
