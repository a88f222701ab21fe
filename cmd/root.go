package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"

	"github.com/shouni/go-link-scraper/internal/logging"
	"github.com/shouni/go-link-scraper/pkg/linkset"
)

// --- グローバル定数 ---

const (
	appName           = "link-scraper"
	defaultTimeoutSec = 0 // 0 はタイムアウトなし
	defaultMaxRetries = 0 // 0 はリトライなし (1回だけ取得)
)

// --- グローバル変数とフラグ構造体 ---

// AppFlags はこのアプリケーション固有のフラグを保持
// NOTE: --verbose と --config は clibase.Flags が保持する
type AppFlags struct {
	Output     string // -o, --output 出力ファイル
	TimeoutSec int    // --timeout タイムアウト
	MaxRetries int    // --max-retries リトライ回数
	Feed       bool   // --feed RSS/Atomフィードとして解析
	Strict     bool   // --strict 失敗時に終了コード1で終了
	Quiet      bool   // -q, --quiet エラーログのみ
}

var Flags AppFlags // アプリケーション固有フラグにアクセスするためのグローバル変数

// newRootCmd は clibase が生成するルートコマンドに、URLを1つ受け取る実行処理を設定します。
func newRootCmd() *cobra.Command {
	rootCmd := clibase.NewRootCmd(appName, addAppFlags, initAppPreRunE)

	rootCmd.Use = appName + " URL"
	rootCmd.Short = "Webページから同一オリジンのリンクを抽出してファイルに保存します"
	rootCmd.Long = `指定されたURLのページを1回だけ取得し、同じスキーム・ホストで始まるリンクを
重複排除・ソートしてファイルに1行ずつ保存し、標準出力にも表示します。`
	rootCmd.Args = cobra.ExactArgs(1)
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	// サブコマンドは持たないため、clibase のヘルプ表示の代わりに抽出を実行する
	rootCmd.Run = nil
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runScrapePipeline(cmd, args[0])
	}

	return rootCmd
}

// addAppFlags は、アプリケーション固有のフラグをルートコマンドに追加します。
func addAppFlags(rootCmd *cobra.Command) {
	flags := rootCmd.Flags()
	flags.StringVarP(&Flags.Output, "output", "o", linkset.DefaultOutputFile, "出力ファイル名")
	flags.IntVar(&Flags.TimeoutSec, "timeout", defaultTimeoutSec, "HTTPリクエストのタイムアウト時間（秒, 0 はタイムアウトなし）")
	flags.IntVar(&Flags.MaxRetries, "max-retries", defaultMaxRetries, "一時的なエラー時のリトライ最大回数")
	flags.BoolVar(&Flags.Feed, "feed", false, "ページをRSS/Atomフィードとして解析し、記事のリンクを対象にする")
	flags.BoolVar(&Flags.Strict, "strict", false, "抽出に失敗した場合、終了コード1で終了する")

	rootCmd.PersistentFlags().BoolVarP(&Flags.Quiet, "quiet", "q", false, "エラーログのみ出力する")
}

// initAppPreRunE は、clibase共通処理の後に実行され、ロガーを一度だけ初期化します。
// NOTE: clibaseの PersistentPreRunE チェーンにより、clibase.Flags.Verbose はこの関数実行前に設定済み
func initAppPreRunE(cmd *cobra.Command, args []string) error {
	logger := logging.Init(logging.Options{
		Output:  cmd.ErrOrStderr(),
		Verbose: clibase.Flags.Verbose,
		Quiet:   Flags.Quiet,
	})

	if clibase.Flags.ConfigFile != "" {
		logger.Warn("設定ファイルには対応していないため無視します", "config", clibase.Flags.ConfigFile)
	}
	return nil
}

// --- エントリポイント ---

// Execute は、ルートコマンドを実行するメイン関数です。
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Error("アプリケーションエラー", "err", err)
		stop()
		os.Exit(1)
	}
}
