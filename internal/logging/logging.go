// Package logging は、アプリケーション全体で使うロガーの初期化を行います。
// スクレイピング処理自体はロガーを設定せず、呼び出し側がここで一度だけ初期化します。
package logging

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Options はロガーの初期化設定です。
type Options struct {
	Output  io.Writer // nil の場合は os.Stderr
	Verbose bool      // true の場合は Debug レベルまで出力
	Quiet   bool      // true の場合は Error レベルのみ出力
}

// Init は設定に従ってロガーを生成し、パッケージのデフォルトロガーとして登録します。
func Init(opts Options) *log.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level(opts),
	})
	log.SetDefault(logger)
	return logger
}

func level(opts Options) log.Level {
	switch {
	case opts.Quiet:
		return log.ErrorLevel
	case opts.Verbose:
		return log.DebugLevel
	default:
		return log.InfoLevel
	}
}
