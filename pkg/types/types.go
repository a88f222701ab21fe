package types

import (
	"errors"
	"fmt"
)

// ErrInvalidURL は、URLが http:// または https:// で始まっていない場合のエラーです。
var ErrInvalidURL = errors.New("無効なURLです。http:// または https:// を含めてください")

// ErrorKind は、スクレイピング処理のどの段階で失敗したかを表します。
type ErrorKind int

const (
	// GenericFailure は、解析・リンク解決・ファイル書き込みなど、その他の予期せぬ失敗です。
	GenericFailure ErrorKind = iota
	// InvalidInput は、ネットワーク通信前のURL検証で失敗したことを示します。
	InvalidInput
	// FetchError は、通信エラーまたは非成功のHTTPステータスを示します。
	FetchError
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidInput:
		return "InvalidInput"
	case FetchError:
		return "FetchError"
	default:
		return "GenericFailure"
	}
}

// ScrapeError は、失敗の種類と原因となったエラーを保持します。
type ScrapeError struct {
	Kind ErrorKind
	URL  string
	Err  error
}

func (e *ScrapeError) Error() string {
	return fmt.Sprintf("%s (URL: %s): %v", e.Kind, e.URL, e.Err)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// KindOf は、エラーチェーン内の ScrapeError から失敗の種類を取り出します。
// ScrapeError を含まないエラーは GenericFailure として扱います。
func KindOf(err error) ErrorKind {
	var se *ScrapeError
	if errors.As(err, &se) {
		return se.Kind
	}
	return GenericFailure
}

// LinkResult は、1回のスクレイピングの結果、またはその処理中に発生したエラーを保持します。
// 失敗時も Links は空のスライスであり、nil にはなりません。
type LinkResult struct {
	URL   string   // 処理対象のURL
	Links []string // 同一オリジンの重複なし・ソート済みリンク
	Error error    // 処理中に発生したエラー (*ScrapeError)
}

// Failed は、結果が失敗を表すかどうかを返します。
func (r LinkResult) Failed() bool {
	return r.Error != nil
}
