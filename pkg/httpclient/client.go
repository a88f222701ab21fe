package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-utils/retry"
	"golang.org/x/net/html/charset"
)

const (
	// MaxBodySize はレスポンスボディの最大読み込みサイズです。超えた場合は取得エラーになります。
	MaxBodySize = httpkit.MaxResponseBodySize

	// maxErrorBodyLen はエラーメッセージに含めるボディの最大長です。
	maxErrorBodyLen = httpkit.MaxBodyDisplaySize

	// リトライ有効時のバックオフ設定
	InitialBackoffInterval = 500 * time.Millisecond
	MaxBackoffInterval     = 5 * time.Second

	// サイトからの単純なボットブロックを避けるためのUser-Agent
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Doer は、標準の *http.Client.Do() と互換性のあるHTTPクライアントのインターフェースです。
type Doer = httpkit.Doer

// HTTPStatusError は、400 以上のHTTPステータスコードを示すカスタムエラー型です。
type HTTPStatusError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPStatusError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("HTTPステータスエラー: ステータスコード %d, ボディなし", e.StatusCode)
	}
	body := strings.TrimSpace(string(e.Body))
	if len(body) > maxErrorBodyLen {
		body = body[:maxErrorBodyLen] + "..."
	}
	return fmt.Sprintf("HTTPステータスエラー: ステータスコード %d, ボディ: %s", e.StatusCode, body)
}

// IsHTTPStatusError は与えられたエラーがHTTPステータスエラーであるかを判断します。
func IsHTTPStatusError(err error) bool {
	if err == nil {
		return false
	}
	var statusErr *HTTPStatusError
	return errors.As(err, &statusErr)
}

// Page は、取得したWebページの内容とメタデータを保持します。
type Page struct {
	URL         string // リクエストしたURL
	FinalURL    string // リダイレクト後のURL (参考情報)
	StatusCode  int
	ContentType string
	Body        string // UTF-8 にデコード済みの本文
}

// RetryNotifyFunc はリトライ対象の失敗ごとに、試行回数 (1 始まり) とエラーを受け取ります。
type RetryNotifyFunc func(attempt int, err error)

// Client はHTTP GETリクエストと、任意のリトライロジックを管理します。
// 送信とリトライ設定は httpkit.Client に委ね、本文のデコードとステータス判定をこちらで行います。
type Client struct {
	kit    *httpkit.Client
	notify RetryNotifyFunc
}

type clientConfig struct {
	doer       Doer
	kitOptions []httpkit.ClientOption
	notify     RetryNotifyFunc
}

// ClientOption はClientの設定を行うための関数型です。
type ClientOption func(*clientConfig)

// WithHTTPClient はカスタムのDoerを設定します。
func WithHTTPClient(doer Doer) ClientOption {
	return func(c *clientConfig) {
		c.doer = doer
	}
}

// WithMaxRetries は最大リトライ回数を設定します。0 の場合はリトライしません。
func WithMaxRetries(max uint64) ClientOption {
	return func(c *clientConfig) {
		c.kitOptions = append(c.kitOptions, httpkit.WithMaxRetries(max))
	}
}

// WithBackoff はリトライの初期間隔と最大間隔を設定します。
func WithBackoff(initial, max time.Duration) ClientOption {
	return func(c *clientConfig) {
		c.kitOptions = append(c.kitOptions, httpkit.WithInitialInterval(initial), httpkit.WithMaxInterval(max))
	}
}

// WithRetryNotify はリトライ対象の失敗ごとに呼ばれるコールバックを設定します。
func WithRetryNotify(fn RetryNotifyFunc) ClientOption {
	return func(c *clientConfig) {
		c.notify = fn
	}
}

// New は、新しいClientを生成します。
// timeout が 0 以下の場合、クライアント側のタイムアウトは設定されません。
func New(timeout time.Duration, options ...ClientOption) *Client {
	if timeout < 0 {
		timeout = 0
	}

	cfg := &clientConfig{
		doer: &http.Client{Timeout: timeout},
	}
	for _, opt := range options {
		opt(cfg)
	}

	// httpkit の既定値 (10秒のタイムアウト、3回のリトライ) は使わず、1回だけの取得を既定にする
	kitOptions := append([]httpkit.ClientOption{
		httpkit.WithHTTPClient(cfg.doer),
		httpkit.WithMaxRetries(0),
		httpkit.WithInitialInterval(InitialBackoffInterval),
		httpkit.WithMaxInterval(MaxBackoffInterval),
	}, cfg.kitOptions...)

	return &Client{
		kit:    httpkit.New(timeout, kitOptions...),
		notify: cfg.notify,
	}
}

// MaxRetries は設定されている最大リトライ回数を返します。
func (c *Client) MaxRetries() uint64 {
	return c.kit.RetryConfig.MaxRetries
}

// FetchPage はURLに対してGETリクエストを1回 (リトライ設定時は複数回) 送信し、本文を返します。
func (c *Client) FetchPage(ctx context.Context, url string) (*Page, error) {
	var page *Page
	attempt := 0

	op := func() error {
		attempt++
		var fetchErr error
		page, fetchErr = c.doFetch(ctx, url)
		if fetchErr != nil && c.notify != nil && uint64(attempt) <= c.MaxRetries() && c.isRetryableError(fetchErr) {
			c.notify(attempt, fetchErr)
		}
		return fetchErr
	}

	// リトライなしの場合はエラーをそのまま返す
	if c.MaxRetries() == 0 {
		if err := op(); err != nil {
			return nil, err
		}
		return page, nil
	}

	err := retry.Do(
		ctx,
		c.kit.RetryConfig,
		fmt.Sprintf("URL(%s)のフェッチ", url),
		op,
		c.isRetryableError,
	)
	if err != nil {
		return nil, err
	}
	return page, nil
}

// doFetch は実際の一度のHTTP GETリクエストと本文のデコードを実行します。
func (c *Client) doFetch(ctx context.Context, url string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("GETリクエスト作成に失敗しました: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.kit.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストに失敗しました (ネットワーク/接続エラー): %w", err)
	}

	// 400 以上のステータスはすべて失敗として扱う
	if resp.StatusCode >= http.StatusBadRequest {
		bodyBytes, _ := httpkit.HandleLimitedResponse(resp, maxErrorBodyLen+1)
		return nil, &HTTPStatusError{StatusCode: resp.StatusCode, Body: bodyBytes}
	}

	contentType := resp.Header.Get("Content-Type")
	raw, err := httpkit.HandleLimitedResponse(resp, MaxBodySize+1)
	if err != nil {
		return nil, err
	}
	body, err := decodeBody(raw, contentType)
	if err != nil {
		return nil, err
	}

	finalURL := url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &Page{
		URL:         url,
		FinalURL:    finalURL,
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Body:        body,
	}, nil
}

// decodeBody はボディのサイズを検証し、Content-Type と文書内の宣言に従って UTF-8 にデコードします。
func decodeBody(raw []byte, contentType string) (string, error) {
	if int64(len(raw)) > MaxBodySize {
		return "", fmt.Errorf("レスポンスボディのサイズが制限値 (%dバイト) を超過しました", MaxBodySize)
	}

	decoded, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		// 未知の文字コードはデコードせずにそのまま扱う
		return string(raw), nil
	}
	text, err := io.ReadAll(decoded)
	if err != nil {
		return "", fmt.Errorf("レスポンスボディのデコードに失敗しました: %w", err)
	}
	return string(text), nil
}

// isRetryableError はエラーがリトライ対象かどうかを判定します。
// retry.ShouldRetryFunc 型のシグネチャを満たします。
func (c *Client) isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// 1. キャンセル/タイムアウト済みのコンテキストで再試行しても結果は変わらない
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// 2. 4xx はリトライしない
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= http.StatusInternalServerError
	}

	// 3. ネットワークエラーなどは httpkit の判定に従う
	return c.kit.IsHTTPRetryableError(err)
}
