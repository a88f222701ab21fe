package anchor

import (
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
)

// FeedAdapter は gofeed.Feed を Source に適合させるためのアダプターです。
// gofeed.Feed の具体的な構造への依存を内部に閉じ込めます。
type FeedAdapter struct {
	*gofeed.Feed
}

// NewFeedAdapter は gofeed.Feed から新しいアダプターを作成します。
func NewFeedAdapter(feed *gofeed.Feed) *FeedAdapter {
	return &FeedAdapter{Feed: feed}
}

// ParseFeed はRSS/Atom/JSONフィードの文字列を解析します。
func ParseFeed(body string) (*FeedAdapter, error) {
	feed, err := gofeed.NewParser().Parse(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("フィードのパース失敗: %w", err)
	}
	return NewFeedAdapter(feed), nil
}

// Hrefs は Source インターフェースを満たし、各アイテムのリンクを返します。
// 空のリンクは除外します。
func (a *FeedAdapter) Hrefs() []string {
	if a == nil || a.Feed == nil || len(a.Items) == 0 {
		return []string{}
	}

	hrefs := make([]string, 0, len(a.Items))
	for _, item := range a.Items {
		if item == nil {
			continue
		}
		if item.Link != "" {
			hrefs = append(hrefs, item.Link)
		}
	}
	return hrefs
}
