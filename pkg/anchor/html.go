package anchor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// anchorSelector は href 属性を持つアンカー要素だけに一致します。
// 属性値が空文字列のアンカーも一致します。
const anchorSelector = "a[href]"

// Document は、解析済みのHTML文書を Source として扱うためのラッパーです。
type Document struct {
	doc *goquery.Document
}

// ParseHTML はHTML文字列を解析します。
// 構造的に不正なマークアップでも失敗せず、ブラウザと同様の寛容な解析結果を返します。
func ParseHTML(body string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("HTML解析に失敗しました: %w", err)
	}
	return &Document{doc: doc}, nil
}

// Hrefs は文書内のすべての a[href] について、href の値を出現順に返します。
// href 属性を持たないアンカーは含まれません。
func (d *Document) Hrefs() []string {
	if d == nil || d.doc == nil {
		return []string{}
	}

	selection := d.doc.Find(anchorSelector)
	hrefs := make([]string, 0, selection.Length())
	selection.Each(func(i int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			hrefs = append(hrefs, href)
		}
	})
	return hrefs
}
