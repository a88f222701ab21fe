package linkset

import "sort"

// Set は解決済みリンクの重複なし集合です。等価性は文字列の完全一致で判定します。
type Set struct {
	members map[string]struct{}
}

// NewSet は空の集合を作成します。
func NewSet() *Set {
	return &Set{members: make(map[string]struct{})}
}

// Add はリンクを追加し、新規に追加された場合は true を返します。
func (s *Set) Add(link string) bool {
	if s.Contains(link) {
		return false
	}
	s.members[link] = struct{}{}
	return true
}

// AddAll は複数のリンクを追加します。
func (s *Set) AddAll(links []string) {
	for _, link := range links {
		s.Add(link)
	}
}

func (s *Set) Contains(link string) bool {
	_, ok := s.members[link]
	return ok
}

func (s *Set) Len() int {
	return len(s.members)
}

// Sorted は集合をコードポイント順 (UTF-8 のバイト順) に並べたスライスを返します。
// 空集合の場合も nil ではなく空のスライスを返します。
func (s *Set) Sorted() []string {
	links := make([]string, 0, len(s.members))
	for link := range s.members {
		links = append(links, link)
	}
	sort.Strings(links)
	return links
}
