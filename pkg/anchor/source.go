package anchor

// Source は、アンカーのリンク先 (href 相当の生の値) の列を提供できる任意の型を表します。
// HTML文書とフィードの違いはこのインターフェースの背後に閉じ込めます。
type Source interface {
	Hrefs() []string
}

// AllHrefs は Source からリンク先を取り出す汎用関数です。
// src が nil の場合は空のスライスを返します。
func AllHrefs(src Source) []string {
	if src == nil {
		return []string{}
	}
	hrefs := src.Hrefs()
	if hrefs == nil {
		return []string{}
	}
	return hrefs
}
