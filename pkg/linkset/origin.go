package linkset

import (
	"fmt"
	"net/url"
	"strings"
)

// Origin はページのスキームとホスト (ポート・ユーザー情報を含む、記述されたままの authority) の組です。
// ソースURLから一度だけ計算され、その後は変更されません。
type Origin struct {
	Scheme string
	Host   string
}

// relativeSchemes は相対参照の解決対象となるスキームです。
var relativeSchemes = map[string]bool{
	"http": true, "https": true, "ftp": true, "sftp": true, "file": true, "ws": true, "wss": true,
}

// NewOrigin はソースURLからオリジンを求めます。
// ホスト部分は正規化せず、URLに書かれた文字列をそのまま使用します。
func NewOrigin(rawURL string) (Origin, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Origin{}, fmt.Errorf("URLのパースエラー: %w", err)
	}
	if u.Scheme == "" {
		return Origin{}, fmt.Errorf("URLにスキームがありません: %s", rawURL)
	}

	host := ""
	if rest, ok := strings.CutPrefix(rawURL[len(u.Scheme):], "://"); ok {
		host = rest
		if i := strings.IndexAny(host, "/?#"); i >= 0 {
			host = host[:i]
		}
	}

	return Origin{Scheme: u.Scheme, Host: host}, nil
}

// String は "scheme://host" 形式の文字列を返します。
func (o Origin) String() string {
	return o.Scheme + "://" + o.Host
}

// Resolve はアンカーのリンク先をオリジンに対して解決し、絶対URLを返します。
// 参照の各部分は書かれたままの文字列で連結し、パーセントエンコードなどの正規化は行いません。
// 解決できないリンク先の場合は false を返します。
func (o Origin) Resolve(href string) (string, bool) {
	if o.Scheme == "" {
		return "", false
	}

	href = cleanHref(href)
	if href == "" {
		return o.String(), true
	}

	ref, ok := splitReference(href)
	if !ok {
		return "", false
	}

	if ref.scheme == "" {
		ref.scheme = o.Scheme
	}
	// 別スキーム (mailto: など) は解決せずにそのまま返す
	if ref.scheme != o.Scheme || !relativeSchemes[ref.scheme] {
		return href, true
	}
	if ref.hasAuthority {
		return ref.String(), true
	}

	ref.authority, ref.hasAuthority = o.Host, true
	if ref.path != "" {
		ref.path = mergePath(ref.path)
	}
	return ref.String(), true
}

// Keep は解決済みURLがオリジン文字列で始まるかどうかを返します。
// ホストの一致ではなく前方一致で判定するため、"https://example.com.evil.org" も一致します。
func (o Origin) Keep(resolved string) bool {
	return strings.HasPrefix(resolved, o.String())
}

// Filter は各リンク先を解決し、オリジンで始まるものだけを入力順に返します。
func (o Origin) Filter(hrefs []string) []string {
	kept := make([]string, 0, len(hrefs))
	for _, href := range hrefs {
		resolved, ok := o.Resolve(href)
		if !ok || !o.Keep(resolved) {
			continue
		}
		kept = append(kept, resolved)
	}
	return kept
}

// reference は書かれたままの文字列で分割した参照の各部分です。
type reference struct {
	scheme       string
	authority    string
	hasAuthority bool
	path         string
	query        string
	fragment     string
}

// splitReference は参照をスキーム・authority・パス・クエリ・フラグメントに分割します。
// エスケープの検証は行わず、角括弧の対応が取れていない authority だけを不正とします。
func splitReference(href string) (reference, bool) {
	var ref reference
	rest := href

	if i := strings.IndexByte(rest, ':'); i > 0 && isScheme(rest[:i]) {
		ref.scheme = strings.ToLower(rest[:i])
		rest = rest[i+1:]
	}

	if strings.HasPrefix(rest, "//") {
		rest = rest[2:]
		end := len(rest)
		if i := strings.IndexAny(rest, "/?#"); i >= 0 {
			end = i
		}
		ref.authority, ref.hasAuthority = rest[:end], true
		rest = rest[end:]
		if strings.Contains(ref.authority, "[") != strings.Contains(ref.authority, "]") {
			return reference{}, false
		}
	}

	rest, ref.fragment, _ = strings.Cut(rest, "#")
	ref.path, ref.query, _ = strings.Cut(rest, "?")
	return ref, true
}

func isScheme(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case i > 0 && ('0' <= c && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}

// String は各部分を連結します。空のクエリとフラグメントは出力しません。
func (r reference) String() string {
	var b strings.Builder
	b.WriteString(r.scheme)
	b.WriteString("://")
	b.WriteString(r.authority)
	if r.path != "" && !strings.HasPrefix(r.path, "/") {
		b.WriteByte('/')
	}
	b.WriteString(r.path)
	if r.query != "" {
		b.WriteByte('?')
		b.WriteString(r.query)
	}
	if r.fragment != "" {
		b.WriteByte('#')
		b.WriteString(r.fragment)
	}
	return b.String()
}

// mergePath は空のベースパスに参照パスを結合し、ドットセグメントを取り除きます。
// 相対パスの途中にある空セグメントは詰め、絶対パスの空セグメントはそのまま残します。
func mergePath(refPath string) string {
	parts := strings.Split(refPath, "/")
	segments := parts
	if !strings.HasPrefix(refPath, "/") {
		segments = make([]string, 1, len(parts)+1)
		for i, seg := range parts {
			if seg == "" && i != len(parts)-1 {
				continue
			}
			segments = append(segments, seg)
		}
	}

	resolved := make([]string, 0, len(segments))
	for _, seg := range segments {
		switch seg {
		case ".":
		case "..":
			if len(resolved) > 0 {
				resolved = resolved[:len(resolved)-1]
			}
		default:
			resolved = append(resolved, seg)
		}
	}
	if last := segments[len(segments)-1]; last == "." || last == ".." {
		resolved = append(resolved, "")
	}

	if p := strings.Join(resolved, "/"); p != "" {
		return p
	}
	return "/"
}

// cleanHref は先頭の制御文字・空白を取り除き、タブと改行を削除します。
// 末尾の空白は書かれたまま残します。
func cleanHref(href string) string {
	href = strings.TrimLeftFunc(href, func(r rune) bool { return r <= ' ' })
	if strings.ContainsAny(href, "\t\r\n") {
		href = strings.NewReplacer("\t", "", "\r", "", "\n", "").Replace(href)
	}
	return href
}
