package linkset

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/shouni/go-utils/iohandler"
)

// DefaultOutputFile はデフォルトの出力ファイル名です。
const DefaultOutputFile = "licensed_character_links.txt"

// Write は各リンクを1行ずつ、改行で終端して w に書き込みます。
func Write(w io.Writer, links []string) error {
	bw := bufio.NewWriter(w)
	for _, link := range links {
		if _, err := bw.WriteString(link); err != nil {
			return fmt.Errorf("リンクの書き込みに失敗しました: %w", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("リンクの書き込みに失敗しました: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("リンクの書き込みに失敗しました: %w", err)
	}
	return nil
}

// WriteFile はリンクを path のファイルに書き込みます。既存の内容は切り詰められます。
// path が空の場合は標準出力に書き込みます。
func WriteFile(path string, links []string) error {
	var buf bytes.Buffer
	if err := Write(&buf, links); err != nil {
		return err
	}
	if err := iohandler.WriteOutput(path, buf.Bytes()); err != nil {
		return fmt.Errorf("出力ファイルの書き込みに失敗しました (%s): %w", path, err)
	}
	return nil
}
