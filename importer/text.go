package importer

import (
	"bufio"
	"io"
	"strings"
)

// TextImporter 处理纯文本：空行分隔段落，段内换行保留。
type TextImporter struct{}

func (p *TextImporter) Import(r io.Reader, filename string) (*Imported, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	doc := &Imported{}
	var current strings.Builder
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			doc.add(current.String())
			current.Reset()
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	doc.add(current.String())
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return doc, nil
}
