package importer

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownImporter 用 goldmark 解析 Markdown。第一个一级标题作为公告标题，
// 其余标题与块级内容按顺序成为段落，行内标记被去除。
type MarkdownImporter struct{}

func (p *MarkdownImporter) Import(r io.Reader, filename string) (*Imported, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	root := goldmark.New().Parser().Parse(text.NewReader(src))

	doc := &Imported{}
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 && doc.Title == "" {
			doc.Title = PlainText(h, src)
			continue
		}
		if list, ok := n.(*ast.List); ok {
			for item := list.FirstChild(); item != nil; item = item.NextSibling() {
				doc.add(PlainText(item, src))
			}
			continue
		}
		doc.add(PlainText(n, src))
	}
	return doc, nil
}

// PlainText 提取 goldmark 节点的纯文本，软换行与硬换行都保留为 "\n"。
func PlainText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	writePlain(&buf, n, src)
	return strings.TrimSpace(buf.String())
}

func writePlain(buf *bytes.Buffer, n ast.Node, src []byte) {
	switch node := n.(type) {
	case *ast.Text:
		buf.Write(node.Segment.Value(src))
		if node.HardLineBreak() || node.SoftLineBreak() {
			buf.WriteByte('\n')
		}
		return
	case *ast.String:
		buf.Write(node.Value)
		return
	case *ast.CodeBlock, *ast.FencedCodeBlock:
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
		return
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if c.Type() == ast.TypeBlock && buf.Len() > 0 && !bytes.HasSuffix(buf.Bytes(), []byte("\n")) {
			buf.WriteByte('\n')
		}
		writePlain(buf, c, src)
	}
}
