package importer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
)

// DOCXImporter 处理 .docx：Title/Heading1 样式的第一段作为标题。
type DOCXImporter struct{}

func (p *DOCXImporter) Import(r io.Reader, filename string) (*Imported, error) {
	tmp, size, err := spoolToTemp(r, "oshirase-docx-*.docx")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	parsed, err := docx.Parse(tmp, size)
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	doc := &Imported{}
	for _, item := range parsed.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := docxParagraphText(para)
		if text == "" {
			continue
		}
		if doc.Title == "" && len(doc.Paragraphs) == 0 && isTitleStyle(para) {
			doc.Title = text
			continue
		}
		doc.add(text)
	}
	return doc, nil
}

func isTitleStyle(para *docx.Paragraph) bool {
	if para.Properties == nil || para.Properties.Style == nil {
		return false
	}
	switch strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", "")) {
	case "title", "heading1":
		return true
	}
	return false
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
