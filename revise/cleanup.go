package revise

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/ByLCY/oshirase/importer"
)

var (
	fenceRe        = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")
	markdownHintRe = regexp.MustCompile("(?m)^\\s{0,3}(?:#{1,6}\\s|[-*+]\\s|>\\s?|\\d+[.)]\\s)|\\*\\*|__|`")
)

// Clean 去掉模型偶尔附带的 Markdown 标记，只保留公告可用的纯文本。
// 不含 Markdown 记号的输出原样返回，段落之间保留空行。
func Clean(s string) string {
	s = strings.TrimSpace(s)
	if m := fenceRe.FindStringSubmatch(s); len(m) > 1 {
		s = m[1]
	}
	if !markdownHintRe.MatchString(s) {
		return s
	}

	src := []byte(s)
	root := goldmark.New().Parser().Parse(text.NewReader(src))
	var blocks []string
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.ThematicBreak:
			continue
		case *ast.List:
			var items []string
			for item := node.FirstChild(); item != nil; item = item.NextSibling() {
				if t := importer.PlainText(item, src); t != "" {
					items = append(items, t)
				}
			}
			if len(items) > 0 {
				blocks = append(blocks, strings.Join(items, "\n"))
			}
			continue
		}
		if t := importer.PlainText(n, src); t != "" {
			blocks = append(blocks, t)
		}
	}
	return strings.Join(blocks, "\n\n")
}
