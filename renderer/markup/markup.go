// Package markup 把排好版的公告输出为带内联样式的 HTML 片段，每页一个 <div>，
// 供浏览器端实时预览；行、段落间距与分页均来自 layout 的结果，浏览器不再折行。
package markup

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ByLCY/oshirase/announce"
	"github.com/ByLCY/oshirase/layout"
	"github.com/ByLCY/oshirase/renderer"
)

// PlaceholderText 在空页面上以淡色显示。
const PlaceholderText = "伝えたいことを書いてください"

// Renderer 输出 HTML 标记。
type Renderer struct{}

var _ renderer.Renderer = Renderer{}

// Render 实现 renderer.Renderer。
func (Renderer) Render(ctx context.Context, sheet *announce.Sheet) ([]renderer.Image, error) {
	if sheet == nil || sheet.Layout == nil || len(sheet.Layout.Frames) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}
	frames := sheet.Layout.Frames
	out := make([]renderer.Image, 0, len(frames))
	for i, frame := range frames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := html.Render(&buf, Page(sheet, frame)); err != nil {
			return nil, fmt.Errorf("输出第 %d 页 HTML 失败: %w", i+1, err)
		}
		out = append(out, renderer.Image{
			Name:        announce.BaseName(sheet.Draft.Title, i, len(frames)) + ".html",
			ContentType: "text/html; charset=utf-8",
			Data:        buf.Bytes(),
			Width:       int(frame.Width),
			Height:      int(frame.Height),
		})
	}
	return out, nil
}

// Page 构建单页的节点树。
func Page(sheet *announce.Sheet, frame layout.Frame) *html.Node {
	res := sheet.Layout
	m := res.Metrics
	look := sheet.Appearance

	page := element(atom.Div, style{
		{"width", px(frame.Width)},
		{"min-height", px(frame.Height)},
		{"background-color", look.BgColor.Hex()},
		{"color", look.TextColor.Hex()},
		{"font-family", quoteFamily(res.Style.FontFamily)},
		{"padding", strings.Join([]string{px(m.Padding.Top), px(m.Padding.Right), px(m.Padding.Bottom), px(m.Padding.Left)}, " ")},
		{"box-sizing", "border-box"},
		{"white-space", "pre"},
	})
	page.Attr = append(page.Attr,
		html.Attribute{Key: "class", Val: "oshirase-page"},
		html.Attribute{Key: "data-page", Val: strconv.Itoa(frame.Index + 1)},
	)

	if frame.ShowTitle {
		title := element(atom.Div, style{
			{"font-size", px(m.TitleFontSize)},
			{"margin-bottom", px(m.TitleMarginBottom)},
			{"text-align", "center"},
		})
		title.AppendChild(text(res.Document.Title))
		page.AppendChild(title)
	}

	body := element(atom.Div, style{
		{"font-size", px(res.Style.FontSize)},
		{"line-height", strconv.FormatFloat(res.Style.LineHeight, 'f', -1, 64)},
	})
	for i, line := range frame.Lines {
		var st style
		if line.IsParagraphStart() && i > 0 {
			st = style{{"margin-top", px(res.Style.ParagraphSpacing)}}
		}
		div := element(atom.Div, st)
		div.AppendChild(text(line.Content))
		body.AppendChild(div)
	}
	if len(frame.Lines) == 0 {
		div := element(atom.Div, style{{"color", look.PlaceholderColor().Hex()}})
		div.AppendChild(text(PlaceholderText))
		body.AppendChild(div)
	}
	page.AppendChild(body)

	if frame.ShowFooter {
		footer := element(atom.Div, style{
			{"margin-top", px(m.FooterMarginTop)},
			{"font-size", px(res.Style.FontSize)},
			{"text-align", "right"},
		})
		for _, s := range []string{res.Document.Date, res.Document.Signature} {
			if strings.TrimSpace(s) == "" {
				continue
			}
			div := element(atom.Div, nil)
			div.AppendChild(text(s))
			footer.AppendChild(div)
		}
		page.AppendChild(footer)
	}
	return page
}

type style [][2]string

func (s style) String() string {
	parts := make([]string, 0, len(s))
	for _, kv := range s {
		parts = append(parts, kv[0]+":"+kv[1])
	}
	return strings.Join(parts, ";")
}

func element(a atom.Atom, st style) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if len(st) > 0 {
		n.Attr = append(n.Attr, html.Attribute{Key: "style", Val: st.String()})
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

func quoteFamily(family string) string {
	if family == "" {
		return "sans-serif"
	}
	return "'" + strings.ReplaceAll(family, "'", "") + "', sans-serif"
}
