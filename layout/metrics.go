package layout

import (
	"errors"
	"fmt"
)

// Metrics 汇总所有可配置的排版常量（单位 px），默认值与线上版本保持一致。
type Metrics struct {
	ContentWidth      float64 `json:"contentWidth"`
	MaxContentHeight  float64 `json:"maxContentHeight"`
	FontSize          float64 `json:"fontSize"`
	LineHeight        float64 `json:"lineHeight"`
	ParagraphSpacing  float64 `json:"paragraphSpacing"`
	TitleFontSize     float64 `json:"titleFontSize"`
	TitleMarginBottom float64 `json:"titleMarginBottom"`
	FooterHeight      float64 `json:"footerHeight"`
	FooterMarginTop   float64 `json:"footerMarginTop"`
	PlaceholderHeight float64 `json:"placeholderHeight"`
	Padding           Padding `json:"padding"`
}

// DefaultMetrics 返回 500px 宽画布的默认排版常量。
func DefaultMetrics() Metrics {
	return Metrics{
		ContentWidth:      500 - 55 - 48,
		MaxContentHeight:  560,
		FontSize:          15,
		LineHeight:        1.8,
		ParagraphSpacing:  20,
		TitleFontSize:     17,
		TitleMarginBottom: 24,
		FooterHeight:      32,
		FooterMarginTop:   24,
		PlaceholderHeight: 200,
		Padding:           Padding{Top: 48, Right: 48, Bottom: 48, Left: 55},
	}
}

// Style 根据字体族生成正文样式。
func (m Metrics) Style(fontFamily string) StyleProfile {
	return StyleProfile{
		FontFamily:       fontFamily,
		FontSize:         m.FontSize,
		LineHeight:       m.LineHeight,
		ParagraphSpacing: m.ParagraphSpacing,
	}
}

// TitleBlockHeight 返回标题块（字号 + 下边距）占用的高度。
func (m Metrics) TitleBlockHeight() float64 {
	return m.TitleFontSize + m.TitleMarginBottom
}

// Box 根据是否存在标题与页脚生成页面几何约束。
func (m Metrics) Box(hasTitle, hasFooter bool) PageBox {
	box := PageBox{
		ContentWidth:     m.ContentWidth,
		MaxContentHeight: m.MaxContentHeight,
		Padding:          m.Padding,
	}
	if hasTitle {
		box.TitleBlockHeight = m.TitleBlockHeight()
	}
	if hasFooter {
		box.FooterBlockHeight = m.FooterHeight
	}
	return box
}

// PageWidth 返回画布总宽度。
func (m Metrics) PageWidth() float64 {
	return m.ContentWidth + m.Padding.Horizontal()
}

// Validate 检查排版常量是否可用。
func (m Metrics) Validate() error {
	var errs []error
	positive := []struct {
		name  string
		value float64
	}{
		{"contentWidth", m.ContentWidth},
		{"maxContentHeight", m.MaxContentHeight},
		{"fontSize", m.FontSize},
		{"lineHeight", m.LineHeight},
		{"titleFontSize", m.TitleFontSize},
	}
	for _, p := range positive {
		if p.value <= 0 {
			errs = append(errs, fmt.Errorf("%s 必须大于 0，当前为 %g", p.name, p.value))
		}
	}
	nonNegative := []struct {
		name  string
		value float64
	}{
		{"paragraphSpacing", m.ParagraphSpacing},
		{"titleMarginBottom", m.TitleMarginBottom},
		{"footerHeight", m.FooterHeight},
		{"footerMarginTop", m.FooterMarginTop},
		{"placeholderHeight", m.PlaceholderHeight},
		{"padding.top", m.Padding.Top},
		{"padding.right", m.Padding.Right},
		{"padding.bottom", m.Padding.Bottom},
		{"padding.left", m.Padding.Left},
	}
	for _, p := range nonNegative {
		if p.value < 0 {
			errs = append(errs, fmt.Errorf("%s 不能为负数，当前为 %g", p.name, p.value))
		}
	}
	return errors.Join(errs...)
}

// MetricKeys 列出 Set 接受的键，顺序与 DSL layout 块的书写习惯一致。
var MetricKeys = []string{
	"content-width", "max-content-height",
	"font-size", "line-height", "paragraph-spacing",
	"title-font-size", "title-margin-bottom",
	"footer-height", "footer-margin-top", "placeholder-height",
	"padding-top", "padding-right", "padding-bottom", "padding-left",
}

// Set 按键覆盖单个排版常量。长度接受 px/pt/mm，line-height 接受 "1.8x"、"1.8" 或绝对长度。
func (m *Metrics) Set(key, value string) error {
	if key == "line-height" {
		f, err := ParseLineHeight(value, m.FontSize)
		if err != nil {
			return err
		}
		m.LineHeight = f
		return nil
	}
	target := m.field(key)
	if target == nil {
		return fmt.Errorf("未知排版常量 %q", key)
	}
	l, err := ParseLength(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*target = l.PX()
	return nil
}

func (m *Metrics) field(key string) *float64 {
	switch key {
	case "content-width":
		return &m.ContentWidth
	case "max-content-height":
		return &m.MaxContentHeight
	case "font-size":
		return &m.FontSize
	case "paragraph-spacing":
		return &m.ParagraphSpacing
	case "title-font-size":
		return &m.TitleFontSize
	case "title-margin-bottom":
		return &m.TitleMarginBottom
	case "footer-height":
		return &m.FooterHeight
	case "footer-margin-top":
		return &m.FooterMarginTop
	case "placeholder-height":
		return &m.PlaceholderHeight
	case "padding-top":
		return &m.Padding.Top
	case "padding-right":
		return &m.Padding.Right
	case "padding-bottom":
		return &m.Padding.Bottom
	case "padding-left":
		return &m.Padding.Left
	}
	return nil
}
