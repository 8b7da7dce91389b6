// Package theme 定义固定的主题、字体与背景目录，并把用户选择解析为渲染外观。
// 排版核心只接触解析后的字体族名称，不接触这里的目录键。
package theme

import (
	"fmt"
	"strconv"
	"strings"
)

// 目录键。
const (
	Formal = "formal"
	Simple = "simple"
	Soft   = "soft"
	Cute   = "cute"
	Custom = "custom"

	Gothic      = "gothic"
	Mincho      = "mincho"
	Rounded     = "rounded"
	Handwriting = "handwriting"

	White = "white"
	Gray  = "gray"
	Pink  = "pink"
	Blue  = "blue"
	Dark  = "dark"
)

// Theme 是一组预设的字体与背景。
type Theme struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	DefaultFont       string `json:"defaultFont"`
	DefaultBackground string `json:"defaultBackground"`
	// IsCustom 为 true 时使用用户自选的字体与背景。
	IsCustom bool `json:"isCustom,omitempty"`
}

// Font 描述一种可选字体。Source 交给 fonts.Load 解析。
type Font struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Family string `json:"family"`
	Source string `json:"source"`
	Notice string `json:"notice,omitempty"`
}

// Background 描述背景色与对应的文字颜色。
type Background struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BgColor   string `json:"bgColor"`
	TextColor string `json:"textColor"`
}

var themes = []Theme{
	{ID: Formal, Name: "フォーマル", Description: "謝罪、公式発表など", DefaultFont: Mincho, DefaultBackground: White},
	{ID: Simple, Name: "シンプル", Description: "お知らせ、報告など汎用的に", DefaultFont: Gothic, DefaultBackground: White},
	{ID: Soft, Name: "やさしい", Description: "ファンへの報告、個人的なお知らせなど", DefaultFont: Rounded, DefaultBackground: White},
	{ID: Cute, Name: "かわいい", Description: "親しみやすい、カジュアルなお知らせなど", DefaultFont: Handwriting, DefaultBackground: White},
	{ID: Custom, Name: "カスタム", Description: "自分で設定する", DefaultFont: Gothic, DefaultBackground: White, IsCustom: true},
}

var fontList = []Font{
	{ID: Mincho, Name: "明朝", Family: "Noto Serif JP", Source: "NotoSerifJP-Regular.ttf"},
	{ID: Gothic, Name: "ゴシック", Family: "Noto Sans JP", Source: "NotoSansJP-Regular.ttf"},
	{ID: Rounded, Name: "丸ゴシック", Family: "M PLUS Rounded 1c", Source: "MPLUSRounded1c-Regular.ttf"},
	{ID: Handwriting, Name: "手書き", Family: "Yomogi", Source: "Yomogi-Regular.ttf", Notice: "難しい漢字は表示されないことがあります"},
}

var backgrounds = []Background{
	{ID: White, Name: "白", BgColor: "#FFFFFF", TextColor: "#171717"},
	{ID: Gray, Name: "グレー", BgColor: "#F5F5F5", TextColor: "#171717"},
	{ID: Pink, Name: "ピンク", BgColor: "#FDF2F5", TextColor: "#4A3F42"},
	{ID: Blue, Name: "ブルー", BgColor: "#F2F6FB", TextColor: "#3F444A"},
	{ID: Dark, Name: "ダーク", BgColor: "#1a1a1a", TextColor: "#FFFFFF"},
}

// Catalog 是对外公开的完整目录，顺序即展示顺序。
type Catalog struct {
	Themes      []Theme      `json:"themes"`
	Fonts       []Font       `json:"fonts"`
	Backgrounds []Background `json:"backgrounds"`
}

// Default 返回内置目录的副本。
func Default() Catalog {
	return Catalog{
		Themes:      append([]Theme(nil), themes...),
		Fonts:       append([]Font(nil), fontList...),
		Backgrounds: append([]Background(nil), backgrounds...),
	}
}

// Theme 按键查找主题。
func (c Catalog) Theme(id string) (Theme, bool) {
	for _, t := range c.Themes {
		if t.ID == id {
			return t, true
		}
	}
	return Theme{}, false
}

// Font 按键查找字体。
func (c Catalog) Font(id string) (Font, bool) {
	for _, f := range c.Fonts {
		if f.ID == id {
			return f, true
		}
	}
	return Font{}, false
}

// Background 按键查找背景。
func (c Catalog) Background(id string) (Background, bool) {
	for _, b := range c.Backgrounds {
		if b.ID == id {
			return b, true
		}
	}
	return Background{}, false
}

// Selection 是用户在界面上的三项选择；空字符串表示使用主题默认值。
type Selection struct {
	Theme      string `json:"theme"`
	Font       string `json:"font"`
	Background string `json:"background"`
}

// Appearance 是解析后的渲染外观。
type Appearance struct {
	Theme      Theme      `json:"theme"`
	Font       Font       `json:"font"`
	Background Background `json:"background"`
	BgColor    Color      `json:"-"`
	TextColor  Color      `json:"-"`
}

// PlaceholderColor 返回占位文字的淡色（文字颜色 40% 不透明度）。
func (a Appearance) PlaceholderColor() Color {
	c := a.TextColor
	c.A = 0x66
	return c
}

// Resolve 把选择解析为外观。预设主题忽略字体与背景选择，
// 自定义主题使用选择值，缺省时回退到主题默认值。
func (c Catalog) Resolve(sel Selection) (Appearance, error) {
	themeID := sel.Theme
	if themeID == "" {
		themeID = Formal
	}
	t, ok := c.Theme(themeID)
	if !ok {
		return Appearance{}, fmt.Errorf("未知主题 %q", sel.Theme)
	}
	fontID, bgID := t.DefaultFont, t.DefaultBackground
	if t.IsCustom {
		if sel.Font != "" {
			fontID = sel.Font
		}
		if sel.Background != "" {
			bgID = sel.Background
		}
	}
	f, ok := c.Font(fontID)
	if !ok {
		return Appearance{}, fmt.Errorf("未知字体 %q", fontID)
	}
	b, ok := c.Background(bgID)
	if !ok {
		return Appearance{}, fmt.Errorf("未知背景 %q", bgID)
	}
	bg, err := ParseColor(b.BgColor)
	if err != nil {
		return Appearance{}, err
	}
	fg, err := ParseColor(b.TextColor)
	if err != nil {
		return Appearance{}, err
	}
	return Appearance{Theme: t, Font: f, Background: b, BgColor: bg, TextColor: fg}, nil
}

// Color 为 8 位 RGBA。
type Color struct {
	R, G, B, A uint8
}

// Hex 返回 #RRGGBB 或带透明度的 #RRGGBBAA。
func (c Color) Hex() string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// ParseColor 解析 #RGB、#RRGGBB 与 #RRGGBBAA。
func ParseColor(value string) (Color, error) {
	v := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(v) == 3 {
		v = strings.Repeat(v[0:1], 2) + strings.Repeat(v[1:2], 2) + strings.Repeat(v[2:3], 2)
	}
	if len(v) == 6 {
		v += "ff"
	}
	if len(v) != 8 {
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
	}
	return Color{R: uint8(n >> 24), G: uint8(n >> 16), B: uint8(n >> 8), A: uint8(n)}, nil
}
