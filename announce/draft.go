// Package announce 在排版核心之外处理一份公告草稿：边界校验与归一化、
// 主题解析、调用 layout.Build，以及 .oshirase 文件的解码。
package announce

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/ByLCY/oshirase/theme"
)

// ErrInvalidDraft 表示草稿未通过边界校验。
var ErrInvalidDraft = errors.New("announce: 草稿无效")

// DefaultMaxRunes 是单个字段允许的最大码点数。
const DefaultMaxRunes = 10000

// Draft 是用户编辑中的公告，也是持久化与 HTTP 接口的载荷。
type Draft struct {
	Theme      string `json:"theme"`
	Font       string `json:"font"`
	Background string `json:"background"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	Date       string `json:"date"`
	Signature  string `json:"signature"`
}

// Selection 返回草稿中的主题选择。
func (d Draft) Selection() theme.Selection {
	return theme.Selection{Theme: d.Theme, Font: d.Font, Background: d.Background}
}

// IsEmpty 判断所有文本字段是否都为空白。
func (d Draft) IsEmpty() bool {
	for _, s := range []string{d.Title, d.Body, d.Date, d.Signature} {
		if strings.TrimSpace(s) != "" {
			return false
		}
	}
	return true
}

// Normalized 统一换行为 "\n" 并做 NFC 归一化，
// 使分解形式的假名（か + ゛）按一个码点测量与折行。
func (d Draft) Normalized() Draft {
	d.Title = normalizeText(d.Title)
	d.Body = normalizeText(d.Body)
	d.Date = normalizeText(d.Date)
	d.Signature = normalizeText(d.Signature)
	d.Theme = strings.TrimSpace(d.Theme)
	d.Font = strings.TrimSpace(d.Font)
	d.Background = strings.TrimSpace(d.Background)
	return d
}

func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if !utf8.ValidString(s) {
		return s
	}
	return norm.NFC.String(s)
}

// Validate 检查编码、目录键与长度。maxRunes <= 0 时使用 DefaultMaxRunes。
func (d Draft) Validate(c theme.Catalog, maxRunes int) error {
	if maxRunes <= 0 {
		maxRunes = DefaultMaxRunes
	}
	fields := []struct {
		name  string
		value string
	}{
		{"title", d.Title},
		{"body", d.Body},
		{"date", d.Date},
		{"signature", d.Signature},
	}
	var errs []error
	for _, f := range fields {
		if !utf8.ValidString(f.value) {
			errs = append(errs, fmt.Errorf("%s 不是有效的 UTF-8", f.name))
			continue
		}
		if n := utf8.RuneCountInString(f.value); n > maxRunes {
			errs = append(errs, fmt.Errorf("%s 过长: %d 个字符，上限 %d", f.name, n, maxRunes))
		}
	}
	if d.Theme != "" {
		if _, ok := c.Theme(d.Theme); !ok {
			errs = append(errs, fmt.Errorf("未知主题 %q", d.Theme))
		}
	}
	if d.Font != "" {
		if _, ok := c.Font(d.Font); !ok {
			errs = append(errs, fmt.Errorf("未知字体 %q", d.Font))
		}
	}
	if d.Background != "" {
		if _, ok := c.Background(d.Background); !ok {
			errs = append(errs, fmt.Errorf("未知背景 %q", d.Background))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidDraft, errors.Join(errs...))
	}
	return nil
}
