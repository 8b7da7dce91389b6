package announce

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/oshirase/layout"
	"github.com/ByLCY/oshirase/theme"
)

// Options 配置 Compose。
type Options struct {
	// Catalog 为空时使用 theme.Default()。
	Catalog  theme.Catalog
	Measurer layout.Measurer
	// Metrics 为零值时使用 layout.DefaultMetrics()。
	Metrics  layout.Metrics
	MaxRunes int
}

// Sheet 是一份排好版、带外观的公告，导出器以此为输入。
type Sheet struct {
	Draft      Draft            `json:"draft"`
	Appearance theme.Appearance `json:"appearance"`
	Layout     *layout.Result   `json:"layout"`
}

// PageCount 返回页数。
func (s *Sheet) PageCount() int {
	if s == nil {
		return 0
	}
	return s.Layout.PageCount()
}

// FileName 返回第 index 页（从 0 开始）的导出文件名。
func (s *Sheet) FileName(index int) string {
	return FileName(s.Draft.Title, index, s.PageCount())
}

// Compose 归一化并校验草稿，解析外观后执行排版。
func Compose(ctx context.Context, d Draft, opts Options) (*Sheet, error) {
	catalog := opts.Catalog
	if len(catalog.Themes) == 0 {
		catalog = theme.Default()
	}
	d = d.Normalized()
	if err := d.Validate(catalog, opts.MaxRunes); err != nil {
		return nil, err
	}
	appearance, err := catalog.Resolve(d.Selection())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDraft, err)
	}
	res, err := layout.Build(ctx, layout.Input{
		Title:     d.Title,
		Body:      d.Body,
		Date:      d.Date,
		Signature: d.Signature,
	}, layout.BuildOptions{
		Measurer:   opts.Measurer,
		Metrics:    opts.Metrics,
		FontFamily: appearance.Font.Family,
	})
	if err != nil {
		return nil, err
	}
	return &Sheet{Draft: d, Appearance: appearance, Layout: res}, nil
}

// FileNamePrefix 是所有导出文件名的前缀。
const FileNamePrefix = "おしらせ画"

// FileName 生成 "おしらせ画[_标题][_页码].png"。页码从 1 开始，只在多页时附加。
func FileName(title string, index, total int) string {
	return BaseName(title, index, total) + ".png"
}

// BaseName 与 FileName 相同但不带扩展名，供 PDF/HTML 等其它格式复用。
func BaseName(title string, index, total int) string {
	var b strings.Builder
	b.WriteString(FileNamePrefix)
	if t := strings.TrimSpace(title); t != "" {
		b.WriteString("_")
		b.WriteString(t)
	}
	if total > 1 && index >= 0 {
		b.WriteString("_")
		b.WriteString(strconv.Itoa(index + 1))
	}
	return b.String()
}

// SafeFileName 替换文件系统不接受的字符，用于把 FileName 写入磁盘。
func SafeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		if r < 0x20 {
			return '_'
		}
		return r
	}, name)
}
