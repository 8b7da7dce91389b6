package canvasrenderer

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"math"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/oshirase/announce"
	"github.com/ByLCY/oshirase/fonts"
	"github.com/ByLCY/oshirase/layout"
	"github.com/ByLCY/oshirase/renderer"
	"github.com/ByLCY/oshirase/theme"
)

// PlaceholderText 在空页面上以淡色显示。
const PlaceholderText = "伝えたいことを書いてください"

// Renderer draws composed announcements via github.com/tdewolff/canvas.
// 同一个 Renderer 同时充当 layout.Measurer，保证排版测量与绘制使用同一份字体。
type Renderer struct {
	loader     fonts.Loader
	sources    map[string]string // 字体族 → 来源
	pixelRatio float64

	// textMu 串行化文本整形（测量与构建页面），整形器不支持并发调用。
	textMu sync.Mutex

	fontMu         sync.Mutex
	fontFamilies   map[string]*canvas.FontFamily
	fallbackFamily *canvas.FontFamily
	missing        map[string]error
}

var (
	_ renderer.Renderer     = (*Renderer)(nil)
	_ renderer.PageRenderer = (*Renderer)(nil)
	_ layout.Measurer   = (*Renderer)(nil)
	_ layout.Readier    = (*Renderer)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	// FontDir 为字体文件目录；目录中缺少的字体回退到内置 Go 字体。
	FontDir string
	// Sources 为字体族到来源的映射，为空时使用主题目录中的字体。
	Sources map[string]string
	// PixelRatio 为导出 PNG 的像素倍率，<=0 时为 2。
	PixelRatio float64
}

// DefaultSources 从主题目录生成字体族到来源的映射。
func DefaultSources(c theme.Catalog) map[string]string {
	out := make(map[string]string, len(c.Fonts))
	for _, f := range c.Fonts {
		out[f.Family] = f.Source
	}
	return out
}

// NewRenderer creates a canvas renderer.
func NewRenderer(opts Options) *Renderer {
	sources := opts.Sources
	if len(sources) == 0 {
		sources = DefaultSources(theme.Default())
	}
	ratio := opts.PixelRatio
	if ratio <= 0 {
		ratio = 2
	}
	return &Renderer{
		loader:       fonts.Loader{Dir: opts.FontDir},
		sources:      sources,
		pixelRatio:   ratio,
		fontFamilies: map[string]*canvas.FontFamily{},
		missing:      map[string]error{},
	}
}

// Ready 预加载全部字体族。单个字体缺失时回退，不视为错误。
func (r *Renderer) Ready(ctx context.Context) error {
	for family := range r.sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := r.ensureFontFamily(family); err != nil {
			return err
		}
	}
	return nil
}

// Missing 返回回退到内置字体的字体族及原因。
func (r *Renderer) Missing() map[string]error {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	out := make(map[string]error, len(r.missing))
	for k, v := range r.missing {
		out[k] = v
	}
	return out
}

// Measure 实现 layout.Measurer：字号与返回宽度均为 px，
// 与字体系统交互时在边界做 px→pt 与 mm→px 换算。
func (r *Renderer) Measure(spec layout.FontSpec, text string) (float64, error) {
	if spec.Size <= 0 {
		return 0, fmt.Errorf("字号无效: %g", spec.Size)
	}
	r.textMu.Lock()
	defer r.textMu.Unlock()
	face, err := r.fontFace(spec.Family, spec.Size, color.Black)
	if err != nil {
		return 0, err
	}
	return face.TextWidth(text) * layout.MmToPx, nil
}

// Render 将每一页栅格化为 PNG。页面构建串行执行，栅格化与编码按页并发。
func (r *Renderer) Render(ctx context.Context, sheet *announce.Sheet) ([]renderer.Image, error) {
	if sheet == nil || sheet.Layout == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	frames := sheet.Layout.Frames
	if len(frames) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	pages := make([]*canvas.Canvas, len(frames))
	for i, frame := range frames {
		c, err := r.drawFrame(sheet, frame)
		if err != nil {
			return nil, fmt.Errorf("绘制第 %d 页失败: %w", i+1, err)
		}
		pages[i] = c
	}

	images := make([]renderer.Image, len(frames))
	errs := make([]error, len(frames))
	var wg sync.WaitGroup
	for i, c := range pages {
		wg.Add(1)
		go func(i int, c *canvas.Canvas) {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			images[i], errs[i] = r.encodePNG(sheet, i, c)
		}(i, c)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return images, nil
}

// RenderPage 只绘制并编码第 index 页（从 0 开始）。
func (r *Renderer) RenderPage(ctx context.Context, sheet *announce.Sheet, index int) (renderer.Image, error) {
	if sheet == nil || sheet.Layout == nil {
		return renderer.Image{}, fmt.Errorf("渲染结果为空")
	}
	frames := sheet.Layout.Frames
	if index < 0 || index >= len(frames) {
		return renderer.Image{}, fmt.Errorf("页码越界: %d/%d", index+1, len(frames))
	}
	c, err := r.drawFrame(sheet, frames[index])
	if err != nil {
		return renderer.Image{}, fmt.Errorf("绘制第 %d 页失败: %w", index+1, err)
	}
	if err := ctx.Err(); err != nil {
		return renderer.Image{}, err
	}
	return r.encodePNG(sheet, index, c)
}

func (r *Renderer) encodePNG(sheet *announce.Sheet, i int, c *canvas.Canvas) (renderer.Image, error) {
	var buf bytes.Buffer
	if err := renderers.PNG(canvas.DPMM(r.pixelRatio*layout.MmToPx))(&buf, c); err != nil {
		return renderer.Image{}, fmt.Errorf("编码第 %d 页 PNG 失败: %w", i+1, err)
	}
	w, h := c.Size()
	return renderer.Image{
		Name:        sheet.FileName(i),
		ContentType: "image/png",
		Data:        buf.Bytes(),
		Width:       int(math.Round(w * layout.MmToPx * r.pixelRatio)),
		Height:      int(math.Round(h * layout.MmToPx * r.pixelRatio)),
	}, nil
}

// RenderPDF 把所有页面合并为一个 PDF，每页尺寸与 PNG 相同（以 mm 计）。
func (r *Renderer) RenderPDF(sheet *announce.Sheet) (renderer.Image, error) {
	if sheet == nil || sheet.Layout == nil || len(sheet.Layout.Frames) == 0 {
		return renderer.Image{}, fmt.Errorf("缺少可渲染的页面")
	}
	var buf bytes.Buffer
	var writer *pdf.PDF
	for i, frame := range sheet.Layout.Frames {
		c, err := r.drawFrame(sheet, frame)
		if err != nil {
			return renderer.Image{}, fmt.Errorf("绘制第 %d 页失败: %w", i+1, err)
		}
		w, h := c.Size()
		if writer == nil {
			writer = pdf.New(&buf, w, h, nil)
			writer.SetInfo(sheet.Draft.Title, "", "", sheet.Draft.Signature, "oshirase")
		} else {
			writer.NewPage(w, h)
		}
		c.RenderTo(writer)
	}
	if err := writer.Close(); err != nil {
		return renderer.Image{}, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return renderer.Image{
		Name:        announce.BaseName(sheet.Draft.Title, 0, 1) + ".pdf",
		ContentType: "application/pdf",
		Data:        buf.Bytes(),
	}, nil
}

// drawFrame 按 Frame 的几何绘制一页。布局量均为 px，画布单位为 mm。
func (r *Renderer) drawFrame(sheet *announce.Sheet, frame layout.Frame) (*canvas.Canvas, error) {
	r.textMu.Lock()
	defer r.textMu.Unlock()

	res := sheet.Layout
	m := res.Metrics
	style := res.Style
	look := sheet.Appearance
	textColor := nrgba(look.TextColor)

	var ops []func(ctx *canvas.Context)
	left := m.Padding.Left
	right := m.Padding.Left + m.ContentWidth
	y := m.Padding.Top

	if frame.ShowTitle {
		face, err := r.fontFace(style.FontFamily, m.TitleFontSize, textColor)
		if err != nil {
			return nil, err
		}
		text := canvas.NewTextLine(face, res.Document.Title, canvas.Center)
		baseline := toMm(y) + face.Metrics().Ascent
		x := toMm(left + m.ContentWidth/2)
		ops = append(ops, func(ctx *canvas.Context) { ctx.DrawText(x, baseline, text) })
		y += m.TitleBlockHeight()
	}

	lineHeight := style.BaseLineHeight()
	body, err := r.fontFace(style.FontFamily, style.FontSize, textColor)
	if err != nil {
		return nil, err
	}
	offset := centeredBaseline(body, toMm(lineHeight))
	for i, line := range frame.Lines {
		if line.IsParagraphStart() && i > 0 {
			y += style.ParagraphSpacing
		}
		text := canvas.NewTextLine(body, line.Content, canvas.Left)
		baseline := toMm(y) + offset
		ops = append(ops, func(ctx *canvas.Context) { ctx.DrawText(toMm(left), baseline, text) })
		y += lineHeight
	}
	if len(frame.Lines) == 0 {
		faded, err := r.fontFace(style.FontFamily, style.FontSize, nrgba(look.PlaceholderColor()))
		if err != nil {
			return nil, err
		}
		text := canvas.NewTextLine(faded, PlaceholderText, canvas.Left)
		baseline := toMm(y) + offset
		ops = append(ops, func(ctx *canvas.Context) { ctx.DrawText(toMm(left), baseline, text) })
		y += lineHeight
	}

	if frame.ShowFooter {
		y += m.FooterMarginTop
		step := m.FooterHeight / 2
		footerOffset := centeredBaseline(body, toMm(step))
		for _, s := range []string{res.Document.Date, res.Document.Signature} {
			if !hasText(s) {
				continue
			}
			text := canvas.NewTextLine(body, s, canvas.Right)
			baseline := toMm(y) + footerOffset
			ops = append(ops, func(ctx *canvas.Context) { ctx.DrawText(toMm(right), baseline, text) })
			y += step
		}
	}

	// 内容溢出固定高度时向下扩展画布，不裁掉页脚
	height := math.Max(frame.Height, y+m.Padding.Bottom)
	width := frame.Width
	c := canvas.New(toMm(width), toMm(height))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)
	ctx.SetFillColor(nrgba(look.BgColor))
	ctx.DrawPath(0, 0, canvas.Rectangle(toMm(width), toMm(height)))
	for _, op := range ops {
		op(ctx)
	}
	return c, nil
}

// centeredBaseline 返回在给定行高内垂直居中时基线相对行顶的偏移（mm）。
func centeredBaseline(face *canvas.FontFace, lineHeight float64) float64 {
	fm := face.Metrics()
	return (lineHeight-(fm.Ascent+fm.Descent))/2 + fm.Ascent
}

func (r *Renderer) fontFace(family string, sizePx float64, col color.Color) (*canvas.FontFace, error) {
	f, err := r.ensureFontFamily(family)
	if err != nil {
		return nil, err
	}
	return f.Face(sizePx*layout.PxToPt, col, canvas.FontRegular, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(name string) (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if f, ok := r.fontFamilies[name]; ok {
		return f, nil
	}
	family := canvas.NewFontFamily(name)
	if err := r.loadFontIntoFamily(family, name); err != nil {
		fallback, fbErr := r.fallback()
		if fbErr != nil {
			return nil, err
		}
		r.missing[name] = err
		r.fontFamilies[name] = fallback
		return fallback, nil
	}
	r.fontFamilies[name] = family
	return family, nil
}

func (r *Renderer) loadFontIntoFamily(family *canvas.FontFamily, name string) error {
	src, ok := r.sources[name]
	if !ok {
		return fmt.Errorf("%w: 未配置字体族 %q", fonts.ErrNotFound, name)
	}
	data, err := r.loader.Load(src)
	if err != nil {
		return err
	}
	return family.LoadFont(data, 0, canvas.FontRegular)
}

func (r *Renderer) fallback() (*canvas.FontFamily, error) {
	if r.fallbackFamily != nil {
		return r.fallbackFamily, nil
	}
	family := canvas.NewFontFamily("oshirase-fallback")
	if err := family.LoadFont(fonts.Fallback(), 0, canvas.FontRegular); err != nil {
		return nil, err
	}
	r.fallbackFamily = family
	return family, nil
}

func nrgba(c theme.Color) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// toMm 将 px 转换为画布使用的 mm。
func toMm(px float64) float64 { return px * layout.PxToMm }

func hasText(s string) bool { return strings.TrimSpace(s) != "" }
