package layout

import (
	"context"
	"fmt"
	"strings"
)

// Build 执行完整的排版流程：折行、段落归一化、分页与页面几何解析。
// 除测量后端外没有其它副作用，可在每次输入变化时重新调用。
func Build(ctx context.Context, in Input, opts BuildOptions) (*Result, error) {
	metrics := opts.Metrics
	if metrics == (Metrics{}) {
		metrics = DefaultMetrics()
	}
	if err := metrics.Validate(); err != nil {
		return nil, fmt.Errorf("排版常量无效: %w", err)
	}

	doc := Document{
		Title:     in.Title,
		Body:      in.Body,
		Date:      in.Date,
		Signature: in.Signature,
	}
	style := metrics.Style(opts.FontFamily)
	box := metrics.Box(doc.HasTitle(), doc.HasFooter())

	if !hasText(in.Body) && !doc.HasTitle() {
		doc.Pages = []Page{{}}
		return assemble(doc, style, box, metrics), nil
	}

	if opts.Measurer == nil {
		return nil, ErrMeasurementUnavailable
	}
	if err := EnsureReady(ctx, opts.Measurer); err != nil {
		return nil, err
	}

	measure := boundMeasure(ctx, opts.Measurer, style.FontSpec())
	lines, err := Normalize(in.Body, func(paragraph string) ([]string, error) {
		return Wrap(paragraph, box.ContentWidth, measure)
	})
	if err != nil {
		return nil, fmt.Errorf("正文折行失败: %w", err)
	}

	doc.Pages = Paginate(lines, box, style)
	return assemble(doc, style, box, metrics), nil
}

func assemble(doc Document, style StyleProfile, box PageBox, metrics Metrics) *Result {
	total := len(doc.Pages)
	frames := make([]Frame, total)
	for i, page := range doc.Pages {
		pc := PageContext{
			Index:     i,
			Total:     total,
			HasTitle:  doc.HasTitle(),
			HasFooter: doc.HasFooter(),
		}
		frames[i] = Frame{
			Index:       i,
			First:       pc.First(),
			Last:        pc.Last(),
			Width:       box.Width(),
			Height:      ResolveHeight(page, pc, box, style, metrics.PlaceholderHeight),
			Lines:       page.Lines,
			ShowTitle:   pc.First() && pc.HasTitle,
			ShowFooter:  pc.Last() && pc.HasFooter,
			Placeholder: len(page.Lines) == 0 && !(pc.First() && pc.HasTitle),
		}
	}
	return &Result{
		Document: doc,
		Style:    style,
		Box:      box,
		Metrics:  metrics,
		Frames:   frames,
	}
}

func hasText(s string) bool {
	return strings.TrimSpace(s) != ""
}
