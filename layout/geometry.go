package layout

import "math"

// PageContext 描述页面在文档中的位置以及标题、页脚是否存在。
type PageContext struct {
	Index     int
	Total     int
	HasTitle  bool
	HasFooter bool
}

// First 表示是否为第一页。
func (c PageContext) First() bool { return c.Index == 0 }

// Last 表示是否为最后一页。
func (c PageContext) Last() bool { return c.Index == c.Total-1 }

// ResolveHeight 计算导出画布的像素高度。
//
// 多页文档每一页都使用固定的最大高度，保持整组图片尺寸一致；
// 单页文档按内容累加并以最大高度封顶；既无行也无标题时返回占位高度。
func ResolveHeight(page Page, ctx PageContext, box PageBox, style StyleProfile, placeholderHeight float64) float64 {
	maxHeight := box.MaxHeight()
	if ctx.Total > 1 {
		return maxHeight
	}

	showTitle := ctx.First() && ctx.HasTitle
	if len(page.Lines) == 0 && !showTitle {
		return placeholderHeight
	}

	height := box.Padding.Vertical()
	if showTitle {
		height += box.TitleBlockHeight
	}
	height += contentHeight(page.Lines, style)
	if ctx.HasFooter {
		height += box.FooterBlockHeight
	}
	return math.Min(height, maxHeight)
}

// contentHeight 累加行高与段前间距（页首行不计段前间距）。
func contentHeight(lines []Line, style StyleProfile) float64 {
	total := 0.0
	for i, l := range lines {
		total += style.BaseLineHeight()
		if l.IsParagraphStart() && i > 0 {
			total += style.ParagraphSpacing
		}
	}
	return total
}
