package layout

// Paginate 把行按顺序装入页面，单页累计高度不超过可用高度。
//
// 第一页的可用高度需扣除标题块；段首行只有在页面已有内容时才附加段前间距。
// 单独一行也放不下时仍独占一页，因此总能结束且不会丢弃内容。
// 页脚高度不参与分页，始终追加在最后一页。
func Paginate(lines []Line, box PageBox, style StyleProfile) []Page {
	base := style.BaseLineHeight()

	var pages []Page
	var current []Line
	height := 0.0
	firstPage := true

	for _, line := range lines {
		lineHeight := base
		if line.IsParagraphStart() && len(current) > 0 {
			lineHeight += style.ParagraphSpacing
		}

		available := box.MaxContentHeight
		if firstPage {
			available -= box.TitleBlockHeight
		}

		if height+lineHeight > available && len(current) > 0 {
			pages = append(pages, Page{Lines: current})
			current = nil
			height = 0
			firstPage = false
			lineHeight = base
		}

		current = append(current, line)
		height += lineHeight
	}

	if len(current) > 0 || len(pages) == 0 {
		pages = append(pages, Page{Lines: current})
	}
	return pages
}
