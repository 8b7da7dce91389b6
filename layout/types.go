package layout

// 该文件定义排版结果与样式参数，供排版计算、导出器与调试 JSON 共用。
// 所有长度单位均为 CSS 像素（px）。

// StyleProfile 描述一次排版所用的正文样式，排版期间不可变。
type StyleProfile struct {
	FontFamily       string  `json:"fontFamily"`
	FontSize         float64 `json:"fontSize"`
	LineHeight       float64 `json:"lineHeight"` // 行高倍数
	ParagraphSpacing float64 `json:"paragraphSpacing"`
}

// BaseLineHeight 返回单行的像素高度（字号 × 行高倍数）。
func (s StyleProfile) BaseLineHeight() float64 {
	return s.FontSize * s.LineHeight
}

// FontSpec 返回测量正文时使用的字体描述。
func (s StyleProfile) FontSpec() FontSpec {
	return FontSpec{Family: s.FontFamily, Size: s.FontSize}
}

// Padding 记录页面四边的内边距。
type Padding struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Vertical 返回上下内边距之和。
func (p Padding) Vertical() float64 { return p.Top + p.Bottom }

// Horizontal 返回左右内边距之和。
func (p Padding) Horizontal() float64 { return p.Left + p.Right }

// PageBox 描述一份文档中所有页面共用的几何约束。
// TitleBlockHeight 只作用于第一页；无标题时为 0，无日期与署名时 FooterBlockHeight 为 0。
type PageBox struct {
	ContentWidth      float64 `json:"contentWidth"`
	MaxContentHeight  float64 `json:"maxContentHeight"`
	Padding           Padding `json:"padding"`
	TitleBlockHeight  float64 `json:"titleBlockHeight"`
	FooterBlockHeight float64 `json:"footerBlockHeight"`
}

// Width 返回页面总宽度（内容宽度加左右内边距）。
func (b PageBox) Width() float64 { return b.ContentWidth + b.Padding.Horizontal() }

// MaxHeight 返回页面允许的最大高度，多页文档的每一页都使用该高度。
func (b PageBox) MaxHeight() float64 { return b.MaxContentHeight + b.Padding.Vertical() }

// LineKind 标记一行是否需要额外的段前间距。
type LineKind string

const (
	LineNormal         LineKind = "normal"
	LineParagraphStart LineKind = "paragraph-start"
)

// Line 是排版后的一行正文，Content 永远非空。
type Line struct {
	Content string   `json:"content"`
	Kind    LineKind `json:"kind"`
}

// IsParagraphStart 表示该行前面原文中有空行。
func (l Line) IsParagraphStart() bool { return l.Kind == LineParagraphStart }

// Page 是按顺序排列的行集合；页码、首页、末页均由位置推导。
type Page struct {
	Lines []Line `json:"lines"`
}

// Document 是一次排版的完整输出，每次重新排版都会整体替换。
type Document struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	Date      string `json:"date"`
	Signature string `json:"signature"`
	Pages     []Page `json:"-"`
}

// HasTitle 判断标题是否包含可见字符。
func (d Document) HasTitle() bool { return hasText(d.Title) }

// HasFooter 判断是否需要渲染日期或署名。
func (d Document) HasFooter() bool { return hasText(d.Date) || hasText(d.Signature) }

// Result 保存排版结果以及导出器所需的逐页几何信息。
type Result struct {
	Document Document     `json:"document"`
	Style    StyleProfile `json:"style"`
	Box      PageBox      `json:"box"`
	Metrics  Metrics      `json:"metrics"`
	Frames   []Frame      `json:"frames"`
}

// Frame 是一页导出画布：行内容、解析后的像素尺寸以及标题/页脚是否出现在该页。
type Frame struct {
	Index       int     `json:"index"`
	First       bool    `json:"first"`
	Last        bool    `json:"last"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Lines       []Line  `json:"lines"`
	ShowTitle   bool    `json:"showTitle"`
	ShowFooter  bool    `json:"showFooter"`
	Placeholder bool    `json:"placeholder,omitempty"` // 空文档，导出器绘制占位提示
}

// PageCount 返回页面数量。
func (r *Result) PageCount() int {
	if r == nil {
		return 0
	}
	return len(r.Frames)
}
