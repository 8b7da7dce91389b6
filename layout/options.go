package layout

// BuildOptions 配置排版阶段所需的依赖，例如测量后端与排版常量。
type BuildOptions struct {
	Measurer Measurer
	Metrics  Metrics
	// FontFamily 为正文字体族，原样传给 Measurer。
	FontFamily string
}

// Input 是一次排版的原始输入，调用方需在边界处完成校验。
type Input struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	Date      string `json:"date"`
	Signature string `json:"signature"`
}
