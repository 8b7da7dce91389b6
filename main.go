package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ByLCY/oshirase/announce"
	"github.com/ByLCY/oshirase/binding"
	"github.com/ByLCY/oshirase/importer"
	"github.com/ByLCY/oshirase/layout"
	"github.com/ByLCY/oshirase/renderer"
	canvasrenderer "github.com/ByLCY/oshirase/renderer/canvas"
	"github.com/ByLCY/oshirase/renderer/markup"
)

// cliOptions 对应命令行参数。
type cliOptions struct {
	Input      string
	OutputDir  string
	Format     string
	DebugPath  string
	ImportPath string
	Data       any
}

// pdfRenderer 能把全部页面合并为一个 PDF。
type pdfRenderer interface {
	RenderPDF(sheet *announce.Sheet) (renderer.Image, error)
}

func main() {
	input := flag.String("in", "examples/notice.oshirase", "公告文件路径")
	output := flag.String("out", "output", "输出目录")
	format := flag.String("format", "png", "输出格式：png、pdf 或 html")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径")
	dataJSON := flag.String("data", "", "绑定到公告的 JSON 数据")
	importPath := flag.String("import", "", "用 .txt/.md/.html/.docx/.pdf 文件替换正文")
	fontDir := flag.String("fonts", "", "字体目录，默认为公告文件旁的 fonts/")
	pixelRatio := flag.Float64("ratio", 2, "PNG 像素倍率")
	flag.Parse()

	diag := slog.New(slog.NewTextHandler(os.Stderr, nil))

	data, err := binding.Decode([]byte(*dataJSON))
	if err != nil {
		log.Fatalf("解析 data JSON 失败: %v", err)
	}

	dir := *fontDir
	if dir == "" {
		dir = filepath.Join(filepath.Dir(*input), "fonts")
	}
	cr := canvasrenderer.NewRenderer(canvasrenderer.Options{FontDir: dir, PixelRatio: *pixelRatio})
	if err := cr.Ready(context.Background()); err != nil {
		log.Fatalf("加载字体失败: %v", err)
	}
	for family, reason := range cr.Missing() {
		diag.Warn("font fallback", "family", family, "reason", reason)
	}

	opts := cliOptions{
		Input:      *input,
		OutputDir:  *output,
		Format:     *format,
		DebugPath:  *debug,
		ImportPath: *importPath,
		Data:       data,
	}
	var out renderer.Renderer = cr
	if *format == "html" {
		out = markup.Renderer{}
	}
	files, err := run(context.Background(), opts, cr, out)
	if err != nil {
		log.Fatalf("生成公告失败: %v", err)
	}
	for _, f := range files {
		fmt.Printf("已生成：%s\n", f)
	}
}

// run 串联解码、导入、排版与导出，返回写出的文件路径。
func run(ctx context.Context, opts cliOptions, m layout.Measurer, out renderer.Renderer) ([]string, error) {
	if out == nil {
		return nil, fmt.Errorf("renderer 不能为空")
	}
	src, err := announce.Load(opts.Input, opts.Data)
	if err != nil {
		return nil, err
	}
	if opts.ImportPath != "" {
		imported, err := importer.ImportFile(opts.ImportPath)
		if err != nil {
			return nil, fmt.Errorf("导入正文失败: %w", err)
		}
		src.Draft.Body = imported.Body()
		if src.Draft.Title == "" {
			src.Draft.Title = imported.Title
		}
		binding.Apply(opts.Data, &src.Draft.Title, &src.Draft.Body)
	}

	metrics, err := src.Metrics(layout.DefaultMetrics())
	if err != nil {
		return nil, err
	}
	sheet, err := announce.Compose(ctx, src.Draft, announce.Options{Measurer: m, Metrics: metrics})
	if err != nil {
		return nil, fmt.Errorf("布局计算失败: %w", err)
	}

	if opts.DebugPath != "" {
		if err := writeDebug(sheet.Layout, opts.DebugPath); err != nil {
			return nil, err
		}
	}

	var images []renderer.Image
	switch opts.Format {
	case "", "png", "html":
		images, err = out.Render(ctx, sheet)
	case "pdf":
		pr, ok := out.(pdfRenderer)
		if !ok {
			return nil, fmt.Errorf("renderer 不支持 PDF 输出")
		}
		var img renderer.Image
		img, err = pr.RenderPDF(sheet)
		images = []renderer.Image{img}
	default:
		return nil, fmt.Errorf("未知输出格式 %q", opts.Format)
	}
	if err != nil {
		return nil, fmt.Errorf("渲染失败: %w", err)
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("创建输出目录失败: %w", err)
	}
	files := make([]string, 0, len(images))
	for _, img := range images {
		path := filepath.Join(opts.OutputDir, announce.SafeFileName(img.Name))
		if err := os.WriteFile(path, img.Data, 0o644); err != nil {
			return nil, fmt.Errorf("写入 %s 失败: %w", path, err)
		}
		files = append(files, path)
	}
	return files, nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
