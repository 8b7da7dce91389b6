package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ByLCY/oshirase/layout"
	"github.com/ByLCY/oshirase/renderer/markup"
)

const notice = `announce v1 {
  theme: simple
  title: "${shop}からのお知らせ"
  date: "1月10日"
  body {
    "本日は臨時休業とさせていただきます。"
    ""
    "ご迷惑をおかけします。"
  }
  layout {
    font-size: 16px
  }
}
`

func writeNotice(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "notice.oshirase")
	if err := os.WriteFile(path, []byte(notice), 0o644); err != nil {
		t.Fatalf("写入公告文件失败: %v", err)
	}
	return path
}

func TestRunWritesHTMLAndDebug(t *testing.T) {
	in := writeNotice(t)
	out := filepath.Join(t.TempDir(), "out")
	debug := filepath.Join(t.TempDir(), "debug", "layout.json")

	files, err := run(context.Background(), cliOptions{
		Input:     in,
		OutputDir: out,
		Format:    "html",
		DebugPath: debug,
		Data:      map[string]any{"shop": "喫茶/ひだまり"},
	}, layout.FixedWidthMeasurer{}, markup.Renderer{})
	if err != nil {
		t.Fatalf("run 失败: %v", err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "おしらせ画_喫茶_ひだまりからのお知らせ.html" {
		t.Fatalf("输出文件名不符: %v", files)
	}
	page, _ := os.ReadFile(files[0])
	if !strings.Contains(string(page), "ご迷惑をおかけします。") {
		t.Fatalf("HTML 中缺少正文")
	}

	raw, err := os.ReadFile(debug)
	if err != nil {
		t.Fatalf("读取调试 JSON 失败: %v", err)
	}
	var res layout.Result
	if err := json.Unmarshal(raw, &res); err != nil {
		t.Fatalf("调试 JSON 无法解析: %v", err)
	}
	if res.Style.FontSize != 16 || len(res.Frames) != 1 || len(res.Frames[0].Lines) != 2 {
		t.Fatalf("调试 JSON 内容不符: %+v", res)
	}
	if !res.Frames[0].Lines[1].IsParagraphStart() {
		t.Fatalf("空行后的行应为段首")
	}
}

func TestRunImportReplacesBody(t *testing.T) {
	in := writeNotice(t)
	md := filepath.Join(filepath.Dir(in), "body.md")
	os.WriteFile(md, []byte("# 無視されるタイトル\n\n営業時間変更のお知らせです。\n"), 0o644)

	out := t.TempDir()
	files, err := run(context.Background(), cliOptions{
		Input:      in,
		OutputDir:  out,
		Format:     "html",
		ImportPath: md,
	}, layout.FixedWidthMeasurer{}, markup.Renderer{})
	if err != nil {
		t.Fatalf("run 失败: %v", err)
	}
	page, _ := os.ReadFile(files[0])
	if !strings.Contains(string(page), "営業時間変更のお知らせです。") || strings.Contains(string(page), "臨時休業") {
		t.Fatalf("正文应被导入内容替换: %s", page)
	}
}

func TestRunRejectsUnknownFormat(t *testing.T) {
	in := writeNotice(t)
	if _, err := run(context.Background(), cliOptions{Input: in, OutputDir: t.TempDir(), Format: "gif"},
		layout.FixedWidthMeasurer{}, markup.Renderer{}); err == nil {
		t.Fatalf("未知格式应报错")
	}
	if _, err := run(context.Background(), cliOptions{Input: in, OutputDir: t.TempDir(), Format: "pdf"},
		layout.FixedWidthMeasurer{}, markup.Renderer{}); err == nil {
		t.Fatalf("markup renderer 不支持 PDF，应报错")
	}
}
