package importer

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestTextImporter(t *testing.T) {
	in := "いつもありがとうございます。\r\n\r\n\r\n休業のお知らせです。\n詳細は下記の通りです。\n"
	doc, err := (&TextImporter{}).Import(strings.NewReader(in), "notice.txt")
	if err != nil {
		t.Fatalf("导入失败: %v", err)
	}
	want := []string{"いつもありがとうございます。", "休業のお知らせです。\n詳細は下記の通りです。"}
	if !reflect.DeepEqual(doc.Paragraphs, want) {
		t.Fatalf("段落不符: %q", doc.Paragraphs)
	}
	if got := doc.Body(); got != want[0]+"\n\n"+want[1] {
		t.Fatalf("正文拼接不符: %q", got)
	}
}

func TestMarkdownImporter(t *testing.T) {
	src := "# 臨時休業のお知らせ\n\n" +
		"いつも**当店**をご利用いただき、\nありがとうございます。\n\n" +
		"## 休業期間\n\n" +
		"- 1月10日\n- 1月11日\n"
	doc, err := (&MarkdownImporter{}).Import(strings.NewReader(src), "notice.md")
	if err != nil {
		t.Fatalf("导入失败: %v", err)
	}
	if doc.Title != "臨時休業のお知らせ" {
		t.Fatalf("标题不符: %q", doc.Title)
	}
	want := []string{
		"いつも当店をご利用いただき、\nありがとうございます。",
		"休業期間",
		"1月10日",
		"1月11日",
	}
	if !reflect.DeepEqual(doc.Paragraphs, want) {
		t.Fatalf("段落不符: %q", doc.Paragraphs)
	}
}

func TestHTMLImporter(t *testing.T) {
	src := `<html><head><title>お知らせ</title><style>p{}</style></head>
<body><nav>menu</nav><h1>見出し</h1><p>一行目<br>二行目</p><ul><li>項目</li></ul><script>x()</script></body></html>`
	doc, err := (&HTMLImporter{}).Import(strings.NewReader(src), "notice.html")
	if err != nil {
		t.Fatalf("导入失败: %v", err)
	}
	if doc.Title != "お知らせ" {
		t.Fatalf("标题应取自 <title>: %q", doc.Title)
	}
	want := []string{"見出し", "一行目\n二行目", "項目"}
	if !reflect.DeepEqual(doc.Paragraphs, want) {
		t.Fatalf("段落不符: %q", doc.Paragraphs)
	}
}

func TestForFile(t *testing.T) {
	for _, name := range []string{"a.txt", "a.MD", "a.htm", "a.docx", "a.pdf"} {
		if _, err := ForFile(name); err != nil {
			t.Fatalf("ForFile(%q) 返回错误: %v", name, err)
		}
		if !IsSupported(name) {
			t.Fatalf("IsSupported(%q) 应为 true", name)
		}
	}
	if _, err := ForFile("a.csv"); err == nil {
		t.Fatalf("不支持的扩展名应返回错误")
	}
}

func TestImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "body.txt")
	if err := os.WriteFile(path, []byte("本文\n\n続き"), 0o644); err != nil {
		t.Fatalf("写入临时文件失败: %v", err)
	}
	doc, err := ImportFile(path)
	if err != nil {
		t.Fatalf("ImportFile 失败: %v", err)
	}
	if doc.Body() != "本文\n\n続き" {
		t.Fatalf("正文不符: %q", doc.Body())
	}
	if _, err := ImportFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatalf("文件不存在时应返回错误")
	}
}
