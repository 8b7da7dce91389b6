// Package importer 从外部文件中提取公告正文，支持 .txt/.md/.html/.docx/.pdf。
package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Imported 是导入结果：可选的标题与按顺序排列的段落。
type Imported struct {
	Title      string   `json:"title,omitempty"`
	Paragraphs []string `json:"paragraphs"`
}

// Body 以空行连接段落，使每个段落在排版中获得段前间距。
func (d *Imported) Body() string {
	if d == nil {
		return ""
	}
	return strings.Join(d.Paragraphs, "\n\n")
}

func (d *Imported) add(text string) {
	text = strings.TrimSpace(text)
	if text != "" {
		d.Paragraphs = append(d.Paragraphs, text)
	}
}

// Importer 把原始文件字节转换为 Imported。
type Importer interface {
	Import(r io.Reader, filename string) (*Imported, error)
}

// SupportedExtensions 列出可导入的扩展名。
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".docx":     true,
	".pdf":      true,
}

// ForFile 按扩展名选择导入器。
func ForFile(filename string) (Importer, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return &TextImporter{}, nil
	case ".md", ".markdown":
		return &MarkdownImporter{}, nil
	case ".html", ".htm":
		return &HTMLImporter{}, nil
	case ".docx":
		return &DOCXImporter{}, nil
	case ".pdf":
		return &PDFImporter{}, nil
	default:
		return nil, fmt.Errorf("不支持的文件类型: %s", filepath.Ext(filename))
	}
}

// IsSupported 判断文件扩展名是否可导入。
func IsSupported(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// ImportFile 打开并导入本地文件。
func ImportFile(path string) (*Imported, error) {
	imp, err := ForFile(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开导入文件 %s: %w", path, err)
	}
	defer f.Close()
	doc, err := imp.Import(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("导入 %s 失败: %w", path, err)
	}
	return doc, nil
}

// spoolToTemp 把输入写入临时文件，供需要 ReaderAt+size 的解析库使用。
// 调用方负责删除返回的文件。
func spoolToTemp(r io.Reader, pattern string) (*os.File, int64, error) {
	tmp, err := os.CreateTemp("", pattern)
	if err != nil {
		return nil, 0, fmt.Errorf("create temp file: %w", err)
	}
	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, 0, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, 0, fmt.Errorf("seek temp file: %w", err)
	}
	return tmp, size, nil
}
