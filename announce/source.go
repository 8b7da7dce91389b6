package announce

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/oshirase/binding"
	"github.com/ByLCY/oshirase/dsl"
	"github.com/ByLCY/oshirase/importer"
	"github.com/ByLCY/oshirase/layout"
)

// Override 是 layout 块中的一条常量覆盖。
type Override struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Source 是从 .oshirase 文件解码出的草稿与排版覆盖。
type Source struct {
	Draft     Draft      `json:"draft"`
	Overrides []Override `json:"overrides,omitempty"`
}

// Metrics 在 base 上依次应用覆盖并校验结果。
func (s *Source) Metrics(base layout.Metrics) (layout.Metrics, error) {
	m := base
	for _, o := range s.Overrides {
		if err := m.Set(o.Key, o.Value); err != nil {
			return layout.Metrics{}, fmt.Errorf("layout 块: %w", err)
		}
	}
	if err := m.Validate(); err != nil {
		return layout.Metrics{}, fmt.Errorf("layout 块: %w", err)
	}
	return m, nil
}

// Load 读取并解码 .oshirase 文件；import 指令相对文件所在目录解析。
func Load(path string, data any) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开公告文件 %s: %w", path, err)
	}
	defer f.Close()
	doc, err := dsl.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("解析公告文件失败: %w", err)
	}
	return Decode(doc, data, filepath.Dir(path))
}

// Decode 把语法树转换为 Source，并用 data 替换 ${path} 占位符。
func Decode(doc *dsl.Document, data any, baseDir string) (*Source, error) {
	if doc == nil || doc.Block == nil {
		return nil, fmt.Errorf("公告文件为空")
	}
	if doc.Version != "v1" {
		return nil, fmt.Errorf("不支持的版本 %q", doc.Version)
	}
	src := &Source{}
	d := &src.Draft
	for _, st := range doc.Block.Statements {
		switch {
		case st.Assignment != nil:
			a := st.Assignment
			target := draftField(d, a.Key)
			if target == nil {
				return nil, fmt.Errorf("%s: 未知字段 %q", a.Pos, a.Key)
			}
			*target = a.Value.Text()
		case st.Command != nil:
			if err := decodeCommand(src, st.Command, baseDir); err != nil {
				return nil, err
			}
		case st.Text != nil:
			return nil, fmt.Errorf("顶层不允许裸字符串 %q，请放入 body 块", string(st.Text.Value))
		}
	}
	binding.Apply(data, &d.Title, &d.Body, &d.Date, &d.Signature)
	return src, nil
}

func draftField(d *Draft, key string) *string {
	switch key {
	case "theme":
		return &d.Theme
	case "font":
		return &d.Font
	case "background":
		return &d.Background
	case "title":
		return &d.Title
	case "body":
		return &d.Body
	case "date":
		return &d.Date
	case "signature":
		return &d.Signature
	}
	return nil
}

func decodeCommand(src *Source, cmd *dsl.Command, baseDir string) error {
	switch cmd.Name {
	case "body":
		if cmd.Block == nil {
			return fmt.Errorf("%s: body 需要 { ... } 块", cmd.Pos)
		}
		var paras []string
		for _, st := range cmd.Block.Statements {
			if st.Text == nil {
				return fmt.Errorf("%s: body 块中只允许字符串", cmd.Pos)
			}
			paras = append(paras, string(st.Text.Value))
		}
		src.Draft.Body = strings.Join(paras, "\n")
	case "layout":
		if cmd.Block == nil {
			return fmt.Errorf("%s: layout 需要 { ... } 块", cmd.Pos)
		}
		for _, st := range cmd.Block.Statements {
			if st.Assignment == nil {
				return fmt.Errorf("%s: layout 块中只允许 key: value", cmd.Pos)
			}
			src.Overrides = append(src.Overrides, Override{Key: st.Assignment.Key, Value: st.Assignment.Value.Text()})
		}
	case "import":
		if len(cmd.Args) != 1 || cmd.Args[0].Type != "String" {
			return fmt.Errorf("%s: import 需要一个文件路径字符串", cmd.Pos)
		}
		path := cmd.Args[0].Value
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		imported, err := importer.ImportFile(path)
		if err != nil {
			return err
		}
		src.Draft.Body = imported.Body()
		if src.Draft.Title == "" {
			src.Draft.Title = imported.Title
		}
	default:
		return fmt.Errorf("%s: 未知指令 %q", cmd.Pos, cmd.Name)
	}
	return nil
}
