package layout

import "strings"

// WrapFunc 把单个段落折成若干行。
type WrapFunc func(paragraph string) ([]string, error)

// Normalize 将正文按换行拆成段落并折行，得到带段首标记的扁平行序列。
//
// 空段落（原文中的空行）不会成为 Line，只会把下一条真实的行标记为 paragraph-start；
// 连续多个空行与一个空行效果相同。
func Normalize(body string, wrap WrapFunc) ([]Line, error) {
	type entry struct {
		text           string
		paragraphStart bool
	}

	paragraphs := strings.Split(body, "\n")
	entries := make([]entry, 0, len(paragraphs))
	for i, p := range paragraphs {
		if p == "" {
			entries = append(entries, entry{})
			continue
		}
		wrapped, err := wrap(p)
		if err != nil {
			return nil, err
		}
		afterBlank := i > 0 && paragraphs[i-1] == ""
		for j, w := range wrapped {
			entries = append(entries, entry{text: w, paragraphStart: j == 0 && afterBlank})
		}
	}

	// 第二遍：以空行占位为准折叠段首标记
	lines := make([]Line, 0, len(entries))
	pending := false
	for _, e := range entries {
		if e.text == "" {
			pending = true
			continue
		}
		kind := LineNormal
		if pending || e.paragraphStart {
			kind = LineParagraphStart
		}
		lines = append(lines, Line{Content: e.text, Kind: kind})
		pending = false
	}
	return lines, nil
}
