package layout

import "strings"

// LineStartProhibited 是不允许出现在行首的标点与闭合括号（行頭禁則）。
// 该集合需与线上版本逐字一致，否则同一文本会得到不同的折行。
const LineStartProhibited = `。、.,!?!?）」』】〉》〕］｝〙〗〟'"`

// IsLineStartProhibited 判断字符是否禁止出现在行首。
func IsLineStartProhibited(r rune) bool {
	return strings.ContainsRune(LineStartProhibited, r)
}

// Wrap 以逐码点贪心的方式将一个段落拆成不超过 maxWidth 的行。
//
// 溢出时若新字符属于行首禁止集合，则把当前行末尾的一个字符挪到下一行，
// 与禁止字符一起开头；当前行只有一个字符时，直接把溢出的候选行作为一行输出。
// 单个字符宽于 maxWidth 时仍独占一行，字符永远不会被拆分或丢弃。
func Wrap(paragraph string, maxWidth float64, measure MeasureFunc) ([]string, error) {
	var lines []string
	var current []rune

	for _, ch := range paragraph {
		candidate := make([]rune, len(current)+1)
		copy(candidate, current)
		candidate[len(current)] = ch

		width, err := measure(string(candidate))
		if err != nil {
			return nil, err
		}
		if width <= maxWidth || len(current) == 0 {
			current = candidate
			continue
		}

		if IsLineStartProhibited(ch) {
			if len(current) > 1 {
				last := current[len(current)-1]
				lines = append(lines, string(current[:len(current)-1]))
				current = []rune{last, ch}
			} else {
				lines = append(lines, string(candidate))
				current = nil
			}
			continue
		}

		lines = append(lines, string(current))
		current = []rune{ch}
	}

	if len(current) > 0 {
		lines = append(lines, string(current))
	}

	out := lines[:0]
	for _, l := range lines {
		if l != "" {
			out = append(out, l)
		}
	}
	return out, nil
}
