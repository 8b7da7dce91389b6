// Package binding 把 ${path} 占位符替换为外部 JSON 数据中的值，
// 用于从同一份 .oshirase 模板批量生成公告。
package binding

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Decode 解析 JSON 数据；空输入返回 nil。
func Decode(raw []byte) (any, error) {
	if strings.TrimSpace(string(raw)) == "" {
		return nil, nil
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("解析绑定数据失败: %w", err)
	}
	return data, nil
}

// Apply 对每个字段原地执行 Interpolate。
func Apply(data any, fields ...*string) {
	if data == nil {
		return
	}
	for _, f := range fields {
		if f != nil {
			*f = Interpolate(*f, data)
		}
	}
}

// Interpolate 将文本中的 ${path.to.value} 或 ${items[0].name} 替换为 data 中的值。
// 若 data 为空或路径不存在，则保留原占位符。
func Interpolate(text string, data any) string {
	if data == nil {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		path := strings.TrimSpace(match[2 : len(match)-1])
		if path == "" {
			return match
		}
		if val, ok := Lookup(data, path); ok {
			return format(val)
		}
		return match
	})
}

// Lookup 沿点号路径取值，段内可带任意个 [n] 下标。
func Lookup(data any, path string) (any, bool) {
	current := data
	for _, segment := range strings.Split(path, ".") {
		name, rest, _ := strings.Cut(segment, "[")
		if name != "" {
			m, ok := current.(map[string]any)
			if !ok {
				return nil, false
			}
			if current, ok = m[name]; !ok {
				return nil, false
			}
		}
		if rest == "" {
			continue
		}
		for _, idx := range strings.Split(strings.TrimSuffix(rest, "]"), "][") {
			n, err := strconv.Atoi(idx)
			if err != nil {
				return nil, false
			}
			arr, ok := current.([]any)
			if !ok || n < 0 || n >= len(arr) {
				return nil, false
			}
			current = arr[n]
		}
	}
	return current, true
}

// format 输出值的文本形式；JSON 数字不使用科学计数法。
func format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
