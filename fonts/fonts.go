// Package fonts 解析字体来源：内置的 Go 字体（golang.org/x/image/font/gofont）
// 与字体目录下的 TTF/OTF 文件。
package fonts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// 内置字体来源。
const (
	BuiltinRegular = "builtin:go-regular"
	BuiltinMono    = "builtin:go-mono"
)

// ErrNotFound 表示字体来源无法解析。
var ErrNotFound = errors.New("fonts: 字体不存在")

var builtins = map[string][]byte{
	"go-regular": goregular.TTF,
	"go-mono":    gomono.TTF,
}

// Fallback 返回缺少日文字体时使用的内置字体数据。
func Fallback() []byte { return goregular.TTF }

// IsBuiltin 判断来源是否为内置字体。
func IsBuiltin(src string) bool {
	return strings.HasPrefix(src, "builtin:") || strings.HasPrefix(src, "built-in:")
}

// Loader 按来源读取字体字节。相对路径以 Dir 为根。
type Loader struct {
	Dir string
}

// Load 返回字体数据。来源写作 "builtin:go-regular" 或文件路径。
func (l Loader) Load(src string) ([]byte, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, fmt.Errorf("%w: 来源为空", ErrNotFound)
	}
	if IsBuiltin(src) {
		name := strings.TrimPrefix(strings.TrimPrefix(src, "built-in:"), "builtin:")
		if data, ok := builtins[name]; ok {
			return data, nil
		}
		return nil, fmt.Errorf("%w: 找不到内置字体 %s", ErrNotFound, src)
	}
	path := src
	if !filepath.IsAbs(path) {
		if l.Dir == "" {
			return nil, fmt.Errorf("%w: 未指定字体目录时不允许使用相对路径 %s", ErrNotFound, src)
		}
		path = filepath.Join(l.Dir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("读取字体 %s 失败: %w", path, err)
	}
	return data, nil
}
