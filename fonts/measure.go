package fonts

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	"github.com/ByLCY/oshirase/layout"
)

// FaceMeasurer 用 x/image 的 OpenType 字形度量实现 layout.Measurer，
// 不依赖渲染后端，适合服务端只做排版预览的场景。
// 字体族到来源的映射在构造时给定；未知字体族或加载失败时使用 Fallback。
type FaceMeasurer struct {
	loader  Loader
	sources map[string]string

	mu       sync.Mutex
	fonts    map[string]*opentype.Font
	faces    map[faceKey]font.Face
	fallback *opentype.Font
	// missing 记录回退到内置字体的字体族。
	missing map[string]error
}

type faceKey struct {
	family string
	size   float64
}

var (
	_ layout.Measurer = (*FaceMeasurer)(nil)
	_ layout.Readier  = (*FaceMeasurer)(nil)
)

// NewFaceMeasurer 创建测量器。sources 为字体族名称到来源的映射。
func NewFaceMeasurer(loader Loader, sources map[string]string) *FaceMeasurer {
	return &FaceMeasurer{
		loader:  loader,
		sources: sources,
		fonts:   map[string]*opentype.Font{},
		faces:   map[faceKey]font.Face{},
		missing: map[string]error{},
	}
}

// Ready 预先解析全部字体。单个字体失败只会回退，不会报错；
// 只有内置回退字体也无法解析时才返回错误。
func (m *FaceMeasurer) Ready(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.fallbackFont(); err != nil {
		return err
	}
	for family := range m.sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.fontFor(family)
	}
	return nil
}

// Missing 返回回退到内置字体的字体族及原因。
func (m *FaceMeasurer) Missing() map[string]error {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]error, len(m.missing))
	for k, v := range m.missing {
		out[k] = v
	}
	return out
}

// Measure 实现 layout.Measurer，返回 px 宽度。
func (m *FaceMeasurer) Measure(spec layout.FontSpec, text string) (float64, error) {
	if spec.Size <= 0 {
		return 0, fmt.Errorf("字号无效: %g", spec.Size)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	face, err := m.face(spec)
	if err != nil {
		return 0, err
	}
	return float64(font.MeasureString(face, text)) / 64, nil
}

func (m *FaceMeasurer) face(spec layout.FontSpec) (font.Face, error) {
	key := faceKey{family: spec.Family, size: spec.Size}
	if f, ok := m.faces[key]; ok {
		return f, nil
	}
	otf, err := m.fontFor(spec.Family)
	if err != nil {
		return nil, err
	}
	// DPI 72 时 1pt = 1 单位，Size 直接按 px 传入
	face, err := opentype.NewFace(otf, &opentype.FaceOptions{Size: spec.Size, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return nil, fmt.Errorf("创建字体 %s 失败: %w", spec.Family, err)
	}
	m.faces[key] = face
	return face, nil
}

func (m *FaceMeasurer) fontFor(family string) (*opentype.Font, error) {
	if f, ok := m.fonts[family]; ok {
		return f, nil
	}
	f, err := m.load(family)
	if err != nil {
		m.missing[family] = err
		if f, err = m.fallbackFont(); err != nil {
			return nil, err
		}
	}
	m.fonts[family] = f
	return f, nil
}

func (m *FaceMeasurer) load(family string) (*opentype.Font, error) {
	src, ok := m.sources[family]
	if !ok {
		return nil, fmt.Errorf("%w: 未配置字体族 %q", ErrNotFound, family)
	}
	data, err := m.loader.Load(src)
	if err != nil {
		return nil, err
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("解析字体 %s 失败: %w", src, err)
	}
	return f, nil
}

func (m *FaceMeasurer) fallbackFont() (*opentype.Font, error) {
	if m.fallback != nil {
		return m.fallback, nil
	}
	f, err := opentype.Parse(Fallback())
	if err != nil {
		return nil, fmt.Errorf("解析内置字体失败: %w", err)
	}
	m.fallback = f
	return f, nil
}
