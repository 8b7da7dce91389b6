package layout

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrMeasurementUnavailable 表示测量后端不可用，无法得到可信的排版几何。
var ErrMeasurementUnavailable = errors.New("layout: 文本测量后端不可用")

// FontSpec 描述测量所用的字体族与字号（px）。
type FontSpec struct {
	Family string  `json:"family"`
	Size   float64 `json:"size"`
}

// Measurer 返回给定字体下一段文本的像素宽度。
// 同一会话内对相同输入必须返回相同结果。
type Measurer interface {
	Measure(font FontSpec, text string) (float64, error)
}

// Readier 由需要异步准备（例如加载字体）的测量后端实现。
// 调用方在第一次排版前等待 Ready 返回。
type Readier interface {
	Ready(ctx context.Context) error
}

// MeasureFunc 是绑定了字体的测量函数，供 Wrap 使用。
type MeasureFunc func(text string) (float64, error)

// MeasurerFunc 让普通函数实现 Measurer。
type MeasurerFunc func(font FontSpec, text string) (float64, error)

// Measure 实现 Measurer。
func (f MeasurerFunc) Measure(font FontSpec, text string) (float64, error) {
	return f(font, text)
}

// FixedWidthMeasurer 以固定字宽估算文本宽度，结果只与码点数量有关。
// 主要用于测试与无字体环境下的预估。
type FixedWidthMeasurer struct {
	// Advance 为每个码点的宽度（px）；<=0 时使用字号。
	Advance float64
}

// Measure 实现 Measurer。
func (m FixedWidthMeasurer) Measure(font FontSpec, text string) (float64, error) {
	adv := m.Advance
	if adv <= 0 {
		adv = font.Size
	}
	return adv * float64(utf8.RuneCountInString(text)), nil
}

// EnsureReady 在测量后端实现 Readier 时等待其就绪。
func EnsureReady(ctx context.Context, m Measurer) error {
	if m == nil {
		return ErrMeasurementUnavailable
	}
	r, ok := m.(Readier)
	if !ok {
		return nil
	}
	if err := r.Ready(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrMeasurementUnavailable, err)
	}
	return nil
}

// boundMeasure 将测量后端绑定到固定字体，并附带单次排版内的缓存与一次重试。
// 缓存只在一次 Build 内有效，不跨调用共享。
func boundMeasure(ctx context.Context, m Measurer, font FontSpec) MeasureFunc {
	cache := map[string]float64{}
	retried := false
	return func(text string) (float64, error) {
		if w, ok := cache[text]; ok {
			return w, nil
		}
		w, err := m.Measure(font, text)
		if err != nil {
			if errors.Is(err, ErrMeasurementUnavailable) || retried {
				return 0, wrapUnavailable(err)
			}
			// 视为字体尚未就绪：等待一次后重试
			retried = true
			if rerr := EnsureReady(ctx, m); rerr != nil {
				return 0, rerr
			}
			w, err = m.Measure(font, text)
			if err != nil {
				return 0, wrapUnavailable(err)
			}
		}
		cache[text] = w
		return w, nil
	}
}

func wrapUnavailable(err error) error {
	if errors.Is(err, ErrMeasurementUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrMeasurementUnavailable, err)
}
