package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// This file defines unit-safe lengths for layout constants written in DSL or env.
// Layout works in CSS pixels; the canvas exporter works in mm and font sizes in pt.

// Unit represents the original unit of a length value.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers, treated as px
	UnitPX               // CSS pixels (1/96 in)
	UnitPT               // points
	UnitMM               // millimeters
)

// Conversion constants between px, pt and mm.
const (
	PxToMm = 25.4 / 96
	MmToPx = 1.0 / PxToMm
	PxToPt = 0.75
	PtToPx = 1.0 / PxToPt
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitPX:
		return "px"
	case UnitPT:
		return "pt"
	case UnitMM:
		return "mm"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// PX converts the length to CSS pixels.
func (l Length) PX() float64 {
	switch l.Unit {
	case UnitPT:
		return l.Value / PxToPt
	case UnitMM:
		return l.Value * MmToPx
	default:
		return l.Value
	}
}

// ParseLength parses "15px", "12pt", "4mm" or a bare number (px).
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"px", UnitPX}, {"pt", UnitPT}, {"mm", UnitMM}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q: %w", value, err)
	}
	return Length{Value: f, Unit: unit}, nil
}

// ParseLineHeight parses a line-height multiplier written as "1.8x" or "1.8".
// Absolute values ("27px") are converted to a factor of fontSize.
func ParseLineHeight(value string, fontSize float64) (float64, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	// "px" 也以 x 结尾，只有倍数写法走这里
	if strings.HasSuffix(v, "x") && !strings.HasSuffix(v, "px") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(v, "x"), 64)
		if err != nil {
			return 0, fmt.Errorf("无法解析行高 %q: %w", value, err)
		}
		return f, nil
	}
	l, err := ParseLength(v)
	if err != nil {
		return 0, err
	}
	if l.Unit == UnitNone {
		return l.Value, nil
	}
	if fontSize <= 0 {
		return 0, fmt.Errorf("绝对行高 %q 需要有效字号", value)
	}
	return l.PX() / fontSize, nil
}
