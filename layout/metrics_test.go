package layout

import (
	"math"
	"testing"
)

func TestDefaultMetrics(t *testing.T) {
	m := DefaultMetrics()
	if err := m.Validate(); err != nil {
		t.Fatalf("默认常量应有效: %v", err)
	}
	if m.PageWidth() != 500 {
		t.Fatalf("默认画布宽度应为 500，实际 %g", m.PageWidth())
	}
	if got := m.Style("x").BaseLineHeight(); math.Abs(got-27) > 1e-9 {
		t.Fatalf("默认行高应为 27px，实际 %g", got)
	}
	if m.TitleBlockHeight() != 41 {
		t.Fatalf("标题块高度应为 41，实际 %g", m.TitleBlockHeight())
	}
	if box := m.Box(false, true); box.TitleBlockHeight != 0 || box.FooterBlockHeight != 32 {
		t.Fatalf("Box 计算错误: %+v", box)
	}
}

func TestMetricsSet(t *testing.T) {
	m := DefaultMetrics()
	for _, kv := range [][2]string{
		{"font-size", "12pt"},
		{"line-height", "32px"},
		{"padding-left", "25.4mm"},
	} {
		if err := m.Set(kv[0], kv[1]); err != nil {
			t.Fatalf("Set(%s, %s) 失败: %v", kv[0], kv[1], err)
		}
	}
	if m.FontSize != 16 || m.LineHeight != 2 || math.Abs(m.Padding.Left-96) > 1e-9 {
		t.Fatalf("覆盖结果不符: %+v", m)
	}
	if err := m.Set("line-height", "1.5x"); err != nil || m.LineHeight != 1.5 {
		t.Fatalf("倍数行高覆盖失败: %v %g", err, m.LineHeight)
	}
	if err := m.Set("letter-spacing", "1px"); err == nil {
		t.Fatalf("未知键应返回错误")
	}
	if err := m.Set("font-size", "big"); err == nil {
		t.Fatalf("非法长度应返回错误")
	}
	for _, key := range MetricKeys {
		if key != "line-height" && m.field(key) == nil {
			t.Fatalf("MetricKeys 中的 %s 没有对应字段", key)
		}
	}
}

func TestMetricsValidate(t *testing.T) {
	m := DefaultMetrics()
	m.ContentWidth = 0
	m.Padding.Top = -1
	if err := m.Validate(); err == nil {
		t.Fatalf("非法常量应返回错误")
	}
}
