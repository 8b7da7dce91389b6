package layout

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

// flakyMeasurer 前 failures 次测量返回错误，用于模拟字体尚未加载完成。
type flakyMeasurer struct {
	failures   int
	calls      int
	readyCalls int
}

func (m *flakyMeasurer) Measure(font FontSpec, text string) (float64, error) {
	m.calls++
	if m.failures > 0 {
		m.failures--
		return 0, errors.New("font not loaded")
	}
	return FixedWidthMeasurer{}.Measure(font, text)
}

func (m *flakyMeasurer) Ready(context.Context) error {
	m.readyCalls++
	return nil
}

const sampleBody = "いつも当店をご利用いただき、誠にありがとうございます。\n\n" +
	"このたび、店舗改装のため下記の期間を休業とさせていただきます。お客様にはご不便をおかけいたしますが、何卒ご理解のほどよろしくお願い申し上げます。\n\n\n" +
	"営業再開後も、変わらぬご愛顧を賜りますようお願い申し上げます。"

func TestBuildEmptyDocument(t *testing.T) {
	res, err := Build(context.Background(), Input{Body: "  \n", Title: " "}, BuildOptions{})
	if err != nil {
		t.Fatalf("空文档不应需要测量后端: %v", err)
	}
	if len(res.Document.Pages) != 1 || len(res.Document.Pages[0].Lines) != 0 {
		t.Fatalf("空文档应得到恰好一个空页面: %+v", res.Document.Pages)
	}
	f := res.Frames[0]
	if !f.Placeholder || f.Height != DefaultMetrics().PlaceholderHeight {
		t.Fatalf("空页面应为占位高度: %+v", f)
	}
}

func TestBuildRequiresMeasurer(t *testing.T) {
	_, err := Build(context.Background(), Input{Body: "本文"}, BuildOptions{})
	if !errors.Is(err, ErrMeasurementUnavailable) {
		t.Fatalf("期望 ErrMeasurementUnavailable，实际: %v", err)
	}
}

func TestBuildRetriesOnceAfterReady(t *testing.T) {
	m := &flakyMeasurer{failures: 1}
	res, err := Build(context.Background(), Input{Body: "あいう"}, BuildOptions{Measurer: m})
	if err != nil {
		t.Fatalf("单次失败后应重试成功: %v", err)
	}
	if m.readyCalls != 2 {
		t.Fatalf("应在开始时和失败后各等待一次就绪，实际 %d 次", m.readyCalls)
	}
	if got := res.Frames[0].Lines[0].Content; got != "あいう" {
		t.Fatalf("排版结果不符: %q", got)
	}

	m = &flakyMeasurer{failures: 2}
	_, err = Build(context.Background(), Input{Body: "あいう"}, BuildOptions{Measurer: m})
	if !errors.Is(err, ErrMeasurementUnavailable) {
		t.Fatalf("连续失败应返回 ErrMeasurementUnavailable，实际: %v", err)
	}
}

func TestBuildPreservesContentAndIsIdempotent(t *testing.T) {
	body := strings.Repeat(sampleBody+"\n\n", 6)
	opts := BuildOptions{Measurer: FixedWidthMeasurer{}, FontFamily: "Noto Sans JP"}
	in := Input{Title: "臨時休業のお知らせ", Body: body, Date: "2025年1月10日", Signature: "店主"}

	first, err := Build(context.Background(), in, opts)
	if err != nil {
		t.Fatalf("Build 失败: %v", err)
	}
	second, err := Build(context.Background(), in, opts)
	if err != nil {
		t.Fatalf("Build 失败: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("相同输入的两次排版结果不同")
	}

	style := DefaultMetrics().Style("")
	lines, err := Normalize(body, func(p string) ([]string, error) {
		return Wrap(p, DefaultMetrics().ContentWidth, func(s string) (float64, error) {
			return FixedWidthMeasurer{}.Measure(style.FontSpec(), s)
		})
	})
	if err != nil {
		t.Fatalf("Normalize 失败: %v", err)
	}
	var flat []Line
	for _, f := range first.Frames {
		flat = append(flat, f.Lines...)
	}
	if !reflect.DeepEqual(flat, lines) {
		t.Fatalf("分页后的行序列与归一化结果不一致")
	}
	if first.PageCount() < 2 {
		t.Fatalf("长正文应分成多页，实际 %d 页", first.PageCount())
	}
}

func TestBuildFrames(t *testing.T) {
	body := strings.Repeat(sampleBody+"\n\n", 6)
	res, err := Build(context.Background(), Input{Title: "お知らせ", Body: body, Signature: "店主"},
		BuildOptions{Measurer: FixedWidthMeasurer{}})
	if err != nil {
		t.Fatalf("Build 失败: %v", err)
	}
	m := DefaultMetrics()
	for i, f := range res.Frames {
		if f.Width != 500 {
			t.Fatalf("第 %d 页宽度应为 500，实际 %g", i, f.Width)
		}
		if f.Height != m.MaxContentHeight+m.Padding.Vertical() {
			t.Fatalf("多页文档每页高度应固定，第 %d 页为 %g", i, f.Height)
		}
		if f.ShowTitle != (i == 0) {
			t.Fatalf("标题只应出现在第一页: page=%d", i)
		}
		if f.ShowFooter != (i == len(res.Frames)-1) {
			t.Fatalf("页脚只应出现在最后一页: page=%d", i)
		}
		if f.Placeholder {
			t.Fatalf("非空页面不应标记占位: page=%d", i)
		}
	}
}

// 默认 397px 内容宽度、15px 字宽时每行最多 26 个字符。
func TestBuildDefaultLineLength(t *testing.T) {
	body := strings.Repeat("あ", 60)
	res, err := Build(context.Background(), Input{Body: body}, BuildOptions{Measurer: FixedWidthMeasurer{}})
	if err != nil {
		t.Fatalf("Build 失败: %v", err)
	}
	lines := res.Frames[0].Lines
	if len(lines) != 3 {
		t.Fatalf("期望 3 行，实际 %d", len(lines))
	}
	for i, want := range []int{26, 26, 8} {
		if got := len([]rune(lines[i].Content)); got != want {
			t.Fatalf("第 %d 行长度 %d，期望 %d", i, got, want)
		}
	}
	if want := 96 + 3*27.0; res.Frames[0].Height-want > 1e-9 || want-res.Frames[0].Height > 1e-9 {
		t.Fatalf("单页高度不符: got=%g want=%g", res.Frames[0].Height, want)
	}
}

func TestBuildRejectsInvalidMetrics(t *testing.T) {
	m := DefaultMetrics()
	m.FontSize = 0
	_, err := Build(context.Background(), Input{Body: "x"}, BuildOptions{Measurer: FixedWidthMeasurer{}, Metrics: m})
	if err == nil {
		t.Fatalf("字号为 0 时应返回错误")
	}
}
