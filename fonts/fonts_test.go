package fonts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/ByLCY/oshirase/layout"
)

func TestLoaderBuiltin(t *testing.T) {
	var l Loader
	for _, src := range []string{BuiltinRegular, BuiltinMono, "built-in:go-regular"} {
		data, err := l.Load(src)
		if err != nil || len(data) == 0 {
			t.Fatalf("Load(%q) 失败: %v", src, err)
		}
	}
	if _, err := l.Load("builtin:comic"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("未知内置字体应返回 ErrNotFound: %v", err)
	}
	if _, err := l.Load("NotoSansJP-Regular.ttf"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("无字体目录时相对路径应返回 ErrNotFound: %v", err)
	}
}

func TestLoaderDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Body.ttf"), goregular.TTF, 0o644); err != nil {
		t.Fatalf("写入字体失败: %v", err)
	}
	l := Loader{Dir: dir}
	data, err := l.Load("Body.ttf")
	if err != nil || len(data) != len(goregular.TTF) {
		t.Fatalf("从目录加载失败: %v", err)
	}
	if _, err := l.Load("Missing.ttf"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("缺失文件应返回 ErrNotFound: %v", err)
	}
}

func TestFaceMeasurer(t *testing.T) {
	m := NewFaceMeasurer(Loader{}, map[string]string{
		"Mono":   BuiltinMono,
		"Broken": "builtin:nothing",
	})
	if err := m.Ready(context.Background()); err != nil {
		t.Fatalf("Ready 失败: %v", err)
	}
	if _, ok := m.Missing()["Broken"]; !ok {
		t.Fatalf("加载失败的字体族应记录在 Missing 中")
	}

	spec := layout.FontSpec{Family: "Mono", Size: 15}
	one, err := m.Measure(spec, "a")
	if err != nil || one <= 0 {
		t.Fatalf("测量失败: %g %v", one, err)
	}
	ten, err := m.Measure(spec, "aaaaaaaaaa")
	if err != nil {
		t.Fatalf("测量失败: %v", err)
	}
	if diff := ten - 10*one; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("等宽字体宽度应线性增长: one=%g ten=%g", one, ten)
	}
	again, _ := m.Measure(spec, "a")
	if again != one {
		t.Fatalf("相同输入的测量结果应稳定: %g vs %g", again, one)
	}
	bigger, _ := m.Measure(layout.FontSpec{Family: "Mono", Size: 30}, "a")
	if bigger <= one {
		t.Fatalf("字号加倍时宽度应增大: %g vs %g", bigger, one)
	}

	fallback, err := m.Measure(layout.FontSpec{Family: "Unknown", Size: 15}, "abc")
	if err != nil || fallback <= 0 {
		t.Fatalf("未知字体族应回退到内置字体: %g %v", fallback, err)
	}
	if _, err := m.Measure(layout.FontSpec{Family: "Mono"}, "a"); err == nil {
		t.Fatalf("字号为 0 时应返回错误")
	}
}

func TestFaceMeasurerDrivesBuild(t *testing.T) {
	m := NewFaceMeasurer(Loader{}, map[string]string{"Mono": BuiltinMono})
	res, err := layout.Build(context.Background(), layout.Input{Body: "hello world, this line is long enough to wrap at least once"},
		layout.BuildOptions{Measurer: m, FontFamily: "Mono", Metrics: func() layout.Metrics {
			mt := layout.DefaultMetrics()
			mt.ContentWidth = 120
			return mt
		}()})
	if err != nil {
		t.Fatalf("Build 失败: %v", err)
	}
	if len(res.Frames[0].Lines) < 2 {
		t.Fatalf("窄内容宽度下应折成多行: %+v", res.Frames[0].Lines)
	}
	for _, ln := range res.Frames[0].Lines {
		w, _ := m.Measure(res.Style.FontSpec(), ln.Content)
		if w > 120+1e-6 && len([]rune(ln.Content)) > 1 {
			t.Fatalf("行宽超出限制: %q = %g", ln.Content, w)
		}
	}
}
