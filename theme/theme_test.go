package theme

import "testing"

func TestResolvePresetIgnoresSelection(t *testing.T) {
	c := Default()
	a, err := c.Resolve(Selection{Theme: Formal, Font: Gothic, Background: Dark})
	if err != nil {
		t.Fatalf("Resolve 失败: %v", err)
	}
	if a.Font.ID != Mincho || a.Background.ID != White {
		t.Fatalf("预设主题应使用默认字体与背景: font=%s bg=%s", a.Font.ID, a.Background.ID)
	}
	if a.Font.Family != "Noto Serif JP" {
		t.Fatalf("字体族不符: %q", a.Font.Family)
	}
}

func TestResolveCustom(t *testing.T) {
	c := Default()
	a, err := c.Resolve(Selection{Theme: Custom, Font: Handwriting, Background: Dark})
	if err != nil {
		t.Fatalf("Resolve 失败: %v", err)
	}
	if a.Font.ID != Handwriting || a.Background.ID != Dark {
		t.Fatalf("自定义主题应使用用户选择: %+v", a)
	}
	if a.BgColor != (Color{R: 0x1a, G: 0x1a, B: 0x1a, A: 0xff}) {
		t.Fatalf("背景色解析错误: %+v", a.BgColor)
	}
	if a.Font.Notice == "" {
		t.Fatalf("手書き字体应带有提示")
	}

	a, err = c.Resolve(Selection{Theme: Custom})
	if err != nil {
		t.Fatalf("Resolve 失败: %v", err)
	}
	if a.Font.ID != Gothic || a.Background.ID != White {
		t.Fatalf("自定义主题缺省时应回退到默认值: %+v", a)
	}
}

func TestResolveDefaultsToFormal(t *testing.T) {
	a, err := Default().Resolve(Selection{})
	if err != nil {
		t.Fatalf("Resolve 失败: %v", err)
	}
	if a.Theme.ID != Formal {
		t.Fatalf("空选择应解析为 formal，实际 %s", a.Theme.ID)
	}
}

func TestResolveUnknownKeys(t *testing.T) {
	c := Default()
	for _, sel := range []Selection{
		{Theme: "neon"},
		{Theme: Custom, Font: "comic"},
		{Theme: Custom, Background: "green"},
	} {
		if _, err := c.Resolve(sel); err == nil {
			t.Fatalf("未知键应返回错误: %+v", sel)
		}
	}
}

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want Color
	}{
		{"#FFFFFF", Color{255, 255, 255, 255}},
		{"#abc", Color{0xaa, 0xbb, 0xcc, 0xff}},
		{"#17171766", Color{0x17, 0x17, 0x17, 0x66}},
	}
	for _, tc := range cases {
		got, err := ParseColor(tc.in)
		if err != nil {
			t.Fatalf("ParseColor(%q) 返回错误: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseColor(%q) = %+v，期望 %+v", tc.in, got, tc.want)
		}
	}
	if _, err := ParseColor("#12"); err == nil {
		t.Fatalf("非法颜色应返回错误")
	}
	if _, err := ParseColor("#GGGGGG"); err == nil {
		t.Fatalf("非法十六进制应返回错误")
	}
}

func TestPlaceholderColor(t *testing.T) {
	a, err := Default().Resolve(Selection{Theme: Simple})
	if err != nil {
		t.Fatalf("Resolve 失败: %v", err)
	}
	if got := a.PlaceholderColor().Hex(); got != "#17171766" {
		t.Fatalf("占位颜色不符: %s", got)
	}
	if got := a.TextColor.Hex(); got != "#171717" {
		t.Fatalf("文字颜色不符: %s", got)
	}
}
