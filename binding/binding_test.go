package binding

import "testing"

func TestInterpolate(t *testing.T) {
	data, err := Decode([]byte(`{"shop":{"name":"喫茶ひだまり","owner":"店主"},"days":[{"date":"1月10日"},{"date":"1月11日"}],"count":1000000}`))
	if err != nil {
		t.Fatalf("Decode 失败: %v", err)
	}
	cases := []struct {
		in   string
		want string
	}{
		{"${shop.name}より", "喫茶ひだまりより"},
		{"${ shop.owner }", "店主"},
		{"${days[1].date}まで", "1月11日まで"},
		{"${count}円", "1000000円"},
		{"${missing.path}", "${missing.path}"},
		{"${days[5].date}", "${days[5].date}"},
		{"${}", "${}"},
		{"placeholder なし", "placeholder なし"},
	}
	for _, tc := range cases {
		if got := Interpolate(tc.in, data); got != tc.want {
			t.Fatalf("Interpolate(%q) = %q，期望 %q", tc.in, got, tc.want)
		}
	}
}

func TestApply(t *testing.T) {
	data, _ := Decode([]byte(`{"owner":"店主"}`))
	title, sig := "お知らせ", "${owner}"
	Apply(data, &title, &sig, nil)
	if title != "お知らせ" || sig != "店主" {
		t.Fatalf("Apply 结果不符: title=%q sig=%q", title, sig)
	}
	Apply(nil, &sig)
	if sig != "店主" {
		t.Fatalf("数据为空时不应修改字段")
	}
}

func TestDecode(t *testing.T) {
	if data, err := Decode([]byte("  ")); err != nil || data != nil {
		t.Fatalf("空输入应返回 nil: %v %v", data, err)
	}
	if _, err := Decode([]byte("{")); err == nil {
		t.Fatalf("非法 JSON 应返回错误")
	}
}
