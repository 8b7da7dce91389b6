package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/oshirase/dsl"
)

const sampleDSL = `
// 臨時休業
announce v1 {
  theme: custom
  font: mincho
  background: pink

  title: "臨時休業のお知らせ"
  date: "2025年1月10日"
  signature: "${shop.owner}"

  body {
    "いつも当店をご利用いただき、誠にありがとうございます。"
    ""
    "このたび、店舗改装のため休業とさせていただきます。"
  }

  layout {
    font-size: 16px
    line-height: 1.8x
    padding-left: 14mm
  }
}
`

func TestParseDocument(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Version != "v1" {
		t.Fatalf("expected version v1, got %s", doc.Version)
	}

	stmts := doc.Block.Statements
	if len(stmts) != 8 {
		t.Fatalf("expected 8 statements, got %d", len(stmts))
	}

	themeStmt := stmts[0].Assignment
	if themeStmt == nil || themeStmt.Key != "theme" {
		t.Fatalf("expected theme assignment, got %+v", stmts[0])
	}
	if got := themeStmt.Value.Text(); got != "custom" {
		t.Fatalf("expected theme custom, got %s", got)
	}

	title := stmts[3].Assignment
	if title == nil || title.Value.String == nil {
		t.Fatalf("expected title string, got %+v", stmts[3])
	}
	if got := string(*title.Value.String); got != "臨時休業のお知らせ" {
		t.Fatalf("unexpected title %q", got)
	}

	sig := stmts[5].Assignment
	if sig == nil || !strings.Contains(sig.Value.Text(), "${shop.owner}") {
		t.Fatalf("signature should keep interpolation placeholder, got %+v", sig)
	}

	body := stmts[6].Command
	if body == nil || body.Name != "body" || body.Block == nil {
		t.Fatalf("expected body command, got %+v", stmts[6])
	}
	if len(body.Block.Statements) != 3 {
		t.Fatalf("expected 3 body literals, got %d", len(body.Block.Statements))
	}
	if lit := body.Block.Statements[1].Text; lit == nil || lit.Value != "" {
		t.Fatalf("expected empty literal as blank paragraph, got %+v", body.Block.Statements[1])
	}

	layoutCmd := stmts[7].Command
	if layoutCmd == nil || layoutCmd.Name != "layout" {
		t.Fatalf("expected layout command, got %+v", stmts[7])
	}
	want := map[string]string{"font-size": "16px", "line-height": "1.8x", "padding-left": "14mm"}
	for _, st := range layoutCmd.Block.Statements {
		a := st.Assignment
		if a == nil {
			t.Fatalf("layout block should only hold assignments, got %+v", st)
		}
		if a.Value.Number == nil || *a.Value.Number != want[a.Key] {
			t.Fatalf("unexpected layout value for %s: %+v", a.Key, a.Value)
		}
	}
}

func TestParseCommandArgs(t *testing.T) {
	doc, err := dsl.ParseString(`announce v1 { import "notice.md" }`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	cmd := doc.Block.Statements[0].Command
	if cmd == nil || cmd.Name != "import" {
		t.Fatalf("expected import command, got %+v", doc.Block.Statements[0])
	}
	if got := tokensToString(cmd.Args); got != "notice.md" {
		t.Fatalf("unexpected args: %s", got)
	}
}

func TestParseRejectsUnknownRoot(t *testing.T) {
	if _, err := dsl.ParseString(`doc Papyrus v1 { }`); err == nil {
		t.Fatalf("expected error for non-announce root")
	}
	if _, err := dsl.ParseString(`announce v1 { title: "unterminated }`); err == nil {
		t.Fatalf("expected error for unterminated string")
	}
}

func tokensToString(parts []*dsl.Lexeme) string {
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		values = append(values, p.Value)
	}
	return strings.Join(values, " ")
}
