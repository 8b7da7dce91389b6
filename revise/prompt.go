// Package revise 调用 Gemini 对公告正文做校对（fix）或润色（polish），
// 并把模型输出整理为纯文本。
package revise

import (
	"errors"
	"fmt"
	"strings"
)

// Mode 是校对模式。
type Mode string

const (
	ModeFix    Mode = "fix"
	ModePolish Mode = "polish"
)

var (
	ErrInvalidMode   = errors.New("revise: invalid mode")
	ErrEmptyText     = errors.New("revise: text is required")
	ErrEmptyResponse = errors.New("revise: AIからの応答が空でした")
)

// ParseMode 把请求中的字符串转换为 Mode。
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.TrimSpace(s)); m {
	case ModeFix, ModePolish:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

const fixPrompt = `あなたは日本語の校正者です。
入力された文章の誤字脱字・変換ミスのみを修正してください。

重要なルール：
- 文体や表現は一切変えない
- 句読点の位置も変えない
- 誤字脱字がなければ、そのまま返す
- 修正した文章のみを出力する（説明は不要）`

const polishPrompt = `あなたは日本語の編集者です。
入力された文章を、より自然で読みやすい日本語に整えてください。

重要なルール：
- 誤字脱字を修正する
- 不自然な言い回しを自然にする
- 敬語の誤りがあれば直す
- 文体（です・ます調など）は維持する
- 元の意図や内容は変えない
- 大幅な書き換えはしない
- 修正した文章のみを出力する（説明は不要）`

// SystemPrompt 返回模式对应的指示文。
func SystemPrompt(mode Mode) (string, error) {
	switch mode {
	case ModeFix:
		return fixPrompt, nil
	case ModePolish:
		return polishPrompt, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, mode)
}

// BuildPrompt 拼出发送给模型的完整提示。
func BuildPrompt(mode Mode, text string) (string, error) {
	system, err := SystemPrompt(mode)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString(system)
	sb.WriteString("\n\n入力文:\n")
	sb.WriteString(text)
	sb.WriteString("\n\n出力:")
	return sb.String(), nil
}
