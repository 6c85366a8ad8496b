package quality

import (
	"strings"
	"testing"
)

func TestExtractPromptAndProblem(t *testing.T) {
	msg := "このプロンプトを改善してください。\n改善したいプロンプト：ダンススタジオ、高品質\n問題：鏡が歪んでいる"
	promptText, problem := ExtractPromptAndProblem(msg)
	if promptText != "ダンススタジオ、高品質" {
		t.Errorf("prompt = %q", promptText)
	}
	if problem != "鏡が歪んでいる" {
		t.Errorf("problem = %q", problem)
	}
}

func TestExtractPromptWithoutProblem(t *testing.T) {
	promptText, problem := ExtractPromptAndProblem("改善したいプロンプト：桜の木の下の猫")
	if promptText != "桜の木の下の猫" {
		t.Errorf("prompt = %q", promptText)
	}
	if problem != "" {
		t.Errorf("problem should be empty, got %q", problem)
	}
}

func TestExtractMissingSections(t *testing.T) {
	promptText, problem := ExtractPromptAndProblem("プロンプトを改善してください")
	if promptText != "" || problem != "" {
		t.Errorf("expected empty sections, got %q / %q", promptText, problem)
	}
}

func TestImprovePromptDeterministic(t *testing.T) {
	in := "ダンススタジオ、高品質、明るい照明"
	first := ImprovePrompt(in, "")
	second := ImprovePrompt(in, "")
	if first != second {
		t.Errorf("not deterministic: %q vs %q", first, second)
	}
}

func TestImprovePromptAddsDetailAfterQuality(t *testing.T) {
	got := ImprovePrompt("ダンススタジオ、高品質", "")
	want := "ダンススタジオ、高品質、超詳細な描写"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// Only once, and never when the prompt already has it.
	got = ImprovePrompt("高品質、超詳細な描写、高品質", "")
	if n := strings.Count(got, "超詳細"); n != 1 {
		t.Errorf("detail clause appeared %d times in %q", n, got)
	}
}

func TestImprovePromptMirrorProblem(t *testing.T) {
	got := ImprovePrompt("大きな鏡、ダンススタジオ", "鏡に映る手足がおかしい")
	if !strings.Contains(got, "大きな鏡（鏡に映る人物の手足が正確で自然な姿勢）") {
		t.Errorf("mirror clause not rewritten: %q", got)
	}

	// No existing mirror clause: a corrective clause is appended.
	got = ImprovePrompt("ダンススタジオ", "鏡が歪んでいる")
	if !strings.Contains(got, "鏡に正確に映る人物の姿勢") {
		t.Errorf("mirror correction not appended: %q", got)
	}
}

func TestImprovePromptNeverEmitsEmptyClauses(t *testing.T) {
	inputs := []string{
		"ダンス、、高品質、",
		"、、、",
		"  ダンス 、 高品質 ",
		"高品質、",
	}
	for _, in := range inputs {
		got := ImprovePrompt(in, "")
		if strings.Contains(got, "、、") {
			t.Errorf("ImprovePrompt(%q) = %q contains empty clause", in, got)
		}
		if strings.ContainsAny(got, " \t\n") {
			t.Errorf("ImprovePrompt(%q) = %q contains whitespace", in, got)
		}
	}
}

func TestGeneratePromptTooShort(t *testing.T) {
	for _, in := range []string{"", "あ", " "} {
		if got := GeneratePrompt(in); got != "画像生成のプロンプト" {
			t.Errorf("GeneratePrompt(%q) = %q", in, got)
		}
	}
}

func TestGeneratePromptShortWithStudio(t *testing.T) {
	got := GeneratePrompt("ダンススタジオ")
	if !strings.HasPrefix(got, "ダンススタジオ、高品質") {
		t.Errorf("expected quality detail, got %q", got)
	}
	if !strings.Contains(got, "明るい照明") {
		t.Errorf("expected lighting detail, got %q", got)
	}
}

func TestGeneratePromptLongSanitizes(t *testing.T) {
	got := GeneratePrompt("明るいダンススタジオで踊る人々のphoto、とてもキレイ")
	if strings.ContainsAny(got, "abcdefghijklmnopqrstuvwxyz") {
		t.Errorf("latin text not removed: %q", got)
	}
	if !strings.Contains(got, "高品質") {
		t.Errorf("dance scene should gain quality detail: %q", got)
	}
}

func TestStripInstructionBoilerplate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"画像生成のプロンプトを作成してください。ダンススタジオ", "ダンススタジオ"},
		{"ダンススタジオのプロンプトを日本語で返してください", "ダンススタジオの"},
		{"ダンススタジオ", "ダンススタジオ"},
	}
	for _, tc := range cases {
		if got := StripInstructionBoilerplate(tc.in); got != tc.want {
			t.Errorf("StripInstructionBoilerplate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	// Nothing left after stripping: fall back to the raw message.
	in := "画像生成のプロンプトを作成してください。"
	if got := StripInstructionBoilerplate(in); got != in {
		t.Errorf("empty residue should return raw message, got %q", got)
	}
}
