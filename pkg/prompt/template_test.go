package prompt

import (
	"strings"
	"testing"
)

func TestRenderZephyr(t *testing.T) {
	turns := []Turn{
		{Role: RoleUser, Content: "Hello"},
		{Role: RoleAssistant, Content: "Hi there"},
		{Role: RoleUser, Content: "How are you?"},
	}
	got := Render("TinyLlama/TinyLlama-1.1B-Chat-v1.0", turns, "Be helpful.")

	want := "<|system|>\nBe helpful.</s>\n" +
		"<|user|>\nHello</s>\n" +
		"<|assistant|>\nHi there</s>\n" +
		"<|user|>\nHow are you?</s>\n" +
		"<|assistant|>\n"
	if got != want {
		t.Errorf("zephyr render mismatch:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestRenderChatML(t *testing.T) {
	turns := []Turn{{Role: RoleUser, Content: "こんにちは"}}
	got := Render("Qwen/Qwen2.5-0.5B-Instruct", turns, "システム指示")

	want := "<|im_start|>system\nシステム指示<|im_end|>\n" +
		"<|im_start|>user\nこんにちは<|im_end|>\n" +
		"<|im_start|>assistant\n"
	if got != want {
		t.Errorf("chatml render mismatch:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestRenderJapanese(t *testing.T) {
	turns := []Turn{
		{Role: RoleUser, Content: "質問です"},
		{Role: RoleAssistant, Content: "回答です"},
	}
	got := Render("rinna/japanese-gpt-neox-3.6b", turns, "指示")

	want := "システム: 指示\nユーザー: 質問です\nアシスタント: 回答です\nアシスタント: "
	if got != want {
		t.Errorf("japanese render mismatch:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestRenderGenericLimitsHistory(t *testing.T) {
	turns := make([]Turn, 0, 10)
	for i := 0; i < 5; i++ {
		turns = append(turns, Turn{Role: RoleUser, Content: "u"})
		turns = append(turns, Turn{Role: RoleAssistant, Content: "a"})
	}
	got := Render("some-unknown-model", turns, "sys")

	if n := strings.Count(got, "User: "); n != 3 {
		t.Errorf("generic render kept %d user turns, want 3", n)
	}
	if !strings.HasSuffix(got, "Assistant:") {
		t.Errorf("generic render should end with assistant marker, got %q", got)
	}
	if !strings.HasPrefix(got, "System: sys") {
		t.Errorf("generic render should start with system prompt, got %q", got)
	}
}

func TestResolveProfile(t *testing.T) {
	qwen := Resolve("Qwen/Qwen2.5-1.5B-Instruct")
	if qwen.MaxNewTokens != 200 || qwen.Temperature != 0.3 {
		t.Errorf("unexpected qwen profile: %+v", qwen)
	}

	rinna := Resolve("rinna/japanese-gpt-neox-3.6b")
	if rinna.MaxNewTokens != 768 || rinna.Temperature != 0.9 {
		t.Errorf("unexpected rinna profile: %+v", rinna)
	}

	if got := Resolve("totally-unknown"); got != DefaultProfile() {
		t.Errorf("unknown model should get default profile, got %+v", got)
	}
}
