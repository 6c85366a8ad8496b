package quality

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/hotaru-ai/promptchat/pkg/logger"
	"github.com/hotaru-ai/promptchat/pkg/prompt"
)

// Outcome records how a response was produced.
type Outcome string

const (
	// OutcomeAccepted means the backend output passed validation (possibly
	// after sentence trimming and vocabulary substitution).
	OutcomeAccepted Outcome = "accepted"
	// OutcomeFallback means the backend output was discarded and the
	// rule-based synthesizer produced the response.
	OutcomeFallback Outcome = "fallback"
	// OutcomeApology means no usable response could be produced at all.
	OutcomeApology Outcome = "apology"
)

const (
	apologyMessage       = "申し訳ありませんが、応答を生成できませんでした。"
	noPromptMessage      = "申し訳ありませんが、プロンプトが確認できませんでした。"
	noDescriptionMessage = "申し訳ありませんが、説明が確認できませんでした。"
)

var (
	latinWordRe = regexp.MustCompile(`\b[a-zA-Z]+\b`)
	latinCharRe = regexp.MustCompile(`[a-zA-Z]`)
	cjkRe       = regexp.MustCompile(`[\x{4e00}-\x{9fff}]`)
	// Hiragana, katakana and kanji.
	japaneseCharRe = regexp.MustCompile(`[\x{3040}-\x{309f}\x{30a0}-\x{30ff}\x{4e00}-\x{9fff}]`)
)

// Turn delimiters the backend may echo back when it keeps generating past the
// assistant turn. Output is truncated at the first one found.
var turnDelimiters = []string{
	"<|user|>",
	"<|system|>",
	"<|im_start|>user",
	"<|im_start|>system",
	"ユーザー:",
	"User:",
	"システム:",
}

// Control markers removed from the output wherever they appear.
var controlMarkers = []string{
	"<|assistant|>",
	"</s>",
	"<|im_end|>",
	"<|im_start|>assistant",
	"<|endoftext|>",
	"アシスタント:",
	"Assistant:",
}

// Meta-commentary markers that disqualify an image-prompt response. A prompt
// is a bare clause list; polite verb endings and caveats mean the model slid
// back into conversation.
var (
	improvementMetaMarkers = []string{"注意", "備考", "ただし", "ですが", "説明", "理由", "詳細", "ます", "ました", "します"}
	generationMetaMarkers  = []string{"注意", "備考", "ただし", "ですが", "説明", "理由", "です", "ます", "ました"}
)

// Latin vocabulary the small models habitually mix into otherwise-Japanese
// prompts. Applied only to accepted image-prompt output.
var substitutions = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`(?i)\bhigh quality\b`), "高品質"},
	{regexp.MustCompile(`(?i)\bdance\b`), "ダンス"},
	{regexp.MustCompile(`(?i)\bstudio\b`), "スタジオ"},
	{regexp.MustCompile(`(?i)\bmirror\b`), "鏡"},
	{regexp.MustCompile(`(?i)\blighting\b`), "照明"},
	{regexp.MustCompile(`(?i)\bprofessional\b`), "プロフェッショナル"},
}

// StripMarkers truncates raw backend output at the first echoed turn
// delimiter and removes template control tokens.
func StripMarkers(raw string) string {
	text := raw
	cut := len(text)
	for _, d := range turnDelimiters {
		if i := strings.Index(text, d); i >= 0 && i < cut {
			cut = i
		}
	}
	text = text[:cut]
	for _, m := range controlMarkers {
		text = strings.ReplaceAll(text, m, "")
	}
	return strings.TrimSpace(text)
}

// Finalize turns raw backend output into the response returned to the client.
// General chat passes through nearly untouched; the two image-prompt tasks go
// through validation and, on rejection, the rule-based synthesizer. The
// returned Outcome says which path was taken.
func Finalize(raw string, task prompt.TaskType, originalMessage string) (string, Outcome) {
	text := StripMarkers(raw)

	switch task {
	case prompt.TaskImagePromptImprovement:
		return finalizeImprovement(text, originalMessage)
	case prompt.TaskImagePromptGeneration:
		return finalizeGeneration(text, originalMessage)
	default:
		if text == "" {
			return apologyMessage, OutcomeApology
		}
		return text, OutcomeAccepted
	}
}

func finalizeImprovement(text, originalMessage string) (string, Outcome) {
	origPrompt, problem := ExtractPromptAndProblem(originalMessage)
	if origPrompt == "" {
		return noPromptMessage, OutcomeFallback
	}

	if reason := rejectImprovement(text); reason == "" {
		return polish(text), OutcomeAccepted
	} else {
		logger.DebugCF("quality", "Rejected backend output", map[string]interface{}{
			"task":   string(prompt.TaskImagePromptImprovement),
			"reason": reason,
		})
	}
	return ImprovePrompt(origPrompt, problem), OutcomeFallback
}

func rejectImprovement(text string) string {
	if text == "" {
		return "empty"
	}
	if len(latinWordRe.FindAllString(text, -1)) >= 2 {
		return "english words"
	}
	if len(latinCharRe.FindAllString(text, -1)) >= 3 && len(japaneseCharRe.FindAllString(text, -1)) > 0 {
		return "mixed scripts"
	}
	if len(cjkRe.FindAllString(text, -1)) >= 10 {
		return "dense kanji"
	}
	n := utf8.RuneCountInString(text)
	if n <= 10 || n >= 500 {
		return "length"
	}
	if m := containsAny(text, improvementMetaMarkers); m != "" {
		return "meta marker " + m
	}
	return ""
}

func finalizeGeneration(text, originalMessage string) (string, Outcome) {
	if strings.TrimSpace(originalMessage) == "" {
		return noDescriptionMessage, OutcomeFallback
	}

	if reason := rejectGeneration(text); reason == "" {
		return polish(text), OutcomeAccepted
	} else {
		logger.DebugCF("quality", "Rejected backend output", map[string]interface{}{
			"task":   string(prompt.TaskImagePromptGeneration),
			"reason": reason,
		})
	}
	return GeneratePrompt(StripInstructionBoilerplate(originalMessage)), OutcomeFallback
}

func rejectGeneration(text string) string {
	if text == "" {
		return "empty"
	}
	if len(latinWordRe.FindAllString(text, -1)) >= 2 {
		return "english words"
	}
	ja := len(japaneseCharRe.FindAllString(text, -1))
	if len(latinCharRe.FindAllString(text, -1)) >= 3 && ja > 0 {
		return "mixed scripts"
	}
	n := utf8.RuneCountInString(text)
	if ja <= 5 || n <= 5 || n >= 300 {
		return "length"
	}
	if m := containsAny(text, generationMetaMarkers); m != "" {
		return "meta marker " + m
	}
	return ""
}

// polish trims an accepted image prompt to its first sentence (keeping the
// second only when the first is very short) and swaps stray Latin vocabulary
// for the Japanese equivalent.
func polish(text string) string {
	var sentences []string
	for _, s := range strings.Split(text, "。") {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}

	out := text
	if len(sentences) > 0 {
		out = sentences[0]
		if len(sentences) > 1 && utf8.RuneCountInString(sentences[0]) < 20 {
			out += "。" + sentences[1]
		}
	}

	for _, sub := range substitutions {
		out = sub.re.ReplaceAllString(out, sub.repl)
	}
	return strings.TrimSpace(out)
}

func containsAny(text string, markers []string) string {
	for _, m := range markers {
		if strings.Contains(text, m) {
			return m
		}
	}
	return ""
}
