package quality

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Rule-based synthesizer for the two image-prompt task types. Everything in
// this file is pure and deterministic: identical input always yields
// identical output.

var (
	promptSectionRe = regexp.MustCompile(`(?s)改善したいプロンプト：(.+?)(?:問題：|$)`)
	problemSectionRe = regexp.MustCompile(`(?s)問題：(.+)$`)

	whitespaceRe  = regexp.MustCompile(`\s+`)
	trailingSepRe = regexp.MustCompile(`[\s、]+$`)
	asciiCommaRe  = regexp.MustCompile(`,\s*`)
	leadingDotsRe = regexp.MustCompile(`^\.*`)

	// Everything outside hiragana, katakana, kanji and Japanese punctuation.
	nonJapaneseRe = regexp.MustCompile(`[^ぁ-ん ァ-ヴー一-龥々〆〤ゝゞ、。・ー，、]`)
)

// Instruction boilerplate stripped from the head of generation requests
// before the description is handed to the synthesizer. Ordered; each pattern
// is applied once over the whole message.
var instructionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^画像生成.*?ください。?`),
	regexp.MustCompile(`プロンプト.*?返してください`),
	regexp.MustCompile(`プロンプト.*?ください`),
	regexp.MustCompile(`日本語.*?返してください`),
	regexp.MustCompile(`日本語.*?ください`),
	regexp.MustCompile(`１行.*?ください`),
	regexp.MustCompile(`1行.*?ください`),
}

// ExtractPromptAndProblem pulls the labeled sections out of an improvement
// request ("改善したいプロンプト：…" and an optional "問題：…").
func ExtractPromptAndProblem(message string) (promptText, problem string) {
	if m := promptSectionRe.FindStringSubmatch(message); m != nil {
		promptText = strings.TrimSpace(m[1])
	}
	if m := problemSectionRe.FindStringSubmatch(message); m != nil {
		problem = strings.TrimSpace(m[1])
	}
	return promptText, problem
}

// StripInstructionBoilerplate removes the "please create / please answer in
// Japanese" framing from a generation request, leaving the description.
// Falls back to the raw message when nothing remains.
func StripInstructionBoilerplate(message string) string {
	clean := message
	for _, re := range instructionPatterns {
		clean = re.ReplaceAllString(clean, "")
	}
	clean = strings.TrimSpace(clean)
	clean = strings.TrimLeft(clean, "。、")
	clean = leadingDotsRe.ReplaceAllString(clean, "")
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return message
	}
	return clean
}

// ImprovePrompt rewrites an image prompt clause list. The problem text, when
// present, injects a corrective clause for the element it mentions; a
// "高品質" clause triggers one extra detail clause the first time it is seen.
func ImprovePrompt(original, problem string) string {
	p := strings.TrimSpace(original)
	p = strings.TrimRight(p, "、,")

	if problem != "" && strings.Contains(problem, "鏡") {
		p = strings.ReplaceAll(p, "大きな鏡", "大きな鏡（鏡に映る人物の手足が正確で自然な姿勢）")
		if !strings.Contains(p, "大きな鏡") {
			p += "、鏡に正確に映る人物の姿勢"
		}
	}

	var parts []string
	for _, part := range strings.Split(p, "、") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}

	improved := make([]string, 0, len(parts)+1)
	addedDetail := false
	for _, part := range parts {
		improved = append(improved, part)
		if strings.Contains(part, "高品質") && !strings.Contains(p, "超詳細") && !addedDetail {
			improved = append(improved, "超詳細な描写")
			addedDetail = true
		}
	}

	out := strings.Join(improved, "、")
	return whitespaceRe.ReplaceAllString(out, "")
}

// GeneratePrompt builds an image prompt from a free-form description.
func GeneratePrompt(description string) string {
	p := strings.TrimSpace(description)
	if utf8.RuneCountInString(p) < 2 {
		return "画像生成のプロンプト"
	}

	p = strings.TrimLeft(p, "。、")
	p = strings.TrimSpace(p)

	if utf8.RuneCountInString(p) > 15 {
		p = nonJapaneseRe.ReplaceAllString(p, "")
		p = strings.TrimSpace(p)
		p = strings.TrimRight(p, "。、 ")
		if !strings.Contains(p, "高品質") && (strings.Contains(p, "ダンス") || strings.Contains(p, "教室")) {
			p += "、高品質、明るい照明"
		}
		return p
	}

	var details []string
	if strings.Contains(description, "ダンス") || strings.Contains(description, "教室") || strings.Contains(description, "スタジオ") {
		if !strings.Contains(p, "高品質") {
			details = append(details, "高品質")
		}
		if !strings.Contains(p, "明るい") && !strings.Contains(p, "照明") {
			details = append(details, "明るい照明")
		}
	}
	if len(details) > 0 {
		p += "、" + strings.Join(details, ",")
	}

	p = nonJapaneseRe.ReplaceAllString(p, "")
	p = trailingSepRe.ReplaceAllString(p, "")
	p = asciiCommaRe.ReplaceAllString(p, "、")
	return p
}
