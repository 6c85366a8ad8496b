package prompt

import "strings"

// Turn is one message of the rendered history.
type Turn struct {
	Role    string // "user" or "assistant"
	Content string
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// genericHistoryLimit bounds history for models with no known chat template;
// family templates render the full trimmed history.
const genericHistoryLimit = 6

type family struct {
	match  []string
	render func(turns []Turn, systemPrompt string) string
}

// Ordered: first substring match on the lowercased model id wins.
var families = []family{
	{match: []string{"tinyllama", "zephyr"}, render: renderZephyr},
	{match: []string{"qwen", "chatml"}, render: renderChatML},
	{match: []string{"gpt-neox", "rinna", "japanese"}, render: renderJapanese},
}

// Render formats the conversation for a given model. The result always ends
// with an empty assistant turn marker so the model continues from there.
func Render(modelID string, turns []Turn, systemPrompt string) string {
	lowered := strings.ToLower(modelID)
	for _, f := range families {
		if matchesAny(lowered, f.match) {
			return f.render(turns, systemPrompt)
		}
	}
	return renderGeneric(turns, systemPrompt)
}

func renderZephyr(turns []Turn, systemPrompt string) string {
	parts := make([]string, 0, len(turns)+2)
	if systemPrompt != "" {
		parts = append(parts, "<|system|>\n"+systemPrompt+"</s>")
	}
	for _, t := range turns {
		switch t.Role {
		case RoleUser:
			parts = append(parts, "<|user|>\n"+t.Content+"</s>")
		case RoleAssistant:
			parts = append(parts, "<|assistant|>\n"+t.Content+"</s>")
		}
	}
	parts = append(parts, "<|assistant|>\n")
	return strings.Join(parts, "\n")
}

func renderChatML(turns []Turn, systemPrompt string) string {
	var sb strings.Builder
	if systemPrompt != "" {
		sb.WriteString("<|im_start|>system\n")
		sb.WriteString(systemPrompt)
		sb.WriteString("<|im_end|>\n")
	}
	for _, t := range turns {
		switch t.Role {
		case RoleUser, RoleAssistant:
			sb.WriteString("<|im_start|>")
			sb.WriteString(t.Role)
			sb.WriteString("\n")
			sb.WriteString(t.Content)
			sb.WriteString("<|im_end|>\n")
		}
	}
	sb.WriteString("<|im_start|>assistant\n")
	return sb.String()
}

func renderJapanese(turns []Turn, systemPrompt string) string {
	parts := make([]string, 0, len(turns)+2)
	if systemPrompt != "" {
		parts = append(parts, "システム: "+systemPrompt)
	}
	for _, t := range turns {
		switch t.Role {
		case RoleUser:
			parts = append(parts, "ユーザー: "+t.Content)
		case RoleAssistant:
			parts = append(parts, "アシスタント: "+t.Content)
		}
	}
	parts = append(parts, "アシスタント: ")
	return strings.Join(parts, "\n")
}

func renderGeneric(turns []Turn, systemPrompt string) string {
	if len(turns) > genericHistoryLimit {
		turns = turns[len(turns)-genericHistoryLimit:]
	}
	parts := make([]string, 0, len(turns)+2)
	if systemPrompt != "" {
		parts = append(parts, "System: "+systemPrompt)
	}
	for _, t := range turns {
		switch t.Role {
		case RoleUser:
			parts = append(parts, "User: "+t.Content)
		case RoleAssistant:
			parts = append(parts, "Assistant: "+t.Content)
		}
	}
	parts = append(parts, "Assistant:")
	return strings.Join(parts, "\n")
}
