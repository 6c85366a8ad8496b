package prompt

import "strings"

// TaskType classifies the intent of a single conversational turn. It selects
// the default system prompt and the post-processing path for the response.
type TaskType string

const (
	TaskGeneral                TaskType = "general"
	TaskImagePromptGeneration  TaskType = "image_prompt_generation"
	TaskImagePromptImprovement TaskType = "image_prompt_improvement"
)

func (t TaskType) Valid() bool {
	switch t {
	case TaskGeneral, TaskImagePromptGeneration, TaskImagePromptImprovement:
		return true
	}
	return false
}

// classifierRule matches when any keyword of every group appears in the
// lowercased message. Rules are evaluated in order; first match wins.
type classifierRule struct {
	task   TaskType
	groups [][]string
}

var classifierRules = []classifierRule{
	{
		task: TaskImagePromptGeneration,
		groups: [][]string{
			{
				"プロンプトを作成", "プロンプトを生成", "プロンプトの作成", "プロンプトの生成",
				"create a prompt", "generate a prompt", "create an image prompt", "generate an image prompt",
			},
		},
	},
	{
		task: TaskImagePromptImprovement,
		groups: [][]string{
			{"改善", "improve"},
			{"プロンプト", "prompt"},
		},
	},
}

// Classify maps raw user text to a task type. ASCII keywords match
// case-insensitively; Japanese keywords match verbatim.
func Classify(message string) TaskType {
	lowered := strings.ToLower(message)
	for _, rule := range classifierRules {
		if matchesAllGroups(lowered, rule.groups) {
			return rule.task
		}
	}
	return TaskGeneral
}

func matchesAllGroups(lowered string, groups [][]string) bool {
	for _, group := range groups {
		if !matchesAny(lowered, group) {
			return false
		}
	}
	return true
}

func matchesAny(lowered string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// DefaultSystemPrompt returns the system prompt installed on a new session
// when the caller supplied none.
func DefaultSystemPrompt(task TaskType) string {
	switch task {
	case TaskImagePromptImprovement:
		return "あなたはプロのAIデザイナーです。画像生成プロンプトを改善してください。レスポンスは、日本語でプロンプトのみをテキストで返してください。見出しも不要。"
	case TaskImagePromptGeneration:
		return "あなたはプロのAIデザイナーです。説明から画像生成プロンプトを作成してください。レスポンスは、日本語でプロンプトのみをテキストで返してください。"
	default:
		return "You are a helpful assistant."
	}
}
