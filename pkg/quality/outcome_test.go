package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hotaru-ai/promptchat/pkg/prompt"
)

func TestFinalizeOutcomes(t *testing.T) {
	improvementMsg := "改善したいプロンプト：ダンススタジオ、高品質\n問題：鏡"
	generationMsg := "画像生成のプロンプトを作成してください。ダンススタジオ"

	tests := []struct {
		name    string
		raw     string
		task    prompt.TaskType
		message string
		want    Outcome
	}{
		{"general passthrough", "わかりました。", prompt.TaskGeneral, "こんにちは", OutcomeAccepted},
		{"general empty", "", prompt.TaskGeneral, "こんにちは", OutcomeApology},
		{"general markers only", "</s><|im_end|>", prompt.TaskGeneral, "こんにちは", OutcomeApology},
		{"generation clean", "日本のダンススタジオ、明るい照明、高品質", prompt.TaskImagePromptGeneration, generationMsg, OutcomeAccepted},
		{"generation english sentence", "A bright dance studio with mirrors", prompt.TaskImagePromptGeneration, generationMsg, OutcomeFallback},
		{"generation mixed script", "ダンスstudioの写真、明るい照明で撮影する場面", prompt.TaskImagePromptGeneration, generationMsg, OutcomeFallback},
		{"generation too short", "ダンス", prompt.TaskImagePromptGeneration, generationMsg, OutcomeFallback},
		{"generation polite ending", "ダンススタジオの画像を作成します", prompt.TaskImagePromptGeneration, generationMsg, OutcomeFallback},
		{"improvement clean", "桜の木の下の猫、柔らかい光、高品質", prompt.TaskImagePromptImprovement, improvementMsg, OutcomeAccepted},
		{"improvement english sentence", "Here is your improved prompt", prompt.TaskImagePromptImprovement, improvementMsg, OutcomeFallback},
		{"improvement caveat", "高品質な写真。ただし光が必要", prompt.TaskImagePromptImprovement, improvementMsg, OutcomeFallback},
		{"improvement empty output", "", prompt.TaskImagePromptImprovement, improvementMsg, OutcomeFallback},
		{"improvement no prompt section", "何か", prompt.TaskImagePromptImprovement, "プロンプトを改善してください", OutcomeFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, outcome := Finalize(tt.raw, tt.task, tt.message)
			assert.Equal(t, tt.want, outcome)
			assert.NotEmpty(t, got)
		})
	}
}
