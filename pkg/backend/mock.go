package backend

import (
	"context"
	"strings"
	"time"

	"github.com/hotaru-ai/promptchat/pkg/prompt"
)

// MockLoader satisfies Loader without any external backend; used in mock mode
// and in tests.
type MockLoader struct{}

func NewMockLoader() *MockLoader { return &MockLoader{} }

func (l *MockLoader) Load(ctx context.Context, modelName string) (Generator, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return &mockGenerator{model: modelName}, nil
}

type cannedResponse struct {
	keywords []string
	reply    string
}

var cannedResponses = []cannedResponse{
	{keywords: []string{"こんにちは", "hello", "hi"}, reply: "こんにちは！何かお手伝いできることはありますか？"},
	{keywords: []string{"元気", "how are you"}, reply: "元気です。ありがとうございます！"},
	{keywords: []string{"ダンス", "スタジオ"}, reply: "日本のダンススタジオ、明るい照明、高品質"},
	{keywords: []string{"プロンプト", "prompt"}, reply: "桜の木の下の猫、柔らかい光、高品質"},
}

type mockGenerator struct {
	model string
}

func (g *mockGenerator) Generate(ctx context.Context, promptText string, profile prompt.Profile) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(10 * time.Millisecond):
	}

	lowered := strings.ToLower(promptText)
	for _, c := range cannedResponses {
		for _, kw := range c.keywords {
			if strings.Contains(lowered, kw) {
				return c.reply, nil
			}
		}
	}
	return "なるほど、わかりました。", nil
}
