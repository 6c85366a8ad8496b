package backend

import (
	"context"

	"github.com/hotaru-ai/promptchat/pkg/prompt"
)

// Generator is a loaded text-generation backend for a single model. Given a
// fully rendered prompt and a sampling profile it returns the continuation.
type Generator interface {
	Generate(ctx context.Context, promptText string, profile prompt.Profile) (string, error)
}

// Loader acquires a Generator for a model identifier. Loading may take
// minutes; implementations must honor ctx cancellation.
type Loader interface {
	Load(ctx context.Context, modelName string) (Generator, error)
}
