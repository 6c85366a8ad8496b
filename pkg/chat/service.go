package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hotaru-ai/promptchat/pkg/backend"
	"github.com/hotaru-ai/promptchat/pkg/config"
	"github.com/hotaru-ai/promptchat/pkg/logger"
	"github.com/hotaru-ai/promptchat/pkg/modelcache"
	"github.com/hotaru-ai/promptchat/pkg/prompt"
	"github.com/hotaru-ai/promptchat/pkg/quality"
	"github.com/hotaru-ai/promptchat/pkg/qualitylog"
	"github.com/hotaru-ai/promptchat/pkg/session"
)

var ErrEmptyMessage = errors.New("Message is required")

// Request is one chat turn from a client.
type Request struct {
	Message      string          `json:"message"`
	SessionID    string          `json:"session_id,omitempty"`
	SystemPrompt string          `json:"system_prompt,omitempty"`
	ModelKey     string          `json:"model,omitempty"`
	Task         prompt.TaskType `json:"task_type,omitempty"`
}

// Response is the reply to one chat turn.
type Response struct {
	Response  string    `json:"response"`
	SessionID string    `json:"session_id"`
	Model     string    `json:"model"`
	Timestamp time.Time `json:"timestamp"`
}

// Service orchestrates one chat turn: classify, resolve model, update the
// session, render the prompt, generate, and run the output through quality
// control. Safe for concurrent use; only session bookkeeping holds a lock,
// generation itself runs lock-free on snapshots.
type Service struct {
	cfg      *config.Config
	store    *session.Store
	cache    *modelcache.Cache
	verdicts *qualitylog.Store
	now      func() time.Time
}

// NewService wires a Service from config. verdicts may be nil to disable
// the persistent quality log.
func NewService(cfg *config.Config, loader backend.Loader, verdicts *qualitylog.Store) *Service {
	return &Service{
		cfg:      cfg,
		store:    session.NewStore(cfg.Chat.MaxHistoryMessages, cfg.SessionTimeout(), cfg.Chat.MaxSessions),
		cache:    modelcache.New(loader),
		verdicts: verdicts,
		now:      time.Now,
	}
}

// Chat runs one conversational turn.
func (s *Service) Chat(ctx context.Context, req Request) (Response, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return Response{}, ErrEmptyMessage
	}

	task := req.Task
	if task == "" {
		task = prompt.Classify(message)
	} else if !task.Valid() {
		return Response{}, fmt.Errorf("unknown task type: %s", task)
	}

	// Expiry and capacity run before the turn so a new session never pushes
	// the store over its limit.
	s.store.CleanupExpired()
	s.store.EnforceCapacity()

	modelKey := req.ModelKey
	if modelKey == "" {
		modelKey = s.cfg.Chat.DefaultModel
	}
	modelName, err := config.ResolveModelName(modelKey)
	if err != nil {
		return Response{}, err
	}

	sessionID, sess := s.store.GetOrCreate(req.SessionID, task, req.SystemPrompt, modelName)

	history, err := s.store.AppendUserMessage(sessionID, message)
	if err != nil {
		return Response{}, err
	}

	promptText := prompt.Render(modelName, toTurns(history), sess.SystemPrompt)
	profile := prompt.Resolve(modelName)

	start := s.now()
	gen, err := s.cache.GetOrLoad(ctx, modelName)
	if err != nil {
		logger.ErrorCF("chat", "Model load failed", map[string]interface{}{
			"session_id": sessionID,
			"model":      modelKey,
			"error":      err.Error(),
		})
		return Response{}, fmt.Errorf("model load failed: %w", err)
	}

	raw, err := gen.Generate(ctx, promptText, profile)
	if err != nil {
		// The user message stays in the history; no assistant message is
		// recorded for a failed generation.
		logger.ErrorCF("chat", "Generation failed", map[string]interface{}{
			"session_id": sessionID,
			"model":      modelKey,
			"error":      err.Error(),
		})
		return Response{}, fmt.Errorf("generation failed: %w", err)
	}

	final, outcome := quality.Finalize(raw, task, message)
	latency := s.now().Sub(start)

	updated, err := s.store.AppendAssistantMessage(sessionID, final)
	if err != nil {
		return Response{}, err
	}

	logger.InfoCF("chat", "Turn completed", map[string]interface{}{
		"session_id": sessionID,
		"model":      modelKey,
		"task":       string(task),
		"verdict":    string(outcome),
		"latency_ms": latency.Milliseconds(),
	})

	if s.verdicts != nil {
		entry := qualitylog.Entry{
			SessionID: sessionID,
			Model:     modelKey,
			Task:      string(task),
			Verdict:   string(outcome),
			LatencyMS: latency.Milliseconds(),
		}
		if err := s.verdicts.Record(ctx, entry); err != nil {
			logger.WarnCF("chat", "Verdict record failed", map[string]interface{}{"error": err.Error()})
		}
	}

	return Response{
		Response:  final,
		SessionID: sessionID,
		Model:     modelKey,
		Timestamp: updated[len(updated)-1].Timestamp,
	}, nil
}

// History returns a snapshot of the session, or session.ErrNotFound.
func (s *Service) History(sessionID string) (session.Session, error) {
	return s.store.Get(sessionID)
}

// DeleteHistory removes the session, or returns session.ErrNotFound.
func (s *Service) DeleteHistory(sessionID string) error {
	return s.store.Delete(sessionID)
}

// Sessions lists all active sessions ordered by creation time.
func (s *Service) Sessions() []session.Summary {
	return s.store.ListSummaries()
}

func (s *Service) SessionCount() int {
	return s.store.Len()
}

// LoadedModels returns the backend model names currently held by the cache.
func (s *Service) LoadedModels() []string {
	return s.cache.Loaded()
}

func toTurns(messages []session.Message) []prompt.Turn {
	turns := make([]prompt.Turn, 0, len(messages))
	for _, m := range messages {
		turns = append(turns, prompt.Turn{Role: string(m.Role), Content: m.Content})
	}
	return turns
}
