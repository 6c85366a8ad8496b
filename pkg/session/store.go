package session

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hotaru-ai/promptchat/pkg/logger"
	"github.com/hotaru-ai/promptchat/pkg/prompt"
)

var ErrNotFound = errors.New("Session not found")

// Store owns all sessions. Every state transition runs under its single
// mutex; the slow generation call is deliberately kept outside by handing
// callers value snapshots to render prompts from.
type Store struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	maxHistory  int
	timeout     time.Duration
	maxSessions int
	now         func() time.Time
}

func NewStore(maxHistory int, timeout time.Duration, maxSessions int) *Store {
	return &Store{
		sessions:    make(map[string]*Session),
		maxHistory:  maxHistory,
		timeout:     timeout,
		maxSessions: maxSessions,
		now:         time.Now,
	}
}

// GetOrCreate locates the session, minting a new one when id is empty or
// unknown. A supplied systemPrompt overrides the task default on creation and
// rewrites prompt and task on an existing session. Last access and the
// assigned model are always refreshed. Returns the id and a value snapshot.
func (s *Store) GetOrCreate(id string, task prompt.TaskType, systemPrompt, modelName string) (string, Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess, ok := s.sessions[id]
	if id == "" || !ok {
		id = uuid.NewString()
		sp := systemPrompt
		if sp == "" {
			sp = prompt.DefaultSystemPrompt(task)
		}
		sess = &Session{
			ID:           id,
			SystemPrompt: sp,
			ModelName:    modelName,
			Task:         task,
			CreatedAt:    now,
			LastAccess:   now,
		}
		s.sessions[id] = sess
		logger.InfoCF("session", "Created session", map[string]interface{}{
			"session_id": id,
			"task":       string(task),
		})
	} else if systemPrompt != "" {
		sess.SystemPrompt = systemPrompt
		sess.Task = task
	}

	sess.LastAccess = now
	sess.ModelName = modelName
	return id, sess.copy()
}

// AppendUserMessage appends and trims the history to 2×maxHistory, dropping
// the oldest user/assistant pairs. Returns a snapshot of the message list for
// prompt rendering.
func (s *Store) AppendUserMessage(id, content string) ([]Message, error) {
	return s.append(id, RoleUser, content)
}

func (s *Store) AppendAssistantMessage(id, content string) ([]Message, error) {
	return s.append(id, RoleAssistant, content)
}

func (s *Store) append(id string, role Role, content string) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}

	now := s.now()
	sess.Messages = append(sess.Messages, Message{Role: role, Content: content, Timestamp: now})
	for len(sess.Messages) > 2*s.maxHistory {
		sess.Messages = sess.Messages[2:]
	}
	sess.LastAccess = now

	out := make([]Message, len(sess.Messages))
	copy(out, sess.Messages)
	return out, nil
}

// CleanupExpired removes every session idle longer than the timeout.
func (s *Store) CleanupExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.LastAccess) > s.timeout {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		logger.InfoCF("session", "Expired sessions removed", map[string]interface{}{"count": removed})
	}
	return removed
}

// EnforceCapacity evicts the least recently accessed sessions until the
// count is back at the limit.
func (s *Store) EnforceCapacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sessions) <= s.maxSessions {
		return 0
	}

	all := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		all = append(all, sess)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].LastAccess.Before(all[j].LastAccess)
	})

	removed := 0
	for _, sess := range all {
		if len(s.sessions) <= s.maxSessions {
			break
		}
		delete(s.sessions, sess.ID)
		removed++
	}
	logger.InfoCF("session", "Capacity eviction", map[string]interface{}{"count": removed})
	return removed
}

func (s *Store) Get(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return sess.copy(), nil
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

// ListSummaries returns all sessions ordered by creation time.
func (s *Store) ListSummaries() []Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Summary, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, Summary{
			SessionID:    sess.ID,
			MessageCount: len(sess.Messages),
			CreatedAt:    sess.CreatedAt,
			LastAccess:   sess.LastAccess,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (sess *Session) copy() Session {
	out := *sess
	out.Messages = make([]Message, len(sess.Messages))
	copy(out.Messages, sess.Messages)
	return out
}
