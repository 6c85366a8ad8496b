package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/hotaru-ai/promptchat/pkg/chat"
	"github.com/hotaru-ai/promptchat/pkg/config"
	"github.com/hotaru-ai/promptchat/pkg/session"
)

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chat.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.svc.Chat(r.Context(), req)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyMessage) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type historyResponse struct {
	SessionID    string            `json:"session_id"`
	Messages     []session.Message `json:"messages"`
	SystemPrompt string            `json:"system_prompt"`
	CreatedAt    time.Time         `json:"created_at"`
	MessageCount int               `json:"message_count"`
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("session_id")
	sess, err := s.svc.History(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{
		SessionID:    sess.ID,
		Messages:     sess.Messages,
		SystemPrompt: sess.SystemPrompt,
		CreatedAt:    sess.CreatedAt,
		MessageCount: len(sess.Messages),
	})
}

func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("session_id")
	if err := s.svc.DeleteHistory(id); err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"session_id": id,
		"message":    "History deleted",
	})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	summaries := s.svc.Sessions()
	writeJSON(w, http.StatusOK, map[string]any{
		"sessions": summaries,
		"total":    len(summaries),
	})
}

type modelEntry struct {
	config.ModelInfo
	Loaded bool `json:"loaded"`
}

func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	loaded := map[string]bool{}
	for _, name := range s.svc.LoadedModels() {
		loaded[name] = true
	}

	entries := []modelEntry{}
	for _, info := range config.ListModels() {
		entries = append(entries, modelEntry{ModelInfo: info, Loaded: loaded[info.Name]})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"models":       entries,
		"default":      s.defaultModel,
		"loaded_count": len(loaded),
	})
}

func (s *Server) handleGetModel(w http.ResponseWriter, r *http.Request) {
	info, err := config.ModelByKey(r.PathValue("key"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	loaded := false
	for _, name := range s.svc.LoadedModels() {
		if name == info.Name {
			loaded = true
			break
		}
	}
	writeJSON(w, http.StatusOK, modelEntry{ModelInfo: info, Loaded: loaded})
}

func (s *Server) handleQuality(w http.ResponseWriter, r *http.Request) {
	if s.verdicts == nil {
		writeError(w, http.StatusNotFound, "quality log disabled")
		return
	}

	counts, err := s.verdicts.Counts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	recent, err := s.verdicts.Recent(r.Context(), 20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"counts": counts,
		"recent": recent,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.svc.SessionCount(),
	})
}
