package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/wolfman30/campus-guide-ai/internal/conversation"
	"github.com/wolfman30/campus-guide-ai/pkg/logging"
)

const maxChatBodyBytes = 64 << 10

// ChatService is the conversational surface exposed over HTTP.
type ChatService interface {
	GenerateResponse(ctx context.Context, message, sessionID string) (string, error)
	ClearSession(ctx context.Context, sessionID string) error
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse is the body returned by POST /chat.
type ChatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

// ClearHistoryRequest is the body of POST /clear-history.
type ClearHistoryRequest struct {
	SessionID string `json:"session_id,omitempty"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// ChatHandler serves the chat and clear-history endpoints.
type ChatHandler struct {
	service ChatService
	logger  *logging.Logger
}

func NewChatHandler(service ChatService, logger *logging.Logger) *ChatHandler {
	if service == nil {
		panic("handlers: chat service cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ChatHandler{service: service, logger: logger}
}

// Chat answers one message.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid request body"})
		return
	}
	sessionID := sessionOrDefault(req.SessionID)

	answer, err := h.service.GenerateResponse(r.Context(), req.Message, sessionID)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, ChatResponse{Response: answer, SessionID: sessionID})
	case errors.Is(err, conversation.ErrEmptyMessage):
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "Message cannot be empty"})
	case errors.Is(err, conversation.ErrModelUnavailable):
		h.logger.Error("chat model unavailable", "session_id", sessionID, "error", err)
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Detail: "The assistant is temporarily unavailable. Please try again."})
	default:
		h.logger.Error("chat failed", "session_id", sessionID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "internal error"})
	}
}

// ClearHistory drops the conversation state of a session.
func (h *ChatHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	var req ClearHistoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid request body"})
		return
	}
	sessionID := sessionOrDefault(req.SessionID)
	if err := h.service.ClearSession(r.Context(), sessionID); err != nil {
		h.logger.Error("clear history failed", "session_id", sessionID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "failed to clear history"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message":    "History cleared",
		"session_id": sessionID,
	})
}

// decodeJSON accepts an empty body as the zero value.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(io.LimitReader(r.Body, maxChatBodyBytes)).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func sessionOrDefault(sessionID string) string {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return conversation.DefaultSessionID
	}
	return sessionID
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
