package handler

import (
	"context"
	"net/http"
	"strconv"

	"hotelsearch/internal/model"
	"hotelsearch/internal/service"

	"github.com/gin-gonic/gin"
)

// HistoryReader returns stored conversation messages
type HistoryReader interface {
	ConversationHistory(ctx context.Context, sessionID string, limit int) ([]model.ConversationEntry, error)
}

// ChatHandler handles conversational booking HTTP requests
type ChatHandler struct {
	agent   *service.Agent
	history HistoryReader
}

// NewChatHandler creates a new chat handler. history may be nil.
func NewChatHandler(agent *service.Agent, history HistoryReader) *ChatHandler {
	return &ChatHandler{
		agent:   agent,
		history: history,
	}
}

// CreateSession handles POST /api/v1/chat/sessions
func (h *ChatHandler) CreateSession(c *gin.Context) {
	sess, err := h.agent.StartSession(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to create session", err)
		return
	}
	c.JSON(http.StatusCreated, sessionResponse(sess))
}

// GetSession handles GET /api/v1/chat/sessions/:id
func (h *ChatHandler) GetSession(c *gin.Context) {
	sess, err := h.agent.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "Failed to get session", err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(sess))
}

// DeleteSession handles DELETE /api/v1/chat/sessions/:id
func (h *ChatHandler) DeleteSession(c *gin.Context) {
	if err := h.agent.EndSession(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, "Failed to delete session", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// History handles GET /api/v1/chat/sessions/:id/history
func (h *ChatHandler) History(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Conversation history is not enabled"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 500 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 500"})
		return
	}

	entries, err := h.history.ConversationHistory(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respondError(c, "Failed to load history", err)
		return
	}
	if entries == nil {
		entries = []model.ConversationEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"session_id": c.Param("id"), "messages": entries})
}

// Send handles POST /api/v1/chat
func (h *ChatHandler) Send(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	response, err := h.agent.SendTurn(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		respondError(c, "Chat failed", err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func sessionResponse(sess *service.Session) model.SessionResponse {
	return model.SessionResponse{
		SessionID:   sess.ID,
		Preferences: sess.Preferences,
		Ready:       sess.Preferences.IsReadyForSearch(),
		Missing:     sess.Preferences.Missing(),
	}
}
