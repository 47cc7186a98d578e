package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Tototoyo/cctv-pr/internal/models"
	"github.com/gin-gonic/gin"
)

// PromptStore is the persistence gateway as seen by handlers
type PromptStore interface {
	ListRecent(ctx context.Context, limit int) []models.SavedPrompt
	Delete(ctx context.Context, id string) bool
}

type PromptHandler struct {
	store        PromptStore
	events       Publisher
	defaultLimit int
	now          func() time.Time
}

func NewPromptHandler(store PromptStore, events Publisher, defaultLimit int) *PromptHandler {
	return &PromptHandler{
		store:        store,
		events:       events,
		defaultLimit: defaultLimit,
		now:          time.Now,
	}
}

// ListPrompts returns recent prompts newest first. Store failures yield an empty list.
func (h *PromptHandler) ListPrompts(c *gin.Context) {
	limit := h.defaultLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = parsed
	}

	c.JSON(http.StatusOK, gin.H{"prompts": h.store.ListRecent(c.Request.Context(), limit)})
}

func (h *PromptHandler) DeletePrompt(c *gin.Context) {
	id := c.Param("id")
	if !h.store.Delete(c.Request.Context(), id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Prompt not found"})
		return
	}

	PublishPromptsChanged(h.events, ReasonDeleted, id)
	c.Status(http.StatusNoContent)
}

type DownloadRequest struct {
	Text string `json:"text" binding:"required"`
}

// DownloadPrompt returns the given text as a plain-text attachment
func (h *PromptHandler) DownloadPrompt(c *gin.Context) {
	var req DownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	filename := fmt.Sprintf("cctv-prompt-%d.txt", h.now().UnixMilli())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(req.Text))
}
