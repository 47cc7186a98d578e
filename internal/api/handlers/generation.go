package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/Tototoyo/cctv-pr/internal/models"
	"github.com/Tototoyo/cctv-pr/internal/services"
	"github.com/gin-gonic/gin"
)

// GenericGenerationError is the only failure text end users see for backend errors
const GenericGenerationError = "Failed to generate prompt. Please check your API keys and try again."

// Generator runs one generation
type Generator interface {
	RunGeneration(ctx context.Context, opts models.GeneratorOptions) (*services.GenerationResult, error)
}

// StateProvider exposes the orchestrator snapshot
type StateProvider interface {
	State() services.GenerationState
	BackendName() string
}

type GenerationHandler struct {
	generator Generator
	state     StateProvider
}

func NewGenerationHandler(generator Generator, state StateProvider) *GenerationHandler {
	return &GenerationHandler{
		generator: generator,
		state:     state,
	}
}

type GenerateResponse struct {
	RequestID string              `json:"request_id"`
	Text      string              `json:"text"`
	Record    *models.SavedPrompt `json:"record,omitempty"`
	Saved     bool                `json:"saved"`
}

func (h *GenerationHandler) Generate(c *gin.Context) {
	requestID := c.GetString("request_id")

	var opts models.GeneratorOptions
	if err := c.ShouldBindJSON(&opts); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if problems := opts.Problems(); len(problems) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid generator options",
			"details": problems,
		})
		return
	}

	ctx := services.WithRequestID(c.Request.Context(), requestID)
	result, err := h.generator.RunGeneration(ctx, opts)
	switch {
	case errors.Is(err, services.ErrGenerationInProgress):
		c.JSON(http.StatusConflict, gin.H{
			"error":      "A generation is already in progress",
			"request_id": requestID,
		})
		return
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{
			"error":      GenericGenerationError,
			"request_id": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, GenerateResponse{
		RequestID: requestID,
		Text:      result.Text,
		Record:    result.Record,
		Saved:     result.Saved,
	})
}

// GetState returns the orchestrator snapshot
func (h *GenerationHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"backend": h.state.BackendName(),
		"state":   h.state.State(),
	})
}
