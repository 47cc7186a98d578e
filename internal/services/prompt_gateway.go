package services

import (
	"context"
	"errors"
	"time"

	"github.com/Tototoyo/cctv-pr/internal/logger"
	"github.com/Tototoyo/cctv-pr/internal/models"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// PromptRepository is a prompt store. Implementations return errors; the
// gateway decides which of them reach callers.
type PromptRepository interface {
	Insert(ctx context.Context, prompt *models.SavedPrompt) error
	ListRecent(ctx context.Context, limit int) ([]models.SavedPrompt, error)
	Delete(ctx context.Context, id string) error
}

// PersistenceRecorder receives one call per store operation
type PersistenceRecorder interface {
	RecordPersistence(ctx context.Context, operation string, duration time.Duration, success bool)
}

// SaveResult is the outcome of a save: Record on success, Err otherwise
type SaveResult struct {
	Record *models.SavedPrompt
	Err    error
}

// OK reports whether the record was stored
func (r SaveResult) OK() bool {
	return r.Err == nil && r.Record != nil
}

// PromptGateway applies the best-effort persistence policy over a repository:
// saves report failure explicitly, lists degrade to empty and deletes to false.
type PromptGateway struct {
	repo     PromptRepository
	recorder PersistenceRecorder
}

// NewPromptGateway creates a gateway; recorder may be nil
func NewPromptGateway(repo PromptRepository, recorder PersistenceRecorder) *PromptGateway {
	return &PromptGateway{repo: repo, recorder: recorder}
}

// Save snapshots opts and text into a new record and inserts it
func (g *PromptGateway) Save(ctx context.Context, opts models.GeneratorOptions, text string) SaveResult {
	record := models.NewSavedPrompt(opts, text)

	start := time.Now()
	err := g.repo.Insert(ctx, record)
	g.record(ctx, "save", start, err == nil)

	if err != nil {
		persistErr := &PersistenceError{Op: "save", Err: err}
		logger.Warn("Failed to save prompt", logger.Fields{"operation": "save", "error": err})
		return SaveResult{Err: persistErr}
	}

	logger.Info("Prompt saved", logger.Fields{"operation": "save", "id": record.ID})
	return SaveResult{Record: record}
}

// ListRecent returns up to limit records newest first. A non-positive limit
// means DefaultListLimit; limits above MaxListLimit are capped. Store
// failures yield an empty slice.
func (g *PromptGateway) ListRecent(ctx context.Context, limit int) []models.SavedPrompt {
	limit = NormalizeLimit(limit)

	start := time.Now()
	prompts, err := g.repo.ListRecent(ctx, limit)
	g.record(ctx, "list", start, err == nil)

	if err != nil {
		logger.Warn("Failed to list prompts", logger.Fields{"operation": "list", "limit": limit, "error": err})
		return []models.SavedPrompt{}
	}
	if prompts == nil {
		return []models.SavedPrompt{}
	}
	if len(prompts) > limit {
		prompts = prompts[:limit]
	}
	return prompts
}

// Delete removes a record and reports whether it existed and was removed
func (g *PromptGateway) Delete(ctx context.Context, id string) bool {
	if id == "" {
		return false
	}

	start := time.Now()
	err := g.repo.Delete(ctx, id)
	g.record(ctx, "delete", start, err == nil || errors.Is(err, ErrPromptNotFound))

	switch {
	case err == nil:
		logger.Info("Prompt deleted", logger.Fields{"operation": "delete", "id": id})
		return true
	case errors.Is(err, ErrPromptNotFound):
		return false
	default:
		logger.Warn("Failed to delete prompt", logger.Fields{"operation": "delete", "id": id, "error": err})
		return false
	}
}

// NormalizeLimit applies the default and the cap to a requested list size
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

func (g *PromptGateway) record(ctx context.Context, op string, start time.Time, success bool) {
	if g.recorder != nil {
		g.recorder.RecordPersistence(ctx, op, time.Since(start), success)
	}
}
