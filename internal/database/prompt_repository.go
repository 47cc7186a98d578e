package database

import (
	"context"
	"fmt"

	"github.com/Tototoyo/cctv-pr/internal/models"
	"gorm.io/gorm"
)

// PromptRepository stores generated prompts in a relational database
type PromptRepository struct {
	db *gorm.DB
}

// NewPromptRepository creates a repository over an open, migrated database
func NewPromptRepository(db *gorm.DB) *PromptRepository {
	return &PromptRepository{db: db}
}

// Insert stores a new record; id and created_at are assigned if blank
func (r *PromptRepository) Insert(ctx context.Context, prompt *models.SavedPrompt) error {
	if err := r.db.WithContext(ctx).Create(prompt).Error; err != nil {
		return fmt.Errorf("insert prompt: %w", err)
	}
	return nil
}

// ListRecent returns at most limit records, newest first
func (r *PromptRepository) ListRecent(ctx context.Context, limit int) ([]models.SavedPrompt, error) {
	prompts := []models.SavedPrompt{}
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&prompts).Error
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	return prompts, nil
}

// Delete removes the record with the given id
func (r *PromptRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.SavedPrompt{})
	if result.Error != nil {
		return fmt.Errorf("delete prompt %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrPromptNotFound
	}
	return nil
}
