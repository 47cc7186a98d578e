package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Tototoyo/cctv-pr/internal/models"
	"github.com/supabase-community/postgrest-go"
)

const (
	promptsTable         = "prompts"
	returnRepresentation = "representation"
)

// PromptRepository stores generated prompts in the hosted prompts table.
// The store assigns id and created_at.
type PromptRepository struct {
	client *Client
}

// NewPromptRepository creates a repository over a REST client
func NewPromptRepository(client *Client) *PromptRepository {
	return &PromptRepository{client: client}
}

type insertRow struct {
	Scene           string   `json:"scene"`
	Location        string   `json:"location"`
	TimeOfDay       string   `json:"time_of_day"`
	Weather         string   `json:"weather"`
	VisualArtifacts []string `json:"visual_artifacts"`
	GeneratedPrompt string   `json:"generated_prompt"`
}

// Insert stores prompt and fills in the id and created_at the store assigned
func (r *PromptRepository) Insert(ctx context.Context, prompt *models.SavedPrompt) error {
	artifacts := []string(prompt.VisualArtifacts)
	if artifacts == nil {
		artifacts = []string{}
	}
	row := insertRow{
		Scene:           prompt.Scene,
		Location:        prompt.Location,
		TimeOfDay:       prompt.TimeOfDay,
		Weather:         prompt.Weather,
		VisualArtifacts: artifacts,
		GeneratedPrompt: prompt.GeneratedPrompt,
	}

	query, err := r.client.from(promptsTable)
	if err != nil {
		return fmt.Errorf("insert prompt: %w", err)
	}

	var created []models.SavedPrompt
	if err := r.execute(ctx, query.Insert([]insertRow{row}, false, "", returnRepresentation, ""), &created); err != nil {
		return fmt.Errorf("insert prompt: %w", err)
	}
	if len(created) == 0 {
		return errors.New("insert prompt: store returned no row")
	}

	*prompt = created[0]
	return nil
}

// ListRecent returns at most limit records, newest first
func (r *PromptRepository) ListRecent(ctx context.Context, limit int) ([]models.SavedPrompt, error) {
	query, err := r.client.from(promptsTable)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}

	filter := query.Select("*", "", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Limit(limit, "")

	prompts := []models.SavedPrompt{}
	if err := r.execute(ctx, filter, &prompts); err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	return prompts, nil
}

// Delete removes the record with the given id. The deleted row comes back as
// the representation; an empty one means nothing matched.
func (r *PromptRepository) Delete(ctx context.Context, id string) error {
	query, err := r.client.from(promptsTable)
	if err != nil {
		return fmt.Errorf("delete prompt %s: %w", id, err)
	}

	var deleted []models.SavedPrompt
	if err := r.execute(ctx, query.Delete(returnRepresentation, "").Eq("id", id), &deleted); err != nil {
		return fmt.Errorf("delete prompt %s: %w", id, err)
	}
	if len(deleted) == 0 {
		return models.ErrPromptNotFound
	}
	return nil
}

// execute runs filter and decodes the JSON rows into out. The library call
// does not take a context, so a cancelled ctx is only checked before sending.
func (r *PromptRepository) execute(ctx context.Context, filter *postgrest.FilterBuilder, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, _, err := filter.Execute()
	if err != nil {
		return errors.New(r.client.scrub(err.Error()))
	}
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
