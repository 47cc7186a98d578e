package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GeneratorOptions are the user-selected parameters for one generation
type GeneratorOptions struct {
	Scene           string   `json:"scene"`
	Location        string   `json:"location"`
	TimeOfDay       string   `json:"time_of_day"`
	Weather         string   `json:"weather"`
	VisualArtifacts []string `json:"visual_artifacts"`
}

// Clone returns a copy that shares no memory with o
func (o GeneratorOptions) Clone() GeneratorOptions {
	o.VisualArtifacts = cloneStrings(o.VisualArtifacts)
	return o
}

// Problems lists every field that is empty or outside its vocabulary.
// An empty result means the options can be submitted.
func (o GeneratorOptions) Problems() []string {
	var problems []string
	if strings.TrimSpace(o.Scene) == "" {
		problems = append(problems, "scene is required")
	}
	if !IsKnownLocation(o.Location) {
		problems = append(problems, fmt.Sprintf("unknown location %q", o.Location))
	}
	if !IsKnownTimeOfDay(o.TimeOfDay) {
		problems = append(problems, fmt.Sprintf("unknown time_of_day %q", o.TimeOfDay))
	}
	if !IsKnownWeather(o.Weather) {
		problems = append(problems, fmt.Sprintf("unknown weather %q", o.Weather))
	}
	for _, artifact := range o.VisualArtifacts {
		if !IsKnownVisualArtifact(artifact) {
			problems = append(problems, fmt.Sprintf("unknown visual artifact %q", artifact))
		}
	}
	return problems
}

// SavedPrompt is one persisted generation. Rows are insert-only.
type SavedPrompt struct {
	ID              string                      `gorm:"primaryKey;size:36" json:"id"`
	Scene           string                      `gorm:"type:text;not null" json:"scene"`
	Location        string                      `gorm:"not null" json:"location"`
	TimeOfDay       string                      `gorm:"column:time_of_day;not null" json:"time_of_day"`
	Weather         string                      `gorm:"not null" json:"weather"`
	VisualArtifacts datatypes.JSONSlice[string] `gorm:"column:visual_artifacts" json:"visual_artifacts"`
	GeneratedPrompt string                      `gorm:"type:text;not null" json:"generated_prompt"`
	CreatedAt       time.Time                   `gorm:"index" json:"created_at"`
}

// TableName pins the table shared with the hosted store
func (SavedPrompt) TableName() string {
	return "prompts"
}

// BeforeCreate assigns the record id when the caller left it blank
func (p *SavedPrompt) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// NewSavedPrompt snapshots opts and the generated text into an unsaved record
func NewSavedPrompt(opts GeneratorOptions, generated string) *SavedPrompt {
	artifacts := cloneStrings(opts.VisualArtifacts)
	if artifacts == nil {
		artifacts = []string{}
	}
	return &SavedPrompt{
		Scene:           opts.Scene,
		Location:        opts.Location,
		TimeOfDay:       opts.TimeOfDay,
		Weather:         opts.Weather,
		VisualArtifacts: datatypes.JSONSlice[string](artifacts),
		GeneratedPrompt: generated,
	}
}

// Options recovers the options the record was generated from
func (p *SavedPrompt) Options() GeneratorOptions {
	return GeneratorOptions{
		Scene:           p.Scene,
		Location:        p.Location,
		TimeOfDay:       p.TimeOfDay,
		Weather:         p.Weather,
		VisualArtifacts: cloneStrings(p.VisualArtifacts),
	}
}
