package prompt

import (
	"strings"

	"github.com/Tototoyo/cctv-pr/internal/models"
)

// Template placeholders
const (
	placeholderScene     = "{{SCENE}}"
	placeholderLocation  = "{{LOCATION}}"
	placeholderTimeOfDay = "{{TIME_OF_DAY}}"
	placeholderWeather   = "{{WEATHER}}"
	placeholderArtifacts = "{{VISUAL_ARTIFACTS}}"

	artifactSeparator = ", "
	noArtifacts       = "none specified"
)

// Builder turns generator options into the instruction payload sent to a
// generation backend. It holds only immutable template text.
type Builder struct {
	template     string
	systemPrompt string
}

// NewPromptBuilder creates a builder over the embedded templates
func NewPromptBuilder() *Builder {
	loader := NewPromptLoader()
	return &Builder{
		template:     loader.GetInstructionTemplate(),
		systemPrompt: loader.GetSystemPrompt(),
	}
}

var defaultBuilder = NewPromptBuilder()

// Compose builds the instruction payload with the embedded templates
func Compose(opts models.GeneratorOptions) string {
	return defaultBuilder.Compose(opts)
}

// SystemInstruction returns the system-role text for chat-style backends
func SystemInstruction() string {
	return defaultBuilder.SystemInstruction()
}

// Compose substitutes every option verbatim. Substitution is a single pass,
// so option text that looks like a placeholder is never expanded again.
func (b *Builder) Compose(opts models.GeneratorOptions) string {
	replacer := strings.NewReplacer(
		placeholderScene, opts.Scene,
		placeholderLocation, opts.Location,
		placeholderTimeOfDay, opts.TimeOfDay,
		placeholderWeather, opts.Weather,
		placeholderArtifacts, joinArtifacts(opts.VisualArtifacts),
	)
	return replacer.Replace(b.template)
}

// SystemInstruction returns the system-role instruction
func (b *Builder) SystemInstruction() string {
	return b.systemPrompt
}

func joinArtifacts(artifacts []string) string {
	if len(artifacts) == 0 {
		return noArtifacts
	}
	return strings.Join(artifacts, artifactSeparator)
}
