package handlers

import (
	"encoding/json"
	"time"

	"github.com/Tototoyo/cctv-pr/internal/logger"
)

const (
	// TopicPrompts is the SSE topic carrying saved-prompt changes
	TopicPrompts = "prompts"

	eventPromptsChanged = "prompts_changed"

	ReasonGenerated = "generated"
	ReasonDeleted   = "deleted"
)

// Publisher is the event hub as seen by handlers
type Publisher interface {
	PublishTopic(topic string, msg []byte) bool
}

// PromptsChangedEvent tells clients to refresh their recent-prompts view
type PromptsChangedEvent struct {
	Type     string    `json:"type"`
	Reason   string    `json:"reason"`
	PromptID string    `json:"prompt_id,omitempty"`
	At       time.Time `json:"at"`
}

// PublishPromptsChanged sends a prompts_changed event; a nil publisher is ignored
func PublishPromptsChanged(publisher Publisher, reason, promptID string) {
	if publisher == nil {
		return
	}

	payload, err := json.Marshal(PromptsChangedEvent{
		Type:     eventPromptsChanged,
		Reason:   reason,
		PromptID: promptID,
		At:       time.Now().UTC(),
	})
	if err != nil {
		logger.Warn("Failed to encode prompts_changed event", logger.Fields{"error": err})
		return
	}
	publisher.PublishTopic(TopicPrompts, payload)
}
