package prompt

import (
	"strings"

	"github.com/Tototoyo/cctv-pr/pkg/embedded"
)

type Loader struct{}

func NewPromptLoader() *Loader {
	return &Loader{}
}

// GetSystemPrompt loads the system-role instruction for chat-style backends
func (l *Loader) GetSystemPrompt() string {
	return strings.TrimSpace(string(embedded.SystemPromptTxt))
}

// GetInstructionTemplate loads the CCTV instruction with its {{...}} placeholders
func (l *Loader) GetInstructionTemplate() string {
	return strings.TrimSpace(string(embedded.CCTVInstructionTxt))
}
