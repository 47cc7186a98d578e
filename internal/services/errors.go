package services

import (
	"errors"
	"fmt"

	"github.com/Tototoyo/cctv-pr/internal/models"
)

// ErrGenerationInProgress is returned when RunGeneration is called while another run is in flight
var ErrGenerationInProgress = errors.New("a generation is already in progress")

// ErrPromptNotFound is returned by repositories when no record matches an id
var ErrPromptNotFound = models.ErrPromptNotFound

// PersistenceError reports a failed prompt store operation
type PersistenceError struct {
	Op  string // "save", "list" or "delete"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
