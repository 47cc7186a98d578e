package models

import "errors"

// ErrPromptNotFound is returned by prompt stores when no record has the given id
var ErrPromptNotFound = errors.New("prompt not found")
