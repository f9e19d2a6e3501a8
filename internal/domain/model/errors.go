package model

import "fmt"

// InvalidTaskError is the structured rejection a Task Decomposition Provider
// returns for a nonsensical feature request. It is a business outcome, not a
// failure: the engine answers it with an empty, zeroed result.
type InvalidTaskError struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
}

// NewInvalidTaskError builds the standard invalid_task rejection.
func NewInvalidTaskError(message, suggestion string) *InvalidTaskError {
	return &InvalidTaskError{Type: "invalid_task", Message: message, Suggestion: suggestion}
}

func (e *InvalidTaskError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}
