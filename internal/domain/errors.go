package domain

import "errors"

// Common errors used throughout the application.
var (
	ErrNotFound            = errors.New("not found")
	ErrAlreadyExists       = errors.New("already exists")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrWorkspaceLimit      = errors.New("workspace limit reached")
	ErrNoProviderKey       = errors.New("no active provider key")
	ErrInvalidAPIKey       = errors.New("invalid API key")
	ErrUpstream            = errors.New("upstream request failed")
	ErrExtractFailed       = errors.New("content extraction failed")
	ErrEmptyCompletion     = errors.New("empty completion from model")
	ErrUnparsableOutput    = errors.New("model output could not be parsed")
)

// APIError represents an error response from the API.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}
