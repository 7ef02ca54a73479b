package handlers

import (
	"github.com/pocketbase/pocketbase/core"
)

// apiError is the JSON error envelope every handler returns on failure.
type apiError struct {
	Error string `json:"error"`
}

// ErrorJSON writes a JSON error response with the given status.
func ErrorJSON(e *core.RequestEvent, status int, message string) error {
	return e.JSON(status, apiError{Error: message})
}
