package models

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("requested resource not found")
var ErrForbidden = errors.New("user does not have permission to access this resource")
var ErrConflict = errors.New("resource conflict, item already exists")
var ErrInvalidToken = errors.New("token not found or expired")
var ErrMalformedPayload = errors.New("payload is not valid structured data")
var ErrTableOccupied = errors.New("table already has an active order")

// ErrUnknownPlatform indicates a delivery platform tag this deployment
// has no adapter or credentials for.
var ErrUnknownPlatform = errors.New("unknown delivery platform")

// TransitionError reports a status change the transition table does not allow.
// The order exists but cannot move that way, so this is a client error.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal status transition from %q to %q", e.From, e.To)
}

// ErrorResponse is the JSON error body returned by every handler.
type ErrorResponse struct {
	Message string `json:"message"`
}
