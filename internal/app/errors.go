package app

import (
	"errors"
	"fmt"
)

// ErrNotFound and related errors describe runtime failures shared by
// the service and its adapters.
var ErrNotFound = errors.New("not found")

// GatewayErrorKind classifies a remote call failure at the gateway
// boundary, so the session never inspects transport detail itself.
type GatewayErrorKind string

const (
	GatewayErrorDuplicateTitle GatewayErrorKind = "duplicate_title"
	GatewayErrorOther          GatewayErrorKind = "other"
)

// GatewayError is a structured remote failure. Kind is decided by the
// gateway from the response shape; StatusCode and Detail keep the raw
// evidence for logging.
type GatewayError struct {
	Kind       GatewayErrorKind
	StatusCode int
	Detail     string
}

func (e *GatewayError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("gateway: %s (status %d)", e.Detail, e.StatusCode)
	}
	return fmt.Sprintf("gateway: request failed (status %d)", e.StatusCode)
}

// IsDuplicateTitle reports whether err carries the duplicate-title
// kind from the gateway boundary.
func IsDuplicateTitle(err error) bool {
	var gwErr *GatewayError
	return errors.As(err, &gwErr) && gwErr.Kind == GatewayErrorDuplicateTitle
}
