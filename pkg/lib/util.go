package lib

import (
	"github.com/google/uuid"
)

// NewRunID generates a UUID version 4 string (RFC 4122) identifying one
// tool invocation in logs and in the run-history store.
func NewRunID() string {
	return uuid.NewString()
}
