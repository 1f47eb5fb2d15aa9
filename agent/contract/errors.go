package contract

import "errors"

var (
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrSchemaViolation = errors.New("model response violates schema")
	ErrToolFailure     = errors.New("tool call failed")
	ErrValidation      = errors.New("validation failed")
)
