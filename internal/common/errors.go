// Package common defines shared constants and sentinel errors used across
// StudyBot components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Navigation errors. A callback payload that fails structural or
	// membership validation is rejected, never rendered.
	ErrInvalidPayload = errors.New("invalid callback payload")

	// Payment errors.
	ErrUnknownPlan        = errors.New("unknown plan")
	ErrGatewayUnavailable = errors.New("payment gateway not configured")
	ErrBadSignature       = errors.New("webhook signature mismatch")

	// Ingestion errors (admin input that fails validation).
	ErrInvalidCaption = errors.New("invalid content caption")
	ErrInvalidQuiz    = errors.New("invalid quiz definition")
)
