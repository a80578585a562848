package service

import "errors"

var (
	// ErrContentTooLarge rejects a submission before any job exists.
	ErrContentTooLarge = errors.New("content exceeds maximum size")

	// ErrInvalidContentKind rejects an unrecognized content-kind discriminator.
	ErrInvalidContentKind = errors.New("invalid content kind")

	// ErrResultNotReady signals that a job is still queued or running.
	ErrResultNotReady = errors.New("result not ready")
)
