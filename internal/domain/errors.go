package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain value fails validation.
	// The more specific errors below are wrapped together with it.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyItemID is returned when an item carries the nil UUID.
	ErrEmptyItemID = errors.New("item ID cannot be empty")

	// ErrInvalidScore is returned when a quality score is outside [0, 5].
	ErrInvalidScore = errors.New("score must be between 0 and 5")

	// ErrInvalidResponseTime is returned for a negative response time.
	ErrInvalidResponseTime = errors.New("response time cannot be negative")

	// ErrInvalidConfidence is returned when confidence is outside [1, 5].
	ErrInvalidConfidence = errors.New("confidence must be between 1 and 5")

	ErrInvalidEaseFactor     = errors.New("ease factor must be between 1.3 and 2.5")
	ErrInvalidInterval       = errors.New("interval must be between 0 and 365 days")
	ErrInvalidRepetitions    = errors.New("repetitions cannot be negative")
	ErrInvalidDifficulty     = errors.New("difficulty must be between 1 and 10")
	ErrInvalidAverageQuality = errors.New("average quality must be between 0 and 5")
	ErrInvalidStability      = errors.New("stability factor must be between 0 and 1")
)
