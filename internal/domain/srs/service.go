package srs

import (
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/scry-scheduler/internal/domain"
)

// Common errors
var (
	ErrNilParams          = errors.New("srs params cannot be nil")
	ErrInvalidParams      = errors.New("invalid srs params")
	ErrInvalidModel       = errors.New("invalid difficulty model")
	ErrInvalidObservation = errors.New("invalid review observation")
	ErrInvalidDays        = errors.New("postpone days must be at least 1")
	ErrInvalidHorizon     = errors.New("horizon days cannot be negative")
	ErrInvalidCapacity    = errors.New("max reviews per day must be at least 1")
	ErrInvalidDeferral    = errors.New("max defer days must be between 0 and 365")
	ErrInvalidDaysAhead   = errors.New("days ahead must be between 0 and 3650")
)

// Service defines the interface for SRS algorithm operations
type Service interface {
	// AdjustScore computes the adjusted quality signal for an observation
	AdjustScore(obs domain.ReviewObservation) (float64, error)

	// CalculateNextReview computes the next model based on a review observation
	CalculateNextReview(
		model domain.DifficultyModel,
		obs domain.ReviewObservation,
		now time.Time,
	) (domain.DifficultyModel, error)

	// PostponeReview pushes the next review out by a number of days
	PostponeReview(model domain.DifficultyModel, days int) (domain.DifficultyModel, error)

	// Params returns a copy of the parameters the service runs with
	Params() Params
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new SRS service with custom parameters
func NewServiceWithParams(params *Params) (Service, error) {
	if params == nil {
		return nil, ErrNilParams
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	// Keep a private copy so later changes by the caller cannot leak in
	p := *params
	return &defaultService{params: &p}, nil
}

// AdjustScore implements the Service interface
func (s *defaultService) AdjustScore(obs domain.ReviewObservation) (float64, error) {
	if err := obs.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidObservation, err)
	}
	return adjustScore(obs, s.params), nil
}

// CalculateNextReview implements the Service interface for calculating the next model.
// Both inputs are validated first; the calculation itself cannot fail.
func (s *defaultService) CalculateNextReview(
	model domain.DifficultyModel,
	obs domain.ReviewObservation,
	now time.Time,
) (domain.DifficultyModel, error) {
	if err := obs.Validate(); err != nil {
		return domain.DifficultyModel{}, fmt.Errorf("%w: %w", ErrInvalidObservation, err)
	}
	if err := model.Validate(); err != nil {
		return domain.DifficultyModel{}, fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}

	return calculateNextModel(model, obs, now, s.params), nil
}

// PostponeReview implements the Service interface for postponing reviews.
//
// The next review date is derived from LastReview + Interval, so postponing
// extends the interval. The result stays capped at params.MaxIntervalDays.
func (s *defaultService) PostponeReview(
	model domain.DifficultyModel,
	days int,
) (domain.DifficultyModel, error) {
	if days < 1 {
		return domain.DifficultyModel{}, ErrInvalidDays
	}
	if err := model.Validate(); err != nil {
		return domain.DifficultyModel{}, fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}

	next := model
	// Bound days first so the sum cannot overflow
	next.Interval = model.Interval + min(days, max(s.params.MaxIntervalDays-model.Interval, 0))
	return next, nil
}

// Params implements the Service interface
func (s *defaultService) Params() Params {
	return *s.params
}
