package domain

import (
	"fmt"
	"math"
	"time"
)

// Bounds of the memory state. The scheduler clamps into these ranges and
// Validate rejects anything outside them.
const (
	MinEaseFactor     = 1.3
	MaxEaseFactor     = 2.5
	DefaultEaseFactor = 2.5

	MinDifficulty     = 1.0
	MaxDifficulty     = 10.0
	DefaultDifficulty = 5.0

	MaxQuality      = 5.0
	MaxIntervalDays = 365
)

// DifficultyModel is the memory-state snapshot of a single study item.
//
// A model is created once per item with NewDifficultyModel and afterwards only
// replaced wholesale by the output of the scheduler. Callers must not patch
// individual fields of a persisted model.
type DifficultyModel struct {
	EaseFactor      float64   `json:"ease_factor"`      // Interval growth rate, 1.3-2.5
	Interval        int       `json:"interval"`         // Days until the next review
	Repetitions     int       `json:"repetitions"`      // Consecutive successes since the last failure
	Difficulty      float64   `json:"difficulty"`       // Adaptive hardness, 1-10
	AverageQuality  float64   `json:"average_quality"`  // Moving average of adjusted scores, 0-5
	StabilityFactor float64   `json:"stability_factor"` // Composite durability estimate, 0-1
	LastReview      time.Time `json:"last_review"`
}

// NewDifficultyModel returns the initial state for a new item.
// The interval is zero so the item is due as soon as it is created.
func NewDifficultyModel(now time.Time) DifficultyModel {
	return DifficultyModel{
		EaseFactor: DefaultEaseFactor,
		Difficulty: DefaultDifficulty,
		LastReview: now,
	}
}

// NextReviewAt derives the scheduled review instant: LastReview plus Interval days.
func (m DifficultyModel) NextReviewAt() time.Time {
	return m.LastReview.AddDate(0, 0, m.Interval)
}

// Validate checks that every field lies inside its documented domain.
// The returned error wraps both ErrValidation and the field-specific error.
func (m DifficultyModel) Validate() error {
	switch {
	case invalidFloat(m.EaseFactor) || m.EaseFactor < MinEaseFactor || m.EaseFactor > MaxEaseFactor:
		return validationError(ErrInvalidEaseFactor, m.EaseFactor)
	case m.Interval < 0 || m.Interval > MaxIntervalDays:
		return validationError(ErrInvalidInterval, m.Interval)
	case m.Repetitions < 0:
		return validationError(ErrInvalidRepetitions, m.Repetitions)
	case invalidFloat(m.Difficulty) || m.Difficulty < MinDifficulty || m.Difficulty > MaxDifficulty:
		return validationError(ErrInvalidDifficulty, m.Difficulty)
	case invalidFloat(m.AverageQuality) || m.AverageQuality < 0 || m.AverageQuality > MaxQuality:
		return validationError(ErrInvalidAverageQuality, m.AverageQuality)
	case invalidFloat(m.StabilityFactor) || m.StabilityFactor < 0 || m.StabilityFactor > 1:
		return validationError(ErrInvalidStability, m.StabilityFactor)
	}
	return nil
}

func invalidFloat(f float64) bool {
	return math.IsNaN(f) || math.IsInf(f, 0)
}

func validationError(err error, got any) error {
	return fmt.Errorf("%w: %w (got %v)", ErrValidation, err, got)
}
