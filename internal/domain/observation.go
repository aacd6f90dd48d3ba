package domain

import (
	"math"
	"time"
)

// Bounds of a review observation.
const (
	MinConfidence = 1
	MaxConfidence = 5
)

// ReviewObservation is a single review event as reported by the host:
// the raw quality score, how long the answer took and how confident the
// learner felt. It is consumed once by the scheduler.
type ReviewObservation struct {
	Score        float64       `json:"score"`         // Raw quality, 0-5
	ResponseTime time.Duration `json:"response_time"` // Time to answer
	Confidence   int           `json:"confidence"`    // Self-reported, 1-5
}

// NewReviewObservation builds an observation and validates it.
func NewReviewObservation(score float64, responseTime time.Duration, confidence int) (ReviewObservation, error) {
	obs := ReviewObservation{
		Score:        score,
		ResponseTime: responseTime,
		Confidence:   confidence,
	}
	if err := obs.Validate(); err != nil {
		return ReviewObservation{}, err
	}
	return obs, nil
}

// Validate rejects observations outside the documented input domain.
func (o ReviewObservation) Validate() error {
	if math.IsNaN(o.Score) || o.Score < 0 || o.Score > MaxQuality {
		return validationError(ErrInvalidScore, o.Score)
	}
	if o.ResponseTime < 0 {
		return validationError(ErrInvalidResponseTime, o.ResponseTime)
	}
	if o.Confidence < MinConfidence || o.Confidence > MaxConfidence {
		return validationError(ErrInvalidConfidence, o.Confidence)
	}
	return nil
}
