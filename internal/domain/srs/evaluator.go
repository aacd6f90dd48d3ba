package srs

import (
	"math"
	"time"

	"github.com/phrazzld/scry-scheduler/internal/domain"
)

// responseTimeFactor scales credit down for slow answers.
//
// Answers at or below params.FastResponse earn full credit (1.0), answers at or
// above params.SlowResponse earn params.SlowResponseFactor, and anything in
// between is interpolated linearly. With the defaults that is
// 1.0 - 0.5*(ms-3000)/27000.
func responseTimeFactor(responseTime time.Duration, params *Params) float64 {
	if responseTime <= params.FastResponse {
		return 1.0
	}
	if responseTime >= params.SlowResponse {
		return params.SlowResponseFactor
	}
	span := float64(params.SlowResponse - params.FastResponse)
	elapsed := float64(responseTime - params.FastResponse)
	return 1.0 - (1.0-params.SlowResponseFactor)*elapsed/span
}

// confidenceFactor maps self-reported confidence 1-5 onto (0, 1].
// Out-of-range values are clamped into the confidence scale first.
func confidenceFactor(confidence int, params *Params) float64 {
	c := clamp(float64(confidence), domain.MinConfidence, params.MaxConfidence)
	return c / params.MaxConfidence
}

// adjustScore turns a raw observation into the quality signal used by every
// downstream formula: score * responseTimeFactor * confidenceFactor.
//
// In classic mode the raw score is used as is. The score is clamped to [0, 5]
// in both modes so a bad observation can never push state out of range.
func adjustScore(obs domain.ReviewObservation, params *Params) float64 {
	score := clamp(obs.Score, 0, domain.MaxQuality)
	if params.Mode == ModeClassic {
		return score
	}
	adjusted := score *
		responseTimeFactor(obs.ResponseTime, params) *
		confidenceFactor(obs.Confidence, params)
	return clamp(adjusted, 0, domain.MaxQuality)
}

// clamp bounds v to [lo, hi]. NaN collapses to lo.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
