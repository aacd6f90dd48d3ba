package srs

import (
	"math"
	"time"

	"github.com/phrazzld/scry-scheduler/internal/domain"
)

// calculateNewRepetitions counts consecutive successes.
//
// An adjusted score at or above params.SuccessThreshold extends the streak by
// one; anything lower is a failed recall and resets the streak to zero.
func calculateNewRepetitions(current int, adjustedScore float64, params *Params) int {
	if adjustedScore < params.SuccessThreshold {
		return 0
	}
	if current < 0 {
		current = 0
	}
	if current == math.MaxInt {
		return current
	}
	return current + 1
}

// calculateNewEaseFactor applies the SM-2 ease recurrence to the adjusted score:
//
//	EF' = EF + (0.1 - (5-q) * (0.08 + (5-q)*0.02))
//
// Low scores shrink the ease quadratically. The result is always clamped to
// [params.MinEaseFactor, params.MaxEaseFactor].
func calculateNewEaseFactor(currentEF, adjustedScore float64, params *Params) float64 {
	if math.IsNaN(currentEF) {
		currentEF = params.MaxEaseFactor
	}
	miss := domain.MaxQuality - adjustedScore
	newEF := currentEF + (0.1 - miss*(0.08+miss*0.02))
	return clamp(newEF, params.MinEaseFactor, params.MaxEaseFactor)
}

// calculateNewAverageQuality keeps an exponential moving average of adjusted
// scores. A zero average means no review has been recorded yet, so the first
// score is taken as is.
func calculateNewAverageQuality(current, adjustedScore float64, params *Params) float64 {
	if current == 0 || math.IsNaN(current) {
		return clamp(adjustedScore, 0, domain.MaxQuality)
	}
	w := params.QualityRecencyWeight
	return clamp((1-w)*current+w*adjustedScore, 0, domain.MaxQuality)
}

// calculateNewDifficulty drifts the per-item hardness rating.
//
// Difficulty rises by one step when the item was easy (adjusted score at or
// above params.EasyThreshold) for at least params.EasyMinRepetitions reviews in
// a row, and falls by one step after a failed recall. Scores in between leave it
// unchanged. repetitions must already reflect this review.
func calculateNewDifficulty(current, adjustedScore float64, repetitions int, params *Params) float64 {
	if math.IsNaN(current) {
		current = domain.DefaultDifficulty
	}
	switch {
	case adjustedScore >= params.EasyThreshold && repetitions >= params.EasyMinRepetitions:
		current += params.DifficultyStep
	case adjustedScore < params.SuccessThreshold:
		current -= params.DifficultyStep
	}
	return clamp(current, params.MinDifficulty, params.MaxDifficulty)
}

// calculateStabilityFactor combines three normalized signals into a [0, 1]
// estimate of how durable the memory is:
//
//	w.Repetitions * min(1, repetitions/cap)
//	+ w.Quality * averageQuality/5
//	+ w.Ease * (EF-minEF)/(maxEF-minEF)
func calculateStabilityFactor(repetitions int, averageQuality, easeFactor float64, params *Params) float64 {
	w := params.StabilityWeights

	repetitionPart := math.Min(1, float64(max(repetitions, 0))/float64(params.StabilityRepetitionCap))
	qualityPart := clamp(averageQuality/domain.MaxQuality, 0, 1)

	easePart := 1.0
	if span := params.MaxEaseFactor - params.MinEaseFactor; span > 0 {
		easePart = clamp((easeFactor-params.MinEaseFactor)/span, 0, 1)
	}

	return clamp(w.Repetitions*repetitionPart+w.Quality*qualityPart+w.Ease*easePart, 0, 1)
}

// calculateNewInterval determines how many days should pass until the next review.
//
// Algorithm behavior:
//   - repetitions == 0 (failed recall): params.FailureInterval, review tomorrow
//   - repetitions == 1 (first success): params.FirstSuccessInterval, six days
//   - otherwise, enhanced mode:
//     base = round(previous * EF * (1 + stability*0.3)),
//     interval = round(base * (1 + (difficulty-5)*0.1))
//   - otherwise, classic mode: round(previous * EF)
//
// The result is always within [1, params.MaxIntervalDays].
func calculateNewInterval(
	previousInterval int,
	repetitions int,
	easeFactor float64,
	stability float64,
	difficulty float64,
	params *Params,
) int {
	var interval int
	switch {
	case repetitions <= 0:
		interval = params.FailureInterval
	case repetitions == 1:
		interval = params.FirstSuccessInterval
	case params.Mode == ModeClassic:
		interval = roundDays(float64(max(previousInterval, 0)) * easeFactor)
	default:
		growth := easeFactor * (1 + stability*params.StabilityIntervalBonus)
		base := math.Round(float64(max(previousInterval, 0)) * growth)
		multiplier := 1 + (difficulty-params.DifficultyPivot)*params.DifficultyIntervalWeight
		interval = roundDays(base * multiplier)
	}

	return min(max(interval, 1), params.MaxIntervalDays)
}

// roundDays rounds half away from zero and saturates instead of overflowing
// when a corrupt previous interval produces an enormous product.
func roundDays(days float64) int {
	if math.IsNaN(days) || days < 0 {
		return 0
	}
	if days > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Round(days))
}

// calculateNextModel creates the next DifficultyModel from the current one and
// a review observation.
//
// The input is never modified: the model is passed by value and a new value is
// returned. The order of the steps matters because later steps read the
// results of earlier ones:
//  1. adjusted score from the observation
//  2. repetitions
//  3. ease factor
//  4. average quality
//  5. difficulty (enhanced mode only)
//  6. stability factor (enhanced mode only)
//  7. interval
//  8. last review time
func calculateNextModel(
	model domain.DifficultyModel,
	obs domain.ReviewObservation,
	now time.Time,
	params *Params,
) domain.DifficultyModel {
	next := model

	q := adjustScore(obs, params)

	next.Repetitions = calculateNewRepetitions(model.Repetitions, q, params)
	next.EaseFactor = calculateNewEaseFactor(model.EaseFactor, q, params)
	next.AverageQuality = calculateNewAverageQuality(model.AverageQuality, q, params)

	if params.Mode == ModeEnhanced {
		next.Difficulty = calculateNewDifficulty(model.Difficulty, q, next.Repetitions, params)
		next.StabilityFactor = calculateStabilityFactor(
			next.Repetitions,
			next.AverageQuality,
			next.EaseFactor,
			params,
		)
	}

	next.Interval = calculateNewInterval(
		model.Interval,
		next.Repetitions,
		next.EaseFactor,
		next.StabilityFactor,
		next.Difficulty,
		params,
	)

	next.LastReview = now

	return next
}
