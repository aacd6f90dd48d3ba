package srs

import (
	"math"
	"time"

	"github.com/phrazzld/scry-scheduler/internal/domain"
)

// minHalfLife floors the half-life so a model with zero stability still decays
// over days rather than collapsing instantly.
const minHalfLife = 1.0

// MaxForecastDays bounds the length of a projected forgetting curve.
const MaxForecastDays = 10 * domain.MaxIntervalDays

// HalfLife is the number of days after which retention of the item drops to
// one half: max(1, interval * stability).
func HalfLife(model domain.DifficultyModel) float64 {
	hl := float64(model.Interval) * model.StabilityFactor
	if math.IsNaN(hl) || hl < minHalfLife {
		return minHalfLife
	}
	return hl
}

// Retention estimates the probability of recall day days after the last
// review, using exponential decay 0.5^(day/halfLife). Day zero and earlier
// always yield full retention.
func Retention(model domain.DifficultyModel, day float64) float64 {
	if day <= 0 || math.IsNaN(day) {
		return 1.0
	}
	return math.Pow(0.5, day/HalfLife(model))
}

// RetentionAt estimates retention at an instant, counting fractional days since
// the model's last review.
func RetentionAt(model domain.DifficultyModel, at time.Time) float64 {
	elapsed := at.Sub(model.LastReview).Hours() / 24
	return Retention(model, elapsed)
}

// PredictRetention projects the forgetting curve of a model for every whole
// day in [0, daysAhead]. The first point is always day 0 with retention 1.
// daysAhead must lie in [0, MaxForecastDays].
func PredictRetention(model domain.DifficultyModel, daysAhead int) ([]domain.RetentionPoint, error) {
	if daysAhead < 0 || daysAhead > MaxForecastDays {
		return nil, ErrInvalidDaysAhead
	}

	points := make([]domain.RetentionPoint, 0, daysAhead+1)
	for day := 0; day <= daysAhead; day++ {
		points = append(points, domain.RetentionPoint{
			Day:       day,
			Retention: Retention(model, float64(day)),
		})
	}
	return points, nil
}

// DaysUntilRetention returns how many days after the last review retention
// falls to target. Targets outside (0, 1) yield 0 for target >= 1 and +Inf
// for target <= 0.
func DaysUntilRetention(model domain.DifficultyModel, target float64) float64 {
	switch {
	case target >= 1:
		return 0
	case target <= 0 || math.IsNaN(target):
		return math.Inf(1)
	}
	return HalfLife(model) * math.Log2(1/target)
}
