package srs

import (
	"fmt"
	"time"

	"github.com/phrazzld/scry-scheduler/internal/domain"
)

// Mode selects which update rule the scheduler applies.
type Mode string

const (
	// ModeEnhanced is the SM-2+ rule: response-time and confidence weighting,
	// adaptive difficulty and stability-aware intervals.
	ModeEnhanced Mode = "enhanced"

	// ModeClassic is plain SM-2 over the raw score. Difficulty and stability
	// are carried over untouched.
	ModeClassic Mode = "classic"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeEnhanced || m == ModeClassic
}

// Params defines all configurable parameters for the SRS algorithm
type Params struct {
	Mode Mode

	// Core limits
	MinEaseFactor   float64
	MaxEaseFactor   float64
	MinDifficulty   float64
	MaxDifficulty   float64
	MaxIntervalDays int

	// Observation weighting
	FastResponse       time.Duration // At or below: full credit
	SlowResponse       time.Duration // At or above: SlowResponseFactor
	SlowResponseFactor float64
	MaxConfidence      float64

	// Thresholds on the adjusted score
	SuccessThreshold   float64 // Below: failed recall
	EasyThreshold      float64 // At or above (with EasyMinRepetitions): item too easy
	EasyMinRepetitions int

	// Adaptive state
	DifficultyStep         float64
	QualityRecencyWeight   float64
	StabilityRepetitionCap int
	StabilityWeights       StabilityWeights

	// Interval computation
	FailureInterval          int
	FirstSuccessInterval     int
	StabilityIntervalBonus   float64
	DifficultyIntervalWeight float64
	DifficultyPivot          float64 // Difficulty at which the interval multiplier is 1
}

// StabilityWeights weighs the three normalized components of the stability
// factor. They are expected to sum to 1.
type StabilityWeights struct {
	Repetitions float64
	Quality     float64
	Ease        float64
}

func (w StabilityWeights) sum() float64 {
	return w.Repetitions + w.Quality + w.Ease
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance.
// Zero values keep the defaults.
type ParamsConfig struct {
	Mode Mode

	MinEaseFactor   float64
	MaxEaseFactor   float64
	MaxIntervalDays int

	FastResponse       time.Duration
	SlowResponse       time.Duration
	SlowResponseFactor float64

	SuccessThreshold   float64
	EasyThreshold      float64
	EasyMinRepetitions int

	DifficultyStep       float64
	QualityRecencyWeight float64

	FirstSuccessInterval int
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		Mode: ModeEnhanced,

		MinEaseFactor:   domain.MinEaseFactor,
		MaxEaseFactor:   domain.MaxEaseFactor,
		MinDifficulty:   domain.MinDifficulty,
		MaxDifficulty:   domain.MaxDifficulty,
		MaxIntervalDays: domain.MaxIntervalDays,

		FastResponse:       3 * time.Second,
		SlowResponse:       30 * time.Second,
		SlowResponseFactor: 0.5,
		MaxConfidence:      domain.MaxConfidence,

		SuccessThreshold:   3,
		EasyThreshold:      4.5,
		EasyMinRepetitions: 3,

		DifficultyStep:         0.1,
		QualityRecencyWeight:   0.3,
		StabilityRepetitionCap: 10,
		StabilityWeights: StabilityWeights{
			Repetitions: 0.4,
			Quality:     0.4,
			Ease:        0.2,
		},

		// Failed items come back tomorrow; the first success waits six days
		FailureInterval:          1,
		FirstSuccessInterval:     6,
		StabilityIntervalBonus:   0.3,
		DifficultyIntervalWeight: 0.1,
		DifficultyPivot:          domain.DefaultDifficulty,
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) (*Params, error) {
	params := NewDefaultParams()

	if config.Mode != "" {
		params.Mode = config.Mode
	}

	// Override core limits if provided
	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.MaxEaseFactor > 0 {
		params.MaxEaseFactor = config.MaxEaseFactor
	}
	if config.MaxIntervalDays > 0 {
		params.MaxIntervalDays = config.MaxIntervalDays
	}

	// Override observation weighting if provided
	if config.FastResponse > 0 {
		params.FastResponse = config.FastResponse
	}
	if config.SlowResponse > 0 {
		params.SlowResponse = config.SlowResponse
	}
	if config.SlowResponseFactor > 0 {
		params.SlowResponseFactor = config.SlowResponseFactor
	}

	// Override thresholds if provided
	if config.SuccessThreshold > 0 {
		params.SuccessThreshold = config.SuccessThreshold
	}
	if config.EasyThreshold > 0 {
		params.EasyThreshold = config.EasyThreshold
	}
	if config.EasyMinRepetitions > 0 {
		params.EasyMinRepetitions = config.EasyMinRepetitions
	}

	if config.DifficultyStep > 0 {
		params.DifficultyStep = config.DifficultyStep
	}
	if config.QualityRecencyWeight > 0 {
		params.QualityRecencyWeight = config.QualityRecencyWeight
	}
	if config.FirstSuccessInterval > 0 {
		params.FirstSuccessInterval = config.FirstSuccessInterval
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}
	return params, nil
}

// Validate checks that the parameter set is internally consistent. Limits may
// only tighten the bounds of domain.DifficultyModel, never widen them.
func (p *Params) Validate() error {
	switch {
	case !p.Mode.Valid():
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidParams, p.Mode)
	case p.MinEaseFactor < domain.MinEaseFactor || p.MaxEaseFactor > domain.MaxEaseFactor || p.MinEaseFactor > p.MaxEaseFactor:
		return fmt.Errorf("%w: ease factor range [%v, %v]", ErrInvalidParams, p.MinEaseFactor, p.MaxEaseFactor)
	case p.MinDifficulty < domain.MinDifficulty || p.MaxDifficulty > domain.MaxDifficulty || p.MinDifficulty > p.MaxDifficulty:
		return fmt.Errorf("%w: difficulty range [%v, %v]", ErrInvalidParams, p.MinDifficulty, p.MaxDifficulty)
	case p.MaxIntervalDays > domain.MaxIntervalDays:
		return fmt.Errorf("%w: max interval %d exceeds %d days", ErrInvalidParams, p.MaxIntervalDays, domain.MaxIntervalDays)
	case p.MaxIntervalDays < p.FailureInterval || p.MaxIntervalDays < p.FirstSuccessInterval:
		return fmt.Errorf("%w: max interval %d below bootstrap intervals", ErrInvalidParams, p.MaxIntervalDays)
	case p.FailureInterval < 1:
		return fmt.Errorf("%w: failure interval %d", ErrInvalidParams, p.FailureInterval)
	case p.FastResponse >= p.SlowResponse:
		return fmt.Errorf("%w: fast response %s not below slow response %s", ErrInvalidParams, p.FastResponse, p.SlowResponse)
	case p.SlowResponseFactor <= 0 || p.SlowResponseFactor > 1:
		return fmt.Errorf("%w: slow response factor %v", ErrInvalidParams, p.SlowResponseFactor)
	case p.SuccessThreshold > p.EasyThreshold:
		return fmt.Errorf("%w: success threshold %v above easy threshold %v", ErrInvalidParams, p.SuccessThreshold, p.EasyThreshold)
	case p.QualityRecencyWeight <= 0 || p.QualityRecencyWeight > 1:
		return fmt.Errorf("%w: quality recency weight %v", ErrInvalidParams, p.QualityRecencyWeight)
	case p.StabilityRepetitionCap < 1:
		return fmt.Errorf("%w: stability repetition cap %d", ErrInvalidParams, p.StabilityRepetitionCap)
	case p.DifficultyPivot < p.MinDifficulty || p.DifficultyPivot > p.MaxDifficulty:
		return fmt.Errorf("%w: difficulty pivot %v outside difficulty range", ErrInvalidParams, p.DifficultyPivot)
	}
	if sum := p.StabilityWeights.sum(); sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("%w: stability weights sum to %v", ErrInvalidParams, sum)
	}
	return nil
}
