package srs

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultParams(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	if params.Mode != ModeEnhanced {
		t.Errorf("Default mode should be enhanced, got %q", params.Mode)
	}

	if params.MinEaseFactor != 1.3 || params.MaxEaseFactor != 2.5 {
		t.Errorf("Ease factor range should be [1.3, 2.5], got [%f, %f]",
			params.MinEaseFactor, params.MaxEaseFactor)
	}

	if params.MaxIntervalDays != 365 {
		t.Errorf("MaxIntervalDays should be 365, got %d", params.MaxIntervalDays)
	}

	if params.FailureInterval != 1 || params.FirstSuccessInterval != 6 {
		t.Errorf("Bootstrap intervals should be 1 and 6, got %d and %d",
			params.FailureInterval, params.FirstSuccessInterval)
	}

	assert.InDelta(t, 1.0, params.StabilityWeights.sum(), 1e-9, "stability weights should sum to 1")
	require.NoError(t, params.Validate())
}

func TestNewParams(t *testing.T) {
	t.Parallel()

	t.Run("zero config keeps defaults", func(t *testing.T) {
		t.Parallel()
		params, err := NewParams(ParamsConfig{})
		require.NoError(t, err)
		assert.Equal(t, NewDefaultParams(), params)
	})

	t.Run("overrides are applied", func(t *testing.T) {
		t.Parallel()
		params, err := NewParams(ParamsConfig{
			Mode:                 ModeClassic,
			MinEaseFactor:        1.5,
			MaxIntervalDays:      180,
			FastResponse:         2 * time.Second,
			SlowResponse:         20 * time.Second,
			SlowResponseFactor:   0.6,
			EasyThreshold:        4.8,
			EasyMinRepetitions:   5,
			DifficultyStep:       0.2,
			QualityRecencyWeight: 0.5,
			FirstSuccessInterval: 4,
		})
		require.NoError(t, err)

		assert.Equal(t, ModeClassic, params.Mode)
		assert.Equal(t, 1.5, params.MinEaseFactor)
		assert.Equal(t, 2.5, params.MaxEaseFactor, "unset fields keep defaults")
		assert.Equal(t, 180, params.MaxIntervalDays)
		assert.Equal(t, 2*time.Second, params.FastResponse)
		assert.Equal(t, 20*time.Second, params.SlowResponse)
		assert.Equal(t, 0.6, params.SlowResponseFactor)
		assert.Equal(t, 4.8, params.EasyThreshold)
		assert.Equal(t, 5, params.EasyMinRepetitions)
		assert.Equal(t, 0.2, params.DifficultyStep)
		assert.Equal(t, 0.5, params.QualityRecencyWeight)
		assert.Equal(t, 4, params.FirstSuccessInterval)
	})

	invalid := []struct {
		name   string
		config ParamsConfig
	}{
		{"unknown mode", ParamsConfig{Mode: "turbo"}},
		{"ease factor wider than the domain", ParamsConfig{MaxEaseFactor: 3.0}},
		{"ease factor floor below the domain", ParamsConfig{MinEaseFactor: 1.1}},
		{"ease range inverted", ParamsConfig{MinEaseFactor: 2.5, MaxEaseFactor: 2.0}},
		{"interval cap over a year", ParamsConfig{MaxIntervalDays: 400}},
		{"interval cap below first success", ParamsConfig{MaxIntervalDays: 3}},
		{"fast response not below slow", ParamsConfig{FastResponse: 40 * time.Second}},
		{"slow response factor above 1", ParamsConfig{SlowResponseFactor: 1.5}},
		{"success above easy threshold", ParamsConfig{SuccessThreshold: 4.9}},
		{"recency weight above 1", ParamsConfig{QualityRecencyWeight: 1.2}},
	}
	for _, tc := range invalid {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			params, err := NewParams(tc.config)
			assert.Nil(t, params)
			assert.True(t, errors.Is(err, ErrInvalidParams), "expected ErrInvalidParams, got %v", err)
		})
	}
}

func TestParamsValidateStabilityWeights(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	params.StabilityWeights.Ease = 0.5

	assert.ErrorIs(t, params.Validate(), ErrInvalidParams)
}

func TestModeValid(t *testing.T) {
	t.Parallel()
	assert.True(t, ModeEnhanced.Valid())
	assert.True(t, ModeClassic.Valid())
	assert.False(t, Mode("").Valid())
	assert.False(t, Mode("sm2").Valid())
}
