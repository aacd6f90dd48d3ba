package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/phrazzld/scry-scheduler/internal/domain"
)

// ErrInvalidRecord is returned when an input record fails validation.
var ErrInvalidRecord = errors.New("invalid item record")

// Global validator instance for reuse
var validate = validator.New()

// ItemRecord is the JSON shape of an item on stdin and stdout. NextReviewAt
// is derived on output and ignored on input.
type ItemRecord struct {
	ID              string    `json:"id" validate:"required,uuid"`
	EaseFactor      float64   `json:"ease_factor" validate:"gte=1.3,lte=2.5"`
	Interval        int       `json:"interval" validate:"gte=0,lte=365"`
	Repetitions     int       `json:"repetitions" validate:"gte=0"`
	Difficulty      float64   `json:"difficulty" validate:"gte=1,lte=10"`
	AverageQuality  float64   `json:"average_quality" validate:"gte=0,lte=5"`
	StabilityFactor float64   `json:"stability_factor" validate:"gte=0,lte=1"`
	LastReview      time.Time `json:"last_review" validate:"required"`
	NextReviewAt    time.Time `json:"next_review_at"`
}

func newItemRecord(item domain.Item) ItemRecord {
	return ItemRecord{
		ID:              item.ID.String(),
		EaseFactor:      item.State.EaseFactor,
		Interval:        item.State.Interval,
		Repetitions:     item.State.Repetitions,
		Difficulty:      item.State.Difficulty,
		AverageQuality:  item.State.AverageQuality,
		StabilityFactor: item.State.StabilityFactor,
		LastReview:      item.State.LastReview,
		NextReviewAt:    item.NextReviewAt(),
	}
}

// Item validates the record and converts it to a domain item.
func (r ItemRecord) Item() (domain.Item, error) {
	if err := validate.Struct(r); err != nil {
		return domain.Item{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return domain.Item{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	item := domain.Item{
		ID: id,
		State: domain.DifficultyModel{
			EaseFactor:      r.EaseFactor,
			Interval:        r.Interval,
			Repetitions:     r.Repetitions,
			Difficulty:      r.Difficulty,
			AverageQuality:  r.AverageQuality,
			StabilityFactor: r.StabilityFactor,
			LastReview:      r.LastReview,
		},
	}
	if err := item.Validate(); err != nil {
		return domain.Item{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	return item, nil
}

// readItem decodes a single record from r.
func readItem(r io.Reader) (domain.Item, error) {
	var rec ItemRecord
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return domain.Item{}, fmt.Errorf("failed to decode item record: %w", err)
	}
	return rec.Item()
}

// readItems decodes a JSON array of records from r. The index of the first
// invalid record is reported in the error.
func readItems(r io.Reader) ([]domain.Item, error) {
	var recs []ItemRecord
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, fmt.Errorf("failed to decode item records: %w", err)
	}

	items := make([]domain.Item, 0, len(recs))
	for i, rec := range recs {
		item, err := rec.Item()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
