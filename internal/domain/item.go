package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Item pairs a study item's identifier with its current memory state.
// It is the unit the due-selection and load-balancing queries work on.
type Item struct {
	ID    uuid.UUID       `json:"id"`
	State DifficultyModel `json:"state"`
}

// NewItem creates an item with a fresh ID and the initial memory state.
func NewItem(now time.Time) Item {
	return Item{
		ID:    uuid.New(),
		State: NewDifficultyModel(now),
	}
}

// NextReviewAt is the item's natural due instant.
func (i Item) NextReviewAt() time.Time {
	return i.State.NextReviewAt()
}

// Validate checks the ID and the embedded state.
func (i Item) Validate() error {
	if i.ID == uuid.Nil {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyItemID)
	}
	if err := i.State.Validate(); err != nil {
		return fmt.Errorf("item %s: %w", i.ID, err)
	}
	return nil
}

// ScheduleEntry is the load balancer's assignment for one item.
// Entries are transient and recomputed on demand.
type ScheduleEntry struct {
	ItemID      uuid.UUID `json:"item_id"`
	NaturalDate time.Time `json:"natural_date"` // UTC day the item falls due
	Date        time.Time `json:"date"`         // UTC day it was assigned to
	Overflow    bool      `json:"overflow"`     // Assigned over capacity because the deferral window was full
}

// DeferredDays reports how many days the entry was pushed past its natural date.
func (e ScheduleEntry) DeferredDays() int {
	return int(e.Date.Sub(e.NaturalDate).Hours() / 24)
}

// RetentionPoint is one sample of a projected forgetting curve.
type RetentionPoint struct {
	Day       int     `json:"day"`
	Retention float64 `json:"retention"`
}
