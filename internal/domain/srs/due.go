package srs

import (
	"sort"
	"time"

	"github.com/phrazzld/scry-scheduler/internal/domain"
)

// DefaultMaxDeferDays is how far past its natural date the load balancer may
// push an item before it gives up looking for a day with spare capacity.
const DefaultMaxDeferDays = 30

// priorityStabilityOffset keeps the balancing priority finite for items with
// zero stability.
const priorityStabilityOffset = 0.1

// DueNow returns the items whose next review is at or before now, earliest first.
// The boundary is inclusive: an item due exactly at now is due.
func DueNow(items []domain.Item, now time.Time) []domain.Item {
	due := make([]domain.Item, 0, len(items))
	for _, item := range items {
		if !item.NextReviewAt().After(now) {
			due = append(due, item)
		}
	}
	sortByNextReview(due)
	return due
}

// DueWithin returns the items that are not due yet but fall due within the
// next horizonDays days: now < next review <= now + horizonDays. Items already
// due are excluded; use DueNow for those.
func DueWithin(items []domain.Item, now time.Time, horizonDays int) ([]domain.Item, error) {
	if horizonDays < 0 {
		return nil, ErrInvalidHorizon
	}

	horizon := now.AddDate(0, 0, horizonDays)
	upcoming := make([]domain.Item, 0, len(items))
	for _, item := range items {
		next := item.NextReviewAt()
		if next.After(now) && !next.After(horizon) {
			upcoming = append(upcoming, item)
		}
	}
	sortByNextReview(upcoming)
	return upcoming, nil
}

func sortByNextReview(items []domain.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		ni, nj := items[i].NextReviewAt(), items[j].NextReviewAt()
		if !ni.Equal(nj) {
			return ni.Before(nj)
		}
		return items[i].ID.String() < items[j].ID.String()
	})
}

// LoadBalancer spreads reviews over calendar days so that no day carries more
// than maxPerDay items. Days are UTC calendar days.
type LoadBalancer struct {
	maxPerDay    int
	maxDeferDays int
}

// NewLoadBalancer creates a LoadBalancer. maxPerDay must be at least 1 and
// maxDeferDays must lie in [0, domain.MaxIntervalDays].
func NewLoadBalancer(maxPerDay, maxDeferDays int) (*LoadBalancer, error) {
	if maxPerDay < 1 {
		return nil, ErrInvalidCapacity
	}
	if maxDeferDays < 0 || maxDeferDays > domain.MaxIntervalDays {
		return nil, ErrInvalidDeferral
	}
	return &LoadBalancer{
		maxPerDay:    maxPerDay,
		maxDeferDays: maxDeferDays,
	}, nil
}

// Balance assigns every item a review day and returns the assignments in the
// order they were made.
//
// Items are handled hardest-first by priority difficulty/(stability+0.1). Each
// item starts at its natural due day and walks forward one day at a time until
// it finds a day with fewer than maxPerDay assignments. The walk stops after
// maxDeferDays; if the whole window is full the item goes on the least loaded
// day of the window (earliest on ties) and the entry is marked Overflow.
// An item is never assigned a day earlier than its natural due day.
//
// Items are expected to be valid; see domain.Item.Validate.
func (b *LoadBalancer) Balance(items []domain.Item) []domain.ScheduleEntry {
	ordered := make([]domain.Item, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		pi, pj := balancePriority(ordered[i].State), balancePriority(ordered[j].State)
		if pi != pj {
			return pi > pj
		}
		ni, nj := ordered[i].NextReviewAt(), ordered[j].NextReviewAt()
		if !ni.Equal(nj) {
			return ni.Before(nj)
		}
		return ordered[i].ID.String() < ordered[j].ID.String()
	})

	load := make(map[int64]int)
	entries := make([]domain.ScheduleEntry, 0, len(ordered))
	for _, item := range ordered {
		natural := utcDay(item.NextReviewAt())
		entry := domain.ScheduleEntry{
			ItemID:      item.ID,
			NaturalDate: natural,
		}

		day, ok := b.firstOpenDay(load, natural)
		if !ok {
			day = b.leastLoadedDay(load, natural)
			entry.Overflow = true
		}

		entry.Date = day
		load[dayKey(day)]++
		entries = append(entries, entry)
	}

	return entries
}

func (b *LoadBalancer) firstOpenDay(load map[int64]int, natural time.Time) (time.Time, bool) {
	for offset := 0; offset <= b.maxDeferDays; offset++ {
		day := natural.AddDate(0, 0, offset)
		if load[dayKey(day)] < b.maxPerDay {
			return day, true
		}
	}
	return time.Time{}, false
}

func (b *LoadBalancer) leastLoadedDay(load map[int64]int, natural time.Time) time.Time {
	best := natural
	for offset := 1; offset <= b.maxDeferDays; offset++ {
		day := natural.AddDate(0, 0, offset)
		if load[dayKey(day)] < load[dayKey(best)] {
			best = day
		}
	}
	return best
}

func balancePriority(m domain.DifficultyModel) float64 {
	return m.Difficulty / (m.StabilityFactor + priorityStabilityOffset)
}

// dayKey identifies a UTC calendar day by its midnight Unix time.
func dayKey(day time.Time) int64 {
	return utcDay(day).Unix()
}

// utcDay truncates t to midnight of its UTC calendar day.
func utcDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
