package srs

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-scheduler/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// itemDueAt builds an item whose next review falls exactly at due.
func itemDueAt(due time.Time, interval int) domain.Item {
	state := domain.NewDifficultyModel(due.AddDate(0, 0, -interval))
	state.Interval = interval
	return domain.Item{ID: uuid.New(), State: state}
}

func ids(items []domain.Item) []uuid.UUID {
	out := make([]uuid.UUID, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func TestDueNow(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)

	overdue := itemDueAt(now.AddDate(0, 0, -3), 4)
	exactlyNow := itemDueAt(now, 6)
	justLater := itemDueAt(now.Add(time.Microsecond), 6)
	tomorrow := itemDueAt(now.AddDate(0, 0, 1), 2)

	due := DueNow([]domain.Item{tomorrow, exactlyNow, justLater, overdue}, now)

	assert.Equal(t, []uuid.UUID{overdue.ID, exactlyNow.ID}, ids(due), "inclusive boundary, earliest first")
}

func TestDueNowEmpty(t *testing.T) {
	t.Parallel()
	assert.Empty(t, DueNow(nil, time.Now()))
}

func TestDueWithin(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)

	alreadyDue := itemDueAt(now, 1)
	inTwoDays := itemDueAt(now.AddDate(0, 0, 2), 6)
	atHorizon := itemDueAt(now.AddDate(0, 0, 7), 6)
	pastHorizon := itemDueAt(now.AddDate(0, 0, 7).Add(time.Second), 6)
	items := []domain.Item{pastHorizon, atHorizon, alreadyDue, inTwoDays}

	upcoming, err := DueWithin(items, now, 7)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{inTwoDays.ID, atHorizon.ID}, ids(upcoming))

	upcoming, err = DueWithin(items, now, 0)
	require.NoError(t, err)
	assert.Empty(t, upcoming, "zero horizon leaves only strictly future items, none qualify")

	_, err = DueWithin(items, now, -1)
	assert.ErrorIs(t, err, ErrInvalidHorizon)
}

func TestNewLoadBalancer(t *testing.T) {
	t.Parallel()

	_, err := NewLoadBalancer(0, 10)
	assert.ErrorIs(t, err, ErrInvalidCapacity)

	_, err = NewLoadBalancer(5, -1)
	assert.ErrorIs(t, err, ErrInvalidDeferral)

	_, err = NewLoadBalancer(5, 366)
	assert.ErrorIs(t, err, ErrInvalidDeferral)

	b, err := NewLoadBalancer(5, 0)
	require.NoError(t, err)
	assert.NotNil(t, b)
}

func TestBalanceSpreadsLoad(t *testing.T) {
	t.Parallel()
	day := time.Date(2025, 6, 1, 15, 30, 0, 0, time.UTC)
	midnight := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// Same natural day, different priorities
	hard := itemDueAt(day, 3)
	hard.State.Difficulty = 9
	hard.State.StabilityFactor = 0.1
	medium := itemDueAt(day, 3)
	medium.State.Difficulty = 5
	medium.State.StabilityFactor = 0.4
	easy := itemDueAt(day, 3)
	easy.State.Difficulty = 2
	easy.State.StabilityFactor = 0.9

	b, err := NewLoadBalancer(1, DefaultMaxDeferDays)
	require.NoError(t, err)

	entries := b.Balance([]domain.Item{easy, medium, hard})
	require.Len(t, entries, 3)

	assert.Equal(t, hard.ID, entries[0].ItemID, "hardest, least stable item goes first")
	assert.Equal(t, midnight, entries[0].Date)
	assert.Equal(t, medium.ID, entries[1].ItemID)
	assert.Equal(t, midnight.AddDate(0, 0, 1), entries[1].Date)
	assert.Equal(t, easy.ID, entries[2].ItemID)
	assert.Equal(t, midnight.AddDate(0, 0, 2), entries[2].Date)

	for _, e := range entries {
		assert.Equal(t, midnight, e.NaturalDate)
		assert.False(t, e.Overflow)
	}
}

func TestBalanceRespectsCapacity(t *testing.T) {
	t.Parallel()
	start := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	items := make([]domain.Item, 0, 40)
	for i := 0; i < 40; i++ {
		item := itemDueAt(start.AddDate(0, 0, i%5), 2)
		item.State.Difficulty = float64(1 + i%10)
		item.State.StabilityFactor = float64(i%7) / 10
		items = append(items, item)
	}

	b, err := NewLoadBalancer(3, DefaultMaxDeferDays)
	require.NoError(t, err)
	entries := b.Balance(items)
	require.Len(t, entries, len(items))

	perDay := make(map[time.Time]int)
	for _, e := range entries {
		perDay[e.Date]++
		assert.False(t, e.Date.Before(e.NaturalDate), "never scheduled earlier than its natural date")
		assert.False(t, e.Overflow)
	}
	for d, n := range perDay {
		assert.LessOrEqual(t, n, 3, "day %s over capacity", d.Format("2006-01-02"))
	}
}

func TestBalanceOverflowsWhenDeferralWindowIsFull(t *testing.T) {
	t.Parallel()
	due := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	midnight := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	items := make([]domain.Item, 5)
	for i := range items {
		items[i] = itemDueAt(due, 1)
	}

	// Capacity 1 over a 3-day window (natural day + 2) fits three items
	b, err := NewLoadBalancer(1, 2)
	require.NoError(t, err)
	entries := b.Balance(items)
	require.Len(t, entries, 5)

	overflow := 0
	for _, e := range entries {
		assert.False(t, e.Date.Before(midnight))
		assert.False(t, e.Date.After(midnight.AddDate(0, 0, 2)), "deferral is bounded")
		if e.Overflow {
			overflow++
		}
	}
	assert.Equal(t, 2, overflow)
	assert.Equal(t, midnight, entries[3].Date, "overflow goes to the least loaded day, earliest on ties")
	assert.Equal(t, midnight.AddDate(0, 0, 1), entries[4].Date)
}

func TestBalanceDeterministicOrder(t *testing.T) {
	t.Parallel()
	due := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	a := itemDueAt(due, 1)
	a.ID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	c := itemDueAt(due, 1)
	c.ID = uuid.MustParse("00000000-0000-0000-0000-000000000003")
	earlier := itemDueAt(due.Add(-time.Hour), 1)
	earlier.ID = uuid.MustParse("00000000-0000-0000-0000-000000000009")

	b, err := NewLoadBalancer(10, 0)
	require.NoError(t, err)
	entries := b.Balance([]domain.Item{c, a, earlier})

	got := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		got[i] = e.ItemID
	}
	assert.Equal(t, []uuid.UUID{earlier.ID, a.ID, c.ID}, got, "equal priority: earlier due first, then by ID")
}

func TestBalanceUsesUTCCalendarDays(t *testing.T) {
	t.Parallel()
	tokyo := time.FixedZone("JST", 9*60*60)
	// 02:00 on June 2nd in Tokyo is 17:00 on June 1st UTC
	item := itemDueAt(time.Date(2025, 6, 2, 2, 0, 0, 0, tokyo), 1)

	b, err := NewLoadBalancer(1, 0)
	require.NoError(t, err)
	entries := b.Balance([]domain.Item{item})

	require.Len(t, entries, 1)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), entries[0].NaturalDate)
}

func TestBalanceDoesNotReorderInput(t *testing.T) {
	t.Parallel()
	due := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	easy := itemDueAt(due, 1)
	easy.State.Difficulty = 1
	hard := itemDueAt(due, 1)
	hard.State.Difficulty = 10
	items := []domain.Item{easy, hard}

	b, err := NewLoadBalancer(1, 5)
	require.NoError(t, err)
	_ = b.Balance(items)

	assert.Equal(t, easy.ID, items[0].ID)
	assert.Equal(t, hard.ID, items[1].ID)
}

func TestBalanceSharesCapacityAcrossTimeZones(t *testing.T) {
	t.Parallel()
	tokyo := time.FixedZone("JST", 9*60*60)
	newYork := time.FixedZone("EST", -5*60*60)

	// All three instants fall on June 1st UTC
	items := []domain.Item{
		itemDueAt(time.Date(2025, 6, 1, 3, 0, 0, 0, time.UTC), 1),
		itemDueAt(time.Date(2025, 6, 1, 20, 0, 0, 0, tokyo), 1),
		itemDueAt(time.Date(2025, 6, 1, 10, 0, 0, 0, newYork), 1),
	}

	b, err := NewLoadBalancer(1, 5)
	require.NoError(t, err)
	entries := b.Balance(items)
	require.Len(t, entries, 3)

	june1 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	days := make(map[time.Time]bool)
	for _, e := range entries {
		assert.Equal(t, june1, e.NaturalDate)
		assert.False(t, days[e.Date], "day %s assigned twice", e.Date.Format("2006-01-02"))
		days[e.Date] = true
	}
	assert.True(t, days[june1])
	assert.True(t, days[june1.AddDate(0, 0, 1)])
	assert.True(t, days[june1.AddDate(0, 0, 2)])
}
