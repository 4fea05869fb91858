package recognition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekStart(t *testing.T) {
	t.Run("mid-week lands on the preceding Monday", func(t *testing.T) {
		// Thursday 2026-08-27 14:30
		thursday := time.Date(2026, 8, 27, 14, 30, 0, 0, time.UTC)
		got := WeekStart(thursday)
		assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), got)
		assert.Equal(t, time.Monday, got.Weekday())
	})

	t.Run("Monday maps to itself at midnight", func(t *testing.T) {
		monday := time.Date(2026, 8, 24, 23, 59, 59, 0, time.UTC)
		got := WeekStart(monday)
		assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("Sunday belongs to the week of the previous Monday", func(t *testing.T) {
		sunday := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
		got := WeekStart(sunday)
		assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("Monday midnight is its own week start", func(t *testing.T) {
		midnight := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, midnight, WeekStart(midnight))
	})

	t.Run("preserves location", func(t *testing.T) {
		loc := time.FixedZone("JST", 9*3600)
		wednesday := time.Date(2026, 8, 26, 1, 0, 0, 0, loc)
		got := WeekStart(wednesday)
		assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, loc), got)
		assert.Equal(t, loc, got.Location())
	})

	t.Run("consecutive weeks are seven days apart", func(t *testing.T) {
		thisWeek := WeekStart(time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC))
		nextWeek := WeekStart(time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC))
		assert.Equal(t, 7*24*time.Hour, nextWeek.Sub(thisWeek))
	})
}

func TestWeeklyAllowanceRemaining(t *testing.T) {
	t.Run("fresh week has the full budget", func(t *testing.T) {
		a := &WeeklyAllowance{TotalSent: 0}
		assert.Equal(t, WeeklyLimit, a.Remaining())
	})

	t.Run("nil allowance means no transfer happened yet", func(t *testing.T) {
		var a *WeeklyAllowance
		assert.Equal(t, WeeklyLimit, a.Remaining())
	})

	t.Run("partial spend", func(t *testing.T) {
		a := &WeeklyAllowance{TotalSent: 95}
		assert.Equal(t, 5, a.Remaining())
	})

	t.Run("exhausted budget", func(t *testing.T) {
		a := &WeeklyAllowance{TotalSent: WeeklyLimit}
		assert.Equal(t, 0, a.Remaining())
	})

	t.Run("never negative", func(t *testing.T) {
		a := &WeeklyAllowance{TotalSent: WeeklyLimit + 10}
		assert.Equal(t, 0, a.Remaining())
	})
}
