package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ejfox/dispatch-obsidian/internal/models"
	"github.com/ejfox/dispatch-obsidian/internal/structures"
	"github.com/ejfox/dispatch-obsidian/internal/testutil"
)

func newStreakService(now time.Time) *StreakService {
	s := NewStreakService(&structures.Config{}, &testutil.MockLogger{}).(*StreakService)
	s.now = func() time.Time { return now }
	return s
}

func day(t time.Time, daysAgo int) string {
	return t.AddDate(0, 0, -daysAgo).Format(dayFormat)
}

func TestRecordWritingDay_IdempotentPerDay(t *testing.T) {
	now := time.Date(2024, 6, 15, 14, 0, 0, 0, time.Local)
	s := newStreakService(now)

	assert.True(t, s.RecordWritingDay())
	assert.False(t, s.RecordWritingDay())
	assert.Equal(t, []string{"2024-06-15"}, s.Data().Dates)
}

func TestRecordWritingDay_CapKeepsMostRecent(t *testing.T) {
	now := time.Date(2024, 6, 15, 8, 0, 0, 0, time.Local)
	s := newStreakService(now)

	var dates []string
	for i := 400; i >= 1; i-- {
		dates = append(dates, day(now, i))
	}
	s.Put(models.StreakData{Dates: dates})

	require.True(t, s.RecordWritingDay())
	got := s.Data().Dates
	require.Len(t, got, 365)
	assert.Equal(t, day(now, 0), got[364])
	assert.Equal(t, day(now, 364), got[0])
}

func TestWritingStreak_ZeroWithoutToday(t *testing.T) {
	now := time.Date(2024, 6, 15, 8, 0, 0, 0, time.Local)
	s := newStreakService(now)

	s.Put(models.StreakData{Dates: []string{day(now, 1), day(now, 2), day(now, 3)}})
	assert.Equal(t, 0, s.WritingStreak())
}

func TestWritingStreak_CountsConsecutiveDays(t *testing.T) {
	now := time.Date(2024, 6, 15, 23, 30, 0, 0, time.Local)

	for _, n := range []int{1, 2, 5, 30} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			s := newStreakService(now)
			var dates []string
			for i := n - 1; i >= 0; i-- {
				dates = append(dates, day(now, i))
			}
			s.Put(models.StreakData{Dates: dates})
			assert.Equal(t, n, s.WritingStreak())
		})
	}
}

func TestWritingStreak_StopsAtGap(t *testing.T) {
	now := time.Date(2024, 6, 15, 8, 0, 0, 0, time.Local)
	s := newStreakService(now)

	// Today, yesterday, then a gap, then more history.
	s.Put(models.StreakData{Dates: []string{day(now, 7), day(now, 6), day(now, 1), day(now, 0)}})
	assert.Equal(t, 2, s.WritingStreak())
}

func TestWritingStreak_InsertionOrderIrrelevant(t *testing.T) {
	now := time.Date(2024, 6, 15, 8, 0, 0, 0, time.Local)
	s := newStreakService(now)

	s.Put(models.StreakData{Dates: []string{day(now, 0), day(now, 2), day(now, 1)}})
	assert.Equal(t, 3, s.WritingStreak())
}

func TestPublishStreak_CountsConsecutiveWeeks(t *testing.T) {
	// A Saturday; the ISO week started Monday the 10th.
	now := time.Date(2024, 6, 15, 8, 0, 0, 0, time.Local)
	s := newStreakService(now)

	s.Put(models.StreakData{PublishDates: []string{
		day(now, 3),  // this week
		day(now, 8),  // previous week
		day(now, 16), // two weeks back
	}})
	assert.Equal(t, 3, s.PublishStreak())
}

func TestPublishStreak_BrokenWithoutCurrentWeek(t *testing.T) {
	now := time.Date(2024, 6, 15, 8, 0, 0, 0, time.Local)
	s := newStreakService(now)

	s.Put(models.StreakData{PublishDates: []string{day(now, 8), day(now, 16)}})
	assert.Equal(t, 0, s.PublishStreak())
}

func TestPublishStreak_MultiplePublishesOneWeek(t *testing.T) {
	now := time.Date(2024, 6, 15, 8, 0, 0, 0, time.Local)
	s := newStreakService(now)

	// Monday through Saturday of the current week all count as one week.
	s.Put(models.StreakData{PublishDates: []string{day(now, 0), day(now, 2), day(now, 5)}})
	assert.Equal(t, 1, s.PublishStreak())
}

func TestPublishStreak_CappedAtOneYear(t *testing.T) {
	now := time.Date(2024, 6, 15, 8, 0, 0, 0, time.Local)
	s := newStreakService(now)

	var dates []string
	for i := 0; i < 80; i++ {
		dates = append(dates, day(now, i*7))
	}
	s.Put(models.StreakData{PublishDates: dates})
	assert.Equal(t, maxStreakWeeks, s.PublishStreak())
}

func TestWeekStart_IsMonday(t *testing.T) {
	sat := time.Date(2024, 6, 15, 13, 0, 0, 0, time.Local)
	mon := time.Date(2024, 6, 10, 0, 0, 0, 0, time.Local)
	assert.Equal(t, mon, weekStart(sat))
	assert.Equal(t, mon, weekStart(mon))
	sun := time.Date(2024, 6, 16, 23, 0, 0, 0, time.Local)
	assert.Equal(t, mon, weekStart(sun))
}
