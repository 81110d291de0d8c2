package services

import (
	"sort"
	"sync"
	"time"

	"github.com/ejfox/dispatch-obsidian/internal/models"
	"github.com/ejfox/dispatch-obsidian/internal/providers"
	"github.com/ejfox/dispatch-obsidian/internal/structures"
)

const (
	dayFormat      = "2006-01-02"
	maxStreakDays  = 365
	maxStreakWeeks = 52
)

type StreakServiceInterface interface {
	RecordWritingDay() bool
	RecordPublishDay() bool
	WritingStreak() int
	PublishStreak() int
	Data() models.StreakData
	Put(data models.StreakData)
}

// StreakService keeps the bounded writing/publishing day history and derives
// the two streak numbers. Persistence is handled by the state manager; the
// Record methods report whether anything changed so callers know when a
// persist is due.
type StreakService struct {
	conf   *structures.Config
	logger providers.Logger

	mu   sync.RWMutex
	data models.StreakData

	now func() time.Time
}

func NewStreakService(conf *structures.Config, logger providers.Logger) StreakServiceInterface {
	return &StreakService{
		conf:   conf,
		logger: logger,
		now:    time.Now,
	}
}

func (s *StreakService) RecordWritingDay() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := false
	s.data.Dates, changed = appendDay(s.data.Dates, s.now().Format(dayFormat))
	return changed
}

func (s *StreakService) RecordPublishDay() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := false
	s.data.PublishDates, changed = appendDay(s.data.PublishDates, s.now().Format(dayFormat))
	return changed
}

// appendDay adds day once, then truncates from the front so the most recent
// entries survive the cap.
func appendDay(days []string, day string) ([]string, bool) {
	for _, d := range days {
		if d == day {
			return days, false
		}
	}
	days = append(days, day)
	if len(days) > maxStreakDays {
		days = append([]string(nil), days[len(days)-maxStreakDays:]...)
	}
	return days, true
}

// WritingStreak walks backward from today counting consecutive recorded
// days. No entry for today means no streak, regardless of earlier runs.
func (s *StreakService) WritingStreak() int {
	s.mu.RLock()
	dates := append([]string(nil), s.data.Dates...)
	s.mu.RUnlock()

	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	today := s.now()
	expected := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.Local)

	streak := 0
	for _, d := range dates {
		day, err := time.ParseInLocation(dayFormat, d, time.Local)
		if err != nil {
			continue
		}
		if day.Equal(expected) {
			streak++
			expected = expected.AddDate(0, 0, -1)
			continue
		}
		if day.Before(expected) {
			break
		}
	}
	return streak
}

// PublishStreak is the coarser weekly measure: consecutive ISO weeks, ending
// with the current one, that contain at least one publish day. Bounded at a
// year of weeks.
func (s *StreakService) PublishStreak() int {
	s.mu.RLock()
	dates := append([]string(nil), s.data.PublishDates...)
	s.mu.RUnlock()

	weeks := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		day, err := time.ParseInLocation(dayFormat, d, time.Local)
		if err != nil {
			continue
		}
		weeks[weekStart(day).Format(dayFormat)] = struct{}{}
	}

	cursor := weekStart(s.now())
	streak := 0
	for i := 0; i < maxStreakWeeks; i++ {
		if _, ok := weeks[cursor.Format(dayFormat)]; !ok {
			break
		}
		streak++
		cursor = cursor.AddDate(0, 0, -7)
	}
	return streak
}

// weekStart truncates t to the Monday of its ISO week, local midnight.
func weekStart(t time.Time) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
	offset := (int(midnight.Weekday()) + 6) % 7
	return midnight.AddDate(0, 0, -offset)
}

func (s *StreakService) Data() models.StreakData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.StreakData{
		Dates:        append([]string(nil), s.data.Dates...),
		PublishDates: append([]string(nil), s.data.PublishDates...),
	}
}

func (s *StreakService) Put(data models.StreakData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
}
