package services

import "github.com/ejfox/dispatch-obsidian/internal/providers"

// statsSource adapts the live services to the gauge callbacks the metrics
// provider wants.
type statsSource struct {
	status StatusServiceInterface
	queue  QueueServiceInterface
	streak StreakServiceInterface
}

func NewStatsSource(status StatusServiceInterface, queue QueueServiceInterface, streak StreakServiceInterface) providers.StatsSourceInterface {
	return &statsSource{status: status, queue: queue, streak: streak}
}

func (s *statsSource) QueueSize() int          { return len(s.queue.Queue().Ready) }
func (s *statsSource) WritingStreakDays() int  { return s.streak.WritingStreak() }
func (s *statsSource) PublishStreakWeeks() int { return s.streak.PublishStreak() }
func (s *statsSource) StatusFresh() bool       { return s.status.IsFresh() }
