package dispatch

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/ejfox/dispatch-obsidian/internal/dispatch/interfaces"
	"github.com/ejfox/dispatch-obsidian/internal/providers"
	"github.com/ejfox/dispatch-obsidian/internal/services"
	"github.com/ejfox/dispatch-obsidian/internal/structures"
)

// Scheduler drives the two periodic jobs: polling the external status file
// and persisting the daemon state. Restore runs at boot, Persist once more
// during shutdown.
type Scheduler struct {
	config       *structures.Config
	logger       providers.Logger
	status       services.StatusServiceInterface
	stateManager *StateManager
	metrics      providers.MetricsProviderInterface
	scheduler    gocron.Scheduler
	persistMu    sync.Mutex
}

func NewScheduler(config *structures.Config, logger providers.Logger, status services.StatusServiceInterface, stateManager *StateManager, metrics providers.MetricsProviderInterface) (interfaces.SchedulerInterface, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Scheduler{
		config:       config,
		logger:       logger,
		status:       status,
		stateManager: stateManager,
		metrics:      metrics,
		scheduler:    s,
	}, nil
}

func (s *Scheduler) Init() error {
	if s.config.Dispatch.PollEnabled {
		_, err := s.scheduler.NewJob(
			gocron.DurationJob(s.config.Dispatch.PollInterval),
			gocron.NewTask(s.poll),
			gocron.WithName("status-poll"),
		)
		if err != nil {
			return fmt.Errorf("failed to schedule status poll: %w", err)
		}
	}

	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.config.Persistence.SaveInterval),
		gocron.NewTask(s.persistJob),
		gocron.WithName("state-persist"),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule state persist: %w", err)
	}

	s.scheduler.Start()
	return nil
}

// poll takes no scheduler lock: Refresh fires publish handlers
// synchronously, and those handlers are allowed to call back into Persist.
func (s *Scheduler) poll() {
	was := s.status.IsFresh()
	s.status.Refresh()
	if s.status.Snapshot() == nil {
		s.metrics.IncPollsTotal("absent")
	} else {
		s.metrics.IncPollsTotal("ok")
	}
	if was != s.status.IsFresh() {
		s.logger.Infof(providers.TypeDispatch, "Status freshness changed: fresh=%t", s.status.IsFresh())
	}
}

func (s *Scheduler) persistJob() {
	if err := s.Persist(); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting state: %s", err)
	}
}

func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		if err := s.scheduler.Shutdown(); err != nil {
			s.logger.Errorf(providers.TypeApp, "Scheduler shutdown error: %s", err)
		}
	}
}

func (s *Scheduler) Restore() error {
	return s.stateManager.LoadFromFile(s.config.Persistence.FilePath)
}

func (s *Scheduler) Persist() error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	start := time.Now()
	err := s.stateManager.SaveToFile(s.config.Persistence.FilePath)
	if err != nil {
		return err
	}
	s.metrics.ObservePersistenceDuration(time.Since(start))
	s.logger.Debugf(providers.TypeApp, "Persisted state to file %s", s.config.Persistence.FilePath)
	return nil
}
