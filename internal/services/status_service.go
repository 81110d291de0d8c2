package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"

	"github.com/ejfox/dispatch-obsidian/internal/models"
	"github.com/ejfox/dispatch-obsidian/internal/providers"
	"github.com/ejfox/dispatch-obsidian/internal/structures"
	"github.com/ejfox/dispatch-obsidian/internal/vault"
)

type StatusServiceInterface interface {
	Refresh()
	IsFresh() bool
	Snapshot() *models.StatusSnapshot
	ComputeCounts() models.StatusStats
	SummaryLabel() string
	LastPublish() string
	OnPublish(handler func(slug string))
}

// StatusService holds the last successfully read snapshot of the external
// status file and reconciles it with a local vault scan when the external
// data is missing or stale.
//
// "Absent" and "stale" are distinct states: absent means the file could not
// be read this cycle (use the local fallback), stale means external data
// exists but its updated_at is outside the freshness window.
type StatusService struct {
	conf    *structures.Config
	logger  providers.Logger
	scanner vault.ScannerInterface

	mu          sync.RWMutex
	snapshot    *models.StatusSnapshot
	lastPublish string
	primed      bool
	handlers    []func(slug string)

	now func() time.Time
}

func NewStatusService(conf *structures.Config, logger providers.Logger, scanner vault.ScannerInterface) StatusServiceInterface {
	return &StatusService{
		conf:    conf,
		logger:  logger,
		scanner: scanner,
		now:     time.Now,
	}
}

// OnPublish registers a handler invoked when a refresh observes a changed
// last_publish slug. Handlers run synchronously, outside the service lock
// and before the refreshed snapshot replaces the held one, so they may
// call back into the service.
func (ss *StatusService) OnPublish(handler func(slug string)) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.handlers = append(ss.handlers, handler)
}

// Refresh re-reads the status file. Any read or parse failure clears the
// held snapshot: the external tool may not have run yet, and a half-written
// file must not masquerade as current data.
func (ss *StatusService) Refresh() {
	path := filepath.Join(ss.conf.Vault.Path, filepath.FromSlash(ss.conf.Dispatch.StatusFile))

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			ss.logger.Debugf(providers.TypeDispatch, "Status file unreadable: %s", err)
		}
		ss.clear()
		return
	}

	var snap models.StatusSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		ss.logger.Debugf(providers.TypeDispatch, "Status file malformed: %s", err)
		ss.clear()
		return
	}

	ss.mu.Lock()
	var fire []func(slug string)
	slug := snap.LastPublish
	if ss.primed && slug != "" && slug != ss.lastPublish {
		fire = append(fire, ss.handlers...)
	}
	ss.mu.Unlock()

	for _, h := range fire {
		h(slug)
	}

	ss.mu.Lock()
	ss.snapshot = &snap
	ss.lastPublish = slug
	ss.primed = true
	ss.mu.Unlock()
}

func (ss *StatusService) clear() {
	ss.mu.Lock()
	ss.snapshot = nil
	ss.mu.Unlock()
}

func (ss *StatusService) Snapshot() *models.StatusSnapshot {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.snapshot
}

func (ss *StatusService) LastPublish() string {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.lastPublish
}

func (ss *StatusService) IsFresh() bool {
	return ss.freshSnapshot() != nil
}

// freshSnapshot returns the held snapshot only while it is inside the
// freshness window, in one lock acquisition. Callers must not observe
// "fresh" and then re-read the snapshot: a concurrent Refresh may clear
// it in between.
func (ss *StatusService) freshSnapshot() *models.StatusSnapshot {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	if ss.snapshot == nil {
		return nil
	}
	if ss.now().Sub(ss.snapshot.UpdatedAt) > ss.conf.Dispatch.FreshnessWindow {
		return nil
	}
	return ss.snapshot
}

// ComputeCounts returns the snapshot aggregates when fresh, otherwise a
// draft/published split derived from the local front-matter scan. The
// fallback never reports total words; local counting is only the rough
// estimate the session service applies elsewhere.
func (ss *StatusService) ComputeCounts() models.StatusStats {
	if snap := ss.freshSnapshot(); snap != nil {
		return snap.Stats
	}

	files, err := ss.scanner.List()
	if err != nil {
		ss.logger.Warnf(providers.TypeVault, "Vault scan failed: %s", err)
		return models.StatusStats{}
	}

	stats := models.StatusStats{Total: len(files)}
	for _, f := range files {
		meta, err := ss.scanner.Meta(f)
		if err != nil {
			stats.Drafts++
			continue
		}
		if cast.ToString(meta.FrontMatter[ss.conf.Vault.PublishedURLKey]) != "" {
			stats.Published++
		} else {
			stats.Drafts++
		}
	}
	return stats
}

func (ss *StatusService) SummaryLabel() string {
	counts := ss.ComputeCounts()
	return fmt.Sprintf("%d drafts · %d live", counts.Drafts, counts.Published)
}
