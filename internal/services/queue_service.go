package services

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/ejfox/dispatch-obsidian/internal/models"
	"github.com/ejfox/dispatch-obsidian/internal/providers"
	"github.com/ejfox/dispatch-obsidian/internal/structures"
)

type QueueServiceInterface interface {
	MarkReady(path, note string) error
	UnmarkReady(path string) error
	IsReady(path string) bool
	Queue() models.PublishQueue
	Persist() error
}

// QueueService owns .dispatch/queue.json, the loosely coupled handoff point
// between this daemon and the external Dispatch tool. Every mutation is
// persisted immediately; there is no locking against the other side, last
// writer wins.
type QueueService struct {
	conf   *structures.Config
	logger providers.Logger

	mu    sync.Mutex
	queue models.PublishQueue

	now func() time.Time
}

func NewQueueService(conf *structures.Config, logger providers.Logger) QueueServiceInterface {
	qs := &QueueService{
		conf:   conf,
		logger: logger,
		queue:  models.NewPublishQueue(),
		now:    time.Now,
	}
	qs.load()
	return qs
}

func (qs *QueueService) filePath() string {
	return filepath.Join(qs.conf.Vault.Path, filepath.FromSlash(qs.conf.Dispatch.QueueFile))
}

// load initializes from the queue file. An absent or unparsable file yields
// an empty queue; orphaned notes are pruned on the way in.
func (qs *QueueService) load() {
	data, err := os.ReadFile(qs.filePath())
	if err != nil {
		if !os.IsNotExist(err) {
			qs.logger.Warnf(providers.TypeDispatch, "Queue file unreadable, starting empty: %s", err)
		}
		return
	}

	var queue models.PublishQueue
	if err := json.Unmarshal(data, &queue); err != nil {
		qs.logger.Warnf(providers.TypeDispatch, "Queue file malformed, starting empty: %s", err)
		return
	}

	queue.Normalize()
	qs.mu.Lock()
	qs.queue = queue
	qs.mu.Unlock()
}

// MarkReady adds path to the ready set. Re-marking an already queued path
// only replaces its note.
func (qs *QueueService) MarkReady(path, note string) error {
	if note == "" {
		note = qs.conf.Dispatch.DefaultNote
	}

	qs.mu.Lock()
	defer qs.mu.Unlock()

	if !qs.queue.Contains(path) {
		qs.queue.Ready = append(qs.queue.Ready, path)
	}
	qs.queue.Notes[path] = note
	qs.queue.UpdatedAt = qs.now()

	return qs.persistLocked()
}

// UnmarkReady removes path and its note. Unmarking an absent path is a
// no-op, not an error: updated_at stays put and nothing is rewritten.
func (qs *QueueService) UnmarkReady(path string) error {
	qs.mu.Lock()
	defer qs.mu.Unlock()

	_, hasNote := qs.queue.Notes[path]
	if !qs.queue.Contains(path) && !hasNote {
		return nil
	}

	for i, p := range qs.queue.Ready {
		if p == path {
			qs.queue.Ready = append(qs.queue.Ready[:i], qs.queue.Ready[i+1:]...)
			break
		}
	}
	delete(qs.queue.Notes, path)
	qs.queue.UpdatedAt = qs.now()

	return qs.persistLocked()
}

func (qs *QueueService) IsReady(path string) bool {
	qs.mu.Lock()
	defer qs.mu.Unlock()
	return qs.queue.Contains(path)
}

// Queue returns a copy safe to hand out.
func (qs *QueueService) Queue() models.PublishQueue {
	qs.mu.Lock()
	defer qs.mu.Unlock()

	out := models.PublishQueue{
		UpdatedAt: qs.queue.UpdatedAt,
		Ready:     append(make([]string, 0, len(qs.queue.Ready)), qs.queue.Ready...),
		Notes:     make(map[string]string, len(qs.queue.Notes)),
	}
	for k, v := range qs.queue.Notes {
		out.Notes[k] = v
	}
	return out
}

func (qs *QueueService) Persist() error {
	qs.mu.Lock()
	defer qs.mu.Unlock()
	return qs.persistLocked()
}

// persistLocked writes the queue as plain indented JSON (the external tool
// reads it) via tmp file and rename, creating .dispatch on first use.
func (qs *QueueService) persistLocked() error {
	target := qs.filePath()
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(qs.queue, "", "  ")
	if err != nil {
		return err
	}

	tmpFile := target + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0o644); err != nil {
		os.Remove(tmpFile)
		return err
	}
	return os.Rename(tmpFile, target)
}
