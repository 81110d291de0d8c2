package testutil

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ejfox/dispatch-obsidian/internal/models"
	"github.com/ejfox/dispatch-obsidian/internal/providers"
	"github.com/ejfox/dispatch-obsidian/internal/vault"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// MockCompressor passes data through unchanged.
type MockCompressor struct{}

func (m *MockCompressor) Compress(val []byte) ([]byte, error)   { return val, nil }
func (m *MockCompressor) Decompress(val []byte) ([]byte, error) { return val, nil }

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu                sync.Mutex
	Requests          int
	Polls             map[string]int
	PublishesDetected int
	Celebrations      int
	CacheHits         int
	CacheMisses       int
	Persists          int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}

func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}

func (m *MockMetrics) IncPollsTotal(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Polls == nil {
		m.Polls = make(map[string]int)
	}
	m.Polls[result]++
}

func (m *MockMetrics) IncPublishesDetected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishesDetected++
}

func (m *MockMetrics) IncCelebrations() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Celebrations++
}

func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persists++
}

// MockStreakService implements services.StreakServiceInterface with canned
// values and call recording.
type MockStreakService struct {
	mu            sync.Mutex
	WritingCalls  int
	PublishCalls  int
	WritingDays   int
	PublishWeeks  int
	StoredData    models.StreakData
	RecordChanged bool
}

func (m *MockStreakService) RecordWritingDay() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WritingCalls++
	return m.RecordChanged
}

func (m *MockStreakService) RecordPublishDay() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishCalls++
	return m.RecordChanged
}

func (m *MockStreakService) WritingStreak() int { return m.WritingDays }
func (m *MockStreakService) PublishStreak() int { return m.PublishWeeks }

func (m *MockStreakService) Data() models.StreakData {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.StoredData
}

func (m *MockStreakService) Put(data models.StreakData) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StoredData = data
}

// MockStatusService implements services.StatusServiceInterface with canned
// state.
type MockStatusService struct {
	Fresh        bool
	Snap         *models.StatusSnapshot
	Counts       models.StatusStats
	Label        string
	Last         string
	RefreshCalls int
}

func (m *MockStatusService) Refresh()                          { m.RefreshCalls++ }
func (m *MockStatusService) IsFresh() bool                     { return m.Fresh }
func (m *MockStatusService) Snapshot() *models.StatusSnapshot  { return m.Snap }
func (m *MockStatusService) ComputeCounts() models.StatusStats { return m.Counts }
func (m *MockStatusService) SummaryLabel() string              { return m.Label }
func (m *MockStatusService) LastPublish() string               { return m.Last }
func (m *MockStatusService) OnPublish(_ func(slug string))     {}

// MockCache is a map-backed providers.CacheProviderInterface.
type MockCache struct {
	data map[string][]byte
}

func NewMockCache() *MockCache { return &MockCache{data: make(map[string][]byte)} }

func (m *MockCache) Get(key string) ([]byte, bool) { v, ok := m.data[key]; return v, ok }
func (m *MockCache) Set(key string, value []byte)  { m.data[key] = value }
func (m *MockCache) Del(key string)                { delete(m.data, key) }

// MockScanner is a canned vault.ScannerInterface.
type MockScanner struct {
	RootDir string
	Files   []vault.VaultFile
	Metas   map[string]*vault.FileMeta
	ListErr error
}

func (m *MockScanner) List() ([]vault.VaultFile, error) { return m.Files, m.ListErr }

func (m *MockScanner) Meta(f vault.VaultFile) (*vault.FileMeta, error) {
	if meta, ok := m.Metas[f.Path]; ok {
		return meta, nil
	}
	return nil, os.ErrNotExist
}

func (m *MockScanner) Root() string { return m.RootDir }

func (m *MockScanner) Abs(rel string) string { return filepath.Join(m.RootDir, rel) }
