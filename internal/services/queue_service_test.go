package services

import (
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ejfox/dispatch-obsidian/internal/models"
	"github.com/ejfox/dispatch-obsidian/internal/structures"
	"github.com/ejfox/dispatch-obsidian/internal/testutil"
)

func queueConfig(t *testing.T) *structures.Config {
	t.Helper()
	return &structures.Config{
		Vault: structures.VaultConfig{Path: t.TempDir()},
		Dispatch: structures.DispatchConfig{
			QueueFile:   ".dispatch/queue.json",
			DefaultNote: "Ready for review",
		},
	}
}

func TestMarkReady_ThenUnmark_RoundTrip(t *testing.T) {
	conf := queueConfig(t)
	qs := NewQueueService(conf, &testutil.MockLogger{})

	before := qs.Queue()
	require.NoError(t, qs.MarkReady("blog/a.md", "note"))
	require.NoError(t, qs.UnmarkReady("blog/a.md"))

	after := qs.Queue()
	assert.Equal(t, before.Ready, after.Ready)
	assert.Equal(t, before.Notes, after.Notes)
}

func TestMarkReady_IdempotentLastNoteWins(t *testing.T) {
	conf := queueConfig(t)
	qs := NewQueueService(conf, &testutil.MockLogger{})

	require.NoError(t, qs.MarkReady("blog/a.md", "first"))
	require.NoError(t, qs.MarkReady("blog/a.md", "second"))

	q := qs.Queue()
	assert.Equal(t, []string{"blog/a.md"}, q.Ready)
	assert.Equal(t, "second", q.Notes["blog/a.md"])
}

func TestMarkReady_DefaultNote(t *testing.T) {
	conf := queueConfig(t)
	qs := NewQueueService(conf, &testutil.MockLogger{})

	require.NoError(t, qs.MarkReady("blog/a.md", ""))
	assert.Equal(t, "Ready for review", qs.Queue().Notes["blog/a.md"])
}

func TestUnmarkReady_AbsentPathIsNoop(t *testing.T) {
	conf := queueConfig(t)
	qs := NewQueueService(conf, &testutil.MockLogger{})

	require.NoError(t, qs.MarkReady("blog/a.md", "note"))
	stamped := qs.Queue().UpdatedAt

	assert.NoError(t, qs.UnmarkReady("blog/never-marked.md"))
	assert.Equal(t, stamped, qs.Queue().UpdatedAt, "a no-op must not bump updated_at")
	assert.Equal(t, []string{"blog/a.md"}, qs.Queue().Ready)
}

func TestUnmarkReady_AbsentPathDoesNotRewriteFile(t *testing.T) {
	conf := queueConfig(t)
	qs := NewQueueService(conf, &testutil.MockLogger{})

	require.NoError(t, qs.UnmarkReady("blog/never-marked.md"))

	_, err := os.Stat(filepath.Join(conf.Vault.Path, ".dispatch", "queue.json"))
	assert.True(t, os.IsNotExist(err), "a no-op must not create the queue file")
}

func TestMarkReady_PersistsImmediately(t *testing.T) {
	conf := queueConfig(t)
	qs := NewQueueService(conf, &testutil.MockLogger{})

	require.NoError(t, qs.MarkReady("blog/a.md", "final pass"))

	data, err := os.ReadFile(filepath.Join(conf.Vault.Path, ".dispatch", "queue.json"))
	require.NoError(t, err)

	var onDisk models.PublishQueue
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, []string{"blog/a.md"}, onDisk.Ready)
	assert.Equal(t, "final pass", onDisk.Notes["blog/a.md"])
	assert.False(t, onDisk.UpdatedAt.IsZero())
}

func TestQueueService_LoadsExistingFile(t *testing.T) {
	conf := queueConfig(t)

	first := NewQueueService(conf, &testutil.MockLogger{})
	require.NoError(t, first.MarkReady("blog/2024/a.md", "final pass"))

	second := NewQueueService(conf, &testutil.MockLogger{})
	assert.True(t, second.IsReady("blog/2024/a.md"))
	assert.Equal(t, "final pass", second.Queue().Notes["blog/2024/a.md"])
}

func TestQueueService_CorruptFileStartsEmpty(t *testing.T) {
	conf := queueConfig(t)
	dir := filepath.Join(conf.Vault.Path, ".dispatch")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "queue.json"), []byte("not json"), 0o644))

	qs := NewQueueService(conf, &testutil.MockLogger{})
	assert.Empty(t, qs.Queue().Ready)
}

func TestQueueService_PrunesOrphanNotesOnLoad(t *testing.T) {
	conf := queueConfig(t)
	dir := filepath.Join(conf.Vault.Path, ".dispatch")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	raw := `{"updated_at":"2024-01-02T15:04:05Z","ready":["blog/a.md"],"notes":{"blog/a.md":"keep","blog/gone.md":"orphan"}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "queue.json"), []byte(raw), 0o644))

	qs := NewQueueService(conf, &testutil.MockLogger{})
	q := qs.Queue()
	assert.Equal(t, []string{"blog/a.md"}, q.Ready)
	assert.Equal(t, map[string]string{"blog/a.md": "keep"}, q.Notes)
}

func TestIsReady(t *testing.T) {
	conf := queueConfig(t)
	qs := NewQueueService(conf, &testutil.MockLogger{})

	require.NoError(t, qs.MarkReady("blog/a.md", ""))
	assert.True(t, qs.IsReady("blog/a.md"))
	assert.False(t, qs.IsReady("blog/b.md"))
}
