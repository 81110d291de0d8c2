package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ejfox/dispatch-obsidian/internal/structures"
	"github.com/ejfox/dispatch-obsidian/internal/testutil"
	"github.com/ejfox/dispatch-obsidian/internal/vault"
)

func postConfig(t *testing.T) *structures.Config {
	t.Helper()
	return &structures.Config{
		Vault: structures.VaultConfig{
			Path:            t.TempDir(),
			PostsFolder:     "blog",
			NoteExt:         ".md",
			TitleKey:        "title",
			DateKey:         "date",
			PublishedURLKey: "url",
			UnlistedKey:     "unlisted",
			PasswordKey:     "password",
		},
	}
}

func writePost(t *testing.T, vaultPath, rel, content string) string {
	t.Helper()
	abs := filepath.Join(vaultPath, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
	return rel
}

func readFields(t *testing.T, vaultPath, rel string) map[string]any {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(vaultPath, filepath.FromSlash(rel)))
	require.NoError(t, err)
	fm, _, had, err := vault.SplitFrontMatter(content)
	require.NoError(t, err)
	require.True(t, had)
	fields, err := vault.ParseFrontMatter(fm)
	require.NoError(t, err)
	return fields
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello World":              "hello-world",
		"  Spaces   everywhere  ":  "spaces-everywhere",
		"Already-hyphenated!":      "already-hyphenated",
		"Ünicode & Symbols (2024)": "ünicode-symbols-2024",
		"Trailing punctuation...":  "trailing-punctuation",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}

func TestCreate_WritesTemplatedPost(t *testing.T) {
	conf := postConfig(t)
	scanner := vault.NewScanner(conf, &testutil.MockLogger{})
	ps := NewPostService(conf, &testutil.MockLogger{}, scanner).(*PostService)
	ps.now = func() time.Time { return time.Date(2024, 6, 15, 10, 0, 0, 0, time.Local) }

	rel, err := ps.Create("My First Post")
	require.NoError(t, err)
	assert.Equal(t, "blog/my-first-post.md", rel)

	content, err := os.ReadFile(filepath.Join(conf.Vault.Path, "blog", "my-first-post.md"))
	require.NoError(t, err)

	fm, body, had, err := vault.SplitFrontMatter(content)
	require.NoError(t, err)
	require.True(t, had)

	fields, err := vault.ParseFrontMatter(fm)
	require.NoError(t, err)
	assert.Equal(t, "My First Post", fields["title"])
	assert.Equal(t, "2024-06-15", fields["date"])
	assert.Equal(t, "my-first-post", fields["slug"])
	assert.Contains(t, string(body), "# My First Post")
}

func TestCreate_EmptyTitleRejected(t *testing.T) {
	conf := postConfig(t)
	scanner := vault.NewScanner(conf, &testutil.MockLogger{})
	ps := NewPostService(conf, &testutil.MockLogger{}, scanner)

	_, err := ps.Create("   ")
	assert.ErrorIs(t, err, ErrTitleRequired)
}

func TestCreate_DuplicateRejectedWithoutOverwrite(t *testing.T) {
	conf := postConfig(t)
	scanner := vault.NewScanner(conf, &testutil.MockLogger{})
	ps := NewPostService(conf, &testutil.MockLogger{}, scanner)

	_, err := ps.Create("Duplicate")
	require.NoError(t, err)

	abs := filepath.Join(conf.Vault.Path, "blog", "duplicate.md")
	before, err := os.ReadFile(abs)
	require.NoError(t, err)

	_, err = ps.Create("Duplicate")
	assert.ErrorIs(t, err, ErrPostExists)

	after, err := os.ReadFile(abs)
	require.NoError(t, err)
	assert.Equal(t, before, after, "existing file must be untouched")
}

func TestToggleVisibility_RoundTripPreservesBody(t *testing.T) {
	conf := postConfig(t)
	scanner := vault.NewScanner(conf, &testutil.MockLogger{})
	ps := NewPostService(conf, &testutil.MockLogger{}, scanner)

	rel := writePost(t, conf.Vault.Path, "blog/post.md",
		"---\ntitle: Post\n---\n\nBody stays *exactly* the same.\n")

	unlisted, err := ps.ToggleVisibility(rel)
	require.NoError(t, err)
	assert.True(t, unlisted)

	content, err := os.ReadFile(filepath.Join(conf.Vault.Path, "blog", "post.md"))
	require.NoError(t, err)
	fm, body, _, err := vault.SplitFrontMatter(content)
	require.NoError(t, err)
	fields, err := vault.ParseFrontMatter(fm)
	require.NoError(t, err)
	assert.Equal(t, true, fields["unlisted"])
	assert.Equal(t, "\nBody stays *exactly* the same.\n", string(body))

	unlisted, err = ps.ToggleVisibility(rel)
	require.NoError(t, err)
	assert.False(t, unlisted)

	content, err = os.ReadFile(filepath.Join(conf.Vault.Path, "blog", "post.md"))
	require.NoError(t, err)
	fm, _, _, err = vault.SplitFrontMatter(content)
	require.NoError(t, err)
	fields, err = vault.ParseFrontMatter(fm)
	require.NoError(t, err)
	_, present := fields["unlisted"]
	assert.False(t, present, "listed posts carry no unlisted key")
}

func TestSetPassword_SetAndRemove(t *testing.T) {
	conf := postConfig(t)
	scanner := vault.NewScanner(conf, &testutil.MockLogger{})
	ps := NewPostService(conf, &testutil.MockLogger{}, scanner)

	rel := writePost(t, conf.Vault.Path, "blog/secret.md", "---\ntitle: Secret\n---\nshh\n")

	require.NoError(t, ps.SetPassword(rel, "hunter2"))
	fields := readFields(t, conf.Vault.Path, rel)
	assert.Equal(t, "hunter2", fields["password"])

	require.NoError(t, ps.SetPassword(rel, ""))
	fields = readFields(t, conf.Vault.Path, rel)
	_, present := fields["password"]
	assert.False(t, present)
}

func TestSetPassword_MissingPost(t *testing.T) {
	conf := postConfig(t)
	scanner := vault.NewScanner(conf, &testutil.MockLogger{})
	ps := NewPostService(conf, &testutil.MockLogger{}, scanner)

	err := ps.SetPassword("blog/nope.md", "pw")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestRandomDraft_SkipsPublished(t *testing.T) {
	conf := postConfig(t)
	scanner := vault.NewScanner(conf, &testutil.MockLogger{})
	ps := NewPostService(conf, &testutil.MockLogger{}, scanner)

	writePost(t, conf.Vault.Path, "blog/live.md", "---\nurl: https://ejfox.com/live\n---\nx\n")
	writePost(t, conf.Vault.Path, "blog/draft.md", "---\ntitle: WIP\n---\nx\n")

	for i := 0; i < 5; i++ {
		path, err := ps.RandomDraft()
		require.NoError(t, err)
		assert.Equal(t, "blog/draft.md", path)
	}
}

func TestRandomDraft_NoDrafts(t *testing.T) {
	conf := postConfig(t)
	scanner := vault.NewScanner(conf, &testutil.MockLogger{})
	ps := NewPostService(conf, &testutil.MockLogger{}, scanner)

	writePost(t, conf.Vault.Path, "blog/live.md", "---\nurl: https://ejfox.com/live\n---\nx\n")

	_, err := ps.RandomDraft()
	assert.ErrorIs(t, err, ErrNoDrafts)
}
