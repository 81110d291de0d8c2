package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitFrontMatter_Basic(t *testing.T) {
	content := []byte("---\ntitle: Hello\ndate: 2024-06-15\n---\n\n# Hello\n")
	fm, body, had, err := SplitFrontMatter(content)
	require.NoError(t, err)
	assert.True(t, had)
	assert.Equal(t, "title: Hello\ndate: 2024-06-15\n", string(fm))
	assert.Equal(t, "\n# Hello\n", string(body))
}

func TestSplitFrontMatter_NoBlock(t *testing.T) {
	content := []byte("# Just a note\n")
	fm, body, had, err := SplitFrontMatter(content)
	require.NoError(t, err)
	assert.False(t, had)
	assert.Nil(t, fm)
	assert.Equal(t, content, body)
}

func TestSplitFrontMatter_EmptyBlock(t *testing.T) {
	content := []byte("---\n---\nbody\n")
	fm, body, had, err := SplitFrontMatter(content)
	require.NoError(t, err)
	assert.True(t, had)
	assert.Empty(t, fm)
	assert.Equal(t, "body\n", string(body))
}

func TestSplitFrontMatter_DelimiterAtEOF(t *testing.T) {
	content := []byte("---\ntitle: X\n---")
	fm, body, had, err := SplitFrontMatter(content)
	require.NoError(t, err)
	assert.True(t, had)
	assert.Equal(t, "title: X\n", string(fm))
	assert.Empty(t, body)
}

func TestSplitFrontMatter_Unclosed(t *testing.T) {
	_, _, _, err := SplitFrontMatter([]byte("---\ntitle: X\nno end\n"))
	assert.ErrorIs(t, err, ErrMissingClosingDelimiter)
}

func TestSplitFrontMatter_HorizontalRuleInBody(t *testing.T) {
	// A later --- belongs to the body once the block is closed.
	content := []byte("---\ntitle: X\n---\nintro\n\n---\n\noutro\n")
	fm, body, had, err := SplitFrontMatter(content)
	require.NoError(t, err)
	assert.True(t, had)
	assert.Equal(t, "title: X\n", string(fm))
	assert.Equal(t, "intro\n\n---\n\noutro\n", string(body))
}

func TestJoinFrontMatter_RoundTrip(t *testing.T) {
	content := []byte("---\ntitle: Hello\n---\nbody text\n")
	fm, body, had, err := SplitFrontMatter(content)
	require.NoError(t, err)
	assert.Equal(t, content, JoinFrontMatter(fm, body, had))
}

func TestJoinFrontMatter_NoBlockPassesBodyThrough(t *testing.T) {
	body := []byte("plain note\n")
	assert.Equal(t, body, JoinFrontMatter(nil, body, false))
}

func TestParseFrontMatter_TypedValues(t *testing.T) {
	fields, err := ParseFrontMatter([]byte("title: Hello\nunlisted: true\nwords: 120\n"))
	require.NoError(t, err)
	assert.Equal(t, "Hello", fields["title"])
	assert.Equal(t, true, fields["unlisted"])
	assert.Equal(t, 120, fields["words"])
}

func TestParseFrontMatter_EmptyNeverNil(t *testing.T) {
	fields, err := ParseFrontMatter(nil)
	require.NoError(t, err)
	require.NotNil(t, fields)
	assert.Empty(t, fields)
}

func TestParseFrontMatter_Invalid(t *testing.T) {
	_, err := ParseFrontMatter([]byte("title: [unclosed\n"))
	assert.Error(t, err)
}

func TestSerializeFrontMatter_SortedAndStable(t *testing.T) {
	fields := map[string]any{"title": "Hello", "date": "2024-06-15", "unlisted": true}

	first, err := SerializeFrontMatter(fields)
	require.NoError(t, err)
	second, err := SerializeFrontMatter(fields)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, "date: \"2024-06-15\"\ntitle: Hello\nunlisted: true\n", string(first))
}

func TestSerializeFrontMatter_Empty(t *testing.T) {
	out, err := SerializeFrontMatter(map[string]any{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSerializeParse_RoundTrip(t *testing.T) {
	in := map[string]any{"title": "Round trip", "count": 3}
	raw, err := SerializeFrontMatter(in)
	require.NoError(t, err)
	out, err := ParseFrontMatter(raw)
	require.NoError(t, err)
	assert.Equal(t, "Round trip", out["title"])
	assert.Equal(t, 3, out["count"])
}
