package engine

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestPhrases(t *testing.T) *UserPhrases {
	t.Helper()
	store, err := OpenUserPhrases(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestUserPhrasesAddLookup(t *testing.T) {
	store := openTestPhrases(t)

	require.NoError(t, store.Add("中文", "zhong1 wen2"))
	require.NoError(t, store.Add("忠紋", "zhong1 wen2"))
	require.NoError(t, store.Add("忠紋", "zhong1 wen2"))

	found, err := store.Lookup("zhong1 wen2")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "忠紋", found[0].Phrase)
	assert.Equal(t, 2, found[0].Freq)
	assert.Equal(t, "中文", found[1].Phrase)

	none, err := store.Lookup("zhong1")
	require.NoError(t, err)
	assert.Empty(t, none)

	assert.ErrorIs(t, store.Add("", "zhong1"), ErrEmptyPhrase)
}

func TestUserPhrasesBump(t *testing.T) {
	store := openTestPhrases(t)
	require.NoError(t, store.Add("中文", "zhong1 wen2"))
	require.NoError(t, store.Bump("中文", "zhong1 wen2"))
	require.NoError(t, store.Bump("英文", "ying1 wen2"))

	found, err := store.Lookup("zhong1 wen2")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, 2, found[0].Freq)

	found, err = store.Lookup("ying1 wen2")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestUserPhrasesRemoveList(t *testing.T) {
	store := openTestPhrases(t)
	require.NoError(t, store.Add("中文", "zhong1 wen2"))
	require.NoError(t, store.Add("好人", "hao3 ren2"))

	all, err := store.List()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "好人", all[0].Phrase)

	removed, err := store.Remove("中文", "")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.Remove("中文", "zhong1 wen2")
	require.NoError(t, err)
	assert.False(t, removed)

	all, err = store.List()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUserPhrasesPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "phrases.db")
	store, err := OpenUserPhrases(path)
	require.NoError(t, err)
	require.NoError(t, store.Add("中文", "zhong1 wen2"))
	require.NoError(t, store.Close())

	store, err = OpenUserPhrases(path)
	require.NoError(t, err)
	defer store.Close()
	found, err := store.Lookup("zhong1 wen2")
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestDefaultPhrasePath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	path, err := DefaultPhrasePath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/data/bopo/phrases.db", path)
}
