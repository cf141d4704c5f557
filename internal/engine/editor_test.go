package engine

import (
	"testing"

	"github.com/f3rmion/bopo/internal/keys"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultOptions() Options {
	return Options{
		Chinese:          true,
		CandPerPage:      9,
		SelKeys:          []rune("123456789"),
		SpaceAsSelection: true,
		MaxChiSymbolLen:  20,
	}
}

func newTestEditor(t *testing.T, opts Options, phrases PhraseStore) *Editor {
	t.Helper()
	return New(opts, LayoutStandard, KindSimple, Deps{Phrases: phrases, Log: zerolog.Nop()})
}

// typed builds the event a US keyboard produces for r.
func typed(t *testing.T, r rune) keys.Event {
	t.Helper()
	s, ok := keys.StrokeForRune(r)
	require.True(t, ok, "no stroke for %q", r)
	mods := keys.ModNone
	if s.Shift {
		mods = keys.ModShift
	}
	return keys.NewEvent(keys.KeysymFromRune(r), keys.KeycodeFromScancode(s.Scancode), mods)
}

func named(sym keys.Keysym) keys.Event {
	return keys.NewEvent(sym, keys.CodeUnknown, keys.ModNone)
}

func feed(t *testing.T, e *Editor, s string) Behavior {
	t.Helper()
	var b Behavior
	for _, r := range s {
		e.ProcessKeyEvent(typed(t, r))
		b = e.LastKeyBehavior()
	}
	return b
}

func TestZhuyinSymbolsAccumulate(t *testing.T) {
	e := newTestEditor(t, defaultOptions(), nil)

	e.ProcessKeyEvent(typed(t, '5'))
	assert.Equal(t, Absorb, e.LastKeyBehavior())
	e.ProcessKeyEvent(typed(t, 'j'))
	assert.Equal(t, Absorb, e.LastKeyBehavior())

	assert.Equal(t, "ㄓㄨ", e.SyllableBufferDisplay())
	assert.Empty(t, e.Display())
	assert.Empty(t, e.DisplayCommit())

	assert.Equal(t, Absorb, feed(t, e, "/ "))
	assert.Equal(t, "中", e.Display())
	assert.Empty(t, e.SyllableBufferDisplay())
	assert.Equal(t, 1, e.Cursor())
}

func TestToneWithoutSyllable(t *testing.T) {
	e := newTestEditor(t, defaultOptions(), nil)
	assert.Equal(t, KeyError, feed(t, e, "3"))
	assert.Empty(t, e.SyllableBufferDisplay())
}

func TestInvalidSyllableRejected(t *testing.T) {
	e := newTestEditor(t, defaultOptions(), nil)
	// ㄅ alone is not a syllable.
	assert.Equal(t, KeyError, feed(t, e, "1 "))
	assert.Empty(t, e.SyllableBufferDisplay())
	assert.Empty(t, e.Display())
}

func TestEnterCommitsBuffer(t *testing.T) {
	e := newTestEditor(t, defaultOptions(), nil)
	feed(t, e, "5j/ ")

	e.ProcessKeyEvent(named(keys.KeyReturn))
	assert.Equal(t, Commit, e.LastKeyBehavior())
	assert.Equal(t, "中", e.DisplayCommit())
	assert.Empty(t, e.Display())

	e.Ack()
	assert.Empty(t, e.DisplayCommit())
}

func TestEnglishMode(t *testing.T) {
	opts := defaultOptions()
	opts.Chinese = false
	e := newTestEditor(t, opts, nil)

	assert.Equal(t, Commit, feed(t, e, "a"))
	assert.Equal(t, "a", e.DisplayCommit())
	e.Ack()

	e.SetEditorOptions(func(o *Options) { o.Fullwidth = true })
	assert.Equal(t, Commit, feed(t, e, "a"))
	assert.Equal(t, "ａ", e.DisplayCommit())
	e.Ack()

	e.ProcessKeyEvent(named(keys.KeyLeft))
	assert.Equal(t, Ignore, e.LastKeyBehavior())
}

func TestSpaceOnEmptyBuffer(t *testing.T) {
	e := newTestEditor(t, defaultOptions(), nil)
	assert.Equal(t, Ignore, feed(t, e, " "))

	e.SetEditorOptions(func(o *Options) { o.Fullwidth = true })
	assert.Equal(t, Commit, feed(t, e, " "))
	assert.Equal(t, "　", e.DisplayCommit())
}

func TestCandidateSelection(t *testing.T) {
	e := newTestEditor(t, defaultOptions(), nil)
	feed(t, e, "5j/ ")

	assert.Equal(t, Absorb, feed(t, e, " "))
	require.True(t, e.IsSelecting())
	cands := e.PaginatedCandidates()
	require.Greater(t, len(cands), 1)
	assert.Equal(t, "中", cands[0])

	e.Select(1)
	assert.False(t, e.IsSelecting())
	assert.Equal(t, cands[1], e.Display())
	assert.Equal(t, Absorb, e.LastKeyBehavior())
}

func TestSelectionKeys(t *testing.T) {
	e := newTestEditor(t, defaultOptions(), nil)
	feed(t, e, "5j/ ")
	feed(t, e, " ")
	cands := e.PaginatedCandidates()

	assert.Equal(t, Absorb, feed(t, e, "2"))
	assert.False(t, e.IsSelecting())
	assert.Equal(t, cands[1], e.Display())

	feed(t, e, " ")
	require.True(t, e.IsSelecting())
	e.ProcessKeyEvent(named(keys.KeyEscape))
	assert.Equal(t, Absorb, e.LastKeyBehavior())
	assert.False(t, e.IsSelecting())

	feed(t, e, " ")
	assert.Equal(t, KeyError, feed(t, e, "q"))
	assert.True(t, e.IsSelecting())
}

func TestCandidatePaging(t *testing.T) {
	opts := defaultOptions()
	opts.CandPerPage = 2
	e := newTestEditor(t, opts, nil)
	feed(t, e, "5j/ ")
	feed(t, e, " ")

	require.Greater(t, e.TotalPage(), 1)
	assert.Len(t, e.PaginatedCandidates(), 2)
	assert.Equal(t, 0, e.CurrentPageNo())

	feed(t, e, " ")
	assert.Equal(t, 1, e.CurrentPageNo())
	e.ProcessKeyEvent(named(keys.KeyPageUp))
	assert.Equal(t, 0, e.CurrentPageNo())
	e.ProcessKeyEvent(named(keys.KeyPageUp))
	assert.Equal(t, e.TotalPage()-1, e.CurrentPageNo())

	e.Select(5)
	assert.Equal(t, KeyError, e.LastKeyBehavior())
	assert.True(t, e.IsSelecting())
}

func TestBufferEditing(t *testing.T) {
	e := newTestEditor(t, defaultOptions(), nil)
	feed(t, e, "5j/ jp6")
	require.Equal(t, 2, e.Cursor())
	before := e.Display()

	e.ProcessKeyEvent(named(keys.KeyHome))
	assert.Equal(t, 0, e.Cursor())
	e.ProcessKeyEvent(named(keys.KeyRight))
	assert.Equal(t, 1, e.Cursor())
	e.ProcessKeyEvent(named(keys.KeyBackSpace))
	assert.Equal(t, 0, e.Cursor())
	assert.Equal(t, string([]rune(before)[1:]), e.Display())

	e.ProcessKeyEvent(named(keys.KeyDelete))
	assert.Empty(t, e.Display())
	e.ProcessKeyEvent(named(keys.KeyBackSpace))
	assert.Equal(t, Ignore, e.LastKeyBehavior())
}

func TestBackspaceEditsSyllable(t *testing.T) {
	e := newTestEditor(t, defaultOptions(), nil)
	feed(t, e, "5j")
	e.ProcessKeyEvent(named(keys.KeyBackSpace))
	assert.Equal(t, "ㄓ", e.SyllableBufferDisplay())

	e.ProcessKeyEvent(named(keys.KeyEscape))
	assert.Empty(t, e.SyllableBufferDisplay())
}

func TestEscapeClearsBuffer(t *testing.T) {
	opts := defaultOptions()
	e := newTestEditor(t, opts, nil)
	feed(t, e, "5j/ ")
	e.ProcessKeyEvent(named(keys.KeyEscape))
	assert.Equal(t, "中", e.Display())

	e.SetEditorOptions(func(o *Options) { o.EscCleanAllBuffer = true })
	e.ProcessKeyEvent(named(keys.KeyEscape))
	assert.Empty(t, e.Display())
}

func TestBufferOverflowCommits(t *testing.T) {
	opts := defaultOptions()
	opts.MaxChiSymbolLen = 2
	e := newTestEditor(t, opts, nil)
	feed(t, e, "5j/ 5j/ ")
	assert.Empty(t, e.DisplayCommit())

	assert.Equal(t, Commit, feed(t, e, "5j/ "))
	assert.Equal(t, "中", e.DisplayCommit())
	assert.Equal(t, "中中", e.Display())
	assert.Equal(t, 2, e.Cursor())
}

func TestPunctuationInChineseMode(t *testing.T) {
	e := newTestEditor(t, defaultOptions(), nil)
	assert.Equal(t, Absorb, feed(t, e, "<"))
	assert.Equal(t, "，", e.Display())
}

func TestSymbolTable(t *testing.T) {
	e := newTestEditor(t, defaultOptions(), nil)
	assert.Equal(t, Absorb, feed(t, e, "`"))
	require.True(t, e.IsSelecting())
	assert.Equal(t, symbolTable[:9], e.PaginatedCandidates())

	e.Select(0)
	assert.Equal(t, "，", e.Display())
}

func TestEasySymbols(t *testing.T) {
	opts := defaultOptions()
	opts.EasySymbolInput = true
	opts.EasySymbols = map[string]string{"a": "★"}
	e := newTestEditor(t, opts, nil)

	assert.Equal(t, Absorb, feed(t, e, "A"))
	assert.Equal(t, "★", e.Display())
}

func TestHanyuPinyinLayout(t *testing.T) {
	e := New(defaultOptions(), LayoutHanyuPinyin, KindSimple, Deps{Log: zerolog.Nop()})
	assert.Equal(t, Absorb, feed(t, e, "zhong"))
	assert.Equal(t, "zhong", e.SyllableBufferDisplay())
	feed(t, e, "1")
	assert.Equal(t, "中", e.Display())

	assert.Equal(t, KeyError, feed(t, e, "qqq1"))
}

func TestSetSyllableEditorSwitchesLayout(t *testing.T) {
	e := newTestEditor(t, defaultOptions(), nil)
	e.SetSyllableEditor(LayoutHanyuPinyin)
	feed(t, e, "zhong ")
	assert.Equal(t, "中", e.Display())
}

func TestUserPhrases(t *testing.T) {
	store, err := OpenUserPhrases(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	e := newTestEditor(t, defaultOptions(), store)
	// ㄓㄨㄥ ㄨㄣˊ
	feed(t, e, "5j/ jp6")
	require.Equal(t, 2, e.Cursor())
	text := e.Display()

	e.ProcessKeyEvent(keys.NewEvent(keys.Keysym('2'), keys.Code2, keys.ModControl))
	assert.Equal(t, Absorb, e.LastKeyBehavior())
	assert.Contains(t, e.Notification(), text)

	found, err := store.Lookup("zhong1 wen2")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, text, found[0].Phrase)

	e.ProcessKeyEvent(keys.NewEvent(keys.Keysym('3'), keys.Code3, keys.ModControl))
	assert.Equal(t, KeyError, e.LastKeyBehavior())
}

func TestUserPhraseAutoConvert(t *testing.T) {
	store, err := OpenUserPhrases(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Add("忠紋", "zhong1 wen2"))

	e := newTestEditor(t, defaultOptions(), store)
	feed(t, e, "5j/ jp6")
	assert.Equal(t, "忠紋", e.Display())

	feed(t, e, " ")
	require.True(t, e.IsSelecting())
	assert.Equal(t, "忠紋", e.PaginatedCandidates()[0])
}

func TestAddUserPhraseErrors(t *testing.T) {
	e := newTestEditor(t, defaultOptions(), nil)
	feed(t, e, "5j/ 5j/ ")
	assert.ErrorIs(t, e.AddUserPhrase(2), ErrNoPhraseDB)

	store, err := OpenUserPhrases(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	e = newTestEditor(t, defaultOptions(), store)
	feed(t, e, "5j/ <")
	assert.ErrorIs(t, e.AddUserPhrase(3), ErrPhraseLength)
	assert.ErrorIs(t, e.AddUserPhrase(2), ErrNotPhonetic)
}

func TestClearCompositionEditor(t *testing.T) {
	e := newTestEditor(t, defaultOptions(), nil)
	feed(t, e, "5j/  ")
	require.True(t, e.IsSelecting())

	e.ClearCompositionEditor()
	assert.False(t, e.IsSelecting())
	assert.Empty(t, e.Display())
	assert.Equal(t, 0, e.Cursor())
}

func TestBehaviorString(t *testing.T) {
	assert.Equal(t, "ignore", Ignore.String())
	assert.Equal(t, "absorb", Absorb.String())
	assert.Equal(t, "commit", Commit.String())
	assert.Equal(t, "error", KeyError.String())
}
