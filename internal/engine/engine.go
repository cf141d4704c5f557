// Package engine is bopo's phonetic conversion engine: a syllable editor
// that turns key presses into Zhuyin or pinyin syllables, and a composition
// buffer that converts syllables into characters and phrases.
package engine

import (
	"fmt"

	"github.com/f3rmion/bopo/internal/keys"
)

// Behavior is the outcome of the last key handed to the engine.
type Behavior int

const (
	// Ignore means the engine did not use the key.
	Ignore Behavior = iota
	// Absorb means the key changed the buffer or selection.
	Absorb
	// Commit means text is waiting in DisplayCommit.
	Commit
	// KeyError means the key was consumed but rejected.
	KeyError
)

func (b Behavior) String() string {
	switch b {
	case Absorb:
		return "absorb"
	case Commit:
		return "commit"
	case KeyError:
		return "error"
	}
	return "ignore"
}

// Layout selects the syllable editor.
type Layout int

const (
	LayoutStandard Layout = iota
	LayoutHanyuPinyin
)

// ParseLayout maps a config name to a Layout.
func ParseLayout(s string) (Layout, error) {
	switch s {
	case "standard", "":
		return LayoutStandard, nil
	case "hanyu_pinyin", "pinyin":
		return LayoutHanyuPinyin, nil
	}
	return LayoutStandard, fmt.Errorf("unknown keyboard layout %q", s)
}

// Kind selects how syllables are matched against the index.
type Kind int

const (
	// KindSimple matches syllables with their exact tone.
	KindSimple Kind = iota
	// KindFuzzy ignores tones, ranking exact-tone matches first.
	KindFuzzy
)

// ParseKind maps a config name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "simple", "":
		return KindSimple, nil
	case "fuzzy":
		return KindFuzzy, nil
	}
	return KindSimple, fmt.Errorf("unknown conversion engine %q", s)
}

// Options are the editor options the input method pushes before each key.
type Options struct {
	Chinese           bool
	Fullwidth         bool
	EasySymbolInput   bool
	CandPerPage       int
	SelKeys           []rune
	SpaceAsSelection  bool
	EscCleanAllBuffer bool
	AutoShiftCursor   bool
	AddPhraseForward  bool
	MaxChiSymbolLen   int
	EasySymbols       map[string]string
}

// Engine is the conversion engine contract the input method drives.
type Engine interface {
	ProcessKeyEvent(ev keys.Event)
	LastKeyBehavior() Behavior

	Display() string
	DisplayCommit() string
	SyllableBufferDisplay() string
	Cursor() int
	Notification() string

	IsSelecting() bool
	PaginatedCandidates() []string
	TotalPage() int
	CurrentPageNo() int
	Select(index int)
	CancelSelecting()
	OpenSymbolTable()

	Ack()
	AddUserPhrase(length int) error

	SetEditorOptions(fn func(*Options))
	SetSyllableEditor(layout Layout)
	SetConversionEngine(kind Kind)
	ClearSyllableEditor()
	ClearCompositionEditor()
}
