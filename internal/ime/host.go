// Package ime is the input method core. A Coordinator turns classified key
// events into engine calls, candidate window updates and host composition
// edits, following the host's two-phase (test, then commit) key protocol.
package ime

import (
	"errors"

	"github.com/f3rmion/bopo/internal/config"
)

var (
	// ErrNoComposition is returned by hosts for range operations on a
	// composition that has already ended.
	ErrNoComposition = errors.New("no composition")
	// ErrReadOnly is returned by hosts that refuse a read-write session.
	ErrReadOnly = errors.New("document is read-only")
	// ErrReentrant is returned by hosts that refuse a nested edit session.
	ErrReentrant = errors.New("edit session already active")
)

// EditMode is the access an edit session is granted.
type EditMode int

const (
	ReadOnly EditMode = iota
	ReadWrite
)

func (m EditMode) String() string {
	if m == ReadWrite {
		return "read_write"
	}
	return "read_only"
}

// Anchor names an end of a TextRange.
type Anchor int

const (
	AnchorStart Anchor = iota
	AnchorEnd
)

// DocumentStatus flags are queried before each test-phase decision.
type DocumentStatus uint8

const (
	StatusReadOnly DocumentStatus = 1 << iota
	StatusEmptyContext
	StatusKeyboardDisabled
)

// Rect is a screen rectangle in host units.
type Rect struct {
	X, Y, W, H int
}

// TextRange is a span of the host document. Offsets count runes.
type TextRange interface {
	Text() (string, error)
	SetText(text string) error
	Collapse(a Anchor)
	// ShiftStart and ShiftEnd move an end by n runes, clamped to the
	// document, and return how far it moved.
	ShiftStart(n int) int
	ShiftEnd(n int) int
	Clone() TextRange
	SetDisplayAttribute() error
	ClearDisplayAttribute() error
}

// Composition is a host-tracked in-progress span.
type Composition interface {
	Range() TextRange
	End() error
}

// EditSession grants exclusive access to the document for the duration of
// one RequestEditSession callback.
type EditSession interface {
	Selection() (TextRange, error)
	SetSelection(r TextRange) error
	StartComposition(r TextRange) (Composition, error)
	TextRect(r TextRange) (Rect, error)
}

// Host is the document-editing surface. RequestEditSession runs fn
// synchronously and may call back into the Coordinator before returning.
type Host interface {
	RequestEditSession(mode EditMode, fn func(EditSession) error) error
	Status() DocumentStatus
}

// Language is the interpretation of printable keys.
type Language int

const (
	Chinese Language = iota
	English
)

func (l Language) String() string {
	if l == English {
		return "英"
	}
	return "中"
}

// Shape is the character width of symbols and Latin letters.
type Shape int

const (
	HalfWidth Shape = iota
	FullWidth
)

func (s Shape) String() string {
	if s == FullWidth {
		return "全"
	}
	return "半"
}

// Indicator shows the current modes, e.g. on a language bar button.
type Indicator interface {
	SetModes(Language, Shape)
}

// Notifier shows short transient messages.
type Notifier interface {
	Notify(text string)
}

// OptionsSource is the config store as seen by the input method.
// Changed is polled once per key pass.
type OptionsSource interface {
	Load() (config.Options, error)
	Changed() bool
}

type nopIndicator struct{}

func (nopIndicator) SetModes(Language, Shape) {}

type nopNotifier struct{}

func (nopNotifier) Notify(string) {}
