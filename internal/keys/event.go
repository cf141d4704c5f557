// Package keys turns raw key transitions into layout-independent keyboard
// events and matches them against configured key bindings.
package keys

import (
	"fmt"
	"strings"
	"unicode"
)

// Keysym is the logical identity of a key. Values follow the X11 keysym
// space: printable Latin-1 keysyms equal their code point, other Unicode
// characters are 0x01000000|codepoint, and named keys live in 0xff00..0xffff.
type Keysym uint32

// Named keysyms.
const (
	KeyVoid      Keysym = 0xffffff
	KeySpace     Keysym = 0x0020
	KeyBackSpace Keysym = 0xff08
	KeyTab       Keysym = 0xff09
	KeyReturn    Keysym = 0xff0d
	KeyEscape    Keysym = 0xff1b
	KeyHome      Keysym = 0xff50
	KeyLeft      Keysym = 0xff51
	KeyUp        Keysym = 0xff52
	KeyRight     Keysym = 0xff53
	KeyDown      Keysym = 0xff54
	KeyPageUp    Keysym = 0xff55
	KeyPageDown  Keysym = 0xff56
	KeyEnd       Keysym = 0xff57
	KeyInsert    Keysym = 0xff63
	KeyKPEnter   Keysym = 0xff8d
	KeyF1        Keysym = 0xffbe
	KeyF12       Keysym = 0xffc9
	KeyShiftL    Keysym = 0xffe1
	KeyShiftR    Keysym = 0xffe2
	KeyControlL  Keysym = 0xffe3
	KeyControlR  Keysym = 0xffe4
	KeyCapsLock  Keysym = 0xffe5
	KeyAltL      Keysym = 0xffe9
	KeyAltR      Keysym = 0xffea
	KeySuperL    Keysym = 0xffeb
	KeySuperR    Keysym = 0xffec
	KeyNumLock   Keysym = 0xff7f
	KeyDelete    Keysym = 0xffff
)

// KeysymFromRune returns the keysym that produces r.
func KeysymFromRune(r rune) Keysym {
	if r >= 0x20 && r < 0x100 && r != 0x7f {
		return Keysym(r)
	}
	if r > 0xff && r <= unicode.MaxRune {
		return Keysym(0x01000000 | uint32(r))
	}
	return KeyVoid
}

// Rune returns the code point a keysym produces, or 0 for named keys.
func (k Keysym) Rune() rune {
	switch {
	case k >= 0x20 && k < 0x7f, k >= 0xa0 && k < 0x100:
		return rune(k)
	case k&0xff000000 == 0x01000000:
		return rune(k & 0x00ffffff)
	}
	return 0
}

// Modifiers is the modifier bitset carried by an Event.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModControl
	ModAlt
	ModSuper
	ModCapsLock
	ModNumLock
)

// ModNone is the empty modifier set.
const ModNone Modifiers = 0

// bindingMask holds the modifiers a Binding compares.
const bindingMask = ModShift | ModControl | ModAlt | ModSuper

func (m Modifiers) String() string {
	if m == ModNone {
		return "none"
	}
	var parts []string
	for _, n := range []struct {
		mod  Modifiers
		name string
	}{
		{ModControl, "Ctrl"},
		{ModAlt, "Alt"},
		{ModSuper, "Super"},
		{ModShift, "Shift"},
		{ModCapsLock, "CapsLock"},
		{ModNumLock, "NumLock"},
	} {
		if m&n.mod != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "+")
}

// Event is one physical key transition after classification. It is a value
// type with no setters; derive a modified copy with WithKeysym.
type Event struct {
	keysym  Keysym
	keycode Keycode
	mods    Modifiers
}

// NewEvent builds an Event.
func NewEvent(sym Keysym, code Keycode, mods Modifiers) Event {
	return Event{keysym: sym, keycode: code, mods: mods}
}

func (e Event) Keysym() Keysym       { return e.keysym }
func (e Event) Keycode() Keycode     { return e.keycode }
func (e Event) Modifiers() Modifiers { return e.mods }

// Has reports whether every modifier in m is on.
func (e Event) Has(m Modifiers) bool { return e.mods&m == m }

// Rune returns the printable code point of the event, or 0.
func (e Event) Rune() rune { return e.keysym.Rune() }

// IsPrintable reports whether the key produces a printable character.
func (e Event) IsPrintable() bool {
	r := e.Rune()
	return r != 0 && unicode.IsPrint(r)
}

// IsLetter reports whether the key produces an ASCII letter.
func (e Event) IsLetter() bool {
	r := e.Rune()
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// IsDigitKey reports whether the physical key is on the number row.
func (e Event) IsDigitKey() bool {
	return e.keycode >= Code1 && e.keycode <= Code0
}

// IsShift reports whether the event is a Shift key itself.
func (e Event) IsShift() bool {
	return e.keysym == KeyShiftL || e.keysym == KeyShiftR
}

// IsCapsLock reports whether the event is the CapsLock key itself.
func (e Event) IsCapsLock() bool { return e.keysym == KeyCapsLock }

// WithKeysym returns a copy of e carrying sym.
func (e Event) WithKeysym(sym Keysym) Event {
	e.keysym = sym
	return e
}

// InvertCase returns a copy of e with an ASCII letter keysym's case swapped.
func (e Event) InvertCase() Event {
	r := e.Rune()
	switch {
	case r >= 'a' && r <= 'z':
		return e.WithKeysym(Keysym(unicode.ToUpper(r)))
	case r >= 'A' && r <= 'Z':
		return e.WithKeysym(Keysym(unicode.ToLower(r)))
	}
	return e
}

func (e Event) String() string {
	name := KeysymName(e.keysym)
	if e.mods == ModNone {
		return fmt.Sprintf("%s(code=%d)", name, e.keycode)
	}
	return fmt.Sprintf("%s+%s(code=%d)", e.mods, name, e.keycode)
}
