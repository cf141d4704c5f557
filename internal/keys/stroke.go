package keys

import (
	"fmt"
	"strings"
)

// Stroke is a synthesized physical key press on a US keyboard: the raw
// virtual key and scancode plus the modifier keys held around it. Hosts
// without real hardware events (the terminal demo, key scripts) build
// Strokes and feed them through the Classifier like real transitions.
type Stroke struct {
	VK       VirtualKey
	Scancode Scancode
	Shift    bool
	Control  bool
	Alt      bool
}

// StrokeForRune returns the stroke that types r on a US keyboard.
func StrokeForRune(r rune) (Stroke, bool) {
	k, ok := usByRune[r]
	if !ok {
		return Stroke{}, false
	}
	return Stroke{
		VK:       k.vk,
		Scancode: ScancodeFromKeycode(k.code),
		Shift:    r == k.shifted && r != k.normal,
	}, true
}

// ParseStroke parses a key script token such as "a", "A", "space",
// "ctrl+3" or "shift". Modifier names work as in ParseBinding.
func ParseStroke(s string) (Stroke, error) {
	if s == "" {
		return Stroke{}, fmt.Errorf("empty key")
	}
	if s == "+" {
		st, _ := StrokeForRune('+')
		return st, nil
	}
	var st Stroke
	parts := strings.Split(s, "+")
	key := parts[len(parts)-1]
	if key == "" && strings.HasSuffix(s, "++") {
		key = "+"
		parts = parts[:len(parts)-1]
	}
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "ctrl", "control":
			st.Control = true
		case "shift":
			st.Shift = true
		case "alt":
			st.Alt = true
		case "":
		default:
			return Stroke{}, fmt.Errorf("unknown modifier %q in %q", p, s)
		}
	}

	switch strings.ToLower(key) {
	case "shift":
		return Stroke{VK: VKLShift, Scancode: ScancodeFromKeycode(CodeLeftShift)}, nil
	case "ctrl", "control":
		return Stroke{VK: VKLControl, Scancode: ScancodeFromKeycode(CodeLeftCtrl)}, nil
	case "alt":
		return Stroke{VK: VKLMenu, Scancode: ScancodeFromKeycode(CodeLeftAlt)}, nil
	}

	if runes := []rune(key); len(runes) == 1 {
		k, ok := StrokeForRune(runes[0])
		if !ok {
			return Stroke{}, fmt.Errorf("no key types %q", key)
		}
		k.Shift = k.Shift || st.Shift
		k.Control, k.Alt = st.Control, st.Alt
		return k, nil
	}
	nk, ok := keysByName[strings.ToLower(key)]
	if !ok {
		return Stroke{}, fmt.Errorf("unknown key %q", key)
	}
	st.VK = nk.vk
	st.Scancode = ScancodeFromKeycode(nk.code)
	return st, nil
}

// IsModifier reports whether the stroke presses a modifier key alone.
func (s Stroke) IsModifier() bool {
	switch s.VK {
	case VKShift, VKLShift, VKRShift, VKControl, VKLControl, VKRControl,
		VKMenu, VKLMenu, VKRMenu, VKLWin, VKRWin:
		return true
	}
	return false
}

// Down returns the key state while the stroke's key is held, starting from
// base (which carries lock toggles). CapsLock and NumLock presses flip
// their toggle bit on the way down, as keyboards do.
func (s Stroke) Down(base KeyState) KeyState {
	st := base
	if s.Shift {
		st.Press(VKLShift)
	}
	if s.Control {
		st.Press(VKLControl)
	}
	if s.Alt {
		st.Press(VKLMenu)
	}
	if s.VK == VKCapital || s.VK == VKNumLock {
		st.Toggle(s.VK)
	}
	st.Press(s.VK)
	return st
}

// Up returns the key state right after the stroke's key is released while
// its modifiers are still held.
func (s Stroke) Up(down KeyState) KeyState {
	st := down
	st.Release(s.VK)
	return st
}

// Locks returns a copy of st with only the toggle bits kept.
func Locks(st KeyState) KeyState {
	var out KeyState
	out[VKCapital] = st[VKCapital] & keyToggled
	out[VKNumLock] = st[VKNumLock] & keyToggled
	return out
}
