package keys

// VirtualKey is the host's virtual key code (Windows VK_* numbering).
type VirtualKey uint16

const (
	VKBack     VirtualKey = 0x08
	VKTab      VirtualKey = 0x09
	VKReturn   VirtualKey = 0x0d
	VKShift    VirtualKey = 0x10
	VKControl  VirtualKey = 0x11
	VKMenu     VirtualKey = 0x12
	VKCapital  VirtualKey = 0x14
	VKEscape   VirtualKey = 0x1b
	VKSpace    VirtualKey = 0x20
	VKPrior    VirtualKey = 0x21
	VKNext     VirtualKey = 0x22
	VKEnd      VirtualKey = 0x23
	VKHome     VirtualKey = 0x24
	VKLeft     VirtualKey = 0x25
	VKUp       VirtualKey = 0x26
	VKRight    VirtualKey = 0x27
	VKDown     VirtualKey = 0x28
	VKInsert   VirtualKey = 0x2d
	VKDelete   VirtualKey = 0x2e
	VK0        VirtualKey = 0x30
	VKA        VirtualKey = 0x41
	VKLWin     VirtualKey = 0x5b
	VKRWin     VirtualKey = 0x5c
	VKNumpad0  VirtualKey = 0x60
	VKMultiply VirtualKey = 0x6a
	VKAdd      VirtualKey = 0x6b
	VKSubtract VirtualKey = 0x6d
	VKDecimal  VirtualKey = 0x6e
	VKDivide   VirtualKey = 0x6f
	VKF1       VirtualKey = 0x70
	VKF12      VirtualKey = 0x7b
	VKNumLock  VirtualKey = 0x90
	VKLShift   VirtualKey = 0xa0
	VKRShift   VirtualKey = 0xa1
	VKLControl VirtualKey = 0xa2
	VKRControl VirtualKey = 0xa3
	VKLMenu    VirtualKey = 0xa4
	VKRMenu    VirtualKey = 0xa5
	VKOem1     VirtualKey = 0xba // ;:
	VKOemPlus  VirtualKey = 0xbb
	VKOemComma VirtualKey = 0xbc
	VKOemMinus VirtualKey = 0xbd
	VKOemDot   VirtualKey = 0xbe
	VKOem2     VirtualKey = 0xbf // /?
	VKOem3     VirtualKey = 0xc0 // `~
	VKOem4     VirtualKey = 0xdb // [{
	VKOem5     VirtualKey = 0xdc // \|
	VKOem6     VirtualKey = 0xdd // ]}
	VKOem7     VirtualKey = 0xde // '"
)

const (
	keyDown    byte = 0x80
	keyToggled byte = 0x01
)

// KeyState is a snapshot of every virtual key's down and toggle state, in
// the layout of the Win32 GetKeyboardState buffer.
type KeyState [256]byte

// Down reports whether vk is held.
func (s *KeyState) Down(vk VirtualKey) bool { return s[vk]&keyDown != 0 }

// Toggled reports whether vk's toggle (CapsLock, NumLock) is on.
func (s *KeyState) Toggled(vk VirtualKey) bool { return s[vk]&keyToggled != 0 }

// Press marks vk and its generic modifier alias as held.
func (s *KeyState) Press(vk VirtualKey) {
	s[vk] |= keyDown
	if alias, ok := modifierAlias[vk]; ok {
		s[alias] |= keyDown
	}
}

// Release marks vk and its generic modifier alias as released.
func (s *KeyState) Release(vk VirtualKey) {
	s[vk] &^= keyDown
	if alias, ok := modifierAlias[vk]; ok {
		s[alias] &^= keyDown
	}
}

// Toggle flips vk's toggle bit.
func (s *KeyState) Toggle(vk VirtualKey) { s[vk] ^= keyToggled }

var modifierAlias = map[VirtualKey]VirtualKey{
	VKLShift:   VKShift,
	VKRShift:   VKShift,
	VKLControl: VKControl,
	VKRControl: VKControl,
	VKLMenu:    VKMenu,
	VKRMenu:    VKMenu,
}

// Modifiers derives the modifier bitset from the snapshot.
func (s *KeyState) Modifiers() Modifiers {
	var m Modifiers
	if s.Down(VKShift) || s.Down(VKLShift) || s.Down(VKRShift) {
		m |= ModShift
	}
	if s.Down(VKControl) || s.Down(VKLControl) || s.Down(VKRControl) {
		m |= ModControl
	}
	if s.Down(VKMenu) || s.Down(VKLMenu) || s.Down(VKRMenu) {
		m |= ModAlt
	}
	if s.Down(VKLWin) || s.Down(VKRWin) {
		m |= ModSuper
	}
	if s.Toggled(VKCapital) {
		m |= ModCapsLock
	}
	if s.Toggled(VKNumLock) {
		m |= ModNumLock
	}
	return m
}

// Translator is the host's key translation capability: it turns a virtual
// key under a given key state into the character it types, or 0.
type Translator interface {
	ToUnicode(vk VirtualKey, sc Scancode, state *KeyState) rune
}

// Classifier turns raw key transitions into Events. It keeps no state, so
// classifying the same transition twice yields equal events.
type Classifier struct {
	tr Translator
}

// NewClassifier returns a Classifier that derives characters with tr.
func NewClassifier(tr Translator) *Classifier {
	return &Classifier{tr: tr}
}

// Classify builds the Event for one key transition. The character is
// translated with Control masked off so Ctrl+letter keeps its letter
// instead of collapsing to a control code.
func (c *Classifier) Classify(vk VirtualKey, sc Scancode, state KeyState) Event {
	code := KeycodeFromScancode(sc)
	mods := state.Modifiers()

	masked := state
	masked[VKControl] &^= keyDown
	masked[VKLControl] &^= keyDown
	masked[VKRControl] &^= keyDown

	var r rune
	if c.tr != nil {
		r = c.tr.ToUnicode(vk, sc, &masked)
	}
	return NewEvent(keysymFor(vk, code, r), code, mods)
}

func keysymFor(vk VirtualKey, code Keycode, r rune) Keysym {
	switch vk {
	case VKReturn:
		if code == CodeKPEnter {
			return KeyKPEnter
		}
		return KeyReturn
	case VKShift, VKLShift, VKRShift:
		if code == CodeRightShift || vk == VKRShift {
			return KeyShiftR
		}
		return KeyShiftL
	case VKControl, VKLControl, VKRControl:
		if code == CodeRightCtrl || vk == VKRControl {
			return KeyControlR
		}
		return KeyControlL
	case VKMenu, VKLMenu, VKRMenu:
		if code == CodeRightAlt || vk == VKRMenu {
			return KeyAltR
		}
		return KeyAltL
	case VKLWin:
		return KeySuperL
	case VKRWin:
		return KeySuperR
	}
	if sym, ok := namedVK[vk]; ok {
		return sym
	}
	if vk >= VKF1 && vk <= VKF12 {
		return KeyF1 + Keysym(vk-VKF1)
	}
	if r >= 0x20 && r != 0x7f {
		return KeysymFromRune(r)
	}
	return KeyVoid
}

var namedVK = map[VirtualKey]Keysym{
	VKBack:    KeyBackSpace,
	VKTab:     KeyTab,
	VKEscape:  KeyEscape,
	VKPrior:   KeyPageUp,
	VKNext:    KeyPageDown,
	VKEnd:     KeyEnd,
	VKHome:    KeyHome,
	VKLeft:    KeyLeft,
	VKUp:      KeyUp,
	VKRight:   KeyRight,
	VKDown:    KeyDown,
	VKInsert:  KeyInsert,
	VKDelete:  KeyDelete,
	VKCapital: KeyCapsLock,
	VKNumLock: KeyNumLock,
}
