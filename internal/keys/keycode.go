package keys

// Keycode identifies a physical key position, independent of the active
// keyboard layout. Values are Linux evdev codes, which coincide with PC
// set-1 scancodes for the main block. Phonetic layouts address keys by
// Keycode so they behave the same on QWERTY, AZERTY or Dvorak hardware.
type Keycode uint16

const (
	CodeUnknown    Keycode = 0
	CodeEsc        Keycode = 1
	Code1          Keycode = 2
	Code2          Keycode = 3
	Code3          Keycode = 4
	Code4          Keycode = 5
	Code5          Keycode = 6
	Code6          Keycode = 7
	Code7          Keycode = 8
	Code8          Keycode = 9
	Code9          Keycode = 10
	Code0          Keycode = 11
	CodeMinus      Keycode = 12
	CodeEqual      Keycode = 13
	CodeBackspace  Keycode = 14
	CodeTab        Keycode = 15
	CodeQ          Keycode = 16
	CodeW          Keycode = 17
	CodeE          Keycode = 18
	CodeR          Keycode = 19
	CodeT          Keycode = 20
	CodeY          Keycode = 21
	CodeU          Keycode = 22
	CodeI          Keycode = 23
	CodeO          Keycode = 24
	CodeP          Keycode = 25
	CodeLeftBrace  Keycode = 26
	CodeRightBrace Keycode = 27
	CodeEnter      Keycode = 28
	CodeLeftCtrl   Keycode = 29
	CodeA          Keycode = 30
	CodeS          Keycode = 31
	CodeD          Keycode = 32
	CodeF          Keycode = 33
	CodeG          Keycode = 34
	CodeH          Keycode = 35
	CodeJ          Keycode = 36
	CodeK          Keycode = 37
	CodeL          Keycode = 38
	CodeSemicolon  Keycode = 39
	CodeApostrophe Keycode = 40
	CodeGrave      Keycode = 41
	CodeLeftShift  Keycode = 42
	CodeBackslash  Keycode = 43
	CodeZ          Keycode = 44
	CodeX          Keycode = 45
	CodeC          Keycode = 46
	CodeV          Keycode = 47
	CodeB          Keycode = 48
	CodeN          Keycode = 49
	CodeM          Keycode = 50
	CodeComma      Keycode = 51
	CodeDot        Keycode = 52
	CodeSlash      Keycode = 53
	CodeRightShift Keycode = 54
	CodeKPAsterisk Keycode = 55
	CodeLeftAlt    Keycode = 56
	CodeSpace      Keycode = 57
	CodeCapsLock   Keycode = 58
	CodeF1         Keycode = 59
	CodeF10        Keycode = 68
	CodeNumLock    Keycode = 69
	CodeScrollLock Keycode = 70
	CodeKP7        Keycode = 71
	CodeKP8        Keycode = 72
	CodeKP9        Keycode = 73
	CodeKPMinus    Keycode = 74
	CodeKP4        Keycode = 75
	CodeKP5        Keycode = 76
	CodeKP6        Keycode = 77
	CodeKPPlus     Keycode = 78
	CodeKP1        Keycode = 79
	CodeKP2        Keycode = 80
	CodeKP3        Keycode = 81
	CodeKP0        Keycode = 82
	CodeKPDot      Keycode = 83
	CodeF11        Keycode = 87
	CodeF12        Keycode = 88
	CodeKPEnter    Keycode = 96
	CodeRightCtrl  Keycode = 97
	CodeKPSlash    Keycode = 98
	CodeRightAlt   Keycode = 100
	CodeHome       Keycode = 102
	CodeUp         Keycode = 103
	CodePageUp     Keycode = 104
	CodeLeft       Keycode = 105
	CodeRight      Keycode = 106
	CodeEnd        Keycode = 107
	CodeDown       Keycode = 108
	CodePageDown   Keycode = 109
	CodeInsert     Keycode = 110
	CodeDelete     Keycode = 111
	CodeLeftMeta   Keycode = 125
	CodeRightMeta  Keycode = 126
)

// Scancode is a PC set-1 make code. E0-prefixed keys carry ScancodeExtended.
type Scancode uint16

// ScancodeExtended marks an E0-prefixed scancode.
const ScancodeExtended Scancode = 0x100

// extendedScancodes maps E0-prefixed make codes to keycodes. Everything in
// the main block below 0x59 maps to the keycode with the same value.
var extendedScancodes = map[Scancode]Keycode{
	0x1c: CodeKPEnter,
	0x1d: CodeRightCtrl,
	0x35: CodeKPSlash,
	0x38: CodeRightAlt,
	0x47: CodeHome,
	0x48: CodeUp,
	0x49: CodePageUp,
	0x4b: CodeLeft,
	0x4d: CodeRight,
	0x4f: CodeEnd,
	0x50: CodeDown,
	0x51: CodePageDown,
	0x52: CodeInsert,
	0x53: CodeDelete,
	0x5b: CodeLeftMeta,
	0x5c: CodeRightMeta,
}

// KeycodeFromScancode maps a hardware scancode to its layout-independent
// keycode using a fixed table. Unknown scancodes yield CodeUnknown.
func KeycodeFromScancode(sc Scancode) Keycode {
	if sc&ScancodeExtended != 0 {
		return extendedScancodes[sc&^ScancodeExtended]
	}
	switch {
	case sc >= 0x01 && sc <= 0x53:
		return Keycode(sc)
	case sc == 0x57 || sc == 0x58:
		return Keycode(sc)
	}
	return CodeUnknown
}

// ScancodeFromKeycode is the inverse of KeycodeFromScancode.
func ScancodeFromKeycode(code Keycode) Scancode {
	if (code >= CodeEsc && code <= CodeKPDot) || code == CodeF11 || code == CodeF12 {
		return Scancode(code)
	}
	for sc, c := range extendedScancodes {
		if c == code {
			return sc | ScancodeExtended
		}
	}
	return 0
}
