package keys

import "unicode"

type usKey struct {
	code    Keycode
	vk      VirtualKey
	normal  rune
	shifted rune
}

// usLayout is the US-QWERTY main block plus the keypad.
var usLayout = []usKey{
	{Code1, VK0 + 1, '1', '!'},
	{Code2, VK0 + 2, '2', '@'},
	{Code3, VK0 + 3, '3', '#'},
	{Code4, VK0 + 4, '4', '$'},
	{Code5, VK0 + 5, '5', '%'},
	{Code6, VK0 + 6, '6', '^'},
	{Code7, VK0 + 7, '7', '&'},
	{Code8, VK0 + 8, '8', '*'},
	{Code9, VK0 + 9, '9', '('},
	{Code0, VK0, '0', ')'},
	{CodeMinus, VKOemMinus, '-', '_'},
	{CodeEqual, VKOemPlus, '=', '+'},
	{CodeQ, VKA + 'Q' - 'A', 'q', 'Q'},
	{CodeW, VKA + 'W' - 'A', 'w', 'W'},
	{CodeE, VKA + 'E' - 'A', 'e', 'E'},
	{CodeR, VKA + 'R' - 'A', 'r', 'R'},
	{CodeT, VKA + 'T' - 'A', 't', 'T'},
	{CodeY, VKA + 'Y' - 'A', 'y', 'Y'},
	{CodeU, VKA + 'U' - 'A', 'u', 'U'},
	{CodeI, VKA + 'I' - 'A', 'i', 'I'},
	{CodeO, VKA + 'O' - 'A', 'o', 'O'},
	{CodeP, VKA + 'P' - 'A', 'p', 'P'},
	{CodeLeftBrace, VKOem4, '[', '{'},
	{CodeRightBrace, VKOem6, ']', '}'},
	{CodeA, VKA, 'a', 'A'},
	{CodeS, VKA + 'S' - 'A', 's', 'S'},
	{CodeD, VKA + 'D' - 'A', 'd', 'D'},
	{CodeF, VKA + 'F' - 'A', 'f', 'F'},
	{CodeG, VKA + 'G' - 'A', 'g', 'G'},
	{CodeH, VKA + 'H' - 'A', 'h', 'H'},
	{CodeJ, VKA + 'J' - 'A', 'j', 'J'},
	{CodeK, VKA + 'K' - 'A', 'k', 'K'},
	{CodeL, VKA + 'L' - 'A', 'l', 'L'},
	{CodeSemicolon, VKOem1, ';', ':'},
	{CodeApostrophe, VKOem7, '\'', '"'},
	{CodeGrave, VKOem3, '`', '~'},
	{CodeBackslash, VKOem5, '\\', '|'},
	{CodeZ, VKA + 'Z' - 'A', 'z', 'Z'},
	{CodeX, VKA + 'X' - 'A', 'x', 'X'},
	{CodeC, VKA + 'C' - 'A', 'c', 'C'},
	{CodeV, VKA + 'V' - 'A', 'v', 'V'},
	{CodeB, VKA + 'B' - 'A', 'b', 'B'},
	{CodeN, VKA + 'N' - 'A', 'n', 'N'},
	{CodeM, VKA + 'M' - 'A', 'm', 'M'},
	{CodeComma, VKOemComma, ',', '<'},
	{CodeDot, VKOemDot, '.', '>'},
	{CodeSlash, VKOem2, '/', '?'},
	{CodeSpace, VKSpace, ' ', ' '},
	{CodeKPAsterisk, VKMultiply, '*', '*'},
	{CodeKPMinus, VKSubtract, '-', '-'},
	{CodeKPPlus, VKAdd, '+', '+'},
	{CodeKPSlash, VKDivide, '/', '/'},
}

// usKeypad holds keys that only type with NumLock on.
var usKeypad = []usKey{
	{CodeKP0, VKNumpad0, '0', 0},
	{CodeKP1, VKNumpad0 + 1, '1', 0},
	{CodeKP2, VKNumpad0 + 2, '2', 0},
	{CodeKP3, VKNumpad0 + 3, '3', 0},
	{CodeKP4, VKNumpad0 + 4, '4', 0},
	{CodeKP5, VKNumpad0 + 5, '5', 0},
	{CodeKP6, VKNumpad0 + 6, '6', 0},
	{CodeKP7, VKNumpad0 + 7, '7', 0},
	{CodeKP8, VKNumpad0 + 8, '8', 0},
	{CodeKP9, VKNumpad0 + 9, '9', 0},
	{CodeKPDot, VKDecimal, '.', 0},
}

var (
	usByVK       = map[VirtualKey]usKey{}
	usByRune     = map[rune]usKey{}
	usKeypadByVK = map[VirtualKey]usKey{}
)

func init() {
	for _, k := range usLayout {
		usByVK[k.vk] = k
		if _, ok := usByRune[k.normal]; !ok {
			usByRune[k.normal] = k
		}
		if _, ok := usByRune[k.shifted]; !ok {
			usByRune[k.shifted] = k
		}
	}
	for _, k := range usKeypad {
		usKeypadByVK[k.vk] = k
	}
}

// USTranslator translates keys as the US-QWERTY layout does. CapsLock
// affects letters only; Control, when left in the state, yields the ASCII
// control code the way the host's own translation would.
type USTranslator struct{}

func (USTranslator) ToUnicode(vk VirtualKey, sc Scancode, state *KeyState) rune {
	if k, ok := usKeypadByVK[vk]; ok {
		if state.Toggled(VKNumLock) {
			return k.normal
		}
		return 0
	}
	k, ok := usByVK[vk]
	if !ok {
		switch vk {
		case VKReturn:
			return '\r'
		case VKTab:
			return '\t'
		case VKBack:
			return '\b'
		case VKEscape:
			return 0x1b
		}
		return 0
	}
	shift := state.Down(VKShift) || state.Down(VKLShift) || state.Down(VKRShift)
	r := k.normal
	if shift {
		r = k.shifted
	}
	if unicode.IsLetter(r) && state.Toggled(VKCapital) {
		if shift {
			r = unicode.ToLower(r)
		} else {
			r = unicode.ToUpper(r)
		}
	}
	if state.Down(VKControl) || state.Down(VKLControl) || state.Down(VKRControl) {
		if unicode.IsLetter(r) {
			return unicode.ToUpper(r) & 0x1f
		}
		return 0
	}
	return r
}
