package keys

import (
	"fmt"
	"strings"
)

type namedKey struct {
	names []string
	vk    VirtualKey
	code  Keycode
	sym   Keysym
}

var namedKeys = []namedKey{
	{[]string{"space", "spc"}, VKSpace, CodeSpace, KeySpace},
	{[]string{"enter", "return", "ret"}, VKReturn, CodeEnter, KeyReturn},
	{[]string{"tab"}, VKTab, CodeTab, KeyTab},
	{[]string{"esc", "escape"}, VKEscape, CodeEsc, KeyEscape},
	{[]string{"backspace", "bs"}, VKBack, CodeBackspace, KeyBackSpace},
	{[]string{"delete", "del"}, VKDelete, CodeDelete, KeyDelete},
	{[]string{"insert", "ins"}, VKInsert, CodeInsert, KeyInsert},
	{[]string{"home"}, VKHome, CodeHome, KeyHome},
	{[]string{"end"}, VKEnd, CodeEnd, KeyEnd},
	{[]string{"pageup", "pgup"}, VKPrior, CodePageUp, KeyPageUp},
	{[]string{"pagedown", "pgdn"}, VKNext, CodePageDown, KeyPageDown},
	{[]string{"left"}, VKLeft, CodeLeft, KeyLeft},
	{[]string{"right"}, VKRight, CodeRight, KeyRight},
	{[]string{"up"}, VKUp, CodeUp, KeyUp},
	{[]string{"down"}, VKDown, CodeDown, KeyDown},
	{[]string{"capslock", "caps"}, VKCapital, CodeCapsLock, KeyCapsLock},
	{[]string{"numlock"}, VKNumLock, CodeNumLock, KeyNumLock},
	{[]string{"lshift"}, VKLShift, CodeLeftShift, KeyShiftL},
	{[]string{"rshift"}, VKRShift, CodeRightShift, KeyShiftR},
	{[]string{"lctrl"}, VKLControl, CodeLeftCtrl, KeyControlL},
	{[]string{"rctrl"}, VKRControl, CodeRightCtrl, KeyControlR},
	{[]string{"lalt"}, VKLMenu, CodeLeftAlt, KeyAltL},
	{[]string{"ralt"}, VKRMenu, CodeRightAlt, KeyAltR},
	{[]string{"lwin", "lsuper"}, VKLWin, CodeLeftMeta, KeySuperL},
	{[]string{"rwin", "rsuper"}, VKRWin, CodeRightMeta, KeySuperR},
	{[]string{"plus"}, VKOemPlus, CodeEqual, Keysym('+')},
}

var keysByName = map[string]namedKey{}

func init() {
	for _, k := range namedKeys {
		for _, n := range k.names {
			keysByName[n] = k
		}
	}
	fcodes := []Keycode{CodeF1, CodeF1 + 1, CodeF1 + 2, CodeF1 + 3, CodeF1 + 4,
		CodeF1 + 5, CodeF1 + 6, CodeF1 + 7, CodeF1 + 8, CodeF10, CodeF11, CodeF12}
	for i, code := range fcodes {
		keysByName[fmt.Sprintf("f%d", i+1)] = namedKey{
			vk:   VKF1 + VirtualKey(i),
			code: code,
			sym:  KeyF1 + Keysym(i),
		}
	}
}

// KeysymName returns a readable name for sym.
func KeysymName(sym Keysym) string {
	if r := sym.Rune(); r != 0 {
		if r == ' ' {
			return "Space"
		}
		return string(r)
	}
	for _, k := range namedKeys {
		if k.sym == sym {
			return strings.ToUpper(k.names[0][:1]) + k.names[0][1:]
		}
	}
	if sym >= KeyF1 && sym <= KeyF12 {
		return fmt.Sprintf("F%d", sym-KeyF1+1)
	}
	switch sym {
	case KeyKPEnter:
		return "KP_Enter"
	case KeyVoid:
		return "VoidSymbol"
	}
	return fmt.Sprintf("0x%x", uint32(sym))
}
