package engine

import (
	"strings"

	"github.com/f3rmion/bopo/internal/keys"
	"github.com/f3rmion/bopo/internal/pinyin"
)

type syllableResult int

const (
	keyNotMine syllableResult = iota
	keyAbsorbed
	keyCompleted
	keyRejected
)

// syllableEditor assembles one syllable from key presses.
type syllableEditor interface {
	key(ev keys.Event) syllableResult
	backspace()
	clear()
	empty() bool
	display() string
	// syllable returns the completed syllable after keyCompleted.
	syllable() (base string, tone pinyin.Tone)
}

func newSyllableEditor(l Layout) syllableEditor {
	if l == LayoutHanyuPinyin {
		return &pinyinEditor{}
	}
	return &zhuyinEditor{}
}

// standardLayout is the Dai-Chien Zhuyin keyboard, by physical key.
var standardLayout = map[keys.Keycode]rune{
	keys.Code1: 'ㄅ', keys.Code2: 'ㄉ', keys.Code3: pinyin.MarkTone3, keys.Code4: pinyin.MarkTone4,
	keys.Code5: 'ㄓ', keys.Code6: pinyin.MarkTone2, keys.Code7: pinyin.MarkTone5, keys.Code8: 'ㄚ',
	keys.Code9: 'ㄞ', keys.Code0: 'ㄢ', keys.CodeMinus: 'ㄦ',

	keys.CodeQ: 'ㄆ', keys.CodeW: 'ㄊ', keys.CodeE: 'ㄍ', keys.CodeR: 'ㄐ', keys.CodeT: 'ㄔ',
	keys.CodeY: 'ㄗ', keys.CodeU: 'ㄧ', keys.CodeI: 'ㄛ', keys.CodeO: 'ㄟ', keys.CodeP: 'ㄣ',

	keys.CodeA: 'ㄇ', keys.CodeS: 'ㄋ', keys.CodeD: 'ㄎ', keys.CodeF: 'ㄑ', keys.CodeG: 'ㄕ',
	keys.CodeH: 'ㄘ', keys.CodeJ: 'ㄨ', keys.CodeK: 'ㄜ', keys.CodeL: 'ㄠ', keys.CodeSemicolon: 'ㄤ',

	keys.CodeZ: 'ㄈ', keys.CodeX: 'ㄌ', keys.CodeC: 'ㄏ', keys.CodeV: 'ㄒ', keys.CodeB: 'ㄖ',
	keys.CodeN: 'ㄙ', keys.CodeM: 'ㄩ', keys.CodeComma: 'ㄝ', keys.CodeDot: 'ㄡ', keys.CodeSlash: 'ㄥ',
}

// StandardSymbol returns the Zhuyin symbol on a physical key.
func StandardSymbol(code keys.Keycode) (rune, bool) {
	r, ok := standardLayout[code]
	return r, ok
}

const typingMods = keys.ModShift | keys.ModControl | keys.ModAlt | keys.ModSuper

type zhuyinEditor struct {
	z pinyin.ZhuyinSyllable
}

func (e *zhuyinEditor) key(ev keys.Event) syllableResult {
	if ev.Modifiers()&typingMods != 0 {
		return keyNotMine
	}
	var r rune
	if ev.Keysym() == keys.KeySpace {
		if e.empty() {
			return keyNotMine
		}
		r = ' '
	} else {
		var ok bool
		if r, ok = standardLayout[ev.Keycode()]; !ok {
			return keyNotMine
		}
	}

	if tone := pinyin.ToneFromMark(r); tone != pinyin.ToneUnknown {
		if e.empty() {
			return keyRejected
		}
		e.z.Tone = tone
		if e.z.Pinyin() == "" {
			e.clear()
			return keyRejected
		}
		return keyCompleted
	}

	switch pinyin.ZhuyinClass(r) {
	case 1:
		e.z.Initial = r
	case 2:
		e.z.Medial = r
	case 3:
		e.z.Final = r
	}
	return keyAbsorbed
}

func (e *zhuyinEditor) backspace() {
	switch {
	case e.z.Final != 0:
		e.z.Final = 0
	case e.z.Medial != 0:
		e.z.Medial = 0
	default:
		e.z.Initial = 0
	}
	e.z.Tone = pinyin.ToneUnknown
}

func (e *zhuyinEditor) clear()          { e.z = pinyin.ZhuyinSyllable{} }
func (e *zhuyinEditor) empty() bool     { return e.z.Empty() }
func (e *zhuyinEditor) display() string { return e.z.String() }

func (e *zhuyinEditor) syllable() (string, pinyin.Tone) {
	base, tone := e.z.Pinyin(), e.z.Tone
	return base, tone
}

const maxPinyinLen = 6

type pinyinEditor struct {
	letters []rune
	tone    pinyin.Tone
}

func (e *pinyinEditor) key(ev keys.Event) syllableResult {
	if ev.Modifiers()&(keys.ModControl|keys.ModAlt|keys.ModSuper|keys.ModShift) != 0 {
		return keyNotMine
	}
	r := ev.Rune()
	switch {
	case r >= 'a' && r <= 'z':
		if len(e.letters) >= maxPinyinLen {
			return keyRejected
		}
		e.letters = append(e.letters, r)
		return keyAbsorbed
	case r >= '1' && r <= '5', r == ' ':
		if e.empty() {
			return keyNotMine
		}
		e.tone = pinyin.Tone1
		if r != ' ' {
			e.tone = pinyin.Tone(r - '0')
		}
		if !pinyin.ValidPinyin(e.base()) {
			e.clear()
			return keyRejected
		}
		return keyCompleted
	}
	return keyNotMine
}

func (e *pinyinEditor) base() string {
	return strings.ReplaceAll(string(e.letters), "v", "ü")
}

func (e *pinyinEditor) backspace() {
	if len(e.letters) > 0 {
		e.letters = e.letters[:len(e.letters)-1]
	}
	e.tone = pinyin.ToneUnknown
}

func (e *pinyinEditor) clear() {
	e.letters = nil
	e.tone = pinyin.ToneUnknown
}

func (e *pinyinEditor) empty() bool     { return len(e.letters) == 0 }
func (e *pinyinEditor) display() string { return string(e.letters) }

func (e *pinyinEditor) syllable() (string, pinyin.Tone) {
	return e.base(), e.tone
}
