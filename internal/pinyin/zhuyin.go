package pinyin

import "strings"

// Zhuyin symbol classes. A syllable is at most one of each, in order.
var (
	zhuyinInitials = []rune("ㄅㄆㄇㄈㄉㄊㄋㄌㄍㄎㄏㄐㄑㄒㄓㄔㄕㄖㄗㄘㄙ")
	zhuyinMedials  = []rune("ㄧㄨㄩ")
	zhuyinFinals   = []rune("ㄚㄛㄜㄝㄞㄟㄠㄡㄢㄣㄤㄥㄦ")
)

// Zhuyin tone marks. The first tone is unmarked.
const (
	MarkTone2 = 'ˊ'
	MarkTone3 = 'ˇ'
	MarkTone4 = 'ˋ'
	MarkTone5 = '˙'
)

var initialSpelling = map[rune]string{
	'ㄅ': "b", 'ㄆ': "p", 'ㄇ': "m", 'ㄈ': "f", 'ㄉ': "d", 'ㄊ': "t", 'ㄋ': "n",
	'ㄌ': "l", 'ㄍ': "g", 'ㄎ': "k", 'ㄏ': "h", 'ㄐ': "j", 'ㄑ': "q", 'ㄒ': "x",
	'ㄓ': "zh", 'ㄔ': "ch", 'ㄕ': "sh", 'ㄖ': "r", 'ㄗ': "z", 'ㄘ': "c", 'ㄙ': "s",
}

var finalSpelling = map[rune]string{
	'ㄚ': "a", 'ㄛ': "o", 'ㄜ': "e", 'ㄝ': "ê", 'ㄞ': "ai", 'ㄟ': "ei", 'ㄠ': "ao",
	'ㄡ': "ou", 'ㄢ': "an", 'ㄣ': "en", 'ㄤ': "ang", 'ㄥ': "eng", 'ㄦ': "er",
}

// rhyme spellings after a consonant, keyed by medial then final (0 = none)
var medialRhymes = map[rune]map[rune]string{
	'ㄧ': {0: "i", 'ㄚ': "ia", 'ㄛ': "io", 'ㄝ': "ie", 'ㄞ': "iai", 'ㄠ': "iao",
		'ㄡ': "iu", 'ㄢ': "ian", 'ㄣ': "in", 'ㄤ': "iang", 'ㄥ': "ing"},
	'ㄨ': {0: "u", 'ㄚ': "ua", 'ㄛ': "uo", 'ㄞ': "uai", 'ㄟ': "ui",
		'ㄢ': "uan", 'ㄣ': "un", 'ㄤ': "uang", 'ㄥ': "ong"},
	'ㄩ': {0: "ü", 'ㄝ': "üe", 'ㄢ': "üan", 'ㄣ': "ün", 'ㄥ': "iong"},
}

// rhyme spellings without a consonant
var bareMedialRhymes = map[rune]map[rune]string{
	'ㄧ': {0: "yi", 'ㄚ': "ya", 'ㄛ': "yo", 'ㄝ': "ye", 'ㄞ': "yai", 'ㄠ': "yao",
		'ㄡ': "you", 'ㄢ': "yan", 'ㄣ': "yin", 'ㄤ': "yang", 'ㄥ': "ying"},
	'ㄨ': {0: "wu", 'ㄚ': "wa", 'ㄛ': "wo", 'ㄞ': "wai", 'ㄟ': "wei",
		'ㄢ': "wan", 'ㄣ': "wen", 'ㄤ': "wang", 'ㄥ': "weng"},
	'ㄩ': {0: "yu", 'ㄝ': "yue", 'ㄢ': "yuan", 'ㄣ': "yun", 'ㄥ': "yong"},
}

// ZhuyinSyllable is a syllable as typed on a Zhuyin keyboard.
type ZhuyinSyllable struct {
	Initial rune
	Medial  rune
	Final   rune
	Tone    Tone
}

// Empty reports whether no symbol has been entered.
func (z ZhuyinSyllable) Empty() bool {
	return z.Initial == 0 && z.Medial == 0 && z.Final == 0
}

// String renders the syllable with its tone mark.
func (z ZhuyinSyllable) String() string {
	var b strings.Builder
	for _, r := range []rune{z.Initial, z.Medial, z.Final} {
		if r != 0 {
			b.WriteRune(r)
		}
	}
	if m := toneMark(z.Tone); m != 0 {
		b.WriteRune(m)
	}
	return b.String()
}

func toneMark(t Tone) rune {
	switch t {
	case Tone2:
		return MarkTone2
	case Tone3:
		return MarkTone3
	case Tone4:
		return MarkTone4
	case Tone5:
		return MarkTone5
	}
	return 0
}

// ToneFromMark maps a Zhuyin tone mark (or ' ' for the first tone) to a Tone.
func ToneFromMark(r rune) Tone {
	switch r {
	case ' ', 'ˉ':
		return Tone1
	case MarkTone2:
		return Tone2
	case MarkTone3:
		return Tone3
	case MarkTone4:
		return Tone4
	case MarkTone5:
		return Tone5
	}
	return ToneUnknown
}

// ZhuyinClass tells which slot a Zhuyin symbol fills: 1 initial, 2 medial,
// 3 final, 0 not a Zhuyin letter.
func ZhuyinClass(r rune) int {
	switch {
	case strings.ContainsRune(string(zhuyinInitials), r):
		return 1
	case strings.ContainsRune(string(zhuyinMedials), r):
		return 2
	case strings.ContainsRune(string(zhuyinFinals), r):
		return 3
	}
	return 0
}

// Pinyin returns the toneless pinyin spelling of z, or "" if z is not a
// valid Mandarin syllable.
func (z ZhuyinSyllable) Pinyin() string {
	if z.Empty() {
		return ""
	}
	in, hasInitial := initialSpelling[z.Initial]
	if z.Initial != 0 && !hasInitial {
		return ""
	}

	var rhyme string
	switch {
	case z.Medial != 0:
		table := medialRhymes
		if !hasInitial {
			table = bareMedialRhymes
		}
		r, ok := table[z.Medial][z.Final]
		if !ok {
			return ""
		}
		rhyme = r
	case z.Final != 0:
		rhyme = finalSpelling[z.Final]
		if z.Final == 'ㄛ' && hasInitial && !strings.ContainsRune("ㄅㄆㄇㄈ", z.Initial) {
			return ""
		}
		if z.Final == 'ㄝ' && hasInitial {
			return ""
		}
	default:
		// A lone sibilant or retroflex carries the empty rhyme.
		if !strings.ContainsRune("ㄓㄔㄕㄖㄗㄘㄙ", z.Initial) {
			return ""
		}
		rhyme = "i"
	}

	if hasInitial && strings.ContainsRune("ㄐㄑㄒ", z.Initial) {
		if z.Medial != 'ㄧ' && z.Medial != 'ㄩ' {
			return ""
		}
		rhyme = strings.Replace(rhyme, "ü", "u", 1)
	}
	return in + rhyme
}

var zhuyinBySpelling map[string]ZhuyinSyllable

func init() {
	zhuyinBySpelling = map[string]ZhuyinSyllable{}
	ins := append([]rune{0}, zhuyinInitials...)
	meds := append([]rune{0}, zhuyinMedials...)
	fins := append([]rune{0}, zhuyinFinals...)
	for _, i := range ins {
		for _, m := range meds {
			for _, f := range fins {
				z := ZhuyinSyllable{Initial: i, Medial: m, Final: f}
				if p := z.Pinyin(); p != "" {
					if _, ok := zhuyinBySpelling[p]; !ok {
						zhuyinBySpelling[p] = z
					}
				}
			}
		}
	}
}

// ToZhuyin spells a toneless pinyin base with tone in Zhuyin, or returns
// "" if the base is not a known syllable.
func ToZhuyin(base string, tone Tone) string {
	z, ok := zhuyinBySpelling[strings.ReplaceAll(base, "v", "ü")]
	if !ok {
		return ""
	}
	z.Tone = tone
	return z.String()
}

// ValidPinyin reports whether base is a complete Mandarin syllable.
func ValidPinyin(base string) bool {
	_, ok := zhuyinBySpelling[base]
	return ok
}

// ParseZhuyin reads a written syllable such as "ㄓㄨㄥ" or "ㄏㄠˇ". A
// missing tone mark is the first tone.
func ParseZhuyin(s string) (ZhuyinSyllable, bool) {
	z := ZhuyinSyllable{Tone: Tone1}
	for _, r := range s {
		if t := ToneFromMark(r); t != ToneUnknown {
			z.Tone = t
			continue
		}
		switch ZhuyinClass(r) {
		case 1:
			z.Initial = r
		case 2:
			z.Medial = r
		case 3:
			z.Final = r
		default:
			return ZhuyinSyllable{}, false
		}
	}
	return z, !z.Empty() && z.Pinyin() != ""
}
