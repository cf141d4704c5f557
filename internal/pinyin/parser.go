// Package pinyin handles pinyin readings, tones and the Zhuyin (bopomofo)
// spelling of Mandarin syllables.
package pinyin

import (
	"fmt"
	"strings"

	gopinyin "github.com/mozillazg/go-pinyin"
)

// Tone represents the four tones of Mandarin plus neutral tone.
type Tone int

const (
	ToneUnknown Tone = 0
	Tone1       Tone = 1 // high level, unmarked in Zhuyin
	Tone2       Tone = 2 // rising ˊ
	Tone3       Tone = 3 // dipping ˇ
	Tone4       Tone = 4 // falling ˋ
	Tone5       Tone = 5 // neutral ˙
)

// Parser looks up readings of characters.
type Parser struct {
	args gopinyin.Args
}

// NewParser creates a new pinyin parser.
func NewParser() *Parser {
	args := gopinyin.NewArgs()
	args.Style = gopinyin.Tone // Returns tone marks: zhōng
	args.Heteronym = true      // Return all possible readings
	return &Parser{args: args}
}

// Syllable is one parsed reading.
type Syllable struct {
	Full    string // with tone mark, e.g. "hǎo"
	Base    string // toneless, e.g. "hao"
	Initial string // e.g. "h"
	Final   string // e.g. "ao"
	Tone    Tone
}

// Numbered returns the reading in tone-number form, e.g. "hao3".
func (s Syllable) Numbered() string {
	return Numbered(s.Base, s.Tone)
}

// Zhuyin returns the bopomofo spelling, or "" if the syllable has none.
func (s Syllable) Zhuyin() string {
	return ToZhuyin(s.Base, s.Tone)
}

// GetPinyin returns all pinyin readings for a character.
func (p *Parser) GetPinyin(char string) []string {
	result := gopinyin.Pinyin(char, p.args)
	if len(result) == 0 {
		return nil
	}
	return result[0]
}

// Parse splits a tone-marked reading into its parts.
func (p *Parser) Parse(reading string) Syllable {
	s := Syllable{Full: reading}
	s.Tone, s.Base = extractTone(reading)
	s.Initial, s.Final = SplitInitial(s.Base)
	return s
}

// ParseChar parses every reading of a character.
func (p *Parser) ParseChar(char string) []Syllable {
	readings := p.GetPinyin(char)
	if readings == nil {
		return nil
	}

	results := make([]Syllable, len(readings))
	for i, reading := range readings {
		results[i] = p.Parse(reading)
	}
	return results
}

// SplitTone returns the tone of a tone-marked reading and the reading
// without marks. Unmarked readings are neutral.
func SplitTone(reading string) (Tone, string) {
	return extractTone(reading)
}

var toneMarks = map[rune]struct {
	base rune
	tone Tone
}{
	'ā': {'a', Tone1}, 'á': {'a', Tone2}, 'ǎ': {'a', Tone3}, 'à': {'a', Tone4},
	'ē': {'e', Tone1}, 'é': {'e', Tone2}, 'ě': {'e', Tone3}, 'è': {'e', Tone4},
	'ī': {'i', Tone1}, 'í': {'i', Tone2}, 'ǐ': {'i', Tone3}, 'ì': {'i', Tone4},
	'ō': {'o', Tone1}, 'ó': {'o', Tone2}, 'ǒ': {'o', Tone3}, 'ò': {'o', Tone4},
	'ū': {'u', Tone1}, 'ú': {'u', Tone2}, 'ǔ': {'u', Tone3}, 'ù': {'u', Tone4},
	'ǖ': {'ü', Tone1}, 'ǘ': {'ü', Tone2}, 'ǚ': {'ü', Tone3}, 'ǜ': {'ü', Tone4},
	'ń': {'n', Tone2}, 'ň': {'n', Tone3}, 'ǹ': {'n', Tone4},
	'ḿ': {'m', Tone2},
}

func extractTone(reading string) (Tone, string) {
	tone := ToneUnknown
	var result strings.Builder

	for _, r := range strings.ToLower(reading) {
		if mark, ok := toneMarks[r]; ok {
			result.WriteRune(mark.base)
			tone = mark.tone
		} else if r == 'v' {
			result.WriteRune('ü')
		} else {
			result.WriteRune(r)
		}
	}

	if tone == ToneUnknown {
		tone = Tone5
	}

	return tone, result.String()
}

// Numbered joins a toneless base and a tone as "hao3".
func Numbered(base string, tone Tone) string {
	return fmt.Sprintf("%s%d", base, tone)
}

// ParseNumbered splits "hao3" into "hao" and Tone3. A missing digit is
// ToneUnknown.
func ParseNumbered(s string) (string, Tone) {
	if s == "" {
		return "", ToneUnknown
	}
	last := s[len(s)-1]
	if last >= '1' && last <= '5' {
		return strings.ReplaceAll(s[:len(s)-1], "v", "ü"), Tone(last - '0')
	}
	return strings.ReplaceAll(s, "v", "ü"), ToneUnknown
}

var initials = []string{
	"zh", "ch", "sh",
	"b", "p", "m", "f", "d", "t", "n", "l", "g", "k", "h",
	"j", "q", "x", "r", "z", "c", "s", "y", "w",
}

// SplitInitial splits a toneless syllable into its initial consonant and
// final, e.g. "zhong" into "zh" and "ong".
func SplitInitial(base string) (initial, final string) {
	base = strings.ToLower(base)
	for _, in := range initials {
		if strings.HasPrefix(base, in) && len(base) > len(in) {
			return in, strings.TrimPrefix(base, in)
		}
	}
	return "", base
}
