package engine

import (
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/f3rmion/bopo/internal/pinyin"
	gopinyin "github.com/mozillazg/go-pinyin"
)

// Index maps syllables to the characters read that way, best first.
type Index struct {
	byReading map[string][]rune // "zhong1"
	byBase    map[string][]rune // "zhong", every tone
}

var (
	defaultIndex     *Index
	defaultIndexOnce sync.Once
)

// DefaultIndex returns the shared index built from the go-pinyin tables.
func DefaultIndex() *Index {
	defaultIndexOnce.Do(func() {
		defaultIndex = NewIndex(nil)
	})
	return defaultIndex
}

// NewIndex builds an index from the go-pinyin reading table plus the
// readings in dict, which may be nil.
func NewIndex(dict *Dictionary) *Index {
	ix := &Index{
		byReading: make(map[string][]rune),
		byBase:    make(map[string][]rune),
	}
	seen := make(map[string]map[rune]bool)
	add := func(r rune, reading string) {
		tone, base := pinyin.SplitTone(strings.TrimSpace(reading))
		if base == "" {
			return
		}
		key := pinyin.Numbered(base, tone)
		if seen[key] == nil {
			seen[key] = make(map[rune]bool)
		}
		if seen[key][r] {
			return
		}
		seen[key][r] = true
		ix.byReading[key] = append(ix.byReading[key], r)
	}

	for cp, readings := range gopinyin.PinyinDict {
		r := rune(cp)
		if r > 0xffff || !unicode.Is(unicode.Han, r) {
			continue
		}
		for _, reading := range strings.Split(readings, ",") {
			add(r, reading)
		}
	}

	inDict := map[rune]bool{}
	dict.Each(func(e *DictionaryEntry) {
		runes := []rune(e.Character)
		if len(runes) != 1 {
			return
		}
		inDict[runes[0]] = true
		for _, reading := range e.Pinyin {
			add(runes[0], reading)
		}
	})

	less := func(a, b rune) bool {
		ra, rb := commonRank(a), commonRank(b)
		if ra != rb {
			return ra < rb
		}
		if inDict[a] != inDict[b] {
			return inDict[a]
		}
		return a < b
	}
	for key, chars := range ix.byReading {
		sort.Slice(chars, func(i, j int) bool { return less(chars[i], chars[j]) })
		base, _ := pinyin.ParseNumbered(key)
		ix.byBase[base] = append(ix.byBase[base], chars...)
	}
	for base, chars := range ix.byBase {
		sort.SliceStable(chars, func(i, j int) bool { return less(chars[i], chars[j]) })
		ix.byBase[base] = dedupe(chars)
	}
	return ix
}

func dedupe(rs []rune) []rune {
	seen := make(map[rune]bool, len(rs))
	out := rs[:0]
	for _, r := range rs {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}

// Lookup returns the characters for a syllable. KindFuzzy adds characters
// read with other tones after the exact-tone ones.
func (ix *Index) Lookup(base string, tone pinyin.Tone, kind Kind) []string {
	exact := ix.byReading[pinyin.Numbered(base, tone)]
	out := make([]string, 0, len(exact))
	seen := make(map[rune]bool, len(exact))
	for _, r := range exact {
		seen[r] = true
		out = append(out, string(r))
	}
	if kind == KindFuzzy {
		for _, r := range ix.byBase[base] {
			if !seen[r] {
				seen[r] = true
				out = append(out, string(r))
			}
		}
	}
	return out
}

// Has reports whether any character is read as base, in any tone.
func (ix *Index) Has(base string) bool {
	return len(ix.byBase[base]) > 0
}
