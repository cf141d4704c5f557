package engine

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/f3rmion/bopo/internal/keys"
	"github.com/f3rmion/bopo/internal/pinyin"
	"github.com/rs/zerolog"
)

// maxPhraseLen bounds user phrase length in symbols.
const maxPhraseLen = 9

var (
	ErrPhraseLength = errors.New("phrase length out of range")
	ErrNoPhraseDB   = errors.New("no user phrase store")
	ErrNotPhonetic  = errors.New("phrase contains symbols without a reading")
)

// symbol is one slot of the composition buffer.
type symbol struct {
	text    string
	reading string // numbered pinyin, "" for punctuation and Latin
}

type selectMode int

const (
	selNone selectMode = iota
	selChars
	selSymbols
)

type choice struct {
	text string
	n    int // buffer symbols replaced
}

// Deps are the data sources of an Editor.
type Deps struct {
	Index   *Index
	Phrases PhraseStore
	Log     zerolog.Logger
}

// Editor is the reference Engine.
type Editor struct {
	opts    Options
	layout  Layout
	kind    Kind
	syl     syllableEditor
	index   *Index
	phrases PhraseStore
	log     zerolog.Logger

	buf    []symbol
	cursor int

	mode  selectMode
	cands []choice
	page  int
	selAt int // end (exclusive) of the symbols a choice replaces

	commit   string
	behavior Behavior
	notice   string
}

var _ Engine = (*Editor)(nil)

// New returns an Editor. A nil index uses DefaultIndex.
func New(opts Options, layout Layout, kind Kind, deps Deps) *Editor {
	if deps.Index == nil {
		deps.Index = DefaultIndex()
	}
	e := &Editor{
		layout:  layout,
		kind:    kind,
		syl:     newSyllableEditor(layout),
		index:   deps.Index,
		phrases: deps.Phrases,
		log:     deps.Log,
	}
	e.SetEditorOptions(func(o *Options) { *o = opts })
	return e
}

// ProcessKeyEvent feeds one key press to the editor.
func (e *Editor) ProcessKeyEvent(ev keys.Event) {
	e.notice = ""
	switch {
	case e.mode != selNone:
		e.behavior = e.selectKey(ev)
	case !e.opts.Chinese:
		e.behavior = e.englishKey(ev)
	default:
		e.behavior = e.chineseKey(ev)
	}
	e.log.Trace().Stringer("key", ev).Stringer("behavior", e.behavior).Msg("engine key")
}

func (e *Editor) LastKeyBehavior() Behavior { return e.behavior }

func (e *Editor) composing() bool {
	return len(e.buf) > 0 || !e.syl.empty()
}

func (e *Editor) selectKey(ev keys.Event) Behavior {
	if ev.Modifiers()&(keys.ModControl|keys.ModAlt) != 0 {
		return KeyError
	}
	if idx := slices.Index(e.opts.SelKeys, ev.Rune()); idx >= 0 && ev.Rune() != 0 {
		if idx >= len(e.PaginatedCandidates()) {
			return KeyError
		}
		e.Select(idx)
		return e.behavior
	}
	switch ev.Keysym() {
	case keys.KeySpace, keys.KeyPageDown:
		if total := e.TotalPage(); total > 0 {
			e.page = (e.page + 1) % total
		}
		return Absorb
	case keys.KeyPageUp:
		if total := e.TotalPage(); total > 0 {
			e.page = (e.page + total - 1) % total
		}
		return Absorb
	case keys.KeyEscape, keys.KeyBackSpace:
		e.CancelSelecting()
		return Absorb
	}
	return KeyError
}

func (e *Editor) englishKey(ev keys.Event) Behavior {
	if ev.Modifiers()&(keys.ModControl|keys.ModAlt|keys.ModSuper) != 0 {
		return Ignore
	}
	if r := ev.Rune(); r != 0 {
		s := e.shape(r)
		if e.composing() {
			e.insert(symbol{text: s})
			return e.overflow(Absorb)
		}
		e.commit += s
		return Commit
	}
	return e.editKey(ev)
}

func (e *Editor) chineseKey(ev keys.Event) Behavior {
	if ev.Has(keys.ModControl) && ev.IsDigitKey() && !ev.Has(keys.ModAlt) {
		if len(e.buf) == 0 {
			return Ignore
		}
		n := int(ev.Keycode()-keys.Code1) + 1
		if err := e.AddUserPhrase(n); err != nil {
			e.log.Debug().Err(err).Int("length", n).Msg("user phrase not added")
			return KeyError
		}
		return Absorb
	}
	if ev.Modifiers()&(keys.ModControl|keys.ModAlt|keys.ModSuper) != 0 {
		return Ignore
	}

	if e.opts.EasySymbolInput && ev.IsLetter() {
		if s, ok := e.opts.EasySymbols[strings.ToLower(string(ev.Rune()))]; ok {
			e.insert(symbol{text: s})
			return e.overflow(Absorb)
		}
	}

	switch e.syl.key(ev) {
	case keyAbsorbed:
		return Absorb
	case keyCompleted:
		return e.convertSyllable()
	case keyRejected:
		return KeyError
	}

	r := ev.Rune()
	switch {
	case r == SymbolKey && !e.composing():
		e.OpenSymbolTable()
		return Absorb
	case r == ' ':
		return e.spaceKey()
	case r != 0:
		if p, ok := chinesePunct[r]; ok {
			e.insert(symbol{text: p})
			return e.overflow(Absorb)
		}
		s := e.shape(r)
		if e.composing() {
			e.insert(symbol{text: s})
			return e.overflow(Absorb)
		}
		e.commit += s
		return Commit
	}
	return e.editKey(ev)
}

func (e *Editor) spaceKey() Behavior {
	switch {
	case len(e.buf) > 0 && e.opts.SpaceAsSelection:
		if e.openCandidates() {
			return Absorb
		}
		return KeyError
	case len(e.buf) > 0:
		e.insert(symbol{text: e.shape(' ')})
		return e.overflow(Absorb)
	case e.opts.Fullwidth:
		e.commit += e.shape(' ')
		return Commit
	}
	return Ignore
}

func (e *Editor) editKey(ev keys.Event) Behavior {
	if !e.composing() {
		return Ignore
	}
	switch ev.Keysym() {
	case keys.KeyReturn, keys.KeyKPEnter:
		e.syl.clear()
		if len(e.buf) == 0 {
			return Absorb
		}
		e.commitAll()
		return Commit
	case keys.KeyEscape:
		if !e.syl.empty() {
			e.syl.clear()
		} else if e.opts.EscCleanAllBuffer {
			e.ClearCompositionEditor()
		}
		return Absorb
	case keys.KeyBackSpace:
		if !e.syl.empty() {
			e.syl.backspace()
		} else if e.cursor > 0 {
			e.buf = slices.Delete(e.buf, e.cursor-1, e.cursor)
			e.cursor--
		}
		return Absorb
	case keys.KeyDelete:
		if e.syl.empty() && e.cursor < len(e.buf) {
			e.buf = slices.Delete(e.buf, e.cursor, e.cursor+1)
		}
		return Absorb
	case keys.KeyLeft:
		if e.cursor > 0 {
			e.cursor--
		}
		return Absorb
	case keys.KeyRight:
		if e.cursor < len(e.buf) {
			e.cursor++
		}
		return Absorb
	case keys.KeyHome:
		e.cursor = 0
		return Absorb
	case keys.KeyEnd:
		e.cursor = len(e.buf)
		return Absorb
	case keys.KeyDown:
		if e.openCandidates() {
			return Absorb
		}
		return KeyError
	case keys.KeyUp, keys.KeyTab, keys.KeyPageUp, keys.KeyPageDown:
		return Absorb
	}
	return KeyError
}

func (e *Editor) shape(r rune) string {
	if e.opts.Fullwidth {
		return string(ToFullwidth(r))
	}
	return string(r)
}

func (e *Editor) insert(s symbol) {
	e.buf = slices.Insert(e.buf, e.cursor, s)
	e.cursor++
}

// overflow commits the oldest symbols once the buffer exceeds its limit.
func (e *Editor) overflow(b Behavior) Behavior {
	extra := len(e.buf) - e.opts.MaxChiSymbolLen
	if extra <= 0 {
		return b
	}
	e.commit += joinText(e.buf[:extra])
	e.buf = slices.Clone(e.buf[extra:])
	e.cursor = max(0, e.cursor-extra)
	return Commit
}

func (e *Editor) commitAll() {
	e.commit += joinText(e.buf)
	e.buf = nil
	e.cursor = 0
}

func joinText(syms []symbol) string {
	var b strings.Builder
	for _, s := range syms {
		b.WriteString(s.text)
	}
	return b.String()
}

func (e *Editor) convertSyllable() Behavior {
	base, tone := e.syl.syllable()
	e.syl.clear()

	chars := e.index.Lookup(base, tone, e.kind)
	if len(chars) == 0 {
		return KeyError
	}
	e.insert(symbol{text: chars[0], reading: pinyin.Numbered(base, tone)})
	e.applyPhrase()
	return e.overflow(Absorb)
}

// applyPhrase rewrites the symbols before the cursor with the longest
// matching user phrase.
func (e *Editor) applyPhrase() {
	if e.phrases == nil {
		return
	}
	for n := min(e.cursor, maxPhraseLen); n >= 2; n-- {
		reading, ok := readingOf(e.buf[e.cursor-n : e.cursor])
		if !ok {
			continue
		}
		found, err := e.phrases.Lookup(reading)
		if err != nil {
			e.log.Debug().Err(err).Msg("phrase lookup failed")
			return
		}
		for _, p := range found {
			if utf8.RuneCountInString(p.Phrase) == n {
				e.replace(e.cursor, n, p.Phrase)
				return
			}
		}
	}
}

func readingOf(syms []symbol) (string, bool) {
	parts := make([]string, len(syms))
	for i, s := range syms {
		if s.reading == "" {
			return "", false
		}
		parts[i] = s.reading
	}
	return strings.Join(parts, " "), true
}

// replace sets the text of the n symbols ending at end, one rune each.
func (e *Editor) replace(end, n int, text string) {
	runes := []rune(text)
	if n == 1 {
		e.buf[end-1].text = text
		return
	}
	for i := 0; i < n && i < len(runes); i++ {
		e.buf[end-n+i].text = string(runes[i])
	}
}

func (e *Editor) openCandidates() bool {
	if len(e.buf) == 0 {
		return false
	}
	t := e.cursor
	if t == len(e.buf) {
		t--
	}
	if e.buf[t].reading == "" {
		return false
	}

	var cands []choice
	seen := map[string]bool{}
	if e.phrases != nil {
		for n := min(t+1, maxPhraseLen); n >= 2; n-- {
			reading, ok := readingOf(e.buf[t+1-n : t+1])
			if !ok {
				continue
			}
			found, err := e.phrases.Lookup(reading)
			if err != nil {
				e.log.Debug().Err(err).Msg("phrase lookup failed")
				break
			}
			for _, p := range found {
				if utf8.RuneCountInString(p.Phrase) == n && !seen[p.Phrase] {
					seen[p.Phrase] = true
					cands = append(cands, choice{text: p.Phrase, n: n})
				}
			}
		}
	}
	base, tone := pinyin.ParseNumbered(e.buf[t].reading)
	for _, c := range e.index.Lookup(base, tone, e.kind) {
		if !seen[c] {
			seen[c] = true
			cands = append(cands, choice{text: c, n: 1})
		}
	}
	if len(cands) == 0 {
		return false
	}

	e.mode = selChars
	e.cands = cands
	e.page = 0
	e.selAt = t + 1
	return true
}

// OpenSymbolTable starts selecting from the symbol table.
func (e *Editor) OpenSymbolTable() {
	e.cands = make([]choice, len(symbolTable))
	for i, s := range symbolTable {
		e.cands[i] = choice{text: s}
	}
	e.mode = selSymbols
	e.page = 0
	e.behavior = Absorb
}

func (e *Editor) IsSelecting() bool { return e.mode != selNone }

func (e *Editor) perPage() int { return max(1, e.opts.CandPerPage) }

func (e *Editor) PaginatedCandidates() []string {
	if e.mode == selNone {
		return nil
	}
	start := e.page * e.perPage()
	end := min(start+e.perPage(), len(e.cands))
	out := make([]string, 0, end-start)
	for _, c := range e.cands[start:end] {
		out = append(out, c.text)
	}
	return out
}

func (e *Editor) TotalPage() int {
	if e.mode == selNone {
		return 0
	}
	return (len(e.cands) + e.perPage() - 1) / e.perPage()
}

func (e *Editor) CurrentPageNo() int { return e.page }

// Select picks the candidate at index on the current page.
func (e *Editor) Select(index int) {
	abs := e.page*e.perPage() + index
	if e.mode == selNone || index < 0 || index >= e.perPage() || abs >= len(e.cands) {
		e.behavior = KeyError
		return
	}
	c := e.cands[abs]
	mode := e.mode
	e.CancelSelecting()

	e.behavior = Absorb
	switch mode {
	case selSymbols:
		e.insert(symbol{text: c.text})
		e.behavior = e.overflow(Absorb)
	case selChars:
		e.replace(e.selAt, c.n, c.text)
		if c.n > 1 && e.phrases != nil {
			if reading, ok := readingOf(e.buf[e.selAt-c.n : e.selAt]); ok {
				if err := e.phrases.Bump(c.text, reading); err != nil {
					e.log.Debug().Err(err).Msg("phrase bump failed")
				}
			}
		}
		if e.opts.AutoShiftCursor && e.cursor < len(e.buf) {
			e.cursor++
		}
	}
}

func (e *Editor) CancelSelecting() {
	e.mode = selNone
	e.cands = nil
	e.page = 0
}

// AddUserPhrase stores the length symbols next to the cursor as a user
// phrase: before it by default, after it with AddPhraseForward.
func (e *Editor) AddUserPhrase(length int) error {
	if e.phrases == nil {
		return ErrNoPhraseDB
	}
	start, end := e.cursor-length, e.cursor
	if e.opts.AddPhraseForward {
		start, end = e.cursor, e.cursor+length
	}
	if length < 2 || length > maxPhraseLen || start < 0 || end > len(e.buf) {
		return fmt.Errorf("%w: %d", ErrPhraseLength, length)
	}
	reading, ok := readingOf(e.buf[start:end])
	if !ok {
		return ErrNotPhonetic
	}
	text := joinText(e.buf[start:end])
	if err := e.phrases.Add(text, reading); err != nil {
		return err
	}
	e.notice = "已加入：" + text
	return nil
}

func (e *Editor) Display() string       { return joinText(e.buf) }
func (e *Editor) DisplayCommit() string { return e.commit }
func (e *Editor) Notification() string  { return e.notice }
func (e *Editor) Ack()                  { e.commit = "" }

func (e *Editor) SyllableBufferDisplay() string { return e.syl.display() }

// Cursor returns the cursor position in runes of Display.
func (e *Editor) Cursor() int {
	n := 0
	for _, s := range e.buf[:e.cursor] {
		n += utf8.RuneCountInString(s.text)
	}
	return n
}

func (e *Editor) SetEditorOptions(fn func(*Options)) {
	fn(&e.opts)
	if e.opts.CandPerPage < 1 {
		e.opts.CandPerPage = 1
	}
	if len(e.opts.SelKeys) == 0 {
		e.opts.SelKeys = []rune("1234567890")
	}
	if e.opts.MaxChiSymbolLen < 1 {
		e.opts.MaxChiSymbolLen = 20
	}
}

func (e *Editor) EditorOptions() Options { return e.opts }

func (e *Editor) SetSyllableEditor(layout Layout) {
	if layout == e.layout {
		return
	}
	e.layout = layout
	e.syl = newSyllableEditor(layout)
}

func (e *Editor) SetConversionEngine(kind Kind) { e.kind = kind }

func (e *Editor) ClearSyllableEditor() { e.syl.clear() }

func (e *Editor) ClearCompositionEditor() {
	e.buf = nil
	e.cursor = 0
	e.CancelSelecting()
}
