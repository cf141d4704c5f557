// Package surface is an in-memory text document that plays the host side
// of the input method: edit sessions, a selection, one composition span
// with its display attribute, and the document status flags.
package surface

import (
	"errors"
	"strings"
	"sync"

	"github.com/f3rmion/bopo/internal/ime"
	"github.com/f3rmion/bopo/internal/keys"
	"github.com/mattn/go-runewidth"
)

var (
	ErrNoSession       = errors.New("no edit session")
	ErrCompositionOpen = errors.New("composition already open")
	ErrForeignRange    = errors.New("range belongs to another document")
)

type span struct {
	start, end int
}

// Document is a rune buffer with a selection and at most one composition.
// It is not safe for concurrent use except for Snapshot.
type Document struct {
	mu sync.Mutex // guards snapshot reads from renderers

	text   []rune
	sel    span
	comp   *composition
	attr   *span
	status ime.DocumentStatus

	session  *session
	sessions map[ime.EditMode]int

	onTerminated func()
}

var _ ime.Host = (*Document)(nil)

// New returns an empty document.
func New() *Document {
	return &Document{sessions: map[ime.EditMode]int{}}
}

// OnTerminated sets the function told when the document ends a
// composition on its own.
func (d *Document) OnTerminated(fn func()) { d.onTerminated = fn }

// SetStatus replaces the status flags.
func (d *Document) SetStatus(s ime.DocumentStatus) { d.status = s }

// Status implements ime.Host.
func (d *Document) Status() ime.DocumentStatus { return d.status }

// RequestEditSession implements ime.Host. Sessions do not nest.
func (d *Document) RequestEditSession(mode ime.EditMode, fn func(ime.EditSession) error) error {
	if d.session != nil {
		return ime.ErrReentrant
	}
	if mode == ime.ReadWrite && d.status&ime.StatusReadOnly != 0 {
		return ime.ErrReadOnly
	}
	s := &session{doc: d, mode: mode}
	d.session = s
	d.sessions[mode]++
	defer func() { d.session = nil }()
	return fn(s)
}

// Sessions returns how many sessions of mode were granted.
func (d *Document) Sessions(mode ime.EditMode) int { return d.sessions[mode] }

// Terminate ends the open composition from the host side and notifies the
// input method.
func (d *Document) Terminate() {
	if d.comp == nil {
		return
	}
	d.mu.Lock()
	d.comp = nil
	d.attr = nil
	d.mu.Unlock()
	if d.onTerminated != nil {
		d.onTerminated()
	}
}

// Text returns the document text.
func (d *Document) Text() string { return string(d.text) }

// SetText replaces the document text and puts the caret at the end. Any
// composition is dropped without notice.
func (d *Document) SetText(s string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.text = []rune(s)
	d.sel = span{len(d.text), len(d.text)}
	d.comp = nil
	d.attr = nil
}

// Selection returns the selection in runes.
func (d *Document) Selection() (start, end int) { return d.sel.start, d.sel.end }

// Composition returns the composition span, if one is open.
func (d *Document) Composition() (start, end int, ok bool) {
	if d.comp == nil {
		return 0, 0, false
	}
	return d.comp.start, d.comp.end, true
}

// Attributed returns the span carrying the composition display attribute.
func (d *Document) Attributed() (start, end int, ok bool) {
	if d.attr == nil {
		return 0, 0, false
	}
	return d.attr.start, d.attr.end, true
}

// Snapshot is a copy of the document state for renderers.
type Snapshot struct {
	Text      []rune
	Caret     int
	CompStart int
	CompEnd   int
	Composing bool
}

// Snapshot returns a copy of the current state.
func (d *Document) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := Snapshot{Text: append([]rune(nil), d.text...), Caret: d.sel.end}
	if d.attr != nil {
		s.CompStart, s.CompEnd, s.Composing = d.attr.start, d.attr.end, true
	}
	return s
}

// DefaultKeyAction is what the document does with a key the input method
// did not handle.
func (d *Document) DefaultKeyAction(ev keys.Event) {
	if ev.Modifiers()&(keys.ModControl|keys.ModAlt|keys.ModSuper) != 0 {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	switch ev.Keysym() {
	case keys.KeyReturn, keys.KeyKPEnter:
		d.replace(d.sel, []rune("\n"))
	case keys.KeyBackSpace:
		if d.sel.start == d.sel.end && d.sel.start > 0 {
			d.sel.start--
		}
		d.replace(d.sel, nil)
	case keys.KeyDelete:
		if d.sel.start == d.sel.end && d.sel.end < len(d.text) {
			d.sel.end++
		}
		d.replace(d.sel, nil)
	case keys.KeyLeft:
		p := max(0, d.sel.start-1)
		d.sel = span{p, p}
	case keys.KeyRight:
		p := min(len(d.text), d.sel.end+1)
		d.sel = span{p, p}
	case keys.KeyHome:
		d.sel = span{0, 0}
	case keys.KeyEnd:
		d.sel = span{len(d.text), len(d.text)}
	default:
		if ev.IsPrintable() {
			d.replace(d.sel, []rune{ev.Rune()})
		}
	}
}

// replace swaps the runes in sp for with, keeping the selection, the
// composition and the attribute anchored to the text around the edit, and
// leaves the caret after the inserted text.
func (d *Document) replace(sp span, with []rune) span {
	out := make([]rune, 0, len(d.text)-(sp.end-sp.start)+len(with))
	out = append(out, d.text[:sp.start]...)
	out = append(out, with...)
	out = append(out, d.text[sp.end:]...)
	d.text = out

	delta := len(with) - (sp.end - sp.start)
	shift := func(p int) int {
		if p >= sp.end {
			return p + delta
		}
		if p > sp.start+len(with) {
			return sp.start + len(with)
		}
		return p
	}
	if d.comp != nil {
		d.comp.start, d.comp.end = shift(d.comp.start), shift(d.comp.end)
	}
	if d.attr != nil {
		d.attr.start, d.attr.end = shift(d.attr.start), shift(d.attr.end)
	}
	end := sp.start + len(with)
	d.sel = span{end, end}
	return span{sp.start, end}
}

// textRect places r on a monospace grid: one row per line, columns by
// display width.
func (d *Document) textRect(r span) ime.Rect {
	before := string(d.text[:r.start])
	y := strings.Count(before, "\n")
	line := before[strings.LastIndex(before, "\n")+1:]
	return ime.Rect{
		X: runewidth.StringWidth(line),
		Y: y,
		W: max(1, runewidth.StringWidth(string(d.text[r.start:r.end]))),
		H: 1,
	}
}

type session struct {
	doc  *Document
	mode ime.EditMode
}

func (s *session) check(write bool) error {
	if s.doc.session != s {
		return ErrNoSession
	}
	if write && s.mode != ime.ReadWrite {
		return ime.ErrReadOnly
	}
	return nil
}

func (s *session) Selection() (ime.TextRange, error) {
	if err := s.check(false); err != nil {
		return nil, err
	}
	return &textRange{doc: s.doc, span: s.doc.sel}, nil
}

func (s *session) SetSelection(r ime.TextRange) error {
	if err := s.check(true); err != nil {
		return err
	}
	tr, ok := r.(*textRange)
	if !ok || tr.doc != s.doc {
		return ErrForeignRange
	}
	sp, err := tr.bounds()
	if err != nil {
		return err
	}
	s.doc.sel = sp
	return nil
}

func (s *session) StartComposition(r ime.TextRange) (ime.Composition, error) {
	if err := s.check(true); err != nil {
		return nil, err
	}
	if s.doc.comp != nil {
		return nil, ErrCompositionOpen
	}
	tr, ok := r.(*textRange)
	if !ok || tr.doc != s.doc {
		return nil, ErrForeignRange
	}
	sp, err := tr.bounds()
	if err != nil {
		return nil, err
	}
	s.doc.mu.Lock()
	s.doc.comp = &composition{doc: s.doc, start: sp.start, end: sp.end}
	s.doc.mu.Unlock()
	return s.doc.comp, nil
}

func (s *session) TextRect(r ime.TextRange) (ime.Rect, error) {
	if err := s.check(false); err != nil {
		return ime.Rect{}, err
	}
	tr, ok := r.(*textRange)
	if !ok || tr.doc != s.doc {
		return ime.Rect{}, ErrForeignRange
	}
	sp, err := tr.bounds()
	if err != nil {
		return ime.Rect{}, err
	}
	return s.doc.textRect(sp), nil
}

type composition struct {
	doc        *Document
	start, end int
}

func (c *composition) Range() ime.TextRange {
	return &textRange{doc: c.doc, comp: c}
}

func (c *composition) End() error {
	if c.doc.comp != c {
		return ime.ErrNoComposition
	}
	if c.doc.session == nil {
		return ErrNoSession
	}
	if err := c.doc.session.check(true); err != nil {
		return err
	}
	c.doc.mu.Lock()
	c.doc.comp = nil
	c.doc.mu.Unlock()
	return nil
}

// textRange is a span of a Document. A range from Composition.Range
// follows the composition until collapsed or cloned.
type textRange struct {
	doc  *Document
	span span
	comp *composition
}

func (r *textRange) bounds() (span, error) {
	if r.comp == nil {
		return r.span, nil
	}
	if r.doc.comp != r.comp {
		return span{}, ime.ErrNoComposition
	}
	return span{r.comp.start, r.comp.end}, nil
}

func (r *textRange) writable() error {
	if r.doc.session == nil {
		return ErrNoSession
	}
	return r.doc.session.check(true)
}

func (r *textRange) Text() (string, error) {
	sp, err := r.bounds()
	if err != nil {
		return "", err
	}
	return string(r.doc.text[sp.start:sp.end]), nil
}

func (r *textRange) SetText(text string) error {
	if err := r.writable(); err != nil {
		return err
	}
	sp, err := r.bounds()
	if err != nil {
		return err
	}
	d := r.doc
	d.mu.Lock()
	defer d.mu.Unlock()

	var comp *span
	if r.comp != nil {
		comp = &span{r.comp.start, r.comp.end}
	}
	attrWasComp := d.attr != nil && comp != nil && *d.attr == *comp
	out := d.replace(sp, []rune(text))
	if r.comp != nil {
		r.comp.start, r.comp.end = out.start, out.end
		if attrWasComp {
			d.attr = &span{out.start, out.end}
		}
	} else {
		r.span = out
	}
	return nil
}

// snapshot detaches a composition range from the composition.
func (r *textRange) snapshot() {
	if r.comp == nil {
		return
	}
	if sp, err := r.bounds(); err == nil {
		r.span = sp
	}
	r.comp = nil
}

func (r *textRange) Collapse(a ime.Anchor) {
	r.snapshot()
	if a == ime.AnchorStart {
		r.span.end = r.span.start
	} else {
		r.span.start = r.span.end
	}
}

func (r *textRange) ShiftStart(n int) int {
	r.snapshot()
	old := r.span.start
	r.span.start = min(max(0, old+n), len(r.doc.text))
	if r.span.end < r.span.start {
		r.span.end = r.span.start
	}
	return r.span.start - old
}

func (r *textRange) ShiftEnd(n int) int {
	r.snapshot()
	old := r.span.end
	r.span.end = min(max(0, old+n), len(r.doc.text))
	if r.span.start > r.span.end {
		r.span.start = r.span.end
	}
	return r.span.end - old
}

func (r *textRange) Clone() ime.TextRange {
	c := *r
	c.snapshot()
	return &c
}

func (r *textRange) SetDisplayAttribute() error {
	if err := r.writable(); err != nil {
		return err
	}
	sp, err := r.bounds()
	if err != nil {
		return err
	}
	r.doc.mu.Lock()
	r.doc.attr = &sp
	r.doc.mu.Unlock()
	return nil
}

func (r *textRange) ClearDisplayAttribute() error {
	if err := r.writable(); err != nil {
		return err
	}
	r.doc.mu.Lock()
	r.doc.attr = nil
	r.doc.mu.Unlock()
	return nil
}
