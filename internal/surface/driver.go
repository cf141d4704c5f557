package surface

import (
	"fmt"
	"strings"

	"github.com/f3rmion/bopo/internal/keys"
)

// KeySink is the input method side of the key protocol.
type KeySink interface {
	OnTestKeyDown(keys.Event) bool
	OnKeyDown(keys.Event) bool
	OnTestKeyUp(keys.Event) bool
	OnKeyUp(keys.Event) bool
}

// Driver plays physical strokes into a KeySink the way a host does: each
// transition is classified, tested, then committed, and keys the sink does
// not take fall through to the document.
type Driver struct {
	doc   *Document
	sink  KeySink
	cls   *keys.Classifier
	locks keys.KeyState
}

// NewDriver returns a Driver typing into doc through sink on a US layout.
func NewDriver(doc *Document, sink KeySink) *Driver {
	return &Driver{doc: doc, sink: sink, cls: keys.NewClassifier(keys.USTranslator{})}
}

// Locks returns the CapsLock and NumLock toggle state.
func (d *Driver) Locks() keys.KeyState { return d.locks }

// Press types one stroke: modifier keys go down first and come up last.
func (d *Driver) Press(s keys.Stroke) {
	state := d.locks
	var mods []keys.Stroke
	if s.Control {
		mods = append(mods, keys.Stroke{VK: keys.VKLControl, Scancode: keys.ScancodeFromKeycode(keys.CodeLeftCtrl)})
	}
	if s.Alt {
		mods = append(mods, keys.Stroke{VK: keys.VKLMenu, Scancode: keys.ScancodeFromKeycode(keys.CodeLeftAlt)})
	}
	if s.Shift {
		mods = append(mods, keys.Stroke{VK: keys.VKLShift, Scancode: keys.ScancodeFromKeycode(keys.CodeLeftShift)})
	}
	for _, m := range mods {
		state = m.Down(state)
		d.down(m, state)
	}

	state = keys.Stroke{VK: s.VK, Scancode: s.Scancode}.Down(state)
	d.locks = keys.Locks(state)
	d.down(s, state)
	state.Release(s.VK)
	d.up(s, state)

	for i := len(mods) - 1; i >= 0; i-- {
		state.Release(mods[i].VK)
		d.up(mods[i], state)
	}
}

func (d *Driver) down(s keys.Stroke, state keys.KeyState) {
	ev := d.cls.Classify(s.VK, s.Scancode, state)
	if d.sink.OnTestKeyDown(ev) && d.sink.OnKeyDown(ev) {
		return
	}
	if !s.IsModifier() {
		d.doc.DefaultKeyAction(ev)
	}
}

func (d *Driver) up(s keys.Stroke, state keys.KeyState) {
	ev := d.cls.Classify(s.VK, s.Scancode, state)
	if d.sink.OnTestKeyUp(ev) {
		d.sink.OnKeyUp(ev)
	}
}

// Type plays a key script: tokens separated by whitespace, each parsed
// with keys.ParseStroke. A token wrapped in quotes types its characters
// one by one.
func (d *Driver) Type(script string) error {
	for _, tok := range strings.Fields(script) {
		if len(tok) >= 2 && tok[0] == '"' && tok[len(tok)-1] == '"' {
			for _, r := range tok[1 : len(tok)-1] {
				s, ok := keys.StrokeForRune(r)
				if !ok {
					return fmt.Errorf("no key types %q", r)
				}
				d.Press(s)
			}
			continue
		}
		s, err := keys.ParseStroke(tok)
		if err != nil {
			return err
		}
		d.Press(s)
	}
	return nil
}
