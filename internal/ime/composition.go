package ime

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// pendingEdit is the composition text waiting for the end of the key pass.
type pendingEdit struct {
	text   string
	cursor int
}

// compositionManager owns the host composition. Text changes are coalesced
// into one pending edit and written by flush in a single host session.
type compositionManager struct {
	host Host
	log  zerolog.Logger

	comp    Composition
	pending pendingEdit
	dirty   bool
	// shown is the last edit the host accepted.
	shown pendingEdit
}

func (m *compositionManager) composing() bool { return m.comp != nil }

// setCompositionString records the text and caret to show. Later calls in
// the same pass overwrite earlier ones.
func (m *compositionManager) setCompositionString(text string, cursor int) {
	m.pending = pendingEdit{text: text, cursor: cursor}
	m.dirty = true
}

// flush writes the pending edit, opening a composition first if needed.
// A composition the host ended behind our back is reopened over the text
// it left and the write is retried once.
func (m *compositionManager) flush() error {
	if !m.dirty {
		return nil
	}
	p := m.pending
	m.dirty = false
	m.pending = pendingEdit{}

	err := m.host.RequestEditSession(ReadWrite, func(s EditSession) error {
		err := m.write(s, p)
		if m.comp != nil && errors.Is(err, ErrNoComposition) {
			m.log.Debug().Err(err).Msg("composition ended by host, reopening")
			m.comp = nil
			err = m.write(s, p)
		}
		return err
	})
	if err != nil {
		if errors.Is(err, ErrNoComposition) {
			m.comp = nil
		}
		m.log.Warn().Err(err).Str("text", p.text).Msg("composition update failed")
		return err
	}
	m.shown = p
	return nil
}

func (m *compositionManager) write(s EditSession, p pendingEdit) error {
	if m.comp == nil {
		r, err := m.openRange(s)
		if err != nil {
			return err
		}
		comp, err := s.StartComposition(r)
		if err != nil {
			return fmt.Errorf("starting composition: %w", err)
		}
		m.comp = comp
	}
	r := m.comp.Range()
	if err := r.SetText(p.text); err != nil {
		return fmt.Errorf("setting composition text: %w", err)
	}
	if err := r.SetDisplayAttribute(); err != nil {
		return fmt.Errorf("setting display attribute: %w", err)
	}
	caret := r.Clone()
	caret.Collapse(AnchorStart)
	caret.ShiftEnd(p.cursor)
	caret.ShiftStart(p.cursor)
	return s.SetSelection(caret)
}

// openRange is where a new composition starts: the text of the last
// accepted edit when it still sits around the caret, else the selection.
func (m *compositionManager) openRange(s EditSession) (TextRange, error) {
	sel, err := s.Selection()
	if err != nil {
		return nil, fmt.Errorf("reading selection: %w", err)
	}
	if m.shown.text == "" {
		return sel, nil
	}
	n := utf8.RuneCountInString(m.shown.text)
	r := sel.Clone()
	r.Collapse(AnchorStart)
	if r.ShiftStart(-m.shown.cursor) != -m.shown.cursor || r.ShiftEnd(n-m.shown.cursor) != n-m.shown.cursor {
		return sel, nil
	}
	if text, err := r.Text(); err != nil || text != m.shown.text {
		return sel, nil
	}
	return r, nil
}

// endComposition finishes the open composition, leaving its text in the
// document and the caret after it.
func (m *compositionManager) endComposition() {
	if m.comp == nil {
		return
	}
	comp := m.comp
	err := m.host.RequestEditSession(ReadWrite, func(s EditSession) error {
		r := comp.Range()
		if err := r.ClearDisplayAttribute(); err != nil {
			return fmt.Errorf("clearing display attribute: %w", err)
		}
		end := r.Clone()
		end.Collapse(AnchorEnd)
		if err := s.SetSelection(end); err != nil {
			return fmt.Errorf("moving caret: %w", err)
		}
		return comp.End()
	})
	if err != nil {
		m.log.Warn().Err(err).Msg("ending composition failed")
	}
	m.discard()
}

// commitDirect inserts text at the selection without a composition.
func (m *compositionManager) commitDirect(text string) error {
	return m.host.RequestEditSession(ReadWrite, func(s EditSession) error {
		sel, err := s.Selection()
		if err != nil {
			return fmt.Errorf("reading selection: %w", err)
		}
		if err := sel.SetText(text); err != nil {
			return fmt.Errorf("inserting text: %w", err)
		}
		sel.Collapse(AnchorEnd)
		return s.SetSelection(sel)
	})
}

// discard forgets the composition and any pending edit. The host has
// already ended the composition.
func (m *compositionManager) discard() {
	m.comp = nil
	m.dirty = false
	m.pending = pendingEdit{}
	m.shown = pendingEdit{}
}
