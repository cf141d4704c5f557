package ime

import (
	"errors"
	"fmt"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/f3rmion/bopo/internal/candidate"
	"github.com/f3rmion/bopo/internal/engine"
	"github.com/f3rmion/bopo/internal/keys"
	"github.com/rs/zerolog"
)

// Command is a menu command sent to the input method.
type Command int

const (
	CmdToggleLanguage Command = iota
	CmdToggleShape
	CmdReloadConfig
	CmdOpenSymbols
	CmdToggleKeyboard
)

func (c Command) String() string {
	switch c {
	case CmdToggleLanguage:
		return "toggle_language"
	case CmdToggleShape:
		return "toggle_shape"
	case CmdReloadConfig:
		return "reload_config"
	case CmdOpenSymbols:
		return "open_symbols"
	case CmdToggleKeyboard:
		return "toggle_keyboard"
	}
	return "unknown"
}

var ErrMissingDependency = errors.New("missing dependency")

// Deps are the collaborators of a Coordinator. Host, Engine and Options
// are required.
type Deps struct {
	Host       Host
	Engine     engine.Engine
	Options    OptionsSource
	Candidates candidate.Renderer
	Indicator  Indicator
	Notifier   Notifier
	Log        zerolog.Logger
	// Now is the clock used for the Shift tap; nil means time.Now.
	Now func() time.Time
}

// Coordinator is the input method state machine for one activation. It is
// driven by host callbacks on a single goroutine. Every entry point that
// changes state refuses to run while another one is on the stack.
type Coordinator struct {
	host  Host
	eng   engine.Engine
	modes *modeState
	comp  compositionManager
	cands *candidate.List
	shift shiftState
	style candidate.Style
	log   zerolog.Logger
	now   func() time.Time

	open bool
	busy bool
}

// New builds a Coordinator and pushes the initial options into the engine.
// An error here aborts activation.
func New(deps Deps) (*Coordinator, error) {
	switch {
	case deps.Host == nil:
		return nil, fmt.Errorf("%w: host", ErrMissingDependency)
	case deps.Engine == nil:
		return nil, fmt.Errorf("%w: engine", ErrMissingDependency)
	case deps.Options == nil:
		return nil, fmt.Errorf("%w: options", ErrMissingDependency)
	}
	if deps.Indicator == nil {
		deps.Indicator = nopIndicator{}
	}
	if deps.Notifier == nil {
		deps.Notifier = nopNotifier{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	modes, err := newModeState(deps.Options, deps.Engine, deps.Indicator, deps.Notifier, deps.Log)
	if err != nil {
		return nil, err
	}
	c := &Coordinator{
		host:  deps.Host,
		eng:   deps.Engine,
		modes: modes,
		comp:  compositionManager{host: deps.Host, log: deps.Log},
		cands: candidate.NewList(deps.Candidates),
		style: candidate.DefaultStyle(),
		log:   deps.Log,
		now:   deps.Now,
		open:  true,
	}
	modes.apply()
	return c, nil
}

// guard runs fn as the only active entry point, recovers panics raised by
// collaborators and flushes the pending composition edit once at the end.
func (c *Coordinator) guard(entry string, fn func() bool) (handled bool) {
	if c.busy {
		c.log.Debug().Str("entry", entry).Msg("reentrant call ignored")
		return false
	}
	c.busy = true
	defer func() {
		c.busy = false
		if r := recover(); r != nil {
			c.log.Error().Interface("panic", r).Str("entry", entry).Msg("recovered")
			c.comp.dirty = false
			handled = false
		}
	}()
	handled = fn()
	c.comp.flush()
	return handled
}

// Composing reports whether the engine holds input or a candidate session
// is open.
func (c *Coordinator) Composing() bool {
	return c.comp.composing() || c.eng.Display() != "" ||
		c.eng.SyllableBufferDisplay() != "" || c.eng.IsSelecting()
}

// Language and Shape report the current modes.
func (c *Coordinator) Language() Language { return c.modes.language() }
func (c *Coordinator) Shape() Shape       { return c.modes.shape() }

// KeyboardOpen reports whether the input method takes keys at all.
func (c *Coordinator) KeyboardOpen() bool { return c.open }

// OnTestKeyDown reports whether OnKeyDown would consume ev.
func (c *Coordinator) OnTestKeyDown(ev keys.Event) bool {
	return c.guard("OnTestKeyDown", func() bool {
		return c.testKeyDown(ev)
	})
}

// testKeyDown is the consume predicate shared by both phases. Apart from
// the config reload and Shift bookkeeping it changes nothing.
func (c *Coordinator) testKeyDown(ev keys.Event) bool {
	c.modes.reloadIfNeeded()
	if ev.Has(keys.ModShift) && !ev.IsShift() {
		c.shift.consume()
	}
	opts := &c.modes.opts

	if ev.IsShift() && opts.SwitchLangWithShift {
		return true
	}
	if ev.IsCapsLock() && opts.EnableCapsLock {
		return true
	}
	if !c.open {
		return false
	}
	if _, ok := keys.Match(c.modes.bindings, ev); ok {
		return true
	}
	if ev.IsCapsLock() || isModifierKey(ev) {
		return false
	}
	if c.host.Status()&(StatusReadOnly|StatusEmptyContext|StatusKeyboardDisabled) != 0 {
		return false
	}
	if ev.Has(keys.ModAlt) {
		return false
	}

	composing := c.Composing()
	if ev.Has(keys.ModControl) {
		switch {
		case composing && ev.IsDigitKey() && !ev.Has(keys.ModShift):
			return true
		case c.ctrlEasySymbol(ev):
			return true
		}
		return false
	}

	chinese := c.modes.chineseFor(ev)
	if !composing && !chinese && !c.modes.fullwidth {
		return c.isShapeChord(ev) || c.isInvertCaseChord(ev)
	}
	if composing {
		return true
	}
	if ev.Keysym() == keys.KeySpace {
		return c.modes.fullwidth || c.isShapeChord(ev)
	}
	return ev.IsPrintable()
}

func isModifierKey(ev keys.Event) bool {
	switch ev.Keysym() {
	case keys.KeyShiftL, keys.KeyShiftR, keys.KeyControlL, keys.KeyControlR,
		keys.KeyAltL, keys.KeyAltR, keys.KeySuperL, keys.KeySuperR, keys.KeyNumLock:
		return true
	}
	return false
}

func (c *Coordinator) isShapeChord(ev keys.Event) bool {
	return c.modes.opts.EnableFullwidthToggleKey && ev.Keysym() == keys.KeySpace &&
		ev.Modifiers()&(keys.ModShift|keys.ModControl|keys.ModAlt|keys.ModSuper) == keys.ModShift
}

func (c *Coordinator) isInvertCaseChord(ev keys.Event) bool {
	o := &c.modes.opts
	return o.InvertCapsCase && !o.EnableCapsLock && ev.Has(keys.ModCapsLock) && ev.IsLetter()
}

func (c *Coordinator) ctrlEasySymbol(ev keys.Event) bool {
	return c.modes.opts.EasySymbolsWithShiftCtrl && c.modes.chineseFor(ev) &&
		ev.Has(keys.ModControl|keys.ModShift) && ev.IsLetter()
}

func (c *Coordinator) shiftEasySymbol(ev keys.Event) bool {
	return c.modes.opts.EasySymbolsWithShift && c.modes.chineseFor(ev) &&
		ev.Has(keys.ModShift) && !ev.Has(keys.ModControl) && ev.IsLetter()
}

// OnKeyDown handles ev if the test predicate claims it.
func (c *Coordinator) OnKeyDown(ev keys.Event) bool {
	return c.guard("OnKeyDown", func() bool {
		if !c.testKeyDown(ev) {
			return false
		}
		return c.keyDown(ev)
	})
}

func (c *Coordinator) keyDown(ev keys.Event) bool {
	c.modes.syncCapsLock(ev)

	if ev.IsShift() {
		c.shift.press(c.now())
		return true
	}
	if ev.IsCapsLock() {
		return true
	}
	if b, ok := keys.Match(c.modes.bindings, ev); ok {
		c.runAction(b.Action)
		return true
	}
	if c.isShapeChord(ev) {
		c.modes.toggleShapeMode()
		return true
	}

	if c.eng.IsSelecting() && c.cands.Active() && candidate.IsNavigationKey(ev) {
		switch c.cands.FilterKeyEvent(ev) {
		case candidate.Handled:
			return true
		case candidate.HandledCommit:
			c.eng.Select(c.cands.CurrentSel())
			c.afterEngine()
			return true
		}
	}

	opts := &c.modes.opts
	chinese := c.modes.chineseFor(ev)
	easy := c.shiftEasySymbol(ev) || c.ctrlEasySymbol(ev)
	out := ev
	switch {
	case easy:
		out = keys.NewEvent(ev.Keysym(), ev.Keycode(), ev.Modifiers()&^keys.ModControl)
	case chinese && opts.ShiftLetterMomentaryEnglish && ev.Has(keys.ModShift) && ev.IsLetter():
		chinese = false
		if !opts.UpperCaseWithShift {
			out = ev.InvertCase()
		}
	case !chinese && c.isInvertCaseChord(ev):
		out = ev.InvertCase()
	}
	fullwidth := c.modes.fullwidth ||
		(chinese && opts.FullShapeSymbols && ev.IsPrintable() && !ev.IsLetter() && !ev.IsDigitKey())

	c.eng.SetEditorOptions(c.modes.editorOptions(chinese, fullwidth, easy))
	c.eng.ProcessKeyEvent(out)
	behavior := c.eng.LastKeyBehavior()
	c.log.Debug().Stringer("key", ev).Stringer("behavior", behavior).Msg("key processed")
	if behavior == engine.Ignore {
		return false
	}
	c.afterEngine()
	return true
}

func (c *Coordinator) runAction(a keys.Action) {
	switch a {
	case keys.ActionToggleLanguage:
		c.modes.toggleLanguageMode()
	case keys.ActionToggleShape:
		c.modes.toggleShapeMode()
	case keys.ActionOpenSymbols:
		c.eng.OpenSymbolTable()
		c.afterEngine()
	}
}

// afterEngine reads the engine back into the candidate window and the
// host composition.
func (c *Coordinator) afterEngine() {
	if n := c.eng.Notification(); n != "" && c.modes.opts.ShowNotification {
		c.modes.notifier.Notify(n)
	}
	c.updateComposition()
	c.updateCandidates()
}

func (c *Coordinator) updateComposition() {
	text, cursor := c.compositionText()

	if commit := c.eng.DisplayCommit(); commit != "" {
		c.eng.Ack()
		c.commit(commit)
	}

	switch {
	case text != "" || c.eng.IsSelecting():
		c.comp.setCompositionString(text, cursor)
	case c.comp.composing():
		c.comp.setCompositionString("", 0)
		c.comp.flush()
		c.comp.endComposition()
	}
}

// commit finishes the composition with text. When the composition cannot
// take it, the text is inserted at the selection instead.
func (c *Coordinator) commit(text string) {
	if c.comp.composing() {
		c.comp.setCompositionString(text, utf8.RuneCountInString(text))
		err := c.comp.flush()
		shown := c.comp.shown.text
		c.comp.endComposition()
		if err == nil || shown == text {
			return
		}
	}
	if err := c.comp.commitDirect(text); err != nil {
		c.log.Warn().Err(err).Str("text", text).Msg("commit failed")
	}
}

// compositionText is the buffer with the syllable being typed shown at the
// cursor, and the caret after the syllable.
func (c *Coordinator) compositionText() (string, int) {
	buf := []rune(c.eng.Display())
	syl := []rune(c.eng.SyllableBufferDisplay())
	cur := min(max(c.eng.Cursor(), 0), len(buf))

	out := make([]rune, 0, len(buf)+len(syl))
	out = append(out, buf[:cur]...)
	out = append(out, syl...)
	out = append(out, buf[cur:]...)
	return string(out), cur + len(syl)
}

func (c *Coordinator) updateCandidates() {
	if !c.eng.IsSelecting() {
		c.cands.End()
		return
	}
	items := c.eng.PaginatedCandidates()
	page := c.eng.CurrentPageNo()
	if c.cands.Active() && c.cands.Page() == page && slices.Equal(c.cands.Items(), items) {
		// Same page: keep the selection the user moved to.
		c.cands.Show()
		return
	}
	selKeys := []rune(c.modes.opts.SelKeys)
	if len(selKeys) > len(items) {
		selKeys = selKeys[:len(items)]
	}
	c.cands.SetModel(candidate.Model{
		Items:   items,
		SelKeys: selKeys,
		PerRow:  c.modes.opts.CandPerRow,
		Page:    page,
		Total:   c.eng.TotalPage(),
		Style:   c.style,
	})
	c.placeCandidates()
	c.cands.Show()
}

// placeCandidates moves the candidate window under the selection.
func (c *Coordinator) placeCandidates() {
	err := c.host.RequestEditSession(ReadOnly, func(s EditSession) error {
		sel, err := s.Selection()
		if err != nil {
			return err
		}
		rect, err := s.TextRect(sel)
		if err != nil {
			return err
		}
		c.cands.SetPosition(rect.X, rect.Y+rect.H)
		return nil
	})
	if err != nil {
		c.log.Debug().Err(err).Msg("candidate window not placed")
	}
}

// OnTestKeyUp reports whether OnKeyUp would consume ev.
func (c *Coordinator) OnTestKeyUp(ev keys.Event) bool {
	return c.guard("OnTestKeyUp", func() bool {
		return c.testKeyUp(ev)
	})
}

func (c *Coordinator) testKeyUp(ev keys.Event) bool {
	opts := &c.modes.opts
	return (ev.IsShift() && opts.SwitchLangWithShift) || (ev.IsCapsLock() && opts.EnableCapsLock)
}

// OnKeyUp completes the Shift tap gesture.
func (c *Coordinator) OnKeyUp(ev keys.Event) bool {
	return c.guard("OnKeyUp", func() bool {
		if !c.testKeyUp(ev) {
			return false
		}
		if ev.IsShift() {
			held, tap := c.shift.release(c.now())
			window := time.Duration(c.modes.opts.ShiftKeySensitivity) * time.Millisecond
			if tap && held < window {
				c.modes.toggleLanguageMode()
			}
		}
		return true
	})
}

// OnCompositionTerminated is called by the host when it ends the
// composition on its own, e.g. when focus moves elsewhere.
func (c *Coordinator) OnCompositionTerminated() {
	c.guard("OnCompositionTerminated", func() bool {
		c.cands.End()
		c.eng.ClearSyllableEditor()
		c.eng.ClearCompositionEditor()
		c.comp.discard()
		return true
	})
}

// OnCommand runs a menu command.
func (c *Coordinator) OnCommand(cmd Command) bool {
	return c.guard("OnCommand", func() bool {
		c.log.Debug().Stringer("command", cmd).Msg("command")
		switch cmd {
		case CmdToggleLanguage:
			return c.modes.toggleLanguageMode()
		case CmdToggleShape:
			c.modes.toggleShapeMode()
		case CmdReloadConfig:
			c.modes.reload()
		case CmdOpenSymbols:
			if !c.open {
				return false
			}
			c.runAction(keys.ActionOpenSymbols)
		case CmdToggleKeyboard:
			c.setOpen(!c.open)
		default:
			return false
		}
		return true
	})
}

func (c *Coordinator) setOpen(open bool) {
	if !open {
		c.finish()
	}
	c.open = open
}

// finish commits whatever is being composed and clears the engine.
func (c *Coordinator) finish() {
	c.cands.End()
	c.eng.CancelSelecting()
	c.eng.ClearSyllableEditor()
	c.eng.ClearCompositionEditor()
	c.comp.dirty = false
	c.comp.endComposition()
}

// Activate is called when the input method becomes the active one.
func (c *Coordinator) Activate() bool {
	return c.guard("Activate", func() bool {
		c.modes.reload()
		c.modes.apply()
		return true
	})
}

// Deactivate commits the composition as shown and resets the engine.
func (c *Coordinator) Deactivate() bool {
	return c.guard("Deactivate", func() bool {
		c.finish()
		c.shift = shiftState{}
		return true
	})
}

// OnFocus hides the candidate window while the document is unfocused.
func (c *Coordinator) OnFocus(focused bool) bool {
	return c.guard("OnFocus", func() bool {
		switch {
		case !focused:
			c.cands.Hide()
		case c.eng.IsSelecting() && c.cands.Active():
			c.placeCandidates()
			c.cands.Show()
		}
		return true
	})
}

// Candidates exposes the candidate window controller to renderers.
func (c *Coordinator) Candidates() *candidate.List { return c.cands }
