package ime

import (
	"fmt"

	"github.com/f3rmion/bopo/internal/config"
	"github.com/f3rmion/bopo/internal/engine"
	"github.com/f3rmion/bopo/internal/keys"
	"github.com/rs/zerolog"
)

// modeState holds the live options and the language and shape modes, and
// keeps the engine and the indicator in step with them.
type modeState struct {
	src       OptionsSource
	eng       engine.Engine
	indicator Indicator
	notifier  Notifier
	log       zerolog.Logger

	opts      config.Options
	bindings  []keys.Binding
	chinese   bool
	fullwidth bool
}

func newModeState(src OptionsSource, eng engine.Engine, ind Indicator, n Notifier, log zerolog.Logger) (*modeState, error) {
	opts, err := src.Load()
	if err != nil {
		return nil, fmt.Errorf("loading options: %w", err)
	}
	m := &modeState{src: src, eng: eng, indicator: ind, notifier: n, log: log}
	m.set(opts)
	m.chinese = opts.DefaultChinese
	m.fullwidth = opts.DefaultFullwidth
	return m, nil
}

func (m *modeState) set(opts config.Options) {
	m.opts = opts
	m.bindings = keys.ParseBindings(opts.Keybindings, m.log)
}

// reloadIfNeeded reloads the options when the store reports a change. It
// returns false, touching nothing, when the loaded options equal the held
// ones or the load fails.
func (m *modeState) reloadIfNeeded() bool {
	if !m.src.Changed() {
		return false
	}
	return m.reload()
}

func (m *modeState) reload() bool {
	opts, err := m.src.Load()
	if err != nil {
		m.log.Warn().Err(err).Msg("keeping previous options")
		return false
	}
	if opts.Equal(m.opts) {
		m.log.Trace().Msg("options unchanged")
		return false
	}
	m.set(opts)
	m.log.Info().Str("layout", opts.KeyboardLayout).Str("engine", opts.ConversionEngine).
		Msg("options reloaded")
	m.apply()
	return true
}

// apply pushes the options and modes into the engine and the indicator.
func (m *modeState) apply() {
	layout, err := engine.ParseLayout(m.opts.KeyboardLayout)
	if err != nil {
		m.log.Warn().Err(err).Msg("using standard layout")
	}
	kind, err := engine.ParseKind(m.opts.ConversionEngine)
	if err != nil {
		m.log.Warn().Err(err).Msg("using simple conversion")
	}
	m.eng.SetSyllableEditor(layout)
	m.eng.SetConversionEngine(kind)
	m.eng.SetEditorOptions(m.editorOptions(m.chinese, m.fullwidth, false))
	m.refreshIndicator()
}

// editorOptions returns the engine options for one key pass.
func (m *modeState) editorOptions(chinese, fullwidth, easy bool) func(*engine.Options) {
	o := m.opts
	return func(e *engine.Options) {
		e.Chinese = chinese
		e.Fullwidth = fullwidth
		e.EasySymbolInput = easy
		e.CandPerPage = o.CandPerPage
		e.SelKeys = []rune(o.SelKeys)
		e.SpaceAsSelection = o.SpaceAsSelection
		e.EscCleanAllBuffer = o.EscCleanAllBuffer
		e.AutoShiftCursor = o.AutoShiftCursor || o.AdvanceAfterSelection
		e.AddPhraseForward = o.AddPhraseForward
		e.MaxChiSymbolLen = o.MaxChiSymbolLen
		e.EasySymbols = o.EasySymbols
	}
}

// chineseFor is the language that applies to ev. With CapsLock as the
// language switch, CapsLock on means English.
func (m *modeState) chineseFor(ev keys.Event) bool {
	if m.opts.EnableCapsLock {
		return !ev.Has(keys.ModCapsLock)
	}
	return m.chinese
}

// syncCapsLock follows the CapsLock toggle when it is the language switch.
func (m *modeState) syncCapsLock(ev keys.Event) {
	if !m.opts.EnableCapsLock {
		return
	}
	if want := !ev.Has(keys.ModCapsLock); want != m.chinese {
		m.setLanguage(want)
	}
}

// toggleLanguageMode flips the language. It does nothing when CapsLock
// drives the language.
func (m *modeState) toggleLanguageMode() bool {
	if m.opts.EnableCapsLock {
		m.log.Debug().Msg("language follows CapsLock")
		return false
	}
	m.setLanguage(!m.chinese)
	return true
}

func (m *modeState) setLanguage(chinese bool) {
	m.chinese = chinese
	m.eng.SetEditorOptions(func(o *engine.Options) { o.Chinese = chinese })
	m.refreshIndicator()
	m.notify(m.language().String() + "文")
}

func (m *modeState) toggleShapeMode() {
	m.fullwidth = !m.fullwidth
	fw := m.fullwidth
	m.eng.SetEditorOptions(func(o *engine.Options) { o.Fullwidth = fw })
	m.refreshIndicator()
	m.notify(m.shape().String() + "形")
}

func (m *modeState) language() Language {
	if m.chinese {
		return Chinese
	}
	return English
}

func (m *modeState) shape() Shape {
	if m.fullwidth {
		return FullWidth
	}
	return HalfWidth
}

func (m *modeState) refreshIndicator() {
	m.indicator.SetModes(m.language(), m.shape())
}

func (m *modeState) notify(text string) {
	if m.opts.ShowNotification {
		m.notifier.Notify(text)
	}
}
