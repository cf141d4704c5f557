package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/bopo/internal/clipboard"
	"github.com/f3rmion/bopo/internal/engine"
	"github.com/f3rmion/bopo/internal/ime"
	"github.com/f3rmion/bopo/internal/keys"
	"github.com/f3rmion/bopo/internal/surface"
	"github.com/rs/zerolog"
)

const noticeTimeout = 2 * time.Second

// keyMap holds the keys the host keeps for itself.
type keyMap struct {
	Quit     key.Binding
	Reload   key.Binding
	Keyboard key.Binding
	ShiftTap key.Binding
	Copy     key.Binding
	Clear    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Reload:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload config")),
		Keyboard: key.NewBinding(key.WithKeys("f4"), key.WithHelp("f4", "ime on/off")),
		ShiftTap: key.NewBinding(key.WithKeys("f5"), key.WithHelp("f5", "shift tap")),
		Copy:     key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy")),
		Clear:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ShiftTap, k.Keyboard, k.Reload, k.Copy, k.Clear, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

// Config are the collaborators of the app.
type Config struct {
	Engine  engine.Engine
	Options ime.OptionsSource
	Log     zerolog.Logger
	// Copy puts text on the clipboard; nil means the system clipboard.
	Copy func(string) error
}

type clearNoticeMsg struct{ seq int }

// AppModel is the terminal editor. Terminal key presses are replayed as
// physical strokes through the same two phase protocol a desktop host
// uses.
type AppModel struct {
	doc *surface.Document
	drv *surface.Driver
	im  *ime.Coordinator
	win *CandidateWindow
	bar *LanguageBar
	log zerolog.Logger
	cp  func(string) error

	keys keyMap
	help help.Model

	width  int
	height int
	err    error
}

// NewApp builds the document and the input method around it.
func NewApp(cfg Config) (AppModel, error) {
	doc := surface.New()
	win := &CandidateWindow{}
	bar := &LanguageBar{}

	im, err := ime.New(ime.Deps{
		Host:       doc,
		Engine:     cfg.Engine,
		Options:    cfg.Options,
		Candidates: win,
		Indicator:  bar,
		Notifier:   bar,
		Log:        cfg.Log,
	})
	if err != nil {
		return AppModel{}, fmt.Errorf("starting input method: %w", err)
	}
	if cfg.Copy == nil {
		cfg.Copy = clipboard.Write
	}
	doc.OnTerminated(im.OnCompositionTerminated)

	return AppModel{
		doc:  doc,
		drv:  surface.NewDriver(doc, im),
		im:   im,
		win:  win,
		bar:  bar,
		log:  cfg.Log,
		cp:   cfg.Copy,
		keys: defaultKeyMap(),
		help: help.New(),
	}, nil
}

// Init activates the input method.
func (m AppModel) Init() tea.Cmd {
	m.im.Activate()
	return nil
}

// Update handles messages
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.FocusMsg:
		m.im.OnFocus(true)
		return m, nil

	case tea.BlurMsg:
		m.im.OnFocus(false)
		return m, nil

	case clearNoticeMsg:
		m.bar.ClearNotice(msg.seq)
		return m, nil

	case tea.KeyMsg:
		_, before := m.bar.Notice()
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.im.Deactivate()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reload):
			m.im.OnCommand(ime.CmdReloadConfig)
		case key.Matches(msg, m.keys.Keyboard):
			m.im.OnCommand(ime.CmdToggleKeyboard)
		case key.Matches(msg, m.keys.ShiftTap):
			m.err = m.drv.Type("shift")
		case key.Matches(msg, m.keys.Copy):
			m.err = m.copyText()
		case key.Matches(msg, m.keys.Clear):
			m.doc.Terminate()
			m.doc.SetText("")
		default:
			m.err = m.press(msg)
		}
		if _, seq := m.bar.Notice(); seq != before {
			return m, tea.Tick(noticeTimeout, func(time.Time) tea.Msg { return clearNoticeMsg{seq} })
		}
		return m, nil
	}
	return m, nil
}

// copyText copies the document without the open composition.
func (m AppModel) copyText() error {
	text := []rune(m.doc.Text())
	if start, end, ok := m.doc.Composition(); ok {
		text = append(text[:start:start], text[end:]...)
	}
	if err := m.cp(string(text)); err != nil {
		return fmt.Errorf("copying: %w", err)
	}
	m.bar.Notify("已複製")
	return nil
}

func (m AppModel) press(msg tea.KeyMsg) error {
	strokes, err := StrokesFor(msg)
	if err != nil {
		m.log.Debug().Err(err).Str("key", msg.String()).Msg("key not mapped")
		return err
	}
	for _, s := range strokes {
		m.drv.Press(s)
	}
	return nil
}

// View renders the model
func (m AppModel) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("bopo 注音"))
	b.WriteString("\n")

	editor := EditorStyle
	if m.width > 4 {
		editor = editor.Width(m.width - 2)
	}
	b.WriteString(editor.Render(renderDocument(m.doc.Snapshot())))
	b.WriteString("\n")

	if win := m.win.Render(); win != "" {
		// +2 for the editor border and padding.
		b.WriteString(lipgloss.NewStyle().MarginLeft(m.win.Column() + 2).Render(win))
		b.WriteString("\n")
	}

	b.WriteString(m.bar.Render(m.im.KeyboardOpen()))
	if m.err != nil {
		b.WriteString(" " + ErrorStyle.Render(m.err.Error()))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// Text returns the document text.
func (m AppModel) Text() string { return m.doc.Text() }

// renderDocument draws the text with the composition underlined and the
// caret in reverse video.
func renderDocument(s surface.Snapshot) string {
	var b strings.Builder
	for i := 0; i <= len(s.Text); i++ {
		var r rune = ' '
		if i < len(s.Text) {
			r = s.Text[i]
		}
		style := TextStyle
		if s.Composing && i >= s.CompStart && i < s.CompEnd {
			style = CompositionStyle
		}
		if i == s.Caret {
			style = style.Inherit(CaretStyle)
			if r == '\n' {
				b.WriteString(style.Render(" "))
			}
		}
		switch {
		case r == '\n':
			b.WriteString("\n")
		case i == len(s.Text) && i != s.Caret:
		default:
			b.WriteString(style.Render(string(r)))
		}
	}
	return b.String()
}

// StrokesFor maps a terminal key press to the physical strokes that
// produce it. Terminals do not report lone modifier keys.
func StrokesFor(msg tea.KeyMsg) ([]keys.Stroke, error) {
	var name string
	switch msg.Type {
	case tea.KeyRunes:
		out := make([]keys.Stroke, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			s, ok := keys.StrokeForRune(r)
			if !ok {
				return nil, fmt.Errorf("no key types %q", r)
			}
			s.Alt = msg.Alt
			out = append(out, s)
		}
		return out, nil
	case tea.KeySpace:
		name = "space"
	case tea.KeyCtrlAt:
		name = "ctrl+space"
	default:
		name = strings.ReplaceAll(msg.String(), "pgdown", "pgdn")
	}
	s, err := keys.ParseStroke(name)
	if err != nil {
		return nil, err
	}
	if msg.Alt && msg.Type == tea.KeySpace {
		s.Alt = true
	}
	return []keys.Stroke{s}, nil
}
