package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/bopo/internal/candidate"
	"github.com/f3rmion/bopo/internal/config"
	"github.com/f3rmion/bopo/internal/engine"
	"github.com/f3rmion/bopo/internal/ime"
	"github.com/f3rmion/bopo/internal/keys"
	"github.com/f3rmion/bopo/internal/surface"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticOptions struct{ opts config.Options }

func (s staticOptions) Load() (config.Options, error) { return s.opts.Clone(), nil }
func (s staticOptions) Changed() bool                 { return false }

func newTestApp(t *testing.T) AppModel {
	t.Helper()
	return newTestAppCopying(t, func(string) error { return nil })
}

func newTestAppCopying(t *testing.T, cp func(string) error) AppModel {
	t.Helper()
	opts := config.Default()
	opts.Normalize()
	m, err := NewApp(Config{
		Engine:  engine.New(engine.Options{}, engine.LayoutStandard, engine.KindSimple, engine.Deps{Log: zerolog.Nop()}),
		Options: staticOptions{opts},
		Log:     zerolog.Nop(),
		Copy:    cp,
	})
	require.NoError(t, err)
	return m
}

func send(t *testing.T, m AppModel, msgs ...tea.Msg) AppModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(AppModel)
	}
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestAppComposesAndCommits(t *testing.T) {
	m := newTestApp(t)
	m = send(t, m, runes("5j/"), tea.KeyMsg{Type: tea.KeySpace})
	assert.Equal(t, "中", m.Text())
	assert.Contains(t, m.View(), "中")

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "中", m.Text())
	assert.NoError(t, m.err)
}

func TestAppShowsCandidates(t *testing.T) {
	m := newTestApp(t)
	m = send(t, m, runes("5j/"), tea.KeyMsg{Type: tea.KeySpace}, tea.KeyMsg{Type: tea.KeySpace})
	require.True(t, m.win.Visible())
	items := m.im.Candidates().Items()
	require.Greater(t, len(items), 1)
	assert.Contains(t, m.View(), items[1])
}

func TestAppShiftTapAndNotice(t *testing.T) {
	m := newTestApp(t)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyF5})
	m = next.(AppModel)
	assert.Equal(t, ime.English, m.im.Language())
	require.NotNil(t, cmd, "notice is cleared later")
	text, seq := m.bar.Notice()
	assert.Equal(t, "英文", text)

	m = send(t, m, clearNoticeMsg{seq})
	text, _ = m.bar.Notice()
	assert.Empty(t, text)

	m = send(t, m, runes("hi"))
	assert.Equal(t, "hi", m.Text())
}

func TestAppKeyboardToggle(t *testing.T) {
	m := newTestApp(t)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyF4}, runes("5"))
	assert.False(t, m.im.KeyboardOpen())
	assert.Equal(t, "5", m.Text())
}

func TestAppQuitDeactivates(t *testing.T) {
	m := newTestApp(t)
	m = send(t, m, runes("5"))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, "ㄓ", m.Text())
	assert.False(t, m.im.Composing())
}

func TestStrokesFor(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want []keys.Stroke
	}{
		{"runes", runes("aB"), []keys.Stroke{mustStroke(t, "a"), mustStroke(t, "B")}},
		{"space", tea.KeyMsg{Type: tea.KeySpace}, []keys.Stroke{mustStroke(t, "space")}},
		{"ctrl space", tea.KeyMsg{Type: tea.KeyCtrlAt}, []keys.Stroke{mustStroke(t, "ctrl+space")}},
		{"page down", tea.KeyMsg{Type: tea.KeyPgDown}, []keys.Stroke{mustStroke(t, "pagedown")}},
		{"function key", tea.KeyMsg{Type: tea.KeyF2}, []keys.Stroke{mustStroke(t, "f2")}},
		{"ctrl letter", tea.KeyMsg{Type: tea.KeyCtrlA}, []keys.Stroke{mustStroke(t, "ctrl+a")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StrokesFor(tt.msg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := StrokesFor(runes("é"))
	assert.Error(t, err)
}

func mustStroke(t *testing.T, s string) keys.Stroke {
	t.Helper()
	st, err := keys.ParseStroke(s)
	require.NoError(t, err)
	return st
}

func TestCandidateWindowRender(t *testing.T) {
	w := &CandidateWindow{}
	assert.Empty(t, w.Render())

	w.Refresh(candidate.View{
		Items:   []string{"中", "忠", "終", "鐘"},
		SelKeys: []rune("1234"),
		PerRow:  3,
		Current: 1,
		Page:    0,
		Total:   2,
		Style:   candidate.DefaultStyle(),
	})
	w.Show()
	out := w.Render()
	assert.Contains(t, out, "鐘")
	assert.Contains(t, out, "1/2")
	assert.GreaterOrEqual(t, strings.Count(out, "\n"), 3, "two rows, a page line and the border")

	w.Hide()
	assert.Empty(t, w.Render())
}

func TestRenderDocumentMarksCaret(t *testing.T) {
	out := renderDocument(surface.Snapshot{Text: []rune("ab"), Caret: 2})
	assert.Contains(t, out, "a")
	assert.Contains(t, out, "b")
}

func TestAppCopySkipsComposition(t *testing.T) {
	var copied string
	m := newTestAppCopying(t, func(s string) error {
		copied = s
		return nil
	})
	m = send(t, m, runes("5j/"), tea.KeyMsg{Type: tea.KeySpace}, tea.KeyMsg{Type: tea.KeyEnter}, runes("5"))
	require.Equal(t, "中ㄓ", m.Text())

	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.NoError(t, m.err)
	assert.Equal(t, "中", copied)
	text, _ := m.bar.Notice()
	assert.Equal(t, "已複製", text)
}
