package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/bopo/internal/candidate"
	"github.com/f3rmion/bopo/internal/ime"
	"github.com/mattn/go-runewidth"
)

// CandidateWindow draws the candidate list as a bordered grid. It is the
// candidate.Renderer of the terminal host.
type CandidateWindow struct {
	view    candidate.View
	visible bool
	x, y    int
}

var _ candidate.Renderer = (*CandidateWindow)(nil)

func (w *CandidateWindow) Refresh(v candidate.View) { w.view = v }
func (w *CandidateWindow) Show()                    { w.visible = true }
func (w *CandidateWindow) Hide()                    { w.visible = false }
func (w *CandidateWindow) SetPosition(x, y int)     { w.x, w.y = x, y }

// Visible reports whether the window is shown.
func (w *CandidateWindow) Visible() bool { return w.visible && len(w.view.Items) > 0 }

// Column is the screen column the window is anchored to.
func (w *CandidateWindow) Column() int { return w.x }

// Render returns the window, or "" when hidden.
func (w *CandidateWindow) Render() string {
	if !w.Visible() {
		return ""
	}
	v := w.view
	st := v.Style
	key := lipgloss.NewStyle().Foreground(lipgloss.Color(st.SelKeyColor)).Bold(true)
	item := lipgloss.NewStyle().Foreground(lipgloss.Color(st.Foreground))
	hi := lipgloss.NewStyle().
		Foreground(lipgloss.Color(st.HighlightFg)).
		Background(lipgloss.Color(st.HighlightBg))

	// Pad items to a common width so the grid lines up.
	width := 0
	for _, it := range v.Items {
		width = max(width, runewidth.StringWidth(it))
	}

	perRow := max(v.PerRow, 1)
	var rows []string
	var row []string
	for i, it := range v.Items {
		label := " "
		if i < len(v.SelKeys) {
			label = string(v.SelKeys[i])
		}
		cell := item.Render(runewidth.FillRight(it, width))
		if i == v.Current {
			cell = hi.Render(runewidth.FillRight(it, width))
		}
		row = append(row, key.Render(label)+"."+cell)
		if len(row) == perRow {
			rows = append(rows, strings.Join(row, " "))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, strings.Join(row, " "))
	}
	if v.Total > 1 {
		rows = append(rows, CandidatePageStyle.Render(fmt.Sprintf("%d/%d", v.Page+1, v.Total)))
	}

	box := CandidateBoxStyle.BorderForeground(lipgloss.Color(st.HighlightBg))
	return box.Render(strings.Join(rows, "\n"))
}

// LanguageBar shows the current modes and the last notification. It is the
// Indicator and Notifier of the terminal host.
type LanguageBar struct {
	lang   ime.Language
	shape  ime.Shape
	notice string
	seq    int
}

var (
	_ ime.Indicator = (*LanguageBar)(nil)
	_ ime.Notifier  = (*LanguageBar)(nil)
)

func (b *LanguageBar) SetModes(l ime.Language, s ime.Shape) { b.lang, b.shape = l, s }

func (b *LanguageBar) Notify(text string) {
	b.notice = text
	b.seq++
}

// Notice returns the notification shown and its sequence number.
func (b *LanguageBar) Notice() (string, int) { return b.notice, b.seq }

// ClearNotice drops the notification if it is still number seq.
func (b *LanguageBar) ClearNotice(seq int) {
	if b.seq == seq {
		b.notice = ""
	}
}

// Render draws the badges, greyed out when the keyboard is closed.
func (b *LanguageBar) Render(open bool) string {
	badge := BadgeStyle
	if !open {
		badge = BadgeOffStyle
	}
	out := badge.Render(b.lang.String()) + " " + badge.Render(b.shape.String())
	if b.notice != "" {
		out += NoticeStyle.Render(b.notice)
	}
	return out
}
