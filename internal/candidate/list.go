package candidate

import (
	"github.com/f3rmion/bopo/internal/keys"
)

// FilterResult is the outcome of offering a key to the candidate window.
type FilterResult int

const (
	NotHandled FilterResult = iota
	Handled
	HandledCommit
)

func (r FilterResult) String() string {
	switch r {
	case Handled:
		return "handled"
	case HandledCommit:
		return "handled_commit"
	}
	return "not_handled"
}

// Model is the content of one candidate page.
type Model struct {
	Items   []string
	SelKeys []rune
	PerRow  int
	Page    int // zero based
	Total   int
	Style   Style
}

// List is the candidate window controller. It exists across sessions; a
// session starts with SetModel and ends with End.
type List struct {
	r Renderer

	model     Model
	sel       int
	visible   bool
	hasResult bool
	x, y      int
}

// NewList returns a List drawing through r.
func NewList(r Renderer) *List {
	if r == nil {
		r = NopRenderer{}
	}
	return &List{r: r}
}

// SetModel replaces the candidates. The selection returns to the first
// item and any pending result is cleared.
func (l *List) SetModel(m Model) {
	if m.PerRow < 1 {
		m.PerRow = 1
	}
	l.model = m
	l.sel = 0
	l.hasResult = false
	l.refresh()
}

// Show makes the window visible.
func (l *List) Show() {
	if l.visible {
		return
	}
	l.visible = true
	l.r.Show()
}

// Hide hides the window without discarding its model.
func (l *List) Hide() {
	if !l.visible {
		return
	}
	l.visible = false
	l.r.Hide()
}

// SetPosition moves the window to the given screen cell.
func (l *List) SetPosition(x, y int) {
	if l.x == x && l.y == y {
		return
	}
	l.x, l.y = x, y
	l.r.SetPosition(x, y)
}

// Position returns the last position set.
func (l *List) Position() (x, y int) { return l.x, l.y }

// FilterKeyEvent applies a navigation key to the selection. Moves that
// would leave the item range leave the selection alone and pass the key
// through.
func (l *List) FilterKeyEvent(ev keys.Event) FilterResult {
	n := len(l.model.Items)
	if n == 0 {
		return NotHandled
	}
	switch ev.Keysym() {
	case keys.KeyUp:
		return l.move(-l.model.PerRow)
	case keys.KeyDown:
		return l.move(l.model.PerRow)
	case keys.KeyLeft:
		return l.move(-1)
	case keys.KeyRight:
		return l.move(1)
	case keys.KeyReturn, keys.KeyKPEnter:
		l.hasResult = true
		return HandledCommit
	}
	return NotHandled
}

// IsNavigationKey reports whether FilterKeyEvent may handle ev.
func IsNavigationKey(ev keys.Event) bool {
	switch ev.Keysym() {
	case keys.KeyUp, keys.KeyDown, keys.KeyLeft, keys.KeyRight, keys.KeyReturn, keys.KeyKPEnter:
		return true
	}
	return false
}

func (l *List) move(delta int) FilterResult {
	next := l.sel + delta
	if next < 0 || next >= len(l.model.Items) {
		return NotHandled
	}
	l.sel = next
	l.refresh()
	return Handled
}

// CurrentSel returns the selected index on the current page.
func (l *List) CurrentSel() int { return l.sel }

// HasResult reports whether Enter picked the current selection.
func (l *List) HasResult() bool { return l.hasResult }

// Active reports whether a session is open.
func (l *List) Active() bool { return len(l.model.Items) > 0 }

// Visible reports whether the window is shown.
func (l *List) Visible() bool { return l.visible }

// Items returns the candidates of the current page.
func (l *List) Items() []string { return l.model.Items }

// Page returns the zero based page shown.
func (l *List) Page() int { return l.model.Page }

// End closes the session: the window is hidden and the model dropped.
func (l *List) End() {
	l.Hide()
	l.model = Model{}
	l.sel = 0
	l.hasResult = false
}

func (l *List) refresh() {
	l.r.Refresh(View{
		Items:   l.model.Items,
		SelKeys: l.model.SelKeys,
		PerRow:  l.model.PerRow,
		Current: l.sel,
		Page:    l.model.Page,
		Total:   l.model.Total,
		Style:   l.model.Style,
	})
}
