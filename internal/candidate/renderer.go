// Package candidate holds the candidate window state: the visible
// candidates, the selection cursor and paging, and the mapping of
// navigation keys onto selection changes.
package candidate

// Style carries the look of the candidate window. Renderers interpret the
// colors ("#rrggbb" or ANSI numbers) and ignore what they cannot show.
type Style struct {
	Font        string
	FontSize    int
	Foreground  string
	Background  string
	HighlightFg string
	HighlightBg string
	SelKeyColor string
}

// DefaultStyle matches the terminal renderer's palette.
func DefaultStyle() Style {
	return Style{
		FontSize:    16,
		Foreground:  "#E0E0E0",
		Background:  "#1E1E2E",
		HighlightFg: "#FFFFFF",
		HighlightBg: "#7D56F4",
		SelKeyColor: "#FF6B6B",
	}
}

// View is a snapshot of the window handed to a Renderer on every change.
type View struct {
	Items   []string
	SelKeys []rune
	PerRow  int
	Current int
	Page    int
	Total   int
	Style   Style
}

// Renderer draws the candidate window. Calls happen on the key handling
// path and must not re-enter the input method.
type Renderer interface {
	Refresh(View)
	Show()
	Hide()
	SetPosition(x, y int)
}

// NopRenderer draws nothing.
type NopRenderer struct{}

func (NopRenderer) Refresh(View)         {}
func (NopRenderer) Show()                {}
func (NopRenderer) Hide()                {}
func (NopRenderer) SetPosition(int, int) {}
