package surface

import (
	"testing"

	"github.com/f3rmion/bopo/internal/ime"
	"github.com/f3rmion/bopo/internal/keys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, d *Document, fn func(ime.EditSession) error) {
	t.Helper()
	require.NoError(t, d.RequestEditSession(ime.ReadWrite, fn))
}

func TestSessionsDoNotNest(t *testing.T) {
	d := New()
	err := d.RequestEditSession(ime.ReadOnly, func(ime.EditSession) error {
		return d.RequestEditSession(ime.ReadOnly, func(ime.EditSession) error { return nil })
	})
	assert.ErrorIs(t, err, ime.ErrReentrant)
	assert.Equal(t, 1, d.Sessions(ime.ReadOnly))
}

func TestReadOnlyDocumentRefusesWrites(t *testing.T) {
	d := New()
	d.SetStatus(ime.StatusReadOnly)
	err := d.RequestEditSession(ime.ReadWrite, func(ime.EditSession) error { return nil })
	assert.ErrorIs(t, err, ime.ErrReadOnly)
	assert.Zero(t, d.Sessions(ime.ReadWrite))

	assert.NoError(t, d.RequestEditSession(ime.ReadOnly, func(ime.EditSession) error { return nil }))
}

func TestReadOnlySessionRefusesEdits(t *testing.T) {
	d := New()
	d.SetText("abc")
	err := d.RequestEditSession(ime.ReadOnly, func(s ime.EditSession) error {
		sel, err := s.Selection()
		require.NoError(t, err)
		_, err = s.StartComposition(sel)
		return err
	})
	assert.ErrorIs(t, err, ime.ErrReadOnly)
}

func TestCompositionLifecycle(t *testing.T) {
	d := New()
	d.SetText("ab")
	d.sel = span{1, 1}

	var comp ime.Composition
	write(t, d, func(s ime.EditSession) error {
		sel, err := s.Selection()
		require.NoError(t, err)
		comp, err = s.StartComposition(sel)
		require.NoError(t, err)
		r := comp.Range()
		require.NoError(t, r.SetText("ㄓㄨ"))
		return r.SetDisplayAttribute()
	})
	assert.Equal(t, "aㄓㄨb", d.Text())
	start, end, ok := d.Composition()
	require.True(t, ok)
	assert.Equal(t, [2]int{1, 3}, [2]int{start, end})

	write(t, d, func(s ime.EditSession) error {
		r := comp.Range()
		require.NoError(t, r.SetText("中"))
		text, err := r.Text()
		require.NoError(t, err)
		assert.Equal(t, "中", text)
		return nil
	})
	assert.Equal(t, "a中b", d.Text())
	as, ae, ok := d.Attributed()
	require.True(t, ok)
	assert.Equal(t, [2]int{1, 2}, [2]int{as, ae}, "attribute follows the composition")

	write(t, d, func(s ime.EditSession) error {
		require.NoError(t, comp.Range().ClearDisplayAttribute())
		return comp.End()
	})
	_, _, ok = d.Composition()
	assert.False(t, ok)
	_, _, ok = d.Attributed()
	assert.False(t, ok)
	assert.ErrorIs(t, comp.End(), ime.ErrNoComposition)
}

func TestSecondCompositionRefused(t *testing.T) {
	d := New()
	write(t, d, func(s ime.EditSession) error {
		sel, _ := s.Selection()
		_, err := s.StartComposition(sel)
		require.NoError(t, err)
		_, err = s.StartComposition(sel)
		assert.ErrorIs(t, err, ErrCompositionOpen)
		return nil
	})
}

func TestRangesOutsideSessionFail(t *testing.T) {
	d := New()
	var r ime.TextRange
	write(t, d, func(s ime.EditSession) error {
		var err error
		r, err = s.Selection()
		return err
	})
	assert.ErrorIs(t, r.SetText("x"), ErrNoSession)
	assert.ErrorIs(t, r.SetDisplayAttribute(), ErrNoSession)
}

func TestCaretRangeArithmetic(t *testing.T) {
	d := New()
	d.SetText("hello")
	write(t, d, func(s ime.EditSession) error {
		r, err := s.Selection()
		require.NoError(t, err)
		r.ShiftStart(-10)
		r.ShiftEnd(-3)
		assert.Equal(t, span{0, 2}, r.(*textRange).span)
		r.Collapse(ime.AnchorEnd)
		assert.Equal(t, span{2, 2}, r.(*textRange).span)
		return s.SetSelection(r)
	})
	s, e := d.Selection()
	assert.Equal(t, [2]int{2, 2}, [2]int{s, e})
}

func TestTerminateNotifies(t *testing.T) {
	d := New()
	called := 0
	d.OnTerminated(func() { called++ })

	d.Terminate()
	assert.Zero(t, called, "nothing to end")

	write(t, d, func(s ime.EditSession) error {
		sel, _ := s.Selection()
		_, err := s.StartComposition(sel)
		return err
	})
	d.Terminate()
	assert.Equal(t, 1, called)
	_, _, ok := d.Composition()
	assert.False(t, ok)
}

func TestTextRect(t *testing.T) {
	d := New()
	d.SetText("ab\n中文x")
	write(t, d, func(s ime.EditSession) error {
		r, _ := s.Selection()
		rect, err := s.TextRect(r)
		require.NoError(t, err)
		assert.Equal(t, ime.Rect{X: 5, Y: 1, W: 1, H: 1}, rect)
		return nil
	})
}

func TestDefaultKeyAction(t *testing.T) {
	d := New()
	ev := func(sym keys.Keysym) keys.Event { return keys.NewEvent(sym, keys.CodeUnknown, keys.ModNone) }

	for _, r := range "abc" {
		d.DefaultKeyAction(ev(keys.KeysymFromRune(r)))
	}
	assert.Equal(t, "abc", d.Text())

	d.DefaultKeyAction(ev(keys.KeyLeft))
	d.DefaultKeyAction(ev(keys.KeyBackSpace))
	assert.Equal(t, "ac", d.Text())
	d.DefaultKeyAction(ev(keys.KeyDelete))
	assert.Equal(t, "a", d.Text())
	d.DefaultKeyAction(ev(keys.KeyHome))
	d.DefaultKeyAction(ev(keys.KeyReturn))
	assert.Equal(t, "\na", d.Text())

	d.DefaultKeyAction(keys.NewEvent('z', keys.CodeZ, keys.ModControl))
	assert.Equal(t, "\na", d.Text())
}

func TestSnapshot(t *testing.T) {
	d := New()
	d.SetText("xy")
	write(t, d, func(s ime.EditSession) error {
		sel, _ := s.Selection()
		c, err := s.StartComposition(sel)
		require.NoError(t, err)
		require.NoError(t, c.Range().SetText("ㄅ"))
		return c.Range().SetDisplayAttribute()
	})
	snap := d.Snapshot()
	assert.Equal(t, "xyㄅ", string(snap.Text))
	assert.True(t, snap.Composing)
	assert.Equal(t, 2, snap.CompStart)
	assert.Equal(t, 3, snap.CompEnd)
	assert.Equal(t, 3, snap.Caret)
}
