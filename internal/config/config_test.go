package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), FileName), zerolog.Nop())

	opts, err := s.Load()
	require.NoError(t, err)

	want := Default()
	want.Normalize()
	assert.True(t, want.Equal(opts), "got %+v", opts)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	s := NewStore(path, zerolog.Nop())

	opts := Default()
	opts.CandPerPage = 7
	opts.KeyboardLayout = LayoutHanyuPinyin
	opts.EasySymbolsWithShift = true
	require.NoError(t, s.Save(opts))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 7, got.CandPerPage)
	assert.Equal(t, LayoutHanyuPinyin, got.KeyboardLayout)
	assert.True(t, got.EasySymbolsWithShift)
	assert.Equal(t, opts.Keybindings, got.Keybindings)
	assert.True(t, opts.Equal(got))

	assert.Equal(t, 7, s.GetInt("cand_per_page"))
	assert.True(t, s.GetBool("easy_symbols_with_shift"))
	assert.Equal(t, LayoutHanyuPinyin, s.GetString("keyboard_layout"))
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("cand_per_page: [oops\n"), 0644))

	_, err := NewStore(path, zerolog.Nop()).Load()
	assert.Error(t, err)
}

func TestOptionsEqual(t *testing.T) {
	a, b := Default(), Default()
	assert.True(t, a.Equal(b))

	b.SpaceAsSelection = !b.SpaceAsSelection
	assert.False(t, a.Equal(b))

	c := Default()
	c.Keybindings[0].Keys = "Ctrl+Shift+Space"
	assert.False(t, a.Equal(c))

	d := Default()
	d.EasySymbols["a"] = "α"
	assert.False(t, a.Equal(d))
}

func TestOptionsClone_IsDeep(t *testing.T) {
	a := Default()
	b := a.Clone()
	b.EasySymbols["a"] = "α"
	b.Keybindings[0].Action = "toggle_shape"
	assert.Equal(t, "∀", a.EasySymbols["a"])
	assert.Equal(t, "toggle_language", a.Keybindings[0].Action)
}

func TestNormalize(t *testing.T) {
	o := Default()
	o.EnableCapsLock = true
	o.SwitchLangWithShift = true
	o.CandPerPage = 42
	o.CandPerRow = 0
	o.KeyboardLayout = "dvorak"
	o.ShiftKeySensitivity = -1
	o.EasySymbols = map[string]string{"Q": "☆"}
	o.Normalize()

	assert.False(t, o.SwitchLangWithShift, "CapsLock switch excludes Shift switch")
	assert.Equal(t, 9, o.CandPerPage)
	assert.Equal(t, 3, o.CandPerRow)
	assert.Equal(t, LayoutStandard, o.KeyboardLayout)
	assert.Equal(t, 200, o.ShiftKeySensitivity)
	assert.Equal(t, "☆", o.EasySymbols["q"])
}

func TestOptionsWith(t *testing.T) {
	o, err := Default().With("cand_per_page", "7")
	require.NoError(t, err)
	assert.Equal(t, 7, o.CandPerPage)

	o, err = o.With("enable_caps_lock", "true")
	require.NoError(t, err)
	assert.True(t, o.EnableCapsLock)

	_, err = o.With("no_such_option", "1")
	assert.Error(t, err)

	_, err = o.With("cand_per_page", "many")
	assert.Error(t, err)

	assert.Contains(t, Keys(), "shift_key_sensitivity")
}

func TestWatch_RaisesChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	s := NewStore(path, zerolog.Nop())
	require.NoError(t, s.Watch())
	t.Cleanup(func() { _ = s.Close() })

	assert.False(t, s.Changed())
	require.NoError(t, s.Save(Default()))

	assert.Eventually(t, s.Changed, 2*time.Second, 10*time.Millisecond)
}

func TestMarkChanged(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), FileName), zerolog.Nop())
	s.MarkChanged()
	assert.True(t, s.Changed())
	assert.False(t, s.Changed(), "Changed clears the flag")
}
