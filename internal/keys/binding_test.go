package keys

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBinding(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantSym  Keysym
		wantMods Modifiers
		wantErr  bool
	}{
		{name: "single letter", input: "a", wantSym: Keysym('a'), wantMods: ModNone},
		{name: "uppercase letter alone", input: "A", wantSym: Keysym('a'), wantMods: ModNone},
		{name: "ctrl uppercase letter", input: "Ctrl+A", wantSym: Keysym('a'), wantMods: ModControl},
		{name: "ctrl shift letter", input: "Ctrl+Shift+A", wantSym: Keysym('A'), wantMods: ModControl | ModShift},
		{name: "shift lowercase letter", input: "shift+a", wantSym: Keysym('A'), wantMods: ModShift},
		{name: "ctrl space", input: "Ctrl+Space", wantSym: KeySpace, wantMods: ModControl},
		{name: "control alias", input: "control+space", wantSym: KeySpace, wantMods: ModControl},
		{name: "function key", input: "F2", wantSym: KeyF1 + 1, wantMods: ModNone},
		{name: "f12", input: "f12", wantSym: KeyF12, wantMods: ModNone},
		{name: "alt digit", input: "Alt+1", wantSym: Keysym('1'), wantMods: ModAlt},
		{name: "super alias", input: "win+e", wantSym: Keysym('e'), wantMods: ModSuper},
		{name: "plus key", input: "+", wantSym: Keysym('+'), wantMods: ModNone},
		{name: "ctrl plus", input: "Ctrl++", wantSym: Keysym('+'), wantMods: ModControl},
		{name: "bare shift", input: "Shift", wantSym: KeyShiftL, wantMods: ModShift},
		{name: "escape alias", input: "esc", wantSym: KeyEscape, wantMods: ModNone},
		{name: "empty", input: "", wantErr: true},
		{name: "unknown key", input: "Ctrl+Bogus", wantErr: true},
		{name: "key before modifier", input: "a+Ctrl", wantErr: true},
		{name: "two keys", input: "a+b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := ParseBinding(tt.input, ActionToggleLanguage)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidBinding)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSym, b.Pattern.Keysym())
			assert.Equal(t, tt.wantMods, b.Pattern.Modifiers())
		})
	}
}

func TestParseBinding_UnknownAction(t *testing.T) {
	_, err := ParseBinding("F2", Action("explode"))
	assert.ErrorIs(t, err, ErrInvalidBinding)
}

func TestBindingMatches(t *testing.T) {
	b, err := ParseBinding("Ctrl+Space", ActionToggleLanguage)
	require.NoError(t, err)

	tests := []struct {
		name string
		ev   Event
		want bool
	}{
		{"exact", NewEvent(KeySpace, CodeSpace, ModControl), true},
		{"capslock ignored", NewEvent(KeySpace, CodeSpace, ModControl|ModCapsLock), true},
		{"numlock ignored", NewEvent(KeySpace, CodeSpace, ModControl|ModNumLock), true},
		{"missing ctrl", NewEvent(KeySpace, CodeSpace, ModNone), false},
		{"extra shift", NewEvent(KeySpace, CodeSpace, ModControl|ModShift), false},
		{"extra alt", NewEvent(KeySpace, CodeSpace, ModControl|ModAlt), false},
		{"extra super", NewEvent(KeySpace, CodeSpace, ModControl|ModSuper), false},
		{"other key", NewEvent(Keysym('a'), CodeA, ModControl), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.Matches(tt.ev))
		})
	}
}

func TestBindingMatches_LetterCase(t *testing.T) {
	ctrlA, err := ParseBinding("Ctrl+A", ActionToggleShape)
	require.NoError(t, err)
	assert.True(t, ctrlA.Matches(NewEvent(Keysym('a'), CodeA, ModControl)))
	assert.False(t, ctrlA.Matches(NewEvent(Keysym('A'), CodeA, ModControl|ModShift)))

	ctrlShiftA, err := ParseBinding("ctrl+shift+a", ActionToggleShape)
	require.NoError(t, err)
	assert.True(t, ctrlShiftA.Matches(NewEvent(Keysym('A'), CodeA, ModControl|ModShift)))
	assert.False(t, ctrlShiftA.Matches(NewEvent(Keysym('a'), CodeA, ModControl)))
}

func TestParseBindings_DropsInvalidWithWarning(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	bindings := ParseBindings([]BindingConfig{
		{Keys: "Ctrl+Space", Action: "toggle_language"},
		{Keys: "Ctrl+Nope", Action: "toggle_language"},
		{Keys: "F2", Action: "no_such_action"},
		{Keys: "F2", Action: "toggle_shape"},
	}, log)

	require.Len(t, bindings, 2)
	assert.Equal(t, ActionToggleLanguage, bindings[0].Action)
	assert.Equal(t, ActionToggleShape, bindings[1].Action)
	assert.Contains(t, buf.String(), "dropping key binding")
	assert.Contains(t, buf.String(), "Ctrl+Nope")
}

func TestMatch(t *testing.T) {
	bindings := ParseBindings([]BindingConfig{
		{Keys: "F2", Action: "toggle_shape"},
		{Keys: "F3", Action: "open_symbols"},
	}, zerolog.Nop())

	b, ok := Match(bindings, NewEvent(KeyF1+2, CodeF1+2, ModNone))
	require.True(t, ok)
	assert.Equal(t, ActionOpenSymbols, b.Action)

	_, ok = Match(bindings, NewEvent(KeyF1+3, CodeF1+3, ModNone))
	assert.False(t, ok)
}
