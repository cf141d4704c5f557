package keys

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
)

// Action names what a key binding does.
type Action string

const (
	ActionToggleLanguage Action = "toggle_language"
	ActionToggleShape    Action = "toggle_shape"
	ActionOpenSymbols    Action = "open_symbols"
)

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	switch a {
	case ActionToggleLanguage, ActionToggleShape, ActionOpenSymbols:
		return true
	}
	return false
}

// BindingConfig is the configuration form of a key binding.
type BindingConfig struct {
	Keys   string `mapstructure:"keys" yaml:"keys"`
	Action string `mapstructure:"action" yaml:"action"`
}

// Binding is a parsed key pattern and the action it triggers.
type Binding struct {
	Pattern Event
	Action  Action
}

var ErrInvalidBinding = errors.New("invalid key binding")

// ParseBinding parses s, a key pattern of modifier names joined by '+'
// followed by a terminal key name, e.g. "Ctrl+Shift+A" or "F2".
func ParseBinding(s string, action Action) (Binding, error) {
	if !action.Valid() {
		return Binding{}, fmt.Errorf("%w: unknown action %q", ErrInvalidBinding, action)
	}
	sym, mods, err := parseKeyString(s)
	if err != nil {
		return Binding{}, err
	}
	return Binding{Pattern: NewEvent(sym, CodeUnknown, mods), Action: action}, nil
}

func parseKeyString(s string) (Keysym, Modifiers, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, fmt.Errorf("%w: empty", ErrInvalidBinding)
	}
	if s == "+" {
		return Keysym('+'), ModNone, nil
	}

	parts := strings.Split(s, "+")
	var mods Modifiers
	var keyPart string
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			// "Ctrl++" names the plus key.
			if i == len(parts)-1 && strings.HasSuffix(s, "++") {
				keyPart = "+"
			}
			continue
		}
		switch strings.ToLower(part) {
		case "ctrl", "control":
			mods |= ModControl
		case "shift":
			mods |= ModShift
		case "alt":
			mods |= ModAlt
		case "super", "win", "meta":
			mods |= ModSuper
		default:
			if keyPart != "" || i != len(parts)-1 {
				return 0, 0, fmt.Errorf("%w: %q", ErrInvalidBinding, s)
			}
			keyPart = part
		}
	}
	if keyPart == "" {
		// A bare modifier such as "Shift" binds the modifier key itself.
		switch mods {
		case ModShift:
			return KeyShiftL, mods, nil
		case ModControl:
			return KeyControlL, mods, nil
		}
		return 0, 0, fmt.Errorf("%w: no key in %q", ErrInvalidBinding, s)
	}

	runes := []rune(keyPart)
	if len(runes) == 1 {
		r := runes[0]
		if unicode.IsLetter(r) && r < unicode.MaxASCII {
			// Letter case follows the named modifiers: "Ctrl+A" is Ctrl+a.
			if mods&ModShift != 0 {
				r = unicode.ToUpper(r)
			} else {
				r = unicode.ToLower(r)
			}
		}
		sym := KeysymFromRune(r)
		if sym == KeyVoid {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidBinding, s)
		}
		return sym, mods, nil
	}

	k, ok := keysByName[strings.ToLower(keyPart)]
	if !ok {
		return 0, 0, fmt.Errorf("%w: unknown key %q", ErrInvalidBinding, keyPart)
	}
	return k.sym, mods, nil
}

// Matches reports whether e triggers b: the keysym is equal and Alt,
// Control, Shift and Super agree. CapsLock and NumLock are not compared.
func (b Binding) Matches(e Event) bool {
	return b.Pattern.keysym == e.keysym &&
		b.Pattern.mods&bindingMask == e.mods&bindingMask
}

func (b Binding) String() string {
	return fmt.Sprintf("%s -> %s", b.Pattern, b.Action)
}

// ParseBindings parses every entry, dropping the ones that do not parse
// with a warning on log.
func ParseBindings(entries []BindingConfig, log zerolog.Logger) []Binding {
	out := make([]Binding, 0, len(entries))
	for _, kb := range entries {
		b, err := ParseBinding(kb.Keys, Action(kb.Action))
		if err != nil {
			log.Warn().Err(err).Str("keys", kb.Keys).Str("action", kb.Action).
				Msg("dropping key binding")
			continue
		}
		out = append(out, b)
	}
	return out
}

// Match returns the first binding that e triggers.
func Match(bindings []Binding, e Event) (Binding, bool) {
	for _, b := range bindings {
		if b.Matches(e) {
			return b, true
		}
	}
	return Binding{}, false
}
