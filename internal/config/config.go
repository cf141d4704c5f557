// Package config handles loading, watching and saving the bopo editor options.
package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"sort"
	"strings"

	"github.com/f3rmion/bopo/internal/keys"
	"gopkg.in/yaml.v3"
)

// Keyboard layouts understood by the syllable editor.
const (
	LayoutStandard    = "standard"
	LayoutHanyuPinyin = "hanyu_pinyin"
)

// Conversion engine kinds.
const (
	EngineSimple = "simple"
	EngineFuzzy  = "fuzzy"
)

// Options holds every behavior flag of the input method. A loaded value is
// replaced wholesale on reload and never patched in place.
type Options struct {
	DefaultChinese   bool `mapstructure:"default_chinese" yaml:"default_chinese"`
	DefaultFullwidth bool `mapstructure:"default_fullwidth" yaml:"default_fullwidth"`

	CandPerRow  int    `mapstructure:"cand_per_row" yaml:"cand_per_row"`
	CandPerPage int    `mapstructure:"cand_per_page" yaml:"cand_per_page"`
	SelKeys     string `mapstructure:"sel_keys" yaml:"sel_keys"`

	AutoShiftCursor       bool `mapstructure:"auto_shift_cursor" yaml:"auto_shift_cursor"`
	AddPhraseForward      bool `mapstructure:"add_phrase_forward" yaml:"add_phrase_forward"`
	SpaceAsSelection      bool `mapstructure:"space_as_selection" yaml:"space_as_selection"`
	EscCleanAllBuffer     bool `mapstructure:"esc_clean_all_buffer" yaml:"esc_clean_all_buffer"`
	AdvanceAfterSelection bool `mapstructure:"advance_after_selection" yaml:"advance_after_selection"`

	EasySymbolsWithShift     bool `mapstructure:"easy_symbols_with_shift" yaml:"easy_symbols_with_shift"`
	EasySymbolsWithShiftCtrl bool `mapstructure:"easy_symbols_with_shift_ctrl" yaml:"easy_symbols_with_shift_ctrl"`
	UpperCaseWithShift       bool `mapstructure:"upper_case_with_shift" yaml:"upper_case_with_shift"`

	// Shift+letter in Chinese mode types the letter instead of a syllable.
	ShiftLetterMomentaryEnglish bool `mapstructure:"shift_letter_momentary_english" yaml:"shift_letter_momentary_english"`
	// With CapsLock on in English mode, letters come out in the opposite case.
	InvertCapsCase bool `mapstructure:"invert_caps_case" yaml:"invert_caps_case"`

	SwitchLangWithShift bool `mapstructure:"switch_lang_with_shift" yaml:"switch_lang_with_shift"`
	ShiftKeySensitivity int  `mapstructure:"shift_key_sensitivity" yaml:"shift_key_sensitivity"` // milliseconds
	EnableCapsLock      bool `mapstructure:"enable_caps_lock" yaml:"enable_caps_lock"`

	EnableFullwidthToggleKey bool `mapstructure:"enable_fullwidth_toggle_key" yaml:"enable_fullwidth_toggle_key"`
	FullShapeSymbols         bool `mapstructure:"full_shape_symbols" yaml:"full_shape_symbols"`
	ShowNotification         bool `mapstructure:"show_notification" yaml:"show_notification"`

	KeyboardLayout   string `mapstructure:"keyboard_layout" yaml:"keyboard_layout"`
	ConversionEngine string `mapstructure:"conversion_engine" yaml:"conversion_engine"`
	MaxChiSymbolLen  int    `mapstructure:"max_chi_symbol_len" yaml:"max_chi_symbol_len"`

	Keybindings []keys.BindingConfig `mapstructure:"keybindings" yaml:"keybindings"`
	EasySymbols map[string]string    `mapstructure:"easy_symbols" yaml:"easy_symbols"`
}

// Default returns the options used when no config file exists.
func Default() Options {
	return Options{
		DefaultChinese:      true,
		CandPerRow:          3,
		CandPerPage:         9,
		SelKeys:             "123456789",
		SpaceAsSelection:    true,
		EscCleanAllBuffer:   false,
		SwitchLangWithShift: true,
		ShiftKeySensitivity: 200,

		ShiftLetterMomentaryEnglish: true,

		ShowNotification: true,
		KeyboardLayout:   LayoutStandard,
		ConversionEngine: EngineSimple,
		MaxChiSymbolLen:  20,
		Keybindings: []keys.BindingConfig{
			{Keys: "Ctrl+Space", Action: string(keys.ActionToggleLanguage)},
			{Keys: "F2", Action: string(keys.ActionToggleShape)},
			{Keys: "F3", Action: string(keys.ActionOpenSymbols)},
		},
		EasySymbols: map[string]string{
			"a": "∀", "b": "←", "c": "⇐", "d": "∆", "e": "∈", "f": "♀",
			"g": "♂", "h": "♥", "i": "∞", "j": "√", "k": "★", "l": "∠",
			"m": "♪", "n": "∩", "o": "○", "p": "⊕", "q": "☆", "r": "→",
			"s": "≡", "t": "∴", "u": "↑", "v": "↓", "w": "∵", "x": "×",
			"y": "÷", "z": "≒",
		},
	}
}

// Normalize clamps out-of-range values and resolves conflicting settings.
// CapsLock as the language switch disables the Shift-tap switch.
func (o *Options) Normalize() {
	d := Default()
	if o.CandPerPage < 1 || o.CandPerPage > 10 {
		o.CandPerPage = d.CandPerPage
	}
	if o.CandPerRow < 1 || o.CandPerRow > o.CandPerPage {
		o.CandPerRow = min(d.CandPerRow, o.CandPerPage)
	}
	if len([]rune(o.SelKeys)) < o.CandPerPage {
		o.SelKeys = "1234567890"
	}
	if o.ShiftKeySensitivity <= 0 {
		o.ShiftKeySensitivity = d.ShiftKeySensitivity
	}
	if o.MaxChiSymbolLen < 1 || o.MaxChiSymbolLen > 39 {
		o.MaxChiSymbolLen = d.MaxChiSymbolLen
	}
	switch o.KeyboardLayout {
	case LayoutStandard, LayoutHanyuPinyin:
	default:
		o.KeyboardLayout = d.KeyboardLayout
	}
	switch o.ConversionEngine {
	case EngineSimple, EngineFuzzy:
	default:
		o.ConversionEngine = d.ConversionEngine
	}
	if o.EnableCapsLock {
		o.SwitchLangWithShift = false
	}
	if len(o.EasySymbols) > 0 {
		lowered := make(map[string]string, len(o.EasySymbols))
		for k, v := range o.EasySymbols {
			lowered[strings.ToLower(k)] = v
		}
		o.EasySymbols = lowered
	}
}

// Equal reports whether o and other are structurally identical.
func (o Options) Equal(other Options) bool {
	if !slices.Equal(o.Keybindings, other.Keybindings) || !maps.Equal(o.EasySymbols, other.EasySymbols) {
		return false
	}
	a, b := o, other
	a.Keybindings, b.Keybindings = nil, nil
	a.EasySymbols, b.EasySymbols = nil, nil
	return reflect.DeepEqual(a, b)
}

// Clone returns a deep copy of o.
func (o Options) Clone() Options {
	o.Keybindings = slices.Clone(o.Keybindings)
	o.EasySymbols = maps.Clone(o.EasySymbols)
	return o
}

// Keys returns the YAML keys of every option, sorted.
func Keys() []string {
	m, _ := toMap(Default())
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// With returns a copy of o with the option named key set from value,
// which is parsed as YAML ("true", "9", "[...]").
func (o Options) With(key, value string) (Options, error) {
	m, err := toMap(o)
	if err != nil {
		return o, err
	}
	if _, ok := m[key]; !ok {
		return o, fmt.Errorf("unknown option %q", key)
	}
	var parsed any
	if err := yaml.Unmarshal([]byte(value), &parsed); err != nil {
		return o, fmt.Errorf("parsing value for %s: %w", key, err)
	}
	m[key] = parsed

	data, err := yaml.Marshal(m)
	if err != nil {
		return o, fmt.Errorf("marshaling options: %w", err)
	}
	var out Options
	if err := yaml.Unmarshal(data, &out); err != nil {
		return o, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return out, nil
}

func toMap(o Options) (map[string]any, error) {
	data, err := yaml.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("marshaling options: %w", err)
	}
	m := map[string]any{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing options: %w", err)
	}
	return m, nil
}

// GetConfigDir returns the default configuration directory.
func GetConfigDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "bopo"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "bopo"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
