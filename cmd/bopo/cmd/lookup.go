package cmd

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/f3rmion/bopo/internal/engine"
	"github.com/f3rmion/bopo/internal/pinyin"
	"github.com/spf13/cobra"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <syllable|character>",
	Short: "Show candidates for a syllable or readings of a character",
	Long: `Look up a syllable written in Zhuyin or numbered pinyin and list its
candidates in the order the input method offers them, or look up Chinese
characters and show their readings.

Example:
  bopo lookup ㄓㄨㄥ
  bopo lookup hao3
  bopo lookup --fuzzy zhong
  bopo lookup 中文`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
	lookupCmd.Flags().Bool("fuzzy", false, "include other tones")
	lookupCmd.Flags().IntP("limit", "n", 30, "maximum candidates to show")
}

func runLookup(cmd *cobra.Command, args []string) error {
	log := newLogger()
	out := cmd.OutOrStdout()
	input := args[0]

	dict := loadDictionary(log)
	if isHanzi(input) {
		printReadings(out, input, dict)
		return nil
	}

	base, tone, err := parseSyllable(input)
	if err != nil {
		return err
	}
	kind := engine.KindSimple
	if fuzzy, _ := cmd.Flags().GetBool("fuzzy"); fuzzy {
		kind = engine.KindFuzzy
	}
	if tone == pinyin.ToneUnknown {
		tone = pinyin.Tone1
		kind = engine.KindFuzzy
	}

	index := engine.DefaultIndex()
	if dict != nil {
		index = engine.NewIndex(dict)
	}
	cands := index.Lookup(base, tone, kind)
	if len(cands) == 0 {
		return fmt.Errorf("no characters for %s", pinyin.Numbered(base, tone))
	}
	limit, _ := cmd.Flags().GetInt("limit")
	if limit > 0 && len(cands) > limit {
		cands = cands[:limit]
	}

	fmt.Fprintf(out, "%s  %s\n", pinyin.Numbered(base, tone), pinyin.ToZhuyin(base, tone))
	fmt.Fprintln(out, strings.Join(cands, " "))
	return nil
}

func isHanzi(s string) bool {
	for _, r := range s {
		if !unicode.Is(unicode.Han, r) {
			return false
		}
	}
	return s != ""
}

// parseSyllable accepts "ㄓㄨㄥ", "zhong1" or a toneless "zhong".
func parseSyllable(s string) (string, pinyin.Tone, error) {
	if z, ok := pinyin.ParseZhuyin(s); ok {
		return z.Pinyin(), z.Tone, nil
	}
	base, tone := pinyin.ParseNumbered(strings.ToLower(s))
	if !pinyin.ValidPinyin(base) {
		return "", pinyin.ToneUnknown, fmt.Errorf("not a syllable: %q", s)
	}
	return base, tone, nil
}

func printReadings(out io.Writer, input string, dict *engine.Dictionary) {
	parser := pinyin.NewParser()
	for _, char := range input {
		c := string(char)
		fmt.Fprintf(out, "Character: %s\n", c)
		if dict != nil {
			if entry := dict.Lookup(c); entry != nil && entry.Definition != "" {
				fmt.Fprintf(out, "  Meaning: %s\n", entry.Definition)
			}
		}
		readings := parser.ParseChar(c)
		if readings == nil {
			fmt.Fprintln(out, "  Pinyin: (not found)")
		}
		for _, r := range readings {
			fmt.Fprintf(out, "  %-8s %-8s %s\n", r.Full, r.Numbered(), r.Zhuyin())
		}
		fmt.Fprintln(out)
	}
}
