package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/f3rmion/bopo/internal/engine"
	"github.com/f3rmion/bopo/internal/pinyin"
	"github.com/spf13/cobra"
)

var phraseCmd = &cobra.Command{
	Use:   "phrase",
	Short: "Manage user phrases",
	Long: `Manage the phrases the input method has learned. Phrases are added
while typing with Ctrl+<length> and ranked by how often they are picked.`,
}

var phraseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List user phrases",
	Args:  cobra.NoArgs,
	RunE:  runPhraseList,
}

var phraseAddCmd = &cobra.Command{
	Use:   "add <phrase> [reading...]",
	Short: "Add a user phrase",
	Long: `Add a user phrase. Give one syllable per character in Zhuyin or
numbered pinyin; without readings the most common reading of each
character is used.

Example:
  bopo phrase add 中文 zhong1 wen2
  bopo phrase add 注音 ㄓㄨˋ ㄧㄣ`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPhraseAdd,
}

var phraseRemoveCmd = &cobra.Command{
	Use:     "remove <phrase> <reading...>",
	Aliases: []string{"rm"},
	Short:   "Remove a user phrase",
	Args:    cobra.MinimumNArgs(2),
	RunE:    runPhraseRemove,
}

func init() {
	rootCmd.AddCommand(phraseCmd)
	phraseCmd.AddCommand(phraseListCmd, phraseAddCmd, phraseRemoveCmd)
}

func runPhraseList(cmd *cobra.Command, args []string) error {
	phrases, err := openPhrases(newLogger())
	if err != nil {
		return err
	}
	defer phrases.Close()

	list, err := phrases.List()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No user phrases.")
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("PHRASE", "READING", "FREQ", "UPDATED")
	for _, p := range list {
		t.Row(p.Phrase, p.Reading, strconv.Itoa(p.Freq), p.Updated.Format("2006-01-02"))
	}
	fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	return nil
}

func runPhraseAdd(cmd *cobra.Command, args []string) error {
	phrase := args[0]
	reading, err := phraseReading(phrase, args[1:])
	if err != nil {
		return err
	}

	phrases, err := openPhrases(newLogger())
	if err != nil {
		return err
	}
	defer phrases.Close()

	if err := phrases.Add(phrase, reading); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", phrase, reading)
	return nil
}

func runPhraseRemove(cmd *cobra.Command, args []string) error {
	phrase := args[0]
	reading, err := phraseReading(phrase, args[1:])
	if err != nil {
		return err
	}

	phrases, err := openPhrases(newLogger())
	if err != nil {
		return err
	}
	defer phrases.Close()

	removed, err := phrases.Remove(phrase, reading)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("no phrase %s (%s)", phrase, reading)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s (%s)\n", phrase, reading)
	return nil
}

// phraseReading normalizes the given syllables to the stored form, or
// derives them from the characters when none are given.
func phraseReading(phrase string, syllables []string) (string, error) {
	chars := []rune(phrase)
	if len(chars) < 2 {
		return "", fmt.Errorf("a phrase has at least two characters")
	}
	if len(syllables) == 0 {
		parser := pinyin.NewParser()
		for _, c := range chars {
			readings := parser.ParseChar(string(c))
			if len(readings) == 0 {
				return "", fmt.Errorf("no reading for %q: %w", c, engine.ErrNotPhonetic)
			}
			syllables = append(syllables, readings[0].Numbered())
		}
	}
	if len(syllables) != len(chars) {
		return "", fmt.Errorf("%d characters but %d syllables", len(chars), len(syllables))
	}

	parts := make([]string, len(syllables))
	for i, s := range syllables {
		base, tone, err := parseSyllable(s)
		if err != nil {
			return "", err
		}
		if tone == pinyin.ToneUnknown {
			return "", fmt.Errorf("syllable %q needs a tone", s)
		}
		parts[i] = pinyin.Numbered(base, tone)
	}
	return strings.Join(parts, " "), nil
}
