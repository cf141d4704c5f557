package cmd

import (
	"fmt"
	"strings"

	"github.com/f3rmion/bopo/internal/config"
	"github.com/f3rmion/bopo/internal/ime"
	"github.com/f3rmion/bopo/internal/logging"
	"github.com/f3rmion/bopo/internal/surface"
	"github.com/spf13/cobra"
)

var typeCmd = &cobra.Command{
	Use:   "type <keys...>",
	Short: "Type a key script and print the document",
	Long: `Feed a key script through the input method into an empty document and
print the resulting text.

Tokens are separated by spaces. A quoted token types its characters, other
tokens name one key with optional modifiers.

Example:
  bopo type '"5j/"' space enter
  bopo type '"su3cl3"' enter
  bopo type shift '"hello"'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runType,
}

func init() {
	rootCmd.AddCommand(typeCmd)
	typeCmd.Flags().Bool("show-composition", false, "mark the open composition with [ ]")
}

func runType(cmd *cobra.Command, args []string) error {
	log := newLogger()
	store := config.NewStore(configPath(), logging.Component(log, "config"))

	eng, closer := openEngine(log)
	defer closer.Close()

	doc := surface.New()
	im, err := ime.New(ime.Deps{
		Host:    doc,
		Engine:  eng,
		Options: store,
		Log:     logging.Component(log, "ime"),
	})
	if err != nil {
		return err
	}
	doc.OnTerminated(im.OnCompositionTerminated)

	drv := surface.NewDriver(doc, im)
	if err := drv.Type(strings.Join(args, " ")); err != nil {
		return err
	}

	text := []rune(doc.Text())
	if show, _ := cmd.Flags().GetBool("show-composition"); show {
		if start, end, ok := doc.Composition(); ok {
			out := string(text[:start]) + "[" + string(text[start:end]) + "]" + string(text[end:])
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(text))
	return nil
}
