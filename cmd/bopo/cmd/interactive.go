package cmd

import "github.com/spf13/cobra"

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"i", "ui"},
	Short:   "Launch the terminal editor",
	Long: `Launch the terminal editor with the input method active.

Controls:
  F5       Shift tap (Chinese/English)
  F2       Full/half width
  F3       Symbol table
  F4       Input method on/off
  Ctrl+R   Reload config
  Ctrl+L   Clear the document
  Ctrl+C   Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}
