package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/f3rmion/bopo/internal/config"
	"github.com/f3rmion/bopo/internal/logging"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change input method options",
	Long: `Show and change the options in config.yaml. A running editor picks up
changes on the next key press.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective options",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one option",
	Long: `Set one option. The value is read as YAML.

Example:
  bopo config set cand_per_page 7
  bopo config set enable_caps_lock true
  bopo config set keyboard_layout hanyu_pinyin`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd, configSetCmd)
	configInitCmd.Flags().Bool("force", false, "overwrite an existing config file")
	configShowCmd.Flags().Bool("keys", false, "list option names only")
}

func newStore() *config.Store {
	return config.NewStore(configPath(), logging.Component(newLogger(), "config"))
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	path := configPath()

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists: %s\nUse --force to overwrite", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking config file: %w", err)
	}

	if err := newStore().Save(config.Default()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if keysOnly, _ := cmd.Flags().GetBool("keys"); keysOnly {
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(config.Keys(), "\n"))
		return nil
	}

	opts, err := newStore().Load()
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(&opts)
	if err != nil {
		return fmt.Errorf("marshaling options: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(out))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	store := newStore()
	opts, err := store.Load()
	if err != nil {
		return err
	}
	next, err := opts.With(args[0], args[1])
	if err != nil {
		return err
	}
	next.Normalize()
	if err := store.Save(next); err != nil {
		return err
	}
	// Read back what landed in the file.
	if _, err := store.Load(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], store.GetString(args[0]))
	return nil
}
