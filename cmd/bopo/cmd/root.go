// Package cmd contains all CLI commands for bopo.
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/bopo/internal/config"
	"github.com/f3rmion/bopo/internal/engine"
	"github.com/f3rmion/bopo/internal/logging"
	"github.com/f3rmion/bopo/internal/tui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bopo",
	Short: "Zhuyin input method with a terminal editor",
	Long: `bopo is a Zhuyin (bopomofo) input method. It turns key presses into
phonetic symbols, converts them to characters and commits text into a
document.

Running 'bopo' without arguments opens a small terminal editor driven by the
input method. Tap F5 (Shift) to switch between Chinese and English, F2 for
full and half width, F3 for the symbol table.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config directory (default is $HOME/.config/bopo)")
	rootCmd.PersistentFlags().Bool("verbose", false, "verbose output")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.Set("config_dir", cfgFile)
	} else {
		dir, err := config.GetConfigDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding config directory:", err)
			os.Exit(1)
		}
		viper.Set("config_dir", dir)
	}

	viper.SetEnvPrefix("BOPO")
	viper.AutomaticEnv()
}

// getConfigDir returns the configuration directory path.
func getConfigDir() string {
	return viper.GetString("config_dir")
}

func configPath() string {
	return filepath.Join(getConfigDir(), config.FileName)
}

// newLogger returns the stderr logger for one-shot commands.
func newLogger() zerolog.Logger {
	cfg := logging.ConfigFromEnv(logging.DefaultConfig())
	if viper.GetBool("verbose") {
		cfg.Level = zerolog.DebugLevel
	}
	return logging.New(cfg)
}

// loadDictionary looks for the optional JSONL dictionary next to the
// working directory, in the config directory and next to the executable.
func loadDictionary(log zerolog.Logger) *engine.Dictionary {
	paths := []string{
		"data/dictionary.jsonl",
		filepath.Join(getConfigDir(), "dictionary.jsonl"),
	}
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), "data", "dictionary.jsonl"))
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		dict := engine.NewDictionary()
		if err := dict.LoadFromFile(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("skipping dictionary")
			continue
		}
		log.Debug().Str("path", path).Int("entries", dict.Size()).Msg("dictionary loaded")
		return dict
	}
	return nil
}

// openPhrases opens the user phrase store. Without it the engine still
// works; phrases are just not learned.
func openPhrases(log zerolog.Logger) (*engine.UserPhrases, error) {
	path, err := engine.DefaultPhrasePath()
	if err != nil {
		return nil, err
	}
	phrases, err := engine.OpenUserPhrases(path)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("path", path).Msg("user phrases opened")
	return phrases, nil
}

// openEngine builds the reference engine. The closer releases the phrase
// store.
func openEngine(log zerolog.Logger) (*engine.Editor, io.Closer) {
	deps := engine.Deps{Log: logging.Component(log, "engine")}
	if dict := loadDictionary(log); dict != nil {
		deps.Index = engine.NewIndex(dict)
	}

	var closer io.Closer = nopCloser{}
	if phrases, err := openPhrases(log); err != nil {
		log.Warn().Err(err).Msg("user phrases disabled")
	} else {
		deps.Phrases = phrases
		closer = phrases
	}
	return engine.New(engine.Options{}, engine.LayoutStandard, engine.KindSimple, deps), closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// runTUI launches the terminal editor.
func runTUI(cmd *cobra.Command, args []string) error {
	log, logFile, err := logging.NewFile(getConfigDir(), "bopo.log")
	if err != nil {
		return err
	}
	defer logFile.Close()
	if viper.GetBool("verbose") {
		log = log.Level(zerolog.DebugLevel)
	}

	store := config.NewStore(configPath(), logging.Component(log, "config"))
	if err := store.Watch(); err != nil {
		log.Warn().Err(err).Msg("config changes need a reload")
	}
	defer store.Close()

	eng, closer := openEngine(log)
	defer closer.Close()

	app, err := tui.NewApp(tui.Config{
		Engine:  eng,
		Options: store,
		Log:     logging.Component(log, "ime"),
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithReportFocus())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
