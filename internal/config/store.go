package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileName is the config file name inside the config directory.
const FileName = "config.yaml"

// Store is the backing store of Options: a YAML file read through viper,
// watched with fsnotify and written back by the preferences commands.
type Store struct {
	path string
	v    *viper.Viper
	log  zerolog.Logger

	changed atomic.Bool

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewStore returns a Store for the config file at path. Environment
// variables prefixed with BOPO_ override file values.
func NewStore(path string, log zerolog.Logger) *Store {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("BOPO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	s := &Store{path: path, v: v, log: log}
	s.setDefaults()
	return s
}

// DefaultPath returns the config file path in the default config directory.
func DefaultPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Path returns the config file path.
func (s *Store) Path() string { return s.path }

func (s *Store) setDefaults() {
	m, err := toMap(Default())
	if err != nil {
		return
	}
	for k, v := range m {
		s.v.SetDefault(k, v)
	}
}

// Load reads the config file and returns normalized options. A missing file
// yields the defaults.
func (s *Store) Load() (Options, error) {
	if err := s.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Options{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var opts Options
	if err := s.v.Unmarshal(&opts); err != nil {
		return Options{}, fmt.Errorf("decoding config: %w", err)
	}
	opts.Normalize()
	return opts, nil
}

// Changed reports whether the file changed since the last call. It is
// meant to be polled once per key pass.
func (s *Store) Changed() bool {
	return s.changed.Swap(false)
}

// MarkChanged forces the next Changed call to report true.
func (s *Store) MarkChanged() {
	s.changed.Store(true)
}

// GetBool returns the boolean option key.
func (s *Store) GetBool(key string) bool { return s.v.GetBool(key) }

// GetInt returns the integer option key.
func (s *Store) GetInt(key string) int { return s.v.GetInt(key) }

// GetString returns the string option key.
func (s *Store) GetString(key string) string { return s.v.GetString(key) }

// Save writes opts to the config file.
func (s *Store) Save(opts Options) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	out, err := yaml.Marshal(&opts)
	if err != nil {
		return fmt.Errorf("marshaling options: %w", err)
	}

	if err := os.WriteFile(s.path, out, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Watch starts watching the config file. Events only raise the changed
// flag; nothing is reloaded on the watcher goroutine.
func (s *Store) Watch() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.watcher != nil {
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	// Watch the directory: editors replace files by rename.
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		w.Close()
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	s.watcher = w
	s.done = make(chan struct{})
	go s.watch(w, s.done)
	return nil
}

func (s *Store) watch(w *fsnotify.Watcher, done chan struct{}) {
	target := filepath.Clean(s.path)
	for {
		select {
		case <-done:
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove) {
				s.log.Debug().Str("op", ev.Op.String()).Msg("config file changed")
				s.changed.Store(true)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.log.Warn().Err(err).Msg("config watcher error")
		}
	}
}

// Close stops the watcher.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.watcher == nil {
		return nil
	}
	close(s.done)
	err := s.watcher.Close()
	s.watcher = nil
	return err
}
