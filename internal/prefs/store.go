package prefs

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/statgrid/internal/errors"
	"github.com/rileyhilliard/statgrid/internal/logger"
)

const (
	prefsDir  = ".config/statgrid"
	prefsFile = "prefs.yaml"
)

// DefaultPath returns ~/.config/statgrid/prefs.yaml, or a relative
// prefs.yaml if the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return prefsFile
	}
	return filepath.Join(home, prefsDir, prefsFile)
}

// Store reads and writes preferences in a YAML file.
type Store struct {
	path   string
	scrape time.Duration
	log    logger.Logger
}

// NewStore returns a store at path. The scrape period bounds the step and
// resolves the auto refresh interval. A nil log discards messages.
func NewStore(path string, scrape time.Duration, log logger.Logger) *Store {
	if log == nil {
		log = logger.Noop()
	}
	return &Store{path: path, scrape: scrape, log: logger.Named(log, "prefs")}
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.path
}

// ScrapePeriod returns the scrape period the store validates against.
func (s *Store) ScrapePeriod() time.Duration {
	return s.scrape
}

// Load reads the stored preferences. A missing file yields the defaults.
// Invalid stored values fall back to their defaults and are logged; only an
// unreadable or unparsable file is an error.
func (s *Store) Load() (*Prefs, error) {
	p := Default(s.scrape)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read preferences",
			"Check permissions on "+s.path)
	}

	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Preferences file is not valid YAML",
			"Fix "+s.path+" or run 'statgrid prefs reset'")
	}

	for _, err := range p.sanitize(s.scrape) {
		s.log.Warn("ignoring stored preference: %s", errors.Summary(err))
	}
	return p, nil
}

// Save validates and writes the preferences, creating the directory if
// needed. The file is replaced atomically.
func (s *Store) Save(p *Prefs) error {
	if err := p.Validate(s.scrape); err != nil {
		return err
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to encode preferences", "")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to create preferences directory",
			"Check permissions on "+dir)
	}

	tmp, err := os.CreateTemp(dir, ".prefs-*.yaml")
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write preferences",
			"Check permissions on "+dir)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to write preferences", "")
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to write preferences", "")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to write preferences", "")
	}

	s.log.Debug("saved preferences to %s", s.path)
	return nil
}

// Reset removes every stored preference.
func (s *Store) Reset() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to reset preferences",
			"Remove "+s.path+" by hand")
	}
	s.log.Info("preferences reset")
	return nil
}
