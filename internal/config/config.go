package config

import (
	"path/filepath"
	"strings"
	"time"

	"desktop-cleaner/internal/allowlist"
	"desktop-cleaner/internal/errors"

	"github.com/mitchellh/go-homedir"
)

const (
	// DefaultInterval is the wait between two sweeps.
	DefaultInterval = 600 * time.Second

	// DesktopDirName is the directory swept under the home directory.
	DesktopDirName = "Desktop"
)

// DefaultSafeExtensions returns the extensions that are never swept.
func DefaultSafeExtensions() []string {
	return []string{"desktop", "exe", "lnk", "url"}
}

// Config is built once at startup and never mutated afterwards; it is
// handed around by value.
type Config struct {
	TargetDir      string        `yaml:"target_dir" json:"target_dir"`           // Directory to sweep
	Interval       time.Duration `yaml:"interval" json:"interval"`               // Wait between sweeps
	DryRun         bool          `yaml:"dry_run" json:"dry_run"`                 // If true, only report
	SafeExtensions []string      `yaml:"safe_extensions" json:"safe_extensions"` // Allow-list, normalized
	Watch          bool          `yaml:"watch" json:"watch"`                     // Sweep early on change events
	LogFile        string        `yaml:"log_file,omitempty" json:"log_file,omitempty"`
	TrashDir       string        `yaml:"trash_dir,omitempty" json:"trash_dir,omitempty"`
	Debug          bool          `yaml:"debug" json:"debug"`
}

// Option sets one field while the Config is being built.
type Option func(*Config)

func WithTargetDir(dir string) Option {
	return func(c *Config) { c.TargetDir = dir }
}

func WithInterval(d time.Duration) Option {
	return func(c *Config) { c.Interval = d }
}

func WithDryRun(dryRun bool) Option {
	return func(c *Config) { c.DryRun = dryRun }
}

// WithSafeExtensions replaces the default allow-list.
func WithSafeExtensions(exts []string) Option {
	return func(c *Config) { c.SafeExtensions = append([]string(nil), exts...) }
}

// WithExtraExtensions appends to the allow-list.
func WithExtraExtensions(exts []string) Option {
	return func(c *Config) { c.SafeExtensions = append(c.SafeExtensions, exts...) }
}

func WithWatch(watch bool) Option {
	return func(c *Config) { c.Watch = watch }
}

// WithTrashDir moves entries into dir instead of the system trash.
func WithTrashDir(dir string) Option {
	return func(c *Config) { c.TrashDir = dir }
}

func WithLogFile(path string) Option {
	return func(c *Config) { c.LogFile = path }
}

func WithDebug(debug bool) Option {
	return func(c *Config) { c.Debug = debug }
}

// New applies opts over the defaults and validates the result.
func New(opts ...Option) (Config, error) {
	cfg := Config{
		Interval:       DefaultInterval,
		SafeExtensions: DefaultSafeExtensions(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.SafeExtensions = allowlist.Normalize(cfg.SafeExtensions)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if strings.TrimSpace(c.TargetDir) == "" {
		return errors.NewConfigError("target directory is required", "target_dir", errors.InvalidConfig, nil)
	}
	if c.Interval < time.Second {
		return errors.NewConfigError("interval must be >= 1 second", "interval", errors.InvalidConfig, nil)
	}
	if _, err := allowlist.New(c.SafeExtensions); err != nil {
		return errors.NewConfigError("invalid safe extension", "safe_extensions", errors.InvalidConfig, err)
	}
	return nil
}

// AllowList compiles the configured safe extensions.
func (c Config) AllowList() (*allowlist.AllowList, error) {
	return allowlist.New(c.SafeExtensions)
}

// ResolveTarget returns the Desktop directory under homeDir, or under the
// current user's home directory when homeDir is empty. A leading "~" in
// homeDir is expanded.
func ResolveTarget(homeDir string) (string, error) {
	base := homeDir
	if base == "" {
		dir, err := homedir.Dir()
		if err != nil {
			return "", errors.NewFatalStartupError("could not find the home directory", err)
		}
		base = dir
	} else {
		expanded, err := homedir.Expand(base)
		if err != nil {
			return "", errors.NewFatalStartupError("could not expand home directory "+base, err)
		}
		base = expanded
	}

	if base == "" {
		return "", errors.NewFatalStartupError("could not find the home directory", nil)
	}

	return filepath.Join(base, DesktopDirName), nil
}
