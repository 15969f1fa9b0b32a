// Package config loads docsync settings from defaults, .docsync.yaml,
// DOCSYNC_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/phobologic/docsync/internal/lint"
	"github.com/phobologic/docsync/internal/verify"
)

const (
	// FileName is the config file looked up in the root directory.
	FileName = ".docsync.yaml"
	// EnvPrefix prefixes environment overrides, e.g. DOCSYNC_SOURCE_DIR.
	EnvPrefix = "DOCSYNC"
)

// ErrWrongWorkingDirectory is returned when the binding source directory is
// missing, which almost always means docsync was run from the wrong place.
var ErrWrongWorkingDirectory = errors.New("wrong working directory")

// Block configures the doc-comment block delimiters.
type Block struct {
	Open  string `mapstructure:"open"`
	Close string `mapstructure:"close"`
}

// Patterns configures the verifier's search templates.
type Patterns struct {
	Overload string `mapstructure:"overload"`
	Plain    string `mapstructure:"plain"`
	Iterator string `mapstructure:"iterator"`
}

// Config is the resolved docsync configuration. Relative directories are
// interpreted against Root.
type Config struct {
	Root             string   `mapstructure:"root"`
	SourceDir        string   `mapstructure:"source_dir"`
	SourceExt        []string `mapstructure:"source_ext"`
	DocsDir          string   `mapstructure:"docs_dir"`
	PythonDir        string   `mapstructure:"python_dir"`
	SpecFiles        []string `mapstructure:"spec_files"`
	Block            Block    `mapstructure:"block"`
	SentinelPrefixes []string `mapstructure:"sentinel_prefixes"`
	IteratorPrefixes []string `mapstructure:"iterator_prefixes"`
	ColumnWidth      int      `mapstructure:"column_width"`
	Formatter        []string `mapstructure:"formatter"`
	Patterns         Patterns `mapstructure:"patterns"`

	// File is the config file that was read, or "" when only defaults applied.
	File string `mapstructure:"-"`
}

// Default returns the built-in configuration.
func Default() Config {
	vo := verify.DefaultOptions()
	return Config{
		Root:             ".",
		SourceDir:        "src",
		SourceExt:        []string{".cpp"},
		DocsDir:          filepath.Join("docs", "_build", "html"),
		PythonDir:        "libsemigroups_pybind11",
		SpecFiles:        []string{},
		Block:            Block{Open: lint.DefaultMarkers.Open, Close: lint.DefaultMarkers.Close},
		SentinelPrefixes: vo.SentinelPrefixes,
		IteratorPrefixes: vo.IteratorPrefixes,
		ColumnWidth:      60,
		Formatter:        []string{"rstfmt", "-"},
		Patterns: Patterns{
			Overload: vo.Patterns.Overload,
			Plain:    vo.Patterns.Plain,
			Iterator: vo.Patterns.Iterator,
		},
	}
}

// Load resolves the configuration. An explicit path must exist; otherwise
// FileName is read from the root when present. Only flags the user set on
// flags override file and environment values; flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	d := Default()
	v.SetDefault("root", d.Root)
	v.SetDefault("source_dir", d.SourceDir)
	v.SetDefault("source_ext", d.SourceExt)
	v.SetDefault("docs_dir", d.DocsDir)
	v.SetDefault("python_dir", d.PythonDir)
	v.SetDefault("spec_files", d.SpecFiles)
	v.SetDefault("block.open", d.Block.Open)
	v.SetDefault("block.close", d.Block.Close)
	v.SetDefault("sentinel_prefixes", d.SentinelPrefixes)
	v.SetDefault("iterator_prefixes", d.IteratorPrefixes)
	v.SetDefault("column_width", d.ColumnWidth)
	v.SetDefault("formatter", d.Formatter)
	v.SetDefault("patterns.overload", d.Patterns.Overload)
	v.SetDefault("patterns.plain", d.Patterns.Plain)
	v.SetDefault("patterns.iterator", d.Patterns.Iterator)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if f := flags.Lookup("root"); f != nil {
			if err := v.BindPFlag("root", f); err != nil {
				return nil, fmt.Errorf("binding flag: %w", err)
			}
		}
	}

	resolved := path
	if resolved == "" {
		local := filepath.Join(v.GetString("root"), FileName)
		if fileExists(local) {
			resolved = local
		}
	} else if !fileExists(resolved) {
		return nil, fmt.Errorf("config file not found: %s", resolved)
	}

	if resolved != "" {
		v.SetConfigFile(resolved)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", resolved, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.File = resolved
	return &cfg, nil
}

// Path resolves a config-relative path against Root.
func (c *Config) Path(rel string) string {
	if rel == "" || filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(c.Root, rel)
}

// Validate checks that the binding source directory exists.
func (c *Config) Validate() error {
	return CheckDir(c.Path(c.SourceDir))
}

// CheckDir returns ErrWrongWorkingDirectory unless dir is a directory.
func CheckDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrWrongWorkingDirectory, dir)
	}
	return nil
}

// Markers returns the block delimiters for the linter.
func (c *Config) Markers() lint.BlockMarkers {
	return lint.BlockMarkers{Open: c.Block.Open, Close: c.Block.Close}
}

// VerifyOptions returns the verifier settings.
func (c *Config) VerifyOptions() verify.Options {
	return verify.Options{
		Patterns: verify.Patterns{
			Overload: c.Patterns.Overload,
			Plain:    c.Patterns.Plain,
			Iterator: c.Patterns.Iterator,
		},
		SentinelPrefixes: c.SentinelPrefixes,
		IteratorPrefixes: c.IteratorPrefixes,
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
