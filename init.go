package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/phobologic/docsync/internal/config"
)

const (
	sentinelStart = "# docsync:start"
	sentinelEnd   = "# docsync:end"
)

func newInitCmd(g *globals) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "init [PATH]",
		Short: "Write a starter " + config.FileName,
		Long: `Write the default docsync settings to a config file. The settings are
wrapped in sentinel comments so they can be updated in place on subsequent
runs without touching surrounding content. Keys outside the sentinels must
not repeat the keys inside them. Creates the file if it does not exist.

PATH defaults to <root>/` + config.FileName + `.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			section, err := generateSection()
			if err != nil {
				return err
			}

			// --dry-run with no path: just print the section itself.
			if dryRun && len(args) == 0 {
				_, _ = fmt.Fprintln(g.stdout, section)
				return nil
			}

			path := filepath.Join(g.root, config.FileName)
			if len(args) > 0 {
				path = args[0]
			}

			existing, _ := os.ReadFile(path)
			updated := applySection(string(existing), section)

			if dryRun {
				_, _ = fmt.Fprint(g.stdout, updated)
				return nil
			}

			if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}

			_, _ = fmt.Fprintf(g.stderr, "wrote docsync settings to %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print what would be written without modifying the file")
	return cmd
}

// starter mirrors config.Config in the order the keys are written out.
type starter struct {
	SourceDir        string   `yaml:"source_dir"`
	SourceExt        []string `yaml:"source_ext,flow"`
	DocsDir          string   `yaml:"docs_dir"`
	PythonDir        string   `yaml:"python_dir"`
	SpecFiles        []string `yaml:"spec_files,flow"`
	Block            block    `yaml:"block"`
	SentinelPrefixes []string `yaml:"sentinel_prefixes,flow"`
	IteratorPrefixes []string `yaml:"iterator_prefixes,flow"`
	ColumnWidth      int      `yaml:"column_width"`
	Formatter        []string `yaml:"formatter,flow"`
	Patterns         patterns `yaml:"patterns"`
}

type block struct {
	Open  string `yaml:"open"`
	Close string `yaml:"close"`
}

type patterns struct {
	Overload string `yaml:"overload"`
	Plain    string `yaml:"plain"`
	Iterator string `yaml:"iterator"`
}

// generateSection returns the sentinel-wrapped default settings.
func generateSection() (string, error) {
	d := config.Default()
	body, err := yaml.Marshal(starter{
		SourceDir:        d.SourceDir,
		SourceExt:        d.SourceExt,
		DocsDir:          filepath.ToSlash(d.DocsDir),
		PythonDir:        d.PythonDir,
		SpecFiles:        d.SpecFiles,
		Block:            block{Open: d.Block.Open, Close: d.Block.Close},
		SentinelPrefixes: d.SentinelPrefixes,
		IteratorPrefixes: d.IteratorPrefixes,
		ColumnWidth:      d.ColumnWidth,
		Formatter:        d.Formatter,
		Patterns: patterns{
			Overload: d.Patterns.Overload,
			Plain:    d.Patterns.Plain,
			Iterator: d.Patterns.Iterator,
		},
	})
	if err != nil {
		return "", fmt.Errorf("encoding defaults: %w", err)
	}
	header := "# Paths are relative to the repository root. Templates may use\n" +
		"# {scope}, {member} and {params}.\n"
	return sentinelStart + "\n" + header + strings.TrimRight(string(body), "\n") + "\n" + sentinelEnd, nil
}

// applySection inserts section into content, replacing an existing sentinel
// block if present or appending if not. It is a pure function for easy testing.
func applySection(content, section string) string {
	start := strings.Index(content, sentinelStart)
	end := strings.Index(content, sentinelEnd)

	if start >= 0 && end > start {
		return content[:start] + section + content[end+len(sentinelEnd):]
	}

	// Append, ensuring a blank line separator.
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if len(content) == 0 {
		return section + "\n"
	}
	return content + "\n" + section + "\n"
}
