// docsync cross-checks Python binding signatures, their documentation and the
// native members they are supposed to expose.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/phobologic/docsync/internal/check"
	"github.com/phobologic/docsync/internal/config"
	"github.com/phobologic/docsync/internal/lint"
	"github.com/phobologic/docsync/internal/model"
	"github.com/phobologic/docsync/internal/report"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", exitErr.Err)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

// globals holds the persistent flags shared by every subcommand.
type globals struct {
	root       string
	configPath string
	color      string
	strict     bool
	verbose    bool

	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globals{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "docsync",
		Short: "Check that binding signatures, docs and native specs agree",
		Long: `docsync cross-checks three descriptions of every exported function of a
Python binding: the signature rendered in the generated API docs, the native
members listed in the per-class spec files, and the documented field list.

Results go to stdout. Diagnostics go to stderr. With --strict, any warning
makes the exit status 1.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&g.root, "root", ".", "repository root")
	pf.StringVar(&g.configPath, "config", "", "config file (default <root>/"+config.FileName+")")
	pf.BoolVar(&g.strict, "strict", false, "exit 1 if any warning was recorded")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "log debug diagnostics to stderr")
	pf.StringVar(&g.color, "color", string(report.ColorAuto), "colorize output: auto, always or never")

	root.AddCommand(
		newSyncCmd(g),
		newParamsCmd(g),
		newPyParamsCmd(g),
		newLintCmd(g),
		newFmtCmd(g),
		newInitCmd(g),
		newVersionCmd(g),
	)
	return root
}

// session is the per-invocation state built from the flags.
type session struct {
	cfg     *config.Config
	log     *log.Logger
	runner  *check.Runner
	printer *report.Printer
	strict  bool

	// failUnresolved also fails strict runs on not-found or search-error matches.
	failUnresolved bool
}

func (g *globals) open(cmd *cobra.Command) (*session, error) {
	logger := log.NewWithOptions(g.stderr, log.Options{Prefix: "docsync"})
	if g.verbose {
		logger.SetLevel(log.DebugLevel)
	}

	mode, err := report.ParseColorMode(g.color)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(g.configPath, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if cfg.File != "" {
		logger.Debug("loaded config", "path", cfg.File)
	}

	return &session{
		cfg:     cfg,
		log:     logger,
		runner:  check.New(cfg, logger),
		printer: report.NewPrinter(g.stdout, cfg.ColumnWidth, mode),
		strict:  g.strict,
	}, nil
}

// finish prints rep and turns it into the exit status.
func (s *session) finish(rep *model.Report) error {
	s.log.Debug("check finished", "warnings", len(rep.Warnings), "matches", len(rep.Matches))
	s.printer.Report(rep)
	s.printer.Summary(rep)
	if s.strict && (rep.Dirty() || (s.failUnresolved && rep.Unresolved())) {
		return &ExitError{Code: 1}
	}
	return nil
}

func optionalArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func newSyncCmd(g *globals) *cobra.Command {
	var failUnresolved bool
	cmd := &cobra.Command{
		Use:   "sync [SPEC_FILES...]",
		Short: "Verify that every spec entry is registered in the binding source",
		Long: `Verify that every native member listed in the given YAML or RST spec files
is registered somewhere in the binding source. Without arguments the
spec_files from the config are used.

Not-found entries are reported but are not warnings. Pass
--fail-unresolved together with --strict to exit 1 on them as well.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			s.failUnresolved = failUnresolved
			rep, err := s.runner.Sync(args)
			if err != nil {
				return err
			}
			return s.finish(rep)
		},
	}
	cmd.Flags().BoolVar(&failUnresolved, "fail-unresolved", false, "with --strict, exit 1 on not-found or search-error entries")
	return cmd
}

func newParamsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "params [DOCS_DIR]",
		Short: "Compare rendered signatures with documented field lists",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			rep, err := s.runner.Params(optionalArg(args))
			if err != nil {
				return err
			}
			return s.finish(rep)
		},
	}
}

func newPyParamsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "pyparams [PY_DIR]",
		Short: "Compare Python signatures with their docstring fields",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			rep, err := s.runner.PyParams(optionalArg(args))
			if err != nil {
				return err
			}
			return s.finish(rep)
		},
	}
}

func newLintCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "lint [SRC_DIR]",
		Short: "Report indented field markers inside doc-comment blocks",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			rep, err := s.runner.Lint(optionalArg(args))
			if err != nil {
				return err
			}
			return s.finish(rep)
		},
	}
}

func newFmtCmd(g *globals) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "fmt [SRC_DIR]",
		Short: "Reformat doc-comment blocks with the configured formatter",
		Long: `Pipe the text of every doc-comment block through the formatter command
from the config and splice the result back in place. With --dry-run, only
list the files that would change; combined with --strict, any such file makes
the exit status 1.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			f := lint.ExecFormatter{Command: s.cfg.Formatter}
			changed, err := s.runner.Fmt(cmd.Context(), optionalArg(args), f, dryRun)
			if err != nil {
				return err
			}
			verb := "reformatted"
			if dryRun {
				verb = "would reformat"
			}
			for _, p := range changed {
				fmt.Fprintf(g.stdout, "%s %s\n", verb, p)
			}
			if s.strict && dryRun && len(changed) > 0 {
				return &ExitError{Code: 1}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list files that would change without writing them")
	return cmd
}

func newVersionCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the docsync version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(g.stdout, "docsync %s\n", version)
		},
	}
}
