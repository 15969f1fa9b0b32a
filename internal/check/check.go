// Package check runs the docsync passes over a repository and collects their
// results into a model.Report.
package check

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/phobologic/docsync/internal/config"
	"github.com/phobologic/docsync/internal/discover"
	"github.com/phobologic/docsync/internal/lint"
	"github.com/phobologic/docsync/internal/model"
	"github.com/phobologic/docsync/internal/specfile"
	"github.com/phobologic/docsync/internal/verify"
)

// Runner holds what every pass needs.
type Runner struct {
	Config *config.Config
	Log    *log.Logger
}

// New returns a Runner. A nil logger discards diagnostics.
func New(cfg *config.Config, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{Config: cfg, Log: logger}
}

// sourceDir resolves an explicit directory argument, falling back to the
// configured source_dir, and checks that it exists. label is the prefix used
// for reported paths.
func (r *Runner) sourceDir(dir string) (full, label string, err error) {
	if dir == "" {
		if err := r.Config.Validate(); err != nil {
			return "", "", err
		}
		return r.Config.Path(r.Config.SourceDir), r.Config.SourceDir, nil
	}
	if err := config.CheckDir(dir); err != nil {
		return "", "", err
	}
	return dir, dir, nil
}

func (r *Runner) sourceFiles(dir string) ([]string, error) {
	paths, err := discover.Files(dir, discover.Options{
		Extensions:    r.Config.SourceExt,
		RespectIgnore: true,
	})
	if err != nil {
		return nil, err
	}
	r.Log.Debug("discovered source files", "dir", dir, "count", len(paths))
	return paths, nil
}

// Sync verifies that every entry of the given spec files is registered in the
// binding source. With no paths, the configured spec_files are used.
func (r *Runner) Sync(specPaths []string) (*model.Report, error) {
	dir, label, err := r.sourceDir("")
	if err != nil {
		return nil, err
	}
	if len(specPaths) == 0 {
		for _, p := range r.Config.SpecFiles {
			specPaths = append(specPaths, r.Config.Path(p))
		}
	}
	if len(specPaths) == 0 {
		return nil, errors.New("no spec files given and spec_files is empty")
	}

	paths, err := r.sourceFiles(dir)
	if err != nil {
		return nil, err
	}
	files, err := verify.LoadFiles(dir, paths)
	if err != nil {
		return nil, err
	}
	for i := range files {
		files[i].Path = filepath.Join(label, files[i].Path)
	}
	checker := verify.NewChecker(files, r.Config.VerifyOptions())

	rep := &model.Report{}
	for _, p := range specPaths {
		fileRep, err := r.syncFile(p, checker)
		if err != nil {
			return nil, err
		}
		rep.Merge(fileRep)
	}
	return rep, nil
}

// syncFile verifies the entries of one spec file.
func (r *Runner) syncFile(path string, checker *verify.Checker) (*model.Report, error) {
	src, err := specfile.Open(path)
	if err != nil {
		return nil, err
	}
	results, err := verify.VerifySource(src, checker)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	r.Log.Debug("verified spec file", "path", path, "kind", src.Kind(), "entries", len(results))

	rep := &model.Report{}
	for _, res := range results {
		if res.Status == model.Omitted {
			r.Log.Debug("omitted rvalue overload", "entry", res.Entry.String())
			continue
		}
		rep.AddMatch(res)
	}
	return rep, nil
}

// Lint reports misindented field markers in the binding source under dir, or
// the configured source_dir when dir is empty.
func (r *Runner) Lint(dir string) (*model.Report, error) {
	dir, label, err := r.sourceDir(dir)
	if err != nil {
		return nil, err
	}
	paths, err := r.sourceFiles(dir)
	if err != nil {
		return nil, err
	}

	rep := &model.Report{}
	markers := r.Config.Markers()
	for _, p := range paths {
		ws, err := lintFile(filepath.Join(dir, p), filepath.Join(label, p), markers)
		if err != nil {
			return nil, err
		}
		rep.Warn(ws...)
	}
	return rep, nil
}

func lintFile(path, display string, markers lint.BlockMarkers) ([]model.Warning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening source: %w", err)
	}
	defer f.Close()
	return lint.Lint(display, f, markers)
}

// Fmt rewrites the doc-comment blocks of every source file under dir with f
// and returns the paths of files whose content changed. With dryRun set no
// file is written.
func (r *Runner) Fmt(ctx context.Context, dir string, f lint.Formatter, dryRun bool) ([]string, error) {
	dir, label, err := r.sourceDir(dir)
	if err != nil {
		return nil, err
	}
	paths, err := r.sourceFiles(dir)
	if err != nil {
		return nil, err
	}

	var changed []string
	markers := r.Config.Markers()
	for _, p := range paths {
		full := filepath.Join(dir, p)
		info, err := os.Stat(full)
		if err != nil {
			return nil, fmt.Errorf("reading source: %w", err)
		}
		data, err := os.ReadFile(full)
		if err != nil {
			return nil, fmt.Errorf("reading source: %w", err)
		}
		out, blocks, err := lint.Reformat(ctx, string(data), markers, f)
		if err != nil {
			return nil, fmt.Errorf("formatting %s: %w", p, err)
		}
		if blocks == 0 {
			continue
		}
		r.Log.Debug("reformatted blocks", "path", p, "blocks", blocks)
		changed = append(changed, filepath.Join(label, p))
		if dryRun {
			continue
		}
		if err := os.WriteFile(full, []byte(out), info.Mode().Perm()); err != nil {
			return nil, fmt.Errorf("writing %s: %w", p, err)
		}
	}
	return changed, nil
}
