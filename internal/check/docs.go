package check

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/phobologic/docsync/internal/compare"
	"github.com/phobologic/docsync/internal/discover"
	"github.com/phobologic/docsync/internal/htmldoc"
	"github.com/phobologic/docsync/internal/lang"
	"github.com/phobologic/docsync/internal/model"
	"github.com/phobologic/docsync/internal/parse"
)

// Params compares signatures with documented field lists on every HTML page
// under dir, or the configured docs_dir when dir is empty. Pages that cannot
// be read are logged and skipped.
func (r *Runner) Params(dir string) (*model.Report, error) {
	if dir == "" {
		dir = r.Config.Path(r.Config.DocsDir)
	}
	// Generated pages are normally ignored by git.
	pages, err := discover.Files(dir, discover.Options{Extensions: []string{".html"}})
	if err != nil {
		return nil, err
	}
	r.Log.Debug("discovered pages", "dir", dir, "count", len(pages))

	rep := &model.Report{}
	for _, page := range pages {
		ws, err := r.checkPage(filepath.Join(dir, page))
		if err != nil {
			r.Log.Warn("skipping unreadable page", "path", page, "error", err)
			continue
		}
		for i := range ws {
			if ws[i].Location.IsZero() {
				ws[i].Location = model.Location{File: page}
			}
		}
		rep.Warn(ws...)
	}
	return rep, nil
}

func (r *Runner) checkPage(path string) ([]model.Warning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	root, err := htmldoc.ParsePage(f)
	if err != nil {
		return nil, err
	}

	var warnings []model.Warning
	for _, d := range htmldoc.Descriptions(root) {
		sig, ws := htmldoc.ExtractSignature(d)
		warnings = append(warnings, ws...)
		doc, ws := htmldoc.ExtractFields(d)
		warnings = append(warnings, ws...)
		if doc.Empty() {
			r.Log.Debug("no documented fields", "function", d.Name)
		}
		warnings = append(warnings, compare.Compare(d.Name, sig, doc)...)
	}
	return warnings, nil
}

// PyParams compares declared signatures with docstring field markers in the
// Python sources under dir, or the configured python_dir when dir is empty.
// Functions whose docstrings carry no field markers are not compared.
func (r *Runner) PyParams(dir string) (*model.Report, error) {
	if dir == "" {
		dir = r.Config.Path(r.Config.PythonDir)
	}
	py := lang.Languages["python"]
	if py == nil {
		return nil, fmt.Errorf("python language not registered")
	}
	query, err := py.GetDefinitionQuery()
	if err != nil {
		return nil, fmt.Errorf("python query: %w", err)
	}

	paths, err := discover.Files(dir, discover.Options{Extensions: py.Extensions, RespectIgnore: true})
	if err != nil {
		return nil, err
	}
	r.Log.Debug("discovered python files", "dir", dir, "count", len(paths))

	parser := py.NewParser()

	rep := &model.Report{}
	for _, p := range paths {
		if lang.ForExtension(strings.ToLower(filepath.Ext(p))) != py.Name {
			continue
		}
		source, err := os.ReadFile(filepath.Join(dir, p))
		if err != nil {
			r.Log.Warn("skipping unreadable file", "path", p, "error", err)
			continue
		}
		for _, fn := range parse.ExtractFunctions(py, parser, query, source) {
			if !fn.HasFields {
				continue
			}
			ws := compare.Compare(fn.Name, fn.Signature, fn.Fields)
			for i := range ws {
				ws[i].Location = model.Location{File: p, Line: fn.Line}
			}
			rep.Warn(ws...)
		}
	}
	return rep, nil
}
