package check

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/docsync/internal/config"
	"github.com/phobologic/docsync/internal/lint"
	"github.com/phobologic/docsync/internal/model"
	"github.com/phobologic/docsync/internal/specfile"
)

const fooCpp = `m.def("bar", &Foo::bar, R"pbdoc(
Does bar.

:param x: the x
   :rtype: int
)pbdoc");
`

const fooSpec = `Foo:
  - Member functions:
    - bar(int)
    - baz(int)
    - cend_things() const
    - qux(int&&)
`

const apiPage = `<html><body>
<dl class="py function">
<dt class="sig sig-object py" id="pkg.f"><span class="sig-name descname"><span class="pre">f</span></span><span class="sig-paren">(</span><em class="sig-param"><span class="n"><span class="pre">x</span></span><span class="p"><span class="pre">:</span></span> <span class="n"><span class="pre">int</span></span></em>, <em class="sig-param"><span class="n"><span class="pre">y</span></span></em><span class="sig-paren">)</span></dt>
<dd>
<dl class="field-list simple">
<dt class="field-odd">Parameters<span class="colon">:</span></dt>
<dd class="field-odd"><p><strong>x</strong> (<em>int</em>) – an x.</p></dd>
</dl>
</dd></dl>
</body></html>
`

const modPy = `def f(x: int, y):
    """Do f.

    :param x: an x
    :type x: str
    """


def g(a):
    "No fields here."
`

func fixture(t *testing.T) (*Runner, string) {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "src/foo.cpp", fooCpp)
	writeFile(t, dir, "etc/foo.yml", fooSpec)
	writeFile(t, dir, "docs/_build/html/api.html", apiPage)
	writeFile(t, dir, "libsemigroups_pybind11/mod.py", modPy)

	cfg := config.Default()
	cfg.Root = dir
	cfg.SpecFiles = []string{filepath.Join("etc", "foo.yml")}
	return New(&cfg, nil), dir
}

func TestSync(t *testing.T) {
	t.Parallel()
	r, _ := fixture(t)

	rep, err := r.Sync(nil)
	require.NoError(t, err)
	require.Len(t, rep.Matches, 3)

	assert.Equal(t, "Foo::bar(int)", rep.Matches[0].Entry.String())
	assert.Equal(t, model.Found, rep.Matches[0].Status)
	assert.Equal(t, []model.Location{{File: filepath.Join("src", "foo.cpp"), Line: 1}}, rep.Matches[0].Locations)

	assert.Equal(t, model.NotFound, rep.Matches[1].Status)
	assert.Equal(t, model.Skipped, rep.Matches[2].Status)
	assert.False(t, rep.Dirty())
	assert.True(t, rep.Unresolved())
}

func TestSyncExplicitSpecFiles(t *testing.T) {
	t.Parallel()
	r, dir := fixture(t)
	writeFile(t, dir, "etc/bar.yml", "Foo:\n  - Member functions:\n    - bar(int)\n")

	rep, err := r.Sync([]string{filepath.Join(dir, "etc", "bar.yml")})
	require.NoError(t, err)
	require.Len(t, rep.Matches, 1)
	assert.False(t, rep.Unresolved())
}

func TestSyncMergesSpecFiles(t *testing.T) {
	t.Parallel()
	r, dir := fixture(t)
	writeFile(t, dir, "etc/bar.yml", "Foo:\n  - Member functions:\n    - bar(int)\n")

	rep, err := r.Sync([]string{filepath.Join(dir, "etc", "bar.yml"), filepath.Join(dir, "etc", "foo.yml")})
	require.NoError(t, err)
	require.Len(t, rep.Matches, 4)
	assert.Equal(t, "Foo::bar(int)", rep.Matches[0].Entry.String())
	assert.Equal(t, model.Found, rep.Matches[0].Status)
	assert.Equal(t, model.Skipped, rep.Matches[3].Status)
}

func TestSyncWrongWorkingDirectory(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Root = t.TempDir()
	_, err := New(&cfg, nil).Sync([]string{"whatever.yml"})
	assert.ErrorIs(t, err, config.ErrWrongWorkingDirectory)
}

func TestSyncInvalidSpecFile(t *testing.T) {
	t.Parallel()
	r, dir := fixture(t)
	writeFile(t, dir, "etc/foo.txt", "Foo:\n")

	_, err := r.Sync([]string{filepath.Join(dir, "etc", "foo.txt")})
	assert.True(t, errors.Is(err, specfile.ErrInvalidArgument))
}

func TestSyncNoSpecFiles(t *testing.T) {
	t.Parallel()
	r, _ := fixture(t)
	r.Config.SpecFiles = nil

	_, err := r.Sync(nil)
	assert.Error(t, err)
}

func TestLint(t *testing.T) {
	t.Parallel()
	r, _ := fixture(t)

	rep, err := r.Lint("")
	require.NoError(t, err)
	require.Len(t, rep.Warnings, 1)
	w := rep.Warnings[0]
	assert.Equal(t, model.MisindentedField, w.Category)
	assert.Equal(t, "rtype", w.Subject)
	assert.Equal(t, model.Location{File: filepath.Join("src", "foo.cpp"), Line: 5}, w.Location)
}

func TestLintMissingDir(t *testing.T) {
	t.Parallel()
	r, dir := fixture(t)

	_, err := r.Lint(filepath.Join(dir, "nope"))
	assert.ErrorIs(t, err, config.ErrWrongWorkingDirectory)
}

func TestParams(t *testing.T) {
	t.Parallel()
	r, _ := fixture(t)

	rep, err := r.Params("")
	require.NoError(t, err)
	require.Len(t, rep.Warnings, 1)
	w := rep.Warnings[0]
	assert.Equal(t, model.UndocumentedParameter, w.Category)
	assert.Equal(t, "pkg.f", w.Subject)
	assert.Equal(t, "api.html", w.Location.File)
}

func TestPyParams(t *testing.T) {
	t.Parallel()
	r, _ := fixture(t)

	rep, err := r.PyParams("")
	require.NoError(t, err)
	require.Len(t, rep.Warnings, 2)
	assert.Equal(t, model.MismatchedTypehints, rep.Warnings[0].Category)
	assert.Equal(t, model.UndocumentedParameter, rep.Warnings[1].Category)
	for _, w := range rep.Warnings {
		assert.Equal(t, "f", w.Subject)
		assert.Equal(t, model.Location{File: "mod.py", Line: 1}, w.Location)
	}
}

func TestFmt(t *testing.T) {
	t.Parallel()
	r, dir := fixture(t)
	upper := lint.FormatterFunc(func(_ context.Context, s string) (string, error) {
		return strings.ToUpper(s), nil
	})
	path := filepath.Join(dir, "src", "foo.cpp")

	changed, err := r.Fmt(context.Background(), "", upper, true)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("src", "foo.cpp")}, changed)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, fooCpp, string(data))

	changed, err = r.Fmt(context.Background(), "", upper, false)
	require.NoError(t, err)
	assert.Len(t, changed, 1)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "DOES BAR.")
	assert.Contains(t, string(data), `m.def("bar", &Foo::bar, R"pbdoc(`)
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
