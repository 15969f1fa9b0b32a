package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverByExtension(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "src/cong.cpp", "// c")
	writeFile(t, dir, "src/main.CPP", "// c")
	writeFile(t, dir, "src/sub/froidure-pin.cpp", "// c")
	// Other extensions should be ignored
	writeFile(t, dir, "src/readme.txt", "hello")
	// Hidden file should be ignored
	writeFile(t, dir, "src/.hidden.cpp", "secret")

	paths, err := Files(dir, Options{Extensions: []string{".cpp"}})
	require.NoError(t, err)

	// Should be sorted
	assert.Equal(t, []string{
		filepath.Join("src", "cong.cpp"),
		filepath.Join("src", "main.CPP"),
		filepath.Join("src", "sub", "froidure-pin.cpp"),
	}, paths)
}

func TestDiscoverNoExtensionFilter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.html", "")
	writeFile(t, dir, "b.yml", "")

	paths, err := Files(dir, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.html", "b.yml"}, paths)
}

func TestDiscoverSkipDirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "main.py", "pass")
	writeFile(t, dir, "node_modules/pkg.py", "pass")
	writeFile(t, dir, "__pycache__/cached.py", "pass")
	writeFile(t, dir, ".hidden/secret.py", "pass")

	paths, err := Files(dir, Options{Extensions: []string{".py"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"main.py"}, paths)
}

func TestDiscoverBuildDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "build/html/api.html", "<html></html>")

	paths, err := Files(dir, Options{Extensions: []string{".html"}})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("build", "html", "api.html")}, paths)

	paths, err = Files(dir, Options{Extensions: []string{".html"}, RespectIgnore: true})
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestDiscoverGitignore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, ".gitignore", "generated/\n*.tmp.cpp\n")
	writeFile(t, dir, "keep.cpp", "")
	writeFile(t, dir, "skip.tmp.cpp", "")
	writeFile(t, dir, "generated/out.cpp", "")

	paths, err := Files(dir, Options{Extensions: []string{".cpp"}, RespectIgnore: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.cpp"}, paths)

	paths, err = Files(dir, Options{Extensions: []string{".cpp"}})
	require.NoError(t, err)
	assert.Len(t, paths, 3)
}

func TestDiscoverSymlinksSkipped(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "real.py", "pass")

	// Create symlink
	err := os.Symlink(filepath.Join(dir, "real.py"), filepath.Join(dir, "link.py"))
	if err != nil {
		t.Skip("symlinks not supported")
	}

	paths, err := Files(dir, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"real.py"}, paths)
}

func TestDiscoverMissingRoot(t *testing.T) {
	t.Parallel()

	_, err := Files(filepath.Join(t.TempDir(), "nope"), Options{})
	assert.Error(t, err)

	dir := t.TempDir()
	writeFile(t, dir, "file.txt", "")
	_, err = Files(filepath.Join(dir, "file.txt"), Options{})
	assert.Error(t, err)
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	dir := filepath.Dir(path)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
