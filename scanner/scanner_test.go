package scanner

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "scanner_test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	for path, content := range files {
		fullPath := filepath.Join(tempDir, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
		require.NoError(t, os.WriteFile(fullPath, []byte(content), 0o644))
	}
	return tempDir
}

func relPaths(t *testing.T, root string, files []FileInfo) []string {
	t.Helper()
	var paths []string
	for _, f := range files {
		rel, err := filepath.Rel(root, f.Path)
		require.NoError(t, err)
		paths = append(paths, filepath.ToSlash(rel))
	}
	return paths
}

func TestProjectScanner(t *testing.T) {
	t.Parallel()
	tempDir := writeTree(t, map[string]string{
		"b.py":            "x = 1",
		"a.py":            "x = 1",
		"tests.py":        "x = 1",
		"notes.txt":       "This is a text file",
		"pkg/z.py":        "x = 1",
		"pkg/tests.py":    "x = 1",
		"pkg/inner/c.py":  "x = 1",
		"A/upper.py":      "x = 1",
		"pkg/module.pyc":  "binary",
		"pkg/readme.md":   "docs",
		"pkg/__init__.py": "",
	})

	scannedFiles, err := New(tempDir, ".py").ExcludeNames("tests.py").Scan()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"A/upper.py",
		"a.py",
		"b.py",
		"pkg/__init__.py",
		"pkg/inner/c.py",
		"pkg/z.py",
	}, relPaths(t, tempDir, scannedFiles))

	for _, file := range scannedFiles {
		if filepath.Base(file.Path) != "__init__.py" {
			assert.Greater(t, file.Size, int64(0), "File size should be greater than 0")
		}
	}
}

func TestScannerExcludeGlobs(t *testing.T) {
	t.Parallel()
	tempDir := writeTree(t, map[string]string{
		"main.py":                   "x = 1",
		"gen_pb2.py":                "x = 1",
		".venv/lib/site.py":         "x = 1",
		"build/out.py":              "x = 1",
		"src/__pycache__/cached.py": "x = 1",
		"src/app.py":                "x = 1",
	})

	scannedFiles, err := New(tempDir, ".py").
		ExcludeGlobs(".venv", "build/*", "__pycache__", "*_pb2.py").
		Scan()
	require.NoError(t, err)
	assert.Equal(t, []string{"main.py", "src/app.py"}, relPaths(t, tempDir, scannedFiles))
}

func TestScannerStable(t *testing.T) {
	t.Parallel()
	tempDir := writeTree(t, map[string]string{
		"x/1.py": "a", "x/2.py": "b", "y/3.py": "c", "0.py": "d",
	})
	first, err := New(tempDir, ".py").Scan()
	require.NoError(t, err)
	second, err := New(tempDir, ".py").Scan()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestScannerMissingRoot(t *testing.T) {
	t.Parallel()
	_, err := New(filepath.Join(os.TempDir(), "definitely-missing-pystyle-dir")).Scan()
	assert.Error(t, err)
}

func TestScannerSkipsUnreadableDir(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced")
	}
	tempDir := writeTree(t, map[string]string{
		"a.py":        "x = 1",
		"locked/b.py": "x = 1",
		"open/c.py":   "x = 1",
		"z_last.py":   "x = 1",
	})
	locked := filepath.Join(tempDir, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	s := New(tempDir, ".py")
	scannedFiles, err := s.Scan()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.py", "open/c.py", "z_last.py"}, relPaths(t, tempDir, scannedFiles))
	require.Len(t, s.Skipped(), 1)
	assert.ErrorIs(t, s.Skipped()[0], os.ErrPermission)
}
