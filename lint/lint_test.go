package lint

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gnolang/pystyle/internal/types"
)

type mockLintEngine struct {
	mock.Mock
}

func (m *mockLintEngine) Run(filePath string) ([]types.Issue, error) {
	args := m.Called(filePath)
	return args.Get(0).([]types.Issue), args.Error(1)
}

func (m *mockLintEngine) RunSource(filename string, source []byte) []types.Issue {
	args := m.Called(filename, source)
	return args.Get(0).([]types.Issue)
}

func setupMockEngine(expectedIssues []types.Issue, filePath string) *mockLintEngine {
	mockEngine := new(mockLintEngine)
	mockEngine.On("Run", filePath).Return(expectedIssues, nil)
	return mockEngine
}

// createTempFiles writes each named file with a trivial body and returns
// their paths in argument order.
func createTempFiles(t *testing.T, dir string, names ...string) []string {
	t.Helper()
	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))
		paths = append(paths, path)
	}
	return paths
}

func createTempDir(t *testing.T) string {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "lint_test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tempDir) })
	return tempDir
}

func issueFor(path, rule string) types.Issue {
	return types.Issue{Rule: rule, Filename: path, Line: 1, Message: "Test issue"}
}

func TestProcessFile(t *testing.T) {
	t.Parallel()
	expectedIssues := []types.Issue{issueFor("test.py", "S001")}
	mockEngine := setupMockEngine(expectedIssues, "test.py")

	issues, err := ProcessFile(mockEngine, "test.py")

	assert.NoError(t, err)
	assert.Equal(t, expectedIssues, issues)
	mockEngine.AssertExpectations(t)
}

func TestProcessSource(t *testing.T) {
	t.Parallel()
	expectedIssues := []types.Issue{issueFor("<stdin>", "S003")}
	mockEngine := new(mockLintEngine)
	mockEngine.On("RunSource", "<stdin>", []byte("x = 1;")).Return(expectedIssues)

	issues := ProcessSource(mockEngine, "<stdin>", []byte("x = 1;"))

	assert.Equal(t, expectedIssues, issues)
	mockEngine.AssertExpectations(t)
}

func TestProcessPath(t *testing.T) {
	t.Parallel()
	logger := zap.NewNop()
	tempDir := createTempDir(t)

	paths := createTempFiles(t, tempDir, "b.py", "a.py", "sub/c.py")
	createTempFiles(t, tempDir, "tests.py", "notes.txt", "sub/tests.py")

	mockEngine := new(mockLintEngine)
	for _, p := range paths {
		mockEngine.On("Run", p).Return([]types.Issue{issueFor(p, "S001"), issueFor(p, "S002")}, nil)
	}

	issues, err := ProcessPath(context.Background(), logger, mockEngine, tempDir, ProcessOptions{Workers: 3}, ProcessFile)
	require.NoError(t, err)

	// traversal order, each file's issues kept together
	var order []string
	for _, issue := range issues {
		order = append(order, filepath.Base(issue.Filename)+":"+issue.Rule)
	}
	assert.Equal(t, []string{"a.py:S001", "a.py:S002", "b.py:S001", "b.py:S002", "c.py:S001", "c.py:S002"}, order)
	mockEngine.AssertExpectations(t)
	mockEngine.AssertNotCalled(t, "Run", filepath.Join(tempDir, "tests.py"))
}

func TestProcessPathSkipsFailingFiles(t *testing.T) {
	t.Parallel()
	tempDir := createTempDir(t)
	paths := createTempFiles(t, tempDir, "a.py", "b.py")

	mockEngine := new(mockLintEngine)
	mockEngine.On("Run", paths[0]).Return([]types.Issue(nil), errors.New("permission denied"))
	mockEngine.On("Run", paths[1]).Return([]types.Issue{issueFor(paths[1], "S005")}, nil)

	issues, err := ProcessPath(context.Background(), zap.NewNop(), mockEngine, tempDir, ProcessOptions{}, ProcessFile)
	require.NoError(t, err)
	assert.Equal(t, []types.Issue{issueFor(paths[1], "S005")}, issues)
}

func TestProcessPathSkipsUnreadableDir(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced")
	}
	tempDir := createTempDir(t)
	paths := createTempFiles(t, tempDir, "a.py", "locked/b.py", "z.py")
	locked := filepath.Join(tempDir, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	mockEngine := new(mockLintEngine)
	mockEngine.On("Run", paths[0]).Return([]types.Issue{issueFor(paths[0], "S003")}, nil)
	mockEngine.On("Run", paths[2]).Return([]types.Issue{issueFor(paths[2], "S005")}, nil)

	core, logs := observer.New(zap.ErrorLevel)
	issues, err := ProcessPath(context.Background(), zap.New(core), mockEngine, tempDir, ProcessOptions{}, ProcessFile)
	require.NoError(t, err)
	assert.Equal(t, []types.Issue{issueFor(paths[0], "S003"), issueFor(paths[2], "S005")}, issues)
	assert.Equal(t, 1, logs.FilterMessage("Skipping unreadable entry").Len())
	mockEngine.AssertNotCalled(t, "Run", paths[1])
}

func TestProcessPathSingleFile(t *testing.T) {
	t.Parallel()
	tempDir := createTempDir(t)
	paths := createTempFiles(t, tempDir, "script")

	mockEngine := setupMockEngine([]types.Issue{issueFor(paths[0], "S003")}, paths[0])
	issues, err := ProcessPath(context.Background(), nil, mockEngine, paths[0], ProcessOptions{}, ProcessFile)
	require.NoError(t, err)
	assert.Len(t, issues, 1)

	failing := new(mockLintEngine)
	failing.On("Run", paths[0]).Return([]types.Issue(nil), os.ErrPermission)
	_, err = ProcessPath(context.Background(), nil, failing, paths[0], ProcessOptions{}, ProcessFile)
	assert.ErrorIs(t, err, os.ErrPermission)
}

func TestProcessPathExclude(t *testing.T) {
	t.Parallel()
	tempDir := createTempDir(t)
	paths := createTempFiles(t, tempDir, "keep.py", "gen/skip.py", "check.py")

	mockEngine := new(mockLintEngine)
	mockEngine.On("Run", paths[0]).Return([]types.Issue(nil), nil)

	opts := ProcessOptions{Exclude: []string{"gen"}, TestFile: "check.py"}
	_, err := ProcessPath(context.Background(), nil, mockEngine, tempDir, opts, ProcessFile)
	require.NoError(t, err)
	mockEngine.AssertExpectations(t)
	mockEngine.AssertNumberOfCalls(t, "Run", 1)
}

func TestProcessPathProgress(t *testing.T) {
	t.Parallel()
	tempDir := createTempDir(t)
	paths := createTempFiles(t, tempDir, "a.py")

	mockEngine := setupMockEngine(nil, paths[0])
	var buf bytes.Buffer
	_, err := ProcessPath(context.Background(), nil, mockEngine, tempDir, ProcessOptions{Progress: &buf}, ProcessFile)
	require.NoError(t, err)
	assert.NotEmpty(t, buf.String())
}

func TestProcessPathCancelled(t *testing.T) {
	t.Parallel()
	tempDir := createTempDir(t)
	createTempFiles(t, tempDir, "a.py", "b.py")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mockEngine := new(mockLintEngine)
	_, err := ProcessPath(ctx, nil, mockEngine, tempDir, ProcessOptions{}, ProcessFile)
	assert.ErrorIs(t, err, context.Canceled)
	mockEngine.AssertNotCalled(t, "Run", mock.Anything)
}

func TestProcessFiles(t *testing.T) {
	t.Parallel()
	logger := zap.NewNop()
	tempDir := createTempDir(t)

	paths := createTempFiles(t, tempDir, "test1.py", "test2.py")
	missing := filepath.Join(tempDir, "missing.py")

	mockEngine := new(mockLintEngine)
	mockEngine.On("Run", paths[0]).Return([]types.Issue{issueFor(paths[0], "S001")}, nil)
	mockEngine.On("Run", paths[1]).Return([]types.Issue{issueFor(paths[1], "S002")}, nil)

	issues, err := ProcessFiles(context.Background(), logger, mockEngine, []string{paths[1], missing, paths[0]}, ProcessOptions{}, ProcessFile)

	assert.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, []types.Issue{issueFor(paths[1], "S002"), issueFor(paths[0], "S001")}, issues)
	mockEngine.AssertExpectations(t)
}

func TestNew(t *testing.T) {
	t.Parallel()
	tempDir := createTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, ".pystyle.yaml"), []byte("name: demo\nworkers: 2\nexclude: [build]\n"), 0o644))

	engine, opts, err := New(tempDir, "", Options{Exclude: []string{"dist"}})
	require.NoError(t, err)
	require.NotNil(t, engine)
	assert.Equal(t, 2, opts.Workers)
	assert.Equal(t, []string{"build", "dist"}, opts.Exclude)
	assert.Equal(t, DefaultTestFile, opts.TestFile)

	_, opts, err = New(tempDir, "", Options{Workers: 8})
	require.NoError(t, err)
	assert.Equal(t, 8, opts.Workers)

	_, _, err = New(tempDir, filepath.Join(tempDir, "absent.yaml"), Options{})
	assert.Error(t, err)
}

func TestEndToEnd(t *testing.T) {
	t.Parallel()
	tempDir := createTempDir(t)
	src := "def f(items=[]): pass\n\n\n\n\nclass bad: pass\n"
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "mod.py"), []byte(src), 0o644))

	engine, opts, err := New(tempDir, "", Options{})
	require.NoError(t, err)

	issues, err := ProcessFiles(context.Background(), nil, engine, []string{tempDir}, opts, ProcessFile)
	require.NoError(t, err)

	var got []string
	for _, issue := range issues {
		got = append(got, issue.String())
	}
	path := filepath.Join(tempDir, "mod.py")
	assert.Equal(t, []string{
		path + ": Line 1: S012 Default argument value is mutable",
		path + ": Line 6: S006 More than two blank lines used before this line",
		path + ": Line 6: S008 Class name 'bad' should use CamelCase",
	}, got)
}
