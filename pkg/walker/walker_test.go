package walker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))
}

func TestWalkMissingRoot(t *testing.T) {
	_, err := Walk(context.Background(), Config{Root: "/nonexistent/doccov-root"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRootNotFound))
}

func TestWalkRootIsFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "a.ts")

	_, err := Walk(context.Background(), Config{Root: filepath.Join(tmpDir, "a.ts")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestWalkIncludesAndExcludes(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "src/a.ts")
	writeFile(t, tmpDir, "src/b.py")
	writeFile(t, tmpDir, "src/inner/c.ts")
	writeFile(t, tmpDir, "src/a.test.ts")
	writeFile(t, tmpDir, "README.md")

	result, err := Walk(context.Background(), Config{
		Root:     tmpDir,
		Includes: []string{"**/*.ts"},
		Excludes: []string{"**/*.test.ts"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.ts", "src/inner/c.ts"}, result.Files)
	assert.Empty(t, result.Warnings)
}

func TestWalkSkipsJunkAndHiddenDirs(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "src/a.ts")
	writeFile(t, tmpDir, "node_modules/pkg/index.ts")
	writeFile(t, tmpDir, "__pycache__/mod.py")
	writeFile(t, tmpDir, ".git/hooks/sample.py")
	writeFile(t, tmpDir, "venv/lib/thing.py")

	result, err := Walk(context.Background(), Config{Root: tmpDir})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.ts"}, result.Files)
}

func TestWalkKeepsEnvNamedSourceDirs(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "src/env/config.py")
	writeFile(t, tmpDir, ".venv/lib/thing.py")

	result, err := Walk(context.Background(), Config{Root: tmpDir})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/env/config.py"}, result.Files)
}

func TestWalkDeterministicOrder(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "z.py")
	writeFile(t, tmpDir, "a.py")
	writeFile(t, tmpDir, "m/n.py")

	first, err := Walk(context.Background(), Config{Root: tmpDir, Includes: []string{"**/*.py"}})
	require.NoError(t, err)
	second, err := Walk(context.Background(), Config{Root: tmpDir, Includes: []string{"**/*.py"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.py", "m/n.py", "z.py"}, first.Files)
	assert.Equal(t, first.Files, second.Files)
}

func TestWalkInvalidPattern(t *testing.T) {
	tmpDir := t.TempDir()
	_, err := Walk(context.Background(), Config{Root: tmpDir, Includes: []string{"[bad"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid glob pattern")
}

func TestWalkCancelledContext(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "a.py")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Walk(ctx, Config{Root: tmpDir})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
