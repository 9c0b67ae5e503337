package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/campusqa"
	"github.com/fwojciec/campusqa/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateLog(t *testing.T) {
	t.Parallel()

	t.Run("load of a fresh directory is empty", func(t *testing.T) {
		t.Parallel()

		snap, err := fs.NewStateLog(filepath.Join(t.TempDir(), "state")).Load(context.Background())

		require.NoError(t, err)
		assert.Empty(t, snap.Visited)
		assert.Empty(t, snap.Queued)
	})

	t.Run("round trips through a new instance", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		ctx := context.Background()
		s := fs.NewStateLog(dir)
		require.NoError(t, s.MarkQueued(ctx, "https://example.com"))
		require.NoError(t, s.MarkQueued(ctx, "https://example.com/about"))
		require.NoError(t, s.MarkVisited(ctx, "https://example.com"))
		require.NoError(t, s.Close())

		snap, err := fs.NewStateLog(dir).Load(ctx)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com"}, snap.Visited)
		assert.Equal(t, []string{"https://example.com", "https://example.com/about"}, snap.Queued)
		assert.Equal(t, []string{"https://example.com/about"}, snap.Pending())
	})

	t.Run("visited line is on disk before MarkVisited returns", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		s := fs.NewStateLog(dir)
		t.Cleanup(func() { _ = s.Close() })

		require.NoError(t, s.MarkVisited(context.Background(), "https://example.com/a"))

		b, err := os.ReadFile(filepath.Join(dir, fs.VisitedFile))
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/a\n", string(b))
	})

	t.Run("appends across runs", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		ctx := context.Background()
		for _, u := range []string{"https://example.com/1", "https://example.com/2"} {
			s := fs.NewStateLog(dir)
			require.NoError(t, s.MarkVisited(ctx, u))
			require.NoError(t, s.Close())
		}

		snap, err := fs.NewStateLog(dir).Load(ctx)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/1", "https://example.com/2"}, snap.Visited)
	})

	t.Run("reset removes both logs", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		ctx := context.Background()
		s := fs.NewStateLog(dir)
		require.NoError(t, s.MarkQueued(ctx, "https://example.com"))
		require.NoError(t, s.MarkVisited(ctx, "https://example.com"))

		require.NoError(t, s.Reset())

		snap, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, snap.Visited)
		assert.Empty(t, snap.Queued)
		assert.NoFileExists(t, filepath.Join(dir, fs.VisitedFile))
	})

	t.Run("unwritable directory is EIO", func(t *testing.T) {
		t.Parallel()

		blocker := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(blocker, nil, 0o644))
		s := fs.NewStateLog(filepath.Join(blocker, "state"))

		err := s.MarkVisited(context.Background(), "https://example.com")

		assert.Equal(t, campusqa.EIO, campusqa.ErrorCode(err))
	})
}
