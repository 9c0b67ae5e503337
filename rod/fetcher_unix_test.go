//go:build integration && !windows

package rod_test

import (
	"syscall"
	"testing"
	"time"

	"github.com/fwojciec/campusqa/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// alive uses signal 0, which only checks that the process exists.
func alive(pid int) bool {
	return syscall.Kill(pid, syscall.Signal(0)) == nil
}

func TestBrowserManager_ProcessLifecycle(t *testing.T) {
	t.Parallel()

	t.Run("recycle kills the replaced browser", func(t *testing.T) {
		t.Parallel()

		manager, err := rod.NewBrowserManager(rod.WithRecycleAfter(1))
		require.NoError(t, err)
		defer manager.Close()

		old := manager.LauncherPID()
		servePages(t, manager, 2)
		time.Sleep(100 * time.Millisecond)

		assert.False(t, alive(old))
		assert.True(t, alive(manager.LauncherPID()))
	})

	t.Run("fetcher close kills the browser", func(t *testing.T) {
		t.Parallel()

		manager, err := rod.NewBrowserManager()
		require.NoError(t, err)
		fetcher := rod.NewFetcher(manager)

		pid := manager.LauncherPID()
		require.NotZero(t, pid)
		require.True(t, alive(pid))

		require.NoError(t, fetcher.Close())
		time.Sleep(100 * time.Millisecond)

		assert.False(t, alive(pid))
	})
}
