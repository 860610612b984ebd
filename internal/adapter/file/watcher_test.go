package file

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func startWatcher(t *testing.T) (*Slot, *atomic.Int32, func()) {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "glicosmart.json"))
	require.NoError(t, err)

	var calls atomic.Int32
	w, err := NewWatcher(s, func() { calls.Add(1) }, zaptest.NewLogger(t))
	require.NoError(t, err)
	w.debounce = 40 * time.Millisecond
	require.NoError(t, w.Start(context.Background()))
	return s, &calls, w.Stop
}

func TestWatcher_ReportsForeignWrite(t *testing.T) {
	defer goleak.VerifyNone(t)

	s, calls, stop := startWatcher(t)
	defer stop()

	require.NoError(t, os.WriteFile(s.Path(), []byte(`{"other":{}}`), 0o600))
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 3*time.Second, 20*time.Millisecond)
}

func TestWatcher_IgnoresOwnWrites(t *testing.T) {
	defer goleak.VerifyNone(t)

	s, calls, stop := startWatcher(t)
	defer stop()

	ctx := context.Background()
	require.NoError(t, s.Write(ctx, []byte(`{"mine":{}}`)))
	require.NoError(t, s.Write(ctx, []byte(`{"mine":{"profile":{}}}`)))
	require.NoError(t, s.Clear(ctx))

	require.Never(t, func() bool { return calls.Load() > 0 }, 300*time.Millisecond, 20*time.Millisecond)
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	_, _, stop := startWatcher(t)
	stop()
	stop()
}

func TestWatcher_ContextCancelEndsLoop(t *testing.T) {
	defer goleak.VerifyNone(t)

	s, err := New(filepath.Join(t.TempDir(), "glicosmart.json"))
	require.NoError(t, err)
	w, err := NewWatcher(s, nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	cancel()
	select {
	case <-w.doneCh:
	case <-time.After(2 * time.Second):
		t.Fatal("watch loop did not stop on cancel")
	}
	w.Stop()
}
