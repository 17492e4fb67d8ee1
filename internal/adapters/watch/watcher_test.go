package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/blockflow-go/internal/adapters/watch"
)

type recorder struct {
	mu    sync.Mutex
	calls [][]string
}

func (r *recorder) reanalyze(ctx context.Context, changed []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, changed)
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func (r *recorder) last() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return nil
	}
	return r.calls[len(r.calls)-1]
}

func startWatcher(t *testing.T, paths []string, rec *recorder, opts watch.Options) *watch.FactWatcher {
	t.Helper()
	w, err := watch.NewFactWatcher(paths, rec.reanalyze, opts)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return w
}

func TestFactWatcher_DebouncesBurstOfWrites(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	blocks := filepath.Join(dir, "blocks.yaml")
	require.NoError(t, os.WriteFile(blocks, []byte("blocks: []\n"), 0644))
	rec := &recorder{}
	startWatcher(t, []string{blocks}, rec, watch.Options{Debounce: 100 * time.Millisecond, MaxRate: 100, Burst: 10})

	// Act
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(blocks, []byte("blocks: []\n"), 0644))
		time.Sleep(10 * time.Millisecond)
	}

	// Assert
	require.Eventually(t, func() bool { return rec.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(250 * time.Millisecond)
	assert.Equal(t, 1, rec.count())
	assert.Equal(t, []string{blocks}, rec.last())
}

func TestFactWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	catalog := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(catalog, []byte("{}"), 0644))
	rec := &recorder{}
	startWatcher(t, []string{catalog}, rec, watch.Options{Debounce: 20 * time.Millisecond, MaxRate: 100, Burst: 10})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	time.Sleep(200 * time.Millisecond)

	assert.Equal(t, 0, rec.count())
}

func TestFactWatcher_ThrottlesRuns(t *testing.T) {
	// Arrange: one run admitted, the next only after 1/MaxRate seconds
	dir := t.TempDir()
	blocks := filepath.Join(dir, "blocks.json")
	require.NoError(t, os.WriteFile(blocks, []byte("{}"), 0644))
	rec := &recorder{}
	startWatcher(t, []string{blocks}, rec, watch.Options{Debounce: 10 * time.Millisecond, MaxRate: 2, Burst: 1})

	// Act
	require.NoError(t, os.WriteFile(blocks, []byte("{}"), 0644))
	require.Eventually(t, func() bool { return rec.count() == 1 }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, os.WriteFile(blocks, []byte("{}"), 0644))

	// Assert
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 1, rec.count(), "second run should wait for the limiter")
	require.Eventually(t, func() bool { return rec.count() == 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestNewFactWatcher_Validates(t *testing.T) {
	rec := &recorder{}

	_, err := watch.NewFactWatcher([]string{""}, rec.reanalyze, watch.DefaultOptions())
	assert.Error(t, err)

	_, err = watch.NewFactWatcher([]string{"blocks.yaml"}, nil, watch.DefaultOptions())
	assert.Error(t, err)
}
