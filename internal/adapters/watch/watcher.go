// Package watch re-runs analysis when fact files change on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/blockflow-go/internal/adapters/metrics"
	"github.com/andrescamacho/blockflow-go/internal/application/logging"
)

// ReanalyzeFunc is called with the fact files that changed since the last run
type ReanalyzeFunc func(ctx context.Context, changed []string) error

// Options tunes debouncing and throttling
type Options struct {
	// Quiet period after the last event before a run starts
	Debounce time.Duration

	// Maximum runs per second and burst size
	MaxRate float64
	Burst   int
}

// DefaultOptions returns half a second of debounce and one run per 5s
func DefaultOptions() Options {
	return Options{Debounce: 500 * time.Millisecond, MaxRate: 0.2, Burst: 1}
}

// FactWatcher watches a fixed set of fact files. Directories are watched
// rather than files so editors that replace files by rename are still seen.
type FactWatcher struct {
	files     map[string]struct{}
	watcher   *fsnotify.Watcher
	reanalyze ReanalyzeFunc
	debounce  time.Duration
	limiter   *rate.Limiter

	mu      sync.Mutex
	pending map[string]struct{}
	runs    int
}

// NewFactWatcher creates a watcher over paths; empty paths are skipped
func NewFactWatcher(paths []string, reanalyze ReanalyzeFunc, opts Options) (*FactWatcher, error) {
	if reanalyze == nil {
		return nil, fmt.Errorf("reanalyze callback is required")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultOptions().Debounce
	}
	if opts.MaxRate <= 0 {
		opts.MaxRate = DefaultOptions().MaxRate
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}

	files := make(map[string]struct{})
	dirs := make(map[string]struct{})
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no fact files to watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	return &FactWatcher{
		files:     files,
		watcher:   watcher,
		reanalyze: reanalyze,
		debounce:  opts.Debounce,
		limiter:   rate.NewLimiter(rate.Limit(opts.MaxRate), opts.Burst),
		pending:   make(map[string]struct{}),
	}, nil
}

// Runs returns how many re-analyses have completed
func (w *FactWatcher) Runs() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.runs
}

// Run blocks until ctx is cancelled or the watcher fails
func (w *FactWatcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	logger := logging.LoggerFromContext(ctx)

	timer := time.NewTimer(time.Hour)
	stopTimer(timer)

	for {
		select {
		case <-ctx.Done():
			stopTimer(timer)
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			path := filepath.Clean(event.Name)
			metrics.RecordFactChange(filepath.Base(path))
			logger.Log("DEBUG", "Fact file changed", map[string]interface{}{
				"file": path,
				"op":   event.Op.String(),
			})
			w.mu.Lock()
			w.pending[path] = struct{}{}
			w.mu.Unlock()
			resetTimer(timer, w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Log("ERROR", "File watcher error", map[string]interface{}{
				"error": err.Error(),
			})

		case <-timer.C:
			if delay := w.throttle(); delay > 0 {
				metrics.RecordThrottled()
				logger.Log("DEBUG", "Re-analysis throttled", map[string]interface{}{
					"retry_in": delay.String(),
				})
				timer.Reset(delay)
				continue
			}
			w.flush(ctx)
		}
	}
}

func (w *FactWatcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	_, ok := w.files[abs]
	return ok
}

// throttle returns how long to wait before the limiter admits a run
func (w *FactWatcher) throttle() time.Duration {
	r := w.limiter.Reserve()
	delay := r.Delay()
	if delay > 0 {
		r.Cancel()
	}
	return delay
}

func (w *FactWatcher) flush(ctx context.Context) {
	w.mu.Lock()
	changed := make([]string, 0, len(w.pending))
	for p := range w.pending {
		changed = append(changed, p)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()
	if len(changed) == 0 {
		return
	}
	sort.Strings(changed)

	logger := logging.LoggerFromContext(ctx)
	start := time.Now()
	err := w.reanalyze(ctx, changed)
	duration := time.Since(start)
	metrics.RecordReanalysis(duration.Seconds(), err == nil)

	w.mu.Lock()
	w.runs++
	w.mu.Unlock()

	if err != nil {
		logger.Log("ERROR", "Re-analysis failed", map[string]interface{}{
			"files": changed,
			"error": err.Error(),
		})
		return
	}
	logger.Log("INFO", "Re-analysis completed", map[string]interface{}{
		"files":       changed,
		"duration_ms": duration.Milliseconds(),
	})
}

func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}

func resetTimer(t *time.Timer, d time.Duration) {
	stopTimer(t)
	t.Reset(d)
}
