package runner

import "sync"

// Progress is a snapshot of an in-flight batch run.
type Progress struct {
	Total     int
	Completed int
	Errored   int
	Current   string
}

// ProgressFunc receives a snapshot after every feature completes. It is
// called from worker goroutines; implementations must be fast and must not
// block.
type ProgressFunc func(Progress)

// progressTracker serializes progress updates from the worker pool.
type progressTracker struct {
	mu sync.Mutex
	p  Progress
	fn ProgressFunc
}

func newProgressTracker(total int, fn ProgressFunc) *progressTracker {
	return &progressTracker{p: Progress{Total: total}, fn: fn}
}

func (t *progressTracker) complete(file string, errored bool) {
	t.mu.Lock()
	t.p.Completed++
	if errored {
		t.p.Errored++
	}
	t.p.Current = file
	snapshot := t.p
	t.mu.Unlock()
	if t.fn != nil {
		t.fn(snapshot)
	}
}

func (t *progressTracker) snapshot() Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.p
}
