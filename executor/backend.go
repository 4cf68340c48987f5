package executor

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"
)

// Backend performs one matched step action. Implementations receive the
// step's registry identifier plus its extracted parameters and return
// human-readable output for the step report.
type Backend interface {
	Execute(ctx context.Context, identifier string, params []string, store *Store) (string, error)
}

// BackendFunc adapts a function to the Backend interface.
type BackendFunc func(ctx context.Context, identifier string, params []string, store *Store) (string, error)

func (f BackendFunc) Execute(ctx context.Context, identifier string, params []string, store *Store) (string, error) {
	return f(ctx, identifier, params, store)
}

// NopBackend acknowledges every step without touching a browser. It still
// honors wait steps so that timing-sensitive scenarios behave realistically,
// which makes it useful for dry runs and for exercising the pipeline in tests.
type NopBackend struct {
	// SkipWaits disables the real sleeping for wait steps.
	SkipWaits bool
}

func (b *NopBackend) Execute(ctx context.Context, identifier string, params []string, _ *Store) (string, error) {
	switch identifier {
	case "wait_seconds":
		if !b.SkipWaits {
			if err := sleepCtx(ctx, secondsFromParam(params)); err != nil {
				return "", err
			}
		}
		return fmt.Sprintf("waited %s seconds", firstParam(params)), nil
	case "wait_ms":
		if !b.SkipWaits {
			if err := sleepCtx(ctx, millisFromParam(params)); err != nil {
				return "", err
			}
		}
		return fmt.Sprintf("waited %s milliseconds", firstParam(params)), nil
	}
	return "ok", nil
}

// RecordingBackend captures every executed step. Test helper.
type RecordingBackend struct {
	mu    sync.Mutex
	calls []RecordedCall

	// Fail maps a step identifier to the error Execute returns for it.
	Fail map[string]error
}

type RecordedCall struct {
	Identifier string
	Params     []string
}

func (b *RecordingBackend) Execute(_ context.Context, identifier string, params []string, _ *Store) (string, error) {
	b.mu.Lock()
	b.calls = append(b.calls, RecordedCall{Identifier: identifier, Params: append([]string(nil), params...)})
	b.mu.Unlock()
	if err, ok := b.Fail[identifier]; ok {
		return "", err
	}
	return "recorded", nil
}

func (b *RecordingBackend) Calls() []RecordedCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]RecordedCall, len(b.calls))
	copy(out, b.calls)
	return out
}

func firstParam(params []string) string {
	if len(params) == 0 {
		return "0"
	}
	return params[0]
}

func secondsFromParam(params []string) time.Duration {
	n, _ := strconv.Atoi(firstParam(params))
	return time.Duration(n) * time.Second
}

func millisFromParam(params []string) time.Duration {
	n, _ := strconv.Atoi(firstParam(params))
	return time.Duration(n) * time.Millisecond
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
