package runner

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/webspec/webspec/executor"
	"github.com/webspec/webspec/gherkin"
	"github.com/webspec/webspec/types"
)

// featureWork is one unit handed to the worker pool.
type featureWork struct {
	file string
}

// featureWorkResult is what a worker sends back. Err marks an infrastructure
// failure (parse error, timeout); test failures live inside Result.
type featureWorkResult struct {
	file   string
	result *types.ExecutionResult
	err    error
}

// BatchRunner executes many feature files against one executor. A failing or
// unparsable feature never stops the batch; it is recorded and the remaining
// features still run.
type BatchRunner struct {
	cfg      BatchConfig
	executor *executor.Executor
	log      log.Logger
	tracer   trace.Tracer

	// OnProgress, when set, is invoked after each feature completes.
	OnProgress ProgressFunc
}

// NewBatchRunner creates a batch runner over the given executor.
func NewBatchRunner(cfg BatchConfig, ex *executor.Executor) *BatchRunner {
	return &BatchRunner{
		cfg:      cfg,
		executor: ex,
		log:      log.New("component", "batch-runner"),
		tracer:   otel.Tracer("webspec/runner"),
	}
}

// Run discovers, parses and executes every feature under each path. The
// returned error is reserved for total failures (no path resolvable, context
// cancelled); per-feature problems are reported in BatchResult.Errors.
func (r *BatchRunner) Run(ctx context.Context, paths ...string) (*BatchResult, error) {
	start := time.Now()
	runID := uuid.New().String()

	ctx, span := r.tracer.Start(ctx, "batch.run", trace.WithAttributes(
		attribute.String("run_id", runID),
		attribute.Int("paths", len(paths)),
	))
	defer span.End()

	var files []string
	for _, p := range paths {
		found, err := DiscoverFeatures(p)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	sort.Strings(files)

	r.log.Info("Starting batch run", "run_id", runID, "features", len(files), "workers", r.cfg.workers())

	result := &BatchResult{
		RunID:     runID,
		Timestamp: time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
	}
	if len(files) == 0 {
		result.finalize()
		return result, nil
	}

	tracker := newProgressTracker(len(files), r.OnProgress)
	results, err := r.executeAll(ctx, files, tracker)
	if err != nil {
		return nil, err
	}

	for _, wr := range results {
		if wr.err != nil {
			result.Errors = append(result.Errors, BatchError{File: wr.file, Message: wr.err.Error()})
			continue
		}
		result.Features = append(result.Features, FeatureResult{File: wr.file, Result: wr.result})
	}
	sort.Slice(result.Features, func(i, j int) bool { return result.Features[i].File < result.Features[j].File })
	sort.Slice(result.Errors, func(i, j int) bool { return result.Errors[i].File < result.Errors[j].File })

	result.DurationMS = time.Since(start).Milliseconds()
	result.finalize()

	span.SetAttributes(
		attribute.Int("features.passed", result.Summary.PassedFeatures),
		attribute.Int("features.failed", result.Summary.FailedFeatures),
		attribute.Int("features.errored", result.Summary.ErroredFeatures),
	)
	r.log.Info("Batch run finished",
		"run_id", runID,
		"passed", result.Summary.PassedFeatures,
		"failed", result.Summary.FailedFeatures,
		"errored", result.Summary.ErroredFeatures,
		"duration", time.Since(start))
	return result, nil
}

// executeAll fans the files out over a bounded worker pool and collects every
// result. Buffering stays conservative so huge batches cannot balloon memory.
func (r *BatchRunner) executeAll(ctx context.Context, files []string, tracker *progressTracker) ([]featureWorkResult, error) {
	workers := r.cfg.workers()
	bufferSize := min(workers*2, 100)
	workChan := make(chan featureWork, bufferSize)
	resultChan := make(chan featureWorkResult, bufferSize)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go r.worker(ctx, &wg, workChan, resultChan, tracker)
	}

	go func() {
		defer close(workChan)
		for _, f := range files {
			select {
			case workChan <- featureWork{file: f}:
			case <-ctx.Done():
				r.log.Debug("Context cancelled while queueing features")
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	var results []featureWorkResult
	for wr := range resultChan {
		results = append(results, wr)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *BatchRunner) worker(ctx context.Context, wg *sync.WaitGroup, workChan <-chan featureWork, resultChan chan<- featureWorkResult, tracker *progressTracker) {
	defer wg.Done()
	for {
		select {
		case work, ok := <-workChan:
			if !ok {
				return
			}
			wr := r.runOne(ctx, work.file)
			tracker.complete(work.file, wr.err != nil)
			select {
			case resultChan <- wr:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (r *BatchRunner) runOne(ctx context.Context, file string) featureWorkResult {
	ctx, span := r.tracer.Start(ctx, "batch.feature", trace.WithAttributes(attribute.String("file", file)))
	defer span.End()

	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	feature, err := gherkin.ParseFile(file)
	if err != nil {
		r.log.Error("Failed to parse feature", "file", file, "error", err)
		return featureWorkResult{file: file, err: err}
	}

	result, err := r.executor.RunFeature(ctx, feature)
	if err != nil {
		r.log.Error("Failed to execute feature", "file", file, "error", err)
		return featureWorkResult{file: file, err: err}
	}
	return featureWorkResult{file: file, result: result}
}
