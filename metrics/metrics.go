package metrics

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/webspec/webspec/types"
)

const (
	MetricsNamespace = "webspec"
)

var (
	Debug                bool = true
	validStatuses             = []types.Status{types.StatusPassed, types.StatusFailed, types.StatusSkipped}
	nonAlphanumericRegex      = regexp.MustCompile(`[^a-zA-Z ]+`)

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	scenariosTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "scenarios_total",
		Help:      "Count of executed scenarios",
	}, []string{
		"run_id",
		"status",
	})

	stepsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "steps_total",
		Help:      "Count of executed steps",
	}, []string{
		"run_id",
		"status",
	})

	batchResults = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "batch_results",
		Help:      "Result of batch runs",
	}, []string{
		"run_id",
		"result",
	})

	batchFeaturesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "batch_features_total",
		Help:      "Total number of features in batch runs",
	}, []string{
		"run_id",
	})

	batchFeaturesFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "batch_features_failed",
		Help:      "Number of failed features in batch runs",
	}, []string{
		"run_id",
	})

	batchDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "batch_duration_seconds",
		Help:      "Duration of batch runs",
	}, []string{
		"run_id",
	})

	alertsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "alerts_total",
		Help:      "Count of emitted performance alerts",
	}, []string{
		"severity",
	})
)

// errToLabel tries to make the error string a more valid Prometheus label
func errToLabel(err error) string {
	if err == nil {
		return "nil"
	}
	errClean := nonAlphanumericRegex.ReplaceAllString(err.Error(), "")
	errClean = strings.ReplaceAll(errClean, " ", "_")
	errClean = strings.ReplaceAll(errClean, "__", "_")
	return errClean
}

func RecordError(error string) {
	if Debug {
		log.Debug("metric inc",
			"m", "errors_total",
			"error", error,
		)
	}
	errorsTotal.WithLabelValues(error).Inc()
}

// RecordErrorDetails concats the error message to the label
// and also tries to clean the label to be a valid Prometheus label
func RecordErrorDetails(label string, err error) {
	if err == nil {
		return
	}
	label = fmt.Sprintf("%s.%s", label, errToLabel(err))
	RecordError(label)
}

func RecordScenario(runID string, status types.Status) {
	if !isValidStatus(status) {
		log.Error("RecordScenario - invalid status", "status", status)
		return
	}
	if Debug {
		log.Debug("metric inc",
			"m", "scenarios_total",
			"run_id", runID,
			"status", status)
	}
	scenariosTotal.WithLabelValues(runID, string(status)).Inc()
}

func RecordStep(runID string, status types.Status) {
	if !isValidStatus(status) {
		log.Error("RecordStep - invalid status", "status", status)
		return
	}
	stepsTotal.WithLabelValues(runID, string(status)).Inc()
}

// RecordResult folds a finalized execution result into the run counters.
func RecordResult(runID string, result *types.ExecutionResult) {
	for i := range result.Scenarios {
		sc := &result.Scenarios[i]
		RecordScenario(runID, sc.Status)
		for _, step := range sc.Steps {
			RecordStep(runID, step.Status)
		}
	}
}

func RecordBatch(
	runID string,
	result string,
	totalFeatures int,
	failedFeatures int,
	duration time.Duration,
) {
	batchResults.WithLabelValues(runID, result).Set(1)
	batchFeaturesTotal.WithLabelValues(runID).Add(float64(totalFeatures))
	batchFeaturesFailed.WithLabelValues(runID).Add(float64(failedFeatures))
	batchDuration.WithLabelValues(runID).Set(duration.Seconds())
}

func RecordAlert(severity string) {
	if Debug {
		log.Debug("metric inc",
			"m", "alerts_total",
			"severity", severity)
	}
	alertsTotal.WithLabelValues(severity).Inc()
}

func isValidStatus(status types.Status) bool {
	return slices.Contains(validStatuses, status)
}
