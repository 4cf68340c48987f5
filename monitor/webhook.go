package monitor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"gopkg.in/yaml.v3"
)

// WebhookKind selects the payload shape for a notification endpoint.
type WebhookKind string

const (
	WebhookSlack   WebhookKind = "slack"
	WebhookDiscord WebhookKind = "discord"
	WebhookGeneric WebhookKind = "generic"
)

// WebhookConfig describes one notification endpoint for performance alerts.
type WebhookConfig struct {
	Name    string      `json:"name" yaml:"name"`
	URL     string      `json:"url" yaml:"url"`
	Kind    WebhookKind `json:"kind" yaml:"kind"`
	Enabled bool        `json:"enabled" yaml:"enabled"`
	// MinSeverity filters which alerts are delivered; empty delivers all.
	MinSeverity Severity `json:"min_severity,omitempty" yaml:"min_severity,omitempty"`
}

// LoadWebhookConfigs reads a YAML document holding a list of webhook configs.
func LoadWebhookConfigs(path string) ([]WebhookConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read webhook config: %w", err)
	}
	var doc struct {
		Webhooks []WebhookConfig `yaml:"webhooks"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse webhook config: %w", err)
	}
	return doc.Webhooks, nil
}

// Notifier delivers performance alerts to configured webhook endpoints.
type Notifier struct {
	client *http.Client
	log    log.Logger
}

func NewNotifier() *Notifier {
	return &Notifier{
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log.New("component", "alert-notifier"),
	}
}

// Notify posts the alerts to every enabled endpoint. Delivery failures are
// logged and aggregated; one bad endpoint never blocks the others.
func (n *Notifier) Notify(ctx context.Context, configs []WebhookConfig, alerts []PerformanceAlert) error {
	if len(alerts) == 0 {
		return nil
	}
	var failed []string
	for _, cfg := range configs {
		if !cfg.Enabled {
			continue
		}
		filtered := filterBySeverity(alerts, cfg.MinSeverity)
		if len(filtered) == 0 {
			continue
		}
		if err := n.deliver(ctx, cfg, filtered); err != nil {
			n.log.Error("Webhook delivery failed", "webhook", cfg.Name, "error", err)
			failed = append(failed, cfg.Name)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("webhook delivery failed for: %s", strings.Join(failed, ", "))
	}
	return nil
}

func (n *Notifier) deliver(ctx context.Context, cfg WebhookConfig, alerts []PerformanceAlert) error {
	payload, err := buildPayload(cfg.Kind, alerts)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	n.log.Info("Delivered alerts to webhook", "webhook", cfg.Name, "alerts", len(alerts))
	return nil
}

func buildPayload(kind WebhookKind, alerts []PerformanceAlert) ([]byte, error) {
	switch kind {
	case WebhookSlack:
		return json.Marshal(map[string]string{"text": formatAlertText(alerts)})
	case WebhookDiscord:
		return json.Marshal(map[string]string{"content": formatAlertText(alerts)})
	default:
		return json.Marshal(map[string]any{"alerts": alerts})
	}
}

func formatAlertText(alerts []PerformanceAlert) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d performance alert(s)\n", len(alerts))
	for _, a := range alerts {
		fmt.Fprintf(&b, "[%s] %s: %s = %.1f (threshold %.1f)\n",
			strings.ToUpper(string(a.Severity)), a.ThresholdName, a.Metric, a.Value, a.ThresholdValue)
	}
	return b.String()
}

func filterBySeverity(alerts []PerformanceAlert, min Severity) []PerformanceAlert {
	if min == "" {
		return alerts
	}
	var out []PerformanceAlert
	for _, a := range alerts {
		if severityRank(a.Severity) >= severityRank(min) {
			out = append(out, a)
		}
	}
	return out
}

func severityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 2
	case SeverityWarning:
		return 1
	default:
		return 0
	}
}
