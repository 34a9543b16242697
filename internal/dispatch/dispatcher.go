// Package dispatch serializes completed notification requests and transmits
// them to the configured webhook endpoint.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"property-concierge/internal/common/config"
	httpclient "property-concierge/internal/common/http"
	"property-concierge/internal/common/logger"
	"property-concierge/internal/common/metrics"
	"property-concierge/internal/common/observability"
)

// Outcome classifies a dispatch attempt. Delivered means the request was
// transmitted; the endpoint's response is discarded unread, so remote
// processing failures are invisible here. Only a local construction or
// network error yields TransportFailed.
type Outcome string

const (
	OutcomeDelivered       Outcome = "delivered"
	OutcomeTransportFailed Outcome = "transport_failed"
)

// Doer is the subset of the shared HTTP client the dispatcher needs.
type Doer interface {
	DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error)
}

type Dispatcher struct {
	webhookURL string
	client     Doer
	logger     logger.Logger
	obs        *observability.Observability
}

func NewDispatcher(cfg config.NotificationConfig, log logger.Logger, obs *observability.Observability) *Dispatcher {
	return &Dispatcher{
		webhookURL: cfg.WebhookURL,
		client:     httpclient.NewClient(config.GetDuration(cfg.Timeout)),
		logger:     log.WithFields(map[string]interface{}{"component": "dispatcher"}),
		obs:        obs,
	}
}

// NewDispatcherWithClient injects a custom transport, used by tests.
func NewDispatcherWithClient(webhookURL string, client Doer, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		webhookURL: webhookURL,
		client:     client,
		logger:     log.WithFields(map[string]interface{}{"component": "dispatcher"}),
	}
}

// Send transmits the request. The returned error carries detail only when
// the outcome is TransportFailed; there is no automatic retry.
func (d *Dispatcher) Send(ctx context.Context, req *Request) (Outcome, error) {
	start := time.Now()
	outcome, err := d.send(ctx, req)

	metrics.DispatchAttempts.WithLabelValues(string(req.Type), string(outcome)).Inc()
	metrics.DispatchDuration.WithLabelValues(string(req.Type)).Observe(time.Since(start).Seconds())
	if d.obs != nil {
		d.obs.RecordDispatch(ctx, string(outcome))
		d.obs.RecordDispatchDuration(ctx, time.Since(start), string(outcome))
	}

	if err != nil {
		d.logger.Error("dispatch failed", map[string]interface{}{
			"requestType":  string(req.Type),
			"submissionId": req.SubmissionID,
			"error":        err.Error(),
		})
		return outcome, err
	}

	d.logger.Info("dispatch transmitted", map[string]interface{}{
		"requestType":  string(req.Type),
		"submissionId": req.SubmissionID,
		"property":     req.Property.Ref,
	})
	return outcome, nil
}

func (d *Dispatcher) send(ctx context.Context, req *Request) (Outcome, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return OutcomeTransportFailed, err
	}
	if err := validatePayload(body); err != nil {
		return OutcomeTransportFailed, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return OutcomeTransportFailed, err
	}
	// The legacy endpoint expects text/plain with a JSON body. Wire
	// compatibility requires keeping the mismatch.
	httpReq.Header.Set("Content-Type", "text/plain")

	resp, err := d.client.DoWithContext(ctx, httpReq)
	if err != nil {
		return OutcomeTransportFailed, err
	}

	// The response is opaque to this dispatcher: status and body are
	// discarded unread, so Delivered never implies remote acceptance.
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	return OutcomeDelivered, nil
}
