// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-concierge/internal/catalog"
	"property-concierge/internal/common/config"
	"property-concierge/internal/common/logger"
	"property-concierge/internal/dispatch"
	"property-concierge/internal/server"
	"property-concierge/internal/transcript"
	"property-concierge/internal/workflow"
)

// webhookRecorder captures every payload the dispatcher transmits.
type webhookRecorder struct {
	mu       sync.Mutex
	payloads []map[string]interface{}
	headers  []http.Header
}

func (w *webhookRecorder) handle(rw http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	var payload map[string]interface{}
	_ = json.Unmarshal(body, &payload)

	w.mu.Lock()
	w.payloads = append(w.payloads, payload)
	w.headers = append(w.headers, r.Header.Clone())
	w.mu.Unlock()

	rw.WriteHeader(http.StatusOK)
}

func (w *webhookRecorder) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.payloads)
}

func (w *webhookRecorder) last() (map[string]interface{}, http.Header) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.payloads) == 0 {
		return nil, nil
	}
	return w.payloads[len(w.payloads)-1], w.headers[len(w.headers)-1]
}

// stack is the fully wired application under test, talking to a recorded
// webhook endpoint instead of the production one.
type stack struct {
	api      *httptest.Server
	recorder *webhookRecorder
}

func newStack(t *testing.T) *stack {
	t.Helper()

	recorder := &webhookRecorder{}
	webhook := httptest.NewServer(http.HandlerFunc(recorder.handle))
	t.Cleanup(webhook.Close)

	log := logger.NewTestLogger(t)

	cfg := config.NotificationConfig{WebhookURL: webhook.URL, Timeout: 5000}
	cfg.Fallback.Phone = "+34 123 456 789"
	cfg.Fallback.Email = "info@costadelsol.com"

	dispatcher := dispatch.NewDispatcher(cfg, log, nil)

	controller := workflow.NewController(catalog.Seed(), transcript.New(), dispatcher, log, workflow.Options{
		ViewingSlots:  []string{"10:00 AM", "2:00 PM", "4:00 PM", "6:00 PM"},
		FallbackPhone: cfg.Fallback.Phone,
		FallbackEmail: cfg.Fallback.Email,
	})
	controller.Start()

	srv := server.New(config.ServerConfig{Address: ":0"}, controller, log)
	api := httptest.NewServer(srv.Handler())
	t.Cleanup(api.Close)

	return &stack{api: api, recorder: recorder}
}

func (s *stack) post(t *testing.T, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	resp, err := http.Post(s.api.URL+path, "application/json", &buf)
	require.NoError(t, err)
	return resp, decode(t, resp)
}

func (s *stack) get(t *testing.T, path string) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := http.Get(s.api.URL + path)
	require.NoError(t, err)
	return resp, decode(t, resp)
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(body) == 0 {
		return nil
	}
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestFullViewingJourney(t *testing.T) {
	s := newStack(t)

	// 1. The catalog is browsable.
	resp, body := s.get(t, "/api/properties")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["properties"], 2)

	// 2. Selecting a property yields its detail turn.
	resp, body = s.post(t, "/api/select", map[string]string{"name": "Villa Marbella Seaview"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	property := body["property"].(map[string]interface{})
	assert.Equal(t, "MLG1234", property["ref"])
	assert.Equal(t, "€3,950,000", property["price"])

	// 3. Open the viewing form and walk both steps.
	resp, body = s.post(t, "/api/forms", map[string]string{"kind": "viewing", "property": "Villa Marbella Seaview"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	formID := body["formId"].(string)

	for field, value := range map[string]string{
		"name":  "Ana García",
		"email": "ana@example.com",
		"phone": "+34 612 345 678",
	} {
		resp, _ = s.post(t, fmt.Sprintf("/api/forms/%s/fields", formID), map[string]string{"field": field, "value": value})
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
	}

	resp, body = s.post(t, fmt.Sprintf("/api/forms/%s/advance", formID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, false, body["submitted"])

	resp, _ = s.post(t, fmt.Sprintf("/api/forms/%s/fields", formID), map[string]string{"field": "date", "value": "2026-09-01"})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = s.post(t, fmt.Sprintf("/api/forms/%s/fields", formID), map[string]string{"field": "time", "value": "2:00 PM"})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = s.post(t, fmt.Sprintf("/api/forms/%s/advance", formID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, body["submitted"])

	// 4. Exactly one webhook payload went out, as text/plain JSON.
	require.Equal(t, 1, s.recorder.count())
	payload, headers := s.recorder.last()
	assert.Equal(t, "text/plain", headers.Get("Content-Type"))
	assert.Equal(t, "viewing", payload["type"])
	viewing := payload["viewing"].(map[string]interface{})
	assert.Equal(t, "pending_confirmation", viewing["status"])
	client := payload["client"].(map[string]interface{})
	assert.Equal(t, "ana@example.com", client["email"])

	// 5. The transcript ends on the delivered outcome turn.
	resp, body = s.get(t, "/api/transcript")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	turns := body["turns"].([]interface{})
	last := turns[len(turns)-1].(map[string]interface{})
	assert.Equal(t, "outcome", last["kind"])
	outcome := last["outcome"].(map[string]interface{})
	assert.Equal(t, true, outcome["delivered"])

	// 6. A second submit is refused and nothing new is transmitted.
	resp, _ = s.post(t, fmt.Sprintf("/api/forms/%s/advance", formID), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, 1, s.recorder.count())
}

func TestFullBrochureJourney(t *testing.T) {
	s := newStack(t)

	resp, body := s.post(t, "/api/forms", map[string]string{"kind": "brochure", "property": "Puente Romano Penthouse"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	formID := body["formId"].(string)

	resp, _ = s.post(t, fmt.Sprintf("/api/forms/%s/fields", formID), map[string]string{"field": "name", "value": "Ana García"})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = s.post(t, fmt.Sprintf("/api/forms/%s/fields", formID), map[string]string{"field": "email", "value": "ana@example.com"})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = s.post(t, fmt.Sprintf("/api/forms/%s/advance", formID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, body["submitted"])

	// Brochure payloads embed the full property snapshot.
	require.Equal(t, 1, s.recorder.count())
	payload, _ := s.recorder.last()
	assert.Equal(t, "brochure", payload["type"])
	property := payload["property"].(map[string]interface{})
	assert.Equal(t, "MLG5678", property["ref"])
	assert.Equal(t, "400 m²", property["size"])
	assert.NotContains(t, payload, "viewing")
}

func TestWebhookDownDegradesToFallbackContacts(t *testing.T) {
	recorder := &webhookRecorder{}
	webhook := httptest.NewServer(http.HandlerFunc(recorder.handle))
	webhook.Close() // endpoint unreachable from the start

	log := logger.NewTestLogger(t)
	cfg := config.NotificationConfig{WebhookURL: webhook.URL, Timeout: 1000}
	dispatcher := dispatch.NewDispatcher(cfg, log, nil)

	controller := workflow.NewController(catalog.Seed(), transcript.New(), dispatcher, log, workflow.Options{
		ViewingSlots:  []string{"10:00 AM"},
		FallbackPhone: "+34 123 456 789",
		FallbackEmail: "info@costadelsol.com",
	})

	formID, err := controller.OpenForm("brochure", "Villa Marbella Seaview")
	require.NoError(t, err)
	require.NoError(t, controller.UpdateField(formID, "name", "Ana García"))
	require.NoError(t, controller.UpdateField(formID, "email", "ana@example.com"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	result, err := controller.Advance(ctx, formID)
	require.NoError(t, err)
	assert.True(t, result.Submitted)

	turns := controller.Transcript().All()
	last := turns[len(turns)-1]
	require.NotNil(t, last.Outcome)
	assert.False(t, last.Outcome.Delivered)
	assert.Equal(t, "info@costadelsol.com", last.Outcome.FallbackEmail)
	assert.Empty(t, last.Outcome.FallbackPhone)
}

// ==========================
// Benchmark Tests
// ==========================

func BenchmarkViewingSubmission(b *testing.B) {
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
	}))
	defer webhook.Close()

	log := logger.NewNoOpLogger()
	cfg := config.NotificationConfig{WebhookURL: webhook.URL, Timeout: 5000}
	dispatcher := dispatch.NewDispatcher(cfg, log, nil)

	controller := workflow.NewController(catalog.Seed(), transcript.New(), dispatcher, log, workflow.Options{
		ViewingSlots: []string{"10:00 AM"},
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		formID, _ := controller.OpenForm("viewing", "Villa Marbella Seaview")
		_ = controller.UpdateField(formID, "name", "Ana García")
		_ = controller.UpdateField(formID, "email", "ana@example.com")
		_ = controller.UpdateField(formID, "phone", "+34 612 345 678")
		_, _ = controller.Advance(context.Background(), formID)
		_ = controller.UpdateField(formID, "time", "10:00 AM")
		_, _ = controller.Advance(context.Background(), formID)
	}
}

func BenchmarkTranscriptAppend(b *testing.B) {
	tr := transcript.New()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.Append(transcript.Turn{Kind: transcript.KindMessage, Message: "bench"})
	}
}
