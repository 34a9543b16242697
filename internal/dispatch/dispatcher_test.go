package dispatch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpclient "property-concierge/internal/common/http"
	"property-concierge/internal/common/logger"
)

type capturedRequest struct {
	contentType string
	body        []byte
}

func newWebhookServer(t *testing.T, captured *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		captured.contentType = r.Header.Get("Content-Type")
		captured.body = body
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newDispatcher(url string) *Dispatcher {
	return NewDispatcherWithClient(url, httpclient.NewClient(5*time.Second), logger.NewNoOpLogger())
}

func TestDispatcher_Send_ViewingPayload(t *testing.T) {
	var captured capturedRequest
	srv := newWebhookServer(t, &captured)

	req, err := NewViewingRequest("Villa Marbella Seaview", testProperty, viewingFields())
	require.NoError(t, err)

	outcome, err := newDispatcher(srv.URL).Send(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDelivered, outcome)

	// JSON body travels under text/plain; the endpoint expects exactly that.
	assert.Equal(t, "text/plain", captured.contentType)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(captured.body, &payload))
	assert.Equal(t, "viewing", payload["type"])

	property := payload["property"].(map[string]interface{})
	assert.Equal(t, "Villa Marbella Seaview", property["name"])
	assert.Equal(t, "MLG1234", property["ref"])

	client := payload["client"].(map[string]interface{})
	assert.Equal(t, "Ana García", client["name"])
	assert.Equal(t, "ana@example.com", client["email"])

	viewing := payload["viewing"].(map[string]interface{})
	assert.Equal(t, "2026-09-01", viewing["date"])
	assert.Equal(t, "2:00 PM", viewing["time"])
	assert.Equal(t, "pending_confirmation", viewing["status"])

	// The correlation id stays internal.
	_, leaked := payload["submissionId"]
	assert.False(t, leaked)
}

func TestDispatcher_Send_BrochurePayload(t *testing.T) {
	var captured capturedRequest
	srv := newWebhookServer(t, &captured)

	req, err := NewBrochureRequest("Villa Marbella Seaview", testProperty, map[string]string{
		"name":  "Ana García",
		"email": "ana@example.com",
	})
	require.NoError(t, err)

	outcome, err := newDispatcher(srv.URL).Send(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDelivered, outcome)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(captured.body, &payload))
	assert.Equal(t, "brochure", payload["type"])
	assert.NotContains(t, payload, "viewing")

	property := payload["property"].(map[string]interface{})
	assert.Equal(t, "650 m²", property["size"])
	assert.Equal(t, float64(5), property["bedrooms"])
}

func TestDispatcher_Send_RemoteErrorStatusStillDelivered(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	req, err := NewViewingRequest("Villa Marbella Seaview", testProperty, viewingFields())
	require.NoError(t, err)

	// The response is opaque: a 500 from the endpoint is invisible here.
	outcome, err := newDispatcher(srv.URL).Send(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, OutcomeDelivered, outcome)
}

func TestDispatcher_Send_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	req, err := NewViewingRequest("Villa Marbella Seaview", testProperty, viewingFields())
	require.NoError(t, err)

	outcome, err := newDispatcher(srv.URL).Send(context.Background(), req)
	assert.Error(t, err)
	assert.Equal(t, OutcomeTransportFailed, outcome)
}

func TestDispatcher_Send_ContextCancelled(t *testing.T) {
	var captured capturedRequest
	srv := newWebhookServer(t, &captured)

	req, err := NewViewingRequest("Villa Marbella Seaview", testProperty, viewingFields())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome, err := newDispatcher(srv.URL).Send(ctx, req)
	assert.Error(t, err)
	assert.Equal(t, OutcomeTransportFailed, outcome)
}

func TestValidatePayload(t *testing.T) {
	t.Run("well-formed viewing request passes", func(t *testing.T) {
		req, err := NewViewingRequest("Villa Marbella Seaview", testProperty, viewingFields())
		require.NoError(t, err)
		body, err := json.Marshal(req)
		require.NoError(t, err)
		assert.NoError(t, validatePayload(body))
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		assert.Error(t, validatePayload([]byte(`{"type":"telepathy","property":{"name":"x","ref":"y"},"client":{"name":"a","email":"a@b.es"}}`)))
	})

	t.Run("missing client rejected", func(t *testing.T) {
		assert.Error(t, validatePayload([]byte(`{"type":"brochure","property":{"name":"x","ref":"y"}}`)))
	})
}
