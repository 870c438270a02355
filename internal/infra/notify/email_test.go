package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mwhitfield/jobwatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newEmailNotifier(apiURL string) *EmailNotifier {
	return NewEmailNotifier(EmailConfig{
		APIURL:  apiURL,
		APIKey:  "re_test_key",
		To:      "me@example.com",
		From:    "alerts@jobwatch.local",
		Timeout: time.Second,
	}, zap.NewNop())
}

func TestEmailSendDigest(t *testing.T) {
	var payload map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer re_test_key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &payload))
	}))
	defer server.Close()

	msgs := []domain.AlertMessage{
		sampleMessage(),
		{Company: "Globex", Title: "Platform Engineer", URL: "https://globex.jobs/7", SourceType: domain.SourceLever},
	}
	require.NoError(t, newEmailNotifier(server.URL).SendDigest(context.Background(), msgs))

	assert.Equal(t, "alerts@jobwatch.local", payload["from"])
	assert.Equal(t, []interface{}{"me@example.com"}, payload["to"])
	assert.Equal(t, "[jobwatch] 2 new matched role(s)", payload["subject"])

	text, _ := payload["text"].(string)
	assert.Contains(t, text, "Job alert fallback digest (primary delivery failed):")
	assert.Contains(t, text, "1. Acme - Backend Engineer")
	assert.Contains(t, text, "2. Globex - Platform Engineer")
	assert.Contains(t, text, "Location: N/A")
}

func TestEmailSendDigest_EmptyBatchIsNoop(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		called = true
	}))
	defer server.Close()

	require.NoError(t, newEmailNotifier(server.URL).SendDigest(context.Background(), nil))
	assert.False(t, called)
}

func TestEmailSendDigest_UnconfiguredFails(t *testing.T) {
	notifier := NewEmailNotifier(EmailConfig{APIURL: "https://api.resend.com/emails"}, zap.NewNop())
	err := notifier.SendDigest(context.Background(), []domain.AlertMessage{sampleMessage()})
	require.Error(t, err)
}

func TestEmailSendDigest_NonSuccessStatusIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	err := newEmailNotifier(server.URL).SendDigest(context.Background(), []domain.AlertMessage{sampleMessage()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}
