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

func sampleMessage() domain.AlertMessage {
	return domain.AlertMessage{
		Company:         "Acme",
		Title:           "Backend Engineer",
		URL:             "https://acme.jobs/101",
		Location:        "Remote",
		SourceType:      domain.SourceGreenhouse,
		MatchedKeywords: []string{"title:engineer"},
	}
}

func TestSlackSendAlert(t *testing.T) {
	var payload map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &payload))
	}))
	defer server.Close()

	notifier := NewSlackNotifier(server.URL, time.Second, zap.NewNop())
	require.NoError(t, notifier.SendAlert(context.Background(), sampleMessage()))

	text := payload["text"]
	assert.Contains(t, text, "*New role match* at *Acme*")
	assert.Contains(t, text, "• Title: Backend Engineer")
	assert.Contains(t, text, "• Location: Remote")
	assert.Contains(t, text, "• Source: greenhouse")
	assert.Contains(t, text, "• Matched: title:engineer")
	assert.Contains(t, text, "• Link: https://acme.jobs/101")
}

func TestSlackSendAlert_EmptyFieldsFormatted(t *testing.T) {
	var payload map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &payload)
	}))
	defer server.Close()

	msg := sampleMessage()
	msg.Location = ""
	msg.MatchedKeywords = nil

	notifier := NewSlackNotifier(server.URL, time.Second, zap.NewNop())
	require.NoError(t, notifier.SendAlert(context.Background(), msg))

	assert.Contains(t, payload["text"], "• Location: N/A")
	assert.Contains(t, payload["text"], "• Matched: none")
}

func TestSlackSendAlert_NonSuccessStatusIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	notifier := NewSlackNotifier(server.URL, time.Second, zap.NewNop())
	err := notifier.SendAlert(context.Background(), sampleMessage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestSlackSendAlert_UnconfiguredWebhookFails(t *testing.T) {
	notifier := NewSlackNotifier("", time.Second, zap.NewNop())
	err := notifier.SendAlert(context.Background(), sampleMessage())
	require.Error(t, err, "an unconfigured webhook must fail so the fallback path runs")
}
