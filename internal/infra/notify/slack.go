package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mwhitfield/jobwatch/internal/domain"
	"go.uber.org/zap"
)

const defaultSendTimeout = 5 * time.Second

// SlackNotifier posts one formatted alert per call to an incoming-webhook
// URL. An unconfigured webhook is a send failure, not a silent success, so
// the caller's fallback path still runs.
type SlackNotifier struct {
	webhookURL string
	client     *http.Client
	logger     *zap.Logger
}

func NewSlackNotifier(webhookURL string, timeout time.Duration, logger *zap.Logger) *SlackNotifier {
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	return &SlackNotifier{
		webhookURL: strings.TrimSpace(webhookURL),
		client:     &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (n *SlackNotifier) SendAlert(ctx context.Context, msg domain.AlertMessage) error {
	if n.webhookURL == "" {
		return errors.New("slack webhook not configured")
	}

	payload, err := json.Marshal(map[string]string{"text": formatAlertText(msg)})
	if err != nil {
		return err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := n.client.Do(request)
	if err != nil {
		n.logger.Warn("slack webhook send failed", zap.String("company", msg.Company), zap.Error(err))
		return err
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("slack webhook returned %d", response.StatusCode)
	}

	n.logger.Info("slack alert sent", zap.String("company", msg.Company), zap.String("title", msg.Title))
	return nil
}

func formatAlertText(msg domain.AlertMessage) string {
	location := msg.Location
	if location == "" {
		location = "N/A"
	}
	keywordText := "none"
	if len(msg.MatchedKeywords) > 0 {
		keywordText = strings.Join(msg.MatchedKeywords, ", ")
	}

	lines := []string{
		fmt.Sprintf("*New role match* at *%s*", msg.Company),
		fmt.Sprintf("• Title: %s", msg.Title),
		fmt.Sprintf("• Location: %s", location),
		fmt.Sprintf("• Source: %s", msg.SourceType),
		fmt.Sprintf("• Matched: %s", keywordText),
		fmt.Sprintf("• Link: %s", msg.URL),
	}
	return strings.Join(lines, "\n")
}
