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

type EmailConfig struct {
	APIURL  string
	APIKey  string
	To      string
	From    string
	Timeout time.Duration
}

// EmailNotifier sends the fallback digest through a transactional-email
// HTTP API (Resend-compatible). One POST carries the whole batch; there is
// no partial success.
type EmailNotifier struct {
	apiURL string
	apiKey string
	to     string
	from   string
	client *http.Client
	logger *zap.Logger
}

func NewEmailNotifier(cfg EmailConfig, logger *zap.Logger) *EmailNotifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	return &EmailNotifier{
		apiURL: strings.TrimSpace(cfg.APIURL),
		apiKey: strings.TrimSpace(cfg.APIKey),
		to:     strings.TrimSpace(cfg.To),
		from:   strings.TrimSpace(cfg.From),
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

func (n *EmailNotifier) SendDigest(ctx context.Context, msgs []domain.AlertMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	if n.apiKey == "" || n.to == "" {
		return errors.New("email digest not configured")
	}

	body := map[string]interface{}{
		"from":    n.from,
		"to":      []string{n.to},
		"subject": fmt.Sprintf("[jobwatch] %d new matched role(s)", len(msgs)),
		"text":    formatDigestText(msgs),
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, n.apiURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Authorization", "Bearer "+n.apiKey)

	response, err := n.client.Do(request)
	if err != nil {
		n.logger.Warn("email digest send failed", zap.Int("alerts", len(msgs)), zap.Error(err))
		return err
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("email api returned %d", response.StatusCode)
	}

	n.logger.Info("email digest sent", zap.Int("alerts", len(msgs)))
	return nil
}

func formatDigestText(msgs []domain.AlertMessage) string {
	var b strings.Builder
	b.WriteString("Job alert fallback digest (primary delivery failed):\n\n")
	for i, msg := range msgs {
		location := msg.Location
		if location == "" {
			location = "N/A"
		}
		keywordText := "none"
		if len(msg.MatchedKeywords) > 0 {
			keywordText = strings.Join(msg.MatchedKeywords, ", ")
		}
		b.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, msg.Company, msg.Title))
		b.WriteString(fmt.Sprintf("   Location: %s\n", location))
		b.WriteString(fmt.Sprintf("   Source: %s\n", msg.SourceType))
		b.WriteString(fmt.Sprintf("   Matched: %s\n", keywordText))
		b.WriteString(fmt.Sprintf("   URL: %s\n", msg.URL))
	}
	return b.String()
}
