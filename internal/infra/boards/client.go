package boards

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mwhitfield/jobwatch/internal/domain"
	"go.uber.org/zap"
)

const defaultTimeout = 10 * time.Second

type Config struct {
	GreenhouseBaseURL string
	LeverBaseURL      string
	AshbyBaseURL      string
	Timeout           time.Duration
}

// Client fetches postings from the public Greenhouse, Lever, and Ashby board
// APIs and normalizes them into domain.Posting. Responses are trusted to be
// JSON but not to be well-formed entry by entry: each posting is decoded
// independently and dropped when required fields are missing.
type Client struct {
	greenhouseBase string
	leverBase      string
	ashbyBase      string
	timeout        time.Duration
	client         *http.Client
	logger         *zap.Logger
	fetchers       map[domain.SourceType]fetchFunc
}

type fetchFunc func(ctx context.Context, sourceID string) ([]domain.Posting, error)

func NewClient(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		greenhouseBase: strings.TrimRight(cfg.GreenhouseBaseURL, "/"),
		leverBase:      strings.TrimRight(cfg.LeverBaseURL, "/"),
		ashbyBase:      strings.TrimRight(cfg.AshbyBaseURL, "/"),
		timeout:        timeout,
		client:         &http.Client{},
		logger:         logger,
	}
	c.fetchers = map[domain.SourceType]fetchFunc{
		domain.SourceGreenhouse: c.fetchGreenhouse,
		domain.SourceLever:      c.fetchLever,
		domain.SourceAshby:      c.fetchAshby,
	}
	return c
}

// Fetch dispatches to the adapter for sourceType. opts.Timeout overrides the
// client default for bounded-latency callers such as the preview check.
func (c *Client) Fetch(ctx context.Context, sourceType domain.SourceType, sourceID string, opts domain.FetchOptions) ([]domain.Posting, error) {
	fetch, ok := c.fetchers[sourceType]
	if !ok {
		return nil, domain.ErrInvalidSourceType
	}

	timeout := c.timeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return fetch(ctx, sourceID)
}

func (c *Client) get(ctx context.Context, source domain.SourceType, sourceID, endpoint string) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &FetchError{Source: source, Err: err}
	}

	start := time.Now()
	c.logger.Info("board request start", zap.String("source", string(source)), zap.String("source_id", sourceID), zap.String("url", endpoint))
	response, err := c.client.Do(request)
	if err != nil {
		c.logger.Error("board request failed", zap.String("source", string(source)), zap.String("source_id", sourceID), zap.Error(err))
		return nil, &FetchError{Source: source, Err: err}
	}
	defer response.Body.Close()

	c.logger.Info(
		"board request complete",
		zap.String("source", string(source)),
		zap.String("source_id", sourceID),
		zap.Int("status", response.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, &FetchError{Source: source, Status: response.StatusCode}
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, &FetchError{Source: source, Err: err}
	}
	return body, nil
}

func (c *Client) fetchGreenhouse(ctx context.Context, sourceID string) ([]domain.Posting, error) {
	endpoint := fmt.Sprintf("%s/v1/boards/%s/jobs", c.greenhouseBase, url.PathEscape(sourceID))
	body, err := c.get(ctx, domain.SourceGreenhouse, sourceID, endpoint)
	if err != nil {
		return nil, err
	}

	var payload greenhouseResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &FetchError{Source: domain.SourceGreenhouse, Err: fmt.Errorf("decode response: %w", err)}
	}

	postings := make([]domain.Posting, 0, len(payload.Jobs))
	for _, raw := range payload.Jobs {
		var job greenhouseJob
		if err := json.Unmarshal(raw, &job); err != nil {
			continue
		}
		if job.ID == nil || job.Title == nil || job.AbsoluteURL == nil {
			continue
		}
		postings = append(postings, domain.Posting{
			ExternalID: strconv.FormatInt(*job.ID, 10),
			Title:      strings.TrimSpace(*job.Title),
			URL:        *job.AbsoluteURL,
			Location:   strings.TrimSpace(job.Location.Name),
			UpdatedAt:  job.UpdatedAt.ptr(),
		})
	}
	return postings, nil
}

func (c *Client) fetchLever(ctx context.Context, sourceID string) ([]domain.Posting, error) {
	endpoint := fmt.Sprintf("%s/v0/postings/%s?mode=json", c.leverBase, url.PathEscape(sourceID))
	body, err := c.get(ctx, domain.SourceLever, sourceID, endpoint)
	if err != nil {
		return nil, err
	}

	var payload []json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &FetchError{Source: domain.SourceLever, Err: fmt.Errorf("decode response: %w", err)}
	}

	postings := make([]domain.Posting, 0, len(payload))
	for _, raw := range payload {
		var job leverPosting
		if err := json.Unmarshal(raw, &job); err != nil {
			continue
		}
		if job.ID == nil || job.Text == nil || job.HostedURL == nil {
			continue
		}
		postings = append(postings, domain.Posting{
			ExternalID: *job.ID,
			Title:      strings.TrimSpace(*job.Text),
			URL:        *job.HostedURL,
			Location:   strings.TrimSpace(job.Categories.Location.Name),
			PostedAt:   job.CreatedAt.ptr(),
			UpdatedAt:  job.UpdatedAt.ptr(),
		})
	}
	return postings, nil
}

func (c *Client) fetchAshby(ctx context.Context, sourceID string) ([]domain.Posting, error) {
	endpoint := fmt.Sprintf("%s/posting-api/job-board/%s", c.ashbyBase, url.PathEscape(sourceID))
	body, err := c.get(ctx, domain.SourceAshby, sourceID, endpoint)
	if err != nil {
		return nil, err
	}

	var payload ashbyResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &FetchError{Source: domain.SourceAshby, Err: fmt.Errorf("decode response: %w", err)}
	}

	postings := make([]domain.Posting, 0, len(payload.Jobs))
	for _, raw := range payload.Jobs {
		var job ashbyJob
		if err := json.Unmarshal(raw, &job); err != nil {
			continue
		}
		if job.Title == nil || strings.TrimSpace(*job.Title) == "" {
			continue
		}

		postedAt := job.PublishedAt
		if !postedAt.Valid {
			postedAt = job.CreatedAt
		}
		updatedAt := job.UpdatedAt
		if !updatedAt.Valid {
			updatedAt = postedAt
		}

		postings = append(postings, domain.Posting{
			ExternalID: ashbyExternalID(job),
			Title:      strings.TrimSpace(*job.Title),
			URL:        ashbyURL(c.ashbyBase, sourceID, job),
			Location:   strings.TrimSpace(job.Location.Name),
			PostedAt:   postedAt.ptr(),
			UpdatedAt:  updatedAt.ptr(),
		})
	}
	return postings, nil
}

// ashbyExternalID falls back to the posting title when the board exposes no
// id field. Title collisions would then merge alerts; the fallback is kept in
// one place so a composite key could replace it later.
func ashbyExternalID(job ashbyJob) string {
	if job.ID != nil && *job.ID != "" {
		return *job.ID
	}
	if job.AltID != nil && *job.AltID != "" {
		return *job.AltID
	}
	return strings.TrimSpace(*job.Title)
}

func ashbyURL(base, sourceID string, job ashbyJob) string {
	for _, candidate := range []*string{job.JobURL, job.ApplyURL, job.URL} {
		if candidate != nil && *candidate != "" {
			return *candidate
		}
	}
	id := job.ID
	if id == nil || *id == "" {
		id = job.AltID
	}
	if id != nil && *id != "" {
		return fmt.Sprintf("https://jobs.ashbyhq.com/%s/%s", sourceID, *id)
	}
	return fmt.Sprintf("https://jobs.ashbyhq.com/%s", sourceID)
}
