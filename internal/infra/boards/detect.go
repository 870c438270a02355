package boards

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"sort"

	"github.com/mwhitfield/jobwatch/internal/domain"
	"go.uber.org/zap"
)

var (
	ashbyHostPattern       = regexp.MustCompile(`jobs\.ashbyhq\.com/([a-zA-Z0-9_-]+)`)
	greenhouseBoardPattern = regexp.MustCompile(`boards\.greenhouse\.io/([a-zA-Z0-9_-]+)`)
	leverJobsPattern       = regexp.MustCompile(`jobs\.lever\.co/([a-zA-Z0-9_-]+)`)
	boardParamPattern      = regexp.MustCompile(`[?&]board=([a-zA-Z0-9_-]+)`)
	ashbyJidPattern        = regexp.MustCompile(`[?&]ashby_jid=([a-zA-Z0-9-]+)`)
	hostSlugPattern        = regexp.MustCompile(`https?://(?:www\.)?([a-zA-Z0-9-]+)\.`)
)

// DetectFromString extracts (source type, board slug) candidates from a raw
// URL or HTML blob using known hosted-board URL patterns.
func DetectFromString(raw string) []domain.SourceDetection {
	var results []domain.SourceDetection

	for _, m := range ashbyHostPattern.FindAllStringSubmatch(raw, -1) {
		results = append(results, domain.SourceDetection{
			SourceType: domain.SourceAshby,
			SourceID:   m[1],
			Confidence: "high",
			Reason:     "Found Ashby hosted job URL pattern",
		})
	}
	for _, m := range greenhouseBoardPattern.FindAllStringSubmatch(raw, -1) {
		results = append(results, domain.SourceDetection{
			SourceType: domain.SourceGreenhouse,
			SourceID:   m[1],
			Confidence: "high",
			Reason:     "Found Greenhouse board URL pattern",
		})
	}
	for _, m := range leverJobsPattern.FindAllStringSubmatch(raw, -1) {
		results = append(results, domain.SourceDetection{
			SourceType: domain.SourceLever,
			SourceID:   m[1],
			Confidence: "high",
			Reason:     "Found Lever jobs URL pattern",
		})
	}
	for _, m := range boardParamPattern.FindAllStringSubmatch(raw, -1) {
		results = append(results, domain.SourceDetection{
			SourceType: domain.SourceGreenhouse,
			SourceID:   m[1],
			Confidence: "medium",
			Reason:     "Found board query parameter",
		})
	}
	if ashbyJidPattern.MatchString(raw) {
		if host := hostSlugPattern.FindStringSubmatch(raw); host != nil {
			results = append(results, domain.SourceDetection{
				SourceType: domain.SourceAshby,
				SourceID:   host[1],
				Confidence: "medium",
				Reason:     "Found ashby_jid parameter and inferred slug from host",
			})
		}
	}

	return dedupeDetections(results)
}

// DetectFromURL scans the URL itself, then fetches the page and scans its
// HTML as well. Fetch failures are ignored; direct URL detection may still
// be enough.
func (c *Client) DetectFromURL(ctx context.Context, pageURL string) ([]domain.SourceDetection, error) {
	results := DetectFromString(pageURL)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err == nil {
		if response, err := c.client.Do(request); err == nil {
			if response.StatusCode >= 200 && response.StatusCode < 300 {
				if html, err := io.ReadAll(response.Body); err == nil {
					results = append(results, DetectFromString(string(html))...)
				}
			}
			response.Body.Close()
		} else {
			c.logger.Debug("detect page fetch failed", zap.String("url", pageURL), zap.Error(err))
		}
	}

	deduped := dedupeDetections(results)
	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].Confidence == "high" && deduped[j].Confidence != "high"
	})
	return deduped, nil
}

func dedupeDetections(items []domain.SourceDetection) []domain.SourceDetection {
	seen := make(map[string]bool, len(items))
	out := make([]domain.SourceDetection, 0, len(items))
	for _, item := range items {
		key := string(item.SourceType) + ":" + item.SourceID
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}
