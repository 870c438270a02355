package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mwhitfield/jobwatch/internal/domain"
)

var (
	ErrWatchNotFound     = errors.New("watch not found")
	ErrAlertNotFound     = errors.New("alert not found")
	ErrMissingFields     = errors.New("company, source type, and source id are required")
	ErrEmptyUpdate       = errors.New("no valid fields to update")
	ErrInvalidDecision   = errors.New("decision must be one of: '', 'applied', 'skip'")
	ErrMissingDetectURL  = errors.New("url is required")
	ErrInvalidSourceType = domain.ErrInvalidSourceType
)

const (
	previewSampleLimit    = 25
	defaultPreviewTimeout = 1500 * time.Millisecond
)

type WatchUsecase struct {
	watches  domain.WatchRepository
	boards   domain.BoardClient
	detector domain.SourceDetector
}

func NewWatchUsecase(watches domain.WatchRepository, boards domain.BoardClient, detector domain.SourceDetector) *WatchUsecase {
	return &WatchUsecase{watches: watches, boards: boards, detector: detector}
}

type CreateWatchInput struct {
	Company          string
	SourceType       string
	SourceID         string
	TitleKeywords    []string
	LocationKeywords []string
	Active           *bool
}

func (u *WatchUsecase) Create(ctx context.Context, input CreateWatchInput) (*domain.Watch, error) {
	company := strings.TrimSpace(input.Company)
	sourceID := strings.TrimSpace(input.SourceID)
	sourceType, err := domain.ParseSourceType(input.SourceType)
	if company == "" || sourceID == "" || err != nil {
		return nil, ErrMissingFields
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	watch := &domain.Watch{
		Company:          company,
		SourceType:       sourceType,
		SourceID:         sourceID,
		TitleKeywords:    trimKeywords(input.TitleKeywords),
		LocationKeywords: trimKeywords(input.LocationKeywords),
		Active:           active,
	}
	if err := u.watches.Create(ctx, watch); err != nil {
		return nil, err
	}
	return watch, nil
}

func (u *WatchUsecase) List(ctx context.Context) ([]domain.Watch, error) {
	return u.watches.List(ctx)
}

type UpdateWatchInput struct {
	Company          *string
	SourceType       *string
	SourceID         *string
	TitleKeywords    []string
	LocationKeywords []string
	Active           *bool

	// distinguishes "replace with empty list" from "leave unchanged"
	SetTitleKeywords    bool
	SetLocationKeywords bool
}

func (u *WatchUsecase) Update(ctx context.Context, id string, input UpdateWatchInput) (*domain.Watch, error) {
	if input.Company == nil && input.SourceType == nil && input.SourceID == nil &&
		!input.SetTitleKeywords && !input.SetLocationKeywords && input.Active == nil {
		return nil, ErrEmptyUpdate
	}

	watch, err := u.watches.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrWatchNotFound
		}
		return nil, err
	}

	if input.Company != nil {
		watch.Company = strings.TrimSpace(*input.Company)
	}
	if input.SourceType != nil {
		sourceType, err := domain.ParseSourceType(*input.SourceType)
		if err != nil {
			return nil, ErrInvalidSourceType
		}
		watch.SourceType = sourceType
	}
	if input.SourceID != nil {
		watch.SourceID = strings.TrimSpace(*input.SourceID)
	}
	if input.SetTitleKeywords {
		watch.TitleKeywords = trimKeywords(input.TitleKeywords)
	}
	if input.SetLocationKeywords {
		watch.LocationKeywords = trimKeywords(input.LocationKeywords)
	}
	if input.Active != nil {
		watch.Active = *input.Active
	}

	if err := u.watches.Update(ctx, watch); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrWatchNotFound
		}
		return nil, err
	}
	return watch, nil
}

func (u *WatchUsecase) Delete(ctx context.Context, id string) error {
	if err := u.watches.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrWatchNotFound
		}
		return err
	}
	return nil
}

// BoardValidation is the result of a live probe against a candidate board.
type BoardValidation struct {
	Count        int
	SampleTitles []string
}

func (u *WatchUsecase) ValidateBoard(ctx context.Context, sourceTypeRaw, sourceID string) (BoardValidation, error) {
	sourceID = strings.TrimSpace(sourceID)
	sourceType, err := domain.ParseSourceType(sourceTypeRaw)
	if sourceID == "" || err != nil {
		return BoardValidation{}, ErrMissingFields
	}

	postings, err := u.boards.Fetch(ctx, sourceType, sourceID, domain.FetchOptions{})
	if err != nil {
		return BoardValidation{}, err
	}

	validation := BoardValidation{Count: len(postings)}
	for _, posting := range postings {
		if len(validation.SampleTitles) == 5 {
			break
		}
		validation.SampleTitles = append(validation.SampleTitles, posting.Title)
	}
	return validation, nil
}

func (u *WatchUsecase) DetectSource(ctx context.Context, pageURL string) ([]domain.SourceDetection, error) {
	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" {
		return nil, ErrMissingDetectURL
	}
	return u.detector.DetectFromURL(ctx, pageURL)
}

type PreviewSample struct {
	Title           string   `json:"title"`
	Location        string   `json:"location"`
	Matched         bool     `json:"matched"`
	HiddenByKeyword bool     `json:"hiddenByKeyword"`
	MatchedKeywords []string `json:"matchedKeywords"`
}

// PreviewResult is a lightweight dry run of the match gate over a sample of
// one watch's board. Nothing is persisted and nothing is notified.
type PreviewResult struct {
	Watch           *domain.Watch
	JobsFetched     int
	MatchesFound    int
	HiddenByKeyword int
	Samples         []PreviewSample
}

// Preview checks one watch (by id, or the most recently updated active watch
// when id is empty) with a short source timeout. A missing or inactive watch
// yields an empty result rather than an error.
func (u *WatchUsecase) Preview(ctx context.Context, watchID string, sourceTimeout time.Duration) (PreviewResult, error) {
	var watch *domain.Watch
	if watchID != "" {
		found, err := u.watches.GetByID(ctx, watchID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return PreviewResult{}, err
		}
		watch = found
	} else {
		active, err := u.watches.ListActive(ctx)
		if err != nil {
			return PreviewResult{}, err
		}
		if len(active) > 0 {
			watch = &active[0]
		}
	}

	if watch == nil || !watch.Active {
		return PreviewResult{}, nil
	}

	if sourceTimeout <= 0 {
		sourceTimeout = defaultPreviewTimeout
	}
	postings, err := u.boards.Fetch(ctx, watch.SourceType, watch.SourceID, domain.FetchOptions{Timeout: sourceTimeout})
	if err != nil {
		return PreviewResult{Watch: watch}, err
	}

	if len(postings) > previewSampleLimit {
		postings = postings[:previewSampleLimit]
	}

	result := PreviewResult{Watch: watch, JobsFetched: len(postings)}
	for _, posting := range postings {
		match := MatchPosting(posting, watch.TitleKeywords, watch.LocationKeywords)
		result.Samples = append(result.Samples, PreviewSample{
			Title:           posting.Title,
			Location:        posting.Location,
			Matched:         match.Matched,
			HiddenByKeyword: match.HiddenByKeyword,
			MatchedKeywords: match.MatchedKeywords,
		})
		if match.Matched {
			result.MatchesFound++
			if match.HiddenByKeyword {
				result.HiddenByKeyword++
			}
		}
	}
	return result, nil
}

func trimKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if trimmed := strings.TrimSpace(kw); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
