package usecase

import (
	"strings"

	"github.com/mwhitfield/jobwatch/internal/domain"
)

// MatchResult is the binary ingestion gate verdict for one posting.
type MatchResult struct {
	Matched         bool
	HiddenByKeyword bool
	MatchedKeywords []string
}

// MatchPosting decides whether a posting is ingested for a watch. Location
// keywords are a hard filter: when configured, a posting matching none of
// them is excluded entirely. Title keywords are soft: non-matching titles are
// still ingested so they can be reviewed later, but flagged HiddenByKeyword
// to keep them out of default views and notifications. All comparisons are
// case-insensitive substring containment.
func MatchPosting(posting domain.Posting, titleKeywords, locationKeywords []string) MatchResult {
	title := normalizeKeyword(posting.Title)
	location := normalizeKeyword(posting.Location)

	cleanTitle := cleanKeywords(titleKeywords)
	cleanLocation := cleanKeywords(locationKeywords)

	matchedTitle := containedKeywords(title, cleanTitle)
	matchedLocation := containedKeywords(location, cleanLocation)

	matched := make([]string, 0, len(matchedTitle)+len(matchedLocation))
	for _, kw := range matchedTitle {
		matched = append(matched, "title:"+kw)
	}
	for _, kw := range matchedLocation {
		matched = append(matched, "location:"+kw)
	}

	return MatchResult{
		Matched:         len(cleanLocation) == 0 || len(matchedLocation) > 0,
		HiddenByKeyword: len(cleanTitle) > 0 && len(matchedTitle) == 0,
		MatchedKeywords: matched,
	}
}

func normalizeKeyword(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func cleanKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if normalized := normalizeKeyword(kw); normalized != "" {
			out = append(out, normalized)
		}
	}
	return out
}

func containedKeywords(haystack string, keywords []string) []string {
	var out []string
	for _, kw := range keywords {
		if strings.Contains(haystack, kw) {
			out = append(out, kw)
		}
	}
	return out
}
