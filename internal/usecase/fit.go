package usecase

import (
	"fmt"
	"regexp"
)

type FitRecommendation string

const (
	FitStrong FitRecommendation = "strong"
	FitMaybe  FitRecommendation = "maybe"
	FitSkip   FitRecommendation = "skip"
)

// FitResult is a 0-100 ranking signal for display and sorting. It is
// evaluated independently of the ingestion gate in MatchPosting; the two must
// stay separate because their suppression semantics differ.
type FitResult struct {
	Score           int               `json:"score"`
	Recommendation  FitRecommendation `json:"recommendation"`
	HiddenByKeyword bool              `json:"hiddenByKeyword"`
	MatchedKeywords []string          `json:"matchedKeywords"`
	Reasons         []string          `json:"reasons"`
}

var (
	internPattern   = regexp.MustCompile(`\b(intern|internship)\b`)
	contractPattern = regexp.MustCompile(`\b(contract|temporary)\b`)
)

// EvaluateFit scores one posting title/location pair against a watch's
// keyword lists, starting from a neutral 50 and clamping to [0,100].
func EvaluateFit(title, location string, titleKeywords, locationKeywords []string) FitResult {
	normalizedTitle := normalizeKeyword(title)
	normalizedLocation := normalizeKeyword(location)

	cleanTitle := cleanKeywords(titleKeywords)
	cleanLocation := cleanKeywords(locationKeywords)

	matchedTitle := containedKeywords(normalizedTitle, cleanTitle)
	matchedLocation := containedKeywords(normalizedLocation, cleanLocation)

	score := 50
	var reasons []string
	var matched []string

	if len(cleanTitle) > 0 {
		if len(matchedTitle) > 0 {
			boost := 12 + len(matchedTitle)*8
			if boost > 35 {
				boost = 35
			}
			score += boost
			for _, kw := range matchedTitle {
				matched = append(matched, "title:"+kw)
			}
			reasons = append(reasons, fmt.Sprintf("Title matched %d target keyword(s)", len(matchedTitle)))
		} else {
			score -= 25
			reasons = append(reasons, "No match against preferred title keywords")
		}
	}

	if len(cleanLocation) > 0 {
		if len(matchedLocation) > 0 {
			score += 15
			for _, kw := range matchedLocation {
				matched = append(matched, "location:"+kw)
			}
			reasons = append(reasons, "Location matched watch preferences")
		} else {
			score -= 20
			reasons = append(reasons, "Location did not match preferred locations")
		}
	}

	if internPattern.MatchString(normalizedTitle) {
		score -= 35
		reasons = append(reasons, "Internship role")
	}
	if contractPattern.MatchString(normalizedTitle) {
		score -= 12
		reasons = append(reasons, "Contract/temporary signal")
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	recommendation := FitMaybe
	if score >= 70 {
		recommendation = FitStrong
	} else if score < 40 {
		recommendation = FitSkip
	}

	return FitResult{
		Score:           score,
		Recommendation:  recommendation,
		HiddenByKeyword: len(cleanTitle) > 0 && len(matchedTitle) == 0,
		MatchedKeywords: matched,
		Reasons:         reasons,
	}
}
