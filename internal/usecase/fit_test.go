package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateFit_NeutralBaseline(t *testing.T) {
	result := EvaluateFit("Staff Engineer", "Berlin", nil, nil)

	assert.Equal(t, 50, result.Score)
	assert.Equal(t, FitMaybe, result.Recommendation)
	assert.False(t, result.HiddenByKeyword)
	assert.Empty(t, result.Reasons)
}

func TestEvaluateFit_SingleTitleMatchIsStrong(t *testing.T) {
	result := EvaluateFit("Backend Engineer", "", []string{"engineer"}, nil)

	// 50 + (12 + 1*8) = 70
	assert.Equal(t, 70, result.Score)
	assert.Equal(t, FitStrong, result.Recommendation)
	assert.Equal(t, []string{"title:engineer"}, result.MatchedKeywords)
}

func TestEvaluateFit_TitleBoostIsCapped(t *testing.T) {
	result := EvaluateFit(
		"Senior Staff Platform Engineer (Go)",
		"",
		[]string{"senior", "staff", "platform", "engineer", "go"},
		nil,
	)

	// boost would be 12 + 5*8 = 52, capped at 35
	assert.Equal(t, 85, result.Score)
	assert.Equal(t, FitStrong, result.Recommendation)
}

func TestEvaluateFit_TitleMissPenalizesAndHides(t *testing.T) {
	result := EvaluateFit("Account Executive", "", []string{"engineer"}, nil)

	assert.Equal(t, 25, result.Score)
	assert.Equal(t, FitSkip, result.Recommendation)
	assert.True(t, result.HiddenByKeyword)
}

func TestEvaluateFit_LocationAdjustments(t *testing.T) {
	matched := EvaluateFit("Engineer", "Remote - Europe", []string{"engineer"}, []string{"remote"})
	// 50 + 20 + 15 = 85
	assert.Equal(t, 85, matched.Score)
	assert.Contains(t, matched.MatchedKeywords, "location:remote")

	missed := EvaluateFit("Engineer", "London", []string{"engineer"}, []string{"remote"})
	// 50 + 20 - 20 = 50
	assert.Equal(t, 50, missed.Score)
	assert.Equal(t, FitMaybe, missed.Recommendation)
}

func TestEvaluateFit_InternshipPenalty(t *testing.T) {
	result := EvaluateFit("Software Engineering Intern", "", []string{"engineer"}, nil)

	// 50 + 20 - 35 = 35
	assert.Equal(t, 35, result.Score)
	assert.Equal(t, FitSkip, result.Recommendation)
	assert.Contains(t, result.Reasons, "Internship role")
}

func TestEvaluateFit_InternRequiresWordBoundary(t *testing.T) {
	result := EvaluateFit("International Sales Manager", "", nil, nil)

	assert.Equal(t, 50, result.Score)
	assert.NotContains(t, result.Reasons, "Internship role")
}

func TestEvaluateFit_ContractPenalty(t *testing.T) {
	result := EvaluateFit("Recruiter (Contract)", "", nil, nil)

	assert.Equal(t, 38, result.Score)
	assert.Equal(t, FitSkip, result.Recommendation)
}

func TestEvaluateFit_ScoreClampedToZero(t *testing.T) {
	result := EvaluateFit("Contract Internship", "Lagos", []string{"engineer"}, []string{"remote"})

	// 50 - 25 - 20 - 35 - 12 = -42, clamped
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, FitSkip, result.Recommendation)
}

func TestEvaluateFit_ScoreClampedToHundred(t *testing.T) {
	result := EvaluateFit(
		"Senior Staff Platform Engineer",
		"Remote",
		[]string{"senior", "staff", "platform", "engineer"},
		[]string{"remote"},
	)

	// 50 + 35 (capped) + 15 = 100
	assert.Equal(t, 100, result.Score)
	assert.Equal(t, FitStrong, result.Recommendation)
}

func TestEvaluateFit_BucketBoundaries(t *testing.T) {
	// 70 is the strong floor
	strong := EvaluateFit("Engineer", "", []string{"engineer"}, nil)
	assert.Equal(t, 70, strong.Score)
	assert.Equal(t, FitStrong, strong.Recommendation)

	// 30 = 50 - 20: below the skip ceiling of 40
	skip := EvaluateFit("Engineer", "Paris", nil, []string{"remote"})
	assert.Equal(t, 30, skip.Score)
	assert.Equal(t, FitSkip, skip.Recommendation)
}
