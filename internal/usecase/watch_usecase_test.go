package usecase

import (
	"context"
	"testing"

	"github.com/mwhitfield/jobwatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWatchFixture(watches ...domain.Watch) (*WatchUsecase, *fakeWatchRepo, *fakeBoardClient) {
	repo := newFakeWatchRepo(watches...)
	boards := newFakeBoardClient()
	return NewWatchUsecase(repo, boards, &fakeDetector{}), repo, boards
}

func TestWatchCreate_DefaultsAndTrimming(t *testing.T) {
	uc, _, _ := newWatchFixture()

	watch, err := uc.Create(context.Background(), CreateWatchInput{
		Company:       "  Acme  ",
		SourceType:    "Greenhouse",
		SourceID:      " acme ",
		TitleKeywords: []string{" engineer ", "", "golang"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, watch.ID)
	assert.Equal(t, "Acme", watch.Company)
	assert.Equal(t, domain.SourceGreenhouse, watch.SourceType)
	assert.Equal(t, "acme", watch.SourceID)
	assert.Equal(t, []string{"engineer", "golang"}, watch.TitleKeywords)
	assert.True(t, watch.Active, "watches default to active")
}

func TestWatchCreate_RejectsMissingOrInvalidFields(t *testing.T) {
	uc, _, _ := newWatchFixture()

	cases := []CreateWatchInput{
		{Company: "", SourceType: "lever", SourceID: "acme"},
		{Company: "Acme", SourceType: "lever", SourceID: "  "},
		{Company: "Acme", SourceType: "workday", SourceID: "acme"},
	}
	for _, input := range cases {
		_, err := uc.Create(context.Background(), input)
		assert.ErrorIs(t, err, ErrMissingFields)
	}
}

func TestWatchUpdate_PartialFields(t *testing.T) {
	watch := engineerWatch("w1", "acme")
	uc, _, _ := newWatchFixture(watch)

	active := false
	updated, err := uc.Update(context.Background(), "w1", UpdateWatchInput{Active: &active})
	require.NoError(t, err)
	assert.False(t, updated.Active)
	assert.Equal(t, []string{"engineer"}, updated.TitleKeywords, "unset keyword lists are untouched")

	updated, err = uc.Update(context.Background(), "w1", UpdateWatchInput{
		TitleKeywords:    nil,
		SetTitleKeywords: true,
	})
	require.NoError(t, err)
	assert.Empty(t, updated.TitleKeywords, "explicitly set lists replace, even with empty")
}

func TestWatchUpdate_EmptyInputRejected(t *testing.T) {
	uc, _, _ := newWatchFixture(engineerWatch("w1", "acme"))

	_, err := uc.Update(context.Background(), "w1", UpdateWatchInput{})
	assert.ErrorIs(t, err, ErrEmptyUpdate)
}

func TestWatchUpdate_NotFound(t *testing.T) {
	uc, _, _ := newWatchFixture()

	company := "Acme"
	_, err := uc.Update(context.Background(), "missing", UpdateWatchInput{Company: &company})
	assert.ErrorIs(t, err, ErrWatchNotFound)
}

func TestWatchDelete(t *testing.T) {
	uc, repo, _ := newWatchFixture(engineerWatch("w1", "acme"))

	require.NoError(t, uc.Delete(context.Background(), "w1"))
	assert.Empty(t, repo.watches)

	assert.ErrorIs(t, uc.Delete(context.Background(), "w1"), ErrWatchNotFound)
}

func TestValidateBoard(t *testing.T) {
	uc, _, boards := newWatchFixture()
	boards.postings["acme"] = []domain.Posting{
		{Title: "A"}, {Title: "B"}, {Title: "C"}, {Title: "D"}, {Title: "E"}, {Title: "F"}, {Title: "G"},
	}

	validation, err := uc.ValidateBoard(context.Background(), "greenhouse", "acme")
	require.NoError(t, err)
	assert.Equal(t, 7, validation.Count)
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, validation.SampleTitles)

	_, err = uc.ValidateBoard(context.Background(), "workday", "acme")
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestPreview_MatchGateDryRun(t *testing.T) {
	watch := engineerWatch("w1", "acme")
	watch.LocationKeywords = []string{"remote"}
	uc, _, boards := newWatchFixture(watch)
	boards.postings["acme"] = []domain.Posting{
		{Title: "Backend Engineer", Location: "Remote"},
		{Title: "Sales Lead", Location: "Remote"},
		{Title: "Backend Engineer", Location: "New York"},
	}

	result, err := uc.Preview(context.Background(), "w1", 0)
	require.NoError(t, err)

	assert.Equal(t, 3, result.JobsFetched)
	assert.Equal(t, 2, result.MatchesFound)
	assert.Equal(t, 1, result.HiddenByKeyword)
	require.Len(t, result.Samples, 3)
	assert.True(t, result.Samples[0].Matched)
	assert.True(t, result.Samples[1].HiddenByKeyword)
	assert.False(t, result.Samples[2].Matched)
}

func TestPreview_MissingWatchYieldsEmptyResult(t *testing.T) {
	uc, _, _ := newWatchFixture()

	result, err := uc.Preview(context.Background(), "missing", 0)
	require.NoError(t, err)
	assert.Nil(t, result.Watch)
	assert.Zero(t, result.JobsFetched)
}

func TestPreview_DefaultsToFirstActiveWatch(t *testing.T) {
	inactive := engineerWatch("w1", "old")
	inactive.Active = false
	active := engineerWatch("w2", "acme")
	uc, _, boards := newWatchFixture(inactive, active)
	boards.postings["acme"] = []domain.Posting{{Title: "Backend Engineer"}}

	result, err := uc.Preview(context.Background(), "", 0)
	require.NoError(t, err)
	require.NotNil(t, result.Watch)
	assert.Equal(t, "w2", result.Watch.ID)
	assert.Equal(t, 1, result.MatchesFound)
}
