package recall

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/estimaro/estimator/internal/model"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) FetchRecallsByVIN(ctx context.Context, vin string) ([]model.Recall, error) {
	args := m.Called(ctx, vin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recall), args.Error(1)
}

const testVIN = "1HGBH41JXMN109186"

func brakeRecall() model.Recall {
	return model.Recall{
		CampaignNumber: "23V123000",
		Manufacturer:   "Honda",
		Component:      "SERVICE BRAKES, HYDRAULIC",
		Summary:        "The brake master cylinder may leak internally, reducing braking performance.",
		Consequence:    "Increased stopping distance.",
		Remedy:         "Dealers will replace the master cylinder free of charge.",
	}
}

func airbagRecall() model.Recall {
	return model.Recall{
		CampaignNumber: "22V999000",
		Component:      "AIR BAGS",
		Summary:        "The passenger airbag inflator may rupture.",
	}
}

func TestCheck_MatchingRecallRaisesRedFlag(t *testing.T) {
	t.Parallel()
	src := new(mockSource)
	src.On("FetchRecallsByVIN", mock.Anything, testVIN).Return([]model.Recall{airbagRecall(), brakeRecall()}, nil)

	res, err := NewChecker(src).Check(context.Background(), testVIN, "Brakes feel soft and spongy")
	require.NoError(t, err)

	assert.True(t, res.HasOpenRecalls)
	assert.Equal(t, 2, res.OpenCount)
	assert.True(t, res.HasMatchingRecall)
	assert.Equal(t, 1, res.MatchingCount)
	assert.Equal(t, []string{"brake"}, res.Categories)
	require.Len(t, res.MatchingRecalls, 1)
	assert.Equal(t, "23V123000", res.MatchingRecalls[0].CampaignNumber)

	require.NotNil(t, res.Flag)
	assert.Equal(t, model.FlagRed, res.Flag.Type)
	assert.Equal(t, "RECALL ALERT", res.Flag.Title)
	assert.Equal(t, "Possible recall match detected! Campaign: 23V123000", res.Flag.Message)
	assert.Equal(t, brakeRecall().Summary, res.Flag.Details)
	src.AssertExpectations(t)
}

func TestCheck_OpenRecallsWithoutMatch(t *testing.T) {
	t.Parallel()
	src := new(mockSource)
	src.On("FetchRecallsByVIN", mock.Anything, testVIN).Return([]model.Recall{airbagRecall()}, nil)

	res, err := NewChecker(src).Check(context.Background(), testVIN, "Brake squeal")
	require.NoError(t, err)
	assert.True(t, res.HasOpenRecalls)
	assert.False(t, res.HasMatchingRecall)
	assert.Nil(t, res.Flag)
}

func TestCheck_FetchErrorReturnsEmptyResult(t *testing.T) {
	t.Parallel()
	src := new(mockSource)
	src.On("FetchRecallsByVIN", mock.Anything, testVIN).Return(nil, errors.New("timeout"))

	res, err := NewChecker(src).Check(context.Background(), testVIN, "brakes")
	require.Error(t, err)
	require.NotNil(t, res)
	assert.False(t, res.HasOpenRecalls)
	assert.Nil(t, res.Flag)
}

func TestCheck_TruncatesLongText(t *testing.T) {
	t.Parallel()
	long := brakeRecall()
	long.Summary = "brake " + strings.Repeat("x", 300)
	long.Remedy = strings.Repeat("é", 250)

	src := new(mockSource)
	src.On("FetchRecallsByVIN", mock.Anything, testVIN).Return([]model.Recall{long}, nil)

	res, err := NewChecker(src).Check(context.Background(), testVIN, "brake noise")
	require.NoError(t, err)

	got := res.AllRecalls[0]
	assert.Len(t, []rune(got.Summary), 203)
	assert.True(t, strings.HasSuffix(got.Summary, "..."))
	assert.Len(t, []rune(got.Remedy), 203)
	assert.Equal(t, long.Consequence, got.Consequence)

	require.NotNil(t, res.Flag)
	assert.Len(t, []rune(res.Flag.Details), 153)
}

func TestComplaintCategories(t *testing.T) {
	t.Parallel()
	assert.Nil(t, ComplaintCategories(""))
	assert.Equal(t, []string{"steering", "tire"}, ComplaintCategories("steering wheel shakes"))
	assert.Equal(t, []string{"airbag"}, ComplaintCategories("SRS light on"))
	assert.Equal(t, []string{"fuel", "engine"}, ComplaintCategories("engine stalls, fuel smell"))
}

func TestMatch(t *testing.T) {
	t.Parallel()
	recalls := []model.Recall{airbagRecall(), brakeRecall()}

	assert.Empty(t, Match(nil, recalls))
	assert.Empty(t, Match([]string{"brake"}, nil))

	got := Match([]string{"airbag", "brake"}, recalls)
	require.Len(t, got, 2)
	assert.Equal(t, "22V999000", got[0].CampaignNumber)
}
