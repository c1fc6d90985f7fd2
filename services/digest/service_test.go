package digest

import (
	"context"
	"testing"
	"time"

	"brandsentinel-backend/lib/reviewstore"
	"brandsentinel-backend/lib/sentiment"
	"brandsentinel-backend/lib/testutil"

	"github.com/stretchr/testify/require"
)

func TestRenderDigest(t *testing.T) {
	result, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name: "digest",
	})
	defer cleanup()

	ctx := context.Background()
	store := reviewstore.NewStore(result.DB)

	reviews := []reviewstore.Record{
		{
			Id:         "review-1",
			Section:    reviewstore.SectionReviews,
			Title:      "Box Of Chocolate Candy Review",
			Text:       "delicious chocolate, melts in your mouth",
			Date:       time.Date(2023, time.May, 2, 0, 0, 0, 0, time.UTC),
			Sentiment:  sentiment.LabelPositive,
			Confidence: 0.99,
		},
		{
			Id:         "review-2",
			Section:    reviewstore.SectionReviews,
			Title:      "Box Of Chocolate Candy Review",
			Text:       "stale chocolate, very disappointing",
			Date:       time.Date(2023, time.May, 20, 0, 0, 0, 0, time.UTC),
			Sentiment:  sentiment.LabelNegative,
			Confidence: 0.95,
		},
		{
			Id:        "review-3",
			Section:   reviewstore.SectionReviews,
			Title:     "Dark Red Energy Potion Review",
			Text:      "should not show up in the may digest",
			Date:      time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC),
			Sentiment: sentiment.LabelPositive,
		},
	}
	require.NoError(t, store.ReplaceSection(ctx, reviewstore.SectionReviews, reviews))

	service := NewService(store, Options{})
	body, err := service.RenderDigest(ctx, time.May)
	require.NoError(t, err)

	require.Contains(t, body, "digest for May 2023")
	require.Contains(t, body, "Total reviews:   2")
	require.Contains(t, body, "Positive:        1 (50.0%)")
	require.Contains(t, body, "Negative:        1 (50.0%)")
	require.Contains(t, body, "chocolate")
	require.NotContains(t, body, "energy")
}

func TestSendDigestRequiresRecipients(t *testing.T) {
	result, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name: "digest",
	})
	defer cleanup()

	store := reviewstore.NewStore(result.DB)
	service := NewService(store, Options{})

	err := service.SendDigest(context.Background(), time.May)
	require.ErrorContains(t, err, "no digest recipients")
}
