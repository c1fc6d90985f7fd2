package reviewstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"brandsentinel-backend/lib/reviewstore/db"
	"brandsentinel-backend/lib/sentiment"
	"brandsentinel-backend/lib/sqliteutil"
	"brandsentinel-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) Store {
	sqlite, err := sqliteutil.OpenDB(db.Schema, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })
	return NewStore(sqlite)
}

func day(month time.Month, d int) time.Time {
	return time.Date(2023, month, d, 0, 0, 0, 0, time.UTC)
}

func TestStore(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:reviewstore")
	defer cleanup()

	store := newTestStore(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	{
		res, err := store.BySection(ctx, SectionReviews)
		require.NoError(t, err)
		require.Len(t, res, 0)
	}
	{
		err := store.ReplaceSection(ctx, SectionReviews, []Record{
			{Id: "r-1", Section: SectionReviews, Title: "A Review", Text: "great", Rating: 5, Date: day(time.January, 4), Sentiment: "POSITIVE", Confidence: 0.98},
			{Id: "r-2", Section: SectionReviews, Title: "B Review", Text: "awful", Rating: 1, Date: day(time.February, 11), Sentiment: "NEGATIVE", Confidence: 0.92},
			{Id: "r-3", Section: SectionReviews, Title: "C Review", Text: "fine", Rating: 3, Date: day(time.February, 20), Sentiment: "UNKNOWN"},
		})
		require.NoError(t, err)

		err = store.ReplaceSection(ctx, SectionProducts, []Record{
			{Id: "product-3", Section: SectionProducts, Title: "Chocolate", Price: "$24.99"},
		})
		require.NoError(t, err)

		all, err := store.BySection(ctx, SectionReviews)
		require.NoError(t, err)
		require.Len(t, all, 3)
		require.Equal(t, "r-1", all[0].Id)
		require.Equal(t, day(time.January, 4), all[0].Date)

		feb, err := store.ByMonth(ctx, SectionReviews, 2023, time.February)
		require.NoError(t, err)
		require.Len(t, feb, 2)
		require.Equal(t, "r-2", feb[0].Id)
		require.Equal(t, "r-3", feb[1].Id)
	}
	{
		// a second run fully replaces the section
		err := store.ReplaceSection(ctx, SectionReviews, []Record{
			{Id: "r-9", Section: SectionReviews, Title: "D Review", Text: "new", Rating: 4, Date: day(time.March, 2), Sentiment: "UNKNOWN"},
		})
		require.NoError(t, err)

		all, err := store.BySection(ctx, SectionReviews)
		require.NoError(t, err)
		require.Len(t, all, 1)
		require.Equal(t, "r-9", all[0].Id)

		// products untouched
		products, err := store.BySection(ctx, SectionProducts)
		require.NoError(t, err)
		require.Len(t, products, 1)
	}
	{
		err := store.SetSentiment(ctx, "r-9", sentiment.Result{Label: "POSITIVE", Confidence: 0.8765})
		require.NoError(t, err)

		all, err := store.BySection(ctx, SectionReviews)
		require.NoError(t, err)
		require.Equal(t, "POSITIVE", all[0].Sentiment)
		require.Equal(t, 0.8765, all[0].Confidence)
	}
	{
		min, max, ok, err := store.DateRange(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, day(time.March, 2), min)
		require.Equal(t, day(time.March, 2), max)
	}
}

func TestDateRangeEmpty(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:reviewstore")
	defer cleanup()

	store := newTestStore(t)

	_, _, ok, err := store.DateRange(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDatasetRoundTrip(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:reviewstore")
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	store := newTestStore(t)

	err := store.ReplaceSection(ctx, SectionReviews, []Record{
		{Id: "box-of-chocolate-candy-3", Section: SectionReviews, Title: "Box Of Chocolate Candy Review", Text: "delicious", Rating: 5, Date: day(time.April, 1), Sentiment: "POSITIVE", Confidence: 0.99},
	})
	require.NoError(t, err)
	err = store.ReplaceSection(ctx, SectionProducts, []Record{
		{Id: "product-3", Section: SectionProducts, Title: "Box of Chocolate Candy", Url: "https://web-scraping.dev/product/3", Price: "$24.99", Description: "Sweet.", Image: "img.png"},
	})
	require.NoError(t, err)
	err = store.ReplaceSection(ctx, SectionTestimonials, []Record{
		{Id: "testimonial-1", Section: SectionTestimonials, Text: "We love it!", Author: "Jordan R.", Rating: 4},
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "data.json")
	err = ExportDataset(ctx, store, path)
	require.NoError(t, err)

	restored := newTestStore(t)
	err = ImportDataset(ctx, restored, path)
	require.NoError(t, err)

	reviews, err := restored.BySection(ctx, SectionReviews)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	require.Equal(t, "Box Of Chocolate Candy Review", reviews[0].Title)
	require.Equal(t, day(time.April, 1), reviews[0].Date)
	require.Equal(t, 0.99, reviews[0].Confidence)

	products, err := restored.BySection(ctx, SectionProducts)
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, "Box of Chocolate Candy", products[0].Title)
	require.Equal(t, "$24.99", products[0].Price)

	testimonials, err := restored.BySection(ctx, SectionTestimonials)
	require.NoError(t, err)
	require.Len(t, testimonials, 1)
	require.Equal(t, "Jordan R.", testimonials[0].Author)
}

func TestImportDatasetPartial(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:reviewstore")
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	store := newTestStore(t)
	err := store.ReplaceSection(ctx, SectionProducts, []Record{
		{Id: "product-1", Section: SectionProducts, Title: "Teal Potion"},
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "reviews-only.json")
	contents := `{"reviews": [{"id": "r-1", "title": "Teal Review", "text": "nice", "rating": 4, "date": "2023-02-14"}]}`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	require.NoError(t, ImportDataset(ctx, store, path))

	// a file without a products key leaves the stored products alone
	products, err := store.BySection(ctx, SectionProducts)
	require.NoError(t, err)
	require.Len(t, products, 1)

	reviews, err := store.BySection(ctx, SectionReviews)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	require.Equal(t, "Teal Review", reviews[0].Title)
	require.Equal(t, sentiment.LabelUnknown, reviews[0].Sentiment)
}
