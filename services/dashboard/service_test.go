package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"brandsentinel-backend/lib/analytics"
	"brandsentinel-backend/lib/reviewstore"
	"brandsentinel-backend/lib/sentiment"
	"brandsentinel-backend/lib/testutil"

	"github.com/stretchr/testify/require"
)

type fakeClassifier struct {
	calls int
	fail  bool
}

func (f *fakeClassifier) ClassifyBatch(ctx context.Context, texts []string) ([]sentiment.Result, error) {
	f.calls++
	if f.fail {
		return nil, fmt.Errorf("model unavailable")
	}
	results := make([]sentiment.Result, len(texts))
	for i, text := range texts {
		if strings.Contains(text, "love") {
			results[i] = sentiment.Result{Label: sentiment.LabelPositive, Confidence: 0.98}
		} else {
			results[i] = sentiment.Result{Label: sentiment.LabelNegative, Confidence: 0.91}
		}
	}
	return results, nil
}

func seedStore(t *testing.T, store reviewstore.Store) {
	ctx := context.Background()

	reviews := []reviewstore.Record{
		{
			Id:      "review-1",
			Section: reviewstore.SectionReviews,
			Title:   "Box Of Chocolate Candy Review",
			Text:    "absolutely love these chocolates",
			Rating:  5,
			Date:    time.Date(2023, time.March, 4, 0, 0, 0, 0, time.UTC),
		},
		{
			Id:      "review-2",
			Section: reviewstore.SectionReviews,
			Title:   "Box Of Chocolate Candy Review",
			Text:    "melted before it even arrived",
			Rating:  1,
			Date:    time.Date(2023, time.March, 18, 0, 0, 0, 0, time.UTC),
		},
		{
			Id:      "review-3",
			Section: reviewstore.SectionReviews,
			Title:   "Dark Red Energy Potion Review",
			Text:    "love the kick it gives me in the morning",
			Rating:  4,
			Date:    time.Date(2023, time.July, 9, 0, 0, 0, 0, time.UTC),
		},
	}
	require.NoError(t, store.ReplaceSection(ctx, reviewstore.SectionReviews, reviews))

	products := []reviewstore.Record{
		{
			Id:          "1",
			Section:     reviewstore.SectionProducts,
			Title:       "Box of Chocolate Candy",
			Price:       "$9.99",
			Url:         "https://web-scraping.dev/product/1",
			Description: "Indulge your sweet tooth.",
		},
		{
			Id:      "2",
			Section: reviewstore.SectionProducts,
			Title:   "Dark Red Energy Potion",
			Price:   "$4.99",
			Url:     "https://web-scraping.dev/product/2",
		},
	}
	require.NoError(t, store.ReplaceSection(ctx, reviewstore.SectionProducts, products))

	testimonials := []reviewstore.Record{
		{
			Id:      "testimonial-1",
			Section: reviewstore.SectionTestimonials,
			Text:    "The service was excellent from start to finish.",
			Author:  "Anonymous",
			Rating:  5,
		},
	}
	require.NoError(t, store.ReplaceSection(ctx, reviewstore.SectionTestimonials, testimonials))
}

func setupServer(t *testing.T, classifier Classifier) (*httptest.Server, reviewstore.Store, func()) {
	result, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name: "dashboard",
	})

	store := reviewstore.NewStore(result.DB)
	seedStore(t, store)

	mux := http.NewServeMux()
	NewService(store, Options{Classifier: classifier}).Register(mux)
	server := httptest.NewServer(mux)

	return server, store, func() {
		server.Close()
		cleanup()
	}
}

func getJson(t *testing.T, url string, out any) {
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NoError(t, json.NewDecoder(res.Body).Decode(out))
}

func TestMonths(t *testing.T) {
	server, _, cleanup := setupServer(t, nil)
	defer cleanup()

	var response struct {
		Year   int `json:"year"`
		Months []struct {
			Month int    `json:"month"`
			Name  string `json:"name"`
			Count int    `json:"count"`
		} `json:"months"`
		FirstRecord string `json:"first_record"`
		LastRecord  string `json:"last_record"`
	}
	getJson(t, server.URL+"/api/dashboard/months", &response)

	require.Equal(t, 2023, response.Year)
	require.Len(t, response.Months, 12)
	require.Equal(t, "Mar", response.Months[2].Name)
	require.Equal(t, 2, response.Months[2].Count)
	require.Equal(t, 1, response.Months[6].Count)
	require.Equal(t, 0, response.Months[0].Count)
	require.Equal(t, "2023-03-04", response.FirstRecord)
	require.Equal(t, "2023-07-09", response.LastRecord)
}

func TestMetricsClassifiesOnDemand(t *testing.T) {
	classifier := &fakeClassifier{}
	server, store, cleanup := setupServer(t, classifier)
	defer cleanup()

	var metrics analytics.MonthMetrics
	getJson(t, server.URL+"/api/dashboard/metrics?month=3", &metrics)

	require.Equal(t, 2, metrics.Total)
	require.Equal(t, 1, metrics.Positive)
	require.Equal(t, 1, metrics.Negative)
	require.Equal(t, 1, classifier.calls)

	// labels are persisted, so a second request hits the store instead
	getJson(t, server.URL+"/api/dashboard/metrics?month=3", &metrics)
	require.Equal(t, 1, classifier.calls)

	records, err := store.ByMonth(context.Background(),
		reviewstore.SectionReviews, 2023, time.March)
	require.NoError(t, err)
	for _, r := range records {
		require.NotEqual(t, sentiment.LabelUnknown, r.Sentiment)
	}
}

func TestMetricsDegradesWithoutClassifier(t *testing.T) {
	classifier := &fakeClassifier{fail: true}
	server, _, cleanup := setupServer(t, classifier)
	defer cleanup()

	var metrics analytics.MonthMetrics
	getJson(t, server.URL+"/api/dashboard/metrics?month=3", &metrics)

	require.Equal(t, 2, metrics.Total)
	require.Equal(t, 0, metrics.Positive)
	require.Equal(t, 0, metrics.Negative)
}

func TestReviewsLinkProducts(t *testing.T) {
	server, _, cleanup := setupServer(t, &fakeClassifier{})
	defer cleanup()

	var response struct {
		Reviews []struct {
			Id        string `json:"id"`
			Date      string `json:"date"`
			Sentiment string `json:"sentiment"`
			ProductId string `json:"product_id"`
			Product   string `json:"product"`
		} `json:"reviews"`
	}
	getJson(t, server.URL+"/api/dashboard/reviews?month=3", &response)

	require.Len(t, response.Reviews, 2)
	for _, review := range response.Reviews {
		require.Equal(t, "1", review.ProductId)
		require.Equal(t, "Box of Chocolate Candy", review.Product)
		require.True(t, strings.HasPrefix(review.Date, "2023-03-"))
	}
}

func TestMonthValidation(t *testing.T) {
	server, _, cleanup := setupServer(t, nil)
	defer cleanup()

	for _, query := range []string{"", "?month=0", "?month=13", "?month=abc"} {
		res, err := http.Get(server.URL + "/api/dashboard/metrics" + query)
		require.NoError(t, err)
		res.Body.Close()
		require.Equal(t, http.StatusBadRequest, res.StatusCode, "query %q", query)
	}
}

func TestWordCloud(t *testing.T) {
	server, _, cleanup := setupServer(t, nil)
	defer cleanup()

	var response struct {
		Terms []analytics.Term `json:"terms"`
	}
	getJson(t, server.URL+"/api/dashboard/wordcloud?month=3", &response)

	require.NotEmpty(t, response.Terms)
	terms := map[string]bool{}
	for _, term := range response.Terms {
		terms[term.Term] = true
	}
	require.True(t, terms["chocolates"])
	require.False(t, terms["the"], "stopwords should be filtered")
}

func TestProductsAndTestimonials(t *testing.T) {
	server, _, cleanup := setupServer(t, nil)
	defer cleanup()

	var products struct {
		Products []struct {
			Name  string `json:"name"`
			Price string `json:"price"`
		} `json:"products"`
	}
	getJson(t, server.URL+"/api/dashboard/products", &products)
	require.Len(t, products.Products, 2)
	require.Equal(t, "Box of Chocolate Candy", products.Products[0].Name)
	require.Equal(t, "$9.99", products.Products[0].Price)

	var testimonials struct {
		Testimonials []struct {
			Author string `json:"author"`
			Rating int    `json:"rating"`
		} `json:"testimonials"`
	}
	getJson(t, server.URL+"/api/dashboard/testimonials", &testimonials)
	require.Len(t, testimonials.Testimonials, 1)
	require.Equal(t, "Anonymous", testimonials.Testimonials[0].Author)
	require.Equal(t, 5, testimonials.Testimonials[0].Rating)
}

func TestServesPage(t *testing.T) {
	server, _, cleanup := setupServer(t, nil)
	defer cleanup()

	res, err := http.Get(server.URL + "/")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, res.Header.Get("content-type"), "text/html")
}
