package dashboard

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"brandsentinel-backend/lib/analytics"
	"brandsentinel-backend/lib/linker"
	"brandsentinel-backend/lib/reviewstore"
)

//go:embed page.html
var pageHtml []byte

// Register mounts every dashboard route on the mux.
func (s Service) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /", s.handlePage)
	mux.HandleFunc("GET /api/dashboard/months", s.handleMonths)
	mux.HandleFunc("GET /api/dashboard/metrics", s.handleMetrics)
	mux.HandleFunc("GET /api/dashboard/reviews", s.handleReviews)
	mux.HandleFunc("GET /api/dashboard/histogram", s.handleHistogram)
	mux.HandleFunc("GET /api/dashboard/daily", s.handleDaily)
	mux.HandleFunc("GET /api/dashboard/wordcloud", s.handleWordcloud)
	mux.HandleFunc("GET /api/dashboard/products", s.handleProducts)
	mux.HandleFunc("GET /api/dashboard/testimonials", s.handleTestimonials)
}

func writeJson(w http.ResponseWriter, value any) {
	w.Header().Set("content-type", "application/json")
	err := json.NewEncoder(w).Encode(value)
	if err != nil {
		slog.Warn("failed to encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func monthParam(r *http.Request) (time.Month, error) {
	raw := r.URL.Query().Get("month")
	if raw == "" {
		return 0, fmt.Errorf("missing month parameter")
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > 12 {
		return 0, fmt.Errorf("month must be an integer between 1 and 12")
	}
	return time.Month(n), nil
}

func (s Service) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("content-type", "text/html; charset=utf-8")
	w.Write(pageHtml)
}

type monthSummary struct {
	Month int    `json:"month"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func (s Service) handleMonths(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "handleMonths")
	defer span.End()

	records, err := s.store.BySection(ctx, reviewstore.SectionReviews)
	if err != nil {
		span.RecordError(err)
		writeError(w, http.StatusInternalServerError, "failed to load reviews")
		return
	}

	counts := map[time.Month]int{}
	for _, rec := range records {
		if rec.Date.Year() == s.config.Year {
			counts[rec.Date.Month()]++
		}
	}

	months := make([]monthSummary, 12)
	for m := time.January; m <= time.December; m++ {
		months[int(m)-1] = monthSummary{
			Month: int(m),
			Name:  m.String()[:3],
			Count: counts[m],
		}
	}

	payload := map[string]any{
		"year":   s.config.Year,
		"months": months,
	}

	// the page shows the overall dataset span so an empty month is
	// distinguishable from an empty store
	first, last, ok, err := s.store.DateRange(ctx)
	if err != nil {
		span.RecordError(err)
		writeError(w, http.StatusInternalServerError, "failed to load date range")
		return
	}
	if ok {
		payload["first_record"] = first.Format("2006-01-02")
		payload["last_record"] = last.Format("2006-01-02")
	}

	writeJson(w, payload)
}

func (s Service) handleMetrics(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "handleMetrics")
	defer span.End()

	month, err := monthParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := s.reviewsForMonth(ctx, month)
	if err != nil {
		span.RecordError(err)
		writeError(w, http.StatusInternalServerError, "failed to load reviews")
		return
	}

	writeJson(w, analytics.ComputeMetrics(records))
}

type reviewRow struct {
	Id         string  `json:"id"`
	Title      string  `json:"title"`
	Text       string  `json:"text"`
	Rating     int     `json:"rating"`
	Date       string  `json:"date"`
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
	ProductId  string  `json:"product_id,omitempty"`
	Product    string  `json:"product,omitempty"`
}

func (s Service) handleReviews(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "handleReviews")
	defer span.End()

	month, err := monthParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := s.reviewsForMonth(ctx, month)
	if err != nil {
		span.RecordError(err)
		writeError(w, http.StatusInternalServerError, "failed to load reviews")
		return
	}

	products, err := s.store.BySection(ctx, reviewstore.SectionProducts)
	if err != nil {
		span.RecordError(err)
		writeError(w, http.StatusInternalServerError, "failed to load products")
		return
	}

	linksByReview := map[string]linker.ProductLink{}
	for _, link := range linker.LinkReviewsToProducts(records, products) {
		linksByReview[link.ReviewId] = link
	}

	rows := make([]reviewRow, len(records))
	for i, rec := range records {
		row := reviewRow{
			Id:         rec.Id,
			Title:      rec.Title,
			Text:       rec.Text,
			Rating:     rec.Rating,
			Date:       rec.Date.Format("2006-01-02"),
			Sentiment:  rec.Sentiment,
			Confidence: rec.Confidence,
		}
		if link, ok := linksByReview[rec.Id]; ok {
			row.ProductId = link.ProductId
			row.Product = link.ProductName
		}
		rows[i] = row
	}

	writeJson(w, map[string]any{"reviews": rows})
}

func (s Service) handleHistogram(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "handleHistogram")
	defer span.End()

	month, err := monthParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := s.reviewsForMonth(ctx, month)
	if err != nil {
		span.RecordError(err)
		writeError(w, http.StatusInternalServerError, "failed to load reviews")
		return
	}

	writeJson(w, map[string]any{"bins": analytics.ConfidenceHistogram(records)})
}

func (s Service) handleDaily(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "handleDaily")
	defer span.End()

	month, err := monthParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := s.reviewsForMonth(ctx, month)
	if err != nil {
		span.RecordError(err)
		writeError(w, http.StatusInternalServerError, "failed to load reviews")
		return
	}

	writeJson(w, map[string]any{"days": analytics.DailyVolume(records)})
}

func (s Service) handleWordcloud(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "handleWordcloud")
	defer span.End()

	month, err := monthParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := s.reviewsForMonth(ctx, month)
	if err != nil {
		span.RecordError(err)
		writeError(w, http.StatusInternalServerError, "failed to load reviews")
		return
	}

	writeJson(w, map[string]any{"terms": analytics.WordCloudTerms(records)})
}

type productRow struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	Url         string `json:"url"`
	Price       string `json:"price"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

func (s Service) handleProducts(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "handleProducts")
	defer span.End()

	records, err := s.store.BySection(ctx, reviewstore.SectionProducts)
	if err != nil {
		span.RecordError(err)
		writeError(w, http.StatusInternalServerError, "failed to load products")
		return
	}

	rows := make([]productRow, len(records))
	for i, rec := range records {
		rows[i] = productRow{
			Id:          rec.Id,
			Name:        rec.Title,
			Url:         rec.Url,
			Price:       rec.Price,
			Description: rec.Description,
			Image:       rec.Image,
		}
	}
	writeJson(w, map[string]any{"products": rows})
}

type testimonialRow struct {
	Id     string `json:"id"`
	Text   string `json:"text"`
	Author string `json:"author"`
	Rating int    `json:"rating"`
}

func (s Service) handleTestimonials(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "handleTestimonials")
	defer span.End()

	records, err := s.store.BySection(ctx, reviewstore.SectionTestimonials)
	if err != nil {
		span.RecordError(err)
		writeError(w, http.StatusInternalServerError, "failed to load testimonials")
		return
	}

	rows := make([]testimonialRow, len(records))
	for i, rec := range records {
		rows[i] = testimonialRow{
			Id:     rec.Id,
			Text:   rec.Text,
			Author: rec.Author,
			Rating: rec.Rating,
		}
	}
	writeJson(w, map[string]any{"testimonials": rows})
}
