package reviewstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"brandsentinel-backend/lib/sentiment"
)

// The flat dataset file groups records by section under fixed keys; the
// per-section shapes below match what the scrape historically produced,
// so older data.json files stay importable.

type datasetReview struct {
	Id         string  `json:"id"`
	Title      string  `json:"title"`
	Text       string  `json:"text"`
	Rating     int     `json:"rating"`
	Date       string  `json:"date"`
	Section    string  `json:"section"`
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}

type datasetProduct struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	Url         string `json:"url"`
	Price       string `json:"price"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Section     string `json:"section"`
}

type datasetTestimonial struct {
	Id      string `json:"id"`
	Text    string `json:"text"`
	Author  string `json:"author"`
	Rating  int    `json:"rating"`
	Section string `json:"section"`
}

type datasetFile struct {
	Reviews      []datasetReview      `json:"reviews"`
	Products     []datasetProduct     `json:"products"`
	Testimonials []datasetTestimonial `json:"testimonials"`
}

const dateLayout = "2006-01-02"

// ExportDataset writes every stored record to a flat JSON file.
func ExportDataset(ctx context.Context, store Store, path string) error {
	var file datasetFile

	reviews, err := store.BySection(ctx, SectionReviews)
	if err != nil {
		return fmt.Errorf("export reviews: %w", err)
	}
	for _, r := range reviews {
		file.Reviews = append(file.Reviews, datasetReview{
			Id:         r.Id,
			Title:      r.Title,
			Text:       r.Text,
			Rating:     r.Rating,
			Date:       r.Date.Format(dateLayout),
			Section:    string(SectionReviews),
			Sentiment:  r.Sentiment,
			Confidence: r.Confidence,
		})
	}

	products, err := store.BySection(ctx, SectionProducts)
	if err != nil {
		return fmt.Errorf("export products: %w", err)
	}
	for _, r := range products {
		file.Products = append(file.Products, datasetProduct{
			Id:          r.Id,
			Name:        r.Title,
			Url:         r.Url,
			Price:       r.Price,
			Description: r.Description,
			Image:       r.Image,
			Section:     string(SectionProducts),
		})
	}

	testimonials, err := store.BySection(ctx, SectionTestimonials)
	if err != nil {
		return fmt.Errorf("export testimonials: %w", err)
	}
	for _, r := range testimonials {
		file.Testimonials = append(file.Testimonials, datasetTestimonial{
			Id:      r.Id,
			Text:    r.Text,
			Author:  r.Author,
			Rating:  r.Rating,
			Section: string(SectionTestimonials),
		})
	}

	contents, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, contents, 0644)
}

// ImportDataset loads a flat JSON file into the store, replacing every
// section it carries.
func ImportDataset(ctx context.Context, store Store, path string) error {
	contents, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var file datasetFile
	err = json.Unmarshal(contents, &file)
	if err != nil {
		return fmt.Errorf("parse dataset: %w", err)
	}

	reviews := make([]Record, 0, len(file.Reviews))
	for _, r := range file.Reviews {
		date, err := time.Parse(dateLayout, r.Date)
		if err != nil {
			return fmt.Errorf("parse review date %q: %w", r.Date, err)
		}
		label := r.Sentiment
		if label == "" {
			label = sentiment.LabelUnknown
		}
		reviews = append(reviews, Record{
			Id:         r.Id,
			Section:    SectionReviews,
			Title:      r.Title,
			Text:       r.Text,
			Rating:     r.Rating,
			Date:       date,
			Sentiment:  label,
			Confidence: r.Confidence,
		})
	}

	products := make([]Record, 0, len(file.Products))
	for _, p := range file.Products {
		products = append(products, Record{
			Id:          p.Id,
			Section:     SectionProducts,
			Title:       p.Name,
			Url:         p.Url,
			Price:       p.Price,
			Description: p.Description,
			Image:       p.Image,
			Sentiment:   sentiment.LabelUnknown,
		})
	}

	testimonials := make([]Record, 0, len(file.Testimonials))
	for _, t := range file.Testimonials {
		testimonials = append(testimonials, Record{
			Id:        t.Id,
			Section:   SectionTestimonials,
			Text:      t.Text,
			Author:    t.Author,
			Rating:    t.Rating,
			Sentiment: sentiment.LabelUnknown,
		})
	}

	// sections absent from the file stay untouched; an explicit empty
	// array still clears its section
	if file.Reviews != nil {
		err = store.ReplaceSection(ctx, SectionReviews, reviews)
		if err != nil {
			return err
		}
	}
	if file.Products != nil {
		err = store.ReplaceSection(ctx, SectionProducts, products)
		if err != nil {
			return err
		}
	}
	if file.Testimonials != nil {
		err = store.ReplaceSection(ctx, SectionTestimonials, testimonials)
		if err != nil {
			return err
		}
	}
	return nil
}
