package reviewstore

import (
	"brandsentinel-backend/lib/scrapers/webscrapingdev"
	"brandsentinel-backend/lib/sentiment"
)

func FromReview(r webscrapingdev.Review, label sentiment.Result) Record {
	return Record{
		Id:         r.Id,
		Section:    SectionReviews,
		Title:      r.Title,
		Text:       r.Text,
		Rating:     r.Rating,
		Date:       r.Date,
		Sentiment:  label.Label,
		Confidence: label.Confidence,
	}
}

func FromProduct(p webscrapingdev.Product) Record {
	return Record{
		Id:          p.Id,
		Section:     SectionProducts,
		Title:       p.Name,
		Url:         p.Url,
		Price:       p.Price,
		Description: p.Description,
		Image:       p.Image,
		Sentiment:   sentiment.LabelUnknown,
	}
}

func FromTestimonial(t webscrapingdev.Testimonial) Record {
	return Record{
		Id:        t.Id,
		Section:   SectionTestimonials,
		Text:      t.Text,
		Author:    t.Author,
		Rating:    t.Rating,
		Sentiment: sentiment.LabelUnknown,
	}
}
