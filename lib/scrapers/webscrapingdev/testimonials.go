package webscrapingdev

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"brandsentinel-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// the testimonial page lazy-loads this many scroll batches at most
const maxTestimonialPages = 15

// FetchTestimonials pages through the endpoint feeding the testimonial
// page's infinite scroll, stopping at the first empty batch.
func (c *Client) FetchTestimonials(ctx context.Context) ([]Testimonial, error) {
	ctx, span := tracer.Start(ctx, "FetchTestimonials")
	defer span.End()

	var testimonials []Testimonial

	for page := 1; page <= maxTestimonialPages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res, err := c.Http.R().
			SetContext(ctx).
			SetQueryParam("page", fmt.Sprint(page)).
			Get("/api/testimonials")
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to fetch testimonial page")
			return nil, fmt.Errorf("fetch testimonial page %d: %w", page, err)
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to parse testimonial page")
			return nil, fmt.Errorf("parse testimonial page %d: %w", page, err)
		}

		blocks := doc.Find(".testimonial")
		if blocks.Length() == 0 {
			slog.InfoContext(ctx, "reached bottom of testimonial feed", "page", page)
			break
		}

		blocks.Each(func(_ int, block *goquery.Selection) {
			t, ok := parseTestimonial(block, len(testimonials))
			if ok {
				testimonials = append(testimonials, t)
			}
		})

		slog.InfoContext(ctx, "fetched testimonial page",
			"page", page, "blocks", blocks.Length())

		if page < maxTestimonialPages {
			c.waitBetweenPages(ctx.Done())
		}
	}

	span.SetAttributes(attribute.Int("testimonials", len(testimonials)))
	return testimonials, nil
}

func parseTestimonial(block *goquery.Selection, position int) (Testimonial, bool) {
	text := htmlutil.CleanText(block.Find(".text").First().Text())
	if text == "" {
		text = htmlutil.CleanText(block.Text())
	}
	// too short to be an actual testimonial
	if len(text) <= 5 {
		return Testimonial{}, false
	}

	author := htmlutil.CleanText(block.Find(".author").First().Text())
	if author == "" {
		author = "Anonymous"
	}

	rating := block.Find(".rating svg").Length()
	if rating == 0 {
		rating = 5
	}

	return Testimonial{
		Id:     fmt.Sprintf("testimonial-%d", position+1),
		Text:   text,
		Author: author,
		Rating: rating,
	}, true
}
