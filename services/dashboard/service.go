package dashboard

import (
	"context"
	"log/slog"
	"time"

	"brandsentinel-backend/lib/reviewstore"
	"brandsentinel-backend/lib/sentiment"
	"brandsentinel-backend/lib/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("brandsentinel.services.dashboard")

// Classifier is the part of the sentiment client the dashboard relies on.
type Classifier interface {
	ClassifyBatch(ctx context.Context, texts []string) ([]sentiment.Result, error)
}

type Options struct {
	// the year the month filter selects within, defaults to 2023
	Year int
	// optional; when nil, unlabeled records stay UNKNOWN
	Classifier Classifier
}

type Service struct {
	store  reviewstore.Store
	config Options
}

func NewService(store reviewstore.Store, options Options) Service {
	if options.Year == 0 {
		options.Year = 2023
	}
	return Service{
		store:  store,
		config: options,
	}
}

// reviewsForMonth loads the month's reviews and labels any unlabeled
// ones when a classifier is available. Classification failures degrade
// to UNKNOWN labels rather than failing the request.
func (s Service) reviewsForMonth(ctx context.Context, month time.Month) ([]reviewstore.Record, error) {
	ctx, span := tracer.Start(ctx, "reviewsForMonth")
	defer span.End()
	span.SetAttributes(attribute.Int("month", int(month)))

	records, err := s.store.ByMonth(ctx, reviewstore.SectionReviews, s.config.Year, month)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load month records")
		return nil, err
	}

	if s.config.Classifier == nil {
		return records, nil
	}

	var unlabeled []int
	for i, r := range records {
		if r.Sentiment == sentiment.LabelUnknown && r.Text != "" {
			unlabeled = append(unlabeled, i)
		}
	}
	if len(unlabeled) == 0 {
		return records, nil
	}

	texts := make([]string, len(unlabeled))
	for i, idx := range unlabeled {
		texts[i] = records[idx].Text
	}

	results, err := s.config.Classifier.ClassifyBatch(ctx, texts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "classification failed, serving unlabeled")
		slog.WarnContext(ctx, "failed to classify reviews", "err", err)
		return records, nil
	}

	for i, idx := range unlabeled {
		records[idx].Sentiment = results[i].Label
		records[idx].Confidence = results[i].Confidence

		err := s.store.SetSentiment(ctx, records[idx].Id, results[i])
		if err != nil {
			slog.WarnContext(ctx, "failed to persist sentiment",
				"id", records[idx].Id, "err", err)
		}
	}
	span.SetAttributes(attribute.Int("classified", len(unlabeled)))

	return records, nil
}
