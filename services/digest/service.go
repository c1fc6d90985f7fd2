package digest

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"brandsentinel-backend/lib/analytics"
	"brandsentinel-backend/lib/reviewstore"
	"brandsentinel-backend/lib/telemetry"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("brandsentinel.services.digest")

type SmtpConfig struct {
	Server       string `json:"server"`
	Port         int    `json:"port"`
	EmailAddress string `json:"email_address"`
	Password     string `json:"password"`
}

type Options struct {
	Smtp       SmtpConfig
	Recipients []string
	// the year the month filter selects within, defaults to 2023
	Year int
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

const digestTermCount = 10

// RenderDigest produces the plain-text body summarizing a month's
// review sentiment.
func (s Service) RenderDigest(ctx context.Context, month time.Month) (string, error) {
	ctx, span := tracer.Start(ctx, "RenderDigest")
	defer span.End()

	records, err := s.store.ByMonth(ctx, reviewstore.SectionReviews, s.config.Year, month)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load month records")
		return "", err
	}

	metrics := analytics.ComputeMetrics(records)
	terms := analytics.WordCloudTerms(records)
	if len(terms) > digestTermCount {
		terms = terms[:digestTermCount]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Review sentiment digest for %s %d\n\n", month, s.config.Year)
	fmt.Fprintf(&b, "Total reviews:   %d\n", metrics.Total)
	fmt.Fprintf(&b, "Positive:        %d (%.1f%%)\n", metrics.Positive, metrics.PositivePct)
	fmt.Fprintf(&b, "Negative:        %d (%.1f%%)\n", metrics.Negative, metrics.NegativePct)
	fmt.Fprintf(&b, "Avg. confidence: %.1f%%\n", metrics.AvgConfidence*100)

	if len(terms) > 0 {
		b.WriteString("\nMost mentioned terms:\n")
		for _, term := range terms {
			fmt.Fprintf(&b, "  %-16s %d\n", term.Term, term.Count)
		}
	}

	return b.String(), nil
}

// SendDigest renders and mails the digest to every configured
// recipient.
func (s Service) SendDigest(ctx context.Context, month time.Month) error {
	ctx, span := tracer.Start(ctx, "SendDigest")
	defer span.End()

	if len(s.config.Recipients) == 0 {
		return fmt.Errorf("no digest recipients configured")
	}

	body, err := s.RenderDigest(ctx, month)
	if err != nil {
		return err
	}

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Brand Sentinel <%s>", s.config.Smtp.EmailAddress)
	mail.To = s.config.Recipients
	mail.Subject = fmt.Sprintf("Review Sentiment Digest: %s %d", month, s.config.Year)
	mail.Text = []byte(body)

	addr := fmt.Sprintf("%s:%d", s.config.Smtp.Server, s.config.Smtp.Port)
	err = mail.Send(
		addr,
		smtp.PlainAuth("", s.config.Smtp.EmailAddress, s.config.Smtp.Password, s.config.Smtp.Server),
	)
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send digest email")
		return err
	}

	return nil
}
