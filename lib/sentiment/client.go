package sentiment

import (
	"context"
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"brandsentinel-backend/lib/restyutil"
	"brandsentinel-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("brandsentinel.lib.sentiment")

const DefaultModel = "distilbert-base-uncased-finetuned-sst-2-english"
const DefaultEndpoint = "https://api-inference.huggingface.co"

const LabelPositive = "POSITIVE"
const LabelNegative = "NEGATIVE"
const LabelUnknown = "UNKNOWN"

// inputs longer than this are truncated before classification
const maxInputLength = 512

// Result is a single classification with its confidence rounded to
// 4 decimal places.
type Result struct {
	Label      string
	Confidence float64
}

// Unknown is what records carry when no classifier ran over them.
var Unknown = Result{Label: LabelUnknown, Confidence: 0}

type Client struct {
	http  *resty.Client
	model string
}

type ClientOptions struct {
	// defaults to DefaultEndpoint
	Endpoint string
	// defaults to DefaultModel
	Model string
	// optional bearer token
	Token string
}

func NewClient(opts ClientOptions) *Client {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}

	client := resty.New()
	client.SetBaseURL(opts.Endpoint)
	client.SetTimeout(time.Second * 60)
	if opts.Token != "" {
		client.SetAuthToken(opts.Token)
	}
	restyutil.InstrumentClient(client, tracer, nil)

	return &Client{
		http:  client,
		model: opts.Model,
	}
}

type inferenceRequest struct {
	Inputs []string `json:"inputs"`
}

type inferenceLabel struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func truncate(text string) string {
	if utf8.RuneCountInString(text) <= maxInputLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxInputLength])
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// ClassifyBatch labels every text in one inference call. The returned
// slice is positionally aligned with texts.
func (c *Client) ClassifyBatch(ctx context.Context, texts []string) ([]Result, error) {
	ctx, span := tracer.Start(ctx, "ClassifyBatch")
	defer span.End()
	span.SetAttributes(attribute.Int("inputs", len(texts)))

	if len(texts) == 0 {
		return nil, nil
	}

	inputs := make([]string, len(texts))
	for i, t := range texts {
		inputs[i] = truncate(t)
	}

	var scored [][]inferenceLabel
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("content-type", "application/json").
		SetBody(inferenceRequest{Inputs: inputs}).
		SetResult(&scored).
		Post("/models/" + c.model)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "inference request failed")
		return nil, err
	}
	if res.IsError() {
		err := fmt.Errorf("inference: status %d: %s", res.StatusCode(), res.String())
		span.RecordError(err)
		span.SetStatus(codes.Error, "inference request rejected")
		return nil, err
	}
	if len(scored) != len(texts) {
		err := fmt.Errorf("inference: got %d results for %d inputs", len(scored), len(texts))
		span.RecordError(err)
		span.SetStatus(codes.Error, "inference result misaligned")
		return nil, err
	}

	results := make([]Result, len(scored))
	for i, labels := range scored {
		results[i] = topLabel(labels)
	}
	return results, nil
}

// Classify labels a single text.
func (c *Client) Classify(ctx context.Context, text string) (Result, error) {
	results, err := c.ClassifyBatch(ctx, []string{text})
	if err != nil {
		return Unknown, err
	}
	return results[0], nil
}

func topLabel(labels []inferenceLabel) Result {
	top := Unknown
	for _, l := range labels {
		if l.Score > top.Confidence || top.Label == LabelUnknown {
			top = Result{Label: l.Label, Confidence: l.Score}
		}
	}
	top.Confidence = round4(top.Confidence)
	return top
}
