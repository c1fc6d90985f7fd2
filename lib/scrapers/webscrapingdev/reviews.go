package webscrapingdev

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"brandsentinel-backend/lib/textutil"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const reviewBatchSize = 50
const maxReviewPages = 20

const getReviewsQuery = `
query GetReviews($first: Int, $after: String) {
    reviews(first: $first, after: $after) {
        edges {
            node {
                rid
                text
                rating
                date
            }
            cursor
        }
        pageInfo {
            endCursor
            hasNextPage
        }
    }
}
`

type getReviewsVariables struct {
	First int    `json:"first"`
	After string `json:"after,omitempty"`
}

type getReviewsData struct {
	Reviews struct {
		Edges []struct {
			Node struct {
				Rid    string `json:"rid"`
				Text   string `json:"text"`
				Rating int    `json:"rating"`
				Date   string `json:"date"`
			} `json:"node"`
			Cursor string `json:"cursor"`
		} `json:"edges"`
		PageInfo struct {
			EndCursor   string `json:"endCursor"`
			HasNextPage bool   `json:"hasNextPage"`
		} `json:"pageInfo"`
	} `json:"reviews"`
}

// FetchReviews pages through the review connection and keeps reviews
// dated inside the given year. Reviews with unparsable dates are skipped.
func (c *Client) FetchReviews(ctx context.Context, year int) ([]Review, error) {
	ctx, span := tracer.Start(ctx, "FetchReviews")
	defer span.End()
	span.SetAttributes(attribute.Int("year", year))

	var reviews []Review
	cursor := ""

	for page := 1; page <= maxReviewPages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		variables := getReviewsVariables{First: reviewBatchSize, After: cursor}
		var data getReviewsData
		err := graphqlQuery(ctx, c.Http, "GetReviews", getReviewsQuery, variables, &data)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to fetch review page")
			return nil, fmt.Errorf("fetch review page %d: %w", page, err)
		}

		edges := data.Reviews.Edges
		if len(edges) == 0 {
			break
		}

		for _, edge := range edges {
			node := edge.Node

			date, err := time.Parse("2006-01-02", node.Date)
			if err != nil {
				slog.DebugContext(ctx, "skipping review with bad date",
					"rid", node.Rid, "date", node.Date)
				continue
			}
			if date.Year() != year {
				continue
			}

			reviews = append(reviews, Review{
				Id:     node.Rid,
				Title:  textutil.SlugTitle(node.Rid) + " Review",
				Text:   node.Text,
				Rating: node.Rating,
				Date:   date,
			})
		}

		slog.InfoContext(ctx, "fetched review page",
			"page", page, "edges", len(edges), "kept", len(reviews))

		if !data.Reviews.PageInfo.HasNextPage {
			break
		}
		cursor = data.Reviews.PageInfo.EndCursor
		c.waitBetweenPages(ctx.Done())
	}

	span.SetAttributes(attribute.Int("reviews", len(reviews)))
	return reviews, nil
}
