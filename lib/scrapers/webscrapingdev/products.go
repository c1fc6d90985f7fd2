package webscrapingdev

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"brandsentinel-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const maxProductPages = 6

// FetchProducts walks the paginated catalog listing and parses every
// product card. A page without cards ends pagination early.
func (c *Client) FetchProducts(ctx context.Context) ([]Product, error) {
	ctx, span := tracer.Start(ctx, "FetchProducts")
	defer span.End()

	var products []Product

	for page := 1; page <= maxProductPages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res, err := c.Http.R().
			SetContext(ctx).
			SetQueryParam("page", fmt.Sprint(page)).
			Get("/products")
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to fetch product page")
			return nil, fmt.Errorf("fetch product page %d: %w", page, err)
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to parse product page")
			return nil, fmt.Errorf("parse product page %d: %w", page, err)
		}

		cards := doc.Find("div.product")
		if cards.Length() == 0 {
			slog.InfoContext(ctx, "no products on page, stopping", "page", page)
			break
		}

		cards.Each(func(_ int, card *goquery.Selection) {
			products = append(products, parseProductCard(card, len(products)))
		})

		slog.InfoContext(ctx, "fetched product page",
			"page", page, "cards", cards.Length())

		if page < maxProductPages {
			c.waitBetweenPages(ctx.Done())
		}
	}

	span.SetAttributes(attribute.Int("products", len(products)))
	return products, nil
}

func parseProductCard(card *goquery.Selection, position int) Product {
	nameLink := card.Find("h3 a").First()
	name := htmlutil.CleanText(nameLink.Text())
	if name == "" {
		name = "Unknown Product"
	}
	productUrl := nameLink.AttrOr("href", "")

	id := productIdFromUrl(productUrl, position)

	price := htmlutil.CleanText(card.Find("div.price").First().Text())
	if price == "" {
		price = "N/A"
	} else if !strings.HasPrefix(price, "$") {
		price = "$" + price
	}

	return Product{
		Id:          id,
		Name:        name,
		Url:         productUrl,
		Price:       price,
		Description: htmlutil.CleanText(card.Find("div.short-description").First().Text()),
		Image:       card.Find("img").First().AttrOr("src", ""),
	}
}

func productIdFromUrl(productUrl string, position int) string {
	if productUrl == "" {
		return fmt.Sprintf("product-%d", position+1)
	}
	segments := strings.Split(strings.TrimSuffix(productUrl, "/"), "/")
	return "product-" + segments[len(segments)-1]
}
