package linker

import (
	"strings"

	"brandsentinel-backend/lib/reviewstore"
	"brandsentinel-backend/lib/textutil"

	"github.com/antzucaro/matchr"
)

// ProductLink ties a review to the catalog product it most likely
// describes. Correlation is 1 for an exact name match.
type ProductLink struct {
	ReviewId    string  `json:"review_id"`
	ProductId   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Correlation float64 `json:"correlation"`
}

func reviewKey(r reviewstore.Record) string {
	title := strings.TrimSuffix(r.Title, " Review")
	return textutil.NormalizeName(title)
}

// LinkReviewsToProducts matches each review's derived title against the
// product catalog: exact normalized-name matches first, then the most
// similar remaining product by Jaro-Winkler. Products may be linked by
// several reviews; a review links to at most one product.
func LinkReviewsToProducts(reviews, products []reviewstore.Record) []ProductLink {
	type candidate struct {
		id   string
		name string
		key  string
	}
	candidates := make([]candidate, 0, len(products))
	for _, p := range products {
		candidates = append(candidates, candidate{
			id:   p.Id,
			name: p.Title,
			key:  textutil.NormalizeName(p.Title),
		})
	}

	var links []ProductLink
	unmatched := make([]reviewstore.Record, 0, len(reviews))

	for _, review := range reviews {
		key := reviewKey(review)
		exact := false
		for _, c := range candidates {
			if key == c.key {
				links = append(links, ProductLink{
					ReviewId:    review.Id,
					ProductId:   c.id,
					ProductName: c.name,
					Correlation: 1,
				})
				exact = true
				break
			}
		}
		if !exact {
			unmatched = append(unmatched, review)
		}
	}

	for _, review := range unmatched {
		key := reviewKey(review)

		var mostSimilarity float64
		var mostSimilar candidate

		for _, c := range candidates {
			similarity := matchr.JaroWinkler(key, c.key, false)
			if similarity > mostSimilarity {
				mostSimilarity = similarity
				mostSimilar = c
			}
		}

		if mostSimilarity > 0 {
			links = append(links, ProductLink{
				ReviewId:    review.Id,
				ProductId:   mostSimilar.id,
				ProductName: mostSimilar.name,
				Correlation: mostSimilarity,
			})
		}
	}

	return links
}
