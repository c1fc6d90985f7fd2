package testutil

import (
	"fmt"
	"math/rand"
	"time"

	"brandsentinel-backend/lib/reviewstore"
	"brandsentinel-backend/lib/sentiment"

	"github.com/mazen160/go-random"
)

var reviewPhrases = []string{
	"works exactly as advertised",
	"would not recommend to anyone",
	"arrived late but the quality made up for it",
	"my whole family loves this",
	"stopped working after a week",
	"decent value for the price",
}

// RandomReviews generates dated review records spread across the given
// year, alternating sentiment labels.
func RandomReviews(rndm *rand.Rand, count, year int) []reviewstore.Record {
	records := make([]reviewstore.Record, count)
	for i := range records {
		label := sentiment.LabelPositive
		if i%3 == 0 {
			label = sentiment.LabelNegative
		}

		slug, err := random.String(10)
		if err != nil {
			panic(err)
		}

		month := time.Month(rndm.Intn(12) + 1)
		day := rndm.Intn(28) + 1

		records[i] = reviewstore.Record{
			Id:         fmt.Sprintf("%s-%d", slug, i+1),
			Section:    reviewstore.SectionReviews,
			Title:      fmt.Sprintf("Generated Product %d Review", i+1),
			Text:       reviewPhrases[rndm.Intn(len(reviewPhrases))],
			Rating:     rndm.Intn(5) + 1,
			Date:       time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
			Sentiment:  label,
			Confidence: 0.5 + rndm.Float64()/2,
		}
	}
	return records
}
