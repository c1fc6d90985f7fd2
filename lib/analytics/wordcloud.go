package analytics

import (
	"sort"

	"brandsentinel-backend/lib/reviewstore"
	"brandsentinel-backend/lib/textutil"
)

// Term is a word-cloud entry; Weight is the count relative to the most
// frequent term, in (0, 1].
type Term struct {
	Term   string  `json:"term"`
	Count  int     `json:"count"`
	Weight float64 `json:"weight"`
}

const maxCloudTerms = 100

var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"a", "about", "after", "all", "also", "am", "an", "and", "any",
		"are", "as", "at", "be", "because", "been", "but", "by", "can",
		"could", "did", "do", "does", "for", "from", "get", "got", "had",
		"has", "have", "he", "her", "here", "him", "his", "how", "i",
		"if", "in", "into", "is", "it", "its", "it's", "i'm", "i've",
		"just", "like", "me", "more", "most", "my", "no", "not", "of",
		"on", "one", "only", "or", "other", "our", "out", "over", "own",
		"re", "s", "she", "so", "some", "such", "t", "than", "that",
		"the", "their", "them", "then", "there", "these", "they", "this",
		"to", "too", "up", "very", "was", "we", "were", "what", "when",
		"which", "while", "who", "will", "with", "would", "you", "your",
	} {
		stopwords[w] = struct{}{}
	}
}

// WordCloudTerms tokenizes every record's text and returns the top terms
// by frequency, stopwords removed.
func WordCloudTerms(records []reviewstore.Record) []Term {
	counts := map[string]int{}
	for _, r := range records {
		for _, word := range textutil.Tokenize(r.Text) {
			if _, skip := stopwords[word]; skip {
				continue
			}
			if len(word) < 2 {
				continue
			}
			counts[word]++
		}
	}

	terms := make([]Term, 0, len(counts))
	for term, count := range counts {
		terms = append(terms, Term{Term: term, Count: count})
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Count != terms[j].Count {
			return terms[i].Count > terms[j].Count
		}
		return terms[i].Term < terms[j].Term
	})

	if len(terms) > maxCloudTerms {
		terms = terms[:maxCloudTerms]
	}
	if len(terms) == 0 {
		return terms
	}

	maxCount := float64(terms[0].Count)
	for i := range terms {
		terms[i].Weight = float64(terms[i].Count) / maxCount
	}
	return terms
}
