package analytics

import (
	"sort"

	"brandsentinel-backend/lib/reviewstore"
	"brandsentinel-backend/lib/sentiment"
)

// MonthMetrics are the headline numbers for one month of reviews.
type MonthMetrics struct {
	Total         int                `json:"total"`
	Positive      int                `json:"positive"`
	Negative      int                `json:"negative"`
	PositivePct   float64            `json:"positive_pct"`
	NegativePct   float64            `json:"negative_pct"`
	AvgConfidence float64            `json:"avg_confidence"`
	AvgByLabel    map[string]float64 `json:"avg_confidence_by_label"`
}

// ComputeMetrics accumulates counts and confidence means over an
// already month-filtered record set. An empty set yields zero metrics.
func ComputeMetrics(records []reviewstore.Record) MonthMetrics {
	m := MonthMetrics{AvgByLabel: map[string]float64{}}
	if len(records) == 0 {
		return m
	}

	confSums := map[string]float64{}
	confCounts := map[string]int{}
	var confTotal float64

	for _, r := range records {
		m.Total++
		switch r.Sentiment {
		case sentiment.LabelPositive:
			m.Positive++
		case sentiment.LabelNegative:
			m.Negative++
		}
		confTotal += r.Confidence
		confSums[r.Sentiment] += r.Confidence
		confCounts[r.Sentiment]++
	}

	m.PositivePct = float64(m.Positive) / float64(m.Total) * 100
	m.NegativePct = float64(m.Negative) / float64(m.Total) * 100
	m.AvgConfidence = confTotal / float64(m.Total)
	for label, sum := range confSums {
		m.AvgByLabel[label] = sum / float64(confCounts[label])
	}

	return m
}

// HistogramBin is one confidence bucket split by sentiment label.
type HistogramBin struct {
	Low    float64        `json:"low"`
	High   float64        `json:"high"`
	Counts map[string]int `json:"counts"`
}

const histogramBins = 20

// ConfidenceHistogram buckets record confidences into 20 bins over [0, 1].
func ConfidenceHistogram(records []reviewstore.Record) []HistogramBin {
	bins := make([]HistogramBin, histogramBins)
	for i := range bins {
		bins[i] = HistogramBin{
			Low:    float64(i) / histogramBins,
			High:   float64(i+1) / histogramBins,
			Counts: map[string]int{},
		}
	}

	for _, r := range records {
		idx := int(r.Confidence * histogramBins)
		if idx >= histogramBins {
			idx = histogramBins - 1
		}
		if idx < 0 {
			idx = 0
		}
		bins[idx].Counts[r.Sentiment]++
	}

	return bins
}

// DayCount is the review volume on one day of the month.
type DayCount struct {
	Day   int `json:"day"`
	Count int `json:"count"`
}

// DailyVolume counts records per day-of-month, ascending, days with no
// records omitted.
func DailyVolume(records []reviewstore.Record) []DayCount {
	byDay := map[int]int{}
	for _, r := range records {
		if r.Date.IsZero() {
			continue
		}
		byDay[r.Date.Day()]++
	}

	days := make([]DayCount, 0, len(byDay))
	for day, count := range byDay {
		days = append(days, DayCount{Day: day, Count: count})
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Day < days[j].Day
	})
	return days
}
