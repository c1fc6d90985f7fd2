package commands

import (
	"fmt"
	"time"

	"brandsentinel-backend/cmd/sentinel-cli/utils"
	"brandsentinel-backend/lib/analytics"
	"brandsentinel-backend/lib/linker"
	"brandsentinel-backend/lib/reviewstore"
	"brandsentinel-backend/lib/sentiment"
	"brandsentinel-backend/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"
)

var reportDb *string
var reportMonth *int

func init() {
	reportDb = reportCmd.Flags().String("db", "data.db", "The database to read from.")
	reportMonth = reportCmd.Flags().Int("month", 0, "The month to report on, 1 through 12.")
	reportCmd.MarkFlagRequired("month")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report --month <1-12> [--db <path/to/data.db>]",
	Short: "Prints a month's review sentiment metrics as tables.",
	Run: func(cmd *cobra.Command, args []string) {
		if *reportMonth < 1 || *reportMonth > 12 {
			serviceutil.Fatal("invalid month", fmt.Errorf("month must be between 1 and 12, got %d", *reportMonth))
		}
		month := time.Month(*reportMonth)

		cfg, err := readConfig()
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}

		store := openStore(*reportDb)
		records, err := store.ByMonth(cmd.Context(), reviewstore.SectionReviews, cfg.year(), month)
		if err != nil {
			serviceutil.Fatal("failed to load reviews", err)
		}

		metrics := analytics.ComputeMetrics(records)

		t := utils.NewTable()
		t.SetTitle(fmt.Sprintf("Review Sentiment: %s %d", month, cfg.year()))
		t.AppendHeader(table.Row{"Metric", "Value"})
		t.AppendRows([]table.Row{
			{"Total reviews", metrics.Total},
			{"Positive", fmt.Sprintf("%d (%.1f%%)", metrics.Positive, metrics.PositivePct)},
			{"Negative", fmt.Sprintf("%d (%.1f%%)", metrics.Negative, metrics.NegativePct)},
			{"Avg. confidence", fmt.Sprintf("%.1f%%", metrics.AvgConfidence*100)},
		})
		t.Render()

		products, err := store.BySection(cmd.Context(), reviewstore.SectionProducts)
		if err != nil {
			serviceutil.Fatal("failed to load products", err)
		}
		if len(products) > 0 {
			recordById := map[string]reviewstore.Record{}
			for _, r := range records {
				recordById[r.Id] = r
			}

			type productCount struct {
				name               string
				reviews            int
				positive, negative int
			}
			counts := map[string]*productCount{}
			for _, link := range linker.LinkReviewsToProducts(records, products) {
				c := counts[link.ProductId]
				if c == nil {
					c = &productCount{name: link.ProductName}
					counts[link.ProductId] = c
				}
				c.reviews++
				switch recordById[link.ReviewId].Sentiment {
				case sentiment.LabelPositive:
					c.positive++
				case sentiment.LabelNegative:
					c.negative++
				}
			}

			t := utils.NewTable()
			t.SetTitle("Reviews By Product")
			t.AppendHeader(table.Row{"Product", "Reviews", "Positive", "Negative"})
			for _, c := range counts {
				t.AppendRow(table.Row{c.name, c.reviews, c.positive, c.negative})
			}
			t.SortBy([]table.SortBy{{Name: "Reviews", Mode: table.DscNumeric}})
			t.Render()
		}

		terms := analytics.WordCloudTerms(records)
		if len(terms) > 10 {
			terms = terms[:10]
		}
		if len(terms) > 0 {
			t := utils.NewTable()
			t.SetTitle("Most Mentioned Terms")
			t.AppendHeader(table.Row{"Term", "Count"})
			for _, term := range terms {
				t.AppendRow(table.Row{term.Term, term.Count})
			}
			t.Render()
		}
	},
}
