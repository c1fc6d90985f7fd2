package commands

import (
	"context"
	"log/slog"
	"time"

	"brandsentinel-backend/lib/restyutil"
	"brandsentinel-backend/lib/reviewstore"
	"brandsentinel-backend/lib/reviewstore/db"
	"brandsentinel-backend/lib/scrapers/webscrapingdev"
	"brandsentinel-backend/lib/sentiment"
	"brandsentinel-backend/lib/serviceutil"
	"brandsentinel-backend/lib/sqliteutil"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"
)

var scrapeDb *string
var scrapeExport *string
var scrapeReviews *bool
var scrapeProducts *bool
var scrapeTestimonials *bool
var scrapeVerbose *bool

func init() {
	scrapeDb = scrapeCmd.Flags().String("db", "data.db", "The database to write scrape results to.")
	scrapeExport = scrapeCmd.Flags().String("export", "", "Also export the dataset to this JSON file after scraping.")
	scrapeReviews = scrapeCmd.Flags().Bool("reviews", false, "Scrape the reviews section.")
	scrapeProducts = scrapeCmd.Flags().Bool("products", false, "Scrape the product catalog.")
	scrapeTestimonials = scrapeCmd.Flags().Bool("testimonials", false, "Scrape the testimonials page.")
	scrapeVerbose = scrapeCmd.Flags().Bool("verbose", false, "Write http transcripts to .dev/resty.")
	rootCmd.AddCommand(scrapeCmd)
}

func classifyReviews(ctx context.Context, classifier *sentiment.Client, reviews []webscrapingdev.Review) []reviewstore.Record {
	records := make([]reviewstore.Record, len(reviews))
	labels := make([]sentiment.Result, len(reviews))
	for i := range labels {
		labels[i] = sentiment.Unknown
	}

	if classifier != nil {
		texts := make([]string, len(reviews))
		for i, r := range reviews {
			texts[i] = r.Text
		}
		results, err := classifier.ClassifyBatch(ctx, texts)
		if err != nil {
			slog.WarnContext(ctx, "classification failed, storing unlabeled reviews", "err", err)
		} else {
			labels = results
		}
	}

	for i, r := range reviews {
		records[i] = reviewstore.FromReview(r, labels[i])
	}
	return records
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--db <path/to/output.db>]",
	Short: "Scrapes web-scraping.dev and writes the results to a database.",
	Long: `Scrapes web-scraping.dev and writes the results to a database.
Section flags select what to scrape; no section flags means everything.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		cfg, err := readConfig()
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}

		all := !*scrapeReviews && !*scrapeProducts && !*scrapeTestimonials

		client, err := webscrapingdev.NewClient(webscrapingdev.ClientOptions{})
		if err != nil {
			serviceutil.Fatal("failed to initialize scrape client", err)
		}
		if *scrapeVerbose {
			webscrapingdev.SetRestyInstrumentOutput(
				restyutil.NewFilesystemOutput(".dev/resty/webscrapingdev"))
		}

		database, err := sqliteutil.OpenDB(db.Schema, *scrapeDb)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer database.Close()
		store := reviewstore.NewStore(database)

		t1 := time.Now()

		if all || *scrapeReviews {
			reviews, err := client.FetchReviews(ctx, cfg.year())
			if err != nil {
				serviceutil.Fatal("failed to scrape reviews", err)
			}
			slog.InfoContext(ctx, "scraped reviews", "count", len(reviews))

			records := classifyReviews(ctx, cfg.classifier(), reviews)
			err = store.ReplaceSection(ctx, reviewstore.SectionReviews, records)
			if err != nil {
				serviceutil.Fatal("failed to write reviews", err)
			}
		}

		if all || *scrapeProducts {
			products, err := client.FetchProducts(ctx)
			if err != nil {
				serviceutil.Fatal("failed to scrape products", err)
			}
			slog.InfoContext(ctx, "scraped products", "count", len(products))

			records := make([]reviewstore.Record, len(products))
			for i, p := range products {
				records[i] = reviewstore.FromProduct(p)
			}
			err = store.ReplaceSection(ctx, reviewstore.SectionProducts, records)
			if err != nil {
				serviceutil.Fatal("failed to write products", err)
			}
		}

		if all || *scrapeTestimonials {
			testimonials, err := client.FetchTestimonials(ctx)
			if err != nil {
				serviceutil.Fatal("failed to scrape testimonials", err)
			}
			slog.InfoContext(ctx, "scraped testimonials", "count", len(testimonials))

			records := make([]reviewstore.Record, len(testimonials))
			for i, t := range testimonials {
				records[i] = reviewstore.FromTestimonial(t)
			}
			err = store.ReplaceSection(ctx, reviewstore.SectionTestimonials, records)
			if err != nil {
				serviceutil.Fatal("failed to write testimonials", err)
			}
		}

		slog.InfoContext(ctx, "scraping time", "seconds", time.Since(t1).Seconds())

		if *scrapeExport != "" {
			err = reviewstore.ExportDataset(ctx, store, *scrapeExport)
			if err != nil {
				serviceutil.Fatal("failed to export dataset", err)
			}
			slog.InfoContext(ctx, "exported dataset", "path", *scrapeExport)
		}
	},
}
