package commands

import (
	"fmt"
	"log/slog"
	"time"

	"brandsentinel-backend/lib/serviceutil"
	"brandsentinel-backend/services/digest"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"
)

var digestDb *string
var digestMonth *int
var digestDryRun *bool

func init() {
	digestDb = digestCmd.Flags().String("db", "data.db", "The database to read from.")
	digestMonth = digestCmd.Flags().Int("month", 0, "The month to send a digest for, 1 through 12.")
	digestDryRun = digestCmd.Flags().Bool("dry-run", false, "Print the digest instead of emailing it.")
	digestCmd.MarkFlagRequired("month")
	rootCmd.AddCommand(digestCmd)
}

var digestCmd = &cobra.Command{
	Use:   "digest --month <1-12> [--db <path/to/data.db>]",
	Short: "Emails a month's review sentiment digest to the configured recipients.",
	Run: func(cmd *cobra.Command, args []string) {
		if *digestMonth < 1 || *digestMonth > 12 {
			serviceutil.Fatal("invalid month", fmt.Errorf("month must be between 1 and 12, got %d", *digestMonth))
		}
		month := time.Month(*digestMonth)

		cfg, err := readConfig()
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}

		store := openStore(*digestDb)
		service := digest.NewService(store, digest.Options{
			Smtp:       cfg.Digest.Smtp,
			Recipients: cfg.Digest.Recipients,
			Year:       cfg.year(),
		})

		if *digestDryRun {
			body, err := service.RenderDigest(cmd.Context(), month)
			if err != nil {
				serviceutil.Fatal("failed to render digest", err)
			}
			fmt.Println(body)
			return
		}

		err = service.SendDigest(cmd.Context(), month)
		if err != nil {
			serviceutil.Fatal("failed to send digest", err)
		}
		slog.Info("sent digest", "month", month.String(), "recipients", len(cfg.Digest.Recipients))
	},
}
