package commands

import (
	"context"
	"fmt"
	"os"

	"brandsentinel-backend/lib/configutil"
	"brandsentinel-backend/lib/sentiment"
	"brandsentinel-backend/services/digest"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sentinel-cli",
	Short: "sentinel-cli scrapes web-scraping.dev and reports on review sentiment.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type SentimentConfig struct {
	Enabled  bool   `json:"enabled"`
	Endpoint string `json:"endpoint"`
	Model    string `json:"model"`
	Token    string `json:"token"`
}

type DigestConfig struct {
	Smtp       digest.SmtpConfig `json:"smtp"`
	Recipients []string          `json:"recipients"`
}

type Config struct {
	Year      int             `json:"year"`
	Sentiment SentimentConfig `json:"sentiment"`
	Digest    DigestConfig    `json:"digest"`
}

// readConfig tolerates a missing config.json5 since most commands can
// run on defaults.
func readConfig() (Config, error) {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if os.IsNotExist(err) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) year() int {
	if c.Year == 0 {
		return 2023
	}
	return c.Year
}

func (c Config) classifier() *sentiment.Client {
	if !c.Sentiment.Enabled {
		return nil
	}
	return sentiment.NewClient(sentiment.ClientOptions{
		Endpoint: c.Sentiment.Endpoint,
		Model:    c.Sentiment.Model,
		Token:    c.Sentiment.Token,
	})
}
