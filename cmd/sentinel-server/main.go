package main

import (
	"flag"
	"net/http"

	"brandsentinel-backend/lib/configutil"
	"brandsentinel-backend/lib/reviewstore"
	"brandsentinel-backend/lib/reviewstore/db"
	"brandsentinel-backend/lib/sentiment"
	"brandsentinel-backend/lib/serviceutil"
	"brandsentinel-backend/lib/sqliteutil"
	"brandsentinel-backend/services/dashboard"

	_ "modernc.org/sqlite"
)

type SentimentConfig struct {
	Enabled  bool   `json:"enabled"`
	Endpoint string `json:"endpoint"`
	Model    string `json:"model"`
	Token    string `json:"token"`
}

type Config struct {
	Port      int             `json:"port"`
	Database  string          `json:"database"`
	Year      int             `json:"year"`
	Sentiment SentimentConfig `json:"sentiment"`
}

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	InitTelemetry(ctx, *verbose)

	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("read config", err)
	}
	if cfg.Port == 0 {
		cfg.Port = 8000
	}
	if cfg.Database == "" {
		cfg.Database = "data.db"
	}

	database, err := sqliteutil.OpenDB(db.Schema, cfg.Database)
	if err != nil {
		serviceutil.Fatal("open db", err)
	}
	store := reviewstore.NewStore(database)

	var classifier dashboard.Classifier
	if cfg.Sentiment.Enabled {
		classifier = sentiment.NewClient(sentiment.ClientOptions{
			Endpoint: cfg.Sentiment.Endpoint,
			Model:    cfg.Sentiment.Model,
			Token:    cfg.Sentiment.Token,
		})
	}

	mux := http.NewServeMux()
	dashboard.NewService(store, dashboard.Options{
		Year:       cfg.Year,
		Classifier: classifier,
	}).Register(mux)

	go serviceutil.StartHttpServer(cfg.Port, mux)
	<-ctx.Done()
}
