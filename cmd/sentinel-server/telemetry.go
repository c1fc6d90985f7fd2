package main

import (
	"context"
	"log/slog"

	"brandsentinel-backend/lib/restyutil"
	"brandsentinel-backend/lib/scrapers/webscrapingdev"
	"brandsentinel-backend/lib/serviceutil"
	"brandsentinel-backend/lib/telemetry"
)

func InitTelemetry(ctx context.Context, verbose bool) {
	telemetry.InitSlog(verbose)

	if verbose {
		slog.DebugContext(ctx, "verbose logging enabled")
	}

	err := telemetry.SetupFromEnv(ctx, "sentinel-server")
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	go func() {
		<-ctx.Done()
		telemetry.Shutdown(context.Background())
	}()
	telemetry.InstrumentPerfStats(ctx)

	if !verbose {
		return
	}

	webscrapingdev.SetRestyInstrumentOutput(
		restyutil.NewFilesystemOutput(".dev/resty/webscrapingdev"),
	)
}
