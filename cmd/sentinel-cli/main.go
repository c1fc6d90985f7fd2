package main

import (
	"context"

	"brandsentinel-backend/cmd/sentinel-cli/commands"
	"brandsentinel-backend/lib/telemetry"
)

func main() {
	telemetry.SetupFromEnv(context.Background(), "sentinel-cli")
	telemetry.InitSlog(true)
	commands.ExecuteContext(context.Background())
}
