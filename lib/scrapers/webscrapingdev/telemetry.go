package webscrapingdev

import (
	"brandsentinel-backend/lib/restyutil"
	"brandsentinel-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

var tracer = telemetry.Tracer("brandsentinel.lib.scrapers.webscrapingdev")

var instrumentOutput restyutil.InstrumentOutput

func instrument(client *resty.Client) {
	restyutil.InstrumentClient(client, tracer, instrumentOutput)
}

// SetRestyInstrumentOutput routes full request/response transcripts of
// clients created after this call to the given output.
func SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	instrumentOutput = out
}
