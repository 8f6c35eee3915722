package deepgram

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
)

const scopeName = "github.com/sonavox/liveturn-core/core/speechtotext/deepgram"

var (
	tracer = otel.Tracer(scopeName)
	meter  = otel.Meter(scopeName)
	logger = otelslog.NewLogger(scopeName)

	meterReconnects, _   = meter.Int64Counter("transcription.connection.reconnects")
	meterIdleCloses, _   = meter.Int64Counter("transcription.connection.idle_closes")
	meterSendFailures, _ = meter.Int64Counter("transcription.audio.send_failures")
)
