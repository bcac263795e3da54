package xfer

import (
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// newOperationLogger returns a zerolog.Logger carrying a fresh
// correlation ID, matching the density of logging the original
// RuntimeChunkDownloader source attaches to every transition (URL,
// byte range, outcome). Callers may redirect the sink (e.g. to a
// rotating file) via SetLogWriter.
func newOperationLogger(url string) zerolog.Logger {
	return zerolog.New(logWriter).With().
		Timestamp().
		Str("op_id", uuid.NewString()).
		Str("url", url).
		Logger()
}

var logWriter io.Writer = os.Stderr

// SetLogWriter redirects all engine logging to w. Used by the CLI to
// wire a rotating file sink.
func SetLogWriter(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	logWriter = w
}
