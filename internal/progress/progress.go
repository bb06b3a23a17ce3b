// internal/progress/progress.go
package progress

import (
	"context"
	"encoding/hex"
	"io"
	"log/slog"
)

// Verbosity tiers.
const (
	Silent   = 0 // no output
	Coarse   = 1 // progress percentages only
	Detailed = 2 // plus per-hunk offsets, lengths, status and payload preview
)

// previewBytes bounds the payload dump logged per hunk at Detailed.
const previewBytes = 32

// Event is one coarse progress report.
type Event struct {
	Op       string // "read" or "write"
	Filename string
	Offset   int64
	Total    int64
	Percent  int
}

// Callback receives coarse progress events.
// Implementations should return quickly; the transfer waits on them.
type Callback func(Event)

// Reporter gates progress output by verbosity.
// It holds no state beyond its configuration.
type Reporter struct {
	verbosity int
	logger    *slog.Logger
	callback  Callback
}

// New creates a reporter. A nil logger discards output.
// The callback, when set, receives every coarse event regardless of verbosity.
func New(verbosity int, logger *slog.Logger, callback Callback) *Reporter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Reporter{
		verbosity: verbosity,
		logger:    logger,
		callback:  callback,
	}
}

// Progress reports a coarse percentage.
func (r *Reporter) Progress(ctx context.Context, ev Event) {
	if r.callback != nil {
		r.callback(ev)
	}
	if r.verbosity < Coarse {
		return
	}
	r.logger.InfoContext(ctx, "file transfer progress",
		"op", ev.Op,
		"file", ev.Filename,
		"percent", ev.Percent,
		"offset", ev.Offset,
		"total", ev.Total,
	)
}

// Hunk reports one hunk operation. Payload may be nil.
func (r *Reporter) Hunk(ctx context.Context, op string, offset, length int64, status string, payload []byte) {
	if r.verbosity < Detailed {
		return
	}
	attrs := []any{
		"op", op,
		"offset", offset,
		"length", length,
		"status", status,
	}
	if payload != nil {
		attrs = append(attrs, "payload", preview(payload))
	}
	r.logger.InfoContext(ctx, "hunk", attrs...)
}

// Detail reports diagnostic key/value pairs at the Detailed tier.
func (r *Reporter) Detail(ctx context.Context, msg string, kv ...any) {
	if r.verbosity < Detailed {
		return
	}
	r.logger.InfoContext(ctx, msg, kv...)
}

func preview(b []byte) string {
	if len(b) <= previewBytes {
		return hex.EncodeToString(b)
	}
	return hex.EncodeToString(b[:previewBytes]) + "..."
}
