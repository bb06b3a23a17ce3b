// internal/transfer/builder.go
package transfer

import (
	"log/slog"
	"time"

	cfg "github.com/tamzrod/filexfer/internal/config"
	"github.com/tamzrod/filexfer/internal/progress"
	"github.com/tamzrod/filexfer/internal/status"
)

// Build constructs an Engine from normalized transfer config.
// Assumes config has already passed Validate and Normalize.
func Build(t cfg.TransferConfig, logger *slog.Logger, callback progress.Callback) (*Engine, error) {
	verbosity := cfg.DefaultVerbosity
	if t.Verbosity != nil {
		verbosity = *t.Verbosity
	}

	return New(
		WithHunkSize(t.HunkSize),
		WithOperationTimeout(time.Duration(t.OperationTimeoutMs)*time.Millisecond),
		WithSettleDelay(time.Duration(t.SettleDelayMs)*time.Millisecond),
		WithSettleTimeout(time.Duration(t.SettleTimeoutMs)*time.Millisecond),
		WithPollInterval(
			time.Duration(t.PollMinMs)*time.Millisecond,
			time.Duration(t.PollMaxMs)*time.Millisecond,
		),
		WithStatusClassifier(status.NewClassifier(t.SuccessStatuses, t.PendingStatuses)),
		WithWriteAckRegister(t.WriteAckRegister),
		WithVerbosity(verbosity),
		WithLogger(logger),
		WithProgressCallback(callback),
	)
}
