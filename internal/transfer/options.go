// internal/transfer/options.go
package transfer

import (
	"log/slog"
	"time"

	"github.com/tamzrod/filexfer/internal/progress"
	"github.com/tamzrod/filexfer/internal/register"
	"github.com/tamzrod/filexfer/internal/status"
)

// DefaultHunkSize is the largest hunk moved per Read/Write operation.
const DefaultHunkSize = 4096

// Config holds the engine configuration.
type Config struct {
	// HunkSize bounds each Read/Write operation. Must be a positive multiple of 4.
	HunkSize int

	// OperationTimeout bounds each wait for the device after Open, a hunk, or Close.
	OperationTimeout time.Duration

	// SettleDelay is a minimum dwell after Open, before the settle wait starts.
	SettleDelay time.Duration

	// SettleTimeout bounds the wait for the device to prepare the stream after Open.
	SettleTimeout time.Duration

	// PollMin and PollMax bound the FileOperationStatus polling backoff.
	PollMin time.Duration
	PollMax time.Duration

	// Classifier decides which FileOperationStatus values mean success or pending.
	Classifier *status.Classifier

	// WriteAckRegister is read back after each write hunk to learn the accepted length.
	WriteAckRegister string

	// Verbosity gates progress output (see package progress).
	Verbosity int

	// Logger is the progress sink. Nil uses slog.Default().
	Logger *slog.Logger

	// ProgressCallback receives coarse progress events (optional).
	ProgressCallback progress.Callback
}

func defaultConfig() Config {
	return Config{
		HunkSize:         DefaultHunkSize,
		OperationTimeout: 5 * time.Second,
		SettleTimeout:    2 * time.Second,
		PollMin:          10 * time.Millisecond,
		PollMax:          250 * time.Millisecond,
		WriteAckRegister: register.FileOperationResult,
		Verbosity:        progress.Coarse,
	}
}

// Option is a functional option for configuring the Engine.
type Option func(*Config)

// WithHunkSize sets the per-operation hunk size.
func WithHunkSize(n int) Option {
	return func(c *Config) {
		c.HunkSize = n
	}
}

// WithOperationTimeout sets the bound for each device readiness wait.
func WithOperationTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.OperationTimeout = d
	}
}

// WithSettleDelay sets a minimum dwell between Open and the first hunk.
// Use it for firmware that needs time to stage the stream but keeps reporting
// the Open status meanwhile.
func WithSettleDelay(d time.Duration) Option {
	return func(c *Config) {
		c.SettleDelay = d
	}
}

// WithSettleTimeout sets the bound for the post-open settle wait.
func WithSettleTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.SettleTimeout = d
	}
}

// WithPollInterval sets the status polling backoff range.
//
// Example:
//
//	e, err := transfer.New(transfer.WithPollInterval(5*time.Millisecond, 100*time.Millisecond))
func WithPollInterval(min, max time.Duration) Option {
	return func(c *Config) {
		c.PollMin = min
		c.PollMax = max
	}
}

// WithStatusClassifier sets the accepted and pending FileOperationStatus values.
func WithStatusClassifier(cl *status.Classifier) Option {
	return func(c *Config) {
		c.Classifier = cl
	}
}

// WithWriteAckRegister selects the register that reports the accepted write length.
// Devices that echo it in FileAccessLength instead of FileOperationResult need this.
func WithWriteAckRegister(name string) Option {
	return func(c *Config) {
		c.WriteAckRegister = name
	}
}

// WithVerbosity sets the progress verbosity tier.
func WithVerbosity(v int) Option {
	return func(c *Config) {
		c.Verbosity = v
	}
}

// WithLogger sets the progress sink.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithProgressCallback sets a callback for coarse progress events.
//
// Example:
//
//	e, err := transfer.New(transfer.WithProgressCallback(func(ev progress.Event) {
//	    fmt.Printf("%s %s: %d%%\n", ev.Op, ev.Filename, ev.Percent)
//	}))
func WithProgressCallback(fn progress.Callback) Option {
	return func(c *Config) {
		c.ProgressCallback = fn
	}
}
