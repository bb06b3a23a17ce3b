// internal/poller/poller.go
package poller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/tamzrod/filexfer/internal/status"
)

// ErrTimeout is returned when the device stays pending past the configured bound.
var ErrTimeout = errors.New("poller: device not ready before timeout")

// Probe reads the current raw FileOperationStatus value.
type Probe func() (string, error)

// Config bounds one readiness wait.
type Config struct {
	Timeout     time.Duration
	MinInterval time.Duration
	MaxInterval time.Duration
}

// Poller waits for a device to leave the pending state.
// It holds no per-wait state and may be shared.
type Poller struct {
	cfg        Config
	classifier *status.Classifier
}

// Result describes how a wait ended.
type Result struct {
	Status  string
	Class   status.Class
	Polls   int
	Elapsed time.Duration
}

// New creates a poller with immutable config.
func New(cfg Config, classifier *status.Classifier) (*Poller, error) {
	if cfg.Timeout <= 0 {
		return nil, errors.New("poller: timeout must be > 0")
	}
	if cfg.MinInterval <= 0 {
		return nil, errors.New("poller: min interval must be > 0")
	}
	if cfg.MaxInterval < cfg.MinInterval {
		return nil, errors.New("poller: max interval must be >= min interval")
	}
	if classifier == nil {
		classifier = status.Default()
	}
	return &Poller{cfg: cfg, classifier: classifier}, nil
}

// errPending marks a poll that saw a pending status; it is the only retried outcome.
var errPending = errors.New("poller: status pending")

// backOff builds the schedule for one wait: doubling from MinInterval,
// capped at MaxInterval, stopping once Timeout has elapsed. No jitter.
func (p *Poller) backOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.cfg.MinInterval
	b.MaxInterval = p.cfg.MaxInterval
	b.MaxElapsedTime = p.cfg.Timeout
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.Reset()
	return b
}

// Wait polls probe until the status is Success or Failed.
// The first poll happens immediately. A Failed status is not an error here:
// the caller decides what a failed operation means.
// A probe error aborts the wait and is returned unchanged.
func (p *Poller) Wait(ctx context.Context, probe Probe) (Result, error) {
	start := time.Now()

	var res Result
	op := func() error {
		raw, err := probe()
		res.Polls++
		if err != nil {
			return backoff.Permanent(err)
		}

		res.Status = raw
		res.Class = p.classifier.Classify(raw)
		if res.Class == status.Pending {
			return errPending
		}
		return nil
	}

	err := backoff.Retry(op, backoff.WithContext(p.backOff(), ctx))
	res.Elapsed = time.Since(start)

	if errors.Is(err, errPending) {
		return res, fmt.Errorf("%w (last status %q after %d polls)", ErrTimeout, res.Status, res.Polls)
	}
	return res, err
}
