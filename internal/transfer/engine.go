// internal/transfer/engine.go

// Package transfer moves whole files to and from a device through its
// FileAccess registers: Open, a sequence of bounded hunks, Close.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tamzrod/filexfer/internal/poller"
	"github.com/tamzrod/filexfer/internal/progress"
	"github.com/tamzrod/filexfer/internal/register"
)

// Engine runs file transfers against a register.Interface.
//
// Engine holds no session state and is safe for concurrent use, but a single
// register.Interface must not be driven by two transfers at once.
type Engine struct {
	cfg          Config
	opPoller     *poller.Poller
	settlePoller *poller.Poller
	reporter     *progress.Reporter
	logger       *slog.Logger
}

// New creates an Engine with the given options.
//
// Example:
//
//	e, err := transfer.New(
//	    transfer.WithVerbosity(progress.Coarse),
//	    transfer.WithOperationTimeout(10*time.Second),
//	)
func New(opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.HunkSize <= 0 || cfg.HunkSize%4 != 0 {
		return nil, fmt.Errorf("transfer: hunk size must be a positive multiple of 4, got %d", cfg.HunkSize)
	}
	if cfg.SettleDelay < 0 {
		return nil, fmt.Errorf("transfer: settle delay must be >= 0, got %s", cfg.SettleDelay)
	}
	switch cfg.WriteAckRegister {
	case register.FileOperationResult, register.FileAccessLength:
	default:
		return nil, fmt.Errorf("transfer: unsupported write ack register %q", cfg.WriteAckRegister)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	opPoller, err := poller.New(poller.Config{
		Timeout:     cfg.OperationTimeout,
		MinInterval: cfg.PollMin,
		MaxInterval: cfg.PollMax,
	}, cfg.Classifier)
	if err != nil {
		return nil, fmt.Errorf("transfer: %w", err)
	}

	settlePoller, err := poller.New(poller.Config{
		Timeout:     cfg.SettleTimeout,
		MinInterval: cfg.PollMin,
		MaxInterval: cfg.PollMax,
	}, cfg.Classifier)
	if err != nil {
		return nil, fmt.Errorf("transfer: settle: %w", err)
	}

	return &Engine{
		cfg:          cfg,
		opPoller:     opPoller,
		settlePoller: settlePoller,
		reporter:     progress.New(cfg.Verbosity, cfg.Logger, cfg.ProgressCallback),
		logger:       cfg.Logger,
	}, nil
}

// ReadFile reads a whole file from the device:
//  1. Select the file, open it for Read, check the status
//  2. Read FileSize; an empty file is closed and returned as an empty slice
//  3. Wait for the device to settle
//  4. Read hunks of at most HunkSize, advancing by the reported byte count
//  5. Close, on every exit path
//
// The context is checked between hunks. On cancellation Close is still attempted.
func (e *Engine) ReadFile(ctx context.Context, regs register.Interface, filename string) (data []byte, err error) {
	if regs == nil {
		return nil, errors.New("transfer: register interface cannot be nil")
	}

	s := e.newSession(regs, opRead, filename)
	defer func() {
		err = s.release(ctx, err)
		if err != nil {
			data = nil
		}
	}()

	if err := s.open(ctx, register.OpenModeRead); err != nil {
		return nil, err
	}

	size, err := s.getInt(register.FileSize)
	if err != nil {
		return nil, err
	}
	if size < 0 {
		return nil, s.fail(SizeMismatch, fmt.Errorf("device reported negative file size %d", size))
	}
	s.total = size
	e.reporter.Detail(ctx, "file size", "file", filename, "size", size)

	if size == 0 {
		return []byte{}, nil
	}

	if err := s.settle(ctx); err != nil {
		return nil, err
	}

	out := make([]byte, 0, size)
	tracker := progress.NewTracker(size)
	hunkSize := int64(e.cfg.HunkSize)

	for s.offset < size {
		if err := s.checkCancel(ctx); err != nil {
			return nil, err
		}

		want := min(hunkSize, size-s.offset)
		hunk, st, err := e.readHunk(ctx, s, want)
		if err != nil {
			return nil, err
		}
		e.reporter.Hunk(ctx, opRead, s.offset, int64(len(hunk)), st, hunk)

		out = append(out, hunk...)
		s.offset += int64(len(hunk))

		if pct, ok := tracker.Advance(s.offset); ok {
			e.reporter.Progress(ctx, progress.Event{
				Op:       opRead,
				Filename: filename,
				Offset:   s.offset,
				Total:    size,
				Percent:  pct,
			})
		}
	}

	if int64(len(out)) != size {
		return nil, s.fail(SizeMismatch, fmt.Errorf("read %d bytes, file size is %d", len(out), size))
	}
	return out, nil
}

// readHunk requests want bytes at the session offset and returns what the device produced.
func (e *Engine) readHunk(ctx context.Context, s *session, want int64) ([]byte, string, error) {
	if err := s.set(register.FileOperationSelector, register.OperationRead); err != nil {
		return nil, "", err
	}
	if err := s.set(register.FileAccessOffset, s.offset); err != nil {
		return nil, "", err
	}
	if err := s.set(register.FileAccessLength, want); err != nil {
		return nil, "", err
	}
	if err := s.regs.Execute(register.FileOperationExecute); err != nil {
		return nil, "", s.fail(RegisterWrite, err)
	}

	st, err := s.wait(ctx, e.opPoller, OperationFailed)
	if err != nil {
		return nil, st, err
	}

	n, err := s.getInt(register.FileOperationResult)
	if err != nil {
		return nil, st, err
	}
	if n == 0 {
		return nil, st, s.fail(StalledTransfer, fmt.Errorf("device produced 0 of %d requested bytes", want))
	}
	if n < 0 || n > want {
		return nil, st, s.fail(SizeMismatch, fmt.Errorf("device reported %d bytes for a %d-byte hunk", n, want))
	}

	hunk, err := s.regs.GetBuffer(register.FileAccessBuffer, int(n))
	if err != nil {
		return nil, st, s.fail(RegisterRead, err)
	}
	if int64(len(hunk)) != n {
		return nil, st, s.fail(SizeMismatch, fmt.Errorf("buffer returned %d bytes, expected %d", len(hunk), n))
	}
	return hunk, st, nil
}

// WriteFile writes buf to the device, zero-padded to a multiple of 4 bytes:
//  1. Pad the buffer
//  2. Select the file, open it for Write, check the status
//  3. Write hunks of at most HunkSize, advancing by the acknowledged length
//  4. Close, on every exit path
//
// Coarse progress is reported each time a 10% boundary of the padded length is crossed.
func (e *Engine) WriteFile(ctx context.Context, regs register.Interface, filename string, buf []byte) (err error) {
	if regs == nil {
		return errors.New("transfer: register interface cannot be nil")
	}

	data := Pad4(buf)
	total := int64(len(data))

	s := e.newSession(regs, opWrite, filename)
	s.total = total
	defer func() {
		err = s.release(ctx, err)
	}()

	if err := s.open(ctx, register.OpenModeWrite); err != nil {
		return err
	}
	e.reporter.Detail(ctx, "writing file", "file", filename, "bytes", len(buf), "padded", total)

	if total == 0 {
		return nil
	}

	if err := s.settle(ctx); err != nil {
		return err
	}

	tracker := progress.NewTracker(total)
	hunkSize := int64(e.cfg.HunkSize)

	for s.offset < total {
		if err := s.checkCancel(ctx); err != nil {
			return err
		}

		want := min(hunkSize, total-s.offset)
		chunk := data[s.offset : s.offset+want]

		n, st, err := e.writeHunk(ctx, s, chunk)
		if err != nil {
			return err
		}
		e.reporter.Hunk(ctx, opWrite, s.offset, n, st, chunk[:n])

		s.offset += n

		if pct, ok := tracker.Advance(s.offset); ok {
			e.reporter.Progress(ctx, progress.Event{
				Op:       opWrite,
				Filename: filename,
				Offset:   s.offset,
				Total:    total,
				Percent:  pct,
			})
		}
	}

	if s.offset != total {
		return s.fail(SizeMismatch, fmt.Errorf("wrote %d bytes, padded length is %d", s.offset, total))
	}
	return nil
}

// writeHunk sends chunk at the session offset and returns the acknowledged length.
func (e *Engine) writeHunk(ctx context.Context, s *session, chunk []byte) (int64, string, error) {
	want := int64(len(chunk))

	if err := s.set(register.FileOperationSelector, register.OperationWrite); err != nil {
		return 0, "", err
	}
	if err := s.set(register.FileAccessOffset, s.offset); err != nil {
		return 0, "", err
	}
	if err := s.set(register.FileAccessLength, want); err != nil {
		return 0, "", err
	}
	if err := s.set(register.FileAccessBuffer, chunk); err != nil {
		return 0, "", err
	}
	if err := s.regs.Execute(register.FileOperationExecute); err != nil {
		return 0, "", s.fail(RegisterWrite, err)
	}

	st, err := s.wait(ctx, e.opPoller, OperationFailed)
	if err != nil {
		return 0, st, err
	}

	n, err := s.getInt(e.cfg.WriteAckRegister)
	if err != nil {
		return 0, st, err
	}
	if n == 0 {
		return 0, st, s.fail(StalledTransfer, fmt.Errorf("device accepted 0 of %d bytes", want))
	}
	if n < 0 || n > want {
		return 0, st, s.fail(SizeMismatch, fmt.Errorf("device acknowledged %d bytes for a %d-byte hunk", n, want))
	}
	return n, st, nil
}
