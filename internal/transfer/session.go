// internal/transfer/session.go
package transfer

import (
	"context"
	"errors"
	"time"

	"github.com/tamzrod/filexfer/internal/poller"
	"github.com/tamzrod/filexfer/internal/register"
	"github.com/tamzrod/filexfer/internal/status"
)

const (
	opRead  = "read"
	opWrite = "write"
)

// session is the state of one Open -> hunks -> Close sequence.
// It is owned by a single ReadFile/WriteFile call and never shared.
type session struct {
	e        *Engine
	regs     register.Interface
	op       string
	filename string
	offset   int64
	total    int64

	// opened is set once Open has been issued; Close is owed from then on.
	opened bool
}

func (e *Engine) newSession(regs register.Interface, op, filename string) *session {
	return &session{
		e:        e,
		regs:     regs,
		op:       op,
		filename: filename,
	}
}

func (s *session) fail(kind Kind, err error) *TransferError {
	return &TransferError{
		Kind:     kind,
		Op:       s.op,
		Filename: s.filename,
		Offset:   s.offset,
		Err:      err,
	}
}

// set writes one register, mapping failure to RegisterWrite.
func (s *session) set(name string, value any) error {
	if err := s.regs.Set(name, value); err != nil {
		return s.fail(RegisterWrite, err)
	}
	return nil
}

func (s *session) getInt(name string) (int64, error) {
	n, err := register.GetInt(s.regs, name)
	if err != nil {
		return 0, s.fail(RegisterRead, err)
	}
	return n, nil
}

// execute selects an operation and fires the trigger.
func (s *session) execute(operation string) error {
	if err := s.set(register.FileOperationSelector, operation); err != nil {
		return err
	}
	if operation == register.OperationOpen {
		s.opened = true
	}
	if err := s.regs.Execute(register.FileOperationExecute); err != nil {
		return s.fail(RegisterWrite, err)
	}
	return nil
}

// readStatus reads the raw FileOperationStatus value.
func (s *session) readStatus() (string, error) {
	return register.GetString(s.regs, register.FileOperationStatus)
}

// wait blocks until FileOperationStatus leaves the pending set.
// A failed status maps to failedKind.
func (s *session) wait(ctx context.Context, p *poller.Poller, failedKind Kind) (string, error) {
	res, err := p.Wait(ctx, s.readStatus)
	switch {
	case errors.Is(err, poller.ErrTimeout):
		return res.Status, s.fail(Timeout, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return res.Status, s.fail(Cancelled, err)
	case err != nil:
		return res.Status, s.fail(RegisterRead, err)
	}

	if res.Class == status.Failed {
		return res.Status, s.fail(failedKind, &StatusError{Status: res.Status})
	}
	return res.Status, nil
}

// open selects the file and mode, then runs the Open step.
func (s *session) open(ctx context.Context, mode string) error {
	if err := s.set(register.FileSelector, s.filename); err != nil {
		return err
	}
	if err := s.set(register.FileOpenMode, mode); err != nil {
		return err
	}
	if err := s.execute(register.OperationOpen); err != nil {
		return err
	}

	st, err := s.wait(ctx, s.e.opPoller, OpenFailed)
	s.e.reporter.Detail(ctx, "file opened", "op", s.op, "file", s.filename, "mode", mode, "status", st)
	return err
}

// settle gives the device firmware a bounded interval to prepare the stream:
// an optional fixed dwell (SettleDelay), then a wait bounded by SettleTimeout
// for FileOperationStatus to leave the pending set.
//
// A device that only updates the status on Execute still shows the Open result
// here, so without a dwell the wait ends after one confirming poll. Only a
// device that reports stream preparation as a pending status is waited on.
func (s *session) settle(ctx context.Context) error {
	if d := s.e.cfg.SettleDelay; d > 0 {
		t := time.NewTimer(d)
		defer t.Stop()

		select {
		case <-ctx.Done():
			return s.fail(Cancelled, ctx.Err())
		case <-t.C:
		}
	}

	_, err := s.wait(ctx, s.e.settlePoller, OpenFailed)
	return err
}

// release closes the device-side handle if Open was issued.
// A close failure never replaces primary; it is attached to it instead.
func (s *session) release(ctx context.Context, primary error) error {
	if !s.opened {
		return primary
	}

	closeErr := s.close(ctx)
	if closeErr == nil {
		return primary
	}
	if primary == nil {
		return closeErr
	}

	s.e.logger.WarnContext(ctx, "file close failed after earlier error",
		"op", s.op,
		"file", s.filename,
		"error", closeErr,
	)

	var te *TransferError
	if errors.As(primary, &te) {
		te.CloseErr = closeErr
		return te
	}
	return primary
}

// close runs the Close step on a context detached from caller cancellation,
// so an aborted transfer still releases the handle. The wait stays bounded
// by the operation timeout.
func (s *session) close(ctx context.Context) error {
	ctx = context.WithoutCancel(ctx)

	if err := s.regs.Set(register.FileOperationSelector, register.OperationClose); err != nil {
		return s.fail(CloseFailed, err)
	}
	if err := s.regs.Execute(register.FileOperationExecute); err != nil {
		return s.fail(CloseFailed, err)
	}

	res, err := s.e.opPoller.Wait(ctx, s.readStatus)
	if err != nil {
		return s.fail(CloseFailed, err)
	}
	if res.Class == status.Failed {
		return s.fail(CloseFailed, &StatusError{Status: res.Status})
	}

	s.e.reporter.Detail(ctx, "file closed", "op", s.op, "file", s.filename, "status", res.Status)
	return nil
}

// checkCancel is called once per hunk iteration.
func (s *session) checkCancel(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return s.fail(Cancelled, err)
	}
	return nil
}
