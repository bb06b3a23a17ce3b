// internal/transfer/transfer.go
package transfer

import (
	"context"

	"github.com/tamzrod/filexfer/internal/register"
)

// ReadFile reads filename from regs with default engine settings.
func ReadFile(ctx context.Context, regs register.Interface, filename string, verbosity int) ([]byte, error) {
	e, err := New(WithVerbosity(verbosity))
	if err != nil {
		return nil, err
	}
	return e.ReadFile(ctx, regs, filename)
}

// WriteFile writes buf to filename on regs with default engine settings.
func WriteFile(ctx context.Context, regs register.Interface, filename string, buf []byte, verbosity int) error {
	e, err := New(WithVerbosity(verbosity))
	if err != nil {
		return err
	}
	return e.WriteFile(ctx, regs, filename, buf)
}
