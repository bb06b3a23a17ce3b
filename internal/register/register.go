// internal/register/register.go
package register

import (
	"fmt"
)

// Interface abstracts the named-register control surface of a device.
// The transfer engine depends on this contract only.
//
// Values passed to Set are string, int64 or []byte.
// Values returned by Get are string or int64.
type Interface interface {
	Set(name string, value any) error
	Get(name string) (any, error)
	GetBuffer(name string, length int) ([]byte, error)
	Execute(name string) error
}

// ReadError is returned when a register read fails at the interface layer.
type ReadError struct {
	Register string
	Err      error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("register read %s: %v", e.Register, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError is returned when the device rejects a register write or trigger.
type WriteError struct {
	Register string
	Err      error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("register write %s: %v", e.Register, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// GetInt reads an integer register.
func GetInt(r Interface, name string) (int64, error) {
	v, err := r.Get(name)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	default:
		return 0, &ReadError{Register: name, Err: fmt.Errorf("unexpected value type %T", v)}
	}
}

// GetString reads a string or enum register.
func GetString(r Interface, name string) (string, error) {
	v, err := r.Get(name)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", &ReadError{Register: name, Err: fmt.Errorf("unexpected value type %T", v)}
	}
	return s, nil
}
