// internal/register/register_test.go
package register

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRegisters returns fixed values per name.
type fakeRegisters struct {
	values map[string]any
	err    error
}

func (f *fakeRegisters) Set(name string, value any) error { return nil }

func (f *fakeRegisters) Get(name string) (any, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.values[name], nil
}

func (f *fakeRegisters) GetBuffer(name string, length int) ([]byte, error) {
	return make([]byte, length), nil
}

func (f *fakeRegisters) Execute(name string) error { return nil }

func TestGetInt(t *testing.T) {
	f := &fakeRegisters{values: map[string]any{
		FileSize:         int64(9000),
		FileAccessLength: 4096,
		FileSelector:     "UserFile",
	}}

	n, err := GetInt(f, FileSize)
	require.NoError(t, err)
	assert.Equal(t, int64(9000), n)

	n, err = GetInt(f, FileAccessLength)
	require.NoError(t, err)
	assert.Equal(t, int64(4096), n)

	_, err = GetInt(f, FileSelector)
	var re *ReadError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, FileSelector, re.Register)
}

func TestGetString(t *testing.T) {
	f := &fakeRegisters{values: map[string]any{
		FileOperationStatus: "Success",
		FileSize:            int64(1),
	}}

	s, err := GetString(f, FileOperationStatus)
	require.NoError(t, err)
	assert.Equal(t, "Success", s)

	_, err = GetString(f, FileSize)
	assert.Error(t, err)
}

func TestGetters_PropagateErrors(t *testing.T) {
	cause := &ReadError{Register: FileSize, Err: errors.New("timeout")}
	f := &fakeRegisters{err: cause}

	_, err := GetInt(f, FileSize)
	assert.ErrorIs(t, err, cause)

	_, err = GetString(f, FileOperationStatus)
	assert.ErrorIs(t, err, cause)
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "register read FileSize: timeout",
		(&ReadError{Register: FileSize, Err: errors.New("timeout")}).Error())
	assert.Equal(t, "register write FileSelector: rejected",
		(&WriteError{Register: FileSelector, Err: errors.New("rejected")}).Error())
}
