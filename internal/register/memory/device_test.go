// internal/register/memory/device_test.go
package memory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/filexfer/internal/register"
)

func execute(t *testing.T, d *Device, operation string) {
	t.Helper()
	require.NoError(t, d.Set(register.FileOperationSelector, operation))
	require.NoError(t, d.Execute(register.FileOperationExecute))
}

func statusOf(t *testing.T, d *Device) string {
	t.Helper()
	s, err := register.GetString(d, register.FileOperationStatus)
	require.NoError(t, err)
	return s
}

func TestDevice_ReadSequence(t *testing.T) {
	d := New()
	d.PutFile("CurrentLog", []byte("hello world"))

	require.NoError(t, d.Set(register.FileSelector, "CurrentLog"))
	require.NoError(t, d.Set(register.FileOpenMode, register.OpenModeRead))
	execute(t, d, register.OperationOpen)
	assert.Equal(t, StatusSuccess, statusOf(t, d))

	size, err := register.GetInt(d, register.FileSize)
	require.NoError(t, err)
	assert.Equal(t, int64(11), size)

	require.NoError(t, d.Set(register.FileAccessOffset, int64(6)))
	require.NoError(t, d.Set(register.FileAccessLength, int64(100)))
	execute(t, d, register.OperationRead)

	n, err := register.GetInt(d, register.FileOperationResult)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	b, err := d.GetBuffer(register.FileAccessBuffer, int(n))
	require.NoError(t, err)
	assert.Equal(t, []byte("world"), b)

	execute(t, d, register.OperationClose)
	assert.Equal(t, StatusSuccess, statusOf(t, d))
	assert.False(t, d.IsOpen())
}

func TestDevice_WriteSequence(t *testing.T) {
	d := New()

	require.NoError(t, d.Set(register.FileSelector, "UserFile"))
	require.NoError(t, d.Set(register.FileOpenMode, register.OpenModeWrite))
	execute(t, d, register.OperationOpen)

	require.NoError(t, d.Set(register.FileAccessOffset, int64(0)))
	require.NoError(t, d.Set(register.FileAccessLength, int64(4)))
	require.NoError(t, d.Set(register.FileAccessBuffer, []byte{1, 2, 3, 4}))
	execute(t, d, register.OperationWrite)

	n, err := register.GetInt(d, register.FileOperationResult)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	execute(t, d, register.OperationClose)

	b, ok := d.File("UserFile")
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3, 4}, b)
	assert.Equal(t, 1, d.Count(register.OperationWrite))
}

func TestDevice_OpenMissingFileFails(t *testing.T) {
	d := New()

	require.NoError(t, d.Set(register.FileSelector, "nope"))
	require.NoError(t, d.Set(register.FileOpenMode, register.OpenModeRead))
	execute(t, d, register.OperationOpen)

	assert.Equal(t, StatusFailure, statusOf(t, d))
	assert.False(t, d.IsOpen())
}

func TestDevice_HunkInWrongModeFails(t *testing.T) {
	d := New()
	d.PutFile("f", []byte{1, 2, 3, 4})

	require.NoError(t, d.Set(register.FileSelector, "f"))
	require.NoError(t, d.Set(register.FileOpenMode, register.OpenModeRead))
	execute(t, d, register.OperationOpen)
	execute(t, d, register.OperationWrite)

	assert.Equal(t, StatusFailure, statusOf(t, d))
}

func TestDevice_BusyPolls(t *testing.T) {
	d := New()
	d.PutFile("f", []byte{1})
	d.Faults.BusyPolls = 2

	require.NoError(t, d.Set(register.FileSelector, "f"))
	require.NoError(t, d.Set(register.FileOpenMode, register.OpenModeRead))
	execute(t, d, register.OperationOpen)

	assert.Equal(t, StatusBusy, statusOf(t, d))
	assert.Equal(t, StatusBusy, statusOf(t, d))
	assert.Equal(t, StatusSuccess, statusOf(t, d))
}

func TestDevice_RegisterFaults(t *testing.T) {
	d := New()
	d.Faults.SetErr = map[string]error{register.FileAccessOffset: errors.New("nak")}
	d.Faults.GetErr = map[string]error{register.FileSize: errors.New("nak")}

	var we *register.WriteError
	assert.ErrorAs(t, d.Set(register.FileAccessOffset, int64(0)), &we)

	_, err := d.Get(register.FileSize)
	var re *register.ReadError
	assert.ErrorAs(t, err, &re)
}

func TestDevice_TypeChecks(t *testing.T) {
	d := New()

	assert.Error(t, d.Set(register.FileSelector, 5))
	assert.Error(t, d.Set(register.FileAccessOffset, "zero"))
	assert.Error(t, d.Set(register.FileOpenMode, "Append"))
	assert.Error(t, d.Set(register.FileSize, int64(1)))
	assert.Error(t, d.Execute(register.FileSelector))

	_, err := d.GetBuffer(register.FileAccessBuffer, 1)
	assert.Error(t, err)
}
