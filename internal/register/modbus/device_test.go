// internal/register/modbus/device_test.go
package modbus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/filexfer/internal/register"
)

// ---- fake holding-register bank ----

type fakeBank struct {
	regs      map[uint16]uint16
	reads     []call
	writes    []call
	singles   []call
	failWrite error
	failRead  error
}

type call struct {
	addr uint16
	qty  uint16
}

func newFakeBank() *fakeBank {
	return &fakeBank{regs: make(map[uint16]uint16)}
}

func (f *fakeBank) ReadHoldingRegisters(address, quantity uint16) ([]byte, error) {
	if f.failRead != nil {
		return nil, f.failRead
	}
	f.reads = append(f.reads, call{addr: address, qty: quantity})
	out := make([]byte, int(quantity)*2)
	for i := uint16(0); i < quantity; i++ {
		v := f.regs[address+i]
		out[2*i] = byte(v >> 8)
		out[2*i+1] = byte(v)
	}
	return out, nil
}

func (f *fakeBank) WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error) {
	if f.failWrite != nil {
		return nil, f.failWrite
	}
	f.writes = append(f.writes, call{addr: address, qty: quantity})
	for i := uint16(0); i < quantity; i++ {
		f.regs[address+i] = uint16(value[2*i])<<8 | uint16(value[2*i+1])
	}
	return nil, nil
}

func (f *fakeBank) WriteSingleRegister(address, value uint16) ([]byte, error) {
	if f.failWrite != nil {
		return nil, f.failWrite
	}
	f.singles = append(f.singles, call{addr: address, qty: 1})
	f.regs[address] = value
	return nil, nil
}

func testMap() Map {
	return Map{
		register.FileSelector:         {Name: register.FileSelector, Address: 0, Kind: KindString, Quantity: 8},
		register.FileOpenMode:         {Name: register.FileOpenMode, Address: 8, Kind: KindEnum, Quantity: 1, Values: map[string]uint16{"Read": 0, "Write": 1}},
		register.FileOperationExecute: {Name: register.FileOperationExecute, Address: 9, Kind: KindCommand, Quantity: 1},
		register.FileOperationStatus:  {Name: register.FileOperationStatus, Address: 10, Kind: KindEnum, Quantity: 1, Values: map[string]uint16{"Success": 0, "Failure": 1}},
		register.FileSize:             {Name: register.FileSize, Address: 12, Kind: KindInt, Quantity: 2},
		register.FileAccessBuffer:     {Name: register.FileAccessBuffer, Address: 100, Kind: KindBuffer, Quantity: 2048},
	}
}

// ---- tests ----

func TestDevice_StringRoundTrip(t *testing.T) {
	bank := newFakeBank()
	d := newDevice(bank, testMap(), 0)

	require.NoError(t, d.Set(register.FileSelector, "UserSet1"))

	// 'U''s' packed big-endian into the first register
	assert.Equal(t, uint16('U')<<8|uint16('s'), bank.regs[0])

	v, err := register.GetString(d, register.FileSelector)
	require.NoError(t, err)
	assert.Equal(t, "UserSet1", v)

	require.NoError(t, d.Set(register.FileSelector, "Log"))
	v, err = register.GetString(d, register.FileSelector)
	require.NoError(t, err)
	assert.Equal(t, "Log", v)
}

func TestDevice_StringTooLong(t *testing.T) {
	d := newDevice(newFakeBank(), testMap(), 0)

	err := d.Set(register.FileSelector, "this-name-is-longer-than-16")
	var we *register.WriteError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, register.FileSelector, we.Register)
}

func TestDevice_IntAcrossTwoRegisters(t *testing.T) {
	bank := newFakeBank()
	d := newDevice(bank, testMap(), 0)

	bank.regs[12] = 0x0001
	bank.regs[13] = 0x2345

	n, err := register.GetInt(d, register.FileSize)
	require.NoError(t, err)
	assert.Equal(t, int64(0x12345), n)

	require.NoError(t, d.Set(register.FileSize, int64(9000)))
	assert.Equal(t, uint16(0), bank.regs[12])
	assert.Equal(t, uint16(9000), bank.regs[13])

	assert.Error(t, d.Set(register.FileSize, int64(1)<<32))
	assert.Error(t, d.Set(register.FileSize, int64(-1)))
}

func TestDevice_EnumMapping(t *testing.T) {
	bank := newFakeBank()
	d := newDevice(bank, testMap(), 0)

	require.NoError(t, d.Set(register.FileOpenMode, "Write"))
	assert.Equal(t, uint16(1), bank.regs[8])

	assert.Error(t, d.Set(register.FileOpenMode, "Append"))

	bank.regs[10] = 1
	s, err := register.GetString(d, register.FileOperationStatus)
	require.NoError(t, err)
	assert.Equal(t, "Failure", s)

	// unknown codes surface as their decimal value
	bank.regs[10] = 7
	s, err = register.GetString(d, register.FileOperationStatus)
	require.NoError(t, err)
	assert.Equal(t, "7", s)
}

func TestDevice_BufferSplitsIntoPDUWindows(t *testing.T) {
	bank := newFakeBank()
	d := newDevice(bank, testMap(), 0)

	payload := make([]byte, 4096)
	for i := range payload {
		payload[i] = byte(i)
	}

	require.NoError(t, d.Set(register.FileAccessBuffer, payload))

	// 2048 registers / 123 per write = 17 requests
	require.Len(t, bank.writes, 17)
	assert.Equal(t, call{addr: 100, qty: 123}, bank.writes[0])
	assert.Equal(t, call{addr: 100 + 16*123, qty: 2048 - 16*123}, bank.writes[16])

	got, err := d.GetBuffer(register.FileAccessBuffer, 4096)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	// 2048 registers / 125 per read = 17 requests
	assert.Len(t, bank.reads, 17)
}

func TestDevice_BufferOddLength(t *testing.T) {
	bank := newFakeBank()
	d := newDevice(bank, testMap(), 0)

	require.NoError(t, d.Set(register.FileAccessBuffer, []byte{1, 2, 3}))
	assert.Equal(t, []call{{addr: 100, qty: 2}}, bank.writes)

	got, err := d.GetBuffer(register.FileAccessBuffer, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)

	got, err = d.GetBuffer(register.FileAccessBuffer, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDevice_BufferCapacity(t *testing.T) {
	d := newDevice(newFakeBank(), testMap(), 0)

	assert.Error(t, d.Set(register.FileAccessBuffer, make([]byte, 4097)))

	_, err := d.GetBuffer(register.FileAccessBuffer, 4097)
	var re *register.ReadError
	assert.ErrorAs(t, err, &re)

	_, err = d.GetBuffer(register.FileSelector, 2)
	assert.ErrorAs(t, err, &re)
}

func TestDevice_Execute(t *testing.T) {
	bank := newFakeBank()
	d := newDevice(bank, testMap(), 0)

	require.NoError(t, d.Execute(register.FileOperationExecute))
	assert.Equal(t, []call{{addr: 9, qty: 1}}, bank.singles)
	assert.Equal(t, uint16(1), bank.regs[9])

	assert.Error(t, d.Execute(register.FileSelector))
}

func TestDevice_ExecuteValueConfigurable(t *testing.T) {
	bank := newFakeBank()
	d := newDevice(bank, testMap(), 0xA5)

	require.NoError(t, d.Execute(register.FileOperationExecute))
	assert.Equal(t, uint16(0xA5), bank.regs[9])
}

func TestDevice_TransportErrorsAreTyped(t *testing.T) {
	bank := newFakeBank()
	d := newDevice(bank, testMap(), 0)

	bank.failWrite = errors.New("exception 2")
	err := d.Set(register.FileOpenMode, "Read")
	var we *register.WriteError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, register.FileOpenMode, we.Register)

	bank.failRead = errors.New("timeout")
	_, err = d.Get(register.FileSize)
	var re *register.ReadError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, register.FileSize, re.Register)
}

func TestDevice_UnmappedRegister(t *testing.T) {
	d := newDevice(newFakeBank(), testMap(), 0)

	_, err := d.Get(register.FileAccessOffset)
	assert.Error(t, err)
	assert.Error(t, d.Set(register.FileAccessOffset, int64(0)))
}

func TestDial_RequiresEndpoint(t *testing.T) {
	_, err := Dial(Config{Registers: testMap()})
	assert.Error(t, err)

	_, err = Dial(Config{Endpoint: "127.0.0.1:502"})
	assert.Error(t, err)
}

func TestDevice_CloseWithoutHandler(t *testing.T) {
	d := newDevice(newFakeBank(), testMap(), 0)
	assert.NoError(t, d.Close())
}
