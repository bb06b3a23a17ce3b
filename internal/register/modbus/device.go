// internal/register/modbus/device.go
package modbus

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"

	"github.com/tamzrod/filexfer/internal/register"
)

// holdingClient is the subset of modbus.Client this adapter needs.
type holdingClient interface {
	ReadHoldingRegisters(address, quantity uint16) ([]byte, error)
	WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error)
	WriteSingleRegister(address, value uint16) ([]byte, error)
}

// Device implements register.Interface over Modbus TCP holding registers.
// It serializes register accesses; whole-session serialization is the caller's job.
type Device struct {
	mu           sync.Mutex
	handler      *modbus.TCPClientHandler
	client       holdingClient
	regs         Map
	executeValue uint16
}

// Config is the transport config plus the register map.
type Config struct {
	Endpoint     string
	UnitID       uint8
	Timeout      time.Duration
	Registers    Map
	ExecuteValue uint16
}

// Dial connects to a Modbus TCP endpoint.
func Dial(cfg Config) (*Device, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("register modbus: endpoint required")
	}
	if len(cfg.Registers) == 0 {
		return nil, errors.New("register modbus: register map required")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout
	h.SlaveId = cfg.UnitID

	if err := h.Connect(); err != nil {
		return nil, fmt.Errorf("register modbus: connect %s: %w", cfg.Endpoint, err)
	}

	d := newDevice(modbus.NewClient(h), cfg.Registers, cfg.ExecuteValue)
	d.handler = h
	return d, nil
}

func newDevice(client holdingClient, regs Map, executeValue uint16) *Device {
	if executeValue == 0 {
		executeValue = 1
	}
	return &Device{
		client:       client,
		regs:         regs,
		executeValue: executeValue,
	}
}

// Close closes the TCP connection.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.handler == nil {
		return nil
	}
	return d.handler.Close()
}

// ---- register.Interface ----

func (d *Device) Set(name string, value any) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	r, err := d.regs.lookup(name)
	if err != nil {
		return &register.WriteError{Register: name, Err: err}
	}

	payload, err := encodeValue(r, value)
	if err != nil {
		return &register.WriteError{Register: name, Err: err}
	}

	if err := d.writeRange(r.Address, payload); err != nil {
		return &register.WriteError{Register: name, Err: err}
	}
	return nil
}

func (d *Device) Get(name string) (any, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	r, err := d.regs.lookup(name)
	if err != nil {
		return nil, &register.ReadError{Register: name, Err: err}
	}

	switch r.Kind {
	case KindString, KindInt, KindEnum:
	default:
		return nil, &register.ReadError{Register: name, Err: fmt.Errorf("%s register is not readable as a value", r.Kind)}
	}

	raw, err := d.readRange(r.Address, r.Quantity)
	if err != nil {
		return nil, &register.ReadError{Register: name, Err: err}
	}

	switch r.Kind {
	case KindString:
		return decodeString(raw), nil
	case KindEnum:
		code, err := decodeUint(raw)
		if err != nil {
			return nil, &register.ReadError{Register: name, Err: err}
		}
		return r.enumName(uint16(code)), nil
	default:
		v, err := decodeUint(raw)
		if err != nil {
			return nil, &register.ReadError{Register: name, Err: err}
		}
		return v, nil
	}
}

func (d *Device) GetBuffer(name string, length int) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	r, err := d.regs.lookup(name)
	if err != nil {
		return nil, &register.ReadError{Register: name, Err: err}
	}
	if r.Kind != KindBuffer {
		return nil, &register.ReadError{Register: name, Err: fmt.Errorf("%s register is not a buffer", r.Kind)}
	}
	if length < 0 || length > r.Capacity() {
		return nil, &register.ReadError{
			Register: name,
			Err:      fmt.Errorf("length %d outside buffer capacity %d", length, r.Capacity()),
		}
	}
	if length == 0 {
		return []byte{}, nil
	}

	raw, err := d.readRange(r.Address, uint16((length+1)/2))
	if err != nil {
		return nil, &register.ReadError{Register: name, Err: err}
	}
	return raw[:length], nil
}

func (d *Device) Execute(name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	r, err := d.regs.lookup(name)
	if err != nil {
		return &register.WriteError{Register: name, Err: err}
	}
	if r.Kind != KindCommand {
		return &register.WriteError{Register: name, Err: fmt.Errorf("%s register cannot be executed", r.Kind)}
	}

	if _, err := d.client.WriteSingleRegister(r.Address, d.executeValue); err != nil {
		return &register.WriteError{Register: name, Err: err}
	}
	return nil
}

// ---- internal request helpers ----

func encodeValue(r Register, value any) ([]byte, error) {
	switch r.Kind {
	case KindString:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("string register: unexpected value type %T", value)
		}
		return encodeString(s, r.Quantity)

	case KindInt:
		n, err := toInt64(value)
		if err != nil {
			return nil, err
		}
		return encodeUint(n, r.Quantity)

	case KindEnum:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("enum register: unexpected value type %T", value)
		}
		code, ok := r.Values[s]
		if !ok {
			return nil, fmt.Errorf("enum register: unknown member %q", s)
		}
		return encodeUint(int64(code), r.Quantity)

	case KindBuffer:
		b, ok := value.([]byte)
		if !ok {
			return nil, fmt.Errorf("buffer register: unexpected value type %T", value)
		}
		if len(b) > r.Capacity() {
			return nil, fmt.Errorf("buffer length %d exceeds capacity %d", len(b), r.Capacity())
		}
		return padEven(b), nil

	default:
		return nil, fmt.Errorf("%s register is not writable as a value", r.Kind)
	}
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("int register: unexpected value type %T", v)
	}
}

// writeRange writes payload (even length) starting at addr in PDU-sized windows.
func (d *Device) writeRange(addr uint16, payload []byte) error {
	if len(payload) == 0 {
		return nil
	}
	quantity := uint16(len(payload) / 2)
	for _, s := range splitSpans(addr, quantity, MaxWriteQuantity) {
		chunk := payload[s.Offset : s.Offset+int(s.Quantity)*2]
		if _, err := d.client.WriteMultipleRegisters(s.Address, s.Quantity, chunk); err != nil {
			return fmt.Errorf("write addr=%d qty=%d: %w", s.Address, s.Quantity, err)
		}
	}
	return nil
}

// readRange reads quantity registers starting at addr in PDU-sized windows.
func (d *Device) readRange(addr, quantity uint16) ([]byte, error) {
	out := make([]byte, int(quantity)*2)
	for _, s := range splitSpans(addr, quantity, MaxReadQuantity) {
		raw, err := d.client.ReadHoldingRegisters(s.Address, s.Quantity)
		if err != nil {
			return nil, fmt.Errorf("read addr=%d qty=%d: %w", s.Address, s.Quantity, err)
		}
		if len(raw) != int(s.Quantity)*2 {
			return nil, fmt.Errorf("read addr=%d qty=%d: short payload %d bytes", s.Address, s.Quantity, len(raw))
		}
		copy(out[s.Offset:], raw)
	}
	return out, nil
}
