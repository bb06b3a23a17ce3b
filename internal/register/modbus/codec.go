// internal/register/modbus/codec.go
package modbus

import (
	"errors"
	"fmt"
)

// Holding registers travel big-endian on the wire (2 bytes per register).

// encodeString packs ASCII into quantity registers (2 chars per register).
func encodeString(s string, quantity uint16) ([]byte, error) {
	capacity := int(quantity) * 2
	if len(s) > capacity {
		return nil, fmt.Errorf("string length %d exceeds capacity %d", len(s), capacity)
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7E {
			return nil, errors.New("string must contain printable ASCII characters only")
		}
	}
	out := make([]byte, capacity)
	copy(out, s)
	return out, nil
}

// decodeString unpacks register bytes, dropping NUL padding.
func decodeString(b []byte) string {
	end := len(b)
	for i, c := range b {
		if c == 0 {
			end = i
			break
		}
	}
	return string(b[:end])
}

// encodeUint packs v big-endian into quantity registers.
func encodeUint(v int64, quantity uint16) ([]byte, error) {
	if v < 0 {
		return nil, fmt.Errorf("negative value %d", v)
	}
	bits := uint(quantity) * 16
	if bits < 64 && uint64(v) >= uint64(1)<<bits {
		return nil, fmt.Errorf("value %d does not fit in %d registers", v, quantity)
	}
	out := make([]byte, int(quantity)*2)
	u := uint64(v)
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = byte(u)
		u >>= 8
	}
	return out, nil
}

// decodeUint unpacks a big-endian unsigned integer.
func decodeUint(b []byte) (int64, error) {
	var u uint64
	for _, c := range b {
		u = u<<8 | uint64(c)
	}
	if u > 1<<63-1 {
		return 0, fmt.Errorf("value %d overflows int64", u)
	}
	return int64(u), nil
}

// padEven extends b with one zero byte when its length is odd.
func padEven(b []byte) []byte {
	if len(b)%2 == 0 {
		return b
	}
	out := make([]byte, len(b)+1)
	copy(out, b)
	return out
}

// span is one Modbus request window over a register range.
type span struct {
	Address  uint16
	Quantity uint16
	Offset   int // byte offset into the payload
}

// splitSpans cuts quantity registers starting at addr into windows of at most limit registers.
func splitSpans(addr, quantity, limit uint16) []span {
	var out []span
	for done := uint16(0); done < quantity; {
		n := min(limit, quantity-done)
		out = append(out, span{
			Address:  addr + done,
			Quantity: n,
			Offset:   int(done) * 2,
		})
		done += n
	}
	return out
}
