// internal/register/modbus/regmap.go
package modbus

import (
	"fmt"
)

// Kind is the encoding of one named register inside the holding-register space.
type Kind string

const (
	KindString  Kind = "string"  // ASCII, 2 chars per register, NUL padded
	KindInt     Kind = "int"     // unsigned big-endian across 1, 2 or 4 registers
	KindEnum    Kind = "enum"    // one register holding an integer code
	KindBuffer  Kind = "buffer"  // raw bytes, 2 per register, big-endian
	KindCommand Kind = "command" // trigger; Execute writes the command value
)

// Modbus PDU limits for holding registers.
const (
	MaxReadQuantity  = 125
	MaxWriteQuantity = 123
)

// Register locates one named register.
// Geometry only: the engine never sees addresses.
type Register struct {
	Name     string
	Address  uint16
	Kind     Kind
	Quantity uint16
	Values   map[string]uint16 // enum members -> codes
}

// End returns the last holding-register address used (inclusive).
func (r Register) End() uint32 {
	return uint32(r.Address) + uint32(r.Quantity) - 1
}

// Capacity returns the byte capacity of a string or buffer register.
func (r Register) Capacity() int {
	return int(r.Quantity) * 2
}

// Map is the register map of one device, keyed by register name.
type Map map[string]Register

func (m Map) lookup(name string) (Register, error) {
	r, ok := m[name]
	if !ok {
		return Register{}, fmt.Errorf("register %q not mapped", name)
	}
	return r, nil
}

// enumName reverses an enum code. Unknown codes are returned in decimal so a
// status classifier sees them as failures instead of a read error.
func (r Register) enumName(code uint16) string {
	for name, c := range r.Values {
		if c == code {
			return name
		}
	}
	return fmt.Sprintf("%d", code)
}
