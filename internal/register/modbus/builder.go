// internal/register/modbus/builder.go
package modbus

import (
	"time"

	cfg "github.com/tamzrod/filexfer/internal/config"
)

// BuildMap converts the configured register geometry into a Map.
// Assumes config has already passed validation.
func BuildMap(d cfg.DeviceConfig) Map {
	m := make(Map, len(d.Registers))
	for name, r := range d.Registers {
		m[name] = Register{
			Name:     name,
			Address:  r.Address,
			Kind:     Kind(r.Kind),
			Quantity: r.Quantity,
			Values:   r.Values,
		}
	}
	return m
}

// Build dials the configured device.
// The returned closer releases the TCP connection.
func Build(d cfg.DeviceConfig) (*Device, func() error, error) {
	dev, err := Dial(Config{
		Endpoint:     d.Endpoint,
		UnitID:       d.UnitID,
		Timeout:      time.Duration(d.TimeoutMs) * time.Millisecond,
		Registers:    BuildMap(d),
		ExecuteValue: d.ExecuteValue,
	})
	if err != nil {
		return nil, nil, err
	}
	return dev, dev.Close, nil
}
