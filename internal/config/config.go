// internal/config/config.go
package config

type Config struct {
	Device   DeviceConfig   `yaml:"device"`
	Transfer TransferConfig `yaml:"transfer"`
}

// ---- DEVICE ----

type DeviceConfig struct {
	Endpoint     string `yaml:"endpoint"`
	UnitID       uint8  `yaml:"unit_id"`
	TimeoutMs    int    `yaml:"timeout_ms"`
	ExecuteValue uint16 `yaml:"execute_value"` // written to the command register on Execute

	Registers map[string]RegisterConfig `yaml:"registers"` // keyed by FileAccess register name
}

// ---- REGISTER GEOMETRY ----

type RegisterConfig struct {
	Address  uint16            `yaml:"address"`
	Kind     string            `yaml:"kind"` // string | int | enum | buffer | command
	Quantity uint16            `yaml:"quantity"`
	Values   map[string]uint16 `yaml:"values"` // enum member -> code
}

// ---- TRANSFER ----

type TransferConfig struct {
	HunkSize           int `yaml:"hunk_size"`
	OperationTimeoutMs int `yaml:"operation_timeout_ms"`
	SettleDelayMs      int `yaml:"settle_delay_ms"` // minimum dwell after Open, 0 = none
	SettleTimeoutMs    int `yaml:"settle_timeout_ms"`
	PollMinMs          int `yaml:"poll_min_ms"`
	PollMaxMs          int `yaml:"poll_max_ms"`

	// Accepted FileOperationStatus values; nil keeps the built-in sets.
	SuccessStatuses []string `yaml:"success_statuses"`
	PendingStatuses []string `yaml:"pending_statuses"`

	WriteAckRegister string `yaml:"write_ack_register"`
	Verbosity        *int   `yaml:"verbosity"` // nil => 1
}
