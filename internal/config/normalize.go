// internal/config/normalize.go
package config

import "github.com/tamzrod/filexfer/internal/register"

// Defaults applied by Normalize.
const (
	DefaultDeviceTimeoutMs    = 1000
	DefaultExecuteValue       = 1
	DefaultHunkSize           = 4096
	DefaultOperationTimeoutMs = 5000
	DefaultSettleTimeoutMs    = 2000
	DefaultPollMinMs          = 10
	DefaultPollMaxMs          = 250
	DefaultVerbosity          = 1
)

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	d := &cfg.Device
	if d.TimeoutMs == 0 {
		d.TimeoutMs = DefaultDeviceTimeoutMs
	}
	if d.ExecuteValue == 0 {
		d.ExecuteValue = DefaultExecuteValue
	}

	t := &cfg.Transfer
	if t.HunkSize == 0 {
		t.HunkSize = DefaultHunkSize
	}
	if t.OperationTimeoutMs == 0 {
		t.OperationTimeoutMs = DefaultOperationTimeoutMs
	}
	if t.SettleTimeoutMs == 0 {
		t.SettleTimeoutMs = DefaultSettleTimeoutMs
	}
	if t.PollMinMs == 0 {
		t.PollMinMs = DefaultPollMinMs
	}
	if t.PollMaxMs == 0 {
		t.PollMaxMs = max(DefaultPollMaxMs, t.PollMinMs)
	}
	if t.WriteAckRegister == "" {
		t.WriteAckRegister = register.FileOperationResult
	}
	if t.Verbosity == nil {
		v := DefaultVerbosity
		t.Verbosity = &v
	}
}
