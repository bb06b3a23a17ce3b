// internal/config/validate.go
package config

import (
	"fmt"
	"sort"

	"github.com/tamzrod/filexfer/internal/register"
)

// expectedKinds lists the encodings each FileAccess register may use.
var expectedKinds = map[string][]string{
	register.FileSelector:          {"string"},
	register.FileOpenMode:          {"enum"},
	register.FileOperationSelector: {"enum"},
	register.FileOperationExecute:  {"command"},
	register.FileOperationStatus:   {"enum", "string"},
	register.FileOperationResult:   {"int"},
	register.FileSize:              {"int"},
	register.FileAccessOffset:      {"int"},
	register.FileAccessLength:      {"int"},
	register.FileAccessBuffer:      {"buffer"},
}

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
// Zero values mean "use the default" and are accepted.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	d := cfg.Device
	t := cfg.Transfer

	// ------------------------------------------------------------
	// DEVICE TRANSPORT
	// ------------------------------------------------------------

	if d.Endpoint == "" {
		return fmt.Errorf("device: endpoint is required")
	}
	if d.TimeoutMs < 0 {
		return fmt.Errorf("device: timeout_ms must be >= 0")
	}

	// ------------------------------------------------------------
	// REGISTER MAP (PER-REGISTER)
	// ------------------------------------------------------------

	hunkSize := t.HunkSize
	if hunkSize == 0 {
		hunkSize = DefaultHunkSize
	}

	for _, name := range register.All {
		r, ok := d.Registers[name]
		if !ok {
			return fmt.Errorf("device: register %s is not mapped", name)
		}
		if err := validateRegister(name, r, hunkSize); err != nil {
			return err
		}
	}

	for name := range d.Registers {
		if _, ok := expectedKinds[name]; !ok {
			return fmt.Errorf("device: unknown register %q", name)
		}
	}

	// ------------------------------------------------------------
	// REGISTER MAP GEOMETRY (NO OVERLAP)
	// ------------------------------------------------------------

	if err := validateNoOverlap(d.Registers); err != nil {
		return err
	}

	// ------------------------------------------------------------
	// TRANSFER TUNING
	// ------------------------------------------------------------

	if t.HunkSize < 0 || t.HunkSize%4 != 0 {
		return fmt.Errorf("transfer: hunk_size must be a positive multiple of 4, got %d", t.HunkSize)
	}
	if t.OperationTimeoutMs < 0 || t.SettleDelayMs < 0 || t.SettleTimeoutMs < 0 || t.PollMinMs < 0 || t.PollMaxMs < 0 {
		return fmt.Errorf("transfer: timeouts, settle delay and poll intervals must be >= 0")
	}
	if t.PollMinMs > 0 && t.PollMaxMs > 0 && t.PollMaxMs < t.PollMinMs {
		return fmt.Errorf("transfer: poll_max_ms (%d) < poll_min_ms (%d)", t.PollMaxMs, t.PollMinMs)
	}
	switch t.WriteAckRegister {
	case "", register.FileOperationResult, register.FileAccessLength:
	default:
		return fmt.Errorf("transfer: write_ack_register must be %s or %s, got %q",
			register.FileOperationResult, register.FileAccessLength, t.WriteAckRegister)
	}
	if t.Verbosity != nil && (*t.Verbosity < 0 || *t.Verbosity > 2) {
		return fmt.Errorf("transfer: verbosity must be 0, 1 or 2, got %d", *t.Verbosity)
	}
	if t.SuccessStatuses != nil && len(t.SuccessStatuses) == 0 {
		return fmt.Errorf("transfer: success_statuses must not be empty when set")
	}

	return nil
}

func validateRegister(name string, r RegisterConfig, hunkSize int) error {
	allowed := expectedKinds[name]
	okKind := false
	for _, k := range allowed {
		if r.Kind == k {
			okKind = true
		}
	}
	if !okKind {
		return fmt.Errorf("register %s: kind %q not allowed (want one of %v)", name, r.Kind, allowed)
	}

	if r.Quantity == 0 {
		return fmt.Errorf("register %s: quantity must be > 0", name)
	}
	if uint32(r.Address)+uint32(r.Quantity) > 1<<16 {
		return fmt.Errorf("register %s: range %d+%d exceeds the register space", name, r.Address, r.Quantity)
	}

	switch r.Kind {
	case "int":
		if r.Quantity != 1 && r.Quantity != 2 && r.Quantity != 4 {
			return fmt.Errorf("register %s: int quantity must be 1, 2 or 4, got %d", name, r.Quantity)
		}
	case "enum", "command":
		if r.Quantity != 1 {
			return fmt.Errorf("register %s: %s quantity must be 1, got %d", name, r.Kind, r.Quantity)
		}
	case "buffer":
		if int(r.Quantity)*2 < hunkSize {
			return fmt.Errorf("register %s: buffer holds %d bytes, hunk_size is %d", name, int(r.Quantity)*2, hunkSize)
		}
	}

	if r.Kind == "enum" {
		for _, member := range register.EnumMembers[name] {
			if _, ok := r.Values[member]; !ok {
				return fmt.Errorf("register %s: enum value for %q is missing", name, member)
			}
		}
		seen := make(map[uint16]string, len(r.Values))
		for member, code := range r.Values {
			if prev, dup := seen[code]; dup {
				return fmt.Errorf("register %s: members %q and %q share code %d", name, prev, member, code)
			}
			seen[code] = member
		}
	}

	return nil
}

func validateNoOverlap(regs map[string]RegisterConfig) error {
	type span struct {
		start uint32
		end   uint32
		name  string
	}

	spans := make([]span, 0, len(regs))
	for name, r := range regs {
		spans = append(spans, span{
			start: uint32(r.Address),
			end:   uint32(r.Address) + uint32(r.Quantity) - 1,
			name:  name,
		})
	}
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].name < spans[j].name
	})

	for i := 1; i < len(spans); i++ {
		prev, cur := spans[i-1], spans[i]
		// overlap check (inclusive)
		if cur.start <= prev.end {
			return fmt.Errorf(
				"register overlap: %s range=%d-%d overlaps with %s range=%d-%d",
				cur.name, cur.start, cur.end,
				prev.name, prev.start, prev.end,
			)
		}
	}
	return nil
}
