// internal/status/constants.go
package status

// Class is the interpretation of one FileOperationStatus value.
type Class uint8

// ---- CLASSES ----

// Pending means the device has not finished the last operation.
const Pending Class = 0

// Success means the last operation completed.
const Success Class = 1

// Failed means the device reported any status outside the configured sets.
const Failed Class = 2

func (c Class) String() string {
	switch c {
	case Pending:
		return "pending"
	case Success:
		return "success"
	default:
		return "failed"
	}
}

// ---- DEFAULT STATUS SETS ----

// DefaultSuccess is the status set accepted as completion when none is configured.
var DefaultSuccess = []string{"Success"}

// DefaultPending is the status set treated as "still working" when none is configured.
// An empty string covers devices that clear the status register while busy.
var DefaultPending = []string{"", "Busy", "Pending", "InProgress"}
