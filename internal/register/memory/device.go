// internal/register/memory/device.go
package memory

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tamzrod/filexfer/internal/register"
)

// Status values reported by the simulated device.
const (
	StatusSuccess = "Success"
	StatusFailure = "Failure"
	StatusBusy    = "Busy"
)

// Op is one executed file operation, recorded in order.
type Op struct {
	Operation string
	File      string
	Offset    int64
	Length    int64
	Result    int64
}

// Faults configures misbehaviour of the simulated device.
// Hunk numbers are 1-based and count Read and Write operations together.
type Faults struct {
	// FailHunk makes the Nth hunk execute return a WriteError.
	FailHunk int
	// ZeroResultHunk makes the Nth hunk report FileOperationResult = 0.
	ZeroResultHunk int
	// MaxResult caps the bytes a hunk reports as processed (0 = no cap).
	MaxResult int64
	// OverReport adds extra bytes to every reported hunk result.
	OverReport int64
	// BusyPolls is how many status reads return Busy after each execute.
	BusyPolls int
	// OpenStatus overrides the status after Open when non-empty.
	OpenStatus string
	// HunkStatus overrides the status after every hunk when non-empty.
	HunkStatus string
	// CloseErr is returned by the Close execute.
	CloseErr error
	// GetErr / SetErr fail Get / Set on the named register.
	GetErr map[string]error
	SetErr map[string]error
}

// Device is an in-process device exposing the FileAccess register surface.
// Access is serialized; a real device handle is single-owner as well.
type Device struct {
	mu sync.Mutex

	Faults Faults

	files map[string][]byte

	// register state
	selector string
	mode     string
	opSel    string
	offset   int64
	length   int64
	buffer   []byte
	status   string
	result   int64
	busy     int

	// open handle
	open     bool
	openFile string
	openMode string

	hunks int
	ops   []Op
}

// New creates an empty device.
func New() *Device {
	return &Device{
		files:  make(map[string][]byte),
		status: StatusSuccess,
	}
}

// PutFile stores a file on the device.
func (d *Device) PutFile(name string, data []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.files[name] = append([]byte(nil), data...)
}

// File returns a copy of a stored file.
func (d *Device) File(name string) ([]byte, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := d.files[name]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), b...), true
}

// Ops returns the executed operations in order.
func (d *Device) Ops() []Op {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Op(nil), d.ops...)
}

// Count returns how many times the named operation was executed.
func (d *Device) Count(operation string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, op := range d.ops {
		if op.Operation == operation {
			n++
		}
	}
	return n
}

// IsOpen reports whether a file handle is currently open.
func (d *Device) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

// ---- register.Interface ----

func (d *Device) Set(name string, value any) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.Faults.SetErr[name]; err != nil {
		return &register.WriteError{Register: name, Err: err}
	}

	switch name {
	case register.FileSelector:
		s, err := asString(name, value)
		if err != nil {
			return err
		}
		d.selector = s
	case register.FileOpenMode:
		s, err := asString(name, value)
		if err != nil {
			return err
		}
		if s != register.OpenModeRead && s != register.OpenModeWrite {
			return &register.WriteError{Register: name, Err: fmt.Errorf("invalid mode %q", s)}
		}
		d.mode = s
	case register.FileOperationSelector:
		s, err := asString(name, value)
		if err != nil {
			return err
		}
		d.opSel = s
	case register.FileAccessOffset:
		n, err := asInt(name, value)
		if err != nil {
			return err
		}
		d.offset = n
	case register.FileAccessLength:
		n, err := asInt(name, value)
		if err != nil {
			return err
		}
		d.length = n
	case register.FileAccessBuffer:
		b, ok := value.([]byte)
		if !ok {
			return &register.WriteError{Register: name, Err: fmt.Errorf("unexpected value type %T", value)}
		}
		d.buffer = append(d.buffer[:0], b...)
	default:
		return &register.WriteError{Register: name, Err: errors.New("register is read-only or unknown")}
	}
	return nil
}

func (d *Device) Get(name string) (any, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.Faults.GetErr[name]; err != nil {
		return nil, &register.ReadError{Register: name, Err: err}
	}

	switch name {
	case register.FileSelector:
		return d.selector, nil
	case register.FileOpenMode:
		return d.mode, nil
	case register.FileOperationSelector:
		return d.opSel, nil
	case register.FileOperationStatus:
		if d.busy > 0 {
			d.busy--
			return StatusBusy, nil
		}
		return d.status, nil
	case register.FileOperationResult:
		return d.result, nil
	case register.FileSize:
		return int64(len(d.files[d.selector])), nil
	case register.FileAccessOffset:
		return d.offset, nil
	case register.FileAccessLength:
		return d.length, nil
	default:
		return nil, &register.ReadError{Register: name, Err: errors.New("register is not readable as a value")}
	}
}

func (d *Device) GetBuffer(name string, length int) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.Faults.GetErr[name]; err != nil {
		return nil, &register.ReadError{Register: name, Err: err}
	}
	if name != register.FileAccessBuffer {
		return nil, &register.ReadError{Register: name, Err: errors.New("not a buffer register")}
	}
	if length < 0 || length > len(d.buffer) {
		return nil, &register.ReadError{
			Register: name,
			Err:      fmt.Errorf("requested %d bytes, buffer holds %d", length, len(d.buffer)),
		}
	}
	return append([]byte(nil), d.buffer[:length]...), nil
}

func (d *Device) Execute(name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if name != register.FileOperationExecute {
		return &register.WriteError{Register: name, Err: errors.New("not a command register")}
	}

	d.busy = d.Faults.BusyPolls

	switch d.opSel {
	case register.OperationOpen:
		return d.execOpen()
	case register.OperationRead, register.OperationWrite:
		return d.execHunk()
	case register.OperationClose:
		return d.execClose()
	default:
		d.status = StatusFailure
		return &register.WriteError{Register: name, Err: fmt.Errorf("unknown operation %q", d.opSel)}
	}
}

// ---- operations ----

func (d *Device) execOpen() error {
	d.ops = append(d.ops, Op{Operation: register.OperationOpen, File: d.selector})
	d.result = 0

	switch {
	case d.open:
		d.status = StatusFailure
	case d.mode == register.OpenModeRead:
		if _, ok := d.files[d.selector]; !ok {
			d.status = StatusFailure
			break
		}
		d.open, d.openFile, d.openMode = true, d.selector, d.mode
		d.status = StatusSuccess
	case d.mode == register.OpenModeWrite:
		d.files[d.selector] = []byte{}
		d.open, d.openFile, d.openMode = true, d.selector, d.mode
		d.status = StatusSuccess
	default:
		d.status = StatusFailure
	}

	if d.Faults.OpenStatus != "" {
		d.status = d.Faults.OpenStatus
	}
	return nil
}

func (d *Device) execHunk() error {
	d.hunks++
	op := Op{Operation: d.opSel, File: d.openFile, Offset: d.offset, Length: d.length}

	if d.Faults.FailHunk == d.hunks {
		d.ops = append(d.ops, op)
		d.status = StatusFailure
		return &register.WriteError{
			Register: register.FileOperationExecute,
			Err:      fmt.Errorf("device rejected %s hunk at offset %d", d.opSel, d.offset),
		}
	}

	if !d.open || d.openMode != d.opSel || d.offset < 0 || d.length < 0 {
		d.ops = append(d.ops, op)
		d.status = StatusFailure
		d.result = 0
		return nil
	}

	var n int64
	if d.opSel == register.OperationRead {
		n = d.readHunk()
	} else {
		n = d.writeHunk()
	}

	if d.Faults.ZeroResultHunk == d.hunks {
		n = 0
	}
	d.result = n + d.Faults.OverReport
	op.Result = d.result
	d.ops = append(d.ops, op)

	d.status = StatusSuccess
	if d.Faults.HunkStatus != "" {
		d.status = d.Faults.HunkStatus
	}
	return nil
}

func (d *Device) readHunk() int64 {
	file := d.files[d.openFile]
	size := int64(len(file))
	if d.offset >= size {
		d.buffer = d.buffer[:0]
		return 0
	}

	n := min(d.length, size-d.offset)
	if d.Faults.MaxResult > 0 {
		n = min(n, d.Faults.MaxResult)
	}
	d.buffer = append(d.buffer[:0], file[d.offset:d.offset+n]...)
	return n
}

func (d *Device) writeHunk() int64 {
	n := min(d.length, int64(len(d.buffer)))
	if d.Faults.MaxResult > 0 {
		n = min(n, d.Faults.MaxResult)
	}

	file := d.files[d.openFile]
	end := d.offset + n
	if end > int64(len(file)) {
		file = append(file, make([]byte, end-int64(len(file)))...)
	}
	copy(file[d.offset:end], d.buffer[:n])
	d.files[d.openFile] = file
	return n
}

func (d *Device) execClose() error {
	d.ops = append(d.ops, Op{Operation: register.OperationClose, File: d.openFile})
	d.result = 0

	if d.Faults.CloseErr != nil {
		d.status = StatusFailure
		return &register.WriteError{Register: register.FileOperationExecute, Err: d.Faults.CloseErr}
	}

	if !d.open {
		d.status = StatusFailure
		return nil
	}
	d.open, d.openFile, d.openMode = false, "", ""
	d.status = StatusSuccess
	return nil
}

// ---- helpers ----

func asString(name string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", &register.WriteError{Register: name, Err: fmt.Errorf("unexpected value type %T", v)}
	}
	return s, nil
}

func asInt(name string, v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	default:
		return 0, &register.WriteError{Register: name, Err: fmt.Errorf("unexpected value type %T", v)}
	}
}
