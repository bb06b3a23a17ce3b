// internal/register/names.go
package register

// FileAccess register names.
// These follow the SFNC FileAccessControl category and MUST NOT be renamed.

// ---- SESSION SETUP ----

// FileSelector names the target file.
const FileSelector = "FileSelector"

// FileOpenMode selects the session direction (OpenModeRead / OpenModeWrite).
const FileOpenMode = "FileOpenMode"

// FileOperationSelector selects what FileOperationExecute performs next.
const FileOperationSelector = "FileOperationSelector"

// FileOperationExecute triggers the selected operation.
const FileOperationExecute = "FileOperationExecute"

// ---- RESULTS ----

// FileOperationStatus reports the status of the last executed operation.
const FileOperationStatus = "FileOperationStatus"

// FileOperationResult reports the byte count produced or consumed by the last operation.
const FileOperationResult = "FileOperationResult"

// FileSize reports the total length of the selected file.
const FileSize = "FileSize"

// ---- HUNK ACCESS ----

// FileAccessOffset is the byte offset of the next hunk.
const FileAccessOffset = "FileAccessOffset"

// FileAccessLength is the requested hunk length.
const FileAccessLength = "FileAccessLength"

// FileAccessBuffer carries hunk payload.
const FileAccessBuffer = "FileAccessBuffer"

// ---- ENUM VALUES ----

const (
	OpenModeRead  = "Read"
	OpenModeWrite = "Write"
)

const (
	OperationOpen  = "Open"
	OperationRead  = "Read"
	OperationWrite = "Write"
	OperationClose = "Close"
)

// All lists every register the file access protocol touches.
var All = []string{
	FileSelector,
	FileOpenMode,
	FileOperationSelector,
	FileOperationExecute,
	FileOperationStatus,
	FileOperationResult,
	FileSize,
	FileAccessOffset,
	FileAccessLength,
	FileAccessBuffer,
}

// EnumMembers lists the values the protocol writes to (or expects from) each enum register.
var EnumMembers = map[string][]string{
	FileOpenMode:          {OpenModeRead, OpenModeWrite},
	FileOperationSelector: {OperationOpen, OperationRead, OperationWrite, OperationClose},
}
