// internal/transfer/hunk.go
package transfer

// Hunk is one planned Read/Write operation.
type Hunk struct {
	Offset int64
	Length int64
}

// Pad4 returns b extended with zero bytes to a multiple of 4.
// b is returned unchanged when already aligned.
func Pad4(b []byte) []byte {
	rem := len(b) % 4
	if rem == 0 {
		return b
	}
	out := make([]byte, len(b)+4-rem)
	copy(out, b)
	return out
}

// HunkPlan lists the hunks of a transfer of total bytes when every hunk is
// fully acknowledged: ceil(total/size) hunks, offsets strictly increasing
// from 0, each of length min(size, total-offset).
func HunkPlan(total int64, size int) []Hunk {
	if total <= 0 || size <= 0 {
		return nil
	}
	h := int64(size)
	out := make([]Hunk, 0, (total+h-1)/h)
	for off := int64(0); off < total; off += h {
		out = append(out, Hunk{Offset: off, Length: min(h, total-off)})
	}
	return out
}
