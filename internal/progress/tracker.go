// internal/progress/tracker.go
package progress

// Tracker detects 10%-of-total boundary crossings.
// One Tracker belongs to one transfer.
type Tracker struct {
	total  int64
	decile int64
}

// NewTracker creates a tracker for a transfer of total bytes.
func NewTracker(total int64) *Tracker {
	return &Tracker{total: total}
}

// Advance records the new cumulative offset. It returns the integer
// percentage and true when at least one 10% boundary was crossed since the
// last report. Percentages never decrease and never exceed 100.
func (t *Tracker) Advance(offset int64) (int, bool) {
	if t.total <= 0 {
		return 0, false
	}
	if offset > t.total {
		offset = t.total
	}

	d := offset * 10 / t.total
	if d <= t.decile {
		return 0, false
	}
	t.decile = d
	return int(offset * 100 / t.total), true
}
