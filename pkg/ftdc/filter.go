package ftdc

import "time"

// pathMargin is added on either side of a requested time window before it
// is applied to file-level timestamps: a single file covers many chunks
// that can span hours past the file's own header timestamp, so filtering
// files strictly by that timestamp would silently drop chunks that
// straddle the window boundary.
const pathMargin = 4 * time.Hour

// TimeWindow is an optional, closed (see Contains) interval in
// UTC. A nil Start or End means unbounded on that side. TimeWindow has no
// mutable state and may be shared across pipeline stages.
type TimeWindow struct {
	Start *time.Time
	End   *time.Time
}

// Contains reports whether ts falls within the window, closed on both
// ends. An unbounded side always matches.
func (w TimeWindow) Contains(ts time.Time) bool {
	if w.Start != nil && ts.Before(*w.Start) {
		return false
	}
	if w.End != nil && ts.After(*w.End) {
		return false
	}
	return true
}

// containsWithMargin is Contains with margin subtracted from Start and
// added to End before comparison.
func (w TimeWindow) containsWithMargin(ts time.Time, margin time.Duration) bool {
	if w.Start != nil && ts.Before(w.Start.Add(-margin)) {
		return false
	}
	if w.End != nil && ts.After(w.End.Add(margin)) {
		return false
	}
	return true
}

// overlaps reports whether the closed interval [start, end] intersects the
// window. It is symmetric in the sense that widening the window can only
// add overlapping intervals, never remove them.
func (w TimeWindow) overlaps(start, end time.Time) bool {
	if w.Start != nil && end.Before(*w.Start) {
		return false
	}
	if w.End != nil && start.After(*w.End) {
		return false
	}
	return true
}

// Filter is the purely descriptive, immutable selection criteria a caller
// supplies to Open: an optional hostname and an optional time window.
type Filter struct {
	Hostname string
	Start    *time.Time
	End      *time.Time
}

func (f Filter) window() TimeWindow {
	return TimeWindow{Start: f.Start, End: f.End}
}
