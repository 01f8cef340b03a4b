package schedule

import (
	"fmt"
	"slices"
	"time"
)

// Matches reports whether the window covers the given instant. The
// instant is converted into the window's timezone before any comparison,
// so evaluation stays correct across DST transitions. An unknown
// timezone makes the window non-matching and is returned as an error for
// the caller to surface; it never panics.
func (w *Window) Matches(at time.Time) (bool, error) {
	loc, err := time.LoadLocation(w.Timezone)
	if err != nil {
		return false, fmt.Errorf("window %q: unknown timezone %q: %w", w.Name, w.Timezone, err)
	}
	local := at.In(loc)

	// A window without days and dates can never match. Construction
	// rejects this; the guard keeps the matcher total anyway.
	if len(w.Days) == 0 && len(w.Dates) == 0 {
		return false, nil
	}

	if len(w.Dates) > 0 && !slices.Contains(w.Dates, local.Format("2006-01-02")) {
		return false, nil
	}

	if len(w.Days) > 0 && !slices.Contains(w.Days, local.Weekday()) {
		return false, nil
	}

	// Start inclusive, end exclusive.
	minute := local.Hour()*60 + local.Minute()
	if w.Start != nil && minute < w.Start.Minutes() {
		return false, nil
	}
	if w.End != nil && minute >= w.End.Minutes() {
		return false, nil
	}

	return true, nil
}
