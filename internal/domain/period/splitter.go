// Package period splits a reporting date range into bounded windows for
// the deduction-invoice endpoint, which silently drops data when queried
// over long ranges.
package period

import "time"

// DefaultWindowDays is the span of one window in calendar days.
const DefaultWindowDays = 15

// LegacyWindowCount is the fixed window count of the legacy splitter.
const LegacyWindowCount = 3

// Window is one query window. Start and End are inclusive calendar dates;
// End is queried through end-of-day.
type Window struct {
	Start time.Time
	End   time.Time
}

// StartMillis returns the window start as a millisecond epoch timestamp
// at midnight.
func (w Window) StartMillis() int64 {
	return w.Start.UnixMilli()
}

// EndMillis returns the window end as a millisecond epoch timestamp at
// the last instant of the day, making the end bound inclusive.
func (w Window) EndMillis() int64 {
	endOfDay := w.End.AddDate(0, 0, 1).Add(-time.Millisecond)
	return endOfDay.UnixMilli()
}

// Days returns the window length in calendar days, both bounds inclusive.
func (w Window) Days() int {
	return int(w.End.Sub(w.Start).Hours()/24) + 1
}

// Split partitions [start, end] into contiguous windows of at most
// windowDays days, the last one clipped to end. The whole requested range
// is always covered, however long or short it is.
func Split(start, end time.Time, windowDays int) []Window {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	start = truncateToDay(start)
	end = truncateToDay(end)
	if end.Before(start) {
		return nil
	}

	var windows []Window
	for cursor := start; !cursor.After(end); cursor = cursor.AddDate(0, 0, windowDays) {
		windowEnd := cursor.AddDate(0, 0, windowDays-1)
		if windowEnd.After(end) {
			windowEnd = end
		}
		windows = append(windows, Window{Start: cursor, End: windowEnd})
	}

	return windows
}

// SplitLegacy reproduces the historical behavior: exactly three 15-day
// windows starting at start, the requested end date ignored. Ranges
// shorter than 45 days are over-covered and longer ones under-covered;
// kept behind a config flag for byte-for-byte report compatibility.
func SplitLegacy(start time.Time) []Window {
	start = truncateToDay(start)

	windows := make([]Window, 0, LegacyWindowCount)
	for i := 0; i < LegacyWindowCount; i++ {
		windowStart := start.AddDate(0, 0, i*DefaultWindowDays)
		windowEnd := windowStart.AddDate(0, 0, DefaultWindowDays-1)
		windows = append(windows, Window{Start: windowStart, End: windowEnd})
	}

	return windows
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
