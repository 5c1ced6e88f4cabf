package store

import "time"

// ComputeProgress returns the completed share of plans as a percentage,
// rounded half up. An empty plan list has zero progress.
func ComputeProgress(plans []Plan) int {
	total := len(plans)
	if total == 0 {
		return 0
	}
	completed := 0
	for _, p := range plans {
		if p.Completed {
			completed++
		}
	}
	// round(100*c/t) in integers: floor((200c + t) / 2t)
	return (200*completed + total) / (2 * total)
}

// ComputeStatus infers a goal's lifecycle state from its plans and date range
// as seen on the calendar day of now. Checks run in order:
//
//  1. past the end date: completed if every plan is done, failed otherwise
//  2. before the start date: not started
//  3. anything else, including both boundary days: in progress
//
// A date that fails to parse never satisfies its comparison.
func ComputeStatus(plans []Plan, startDate, endDate string, now time.Time) Status {
	today := calendarDay(now)

	if end, ok := ParseDate(endDate); ok && today.After(end) {
		for _, p := range plans {
			if !p.Completed {
				return StatusFailed
			}
		}
		return StatusCompleted
	}

	if start, ok := ParseDate(startDate); ok && today.Before(start) {
		return StatusNotStarted
	}

	return StatusInProgress
}

// RemainingDays returns the number of calendar days from now until endDate.
// The result is negative once the end date has passed. ok is false when
// endDate does not parse.
func RemainingDays(endDate string, now time.Time) (days int, ok bool) {
	end, ok := ParseDate(endDate)
	if !ok {
		return 0, false
	}
	return int(end.Sub(calendarDay(now)).Hours() / 24), true
}

// ParseDate parses a YYYY-MM-DD date, also accepting a full RFC 3339
// timestamp whose calendar date is used. The result is midnight UTC.
func ParseDate(s string) (time.Time, bool) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// FormatDate renders t's calendar date in DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// calendarDay drops the time of day, keeping now's local calendar date.
func calendarDay(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
