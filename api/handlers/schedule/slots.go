package schedule

import (
	"strconv"
	"strings"
	"time"
)

// Booking duration bounds in minutes.
const (
	MinDuration = 30
	MaxDuration = 60

	// BookingHorizon is how far ahead an appointment may be booked.
	BookingHorizon = 7 * 24 * time.Hour
)

// Overlaps reports whether two half-open slots [aStart, aStart+aDur) and
// [bStart, bStart+bDur) intersect. Back-to-back slots, where one ends exactly
// as the other starts, do not overlap.
func Overlaps(aStart time.Time, aDur int, bStart time.Time, bDur int) bool {
	aEnd := aStart.Add(time.Duration(aDur) * time.Minute)
	bEnd := bStart.Add(time.Duration(bDur) * time.Minute)
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// CoerceDuration normalizes the duration field of a booking request. JSON
// clients send numbers, numeric strings, or nothing at all; anything
// non-numeric falls back to def. The returned bool is false when a numeric
// duration lies outside [MinDuration, MaxDuration].
func CoerceDuration(raw interface{}, def int) (int, bool) {
	minutes := def
	switch v := raw.(type) {
	case nil:
		// keep default
	case float64:
		minutes = int(v)
	case int:
		minutes = v
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			minutes = parsed
		}
	default:
		// keep default
	}
	if minutes < MinDuration || minutes > MaxDuration {
		return 0, false
	}
	return minutes, true
}
