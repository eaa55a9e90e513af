// Package schedule holds the calendar math behind appointment booking:
// working-hours parsing and slot overlap checks.
package schedule

import (
	"regexp"
	"strconv"
	"strings"
)

// Default working-hour range applied when a provider's working-hours text is
// missing or unparseable. Booking stays available rather than failing the
// request.
const (
	DefaultStartHour = 9
	DefaultEndHour   = 17
)

// WorkingHours is a half-open [StartHour, EndHour) range on a 24-hour clock.
type WorkingHours struct {
	StartHour int
	EndHour   int
}

var hoursPattern = regexp.MustCompile(`(?i)^\s*(\d{1,2})\s*(AM|PM)\s*-\s*(\d{1,2})\s*(AM|PM)\s*$`)

// ParseWorkingHours turns a free-text interval description such as
// "9 AM - 5 PM" into an hour range. The literal "24/7" means always open.
// Anything else falls back to the default range.
func ParseWorkingHours(text string) WorkingHours {
	fallback := WorkingHours{StartHour: DefaultStartHour, EndHour: DefaultEndHour}

	trimmed := strings.TrimSpace(text)
	if trimmed == "24/7" {
		return WorkingHours{StartHour: 0, EndHour: 24}
	}

	m := hoursPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return fallback
	}

	startHour, ok := toHour24(m[1], m[2])
	if !ok {
		return fallback
	}
	endHour, ok := toHour24(m[3], m[4])
	if !ok {
		return fallback
	}
	if startHour >= endHour {
		return fallback
	}

	return WorkingHours{StartHour: startHour, EndHour: endHour}
}

// Contains reports whether the minutes-of-day interval [startMin, endMin)
// fits inside the working-hour range.
func (wh WorkingHours) Contains(startMin, endMin int) bool {
	return startMin >= wh.StartHour*60 && endMin <= wh.EndHour*60
}

// toHour24 converts a 12-hour clock value and meridiem into a 24-hour value.
// "12 AM" is midnight and "12 PM" is noon.
func toHour24(hourText, meridiem string) (int, bool) {
	hour, err := strconv.Atoi(hourText)
	if err != nil || hour < 1 || hour > 12 {
		return 0, false
	}
	if hour == 12 {
		hour = 0
	}
	if strings.EqualFold(meridiem, "PM") {
		hour += 12
	}
	return hour, true
}
