package deal

import (
	"fmt"
	"strings"
	"time"
)

var dayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// dayMask returns the single-bit Monday-first mask for t's weekday.
func dayMask(t time.Time) uint8 {
	// time.Weekday counts Sunday as 0.
	return 1 << ((uint(t.Weekday()) + 6) % 7)
}

// IsActiveNow reports whether the deal is active at the given instant.
// All conditions are AND-ed: the absolute validity window, the day-of-week
// mask, and the intraday time range.
func IsActiveNow(d *Deal, now time.Time) bool {
	if d.ValidFrom != nil && now.Before(*d.ValidFrom) {
		return false
	}
	if d.ValidUntil != nil && now.After(*d.ValidUntil) {
		return false
	}

	if d.ValidDays != 0 && d.ValidDays != AllDays && d.ValidDays&dayMask(now) == 0 {
		return false
	}

	// Lexicographic comparison of zero-padded 24-hour "HH:MM" strings is
	// exact for this representation; keep it, do not switch to numeric.
	if d.StartTime != "" && d.EndTime != "" {
		current := now.Format("15:04")
		if current < d.StartTime || current > d.EndTime {
			return false
		}
	}

	return true
}

// TimeRemainingText renders a short expiry badge for an active deal.
// The boolean is false when the deal has no expiry to show: neither
// ValidUntil nor EndTime set, an already-passed window, or an expiry
// more than 48 hours out.
func TimeRemainingText(d *Deal, now time.Time) (string, bool) {
	if d.ValidUntil == nil && d.EndTime == "" {
		return "", false
	}

	if d.EndTime != "" && IsActiveNow(d, now) {
		end, err := clockToday(d.EndTime, now)
		if err != nil {
			return "", false
		}
		mins := int(end.Sub(now).Minutes())
		if mins <= 0 {
			// Already past today's window; never wrap to the next day.
			return "", false
		}
		switch {
		case mins < 60:
			return fmt.Sprintf("Ends in %dmin", mins), true
		case mins < 120:
			return fmt.Sprintf("Ends in 1hr %dmin", mins-60), true
		default:
			return "Until " + d.EndTime, true
		}
	}

	if d.ValidUntil != nil {
		hours := int(d.ValidUntil.Sub(now).Hours())
		if hours <= 0 {
			return "", false
		}
		switch {
		case hours < 24:
			return fmt.Sprintf("Ends in %dhr", hours), true
		case hours < 48:
			return "Ends tomorrow", true
		default:
			// Far-future expiries show no badge.
			return "", false
		}
	}

	return "", false
}

// ValidDaysText renders a day-of-week mask for display.
func ValidDaysText(mask uint8) string {
	switch mask {
	case 0, AllDays:
		return "Every day"
	case Weekdays:
		return "Weekdays"
	case Weekends:
		return "Weekends"
	}

	var days []string
	for i := 0; i < 7; i++ {
		if mask&(1<<uint(i)) != 0 {
			days = append(days, dayNames[i])
		}
	}
	return strings.Join(days, ", ")
}

// clockToday resolves an "HH:MM" string to that time on now's date.
func clockToday(clock string, now time.Time) (time.Time, error) {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse clock %q: %w", clock, err)
	}
	return time.Date(now.Year(), now.Month(), now.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, now.Location()), nil
}
