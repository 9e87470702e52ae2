package deal

import (
	"fmt"
	"strings"
	"time"
)

// Submission limits. Deals are for cheap eats: anything priced at or above
// the ceiling is not a deal this program carries.
const (
	PriceCeiling   = 15.0
	MinTitleLength = 3
)

// ValidationError is an explicit rejection of a deal submission, carrying a
// human-readable reason. It is the only error Validate returns.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid deal: " + e.Reason
}

// Validate checks a deal submission. It returns a *ValidationError describing
// the first problem found, or nil when the submission is acceptable.
func Validate(d *Deal) error {
	if strings.TrimSpace(d.RestaurantID) == "" {
		return &ValidationError{Reason: "restaurant id is required"}
	}
	if len(strings.TrimSpace(d.Title)) < MinTitleLength {
		return &ValidationError{Reason: fmt.Sprintf("title must be at least %d characters", MinTitleLength)}
	}
	if d.DealPrice <= 0 {
		return &ValidationError{Reason: "deal price must be positive"}
	}
	if d.DealPrice >= PriceCeiling {
		return &ValidationError{Reason: fmt.Sprintf("deal price must be under $%.0f", PriceCeiling)}
	}
	if d.OriginalPrice != nil && *d.OriginalPrice <= d.DealPrice {
		return &ValidationError{Reason: "original price must be higher than the deal price"}
	}
	if err := validateClock(d.StartTime); err != nil {
		return err
	}
	if err := validateClock(d.EndTime); err != nil {
		return err
	}
	if (d.StartTime == "") != (d.EndTime == "") {
		return &ValidationError{Reason: "start and end time must be set together"}
	}
	if d.ValidFrom != nil && d.ValidUntil != nil && d.ValidUntil.Before(*d.ValidFrom) {
		return &ValidationError{Reason: "valid-until must not precede valid-from"}
	}
	return nil
}

// validateClock accepts an empty string or a zero-padded "HH:MM".
func validateClock(clock string) error {
	if clock == "" {
		return nil
	}
	if len(clock) != 5 || clock[2] != ':' {
		return &ValidationError{Reason: fmt.Sprintf("time %q must be zero-padded HH:MM", clock)}
	}
	if _, err := clockToday(clock, time.Time{}); err != nil {
		return &ValidationError{Reason: fmt.Sprintf("time %q must be a valid HH:MM", clock)}
	}
	return nil
}
