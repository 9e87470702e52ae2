package deal

import "time"

// Type classifies how a deal recurs or is scoped.
type Type string

const (
	TypeDaily     Type = "daily"
	TypeWeekly    Type = "weekly"
	TypeLimited   Type = "limited"
	TypeStudent   Type = "student"
	TypeHappyHour Type = "happy-hour"
	TypeCombo     Type = "combo"
)

// Source records where a deal came from.
type Source string

const (
	SourceOfficial      Source = "official"
	SourceVerified      Source = "verified"
	SourceUserSubmitted Source = "user-submitted"
	SourceScraped       Source = "scraped"
)

// Day-of-week bits, Monday first. A ValidDays mask of 0 or AllDays means the
// deal runs every day.
const (
	Monday uint8 = 1 << iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

const (
	AllDays  uint8 = Monday | Tuesday | Wednesday | Thursday | Friday | Saturday | Sunday
	Weekdays uint8 = Monday | Tuesday | Wednesday | Thursday | Friday
	Weekends uint8 = Saturday | Sunday
)

// Deal is a recurring or time-limited cheap-price offer at a restaurant.
type Deal struct {
	ID             string
	RestaurantID   string
	RestaurantName string
	Title          string
	Description    string

	// OriginalPrice is the regular price, when known. DealPrice is the
	// defining cheap price and is always required.
	OriginalPrice *float64
	DealPrice     float64

	Type   Type
	Source Source

	// ValidDays is a 7-bit day-of-week mask. StartTime/EndTime are
	// zero-padded "HH:MM" strings; empty means no intraday window.
	ValidDays uint8
	StartTime string
	EndTime   string

	ValidFrom  *time.Time
	ValidUntil *time.Time

	Upvotes     int
	Downvotes   int
	ReportCount int

	CreatedAt time.Time
}

// NetVotes returns upvotes minus downvotes.
func (d *Deal) NetVotes() int {
	return d.Upvotes - d.Downvotes
}

// SavingsAmount returns the absolute saving against the original price.
// The boolean is false when the original price is unknown or not higher
// than the deal price.
func (d *Deal) SavingsAmount() (float64, bool) {
	if d.OriginalPrice == nil || *d.OriginalPrice <= d.DealPrice {
		return 0, false
	}
	return *d.OriginalPrice - d.DealPrice, true
}

// SavingsPercent returns the saving as a percentage of the original price.
func (d *Deal) SavingsPercent() (float64, bool) {
	amount, ok := d.SavingsAmount()
	if !ok {
		return 0, false
	}
	return amount / *d.OriginalPrice * 100, true
}
