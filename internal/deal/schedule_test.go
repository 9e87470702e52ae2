package deal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func timePtr(t time.Time) *time.Time { return &t }

// 2025-06-04 is a Wednesday.
var wednesdayNoon = time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)

func TestIsActiveNow_ValidityWindowOverridesEverything(t *testing.T) {
	d := &Deal{
		Title:      "Half-price pho",
		DealPrice:  7.5,
		ValidDays:  AllDays,
		StartTime:  "00:00",
		EndTime:    "23:59",
		ValidUntil: timePtr(wednesdayNoon.Add(-time.Hour)),
	}
	assert.False(t, IsActiveNow(d, wednesdayNoon), "past validUntil is always inactive")

	d.ValidUntil = nil
	d.ValidFrom = timePtr(wednesdayNoon.Add(time.Hour))
	assert.False(t, IsActiveNow(d, wednesdayNoon), "future validFrom is always inactive")
}

func TestIsActiveNow_DayMask(t *testing.T) {
	d := &Deal{Title: "Taco Tuesday", DealPrice: 5, ValidDays: Tuesday | Thursday}

	assert.False(t, IsActiveNow(d, wednesdayNoon), "Tue|Thu deal is inactive on Wednesday")
	assert.True(t, IsActiveNow(d, wednesdayNoon.AddDate(0, 0, 1)), "active on Thursday")
	assert.True(t, IsActiveNow(d, wednesdayNoon.AddDate(0, 0, -1)), "active on Tuesday")
}

func TestIsActiveNow_DayMaskWithTimeFields(t *testing.T) {
	// Day restriction wins regardless of time-of-day fields.
	d := &Deal{
		Title:     "Wings night",
		DealPrice: 9,
		ValidDays: Tuesday | Thursday,
		StartTime: "00:00",
		EndTime:   "23:59",
	}
	assert.False(t, IsActiveNow(d, wednesdayNoon))
}

func TestIsActiveNow_UnrestrictedMasks(t *testing.T) {
	for _, mask := range []uint8{0, AllDays} {
		d := &Deal{Title: "All week", DealPrice: 6, ValidDays: mask}
		assert.True(t, IsActiveNow(d, wednesdayNoon), "mask %d means every day", mask)
	}
}

func TestIsActiveNow_IntradayWindow(t *testing.T) {
	d := &Deal{Title: "Happy hour", DealPrice: 4, StartTime: "15:00", EndTime: "18:00"}

	at := func(hh, mm int) time.Time {
		return time.Date(2025, 6, 4, hh, mm, 0, 0, time.UTC)
	}

	assert.False(t, IsActiveNow(d, at(14, 59)))
	assert.True(t, IsActiveNow(d, at(15, 0)))
	assert.True(t, IsActiveNow(d, at(17, 30)))
	assert.True(t, IsActiveNow(d, at(18, 0)))
	assert.False(t, IsActiveNow(d, at(18, 1)))
}

func TestIsActiveNow_StartTimeAloneIsIgnored(t *testing.T) {
	d := &Deal{Title: "Late start", DealPrice: 5, StartTime: "22:00"}
	assert.True(t, IsActiveNow(d, wednesdayNoon), "window applies only when both ends are set")
}

func TestTimeRemainingText_NoExpiryFields(t *testing.T) {
	d := &Deal{Title: "Forever", DealPrice: 5}
	_, ok := TimeRemainingText(d, wednesdayNoon)
	assert.False(t, ok)
}

func TestTimeRemainingText_EndTimeToday(t *testing.T) {
	d := &Deal{Title: "Lunch special", DealPrice: 8, StartTime: "11:00", EndTime: "14:00"}

	text, ok := TimeRemainingText(d, time.Date(2025, 6, 4, 13, 15, 0, 0, time.UTC))
	assert.True(t, ok)
	assert.Equal(t, "Ends in 45min", text)

	text, ok = TimeRemainingText(d, time.Date(2025, 6, 4, 12, 30, 0, 0, time.UTC))
	assert.True(t, ok)
	assert.Equal(t, "Ends in 1hr 30min", text)

	d2 := &Deal{Title: "All day", DealPrice: 8, StartTime: "08:00", EndTime: "22:00"}
	text, ok = TimeRemainingText(d2, time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC))
	assert.True(t, ok)
	assert.Equal(t, "Until 22:00", text)
}

func TestTimeRemainingText_PastEndTimeDoesNotWrap(t *testing.T) {
	d := &Deal{Title: "Lunch special", DealPrice: 8, StartTime: "11:00", EndTime: "14:00"}
	_, ok := TimeRemainingText(d, time.Date(2025, 6, 4, 14, 30, 0, 0, time.UTC))
	assert.False(t, ok)
}

func TestTimeRemainingText_ValidUntil(t *testing.T) {
	until := func(d time.Duration) *Deal {
		return &Deal{Title: "Limited", DealPrice: 8, ValidUntil: timePtr(wednesdayNoon.Add(d))}
	}

	text, ok := TimeRemainingText(until(5*time.Hour), wednesdayNoon)
	assert.True(t, ok)
	assert.Equal(t, "Ends in 5hr", text)

	text, ok = TimeRemainingText(until(30*time.Hour), wednesdayNoon)
	assert.True(t, ok)
	assert.Equal(t, "Ends tomorrow", text)

	_, ok = TimeRemainingText(until(72*time.Hour), wednesdayNoon)
	assert.False(t, ok, "far-future expiries show no badge")

	_, ok = TimeRemainingText(until(-time.Hour), wednesdayNoon)
	assert.False(t, ok)
}

func TestValidDaysText(t *testing.T) {
	tests := []struct {
		mask     uint8
		expected string
	}{
		{0, "Every day"},
		{AllDays, "Every day"},
		{Weekdays, "Weekdays"},
		{Weekends, "Weekends"},
		{Monday | Wednesday | Friday, "Mon, Wed, Fri"},
		{Tuesday | Thursday, "Tue, Thu"},
		{Sunday, "Sun"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, ValidDaysText(tc.mask), "mask %d", tc.mask)
	}
}

func TestNetVotesAndSavings(t *testing.T) {
	orig := 12.0
	d := &Deal{Title: "Combo", DealPrice: 9, OriginalPrice: &orig, Upvotes: 10, Downvotes: 3}

	assert.Equal(t, 7, d.NetVotes())

	amount, ok := d.SavingsAmount()
	assert.True(t, ok)
	assert.InDelta(t, 3.0, amount, 1e-9)

	pct, ok := d.SavingsPercent()
	assert.True(t, ok)
	assert.InDelta(t, 25.0, pct, 1e-9)

	d.OriginalPrice = nil
	_, ok = d.SavingsAmount()
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	valid := func() *Deal {
		return &Deal{
			RestaurantID: "r1",
			Title:        "Student bowl",
			DealPrice:    8.5,
			Type:         TypeStudent,
			Source:       SourceUserSubmitted,
		}
	}

	assert.NoError(t, Validate(valid()))

	d := valid()
	d.Title = "ab"
	err := Validate(d)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "title")

	d = valid()
	d.DealPrice = 20
	err = Validate(d)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "under")

	d = valid()
	d.DealPrice = 0
	assert.Error(t, Validate(d))

	d = valid()
	d.RestaurantID = " "
	assert.Error(t, Validate(d))

	d = valid()
	d.StartTime = "9:00"
	d.EndTime = "11:00"
	err = Validate(d)
	assert.Error(t, err, "times must be zero-padded")

	d = valid()
	d.StartTime = "09:00"
	err = Validate(d)
	assert.Error(t, err, "start without end is rejected")

	d = valid()
	low := 5.0
	d.OriginalPrice = &low
	assert.Error(t, Validate(d), "original price must exceed deal price")
}
