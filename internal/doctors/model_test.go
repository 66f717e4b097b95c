package doctors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDoctor() *Doctor {
	return &Doctor{
		ID:              "DR001",
		Name:            "Dr. Rajesh Kumar",
		Specialty:       "General Physician",
		AvailableDays:   []string{"Mon", "Tue", "Wed", "Thu", "Fri"},
		DayStart:        "09:00",
		DayEnd:          "17:00",
		MeetingPlatform: "zoom",
		MeetingRoom:     "https://zoom.us/j/1234567890",
		Status:          StatusActive,
	}
}

func TestAvailableOn(t *testing.T) {
	d := sampleDoctor()

	assert.True(t, d.AvailableOn(time.Monday))
	assert.True(t, d.AvailableOn(time.Friday))
	assert.False(t, d.AvailableOn(time.Saturday))
	assert.False(t, d.AvailableOn(time.Sunday))
}

func TestAvailableOnTrimsWhitespace(t *testing.T) {
	d := sampleDoctor()
	d.AvailableDays = []string{"Mon", " Wed", "Fri "}

	assert.True(t, d.AvailableOn(time.Wednesday))
	assert.True(t, d.AvailableOn(time.Friday))
}

func TestWindow(t *testing.T) {
	d := sampleDoctor()

	start, end, err := d.Window()
	require.NoError(t, err)
	assert.Equal(t, 9*60, start)
	assert.Equal(t, 17*60, end)
}

func TestWindowHalfHourBounds(t *testing.T) {
	d := sampleDoctor()
	d.DayStart = "08:30"
	d.DayEnd = "12:30"

	start, end, err := d.Window()
	require.NoError(t, err)
	assert.Equal(t, 8*60+30, start)
	assert.Equal(t, 12*60+30, end)
}

func TestWindowInvalid(t *testing.T) {
	d := sampleDoctor()

	d.DayStart = "9am"
	_, _, err := d.Window()
	assert.ErrorIs(t, err, ErrInvalidWindow)

	d.DayStart = "17:00"
	d.DayEnd = "09:00"
	_, _, err = d.Window()
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestValidate(t *testing.T) {
	d := sampleDoctor()
	assert.NoError(t, d.Validate())

	d.Name = "  "
	assert.Error(t, d.Validate())

	d = sampleDoctor()
	d.AvailableDays = nil
	assert.Error(t, d.Validate())

	d = sampleDoctor()
	d.AvailableDays = []string{"Monday"}
	assert.Error(t, d.Validate())

	d = sampleDoctor()
	d.Status = "retired"
	assert.Error(t, d.Validate())
}

func TestActive(t *testing.T) {
	d := sampleDoctor()
	assert.True(t, d.Active())

	d.Status = StatusInactive
	assert.False(t, d.Active())
}
