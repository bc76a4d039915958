package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkthroughit/therapy-api/internal/httperr"
	"github.com/talkthroughit/therapy-api/internal/models"
)

func slot(start, end string, types ...string) models.TimeSlot {
	return models.TimeSlot{
		StartTime:             start,
		EndTime:               end,
		AvailableMeetingTypes: types,
	}
}

func TestValidateDay_AcceptsWellFormedDay(t *testing.T) {
	day := &models.AvailabilityDay{
		DayOfWeek: "Monday",
		TimeSlots: []models.TimeSlot{
			slot("9:00", "10:00", SlotMeetingVideo),
			slot("14:30", "15:30", SlotMeetingPhone, SlotMeetingInPerson),
		},
	}

	assert.NoError(t, ValidateDay(day))
}

func TestValidateDay_TimeFormat(t *testing.T) {
	cases := []struct {
		name  string
		start string
		end   string
		ok    bool
	}{
		{"leading zero", "09:00", "10:00", true},
		{"no leading zero", "9:00", "10:00", true},
		{"midnight", "0:00", "0:30", true},
		{"end of day", "23:00", "23:59", true},
		{"hour out of range", "24:00", "25:00", false},
		{"minute out of range", "10:60", "11:00", false},
		{"missing colon", "0900", "1000", false},
		{"end before start", "11:00", "10:00", false},
		{"end equals start", "10:00", "10:00", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			day := &models.AvailabilityDay{
				DayOfWeek: "Tuesday",
				TimeSlots: []models.TimeSlot{slot(tc.start, tc.end, SlotMeetingVideo)},
			}
			err := ValidateDay(day)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, httperr.IsBusiness(err, "invalid_slot_format"))
			}
		})
	}
}

func TestValidateDay_RejectsUnknownWeekday(t *testing.T) {
	day := &models.AvailabilityDay{
		DayOfWeek: "Funday",
		TimeSlots: []models.TimeSlot{},
	}
	assert.True(t, httperr.IsBusiness(ValidateDay(day), "invalid_day_structure"))
}

func TestValidateDay_RequiresTimeSlotsField(t *testing.T) {
	day := &models.AvailabilityDay{DayOfWeek: "Monday"}
	assert.True(t, httperr.IsBusiness(ValidateDay(day), "invalid_day_structure"))
}

func TestValidateDay_MeetingTypes(t *testing.T) {
	day := &models.AvailabilityDay{
		DayOfWeek: "Friday",
		TimeSlots: []models.TimeSlot{slot("9:00", "10:00")},
	}
	assert.True(t, httperr.IsBusiness(ValidateDay(day), "invalid_slot_format"),
		"a slot with no meeting types must be rejected")

	// Appointment-level spelling is not valid at the slot level.
	day.TimeSlots = []models.TimeSlot{slot("9:00", "10:00", "in-person")}
	assert.True(t, httperr.IsBusiness(ValidateDay(day), "invalid_slot_format"))

	day.TimeSlots = []models.TimeSlot{slot("9:00", "10:00", SlotMeetingInPerson)}
	assert.NoError(t, ValidateDay(day))
}

func TestValidateWeek_NamesTheBadDay(t *testing.T) {
	days := []*models.AvailabilityDay{
		{DayOfWeek: "Monday", TimeSlots: []models.TimeSlot{slot("9:00", "17:00", SlotMeetingVideo)}},
		{DayOfWeek: "Wednesday", TimeSlots: []models.TimeSlot{slot("17:00", "9:00", SlotMeetingVideo)}},
	}

	err := ValidateWeek(days)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Wednesday")
}

func TestWeekdayRank_MondayFirst(t *testing.T) {
	assert.Equal(t, 0, WeekdayRank("Monday"))
	assert.Equal(t, 6, WeekdayRank("Sunday"))
	assert.Less(t, WeekdayRank("Friday"), WeekdayRank("Saturday"))
	assert.Equal(t, 7, WeekdayRank("Funday"), "unknown days sort last")
}

func TestWeekdayName(t *testing.T) {
	// 2026-08-31 is a Monday.
	monday := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "Monday", WeekdayName(monday))
}

func TestMinutesOfDay(t *testing.T) {
	assert.Equal(t, 0, MinutesOfDay("0:00"))
	assert.Equal(t, 9*60+30, MinutesOfDay("9:30"))
	assert.Equal(t, 23*60+59, MinutesOfDay("23:59"))
}
