package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFreeSlots(t *testing.T) {
	day := AvailabilityDay{
		DayOfWeek: "Monday",
		TimeSlots: []TimeSlot{
			{StartTime: "9:00", EndTime: "10:00", AvailableMeetingTypes: []string{"video"}},
			{StartTime: "10:00", EndTime: "11:00", IsBooked: true, AvailableMeetingTypes: []string{"video"}},
			{StartTime: "11:00", EndTime: "12:00", AvailableMeetingTypes: []string{"phone", "inPerson"}},
		},
	}

	free := day.FreeSlots("")
	assert.Len(t, free, 2, "booked slots are hidden")

	video := day.FreeSlots("video")
	assert.Len(t, video, 1)
	assert.Equal(t, "9:00", video[0].StartTime)

	phone := day.FreeSlots("phone")
	assert.Len(t, phone, 1)
	assert.Equal(t, "11:00", phone[0].StartTime)

	assert.Empty(t, day.FreeSlots("telepathy"))
}

func TestTimeSlotOffers(t *testing.T) {
	s := TimeSlot{AvailableMeetingTypes: []string{"video", "inPerson"}}
	assert.True(t, s.Offers("video"))
	assert.True(t, s.Offers("inPerson"))
	assert.False(t, s.Offers("phone"))
	assert.False(t, s.Offers("in-person"), "appointment spelling is not slot spelling")
}

func TestIsValidSavedCategory(t *testing.T) {
	for _, c := range []string{CategoryFavorites, CategoryToContact, CategoryCurrentlySeen, CategoryPastProviders} {
		assert.True(t, IsValidSavedCategory(c), c)
	}
	assert.False(t, IsValidSavedCategory("favorites"), "categories are case sensitive")
	assert.False(t, IsValidSavedCategory("Blocked"))
}
