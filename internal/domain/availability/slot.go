package availability

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/talkthroughit/therapy-api/internal/httperr"
	"github.com/talkthroughit/therapy-api/internal/models"
)

// Meeting types a slot can offer. Note the camelCase "inPerson" here: the
// slot vocabulary differs from the appointment one ("in-person").
const (
	SlotMeetingVideo    = "video"
	SlotMeetingPhone    = "phone"
	SlotMeetingInPerson = "inPerson"
)

var weekdayOrder = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

var timeFormat = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

func IsValidWeekday(day string) bool {
	for _, d := range weekdayOrder {
		if d == day {
			return true
		}
	}
	return false
}

// WeekdayRank orders days Monday first, for stable listings.
func WeekdayRank(day string) int {
	for i, d := range weekdayOrder {
		if d == day {
			return i
		}
	}
	return len(weekdayOrder)
}

// WeekdayName maps a concrete date onto the availability-day vocabulary.
func WeekdayName(t time.Time) string {
	return t.Weekday().String()
}

func isValidSlotMeetingType(mt string) bool {
	switch mt {
	case SlotMeetingVideo, SlotMeetingPhone, SlotMeetingInPerson:
		return true
	}
	return false
}

// MinutesOfDay converts a validated "HH:MM" string to minutes since
// midnight.
func MinutesOfDay(hm string) int {
	parts := strings.SplitN(hm, ":", 2)
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	return h*60 + m
}

// ValidateDay checks a whole day's structure and every slot in it. The
// returned error names the offending weekday so a multi-day update can point
// at the bad entry.
func ValidateDay(day *models.AvailabilityDay) error {
	if day.DayOfWeek == "" || !IsValidWeekday(day.DayOfWeek) {
		return httperr.ErrBusinessMsg(
			"invalid_day_structure",
			fmt.Sprintf("Invalid data structure for %q: dayOfWeek must be a weekday name", day.DayOfWeek),
		)
	}
	if day.TimeSlots == nil {
		return httperr.ErrBusinessMsg(
			"invalid_day_structure",
			fmt.Sprintf("Invalid data structure for %s: timeSlots is required", day.DayOfWeek),
		)
	}

	for _, slot := range day.TimeSlots {
		if err := validateSlot(day.DayOfWeek, slot); err != nil {
			return err
		}
	}
	return nil
}

func validateSlot(day string, slot models.TimeSlot) error {
	if !timeFormat.MatchString(slot.StartTime) || !timeFormat.MatchString(slot.EndTime) {
		return httperr.ErrBusinessMsg(
			"invalid_slot_format",
			fmt.Sprintf("Invalid time slot on %s: times must be HH:MM", day),
		)
	}

	if MinutesOfDay(slot.EndTime) <= MinutesOfDay(slot.StartTime) {
		return httperr.ErrBusinessMsg(
			"invalid_slot_format",
			fmt.Sprintf("Invalid time slot on %s: end time must be after start time", day),
		)
	}

	if len(slot.AvailableMeetingTypes) == 0 {
		return httperr.ErrBusinessMsg(
			"invalid_slot_format",
			fmt.Sprintf("Invalid time slot on %s: at least one meeting type is required", day),
		)
	}
	for _, mt := range slot.AvailableMeetingTypes {
		if !isValidSlotMeetingType(mt) {
			return httperr.ErrBusinessMsg(
				"invalid_slot_format",
				fmt.Sprintf("Invalid time slot on %s: unknown meeting type %q", day, mt),
			)
		}
	}
	return nil
}

// ValidateWeek validates every day before any of them is persisted, so a
// bad Wednesday cannot leave Monday half-applied.
func ValidateWeek(days []*models.AvailabilityDay) error {
	for _, d := range days {
		if err := ValidateDay(d); err != nil {
			return err
		}
	}
	return nil
}
