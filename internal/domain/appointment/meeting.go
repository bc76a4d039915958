package appointment

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/talkthroughit/therapy-api/internal/httperr"
	"github.com/talkthroughit/therapy-api/internal/models"
)

// Appointment meeting types. "in-person" is spelled with a hyphen on this
// entity, unlike the slot-level "inPerson".
const (
	MeetingVideo    = "video"
	MeetingPhone    = "phone"
	MeetingInPerson = "in-person"
)

func IsValidMeetingType(mt string) bool {
	switch mt {
	case MeetingVideo, MeetingPhone, MeetingInPerson:
		return true
	}
	return false
}

var meetingLinkNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("meet.talkthrough.it"))

// SynthesizeMeetingLink derives a stable link from the appointment identity,
// so retried bookings of the same appointment produce the same room.
func SynthesizeMeetingLink(ap *models.Appointment) string {
	seed := fmt.Sprintf("%d-%d-%d", ap.ClientID, ap.ProviderID, ap.Datetime.Unix())
	room := uuid.NewSHA1(meetingLinkNamespace, []byte(seed))
	return "https://meet.talkthrough.it/" + room.String()
}

// PrepareMeetingMeta validates the metadata a meeting type requires and
// fills in the synthesized video link when none was supplied.
func PrepareMeetingMeta(ap *models.Appointment) error {
	switch ap.MeetingType {
	case MeetingVideo:
		if ap.MeetingLink == "" {
			ap.MeetingLink = SynthesizeMeetingLink(ap)
		}
	case MeetingPhone:
		// nothing required
	case MeetingInPerson:
		if ap.Location == "" {
			return httperr.ErrBusinessMsg(
				"location_required",
				"In-person appointments require a location",
			)
		}
	default:
		return httperr.ErrBusinessMsg(
			"invalid_meeting_type",
			fmt.Sprintf("Unknown meeting type %q", ap.MeetingType),
		)
	}
	return nil
}
