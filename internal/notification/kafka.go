package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/talkthroughit/therapy-api/internal/models"
)

// KafkaSender publishes appointment notices to a topic consumed by the
// external mailer. The API never talks SMTP itself.
type KafkaSender struct {
	writer *kafka.Writer
	topic  string
}

func NewKafkaSender(broker, topic string) (*KafkaSender, error) {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(broker),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
	}

	conn, err := kafka.Dial("tcp", broker)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Kafka: %w", err)
	}
	defer conn.Close()

	return &KafkaSender{writer: writer, topic: topic}, nil
}

type noticePayload struct {
	Event              string    `json:"event"`
	AppointmentID      uint      `json:"appointmentId"`
	ClientID           uint      `json:"clientId"`
	ProviderID         uint      `json:"providerId"`
	Datetime           time.Time `json:"datetime"`
	DurationMinutes    int       `json:"durationMinutes"`
	Status             string    `json:"status"`
	MeetingType        string    `json:"meetingType"`
	MeetingLink        string    `json:"meetingLink,omitempty"`
	Location           string    `json:"location,omitempty"`
	CancellationReason string    `json:"cancellationReason,omitempty"`
}

func (s *KafkaSender) SendAppointmentNotice(ctx context.Context, ap *models.Appointment, kind string) error {
	payload, err := json.Marshal(noticePayload{
		Event:              kind,
		AppointmentID:      ap.ID,
		ClientID:           ap.ClientID,
		ProviderID:         ap.ProviderID,
		Datetime:           ap.Datetime,
		DurationMinutes:    ap.DurationMinutes,
		Status:             ap.Status,
		MeetingType:        ap.MeetingType,
		MeetingLink:        ap.MeetingLink,
		Location:           ap.Location,
		CancellationReason: ap.CancellationReason,
	})
	if err != nil {
		return err
	}

	return s.writer.WriteMessages(ctx, kafka.Message{
		Topic: s.topic,
		Key:   []byte(strconv.FormatUint(uint64(ap.ID), 10)),
		Value: payload,
	})
}

func (s *KafkaSender) Close() error {
	return s.writer.Close()
}
