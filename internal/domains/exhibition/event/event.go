package event

//go:generate go run go.uber.org/mock/mockgen -source=./event.go -destination=../mocks/event_mock.go -package=mocks

import (
	"context"
	"expo/config"
	"expo/infras/kafka"
	"expo/internal/domains/exhibition/model"
	"expo/shared/constant"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

type Type string

const (
	TypeSaved    Type = "exhibition.saved"
	TypeDeleted  Type = "exhibition.deleted"
	TypeReminder Type = "exhibition.reminder"
)

type Payload struct {
	Type          Type         `json:"type"`
	ExhibitionID  string       `json:"exhibition_id"`
	UserID        string       `json:"user_id"`
	Title         string       `json:"title"`
	Status        model.Status `json:"status"`
	EndDate       string       `json:"end_date,omitempty"`
	DaysRemaining *int         `json:"days_remaining,omitempty"`
	OccurredAt    time.Time    `json:"occurred_at"`
}

func NewPayload(eventType Type, m model.Exhibition, occurredAt time.Time) Payload {
	payload := Payload{
		Type:         eventType,
		ExhibitionID: m.ID,
		UserID:       m.UserID,
		Title:        m.Title,
		Status:       m.Status,
		OccurredAt:   occurredAt,
	}

	if m.EndDate != nil {
		payload.EndDate = m.EndDate.Format(constant.CalendarLayout)
	}

	return payload
}

type Publisher interface {
	Publish(ctx context.Context, payloads ...Payload) error
}

type kafkaPublisher struct {
	client kafka.Client
	topic  string
}

type noopPublisher struct{}

// New publishes to Kafka when enabled; otherwise events are only logged.
func New(cfg *config.Config, client kafka.Client) Publisher {
	if !cfg.Kafka.Enable {
		return &noopPublisher{}
	}

	return &kafkaPublisher{
		client: client,
		topic:  cfg.Kafka.Topic,
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, payloads ...Payload) error {
	if len(payloads) == 0 {
		return nil
	}

	messages := make([]kafka.Message, len(payloads))
	for i, payload := range payloads {
		messages[i] = kafka.Message{Key: payload.ExhibitionID, Value: payload}
	}

	if err := p.client.SendMessages(ctx, p.topic, messages...); err != nil {
		return fmt.Errorf("failed to publish exhibition events: %w", err)
	}

	return nil
}

func (p *noopPublisher) Publish(_ context.Context, payloads ...Payload) error {
	for _, payload := range payloads {
		log.Debug().
			Str("type", string(payload.Type)).
			Str("exhibition_id", payload.ExhibitionID).
			Msg("event publishing disabled, skipped")
	}

	return nil
}
