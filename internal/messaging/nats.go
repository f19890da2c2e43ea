package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chative-ordering/orderbot/internal/agent/model"
	logx "github.com/chative-ordering/orderbot/pkg/logger"
)

// Publisher is the part of *nats.Conn the outbound publisher needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Envelope is the JSON document published for each outward message.
// Platform workers render it for their channel.
type Envelope struct {
	Kind     string                `json:"kind"`
	UserID   string                `json:"user_id"`
	Platform model.Platform        `json:"platform"`
	Text     string                `json:"text,omitempty"`
	List     *model.SelectableList `json:"list,omitempty"`
	Buttons  *model.ButtonMessage  `json:"buttons,omitempty"`
	SentAt   time.Time             `json:"sent_at"`
}

const (
	KindText         = "text"
	KindList         = "list"
	KindButtons      = "buttons"
	KindOrderSummary = "order_summary"
)

// NATSMessenger publishes every outward message to <prefix>.<platform>.
type NATSMessenger struct {
	pub    Publisher
	prefix string
	now    func() time.Time
}

func NewNATSMessenger(pub Publisher, subjectPrefix string) *NATSMessenger {
	return &NATSMessenger{pub: pub, prefix: subjectPrefix, now: time.Now}
}

func (m *NATSMessenger) SendText(_ context.Context, to model.Recipient, text string) error {
	return m.publish(to, Envelope{Kind: KindText, Text: text})
}

func (m *NATSMessenger) SendSelectableList(_ context.Context, to model.Recipient, list model.SelectableList) error {
	return m.publish(to, Envelope{Kind: KindList, List: &list})
}

func (m *NATSMessenger) SendButtons(_ context.Context, to model.Recipient, msg model.ButtonMessage) error {
	return m.publish(to, Envelope{Kind: KindButtons, Buttons: &msg})
}

func (m *NATSMessenger) SendOrderSummary(_ context.Context, to model.Recipient, details string) error {
	msg := OrderSummaryMessage(details)
	return m.publish(to, Envelope{Kind: KindOrderSummary, Text: details, Buttons: &msg})
}

func (m *NATSMessenger) Subject(platform model.Platform) string {
	return fmt.Sprintf("%s.%s", m.prefix, platform)
}

func (m *NATSMessenger) publish(to model.Recipient, env Envelope) error {
	env.UserID = to.UserID
	env.Platform = to.Platform
	env.SentAt = m.now().UTC()

	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	subject := m.Subject(to.Platform)
	if err := m.pub.Publish(subject, data); err != nil {
		logx.Error().Err(err).Str("subject", subject).Str("kind", env.Kind).Msg("failed to publish outward message")
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

var _ model.Messenger = (*NATSMessenger)(nil)
