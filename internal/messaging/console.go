package messaging

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/chative-ordering/orderbot/internal/agent/model"
)

// Console renders outward messages as plain text, showing callback ids so a
// terminal user can tap them with /tap.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) SendText(_ context.Context, _ model.Recipient, text string) error {
	return c.write("🤖 " + text)
}

func (c *Console) SendSelectableList(_ context.Context, _ model.Recipient, list model.SelectableList) error {
	var b strings.Builder
	fmt.Fprintf(&b, "🤖 %s\n%s\n", list.Header, list.Body)
	for _, section := range list.Sections {
		fmt.Fprintf(&b, "  [%s]\n", section.Title)
		for _, row := range section.Rows {
			fmt.Fprintf(&b, "   • %s  (%s)", row.Title, row.ID)
			if row.Description != "" {
				fmt.Fprintf(&b, " - %s", row.Description)
			}
			b.WriteString("\n")
		}
	}
	if list.Footer != "" {
		fmt.Fprintf(&b, "  %s", list.Footer)
	}
	return c.write(strings.TrimRight(b.String(), "\n"))
}

func (c *Console) SendButtons(_ context.Context, _ model.Recipient, msg model.ButtonMessage) error {
	var b strings.Builder
	fmt.Fprintf(&b, "🤖 %s\n%s\n", msg.Header, msg.Body)
	for _, btn := range msg.Buttons {
		fmt.Fprintf(&b, "  [%s]  (%s)\n", btn.Title, btn.ID)
	}
	if msg.Footer != "" {
		fmt.Fprintf(&b, "  %s", msg.Footer)
	}
	return c.write(strings.TrimRight(b.String(), "\n"))
}

func (c *Console) SendOrderSummary(ctx context.Context, to model.Recipient, details string) error {
	return c.SendButtons(ctx, to, OrderSummaryMessage(details))
}

func (c *Console) write(s string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintln(c.out, s+"\n")
	return err
}

// OrderSummaryMessage is the confirm/cancel prompt shown with an order summary.
func OrderSummaryMessage(details string) model.ButtonMessage {
	return model.ButtonMessage{
		Header: "📋 Order Summary",
		Body:   details + "\n\nPlease confirm your order:",
		Footer: "Tap to confirm or cancel",
		Buttons: []model.Button{
			{ID: "confirm_order", Title: "Confirm ✅"},
			{ID: "cancel_order", Title: "Cancel ❌"},
		},
	}
}

var _ model.Messenger = (*Console)(nil)
