package messaging

import (
	"context"
	"errors"

	"github.com/chative-ordering/orderbot/internal/agent/model"
)

// Multi fans every message out to all messengers and joins their errors.
type Multi []model.Messenger

func (m Multi) SendText(ctx context.Context, to model.Recipient, text string) error {
	return m.each(func(x model.Messenger) error { return x.SendText(ctx, to, text) })
}

func (m Multi) SendSelectableList(ctx context.Context, to model.Recipient, list model.SelectableList) error {
	return m.each(func(x model.Messenger) error { return x.SendSelectableList(ctx, to, list) })
}

func (m Multi) SendButtons(ctx context.Context, to model.Recipient, msg model.ButtonMessage) error {
	return m.each(func(x model.Messenger) error { return x.SendButtons(ctx, to, msg) })
}

func (m Multi) SendOrderSummary(ctx context.Context, to model.Recipient, details string) error {
	return m.each(func(x model.Messenger) error { return x.SendOrderSummary(ctx, to, details) })
}

func (m Multi) each(fn func(model.Messenger) error) error {
	var errs []error
	for _, x := range m {
		if err := fn(x); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ model.Messenger = Multi(nil)
