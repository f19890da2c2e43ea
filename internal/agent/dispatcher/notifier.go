package dispatcher

import (
	"context"
	"strings"

	"github.com/chative-ordering/orderbot/internal/agent/model"
	logx "github.com/chative-ordering/orderbot/pkg/logger"
)

// notifier sends best effort: a failed send is logged and the turn goes on.
type notifier struct {
	messenger  model.Messenger
	to         model.Recipient
	transcript []string
}

func newNotifier(messenger model.Messenger, to model.Recipient) *notifier {
	return &notifier{messenger: messenger, to: to}
}

func (n *notifier) text(ctx context.Context, text string) {
	n.record(text)
	n.report("text", n.messenger.SendText(ctx, n.to, text))
}

func (n *notifier) list(ctx context.Context, list model.SelectableList) {
	n.record(list.Header, list.Body)
	n.report("list", n.messenger.SendSelectableList(ctx, n.to, list))
}

func (n *notifier) buttons(ctx context.Context, msg model.ButtonMessage) {
	n.record(msg.Header, msg.Body)
	n.report("buttons", n.messenger.SendButtons(ctx, n.to, msg))
}

func (n *notifier) orderSummary(ctx context.Context, details string) {
	n.record(details)
	n.report("order_summary", n.messenger.SendOrderSummary(ctx, n.to, details))
}

func (n *notifier) record(parts ...string) {
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	n.transcript = append(n.transcript, strings.Join(nonEmpty, "\n"))
}

func (n *notifier) report(kind string, err error) {
	if err == nil {
		return
	}
	logx.Warn().
		Err(err).
		Str("kind", kind).
		Str("user_id", n.to.UserID).
		Str("platform", string(n.to.Platform)).
		Msg("outward message failed")
}
