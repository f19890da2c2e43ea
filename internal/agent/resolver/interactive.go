package resolver

import (
	"strings"

	"github.com/chative-ordering/orderbot/internal/agent/model"
)

// Interactive is the raw interactive part of a platform message: WhatsApp
// button_reply / list_reply, or Messenger postback / quick_reply.
type Interactive struct {
	Type        string `json:"type"`
	ButtonReply *Reply `json:"button_reply,omitempty"`
	ListReply   *Reply `json:"list_reply,omitempty"`
	Payload     string `json:"payload,omitempty"`
	Title       string `json:"title,omitempty"`
}

type Reply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ParseInteractive normalizes a platform selection into a Callback, or nil
// when the payload carries no usable selection.
func ParseInteractive(in *Interactive) *model.Callback {
	if in == nil {
		return nil
	}
	var cb *model.Callback
	switch in.Type {
	case "button_reply":
		if in.ButtonReply != nil {
			cb = &model.Callback{Kind: model.CallbackButton, ID: in.ButtonReply.ID, Label: in.ButtonReply.Title}
		}
	case "list_reply":
		if in.ListReply != nil {
			cb = &model.Callback{Kind: model.CallbackList, ID: in.ListReply.ID, Label: in.ListReply.Title}
		}
	case "postback":
		cb = &model.Callback{Kind: model.CallbackButton, ID: in.Payload, Label: in.Title}
	case "quick_reply":
		cb = &model.Callback{Kind: model.CallbackButton, ID: in.Payload, Label: in.Payload}
	}
	if cb == nil || strings.TrimSpace(cb.ID) == "" {
		return nil
	}
	cb.ID = strings.TrimSpace(cb.ID)
	return cb
}
