package model

type CallbackKind string

const (
	CallbackButton CallbackKind = "button"
	CallbackList   CallbackKind = "list"
)

// Callback is a UI selection normalized across platforms.
type Callback struct {
	Kind  CallbackKind `json:"kind"`
	ID    string       `json:"id"`
	Label string       `json:"label,omitempty"`
}

// InboundEvent is one user message or UI selection.
type InboundEvent struct {
	UserID   string    `json:"user_id"`
	Platform Platform  `json:"platform"`
	Text     string    `json:"text,omitempty"`
	Callback *Callback `json:"callback,omitempty"`
}

func (e InboundEvent) Key() ConversationKey {
	return ConversationKey{UserID: e.UserID, Platform: e.Platform}
}

func (e InboundEvent) Recipient() Recipient {
	return Recipient{UserID: e.UserID, Platform: e.Platform}
}

// Utterance is the text recorded in history and offered to the classifier.
func (e InboundEvent) Utterance() string {
	if e.Text != "" {
		return e.Text
	}
	if e.Callback != nil {
		if e.Callback.Label != "" {
			return e.Callback.Label
		}
		return e.Callback.ID
	}
	return ""
}
