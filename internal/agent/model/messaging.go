package model

import "context"

// Recipient addresses an outward message.
type Recipient struct {
	UserID   string   `json:"user_id"`
	Platform Platform `json:"platform"`
}

type Button struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type ListRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

type ListSection struct {
	Title string    `json:"title"`
	Rows  []ListRow `json:"rows"`
}

type SelectableList struct {
	Header     string        `json:"header"`
	Body       string        `json:"body"`
	Footer     string        `json:"footer,omitempty"`
	ButtonText string        `json:"button_text"`
	Sections   []ListSection `json:"sections"`
}

type ButtonMessage struct {
	Header  string   `json:"header"`
	Body    string   `json:"body"`
	Footer  string   `json:"footer,omitempty"`
	Buttons []Button `json:"buttons"`
}

// Messenger delivers platform-agnostic content to a user.
type Messenger interface {
	SendText(ctx context.Context, to Recipient, text string) error
	SendSelectableList(ctx context.Context, to Recipient, list SelectableList) error
	SendButtons(ctx context.Context, to Recipient, msg ButtonMessage) error
	SendOrderSummary(ctx context.Context, to Recipient, details string) error
}
