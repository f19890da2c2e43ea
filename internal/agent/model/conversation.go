package model

import (
	"context"
	"fmt"
	"time"
)

// Stage is the discrete point of the ordering flow a conversation is in.
type Stage string

const (
	StageInitial                Stage = "initial"
	StageViewingMenu            Stage = "viewing_menu"
	StageViewingItems           Stage = "viewing_items"
	StageViewingRecommendations Stage = "viewing_recommendations"
	StageSelectingItem          Stage = "selecting_item"
	StageQuickCartAction        Stage = "quick_cart_action"
	StageCartOptions            Stage = "cart_options"
	StageConfirmingOrder        Stage = "confirming_order"
	StageConfirmingCancel       Stage = "confirming_cancel"
	StageSelectingService       Stage = "selecting_service"
	StageProvidingLocation      Stage = "providing_location"
	StageCollectingPartySize    Stage = "collecting_party_size"
	StageCollectingArrivalTime  Stage = "collecting_arrival_time"
	StageConfirmingDeposit      Stage = "confirming_deposit"
	StageSelectingPayment       Stage = "selecting_payment"
	StageOrderComplete          Stage = "order_complete"
)

// Platform identifies the messaging channel a conversation lives on.
type Platform string

const (
	PlatformWhatsApp  Platform = "whatsapp"
	PlatformMessenger Platform = "messenger"
	PlatformConsole   Platform = "console"
)

type ServiceType string

const (
	ServiceDineIn   ServiceType = "dine_in"
	ServiceDelivery ServiceType = "delivery"
)

type PaymentMethod string

const (
	PaymentOnline      PaymentMethod = "ONLINE"
	PaymentCashCounter PaymentMethod = "CASH_COUNTER"
	PaymentCOD         PaymentMethod = "COD"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationKey addresses one conversation: a user on a platform.
type ConversationKey struct {
	UserID   string
	Platform Platform
}

func (k ConversationKey) String() string {
	return fmt.Sprintf("%s:%s", k.Platform, k.UserID)
}

// CartLine is one cart entry. UnitPrice always comes from the catalog.
type CartLine struct {
	FoodID    int64   `json:"foodId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
}

func (l CartLine) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// HistoryEntry is one prior turn supplied to the classifier as context.
type HistoryEntry struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// PendingOrder is the snapshot taken when the user is asked to confirm.
type PendingOrder struct {
	Items []CartLine `json:"items"`
	Total float64    `json:"total"`
}

// Reservation holds the dine-in sub-flow answers.
type Reservation struct {
	PartySize     int     `json:"partySize,omitempty"`
	ArrivalTime   string  `json:"arrivalTime,omitempty"`
	DepositAmount float64 `json:"depositAmount,omitempty"`
}

// ConversationState is the persisted per-(user, platform) record.
// It is only mutated by the dispatcher, always on a Clone.
type ConversationState struct {
	Stage           Stage          `json:"stage"`
	Cart            []CartLine     `json:"cart"`
	History         []HistoryEntry `json:"history"`
	OrderID         string         `json:"orderId,omitempty"`
	ServiceType     ServiceType    `json:"serviceType,omitempty"`
	DeliveryAddress string         `json:"deliveryAddress,omitempty"`
	CurrentCategory string         `json:"currentCategory,omitempty"`
	PendingOrder    *PendingOrder  `json:"pendingOrder,omitempty"`
	Reservation     *Reservation   `json:"reservation,omitempty"`
	PaymentMethod   PaymentMethod  `json:"paymentMethod,omitempty"`
	LastAction      string         `json:"lastAction,omitempty"`
	LastAddedItem   string         `json:"lastAddedItem,omitempty"`
	UpdatedAt       time.Time      `json:"updatedAt,omitempty"`
}

// NewConversationState returns the state used on first contact.
func NewConversationState() *ConversationState {
	return &ConversationState{
		Stage:   StageInitial,
		Cart:    []CartLine{},
		History: []HistoryEntry{},
	}
}

// Normalize fills zero values left by older or partial records.
func (s *ConversationState) Normalize() *ConversationState {
	if s.Stage == "" {
		s.Stage = StageInitial
	}
	if s.Cart == nil {
		s.Cart = []CartLine{}
	}
	if s.History == nil {
		s.History = []HistoryEntry{}
	}
	return s
}

// Clone returns a deep copy so handlers never mutate the caller's record.
func (s *ConversationState) Clone() *ConversationState {
	if s == nil {
		return NewConversationState()
	}
	c := *s
	c.Cart = append([]CartLine{}, s.Cart...)
	c.History = append([]HistoryEntry{}, s.History...)
	if s.PendingOrder != nil {
		po := *s.PendingOrder
		po.Items = append([]CartLine{}, s.PendingOrder.Items...)
		c.PendingOrder = &po
	}
	if s.Reservation != nil {
		r := *s.Reservation
		c.Reservation = &r
	}
	return &c
}

// AddToCart merges quantity into the line for item.ID or appends a new line
// priced from the catalog item. It returns the resulting line.
func (s *ConversationState) AddToCart(item FoodItem, quantity int) CartLine {
	if quantity < 1 {
		quantity = 1
	}
	for i := range s.Cart {
		if s.Cart[i].FoodID == item.ID {
			s.Cart[i].Quantity += quantity
			s.Cart[i].UnitPrice = item.Price
			s.Cart[i].Name = item.Name
			return s.Cart[i]
		}
	}
	line := CartLine{FoodID: item.ID, Name: item.Name, UnitPrice: item.Price, Quantity: quantity}
	s.Cart = append(s.Cart, line)
	return line
}

func (s *ConversationState) CartTotal() float64 {
	return LinesTotal(s.Cart)
}

func (s *ConversationState) CartCount() int {
	n := 0
	for _, l := range s.Cart {
		n += l.Quantity
	}
	return n
}

// AppendHistory appends one entry and keeps only the newest maxEntries.
func (s *ConversationState) AppendHistory(role Role, content string, maxEntries int) {
	if content == "" {
		return
	}
	s.History = append(s.History, HistoryEntry{Role: role, Content: content})
	if maxEntries > 0 && len(s.History) > maxEntries {
		s.History = append([]HistoryEntry{}, s.History[len(s.History)-maxEntries:]...)
	}
}

// ResetOrder drops the cart and every order sub-record, keeping history.
func (s *ConversationState) ResetOrder() {
	s.Cart = []CartLine{}
	s.OrderID = ""
	s.ServiceType = ""
	s.DeliveryAddress = ""
	s.PendingOrder = nil
	s.Reservation = nil
	s.LastAddedItem = ""
}

func LinesTotal(lines []CartLine) float64 {
	total := 0.0
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}

type ConversationRepository interface {
	// Load returns the stored state, or a fresh state when none exists.
	Load(ctx context.Context, key ConversationKey) (*ConversationState, error)

	// Save replaces the stored state.
	Save(ctx context.Context, key ConversationKey, state *ConversationState) error

	// Clear removes the stored state.
	Clear(ctx context.Context, key ConversationKey) error
}
