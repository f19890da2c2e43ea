package model

import (
	"context"
	"time"
)

type FoodItem struct {
	ID          int64   `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description"`
	Category    string  `json:"category" yaml:"category"`
	Price       float64 `json:"price" yaml:"price"`
	ImageURL    string  `json:"image_url,omitempty" yaml:"image_url"`
	Available   bool    `json:"available" yaml:"available"`
}

type Category struct {
	Name string `json:"category"`
}

// OrderRecord is one row of a user's order history.
type OrderRecord struct {
	ID            string    `json:"id"`
	Status        string    `json:"status"`
	PaymentMethod string    `json:"payment_method,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	ItemCount     int       `json:"item_count"`
	Total         float64   `json:"total"`
}

const (
	OrderStatusCreated   = "created"
	OrderStatusConfirmed = "confirmed"
	OrderStatusCancelled = "cancelled"

	DepositPending   = "pending"
	DepositConfirmed = "confirmed"
)

// RandomTag asks SearchByTag for a single random available item.
const RandomTag = "random"

type Catalog interface {
	ListCategories(ctx context.Context) ([]Category, error)
	ListItemsByCategory(ctx context.Context, category string) ([]FoodItem, error)
	// GetItemByID returns nil, nil when the item is missing or unavailable.
	GetItemByID(ctx context.Context, id int64) (*FoodItem, error)
	// SearchItemsByName is a case-insensitive substring match on the name.
	SearchItemsByName(ctx context.Context, text string) ([]FoodItem, error)
	// SearchByTag returns up to 5 matches, or 1 random item for RandomTag or "".
	SearchByTag(ctx context.Context, tag string) ([]FoodItem, error)
	// CategoryImage returns the image of the first available item, or "".
	CategoryImage(ctx context.Context, category string) (string, error)
}

type OrderStore interface {
	CreateOrder(ctx context.Context, userID string, platform Platform) (string, error)
	// AddLineItem merges quantity into an existing line for the same food.
	AddLineItem(ctx context.Context, orderID string, foodID int64, quantity int) error
	SetServiceType(ctx context.Context, orderID string, serviceType ServiceType) error
	SetDeliveryAddress(ctx context.Context, orderID string, address string) error
	SetReservation(ctx context.Context, orderID string, partySize int, arrivalTime string) error
	SetDeposit(ctx context.Context, orderID string, amount float64, status string) error
	// SetPaymentMethod records the method and marks the order confirmed.
	SetPaymentMethod(ctx context.Context, orderID string, method PaymentMethod) error
	CancelOrder(ctx context.Context, orderID string) error
	ListRecentOrders(ctx context.Context, userID string, limit int) ([]OrderRecord, error)
}
