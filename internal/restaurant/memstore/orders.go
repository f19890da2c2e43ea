package memstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/chative-ordering/orderbot/internal/agent/model"
	errx "github.com/chative-ordering/orderbot/internal/core/error"
)

var errOrderNotFound = errx.New(errors.New("no such order"), http.StatusNotFound, "order not found")

type order struct {
	id            int64
	userID        string
	platform      model.Platform
	status        string
	paymentMethod model.PaymentMethod
	serviceType   model.ServiceType
	address       string
	partySize     int
	arrivalTime   string
	depositAmount float64
	depositStatus string
	createdAt     time.Time
	lines         map[int64]int
}

// Orders is an in-memory order store priced from a Catalog.
type Orders struct {
	mu      sync.Mutex
	catalog *Catalog
	nextID  int64
	orders  map[int64]*order
	now     func() time.Time
}

func NewOrders(catalog *Catalog) *Orders {
	return &Orders{catalog: catalog, orders: make(map[int64]*order), now: time.Now}
}

func (o *Orders) CreateOrder(_ context.Context, userID string, platform model.Platform) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.nextID++
	o.orders[o.nextID] = &order{
		id:        o.nextID,
		userID:    userID,
		platform:  platform,
		status:    model.OrderStatusCreated,
		createdAt: o.now(),
		lines:     map[int64]int{},
	}
	return strconv.FormatInt(o.nextID, 10), nil
}

func (o *Orders) AddLineItem(_ context.Context, orderID string, foodID int64, quantity int) error {
	return o.with(orderID, func(ord *order) {
		ord.lines[foodID] += quantity
	})
}

func (o *Orders) SetServiceType(_ context.Context, orderID string, serviceType model.ServiceType) error {
	return o.with(orderID, func(ord *order) { ord.serviceType = serviceType })
}

func (o *Orders) SetDeliveryAddress(_ context.Context, orderID string, address string) error {
	return o.with(orderID, func(ord *order) { ord.address = address })
}

func (o *Orders) SetReservation(_ context.Context, orderID string, partySize int, arrivalTime string) error {
	return o.with(orderID, func(ord *order) {
		ord.partySize = partySize
		ord.arrivalTime = arrivalTime
	})
}

func (o *Orders) SetDeposit(_ context.Context, orderID string, amount float64, status string) error {
	return o.with(orderID, func(ord *order) {
		ord.depositAmount = amount
		ord.depositStatus = status
	})
}

func (o *Orders) SetPaymentMethod(_ context.Context, orderID string, method model.PaymentMethod) error {
	return o.with(orderID, func(ord *order) {
		ord.paymentMethod = method
		ord.status = model.OrderStatusConfirmed
	})
}

func (o *Orders) CancelOrder(_ context.Context, orderID string) error {
	return o.with(orderID, func(ord *order) { ord.status = model.OrderStatusCancelled })
}

func (o *Orders) ListRecentOrders(_ context.Context, userID string, limit int) ([]model.OrderRecord, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	var mine []*order
	for _, ord := range o.orders {
		if ord.userID == userID {
			mine = append(mine, ord)
		}
	}
	sort.Slice(mine, func(i, j int) bool {
		if mine[i].createdAt.Equal(mine[j].createdAt) {
			return mine[i].id > mine[j].id
		}
		return mine[i].createdAt.After(mine[j].createdAt)
	})
	if limit > 0 && len(mine) > limit {
		mine = mine[:limit]
	}

	out := make([]model.OrderRecord, 0, len(mine))
	for _, ord := range mine {
		rec := model.OrderRecord{
			ID:            strconv.FormatInt(ord.id, 10),
			Status:        ord.status,
			PaymentMethod: string(ord.paymentMethod),
			CreatedAt:     ord.createdAt,
			ItemCount:     len(ord.lines),
		}
		for foodID, qty := range ord.lines {
			rec.Total += o.catalog.priceOf(foodID) * float64(qty)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (o *Orders) with(orderID string, fn func(*order)) error {
	id, err := strconv.ParseInt(orderID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid order id %q: %w", orderID, err)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	ord, ok := o.orders[id]
	if !ok {
		return errOrderNotFound
	}
	fn(ord)
	return nil
}

var _ model.OrderStore = (*Orders)(nil)
