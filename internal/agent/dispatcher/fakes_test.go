package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/chative-ordering/orderbot/internal/agent/model"
)

var errStore = errors.New("store unavailable")

type fakeCatalog struct {
	items []model.FoodItem
	err   error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{items: []model.FoodItem{
		{ID: 1, Name: "Steamed Veg Momo", Category: "momos", Price: 180, Description: "Fresh vegetables", Available: true},
		{ID: 2, Name: "Steamed Chicken Momo", Category: "momos", Price: 220, Description: "Juicy chicken", Available: true},
		{ID: 3, Name: "Chicken Momo", Category: "momos", Price: 230, Description: "House special", Available: true},
		{ID: 7, Name: "Veg Thukpa", Category: "noodles", Price: 200, Description: "Noodle soup", Available: true},
		{ID: 16, Name: "Masala Tea", Category: "beverages", Price: 40, Description: "Spiced tea", Available: true},
		{ID: 99, Name: "Old Special", Category: "momos", Price: 10, Available: false},
	}}
}

func (c *fakeCatalog) ListCategories(context.Context) ([]model.Category, error) {
	if c.err != nil {
		return nil, c.err
	}
	seen := map[string]bool{}
	var out []model.Category
	for _, it := range c.items {
		if it.Available && !seen[it.Category] {
			seen[it.Category] = true
			out = append(out, model.Category{Name: it.Category})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (c *fakeCatalog) ListItemsByCategory(_ context.Context, category string) ([]model.FoodItem, error) {
	if c.err != nil {
		return nil, c.err
	}
	var out []model.FoodItem
	for _, it := range c.items {
		if it.Available && it.Category == category {
			out = append(out, it)
		}
	}
	return out, nil
}

func (c *fakeCatalog) GetItemByID(_ context.Context, id int64) (*model.FoodItem, error) {
	if c.err != nil {
		return nil, c.err
	}
	for _, it := range c.items {
		if it.ID == id && it.Available {
			item := it
			return &item, nil
		}
	}
	return nil, nil
}

func (c *fakeCatalog) SearchItemsByName(_ context.Context, text string) ([]model.FoodItem, error) {
	if c.err != nil {
		return nil, c.err
	}
	var out []model.FoodItem
	for _, it := range c.items {
		if it.Available && strings.Contains(strings.ToLower(it.Name), strings.ToLower(text)) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (c *fakeCatalog) SearchByTag(_ context.Context, tag string) ([]model.FoodItem, error) {
	if c.err != nil {
		return nil, c.err
	}
	if tag == "" || tag == model.RandomTag {
		return []model.FoodItem{c.items[0]}, nil
	}
	var out []model.FoodItem
	for _, it := range c.items {
		if it.Available && (strings.Contains(strings.ToLower(it.Name), tag) || strings.Contains(strings.ToLower(it.Description), tag)) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (c *fakeCatalog) CategoryImage(_ context.Context, category string) (string, error) {
	return "https://img/" + category + ".jpg", nil
}

type fakeOrders struct {
	mu        sync.Mutex
	nextID    int
	createErr error
	updateErr error
	lines     map[string]map[int64]int
	service   map[string]model.ServiceType
	address   map[string]string
	party     map[string]int
	arrival   map[string]string
	deposit   map[string]float64
	depStatus map[string]string
	payment   map[string]model.PaymentMethod
	cancelled []string
	history   []model.OrderRecord
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{
		lines:     map[string]map[int64]int{},
		service:   map[string]model.ServiceType{},
		address:   map[string]string{},
		party:     map[string]int{},
		arrival:   map[string]string{},
		deposit:   map[string]float64{},
		depStatus: map[string]string{},
		payment:   map[string]model.PaymentMethod{},
	}
}

func (o *fakeOrders) CreateOrder(context.Context, string, model.Platform) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.createErr != nil {
		return "", o.createErr
	}
	o.nextID++
	id := fmt.Sprintf("%d", o.nextID)
	o.lines[id] = map[int64]int{}
	return id, nil
}

func (o *fakeOrders) AddLineItem(_ context.Context, orderID string, foodID int64, qty int) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lines[orderID][foodID] += qty
	return nil
}

func (o *fakeOrders) SetServiceType(_ context.Context, id string, t model.ServiceType) error {
	if o.updateErr != nil {
		return o.updateErr
	}
	o.service[id] = t
	return nil
}

func (o *fakeOrders) SetDeliveryAddress(_ context.Context, id, address string) error {
	if o.updateErr != nil {
		return o.updateErr
	}
	o.address[id] = address
	return nil
}

func (o *fakeOrders) SetReservation(_ context.Context, id string, partySize int, arrival string) error {
	if o.updateErr != nil {
		return o.updateErr
	}
	o.party[id] = partySize
	o.arrival[id] = arrival
	return nil
}

func (o *fakeOrders) SetDeposit(_ context.Context, id string, amount float64, status string) error {
	if o.updateErr != nil {
		return o.updateErr
	}
	o.deposit[id] = amount
	o.depStatus[id] = status
	return nil
}

func (o *fakeOrders) SetPaymentMethod(_ context.Context, id string, m model.PaymentMethod) error {
	if o.updateErr != nil {
		return o.updateErr
	}
	o.payment[id] = m
	return nil
}

func (o *fakeOrders) CancelOrder(_ context.Context, id string) error {
	o.cancelled = append(o.cancelled, id)
	return nil
}

func (o *fakeOrders) ListRecentOrders(context.Context, string, int) ([]model.OrderRecord, error) {
	if o.updateErr != nil {
		return nil, o.updateErr
	}
	return o.history, nil
}

type sent struct {
	kind    string
	text    string
	list    model.SelectableList
	buttons model.ButtonMessage
}

type fakeMessenger struct {
	mu   sync.Mutex
	sent []sent
	err  error
}

func (m *fakeMessenger) add(s sent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, s)
	return m.err
}

func (m *fakeMessenger) SendText(_ context.Context, _ model.Recipient, text string) error {
	return m.add(sent{kind: "text", text: text})
}

func (m *fakeMessenger) SendSelectableList(_ context.Context, _ model.Recipient, l model.SelectableList) error {
	return m.add(sent{kind: "list", list: l})
}

func (m *fakeMessenger) SendButtons(_ context.Context, _ model.Recipient, b model.ButtonMessage) error {
	return m.add(sent{kind: "buttons", buttons: b})
}

func (m *fakeMessenger) SendOrderSummary(_ context.Context, _ model.Recipient, details string) error {
	return m.add(sent{kind: "summary", text: details})
}

func (m *fakeMessenger) last() sent {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sent{}
	}
	return m.sent[len(m.sent)-1]
}

type fakeRecommender struct {
	text string
	err  error
}

func (r fakeRecommender) RecommendationBlurb(context.Context, string, []model.FoodItem) (string, error) {
	return r.text, r.err
}
