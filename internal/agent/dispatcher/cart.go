package dispatcher

import (
	"context"
	"fmt"
	"strings"

	"github.com/chative-ordering/orderbot/internal/agent/actions"
	"github.com/chative-ordering/orderbot/internal/agent/model"
)

const (
	itemUnavailableMessage = "Sorry, that item is not available."
	emptyCartMessage       = "Your cart is empty! Let me show you our menu."
)

func (d *Dispatcher) addToCart(ctx context.Context, n *notifier, s *model.ConversationState, foodID int64, quantity int) (*model.ConversationState, error) {
	item, err := d.catalog.GetItemByID(ctx, foodID)
	if err != nil {
		return nil, fail("Sorry, couldn't add that item. Please try again.", err)
	}
	if item == nil {
		n.text(ctx, itemUnavailableMessage)
		return s, nil
	}
	return d.addLine(ctx, n, s, *item, quantity, actions.NameAddToCart), nil
}

func (d *Dispatcher) addItemByName(ctx context.Context, n *notifier, s *model.ConversationState, name string, quantity int) (*model.ConversationState, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		n.text(ctx, "Please specify which item you want to add.")
		return s, nil
	}

	matches, err := d.catalog.SearchItemsByName(ctx, name)
	if err != nil {
		return nil, fail("Sorry, couldn't find that item. Try browsing our menu!", err)
	}

	switch len(matches) {
	case 0:
		n.text(ctx, fmt.Sprintf("❌ Sorry, \"%s\" is not available on our menu.\n\nType \"menu\" to see what we have! 🍽️", name))
		return s, nil
	case 1:
		return d.addLine(ctx, n, s, matches[0], quantity, actions.NameAddItemByName), nil
	}

	if exact, ok := exactMatch(matches, name); ok {
		return d.addLine(ctx, n, s, exact, quantity, actions.NameAddItemByName), nil
	}

	rows := make([]model.ListRow, 0, maxListRows)
	for _, item := range matches {
		if len(rows) == maxListRows {
			break
		}
		rows = append(rows, model.ListRow{
			ID:          fmt.Sprintf("add_%d", item.ID),
			Title:       truncate(item.Name, maxRowTitle),
			Description: fmt.Sprintf("%s - %s", d.money(item.Price), truncate(item.Description, maxMatchRowDesc)),
			ImageURL:    item.ImageURL,
		})
	}
	n.list(ctx, model.SelectableList{
		Header:     "🔍 Multiple Matches Found",
		Body:       fmt.Sprintf("Found %d item(s) matching \"%s\".\nSelect the one you want:", len(matches), name),
		Footer:     "Tap to add to cart",
		ButtonText: "Select Item",
		Sections:   []model.ListSection{{Title: "Matching Items", Rows: rows}},
	})

	s.Stage = model.StageSelectingItem
	s.LastAction = actions.NameAddItemByName
	return s, nil
}

// addLine is the single add-to-cart path for callbacks and named adds.
func (d *Dispatcher) addLine(ctx context.Context, n *notifier, s *model.ConversationState, item model.FoodItem, quantity int, action string) *model.ConversationState {
	if quantity < 1 {
		quantity = 1
	}
	s.AddToCart(item, quantity)
	// the cart no longer matches any summary shown earlier
	s.PendingOrder = nil

	category := item.Category
	if category == "" {
		category = defaultCategory
	}

	n.buttons(ctx, model.ButtonMessage{
		Header: "✅ Added to Cart!",
		Body: fmt.Sprintf("*%s* x%d - %s\n\n🛒 Cart: %d item(s) | Total: %s\n\nWhat would you like to do?",
			item.Name, quantity, d.money(item.Price*float64(quantity)), s.CartCount(), d.money(s.CartTotal())),
		Footer: "Keep adding or checkout!",
		Buttons: []model.Button{
			{ID: "more_" + category, Title: "Add More ➕"},
			{ID: "view_all_categories", Title: "Other Categories 📋"},
			{ID: "proceed_checkout", Title: "Checkout 🛒"},
		},
	})

	s.Stage = model.StageQuickCartAction
	s.CurrentCategory = category
	s.LastAddedItem = item.Name
	s.LastAction = action
	return s
}

func (d *Dispatcher) showCartOptions(ctx context.Context, n *notifier, s *model.ConversationState) (*model.ConversationState, error) {
	if len(s.Cart) == 0 {
		n.text(ctx, emptyCartMessage)
		return d.showFoodMenu(ctx, n, s)
	}

	n.buttons(ctx, model.ButtonMessage{
		Header: "🛒 Your Cart",
		Body: fmt.Sprintf("%s\n%s\nSubtotal: %s\n\nWould you like to add more items or proceed to checkout?",
			d.linesText(s.Cart), divider, d.money(s.CartTotal())),
		Footer: "You can add more items anytime!",
		Buttons: []model.Button{
			{ID: "add_more_items", Title: "Add More Items ➕"},
			{ID: "proceed_checkout", Title: "Checkout 🛒"},
		},
	})

	s.Stage = model.StageCartOptions
	s.LastAction = actions.NameShowCartOptions
	return s, nil
}

// confirmOrder re-resolves every requested line against the catalog so the
// summary only carries catalog items at catalog prices.
func (d *Dispatcher) confirmOrder(ctx context.Context, n *notifier, s *model.ConversationState, requested []actions.RequestedItem) (*model.ConversationState, error) {
	if len(requested) == 0 {
		for _, l := range s.Cart {
			requested = append(requested, actions.RequestedItem{FoodID: l.FoodID, Name: l.Name, Quantity: l.Quantity})
		}
	}
	if len(requested) == 0 {
		n.text(ctx, emptyCartMessage)
		return d.showFoodMenu(ctx, n, s)
	}

	validated := &model.ConversationState{Cart: []model.CartLine{}}
	var invalid []string
	for _, r := range requested {
		item, err := d.resolveRequested(ctx, r)
		if err != nil {
			return nil, fail("Sorry, I couldn't check your order right now. Please try again.", err)
		}
		if item == nil {
			invalid = append(invalid, requestedLabel(r))
			continue
		}
		validated.AddToCart(*item, r.Quantity)
	}

	if len(validated.Cart) == 0 {
		n.text(ctx, fmt.Sprintf("❌ Sorry, none of the items are available:\n%s\n\nType \"menu\" to see what we have! 🍽️", bullets(invalid)))
		return d.showFoodMenu(ctx, n, s)
	}
	if len(invalid) > 0 {
		n.text(ctx, fmt.Sprintf("⚠️ Note: These items are not available and were removed:\n%s", bullets(invalid)))
	}

	if s.OrderID != "" {
		d.cancelStaleOrder(ctx, s.OrderID)
		s.OrderID = ""
	}

	total := validated.CartTotal()
	n.orderSummary(ctx, fmt.Sprintf("%s\n%s\nTotal: %s", d.linesText(validated.Cart), divider, d.money(total)))

	s.Cart = validated.Cart
	s.PendingOrder = &model.PendingOrder{Items: append([]model.CartLine{}, validated.Cart...), Total: total}
	s.Stage = model.StageConfirmingOrder
	s.LastAction = actions.NameConfirmOrder
	return s, nil
}

// resolveRequested returns nil when the catalog has no available match.
func (d *Dispatcher) resolveRequested(ctx context.Context, r actions.RequestedItem) (*model.FoodItem, error) {
	if r.FoodID > 0 {
		return d.catalog.GetItemByID(ctx, r.FoodID)
	}
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return nil, nil
	}
	matches, err := d.catalog.SearchItemsByName(ctx, name)
	if err != nil || len(matches) == 0 {
		return nil, err
	}
	if exact, ok := exactMatch(matches, name); ok {
		return &exact, nil
	}
	return &matches[0], nil
}

func exactMatch(items []model.FoodItem, name string) (model.FoodItem, bool) {
	for _, item := range items {
		if strings.EqualFold(item.Name, name) {
			return item, true
		}
	}
	return model.FoodItem{}, false
}

func requestedLabel(r actions.RequestedItem) string {
	if r.Name != "" {
		return r.Name
	}
	return fmt.Sprintf("item #%d", r.FoodID)
}
