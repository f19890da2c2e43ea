package dispatcher

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/chative-ordering/orderbot/internal/agent/actions"
	"github.com/chative-ordering/orderbot/internal/agent/model"
	logx "github.com/chative-ordering/orderbot/pkg/logger"
)

const (
	defaultCategory  = "momos"
	defaultTextReply = "Hello! Welcome to our restaurant 🍽️ Type 'menu' to see our delicious options!"
)

func (d *Dispatcher) showFoodMenu(ctx context.Context, n *notifier, s *model.ConversationState) (*model.ConversationState, error) {
	categories, err := d.catalog.ListCategories(ctx)
	if err != nil {
		return nil, fail("Sorry, I couldn't load the menu. Please try again.", err)
	}

	rows := make([]model.ListRow, len(categories))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range categories {
		g.Go(func() error {
			image, err := d.catalog.CategoryImage(gctx, c.Name)
			if err != nil {
				logx.Warn().Err(err).Str("category", c.Name).Msg("category image lookup failed")
				image = ""
			}
			rows[i] = model.ListRow{
				ID:          "cat_" + c.Name,
				Title:       fmt.Sprintf("%s %s", capitalize(c.Name), categoryEmoji(c.Name)),
				Description: fmt.Sprintf("Browse our %s options", c.Name),
				ImageURL:    image,
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(rows) == 0 {
		rows = []model.ListRow{{ID: "cat_momos", Title: "Momos 🥟", Description: "Steamed, fried, tandoori varieties"}}
	}

	n.list(ctx, model.SelectableList{
		Header:     "🍽️ Restaurant Menu",
		Body:       "Welcome! What would you like to order today? Browse our delicious categories below.",
		Footer:     "Tap to view options",
		ButtonText: "View Categories",
		Sections:   []model.ListSection{{Title: "Food Categories", Rows: rows}},
	})

	s.Stage = model.StageViewingMenu
	s.LastAction = actions.NameShowFoodMenu
	return s, nil
}

func (d *Dispatcher) showCategoryItems(ctx context.Context, n *notifier, s *model.ConversationState, category string) (*model.ConversationState, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		category = defaultCategory
	}

	items, err := d.catalog.ListItemsByCategory(ctx, category)
	if err != nil {
		return nil, fail("Sorry, I couldn't load the items. Please try again.", err)
	}
	if len(items) == 0 {
		n.text(ctx, fmt.Sprintf("No items found in %s. Try another category!", category))
		return d.showFoodMenu(ctx, n, s)
	}

	body := fmt.Sprintf("Browse our delicious %s! Select any item to add it to your cart.", category)
	if len(s.Cart) > 0 {
		body = fmt.Sprintf("🛒 Cart: %d item(s) - %s\n\nSelect items to add:", s.CartCount(), d.money(s.CartTotal()))
	}

	rows := make([]model.ListRow, 0, maxListRows)
	for _, item := range items {
		if len(rows) == maxListRows {
			break
		}
		rows = append(rows, model.ListRow{
			ID:          fmt.Sprintf("add_%d", item.ID),
			Title:       truncate(item.Name, maxRowTitle),
			Description: fmt.Sprintf("%s - %s", d.money(item.Price), truncate(item.Description, maxRowDesc)),
			ImageURL:    item.ImageURL,
		})
	}

	emoji := categoryEmoji(category)
	n.list(ctx, model.SelectableList{
		Header:     fmt.Sprintf("%s %s", emoji, capitalize(category)),
		Body:       body,
		Footer:     "Tap to add items to cart",
		ButtonText: "Select Item",
		Sections:   []model.ListSection{{Title: fmt.Sprintf("%s %s", capitalize(category), emoji), Rows: rows}},
	})

	s.Stage = model.StageViewingItems
	s.CurrentCategory = category
	s.LastAction = actions.NameShowCategoryItems
	return s, nil
}

func (d *Dispatcher) showOrderHistory(ctx context.Context, n *notifier, to model.Recipient, s *model.ConversationState) (*model.ConversationState, error) {
	orders, err := d.orders.ListRecentOrders(ctx, to.UserID, d.config.HistoryLimit)
	if err != nil {
		return nil, fail("Sorry, I couldn't check your order history right now.", err)
	}
	if len(orders) == 0 {
		n.text(ctx, "📋 *Order History*\n\nYou haven't placed any orders yet!\n\nType \"menu\" to start your first order! 🍽️")
		return s, nil
	}

	var b strings.Builder
	b.WriteString("📋 *Your Order History*\n\n")
	for _, o := range orders {
		emoji, ok := statusEmojis[o.Status]
		if !ok {
			emoji = "📝"
		}
		method := o.PaymentMethod
		if method == "" {
			method = "Pending"
		}
		fmt.Fprintf(&b, "%s *Order #%s*\n", emoji, o.ID)
		fmt.Fprintf(&b, "   📅 %s\n", o.CreatedAt.Format("Jan 2, 03:04 PM"))
		fmt.Fprintf(&b, "   🛒 %d item(s) | %s%s\n", o.ItemCount, d.config.Currency, strconv.FormatFloat(o.Total, 'f', 0, 64))
		fmt.Fprintf(&b, "   💳 %s\n", method)
	}
	n.text(ctx, b.String())

	s.LastAction = actions.NameShowOrderHistory
	return s, nil
}

func (d *Dispatcher) recommendFood(ctx context.Context, n *notifier, s *model.ConversationState, tag string) (*model.ConversationState, error) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		tag = model.RandomTag
	}

	items, err := d.catalog.SearchByTag(ctx, tag)
	if err != nil {
		return nil, fail("Sorry, I'm having trouble getting recommendations right now.", err)
	}
	if len(items) == 0 {
		n.text(ctx, fmt.Sprintf("🤔 I couldn't find any specific items for \"%s\", but we have lots of other delicious options!\n\nType \"menu\" to see our full range. 🍽️", tag))
		return s, nil
	}

	rows := make([]model.ListRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, model.ListRow{
			ID:          fmt.Sprintf("add_%d", item.ID),
			Title:       truncate(item.Name, maxRowTitle),
			Description: fmt.Sprintf("%s - %s", d.money(item.Price), item.Category),
			ImageURL:    item.ImageURL,
		})
	}

	title := fmt.Sprintf("🌟 Recommendations: \"%s\"", tag)
	if tag == model.RandomTag {
		title = "🎲 Chef's Choice"
	}

	n.list(ctx, model.SelectableList{
		Header:     title,
		Body:       d.recommendationBody(ctx, tag, items),
		Footer:     "Tap to add to cart",
		ButtonText: "View Recommendations",
		Sections:   []model.ListSection{{Title: "Recommended", Rows: rows}},
	})

	s.Stage = model.StageViewingRecommendations
	s.LastAction = actions.NameRecommendFood
	return s, nil
}

func (d *Dispatcher) recommendationBody(ctx context.Context, tag string, items []model.FoodItem) string {
	if d.recommender != nil {
		text, err := d.recommender.RecommendationBlurb(ctx, tag, items)
		if err == nil && text != "" {
			return text
		}
		logx.Warn().Err(err).Str("tag", tag).Msg("recommendation blurb unavailable; using static text")
	}
	if tag == model.RandomTag {
		return "Here's something our chef picked for you today! Tap it to add it to your cart. 🍽️"
	}
	return fmt.Sprintf("Here are our picks for \"%s\". Tap one to add it to your cart!", tag)
}

func (d *Dispatcher) showWelcome(ctx context.Context, n *notifier, s *model.ConversationState) (*model.ConversationState, error) {
	n.buttons(ctx, model.ButtonMessage{
		Header:  fmt.Sprintf("👋 Welcome to %s!", d.config.Name),
		Body:    "We serve the best foods in town. Browse our menu to order now!",
		Footer:  "Tap to start",
		Buttons: []model.Button{{ID: "view_all_categories", Title: "View Menu 🍽️"}},
	})
	s.Stage = model.StageInitial
	s.LastAction = actions.NameShowWelcome
	return s, nil
}

func (d *Dispatcher) sendTextReply(ctx context.Context, n *notifier, s *model.ConversationState, message string) (*model.ConversationState, error) {
	if strings.TrimSpace(message) == "" {
		message = defaultTextReply
	}
	n.text(ctx, message)
	return s, nil
}
