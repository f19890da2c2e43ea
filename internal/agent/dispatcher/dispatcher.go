package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chative-ordering/orderbot/internal/agent/actions"
	"github.com/chative-ordering/orderbot/internal/agent/model"
	logx "github.com/chative-ordering/orderbot/pkg/logger"
)

const defaultApology = "Sorry, something went wrong. Please try again."

// Recommender writes the body text of a recommendation list.
type Recommender interface {
	RecommendationBlurb(ctx context.Context, tag string, items []model.FoodItem) (string, error)
}

// Result is the outcome of one dispatched action.
type Result struct {
	State *model.ConversationState
	// Transcript is the text of every outward message, in send order.
	Transcript []string
	// Failed is set when a handler hit a collaborator failure; State is then
	// the unchanged input state.
	Failed bool
}

type Dispatcher struct {
	catalog     model.Catalog
	orders      model.OrderStore
	messenger   model.Messenger
	recommender Recommender
	config      model.RestaurantConfig
	now         func() time.Time
}

type Option func(*Dispatcher)

func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

func WithRecommender(r Recommender) Option {
	return func(d *Dispatcher) { d.recommender = r }
}

func New(catalog model.Catalog, orders model.OrderStore, messenger model.Messenger, config model.RestaurantConfig, opts ...Option) *Dispatcher {
	if config.Name == "" {
		config.Name = "Momo House"
	}
	if config.Currency == "" {
		config.Currency = "Rs."
	}
	if config.DepositRate <= 0 {
		config.DepositRate = 0.20
	}
	if config.OrderIDPrefix == "" {
		config.OrderIDPrefix = "MH"
	}
	if config.HistoryLimit <= 0 {
		config.HistoryLimit = 5
	}
	d := &Dispatcher{
		catalog:   catalog,
		orders:    orders,
		messenger: messenger,
		config:    config,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// handlerError carries the apology shown to the user when a handler fails.
type handlerError struct {
	message string
	err     error
}

func (e *handlerError) Error() string { return fmt.Sprintf("%s: %v", e.message, e.err) }
func (e *handlerError) Unwrap() error { return e.err }

func fail(message string, err error) error {
	return &handlerError{message: message, err: err}
}

// Dispatch runs the handler for act against a copy of state. On failure the
// user gets an apology and the input state is returned unchanged.
func (d *Dispatcher) Dispatch(ctx context.Context, to model.Recipient, act actions.Action, state *model.ConversationState) Result {
	if state == nil {
		state = model.NewConversationState()
	}
	if act == nil {
		act = actions.SendTextReply{}
	}
	n := newNotifier(d.messenger, to)

	next, err := d.handle(ctx, n, to, act, state.Clone())
	if err != nil {
		message := defaultApology
		var he *handlerError
		if errors.As(err, &he) {
			message = he.message
		}
		logx.Error().
			Err(err).
			Str("action", act.Name()).
			Str("user_id", to.UserID).
			Str("platform", string(to.Platform)).
			Str("stage", string(state.Stage)).
			Msg("action handler failed")
		n.text(ctx, message)
		return Result{State: state, Transcript: n.transcript, Failed: true}
	}

	logx.Debug().
		Str("action", act.Name()).
		Str("user_id", to.UserID).
		Str("from_stage", string(state.Stage)).
		Str("to_stage", string(next.Stage)).
		Msg("action dispatched")
	return Result{State: next, Transcript: n.transcript}
}

func (d *Dispatcher) handle(ctx context.Context, n *notifier, to model.Recipient, act actions.Action, s *model.ConversationState) (*model.ConversationState, error) {
	switch a := act.(type) {
	case actions.ShowFoodMenu:
		return d.showFoodMenu(ctx, n, s)
	case actions.ShowCategoryItems:
		return d.showCategoryItems(ctx, n, s, a.Category)
	case actions.AddItemByName:
		return d.addItemByName(ctx, n, s, a.ItemName, a.Quantity)
	case actions.AddToCart:
		return d.addToCart(ctx, n, s, a.FoodID, a.Quantity)
	case actions.ShowCartOptions:
		return d.showCartOptions(ctx, n, s)
	case actions.ConfirmOrder:
		return d.confirmOrder(ctx, n, s, a.Items)
	case actions.ProcessOrderResponse:
		return d.processOrderResponse(ctx, n, to, s, a.Response)
	case actions.SelectServiceType:
		return d.selectServiceType(ctx, n, s, a.Type)
	case actions.ProvideLocation:
		return d.provideLocation(ctx, n, s, a.Address)
	case actions.CapturePartySize:
		return d.capturePartySize(ctx, n, s, a.PartySize)
	case actions.CaptureArrivalTime:
		return d.captureArrivalTime(ctx, n, s, a.ArrivalTime)
	case actions.ConfirmDeposit:
		return d.confirmDeposit(ctx, n, s)
	case actions.ShowPaymentOptions:
		return d.showPaymentOptions(ctx, n, s)
	case actions.ProcessPayment:
		return d.processPayment(ctx, n, s, a.Method)
	case actions.ShowOrderHistory:
		return d.showOrderHistory(ctx, n, to, s)
	case actions.RecommendFood:
		return d.recommendFood(ctx, n, s, a.Tag)
	case actions.ShowWelcome:
		return d.showWelcome(ctx, n, s)
	case actions.SendTextReply:
		return d.sendTextReply(ctx, n, s, a.Message)
	default:
		return nil, fmt.Errorf("no handler for action %q", act.Name())
	}
}
