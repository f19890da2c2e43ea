package resolver

import (
	"strconv"
	"strings"

	"github.com/chative-ordering/orderbot/internal/agent/actions"
	"github.com/chative-ordering/orderbot/internal/agent/model"
	"github.com/chative-ordering/orderbot/internal/agent/validator"
)

const invalidPartySizeMessage = "Please enter a valid number for party size."

const maxPartySize = 50

// stageArgs checks captured free text against the same argument specs a
// model decision for the action would be held to.
var stageArgs = validator.New(actions.Default())

var historyKeywords = []string{"order history", "my orders", "past orders", "previous orders"}

// Resolve returns the action determined by explicit rules, or false when the
// event must go to the classifier. Callbacks win over stage capture, which
// wins over keyword shortcuts.
func Resolve(ev model.InboundEvent, state *model.ConversationState) (actions.Action, bool) {
	if ev.Callback != nil {
		if act, ok := resolveCallback(ev.Callback.ID); ok {
			return act, true
		}
	}

	text := strings.TrimSpace(ev.Text)
	if ev.Callback == nil && text != "" && state != nil {
		if act, ok := resolveStage(text, state.Stage); ok {
			return act, true
		}
	}

	lower := strings.ToLower(text)
	for _, kw := range historyKeywords {
		if strings.Contains(lower, kw) {
			return actions.ShowOrderHistory{}, true
		}
	}
	return nil, false
}

func resolveCallback(id string) (actions.Action, bool) {
	switch {
	case strings.HasPrefix(id, "cat_"):
		return actions.ShowCategoryItems{Category: strings.TrimPrefix(id, "cat_")}, true
	case strings.HasPrefix(id, "add_"):
		if foodID, err := strconv.ParseInt(strings.TrimPrefix(id, "add_"), 10, 64); err == nil {
			return actions.AddToCart{FoodID: foodID, Quantity: 1}, true
		}
	case strings.HasPrefix(id, "more_"):
		return actions.ShowCategoryItems{Category: strings.TrimPrefix(id, "more_")}, true
	}

	switch id {
	case "GET_STARTED":
		return actions.ShowWelcome{}, true
	case "add_more_items", "view_all_categories":
		return actions.ShowFoodMenu{}, true
	case "service_dine_in":
		return actions.SelectServiceType{Type: model.ServiceDineIn}, true
	case "service_delivery":
		return actions.SelectServiceType{Type: model.ServiceDelivery}, true
	case "proceed_checkout":
		return actions.ConfirmOrder{}, true
	case "confirm_order":
		return actions.ProcessOrderResponse{Response: actions.ResponseConfirmed}, true
	case "cancel_order":
		return actions.ProcessOrderResponse{Response: actions.ResponseCancelled}, true
	case "confirm_cancel":
		return actions.ProcessOrderResponse{Response: actions.ResponseCancelConfirm}, true
	case "back_to_cart":
		return actions.ShowCartOptions{}, true
	case "pay_online":
		return actions.ProcessPayment{Method: model.PaymentOnline}, true
	case "pay_cash_counter":
		return actions.ProcessPayment{Method: model.PaymentCashCounter}, true
	case "pay_cod":
		return actions.ProcessPayment{Method: model.PaymentCOD}, true
	case "confirm_deposit":
		return actions.ConfirmDeposit{}, true
	}
	return nil, false
}

func resolveStage(text string, stage model.Stage) (actions.Action, bool) {
	switch stage {
	case model.StageCollectingPartySize:
		n, ok := leadingInt(text)
		if !ok || n < 1 || n > maxPartySize {
			return actions.SendTextReply{Message: invalidPartySizeMessage}, true
		}
		return actions.CapturePartySize{PartySize: n}, true
	case model.StageCollectingArrivalTime:
		if r := stageArgs.Validate(actions.NameCaptureArrivalTime, map[string]any{"arrivalTime": text}); !r.OK {
			return actions.SendTextReply{Message: r.Message}, true
		}
		return actions.CaptureArrivalTime{ArrivalTime: text}, true
	case model.StageProvidingLocation:
		if r := stageArgs.Validate(actions.NameProvideLocation, map[string]any{"address": text}); !r.OK {
			return actions.SendTextReply{Message: r.Message}, true
		}
		return actions.ProvideLocation{Address: text}, true
	}
	return nil, false
}

// leadingInt parses the digits at the start of s, so "4 people" is 4.
func leadingInt(s string) (int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 || end > 6 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
