package actions

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/chative-ordering/orderbot/internal/agent/model"
)

// Decode turns validated arguments into a typed action. Numbers may arrive
// as JSON numbers or numeric strings.
func Decode(name string, args map[string]any) (Action, error) {
	if args == nil {
		args = map[string]any{}
	}
	switch name {
	case NameShowFoodMenu:
		return ShowFoodMenu{}, nil
	case NameShowCategoryItems:
		return ShowCategoryItems{Category: strings.ToLower(String(args, "category"))}, nil
	case NameShowMomoVarieties:
		return ShowCategoryItems{Category: "momos"}, nil
	case NameAddItemByName:
		itemName := String(args, "name")
		if itemName == "" {
			itemName = String(args, "itemName")
		}
		return AddItemByName{ItemName: itemName, Quantity: quantity(args)}, nil
	case NameAddToCart:
		id, ok := Int(args, "foodId")
		if !ok {
			return nil, fmt.Errorf("decode %s: foodId is not an integer", name)
		}
		return AddToCart{FoodID: int64(id), Quantity: quantity(args)}, nil
	case NameShowCartOptions:
		return ShowCartOptions{}, nil
	case NameConfirmOrder:
		return ConfirmOrder{Items: requestedItems(args["items"])}, nil
	case NameProcessOrderResponse:
		return ProcessOrderResponse{Response: OrderResponse(String(args, "action"))}, nil
	case NameSelectServiceType:
		t := String(args, "type")
		if t == "" {
			t = String(args, "serviceType")
		}
		return SelectServiceType{Type: model.ServiceType(t)}, nil
	case NameProvideLocation:
		return ProvideLocation{Address: String(args, "address")}, nil
	case NameCapturePartySize:
		n, ok := Int(args, "partySize")
		if !ok {
			return nil, fmt.Errorf("decode %s: partySize is not an integer", name)
		}
		return CapturePartySize{PartySize: n}, nil
	case NameCaptureArrivalTime:
		return CaptureArrivalTime{ArrivalTime: String(args, "arrivalTime")}, nil
	case NameConfirmDeposit:
		return ConfirmDeposit{}, nil
	case NameShowPaymentOptions:
		return ShowPaymentOptions{}, nil
	case NameProcessPayment:
		return ProcessPayment{Method: model.PaymentMethod(strings.ToUpper(String(args, "method")))}, nil
	case NameShowOrderHistory:
		return ShowOrderHistory{}, nil
	case NameRecommendFood:
		return RecommendFood{Tag: String(args, "tag")}, nil
	case NameShowWelcome:
		return ShowWelcome{}, nil
	case NameSendTextReply:
		return SendTextReply{Message: String(args, "message")}, nil
	}
	return nil, fmt.Errorf("decode: unknown action %q", name)
}

// String returns the trimmed string argument, or "" when absent or not a string.
func String(args map[string]any, field string) string {
	s, _ := args[field].(string)
	return strings.TrimSpace(s)
}

// Int coerces an integral JSON number or numeric string.
func Int(args map[string]any, field string) (int, bool) {
	v, ok := args[field]
	if !ok {
		return 0, false
	}
	return AsInt(v)
}

// AsInt coerces v into an int when it holds an integral value.
func AsInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case float32:
		return AsInt(float64(n))
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		if f, err := n.Float64(); err == nil {
			return AsInt(f)
		}
	case string:
		s := strings.TrimSpace(n)
		if i, err := strconv.Atoi(s); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return AsInt(f)
		}
	}
	return 0, false
}

// AsNumber coerces v into a float64.
func AsNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func quantity(args map[string]any) int {
	if q, ok := Int(args, "quantity"); ok && q > 0 {
		return q
	}
	return 1
}

func requestedItems(v any) []RequestedItem {
	raw, ok := v.([]any)
	if !ok || len(raw) == 0 {
		return nil
	}
	items := make([]RequestedItem, 0, len(raw))
	for _, r := range raw {
		m, ok := r.(map[string]any)
		if !ok {
			continue
		}
		item := RequestedItem{Name: String(m, "name"), Quantity: quantity(m)}
		if id, ok := Int(m, "foodId"); ok && id > 0 {
			item.FoodID = int64(id)
		}
		if item.FoodID == 0 && item.Name == "" {
			continue
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil
	}
	return items
}
