package resolver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chative-ordering/orderbot/internal/agent/actions"
	"github.com/chative-ordering/orderbot/internal/agent/model"
)

func tap(id string) model.InboundEvent {
	return model.InboundEvent{UserID: "u1", Platform: model.PlatformWhatsApp, Callback: &model.Callback{Kind: model.CallbackButton, ID: id}}
}

func say(text string) model.InboundEvent {
	return model.InboundEvent{UserID: "u1", Platform: model.PlatformWhatsApp, Text: text}
}

func stateAt(stage model.Stage) *model.ConversationState {
	s := model.NewConversationState()
	s.Stage = stage
	return s
}

func TestResolveCallbacks(t *testing.T) {
	tests := []struct {
		id   string
		want actions.Action
	}{
		{"cat_noodles", actions.ShowCategoryItems{Category: "noodles"}},
		{"add_57", actions.AddToCart{FoodID: 57, Quantity: 1}},
		{"more_rice", actions.ShowCategoryItems{Category: "rice"}},
		{"GET_STARTED", actions.ShowWelcome{}},
		{"add_more_items", actions.ShowFoodMenu{}},
		{"view_all_categories", actions.ShowFoodMenu{}},
		{"service_dine_in", actions.SelectServiceType{Type: model.ServiceDineIn}},
		{"service_delivery", actions.SelectServiceType{Type: model.ServiceDelivery}},
		{"proceed_checkout", actions.ConfirmOrder{}},
		{"confirm_order", actions.ProcessOrderResponse{Response: actions.ResponseConfirmed}},
		{"cancel_order", actions.ProcessOrderResponse{Response: actions.ResponseCancelled}},
		{"confirm_cancel", actions.ProcessOrderResponse{Response: actions.ResponseCancelConfirm}},
		{"back_to_cart", actions.ShowCartOptions{}},
		{"pay_online", actions.ProcessPayment{Method: model.PaymentOnline}},
		{"pay_cash_counter", actions.ProcessPayment{Method: model.PaymentCashCounter}},
		{"pay_cod", actions.ProcessPayment{Method: model.PaymentCOD}},
		{"confirm_deposit", actions.ConfirmDeposit{}},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, ok := Resolve(tap(tt.id), stateAt(model.StageInitial))
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCallbackWinsRegardlessOfStageAndHistory(t *testing.T) {
	for _, stage := range []model.Stage{model.StageCollectingPartySize, model.StageProvidingLocation, model.StageOrderComplete} {
		s := stateAt(stage)
		s.AppendHistory(model.RoleUser, "show me my orders", 10)
		ev := tap("add_57")
		ev.Text = "my orders"

		got, ok := Resolve(ev, s)
		require.True(t, ok)
		assert.Equal(t, actions.AddToCart{FoodID: 57, Quantity: 1}, got)
	}
}

func TestUnknownCallbackFallsThrough(t *testing.T) {
	_, ok := Resolve(tap("add_abc"), stateAt(model.StageInitial))
	assert.False(t, ok)

	_, ok = Resolve(tap("something_else"), stateAt(model.StageCollectingPartySize))
	assert.False(t, ok, "stage capture only applies to typed text")
}

func TestStageCapture(t *testing.T) {
	got, ok := Resolve(say("4"), stateAt(model.StageCollectingPartySize))
	require.True(t, ok)
	assert.Equal(t, actions.CapturePartySize{PartySize: 4}, got)

	got, ok = Resolve(say("6 people"), stateAt(model.StageCollectingPartySize))
	require.True(t, ok)
	assert.Equal(t, actions.CapturePartySize{PartySize: 6}, got)

	for _, bad := range []string{"four", "0", "99", "-2"} {
		got, ok = Resolve(say(bad), stateAt(model.StageCollectingPartySize))
		require.True(t, ok, bad)
		assert.Equal(t, actions.SendTextReply{Message: invalidPartySizeMessage}, got, bad)
	}

	got, ok = Resolve(say("7:30 PM"), stateAt(model.StageCollectingArrivalTime))
	require.True(t, ok)
	assert.Equal(t, actions.CaptureArrivalTime{ArrivalTime: "7:30 PM"}, got)

	got, ok = Resolve(say("  Thamel, Kathmandu "), stateAt(model.StageProvidingLocation))
	require.True(t, ok)
	assert.Equal(t, actions.ProvideLocation{Address: "Thamel, Kathmandu"}, got)
}

func TestStageCaptureRejectsOutOfBoundsText(t *testing.T) {
	got, ok := Resolve(say("ok"), stateAt(model.StageProvidingLocation))
	require.True(t, ok)
	assert.Equal(t, actions.SendTextReply{Message: "Please provide a valid delivery address."}, got)

	got, ok = Resolve(say(strings.Repeat("7", 101)), stateAt(model.StageCollectingArrivalTime))
	require.True(t, ok)
	assert.Equal(t, actions.SendTextReply{Message: "Please tell us what time you will arrive (e.g. \"7:30 PM\")."}, got)

	got, ok = Resolve(say(strings.Repeat("7", 100)), stateAt(model.StageCollectingArrivalTime))
	require.True(t, ok)
	assert.IsType(t, actions.CaptureArrivalTime{}, got)
}

func TestStageCaptureBeatsKeywords(t *testing.T) {
	got, ok := Resolve(say("my orders street 5"), stateAt(model.StageProvidingLocation))
	require.True(t, ok)
	assert.Equal(t, actions.ProvideLocation{Address: "my orders street 5"}, got)
}

func TestKeywordShortcut(t *testing.T) {
	for _, text := range []string{"Show my ORDER HISTORY", "what are my orders", "past orders please", "Previous orders?"} {
		got, ok := Resolve(say(text), stateAt(model.StageViewingItems))
		require.True(t, ok, text)
		assert.Equal(t, actions.ShowOrderHistory{}, got)
	}
}

func TestDefersToClassifier(t *testing.T) {
	_, ok := Resolve(say("I want two veg momos"), stateAt(model.StageInitial))
	assert.False(t, ok)

	_, ok = Resolve(say("4"), stateAt(model.StageViewingMenu))
	assert.False(t, ok)
}

func TestParseInteractive(t *testing.T) {
	tests := []struct {
		name string
		in   *Interactive
		want *model.Callback
	}{
		{"nil", nil, nil},
		{"whatsapp button", &Interactive{Type: "button_reply", ButtonReply: &Reply{ID: "pay_cod", Title: "Cash on Delivery"}}, &model.Callback{Kind: model.CallbackButton, ID: "pay_cod", Label: "Cash on Delivery"}},
		{"whatsapp list", &Interactive{Type: "list_reply", ListReply: &Reply{ID: "add_3", Title: "Fried Veg Momo"}}, &model.Callback{Kind: model.CallbackList, ID: "add_3", Label: "Fried Veg Momo"}},
		{"messenger postback", &Interactive{Type: "postback", Payload: "GET_STARTED", Title: "Get Started"}, &model.Callback{Kind: model.CallbackButton, ID: "GET_STARTED", Label: "Get Started"}},
		{"messenger quick reply", &Interactive{Type: "quick_reply", Payload: "cat_momos"}, &model.Callback{Kind: model.CallbackButton, ID: "cat_momos", Label: "cat_momos"}},
		{"missing reply body", &Interactive{Type: "button_reply"}, nil},
		{"empty payload", &Interactive{Type: "postback", Payload: "  "}, nil},
		{"unknown type", &Interactive{Type: "reaction"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseInteractive(tt.in))
		})
	}
}
