package actions

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chative-ordering/orderbot/internal/agent/model"
)

func TestDecodeCoercesNumbers(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want Action
	}{
		{"float quantity", map[string]any{"name": "Veg Momo", "quantity": float64(2)}, AddItemByName{ItemName: "Veg Momo", Quantity: 2}},
		{"string quantity", map[string]any{"name": " Jhol Momo ", "quantity": "3"}, AddItemByName{ItemName: "Jhol Momo", Quantity: 3}},
		{"missing quantity", map[string]any{"name": "Coffee"}, AddItemByName{ItemName: "Coffee", Quantity: 1}},
		{"itemName alias", map[string]any{"itemName": "Coffee"}, AddItemByName{ItemName: "Coffee", Quantity: 1}},
		{"json number", map[string]any{"name": "Coffee", "quantity": json.Number("4")}, AddItemByName{ItemName: "Coffee", Quantity: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(NameAddItemByName, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeVariants(t *testing.T) {
	got, err := Decode(NameAddToCart, map[string]any{"foodId": "57"})
	require.NoError(t, err)
	assert.Equal(t, AddToCart{FoodID: 57, Quantity: 1}, got)

	got, err = Decode(NameShowMomoVarieties, nil)
	require.NoError(t, err)
	assert.Equal(t, ShowCategoryItems{Category: "momos"}, got)

	got, err = Decode(NameProcessPayment, map[string]any{"method": "cod"})
	require.NoError(t, err)
	assert.Equal(t, ProcessPayment{Method: model.PaymentCOD}, got)

	got, err = Decode(NameSelectServiceType, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, SelectServiceType{}, got)

	got, err = Decode(NameProcessOrderResponse, map[string]any{"action": "cancel_confirm"})
	require.NoError(t, err)
	assert.Equal(t, ProcessOrderResponse{Response: ResponseCancelConfirm}, got)
}

func TestDecodeConfirmOrderIgnoresPrices(t *testing.T) {
	got, err := Decode(NameConfirmOrder, map[string]any{
		"items": []any{
			map[string]any{"name": "Veg Momo", "quantity": float64(2), "price": float64(1)},
			map[string]any{"foodId": float64(7)},
			"garbage",
			map[string]any{"quantity": 3},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, ConfirmOrder{Items: []RequestedItem{
		{Name: "Veg Momo", Quantity: 2},
		{FoodID: 7, Quantity: 1},
	}}, got)

	got, err = Decode(NameConfirmOrder, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, ConfirmOrder{}, got)
}

func TestDecodeRejectsNonIntegers(t *testing.T) {
	_, err := Decode(NameAddToCart, map[string]any{"foodId": 1.5})
	assert.Error(t, err)

	_, err = Decode(NameCapturePartySize, map[string]any{"partySize": "many"})
	assert.Error(t, err)

	_, err = Decode("fly_to_moon", nil)
	assert.Error(t, err)
}

func TestAsNumber(t *testing.T) {
	n, ok := AsNumber("2.5")
	assert.True(t, ok)
	assert.Equal(t, 2.5, n)

	_, ok = AsNumber(true)
	assert.False(t, ok)
}
