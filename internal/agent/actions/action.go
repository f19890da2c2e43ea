package actions

import "github.com/chative-ordering/orderbot/internal/agent/model"

// Action is one resolved operation. The set of implementations is closed.
type Action interface {
	Name() string
	isAction()
}

type OrderResponse string

const (
	ResponseConfirmed     OrderResponse = "confirmed"
	ResponseCancelled     OrderResponse = "cancelled"
	ResponseCancelConfirm OrderResponse = "cancel_confirm"
)

// RequestedItem is a provisional order line; it is re-resolved against the
// catalog before it reaches an order. Any price the caller had is ignored.
type RequestedItem struct {
	FoodID   int64
	Name     string
	Quantity int
}

type ShowFoodMenu struct{}

type ShowCategoryItems struct {
	Category string
}

type AddItemByName struct {
	ItemName string
	Quantity int
}

type AddToCart struct {
	FoodID   int64
	Quantity int
}

type ShowCartOptions struct{}

// ConfirmOrder checks out Items, or the cart when Items is nil.
type ConfirmOrder struct {
	Items []RequestedItem
}

type ProcessOrderResponse struct {
	Response OrderResponse
}

// SelectServiceType asks for the service type when Type is empty.
type SelectServiceType struct {
	Type model.ServiceType
}

type ProvideLocation struct {
	Address string
}

type CapturePartySize struct {
	PartySize int
}

type CaptureArrivalTime struct {
	ArrivalTime string
}

type ConfirmDeposit struct{}

type ShowPaymentOptions struct{}

type ProcessPayment struct {
	Method model.PaymentMethod
}

type ShowOrderHistory struct{}

type RecommendFood struct {
	Tag string
}

type ShowWelcome struct{}

type SendTextReply struct {
	Message string
}

func (ShowFoodMenu) Name() string         { return NameShowFoodMenu }
func (ShowCategoryItems) Name() string    { return NameShowCategoryItems }
func (AddItemByName) Name() string        { return NameAddItemByName }
func (AddToCart) Name() string            { return NameAddToCart }
func (ShowCartOptions) Name() string      { return NameShowCartOptions }
func (ConfirmOrder) Name() string         { return NameConfirmOrder }
func (ProcessOrderResponse) Name() string { return NameProcessOrderResponse }
func (SelectServiceType) Name() string    { return NameSelectServiceType }
func (ProvideLocation) Name() string      { return NameProvideLocation }
func (CapturePartySize) Name() string     { return NameCapturePartySize }
func (CaptureArrivalTime) Name() string   { return NameCaptureArrivalTime }
func (ConfirmDeposit) Name() string       { return NameConfirmDeposit }
func (ShowPaymentOptions) Name() string   { return NameShowPaymentOptions }
func (ProcessPayment) Name() string       { return NameProcessPayment }
func (ShowOrderHistory) Name() string     { return NameShowOrderHistory }
func (RecommendFood) Name() string        { return NameRecommendFood }
func (ShowWelcome) Name() string          { return NameShowWelcome }
func (SendTextReply) Name() string        { return NameSendTextReply }

func (ShowFoodMenu) isAction()         {}
func (ShowCategoryItems) isAction()    {}
func (AddItemByName) isAction()        {}
func (AddToCart) isAction()            {}
func (ShowCartOptions) isAction()      {}
func (ConfirmOrder) isAction()         {}
func (ProcessOrderResponse) isAction() {}
func (SelectServiceType) isAction()    {}
func (ProvideLocation) isAction()      {}
func (CapturePartySize) isAction()     {}
func (CaptureArrivalTime) isAction()   {}
func (ConfirmDeposit) isAction()       {}
func (ShowPaymentOptions) isAction()   {}
func (ProcessPayment) isAction()       {}
func (ShowOrderHistory) isAction()     {}
func (RecommendFood) isAction()        {}
func (ShowWelcome) isAction()          {}
func (SendTextReply) isAction()        {}
