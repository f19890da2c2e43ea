package dispatcher

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/chative-ordering/orderbot/internal/agent/actions"
	"github.com/chative-ordering/orderbot/internal/agent/model"
	logx "github.com/chative-ordering/orderbot/pkg/logger"
)

const orderUpdateFailedMessage = "Sorry, I couldn't update your order right now. Please try again."

func (d *Dispatcher) processOrderResponse(ctx context.Context, n *notifier, to model.Recipient, s *model.ConversationState, response actions.OrderResponse) (*model.ConversationState, error) {
	switch response {
	case actions.ResponseConfirmed:
		return d.confirmPendingOrder(ctx, n, to, s)
	case actions.ResponseCancelConfirm:
		count := s.CartCount()
		if s.OrderID != "" {
			d.cancelStaleOrder(ctx, s.OrderID)
		}
		n.text(ctx, fmt.Sprintf("❌ Order Cancelled\n\n%d item(s) removed from cart.\n\nNo worries! Feel free to browse our menu again whenever you're ready.\n\nType \"menu\" to start a new order! 🍽️", count))
		s.ResetOrder()
		s.Stage = model.StageInitial
		s.LastAction = "order_cancelled"
		return s, nil
	default:
		n.buttons(ctx, model.ButtonMessage{
			Header: "⚠️ Cancel Order?",
			Body: fmt.Sprintf("Are you sure you want to cancel?\n\n🛒 Cart: %d item(s)\n💰 Total: %s\n\nThis will remove all items from your cart.",
				s.CartCount(), d.money(s.CartTotal())),
			Footer: "Please confirm",
			Buttons: []model.Button{
				{ID: "confirm_cancel", Title: "Yes, Cancel ❌"},
				{ID: "back_to_cart", Title: "No, Go Back 🔙"},
			},
		})
		s.Stage = model.StageConfirmingCancel
		s.LastAction = "ask_cancel_confirmation"
		return s, nil
	}
}

// confirmPendingOrder persists the confirmed summary as an order. Without a
// current summary the cart is summarized again instead. A persistence failure
// still confirms the order to the user under a locally generated id.
func (d *Dispatcher) confirmPendingOrder(ctx context.Context, n *notifier, to model.Recipient, s *model.ConversationState) (*model.ConversationState, error) {
	if s.PendingOrder == nil || len(s.PendingOrder.Items) == 0 {
		return d.confirmOrder(ctx, n, s, nil)
	}
	if s.OrderID != "" {
		return d.askServiceType(ctx, n, s), nil
	}

	s.Cart = append([]model.CartLine{}, s.PendingOrder.Items...)
	orderID, err := d.persistOrder(ctx, to, s.PendingOrder.Items)
	if err != nil {
		fallbackID := d.fallbackOrderID()
		logx.Error().
			Err(err).
			Str("user_id", to.UserID).
			Str("fallback_order_id", fallbackID).
			Msg("order persistence failed; confirming with fallback id")
		n.text(ctx, fmt.Sprintf("✅ Order Confirmed!\n\nThank you for your order! Your delicious food is being prepared and will be delivered in 30-40 minutes.\n\nOrder ID: #%s\n\nEnjoy your meal! 🥟", fallbackID))
		s.ResetOrder()
		s.Stage = model.StageOrderComplete
		s.LastAction = "order_confirmed"
		return s, nil
	}

	s.OrderID = orderID
	return d.askServiceType(ctx, n, s), nil
}

func (d *Dispatcher) persistOrder(ctx context.Context, to model.Recipient, lines []model.CartLine) (string, error) {
	orderID, err := d.orders.CreateOrder(ctx, to.UserID, to.Platform)
	if err != nil {
		return "", err
	}
	for _, l := range lines {
		if err := d.orders.AddLineItem(ctx, orderID, l.FoodID, l.Quantity); err != nil {
			d.cancelStaleOrder(ctx, orderID)
			return "", err
		}
	}
	return orderID, nil
}

func (d *Dispatcher) cancelStaleOrder(ctx context.Context, orderID string) {
	if err := d.orders.CancelOrder(ctx, orderID); err != nil {
		logx.Warn().Err(err).Str("order_id", orderID).Msg("cancel order failed")
	}
}

func (d *Dispatcher) askServiceType(ctx context.Context, n *notifier, s *model.ConversationState) *model.ConversationState {
	n.buttons(ctx, model.ButtonMessage{
		Header: "🍽️ Service Type",
		Body:   "Would you like to Dine-in or have it Delivered?",
		Footer: "Please select one",
		Buttons: []model.Button{
			{ID: "service_dine_in", Title: "Dine-in 🍽️"},
			{ID: "service_delivery", Title: "Delivery 🛵"},
		},
	})
	s.Stage = model.StageSelectingService
	s.LastAction = "ask_service_type"
	return s
}

func (d *Dispatcher) selectServiceType(ctx context.Context, n *notifier, s *model.ConversationState, serviceType model.ServiceType) (*model.ConversationState, error) {
	switch serviceType {
	case model.ServiceDineIn:
		if s.OrderID != "" {
			if err := d.orders.SetServiceType(ctx, s.OrderID, model.ServiceDineIn); err != nil {
				return nil, fail(orderUpdateFailedMessage, err)
			}
			if err := d.orders.SetDeliveryAddress(ctx, s.OrderID, "Dine-in"); err != nil {
				return nil, fail(orderUpdateFailedMessage, err)
			}
		}
		n.text(ctx, "🍽️ *Dine-in Reservation*\n\nHow many people are coming? (Please type a number, e.g., '4')")
		s.ServiceType = model.ServiceDineIn
		s.Stage = model.StageCollectingPartySize
		s.LastAction = "collect_party_size"
		return s, nil
	case model.ServiceDelivery:
		if s.OrderID != "" {
			if err := d.orders.SetServiceType(ctx, s.OrderID, model.ServiceDelivery); err != nil {
				return nil, fail(orderUpdateFailedMessage, err)
			}
		}
		n.text(ctx, "📍 *Delivery Location*\n\nPlease type your delivery address/location so we can bring your food to you! 🏠")
		s.ServiceType = model.ServiceDelivery
		s.Stage = model.StageProvidingLocation
		s.LastAction = "ask_location"
		return s, nil
	default:
		return d.askServiceType(ctx, n, s), nil
	}
}

func (d *Dispatcher) provideLocation(ctx context.Context, n *notifier, s *model.ConversationState, address string) (*model.ConversationState, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		n.text(ctx, "Please provide a valid delivery address.")
		return s, nil
	}
	if s.OrderID != "" {
		if err := d.orders.SetDeliveryAddress(ctx, s.OrderID, address); err != nil {
			return nil, fail(orderUpdateFailedMessage, err)
		}
	}
	n.text(ctx, fmt.Sprintf("✅ Delivery address set to: *%s*", address))
	s.DeliveryAddress = address
	return d.showPaymentOptions(ctx, n, s)
}

func (d *Dispatcher) capturePartySize(ctx context.Context, n *notifier, s *model.ConversationState, partySize int) (*model.ConversationState, error) {
	n.text(ctx, fmt.Sprintf("🕒 *Arrival Time*\n\nGreat! Table for %d. What time will you arrive today?\n(e.g., \"7:30 PM\" or \"19:30\")", partySize))
	if s.Reservation == nil {
		s.Reservation = &model.Reservation{}
	}
	s.Reservation.PartySize = partySize
	s.Stage = model.StageCollectingArrivalTime
	s.LastAction = "collect_arrival_time"
	return s, nil
}

func (d *Dispatcher) captureArrivalTime(ctx context.Context, n *notifier, s *model.ConversationState, arrivalTime string) (*model.ConversationState, error) {
	arrivalTime = strings.TrimSpace(arrivalTime)
	if s.Reservation == nil {
		s.Reservation = &model.Reservation{}
	}
	total := s.CartTotal()
	if s.PendingOrder != nil {
		total = s.PendingOrder.Total
	}
	deposit := DepositFor(total, d.config.DepositRate)

	if s.OrderID != "" {
		if err := d.orders.SetReservation(ctx, s.OrderID, s.Reservation.PartySize, arrivalTime); err != nil {
			return nil, fail(orderUpdateFailedMessage, err)
		}
		if err := d.orders.SetDeposit(ctx, s.OrderID, deposit, model.DepositPending); err != nil {
			return nil, fail(orderUpdateFailedMessage, err)
		}
	}

	percent := strconv.FormatFloat(d.config.DepositRate*100, 'f', -1, 64)
	n.buttons(ctx, model.ButtonMessage{
		Header: "📝 Reservation Summary",
		Body: fmt.Sprintf("👤 Party Size: %d\n🕒 Time: %s\n\n⚠️ *Deposit Required*\nTo confirm your table, we require a %s%% deposit.\n\n💰 Total Order: %s\n💳 *Deposit Amount: %s*\n\nℹ️ _This deposit is refundable if cancelled 3+ hours before booking time._",
			s.Reservation.PartySize, arrivalTime, percent, d.money(total), d.money(deposit)),
		Footer: "Confirm to proceed",
		Buttons: []model.Button{
			{ID: "confirm_deposit", Title: "Confirm & Pay 💰"},
			{ID: "cancel_order", Title: "Cancel ❌"},
		},
	})

	s.Reservation.ArrivalTime = arrivalTime
	s.Reservation.DepositAmount = deposit
	s.Stage = model.StageConfirmingDeposit
	s.LastAction = "confirm_reservation_deposit"
	return s, nil
}

// DepositFor rounds rate*total up to a whole currency unit.
func DepositFor(total, rate float64) float64 {
	return math.Ceil(total*rate - 1e-9)
}

func (d *Dispatcher) confirmDeposit(ctx context.Context, n *notifier, s *model.ConversationState) (*model.ConversationState, error) {
	if s.OrderID != "" && s.Reservation != nil {
		if err := d.orders.SetDeposit(ctx, s.OrderID, s.Reservation.DepositAmount, model.DepositConfirmed); err != nil {
			return nil, fail(orderUpdateFailedMessage, err)
		}
	}
	s.ServiceType = model.ServiceDineIn
	return d.showPaymentOptions(ctx, n, s)
}

func (d *Dispatcher) showPaymentOptions(ctx context.Context, n *notifier, s *model.ConversationState) (*model.ConversationState, error) {
	if s.ServiceType == model.ServiceDineIn {
		n.buttons(ctx, model.ButtonMessage{
			Header: "💳 Payment Method (Dine-in)",
			Body:   "How would you like to pay for your dine-in order?",
			Footer: "Select to continue",
			Buttons: []model.Button{
				{ID: "pay_cash_counter", Title: "Cash at Counter 💵"},
				{ID: "pay_online", Title: "Online Payment 📱"},
			},
		})
	} else {
		n.buttons(ctx, model.ButtonMessage{
			Header: "💳 Payment Method (Delivery)",
			Body:   "Choose your preferred payment method:",
			Footer: "Select to continue",
			Buttons: []model.Button{
				{ID: "pay_cod", Title: "Cash on Delivery 💵"},
				{ID: "pay_online", Title: "Online Payment 📱"},
			},
		})
	}
	s.Stage = model.StageSelectingPayment
	s.LastAction = actions.NameShowPaymentOptions
	return s, nil
}

func (d *Dispatcher) processPayment(ctx context.Context, n *notifier, s *model.ConversationState, method model.PaymentMethod) (*model.ConversationState, error) {
	if s.OrderID != "" {
		if err := d.orders.SetPaymentMethod(ctx, s.OrderID, method); err != nil {
			return nil, fail("Sorry, we couldn't record your payment choice. Please try again.", err)
		}
	}

	total := s.CartTotal()
	if total == 0 && s.PendingOrder != nil {
		total = s.PendingOrder.Total
	}
	ref := s.OrderID
	if ref == "" {
		ref = d.fallbackOrderID()
	}
	dineIn := s.ServiceType == model.ServiceDineIn
	amount := d.money(total)

	switch {
	case method == model.PaymentOnline:
		n.text(ctx, d.onlinePaymentDetails(amount, ref))
		if dineIn {
			n.text(ctx, "✅ Order Placed!\n\nYour order will be prepared once payment is confirmed.\n\n🍽️ Please come to our restaurant to enjoy your meal!\n\nPreparation time: 15-20 minutes.\n\nThank you for ordering! 🥟")
		} else {
			n.text(ctx, "✅ Order Placed!\n\nYour order will be prepared once payment is confirmed.\n\n🛵 Delivery: 30-40 minutes after confirmation.\n\nThank you for ordering! 🥟")
		}
	case dineIn:
		n.text(ctx, fmt.Sprintf("✅ Order Confirmed!\n\n💳 Payment: Cash at Counter\n💰 Amount: %s\n\nYour delicious food is being prepared!\n\n🍽️ Please come to our restaurant and pay at the counter.\n\nOrder ID: #%s\n\nPreparation time: 15-20 minutes.\n\nEnjoy your meal! 🥟", amount, ref))
	default:
		n.text(ctx, fmt.Sprintf("✅ Order Confirmed!\n\n💳 Payment: Cash on Delivery\n💰 Amount: %s\n\nYour delicious food is being prepared and will be delivered in 30-40 minutes.\n\nOrder ID: #%s\n\nPlease keep %s ready!\n\nEnjoy your meal! 🥟", amount, ref, amount))
	}

	s.ResetOrder()
	s.PaymentMethod = method
	s.Stage = model.StageOrderComplete
	s.LastAction = "order_confirmed"
	return s, nil
}

func (d *Dispatcher) onlinePaymentDetails(amount, ref string) string {
	name := d.config.Name
	return "💳 *Online Payment Details*\n\n" +
		"━━━━━━━━━━━━━━━━━━━━━\n" +
		"📱 *eSewa*\n" +
		"   ID: 9800000001\n" +
		"   Name: " + name + " Pvt Ltd\n\n" +
		"📱 *Khalti*\n" +
		"   ID: 9800000002\n" +
		"   Name: " + name + "\n\n" +
		"🏦 *Bank Transfer*\n" +
		"   Bank: Nepal Bank Ltd\n" +
		"   A/C: 0123456789012\n" +
		"   Name: " + name + " Pvt Ltd\n" +
		"━━━━━━━━━━━━━━━━━━━━━\n\n" +
		"💰 *Amount to Pay: " + amount + "*\n\n" +
		"📝 Please send payment screenshot to confirm.\n" +
		"Order ID: #" + ref
}
