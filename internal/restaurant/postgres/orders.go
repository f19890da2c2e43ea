package postgres

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/chative-ordering/orderbot/internal/agent/model"
	errx "github.com/chative-ordering/orderbot/internal/core/error"
	logx "github.com/chative-ordering/orderbot/pkg/logger"
)

const (
	createOrderSQL = `INSERT INTO orders (user_id, platform, status, created_at) VALUES ($1, $2, $3, NOW()) RETURNING id`

	addLineItemSQL = `INSERT INTO order_items (order_id, food_id, quantity) VALUES ($1, $2, $3)
ON CONFLICT (order_id, food_id) DO UPDATE SET quantity = order_items.quantity + EXCLUDED.quantity`

	setServiceTypeSQL  = `UPDATE orders SET service_type = $1, updated_at = NOW() WHERE id = $2`
	setAddressSQL      = `UPDATE orders SET address = $1, updated_at = NOW() WHERE id = $2`
	setReservationSQL  = `UPDATE orders SET party_size = $1, arrival_time = $2, updated_at = NOW() WHERE id = $3`
	setDepositSQL      = `UPDATE orders SET deposit_amount = $1, deposit_status = $2, updated_at = NOW() WHERE id = $3`
	setPaymentSQL      = `UPDATE orders SET payment_method = $1, status = $2, updated_at = NOW() WHERE id = $3`
	setOrderStatusSQL  = `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`
	listRecentOrderSQL = `SELECT o.id, o.status, COALESCE(o.payment_method, ''), o.created_at,
       COUNT(oi.id), COALESCE(SUM(oi.quantity * f.price), 0)::float8
FROM orders o
LEFT JOIN order_items oi ON o.id = oi.order_id
LEFT JOIN foods f ON oi.food_id = f.id
WHERE o.user_id = $1
GROUP BY o.id
ORDER BY o.created_at DESC
LIMIT $2`
)

type Orders struct {
	db DBTX
}

func NewOrders(db DBTX) *Orders {
	return &Orders{db: db}
}

func (o *Orders) CreateOrder(ctx context.Context, userID string, platform model.Platform) (string, error) {
	var id int64
	if err := o.db.QueryRow(ctx, createOrderSQL, userID, string(platform), model.OrderStatusCreated).Scan(&id); err != nil {
		logx.Error().Err(err).Str("user_id", userID).Msg("failed to create order")
		return "", errx.WrapPostgres(err)
	}
	return strconv.FormatInt(id, 10), nil
}

func (o *Orders) AddLineItem(ctx context.Context, orderID string, foodID int64, quantity int) error {
	id, err := parseOrderID(orderID)
	if err != nil {
		return err
	}
	if _, err := o.db.Exec(ctx, addLineItemSQL, id, foodID, quantity); err != nil {
		logx.Error().Err(err).Str("order_id", orderID).Int64("food_id", foodID).Msg("failed to add order item")
		return errx.WrapPostgres(err)
	}
	return nil
}

func (o *Orders) SetServiceType(ctx context.Context, orderID string, serviceType model.ServiceType) error {
	return o.update(ctx, orderID, setServiceTypeSQL, string(serviceType))
}

func (o *Orders) SetDeliveryAddress(ctx context.Context, orderID string, address string) error {
	return o.update(ctx, orderID, setAddressSQL, address)
}

func (o *Orders) SetReservation(ctx context.Context, orderID string, partySize int, arrivalTime string) error {
	return o.update(ctx, orderID, setReservationSQL, partySize, arrivalTime)
}

func (o *Orders) SetDeposit(ctx context.Context, orderID string, amount float64, status string) error {
	return o.update(ctx, orderID, setDepositSQL, amount, status)
}

func (o *Orders) SetPaymentMethod(ctx context.Context, orderID string, method model.PaymentMethod) error {
	return o.update(ctx, orderID, setPaymentSQL, string(method), model.OrderStatusConfirmed)
}

func (o *Orders) CancelOrder(ctx context.Context, orderID string) error {
	return o.update(ctx, orderID, setOrderStatusSQL, model.OrderStatusCancelled)
}

func (o *Orders) ListRecentOrders(ctx context.Context, userID string, limit int) ([]model.OrderRecord, error) {
	rows, err := o.db.Query(ctx, listRecentOrderSQL, userID, limit)
	if err != nil {
		logx.Error().Err(err).Str("user_id", userID).Msg("failed to list orders")
		return nil, errx.WrapPostgres(err)
	}
	defer rows.Close()

	var out []model.OrderRecord
	for rows.Next() {
		var (
			id        int64
			rec       model.OrderRecord
			itemCount int64
			createdAt time.Time
		)
		if err := rows.Scan(&id, &rec.Status, &rec.PaymentMethod, &createdAt, &itemCount, &rec.Total); err != nil {
			return nil, errx.WrapPostgres(err)
		}
		rec.ID = strconv.FormatInt(id, 10)
		rec.CreatedAt = createdAt
		rec.ItemCount = int(itemCount)
		out = append(out, rec)
	}
	return out, errx.WrapPostgres(rows.Err())
}

// update runs sql with args followed by the order id; no matched row is a 404.
func (o *Orders) update(ctx context.Context, orderID, sql string, args ...any) error {
	id, err := parseOrderID(orderID)
	if err != nil {
		return err
	}
	tag, err := o.db.Exec(ctx, sql, append(args, id)...)
	if err != nil {
		logx.Error().Err(err).Str("order_id", orderID).Msg("failed to update order")
		return errx.WrapPostgres(err)
	}
	if tag.RowsAffected() == 0 {
		return errx.WrapPostgres(pgx.ErrNoRows)
	}
	return nil
}

var _ model.OrderStore = (*Orders)(nil)
