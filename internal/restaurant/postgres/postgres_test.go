package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chative-ordering/orderbot/internal/agent/model"
	errx "github.com/chative-ordering/orderbot/internal/core/error"
)

var foodCols = []string{"id", "name", "description", "price", "category", "image_url", "available"}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestListCategories(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(listCategoriesSQL)).
		WillReturnRows(mock.NewRows([]string{"category"}).AddRow("beverages").AddRow("momos"))

	cats, err := NewCatalog(mock).ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Category{{Name: "beverages"}, {Name: "momos"}}, cats)
}

func TestGetItemByID(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(getItemByIDSQL)).
		WithArgs(int64(1)).
		WillReturnRows(mock.NewRows(foodCols).AddRow(int64(1), "Steamed Veg Momo", "Fresh", 180.0, "momos", "", true))
	mock.ExpectQuery(regexp.QuoteMeta(getItemByIDSQL)).
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)

	c := NewCatalog(mock)
	item, err := c.GetItemByID(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, 180.0, item.Price)

	item, err = c.GetItemByID(context.Background(), 404)
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestSearchItemsByNameUsesSubstring(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(searchItemsByNameSQL)).
		WithArgs("%momo%").
		WillReturnRows(mock.NewRows(foodCols).
			AddRow(int64(2), "Steamed Chicken Momo", "", 220.0, "momos", "", true).
			AddRow(int64(1), "Steamed Veg Momo", "", 180.0, "momos", "", true))

	items, err := NewCatalog(mock).SearchItemsByName(context.Background(), "momo")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestSearchItemsByNameMatchesWildcardsLiterally(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(searchItemsByNameSQL)).
		WithArgs(`%\_%`).
		WillReturnRows(mock.NewRows(foodCols))
	mock.ExpectQuery(regexp.QuoteMeta(searchByTagSQL)).
		WithArgs(`%100\%\\veg%`).
		WillReturnRows(mock.NewRows(foodCols))

	c := NewCatalog(mock)
	items, err := c.SearchItemsByName(context.Background(), "_")
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = c.SearchByTag(context.Background(), `100%\veg`)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%momo%", containsPattern("momo"))
	assert.Equal(t, `%\%%`, containsPattern("%"))
	assert.Equal(t, `%a\_b%`, containsPattern("a_b"))
	assert.Equal(t, `%\\%`, containsPattern(`\`))
}

func TestSearchByTag(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(randomItemSQL)).
		WillReturnRows(mock.NewRows(foodCols).AddRow(int64(15), "Chicken Biryani", "", 300.0, "rice", "", true))
	mock.ExpectQuery(regexp.QuoteMeta(searchByTagSQL)).
		WithArgs("%soup%").
		WillReturnRows(mock.NewRows(foodCols))

	c := NewCatalog(mock)
	items, err := c.SearchByTag(context.Background(), model.RandomTag)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	items, err = c.SearchByTag(context.Background(), "soup")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCategoryImage(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(categoryImageSQL)).
		WithArgs("momos").
		WillReturnRows(mock.NewRows([]string{"image_url"}).AddRow("https://img/momo.jpg"))
	mock.ExpectQuery(regexp.QuoteMeta(categoryImageSQL)).
		WithArgs("desserts").
		WillReturnError(pgx.ErrNoRows)

	c := NewCatalog(mock)
	url, err := c.CategoryImage(context.Background(), "momos")
	require.NoError(t, err)
	assert.Equal(t, "https://img/momo.jpg", url)

	url, err = c.CategoryImage(context.Background(), "desserts")
	require.NoError(t, err)
	assert.Empty(t, url)
}

func TestCatalogQueryFailureIsWrapped(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(listItemsByCategorySQL)).
		WithArgs("momos").
		WillReturnError(errors.New("connection reset"))

	_, err := NewCatalog(mock).ListItemsByCategory(context.Background(), "momos")
	require.Error(t, err)
	assert.Equal(t, 502, errx.StatusOf(err))
}

func TestCreateOrderAndAddLines(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(createOrderSQL)).
		WithArgs("u1", "whatsapp", model.OrderStatusCreated).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow(int64(42)))
	mock.ExpectExec(regexp.QuoteMeta(addLineItemSQL)).
		WithArgs(int64(42), int64(1), 2).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	o := NewOrders(mock)
	id, err := o.CreateOrder(context.Background(), "u1", model.PlatformWhatsApp)
	require.NoError(t, err)
	assert.Equal(t, "42", id)
	require.NoError(t, o.AddLineItem(context.Background(), id, 1, 2))
}

func TestOrderUpdates(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(setServiceTypeSQL)).
		WithArgs("dine_in", int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta(setReservationSQL)).
		WithArgs(4, "7:30 PM", int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta(setDepositSQL)).
		WithArgs(72.0, model.DepositPending, int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta(setPaymentSQL)).
		WithArgs("COD", model.OrderStatusConfirmed, int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta(setOrderStatusSQL)).
		WithArgs(model.OrderStatusCancelled, int64(8)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	o := NewOrders(mock)
	ctx := context.Background()
	require.NoError(t, o.SetServiceType(ctx, "7", model.ServiceDineIn))
	require.NoError(t, o.SetReservation(ctx, "7", 4, "7:30 PM"))
	require.NoError(t, o.SetDeposit(ctx, "7", 72, model.DepositPending))
	require.NoError(t, o.SetPaymentMethod(ctx, "7", model.PaymentCOD))

	err := o.CancelOrder(ctx, "8")
	assert.True(t, errx.IsNotFound(err))
}

func TestOrderUpdateRejectsBadID(t *testing.T) {
	mock := newMock(t)
	err := NewOrders(mock).SetDeliveryAddress(context.Background(), "MH123456", "Thamel")
	assert.Error(t, err)
}

func TestListRecentOrders(t *testing.T) {
	mock := newMock(t)
	created := time.Date(2025, 3, 4, 18, 5, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(listRecentOrderSQL)).
		WithArgs("u1", 5).
		WillReturnRows(mock.NewRows([]string{"id", "status", "payment_method", "created_at", "count", "total"}).
			AddRow(int64(3), "confirmed", "COD", created, int64(2), 360.0))

	orders, err := NewOrders(mock).ListRecentOrders(context.Background(), "u1", 5)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, model.OrderRecord{ID: "3", Status: "confirmed", PaymentMethod: "COD", CreatedAt: created, ItemCount: 2, Total: 360}, orders[0])
}

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/orders?sslmode=disable", migrateURL("postgres://u:p@db:5432/orders?sslmode=disable"))
	assert.Equal(t, "pgx5://db/orders", migrateURL("postgresql://db/orders"))
	assert.Equal(t, "pgx5://db/orders", migrateURL("pgx5://db/orders"))
}

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "000001_init.up.sql")
	assert.Contains(t, names, "000001_init.down.sql")
}
