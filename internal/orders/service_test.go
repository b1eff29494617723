package orders

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/sellerdesk-backend/internal/clients"
	"github.com/angelmondragon/sellerdesk-backend/internal/inventory"
	"github.com/angelmondragon/sellerdesk-backend/pkg/db"
	"github.com/angelmondragon/sellerdesk-backend/pkg/db/dbtest"
	"github.com/angelmondragon/sellerdesk-backend/pkg/db/models"
	"github.com/angelmondragon/sellerdesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/sellerdesk-backend/pkg/errors"
	"github.com/angelmondragon/sellerdesk-backend/pkg/logger"
	"github.com/angelmondragon/sellerdesk-backend/pkg/outbox"
)

type fixture struct {
	conn   *gorm.DB
	svc    Service
	seller uuid.UUID
	client models.Client
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newFixture(t *testing.T, policy enums.StockPolicy) *fixture {
	t.Helper()
	return newFixtureWithOutbox(t, policy, nil)
}

func newFixtureWithOutbox(t *testing.T, policy enums.StockPolicy, publisher outboxPublisher) *fixture {
	t.Helper()
	conn := dbtest.Open(t)
	logg := testLogger()

	ledger, err := inventory.NewLedger(inventory.NewRepository(conn), nil, logg)
	require.NoError(t, err)
	if publisher == nil {
		publisher = outbox.NewService(outbox.NewRepository(conn), logg)
	}
	clientRepo := clients.NewRepository(conn)

	svc, err := NewService(ServiceParams{
		Repo:        NewRepository(conn),
		Clients:     func(tx *gorm.DB) ClientLookup { return clientRepo.WithTx(tx) },
		TxRunner:    db.NewFromConn(conn),
		Ledger:      ledger,
		Outbox:      publisher,
		StockPolicy: policy,
		Logger:      logg,
	})
	require.NoError(t, err)

	seller := uuid.New()
	return &fixture{
		conn:   conn,
		svc:    svc,
		seller: seller,
		client: seedClient(t, conn, seller, "client@acme.com"),
	}
}

func seedClient(t *testing.T, conn *gorm.DB, seller uuid.UUID, email string) models.Client {
	t.Helper()
	client := models.Client{Name: "Jane", LastName: "Doe", Enterprise: "Acme", Email: email, SellerID: seller}
	require.NoError(t, conn.Create(&client).Error)
	return client
}

func seedProduct(t *testing.T, conn *gorm.DB, name, price string, stock int) models.Product {
	t.Helper()
	product := models.Product{Name: name, Price: decimal.RequireFromString(price), Stock: stock}
	require.NoError(t, conn.Create(&product).Error)
	return product
}

func stockOf(t *testing.T, conn *gorm.DB, id uuid.UUID) int {
	t.Helper()
	var product models.Product
	require.NoError(t, conn.First(&product, "id = ?", id).Error)
	return product.Stock
}

func countRows(t *testing.T, conn *gorm.DB, model any) int64 {
	t.Helper()
	var count int64
	require.NoError(t, conn.Model(model).Count(&count).Error)
	return count
}

func eventTypes(t *testing.T, conn *gorm.DB, orderID uuid.UUID) []enums.OutboxEventType {
	t.Helper()
	rows, err := outbox.NewRepository(conn).ListForAggregate(context.Background(), orderID)
	require.NoError(t, err)
	out := make([]enums.OutboxEventType, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.EventType)
	}
	return out
}

func (f *fixture) create(t *testing.T, items ...LineItem) *OrderDTO {
	t.Helper()
	order, err := f.svc.Create(context.Background(), f.seller, CreateOrderInput{ClientID: f.client.ID, Items: items})
	require.NoError(t, err)
	return order
}

func itemsPtr(items ...LineItem) *[]LineItem {
	return &items
}

func statePtr(state enums.OrderState) *enums.OrderState {
	return &state
}

func TestCreateOrderDecrementsStockAndQueuesEvent(t *testing.T) {
	f := newFixture(t, enums.StockPolicyNoRestore)
	p1 := seedProduct(t, f.conn, "Laptop", "9.99", 10)

	order := f.create(t, LineItem{ProductID: p1.ID, Amount: 3})

	assert.Equal(t, enums.OrderStatePending, order.State)
	assert.Equal(t, f.seller, order.SellerID)
	assert.Equal(t, f.client.ID, order.ClientID)
	require.NotNil(t, order.Client)
	assert.Equal(t, "client@acme.com", order.Client.Email)
	assert.True(t, decimal.RequireFromString("29.97").Equal(order.Total), "total %s", order.Total)
	assert.Equal(t, 7, stockOf(t, f.conn, p1.ID))
	assert.Equal(t, []enums.OutboxEventType{enums.EventOrderCreated}, eventTypes(t, f.conn, order.ID))
}

func TestCreateOrderWithExplicitState(t *testing.T) {
	f := newFixture(t, enums.StockPolicyNoRestore)
	p1 := seedProduct(t, f.conn, "Laptop", "10", 10)

	order, err := f.svc.Create(context.Background(), f.seller, CreateOrderInput{
		ClientID: f.client.ID,
		Items:    []LineItem{{ProductID: p1.ID, Amount: 1}},
		State:    enums.OrderStateCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStateCompleted, order.State)

	_, err = f.svc.Create(context.Background(), f.seller, CreateOrderInput{
		ClientID: f.client.ID,
		Items:    []LineItem{{ProductID: p1.ID, Amount: 1}},
		State:    "SHIPPED",
	})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
	assert.Equal(t, 9, stockOf(t, f.conn, p1.ID))
}

func TestCreateOrderForForeignClientIsUnauthorized(t *testing.T) {
	f := newFixture(t, enums.StockPolicyNoRestore)
	p1 := seedProduct(t, f.conn, "Laptop", "10", 10)
	foreign := seedClient(t, f.conn, uuid.New(), "other@acme.com")

	_, err := f.svc.Create(context.Background(), f.seller, CreateOrderInput{
		ClientID: foreign.ID,
		Items:    []LineItem{{ProductID: p1.ID, Amount: 1}},
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeUnauthorized))
	assert.Equal(t, 10, stockOf(t, f.conn, p1.ID))
	assert.Zero(t, countRows(t, f.conn, &models.Order{}))
}

func TestCreateOrderMissingClient(t *testing.T) {
	f := newFixture(t, enums.StockPolicyNoRestore)
	p1 := seedProduct(t, f.conn, "Laptop", "10", 10)

	_, err := f.svc.Create(context.Background(), f.seller, CreateOrderInput{
		ClientID: uuid.New(),
		Items:    []LineItem{{ProductID: p1.ID, Amount: 1}},
	})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestCreateOrderInsufficientStockPersistsNothing(t *testing.T) {
	f := newFixture(t, enums.StockPolicyNoRestore)
	p1 := seedProduct(t, f.conn, "Laptop", "19.99", 2)

	_, err := f.svc.Create(context.Background(), f.seller, CreateOrderInput{
		ClientID: f.client.ID,
		Items:    []LineItem{{ProductID: p1.ID, Amount: 3}},
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, typed.Code())
	details, ok := typed.Details().(pkgerrors.InsufficientStockDetails)
	require.True(t, ok)
	assert.Equal(t, "Laptop", details.Product)
	assert.Equal(t, 3, details.Requested)
	assert.Equal(t, 2, details.Available)

	assert.Equal(t, 2, stockOf(t, f.conn, p1.ID))
	assert.Zero(t, countRows(t, f.conn, &models.Order{}))
	assert.Zero(t, countRows(t, f.conn, &models.OutboxEvent{}))
}

func TestCreateOrderBatchIsAllOrNothing(t *testing.T) {
	f := newFixture(t, enums.StockPolicyNoRestore)
	p1 := seedProduct(t, f.conn, "Laptop", "10", 10)
	p2 := seedProduct(t, f.conn, "Mouse", "5", 1)

	_, err := f.svc.Create(context.Background(), f.seller, CreateOrderInput{
		ClientID: f.client.ID,
		Items: []LineItem{
			{ProductID: p1.ID, Amount: 4},
			{ProductID: p2.ID, Amount: 2},
		},
	})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeInsufficientStock))
	assert.Equal(t, 10, stockOf(t, f.conn, p1.ID))
	assert.Equal(t, 1, stockOf(t, f.conn, p2.ID))
}

func TestCreateOrderRequiresItems(t *testing.T) {
	f := newFixture(t, enums.StockPolicyNoRestore)

	_, err := f.svc.Create(context.Background(), f.seller, CreateOrderInput{ClientID: f.client.ID})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	p1 := seedProduct(t, f.conn, "Laptop", "10", 10)
	_, err = f.svc.Create(context.Background(), f.seller, CreateOrderInput{
		ClientID: f.client.ID,
		Items:    []LineItem{{ProductID: p1.ID, Amount: 0}},
	})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
	assert.Equal(t, 10, stockOf(t, f.conn, p1.ID))
}

func TestCreateOrderRollsBackWhenEventCannotBeQueued(t *testing.T) {
	f := newFixtureWithOutbox(t, enums.StockPolicyNoRestore, failingOutbox{})
	p1 := seedProduct(t, f.conn, "Laptop", "10", 10)

	_, err := f.svc.Create(context.Background(), f.seller, CreateOrderInput{
		ClientID: f.client.ID,
		Items:    []LineItem{{ProductID: p1.ID, Amount: 2}},
	})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeInternal))
	assert.Equal(t, 10, stockOf(t, f.conn, p1.ID))
	assert.Zero(t, countRows(t, f.conn, &models.Order{}))
}

func TestUpdateItemsUnderEachStockPolicy(t *testing.T) {
	cases := []struct {
		policy enums.StockPolicy
		want   int
	}{
		{enums.StockPolicyNoRestore, 3},
		{enums.StockPolicyRestore, 5},
	}
	for _, tc := range cases {
		t.Run(string(tc.policy), func(t *testing.T) {
			f := newFixture(t, tc.policy)
			p1 := seedProduct(t, f.conn, "Laptop", "10", 10)

			order := f.create(t, LineItem{ProductID: p1.ID, Amount: 2})
			require.Equal(t, 8, stockOf(t, f.conn, p1.ID))

			updated, err := f.svc.Update(context.Background(), f.seller, order.ID, UpdateOrderInput{
				Items: itemsPtr(LineItem{ProductID: p1.ID, Amount: 5}),
			})
			require.NoError(t, err)
			assert.Equal(t, tc.want, stockOf(t, f.conn, p1.ID))
			assert.True(t, decimal.NewFromInt(50).Equal(updated.Total), "total %s", updated.Total)
			assert.Equal(t, []LineItem{{ProductID: p1.ID, Amount: 5}}, updated.Items)
			assert.Equal(t, []enums.OutboxEventType{enums.EventOrderCreated, enums.EventOrderUpdated}, eventTypes(t, f.conn, order.ID))
		})
	}
}

func TestUpdateSeededOrderWithoutPriorDecrement(t *testing.T) {
	f := newFixture(t, enums.StockPolicyNoRestore)
	p1 := seedProduct(t, f.conn, "Laptop", "10", 10)
	seeded := models.Order{
		ClientID: f.client.ID,
		SellerID: f.seller,
		Items:    []models.OrderLineItem{{ProductID: p1.ID, Amount: 2}},
		Total:    decimal.NewFromInt(20),
		State:    enums.OrderStatePending,
	}
	require.NoError(t, f.conn.Omit("Client").Create(&seeded).Error)

	_, err := f.svc.Update(context.Background(), f.seller, seeded.ID, UpdateOrderInput{
		Items: itemsPtr(LineItem{ProductID: p1.ID, Amount: 5}),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, stockOf(t, f.conn, p1.ID))
}

func TestUpdateItemsInsufficientStockKeepsOrder(t *testing.T) {
	f := newFixture(t, enums.StockPolicyRestore)
	p1 := seedProduct(t, f.conn, "Laptop", "10", 5)
	order := f.create(t, LineItem{ProductID: p1.ID, Amount: 2})

	_, err := f.svc.Update(context.Background(), f.seller, order.ID, UpdateOrderInput{
		Items: itemsPtr(LineItem{ProductID: p1.ID, Amount: 9}),
	})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeInsufficientStock))
	assert.Equal(t, 3, stockOf(t, f.conn, p1.ID))

	got, err := f.svc.Get(context.Background(), f.seller, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Items[0].Amount)
}

func TestUpdateStateTransitions(t *testing.T) {
	f := newFixture(t, enums.StockPolicyNoRestore)
	p1 := seedProduct(t, f.conn, "Laptop", "10", 10)
	order := f.create(t, LineItem{ProductID: p1.ID, Amount: 1})

	completed, err := f.svc.Update(context.Background(), f.seller, order.ID, UpdateOrderInput{State: statePtr(enums.OrderStateCompleted)})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStateCompleted, completed.State)

	_, err = f.svc.Update(context.Background(), f.seller, order.ID, UpdateOrderInput{State: statePtr(enums.OrderStateCompleted)})
	require.NoError(t, err)

	_, err = f.svc.Update(context.Background(), f.seller, order.ID, UpdateOrderInput{State: statePtr(enums.OrderStatePending)})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
	details, _ := pkgerrors.As(err).Details().(pkgerrors.ValidationDetails)
	assert.Equal(t, "state", details.Field)

	_, err = f.svc.Update(context.Background(), f.seller, order.ID, UpdateOrderInput{
		Items: itemsPtr(LineItem{ProductID: p1.ID, Amount: 1}),
	})
	require.Error(t, err)
	details, _ = pkgerrors.As(err).Details().(pkgerrors.ValidationDetails)
	assert.Equal(t, "items", details.Field)
	assert.Equal(t, 9, stockOf(t, f.conn, p1.ID))

	_, err = f.svc.Update(context.Background(), f.seller, order.ID, UpdateOrderInput{State: statePtr("LOST")})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestCancelReleasesStockOnlyUnderRestore(t *testing.T) {
	cases := []struct {
		policy enums.StockPolicy
		want   int
	}{
		{enums.StockPolicyNoRestore, 7},
		{enums.StockPolicyRestore, 10},
	}
	for _, tc := range cases {
		t.Run(string(tc.policy), func(t *testing.T) {
			f := newFixture(t, tc.policy)
			p1 := seedProduct(t, f.conn, "Laptop", "10", 10)
			order := f.create(t, LineItem{ProductID: p1.ID, Amount: 3})

			_, err := f.svc.Update(context.Background(), f.seller, order.ID, UpdateOrderInput{State: statePtr(enums.OrderStateCancelled)})
			require.NoError(t, err)
			assert.Equal(t, tc.want, stockOf(t, f.conn, p1.ID))

			// Deleting a cancelled order never credits stock again.
			require.NoError(t, f.svc.Delete(context.Background(), f.seller, order.ID))
			assert.Equal(t, tc.want, stockOf(t, f.conn, p1.ID))
		})
	}
}

func TestCancelWithNewItemsReleasesFinalItemsUnderRestore(t *testing.T) {
	cases := []struct {
		policy      enums.StockPolicy
		afterUpdate int
	}{
		{enums.StockPolicyNoRestore, 3},
		{enums.StockPolicyRestore, 10},
	}
	for _, tc := range cases {
		t.Run(string(tc.policy), func(t *testing.T) {
			f := newFixture(t, tc.policy)
			p1 := seedProduct(t, f.conn, "Laptop", "10", 10)
			order := f.create(t, LineItem{ProductID: p1.ID, Amount: 3})

			updated, err := f.svc.Update(context.Background(), f.seller, order.ID, UpdateOrderInput{
				Items: itemsPtr(LineItem{ProductID: p1.ID, Amount: 4}),
				State: statePtr(enums.OrderStateCancelled),
			})
			require.NoError(t, err)
			assert.Equal(t, enums.OrderStateCancelled, updated.State)
			assert.Equal(t, 4, updated.Items[0].Amount)
			assert.Equal(t, tc.afterUpdate, stockOf(t, f.conn, p1.ID))

			require.NoError(t, f.svc.Delete(context.Background(), f.seller, order.ID))
			assert.Equal(t, tc.afterUpdate, stockOf(t, f.conn, p1.ID))
		})
	}
}

func TestCreateCancelledOrderHoldsNoStockUnderRestore(t *testing.T) {
	cases := []struct {
		policy enums.StockPolicy
		want   int
	}{
		{enums.StockPolicyNoRestore, 7},
		{enums.StockPolicyRestore, 10},
	}
	for _, tc := range cases {
		t.Run(string(tc.policy), func(t *testing.T) {
			f := newFixture(t, tc.policy)
			p1 := seedProduct(t, f.conn, "Laptop", "10", 10)

			order, err := f.svc.Create(context.Background(), f.seller, CreateOrderInput{
				ClientID: f.client.ID,
				Items:    []LineItem{{ProductID: p1.ID, Amount: 3}},
				State:    enums.OrderStateCancelled,
			})
			require.NoError(t, err)
			assert.Equal(t, tc.want, stockOf(t, f.conn, p1.ID))

			require.NoError(t, f.svc.Delete(context.Background(), f.seller, order.ID))
			assert.Equal(t, tc.want, stockOf(t, f.conn, p1.ID))
		})
	}
}

func TestUpdateWithoutChangesQueuesNoEvent(t *testing.T) {
	f := newFixture(t, enums.StockPolicyNoRestore)
	p1 := seedProduct(t, f.conn, "Laptop", "10", 10)
	order := f.create(t, LineItem{ProductID: p1.ID, Amount: 1})

	same, err := f.svc.Update(context.Background(), f.seller, order.ID, UpdateOrderInput{})
	require.NoError(t, err)
	assert.Equal(t, order.ID, same.ID)
	require.NotNil(t, same.Client)

	_, err = f.svc.Update(context.Background(), f.seller, order.ID, UpdateOrderInput{
		ClientID: &f.client.ID,
		State:    statePtr(enums.OrderStatePending),
	})
	require.NoError(t, err)
	assert.Equal(t, []enums.OutboxEventType{enums.EventOrderCreated}, eventTypes(t, f.conn, order.ID))

	// A foreign caller is still rejected before the no-op check.
	_, err = f.svc.Update(context.Background(), uuid.New(), order.ID, UpdateOrderInput{})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeUnauthorized))
}

func TestUpdateAuthorization(t *testing.T) {
	f := newFixture(t, enums.StockPolicyNoRestore)
	p1 := seedProduct(t, f.conn, "Laptop", "10", 10)
	order := f.create(t, LineItem{ProductID: p1.ID, Amount: 1})
	foreignClient := seedClient(t, f.conn, uuid.New(), "foreign@acme.com")

	_, err := f.svc.Update(context.Background(), uuid.New(), order.ID, UpdateOrderInput{State: statePtr(enums.OrderStateCompleted)})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeUnauthorized))

	_, err = f.svc.Update(context.Background(), f.seller, order.ID, UpdateOrderInput{ClientID: &foreignClient.ID})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeUnauthorized))

	missing := uuid.New()
	_, err = f.svc.Update(context.Background(), f.seller, order.ID, UpdateOrderInput{ClientID: &missing})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))

	_, err = f.svc.Update(context.Background(), f.seller, uuid.New(), UpdateOrderInput{})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))

	second := seedClient(t, f.conn, f.seller, "second@acme.com")
	moved, err := f.svc.Update(context.Background(), f.seller, order.ID, UpdateOrderInput{ClientID: &second.ID})
	require.NoError(t, err)
	assert.Equal(t, second.ID, moved.ClientID)
	assert.Equal(t, f.seller, moved.SellerID)
}

func TestDeleteUnderEachStockPolicy(t *testing.T) {
	cases := []struct {
		policy enums.StockPolicy
		want   int
	}{
		{enums.StockPolicyNoRestore, 6},
		{enums.StockPolicyRestore, 10},
	}
	for _, tc := range cases {
		t.Run(string(tc.policy), func(t *testing.T) {
			f := newFixture(t, tc.policy)
			p1 := seedProduct(t, f.conn, "Laptop", "10", 10)
			order := f.create(t, LineItem{ProductID: p1.ID, Amount: 4})

			err := f.svc.Delete(context.Background(), uuid.New(), order.ID)
			assert.True(t, pkgerrors.Is(err, pkgerrors.CodeUnauthorized))

			require.NoError(t, f.svc.Delete(context.Background(), f.seller, order.ID))
			assert.Equal(t, tc.want, stockOf(t, f.conn, p1.ID))
			assert.Equal(t, []enums.OutboxEventType{enums.EventOrderCreated, enums.EventOrderDeleted}, eventTypes(t, f.conn, order.ID))

			_, err = f.svc.Get(context.Background(), f.seller, order.ID)
			assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))

			err = f.svc.Delete(context.Background(), f.seller, order.ID)
			assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
		})
	}
}

func TestGetOrder(t *testing.T) {
	f := newFixture(t, enums.StockPolicyNoRestore)
	p1 := seedProduct(t, f.conn, "Laptop", "10", 10)
	order := f.create(t, LineItem{ProductID: p1.ID, Amount: 1})

	got, err := f.svc.Get(context.Background(), f.seller, order.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Client)
	assert.Equal(t, f.client.ID, got.Client.ID)

	_, err = f.svc.Get(context.Background(), uuid.New(), order.ID)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeUnauthorized))

	_, err = f.svc.Get(context.Background(), f.seller, uuid.New())
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))

	_, err = f.svc.Get(context.Background(), uuid.Nil, order.ID)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeUnauthenticated))
}

func TestListOrders(t *testing.T) {
	f := newFixture(t, enums.StockPolicyNoRestore)
	p1 := seedProduct(t, f.conn, "Laptop", "10", 100)

	first := f.create(t, LineItem{ProductID: p1.ID, Amount: 1})
	require.NoError(t, f.conn.Model(&models.Order{}).Where("id = ?", first.ID).
		UpdateColumn("created_at", time.Now().Add(-time.Hour)).Error)
	second := f.create(t, LineItem{ProductID: p1.ID, Amount: 1})
	_, err := f.svc.Update(context.Background(), f.seller, second.ID, UpdateOrderInput{State: statePtr(enums.OrderStateCompleted)})
	require.NoError(t, err)

	all, err := f.svc.ListBySeller(context.Background(), f.seller)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)
	require.NotNil(t, all[0].Client)

	completed, err := f.svc.ListBySellerAndState(context.Background(), f.seller, enums.OrderStateCompleted)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, second.ID, completed[0].ID)

	none, err := f.svc.ListBySeller(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = f.svc.ListBySellerAndState(context.Background(), f.seller, "ARCHIVED")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestNewServiceValidatesParams(t *testing.T) {
	_, err := NewService(ServiceParams{})
	assert.Error(t, err)
}

type failingOutbox struct{}

func (failingOutbox) Emit(context.Context, *gorm.DB, outbox.DomainEvent) error {
	return errors.New("outbox unavailable")
}
