package clients

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/sellerdesk-backend/pkg/db"
	"github.com/angelmondragon/sellerdesk-backend/pkg/db/dbtest"
	"github.com/angelmondragon/sellerdesk-backend/pkg/db/models"
	"github.com/angelmondragon/sellerdesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/sellerdesk-backend/pkg/errors"
	"github.com/angelmondragon/sellerdesk-backend/pkg/logger"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := dbtest.Open(t)
	svc, err := NewService(db.NewFromConn(conn), NewRepository(conn), logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	require.NoError(t, err)
	return svc, conn
}

func newClientInput(email string) CreateClientInput {
	phone := " 555-0100 "
	return CreateClientInput{
		Name:       "Jane",
		LastName:   "Doe",
		Enterprise: "Acme",
		Email:      email,
		Telephone:  &phone,
	}
}

func TestCreateClientOwnedByCaller(t *testing.T) {
	svc, _ := newTestService(t)
	seller := uuid.New()

	created, err := svc.Create(context.Background(), seller, newClientInput("Jane@Acme.com"))
	require.NoError(t, err)
	assert.Equal(t, seller, created.SellerID)
	assert.Equal(t, "jane@acme.com", created.Email)
	require.NotNil(t, created.Telephone)
	assert.Equal(t, "555-0100", *created.Telephone)
}

func TestCreateClientDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), uuid.New(), newClientInput("dup@acme.com"))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), uuid.New(), newClientInput("DUP@acme.com"))
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeDuplicate))
	details, ok := pkgerrors.As(err).Details().(pkgerrors.DuplicateDetails)
	require.True(t, ok)
	assert.Equal(t, "email", details.Field)
	assert.Equal(t, "dup@acme.com", details.Value)
}

func TestCreateClientValidation(t *testing.T) {
	svc, _ := newTestService(t)
	input := newClientInput("not-an-email")
	_, err := svc.Create(context.Background(), uuid.New(), input)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	_, err = svc.Create(context.Background(), uuid.Nil, newClientInput("ok@acme.com"))
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeUnauthenticated))
}

func TestListBySellerScopesToCaller(t *testing.T) {
	svc, _ := newTestService(t)
	sellerA, sellerB := uuid.New(), uuid.New()

	_, err := svc.Create(context.Background(), sellerA, newClientInput("a1@acme.com"))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), sellerA, newClientInput("a2@acme.com"))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), sellerB, newClientInput("b1@acme.com"))
	require.NoError(t, err)

	list, err := svc.ListBySeller(context.Background(), sellerA)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	for _, c := range list {
		assert.Equal(t, sellerA, c.SellerID)
	}
}

func TestGetUpdateDeleteRequireOwner(t *testing.T) {
	svc, _ := newTestService(t)
	owner, stranger := uuid.New(), uuid.New()
	created, err := svc.Create(context.Background(), owner, newClientInput("own@acme.com"))
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), stranger, created.ID)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeUnauthorized))

	name := "Mallory"
	_, err = svc.Update(context.Background(), stranger, created.ID, UpdateClientInput{Name: &name})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeUnauthorized))

	err = svc.Delete(context.Background(), stranger, created.ID)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeUnauthorized))

	got, err := svc.Get(context.Background(), owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.Name)

	_, err = svc.Get(context.Background(), owner, uuid.New())
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestUpdateClientEmailRechecksDuplicates(t *testing.T) {
	svc, _ := newTestService(t)
	owner := uuid.New()
	_, err := svc.Create(context.Background(), uuid.New(), newClientInput("taken@acme.com"))
	require.NoError(t, err)
	created, err := svc.Create(context.Background(), owner, newClientInput("mine@acme.com"))
	require.NoError(t, err)

	taken := "taken@acme.com"
	_, err = svc.Update(context.Background(), owner, created.ID, UpdateClientInput{Email: &taken})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeDuplicate))

	same := "MINE@acme.com"
	enterprise := "Globex"
	updated, err := svc.Update(context.Background(), owner, created.ID, UpdateClientInput{Email: &same, Enterprise: &enterprise})
	require.NoError(t, err)
	assert.Equal(t, "Globex", updated.Enterprise)
	assert.Equal(t, owner, updated.SellerID)
}

func TestDeleteClient(t *testing.T) {
	svc, conn := newTestService(t)
	owner := uuid.New()
	free, err := svc.Create(context.Background(), owner, newClientInput("free@acme.com"))
	require.NoError(t, err)
	busy, err := svc.Create(context.Background(), owner, newClientInput("busy@acme.com"))
	require.NoError(t, err)

	require.NoError(t, conn.Create(&models.Order{
		ClientID: busy.ID,
		SellerID: owner,
		Items:    []models.OrderLineItem{{ProductID: uuid.New(), Amount: 1}},
		Total:    decimal.NewFromInt(10),
		State:    enums.OrderStatePending,
	}).Error)

	err = svc.Delete(context.Background(), owner, busy.ID)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	require.NoError(t, svc.Delete(context.Background(), owner, free.ID))
	_, err = svc.Get(context.Background(), owner, free.ID)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}
