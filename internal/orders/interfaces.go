package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/sellerdesk-backend/internal/inventory"
	"github.com/angelmondragon/sellerdesk-backend/pkg/db/models"
	"github.com/angelmondragon/sellerdesk-backend/pkg/enums"
	"github.com/angelmondragon/sellerdesk-backend/pkg/outbox"
)

// Repository defines persistence operations for orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindDetail(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Save(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Order, error)
	ListBySellerAndState(ctx context.Context, sellerID uuid.UUID, state enums.OrderState) ([]models.Order, error)
}

// ClientLookup resolves the client an order is placed for.
type ClientLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
}

// StockLedger takes and returns product stock inside the caller's transaction.
type StockLedger interface {
	Apply(ctx context.Context, tx *gorm.DB, items []models.OrderLineItem) (*inventory.Application, error)
	Release(ctx context.Context, tx *gorm.DB, items []models.OrderLineItem) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// ClientLookupFactory binds client lookups to a transaction.
type ClientLookupFactory func(tx *gorm.DB) ClientLookup
