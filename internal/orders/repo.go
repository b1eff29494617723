package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/sellerdesk-backend/internal/repo"
	"github.com/angelmondragon/sellerdesk-backend/pkg/db/models"
	"github.com/angelmondragon/sellerdesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/sellerdesk-backend/pkg/errors"
)

type repository struct {
	repo.Base
}

// NewRepository returns the gorm-backed order repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: r.Base.WithTx(tx)}
}

func (r *repository) Create(ctx context.Context, order *models.Order) error {
	err := r.DB(ctx).Omit(clause.Associations).Create(order).Error
	return repo.Store(err, "create order")
}

// FindByID loads the order row only; use it on write paths.
func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.DB(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, repo.NotFoundOr(err, "order", id, "load order")
	}
	return &order, nil
}

// FindDetail loads the order with its client.
func (r *repository) FindDetail(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.DB(ctx).Preload("Client").First(&order, "id = ?", id).Error; err != nil {
		return nil, repo.NotFoundOr(err, "order", id, "load order")
	}
	return &order, nil
}

func (r *repository) Save(ctx context.Context, order *models.Order) error {
	err := r.DB(ctx).Omit(clause.Associations).Save(order).Error
	return repo.Store(err, "update order")
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.DB(ctx).Delete(&models.Order{}, "id = ?", id)
	if res.Error != nil {
		return repo.Store(res.Error, "delete order")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.NotFound("order", id)
	}
	return nil
}

func (r *repository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Order, error) {
	return list(r.DB(ctx).Where("seller_id = ?", sellerID))
}

func (r *repository) ListBySellerAndState(ctx context.Context, sellerID uuid.UUID, state enums.OrderState) ([]models.Order, error) {
	return list(r.DB(ctx).Where("seller_id = ? AND state = ?", sellerID, state))
}

func list(query *gorm.DB) ([]models.Order, error) {
	var rows []models.Order
	err := query.
		Preload("Client").
		Order("created_at DESC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, repo.Store(err, "list orders")
	}
	return rows, nil
}
