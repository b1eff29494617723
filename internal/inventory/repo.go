package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/sellerdesk-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/sellerdesk-backend/pkg/errors"
)

// Repository exposes the stock primitives the ledger relies on.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	// DecrementStock atomically takes amount units when at least amount are in
	// stock. It reports false, without error, when the condition fails.
	DecrementStock(ctx context.Context, id uuid.UUID, amount int) (bool, error)
	IncrementStock(ctx context.Context, id uuid.UUID, amount int) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a gorm-backed stock repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("product", id)
		}
		return nil, pkgerrors.StoreUnavailable(err, "load product")
	}
	return &product, nil
}

func (r *repository) DecrementStock(ctx context.Context, id uuid.UUID, amount int) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE products
		SET stock = stock - ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND stock >= ?
	`, amount, id, amount)
	if res.Error != nil {
		return false, pkgerrors.StoreUnavailable(res.Error, "decrement stock")
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) IncrementStock(ctx context.Context, id uuid.UUID, amount int) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE products
		SET stock = stock + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, amount, id)
	if res.Error != nil {
		return false, pkgerrors.StoreUnavailable(res.Error, "increment stock")
	}
	return res.RowsAffected == 1, nil
}
