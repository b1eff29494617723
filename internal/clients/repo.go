package clients

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/sellerdesk-backend/internal/repo"
	"github.com/angelmondragon/sellerdesk-backend/pkg/db"
	"github.com/angelmondragon/sellerdesk-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/sellerdesk-backend/pkg/errors"
)

// Repository persists clients.
type Repository struct {
	repo.Base
}

func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(conn)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Base.WithTx(tx)}
}

func (r *Repository) Create(ctx context.Context, client *models.Client) error {
	if err := r.DB(ctx).Create(client).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return pkgerrors.Duplicate("email", client.Email)
		}
		return repo.Store(err, "create client")
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	var client models.Client
	if err := r.DB(ctx).First(&client, "id = ?", id).Error; err != nil {
		return nil, repo.NotFoundOr(err, "client", id, "load client")
	}
	return &client, nil
}

// EmailTaken reports whether another client already uses email.
func (r *Repository) EmailTaken(ctx context.Context, email string, exclude uuid.UUID) (bool, error) {
	var count int64
	query := r.DB(ctx).Model(&models.Client{}).Where("email = ?", email)
	if exclude != uuid.Nil {
		query = query.Where("id <> ?", exclude)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, repo.Store(err, "check client email")
	}
	return count > 0, nil
}

// ListBySeller returns the seller's clients, newest first.
func (r *Repository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Client, error) {
	var rows []models.Client
	err := r.DB(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, repo.Store(err, "list clients")
	}
	return rows, nil
}

func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Client, error) {
	out := make(map[uuid.UUID]models.Client, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Client
	if err := r.DB(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, repo.Store(err, "load clients")
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

func (r *Repository) Save(ctx context.Context, client *models.Client) error {
	if err := r.DB(ctx).Save(client).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return pkgerrors.Duplicate("email", client.Email)
		}
		return repo.Store(err, "update client")
	}
	return nil
}

// CountOrders returns how many orders reference the client.
func (r *Repository) CountOrders(ctx context.Context, clientID uuid.UUID) (int64, error) {
	var count int64
	if err := r.DB(ctx).Model(&models.Order{}).Where("client_id = ?", clientID).Count(&count).Error; err != nil {
		return 0, repo.Store(err, "count client orders")
	}
	return count, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.DB(ctx).Delete(&models.Client{}, "id = ?", id)
	if res.Error != nil {
		return repo.Store(res.Error, "delete client")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.NotFound("client", id)
	}
	return nil
}
