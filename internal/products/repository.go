package product

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/sellerdesk-backend/internal/repo"
	"github.com/angelmondragon/sellerdesk-backend/pkg/db/models"
)

// SearchLimit caps name search results.
const SearchLimit = 10

// Repository persists catalog products.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.DB(ctx).Create(product).Error; err != nil {
		return nil, repo.Store(err, "create product")
	}
	return product, nil
}

// FindByID loads the product or fails with NotFound.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, repo.NotFoundOr(err, "product", id, "load product")
	}
	return &product, nil
}

// List returns every product ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	if err := r.DB(ctx).Order("name ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, repo.Store(err, "list products")
	}
	return rows, nil
}

// SearchByName matches a case-insensitive substring of the product name.
func (r *Repository) SearchByName(ctx context.Context, term string, limit int) ([]models.Product, error) {
	var rows []models.Product
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	err := r.DB(ctx).
		Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern).
		Order("name ASC").
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, repo.Store(err, "search products")
	}
	return rows, nil
}

// Save persists every column of product.
func (r *Repository) Save(ctx context.Context, product *models.Product) error {
	return repo.Store(r.DB(ctx).Save(product).Error, "update product")
}

// Delete removes the product, failing with NotFound when absent.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.DB(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return repo.Store(res.Error, "delete product")
	}
	if res.RowsAffected == 0 {
		return repo.NotFoundOr(gorm.ErrRecordNotFound, "product", id, "delete product")
	}
	return nil
}

func escapeLike(value string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
}
