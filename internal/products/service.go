package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/sellerdesk-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/sellerdesk-backend/pkg/errors"
	"github.com/angelmondragon/sellerdesk-backend/pkg/logger"
)

// Service exposes catalog management. Products have no owner; any
// authenticated seller may manage them.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context) ([]ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	SearchProducts(ctx context.Context, term string) ([]ProductDTO, error)
}

type productRepository interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	SearchByName(ctx context.Context, term string, limit int) ([]models.Product, error)
	Save(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo productRepository
	logg *logger.Logger
}

// NewService constructs a product service instance.
func NewService(repo productRepository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.Validation("name", "is required")
	}
	if err := validatePrice(input.Price); err != nil {
		return nil, err
	}
	if err := validateStock(input.Stock); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &models.Product{
		Name:  name,
		Price: input.Price.Round(2),
		Stock: input.Stock,
	})
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithField(ctx, "product_id", created.ID.String()), "product.created")
	return NewProductDTO(created), nil
}

func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return NewProductDTO(product), nil
}

func (s *service) ListProducts(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return newProductDTOs(rows), nil
}

func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := applyUpdateToProduct(product, input); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, product); err != nil {
		return nil, err
	}
	return NewProductDTO(product), nil
}

func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if err := s.repo.Delete(ctx, productID); err != nil {
		return err
	}
	s.logg.Info(s.logg.WithField(ctx, "product_id", productID.String()), "product.deleted")
	return nil
}

// SearchProducts returns at most SearchLimit products whose name contains term.
func (s *service) SearchProducts(ctx context.Context, term string) ([]ProductDTO, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, pkgerrors.Validation("q", "is required")
	}
	rows, err := s.repo.SearchByName(ctx, term, SearchLimit)
	if err != nil {
		return nil, err
	}
	return newProductDTOs(rows), nil
}

func applyUpdateToProduct(product *models.Product, input UpdateProductInput) error {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return pkgerrors.Validation("name", "must not be empty")
		}
		product.Name = name
	}
	if input.Price != nil {
		if err := validatePrice(*input.Price); err != nil {
			return err
		}
		product.Price = input.Price.Round(2)
	}
	if input.Stock != nil {
		if err := validateStock(*input.Stock); err != nil {
			return err
		}
		product.Stock = *input.Stock
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return pkgerrors.Validation("price", "must be zero or greater")
	}
	return nil
}

func validateStock(stock int) error {
	if stock < 0 {
		return pkgerrors.Validation("stock", "must be zero or greater")
	}
	return nil
}
