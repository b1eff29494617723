package clients

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/sellerdesk-backend/internal/access"
	"github.com/angelmondragon/sellerdesk-backend/internal/repo"
	"github.com/angelmondragon/sellerdesk-backend/pkg/db"
	"github.com/angelmondragon/sellerdesk-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/sellerdesk-backend/pkg/errors"
	"github.com/angelmondragon/sellerdesk-backend/pkg/logger"
)

// Service manages a seller's client book. Every read or write of a single
// client is restricted to its owner.
type Service interface {
	Create(ctx context.Context, callerID uuid.UUID, input CreateClientInput) (*ClientDTO, error)
	ListBySeller(ctx context.Context, callerID uuid.UUID) ([]ClientDTO, error)
	Get(ctx context.Context, callerID, clientID uuid.UUID) (*ClientDTO, error)
	Update(ctx context.Context, callerID, clientID uuid.UUID, input UpdateClientInput) (*ClientDTO, error)
	Delete(ctx context.Context, callerID, clientID uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	db   txRunner
	repo *Repository
	logg *logger.Logger
}

func NewService(dbClient *db.Client, repo *Repository, logg *logger.Logger) (Service, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if repo == nil {
		return nil, fmt.Errorf("client repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{db: dbClient, repo: repo, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, callerID uuid.UUID, input CreateClientInput) (*ClientDTO, error) {
	if callerID == uuid.Nil {
		return nil, pkgerrors.Unauthenticated("authentication required")
	}
	client := &models.Client{
		Name:       strings.TrimSpace(input.Name),
		LastName:   strings.TrimSpace(input.LastName),
		Enterprise: strings.TrimSpace(input.Enterprise),
		Email:      normalizeEmail(input.Email),
		Telephone:  trimOptional(input.Telephone),
		SellerID:   callerID,
	}
	if err := validateClient(client); err != nil {
		return nil, err
	}

	taken, err := s.repo.EmailTaken(ctx, client.Email, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, pkgerrors.Duplicate("email", client.Email)
	}
	if err := s.repo.Create(ctx, client); err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"client_id": client.ID.String(),
		"seller_id": callerID.String(),
	}), "client.created")
	return FromModel(client), nil
}

func (s *service) ListBySeller(ctx context.Context, callerID uuid.UUID) ([]ClientDTO, error) {
	if callerID == uuid.Nil {
		return nil, pkgerrors.Unauthenticated("authentication required")
	}
	rows, err := s.repo.ListBySeller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	out := make([]ClientDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, callerID, clientID uuid.UUID) (*ClientDTO, error) {
	client, err := s.loadOwned(ctx, s.repo, callerID, clientID)
	if err != nil {
		return nil, err
	}
	return FromModel(client), nil
}

func (s *service) Update(ctx context.Context, callerID, clientID uuid.UUID, input UpdateClientInput) (*ClientDTO, error) {
	client, err := s.loadOwned(ctx, s.repo, callerID, clientID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		client.Name = strings.TrimSpace(*input.Name)
	}
	if input.LastName != nil {
		client.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Enterprise != nil {
		client.Enterprise = strings.TrimSpace(*input.Enterprise)
	}
	if input.Telephone != nil {
		client.Telephone = trimOptional(input.Telephone)
	}
	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		if email != client.Email {
			taken, err := s.repo.EmailTaken(ctx, email, client.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, pkgerrors.Duplicate("email", email)
			}
		}
		client.Email = email
	}
	if err := validateClient(client); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, client); err != nil {
		return nil, err
	}
	return FromModel(client), nil
}

// Delete removes an owned client. Clients with orders are kept so that order
// history and reports keep resolving.
func (s *service) Delete(ctx context.Context, callerID, clientID uuid.UUID) error {
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := s.loadOwned(ctx, txRepo, callerID, clientID); err != nil {
			return err
		}
		count, err := txRepo.CountOrders(ctx, clientID)
		if err != nil {
			return err
		}
		if count > 0 {
			return pkgerrors.Validation("client", "has orders")
		}
		return txRepo.Delete(ctx, clientID)
	})
	if err != nil {
		return repo.Store(err, "delete client")
	}
	s.logg.Info(s.logg.WithField(ctx, "client_id", clientID.String()), "client.deleted")
	return nil
}

func (s *service) loadOwned(ctx context.Context, r *Repository, callerID, clientID uuid.UUID) (*models.Client, error) {
	if callerID == uuid.Nil {
		return nil, pkgerrors.Unauthenticated("authentication required")
	}
	client, err := r.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if err := access.AuthorizeOwner(callerID, client.SellerID, access.ResourceClient); err != nil {
		return nil, err
	}
	return client, nil
}

func validateClient(c *models.Client) error {
	switch {
	case c.Name == "":
		return pkgerrors.Validation("name", "is required")
	case c.LastName == "":
		return pkgerrors.Validation("last_name", "is required")
	case c.Enterprise == "":
		return pkgerrors.Validation("enterprise", "is required")
	case c.Email == "" || !strings.Contains(c.Email, "@"):
		return pkgerrors.Validation("email", "must be a valid email")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
