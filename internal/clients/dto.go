package clients

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/sellerdesk-backend/pkg/db/models"
)

// ClientDTO is the transport shape of a seller's client.
type ClientDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	LastName   string    `json:"last_name"`
	Enterprise string    `json:"enterprise"`
	Email      string    `json:"email"`
	Telephone  *string   `json:"telephone,omitempty"`
	SellerID   uuid.UUID `json:"seller_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreateClientInput struct {
	Name       string
	LastName   string
	Enterprise string
	Email      string
	Telephone  *string
}

// UpdateClientInput carries optional changes. The owning seller cannot be changed.
type UpdateClientInput struct {
	Name       *string
	LastName   *string
	Enterprise *string
	Email      *string
	Telephone  *string
}

func FromModel(c *models.Client) *ClientDTO {
	if c == nil {
		return nil
	}
	return &ClientDTO{
		ID:         c.ID,
		Name:       c.Name,
		LastName:   c.LastName,
		Enterprise: c.Enterprise,
		Email:      c.Email,
		Telephone:  c.Telephone,
		SellerID:   c.SellerID,
		CreatedAt:  c.CreatedAt,
	}
}
