package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/sellerdesk-backend/internal/clients"
	"github.com/angelmondragon/sellerdesk-backend/pkg/db/models"
	"github.com/angelmondragon/sellerdesk-backend/pkg/enums"
)

// LineItem is a (product, quantity) pair inside an order.
type LineItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Amount    int       `json:"amount"`
}

// OrderDTO is the order payload returned to sellers.
type OrderDTO struct {
	ID        uuid.UUID          `json:"id"`
	ClientID  uuid.UUID          `json:"client_id"`
	Client    *clients.ClientDTO `json:"client,omitempty"`
	SellerID  uuid.UUID          `json:"seller_id"`
	Items     []LineItem         `json:"items"`
	Total     decimal.Decimal    `json:"total"`
	State     enums.OrderState   `json:"state"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// CreateOrderInput places an order for one of the caller's clients. An empty
// State defaults to PENDING.
type CreateOrderInput struct {
	ClientID uuid.UUID
	Items    []LineItem
	State    enums.OrderState
}

// UpdateOrderInput is a partial patch; nil fields are left untouched.
type UpdateOrderInput struct {
	ClientID *uuid.UUID
	Items    *[]LineItem
	State    *enums.OrderState
}

func toModelItems(items []LineItem) []models.OrderLineItem {
	out := make([]models.OrderLineItem, 0, len(items))
	for _, item := range items {
		out = append(out, models.OrderLineItem{ProductID: item.ProductID, Amount: item.Amount})
	}
	return out
}

func fromModelItems(items []models.OrderLineItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, item := range items {
		out = append(out, LineItem{ProductID: item.ProductID, Amount: item.Amount})
	}
	return out
}

// NewOrderDTO builds the transport shape, including the client when preloaded.
func NewOrderDTO(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	return &OrderDTO{
		ID:        o.ID,
		ClientID:  o.ClientID,
		Client:    clients.FromModel(o.Client),
		SellerID:  o.SellerID,
		Items:     fromModelItems(o.Items),
		Total:     o.Total,
		State:     o.State,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func newOrderDTOs(rows []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewOrderDTO(&rows[i]))
	}
	return out
}
