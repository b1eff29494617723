package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/sellerdesk-backend/pkg/enums"
)

// OrderLineItem is stored nested inside its order, in request order.
type OrderLineItem struct {
	ProductID uuid.UUID `json:"productId"`
	Amount    int       `json:"amount"`
}

// Order is placed by a seller for one of the seller's clients.
type Order struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	ClientID  uuid.UUID        `gorm:"column:client_id;type:uuid;not null;index:idx_orders_client_id"`
	Client    *Client          `gorm:"foreignKey:ClientID;references:ID"`
	SellerID  uuid.UUID        `gorm:"column:seller_id;type:uuid;not null;index:idx_orders_seller_state,priority:1"`
	Items     []OrderLineItem  `gorm:"column:items;type:jsonb;serializer:json;not null"`
	Total     decimal.Decimal  `gorm:"column:total;type:numeric(12,2);not null"`
	State     enums.OrderState `gorm:"column:state;type:text;not null;default:PENDING;index:idx_orders_seller_state,priority:2"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	o.ID = ensureID(o.ID)
	return nil
}
