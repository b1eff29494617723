package payloads

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/sellerdesk-backend/pkg/enums"
)

// OrderLineItem mirrors a persisted line item inside event payloads.
type OrderLineItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Amount    int       `json:"amount"`
}

// OrderEvent is the payload of order_created and order_updated.
type OrderEvent struct {
	OrderID       uuid.UUID        `json:"order_id"`
	SellerID      uuid.UUID        `json:"seller_id"`
	ClientID      uuid.UUID        `json:"client_id"`
	State         enums.OrderState `json:"state"`
	PreviousState enums.OrderState `json:"previous_state,omitempty"`
	Total         decimal.Decimal  `json:"total"`
	Items         []OrderLineItem  `json:"items"`
	ItemsReplaced bool             `json:"items_replaced,omitempty"`
}

// OrderDeletedEvent is the payload of order_deleted.
type OrderDeletedEvent struct {
	OrderID       uuid.UUID        `json:"order_id"`
	SellerID      uuid.UUID        `json:"seller_id"`
	State         enums.OrderState `json:"state"`
	StockRestored bool             `json:"stock_restored"`
}
