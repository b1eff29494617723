package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client belongs to the seller that created it; SellerID is never reassigned.
type Client struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name       string    `gorm:"column:name;not null"`
	LastName   string    `gorm:"column:last_name;not null"`
	Enterprise string    `gorm:"column:enterprise;not null"`
	Email      string    `gorm:"column:email;type:text;not null;uniqueIndex:ux_clients_email"`
	Telephone  *string   `gorm:"column:telephone"`
	SellerID   uuid.UUID `gorm:"column:seller_id;type:uuid;not null;index:idx_clients_seller_id"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Client) BeforeCreate(*gorm.DB) error {
	c.ID = ensureID(c.ID)
	return nil
}
