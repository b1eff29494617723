package reports

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/sellerdesk-backend/internal/clients"
	"github.com/angelmondragon/sellerdesk-backend/internal/users"
)

// ClientRanking is one entry of the best clients leaderboard.
type ClientRanking struct {
	ClientID uuid.UUID          `json:"client_id"`
	Client   *clients.ClientDTO `json:"client,omitempty"`
	Total    decimal.Decimal    `json:"total"`
}

// SellerRanking is one entry of the best sellers leaderboard.
type SellerRanking struct {
	SellerID uuid.UUID       `json:"seller_id"`
	Seller   *users.UserDTO  `json:"seller,omitempty"`
	Total    decimal.Decimal `json:"total"`
}
