package reports

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/sellerdesk-backend/internal/repo"
	"github.com/angelmondragon/sellerdesk-backend/pkg/enums"
)

// Rankings group, sum, sort and limit in one statement so the limit always
// applies to the sorted totals.
const (
	topClientsSQL = `
SELECT client_id AS entity_id, SUM(total) AS revenue
FROM orders
WHERE state = ?
GROUP BY client_id
ORDER BY revenue DESC, client_id ASC
LIMIT ?
`

	topSellersSQL = `
SELECT seller_id AS entity_id, SUM(total) AS revenue
FROM orders
WHERE state = ?
GROUP BY seller_id
ORDER BY revenue DESC, seller_id ASC
LIMIT ?
`
)

// EntityTotal is one aggregated row before the entity lookup.
type EntityTotal struct {
	EntityID uuid.UUID       `gorm:"column:entity_id"`
	Total    decimal.Decimal `gorm:"column:revenue"`
}

// Repository runs the read-only report aggregations.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// TopClients sums completed order totals per client.
func (r *Repository) TopClients(ctx context.Context, limit int) ([]EntityTotal, error) {
	return r.top(ctx, topClientsSQL, limit, "aggregate best clients")
}

// TopSellers sums completed order totals per seller.
func (r *Repository) TopSellers(ctx context.Context, limit int) ([]EntityTotal, error) {
	return r.top(ctx, topSellersSQL, limit, "aggregate best sellers")
}

func (r *Repository) top(ctx context.Context, sql string, limit int, op string) ([]EntityTotal, error) {
	var rows []EntityTotal
	if err := r.DB(ctx).Raw(sql, enums.OrderStateCompleted, limit).Scan(&rows).Error; err != nil {
		return nil, repo.Store(err, op)
	}
	return rows, nil
}
