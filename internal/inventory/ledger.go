// Package inventory keeps product stock consistent with the orders placed
// against it.
package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/sellerdesk-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/sellerdesk-backend/pkg/errors"
	"github.com/angelmondragon/sellerdesk-backend/pkg/logger"
	"github.com/angelmondragon/sellerdesk-backend/pkg/metrics"
)

// Application summarises a successful Apply.
type Application struct {
	Total decimal.Decimal
	Units int
}

// Ledger takes and returns stock for order line items.
type Ledger struct {
	repo    Repository
	metrics *metrics.InventoryMetrics
	logg    *logger.Logger
}

// NewLedger builds a ledger. The metrics recorder may be nil.
func NewLedger(repo Repository, m *metrics.InventoryMetrics, logg *logger.Logger) (*Ledger, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Ledger{repo: repo, metrics: m, logg: logg}, nil
}

// Apply takes stock for every item, in order, and prices the batch.
//
// Each item is a single conditional decrement, so concurrent orders can never
// oversell a product. The first failing item aborts the batch; callers run
// Apply inside a transaction so earlier decrements roll back with it.
func (l *Ledger) Apply(ctx context.Context, tx *gorm.DB, items []models.OrderLineItem) (*Application, error) {
	if len(items) == 0 {
		return nil, pkgerrors.Validation("items", "must contain at least one line item")
	}
	repo := l.repo.WithTx(tx)

	app := &Application{Total: decimal.Zero}
	for i, item := range items {
		if err := validateItem(i, item); err != nil {
			return nil, err
		}

		product, err := repo.FindProduct(ctx, item.ProductID)
		if err != nil {
			if pkgerrors.Is(err, pkgerrors.CodeNotFound) {
				l.metrics.ObserveDecrement(metrics.OutcomeNotFound, item.Amount)
			}
			return nil, err
		}

		applied, err := repo.DecrementStock(ctx, item.ProductID, item.Amount)
		if err != nil {
			return nil, err
		}
		if !applied {
			return nil, l.insufficient(ctx, repo, item)
		}

		l.metrics.ObserveDecrement(metrics.OutcomeApplied, item.Amount)
		app.Units += item.Amount
		app.Total = app.Total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Amount))))
	}
	return app, nil
}

// insufficient reloads the product so the error reports the stock that
// defeated the conditional update.
func (l *Ledger) insufficient(ctx context.Context, repo Repository, item models.OrderLineItem) error {
	current, err := repo.FindProduct(ctx, item.ProductID)
	if err != nil {
		if pkgerrors.Is(err, pkgerrors.CodeNotFound) {
			l.metrics.ObserveDecrement(metrics.OutcomeNotFound, item.Amount)
		}
		return err
	}
	l.metrics.ObserveDecrement(metrics.OutcomeInsufficient, item.Amount)

	logCtx := l.logg.WithFields(ctx, map[string]any{
		"product_id": item.ProductID.String(),
		"requested":  item.Amount,
		"available":  current.Stock,
	})
	l.logg.Info(logCtx, "inventory.insufficient_stock")
	return pkgerrors.InsufficientStock(current.Name, item.Amount, current.Stock)
}

// Release credits the items back to stock. Products deleted since the order
// was placed are skipped.
func (l *Ledger) Release(ctx context.Context, tx *gorm.DB, items []models.OrderLineItem) error {
	repo := l.repo.WithTx(tx)
	released := 0
	for _, item := range items {
		if item.Amount <= 0 {
			continue
		}
		ok, err := repo.IncrementStock(ctx, item.ProductID, item.Amount)
		if err != nil {
			return err
		}
		if !ok {
			l.logg.Warn(l.logg.WithField(ctx, "product_id", item.ProductID.String()), "inventory.release_skipped_missing_product")
			continue
		}
		released += item.Amount
	}
	l.metrics.ObserveRelease(released)
	return nil
}

func validateItem(index int, item models.OrderLineItem) error {
	if item.ProductID == uuid.Nil {
		return pkgerrors.Validation(fmt.Sprintf("items[%d].productId", index), "is required")
	}
	if item.Amount <= 0 {
		return pkgerrors.Validation(fmt.Sprintf("items[%d].amount", index), "must be greater than zero")
	}
	return nil
}
