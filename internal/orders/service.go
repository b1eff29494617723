package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/sellerdesk-backend/internal/access"
	"github.com/angelmondragon/sellerdesk-backend/internal/repo"
	"github.com/angelmondragon/sellerdesk-backend/pkg/db/models"
	"github.com/angelmondragon/sellerdesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/sellerdesk-backend/pkg/errors"
	"github.com/angelmondragon/sellerdesk-backend/pkg/logger"
	"github.com/angelmondragon/sellerdesk-backend/pkg/outbox"
	"github.com/angelmondragon/sellerdesk-backend/pkg/outbox/payloads"
)

// Service is the order lifecycle manager. Every mutation runs in one
// transaction covering stock, the order row and its outbox event.
type Service interface {
	Create(ctx context.Context, callerID uuid.UUID, input CreateOrderInput) (*OrderDTO, error)
	Update(ctx context.Context, callerID, orderID uuid.UUID, input UpdateOrderInput) (*OrderDTO, error)
	Delete(ctx context.Context, callerID, orderID uuid.UUID) error
	Get(ctx context.Context, callerID, orderID uuid.UUID) (*OrderDTO, error)
	ListBySeller(ctx context.Context, callerID uuid.UUID) ([]OrderDTO, error)
	ListBySellerAndState(ctx context.Context, callerID uuid.UUID, state enums.OrderState) ([]OrderDTO, error)
}

// ServiceParams bundles the order service dependencies.
type ServiceParams struct {
	Repo        Repository
	Clients     ClientLookupFactory
	TxRunner    txRunner
	Ledger      StockLedger
	Outbox      outboxPublisher
	StockPolicy enums.StockPolicy
	Logger      *logger.Logger
}

type service struct {
	repo    Repository
	clients ClientLookupFactory
	tx      txRunner
	ledger  StockLedger
	outbox  outboxPublisher
	policy  enums.StockPolicy
	logg    *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if params.Clients == nil {
		return nil, fmt.Errorf("client lookup required")
	}
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Ledger == nil {
		return nil, fmt.Errorf("stock ledger required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	policy := params.StockPolicy
	if policy == "" {
		policy = enums.StockPolicyNoRestore
	}
	if !policy.IsValid() {
		return nil, fmt.Errorf("invalid stock policy %q", policy)
	}
	return &service{
		repo:    params.Repo,
		clients: params.Clients,
		tx:      params.TxRunner,
		ledger:  params.Ledger,
		outbox:  params.Outbox,
		policy:  policy,
		logg:    params.Logger,
	}, nil
}

func (s *service) Create(ctx context.Context, callerID uuid.UUID, input CreateOrderInput) (*OrderDTO, error) {
	state := input.State
	if state == "" {
		state = enums.OrderStatePending
	}
	if !state.IsValid() {
		return nil, pkgerrors.Validation("state", fmt.Sprintf("must be one of PENDING, COMPLETED, CANCELLED (got %q)", state))
	}

	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		client, err := s.clients(tx).FindByID(ctx, input.ClientID)
		if err != nil {
			return err
		}
		if err := access.AuthorizeOwner(callerID, client.SellerID, access.ResourceClient); err != nil {
			return err
		}

		items := toModelItems(input.Items)
		applied, err := s.ledger.Apply(ctx, tx, items)
		if err != nil {
			return err
		}

		order := &models.Order{
			ClientID: client.ID,
			SellerID: callerID,
			Items:    items,
			Total:    applied.Total,
			State:    state,
		}
		if err := s.releaseIfCancelled(ctx, tx, "", state, items); err != nil {
			return err
		}
		if err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return err
		}
		order.Client = client

		if err := s.emit(ctx, tx, enums.EventOrderCreated, callerID, order.ID, orderEvent(order, "", false)); err != nil {
			return err
		}
		created = order
		return nil
	})
	if err != nil {
		return nil, repo.Store(err, "create order")
	}

	s.logg.Info(s.logg.WithFields(s.logg.WithOrderID(ctx, created.ID.String()), map[string]any{
		"seller_id": callerID.String(),
		"total":     created.Total.String(),
	}), "order.created")
	return NewOrderDTO(created), nil
}

func (s *service) Update(ctx context.Context, callerID, orderID uuid.UUID, input UpdateOrderInput) (*OrderDTO, error) {
	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		orderRepo := s.repo.WithTx(tx)
		order, err := orderRepo.FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		clientID := order.ClientID
		if input.ClientID != nil {
			clientID = *input.ClientID
		}
		client, err := s.clients(tx).FindByID(ctx, clientID)
		if err != nil {
			return err
		}
		if err := access.AuthorizeOwner(callerID, order.SellerID, access.ResourceOrder); err != nil {
			return err
		}
		if err := access.AuthorizeOwner(callerID, client.SellerID, access.ResourceClient); err != nil {
			return err
		}

		previous := order.State
		next := previous
		if input.State != nil {
			next = *input.State
		}
		if err := validateTransition(previous, next); err != nil {
			return err
		}
		if input.Items == nil && next == previous && client.ID == order.ClientID {
			order.Client = client
			updated = order
			return nil
		}

		if input.Items != nil {
			if previous != enums.OrderStatePending {
				return pkgerrors.Validation("items", fmt.Sprintf("can only be replaced while the order is PENDING (order is %s)", previous))
			}
			if s.policy == enums.StockPolicyRestore {
				if err := s.ledger.Release(ctx, tx, order.Items); err != nil {
					return err
				}
			}
			items := toModelItems(*input.Items)
			applied, err := s.ledger.Apply(ctx, tx, items)
			if err != nil {
				return err
			}
			order.Items = items
			order.Total = applied.Total
		}
		if err := s.releaseIfCancelled(ctx, tx, previous, next, order.Items); err != nil {
			return err
		}

		order.ClientID = client.ID
		order.State = next
		if err := orderRepo.Save(ctx, order); err != nil {
			return err
		}
		order.Client = client

		event := orderEvent(order, previous, input.Items != nil)
		if err := s.emit(ctx, tx, enums.EventOrderUpdated, callerID, order.ID, event); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, repo.Store(err, "update order")
	}

	s.logg.Info(s.logg.WithFields(s.logg.WithOrderID(ctx, updated.ID.String()), map[string]any{
		"state": updated.State.String(),
		"total": updated.Total.String(),
	}), "order.updated")
	return NewOrderDTO(updated), nil
}

func (s *service) Delete(ctx context.Context, callerID, orderID uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		orderRepo := s.repo.WithTx(tx)
		order, err := orderRepo.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := access.AuthorizeOwner(callerID, order.SellerID, access.ResourceOrder); err != nil {
			return err
		}

		restored := false
		if s.policy == enums.StockPolicyRestore && order.State != enums.OrderStateCancelled {
			if err := s.ledger.Release(ctx, tx, order.Items); err != nil {
				return err
			}
			restored = true
		}
		if err := orderRepo.Delete(ctx, order.ID); err != nil {
			return err
		}
		return s.emit(ctx, tx, enums.EventOrderDeleted, callerID, order.ID, payloads.OrderDeletedEvent{
			OrderID:       order.ID,
			SellerID:      order.SellerID,
			State:         order.State,
			StockRestored: restored,
		})
	})
	if err != nil {
		return repo.Store(err, "delete order")
	}
	s.logg.Info(s.logg.WithOrderID(ctx, orderID.String()), "order.deleted")
	return nil
}

func (s *service) Get(ctx context.Context, callerID, orderID uuid.UUID) (*OrderDTO, error) {
	if callerID == uuid.Nil {
		return nil, pkgerrors.Unauthenticated("authentication required")
	}
	order, err := s.repo.FindDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := access.AuthorizeOwner(callerID, order.SellerID, access.ResourceOrder); err != nil {
		return nil, err
	}
	return NewOrderDTO(order), nil
}

func (s *service) ListBySeller(ctx context.Context, callerID uuid.UUID) ([]OrderDTO, error) {
	if callerID == uuid.Nil {
		return nil, pkgerrors.Unauthenticated("authentication required")
	}
	rows, err := s.repo.ListBySeller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return newOrderDTOs(rows), nil
}

func (s *service) ListBySellerAndState(ctx context.Context, callerID uuid.UUID, state enums.OrderState) ([]OrderDTO, error) {
	if callerID == uuid.Nil {
		return nil, pkgerrors.Unauthenticated("authentication required")
	}
	if !state.IsValid() {
		return nil, pkgerrors.Validation("state", fmt.Sprintf("must be one of PENDING, COMPLETED, CANCELLED (got %q)", state))
	}
	rows, err := s.repo.ListBySellerAndState(ctx, callerID, state)
	if err != nil {
		return nil, err
	}
	return newOrderDTOs(rows), nil
}

func (s *service) emit(ctx context.Context, tx *gorm.DB, eventType enums.OutboxEventType, actor, orderID uuid.UUID, data any) error {
	err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     eventType,
		AggregateType: enums.AggregateOrder,
		AggregateID:   orderID,
		Actor:         &outbox.ActorRef{UserID: actor},
		Data:          data,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "queue order event")
	}
	return nil
}

// releaseIfCancelled credits items back when an order enters CANCELLED under
// the restore policy. A cancelled order holds no stock, so Delete skips it.
func (s *service) releaseIfCancelled(ctx context.Context, tx *gorm.DB, from, to enums.OrderState, items []models.OrderLineItem) error {
	if s.policy != enums.StockPolicyRestore || to != enums.OrderStateCancelled || from == enums.OrderStateCancelled {
		return nil
	}
	return s.ledger.Release(ctx, tx, items)
}

func validateTransition(from, to enums.OrderState) error {
	if !to.IsValid() {
		return pkgerrors.Validation("state", fmt.Sprintf("must be one of PENDING, COMPLETED, CANCELLED (got %q)", to))
	}
	if !from.CanTransitionTo(to) {
		return pkgerrors.Validation("state", fmt.Sprintf("cannot move from %s to %s", from, to))
	}
	return nil
}

func orderEvent(order *models.Order, previous enums.OrderState, itemsReplaced bool) payloads.OrderEvent {
	items := make([]payloads.OrderLineItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, payloads.OrderLineItem{ProductID: item.ProductID, Amount: item.Amount})
	}
	return payloads.OrderEvent{
		OrderID:       order.ID,
		SellerID:      order.SellerID,
		ClientID:      order.ClientID,
		State:         order.State,
		PreviousState: previous,
		Total:         order.Total,
		Items:         items,
		ItemsReplaced: itemsReplaced,
	}
}
