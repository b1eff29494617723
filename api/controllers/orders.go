package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/sellerdesk-backend/api/responses"
	"github.com/angelmondragon/sellerdesk-backend/api/validators"
	"github.com/angelmondragon/sellerdesk-backend/internal/orders"
	"github.com/angelmondragon/sellerdesk-backend/pkg/enums"
	"github.com/angelmondragon/sellerdesk-backend/pkg/logger"
)

type lineItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Amount    int       `json:"amount" validate:"gt=0"`
}

type createOrderRequest struct {
	ClientID uuid.UUID         `json:"client_id" validate:"required"`
	Items    []lineItemRequest `json:"items" validate:"required,min=1,dive"`
	State    *string           `json:"state,omitempty"`
}

type updateOrderRequest struct {
	ClientID *uuid.UUID         `json:"client_id,omitempty"`
	Items    *[]lineItemRequest `json:"items,omitempty" validate:"omitempty,min=1,dive"`
	State    *string            `json:"state,omitempty"`
}

func toLineItems(items []lineItemRequest) []orders.LineItem {
	out := make([]orders.LineItem, 0, len(items))
	for _, item := range items {
		out = append(out, orders.LineItem{ProductID: item.ProductID, Amount: item.Amount})
	}
	return out
}

func (p createOrderRequest) toInput() (orders.CreateOrderInput, error) {
	input := orders.CreateOrderInput{ClientID: p.ClientID, Items: toLineItems(p.Items)}
	if p.State != nil {
		state, err := parseOrderState(*p.State)
		if err != nil {
			return input, err
		}
		input.State = state
	}
	return input, nil
}

func (p updateOrderRequest) toInput() (orders.UpdateOrderInput, error) {
	input := orders.UpdateOrderInput{ClientID: p.ClientID}
	if p.Items != nil {
		items := toLineItems(*p.Items)
		input.Items = &items
	}
	if p.State != nil {
		state, err := parseOrderState(*p.State)
		if err != nil {
			return input, err
		}
		input.State = &state
	}
	return input, nil
}

// ListOrders returns the caller's orders, filtered by ?state= when present.
func ListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("order"))
			return
		}
		uid, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var list []orders.OrderDTO
		if raw := validators.QueryString(r, "state", 20); raw != "" {
			var state enums.OrderState
			state, err = parseOrderState(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			list, err = svc.ListBySellerAndState(r.Context(), uid, state)
		} else {
			list, err = svc.ListBySeller(r.Context(), uid)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func CreateOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("order"))
			return
		}
		uid, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Create(r.Context(), uid, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

func GetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("order"))
			return
		}
		uid, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), uid, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func UpdateOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("order"))
			return
		}
		uid, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Update(r.Context(), uid, orderID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func DeleteOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("order"))
			return
		}
		uid, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), uid, orderID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
