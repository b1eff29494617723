package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/sellerdesk-backend/api/middleware"
	"github.com/angelmondragon/sellerdesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/sellerdesk-backend/pkg/errors"
)

func callerID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.SellerIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.Unauthenticated("user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthenticated, err, "invalid user id")
	}
	return id, nil
}

func serviceUnavailable(name string) error {
	return pkgerrors.New(pkgerrors.CodeInternal, name+" service unavailable")
}

func parseOrderState(raw string) (enums.OrderState, error) {
	state, err := enums.ParseOrderState(raw)
	if err != nil {
		return "", pkgerrors.Validation("state", "is not a known order state")
	}
	return state, nil
}
