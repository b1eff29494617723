// Package access decides whether a caller may act on a seller-owned resource.
package access

import (
	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/sellerdesk-backend/pkg/errors"
)

// Resource names used in authorization failures.
const (
	ResourceClient = "client"
	ResourceOrder  = "order"
)

// AuthorizeOwner allows the call only when actorID is the resource owner.
// A missing actor is unauthenticated; any mismatch is unauthorized.
func AuthorizeOwner(actorID, ownerID uuid.UUID, resource string) error {
	if actorID == uuid.Nil {
		return pkgerrors.Unauthenticated("caller identity required")
	}
	if ownerID == uuid.Nil || actorID != ownerID {
		return pkgerrors.Unauthorized(actorID.String(), resource)
	}
	return nil
}
