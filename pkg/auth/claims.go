package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the seller identity embedded in a JWT.
type AccessTokenPayload struct {
	UserID   uuid.UUID
	Email    string
	Name     string
	LastName string
}

// AccessTokenClaims represents the typed JWT issued to sellers.
type AccessTokenClaims struct {
	UserID   uuid.UUID `json:"user_id"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	LastName string    `json:"last_name"`
	jwt.RegisteredClaims
}
