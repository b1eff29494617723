package controllers

import (
	"net/http"

	"github.com/angelmondragon/sellerdesk-backend/api/responses"
	"github.com/angelmondragon/sellerdesk-backend/api/validators"
	"github.com/angelmondragon/sellerdesk-backend/internal/clients"
	"github.com/angelmondragon/sellerdesk-backend/pkg/logger"
)

const maxClientFieldLen = 200

type createClientRequest struct {
	Name       string  `json:"name" validate:"required,max=200"`
	LastName   string  `json:"last_name" validate:"required,max=200"`
	Enterprise string  `json:"enterprise" validate:"required,max=200"`
	Email      string  `json:"email" validate:"required,email"`
	Telephone  *string `json:"telephone,omitempty" validate:"omitempty,max=40"`
}

func (p createClientRequest) toInput() clients.CreateClientInput {
	return clients.CreateClientInput{
		Name:       validators.SanitizeString(p.Name, maxClientFieldLen),
		LastName:   validators.SanitizeString(p.LastName, maxClientFieldLen),
		Enterprise: validators.SanitizeString(p.Enterprise, maxClientFieldLen),
		Email:      validators.SanitizeString(p.Email, maxClientFieldLen),
		Telephone:  validators.SanitizeOptional(p.Telephone, maxClientFieldLen),
	}
}

type updateClientRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,max=200"`
	LastName   *string `json:"last_name,omitempty" validate:"omitempty,max=200"`
	Enterprise *string `json:"enterprise,omitempty" validate:"omitempty,max=200"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	Telephone  *string `json:"telephone,omitempty" validate:"omitempty,max=40"`
}

func (p updateClientRequest) toInput() clients.UpdateClientInput {
	return clients.UpdateClientInput{
		Name:       validators.SanitizeOptional(p.Name, maxClientFieldLen),
		LastName:   validators.SanitizeOptional(p.LastName, maxClientFieldLen),
		Enterprise: validators.SanitizeOptional(p.Enterprise, maxClientFieldLen),
		Email:      validators.SanitizeOptional(p.Email, maxClientFieldLen),
		Telephone:  validators.SanitizeOptional(p.Telephone, maxClientFieldLen),
	}
}

// ListClients returns the caller's clients.
func ListClients(svc clients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("client"))
			return
		}
		uid, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListBySeller(r.Context(), uid)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func CreateClient(svc clients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("client"))
			return
		}
		uid, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createClientRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		client, err := svc.Create(r.Context(), uid, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, client)
	}
}

func GetClient(svc clients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("client"))
			return
		}
		uid, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		clientID, err := validators.ParseUUIDParam(r, "clientId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		client, err := svc.Get(r.Context(), uid, clientID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, client)
	}
}

func UpdateClient(svc clients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("client"))
			return
		}
		uid, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		clientID, err := validators.ParseUUIDParam(r, "clientId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateClientRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		client, err := svc.Update(r.Context(), uid, clientID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, client)
	}
}

func DeleteClient(svc clients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("client"))
			return
		}
		uid, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		clientID, err := validators.ParseUUIDParam(r, "clientId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), uid, clientID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
