package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/accounts-api/internal/api/shared"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/redact"
	"github.com/phrazzld/accounts-api/internal/service"
	"github.com/phrazzld/accounts-api/internal/store"
)

// User-facing messages.
const (
	MsgUsernameTaken   = "El nombre de usuario ya existe."
	MsgEmailTaken      = "El correo ingresado ya se encuentra registrado."
	MsgInvalidEmail    = "Email inválido: El formato debe ser tu_correo@dominio.cl"
	MsgWeakPassword    = "La contraseña no cumple con el formato correcto"
	MsgAccountNotFound = "Usuario no encontrado"
	MsgNoAccounts      = "No hay usuarios registrados"
	MsgIncompletePhone = "El teléfono debe incluir number, citycode y contrycode"
	MsgEmptyUsername   = "El nombre de usuario no puede estar vacío"
	MsgInvalidID       = "Identificador de usuario inválido"
	MsgInvalidData     = "Datos de usuario inválidos"
	MsgInvalidRequest  = "Formato de solicitud inválido"
	MsgInternalPrefix  = "Error interno del servidor: "
)

// MapErrorToStatusCode maps service, domain and store errors to HTTP status
// codes. Anything unrecognized is a 500.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	case errors.Is(err, service.ErrAccountNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrWeakPassword),
		errors.Is(err, domain.ErrIncompletePhone),
		errors.Is(err, domain.ErrEmptyUsername),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns the message shown to clients for err. Only
// unclassified errors expose their text, and only after redaction.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return MsgInternalPrefix
	}

	switch {
	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, store.ErrUsernameExists):
		return MsgUsernameTaken
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, store.ErrEmailExists):
		return MsgEmailTaken
	case errors.Is(err, service.ErrAccountNotFound),
		errors.Is(err, store.ErrNotFound):
		return MsgAccountNotFound
	case errors.Is(err, domain.ErrInvalidEmail):
		return MsgInvalidEmail
	case errors.Is(err, domain.ErrWeakPassword):
		return MsgWeakPassword
	case errors.Is(err, domain.ErrIncompletePhone):
		return MsgIncompletePhone
	case errors.Is(err, domain.ErrEmptyUsername):
		return MsgEmptyUsername
	case errors.Is(err, domain.ErrInvalidID):
		return MsgInvalidID
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, store.ErrDuplicate):
		return MsgInvalidData
	default:
		return MsgInternalPrefix + redact.Error(err)
	}
}

// SanitizeValidationError turns a request validation failure into a client
// message naming the first offending field by its JSON name.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return MsgInvalidRequest
	}

	fe := verrs[0]
	return fmt.Sprintf("El campo %s %s", fe.Field(), getValidationTagMessage(fe.Tag()))
}

// getValidationTagMessage maps validation tags to message fragments.
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "es obligatorio"
	case "min":
		return "es demasiado corto"
	case "max":
		return "es demasiado largo"
	default:
		return "no es válido"
	}
}

// HandleAPIError writes the status and message mapped from err.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}

// HandleValidationError answers a request that failed to decode or validate.
func HandleValidationError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
}
