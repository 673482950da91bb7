package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/accounts-api/internal/api/shared"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/platform/logger"
	"github.com/phrazzld/accounts-api/internal/service"
)

// AccountHandler serves the /api/v1/users resource.
type AccountHandler struct {
	accounts service.AccountService
	logger   *slog.Logger
}

// NewAccountHandler creates an AccountHandler.
func NewAccountHandler(accounts service.AccountService, log *slog.Logger) *AccountHandler {
	if accounts == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("account service cannot be nil for AccountHandler")
	}
	if log == nil {
		log = slog.Default()
	}
	return &AccountHandler{
		accounts: accounts,
		logger:   log.With(slog.String("component", "account_handler")),
	}
}

// Routes mounts the account endpoints on r.
func (h *AccountHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/register", h.Register)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Patch("/", h.Patch)
		r.Delete("/", h.Delete)
	})
}

// List handles GET /api/v1/users. An empty store is answered with 404.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.FindAll(r.Context())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if len(accounts) == 0 {
		shared.RespondWithError(w, r, http.StatusNotFound, MsgNoAccounts)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, accounts)
}

// Register handles POST /api/v1/users/register.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	view, err := h.accounts.Register(r.Context(), req.ToRegistration())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Info("account registered", slog.String("account_id", view.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, view)
}

// Get handles GET /api/v1/users/{id}.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	account, err := h.accounts.FindByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, account)
}

// Update handles PUT /api/v1/users/{id}. A username matching another
// account ignoring case is a 409. A new password must satisfy the same
// policy as registration, otherwise the response is a 400.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.modify(w, r, h.accounts.Update)
}

// Patch handles PATCH /api/v1/users/{id}. Only an exact username match
// is a conflict. A new password must satisfy the registration policy,
// otherwise the response is a 400.
func (h *AccountHandler) Patch(w http.ResponseWriter, r *http.Request) {
	h.modify(w, r, h.accounts.Patch)
}

type modifyFunc func(ctx context.Context, id uuid.UUID, changes domain.AccountChanges) (*domain.Account, error)

func (h *AccountHandler) modify(w http.ResponseWriter, r *http.Request, apply modifyFunc) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	var req UpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	account, err := apply(r.Context(), id, req.ToChanges())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Info("account modified",
		slog.String("account_id", account.ID.String()),
		slog.String("method", r.Method))
	shared.RespondWithJSON(w, r, http.StatusOK, account)
}

// Delete handles DELETE /api/v1/users/{id}.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	if err := h.accounts.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Info("account deleted", slog.String("account_id", id.String()))
	shared.RespondNoContent(w, r)
}
