package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/hweliang/finbook-backend/internal/domain"
	"github.com/hweliang/finbook-backend/internal/websocket"
)

// AccountHandler handles account-related HTTP requests. Mutations return the
// full refreshed account list so the UI always re-renders store-confirmed
// state.
type AccountHandler struct {
	gateway   domain.Gateway
	publisher websocket.EventPublisher
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(gateway domain.Gateway, publisher websocket.EventPublisher) *AccountHandler {
	return &AccountHandler{gateway: gateway, publisher: publisher}
}

// UpsertAccountRequest represents the create/update account request body
type UpsertAccountRequest struct {
	Name         string `json:"name"`
	Balance      string `json:"balance"`
	Institution  string `json:"institution"`
	AccountClass string `json:"accountClass"`
	Color        string `json:"color"`
}

func (r UpsertAccountRequest) toDomain() (domain.Account, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return domain.Account{}, domain.ErrNameRequired
	}
	if len(name) > domain.MaxAccountNameLength {
		return domain.Account{}, domain.ErrNameTooLong
	}

	balance := decimal.Zero
	if r.Balance != "" {
		parsed, err := decimal.NewFromString(r.Balance)
		if err != nil {
			return domain.Account{}, domain.ErrInvalidAmount
		}
		balance = parsed
	}

	return domain.Account{
		Name:         name,
		Balance:      balance,
		Institution:  strings.TrimSpace(r.Institution),
		AccountClass: strings.TrimSpace(r.AccountClass),
		Color:        r.Color,
	}, nil
}

// GetAccounts handles GET /api/v1/accounts
func (h *AccountHandler) GetAccounts(c echo.Context) error {
	sess := sessionOf(c)
	mode, ok := requestMode(c, sess)
	if !ok {
		return NewValidationError(c, domain.ErrInvalidMode.Error(), nil)
	}

	accounts, err := h.gateway.ListAccounts(c.Request().Context(), sess, mode)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list accounts")
		return NewInternalError(c, "Failed to list accounts")
	}
	return c.JSON(http.StatusOK, toAccountResponses(accounts))
}

// CreateAccount handles POST /api/v1/accounts
func (h *AccountHandler) CreateAccount(c echo.Context) error {
	sess := sessionOf(c)
	mode, ok := requestMode(c, sess)
	if !ok {
		return NewValidationError(c, domain.ErrInvalidMode.Error(), nil)
	}

	var req UpsertAccountRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	account, err := req.toDomain()
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}
	// POST carries no durable identity: the store must insert.
	account.Persisted = false

	accounts, err := h.gateway.UpsertAccount(c.Request().Context(), sess, mode, account)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create account")
		return NewInternalError(c, "Failed to create account")
	}

	h.publisher.Publish(ownerKey(sess), websocket.AccountUpserted(true, toAccountResponses(accounts)))
	return c.JSON(http.StatusCreated, toAccountResponses(accounts))
}

// UpdateAccount handles PUT /api/v1/accounts/:id
func (h *AccountHandler) UpdateAccount(c echo.Context) error {
	sess := sessionOf(c)
	mode, ok := requestMode(c, sess)
	if !ok {
		return NewValidationError(c, domain.ErrInvalidMode.Error(), nil)
	}

	var req UpsertAccountRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	account, err := req.toDomain()
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}
	// PUT targets an existing record: the store must point-update.
	account.ID = c.Param("id")
	account.Persisted = true

	accounts, err := h.gateway.UpsertAccount(c.Request().Context(), sess, mode, account)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return NewNotFoundError(c, "Account not found")
		}
		log.Error().Err(err).Str("account_id", account.ID).Msg("Failed to update account")
		return NewInternalError(c, "Failed to update account")
	}

	h.publisher.Publish(ownerKey(sess), websocket.AccountUpserted(false, toAccountResponses(accounts)))
	return c.JSON(http.StatusOK, toAccountResponses(accounts))
}

// DeleteAccount handles DELETE /api/v1/accounts/:id
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	sess := sessionOf(c)
	mode, ok := requestMode(c, sess)
	if !ok {
		return NewValidationError(c, domain.ErrInvalidMode.Error(), nil)
	}

	id := c.Param("id")
	accounts, err := h.gateway.DeleteAccount(c.Request().Context(), sess, mode, id)
	if err != nil {
		log.Error().Err(err).Str("account_id", id).Msg("Failed to delete account")
		return NewInternalError(c, "Failed to delete account")
	}

	h.publisher.Publish(ownerKey(sess), websocket.AccountDeleted(map[string]string{"id": id}))
	return c.JSON(http.StatusOK, toAccountResponses(accounts))
}
