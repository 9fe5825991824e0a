package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/hweliang/finbook-backend/internal/domain"
	"github.com/hweliang/finbook-backend/internal/service"
	"github.com/hweliang/finbook-backend/internal/websocket"
)

// TransactionHandler handles transaction-related HTTP requests. All
// mutations go through the balance reconciliation controller so account
// balances stay consistent with the transaction set; responses carry both
// refreshed lists.
type TransactionHandler struct {
	gateway    domain.Gateway
	reconciler *service.Reconciler
	publisher  websocket.EventPublisher
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(gateway domain.Gateway, reconciler *service.Reconciler, publisher websocket.EventPublisher) *TransactionHandler {
	return &TransactionHandler{gateway: gateway, reconciler: reconciler, publisher: publisher}
}

// TransactionRequest represents the create/update transaction request body
type TransactionRequest struct {
	AccountID  string `json:"accountId"`
	CategoryID string `json:"categoryId"`
	Amount     string `json:"amount"`
	Kind       string `json:"kind"`
	Date       string `json:"date"`
	Note       string `json:"note"`
}

func (r TransactionRequest) toDomain() (domain.Transaction, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil || amount.IsNegative() {
		return domain.Transaction{}, domain.ErrInvalidAmount
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if r.Date != "" {
		parsed, err := time.Parse(dateLayout, r.Date)
		if err != nil {
			return domain.Transaction{}, errors.New("date must be YYYY-MM-DD")
		}
		date = parsed
	}

	return domain.Transaction{
		AccountID:  r.AccountID,
		CategoryID: r.CategoryID,
		Amount:     amount,
		Kind:       domain.TransactionKind(r.Kind),
		Date:       date,
		Note:       r.Note,
	}, nil
}

// GetTransactions handles GET /api/v1/transactions
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	sess := sessionOf(c)
	mode, ok := requestMode(c, sess)
	if !ok {
		return NewValidationError(c, domain.ErrInvalidMode.Error(), nil)
	}

	transactions, err := h.gateway.ListTransactions(c.Request().Context(), sess, mode)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list transactions")
		return NewInternalError(c, "Failed to list transactions")
	}
	return c.JSON(http.StatusOK, toTransactionResponses(transactions))
}

// CreateTransaction handles POST /api/v1/transactions
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	sess := sessionOf(c)
	mode, ok := requestMode(c, sess)
	if !ok {
		return NewValidationError(c, domain.ErrInvalidMode.Error(), nil)
	}

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	transaction, err := req.toDomain()
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}
	transaction.Persisted = false

	result, err := h.reconciler.Create(c.Request().Context(), sess, mode, transaction)
	if err != nil {
		return h.mutationError(c, "create", err)
	}

	h.publisher.Publish(ownerKey(sess), websocket.TransactionCreated(toStateResponse(result)))
	return c.JSON(http.StatusCreated, toStateResponse(result))
}

// UpdateTransaction handles PUT /api/v1/transactions/:id
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	sess := sessionOf(c)
	mode, ok := requestMode(c, sess)
	if !ok {
		return NewValidationError(c, domain.ErrInvalidMode.Error(), nil)
	}

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	transaction, err := req.toDomain()
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}
	// The replacement record keeps the old identifier.
	transaction.ID = c.Param("id")
	transaction.Persisted = true

	result, err := h.reconciler.Edit(c.Request().Context(), sess, mode, transaction)
	if err != nil {
		return h.mutationError(c, "edit", err)
	}

	h.publisher.Publish(ownerKey(sess), websocket.TransactionUpdated(toStateResponse(result)))
	return c.JSON(http.StatusOK, toStateResponse(result))
}

// DeleteTransaction handles DELETE /api/v1/transactions/:id
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	sess := sessionOf(c)
	mode, ok := requestMode(c, sess)
	if !ok {
		return NewValidationError(c, domain.ErrInvalidMode.Error(), nil)
	}

	result, err := h.reconciler.Delete(c.Request().Context(), sess, mode, c.Param("id"))
	if err != nil {
		return h.mutationError(c, "delete", err)
	}

	h.publisher.Publish(ownerKey(sess), websocket.TransactionDeleted(toStateResponse(result)))
	return c.JSON(http.StatusOK, toStateResponse(result))
}

// mutationError maps reconciliation failures onto HTTP responses. A partial
// failure already resynchronized server-side; the client gets a generic
// error and reloads.
func (h *TransactionHandler) mutationError(c echo.Context, verb string, err error) error {
	switch {
	case errors.Is(err, domain.ErrTransactionNotFound):
		return NewNotFoundError(c, "Transaction not found")
	case errors.Is(err, domain.ErrAccountNotFound):
		return NewNotFoundError(c, "Account not found")
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidKind),
		errors.Is(err, domain.ErrCategoryNotFound),
		errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, err.Error(), nil)
	default:
		log.Error().Err(err).Str("verb", verb).Msg("Transaction mutation failed")
		return NewInternalError(c, "Transaction mutation failed")
	}
}

func toStateResponse(result *service.MutationResult) StateResponse {
	return StateResponse{
		Accounts:     toAccountResponses(result.Accounts),
		Transactions: toTransactionResponses(result.Transactions),
	}
}
