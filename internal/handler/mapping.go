package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/hweliang/finbook-backend/internal/domain"
	"github.com/hweliang/finbook-backend/internal/middleware"
	"github.com/hweliang/finbook-backend/internal/websocket"
)

const dateLayout = "2006-01-02"

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Balance      string `json:"balance"`
	Institution  string `json:"institution"`
	AccountClass string `json:"accountClass"`
	Color        string `json:"color"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID         string `json:"id"`
	AccountID  string `json:"accountId"`
	CategoryID string `json:"categoryId"`
	Amount     string `json:"amount"`
	Kind       string `json:"kind"`
	Date       string `json:"date"`
	Note       string `json:"note"`
}

// StateResponse carries the refreshed lists the UI re-renders from after a
// mutation.
type StateResponse struct {
	Accounts     []AccountResponse     `json:"accounts"`
	Transactions []TransactionResponse `json:"transactions"`
}

func toAccountResponse(account domain.Account) AccountResponse {
	return AccountResponse{
		ID:           account.ID,
		Name:         account.Name,
		Balance:      account.Balance.String(),
		Institution:  account.Institution,
		AccountClass: account.AccountClass,
		Color:        account.Color,
	}
}

func toAccountResponses(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i, account := range accounts {
		out[i] = toAccountResponse(account)
	}
	return out
}

func toTransactionResponse(transaction domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:         transaction.ID,
		AccountID:  transaction.AccountID,
		CategoryID: transaction.CategoryID,
		Amount:     transaction.Amount.String(),
		Kind:       string(transaction.Kind),
		Date:       transaction.Date.Format(dateLayout),
		Note:       transaction.Note,
	}
}

func toTransactionResponses(transactions []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(transactions))
	for i, transaction := range transactions {
		out[i] = toTransactionResponse(transaction)
	}
	return out
}

// requestMode resolves the store mode flag for a request: the explicit
// ?mode= parameter when present, otherwise the session's default (remote for
// authenticated sessions, local for demo).
func requestMode(c echo.Context, sess domain.Session) (domain.Mode, bool) {
	raw := c.QueryParam("mode")
	if raw == "" {
		return sess.DefaultMode(), true
	}
	mode := domain.Mode(raw)
	if !mode.Valid() {
		return "", false
	}
	return mode, true
}

// ownerKey returns the hub key change events for this session publish under.
func ownerKey(sess domain.Session) string {
	if sess.Authenticated() {
		return sess.OwnerID
	}
	return websocket.LocalOwnerKey
}

// sessionOf is a thin alias so handlers read naturally.
func sessionOf(c echo.Context) domain.Session {
	return middleware.GetSession(c)
}
