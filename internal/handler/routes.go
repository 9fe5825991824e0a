package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/hweliang/finbook-backend/internal/middleware"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, sessionMiddleware *middleware.SessionMiddleware, rateLimiter *middleware.RateLimiter, accountHandler *AccountHandler, transactionHandler *TransactionHandler, categoryHandler *CategoryHandler, wsHandler *WebSocketHandler) {
	// API version 1. Session resolution is optional-auth: requests without a
	// token proceed as the demo session against the local snapshot.
	api := e.Group("/api/v1")
	api.Use(sessionMiddleware.Resolve())
	api.Use(middleware.RateLimitMiddleware(rateLimiter))

	accounts := api.Group("/accounts")
	accounts.GET("", accountHandler.GetAccounts)
	accounts.POST("", accountHandler.CreateAccount)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)

	transactions := api.Group("/transactions")
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	api.GET("/categories", categoryHandler.GetCategories)

	api.GET("/ws", wsHandler.HandleWS)
}
