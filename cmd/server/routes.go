package main

import (
	"github.com/gin-gonic/gin"

	"bridge-kita.backend/internal/interfaces/http/handlers"
	"bridge-kita.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	transferHandler *handlers.TransferHandler
	limitHandler    *handlers.LimitHandler
	tokenHandler    *handlers.TokenHandler
	balanceHandler  *handlers.BalanceHandler
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Transfer routes
		transfers := v1.Group("/transfers")
		{
			transfers.POST("", middleware.IdempotencyMiddleware(), d.transferHandler.CreateTransfer)
			transfers.GET("", d.transferHandler.ListTransfers)
			transfers.GET("/:id", d.transferHandler.GetTransfer)
		}

		// Limit routes (public reads)
		limits := v1.Group("/limits")
		{
			limits.GET("/receipt", d.limitHandler.GetReceiptLimit)
			limits.GET("/swap", d.limitHandler.GetSwapLimit)
			limits.GET("/merged", d.limitHandler.GetMergedLimit)
		}

		// Token routes (public)
		tokens := v1.Group("/tokens")
		{
			tokens.GET("", d.tokenHandler.ListTokens)
			tokens.GET("/:symbol", d.tokenHandler.GetToken)
		}

		// Balance route (public)
		v1.GET("/balances", d.balanceHandler.GetBalance)
	}
}
