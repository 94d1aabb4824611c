package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/enliven17/mineSomnia/internal/services"
)

type AdminHandler struct {
	ledger *services.Ledger
}

func NewAdminHandler(ledger *services.Ledger) *AdminHandler {
	return &AdminHandler{ledger: ledger}
}

// DepositFunds tops up the shared pool. Route is behind RequireAdmin.
func (h *AdminHandler) DepositFunds(c *gin.Context) {
	address := c.GetString("address")

	var req struct {
		Amount int64 `json:"amount" binding:"required,min=1"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	balance, err := h.ledger.AddFunds(c.Request.Context(), address, req.Amount)
	if err != nil {
		c.JSON(rejectionStatus(err), gin.H{
			"error":   "Failed to deposit funds",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"pool_balance": balance,
	})
}

// DrainFunds pays the whole pool to the admin wallet and zeroes it. Route is
// behind RequireAdmin.
func (h *AdminHandler) DrainFunds(c *gin.Context) {
	address := c.GetString("address")

	amount, err := h.ledger.DrainFunds(c.Request.Context(), address)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to drain pool",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"drained":      amount,
		"pool_balance": 0,
	})
}
