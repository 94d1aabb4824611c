package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/enliven17/mineSomnia/internal/models"
	"github.com/enliven17/mineSomnia/internal/services"
)

type GameHandler struct {
	ledger       *services.Ledger
	redisService *services.RedisService
}

func NewGameHandler(ledger *services.Ledger, redisService *services.RedisService) *GameHandler {
	return &GameHandler{
		ledger:       ledger,
		redisService: redisService,
	}
}

// rejectionStatus maps ledger rejections onto HTTP statuses. Anything the
// ledger does not recognize is a server-side failure.
func rejectionStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrZeroStake),
		errors.Is(err, services.ErrStakeTooLarge),
		errors.Is(err, services.ErrMineCountRange),
		errors.Is(err, services.ErrTileRange),
		errors.Is(err, services.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrGameActive),
		errors.Is(err, services.ErrNoActiveGame),
		errors.Is(err, services.ErrTileRevealed),
		errors.Is(err, services.ErrNothingRevealed),
		errors.Is(err, services.ErrFairModeDisabled):
		return http.StatusConflict
	case errors.Is(err, services.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

func (h *GameHandler) StartGame(c *gin.Context) {
	address := c.GetString("address")

	var req models.StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	// Rate Limit: 30 starts per minute
	allowed, err := h.redisService.CheckRateLimit(address, "start", services.DefaultRateLimitStarts, 1*time.Minute)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Rate limit check failed"})
		return
	}
	if !allowed {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many games started. Please wait."})
		return
	}

	game, err := h.ledger.StartGame(c.Request.Context(), address, req.Mines, req.Amount)
	if err != nil {
		c.JSON(rejectionStatus(err), gin.H{
			"error":   "Failed to start game",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"game": gin.H{
			"player":           game.Player,
			"bet_amount":       game.BetAmount,
			"total_mines":      game.TotalMines,
			"is_active":        game.IsActive,
			"server_seed_hash": game.ServerSeedHash,
			"nonce":            game.Nonce,
			"started_at":       game.StartedAt,
		},
	})
}

func (h *GameHandler) RevealTile(c *gin.Context) {
	address := c.GetString("address")

	var req models.RevealRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Tile == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: tile index required",
		})
		return
	}

	// Rate Limit: 120 reveals per minute
	allowed, err := h.redisService.CheckRateLimit(address, "reveal", services.DefaultRateLimitReveals, 1*time.Minute)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Rate limit check failed"})
		return
	}
	if !allowed {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many reveals. Please wait."})
		return
	}

	result, err := h.ledger.RevealTile(c.Request.Context(), address, *req.Tile)
	if err != nil {
		c.JSON(rejectionStatus(err), gin.H{
			"error":   "Failed to reveal tile",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}

func (h *GameHandler) Cashout(c *gin.Context) {
	address := c.GetString("address")

	// Rate Limit: 60 cashouts per minute
	allowed, err := h.redisService.CheckRateLimit(address, "cashout", services.DefaultRateLimitCashout, 1*time.Minute)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Rate limit check failed"})
		return
	}
	if !allowed {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many cashouts. Please wait."})
		return
	}

	result, err := h.ledger.Cashout(c.Request.Context(), address)
	if err != nil {
		c.JSON(rejectionStatus(err), gin.H{
			"error":   "Failed to cash out",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}

// GetStatus returns the caller's full game record, or an inactive default if
// the address never played. Mine locations are included even for an active
// round; the original stores them in public chain state.
func (h *GameHandler) GetStatus(c *gin.Context) {
	address := c.GetString("address")

	game, err := h.ledger.Status(c.Request.Context(), address)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get status",
			"details": err.Error(),
		})
		return
	}

	if game == nil {
		game = &models.Game{
			Player:        address,
			RevealedTiles: make([]bool, models.GridSize),
		}
	}

	poolBalance, err := h.ledger.PoolBalance(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get pool balance",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"status": models.StatusResponse{
			Game:        game,
			PoolBalance: poolBalance,
		},
	})
}

func (h *GameHandler) GetPoolBalance(c *gin.Context) {
	balance, err := h.ledger.PoolBalance(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get pool balance",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"pool_balance": balance,
	})
}

// GetMultipliers serves the compounding display table. These figures are an
// estimate for the UI; settlement always uses the linear multiplier.
func (h *GameHandler) GetMultipliers(c *gin.Context) {
	minesStr := c.DefaultQuery("mines", "3")
	mines, err := strconv.Atoi(minesStr)
	if err != nil || mines < models.MinMines || mines > models.MaxMines {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mine count must be between 1 and 24"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"approximate": true,
		"mines":       mines,
		"multipliers": services.EstimateMultipliers(mines),
	})
}

func (h *GameHandler) GetBalance(c *gin.Context) {
	address := c.GetString("address")

	wallet, err := h.redisService.GetWallet(address)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get wallet",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"balance": models.BalanceResponse{
			Balance:      wallet.Balance,
			TotalWagered: wallet.TotalWagered,
			TotalWon:     wallet.TotalWon,
			ClientSeed:   wallet.ClientSeed,
			Nonce:        wallet.Nonce,
		},
	})
}

func (h *GameHandler) GetHistory(c *gin.Context) {
	address := c.GetString("address")

	limitStr := c.DefaultQuery("limit", "50")
	limit, err := strconv.ParseInt(limitStr, 10, 64)
	if err != nil || limit <= 0 || limit > 100 {
		limit = 50
	}

	rounds, err := h.redisService.GetRoundHistory(address, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get history",
			"details": err.Error(),
		})
		return
	}

	var response []gin.H
	for _, round := range rounds {
		response = append(response, gin.H{
			"id":            round.ID,
			"bet_amount":    round.Game.BetAmount,
			"total_mines":   round.Game.TotalMines,
			"revealed_safe": round.Game.RevealedSafeTiles,
			"result":        round.Result,
			"winnings":      round.Winnings,
			"payout":        round.Payout,
			"ended_at":      round.EndedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"rounds":  response,
		"count":   len(response),
	})
}

// GetVerificationData returns the commit-reveal state the caller should
// record before betting: the current server seed hash plus their client seed
// and next nonce.
func (h *GameHandler) GetVerificationData(c *gin.Context) {
	address := c.GetString("address")

	data, err := h.ledger.VerificationData(c.Request.Context(), address)
	if err != nil {
		c.JSON(rejectionStatus(err), gin.H{
			"error":   "Failed to get verification data",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// RotateServerSeed retires the current server seed, disclosing it so rounds
// placed under it can be checked against the published hash.
func (h *GameHandler) RotateServerSeed(c *gin.Context) {
	revealed, newHash, err := h.ledger.RotateServerSeed(c.Request.Context())
	if err != nil {
		c.JSON(rejectionStatus(err), gin.H{
			"error":   "Failed to rotate server seed",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":              true,
		"revealed_server_seed": revealed,
		"server_seed_hash":     newHash,
	})
}

// VerifyPlacement recomputes mine positions for a revealed server seed so a
// finished fair-generator round can be audited.
func (h *GameHandler) VerifyPlacement(c *gin.Context) {
	var req struct {
		ServerSeed string `json:"server_seed" binding:"required"`
		ClientSeed string `json:"client_seed" binding:"required"`
		Nonce      int64  `json:"nonce"`
		Mines      int    `json:"mines" binding:"required,min=1,max=24"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	positions, err := services.VerifyPlacement(req.ServerSeed, req.ClientSeed, req.Nonce, req.Mines)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Verification failed",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"verification": gin.H{
			"mine_locations": positions,
			"client_seed":    req.ClientSeed,
			"server_seed":    req.ServerSeed,
			"nonce":          req.Nonce,
		},
	})
}
