package services_test

import (
	"testing"
	"time"

	"github.com/enliven17/mineSomnia/internal/models"
)

func TestRedisService(t *testing.T) {
	redisService := setupTestRedis(t)
	defer redisService.Close()

	address := "0xbbbb000000000000000000000000000000000001"
	cleanupPlayer(t, redisService, address)
	redisService.ResetPool()
	defer cleanupPlayer(t, redisService, address)

	wallet, err := redisService.GetWallet(address)
	if err != nil {
		t.Fatalf("Failed to get wallet: %v", err)
	}

	if wallet.Balance != 10000 {
		t.Errorf("Expected default balance 10000, got %d", wallet.Balance)
	}
	if wallet.ClientSeed == "" {
		t.Error("New wallet should have a client seed")
	}

	game := &models.Game{
		Player:        address,
		BetAmount:     1000,
		TotalMines:    3,
		MineLocations: []int{1, 2, 3},
		RevealedTiles: make([]bool, models.GridSize),
		IsActive:      true,
		StartedAt:     time.Now().Unix(),
	}

	pool, err := redisService.StartGame(game)
	if err != nil {
		t.Fatalf("Failed to start game: %v", err)
	}
	if pool != 1000 {
		t.Errorf("Expected pool 1000 after stake, got %d", pool)
	}

	wallet, err = redisService.GetWallet(address)
	if err != nil {
		t.Fatalf("Failed to get wallet after stake: %v", err)
	}
	if wallet.Balance != 9000 {
		t.Errorf("Expected balance 9000 after stake, got %d", wallet.Balance)
	}
	if wallet.TotalWagered != 1000 {
		t.Errorf("Expected total wagered 1000, got %d", wallet.TotalWagered)
	}
	if wallet.Nonce != 1 {
		t.Errorf("Expected nonce 1 after stake, got %d", wallet.Nonce)
	}

	retrieved, err := redisService.GetGame(address)
	if err != nil {
		t.Fatalf("Failed to get game: %v", err)
	}
	if retrieved == nil || retrieved.BetAmount != 1000 || !retrieved.IsActive {
		t.Errorf("Game record mismatch: %+v", retrieved)
	}

	// A second stake without enough balance must leave everything untouched.
	tooBig := &models.Game{
		Player:        address,
		BetAmount:     50000,
		TotalMines:    3,
		MineLocations: []int{1, 2, 3},
		RevealedTiles: make([]bool, models.GridSize),
		IsActive:      true,
	}
	if _, err := redisService.StartGame(tooBig); err == nil {
		t.Error("Expected insufficient balance error")
	}
	pool, _ = redisService.PoolBalance()
	if pool != 1000 {
		t.Errorf("Failed stake must not change the pool, got %d", pool)
	}

	// Mark some safe reveals on the stored record, then settle.
	retrieved.RevealedSafeTiles = 5
	for i := 4; i < 9; i++ {
		retrieved.RevealedTiles[i] = true
	}
	if err := redisService.SaveGame(retrieved); err != nil {
		t.Fatalf("Failed to save game: %v", err)
	}

	// Settle: payout within the pool succeeds and moves the money.
	settled := *retrieved
	settled.IsActive = false
	settled.RevealedSafeTiles = 5
	settled.EndedAt = time.Now().Unix()

	poolAfter, balanceAfter, err := redisService.CashoutGame(&settled, 800)
	if err != nil {
		t.Fatalf("Failed to cash out: %v", err)
	}
	if poolAfter != 200 {
		t.Errorf("Expected pool 200 after payout, got %d", poolAfter)
	}
	if balanceAfter != 9800 {
		t.Errorf("Expected script to report balance 9800, got %d", balanceAfter)
	}

	wallet, _ = redisService.GetWallet(address)
	if wallet.Balance != 9800 {
		t.Errorf("Expected balance 9800 after payout, got %d", wallet.Balance)
	}

	// The snapshot replaced the active record, so a second settlement fails.
	if _, _, err := redisService.CashoutGame(&settled, 100); err == nil {
		t.Error("Expected settlement of an ended game to fail")
	}

	allowed, err := redisService.CheckRateLimit(address, "start", 5, time.Minute)
	if err != nil {
		t.Errorf("Failed to check rate limit: %v", err)
	}
	if !allowed {
		t.Error("First action should be allowed")
	}
}
