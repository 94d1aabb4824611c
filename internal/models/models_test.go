package models_test

import (
	"testing"

	"github.com/enliven17/mineSomnia/internal/models"
)

func TestGameHelpers(t *testing.T) {
	game := &models.Game{
		Player:        "0x1111111111111111111111111111111111111111",
		BetAmount:     100,
		TotalMines:    3,
		MineLocations: []int{0, 7, 24},
		RevealedTiles: make([]bool, models.GridSize),
		IsActive:      true,
	}

	for _, mine := range game.MineLocations {
		if !game.IsMine(mine) {
			t.Errorf("tile %d should be a mine", mine)
		}
	}

	if game.IsMine(3) {
		t.Error("tile 3 should not be a mine")
	}

	game.RevealedTiles[5] = true
	if !game.HasRevealed(5) {
		t.Error("tile 5 should be revealed")
	}
	if game.HasRevealed(6) {
		t.Error("tile 6 should not be revealed")
	}
}

func TestIsValidAddress(t *testing.T) {
	valid := []string{
		"0x1111111111111111111111111111111111111111",
		"0xAbCdEf0123456789abcdef0123456789ABCDEF01",
	}
	for _, addr := range valid {
		if !models.IsValidAddress(addr) {
			t.Errorf("address %s should be valid", addr)
		}
	}

	invalid := []string{
		"",
		"0x1234",
		"1111111111111111111111111111111111111111 1",
		"0xZZ11111111111111111111111111111111111111",
	}
	for _, addr := range invalid {
		if models.IsValidAddress(addr) {
			t.Errorf("address %s should be invalid", addr)
		}
	}
}

func TestNewWallet(t *testing.T) {
	wallet, err := models.NewWallet("0x1111111111111111111111111111111111111111", 10000)
	if err != nil {
		t.Fatalf("Failed to create wallet: %v", err)
	}

	if wallet.Balance != 10000 {
		t.Errorf("Expected starting balance 10000, got %d", wallet.Balance)
	}

	if wallet.ClientSeed == "" {
		t.Error("Wallet should have a client seed")
	}
}
