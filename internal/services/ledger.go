package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/enliven17/mineSomnia/internal/models"
)

// Rejection reasons. Every mutating operation either commits fully or fails
// with one of these and no state change.
var (
	ErrZeroStake         = errors.New("stake must be positive")
	ErrStakeTooLarge     = errors.New("stake exceeds the maximum bet")
	ErrMineCountRange    = errors.New("mine count must be between 1 and 24")
	ErrGameActive        = errors.New("a game is already active for this address")
	ErrNoActiveGame      = errors.New("no active game for this address")
	ErrTileRange         = errors.New("tile index must be between 0 and 24")
	ErrTileRevealed      = errors.New("tile already revealed")
	ErrNothingRevealed   = errors.New("no safe tiles revealed yet")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrFairModeDisabled  = errors.New("server is not running the fair generator")
)

// Ledger owns the per-player game records and the shared pool accounting.
// A single mutex serializes every mutating operation end-to-end, so the
// one-active-game-per-address rule falls out of the precondition checks, and
// the Redis scripts keep the money moves atomic even against other processes.
type Ledger struct {
	mu           sync.Mutex
	redisService *RedisService
	generator    MineGenerator
	broadcaster  Broadcaster
	maxBet       int64
}

func NewLedger(redisService *RedisService, generator MineGenerator, maxBet int64) *Ledger {
	return &Ledger{
		redisService: redisService,
		generator:    generator,
		broadcaster:  noopBroadcaster{},
		maxBet:       maxBet,
	}
}

// SetBroadcaster wires the event sink. Must be called before serving traffic.
func (l *Ledger) SetBroadcaster(b Broadcaster) {
	if b != nil {
		l.broadcaster = b
	}
}

// StartGame opens a fresh round: validates the stake and mine count, rejects
// if the address already has an active game, places the mines and moves the
// stake into the shared pool.
func (l *Ledger) StartGame(ctx context.Context, player string, minesCount int, stake int64) (*models.Game, error) {
	if stake <= 0 {
		return nil, ErrZeroStake
	}
	if l.maxBet > 0 && stake > l.maxBet {
		return nil, ErrStakeTooLarge
	}
	if minesCount < models.MinMines || minesCount > models.MaxMines {
		return nil, ErrMineCountRange
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	existing, err := l.redisService.GetGame(player)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.IsActive {
		return nil, ErrGameActive
	}

	wallet, err := l.redisService.GetWallet(player)
	if err != nil {
		return nil, err
	}
	if wallet.Balance < stake {
		return nil, ErrInsufficientFunds
	}

	game := &models.Game{
		Player:            player,
		BetAmount:         stake,
		TotalMines:        minesCount,
		MineLocations:     l.generator.Generate(player, wallet.ClientSeed, wallet.Nonce, minesCount),
		RevealedTiles:     make([]bool, models.GridSize),
		RevealedSafeTiles: 0,
		IsActive:          true,
		ClientSeed:        wallet.ClientSeed,
		Nonce:             wallet.Nonce,
		StartedAt:         time.Now().Unix(),
	}
	if fair, ok := l.generator.(*FairGenerator); ok {
		game.ServerSeedHash = fair.ServerSeedHash()
	}

	poolBalance, err := l.redisService.StartGame(game)
	if err != nil {
		return nil, fmt.Errorf("failed to start game: %v", err)
	}

	l.recordTransaction(player, models.TransactionTypeBet, -stake, "",
		fmt.Sprintf("Staked %s on a %d-mine board", models.FormatAmount(stake), minesCount))

	l.broadcaster.BroadcastPoolUpdate(poolBalance)

	return game, nil
}

// RevealTile marks one tile revealed. A mine ends the round with the stake
// kept by the pool; a safe tile bumps the safe counter. Either outcome is
// broadcast.
func (l *Ledger) RevealTile(ctx context.Context, player string, tile int) (*models.RevealResult, error) {
	if tile < 0 || tile >= models.GridSize {
		return nil, ErrTileRange
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	game, err := l.redisService.GetGame(player)
	if err != nil {
		return nil, err
	}
	if game == nil || !game.IsActive {
		return nil, ErrNoActiveGame
	}
	if game.HasRevealed(tile) {
		return nil, ErrTileRevealed
	}

	game.RevealedTiles[tile] = true
	isMine := game.IsMine(tile)

	result := &models.RevealResult{
		Player: player,
		Tile:   tile,
		IsMine: isMine,
	}

	if isMine {
		game.IsActive = false
		game.EndedAt = time.Now().Unix()
		result.GameOver = true
		result.MineLocations = game.MineLocations
	} else {
		game.RevealedSafeTiles++
	}
	result.RevealedSafe = game.RevealedSafeTiles

	if err := l.redisService.SaveGame(game); err != nil {
		return nil, fmt.Errorf("failed to save game: %v", err)
	}

	if isMine {
		// The stake stays absorbed in the pool; only the record flips.
		roundID := l.archiveRound(game, "lost", 0, 0)
		l.recordTransaction(player, models.TransactionTypeLoss, 0, roundID,
			fmt.Sprintf("Hit a mine at tile %d, lost %s", tile, models.FormatAmount(game.BetAmount)))
	}

	l.broadcaster.BroadcastReveal(player, tile, isMine, game.RevealedSafeTiles)

	return result, nil
}

// Cashout settles the active round: winnings from the payout engine, clamped
// to what the pool can pay, disbursed together with the stake. The pool
// decrement and the wallet credit commit atomically or not at all.
func (l *Ledger) Cashout(ctx context.Context, player string) (*models.CashoutResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	game, err := l.redisService.GetGame(player)
	if err != nil {
		return nil, err
	}
	if game == nil || !game.IsActive {
		return nil, ErrNoActiveGame
	}
	if game.RevealedSafeTiles == 0 {
		return nil, ErrNothingRevealed
	}

	winnings := Winnings(game.BetAmount, game.TotalMines, game.RevealedSafeTiles)

	pool, err := l.redisService.PoolBalance()
	if err != nil {
		return nil, err
	}
	disbursed, realized := ClampPayout(game.BetAmount, winnings, pool)

	finished := *game
	finished.IsActive = false
	finished.EndedAt = time.Now().Unix()

	// Settlement is committed past this point: the script already returned
	// both balances, so nothing after it can turn a paid-out round into an
	// error.
	poolBalance, newBalance, err := l.redisService.CashoutGame(&finished, disbursed)
	if err != nil {
		return nil, fmt.Errorf("failed to cash out: %v", err)
	}

	roundID := l.archiveRound(&finished, "cashed_out", realized, disbursed)
	l.recordTransaction(player, models.TransactionTypeWin, disbursed, roundID,
		fmt.Sprintf("Cashed out %s after %d safe reveals", models.FormatAmount(disbursed), finished.RevealedSafeTiles))

	l.broadcaster.BroadcastCashout(player, disbursed, poolBalance)

	return &models.CashoutResult{
		Player:       player,
		BetAmount:    finished.BetAmount,
		Winnings:     realized,
		Payout:       disbursed,
		Clamped:      disbursed < finished.BetAmount+winnings,
		RevealedSafe: finished.RevealedSafeTiles,
		PoolBalance:  poolBalance,
		NewBalance:   newBalance,
	}, nil
}

// Status returns the full game record, or nil if the address never played.
// The record includes the mine locations even while the round is active; that
// mirrors the original chain state, where the data is public anyway.
func (l *Ledger) Status(ctx context.Context, player string) (*models.Game, error) {
	return l.redisService.GetGame(player)
}

func (l *Ledger) PoolBalance(ctx context.Context) (int64, error) {
	return l.redisService.PoolBalance()
}

// AddFunds tops up the shared pool. Admin authorization is enforced at the
// handler layer.
func (l *Ledger) AddFunds(ctx context.Context, admin string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	balance, err := l.redisService.AddPoolFunds(amount)
	if err != nil {
		return 0, err
	}

	l.recordTransaction(admin, models.TransactionTypeDeposit, amount, "",
		fmt.Sprintf("Pool deposit of %s", models.FormatAmount(amount)))

	l.broadcaster.BroadcastPoolUpdate(balance)

	return balance, nil
}

// DrainFunds pays the entire pool to the admin's wallet and zeroes it. Admin
// authorization is enforced at the handler layer.
func (l *Ledger) DrainFunds(ctx context.Context, admin string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Make sure the wallet exists before the script touches it.
	if _, err := l.redisService.GetWallet(admin); err != nil {
		return 0, err
	}

	amount, err := l.redisService.DrainPool(admin)
	if err != nil {
		return 0, err
	}

	l.recordTransaction(admin, models.TransactionTypeDrain, amount, "",
		fmt.Sprintf("Pool drained for %s", models.FormatAmount(amount)))

	l.broadcaster.BroadcastPoolUpdate(0)

	return amount, nil
}

// VerificationData returns what a player needs before betting to audit the
// fair generator later: the published commitment for the current server seed
// plus their own client seed and next nonce.
func (l *Ledger) VerificationData(ctx context.Context, player string) (*models.VerificationData, error) {
	fair, ok := l.generator.(*FairGenerator)
	if !ok {
		return nil, ErrFairModeDisabled
	}

	wallet, err := l.redisService.GetWallet(player)
	if err != nil {
		return nil, err
	}

	return &models.VerificationData{
		ClientSeed:     wallet.ClientSeed,
		ServerSeedHash: fair.ServerSeedHash(),
		Nonce:          wallet.Nonce,
	}, nil
}

// RotateServerSeed retires the current server seed and reveals it, returning
// the new seed's commitment alongside. Rounds placed under the old seed
// become checkable against the reveal; the mutex keeps a rotation from racing
// a placement in flight.
func (l *Ledger) RotateServerSeed(ctx context.Context) (revealedSeed, newHash string, err error) {
	fair, ok := l.generator.(*FairGenerator)
	if !ok {
		return "", "", ErrFairModeDisabled
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	revealedSeed = fair.RotateServerSeed()
	return revealedSeed, fair.ServerSeedHash(), nil
}

func (l *Ledger) archiveRound(game *models.Game, result string, winnings, payout int64) string {
	round := &models.Round{
		ID:       models.GenerateRoundID(),
		Game:     *game,
		Result:   result,
		Winnings: winnings,
		Payout:   payout,
		EndedAt:  game.EndedAt,
	}

	if err := l.redisService.SaveRound(round); err != nil {
		log.Printf("Failed to archive round for %s: %v", game.Player, err)
	}

	return round.ID
}

func (l *Ledger) recordTransaction(address string, txType models.TransactionType, amount int64, roundID, description string) {
	wallet, err := l.redisService.GetWallet(address)
	if err != nil {
		log.Printf("Failed to load wallet for transaction record: %v", err)
		return
	}

	tx := &models.Transaction{
		ID:            models.GenerateTransactionID(),
		Address:       address,
		Type:          txType,
		Amount:        amount,
		BalanceBefore: wallet.Balance - amount,
		BalanceAfter:  wallet.Balance,
		RoundID:       roundID,
		Description:   description,
		CreatedAt:     time.Now(),
	}

	if err := l.redisService.SaveTransaction(tx); err != nil {
		log.Printf("Failed to record transaction: %v", err)
	}
}
