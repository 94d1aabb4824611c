package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/enliven17/mineSomnia/internal/config"
	"github.com/enliven17/mineSomnia/internal/models"
)

type RedisService struct {
	client          *redis.Client
	ctx             context.Context
	startingBalance int64
}

func NewRedisService(cfg *config.Config) (*RedisService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	ctx := context.Background()

	_, err := client.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %v", err)
	}

	service := &RedisService{
		client:          client,
		ctx:             ctx,
		startingBalance: cfg.StartingBalance,
	}

	return service, nil
}

func (s *RedisService) Close() error {
	return s.client.Close()
}

func (s *RedisService) StoreUserSession(session *models.UserSession, expiry time.Duration) error {
	key := fmt.Sprintf(KeyUserSession, session.Address, session.SessionID)

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	return s.client.Set(s.ctx, key, data, expiry).Err()
}

func (s *RedisService) GetUserSession(address, sessionID string) (*models.UserSession, error) {
	key := fmt.Sprintf(KeyUserSession, address, sessionID)

	data, err := s.client.Get(s.ctx, key).Result()
	if err != nil {
		return nil, err
	}

	var session models.UserSession
	err = json.Unmarshal([]byte(data), &session)
	if err != nil {
		return nil, err
	}

	session.LastAccessed = time.Now()
	updatedData, _ := json.Marshal(session)
	s.client.Set(s.ctx, key, updatedData, TTLUserSession)

	return &session, nil
}

func (s *RedisService) DeleteUserSession(address, sessionID string) error {
	key := fmt.Sprintf(KeyUserSession, address, sessionID)
	return s.client.Del(s.ctx, key).Err()
}

func (s *RedisService) GetWallet(address string) (*models.Wallet, error) {
	key := fmt.Sprintf(KeyWallet, address)

	data, err := s.client.Get(s.ctx, key).Result()
	if err == redis.Nil {
		wallet, err := models.NewWallet(address, s.startingBalance)
		if err != nil {
			return nil, fmt.Errorf("failed to create wallet: %v", err)
		}

		if err := s.SaveWallet(wallet); err != nil {
			return nil, fmt.Errorf("failed to create wallet: %v", err)
		}
		return wallet, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %v", err)
	}

	var wallet models.Wallet
	if err := json.Unmarshal([]byte(data), &wallet); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wallet: %v", err)
	}

	return &wallet, nil
}

func (s *RedisService) SaveWallet(wallet *models.Wallet) error {
	key := fmt.Sprintf(KeyWallet, wallet.Address)

	data, err := json.Marshal(wallet)
	if err != nil {
		return fmt.Errorf("failed to marshal wallet: %v", err)
	}

	return s.client.Set(s.ctx, key, data, 0).Err()
}

// GetGame returns the player's ledger record, or nil if none has ever existed.
func (s *RedisService) GetGame(address string) (*models.Game, error) {
	key := fmt.Sprintf(KeyGame, address)

	data, err := s.client.Get(s.ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %v", err)
	}

	var game models.Game
	if err := json.Unmarshal([]byte(data), &game); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %v", err)
	}

	return &game, nil
}

func (s *RedisService) SaveGame(game *models.Game) error {
	key := fmt.Sprintf(KeyGame, game.Player)

	data, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("failed to marshal game: %v", err)
	}

	return s.client.Set(s.ctx, key, data, 0).Err()
}

func (s *RedisService) PoolBalance() (int64, error) {
	balance, err := s.client.Get(s.ctx, KeyPool).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get pool balance: %v", err)
	}
	return balance, nil
}

// AddPoolFunds credits the shared pool and returns the new balance.
func (s *RedisService) AddPoolFunds(amount int64) (int64, error) {
	balance, err := s.client.IncrBy(s.ctx, KeyPool, amount).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to add pool funds: %v", err)
	}
	return balance, nil
}

// startGameScript debits the stake from the wallet, credits the shared pool
// and stores the fresh game record in one atomic step. A failure at any check
// leaves every key untouched.
var startGameScript = redis.NewScript(`
	local wkey = KEYS[1]
	local pkey = KEYS[2]
	local gkey = KEYS[3]
	local stake = tonumber(ARGV[1])

	local data = redis.call("GET", wkey)
	if not data then
		return redis.error_reply("wallet not found")
	end

	local wallet = cjson.decode(data)

	if wallet.balance < stake then
		return redis.error_reply("insufficient balance")
	end

	wallet.balance = wallet.balance - stake
	wallet.total_wagered = wallet.total_wagered + stake
	wallet.nonce = wallet.nonce + 1

	redis.call("SET", wkey, cjson.encode(wallet))
	redis.call("SET", gkey, ARGV[2])

	return redis.call("INCRBY", pkey, stake)
`)

// StartGame atomically funds a new round: wallet -= stake, pool += stake, and
// the game record is written. Returns the pool balance after the stake.
func (s *RedisService) StartGame(game *models.Game) (int64, error) {
	gameData, err := json.Marshal(game)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal game: %v", err)
	}

	keys := []string{
		fmt.Sprintf(KeyWallet, game.Player),
		KeyPool,
		fmt.Sprintf(KeyGame, game.Player),
	}

	pool, err := startGameScript.Run(s.ctx, s.client, keys, game.BetAmount, string(gameData)).Int64()
	if err != nil {
		return 0, err
	}
	return pool, nil
}

// cashoutScript settles an active round: it disburses the already-clamped
// payout, debits the pool and replaces the game record with the finished
// snapshot, all atomically. If anything fails no key is mutated, so a failed
// disbursement cannot strand funds.
var cashoutScript = redis.NewScript(`
	local gkey = KEYS[1]
	local wkey = KEYS[2]
	local pkey = KEYS[3]
	local payout = tonumber(ARGV[1])

	local gdata = redis.call("GET", gkey)
	if not gdata then
		return redis.error_reply("no active game")
	end

	local game = cjson.decode(gdata)

	if not game.is_active then
		return redis.error_reply("no active game")
	end
	if game.revealed_safe_tiles == 0 then
		return redis.error_reply("no safe tiles revealed")
	end

	local pool = tonumber(redis.call("GET", pkey) or "0")
	if payout > pool then
		return redis.error_reply("pool cannot cover payout")
	end

	local wdata = redis.call("GET", wkey)
	if not wdata then
		return redis.error_reply("wallet not found")
	end

	local wallet = cjson.decode(wdata)

	wallet.balance = wallet.balance + payout
	local won = payout - game.bet_amount
	if won > 0 then
		wallet.total_won = wallet.total_won + won
	end

	redis.call("SET", wkey, cjson.encode(wallet))
	local newpool = redis.call("DECRBY", pkey, payout)
	redis.call("SET", gkey, ARGV[2])

	return {newpool, wallet.balance}
`)

// CashoutGame disburses the clamped payout, decrements the pool and persists
// the finished snapshot in one step. Returns the pool and wallet balances
// after settlement, so callers never have to re-read state the script just
// wrote.
func (s *RedisService) CashoutGame(finished *models.Game, payout int64) (int64, int64, error) {
	gameData, err := json.Marshal(finished)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to marshal game: %v", err)
	}

	keys := []string{
		fmt.Sprintf(KeyGame, finished.Player),
		fmt.Sprintf(KeyWallet, finished.Player),
		KeyPool,
	}

	res, err := cashoutScript.Run(s.ctx, s.client, keys, payout, string(gameData)).Int64Slice()
	if err != nil {
		return 0, 0, err
	}
	if len(res) != 2 {
		return 0, 0, fmt.Errorf("unexpected cashout script reply: %v", res)
	}
	return res[0], res[1], nil
}

// drainPoolScript empties the pool into the caller's wallet atomically.
var drainPoolScript = redis.NewScript(`
	local pkey = KEYS[1]
	local wkey = KEYS[2]

	local amount = tonumber(redis.call("GET", pkey) or "0")

	local wdata = redis.call("GET", wkey)
	if not wdata then
		return redis.error_reply("wallet not found")
	end

	local wallet = cjson.decode(wdata)
	wallet.balance = wallet.balance + amount

	redis.call("SET", wkey, cjson.encode(wallet))
	redis.call("SET", pkey, 0)

	return amount
`)

// DrainPool pays the entire pool balance to the given address and zeroes the
// pool. Authorization is enforced by the caller.
func (s *RedisService) DrainPool(address string) (int64, error) {
	keys := []string{
		KeyPool,
		fmt.Sprintf(KeyWallet, address),
	}

	return drainPoolScript.Run(s.ctx, s.client, keys).Int64()
}

// SaveRound archives a finished round snapshot for the player's history.
func (s *RedisService) SaveRound(round *models.Round) error {
	roundKey := fmt.Sprintf(KeyRound, round.ID)

	data, err := json.Marshal(round)
	if err != nil {
		return fmt.Errorf("failed to marshal round: %v", err)
	}

	if err := s.client.Set(s.ctx, roundKey, data, TTLRound).Err(); err != nil {
		return fmt.Errorf("failed to save round: %v", err)
	}

	completedKey := fmt.Sprintf(KeyCompletedRounds, round.Game.Player)
	score := float64(round.EndedAt)
	if err := s.client.ZAdd(s.ctx, completedKey, redis.Z{
		Score:  score,
		Member: round.ID,
	}).Err(); err != nil {
		return fmt.Errorf("failed to add to completed rounds: %v", err)
	}

	// Keep only the last 100 rounds per player
	s.client.ZRemRangeByRank(s.ctx, completedKey, 0, -101)
	s.client.Expire(s.ctx, completedKey, TTLRound)

	return nil
}

func (s *RedisService) GetRoundHistory(address string, limit int64) ([]*models.Round, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	completedKey := fmt.Sprintf(KeyCompletedRounds, address)

	roundIDs, err := s.client.ZRevRange(s.ctx, completedKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get round IDs: %v", err)
	}

	var rounds []*models.Round
	for _, roundID := range roundIDs {
		roundKey := fmt.Sprintf(KeyRound, roundID)

		data, err := s.client.Get(s.ctx, roundKey).Result()
		if err != nil {
			continue
		}

		var round models.Round
		if err := json.Unmarshal([]byte(data), &round); err != nil {
			continue
		}

		rounds = append(rounds, &round)
	}

	return rounds, nil
}

func (s *RedisService) SaveTransaction(tx *models.Transaction) error {
	txKey := fmt.Sprintf(KeyTransaction, tx.ID)

	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %v", err)
	}

	if err := s.client.Set(s.ctx, txKey, data, TTLTransaction).Err(); err != nil {
		return fmt.Errorf("failed to save transaction: %v", err)
	}

	userTxKey := fmt.Sprintf(KeyTransactions, tx.Address)
	score := float64(tx.CreatedAt.Unix())

	if err := s.client.ZAdd(s.ctx, userTxKey, redis.Z{
		Score:  score,
		Member: tx.ID,
	}).Err(); err != nil {
		return fmt.Errorf("failed to add to user transactions: %v", err)
	}

	// Keep only last 100 transactions
	s.client.ZRemRangeByRank(s.ctx, userTxKey, 0, -101)

	return nil
}

func (s *RedisService) GetUserTransactions(address string, limit int64) ([]*models.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	userTxKey := fmt.Sprintf(KeyTransactions, address)

	txIDs, err := s.client.ZRevRange(s.ctx, userTxKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction IDs: %v", err)
	}

	var transactions []*models.Transaction
	for _, txID := range txIDs {
		txKey := fmt.Sprintf(KeyTransaction, txID)

		data, err := s.client.Get(s.ctx, txKey).Result()
		if err != nil {
			continue
		}

		var tx models.Transaction
		if err := json.Unmarshal([]byte(data), &tx); err != nil {
			continue
		}

		transactions = append(transactions, &tx)
	}

	return transactions, nil
}

func (s *RedisService) CheckRateLimit(address, action string, limit int, window time.Duration) (bool, error) {
	key := fmt.Sprintf(KeyRateLimit, address, action)

	count, err := s.client.Incr(s.ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit: %v", err)
	}

	if count == 1 {
		s.client.Expire(s.ctx, key, window)
	}

	return count <= int64(limit), nil
}

func (s *RedisService) DeleteWallet(address string) error {
	key := fmt.Sprintf(KeyWallet, address)
	return s.client.Del(s.ctx, key).Err()
}

func (s *RedisService) DeleteGame(address string) error {
	key := fmt.Sprintf(KeyGame, address)
	return s.client.Del(s.ctx, key).Err()
}

func (s *RedisService) ResetPool() error {
	return s.client.Del(s.ctx, KeyPool).Err()
}

func (s *RedisService) ClearRateLimit(address, action string) error {
	key := fmt.Sprintf(KeyRateLimit, address, action)
	return s.client.Del(s.ctx, key).Err()
}
