package services

import "time"

const (
	KeyUserSession     = "user:%s:session:%s"
	KeyWallet          = "wallet:%s"
	KeyGame            = "mines:game:%s"
	KeyPool            = "mines:pool"
	KeyRound           = "mines:round:%s"
	KeyCompletedRounds = "user:%s:completed_rounds"
	KeyTransaction     = "transaction:%s"
	KeyTransactions    = "user:%s:transactions"
	KeyRateLimit       = "ratelimit:%s:%s"

	TTLUserSession = 24 * time.Hour
	TTLRound       = 7 * 24 * time.Hour  // 7 days
	TTLTransaction = 30 * 24 * time.Hour // 30 days

	DefaultRateLimitStarts  = 30  // Max 30 game starts per minute
	DefaultRateLimitReveals = 120 // Max 120 reveals per minute
	DefaultRateLimitCashout = 60  // Max 60 cashouts per minute
)
