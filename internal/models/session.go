package models

import "time"

type UserSession struct {
	Address      string    `json:"address" redis:"address"`
	SessionID    string    `json:"session_id" redis:"session_id"`
	CreatedAt    time.Time `json:"created_at" redis:"created_at"`
	LastAccessed time.Time `json:"last_accessed" redis:"last_accessed"`
}

// Round is an immutable snapshot of a finished game, kept for history.
type Round struct {
	ID       string `json:"id"`
	Game     Game   `json:"game"`
	Result   string `json:"result"` // lost, cashed_out
	Winnings int64  `json:"winnings"`
	Payout   int64  `json:"payout"`
	EndedAt  int64  `json:"ended_at"`
}
