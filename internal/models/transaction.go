package models

import "time"

type TransactionType string

const (
	TransactionTypeBet     TransactionType = "bet"
	TransactionTypeWin     TransactionType = "win"
	TransactionTypeLoss    TransactionType = "loss"
	TransactionTypeDeposit TransactionType = "deposit"
	TransactionTypeDrain   TransactionType = "drain"
)

type Transaction struct {
	ID            string          `json:"id" redis:"id"`
	Address       string          `json:"address" redis:"address"`
	Type          TransactionType `json:"type" redis:"type"`
	Amount        int64           `json:"amount" redis:"amount"`
	BalanceBefore int64           `json:"balance_before" redis:"balance_before"`
	BalanceAfter  int64           `json:"balance_after" redis:"balance_after"`
	RoundID       string          `json:"round_id,omitempty" redis:"round_id,omitempty"`
	Description   string          `json:"description" redis:"description"`
	CreatedAt     time.Time       `json:"created_at" redis:"created_at"`
}
