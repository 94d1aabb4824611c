package models

// Wallet balances are integer minor units so payout truncation is exact.
type Wallet struct {
	Address      string `json:"address" redis:"address"`
	Balance      int64  `json:"balance" redis:"balance"`
	TotalWagered int64  `json:"total_wagered" redis:"total_wagered"`
	TotalWon     int64  `json:"total_won" redis:"total_won"`

	// Provably fair seeds
	ClientSeed string `json:"client_seed" redis:"client_seed"`
	Nonce      int64  `json:"nonce" redis:"nonce"`
}

type BalanceResponse struct {
	Balance      int64  `json:"balance"`
	TotalWagered int64  `json:"total_wagered"`
	TotalWon     int64  `json:"total_won"`
	ClientSeed   string `json:"client_seed"`
	Nonce        int64  `json:"nonce"`
}
