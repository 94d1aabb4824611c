package models

type StartRequest struct {
	Mines  int   `json:"mines" binding:"required,min=1,max=24"`
	Amount int64 `json:"amount" binding:"required,min=1"`
}

type RevealRequest struct {
	Tile *int `json:"tile" binding:"required,min=0,max=24"`
}

type RevealResult struct {
	Player        string `json:"player"`
	Tile          int    `json:"tile"`
	IsMine        bool   `json:"is_mine"`
	RevealedSafe  int    `json:"revealed_safe"`
	GameOver      bool   `json:"game_over"`
	MineLocations []int  `json:"mine_locations,omitempty"`
}

type CashoutResult struct {
	Player       string `json:"player"`
	BetAmount    int64  `json:"bet_amount"`
	Winnings     int64  `json:"winnings"`
	Payout       int64  `json:"payout"`
	Clamped      bool   `json:"clamped"`
	RevealedSafe int    `json:"revealed_safe"`
	PoolBalance  int64  `json:"pool_balance"`
	NewBalance   int64  `json:"new_balance"`
}

type StatusResponse struct {
	Game        *Game `json:"game"`
	PoolBalance int64 `json:"pool_balance"`
}

// VerificationData is the commit-reveal state a player records before betting
// so a later seed reveal can be checked.
type VerificationData struct {
	ClientSeed     string `json:"client_seed"`
	ServerSeedHash string `json:"server_seed_hash"`
	Nonce          int64  `json:"nonce"`
}
