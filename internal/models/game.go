package models

const (
	// GridSize is the number of tiles on the board, indexed 0..24.
	GridSize = 25

	MinMines = 1
	MaxMines = 24
)

// Game is the per-player ledger record. Exactly one record exists per
// address; it stays behind as an inert snapshot after the round ends and is
// overwritten by the next start.
type Game struct {
	Player            string `json:"player" redis:"player"`
	BetAmount         int64  `json:"bet_amount" redis:"bet_amount"`
	TotalMines        int    `json:"total_mines" redis:"total_mines"`
	MineLocations     []int  `json:"mine_locations" redis:"mine_locations"`
	RevealedTiles     []bool `json:"revealed_tiles" redis:"revealed_tiles"`
	RevealedSafeTiles int    `json:"revealed_safe_tiles" redis:"revealed_safe_tiles"`
	IsActive          bool   `json:"is_active" redis:"is_active"`

	// Provably-fair bookkeeping, populated when the fair generator is in use.
	ClientSeed     string `json:"client_seed,omitempty" redis:"client_seed"`
	ServerSeedHash string `json:"server_seed_hash,omitempty" redis:"server_seed_hash"`
	Nonce          int64  `json:"nonce" redis:"nonce"`

	StartedAt int64 `json:"started_at" redis:"started_at"`
	EndedAt   int64 `json:"ended_at" redis:"ended_at"`
}

// HasRevealed reports whether the tile has already been revealed this round.
// Callers must range-check the index first.
func (g *Game) HasRevealed(tile int) bool {
	if tile >= len(g.RevealedTiles) {
		return false
	}
	return g.RevealedTiles[tile]
}

// MineMask packs the mine set into a bitmask over tile indices.
func (g *Game) MineMask() uint32 {
	var mask uint32
	for _, m := range g.MineLocations {
		mask |= 1 << uint(m)
	}
	return mask
}

// IsMine reports whether the tile is one of this round's mines.
func (g *Game) IsMine(tile int) bool {
	return g.MineMask()&(1<<uint(tile)) != 0
}
