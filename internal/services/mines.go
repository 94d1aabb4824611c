package services

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/enliven17/mineSomnia/internal/models"
)

// MineGenerator draws the mine positions for a new round. Implementations
// must return exactly totalMines distinct indices in [0, GridSize).
type MineGenerator interface {
	Generate(player, clientSeed string, nonce int64, totalMines int) []int
}

// ChainGenerator reproduces the original on-chain placement: each slot is
// drawn by hashing (timestamp, player, slot) and rejection-sampling mod 25
// until it misses the slots already taken. The timestamp and player are
// observable by whoever orders the call, so this generator is predictable
// and must not be used where an adversary can bias placement.
type ChainGenerator struct {
	now func() time.Time
}

func NewChainGenerator() *ChainGenerator {
	return &ChainGenerator{now: time.Now}
}

func (g *ChainGenerator) Generate(player, clientSeed string, nonce int64, totalMines int) []int {
	timestamp := g.now().Unix()

	positions := make([]int, 0, totalMines)
	used := make(map[int]bool, totalMines)

	for slot := 0; slot < totalMines; slot++ {
		seed := make([]byte, 8)
		binary.BigEndian.PutUint64(seed, uint64(timestamp))
		h := sha256.Sum256(append(seed, []byte(fmt.Sprintf("%s:%d", player, slot))...))

		// Rejection sampling: rehash until the draw misses every earlier
		// slot. With at most 24 of 25 tiles taken a free tile always
		// exists, so this terminates in expected O(1) draws.
		pos := int(binary.BigEndian.Uint64(h[:8]) % models.GridSize)
		for used[pos] {
			h = sha256.Sum256(h[:])
			pos = int(binary.BigEndian.Uint64(h[:8]) % models.GridSize)
		}

		positions = append(positions, pos)
		used[pos] = true
	}

	return positions
}

// FairGenerator derives placements from HMAC-SHA256 over the server seed and
// the player's (clientSeed, nonce), the commit-reveal scheme the rest of the
// service publishes the server seed hash for. Same rejection sampling as the
// chain generator, but the server seed is not observable up front.
type FairGenerator struct {
	serverSeed string
}

func NewFairGenerator() *FairGenerator {
	return &FairGenerator{serverSeed: generateServerSeed()}
}

func generateServerSeed() string {
	bytes := make([]byte, 32)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// ServerSeedHash is the published commitment for the current server seed.
func (g *FairGenerator) ServerSeedHash() string {
	hash := sha256.Sum256([]byte(g.serverSeed))
	return hex.EncodeToString(hash[:])
}

// ServerSeed exposes the raw seed so it can be revealed on rotation.
func (g *FairGenerator) ServerSeed() string {
	return g.serverSeed
}

func (g *FairGenerator) RotateServerSeed() string {
	old := g.serverSeed
	g.serverSeed = generateServerSeed()
	return old
}

func (g *FairGenerator) Generate(player, clientSeed string, nonce int64, totalMines int) []int {
	return derivePositions(g.serverSeed, clientSeed, nonce, totalMines)
}

// VerifyPlacement recomputes the placement for a revealed server seed so
// players can check a finished round.
func VerifyPlacement(serverSeed, clientSeed string, nonce int64, totalMines int) ([]int, error) {
	if totalMines < models.MinMines || totalMines > models.MaxMines {
		return nil, fmt.Errorf("mine count out of range: %d", totalMines)
	}
	return derivePositions(serverSeed, clientSeed, nonce, totalMines), nil
}

func derivePositions(serverSeed, clientSeed string, nonce int64, totalMines int) []int {
	positions := make([]int, 0, totalMines)
	used := make(map[int]bool, totalMines)

	for slot := 0; slot < totalMines; slot++ {
		message := fmt.Sprintf("mines:%s:%d:%d", clientSeed, nonce, slot)
		mac := hmac.New(sha256.New, []byte(serverSeed))
		mac.Write([]byte(message))
		h := mac.Sum(nil)

		pos := int(binary.BigEndian.Uint64(h[:8]) % models.GridSize)
		for used[pos] {
			sum := sha256.Sum256(h)
			h = sum[:]
			pos = int(binary.BigEndian.Uint64(h[:8]) % models.GridSize)
		}

		positions = append(positions, pos)
		used[pos] = true
	}

	return positions
}
