package services

import "time"

// NewChainGeneratorWithClock pins the generator to a fixed clock so tests can
// reproduce a placement.
func NewChainGeneratorWithClock(now func() time.Time) *ChainGenerator {
	return &ChainGenerator{now: now}
}
