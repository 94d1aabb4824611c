package services

import "github.com/enliven17/mineSomnia/internal/models"

// PayoutMultiplier is the authoritative settlement multiplier, in whole
// percent of the bet: floor((25 - totalMines) * safeTiles / 25). It is a
// linear approximation, not the compounding odds shown to players.
func PayoutMultiplier(totalMines, safeTiles int) int64 {
	return int64(models.GridSize-totalMines) * int64(safeTiles) / int64(models.GridSize)
}

// Winnings computes the amount owed on top of the returned stake. All math is
// truncating integer math on minor units.
func Winnings(betAmount int64, totalMines, safeTiles int) int64 {
	if safeTiles == 0 {
		return 0
	}
	return betAmount * PayoutMultiplier(totalMines, safeTiles) / 100
}

// ClampPayout applies the pool solvency rule: the wanted payout is
// bet + winnings, but when the pool cannot cover it the pool pays out only
// what it holds beyond the stake, floored at zero. Returns the disbursed
// total and the realized winnings.
func ClampPayout(betAmount, winnings, poolBalance int64) (disbursed, realized int64) {
	disbursed = betAmount + winnings
	if disbursed > poolBalance {
		disbursed = poolBalance - betAmount
		if disbursed < 0 {
			disbursed = 0
		}
	}

	realized = disbursed - betAmount
	if realized < 0 {
		realized = 0
	}
	return disbursed, realized
}

// EstimateMultiplier is the compounding per-draw survival multiplier used for
// display only. It diverges from PayoutMultiplier, which is what actually
// settles; callers must label it as an approximation.
func EstimateMultiplier(totalMines, safeTiles int) float64 {
	if safeTiles <= 0 {
		return 1.0
	}

	multiplier := 1.0
	for i := 0; i < safeTiles; i++ {
		remaining := float64(models.GridSize - i)
		safeRemaining := float64(models.GridSize - totalMines - i)
		if safeRemaining <= 0 {
			break
		}
		multiplier *= remaining / safeRemaining
	}

	return multiplier
}

// EstimateMultipliers returns the display table for every reachable reveal
// count at the given mine count.
func EstimateMultipliers(totalMines int) []float64 {
	safeTotal := models.GridSize - totalMines
	table := make([]float64, safeTotal+1)
	for k := 0; k <= safeTotal; k++ {
		table[k] = EstimateMultiplier(totalMines, k)
	}
	return table
}
