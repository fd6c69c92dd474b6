package change

// MinCoins returns a breakdown with the fewest coins that sums exactly to
// amount. It returns an empty breakdown when amount is zero, when no exact
// combination exists, and when amount is negative. Time and memory grow with
// amount times the number of denominations.
func MinCoins(amount int, denominations []int) Breakdown {
	result := Breakdown{}
	if amount <= 0 {
		return result
	}

	unreachable := amount + 1
	minCount := make([]int, amount+1)
	lastCoin := make([]int, amount+1)
	for x := 1; x <= amount; x++ {
		minCount[x] = unreachable
	}

	for _, denomination := range denominations {
		if denomination <= 0 {
			continue
		}
		for x := denomination; x <= amount; x++ {
			if minCount[x-denomination]+1 < minCount[x] {
				minCount[x] = minCount[x-denomination] + 1
				lastCoin[x] = denomination
			}
		}
	}

	if minCount[amount] == unreachable {
		return result
	}

	for remaining := amount; remaining > 0; {
		coin := lastCoin[remaining]
		result[coin]++
		remaining -= coin
	}

	return result
}

// MinCoinCounts returns the fewest coins needed for every value from 0 to
// limit, with -1 marking values no combination reaches.
func MinCoinCounts(limit int, denominations []int) []int {
	if limit < 0 {
		return []int{}
	}

	unreachable := limit + 1
	counts := make([]int, limit+1)
	for x := 1; x <= limit; x++ {
		counts[x] = unreachable
	}

	for _, denomination := range denominations {
		if denomination <= 0 {
			continue
		}
		for x := denomination; x <= limit; x++ {
			if counts[x-denomination]+1 < counts[x] {
				counts[x] = counts[x-denomination] + 1
			}
		}
	}

	for x := range counts {
		if counts[x] == unreachable {
			counts[x] = -1
		}
	}
	return counts
}
