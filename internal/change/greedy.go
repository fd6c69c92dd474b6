package change

// Greedy walks denominations in the given order (expected largest first) and
// takes as many of each as fit. Whatever the denominations cannot cover is
// dropped, so the breakdown may sum to less than amount.
func Greedy(amount int, denominations []int) Breakdown {
	result := Breakdown{}
	if amount < 0 {
		return result
	}

	for _, denomination := range denominations {
		if denomination <= 0 {
			continue
		}
		count := amount / denomination
		if count > 0 {
			result[denomination] = count
			amount -= denomination * count
		}
	}

	return result
}
