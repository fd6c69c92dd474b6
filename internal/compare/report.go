package compare

import (
	"fmt"
	"io"
)

// Write prints the report in the console layout used by the compare command.
func (r Report) Write(w io.Writer) error {
	lines := []string{
		fmt.Sprintf("Comparing algorithms for amount: %d. Coins: %v", r.Amount, r.Denominations),
		fmt.Sprintf("Greedy algorithm took \t\t\t%.10f seconds: %s", r.Greedy.Elapsed.Seconds(), r.Greedy.Result.Breakdown),
		fmt.Sprintf("Dynamic programming algorithm took \t%.10f seconds: %s", r.MinCoins.Elapsed.Seconds(), r.MinCoins.Result.Breakdown),
	}
	if r.MinCoins.Result.Infeasible {
		lines = append(lines, fmt.Sprintf("No exact combination exists for %d.", r.Amount))
	}
	if remainder := r.Greedy.Result.Remainder(); remainder != 0 {
		lines = append(lines, fmt.Sprintf("Greedy left %d uncovered.", remainder))
	}
	if r.Slowdown > 0 {
		lines = append(lines, fmt.Sprintf("That was %.2f times slower than greedy algorithm.", r.Slowdown))
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}
