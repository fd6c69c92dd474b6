package change

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

const canonicalChunkSize = 4096

// Counterexample is an amount where greedy selection is not optimal.
type Counterexample struct {
	Amount       int       `json:"amount"`
	Greedy       Breakdown `json:"greedy"`
	GreedyCoins  int       `json:"greedyCoins"`
	GreedyTotal  int       `json:"greedyTotal"`
	MinCoins     Breakdown `json:"minCoins"`
	OptimalCoins int       `json:"optimalCoins"`
}

// CanonicalReport summarises a canonical-system check. Proven is false when a
// canonical verdict rests only on the swept range, which happens for systems
// without a 1.
type CanonicalReport struct {
	Denominations  []int           `json:"denominations"`
	Checked        int             `json:"checked"`
	Canonical      bool            `json:"canonical"`
	Proven         bool            `json:"proven"`
	Counterexample *Counterexample `json:"counterexample,omitempty"`
}

// CheckCanonical reports whether greedy selection yields the fewest coins for
// every amount the denominations can make. For systems containing 1 the
// smallest counterexample lies below the sum of the two largest denominations
// (Kozen and Zaks), so only that range is swept. Without a 1 that bound does
// not hold; the same range is swept as a heuristic and a canonical verdict is
// reported with Proven false, covering only amounts up to Checked. Chunks of
// the range are compared in parallel by up to workers goroutines
// (runtime.NumCPU() when workers <= 0).
//
// ErrAmountTooLarge is returned when the two largest denominations sum past
// math.MaxInt.
func CheckCanonical(ctx context.Context, denominations []int, workers int) (CanonicalReport, error) {
	if err := validate(0, denominations); err != nil {
		return CanonicalReport{}, err
	}

	ordered := distinctDescending(denominations)
	report := CanonicalReport{
		Denominations: ordered,
		Canonical:     true,
		Proven:        ordered[len(ordered)-1] == 1,
	}

	limit := ordered[0]
	if len(ordered) > 1 {
		if ordered[0] > math.MaxInt-ordered[1] {
			return CanonicalReport{}, fmt.Errorf("%w: %d + %d overflows", ErrAmountTooLarge, ordered[0], ordered[1])
		}
		limit += ordered[1]
	}
	limit--
	report.Checked = limit

	counts := MinCoinCounts(limit, ordered)

	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var (
		mu       sync.Mutex
		smallest = -1
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for start := 1; start <= limit; start += canonicalChunkSize {
		start := start
		end := min(start+canonicalChunkSize-1, limit)

		g.Go(func() error {
			for amount := start; amount <= end; amount++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				if counts[amount] < 0 {
					continue
				}
				greedy := Greedy(amount, ordered)
				if greedy.Total() == amount && greedy.Coins() == counts[amount] {
					continue
				}

				mu.Lock()
				if smallest < 0 || amount < smallest {
					smallest = amount
				}
				mu.Unlock()
				return nil
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return CanonicalReport{}, fmt.Errorf("canonical sweep: %w", err)
	}

	if smallest > 0 {
		greedy := Greedy(smallest, ordered)
		optimal := MinCoins(smallest, ordered)
		report.Canonical = false
		report.Proven = true
		report.Counterexample = &Counterexample{
			Amount:       smallest,
			Greedy:       greedy,
			GreedyCoins:  greedy.Coins(),
			GreedyTotal:  greedy.Total(),
			MinCoins:     optimal,
			OptimalCoins: optimal.Coins(),
		}
	}

	return report, nil
}

func distinctDescending(denominations []int) []int {
	seen := make(map[int]struct{}, len(denominations))
	out := make([]int, 0, len(denominations))
	for _, denomination := range denominations {
		if _, ok := seen[denomination]; ok {
			continue
		}
		seen[denomination] = struct{}{}
		out = append(out, denomination)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}
