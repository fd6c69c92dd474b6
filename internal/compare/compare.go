// Package compare runs the greedy and minimum-coin solvers on the same input,
// times each run and reports how the two differ.
package compare

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/coin-change/internal/change"
)

// Sample is a single comparison input.
type Sample struct {
	Amount        int   `json:"amount" yaml:"amount"`
	Denominations []int `json:"denominations" yaml:"denominations"`
}

// DefaultSamples returns the standard comparison runs.
func DefaultSamples() []Sample {
	standard := []int{50, 25, 10, 5, 2, 1}
	return []Sample{
		{Amount: 113, Denominations: standard},
		{Amount: 2345, Denominations: standard},
		{Amount: 123456, Denominations: standard},
		{Amount: 40, Denominations: []int{30, 20, 5}},
	}
}

// Run captures one solver invocation.
type Run struct {
	Solver  string        `json:"solver"`
	Result  change.Result `json:"result"`
	Elapsed time.Duration `json:"elapsedNs"`
}

// Report is the outcome of comparing both solvers on one sample.
type Report struct {
	Amount        int   `json:"amount"`
	Denominations []int `json:"denominations"`
	Greedy        Run   `json:"greedy"`
	MinCoins      Run   `json:"minCoins"`
	// Slowdown is MinCoins.Elapsed divided by Greedy.Elapsed, zero when greedy
	// finished faster than the clock resolution.
	Slowdown float64 `json:"slowdown"`
	// Agree is set when both solvers returned the same breakdown.
	Agree bool `json:"agree"`
}

// Option configures a Comparator.
type Option func(*Comparator)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) Option {
	return func(c *Comparator) {
		c.clock = clock
	}
}

// WithLogger attaches a logger that records each comparison.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Comparator) {
		c.logger = logger
	}
}

// Comparator times a greedy and a minimum-coin solver against each other.
type Comparator struct {
	greedy   change.Solver
	minCoins change.Solver
	clock    func() time.Time
	logger   *zap.Logger
}

// New constructs a Comparator for the provided solvers.
func New(greedy, minCoins change.Solver, opts ...Option) *Comparator {
	c := &Comparator{
		greedy:   greedy,
		minCoins: minCoins,
		clock:    time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compare runs both solvers on the same amount and denominations.
func (c *Comparator) Compare(amount int, denominations []int) (Report, error) {
	greedyRun, err := c.run(c.greedy, amount, denominations)
	if err != nil {
		return Report{}, err
	}
	minRun, err := c.run(c.minCoins, amount, denominations)
	if err != nil {
		return Report{}, err
	}

	report := Report{
		Amount:        amount,
		Denominations: append([]int(nil), denominations...),
		Greedy:        greedyRun,
		MinCoins:      minRun,
		Agree:         greedyRun.Result.Breakdown.Equal(minRun.Result.Breakdown),
	}
	if greedyRun.Elapsed > 0 {
		report.Slowdown = float64(minRun.Elapsed) / float64(greedyRun.Elapsed)
	}

	c.logger.Info("comparison completed",
		zap.Int("amount", amount),
		zap.Ints("denominations", denominations),
		zap.Duration("greedy_elapsed", greedyRun.Elapsed),
		zap.Duration("min_coins_elapsed", minRun.Elapsed),
		zap.Int("greedy_coins", greedyRun.Result.Breakdown.Coins()),
		zap.Int("min_coins", minRun.Result.Breakdown.Coins()),
		zap.Bool("agree", report.Agree),
	)

	return report, nil
}

// CompareAll compares every sample in order. Samples run one after another so
// their timings do not interfere.
func (c *Comparator) CompareAll(ctx context.Context, samples []Sample) ([]Report, error) {
	reports := make([]Report, 0, len(samples))
	for _, sample := range samples {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		report, err := c.Compare(sample.Amount, sample.Denominations)
		if err != nil {
			return reports, fmt.Errorf("compare amount %d: %w", sample.Amount, err)
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (c *Comparator) run(solver change.Solver, amount int, denominations []int) (Run, error) {
	start := c.clock()
	result, err := solver.Solve(amount, denominations)
	elapsed := c.clock().Sub(start)
	if err != nil {
		return Run{}, fmt.Errorf("%s solver: %w", solver.Name(), err)
	}
	return Run{Solver: solver.Name(), Result: result, Elapsed: elapsed}, nil
}
