package change

const (
	// GreedyName identifies the greedy solver in reports.
	GreedyName = "greedy"
	// MinCoinName identifies the dynamic-programming solver in reports.
	MinCoinName = "dynamic programming"
)

type greedySolver struct{}

// NewGreedySolver returns a Solver backed by Greedy. It never marks a result
// infeasible; a shortfall shows up only through Result.Remainder.
func NewGreedySolver() Solver {
	return &greedySolver{}
}

func (s *greedySolver) Name() string {
	return GreedyName
}

func (s *greedySolver) Solve(amount int, denominations []int) (Result, error) {
	if err := validate(amount, denominations); err != nil {
		return Result{}, err
	}
	return Result{
		Amount:    amount,
		Breakdown: Greedy(amount, denominations),
	}, nil
}

// MinCoinOption configures a MinCoinSolver.
type MinCoinOption func(*minCoinSolver)

// WithMaxAmount caps the amount the solver accepts. Zero or negative disables the cap.
func WithMaxAmount(maxAmount int) MinCoinOption {
	return func(s *minCoinSolver) {
		s.maxAmount = maxAmount
	}
}

type minCoinSolver struct {
	maxAmount int
}

// NewMinCoinSolver returns a Solver backed by MinCoins.
func NewMinCoinSolver(opts ...MinCoinOption) Solver {
	s := &minCoinSolver{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *minCoinSolver) Name() string {
	return MinCoinName
}

func (s *minCoinSolver) Solve(amount int, denominations []int) (Result, error) {
	if err := validate(amount, denominations); err != nil {
		return Result{}, err
	}
	if s.maxAmount > 0 && amount > s.maxAmount {
		return Result{}, ErrAmountTooLarge
	}

	breakdown := MinCoins(amount, denominations)
	return Result{
		Amount:     amount,
		Breakdown:  breakdown,
		Infeasible: amount > 0 && len(breakdown) == 0,
	}, nil
}

func validate(amount int, denominations []int) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	if len(denominations) == 0 {
		return ErrInvalidDenominations
	}
	for _, denomination := range denominations {
		if denomination <= 0 {
			return ErrInvalidDenominations
		}
	}
	return nil
}
