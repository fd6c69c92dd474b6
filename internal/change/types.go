package change

import (
	"sort"
	"strconv"
	"strings"
)

// Breakdown maps a denomination to the number of coins of that denomination.
// Only denominations with a positive count are present.
type Breakdown map[int]int

// Total returns the value represented by the breakdown.
func (b Breakdown) Total() int {
	total := 0
	for denomination, count := range b {
		total += denomination * count
	}
	return total
}

// Coins returns the number of coins in the breakdown.
func (b Breakdown) Coins() int {
	coins := 0
	for _, count := range b {
		coins += count
	}
	return coins
}

// Denominations returns the denominations used, largest first.
func (b Breakdown) Denominations() []int {
	out := make([]int, 0, len(b))
	for denomination := range b {
		out = append(out, denomination)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

// Equal reports whether both breakdowns hold the same counts.
func (b Breakdown) Equal(other Breakdown) bool {
	if len(b) != len(other) {
		return false
	}
	for denomination, count := range b {
		if other[denomination] != count {
			return false
		}
	}
	return true
}

func (b Breakdown) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, denomination := range b.Denominations() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa(denomination))
		sb.WriteString(": ")
		sb.WriteString(strconv.Itoa(b[denomination]))
	}
	sb.WriteByte('}')
	return sb.String()
}

// Result is the outcome of a Solver run. An empty Breakdown with Infeasible
// unset means no coins were needed.
type Result struct {
	Amount     int       `json:"amount"`
	Breakdown  Breakdown `json:"breakdown"`
	Infeasible bool      `json:"infeasible"`
}

// Remainder returns the part of the amount the breakdown does not cover.
// It is non-zero for infeasible results and for greedy shortfalls.
func (r Result) Remainder() int {
	return r.Amount - r.Breakdown.Total()
}

// Exact reports whether the breakdown sums to the requested amount.
func (r Result) Exact() bool {
	return !r.Infeasible && r.Remainder() == 0
}

// Solver describes a change-making strategy.
type Solver interface {
	Name() string
	Solve(amount int, denominations []int) (Result, error)
}
