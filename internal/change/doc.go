// Package change computes change-making breakdowns for a set of coin
// denominations. Greedy takes the largest usable denomination first and runs
// in time proportional to the number of denominations; MinCoins uses bottom-up
// dynamic programming and always finds the fewest coins, at a cost that grows
// with the amount.
package change
