package matching

import (
	"math/big"

	"github.com/iov-one/fundpool/errors"
)

// Isqrt returns the largest integer x such that x*x <= a. Negative values
// have no square root and result in zero.
func Isqrt(a int64) int64 {
	if a <= 0 {
		return 0
	}
	x := a
	// (x + 1) / 2 without overflowing for the greatest int64 values.
	y := x/2 + x%2
	for y < x {
		x = y
		y = (x + a/x) / 2
	}
	return x
}

// ComputeMatch returns the quadratic funding payout of a pool. The payout is
// the square of the sum of square roots of all donor totals, reduced by the
// amount raised. The result is clamped to zero and capped by the matching
// balance.
func ComputeMatch(donorTotals []int64, totalRaised, matchingBalance int64) (int64, error) {
	if totalRaised < 0 {
		return 0, errors.Wrapf(errors.ErrAmount, "negative total raised: %d", totalRaised)
	}
	if matchingBalance < 0 {
		return 0, errors.Wrapf(errors.ErrAmount, "negative matching balance: %d", matchingBalance)
	}

	sum := new(big.Int)
	for i, total := range donorTotals {
		if total < 0 {
			return 0, errors.Wrapf(errors.ErrAmount, "negative donor total %d: %d", i, total)
		}
		sum.Add(sum, big.NewInt(Isqrt(total)))
	}

	qf := new(big.Int).Mul(sum, sum)
	qf.Sub(qf, big.NewInt(totalRaised))

	if qf.Sign() <= 0 {
		return 0, nil
	}
	if qf.Cmp(big.NewInt(matchingBalance)) >= 0 {
		return matchingBalance, nil
	}
	return qf.Int64(), nil
}
