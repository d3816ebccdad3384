package distribution

import "github.com/iov-one/fundpool/errors"

var (
	// ErrNotWinner is returned when claiming a share of a distribution
	// that the claimant is not part of.
	ErrNotWinner = errors.Register(1000, "not a winner")

	// ErrAlreadyClaimed is returned when a share was already paid, either
	// by a claim or by a rollover.
	ErrAlreadyClaimed = errors.Register(1001, "already claimed")
)
