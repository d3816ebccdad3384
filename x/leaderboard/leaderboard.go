/*
Package leaderboard maintains the ranking of the top contributors across all
pools. The ranking holds at most MaxEntries entries, ordered by the amount
contributed, highest first.
*/
package leaderboard

import (
	"math"

	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/errors"
)

// Update adds delta to the cumulative amount of the given contributor and
// re-ranks the board. A contributor not yet on the board is appended. When
// the board grows beyond MaxEntries the last entry is dropped.
func Update(db fundpool.KVStore, contributor fundpool.Address, delta int64) error {
	if delta <= 0 {
		return errors.Wrapf(errors.ErrAmount, "non positive delta: %d", delta)
	}
	if err := contributor.Validate(); err != nil {
		return errors.Wrap(err, "contributor")
	}

	board, err := load(db)
	if err != nil {
		return err
	}

	found := false
	for _, e := range board.Entries {
		if e.Contributor.Equals(contributor) {
			if e.Amount > math.MaxInt64-delta {
				return errors.Wrap(errors.ErrOverflow, "leaderboard amount")
			}
			e.Amount += delta
			found = true
			break
		}
	}
	if !found {
		board.Entries = append(board.Entries, &Entry{Contributor: contributor, Amount: delta})
	}

	rank(board.Entries)

	if len(board.Entries) > MaxEntries {
		board.Entries = board.Entries[:MaxEntries]
	}

	if _, err := bucket.Put(db, boardKey, board); err != nil {
		return errors.Wrap(err, "save leaderboard")
	}
	return nil
}

// rank orders entries by amount, highest first. An entry is moved in front of
// another one only if its amount is strictly greater.
func rank(entries []*Entry) {
	for i := range entries {
		for j := i + 1; j < len(entries); j++ {
			if entries[j].Amount > entries[i].Amount {
				entries[i], entries[j] = entries[j], entries[i]
			}
		}
	}
}

// Get returns a snapshot of the current ranking.
func Get(db fundpool.ReadOnlyKVStore) ([]Entry, error) {
	board, err := load(db)
	if err != nil {
		return nil, err
	}
	res := make([]Entry, len(board.Entries))
	for i, e := range board.Entries {
		res[i] = *e
	}
	return res, nil
}

func load(db fundpool.ReadOnlyKVStore) (*Board, error) {
	var board Board
	switch err := bucket.One(db, boardKey, &board); {
	case err == nil:
		return &board, nil
	case errors.ErrNotFound.Is(err):
		return &Board{Metadata: &fundpool.Metadata{Schema: 1}}, nil
	default:
		return nil, errors.Wrap(err, "load leaderboard")
	}
}
