package leaderboard

import (
	"math"
	"testing"

	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/errors"
	"github.com/iov-one/fundpool/fundpooltest"
	"github.com/iov-one/fundpool/fundpooltest/assert"
	"github.com/iov-one/fundpool/store"
)

func TestUpdate(t *testing.T) {
	a := fundpooltest.NewCondition().Address()
	b := fundpooltest.NewCondition().Address()
	c := fundpooltest.NewCondition().Address()

	type update struct {
		who    fundpool.Address
		amount int64
	}

	cases := map[string]struct {
		updates []update
		want    []Entry
	}{
		"empty": {
			want: []Entry{},
		},
		"single contributor accumulates": {
			updates: []update{{a, 10}, {a, 5}},
			want:    []Entry{{a, 15}},
		},
		"higher amount moves up": {
			updates: []update{{a, 10}, {b, 20}},
			want:    []Entry{{b, 20}, {a, 10}},
		},
		"equal amounts keep arrival order": {
			updates: []update{{a, 10}, {b, 10}},
			want:    []Entry{{a, 10}, {b, 10}},
		},
		"accumulated amount overtakes": {
			updates: []update{{a, 10}, {b, 20}, {c, 15}, {a, 11}},
			want:    []Entry{{a, 21}, {b, 20}, {c, 15}},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			for _, u := range tc.updates {
				assert.Nil(t, Update(db, u.who, u.amount))
			}
			got, err := Get(db)
			assert.Nil(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestUpdateEvictsLowest(t *testing.T) {
	db := store.MemStore()

	addrs := make([]fundpool.Address, MaxEntries+1)
	for i := range addrs {
		addrs[i] = fundpooltest.NewCondition().Address()
	}
	// Amounts 100, 200, ... 1000 fill the board.
	for i := 0; i < MaxEntries; i++ {
		assert.Nil(t, Update(db, addrs[i], int64(i+1)*100))
	}
	got, err := Get(db)
	assert.Nil(t, err)
	assert.Equal(t, MaxEntries, len(got))
	assert.Equal(t, int64(1000), got[0].Amount)
	assert.Equal(t, int64(100), got[MaxEntries-1].Amount)

	// A small newcomer is ranked last and immediately evicted.
	assert.Nil(t, Update(db, addrs[MaxEntries], 50))
	got, err = Get(db)
	assert.Nil(t, err)
	assert.Equal(t, MaxEntries, len(got))
	for _, e := range got {
		if e.Contributor.Equals(addrs[MaxEntries]) {
			t.Fatal("lowest contributor must be evicted")
		}
	}

	// A big newcomer evicts the lowest one.
	assert.Nil(t, Update(db, addrs[MaxEntries], 5000))
	got, err = Get(db)
	assert.Nil(t, err)
	assert.Equal(t, MaxEntries, len(got))
	assert.Equal(t, addrs[MaxEntries], got[0].Contributor)
	assert.Equal(t, int64(200), got[MaxEntries-1].Amount)
	for i := 1; i < len(got); i++ {
		if got[i-1].Amount < got[i].Amount {
			t.Fatalf("entries not ordered at %d", i)
		}
	}
}

func TestUpdateErrors(t *testing.T) {
	db := store.MemStore()
	a := fundpooltest.NewCondition().Address()

	assert.IsErr(t, errors.ErrAmount, Update(db, a, 0))
	assert.IsErr(t, errors.ErrAmount, Update(db, a, -1))
	assert.IsErr(t, errors.ErrEmpty, Update(db, nil, 1))

	assert.Nil(t, Update(db, a, math.MaxInt64))
	assert.IsErr(t, errors.ErrOverflow, Update(db, a, 1))

	got, err := Get(db)
	assert.Nil(t, err)
	assert.Equal(t, []Entry{{a, math.MaxInt64}}, got)
}
