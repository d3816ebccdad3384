package orm

import (
	"testing"

	"github.com/iov-one/fundpool/errors"
	"github.com/iov-one/fundpool/fundpooltest/assert"
	"github.com/iov-one/fundpool/store"
)

func TestModelBucket(t *testing.T) {
	db := store.MemStore()

	b := NewModelBucket("cnts", &counter{})

	if _, err := b.Put(db, []byte("c1"), &counter{Count: 1}); err != nil {
		t.Fatalf("cannot save counter instance: %s", err)
	}

	var c1 counter
	if err := b.One(db, []byte("c1"), &c1); err != nil {
		t.Fatalf("cannot get c1 counter: %s", err)
	}
	if c1.Count != 1 {
		t.Fatalf("unexpected counter state: %d", c1.Count)
	}
	assert.Nil(t, b.Has(db, []byte("c1")))

	if err := b.One(db, []byte("c1"), &other{}); !errors.ErrType.Is(err) {
		t.Fatalf("want type error, got %s", err)
	}

	if err := b.Delete(db, []byte("c1")); err != nil {
		t.Fatalf("cannot delete c1 counter: %s", err)
	}
	if err := b.Delete(db, []byte("unknown")); !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error when deleting unexisting instance: %s", err)
	}
	if err := b.One(db, []byte("c1"), &c1); !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error for an unknown model get: %s", err)
	}
	if err := b.Has(db, []byte("c1")); !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error for an unknown model has: %s", err)
	}
}

func TestModelBucketPutValidates(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &counter{})

	_, err := b.Put(db, []byte("c1"), &counter{Count: -1})
	assert.IsErr(t, errors.ErrModel, err)
	assert.IsErr(t, errors.ErrNotFound, b.Has(db, []byte("c1")))
}

func TestModelBucketSequence(t *testing.T) {
	db := store.MemStore()

	withSeq := NewModelBucket("cnts", &counter{}, WithIDSequence(NewSequence("cnts", "id")))
	for i := uint64(1); i < 4; i++ {
		key, err := withSeq.Put(db, nil, &counter{Count: int64(i)})
		assert.Nil(t, err)
		assert.Equal(t, EncodeSequence(i), key)
	}

	noSeq := NewModelBucket("others", &counter{})
	_, err := noSeq.Put(db, nil, &counter{})
	assert.IsErr(t, errors.ErrHuman, err)
}

func TestModelBucketPrefixScan(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &counter{})
	// Another bucket sharing a name prefix must not leak into the scan.
	o := NewModelBucket("cnts_x", &counter{})

	keys := [][]byte{
		CompositeKey([]byte("a"), EncodeSequence(1)),
		CompositeKey([]byte("a"), EncodeSequence(2)),
		CompositeKey([]byte("ab"), EncodeSequence(1)),
		CompositeKey([]byte("b"), EncodeSequence(1)),
	}
	for i, k := range keys {
		_, err := b.Put(db, k, &counter{Count: int64(i)})
		assert.Nil(t, err)
	}
	_, err := o.Put(db, []byte("zzz"), &counter{Count: 100})
	assert.Nil(t, err)

	cases := map[string]struct {
		prefix  []byte
		reverse bool
		want    []int64
	}{
		"whole bucket": {
			prefix: nil,
			want:   []int64{0, 1, 3, 2},
		},
		"tuple prefix does not match a longer part": {
			prefix: CompositeKey([]byte("a")),
			want:   []int64{0, 1},
		},
		"reverse": {
			prefix:  CompositeKey([]byte("a")),
			reverse: true,
			want:    []int64{1, 0},
		},
		"nothing": {
			prefix: CompositeKey([]byte("c")),
			want:   nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			it, err := b.PrefixScan(db, tc.prefix, tc.reverse)
			assert.Nil(t, err)
			defer it.Release()

			var got []int64
			for {
				var c counter
				_, err := it.LoadNext(&c)
				if errors.ErrIteratorDone.Is(err) {
					break
				}
				assert.Nil(t, err)
				got = append(got, c.Count)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}
