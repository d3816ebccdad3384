package orm

import (
	"encoding/binary"

	"github.com/iov-one/fundpool/errors"
)

// CompositeKey joins given parts into a single key. Each part is prefixed
// with its length, so that two different tuples never produce the same key.
// A key built from a tuple prefix is a prefix of the keys of all tuples that
// start with it, which allows prefix scans over the leading parts.
func CompositeKey(parts ...[]byte) []byte {
	size := 0
	for _, p := range parts {
		size += 2 + len(p)
	}
	key := make([]byte, 0, size)
	for _, p := range parts {
		if len(p) > 0xffff {
			panic("composite key part too long")
		}
		key = append(key, byte(len(p)>>8), byte(len(p)))
		key = append(key, p...)
	}
	return key
}

// SplitCompositeKey returns the parts of a key created with CompositeKey.
func SplitCompositeKey(key []byte) ([][]byte, error) {
	var parts [][]byte
	for len(key) > 0 {
		if len(key) < 2 {
			return nil, errors.Wrap(errors.ErrInput, "truncated composite key")
		}
		n := int(binary.BigEndian.Uint16(key))
		key = key[2:]
		if len(key) < n {
			return nil, errors.Wrap(errors.ErrInput, "truncated composite key part")
		}
		parts = append(parts, key[:n])
		key = key[n:]
	}
	return parts, nil
}

// PrefixEnd returns the smallest key that is greater than all keys starting
// with given prefix. It returns nil if there is no such key.
func PrefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
