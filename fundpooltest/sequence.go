package fundpooltest

import "encoding/binary"

// SequenceID returns an encoded sequence value as used by the orm.Sequence
// to create unique identifiers.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}
