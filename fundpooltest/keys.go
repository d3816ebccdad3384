package fundpooltest

import (
	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/crypto"
)

// NewKey returns a new random private key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns a signature condition of a new random key. Use it to
// create a principal in tests.
func NewCondition() fundpool.Condition {
	return NewKey().PublicKey().Condition()
}
