package sigs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/crypto"
	"github.com/iov-one/fundpool/errors"
	"github.com/iov-one/fundpool/fundpooltest"
	"github.com/iov-one/fundpool/store"
)

func TestDecorator(t *testing.T) {
	kv := store.MemStore()
	signers := new(SigCheckHandler)
	d := NewDecorator()
	chainID := "deco-rate"
	ctx := fundpool.WithChainID(context.Background(), chainID)

	priv := crypto.GenPrivKeyEd25519()
	perms := []fundpool.Condition{priv.PublicKey().Condition()}

	tx := NewStdTx([]byte("art"))
	sig, err := SignTx(priv, tx, chainID)
	require.NoError(t, err)

	deliver := func(dec fundpool.Decorator, my fundpool.Tx) error {
		_, err := dec.Deliver(ctx, kv, my, signers)
		return err
	}
	check := func(dec fundpool.Decorator, my fundpool.Tx) error {
		_, err := dec.Check(ctx, kv, my, signers)
		return err
	}

	for i, fn := range []func(fundpool.Decorator, fundpool.Tx) error{check, deliver} {
		// test with no sigs
		tx.Signatures = nil
		err := fn(d, tx)
		assert.True(t, errors.ErrUnauthorized.Is(err), "%d", i)

		// test with one
		tx.Signatures = []*StdSignature{sig}
		err = fn(d, tx)
		assert.NoError(t, err, "%d", i)
		assert.Equal(t, perms, signers.Signers)

		// test allowing none
		ad := d.AllowMissingSigs()
		tx.Signatures = nil
		err = fn(ad, tx)
		assert.NoError(t, err, "%d", i)
		assert.Equal(t, []fundpool.Condition{}, signers.Signers)

		// a transaction that cannot be signed
		err = fn(d, &fundpooltest.Tx{})
		assert.True(t, errors.ErrUnauthorized.Is(err), "%d", i)
		err = fn(ad, &fundpooltest.Tx{})
		assert.NoError(t, err, "%d", i)
	}
}

func TestAuthenticateEmptyContext(t *testing.T) {
	var a Authenticate
	ctx := context.Background()
	assert.Nil(t, a.GetConditions(ctx))
	assert.False(t, a.HasAddress(ctx, fundpooltest.NewCondition().Address()))
}
