package cash

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/errors"
	"github.com/iov-one/fundpool/fundpooltest"
	"github.com/iov-one/fundpool/fundpooltest/assert"
	"github.com/iov-one/fundpool/store"
)

func TestSend(t *testing.T) {
	perm := fundpooltest.NewCondition()
	perm2 := fundpooltest.NewCondition()

	cases := map[string]struct {
		signers        []fundpool.Condition
		initBalance    int64
		msg            fundpool.Msg
		wantCheckErr   *errors.Error
		wantDeliverErr *errors.Error
		wantDest       int64
	}{
		"invalid message type": {
			msg:            &fundpooltest.Msg{RoutePath: "cash/send"},
			wantCheckErr:   errors.ErrType,
			wantDeliverErr: errors.ErrType,
		},
		"missing amount": {
			msg:            &SendMsg{Metadata: &fundpool.Metadata{Schema: 1}, Source: perm.Address(), Destination: perm2.Address()},
			wantCheckErr:   errors.ErrAmount,
			wantDeliverErr: errors.ErrAmount,
		},
		"missing source": {
			msg:            &SendMsg{Metadata: &fundpool.Metadata{Schema: 1}, Destination: perm2.Address(), Amount: 5},
			wantCheckErr:   errors.ErrEmpty,
			wantDeliverErr: errors.ErrEmpty,
		},
		"not signed by the source": {
			msg:            &SendMsg{Metadata: &fundpool.Metadata{Schema: 1}, Source: perm.Address(), Destination: perm2.Address(), Amount: 5},
			wantCheckErr:   errors.ErrUnauthorized,
			wantDeliverErr: errors.ErrUnauthorized,
		},
		"sender has no funds": {
			signers:        []fundpool.Condition{perm},
			msg:            &SendMsg{Metadata: &fundpool.Metadata{Schema: 1}, Source: perm.Address(), Destination: perm2.Address(), Amount: 5},
			wantDeliverErr: errors.ErrTransfer,
		},
		"sender has funds": {
			signers:     []fundpool.Condition{perm},
			initBalance: 7,
			msg:         &SendMsg{Metadata: &fundpool.Metadata{Schema: 1}, Source: perm.Address(), Destination: perm2.Address(), Amount: 5},
			wantDest:    5,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			auth := &fundpooltest.Auth{Signers: tc.signers}
			ctrl := NewController(NewWalletBucket())
			h := NewSendHandler(auth, ctrl)

			db := store.MemStore()
			if tc.initBalance > 0 {
				assert.Nil(t, ctrl.CoinMint(db, perm.Address(), tc.initBalance))
			}

			tx := &fundpooltest.Tx{Msg: tc.msg}
			ctx := context.Background()

			cache := db.CacheWrap()
			if _, err := h.Check(ctx, cache, tx); !tc.wantCheckErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			cache.Discard()

			if _, err := h.Deliver(ctx, db, tx); !tc.wantDeliverErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}

			got, err := ctrl.Balance(db, perm2.Address())
			assert.Nil(t, err)
			assert.Equal(t, tc.wantDest, got)
		})
	}
}

func TestGenesis(t *testing.T) {
	alice := fundpooltest.NewCondition().Address()
	bob := fundpooltest.NewCondition().Address()

	raw, err := json.Marshal(map[string]interface{}{
		"cash": []GenesisAccount{
			{Address: alice, Amount: 1000},
			{Address: bob, Amount: 0},
		},
	})
	assert.Nil(t, err)
	var opts fundpool.Options
	assert.Nil(t, json.Unmarshal(raw, &opts))

	db := store.MemStore()
	assert.Nil(t, Initializer{}.FromGenesis(opts, db))

	ctrl := NewController(NewWalletBucket())
	got, err := ctrl.Balance(db, alice)
	assert.Nil(t, err)
	assert.Equal(t, int64(1000), got)
	got, err = ctrl.Balance(db, bob)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), got)

	var bad fundpool.Options
	assert.Nil(t, json.Unmarshal([]byte(`{"cash": [{"address": "", "amount": 4}]}`), &bad))
	assert.IsErr(t, errors.ErrEmpty, Initializer{}.FromGenesis(bad, store.MemStore()))
}
