package pool

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/errors"
	"github.com/iov-one/fundpool/fundpooltest"
	"github.com/iov-one/fundpool/fundpooltest/assert"
	"github.com/iov-one/fundpool/gconf"
	"github.com/iov-one/fundpool/store"
	"github.com/iov-one/fundpool/x/cash"
)

func TestCreatePool(t *testing.T) {
	owner := fundpooltest.NewCondition()
	admin := fundpooltest.NewCondition().Address()
	beneficiary := fundpooltest.NewCondition().Address()

	cases := map[string]struct {
		signer       fundpool.Condition
		msg          fundpool.Msg
		wantCheckErr *errors.Error
		wantErr      *errors.Error
		wantVerified bool
	}{
		"owner creates a prize pool": {
			signer: owner,
			msg: &CreatePoolMsg{
				Metadata:    &fundpool.Metadata{Schema: 1},
				Kind:        Prize,
				Name:        "weekly prize",
				Admin:       admin,
				ClaimPeriod: fundpool.AsUnixDuration(48 * time.Hour),
			},
			wantVerified: true,
		},
		"owner creates a charity pool": {
			signer: owner,
			msg: &CreatePoolMsg{
				Metadata:    &fundpool.Metadata{Schema: 1},
				Kind:        Charity,
				Name:        "shelter",
				Admin:       admin,
				Beneficiary: beneficiary,
			},
			wantVerified: false,
		},
		"only the owner can create": {
			signer: fundpooltest.NewCondition(),
			msg: &CreatePoolMsg{
				Metadata: &fundpool.Metadata{Schema: 1},
				Kind:     Prize,
				Name:     "weekly prize",
				Admin:    admin,
			},
			wantCheckErr: errors.ErrUnauthorized,
			wantErr:      errors.ErrUnauthorized,
		},
		"charity pool requires a beneficiary": {
			signer: owner,
			msg: &CreatePoolMsg{
				Metadata: &fundpool.Metadata{Schema: 1},
				Kind:     Charity,
				Name:     "shelter",
				Admin:    admin,
			},
			wantCheckErr: errors.ErrEmpty,
			wantErr:      errors.ErrEmpty,
		},
		"negative threshold": {
			signer: owner,
			msg: &CreatePoolMsg{
				Metadata:     &fundpool.Metadata{Schema: 1},
				Kind:         Prize,
				Name:         "weekly prize",
				Admin:        admin,
				MinThreshold: -1,
			},
			wantCheckErr: errors.ErrAmount,
			wantErr:      errors.ErrAmount,
		},
		"unknown kind": {
			signer: owner,
			msg: &CreatePoolMsg{
				Metadata: &fundpool.Metadata{Schema: 1},
				Kind:     7,
				Name:     "weekly prize",
				Admin:    admin,
			},
			wantCheckErr: errors.ErrInput,
			wantErr:      errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			saveConfig(t, db, owner.Address())

			rt := newRegistry(&fundpooltest.Auth{Signer: tc.signer})
			h := rt.handlers["pool/create"]
			ctx := fundpool.WithBlockTime(context.Background(), now.Time())
			tx := &fundpooltest.Tx{Msg: tc.msg}

			cache := db.CacheWrap()
			if _, err := h.Check(ctx, cache, tx); !tc.wantCheckErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			cache.Discard()
			res, err := h.Deliver(ctx, db, tx)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}
			if tc.wantErr != nil {
				return
			}

			assert.Sequence(t, 1, res.Data)
			p, err := GetPool(db, res.Data)
			assert.Nil(t, err)
			assert.Equal(t, Open, p.Status)
			assert.Equal(t, tc.wantVerified, p.Verified)
			assert.Equal(t, now, p.CreatedAt)
			if p.Kind == Prize {
				assert.Equal(t, CustodyAccount(res.Data), p.Custody)
			} else {
				assert.Equal(t, beneficiary, p.Custody)
			}
		})
	}
}

func TestCharityPoolLifecycle(t *testing.T) {
	owner := fundpooltest.NewCondition()
	admin := fundpooltest.NewCondition()
	donor := fundpooltest.NewCondition()
	beneficiary := fundpooltest.NewCondition().Address()

	db := store.MemStore()
	saveConfig(t, db, owner.Address())
	bank := cash.NewController(cash.NewWalletBucket())
	assert.Nil(t, bank.CoinMint(db, donor.Address(), 1000))

	auth := &fundpooltest.CtxAuth{Key: "auth"}
	rt := &registry{handlers: map[string]fundpool.Handler{}}
	RegisterRoutes(rt, auth, bank)
	ctx := fundpool.WithBlockTime(context.Background(), now.Time())

	deliver := func(signer fundpool.Condition, msg fundpool.Msg) (*fundpool.DeliverResult, error) {
		t.Helper()
		return rt.handlers[msg.Path()].Deliver(auth.SetConditions(ctx, signer), db, &fundpooltest.Tx{Msg: msg})
	}

	res, err := deliver(owner, &CreatePoolMsg{
		Metadata:    &fundpool.Metadata{Schema: 1},
		Kind:        Charity,
		Name:        "shelter",
		Admin:       admin.Address(),
		Beneficiary: beneficiary,
	})
	assert.Nil(t, err)
	poolID := res.Data

	contribute := &ContributeMsg{
		Metadata:    &fundpool.Metadata{Schema: 1},
		PoolID:      poolID,
		Contributor: donor.Address(),
		Amount:      100,
	}
	_, err = deliver(donor, contribute)
	assert.IsErr(t, errors.ErrState, err)

	_, err = deliver(admin, &VerifyPoolMsg{Metadata: &fundpool.Metadata{Schema: 1}, PoolID: poolID})
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = deliver(owner, &VerifyPoolMsg{Metadata: &fundpool.Metadata{Schema: 1}, PoolID: poolID})
	assert.Nil(t, err)
	_, err = deliver(owner, &VerifyPoolMsg{Metadata: &fundpool.Metadata{Schema: 1}, PoolID: poolID})
	assert.IsErr(t, errors.ErrState, err)

	_, err = deliver(admin, contribute)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = deliver(donor, contribute)
	assert.Nil(t, err)
	_, err = deliver(donor, contribute)
	assert.Nil(t, err)

	got, err := bank.Balance(db, beneficiary)
	assert.Nil(t, err)
	assert.Equal(t, int64(200), got)

	res, err = deliver(donor, &IssueReceiptMsg{
		Metadata: &fundpool.Metadata{Schema: 1},
		PoolID:   poolID,
		Donor:    donor.Address(),
	})
	assert.Nil(t, err)
	assert.Sequence(t, 1, res.Data)
	receipt, err := GetReceipt(db, res.Data)
	assert.Nil(t, err)
	assert.Equal(t, int64(200), receipt.TotalDonated)
	assert.Equal(t, donor.Address(), receipt.Donor)

	_, err = deliver(admin, &IssueReceiptMsg{
		Metadata: &fundpool.Metadata{Schema: 1},
		PoolID:   poolID,
		Donor:    admin.Address(),
	})
	assert.IsErr(t, errors.ErrNotFound, err)

	_, err = deliver(donor, &SetRecurringMsg{
		Metadata: &fundpool.Metadata{Schema: 1},
		PoolID:   poolID,
		Donor:    donor.Address(),
		Amount:   25,
		Enabled:  true,
	})
	assert.Nil(t, err)
	pledge, err := GetPledge(db, poolID, donor.Address())
	assert.Nil(t, err)
	assert.Equal(t, int64(25), pledge.Amount)

	_, err = deliver(donor, &SetRecurringMsg{
		Metadata: &fundpool.Metadata{Schema: 1},
		PoolID:   poolID,
		Donor:    donor.Address(),
	})
	assert.Nil(t, err)
	_, err = GetPledge(db, poolID, donor.Address())
	assert.IsErr(t, errors.ErrNotFound, err)

	_, err = deliver(owner, &ClosePoolMsg{Metadata: &fundpool.Metadata{Schema: 1}, PoolID: poolID})
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = deliver(admin, &ClosePoolMsg{Metadata: &fundpool.Metadata{Schema: 1}, PoolID: poolID})
	assert.Nil(t, err)
	_, err = deliver(admin, &ClosePoolMsg{Metadata: &fundpool.Metadata{Schema: 1}, PoolID: poolID})
	assert.IsErr(t, errors.ErrState, err)

	_, err = deliver(donor, contribute)
	assert.IsErr(t, errors.ErrState, err)

	p, err := GetPool(db, poolID)
	assert.Nil(t, err)
	assert.Equal(t, Closed, p.Status)
	assert.Equal(t, int64(200), p.Total)
	assert.Equal(t, uint32(1), p.ContributorCount)
}

func TestContributeRejectsNonPositiveAmount(t *testing.T) {
	donor := fundpooltest.NewCondition()
	db := store.MemStore()
	bank := cash.NewController(cash.NewWalletBucket())
	assert.Nil(t, bank.CoinMint(db, donor.Address(), 1000))
	poolID := newPool(t, db, Prize, true)

	rt := newRegistry(&fundpooltest.Auth{Signer: donor})
	h := rt.handlers["pool/contribute"]
	ctx := fundpool.WithBlockTime(context.Background(), now.Time())

	for _, amount := range []int64{0, -1} {
		tx := &fundpooltest.Tx{Msg: &ContributeMsg{
			Metadata:    &fundpool.Metadata{Schema: 1},
			PoolID:      poolID,
			Contributor: donor.Address(),
			Amount:      amount,
		}}
		_, err := h.Check(ctx, db, tx)
		assert.IsErr(t, errors.ErrAmount, err)
		_, err = h.Deliver(ctx, db, tx)
		assert.IsErr(t, errors.ErrAmount, err)
	}

	p, err := GetPool(db, poolID)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), p.Total)
}

func TestUpdateConfiguration(t *testing.T) {
	owner := fundpooltest.NewCondition()
	successor := fundpooltest.NewCondition().Address()
	db := store.MemStore()
	saveConfig(t, db, owner.Address())

	rt := newRegistry(&fundpooltest.Auth{Signer: owner})
	tx := &fundpooltest.Tx{Msg: &UpdateConfigurationMsg{
		Metadata: &fundpool.Metadata{Schema: 1},
		Patch:    &Configuration{Owner: successor},
	}}
	_, err := rt.handlers["pool/update_configuration"].Deliver(context.Background(), db, tx)
	assert.Nil(t, err)

	conf, err := LoadConfiguration(db)
	assert.Nil(t, err)
	assert.Equal(t, successor, conf.Owner)
}

func TestGenesis(t *testing.T) {
	owner := fundpooltest.NewCondition().Address()
	raw, err := json.Marshal(map[string]interface{}{
		"conf": map[string]interface{}{
			"pool": map[string]interface{}{
				"metadata": map[string]int{"schema": 1},
				"owner":    owner,
			},
		},
	})
	assert.Nil(t, err)
	var opts fundpool.Options
	assert.Nil(t, json.Unmarshal(raw, &opts))

	db := store.MemStore()
	var in Initializer
	assert.Nil(t, in.FromGenesis(opts, db))

	conf, err := LoadConfiguration(db)
	assert.Nil(t, err)
	assert.Equal(t, owner, conf.Owner)

	err = in.FromGenesis(fundpool.Options{}, store.MemStore())
	assert.IsErr(t, errors.ErrNotFound, err)
}

func saveConfig(t testing.TB, db fundpool.KVStore, owner fundpool.Address) {
	t.Helper()
	conf := &Configuration{
		Metadata: &fundpool.Metadata{Schema: 1},
		Owner:    owner,
	}
	assert.Nil(t, gconf.Save(db, "pool", conf))
}

func newRegistry(auth *fundpooltest.Auth) *registry {
	rt := &registry{handlers: map[string]fundpool.Handler{}}
	RegisterRoutes(rt, auth, cash.NewController(cash.NewWalletBucket()))
	return rt
}

// registry collects registered handlers by message path.
type registry struct {
	handlers map[string]fundpool.Handler
}

func (r *registry) Handle(m fundpool.Msg, h fundpool.Handler) {
	r.handlers[m.Path()] = h
}
