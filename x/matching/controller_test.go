package matching

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/errors"
	"github.com/iov-one/fundpool/fundpooltest"
	"github.com/iov-one/fundpool/fundpooltest/assert"
	"github.com/iov-one/fundpool/gconf"
	"github.com/iov-one/fundpool/store"
	"github.com/iov-one/fundpool/x/cash"
	. "github.com/smartystreets/goconvey/convey"
)

func TestController(t *testing.T) {
	Convey("Matching fund controller", t, func() {
		db := store.MemStore()
		bank := cash.NewController(cash.NewWalletBucket())
		ctrl := NewController(bank)

		funder := fundpooltest.NewCondition().Address()
		beneficiary := fundpooltest.NewCondition().Address()
		So(bank.CoinMint(db, funder, 1000), ShouldBeNil)

		Convey("An unused fund is empty", func() {
			f, err := ctrl.Fund(db)
			So(err, ShouldBeNil)
			So(f.Balance, ShouldEqual, 0)
			So(f.Account, ShouldResemble, FundAccount)
		})

		Convey("Deposit moves coins into the fund", func() {
			So(ctrl.Deposit(db, funder, 600), ShouldBeNil)

			f, err := ctrl.Fund(db)
			So(err, ShouldBeNil)
			So(f.Balance, ShouldEqual, 600)
			held, err := bank.Balance(db, FundAccount)
			So(err, ShouldBeNil)
			So(held, ShouldEqual, 600)

			Convey("Pay moves coins out of the fund", func() {
				So(ctrl.Pay(db, beneficiary, 250), ShouldBeNil)

				f, err := ctrl.Fund(db)
				So(err, ShouldBeNil)
				So(f.Balance, ShouldEqual, 350)
				So(f.Paid, ShouldEqual, 250)
				got, err := bank.Balance(db, beneficiary)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, 250)
			})

			Convey("Pay cannot exceed the balance", func() {
				err := ctrl.Pay(db, beneficiary, 601)
				So(errors.ErrTransfer.Is(err), ShouldBeTrue)
			})

			Convey("Pay must be positive", func() {
				err := ctrl.Pay(db, beneficiary, 0)
				So(errors.ErrAmount.Is(err), ShouldBeTrue)
			})

			Convey("Available is the balance when not limited", func() {
				a, err := ctrl.Available(db)
				So(err, ShouldBeNil)
				So(a, ShouldEqual, 600)
			})

			Convey("Available is limited by the configuration", func() {
				conf := &Configuration{
					Metadata:  &fundpool.Metadata{Schema: 1},
					Owner:     funder,
					MaxPayout: 100,
				}
				So(gconf.Save(db, "matching", conf), ShouldBeNil)
				a, err := ctrl.Available(db)
				So(err, ShouldBeNil)
				So(a, ShouldEqual, 100)
			})
		})

		Convey("Deposit fails without funds", func() {
			err := ctrl.Deposit(db, beneficiary, 1)
			So(errors.ErrTransfer.Is(err), ShouldBeTrue)
			f, err := ctrl.Fund(db)
			So(err, ShouldBeNil)
			So(f.Balance, ShouldEqual, 0)
		})
	})
}

func TestFundHandler(t *testing.T) {
	funder := fundpooltest.NewCondition()
	other := fundpooltest.NewCondition()

	cases := map[string]struct {
		signer         fundpool.Condition
		msg            fundpool.Msg
		wantCheckErr   *errors.Error
		wantDeliverErr *errors.Error
		wantBalance    int64
	}{
		"funder deposits": {
			signer:      funder,
			msg:         &FundMsg{Metadata: &fundpool.Metadata{Schema: 1}, Funder: funder.Address(), Amount: 300},
			wantBalance: 300,
		},
		"funder must sign": {
			signer:         other,
			msg:            &FundMsg{Metadata: &fundpool.Metadata{Schema: 1}, Funder: funder.Address(), Amount: 300},
			wantCheckErr:   errors.ErrUnauthorized,
			wantDeliverErr: errors.ErrUnauthorized,
		},
		"amount must be positive": {
			signer:         funder,
			msg:            &FundMsg{Metadata: &fundpool.Metadata{Schema: 1}, Funder: funder.Address()},
			wantCheckErr:   errors.ErrAmount,
			wantDeliverErr: errors.ErrAmount,
		},
		"metadata is required": {
			signer:         funder,
			msg:            &FundMsg{Funder: funder.Address(), Amount: 1},
			wantCheckErr:   errors.ErrMetadata,
			wantDeliverErr: errors.ErrMetadata,
		},
		"funder cannot deposit more than owned": {
			signer:         funder,
			msg:            &FundMsg{Metadata: &fundpool.Metadata{Schema: 1}, Funder: funder.Address(), Amount: 501},
			wantDeliverErr: errors.ErrTransfer,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			bank := cash.NewController(cash.NewWalletBucket())
			assert.Nil(t, bank.CoinMint(db, funder.Address(), 500))

			ctrl := NewController(bank)
			rt := &registry{handlers: map[string]fundpool.Handler{}}
			RegisterRoutes(rt, &fundpooltest.Auth{Signer: tc.signer}, ctrl)
			h := rt.handlers["matching/fund"]

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

			f, err := ctrl.Fund(db)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantBalance, f.Balance)
		})
	}
}

func TestUpdateConfiguration(t *testing.T) {
	owner := fundpooltest.NewCondition()
	db := store.MemStore()
	assert.Nil(t, gconf.Save(db, "matching", &Configuration{
		Metadata: &fundpool.Metadata{Schema: 1},
		Owner:    owner.Address(),
	}))

	rt := &registry{handlers: map[string]fundpool.Handler{}}
	RegisterRoutes(rt, &fundpooltest.Auth{Signer: owner}, NewController(cash.NewController(cash.NewWalletBucket())))
	h := rt.handlers["matching/update_configuration"]

	tx := &fundpooltest.Tx{Msg: &UpdateConfigurationMsg{
		Metadata: &fundpool.Metadata{Schema: 1},
		Patch:    &Configuration{MaxPayout: 77},
	}}
	_, err := h.Deliver(context.Background(), db, tx)
	assert.Nil(t, err)

	var conf Configuration
	assert.Nil(t, gconf.Load(db, "matching", &conf))
	assert.Equal(t, int64(77), conf.MaxPayout)
	assert.Equal(t, owner.Address(), conf.Owner)
}

func TestGenesis(t *testing.T) {
	owner := fundpooltest.NewCondition().Address()
	raw, err := json.Marshal(map[string]interface{}{
		"conf": map[string]interface{}{
			"matching": map[string]interface{}{
				"metadata": map[string]int{"schema": 1},
				"owner":    owner,
			},
		},
		"matching": map[string]int64{"balance": 10000},
	})
	assert.Nil(t, err)
	var opts fundpool.Options
	assert.Nil(t, json.Unmarshal(raw, &opts))

	db := store.MemStore()
	bank := cash.NewController(cash.NewWalletBucket())
	assert.Nil(t, Initializer{Minter: bank}.FromGenesis(opts, db))

	f, err := NewController(bank).Fund(db)
	assert.Nil(t, err)
	assert.Equal(t, int64(10000), f.Balance)
	held, err := bank.Balance(db, FundAccount)
	assert.Nil(t, err)
	assert.Equal(t, int64(10000), held)
}

// registry collects registered handlers by message path.
type registry struct {
	handlers map[string]fundpool.Handler
}

func (r *registry) Handle(m fundpool.Msg, h fundpool.Handler) {
	r.handlers[m.Path()] = h
}
