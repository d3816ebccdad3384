package gconf

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

func TestUpdateConfigurationHandler(t *testing.T) {
	cond := fundpooltest.NewCondition()

	cases := map[string]struct {
		// If Init is provided, initialize the database before running
		// handler code. Use nil to not provide initial state.
		Init ValidMarshaler

		Msg            fundpool.Msg
		MsgConditions  []fundpool.Condition
		WantCheckErr   *errors.Error
		WantDeliverErr *errors.Error

		// When not nil database state will be tested to contain the
		// exact version of the configuration.
		WantConfig *myconfig
	}{
		"success": {
			Init: &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
			Msg: &myconfigMsg{
				Patch: &myconfig{Owner: cond.Address(), Num: 333, Str: "boing!"},
			},
			MsgConditions: []fundpool.Condition{cond},
			WantConfig:    &myconfig{Owner: cond.Address(), Num: 333, Str: "boing!"},
		},
		"message must be signed by the configuration owner": {
			Init: &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
			Msg: &myconfigMsg{
				Patch: &myconfig{Owner: cond.Address(), Num: 1},
			},
			MsgConditions:  []fundpool.Condition{fundpooltest.NewCondition()},
			WantCheckErr:   errors.ErrUnauthorized,
			WantDeliverErr: errors.ErrUnauthorized,
		},
		"zero values are not updating the configuration": {
			Init: &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
			Msg: &myconfigMsg{
				Patch: &myconfig{Num: 7},
			},
			MsgConditions: []fundpool.Condition{cond},
			WantConfig:    &myconfig{Owner: cond.Address(), Num: 7, Str: "foobar"},
		},
		"ownership can be transferred": {
			Init: &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
			Msg: &myconfigMsg{
				Patch: &myconfig{Owner: fundpooltest.NewCondition().Address()},
			},
			MsgConditions: []fundpool.Condition{cond},
		},
		"configuration must exist": {
			Msg: &myconfigMsg{
				Patch: &myconfig{Owner: cond.Address(), Num: 1},
			},
			MsgConditions:  []fundpool.Condition{cond},
			WantCheckErr:   errors.ErrNotFound,
			WantDeliverErr: errors.ErrNotFound,
		},
		"patch is required": {
			Init:           &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
			Msg:            &myconfigMsg{},
			MsgConditions:  []fundpool.Condition{cond},
			WantCheckErr:   errors.ErrState,
			WantDeliverErr: errors.ErrState,
		},
		"invalid configuration is not accepted": {
			Init: &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
			Msg: &myconfigMsg{
				Patch: &myconfig{Num: -4},
			},
			MsgConditions:  []fundpool.Condition{cond},
			WantCheckErr:   errors.ErrModel,
			WantDeliverErr: errors.ErrModel,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()

			if tc.Init != nil {
				if err := Save(db, "mypkg", tc.Init); err != nil {
					t.Fatalf("cannot save initial configuration: %s", err)
				}
			}

			auth := &fundpooltest.CtxAuth{Key: "auth"}
			handler := NewUpdateConfigurationHandler("mypkg", &myconfig{}, auth)

			ctx := fundpool.WithHeight(context.Background(), 999)
			ctx = fundpool.WithChainID(ctx, "mychain-123")
			ctx = auth.SetConditions(ctx, tc.MsgConditions...)

			tx := &fundpooltest.Tx{Msg: tc.Msg}

			cache := db.CacheWrap()
			if _, err := handler.Check(ctx, cache, tx); !tc.WantCheckErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			cache.Discard()

			if _, err := handler.Deliver(ctx, db, tx); !tc.WantDeliverErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}

			if tc.WantConfig != nil {
				var got myconfig
				if err := Load(db, "mypkg", &got); err != nil {
					t.Fatalf("cannot load configuration from the database: %s", err)
				}
				assert.Equal(t, tc.WantConfig, &got)
			}
		})
	}
}

type myconfig struct {
	Owner fundpool.Address
	Num   int64
	Str   string
}

func (c *myconfig) GetOwner() fundpool.Address { return c.Owner }
func (c *myconfig) Marshal() ([]byte, error)   { return json.Marshal(c) }
func (c *myconfig) Unmarshal(raw []byte) error { return json.Unmarshal(raw, c) }

func (c *myconfig) Validate() error {
	if err := c.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if c.Num < 0 {
		return errors.Wrap(errors.ErrModel, "negative num")
	}
	return nil
}

type myconfigMsg struct {
	Patch *myconfig
}

var _ fundpool.Msg = (*myconfigMsg)(nil)

func (msg *myconfigMsg) Marshal() ([]byte, error)   { return json.Marshal(msg) }
func (msg *myconfigMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, msg) }
func (msg *myconfigMsg) Path() string               { return "myconfig" }

func (msg *myconfigMsg) Validate() error {
	if msg.Patch == nil {
		return nil
	}
	if msg.Patch.Num < 0 {
		return errors.Wrap(errors.ErrModel, "negative num")
	}
	return nil
}
