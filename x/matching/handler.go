package matching

import (
	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/errors"
	"github.com/iov-one/fundpool/gconf"
	"github.com/iov-one/fundpool/x"
)

// RegisterRoutes registers handlers for matching fund message processing.
func RegisterRoutes(r fundpool.Registry, auth x.Authenticator, ctrl Controller) {
	r.Handle(&FundMsg{}, &fundHandler{auth: auth, ctrl: ctrl})
	r.Handle(&UpdateConfigurationMsg{}, gconf.NewUpdateConfigurationHandler("matching", &Configuration{}, auth))
}

type fundHandler struct {
	auth x.Authenticator
	ctrl Controller
}

func (h *fundHandler) Check(ctx fundpool.Context, db fundpool.KVStore, tx fundpool.Tx) (*fundpool.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &fundpool.CheckResult{}, nil
}

func (h *fundHandler) Deliver(ctx fundpool.Context, db fundpool.KVStore, tx fundpool.Tx) (*fundpool.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Deposit(db, msg.Funder, msg.Amount); err != nil {
		return nil, err
	}
	fundpool.GetLogger(ctx).Debug("matching fund deposit", "funder", msg.Funder, "amount", msg.Amount)
	return &fundpool.DeliverResult{}, nil
}

func (h *fundHandler) validate(ctx fundpool.Context, tx fundpool.Tx) (*FundMsg, error) {
	var msg FundMsg
	if err := fundpool.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := x.RequireSigner(ctx, h.auth, "funder", msg.Funder); err != nil {
		return nil, err
	}
	return &msg, nil
}
