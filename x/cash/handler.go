package cash

import (
	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/errors"
	"github.com/iov-one/fundpool/x"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r fundpool.Registry, auth x.Authenticator, control Controller) {
	r.Handle(&SendMsg{}, NewSendHandler(auth, control))
}

// SendHandler will handle sending coins
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ fundpool.Handler = SendHandler{}

// NewSendHandler creates a handler for SendMsg
func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{
		auth:    auth,
		control: control,
	}
}

// Check just verifies it is properly formed and signed by the source.
func (h SendHandler) Check(ctx fundpool.Context, store fundpool.KVStore, tx fundpool.Tx) (*fundpool.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &fundpool.CheckResult{}, nil
}

// Deliver moves the tokens from source to receiver if
// all preconditions are met
func (h SendHandler) Deliver(ctx fundpool.Context, store fundpool.KVStore, tx fundpool.Tx) (*fundpool.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.MoveCoins(store, msg.Source, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	return &fundpool.DeliverResult{}, nil
}

func (h SendHandler) validate(ctx fundpool.Context, tx fundpool.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := fundpool.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := x.RequireSigner(ctx, h.auth, "account owner", msg.Source); err != nil {
		return nil, err
	}
	return &msg, nil
}
