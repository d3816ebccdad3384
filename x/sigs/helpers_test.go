package sigs

import (
	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/fundpooltest"
)

// StdTx is a signed transaction carrying raw payload bytes.
type StdTx struct {
	fundpooltest.Tx
	Payload    []byte
	Signatures []*StdSignature
}

var _ SignedTx = (*StdTx)(nil)

func NewStdTx(payload []byte) *StdTx {
	return &StdTx{Payload: payload}
}

func (tx *StdTx) GetSignBytes() ([]byte, error) {
	return tx.Payload, nil
}

func (tx *StdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

// SigCheckHandler stores the seen signers on each call
type SigCheckHandler struct {
	Signers []fundpool.Condition
}

var _ fundpool.Handler = (*SigCheckHandler)(nil)

func (s *SigCheckHandler) Check(ctx fundpool.Context, store fundpool.KVStore, tx fundpool.Tx) (*fundpool.CheckResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &fundpool.CheckResult{}, nil
}

func (s *SigCheckHandler) Deliver(ctx fundpool.Context, store fundpool.KVStore, tx fundpool.Tx) (*fundpool.DeliverResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &fundpool.DeliverResult{}, nil
}
