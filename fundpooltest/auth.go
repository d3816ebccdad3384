package fundpooltest

import (
	"context"

	"github.com/iov-one/fundpool"
)

// Auth is an x.Authenticator mock that reports a fixed set of signers,
// regardless of the context. Signers are reported first, Signer last.
type Auth struct {
	// Signer is a shortcut for a transaction with a single signature.
	Signer fundpool.Condition
	// Signers lists additional signing conditions.
	Signers []fundpool.Condition
}

func (a *Auth) GetConditions(fundpool.Context) []fundpool.Condition {
	if a.Signer == nil {
		return a.Signers
	}
	conds := make([]fundpool.Condition, 0, len(a.Signers)+1)
	conds = append(conds, a.Signers...)
	return append(conds, a.Signer)
}

func (a *Auth) HasAddress(ctx fundpool.Context, addr fundpool.Address) bool {
	return signedBy(a.GetConditions(ctx), addr)
}

// CtxAuth is an x.Authenticator mock that reads the signers from the
// context. A single handler instance can then be called on behalf of a pool
// admin, a donor or a winner by changing only the context.
type CtxAuth struct {
	// Key distinguishes independent authenticators sharing a context.
	Key string
}

type ctxAuthKey string

// SetConditions returns a context signed by the given conditions. Previous
// conditions stored under the same key are replaced.
func (a *CtxAuth) SetConditions(ctx fundpool.Context, conds ...fundpool.Condition) fundpool.Context {
	return context.WithValue(ctx, ctxAuthKey(a.Key), conds)
}

func (a *CtxAuth) GetConditions(ctx fundpool.Context) []fundpool.Condition {
	conds, _ := ctx.Value(ctxAuthKey(a.Key)).([]fundpool.Condition)
	if len(conds) == 0 {
		return nil
	}
	return conds
}

func (a *CtxAuth) HasAddress(ctx fundpool.Context, addr fundpool.Address) bool {
	return signedBy(a.GetConditions(ctx), addr)
}

func signedBy(conds []fundpool.Condition, addr fundpool.Address) bool {
	for _, c := range conds {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
