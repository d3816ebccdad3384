// Package x contains the authentication helpers shared by the fundpool
// extensions. Each extension lives in its own subpackage.
package x

import (
	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/errors"
)

// Authenticator extracts the conditions that authorized the current
// transaction. Handlers receive it in their constructor so that tests can
// replace signature checks with a mock.
type Authenticator interface {
	// GetConditions returns every condition that signed the transaction.
	GetConditions(fundpool.Context) []fundpool.Condition
	// HasAddress checks if any condition matches this address.
	HasAddress(fundpool.Context, fundpool.Address) bool
}

// HasAnyAddress returns true if at least one of the given addresses signed
// the transaction. Empty addresses are ignored, so an optional role that is
// not configured never authorizes anyone.
func HasAnyAddress(ctx fundpool.Context, auth Authenticator, candidates ...fundpool.Address) bool {
	for _, c := range candidates {
		if len(c) != 0 && auth.HasAddress(ctx, c) {
			return true
		}
	}
	return false
}

// RequireSigner returns ErrUnauthorized unless addr signed the transaction.
// Role names the principal in the returned error, for example "pool admin".
func RequireSigner(ctx fundpool.Context, auth Authenticator, role string, addr fundpool.Address) error {
	if HasAnyAddress(ctx, auth, addr) {
		return nil
	}
	return errors.Wrapf(errors.ErrUnauthorized, "%s signature missing", role)
}

// RequireAnySigner returns ErrUnauthorized unless at least one of the
// candidates signed the transaction. Roles describes the candidates, for
// example "pool admin or owner".
func RequireAnySigner(ctx fundpool.Context, auth Authenticator, roles string, candidates ...fundpool.Address) error {
	if HasAnyAddress(ctx, auth, candidates...) {
		return nil
	}
	return errors.Wrapf(errors.ErrUnauthorized, "%s signature missing", roles)
}
