package x

import (
	"github.com/iov-one/custodian"
)

// Authenticator resolves which conditions are fulfilled for the current
// call. Handlers receive an implementation through their constructor so
// that the signature scheme stays pluggable.
type Authenticator interface {
	// GetConditions returns all conditions fulfilled within this call.
	GetConditions(custodian.Context) []custodian.Condition
	// HasAddress checks if any fulfilled condition matches this address.
	HasAddress(custodian.Context, custodian.Address) bool
}

// MultiAuth combines several Authenticators into one.
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetConditions collects the conditions of every chained Authenticator,
// in chain order.
func (m MultiAuth) GetConditions(ctx custodian.Context) []custodian.Condition {
	var res []custodian.Condition
	for _, impl := range m.impls {
		add := impl.GetConditions(ctx)
		if len(add) > 0 {
			res = append(res, add...)
		}
	}
	return res
}

// HasAddress returns true if any chained Authenticator matches.
func (m MultiAuth) HasAddress(ctx custodian.Context, addr custodian.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// GetAddresses returns the addresses of all fulfilled conditions.
func GetAddresses(ctx custodian.Context, auth Authenticator) []custodian.Address {
	perms := auth.GetConditions(ctx)
	addrs := make([]custodian.Address, len(perms))
	for i, p := range perms {
		addrs[i] = p.Address()
	}
	return addrs
}

// MainSigner returns the first fulfilled condition, or nil when the call
// carries no authentication at all.
func MainSigner(ctx custodian.Context, auth Authenticator) custodian.Condition {
	signers := auth.GetConditions(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// HasAllAddresses returns true if every required address is
// authenticated within this call.
func HasAllAddresses(ctx custodian.Context, auth Authenticator, required []custodian.Address) bool {
	for _, r := range required {
		if !auth.HasAddress(ctx, r) {
			return false
		}
	}
	return true
}

// HasAllConditions returns true if every required condition is fulfilled
// within this call.
func HasAllConditions(ctx custodian.Context, auth Authenticator, required []custodian.Condition) bool {
	return HasNConditions(ctx, auth, required, len(required))
}

// HasNConditions returns true if at least n of the requested conditions
// are fulfilled. This is the primitive behind threshold checks.
func HasNConditions(ctx custodian.Context, auth Authenticator, requested []custodian.Condition, n int) bool {
	if n <= 0 {
		return true
	}
	perms := auth.GetConditions(ctx)
	// n is small here, a linear scan is fine
	for _, perm := range requested {
		if hasPerm(perms, perm) {
			n--
			if n == 0 {
				return true
			}
		}
	}
	return false
}

func hasPerm(perms []custodian.Condition, perm custodian.Condition) bool {
	for _, p := range perms {
		if p.Equals(perm) {
			return true
		}
	}
	return false
}
