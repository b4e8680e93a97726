package custodiantest

import (
	"context"

	"github.com/iov-one/custodian"
)

// Auth is a mock implementing Authenticator interface.
//
// This structure authenticates any condition (or its address) that it holds.
type Auth struct {
	// Signer is condition that authenticates. This is a convenience
	// attribute when only one signer is needed.
	Signer custodian.Condition

	// Signers are conditions that authenticate. If you need only one
	// signer then the Signer attribute might be more convenient to use.
	Signers []custodian.Condition
}

func (a *Auth) signers() []custodian.Condition {
	if a.Signer != nil {
		return append(a.Signers, a.Signer)
	}
	return a.Signers
}

func (a *Auth) GetConditions(custodian.Context) []custodian.Condition {
	return a.signers()
}

func (a *Auth) HasAddress(ctx custodian.Context, addr custodian.Address) bool {
	for _, s := range a.signers() {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}

// CtxAuth is an Authenticator implementation that reads conditions from the
// context. Each instance is bound to a context key and only conditions
// stored under that key are visible.
type CtxAuth struct {
	Key string
}

// SetConditions returns a copy of given context with conditions attached.
func (a *CtxAuth) SetConditions(ctx custodian.Context, perms ...custodian.Condition) custodian.Context {
	return context.WithValue(ctx, a.Key, perms)
}

func (a *CtxAuth) GetConditions(ctx custodian.Context) []custodian.Condition {
	val := ctx.Value(a.Key)
	if val == nil {
		return nil
	}
	perms, ok := val.([]custodian.Condition)
	if !ok {
		panic("conditions stored in the context with an invalid type")
	}
	return perms
}

func (a *CtxAuth) HasAddress(ctx custodian.Context, addr custodian.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
