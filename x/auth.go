// Package x holds the glue shared by the extensions: how handlers learn who
// authorized a transaction.
package x

import "github.com/iov-one/weave-swap"

// Authenticator extracts the conditions that were fulfilled for the
// current transaction. Handlers receive one in their constructor so that
// signatures (x/sigs) and program signers (x/pda) can be combined freely.
type Authenticator interface {
	// GetConditions returns every fulfilled condition.
	GetConditions(weave.Context) []weave.Condition
	// HasAddress returns true if any fulfilled condition has this address.
	HasAddress(weave.Context, weave.Address) bool
}

// MultiAuth combines several authenticators into one.
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth returns an authenticator that grants what any of impls grant.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls: impls}
}

func (m MultiAuth) GetConditions(ctx weave.Context) []weave.Condition {
	var res []weave.Condition
	for _, impl := range m.impls {
		res = append(res, impl.GetConditions(ctx)...)
	}
	return res
}

func (m MultiAuth) HasAddress(ctx weave.Context, addr weave.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// GetAddresses returns the addresses of all fulfilled conditions.
func GetAddresses(ctx weave.Context, auth Authenticator) []weave.Address {
	conds := auth.GetConditions(ctx)
	addrs := make([]weave.Address, len(conds))
	for i, c := range conds {
		addrs[i] = c.Address()
	}
	return addrs
}

// MainSigner returns the first fulfilled condition or nil. The signature
// decorator places the first signer of a transaction first.
func MainSigner(ctx weave.Context, auth Authenticator) weave.Condition {
	conds := auth.GetConditions(ctx)
	if len(conds) == 0 {
		return nil
	}
	return conds[0]
}

// HasAllAddresses returns true if every required address is authorized.
func HasAllAddresses(ctx weave.Context, auth Authenticator, required []weave.Address) bool {
	for _, r := range required {
		if !auth.HasAddress(ctx, r) {
			return false
		}
	}
	return true
}

// HasNAddresses returns true if at least n of the required addresses are
// authorized.
func HasNAddresses(ctx weave.Context, auth Authenticator, required []weave.Address, n int) bool {
	if n <= 0 {
		return true
	}
	for _, r := range required {
		if auth.HasAddress(ctx, r) {
			n--
			if n == 0 {
				return true
			}
		}
	}
	return false
}
