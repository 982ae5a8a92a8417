package check

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"golang.org/x/net/idna"
)

// Resolver answers whether a domain has a record that mail could be
// delivered to. A nil error with false means the record is confirmed
// absent; a non-nil error means the outcome is unknown.
type Resolver interface {
	HasDeliverabilityRecord(ctx context.Context, domain string) (bool, error)
}

// Lookuper is the subset of *net.Resolver used by NetResolver.
type Lookuper interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// NetResolver is the production Resolver. A domain has a deliverability
// record when it publishes an MX record other than the RFC 7505 null MX,
// or, with fallbackToA, when it has no MX but resolves to an address.
type NetResolver struct {
	lookup      Lookuper
	fallbackToA bool
}

// NewNetResolver creates a resolver backed by the system DNS resolver.
func NewNetResolver(fallbackToA bool) *NetResolver {
	return NewNetResolverWithLookuper(&net.Resolver{}, fallbackToA)
}

// NewNetResolverWithLookuper is a test-oriented constructor that overrides
// the DNS client.
func NewNetResolverWithLookuper(l Lookuper, fallbackToA bool) *NetResolver {
	return &NetResolver{lookup: l, fallbackToA: fallbackToA}
}

func (r *NetResolver) HasDeliverabilityRecord(ctx context.Context, domain string) (bool, error) {
	// Unicode labels are looked up by their A-label form. A name that has
	// no A-label form cannot exist in DNS.
	name, err := idna.Lookup.ToASCII(strings.TrimSuffix(domain, "."))
	if err != nil || name == "" {
		return false, nil
	}

	mxs, err := r.lookup.LookupMX(ctx, name)
	switch {
	case err == nil:
		if isNullMX(mxs) {
			return false, nil
		}
		if len(mxs) > 0 {
			return true, nil
		}
	case isNotFound(err):
	default:
		return false, fmt.Errorf("MX lookup for %s: %w", name, err)
	}

	if !r.fallbackToA {
		return false, nil
	}
	addrs, err := r.lookup.LookupHost(ctx, name)
	switch {
	case err == nil:
		return len(addrs) > 0, nil
	case isNotFound(err):
		return false, nil
	default:
		return false, fmt.Errorf("host lookup for %s: %w", name, err)
	}
}

// isNullMX reports the single "." record that declares a domain accepts
// no mail.
func isNullMX(mxs []*net.MX) bool {
	return len(mxs) == 1 && (mxs[0].Host == "." || mxs[0].Host == "")
}

func isNotFound(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr) && dnsErr.IsNotFound
}
