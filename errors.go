package rfcemail

import "errors"

var (
	// ErrInvalidDNSOptions is returned when WithDNS is called
	// with a negative Timeout or CacheTTL.
	ErrInvalidDNSOptions = errors.New("rfcemail: DNSOptions durations must not be negative")

	// ErrDNSLookup wraps a resolver failure. The DNS outcome of the address
	// is unknown, which is distinct from a confirmed missing record.
	ErrDNSLookup = errors.New("rfcemail: DNS lookup failed")
)
