package rfcemail

import "time"

// DNSOptions configures the DNS validation level.
type DNSOptions struct {
	// Timeout is the maximum time for one domain lookup. Default: 5s
	Timeout time.Duration
	// FallbackToA when true accepts A/AAAA records when no MX record is found.
	// Default: false (strict MX requirement)
	FallbackToA bool
	// CacheTTL is how long a definitive answer is remembered. Default: 5m
	CacheTTL time.Duration
	// ErrorsAsNoRecord when true turns resolver failures into the
	// NoDNSRecord warning. Default: false, failures are reported as
	// ErrDNSLookup and the DNS outcome is unknown.
	ErrorsAsNoRecord bool
	// Nameserver, as host or host:port, is queried directly instead of the
	// system resolver. Default: "" (system resolver)
	Nameserver string
	// Resolver replaces DNS entirely; FallbackToA and Nameserver are ignored.
	// Default: nil
	Resolver Resolver
}

func defaultDNSOptions() DNSOptions {
	return DNSOptions{
		Timeout:          5 * time.Second,
		FallbackToA:      false,
		CacheTTL:         5 * time.Minute,
		ErrorsAsNoRecord: false,
	}
}

// ConcurrencyOptions configures concurrent processing for ValidateMany.
type ConcurrencyOptions struct {
	// Workers is the number of concurrent goroutines. Default: 5
	Workers int
}

func defaultConcurrencyOptions() ConcurrencyOptions {
	return ConcurrencyOptions{Workers: 5}
}
