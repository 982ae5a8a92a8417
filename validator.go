package rfcemail

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/optimode/rfcemail/check"
	"github.com/optimode/rfcemail/internal/dnscache"
	"github.com/optimode/rfcemail/internal/parse"
	"github.com/optimode/rfcemail/types"
)

// checker is the internal interface for all validation levels.
// Every check/ package type implements this.
type checker interface {
	Check(ctx context.Context, email parse.Result) types.CheckResult
}

// Validator is the main fluent builder struct.
// Instantiate with the New() function. A configured Validator is safe for
// concurrent use; the Last* accessors reflect the most recent IsValid call.
type Validator struct {
	international bool
	strict        bool
	syntax        checker
	dns           checker
	err           error // configuration error, returned on Validate()
	log           logrus.FieldLogger

	defaultDNSOnce sync.Once
	defaultDNS     checker

	mu           sync.Mutex
	lastErr      *FatalError
	lastWarnings []WarningCode
	lastDNSErr   error
}

// New creates a new Validator. By default it only performs syntax checking
// and accepts internationalized (RFC 6531) addresses.
// Syntax checking always runs and cannot be disabled, because a valid email
// address is a prerequisite for the other levels.
func New() *Validator {
	return &Validator{
		international: true,
		syntax:        check.NewSyntaxChecker(),
		log:           discardLogger(),
	}
}

// ASCIIOnly rejects non-ASCII characters anywhere in the address.
func (v *Validator) ASCIIOnly() *Validator {
	v.international = false
	return v
}

// Strict makes any warning, including NoDNSRecord, fail the address.
func (v *Validator) Strict() *Validator {
	v.strict = true
	return v
}

// WithLogger sets the logger receiving one debug entry per check and a
// warning per failed DNS lookup. A nil logger discards output.
func (v *Validator) WithLogger(l logrus.FieldLogger) *Validator {
	if l == nil {
		l = discardLogger()
	}
	v.log = l
	return v
}

// WithDNS adds the deliverability record lookup to the pipeline.
// Optionally overrides the default DNSOptions; zero durations take the
// defaults. Lookup results are cached and shared between concurrent calls.
func (v *Validator) WithDNS(opts ...DNSOptions) *Validator {
	o := defaultDNSOptions()
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.Timeout < 0 || o.CacheTTL < 0 {
		v.err = ErrInvalidDNSOptions
		return v
	}

	// Apply defaults for unset values
	def := defaultDNSOptions()
	if o.Timeout == 0 {
		o.Timeout = def.Timeout
	}
	if o.CacheTTL == 0 {
		o.CacheTTL = def.CacheTTL
	}

	v.err = nil
	v.dns = newDNSChecker(o)
	return v
}

func newDNSChecker(o DNSOptions) *check.DNSChecker {
	r := o.Resolver
	switch {
	case r != nil:
	case o.Nameserver != "":
		r = check.NewNetResolverWithLookuper(check.NewClientLookuper(o.Nameserver, o.Timeout), o.FallbackToA)
	default:
		r = check.NewNetResolver(o.FallbackToA)
	}
	return check.NewDNSChecker(
		check.DNSConfig{
			Timeout:          o.Timeout,
			ErrorsAsNoRecord: o.ErrorsAsNoRecord,
		},
		dnscache.New(r, o.Timeout, o.CacheTTL),
	)
}

// Validate runs all configured checks on the given email.
// A grammar error short-circuits the pipeline. The returned error is a
// configuration error, or a wrapped ErrDNSLookup when the resolver failed;
// in the latter case the Result is still populated.
// Context can be used for timeout or cancellation.
func (v *Validator) Validate(ctx context.Context, email string) (Result, error) {
	if v.err != nil {
		return Result{}, v.err
	}
	return v.run(ctx, email, v.dns, v.strict)
}

func (v *Validator) run(ctx context.Context, email string, dns checker, strict bool) (Result, error) {
	parsed := parse.Parse(email, v.international)
	result := Result{Email: email}

	cr := v.syntax.Check(ctx, parsed)
	result.Checks = append(result.Checks, cr)
	v.logCheck(email, cr)
	if !cr.Passed {
		result.Error = cr.Error
		return result, nil // short-circuit
	}

	addr := parsed.Address
	result.Address = &addr
	result.Warnings = append(result.Warnings, cr.Warnings...)
	result.Valid = true

	var err error
	if dns != nil {
		dr := dns.Check(ctx, parsed)
		result.Checks = append(result.Checks, dr)
		v.logCheck(email, dr)
		result.Warnings = append(result.Warnings, dr.Warnings...)
		if dr.Err != nil {
			v.log.WithError(dr.Err).WithField("email", email).Warn("dns lookup failed")
			err = fmt.Errorf("%w: %w", ErrDNSLookup, dr.Err)
		}
		// An unknown DNS outcome only fails strict validation.
		if !dr.Passed && strict {
			result.Valid = false
		}
	}

	if strict && len(result.Warnings) > 0 {
		result.Valid = false
	}
	return result, err
}

func (v *Validator) logCheck(email string, cr types.CheckResult) {
	v.log.WithFields(logrus.Fields{
		"email":  email,
		"check":  cr.Level,
		"passed": cr.Passed,
	}).Debug(cr.Details)
}

// IsValid validates email and records the outcome for LastError,
// LastWarnings and LastDNSError. checkDNS enables the DNS level for this
// call, using the WithDNS configuration or the defaults; strict escalates
// any warning to invalid. A Validator with a configuration error reports
// every address as invalid.
func (v *Validator) IsValid(ctx context.Context, email string, checkDNS, strict bool) bool {
	if v.err != nil {
		v.record(nil, nil, v.err)
		return false
	}

	var dns checker
	if checkDNS {
		dns = v.dns
		if dns == nil {
			dns = v.lazyDNS()
		}
	}

	res, err := v.run(ctx, email, dns, strict)
	v.record(res.Error, res.Warnings, err)
	return res.Valid
}

func (v *Validator) lazyDNS() checker {
	v.defaultDNSOnce.Do(func() {
		v.defaultDNS = newDNSChecker(defaultDNSOptions())
	})
	return v.defaultDNS
}

func (v *Validator) record(fe *FatalError, warnings []WarningCode, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lastErr = fe
	v.lastWarnings = warnings
	v.lastDNSErr = err
}

// LastError returns the fatal grammar error of the last IsValid call, or nil.
func (v *Validator) LastError() *FatalError {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastErr
}

// LastWarnings returns the ordered warnings of the last IsValid call.
func (v *Validator) LastWarnings() []WarningCode {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.lastWarnings)
}

// LastDNSError returns the error of the last IsValid call when the DNS
// outcome was unknown or the Validator is misconfigured, or nil.
func (v *Validator) LastDNSError() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastDNSErr
}

// ValidateMany validates multiple emails concurrently.
// The result order matches the input slice order.
// Emails are sorted by domain internally for optimal DNS cache utilization.
// Every result is populated even when some lookups fail; the first such
// error is returned.
func (v *Validator) ValidateMany(ctx context.Context, emails []string, opts ...ConcurrencyOptions) ([]Result, error) {
	if v.err != nil {
		return nil, v.err
	}

	workers := defaultConcurrencyOptions().Workers
	if len(opts) > 0 && opts[0].Workers > 0 {
		workers = opts[0].Workers
	}

	results := make([]Result, len(emails))
	type job struct {
		idx    int
		email  string
		domain string
	}

	// Build and sort jobs by domain for cache locality
	jobSlice := make([]job, len(emails))
	for i, e := range emails {
		domain := ""
		if atIdx := strings.LastIndex(e, "@"); atIdx >= 0 {
			domain = strings.ToLower(e[atIdx+1:])
		}
		jobSlice[i] = job{idx: i, email: e, domain: domain}
	}
	sort.SliceStable(jobSlice, func(i, j int) bool {
		return jobSlice[i].domain < jobSlice[j].domain
	})

	// Feed sorted jobs into bounded channel
	bufSize := len(emails)
	if bufSize > 1000 {
		bufSize = 1000
	}
	jobs := make(chan job, bufSize)
	go func() {
		for _, j := range jobSlice {
			jobs <- j
		}
		close(jobs)
	}()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				res, err := v.Validate(ctx, j.email)
				results[j.idx] = res
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = fmt.Errorf("validating %q: %w", j.email, err)
					}
					mu.Unlock()
				}
			}
		}()
	}

	wg.Wait()
	return results, firstErr
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
