package check

import (
	"context"
	"fmt"
	"time"

	"github.com/optimode/rfcemail/internal/parse"
	"github.com/optimode/rfcemail/types"
)

// DNSConfig is the DNS checker configuration.
type DNSConfig struct {
	Timeout time.Duration
	// ErrorsAsNoRecord folds resolver failures into the NoDNSRecord
	// warning instead of reporting an unknown outcome.
	ErrorsAsNoRecord bool
}

// DNSChecker asks a Resolver whether the domain has a deliverability record.
// A missing record is a warning, never a failure of the level.
type DNSChecker struct {
	cfg      DNSConfig
	resolver Resolver
}

func NewDNSChecker(cfg DNSConfig, r Resolver) *DNSChecker {
	return &DNSChecker{cfg: cfg, resolver: r}
}

func (c *DNSChecker) Check(ctx context.Context, email parse.Result) types.CheckResult {
	level := types.LevelDNS

	if !email.Valid() {
		return types.CheckResult{Level: level, Passed: false, Details: "skipped: invalid email"}
	}

	// Address literals are not DNS names.
	if email.Address.Literal {
		return noRecord("address literal is not looked up")
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	found, err := c.resolver.HasDeliverabilityRecord(ctx, email.Address.DomainPart)
	if err != nil {
		details := fmt.Sprintf("lookup failed: %v", err)
		if c.cfg.ErrorsAsNoRecord {
			return noRecord(details)
		}
		return types.CheckResult{Level: level, Passed: false, Details: details, Err: err}
	}
	if !found {
		return noRecord("no deliverability record found")
	}
	return types.CheckResult{Level: level, Passed: true, Details: "deliverability record found"}
}

func noRecord(details string) types.CheckResult {
	return types.CheckResult{
		Level:    types.LevelDNS,
		Passed:   true,
		Details:  details,
		Warnings: []types.WarningCode{types.NoDNSRecord},
	}
}
