package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/optimode/rfcemail"
)

type checkOptions struct {
	dns             bool
	strict          bool
	ascii           bool
	json            bool
	fallbackA       bool
	errorsAsWarning bool
	workers         int
	timeout         time.Duration
	nameserver      string
}

func newCheckCommand(logLevel *string) *cobra.Command {
	var o checkOptions

	cmd := &cobra.Command{
		Use:   "check [address...]",
		Short: "Validate email addresses",
		Long: `Validates the addresses given as arguments, or one address per line read
from standard input when there are none.

Each address produces one line:
  valid <address> [warnings=<Code>,...]
  invalid <address> error=<Code> offset=<N>

The exit status is non-zero when any address is invalid.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(*logLevel, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			addrs := args
			if len(addrs) == 0 {
				if addrs, err = readAddresses(cmd.InOrStdin()); err != nil {
					return err
				}
			}
			return runCheck(cmd.Context(), cmd.OutOrStdout(), logger, addrs, o)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&o.dns, "dns", false, "look up a deliverability record for each domain")
	f.BoolVar(&o.strict, "strict", false, "treat any warning as invalid")
	f.BoolVar(&o.ascii, "ascii", false, "reject non-ASCII addresses")
	f.BoolVar(&o.json, "json", false, "print one JSON result per line")
	f.BoolVar(&o.fallbackA, "fallback-a", false, "accept an A/AAAA record when there is no MX")
	f.BoolVar(&o.errorsAsWarning, "dns-errors-as-warning", false,
		"report failed lookups as NoDNSRecord instead of an unknown outcome")
	f.IntVar(&o.workers, "workers", 5, "number of concurrent validations")
	f.DurationVar(&o.timeout, "timeout", 5*time.Second, "timeout for each DNS lookup")
	f.StringVar(&o.nameserver, "nameserver", "", "query this host[:port] instead of the system resolver")
	return cmd
}

func readAddresses(r io.Reader) ([]string, error) {
	var addrs []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if line == "" {
			continue
		}
		addrs = append(addrs, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading addresses: %w", err)
	}
	return addrs, nil
}

func runCheck(ctx context.Context, out io.Writer, logger logrus.FieldLogger, addrs []string, o checkOptions) error {
	v := rfcemail.New().WithLogger(logger)
	if o.ascii {
		v.ASCIIOnly()
	}
	if o.strict {
		v.Strict()
	}
	if o.dns {
		v.WithDNS(rfcemail.DNSOptions{
			Timeout:          o.timeout,
			FallbackToA:      o.fallbackA,
			ErrorsAsNoRecord: o.errorsAsWarning,
			Nameserver:       o.nameserver,
		})
	}

	results, err := v.ValidateMany(ctx, addrs, rfcemail.ConcurrencyOptions{Workers: o.workers})
	// Lookup failures are already logged and shown per address.
	if err != nil && !errors.Is(err, rfcemail.ErrDNSLookup) {
		return err
	}

	invalid := 0
	enc := json.NewEncoder(out)
	for _, r := range results {
		if !r.Valid {
			invalid++
		}
		if o.json {
			if err := enc.Encode(r); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintln(out, formatResult(r)); err != nil {
			return err
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d addresses invalid", invalid, len(results))
	}
	return nil
}

func formatResult(r rfcemail.Result) string {
	var b strings.Builder
	if r.Valid {
		b.WriteString("valid ")
	} else {
		b.WriteString("invalid ")
	}
	b.WriteString(formatAddress(r.Email))

	if r.Error != nil {
		fmt.Fprintf(&b, " error=%s offset=%d", r.Error.Code, r.Error.Offset)
		return b.String()
	}
	if len(r.Warnings) > 0 {
		names := make([]string, len(r.Warnings))
		for i, w := range r.Warnings {
			names[i] = w.String()
		}
		b.WriteString(" warnings=" + strings.Join(names, ","))
	}
	if dns, ok := r.CheckFor(rfcemail.LevelDNS); ok && !dns.Passed {
		b.WriteString(" dns=unknown")
	}
	return b.String()
}

// formatAddress quotes addresses that would not survive as one output field.
func formatAddress(addr string) string {
	if addr == "" || strings.IndexFunc(addr, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}) >= 0 {
		return strconv.Quote(addr)
	}
	return addr
}
