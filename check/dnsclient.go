package check

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"
)

// ClientLookuper is a Lookuper that queries one nameserver directly instead
// of going through the system resolver. Its answers are reported with the
// same error shapes as *net.Resolver, so NetResolver treats both alike.
type ClientLookuper struct {
	client *dns.Client
	server string
}

// NewClientLookuper creates a Lookuper for server, given as host or
// host:port (port 53 when omitted).
func NewClientLookuper(server string, timeout time.Duration) *ClientLookuper {
	if _, _, err := net.SplitHostPort(server); err != nil {
		server = net.JoinHostPort(server, "53")
	}
	return &ClientLookuper{
		client: &dns.Client{Timeout: timeout},
		server: server,
	}
}

func (l *ClientLookuper) LookupMX(ctx context.Context, name string) ([]*net.MX, error) {
	answer, err := l.query(ctx, name, dns.TypeMX)
	if err != nil {
		return nil, err
	}
	var mxs []*net.MX
	for _, rr := range answer {
		if mx, ok := rr.(*dns.MX); ok {
			mxs = append(mxs, &net.MX{Host: mx.Mx, Pref: mx.Preference})
		}
	}
	if len(mxs) == 0 {
		return nil, notFoundError(name, l.server)
	}
	return mxs, nil
}

func (l *ClientLookuper) LookupHost(ctx context.Context, host string) ([]string, error) {
	var addrs []string
	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		answer, err := l.query(ctx, host, qtype)
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return nil, err
		}
		for _, rr := range answer {
			switch rr := rr.(type) {
			case *dns.A:
				addrs = append(addrs, rr.A.String())
			case *dns.AAAA:
				addrs = append(addrs, rr.AAAA.String())
			}
		}
	}
	if len(addrs) == 0 {
		return nil, notFoundError(host, l.server)
	}
	return addrs, nil
}

func (l *ClientLookuper) query(ctx context.Context, name string, qtype uint16) ([]dns.RR, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), qtype)
	m.RecursionDesired = true

	in, _, err := l.client.ExchangeContext(ctx, m, l.server)
	if err != nil {
		return nil, &net.DNSError{Err: err.Error(), Name: name, Server: l.server, IsTimeout: isTimeout(err)}
	}
	switch in.Rcode {
	case dns.RcodeSuccess:
		return in.Answer, nil
	case dns.RcodeNameError:
		return nil, notFoundError(name, l.server)
	default:
		return nil, &net.DNSError{
			Err:         fmt.Sprintf("server answered %s", dns.RcodeToString[in.Rcode]),
			Name:        name,
			Server:      l.server,
			IsTemporary: in.Rcode == dns.RcodeServerFailure,
		}
	}
}

func notFoundError(name, server string) error {
	return &net.DNSError{Err: "no such host", Name: name, Server: server, IsNotFound: true}
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
