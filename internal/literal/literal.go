// Package literal validates the body of a bracketed domain literal:
// RFC 5321 IPv4 and IPv6 address literals and RFC 5322 general literals.
package literal

import (
	"strings"
	"unicode/utf8"

	"github.com/optimode/rfcemail/internal/charclass"
	"github.com/optimode/rfcemail/types"
)

// Kind is the subtype of a domain literal.
type Kind uint8

const (
	General Kind = iota
	IPv4
	IPv6
)

func (k Kind) String() string {
	switch k {
	case IPv4:
		return "IPv4"
	case IPv6:
		return "IPv6"
	}
	return "General"
}

const (
	ipv6Tag   = "IPv6:"
	maxGroups = 8
)

// Result describes a literal body that passed the character rules.
type Result struct {
	Kind Kind
	// Address is the body without folding white space or escapes. For IPv6
	// literals the tag is stripped.
	Address  string
	Warnings []types.WarningCode
}

// Validate checks the text between '[' and ']'. The returned error is a
// *types.FatalError with an offset relative to body; it is only produced for
// characters outside dtext, a CR without LF, a CRLF not followed by a space
// or tab, or an empty body. Everything
// else about the literal is reported as warnings, AddressLiteral first.
func Validate(body string, international bool) (Result, error) {
	clean, fws, obsolete, err := scan(body, international)
	if err != nil {
		return Result{}, err
	}

	res := Result{Warnings: []types.WarningCode{types.AddressLiteral}}
	if fws {
		res.Warnings = append(res.Warnings, types.CFWSWithFWS)
	}
	if obsolete {
		res.Warnings = append(res.Warnings, types.ObsoleteDTEXT)
	}

	switch {
	case isIPv4(clean):
		res.Kind = IPv4
		res.Address = clean
	case len(clean) >= len(ipv6Tag) && strings.EqualFold(clean[:len(ipv6Tag)], ipv6Tag):
		res.Kind = IPv6
		res.Address = clean[len(ipv6Tag):]
		res.Warnings = append(res.Warnings, checkIPv6(res.Address)...)
	default:
		res.Kind = General
		res.Address = clean
		res.Warnings = append(res.Warnings, types.DomainLiteral)
	}
	return res, nil
}

func scan(body string, international bool) (clean string, fws, obsolete bool, err error) {
	var b strings.Builder
	for i := 0; i < len(body); {
		r, size := utf8.DecodeRuneInString(body[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			return "", false, false, fatal(types.ExpectingDTEXT, i)
		case r == '\r':
			if i+1 < len(body) && body[i+1] == '\n' {
				if err := checkFold(body, i+2); err != nil {
					return "", false, false, err
				}
				fws = true
				i += 2
				continue
			}
			return "", false, false, fatal(types.CRNoLF, i)
		case r == '\n':
			// A bare LF is obs-dtext, not folding white space.
			obsolete = true
			b.WriteByte('\n')
		case charclass.IsWSP(r):
			fws = true
		case r == '\\':
			next, nsize := utf8.DecodeRuneInString(body[i+size:])
			if nsize == 0 || (next == utf8.RuneError && nsize == 1) {
				return "", false, false, fatal(types.ExpectingDTEXT, i)
			}
			if next == '\r' && !strings.HasPrefix(body[i+size:], "\r\n") {
				return "", false, false, fatal(types.CRNoLF, i+size)
			}
			obsolete = true
			b.WriteString(body[i+size : i+size+nsize])
			i += size + nsize
			continue
		case !charclass.IsDTEXT(r, international):
			return "", false, false, fatal(types.ExpectingDTEXT, i)
		default:
			b.WriteString(body[i : i+size])
		}
		i += size
	}
	if b.Len() == 0 {
		return "", false, false, fatal(types.ExpectingDTEXT, len(body))
	}
	return b.String(), fws, obsolete, nil
}

// checkFold requires the byte at i, which follows a CRLF, to be a space or
// tab. The end of body is the closing bracket.
func checkFold(body string, i int) error {
	switch {
	case i < len(body) && (body[i] == ' ' || body[i] == '\t'):
		return nil
	case strings.HasPrefix(body[i:], "\r\n"):
		return fatal(types.CRLFX2, i)
	default:
		return fatal(types.AtextAfterCFWS, i)
	}
}

// checkIPv6 applies the RFC 4291 group rules and the RFC 5952 restriction
// that "::" must not stand in for a single group.
func checkIPv6(ip string) []types.WarningCode {
	var warns []types.WarningCode
	if strings.HasPrefix(ip, ":") && !strings.HasPrefix(ip, "::") {
		warns = append(warns, types.IPV6ColonStart)
	}
	if strings.HasSuffix(ip, ":") && !strings.HasSuffix(ip, "::") {
		warns = append(warns, types.IPV6ColonEnd)
	}

	groups := strings.Split(ip, ":")
	// A trailing dotted quad takes the place of the last two groups.
	if last := groups[len(groups)-1]; strings.Contains(last, ".") && isIPv4(last) {
		groups = append(groups[:len(groups)-1], "0", "0")
	}
	for _, g := range groups {
		if !isHexGroup(g) {
			warns = append(warns, types.IPV6BadChar)
			break
		}
	}

	first := strings.Index(ip, "::")
	if first < 0 {
		if len(groups) != maxGroups {
			warns = append(warns, types.IPV6GroupCount)
		}
		return warns
	}
	if first != strings.LastIndex(ip, "::") {
		return append(warns, types.IPV6DoubleColon)
	}

	limit := maxGroups
	if first == 0 || first == len(ip)-2 {
		// A leading or trailing "::" splits into one extra empty group.
		limit++
	}
	switch {
	case len(groups) > limit:
		warns = append(warns, types.IPV6MaxGroups)
	case len(groups) == limit:
		warns = append(warns, types.IPV6Deprecated)
	}
	return warns
}

func isHexGroup(g string) bool {
	if len(g) > 4 {
		return false
	}
	for i := 0; i < len(g); i++ {
		c := g[i]
		if !(c >= '0' && c <= '9') && !(c >= 'a' && c <= 'f') && !(c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}

func isIPv4(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return false
	}
	for _, p := range parts {
		if len(p) == 0 || len(p) > 3 {
			return false
		}
		n := 0
		for i := 0; i < len(p); i++ {
			if p[i] < '0' || p[i] > '9' {
				return false
			}
			n = n*10 + int(p[i]-'0')
		}
		if n > 255 {
			return false
		}
	}
	return true
}

func fatal(code types.ErrorCode, offset int) error {
	return &types.FatalError{Code: code, Offset: offset}
}
