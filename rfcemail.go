// Package rfcemail validates email addresses against the RFC 5322 grammar,
// with RFC 5321 address literals and RFC 6531 internationalized addresses.
// Instead of a bare boolean it diagnoses the first grammar violation, or the
// non-fatal irregularities of an acceptable address, as stable codes.
//
// Basic usage:
//
//	result, err := rfcemail.New().Validate(ctx, "user@example.com")
//
// With a DNS check, rejecting any warning:
//
//	result, err := rfcemail.New().
//	    WithDNS().
//	    Strict().
//	    Validate(ctx, "user@example.com")
//
// Stateful usage mirroring a boolean validator:
//
//	v := rfcemail.New()
//	if !v.IsValid(ctx, email, false, false) {
//	    log.Println(v.LastError())
//	}
package rfcemail

import (
	"github.com/optimode/rfcemail/check"
	"github.com/optimode/rfcemail/types"
)

// CheckResult is a re-export from the types package so that consumers
// don't need to import the types package directly.
type CheckResult = types.CheckResult

// CheckLevel is a re-export.
type CheckLevel = types.CheckLevel

// Address is a re-export.
type Address = types.Address

// ErrorCode is a re-export.
type ErrorCode = types.ErrorCode

// WarningCode is a re-export.
type WarningCode = types.WarningCode

// FatalError is a re-export.
type FatalError = types.FatalError

// Resolver answers whether a domain has a deliverability record.
type Resolver = check.Resolver

// Level constants re-exported.
const (
	LevelSyntax = types.LevelSyntax
	LevelDNS    = types.LevelDNS
)

// Error codes re-exported.
const (
	ConsecutiveAt        = types.ConsecutiveAt
	ExpectingDTEXT       = types.ExpectingDTEXT
	NoLocalPart          = types.NoLocalPart
	NoDomainPart         = types.NoDomainPart
	ConsecutiveDot       = types.ConsecutiveDot
	AtextAfterCFWS       = types.AtextAfterCFWS
	ExpectingATEXT       = types.ExpectingATEXT
	DotAtStart           = types.DotAtStart
	DotAtEnd             = types.DotAtEnd
	DomainHyphened       = types.DomainHyphened
	UnclosedQuotedString = types.UnclosedQuotedString
	UnclosedComment      = types.UnclosedComment
	CRLFX2               = types.CRLFX2
	CRLFAtEnd            = types.CRLFAtEnd
	CRNoLF               = types.CRNoLF
	UnopenedComment      = types.UnopenedComment
	CommentTooDeep       = types.CommentTooDeep
)

// Warning codes re-exported.
const (
	NoDNSRecord     = types.NoDNSRecord
	QuotedString    = types.QuotedString
	AddressLiteral  = types.AddressLiteral
	IPV6Deprecated  = types.IPV6Deprecated
	Comment         = types.Comment
	CFWSWithFWS     = types.CFWSWithFWS
	QuotedPart      = types.QuotedPart
	CFWSNearAt      = types.CFWSNearAt
	LabelTooLong    = types.LabelTooLong
	LocalTooLong    = types.LocalTooLong
	EmailTooLong    = types.EmailTooLong
	DomainLiteral   = types.DomainLiteral
	ObsoleteDTEXT   = types.ObsoleteDTEXT
	IPV6GroupCount  = types.IPV6GroupCount
	IPV6DoubleColon = types.IPV6DoubleColon
	IPV6BadChar     = types.IPV6BadChar
	IPV6MaxGroups   = types.IPV6MaxGroups
	IPV6ColonStart  = types.IPV6ColonStart
	IPV6ColonEnd    = types.IPV6ColonEnd
	DomainTooLong   = types.DomainTooLong
)
