package types

import (
	"fmt"
	"strconv"
)

// ErrorCode identifies a fatal grammar violation. The numeric values are
// stable and shared with other implementations of the same diagnostics.
type ErrorCode int

const (
	ConsecutiveAt        ErrorCode = 128
	ExpectingDTEXT       ErrorCode = 129
	NoLocalPart          ErrorCode = 130
	NoDomainPart         ErrorCode = 131
	ConsecutiveDot       ErrorCode = 132
	AtextAfterCFWS       ErrorCode = 133
	ExpectingATEXT       ErrorCode = 137
	DotAtStart           ErrorCode = 141
	DotAtEnd             ErrorCode = 142
	DomainHyphened       ErrorCode = 144
	UnclosedQuotedString ErrorCode = 145
	UnclosedComment      ErrorCode = 146
	CRLFX2               ErrorCode = 148
	CRLFAtEnd            ErrorCode = 149
	CRNoLF               ErrorCode = 150
	UnopenedComment      ErrorCode = 152
	CommentTooDeep       ErrorCode = 190
)

var errorNames = map[ErrorCode]string{
	ConsecutiveAt:        "ConsecutiveAt",
	ExpectingDTEXT:       "ExpectingDTEXT",
	NoLocalPart:          "NoLocalPart",
	NoDomainPart:         "NoDomainPart",
	ConsecutiveDot:       "ConsecutiveDot",
	AtextAfterCFWS:       "AtextAfterCFWS",
	ExpectingATEXT:       "ExpectingATEXT",
	DotAtStart:           "DotAtStart",
	DotAtEnd:             "DotAtEnd",
	DomainHyphened:       "DomainHyphened",
	UnclosedQuotedString: "UnclosedQuotedString",
	UnclosedComment:      "UnclosedComment",
	CRLFX2:               "CRLFX2",
	CRLFAtEnd:            "CRLFAtEnd",
	CRNoLF:               "CRNoLF",
	UnopenedComment:      "UnopenedComment",
	CommentTooDeep:       "CommentTooDeep",
}

func (c ErrorCode) String() string {
	if name, ok := errorNames[c]; ok {
		return name
	}
	return "ErrorCode(" + strconv.Itoa(int(c)) + ")"
}

// MarshalText encodes the code by name.
func (c ErrorCode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText accepts a code name as produced by MarshalText.
func (c *ErrorCode) UnmarshalText(text []byte) error {
	for code, name := range errorNames {
		if name == string(text) {
			*c = code
			return nil
		}
	}
	return fmt.Errorf("unknown error code %q", text)
}

// WarningCode identifies a grammar-legal but unusual construct, or the
// absence of a DNS record for the domain.
type WarningCode int

const (
	NoDNSRecord     WarningCode = 5
	QuotedString    WarningCode = 11
	AddressLiteral  WarningCode = 12
	IPV6Deprecated  WarningCode = 13
	Comment         WarningCode = 17
	CFWSWithFWS     WarningCode = 18
	QuotedPart      WarningCode = 36
	CFWSNearAt      WarningCode = 49
	LabelTooLong    WarningCode = 63
	LocalTooLong    WarningCode = 64
	EmailTooLong    WarningCode = 66
	DomainLiteral   WarningCode = 70
	ObsoleteDTEXT   WarningCode = 71
	IPV6GroupCount  WarningCode = 72
	IPV6DoubleColon WarningCode = 73
	IPV6BadChar     WarningCode = 74
	IPV6MaxGroups   WarningCode = 75
	IPV6ColonStart  WarningCode = 76
	IPV6ColonEnd    WarningCode = 77
	DomainTooLong   WarningCode = 255
)

var warningNames = map[WarningCode]string{
	NoDNSRecord:     "NoDNSRecord",
	QuotedString:    "QuotedString",
	AddressLiteral:  "AddressLiteral",
	IPV6Deprecated:  "IPV6Deprecated",
	Comment:         "Comment",
	CFWSWithFWS:     "CFWSWithFWS",
	QuotedPart:      "QuotedPart",
	CFWSNearAt:      "CFWSNearAt",
	LabelTooLong:    "LabelTooLong",
	LocalTooLong:    "LocalTooLong",
	EmailTooLong:    "EmailTooLong",
	DomainLiteral:   "DomainLiteral",
	ObsoleteDTEXT:   "ObsoleteDTEXT",
	IPV6GroupCount:  "IPV6GroupCount",
	IPV6DoubleColon: "IPV6DoubleColon",
	IPV6BadChar:     "IPV6BadChar",
	IPV6MaxGroups:   "IPV6MaxGroups",
	IPV6ColonStart:  "IPV6ColonStart",
	IPV6ColonEnd:    "IPV6ColonEnd",
	DomainTooLong:   "DomainTooLong",
}

func (c WarningCode) String() string {
	if name, ok := warningNames[c]; ok {
		return name
	}
	return "WarningCode(" + strconv.Itoa(int(c)) + ")"
}

// MarshalText encodes the code by name.
func (c WarningCode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText accepts a code name as produced by MarshalText.
func (c *WarningCode) UnmarshalText(text []byte) error {
	for code, name := range warningNames {
		if name == string(text) {
			*c = code
			return nil
		}
	}
	return fmt.Errorf("unknown warning code %q", text)
}

// FatalError is the first grammar violation found in an address.
// Offset is the byte offset at which it was detected.
type FatalError struct {
	Code   ErrorCode `json:"code"`
	Offset int       `json:"offset"`
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Code, e.Offset)
}
