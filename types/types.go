// Package types contains the shared types for rfcemail.
// This package does not import anything from other rfcemail packages
// to avoid circular imports.
package types

// CheckLevel identifies the validation level.
type CheckLevel = string

const (
	LevelSyntax CheckLevel = "syntax"
	LevelDNS    CheckLevel = "dns"
)

// Address is a successfully parsed email address. LocalPart and DomainPart
// hold the significant text of each part: comments and folding white space
// outside quoted strings are dropped, quoted strings keep their quotes and
// escapes, and an address literal keeps its brackets.
type Address struct {
	LocalPart  string `json:"localPart"`
	DomainPart string `json:"domainPart"`
	Literal    bool   `json:"literal,omitempty"`
}

// String joins the two parts with an at-sign.
func (a Address) String() string {
	return a.LocalPart + "@" + a.DomainPart
}

// CheckResult is the outcome of a single validation level.
type CheckResult struct {
	Level    CheckLevel    `json:"level"`
	Passed   bool          `json:"passed"`
	Details  string        `json:"details,omitempty"`
	Error    *FatalError   `json:"error,omitempty"`
	Warnings []WarningCode `json:"warnings,omitempty"`
	// Err carries a resolver failure. It is set only by the DNS level when
	// lookup errors are not folded into NoDNSRecord.
	Err error `json:"-"`
}
