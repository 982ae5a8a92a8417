package check

import (
	"context"
	"slices"

	"github.com/optimode/rfcemail/internal/parse"
	"github.com/optimode/rfcemail/types"
)

// SyntaxChecker reports the outcome of the RFC 5322 grammar as a check
// level. The grammar itself runs once per address, before any level.
type SyntaxChecker struct{}

func NewSyntaxChecker() *SyntaxChecker {
	return &SyntaxChecker{}
}

func (c *SyntaxChecker) Check(_ context.Context, email parse.Result) types.CheckResult {
	level := types.LevelSyntax

	if !email.Valid() {
		return types.CheckResult{
			Level:   level,
			Passed:  false,
			Details: email.Err.Error(),
			Error:   email.Err,
		}
	}

	return types.CheckResult{
		Level:    level,
		Passed:   true,
		Details:  "syntax ok",
		Warnings: slices.Clone(email.Warnings),
	}
}
