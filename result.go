package rfcemail

import "slices"

// Result is the full outcome of an email validation.
// Valid is false when the grammar found a fatal error, and in strict mode
// also when any warning was raised or the DNS outcome is unknown.
type Result struct {
	Email    string        `json:"email"`
	Valid    bool          `json:"valid"`
	Address  *Address      `json:"address,omitempty"`
	Error    *FatalError   `json:"error,omitempty"`
	Warnings []WarningCode `json:"warnings,omitempty"`
	Checks   []CheckResult `json:"checks"`
}

// FailedChecks returns those CheckResults that did not pass.
func (r Result) FailedChecks() []CheckResult {
	var out []CheckResult
	for _, c := range r.Checks {
		if !c.Passed {
			out = append(out, c)
		}
	}
	return out
}

// CheckFor returns the CheckResult for the given level, if it exists.
// The second return value indicates whether the given level was executed.
func (r Result) CheckFor(level CheckLevel) (CheckResult, bool) {
	for _, c := range r.Checks {
		if c.Level == level {
			return c, true
		}
	}
	return CheckResult{}, false
}

// HasWarning reports whether code was raised at any level.
func (r Result) HasWarning(code WarningCode) bool {
	return slices.Contains(r.Warnings, code)
}
