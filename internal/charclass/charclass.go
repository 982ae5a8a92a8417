// Package charclass classifies single code points against the RFC 5322
// character classes. With international set, every non-control code point
// at or above U+0080 joins the class as RFC 6531 allows.
package charclass

// RFC 5322 atext specials besides ASCII letters and digits.
const atextSpecials = "!#$%&'*+-/=?^_`{|}~"

// IsATEXT reports whether r may appear in an unquoted dot-atom.
func IsATEXT(r rune, international bool) bool {
	if isAlnum(r) {
		return true
	}
	if r < 0x80 {
		return isSpecial(r)
	}
	return isInternational(r, international)
}

// IsDomainATEXT is IsATEXT minus the characters rejected in domain labels:
// slash and curly braces.
func IsDomainATEXT(r rune, international bool) bool {
	switch r {
	case '/', '{', '}':
		return false
	}
	return IsATEXT(r, international)
}

// IsQTEXT reports whether r may appear unescaped inside a quoted string.
// Space and the folding white space characters are handled by the parser.
func IsQTEXT(r rune, international bool) bool {
	switch {
	case r == 33 || (r >= 35 && r <= 91) || (r >= 93 && r <= 126):
		return true
	case r < 0x80:
		return false
	}
	return isInternational(r, international)
}

// IsDTEXT reports whether r may appear unescaped inside a domain literal.
func IsDTEXT(r rune, international bool) bool {
	switch {
	case (r >= 33 && r <= 90) || (r >= 94 && r <= 126):
		return true
	case r < 0x80:
		return false
	}
	return isInternational(r, international)
}

// IsVCHAR reports whether r is a visible ASCII character.
func IsVCHAR(r rune) bool {
	return r >= 33 && r <= 126
}

// IsWSP reports whether r is a space or horizontal tab.
func IsWSP(r rune) bool {
	return r == ' ' || r == '\t'
}

// IsCTL reports whether r is in the C0 or C1 control set, DEL included.
func IsCTL(r rune) bool {
	return r < 0x20 || (r >= 0x7f && r <= 0x9f)
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func isSpecial(r rune) bool {
	for _, s := range atextSpecials {
		if r == s {
			return true
		}
	}
	return false
}

func isInternational(r rune, international bool) bool {
	return international && r >= 0x80 && !IsCTL(r)
}
