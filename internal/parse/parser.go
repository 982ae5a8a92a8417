// Package parse implements the RFC 5322 address grammar as a single-pass
// state machine over lexer tokens. It reports the first fatal violation or
// the ordered list of warnings for an acceptable address.
package parse

import (
	"errors"
	"strings"

	"github.com/optimode/rfcemail/internal/charclass"
	"github.com/optimode/rfcemail/internal/lexer"
	"github.com/optimode/rfcemail/internal/literal"
	"github.com/optimode/rfcemail/types"
)

// MaxCommentDepth is the deepest comment nesting accepted before the parser
// gives up with CommentTooDeep.
const MaxCommentDepth = 32

const (
	maxLocalLength  = 64
	maxLabelLength  = 63
	maxDomainLength = 255
	maxEmailLength  = 254
)

// Result is the outcome of parsing one address. Exactly one of Err and
// Address is meaningful: Address is only populated when Err is nil.
type Result struct {
	Raw      string
	Address  types.Address
	Err      *types.FatalError
	Warnings []types.WarningCode
}

// Valid reports whether the address passed the grammar.
func (r Result) Valid() bool {
	return r.Err == nil
}

type state uint8

const (
	stateLocalStart state = iota
	stateLocalAtext
	stateLocalDot
	stateLocalQuoted
	stateLocalQuotedEscaped
	stateLocalQuotedEnd
	stateComment
	stateCommentEscaped
	stateAfterAt
	stateDomainAtext
	stateDomainDot
	stateDomainLiteral
	stateDomainLiteralEscaped
	stateDomainLiteralEnd
	stateEnd
)

// cfwsRun is a maximal stretch of comments and folding white space outside
// quoted strings and literals. Its warning is decided when it ends.
type cfwsRun struct {
	active  bool
	fws     bool
	afterAt bool
}

type parser struct {
	lx            *lexer.Lexer
	international bool

	state  state
	resume state // restored when the outermost comment closes
	depth  int

	afterCFWS  bool // CFWS seen since the last significant token
	run        cfwsRun
	quotedFold bool // CFWSWithFWS reported for the open quoted string

	local        strings.Builder
	domain       strings.Builder
	literal      strings.Builder
	literalPos   int
	isLiteral    bool
	labelLen     int
	labelLast    rune
	labelLastPos int

	warnings []types.WarningCode
	err      *types.FatalError
}

// Parse validates address. With international set, non-ASCII code points
// are accepted wherever RFC 6531 allows them; otherwise they are rejected
// like any other character outside the ASCII classes. Bytes that are not
// valid UTF-8 are always rejected.
func Parse(address string, international bool) Result {
	p := &parser{lx: lexer.New(address), international: international}
	for p.err == nil && p.state != stateEnd {
		p.step(p.lx.Next())
	}

	res := Result{Raw: address}
	if p.err != nil {
		res.Err = p.err
		return res
	}
	res.Address = types.Address{
		LocalPart:  p.local.String(),
		DomainPart: p.domain.String(),
		Literal:    p.isLiteral,
	}
	res.Warnings = p.warnings
	return res
}

func (p *parser) fail(code types.ErrorCode, pos int) {
	if p.err == nil {
		p.err = &types.FatalError{Code: code, Offset: pos}
	}
}

func (p *parser) warn(code types.WarningCode) {
	p.warnings = append(p.warnings, code)
}

func (p *parser) quoted() bool {
	return p.state == stateLocalQuoted || p.state == stateLocalQuotedEscaped
}

func (p *parser) inLiteral() bool {
	return p.state == stateDomainLiteral || p.state == stateDomainLiteralEscaped
}

func (p *parser) step(tok lexer.Token) {
	switch tok.Kind {
	case lexer.EOF:
		p.finish(tok)
		return
	case lexer.Invalid:
		if p.inLiteral() {
			p.fail(types.ExpectingDTEXT, tok.Pos)
		} else {
			p.fail(types.ExpectingATEXT, tok.Pos)
		}
		return
	case lexer.CR:
		// Inside a quoted string a lone CR is obsolete folding white space.
		if !p.quoted() {
			p.fail(types.CRNoLF, tok.Pos)
			return
		}
	}

	switch p.state {
	case stateLocalStart, stateLocalAtext, stateLocalDot:
		p.localAtom(tok)
	case stateLocalQuoted:
		p.quotedText(tok)
	case stateLocalQuotedEscaped:
		if p.checkText(tok, types.ExpectingATEXT) {
			p.local.WriteString(tok.Text)
			p.state = stateLocalQuoted
		}
	case stateLocalQuotedEnd:
		p.quotedEnd(tok)
	case stateComment:
		p.comment(tok)
	case stateCommentEscaped:
		if p.checkText(tok, types.ExpectingATEXT) {
			p.state = stateComment
		}
	case stateAfterAt, stateDomainAtext, stateDomainDot:
		p.domainAtom(tok)
	case stateDomainLiteral:
		p.domainLiteral(tok)
	case stateDomainLiteralEscaped:
		if p.checkText(tok, types.ExpectingDTEXT) {
			p.literal.WriteString(tok.Text)
			p.state = stateDomainLiteral
		}
	case stateDomainLiteralEnd:
		if !p.cfws(tok) {
			p.fail(types.ExpectingATEXT, tok.Pos)
		}
	}
}

// cfws consumes folding white space and comment delimiters outside quoted
// strings and literals. It reports whether tok was one of them.
func (p *parser) cfws(tok lexer.Token) bool {
	switch tok.Kind {
	case lexer.Space, lexer.Tab, lexer.LF:
		p.openRun()
		p.run.fws = true
	case lexer.CRLF:
		if !p.checkFold(tok) {
			return true
		}
		p.openRun()
		p.run.fws = true
	case lexer.OpenParen:
		p.openRun()
		p.resume = p.state
		p.state = stateComment
		p.depth = 1
	case lexer.CloseParen:
		p.fail(types.UnopenedComment, tok.Pos)
	default:
		return false
	}
	p.afterCFWS = true
	return true
}

// checkFold requires the CRLF in tok to be followed by a space or tab.
func (p *parser) checkFold(tok lexer.Token) bool {
	next := p.lx.Peek()
	switch next.Kind {
	case lexer.Space, lexer.Tab:
		return true
	case lexer.CRLF:
		p.fail(types.CRLFX2, next.Pos)
	case lexer.EOF:
		p.fail(types.CRLFAtEnd, tok.Pos)
	default:
		p.fail(types.AtextAfterCFWS, next.Pos)
	}
	return false
}

func (p *parser) openRun() {
	if !p.run.active {
		p.run = cfwsRun{active: true, afterAt: p.state == stateAfterAt}
	}
}

// closeRun ends the pending CFWS run ahead of a significant token.
// CFWS touching the at-sign on either side is CFWSNearAt; any other run that
// contains folding white space is CFWSWithFWS. Pure comments add nothing
// here since each comment reported Comment when it closed.
func (p *parser) closeRun(beforeAt bool) {
	if !p.run.active {
		return
	}
	switch {
	case beforeAt || p.run.afterAt:
		p.warn(types.CFWSNearAt)
	case p.run.fws:
		p.warn(types.CFWSWithFWS)
	}
	p.run = cfwsRun{}
}

func (p *parser) localAtom(tok lexer.Token) {
	if p.cfws(tok) {
		return
	}

	switch tok.Kind {
	case lexer.At:
		switch p.state {
		case stateLocalStart:
			p.fail(types.NoLocalPart, tok.Pos)
		case stateLocalDot:
			p.fail(types.DotAtEnd, tok.Pos)
		default:
			p.at()
		}
	case lexer.Dot:
		switch p.state {
		case stateLocalStart:
			p.fail(types.DotAtStart, tok.Pos)
		case stateLocalDot:
			p.fail(types.ConsecutiveDot, tok.Pos)
		default:
			p.closeRun(false)
			p.afterCFWS = false
			p.local.WriteByte('.')
			p.state = stateLocalDot
		}
	case lexer.DQuote:
		if p.state == stateLocalAtext || (p.state == stateLocalDot && p.afterCFWS) {
			p.fail(types.ExpectingATEXT, tok.Pos)
			return
		}
		p.closeRun(false)
		p.afterCFWS = false
		p.local.WriteByte('"')
		p.warn(types.QuotedString)
		p.quotedFold = false
		p.state = stateLocalQuoted
	case lexer.Backslash:
		p.localQuotedPair(tok)
	default:
		if !charclass.IsATEXT(tok.Rune, p.international) {
			p.fail(types.ExpectingATEXT, tok.Pos)
			return
		}
		p.localText(tok.Pos, tok.Text)
	}
}

// localText appends atom text to the local part.
func (p *parser) localText(pos int, text string) bool {
	if p.afterCFWS && p.state != stateLocalStart {
		p.fail(types.AtextAfterCFWS, pos)
		return false
	}
	p.closeRun(false)
	p.afterCFWS = false
	p.local.WriteString(text)
	p.state = stateLocalAtext
	return true
}

// localQuotedPair handles a backslash outside quotes. It may only escape a
// character that could not otherwise appear in the atom.
func (p *parser) localQuotedPair(tok lexer.Token) {
	next := p.lx.Peek()
	switch {
	case next.Kind == lexer.CR:
		p.fail(types.CRNoLF, next.Pos)
		return
	case next.Kind == lexer.Space || next.Kind == lexer.Tab:
	case next.Kind == lexer.EOF || next.Kind == lexer.Invalid,
		!charclass.IsVCHAR(next.Rune),
		charclass.IsATEXT(next.Rune, p.international):
		p.fail(types.ExpectingATEXT, next.Pos)
		return
	}

	p.lx.Next()
	if !p.localText(tok.Pos, tok.Text+next.Text) {
		return
	}
	if next.Kind == lexer.Space || next.Kind == lexer.Tab {
		p.warn(types.QuotedPart)
	}
}

func (p *parser) at() {
	p.closeRun(true)
	p.afterCFWS = false
	if p.local.Len() > maxLocalLength {
		p.warn(types.LocalTooLong)
	}
	p.state = stateAfterAt
}

func (p *parser) quotedText(tok lexer.Token) {
	switch tok.Kind {
	case lexer.DQuote:
		p.local.WriteByte('"')
		p.state = stateLocalQuotedEnd
		return
	case lexer.Backslash:
		p.state = stateLocalQuotedEscaped
	case lexer.Space:
	case lexer.Tab, lexer.CR, lexer.LF, lexer.CRLF:
		if !p.quotedFold {
			p.warn(types.CFWSWithFWS)
			p.quotedFold = true
		}
	default:
		if !charclass.IsQTEXT(tok.Rune, p.international) {
			p.fail(types.ExpectingATEXT, tok.Pos)
			return
		}
	}
	p.local.WriteString(tok.Text)
}

// quotedEnd allows only CFWS and the at-sign after a closing quote.
func (p *parser) quotedEnd(tok lexer.Token) {
	if p.cfws(tok) {
		return
	}
	if tok.Kind == lexer.At {
		p.at()
		return
	}
	p.fail(types.ExpectingATEXT, tok.Pos)
}

func (p *parser) comment(tok lexer.Token) {
	switch tok.Kind {
	case lexer.OpenParen:
		p.depth++
		if p.depth > MaxCommentDepth {
			p.fail(types.CommentTooDeep, tok.Pos)
		}
	case lexer.CloseParen:
		p.depth--
		if p.depth == 0 {
			p.warn(types.Comment)
			p.state = p.resume
		}
	case lexer.Backslash:
		p.state = stateCommentEscaped
	case lexer.Space, lexer.Tab, lexer.LF:
		p.run.fws = true
	case lexer.CRLF:
		if p.checkFold(tok) {
			p.run.fws = true
		}
	default:
		p.checkText(tok, types.ExpectingATEXT)
	}
}

// checkText rejects non-ASCII text that is otherwise unrestricted, inside
// comments and after a backslash, unless international is set.
func (p *parser) checkText(tok lexer.Token, code types.ErrorCode) bool {
	if tok.Rune >= 0x80 && !p.international {
		p.fail(code, tok.Pos)
		return false
	}
	return true
}

func (p *parser) domainAtom(tok lexer.Token) {
	if p.cfws(tok) {
		return
	}

	switch tok.Kind {
	case lexer.At:
		p.fail(types.ConsecutiveAt, tok.Pos)
	case lexer.Dot:
		switch p.state {
		case stateAfterAt:
			p.fail(types.DotAtStart, tok.Pos)
		case stateDomainDot:
			p.fail(types.ConsecutiveDot, tok.Pos)
		default:
			if !p.endLabel() {
				return
			}
			p.closeRun(false)
			p.afterCFWS = false
			p.domain.WriteByte('.')
			p.state = stateDomainDot
		}
	case lexer.OpenBracket:
		if p.state != stateAfterAt {
			p.fail(types.ExpectingATEXT, tok.Pos)
			return
		}
		p.closeRun(false)
		p.afterCFWS = false
		p.literal.Reset()
		p.literalPos = tok.Pos + 1
		p.state = stateDomainLiteral
	default:
		if !charclass.IsDomainATEXT(tok.Rune, p.international) {
			p.fail(types.ExpectingATEXT, tok.Pos)
			return
		}
		if p.afterCFWS && p.state != stateAfterAt {
			p.fail(types.AtextAfterCFWS, tok.Pos)
			return
		}
		if p.state != stateDomainAtext {
			if tok.Rune == '-' {
				p.fail(types.DomainHyphened, tok.Pos)
				return
			}
			p.labelLen = 0
		}
		p.closeRun(false)
		p.afterCFWS = false
		p.domain.WriteString(tok.Text)
		p.labelLen += len(tok.Text)
		p.labelLast = tok.Rune
		p.labelLastPos = tok.Pos
		p.state = stateDomainAtext
	}
}

// endLabel applies the label rules once a label is complete.
func (p *parser) endLabel() bool {
	if p.labelLast == '-' {
		p.fail(types.DomainHyphened, p.labelLastPos)
		return false
	}
	if p.labelLen > maxLabelLength {
		p.warn(types.LabelTooLong)
	}
	return true
}

func (p *parser) domainLiteral(tok lexer.Token) {
	switch tok.Kind {
	case lexer.OpenBracket:
		p.fail(types.ExpectingDTEXT, tok.Pos)
		return
	case lexer.CloseBracket:
		p.closeLiteral(tok)
		return
	case lexer.Backslash:
		p.state = stateDomainLiteralEscaped
	case lexer.Space, lexer.Tab, lexer.LF:
	case lexer.CRLF:
		if !p.checkFold(tok) {
			return
		}
	default:
		if !charclass.IsDTEXT(tok.Rune, p.international) {
			p.fail(types.ExpectingDTEXT, tok.Pos)
			return
		}
	}
	p.literal.WriteString(tok.Text)
}

func (p *parser) closeLiteral(tok lexer.Token) {
	body := p.literal.String()
	res, err := literal.Validate(body, p.international)
	if err != nil {
		var fe *types.FatalError
		if errors.As(err, &fe) {
			p.fail(fe.Code, p.literalPos+fe.Offset)
		} else {
			p.fail(types.ExpectingDTEXT, tok.Pos)
		}
		return
	}
	p.warnings = append(p.warnings, res.Warnings...)
	p.domain.WriteString("[" + body + "]")
	p.isLiteral = true
	p.state = stateDomainLiteralEnd
}

func (p *parser) finish(tok lexer.Token) {
	switch p.state {
	case stateLocalStart:
		p.fail(types.NoLocalPart, tok.Pos)
	case stateLocalAtext, stateLocalDot, stateLocalQuotedEnd, stateAfterAt:
		p.fail(types.NoDomainPart, tok.Pos)
	case stateLocalQuoted, stateLocalQuotedEscaped:
		p.fail(types.UnclosedQuotedString, tok.Pos)
	case stateComment, stateCommentEscaped:
		p.fail(types.UnclosedComment, tok.Pos)
	case stateDomainDot:
		p.fail(types.DotAtEnd, tok.Pos)
	case stateDomainLiteral, stateDomainLiteralEscaped:
		p.fail(types.ExpectingDTEXT, tok.Pos)
	case stateDomainAtext:
		p.endLabel()
	}
	if p.err != nil {
		return
	}

	p.closeRun(false)
	if p.domain.Len() > maxDomainLength {
		p.warn(types.DomainTooLong)
	}
	if p.local.Len()+1+p.domain.Len() > maxEmailLength {
		p.warn(types.EmailTooLong)
	}
	p.state = stateEnd
}
