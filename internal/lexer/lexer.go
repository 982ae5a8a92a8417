// Package lexer splits an address into code point tokens with one token of
// lookahead. A CR immediately followed by LF is a single CRLF token; bytes
// that do not form valid UTF-8 become Invalid tokens.
package lexer

import "unicode/utf8"

// Kind tags a Token.
type Kind uint8

const (
	EOF Kind = iota
	Char
	Dot
	At
	DQuote
	Backslash
	OpenParen
	CloseParen
	OpenBracket
	CloseBracket
	Space
	Tab
	CR
	LF
	CRLF
	Invalid
)

var kindNames = [...]string{
	EOF:          "EOF",
	Char:         "Char",
	Dot:          "Dot",
	At:           "At",
	DQuote:       "DQuote",
	Backslash:    "Backslash",
	OpenParen:    "OpenParen",
	CloseParen:   "CloseParen",
	OpenBracket:  "OpenBracket",
	CloseBracket: "CloseBracket",
	Space:        "Space",
	Tab:          "Tab",
	CR:           "CR",
	LF:           "LF",
	CRLF:         "CRLF",
	Invalid:      "Invalid",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

var single = map[rune]Kind{
	'.':  Dot,
	'@':  At,
	'"':  DQuote,
	'\\': Backslash,
	'(':  OpenParen,
	')':  CloseParen,
	'[':  OpenBracket,
	']':  CloseBracket,
	' ':  Space,
	'\t': Tab,
	'\n': LF,
}

// Token is one lexical element. Pos is the byte offset of Text in the input.
type Token struct {
	Kind Kind
	Rune rune
	Text string
	Pos  int
}

// Lexer produces tokens left to right.
type Lexer struct {
	input   string
	pos     int
	peek    Token
	hasPeek bool
}

func New(input string) *Lexer {
	return &Lexer{input: input}
}

// Next consumes and returns the next token. At the end of input it keeps
// returning EOF.
func (l *Lexer) Next() Token {
	if l.hasPeek {
		l.hasPeek = false
		return l.peek
	}
	return l.scan()
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() Token {
	if !l.hasPeek {
		l.peek = l.scan()
		l.hasPeek = true
	}
	return l.peek
}

func (l *Lexer) scan() Token {
	start := l.pos
	if start >= len(l.input) {
		return Token{Kind: EOF, Pos: len(l.input)}
	}

	r, size := utf8.DecodeRuneInString(l.input[start:])
	l.pos += size
	tok := Token{Kind: Char, Rune: r, Pos: start}

	switch {
	case r == utf8.RuneError && size == 1:
		tok.Kind = Invalid
	case r == '\r':
		tok.Kind = CR
		if l.pos < len(l.input) && l.input[l.pos] == '\n' {
			l.pos++
			tok.Kind = CRLF
		}
	default:
		if k, ok := single[r]; ok {
			tok.Kind = k
		}
	}
	tok.Text = l.input[start:l.pos]
	return tok
}
