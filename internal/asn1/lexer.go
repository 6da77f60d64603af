// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package asn1

import (
	"fmt"
	"strings"
)

// LexError is fatal: the input contains something that is not an X.680
// lexical item.
type LexError struct {
	Line int
	Text string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexical error at line %d: %q", e.Line, e.Text)
}

// pyquoteMarker introduces a pass-through comment. The body of a comment
// beginning with the marker survives lexing as a PYQUOTE token.
const pyquoteMarker = "PYQUOTE"

// Lexer scans a single ASN.1 source buffer.
type Lexer struct {
	src  string
	pos  int
	line int
}

func NewLexer(src []byte) *Lexer {
	return &Lexer{src: string(src), line: 1}
}

// Tokens scans the whole buffer. Comments other than PYQUOTE carriers are
// discarded; whitespace only advances the line counter.
func Tokens(src []byte) ([]Token, error) {
	lx := NewLexer(src)
	var toks []Token
	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks, nil
		}
	}
}

// Next returns the next token, or EOF.
func (lx *Lexer) Next() (Token, error) {
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			lx.pos++
		case c == '\n':
			lx.line++
			lx.pos++
		case c == '-' && lx.peekAt(1) == '-':
			if tok, ok := lx.comment(); ok {
				return tok, nil
			}
		default:
			return lx.item()
		}
	}
	return Token{Kind: EOF, Line: lx.line}, nil
}

func (lx *Lexer) peekAt(n int) byte {
	if lx.pos+n < len(lx.src) {
		return lx.src[lx.pos+n]
	}
	return 0
}

// comment consumes "--" through the closing "--", end of line, or end of
// input. It returns a token only for PYQUOTE carriers.
func (lx *Lexer) comment() (Token, bool) {
	line := lx.line
	lx.pos += 2
	start := lx.pos
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		if c == '\n' {
			break
		}
		if c == '-' && lx.peekAt(1) == '-' {
			body := lx.src[start:lx.pos]
			lx.pos += 2
			return lx.pyquote(body, line)
		}
		lx.pos++
	}
	return lx.pyquote(lx.src[start:lx.pos], line)
}

func (lx *Lexer) pyquote(body string, line int) (Token, bool) {
	if !strings.HasPrefix(body, pyquoteMarker) {
		return Token{}, false
	}
	text := strings.TrimLeft(body[len(pyquoteMarker):], " \t")
	return Token{Kind: PyQuote, Text: text, Line: line}, true
}

func (lx *Lexer) item() (Token, error) {
	c := lx.src[lx.pos]
	switch {
	case c == ':':
		if lx.peekAt(1) == ':' && lx.peekAt(2) == '=' {
			return lx.emit(Assignment, 3), nil
		}
		return lx.emit(Colon, 1), nil
	case c == '.':
		if lx.peekAt(1) == '.' {
			if lx.peekAt(2) == '.' {
				return lx.emit(Ellipsis, 3), nil
			}
			return lx.emit(Range, 2), nil
		}
		return lx.emit(Dot, 1), nil
	case c == '{':
		return lx.emit(LBrace, 1), nil
	case c == '}':
		return lx.emit(RBrace, 1), nil
	case c == '<':
		return lx.emit(LT, 1), nil
	case c == ',':
		return lx.emit(Comma, 1), nil
	case c == '(':
		return lx.emit(LParen, 1), nil
	case c == ')':
		return lx.emit(RParen, 1), nil
	case c == '[':
		return lx.emit(LBrack, 1), nil
	case c == ']':
		return lx.emit(RBrack, 1), nil
	case c == '-':
		return lx.emit(Minus, 1), nil
	case c == ';':
		return lx.emit(Semicolon, 1), nil
	case c == '\'':
		return lx.bhstring()
	case c == '"':
		return lx.qstring()
	case c >= '0' && c <= '9':
		return lx.number(), nil
	case isLetter(c):
		return lx.ident(), nil
	}
	return Token{}, &LexError{Line: lx.line, Text: lx.errorText()}
}

func (lx *Lexer) emit(kind Kind, width int) Token {
	tok := Token{Kind: kind, Text: lx.src[lx.pos : lx.pos+width], Line: lx.line}
	lx.pos += width
	return tok
}

// bhstring scans 'xxx'B binary strings and 'xxx'H hexadecimal strings.
func (lx *Lexer) bhstring() (Token, error) {
	line := lx.line
	start := lx.pos
	lx.pos++ // opening apostrophe
	for lx.pos < len(lx.src) && lx.src[lx.pos] != '\'' {
		if lx.src[lx.pos] == '\n' {
			lx.line++
		}
		lx.pos++
	}
	if lx.pos >= len(lx.src) || lx.pos+1 >= len(lx.src) {
		return Token{}, &LexError{Line: line, Text: lx.src[start:min(len(lx.src), start+100)]}
	}
	lx.pos++ // closing apostrophe
	body := lx.src[start+1 : lx.pos-1]
	suffix := lx.src[lx.pos]
	lx.pos++
	switch suffix {
	case 'B':
		for i := 0; i < len(body); i++ {
			if body[i] != '0' && body[i] != '1' {
				return Token{}, &LexError{Line: line, Text: lx.src[start:lx.pos]}
			}
		}
		return Token{Kind: BString, Text: lx.src[start:lx.pos], Line: line}, nil
	case 'H':
		for i := 0; i < len(body); i++ {
			if !isHexDigit(body[i]) {
				return Token{}, &LexError{Line: line, Text: lx.src[start:lx.pos]}
			}
		}
		return Token{Kind: HString, Text: lx.src[start:lx.pos], Line: line}, nil
	}
	return Token{}, &LexError{Line: line, Text: lx.src[start:lx.pos]}
}

// qstring scans a quoted string; a doubled quote is an embedded quote.
func (lx *Lexer) qstring() (Token, error) {
	line := lx.line
	start := lx.pos
	lx.pos++
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		if c == '\n' {
			lx.line++
		}
		if c == '"' {
			if lx.peekAt(1) == '"' {
				lx.pos += 2
				continue
			}
			lx.pos++
			return Token{Kind: QString, Text: lx.src[start:lx.pos], Line: line}, nil
		}
		lx.pos++
	}
	return Token{}, &LexError{Line: line, Text: lx.src[start:min(len(lx.src), start+100)]}
}

func (lx *Lexer) number() Token {
	start := lx.pos
	for lx.pos < len(lx.src) && lx.src[lx.pos] >= '0' && lx.src[lx.pos] <= '9' {
		lx.pos++
	}
	return Token{Kind: Number, Text: lx.src[start:lx.pos], Line: lx.line}
}

// ident scans an identifier or type reference: a letter followed by letters,
// digits, and hyphens, not ending with a hyphen. A "--" always terminates
// the identifier (it starts a comment).
func (lx *Lexer) ident() Token {
	start := lx.pos
	lx.pos++
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		if isLetter(c) || (c >= '0' && c <= '9') {
			lx.pos++
			continue
		}
		if c == '-' && isAlnum(lx.peekAt(1)) {
			lx.pos += 2
			continue
		}
		break
	}
	text := lx.src[start:lx.pos]
	kind := LCaseIdent
	if text[0] >= 'A' && text[0] <= 'Z' {
		kind = UCaseIdent
		if kw, ok := reservedWords[text]; ok {
			kind = kw
		}
	}
	return Token{Kind: kind, Text: text, Line: lx.line}
}

func (lx *Lexer) errorText() string {
	end := lx.pos + 100
	if end > len(lx.src) {
		end = len(lx.src)
	}
	if i := strings.IndexByte(lx.src[lx.pos:end], '\n'); i >= 0 {
		end = lx.pos + i
	}
	return lx.src[lx.pos:end]
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlnum(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9')
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
