package callexpr

import (
	"unicode"
	"unicode/utf8"
)

type Lexer struct {
	input  []byte
	start  Position
	pos    int
	line   int
	column int
}

// NewLexer returns a lexer over input whose first byte sits at start.
// Offsets, lines and columns of every token are reported relative to the
// enclosing file, so an expression embedded in a Go string literal yields
// positions inside that Go file.
func NewLexer(input []byte, start Position) *Lexer {
	if start.Line == 0 {
		start.Line = 1
	}
	if start.Column == 0 {
		start.Column = 1
	}
	return &Lexer{
		input:  input,
		start:  start,
		line:   start.Line,
		column: start.Column,
	}
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.start.File,
		Offset: l.start.Offset + l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

// Text returns the source between two positions produced by this lexer.
func (l *Lexer) Text(from, to Position) string {
	a := from.Offset - l.start.Offset
	b := to.Offset - l.start.Offset
	if a < 0 || b > len(l.input) || a > b {
		return ""
	}
	return string(l.input[a:b])
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) skipTrivia() {
	for l.pos < len(l.input) {
		ch := l.peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			l.advance()
		case ch == '/' && l.peekN(1) == '/':
			for l.peek() != 0 && l.peek() != '\n' {
				l.advance()
			}
		case ch == '/' && l.peekN(1) == '*':
			l.advanceN(2)
			for l.peek() != 0 && !(l.peek() == '*' && l.peekN(1) == '/') {
				l.advance()
			}
			l.advanceN(2)
		default:
			return
		}
	}
}

func (l *Lexer) NextToken() Token {
	l.skipTrivia()
	startPos := l.Position()

	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Span: Span{Start: startPos, End: startPos}}
	}

	ch := l.peek()

	if r, size := l.rune(); isLetter(r) {
		l.advanceN(size)
		return l.scanIdentOrKeyword(startPos)
	}

	if isDigit(ch) {
		return l.scanNumber(startPos)
	}

	switch ch {
	case '\'':
		return l.scanQuoted(startPos, '\'', TokenCharLiteral)
	case '"':
		return l.scanQuoted(startPos, '"', TokenStringLiteral)
	case '`':
		return l.scanRawString(startPos)
	}

	return l.scanOperator(startPos)
}

func (l *Lexer) rune() (rune, int) {
	if l.pos >= len(l.input) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRune(l.input[l.pos:])
}

func (l *Lexer) scanIdentOrKeyword(start Position) Token {
	for {
		r, size := l.rune()
		if size == 0 || !(isLetter(r) || unicode.IsDigit(r)) {
			break
		}
		l.advanceN(size)
	}
	end := l.Position()
	literal := l.Text(start, end)
	return Token{
		Kind:    LookupKeyword(literal),
		Span:    Span{Start: start, End: end},
		Literal: literal,
	}
}

func (l *Lexer) scanNumber(start Position) Token {
	isFloat := false
	if l.peek() == '0' && (l.peekN(1) == 'x' || l.peekN(1) == 'X') {
		l.advanceN(2)
		for isHexDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
	} else {
		for isDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
		if l.peek() == '.' && isDigit(l.peekN(1)) {
			isFloat = true
			l.advance()
			for isDigit(l.peek()) || l.peek() == '_' {
				l.advance()
			}
		}
		if l.peek() == 'e' || l.peek() == 'E' {
			isFloat = true
			l.advance()
			if l.peek() == '+' || l.peek() == '-' {
				l.advance()
			}
			for isDigit(l.peek()) {
				l.advance()
			}
		}
	}
	// Trailing letters (0b101, 1i, 1i8) stay part of the literal.
	for isASCIILetter(l.peek()) || isDigit(l.peek()) {
		l.advance()
	}

	kind := TokenIntLiteral
	if isFloat {
		kind = TokenFloatLiteral
	}
	return l.token(kind, start)
}

func (l *Lexer) scanQuoted(start Position, quote byte, kind TokenKind) Token {
	l.advance()
	for l.peek() != 0 && l.peek() != quote && l.peek() != '\n' {
		if l.peek() == '\\' {
			l.advance()
		}
		l.advance()
	}
	if l.peek() != quote {
		return l.token(TokenError, start)
	}
	l.advance()
	return l.token(kind, start)
}

func (l *Lexer) scanRawString(start Position) Token {
	l.advance()
	for l.peek() != 0 && l.peek() != '`' {
		l.advance()
	}
	if l.peek() != '`' {
		return l.token(TokenError, start)
	}
	l.advance()
	return l.token(TokenStringLiteral, start)
}

func (l *Lexer) scanOperator(start Position) Token {
	ch := l.peek()

	switch ch {
	case '(':
		l.advance()
		return l.token(TokenLParen, start)
	case ')':
		l.advance()
		return l.token(TokenRParen, start)
	case '{':
		l.advance()
		return l.token(TokenLBrace, start)
	case '}':
		l.advance()
		return l.token(TokenRBrace, start)
	case '[':
		l.advance()
		return l.token(TokenLBracket, start)
	case ']':
		l.advance()
		return l.token(TokenRBracket, start)
	case ',':
		l.advance()
		return l.token(TokenComma, start)
	case '.':
		if l.peekN(1) == '.' && l.peekN(2) == '.' {
			l.advanceN(3)
			return l.token(TokenOperator, start)
		}
		l.advance()
		return l.token(TokenDot, start)
	case '$':
		l.advance()
		return l.token(TokenDollar, start)
	case ':':
		if l.peekN(1) == ':' {
			l.advanceN(2)
			return l.token(TokenColonColon, start)
		}
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenOperator, start)
		}
		l.advance()
		return l.token(TokenOperator, start)
	case '-':
		if l.peekN(1) == '>' {
			l.advanceN(2)
			return l.token(TokenArrow, start)
		}
		l.advance()
		return l.token(TokenOperator, start)
	case '<':
		if l.peekN(1) == '-' {
			l.advanceN(2)
			return l.token(TokenOperator, start)
		}
		l.advance()
		return l.token(TokenLT, start)
	case '>':
		l.advance()
		return l.token(TokenGT, start)
	case '+', '*', '/', '%', '&', '|', '^', '!', '=', '~', ';', '?', '#', '@':
		l.advance()
		return l.token(TokenOperator, start)
	}

	_, size := l.rune()
	if size == 0 {
		size = 1
	}
	l.advanceN(size)
	return l.token(TokenError, start)
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: l.Text(start, end),
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isASCIILetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isLetter(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}
