package callexpr

import "fmt"

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.start.File = path
	}
}

// WithStart places the first byte of the expression at pos inside the
// enclosing file, so diagnostics point into that file.
func WithStart(pos Position) Option {
	return func(p *Parser) {
		file := p.start.File
		p.start = pos
		if p.start.File == "" {
			p.start.File = file
		}
	}
}

type Parser struct {
	start  Position
	lexer  *Lexer
	tokens []Token
	pos    int
}

func newParser(src string, opts ...Option) *Parser {
	p := &Parser{start: Position{Line: 1, Column: 1}}
	for _, opt := range opts {
		opt(p)
	}
	p.lexer = NewLexer([]byte(src), p.start)
	p.tokenize()
	return p
}

func (p *Parser) tokenize() {
	for {
		tok := p.lexer.NextToken()
		p.tokens = append(p.tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
}

// Parse parses a complete call expression:
//
//	static me.author.Class::method(int(x), [java.lang.String]([a, b])) -> Result<int, String>
//	object.method() -> void
func Parse(src string, opts ...Option) (*MethodCall, error) {
	p := newParser(src, opts...)
	call, err := p.parseMethodCall()
	if err != nil {
		return nil, err
	}
	return call, nil
}

// ParseReturn parses a return specification on its own.
func ParseReturn(src string, opts ...Option) (*Return, error) {
	p := newParser(src, opts...)
	ret, err := p.parseReturn()
	if err != nil {
		return nil, err
	}
	if err := p.expectEOF("return type"); err != nil {
		return nil, err
	}
	return &ret, nil
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekN(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) checkKeyword(name string) bool {
	tok := p.peek()
	return tok.Kind == TokenIdent && tok.Literal == name && p.peekN(1).Kind != TokenDot
}

func (p *Parser) expect(kind TokenKind, msg string, also ...TokenKind) (Token, error) {
	tok := p.peek()
	if tok.Kind == kind {
		p.advance()
		return tok, nil
	}
	return Token{}, p.syntaxError(msg, append([]TokenKind{kind}, also...)...)
}

func (p *Parser) expectEOF(what string) error {
	if p.check(TokenEOF) {
		return nil
	}
	return p.syntaxError(fmt.Sprintf("unexpected input after %s", what), TokenEOF)
}

func (p *Parser) syntaxError(msg string, expected ...TokenKind) *Error {
	tok := p.peek()
	return &Error{
		Kind:     ErrSyntax,
		Span:     tok.Span,
		Message:  msg,
		Expected: expected,
		Got:      &tok,
	}
}

func (p *Parser) parseMethodCall() (*MethodCall, error) {
	start := p.peek().Span.Start

	target, method, err := p.parseTarget()
	if err != nil {
		return nil, err
	}

	params, err := p.parseParameters()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenArrow, "expected `->` followed by the return type"); err != nil {
		return nil, err
	}

	ret, err := p.parseReturn()
	if err != nil {
		return nil, err
	}
	if err := p.expectEOF("return type"); err != nil {
		return nil, err
	}

	return &MethodCall{
		Target:     target,
		Method:     method.Literal,
		MethodSpan: method.Span,
		Params:     params,
		Return:     ret,
		Span:       Span{Start: start, End: ret.Span.End},
	}, nil
}

func (p *Parser) parseTarget() (Target, Token, error) {
	start := p.peek().Span.Start

	if p.check(TokenStatic) {
		p.advance()
		class, err := p.parseClassPath()
		if err != nil {
			return Target{}, Token{}, err
		}
		var method Token
		if p.check(TokenColonColon) {
			p.advance()
			method, err = p.expect(TokenIdent, "expected a method name after `::`")
		} else {
			method, err = p.splitTrailingMethod(class)
		}
		if err != nil {
			return Target{}, Token{}, err
		}
		return Target{
			Kind:  TargetStatic,
			Class: class,
			Span:  Span{Start: start, End: class.Span.End},
		}, method, nil
	}

	var receiver string
	var end Position
	switch p.peek().Kind {
	case TokenLParen, TokenLBrace:
		g, err := p.group()
		if err != nil {
			return Target{}, Token{}, err
		}
		if g.empty() {
			return Target{}, Token{}, &Error{
				Kind:    ErrSyntax,
				Span:    g.close.Span,
				Message: "receiver expression must not be empty",
			}
		}
		receiver = g.text
		end = g.close.Span.End
	case TokenIdent:
		tok := p.advance()
		receiver = tok.Literal
		end = tok.Span.End
	default:
		return Target{}, Token{}, p.syntaxError(
			"expected `static` or a receiver (an identifier, or an expression in parentheses or braces)",
			TokenStatic, TokenIdent, TokenLParen, TokenLBrace)
	}

	if _, err := p.expect(TokenDot, "expected `.` between the receiver and the method name"); err != nil {
		return Target{}, Token{}, err
	}
	method, err := p.expect(TokenIdent, "expected a method name")
	if err != nil {
		return Target{}, Token{}, err
	}
	return Target{
		Kind:     TargetInstance,
		Receiver: receiver,
		Span:     Span{Start: start, End: end},
	}, method, nil
}

func (p *Parser) parseParameters() ([]Parameter, error) {
	if _, err := p.expect(TokenLParen, "expected `(` to open the parameter list"); err != nil {
		return nil, err
	}
	var params []Parameter
	for !p.check(TokenRParen) {
		if p.check(TokenEOF) {
			return nil, p.syntaxError("unclosed parameter list", TokenRParen)
		}
		param, err := p.parseParameter()
		if err != nil {
			return nil, err
		}
		params = append(params, param)
		if !p.check(TokenComma) {
			break
		}
		p.advance()
	}
	if _, err := p.expect(TokenRParen, "expected `,` or `)` after a parameter", TokenComma); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseParameter() (Parameter, error) {
	start := p.peek().Span.Start

	array := false
	var ty Type
	var err error
	if p.check(TokenLBracket) {
		array = true
		p.advance()
		ty, err = p.parseType()
		if err != nil {
			return Parameter{}, err
		}
		if _, err := p.expect(TokenRBracket, "expected `]` after the array element type"); err != nil {
			return Parameter{}, err
		}
	} else {
		ty, err = p.parseType()
		if err != nil {
			return Parameter{}, err
		}
	}
	if ty.IsVoid() {
		return Parameter{}, errorAt(ErrVoidNotAllowedHere, ty.Span, "parameters can't have type void")
	}

	if !p.check(TokenLParen) {
		return Parameter{}, p.syntaxError("expected the parameter value in parentheses", TokenLParen)
	}
	g, err := p.group()
	if err != nil {
		return Parameter{}, err
	}
	if g.empty() {
		return Parameter{}, &Error{
			Kind:     ErrSyntax,
			Span:     g.close.Span,
			Message:  "parameter value must not be empty",
			Expected: []TokenKind{TokenIdent},
			Got:      &g.close,
		}
	}
	span := Span{Start: start, End: g.close.Span.End}

	if !array {
		return Parameter{Kind: ParamSingle, Type: ty, Value: g.text, Span: span}, nil
	}
	if elems, ok, err := p.arrayLiteral(g); err != nil {
		return Parameter{}, err
	} else if ok {
		return Parameter{Kind: ParamArrayLiteral, Type: ty, Elements: elems, Span: span}, nil
	}
	return Parameter{Kind: ParamArray, Type: ty, Value: g.text, Span: span}, nil
}

// arrayLiteral reports whether the group content is exactly one bracketed
// list, and if so splits it on its top-level commas.
func (p *Parser) arrayLiteral(g group) ([]string, bool, error) {
	if p.tokens[g.from].Kind != TokenLBracket || g.match[g.from] != g.to-1 {
		return nil, false, nil
	}

	var elems []string
	first := g.from + 1
	last := g.to - 1
	i := first
	for i < last {
		j := i
		for j < last && p.tokens[j].Kind != TokenComma {
			if m, ok := g.match[j]; ok {
				j = m
			}
			j++
		}
		if j == i {
			return nil, false, &Error{
				Kind:    ErrSyntax,
				Span:    p.tokens[j].Span,
				Message: "array literal elements must not be empty",
			}
		}
		elems = append(elems, p.lexer.Text(p.tokens[i].Span.Start, p.tokens[j-1].Span.End))
		i = j + 1
	}
	return elems, true, nil
}

// group is a balanced (...) or {...} run of tokens. Tokens [from, to) are
// the contents; match maps each opening delimiter inside to its closer.
type group struct {
	open  Token
	close Token
	from  int
	to    int
	text  string
	match map[int]int
}

func (g group) empty() bool { return g.from == g.to }

var closers = map[TokenKind]TokenKind{
	TokenLParen:   TokenRParen,
	TokenLBrace:   TokenRBrace,
	TokenLBracket: TokenRBracket,
}

func (p *Parser) group() (group, error) {
	open := p.advance()
	g := group{open: open, from: p.pos, match: map[int]int{}}

	stack := []int{p.pos - 1}
	for {
		tok := p.peek()
		switch tok.Kind {
		case TokenEOF:
			opener := p.tokens[stack[len(stack)-1]]
			return group{}, &Error{
				Kind:     ErrSyntax,
				Span:     opener.Span,
				Message:  fmt.Sprintf("unclosed `%s`", opener.Literal),
				Expected: []TokenKind{closers[opener.Kind]},
				Got:      &tok,
			}
		case TokenError:
			return group{}, &Error{
				Kind:    ErrSyntax,
				Span:    tok.Span,
				Message: fmt.Sprintf("invalid token %q", tok.Literal),
			}
		case TokenLParen, TokenLBrace, TokenLBracket:
			stack = append(stack, p.pos)
		case TokenRParen, TokenRBrace, TokenRBracket:
			top := stack[len(stack)-1]
			want := closers[p.tokens[top].Kind]
			if tok.Kind != want {
				return group{}, p.syntaxError("mismatched closing delimiter", want)
			}
			stack = stack[:len(stack)-1]
			g.match[top] = p.pos
			if len(stack) == 0 {
				g.to = p.pos
				g.close = p.advance()
				g.text = p.lexer.Text(open.Span.End, g.close.Span.Start)
				if !g.empty() {
					g.text = p.lexer.Text(p.tokens[g.from].Span.Start, p.tokens[g.to-1].Span.End)
				}
				return g, nil
			}
		}
		p.advance()
	}
}

func (p *Parser) parseReturn() (Return, error) {
	start := p.peek().Span.Start

	if p.checkKeyword("Result") {
		p.advance()
		if _, err := p.expect(TokenLT, "Result takes generic arguments"); err != nil {
			return Return{}, err
		}
		ok, err := p.parseResultOk()
		if err != nil {
			return Return{}, err
		}
		if _, err := p.expect(TokenComma, "Result takes 2 generic arguments"); err != nil {
			return Return{}, err
		}
		errType, err := p.parseErrorType()
		if err != nil {
			return Return{}, err
		}
		end, err := p.expect(TokenGT, "expected `>` to close Result")
		if err != nil {
			return Return{}, err
		}
		return Return{
			Kind: ReturnResult,
			Ok:   &ok,
			Err:  errType,
			Span: Span{Start: start, End: end.Span.End},
		}, nil
	}

	if p.checkKeyword("Option") {
		return p.parseOption()
	}

	ty, err := p.parseType()
	if err != nil {
		return Return{}, err
	}
	return Return{Kind: ReturnAssertive, Type: ty, Span: ty.Span}, nil
}

func (p *Parser) parseResultOk() (Return, error) {
	if p.checkKeyword("Result") {
		tok := p.peek()
		return Return{}, errorAt(ErrNestedResultNotAllowed, tok.Span, "can't nest a Result within a Result")
	}
	if p.checkKeyword("Option") {
		return p.parseOption()
	}
	ty, err := p.parseType()
	if err != nil {
		return Return{}, err
	}
	return Return{Kind: ReturnAssertive, Type: ty, Span: ty.Span}, nil
}

func (p *Parser) parseOption() (Return, error) {
	start := p.advance()
	if _, err := p.expect(TokenLT, "Option takes a generic argument"); err != nil {
		return Return{}, err
	}
	ty, err := p.parseType()
	if err != nil {
		return Return{}, err
	}
	if ty.IsVoid() {
		return Return{}, errorAt(ErrVoidNotAllowedHere, ty.Span, "Option can't wrap void")
	}
	if !ty.IsObject() {
		return Return{}, errorAt(ErrOptionRequiresObjectType, ty.Span,
			"Option can't be used with primitive type %s because primitives are never null in Java; use a class",
			ty.Keyword())
	}
	end, err := p.expect(TokenGT, "Option takes only 1 generic argument")
	if err != nil {
		return Return{}, err
	}
	return Return{
		Kind:  ReturnOption,
		Class: ty.Class,
		Span:  Span{Start: start.Span.Start, End: end.Span.End},
	}, nil
}

// parseErrorType reads everything up to the closing `>` of the Result and
// checks it against the supported error representations.
func (p *Parser) parseErrorType() (ErrorType, error) {
	first := p.pos
	depth := 0
	for {
		tok := p.peek()
		if tok.Kind == TokenEOF || tok.Kind == TokenGT && depth == 0 {
			break
		}
		switch tok.Kind {
		case TokenLT:
			depth++
		case TokenGT:
			depth--
		}
		p.advance()
	}
	if p.pos == first {
		return 0, p.syntaxError("expected the Result error type", TokenIdent)
	}
	span := Span{Start: p.tokens[first].Span.Start, End: p.tokens[p.pos-1].Span.End}
	text := p.lexer.Text(span.Start, span.End)
	if text != ErrorString.String() {
		return 0, errorAt(ErrUnsupportedErrorType, span,
			"unsupported Result error type %q: only String is supported", text)
	}
	return ErrorString, nil
}
