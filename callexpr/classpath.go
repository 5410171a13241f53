package callexpr

import "strings"

// ClassPath is the fully qualified name of a Java class such as
// java.lang.String or me.author.Outer$Inner. It always names at least one
// package segment before the class.
type ClassPath struct {
	Packages []string
	Class    string
	Nested   *NestedPath
	Span     Span
}

// NestedPath holds the $-separated inner classes that follow the outermost
// class: Classes are the enclosing classes, Final the innermost one.
type NestedPath struct {
	Classes []string
	Final   string
}

// JNIName renders the path the way JNI expects it: me/author/Outer$Inner.
func (c *ClassPath) JNIName() string {
	return c.join("/", "$")
}

// String renders the display form: me.author.Outer.Inner.
func (c *ClassPath) String() string {
	return c.join(".", ".")
}

// Signature is the JNI type signature of the class, L<jni-name>;.
func (c *ClassPath) Signature() string {
	return "L" + c.JNIName() + ";"
}

func (c *ClassPath) join(sep, nestedSep string) string {
	var sb strings.Builder
	for _, pkg := range c.Packages {
		sb.WriteString(pkg)
		sb.WriteString(sep)
	}
	sb.WriteString(c.Class)
	if c.Nested != nil {
		for _, class := range c.Nested.Classes {
			sb.WriteString(nestedSep)
			sb.WriteString(class)
		}
		sb.WriteString(nestedSep)
		sb.WriteString(c.Nested.Final)
	}
	return sb.String()
}

// ParseClassPath parses src as a complete class path.
func ParseClassPath(src string, opts ...Option) (*ClassPath, error) {
	p := newParser(src, opts...)
	path, err := p.parseClassPath()
	if err != nil {
		return nil, err
	}
	if err := p.expectEOF("class path"); err != nil {
		return nil, err
	}
	return path, nil
}

// ParseClassPathWithMethod parses a class path followed by a method name,
// as in me.author.Class.method or me.author.Class$Nested.method.
func ParseClassPathWithMethod(src string, opts ...Option) (*ClassPath, string, error) {
	p := newParser(src, opts...)
	path, method, err := p.parseClassPathWithTrailingMethod()
	if err != nil {
		return nil, "", err
	}
	if err := p.expectEOF("method name"); err != nil {
		return nil, "", err
	}
	return path, method.Literal, nil
}

func (p *Parser) parseClassPath() (*ClassPath, error) {
	first := p.peek()
	if first.Kind != TokenIdent {
		return nil, &Error{
			Kind:     ErrEmptyPath,
			Span:     first.Span,
			Message:  "Java class path must not be empty",
			Expected: []TokenKind{TokenIdent},
			Got:      &first,
		}
	}
	p.advance()

	segments := []string{first.Literal}
	span := Span{Start: first.Span.Start, End: first.Span.End}
	for p.check(TokenDot) {
		dot := p.advance()
		seg := p.peek()
		if seg.Kind != TokenIdent {
			return nil, p.trailingSeparator(dot, seg)
		}
		p.advance()
		segments = append(segments, seg.Literal)
		span.End = seg.Span.End
	}

	if len(segments) < 2 {
		return nil, errorAt(ErrMissingPackage, span,
			"Java class path %q must have at least one package segment before the class, such as `me.author.%s`",
			segments[0], segments[0])
	}

	path := &ClassPath{
		Packages: segments[:len(segments)-1],
		Class:    segments[len(segments)-1],
	}

	if p.check(TokenDollar) {
		nested := &NestedPath{}
		var names []string
		for p.check(TokenDollar) {
			dollar := p.advance()
			seg := p.peek()
			if seg.Kind != TokenIdent {
				return nil, p.trailingSeparator(dollar, seg)
			}
			p.advance()
			names = append(names, seg.Literal)
			span.End = seg.Span.End
		}
		nested.Classes = names[:len(names)-1]
		nested.Final = names[len(names)-1]
		path.Nested = nested
	}

	path.Span = span
	return path, nil
}

// parseClassPathWithTrailingMethod reads a class path whose last segment is
// a method name. Without nested classes the method was already consumed as
// the final dot segment and is moved out of the path; with nested classes it
// must follow as an explicit .method suffix.
func (p *Parser) parseClassPathWithTrailingMethod() (*ClassPath, Token, error) {
	path, err := p.parseClassPath()
	if err != nil {
		return nil, Token{}, err
	}
	method, err := p.splitTrailingMethod(path)
	if err != nil {
		return nil, Token{}, err
	}
	return path, method, nil
}

func (p *Parser) splitTrailingMethod(path *ClassPath) (Token, error) {
	if path.Nested != nil {
		if _, err := p.expect(TokenDot, "expected `.` between the nested class and the method name"); err != nil {
			return Token{}, err
		}
		return p.expect(TokenIdent, "expected a method name")
	}

	if len(path.Packages) < 2 {
		return Token{}, errorAt(ErrMissingPackage, path.Span,
			"Java class path must have at least one package segment aside from the class and method, such as `me.Class.method`")
	}
	// The method is the last dot segment; its token is the one right
	// before the current parser position.
	method := p.tokens[p.pos-1]
	path.Class = path.Packages[len(path.Packages)-1]
	path.Packages = path.Packages[:len(path.Packages)-1]
	path.Span.End = p.tokens[p.pos-3].Span.End
	return method, nil
}

func (p *Parser) trailingSeparator(sep, got Token) *Error {
	span := got.Span
	if got.Kind == TokenEOF {
		span = sep.Span
	}
	return &Error{
		Kind:     ErrTrailingSeparator,
		Span:     span,
		Message:  "separator `" + sep.Literal + "` must be followed by a class path segment",
		Expected: []TokenKind{TokenIdent},
		Got:      &got,
	}
}
