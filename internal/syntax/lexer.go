package syntax

import (
	"strconv"
	"strings"
	"unicode"
)

// lexer turns ArkTS source into tokens. Comments and whitespace are dropped;
// a token remembers whether a line break preceded it so the parser can apply
// the statement-termination rules.
type lexer struct {
	file string
	src  []rune
	i    int
	line int
	col  int
	toks []token
}

func tokenize(file, src string) ([]token, error) {
	lx := &lexer{
		file: file,
		src:  []rune(strings.TrimPrefix(src, "\ufeff")),
		line: 1,
		col:  1,
	}
	if err := lx.run(); err != nil {
		return nil, err
	}
	return lx.toks, nil
}

func (lx *lexer) peekRune(offset int) rune {
	if lx.i+offset < len(lx.src) {
		return lx.src[lx.i+offset]
	}
	return 0
}

func (lx *lexer) eof() bool {
	return lx.i >= len(lx.src)
}

func (lx *lexer) advance() rune {
	r := lx.src[lx.i]
	lx.i++
	switch {
	case r == '\n':
		lx.line++
		lx.col = 1
	case r == '\r' && lx.peekRune(0) != '\n':
		lx.line++
		lx.col = 1
	case r == '\r':
		// column reset happens on the following \n
	default:
		lx.col++
	}
	return r
}

func (lx *lexer) pos() Position {
	return Position{Line: lx.line, Column: lx.col}
}

func (lx *lexer) errorAt(pos Position, msg, hint string) error {
	return &ParseError{FilePath: lx.file, Line: pos.Line, Column: pos.Column, Message: msg, Hint: hint}
}

func (lx *lexer) run() error {
	for {
		newline, err := lx.skipTrivia()
		if err != nil {
			return err
		}
		if lx.eof() {
			lx.toks = append(lx.toks, token{kind: tokEOF, pos: lx.pos(), newlineBefore: newline})
			return nil
		}

		start := lx.pos()
		tok, err := lx.next()
		if err != nil {
			return err
		}
		tok.pos = start
		tok.newlineBefore = newline || len(lx.toks) == 0
		lx.toks = append(lx.toks, tok)
	}
}

// skipTrivia consumes whitespace and comments and reports whether a line break was seen.
func (lx *lexer) skipTrivia() (bool, error) {
	newline := false
	for !lx.eof() {
		r := lx.peekRune(0)
		switch {
		case r == '\n' || r == '\r' || r == '\u2028' || r == '\u2029':
			newline = true
			lx.advance()
		case unicode.IsSpace(r) || r == '\ufeff':
			lx.advance()
		case r == '/' && lx.peekRune(1) == '/':
			for !lx.eof() && lx.peekRune(0) != '\n' && lx.peekRune(0) != '\r' {
				lx.advance()
			}
		case r == '/' && lx.peekRune(1) == '*':
			start := lx.pos()
			lx.advance()
			lx.advance()
			closed := false
			for !lx.eof() {
				if lx.peekRune(0) == '*' && lx.peekRune(1) == '/' {
					lx.advance()
					lx.advance()
					closed = true
					break
				}
				if c := lx.advance(); c == '\n' || c == '\r' {
					newline = true
				}
			}
			if !closed {
				return false, lx.errorAt(start, "unterminated block comment", "Close the comment with */.")
			}
		default:
			return newline, nil
		}
	}
	return newline, nil
}

func (lx *lexer) next() (token, error) {
	r := lx.peekRune(0)
	switch {
	case r == '\'' || r == '"':
		value, err := lx.scanString()
		return token{kind: tokString, text: value}, err
	case r == '`':
		value, subst, err := lx.scanTemplate()
		return token{kind: tokTemplate, text: value, substitutions: subst}, err
	case isDigit(r) || (r == '.' && isDigit(lx.peekRune(1))):
		return token{kind: tokNumber, text: lx.scanNumber()}, nil
	case isIdentStart(r) || r == '\\' && lx.peekRune(1) == 'u':
		return token{kind: tokIdent, text: lx.scanIdent()}, nil
	case r == '/' && lx.regexAllowed():
		if text, ok := lx.scanRegex(); ok {
			return token{kind: tokRegex, text: text}, nil
		}
	}

	for _, p := range punctuators {
		if lx.hasPrefix(p) {
			for range p {
				lx.advance()
			}
			return token{kind: tokPunct, text: p}, nil
		}
	}

	// unknown rune, keep it as punctuation so the parser can skip it
	return token{kind: tokPunct, text: string(lx.advance())}, nil
}

func (lx *lexer) hasPrefix(p string) bool {
	j := lx.i
	for _, r := range p {
		if j >= len(lx.src) || lx.src[j] != r {
			return false
		}
		j++
	}
	return true
}

func (lx *lexer) scanIdent() string {
	var b strings.Builder
	for !lx.eof() {
		r := lx.peekRune(0)
		if r == '\\' && lx.peekRune(1) == 'u' {
			lx.advance()
			lx.advance()
			if decoded, ok := lx.scanUnicodeEscape(); ok {
				b.WriteRune(decoded)
			}
			continue
		}
		if !isIdentPart(r) {
			break
		}
		b.WriteRune(lx.advance())
	}
	return b.String()
}

func (lx *lexer) scanNumber() string {
	var b strings.Builder
	for !lx.eof() {
		r := lx.peekRune(0)
		if isDigit(r) || unicode.IsLetter(r) || r == '_' || r == '.' {
			b.WriteRune(lx.advance())
			continue
		}
		// exponent sign: 1e-3
		if (r == '+' || r == '-') && b.Len() > 0 {
			last := b.String()[b.Len()-1]
			if (last == 'e' || last == 'E') && !strings.HasPrefix(b.String(), "0x") {
				b.WriteRune(lx.advance())
				continue
			}
		}
		break
	}
	return b.String()
}

func (lx *lexer) scanString() (string, error) {
	start := lx.pos()
	quote := lx.advance()

	var b strings.Builder
	for {
		if lx.eof() {
			return "", lx.errorAt(start, "unterminated string literal", "Close the string with "+string(quote)+".")
		}
		r := lx.peekRune(0)
		switch {
		case r == quote:
			lx.advance()
			return b.String(), nil
		case r == '\n' || r == '\r':
			return "", lx.errorAt(start, "unterminated string literal", "Strings cannot span lines; use a template literal or \\ at the end of the line.")
		case r == '\\':
			lx.advance()
			lx.scanEscape(&b)
		default:
			b.WriteRune(lx.advance())
		}
	}
}

// scanTemplate consumes a template literal including nested substitutions.
// The cooked value is only meaningful when there are no substitutions.
func (lx *lexer) scanTemplate() (string, bool, error) {
	start := lx.pos()
	lx.advance()

	var b strings.Builder
	subst := false
	for {
		if lx.eof() {
			return "", false, lx.errorAt(start, "unterminated template literal", "Close the template with a backtick.")
		}
		r := lx.peekRune(0)
		switch {
		case r == '`':
			lx.advance()
			return b.String(), subst, nil
		case r == '\\':
			lx.advance()
			lx.scanEscape(&b)
		case r == '$' && lx.peekRune(1) == '{':
			subst = true
			lx.advance()
			lx.advance()
			if err := lx.skipSubstitution(); err != nil {
				return "", false, err
			}
		default:
			b.WriteRune(lx.advance())
		}
	}
}

// skipSubstitution consumes the expression of a ${...} up to its closing brace.
func (lx *lexer) skipSubstitution() error {
	start := lx.pos()
	depth := 0
	for {
		if _, err := lx.skipTrivia(); err != nil {
			return err
		}
		if lx.eof() {
			return lx.errorAt(start, "unterminated template substitution", "Close the substitution with }.")
		}
		switch r := lx.peekRune(0); r {
		case '{':
			depth++
			lx.advance()
		case '}':
			lx.advance()
			if depth == 0 {
				return nil
			}
			depth--
		case '\'', '"':
			if _, err := lx.scanString(); err != nil {
				return err
			}
		case '`':
			if _, _, err := lx.scanTemplate(); err != nil {
				return err
			}
		default:
			lx.advance()
		}
	}
}

func (lx *lexer) scanEscape(b *strings.Builder) {
	if lx.eof() {
		return
	}
	r := lx.advance()
	switch r {
	case 'n':
		b.WriteRune('\n')
	case 't':
		b.WriteRune('\t')
	case 'r':
		b.WriteRune('\r')
	case 'b':
		b.WriteRune('\b')
	case 'f':
		b.WriteRune('\f')
	case 'v':
		b.WriteRune('\v')
	case '0':
		b.WriteRune(0)
	case '\r':
		if lx.peekRune(0) == '\n' {
			lx.advance()
		}
	case '\n', '\u2028', '\u2029':
		// line continuation
	case 'x':
		if v, ok := lx.scanHex(2); ok {
			b.WriteRune(v)
		}
	case 'u':
		if v, ok := lx.scanUnicodeEscape(); ok {
			b.WriteRune(v)
		}
	default:
		b.WriteRune(r)
	}
}

// scanUnicodeEscape reads the part after \u: XXXX or {X...}.
func (lx *lexer) scanUnicodeEscape() (rune, bool) {
	if lx.peekRune(0) != '{' {
		return lx.scanHex(4)
	}
	lx.advance()
	var digits strings.Builder
	for !lx.eof() && lx.peekRune(0) != '}' {
		digits.WriteRune(lx.advance())
	}
	if !lx.eof() {
		lx.advance()
	}
	v, err := strconv.ParseUint(digits.String(), 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}

func (lx *lexer) scanHex(n int) (rune, bool) {
	var digits strings.Builder
	for k := 0; k < n && !lx.eof() && isHexDigit(lx.peekRune(0)); k++ {
		digits.WriteRune(lx.advance())
	}
	v, err := strconv.ParseUint(digits.String(), 16, 32)
	if err != nil || digits.Len() != n {
		return 0, false
	}
	return rune(v), true
}

// regexAllowed decides whether a slash starts a regular expression, from the previous token.
func (lx *lexer) regexAllowed() bool {
	if len(lx.toks) == 0 {
		return true
	}
	prev := lx.toks[len(lx.toks)-1]
	switch prev.kind {
	case tokIdent:
		return regexAfterKeyword[prev.text]
	case tokNumber, tokString, tokTemplate, tokRegex:
		return false
	case tokPunct:
		return prev.text != ")" && prev.text != "]" && prev.text != "}"
	}
	return true
}

// scanRegex consumes /body/flags. A line break before the closing slash
// means this was a division after all; the position is restored.
func (lx *lexer) scanRegex() (string, bool) {
	saveI, saveLine, saveCol := lx.i, lx.line, lx.col
	restore := func() {
		lx.i, lx.line, lx.col = saveI, saveLine, saveCol
	}

	var b strings.Builder
	b.WriteRune(lx.advance())
	inClass := false
	for {
		if lx.eof() {
			restore()
			return "", false
		}
		r := lx.peekRune(0)
		if r == '\n' || r == '\r' {
			restore()
			return "", false
		}
		b.WriteRune(lx.advance())
		switch {
		case r == '\\':
			if !lx.eof() && lx.peekRune(0) != '\n' {
				b.WriteRune(lx.advance())
			}
		case r == '[':
			inClass = true
		case r == ']':
			inClass = false
		case r == '/' && !inClass:
			for !lx.eof() && isIdentPart(lx.peekRune(0)) {
				b.WriteRune(lx.advance())
			}
			return b.String(), true
		}
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isIdentStart(r rune) bool {
	return r == '$' || r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r) || r == '\u200c' || r == '\u200d' ||
		unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r) || unicode.Is(unicode.Pc, r)
}
