package syntax

import "fmt"

// Position is a 1-based line and column (in runes) inside a source file.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokTemplate
	tokNumber
	tokRegex
	tokPunct
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of file"
	case tokIdent:
		return "identifier"
	case tokString:
		return "string"
	case tokTemplate:
		return "template"
	case tokNumber:
		return "number"
	case tokRegex:
		return "regex"
	case tokPunct:
		return "punctuation"
	}
	return "token"
}

// token is one lexical unit. For strings and substitution-free templates
// text holds the cooked value; otherwise it is the source text.
type token struct {
	kind          tokenKind
	text          string
	pos           Position
	newlineBefore bool
	substitutions bool
}

func (t token) is(kind tokenKind, text string) bool {
	return t.kind == kind && t.text == text
}

func (t token) isPunct(text string) bool {
	return t.is(tokPunct, text)
}

func (t token) isIdent(text string) bool {
	return t.is(tokIdent, text)
}

// punctuators ordered longest first so the lexer takes the longest match.
var punctuators = []string{
	">>>=",
	"...", "===", "!==", "**=", "<<=", ">>=", ">>>", "&&=", "||=", "??=",
	"=>", "==", "!=", "<=", ">=", "&&", "||", "??", "?.", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "**", "<<", ">>",
	"{", "}", "(", ")", "[", "]", ";", ",", "<", ">", "+", "-", "*", "/",
	"%", "&", "|", "^", "!", "~", "?", ":", "=", ".", "@", "#",
}

// binaryOperators continue an expression across line breaks.
var binaryOperators = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"**=": true, "<<=": true, ">>=": true, ">>>=": true, "&=": true, "|=": true,
	"^=": true, "&&=": true, "||=": true, "??=": true,
	"==": true, "!=": true, "===": true, "!==": true,
	"<": true, ">": true, "<=": true, ">=": true,
	"+": true, "-": true, "*": true, "/": true, "%": true, "**": true,
	"<<": true, ">>": true, ">>>": true, "&": true, "|": true, "^": true,
	"&&": true, "||": true, "??": true, "=>": true,
}

// keywordOperators continue an expression only on the same line.
var keywordOperators = map[string]bool{
	"as": true, "instanceof": true, "in": true, "satisfies": true,
}

// regexAfterKeyword lists identifiers after which a slash starts a regex literal.
var regexAfterKeyword = map[string]bool{
	"return": true, "typeof": true, "case": true, "do": true, "else": true,
	"in": true, "instanceof": true, "new": true, "delete": true, "void": true,
	"throw": true, "yield": true, "await": true,
}
