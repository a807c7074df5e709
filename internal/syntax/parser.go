package syntax

// Parse tokenizes and parses an ArkTS source. Only lexical failures (an
// unterminated string, template or comment) are errors. Constructs the parser
// does not model are kept as opaque or Unknown nodes so a whole file always
// yields a tree.
//
// The top-level shape follows the TypeScript parser: decorators and keyword
// modifiers that are not followed by a declaration keyword form a
// MissingDeclaration, so
//
//	@Route({ name: 'home' })
//	@Component
//	export struct HomePage { ... }
//
// parses as MissingDeclaration (three modifiers), ExpressionStatement(struct),
// ExpressionStatement(HomePage) and a Block.
func Parse(file, src string) (*Node, error) {
	toks, err := tokenize(file, src)
	if err != nil {
		return nil, err
	}

	p := &parser{toks: toks}
	root := &Node{Kind: KindSourceFile, Text: file, Pos: Position{Line: 1, Column: 1}}
	for !p.at(tokEOF) {
		root.Children = append(root.Children, p.parseProgress())
	}
	return root, nil
}

const maxNesting = 512

type parser struct {
	toks  []token
	i     int
	depth int
}

func (p *parser) peek() token {
	return p.peekAt(0)
}

func (p *parser) peekAt(k int) token {
	if p.i+k < len(p.toks) {
		return p.toks[p.i+k]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) prev() token {
	if p.i == 0 {
		return token{}
	}
	return p.toks[p.i-1]
}

func (p *parser) next() token {
	t := p.peek()
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) at(kind tokenKind) bool {
	return p.peek().kind == kind
}

func (p *parser) atPunct(text string) bool {
	return p.peek().isPunct(text)
}

func (p *parser) enter() bool {
	if p.depth >= maxNesting {
		return false
	}
	p.depth++
	return true
}

func (p *parser) leave() {
	p.depth--
}

// skipToken wraps the current token in an Unknown node.
// parseProgress parses one statement and consumes at least one token.
func (p *parser) parseProgress() *Node {
	start := p.i
	n := p.parseStatement()
	if p.i == start {
		return p.skipToken()
	}
	return n
}

func (p *parser) skipToken() *Node {
	t := p.next()
	return &Node{Kind: KindUnknown, Text: t.text, Pos: t.pos}
}

var reservedWords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true, "do": true,
	"else": true, "enum": true, "export": true, "extends": true, "false": true,
	"finally": true, "for": true, "function": true, "if": true, "import": true,
	"in": true, "instanceof": true, "new": true, "null": true, "return": true,
	"super": true, "switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "var": true, "void": true, "while": true, "with": true,
}

// controlKeywords lead statements that are neither declarations nor expressions.
var controlKeywords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "with": true, "catch": true,
	"else": true, "do": true, "try": true, "finally": true,
	"return": true, "throw": true, "break": true, "continue": true, "debugger": true,
	"case": true,
}

var modifierKeywords = map[string]bool{
	"export": true, "default": true, "declare": true, "abstract": true,
	"public": true, "private": true, "protected": true, "static": true,
	"readonly": true, "override": true, "accessor": true, "async": true,
}

// bodiedDeclarations end with their braced body rather than at a statement terminator.
var bodiedDeclarations = map[string]bool{
	"class": true, "interface": true, "enum": true, "namespace": true, "module": true, "function": true,
}

// statementStartPunct lists the punctuation an expression statement may begin with.
var statementStartPunct = map[string]bool{
	"(": true, "[": true, "!": true, "~": true, "+": true, "-": true, "++": true, "--": true, "#": true,
}

func (p *parser) parseStatement() *Node {
	if !p.enter() {
		return p.skipToken()
	}
	defer p.leave()

	t := p.peek()
	switch {
	case t.isPunct(";"):
		p.next()
		return &Node{Kind: KindEmptyStatement, Pos: t.pos}
	case t.isPunct("{"):
		return p.parseBlock()
	case t.isPunct("@"):
		return p.parseDeclarationLike()
	case t.kind == tokIdent:
		if t.text == "export" || p.isModifier(0) {
			return p.parseDeclarationLike()
		}
		if kw, ok := p.declarationKeyword(0); ok {
			return p.parseDeclaration(t.pos, kw, nil)
		}
		if controlKeywords[t.text] {
			return p.parseControlStatement()
		}
	case t.kind == tokPunct && !statementStartPunct[t.text]:
		return p.skipToken()
	}
	return p.parseExpressionStatement()
}

func (p *parser) parseBlock() *Node {
	open := p.next()
	block := &Node{Kind: KindBlock, Pos: open.pos}
	for !p.at(tokEOF) && !p.atPunct("}") {
		block.Children = append(block.Children, p.parseProgress())
	}
	if p.atPunct("}") {
		p.next()
	}
	return block
}

// isModifier reports whether the token at offset k acts as a keyword modifier.
func (p *parser) isModifier(k int) bool {
	t := p.peekAt(k)
	if t.kind != tokIdent || !modifierKeywords[t.text] {
		return false
	}
	nxt := p.peekAt(k + 1)
	if nxt.kind == tokEOF || nxt.newlineBefore && t.text != "export" {
		return false
	}
	switch t.text {
	case "async":
		return nxt.isIdent("function")
	case "default":
		return canFollowDefault(nxt)
	}
	if nxt.kind == tokPunct {
		return nxt.text == "@" || nxt.text == "{" || nxt.text == "*" || nxt.text == "["
	}
	return nxt.kind == tokIdent
}

func canFollowDefault(t token) bool {
	if t.isPunct("@") {
		return true
	}
	switch t.text {
	case "class", "function", "interface", "abstract", "async":
		return t.kind == tokIdent
	}
	return false
}

// declarationKeyword reports whether the token at offset k starts a declaration.
func (p *parser) declarationKeyword(k int) (string, bool) {
	t := p.peekAt(k)
	if t.kind != tokIdent {
		return "", false
	}
	nxt := p.peekAt(k + 1)
	switch t.text {
	case "class", "function", "interface", "enum", "const", "let", "var":
		return t.text, true
	case "import":
		if nxt.isPunct("(") || nxt.isPunct(".") {
			return "", false
		}
		return t.text, true
	case "type", "namespace", "module":
		if !nxt.newlineBefore && (nxt.kind == tokIdent || nxt.kind == tokString) {
			return t.text, true
		}
	}
	return "", false
}

// parseDeclarationLike collects decorators and keyword modifiers and decides
// what they are attached to.
func (p *parser) parseDeclarationLike() *Node {
	start := p.peek().pos
	var mods []*Node

collect:
	for {
		t := p.peek()
		switch {
		case t.isPunct("@"):
			mods = append(mods, p.parseDecorator())
		case t.isIdent("export"):
			nxt := p.peekAt(1)
			switch {
			case nxt.isPunct("="):
				p.next()
				p.next()
				return p.finishExportAssignment(start, mods)
			case nxt.isIdent("default") && !canFollowDefault(p.peekAt(2)):
				p.next()
				p.next()
				return p.finishExportAssignment(start, mods)
			case nxt.isPunct("{") || nxt.isPunct("*") || nxt.isIdent("type") && p.peekAt(2).isPunct("{"):
				mods = append(mods, p.modifier())
				return p.parseDeclaration(start, "export", mods)
			}
			mods = append(mods, p.modifier())
		case p.isModifier(0):
			mods = append(mods, p.modifier())
		default:
			break collect
		}
	}

	if kw, ok := p.declarationKeyword(0); ok {
		return p.parseDeclaration(start, kw, mods)
	}
	return &Node{Kind: KindMissingDeclaration, Pos: start, Modifiers: mods}
}

func (p *parser) modifier() *Node {
	t := p.next()
	return &Node{Kind: KindModifier, Text: t.text, Pos: t.pos}
}

func (p *parser) finishExportAssignment(start Position, mods []*Node) *Node {
	n := &Node{Kind: KindExportAssignment, Pos: start, Modifiers: mods}
	n.Children = []*Node{p.parseExpression()}
	if p.atPunct(";") {
		p.next()
	}
	return n
}

func (p *parser) parseDecorator() *Node {
	at := p.next()
	dec := &Node{Kind: KindDecorator, Pos: at.pos}

	var expr *Node
	if t := p.peek(); t.kind == tokIdent {
		p.next()
		expr = &Node{Kind: KindIdentifier, Text: t.text, Pos: t.pos}
	} else {
		expr = p.parsePrimary()
	}
	dec.Children = []*Node{p.parseDecoratorRest(expr)}
	return dec
}

// parseDecoratorRest accepts member access and calls only, so a following
// declaration is never swallowed as part of the decorator.
func (p *parser) parseDecoratorRest(expr *Node) *Node {
	for {
		switch {
		case p.atPunct(".") && p.peekAt(1).kind == tokIdent:
			p.next()
			name := p.next()
			expr = &Node{Kind: KindPropertyAccess, Text: name.text, Pos: expr.Pos, Children: []*Node{expr}}
		case p.atPunct("("):
			args := p.parseList(")", p.parseArgument)
			expr = &Node{Kind: KindCallExpression, Pos: expr.Pos, Children: append([]*Node{expr}, args...)}
		default:
			return expr
		}
	}
}

// parseDeclaration consumes a declaration whose leading keyword is the current token.
// Only function bodies are parsed into statements; other bodies are skipped.
func (p *parser) parseDeclaration(start Position, keyword string, mods []*Node) *Node {
	n := &Node{Kind: KindDeclaration, Text: keyword, Pos: start, Modifiers: mods}

	if !bodiedDeclarations[keyword] {
		p.skipStatement()
		return n
	}

	p.next()
	depth := 0
	for !p.at(tokEOF) {
		t := p.peek()
		if depth == 0 {
			switch {
			case t.isPunct("{"):
				if keyword == "function" {
					n.Children = append(n.Children, p.parseBlock())
				} else {
					p.skipBalanced()
				}
				return n
			case t.isPunct(";"):
				p.next()
				return n
			case t.isPunct("}"):
				return n
			case t.newlineBefore && !continues(p.prev(), t):
				return n
			}
		}
		switch t.text {
		case "(", "[":
			if t.kind == tokPunct {
				depth++
			}
		case ")", "]":
			if t.kind == tokPunct && depth > 0 {
				depth--
			}
		}
		p.next()
	}
	return n
}

func (p *parser) parseControlStatement() *Node {
	kw := p.next()
	n := &Node{Kind: KindControlStatement, Text: kw.text, Pos: kw.pos}

	switch kw.text {
	case "if", "for", "while", "switch", "with", "catch":
		if p.atPunct("(") {
			p.skipBalanced()
		}
		if !p.at(tokEOF) && !p.atPunct("}") {
			n.Children = []*Node{p.parseStatement()}
		}
	case "else", "do", "try", "finally":
		if !p.at(tokEOF) && !p.atPunct("}") {
			n.Children = []*Node{p.parseStatement()}
		}
	case "case":
		n.Children = []*Node{p.parseExpression()}
		if p.atPunct(":") {
			p.next()
		}
	default:
		t := p.peek()
		if !t.newlineBefore && t.kind != tokEOF && !t.isPunct(";") && !t.isPunct("}") {
			n.Children = []*Node{p.parseExpression()}
		}
		if p.atPunct(";") {
			p.next()
		}
	}
	return n
}

func (p *parser) parseExpressionStatement() *Node {
	start := p.peek().pos
	expr := p.parseExpression()
	if p.atPunct(";") {
		p.next()
	}
	return &Node{Kind: KindExpressionStatement, Pos: start, Children: []*Node{expr}}
}

func (p *parser) parseExpression() *Node {
	if !p.enter() {
		return p.skipToken()
	}
	defer p.leave()

	left := p.parseUnary()
	for {
		t := p.peek()
		switch {
		case t.kind == tokPunct && binaryOperators[t.text]:
			p.next()
			var right *Node
			if t.text == "=>" && p.atPunct("{") {
				right = p.parseBlock()
			} else {
				right = p.parseUnary()
			}
			left = &Node{Kind: KindBinaryExpression, Text: t.text, Pos: left.Pos, Children: []*Node{left, right}}
		case t.isPunct("?"):
			p.next()
			cond := &Node{Kind: KindConditionalExpression, Pos: left.Pos, Children: []*Node{left, p.parseExpression()}}
			if p.atPunct(":") {
				p.next()
				cond.Children = append(cond.Children, p.parseExpression())
			}
			left = cond
		case t.kind == tokIdent && keywordOperators[t.text] && !t.newlineBefore:
			p.next()
			left = &Node{Kind: KindBinaryExpression, Text: t.text, Pos: left.Pos, Children: []*Node{left, p.parseUnary()}}
		default:
			return left
		}
	}
}

var prefixOperators = map[string]bool{
	"!": true, "~": true, "+": true, "-": true, "++": true, "--": true,
}

var prefixKeywords = map[string]bool{
	"typeof": true, "void": true, "delete": true, "await": true, "new": true,
}

func (p *parser) parseUnary() *Node {
	t := p.peek()
	if t.kind == tokPunct && prefixOperators[t.text] ||
		t.kind == tokIdent && prefixKeywords[t.text] && startsExpression(p.peekAt(1)) {
		if !p.enter() {
			return p.skipToken()
		}
		defer p.leave()

		p.next()
		return &Node{Kind: KindUnaryExpression, Text: t.text, Pos: t.pos, Children: []*Node{p.parseUnary()}}
	}
	return p.parsePostfix(p.parsePrimary())
}

func startsExpression(t token) bool {
	switch t.kind {
	case tokIdent, tokString, tokTemplate, tokNumber, tokRegex:
		return true
	case tokPunct:
		return statementStartPunct[t.text] || t.text == "{"
	}
	return false
}

func (p *parser) parsePostfix(expr *Node) *Node {
	for {
		t := p.peek()
		switch {
		case t.isPunct(".") || t.isPunct("?."):
			nxt := p.peekAt(1)
			if nxt.kind == tokIdent {
				p.next()
				p.next()
				expr = &Node{Kind: KindPropertyAccess, Text: nxt.text, Pos: expr.Pos, Children: []*Node{expr}}
				continue
			}
			if t.text == "?." && (nxt.isPunct("(") || nxt.isPunct("[")) {
				p.next()
				continue
			}
			if nxt.isPunct("#") {
				p.next()
				p.next()
				name := p.next()
				expr = &Node{Kind: KindPropertyAccess, Text: "#" + name.text, Pos: expr.Pos, Children: []*Node{expr}}
				continue
			}
			return expr
		case t.isPunct("("):
			args := p.parseList(")", p.parseArgument)
			expr = &Node{Kind: KindCallExpression, Pos: expr.Pos, Children: append([]*Node{expr}, args...)}
		case t.isPunct("["):
			elems := p.parseList("]", p.parseArgument)
			expr = &Node{Kind: KindElementAccess, Pos: expr.Pos, Children: append([]*Node{expr}, elems...)}
		case t.kind == tokTemplate && !t.newlineBefore:
			tpl := p.parsePrimary()
			expr = &Node{Kind: KindCallExpression, Pos: expr.Pos, Children: []*Node{expr, tpl}}
		case t.isPunct("!") && !t.newlineBefore:
			p.next()
		case (t.isPunct("++") || t.isPunct("--")) && !t.newlineBefore:
			p.next()
			expr = &Node{Kind: KindUnaryExpression, Text: t.text, Pos: expr.Pos, Children: []*Node{expr}}
		default:
			return expr
		}
	}
}

// parsePrimary never consumes a token that cannot begin an expression; it
// returns an empty Unknown node instead so the caller decides how to recover.
func (p *parser) parsePrimary() *Node {
	t := p.peek()
	switch t.kind {
	case tokIdent:
		switch {
		case t.text == "function":
			return p.parseFunctionExpression()
		case t.text == "class":
			return p.parseDeclaration(t.pos, "class", nil)
		case reservedWords[t.text]:
			p.next()
			return &Node{Kind: KindKeyword, Text: t.text, Pos: t.pos}
		}
		p.next()
		return &Node{Kind: KindIdentifier, Text: t.text, Pos: t.pos}
	case tokString:
		p.next()
		return &Node{Kind: KindStringLiteral, Text: t.text, Pos: t.pos}
	case tokTemplate:
		p.next()
		if t.substitutions {
			return &Node{Kind: KindTemplateLiteral, Pos: t.pos}
		}
		return &Node{Kind: KindNoSubstitutionTemplate, Text: t.text, Pos: t.pos}
	case tokNumber:
		p.next()
		return &Node{Kind: KindNumericLiteral, Text: t.text, Pos: t.pos}
	case tokRegex:
		p.next()
		return &Node{Kind: KindRegexLiteral, Text: t.text, Pos: t.pos}
	case tokPunct:
		switch t.text {
		case "(":
			return &Node{Kind: KindParenthesized, Pos: t.pos, Children: p.parseList(")", p.parseArgument)}
		case "[":
			return &Node{Kind: KindArrayLiteral, Pos: t.pos, Children: p.parseList("]", p.parseArgument)}
		case "{":
			return &Node{Kind: KindObjectLiteral, Pos: t.pos, Children: p.parseList("}", p.parseProperty)}
		case "#":
			if p.peekAt(1).kind == tokIdent {
				p.next()
				name := p.next()
				return &Node{Kind: KindIdentifier, Text: "#" + name.text, Pos: t.pos}
			}
			p.next()
			return &Node{Kind: KindUnknown, Text: t.text, Pos: t.pos}
		}
	}
	return &Node{Kind: KindUnknown, Pos: t.pos}
}

func (p *parser) parseFunctionExpression() *Node {
	kw := p.next()
	n := &Node{Kind: KindFunctionExpression, Pos: kw.pos}
	if p.atPunct("*") {
		p.next()
	}
	if t := p.peek(); t.kind == tokIdent {
		p.next()
		n.Text = t.text
	}
	for !p.at(tokEOF) && !p.atPunct("{") && !p.atPunct(";") && !p.atPunct("}") {
		if p.atPunct("(") || p.atPunct("[") {
			p.skipBalanced()
			continue
		}
		p.next()
	}
	if p.atPunct("{") {
		n.Children = []*Node{p.parseBlock()}
	}
	return n
}

func (p *parser) parseArgument() *Node {
	if t := p.peek(); t.isPunct("...") {
		p.next()
		return &Node{Kind: KindSpreadElement, Pos: t.pos, Children: []*Node{p.parseExpression()}}
	}
	return p.parseExpression()
}

func (p *parser) parseProperty() *Node {
	t := p.peek()
	if t.isPunct("...") {
		p.next()
		return &Node{Kind: KindSpreadElement, Pos: t.pos, Children: []*Node{p.parseExpression()}}
	}

	// get/set/async prefixes and generator stars belong to methods
	for (t.isIdent("get") || t.isIdent("set") || t.isIdent("async")) && isPropertyKey(p.peekAt(1)) || t.isPunct("*") {
		p.next()
		t = p.peek()
	}

	var key *Node
	switch t.kind {
	case tokIdent:
		p.next()
		key = &Node{Kind: KindIdentifier, Text: t.text, Pos: t.pos}
	case tokString:
		p.next()
		key = &Node{Kind: KindStringLiteral, Text: t.text, Pos: t.pos}
	case tokNumber:
		p.next()
		key = &Node{Kind: KindNumericLiteral, Text: t.text, Pos: t.pos}
	default:
		if !t.isPunct("[") {
			return &Node{Kind: KindUnknown, Pos: t.pos}
		}
		key = &Node{Kind: KindElementAccess, Pos: t.pos, Children: p.parseList("]", p.parseArgument)}
	}

	switch {
	case p.atPunct(":"):
		p.next()
		return &Node{Kind: KindPropertyAssignment, Pos: key.Pos, Children: []*Node{key, p.parseExpression()}}
	case p.atPunct("(") || p.atPunct("<"):
		for !p.at(tokEOF) && !p.atPunct("{") && !p.atPunct(",") && !p.atPunct("}") {
			if p.atPunct("(") || p.atPunct("[") {
				p.skipBalanced()
				continue
			}
			p.next()
		}
		method := &Node{Kind: KindMethod, Pos: key.Pos, Children: []*Node{key}}
		if p.atPunct("{") {
			method.Children = append(method.Children, p.parseBlock())
		}
		return method
	case p.atPunct("="):
		p.next()
		return &Node{Kind: KindShorthandProperty, Pos: key.Pos, Children: []*Node{key, p.parseExpression()}}
	}
	return &Node{Kind: KindShorthandProperty, Pos: key.Pos, Children: []*Node{key}}
}

func isPropertyKey(t token) bool {
	return t.kind == tokIdent || t.kind == tokString || t.kind == tokNumber || t.isPunct("[")
}

// parseList parses a bracketed, comma separated list starting at the opening
// token. Tokens an item does not consume (type annotations, defaults) are
// skipped up to the next comma. A foreign closing bracket ends the list
// without being consumed.
func (p *parser) parseList(closer string, item func() *Node) []*Node {
	p.next()

	var items []*Node
	for !p.at(tokEOF) && !p.atPunct(closer) {
		if p.atPunct(",") {
			p.next()
			continue
		}

		before := p.i
		n := item()
		if p.i > before {
			items = append(items, n)
		}
		if p.atPunct(",") || p.atPunct(closer) {
			continue
		}
		if !p.skipToListSeparator(closer) {
			return items
		}
		if p.i == before {
			p.next()
		}
	}
	if p.atPunct(closer) {
		p.next()
	}
	return items
}

func (p *parser) skipToListSeparator(closer string) bool {
	depth := 0
	for !p.at(tokEOF) {
		t := p.peek()
		if t.kind == tokPunct {
			switch t.text {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				if depth == 0 {
					return t.text == closer
				}
				depth--
			case ",":
				if depth == 0 {
					return true
				}
			}
		}
		p.next()
	}
	return false
}

// skipBalanced consumes a bracketed group starting at the current opening token.
func (p *parser) skipBalanced() {
	depth := 0
	for !p.at(tokEOF) {
		t := p.next()
		if t.kind != tokPunct {
			continue
		}
		switch t.text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
		}
		if depth <= 0 {
			return
		}
	}
}

// skipStatement consumes tokens up to the end of the current statement: a
// semicolon, a line break that the previous and next tokens do not bridge, or
// the closing brace of the enclosing block.
func (p *parser) skipStatement() {
	depth := 0
	first := true
	for !p.at(tokEOF) {
		t := p.peek()
		if depth == 0 && !first {
			if t.isPunct("}") || t.isPunct(")") || t.isPunct("]") {
				return
			}
			if t.newlineBefore && !continues(p.prev(), t) {
				return
			}
		}
		if depth == 0 && t.isPunct(";") {
			p.next()
			return
		}
		if t.kind == tokPunct {
			switch t.text {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				if depth > 0 {
					depth--
				}
			}
		}
		p.next()
		first = false
	}
}

// continues reports whether a line break between prev and next stays inside one statement.
func continues(prev, next token) bool {
	if prev.kind == tokPunct {
		if binaryOperators[prev.text] {
			return true
		}
		switch prev.text {
		case ",", ".", "?.", "(", "[", "{", ":", "?", "...":
			return true
		}
	}
	if prev.kind == tokIdent && (prev.text == "from" || prev.text == "import" || prev.text == "export") {
		return true
	}
	if next.kind == tokPunct {
		if binaryOperators[next.text] {
			return true
		}
		switch next.text {
		case ".", "?.", ",", "?", ":", ")", "]":
			return true
		}
	}
	return next.kind == tokIdent && (next.text == "from" || next.text == "as" || next.text == "extends" || next.text == "implements")
}
