package syntax

// Kind tags the variant of a Node. The set is closed; consumers switch on it
// or register handlers per kind with a Dispatcher.
type Kind int

const (
	KindUnknown Kind = iota
	KindSourceFile
	KindBlock
	KindEmptyStatement
	KindExpressionStatement
	KindDeclaration
	KindMissingDeclaration
	KindExportAssignment
	KindDecorator
	KindModifier
	KindIdentifier
	KindStringLiteral
	KindNumericLiteral
	KindTemplateLiteral
	KindNoSubstitutionTemplate
	KindRegexLiteral
	KindObjectLiteral
	KindPropertyAssignment
	KindShorthandProperty
	KindMethod
	KindSpreadElement
	KindArrayLiteral
	KindParenthesized
	KindCallExpression
	KindPropertyAccess
	KindElementAccess
	KindUnaryExpression
	KindBinaryExpression
	KindConditionalExpression
	KindFunctionExpression
	KindKeyword
	KindControlStatement
)

var kindNames = map[Kind]string{
	KindUnknown:                "Unknown",
	KindSourceFile:             "SourceFile",
	KindBlock:                  "Block",
	KindEmptyStatement:         "EmptyStatement",
	KindExpressionStatement:    "ExpressionStatement",
	KindDeclaration:            "Declaration",
	KindMissingDeclaration:     "MissingDeclaration",
	KindExportAssignment:       "ExportAssignment",
	KindDecorator:              "Decorator",
	KindModifier:               "Modifier",
	KindIdentifier:             "Identifier",
	KindStringLiteral:          "StringLiteral",
	KindNumericLiteral:         "NumericLiteral",
	KindTemplateLiteral:        "TemplateLiteral",
	KindNoSubstitutionTemplate: "NoSubstitutionTemplate",
	KindRegexLiteral:           "RegexLiteral",
	KindObjectLiteral:          "ObjectLiteral",
	KindPropertyAssignment:     "PropertyAssignment",
	KindShorthandProperty:      "ShorthandProperty",
	KindMethod:                 "Method",
	KindSpreadElement:          "SpreadElement",
	KindArrayLiteral:           "ArrayLiteral",
	KindParenthesized:          "Parenthesized",
	KindCallExpression:         "CallExpression",
	KindPropertyAccess:         "PropertyAccess",
	KindElementAccess:          "ElementAccess",
	KindUnaryExpression:        "UnaryExpression",
	KindBinaryExpression:       "BinaryExpression",
	KindConditionalExpression:  "ConditionalExpression",
	KindFunctionExpression:     "FunctionExpression",
	KindKeyword:                "Keyword",
	KindControlStatement:       "ControlStatement",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Kind(?)"
}

// Node is one element of the parsed tree. The meaning of Text and Children depends on Kind:
//
//	Identifier, Modifier, Keyword    Text is the name or keyword
//	ControlStatement                 Text is the leading keyword (if, return, ...)
//	StringLiteral, NoSubstitution... Text is the cooked value
//	Declaration                      Text is the leading keyword (class, function, import, ...)
//	ExpressionStatement, Decorator   Children[0] is the expression
//	ExportAssignment                 Children[0] is the exported expression
//	CallExpression                   Children[0] is the callee, the rest are arguments
//	PropertyAssignment               Children[0] is the key, Children[1] the initializer
//	PropertyAccess                   Children[0] is the object, Text the property name
//	Unary/BinaryExpression           Text is the operator
//	SourceFile, Block                Children are statements
//	ObjectLiteral, ArrayLiteral      Children are properties or elements
//
// Modifiers holds decorators and keyword modifiers (export, default, declare, ...)
// attached to declaration-like nodes, in source order.
type Node struct {
	Kind      Kind
	Text      string
	Pos       Position
	Modifiers []*Node
	Children  []*Node
}

// Child returns the i-th child or nil.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Is reports whether n is non-nil and of kind k.
func (n *Node) Is(k Kind) bool {
	return n != nil && n.Kind == k
}

// Expression returns the wrapped expression of statements, decorators and export assignments.
func (n *Node) Expression() *Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindExpressionStatement, KindDecorator, KindExportAssignment, KindParenthesized, KindSpreadElement:
		return n.Child(0)
	}
	return nil
}

// Callee returns the called expression of a CallExpression.
func (n *Node) Callee() *Node {
	if !n.Is(KindCallExpression) {
		return nil
	}
	return n.Child(0)
}

// Arguments returns the arguments of a CallExpression.
func (n *Node) Arguments() []*Node {
	if !n.Is(KindCallExpression) || len(n.Children) < 2 {
		return nil
	}
	return n.Children[1:]
}

// Key returns the key of a property assignment, shorthand property or method.
func (n *Node) Key() *Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindPropertyAssignment, KindShorthandProperty, KindMethod:
		return n.Child(0)
	}
	return nil
}

// Initializer returns the value of a PropertyAssignment.
func (n *Node) Initializer() *Node {
	if !n.Is(KindPropertyAssignment) {
		return nil
	}
	return n.Child(1)
}

// StringValue returns the literal value of string-like nodes.
func (n *Node) StringValue() (string, bool) {
	if n.Is(KindStringLiteral) || n.Is(KindNoSubstitutionTemplate) {
		return n.Text, true
	}
	return "", false
}
