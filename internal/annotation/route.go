package annotation

import (
	"fmt"

	"github.com/vvka-141/arkroute/internal/syntax"
	"github.com/vvka-141/arkroute/pkg/arkroute"
)

// routeArgument returns the object literal passed to a @Route(...) decorator.
func routeArgument(modifier *syntax.Node) (*syntax.Node, bool) {
	if !modifier.Is(syntax.KindDecorator) {
		return nil, false
	}
	call := modifier.Expression()
	callee := call.Callee()
	if !callee.Is(syntax.KindIdentifier) || callee.Text != arkroute.RouteAnnotation {
		return nil, false
	}
	args := call.Arguments()
	if len(args) == 0 || !args[0].Is(syntax.KindObjectLiteral) {
		return nil, false
	}
	return args[0], true
}

// routeFields reads name and description from the Route object literal.
// Only identifier keys count. A later key overrides an earlier one.
func routeFields(obj *syntax.Node) (name, description string, err error) {
	for _, prop := range obj.Children {
		if !prop.Is(syntax.KindPropertyAssignment) {
			continue
		}
		key := prop.Key()
		if !key.Is(syntax.KindIdentifier) {
			continue
		}

		switch key.Text {
		case arkroute.RouteNameKey:
			value, ok := prop.Initializer().StringValue()
			if !ok {
				name = ""
				err = fmt.Errorf("route %s at %s is not a string literal", arkroute.RouteNameKey, key.Pos)
				continue
			}
			name, err = value, nil
		case arkroute.RouteDescKey:
			if value, ok := prop.Initializer().StringValue(); ok {
				description = value
			}
		}
	}
	return name, description, err
}
