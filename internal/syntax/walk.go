package syntax

import "fmt"

// A Visitor's Visit method is invoked for each node encountered by Walk.
// If the result visitor w is not nil, Walk visits each of the modifiers and
// children of node with w, followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(n *Node) (w Visitor)
}

// Walk traverses a tree in depth-first order: modifiers first, then children.
func Walk(v Visitor, n *Node) {
	if v = v.Visit(n); v == nil {
		return
	}
	for _, m := range n.Modifiers {
		Walk(v, m)
	}
	for _, c := range n.Children {
		Walk(v, c)
	}
	v.Visit(nil)
}

type inspector func(*Node) bool

func (f inspector) Visit(n *Node) Visitor {
	if f(n) {
		return f
	}
	return nil
}

// Inspect traverses a tree in depth-first order, calling f for each node and
// finally f(nil). If f returns false the children of that node are skipped.
func Inspect(n *Node, f func(*Node) bool) {
	Walk(inspector(f), n)
}

// ForEachChild calls fn for the direct modifiers and children of n, stopping
// at the first error.
func ForEachChild(n *Node, fn func(*Node) error) error {
	if n == nil {
		return nil
	}
	for _, m := range n.Modifiers {
		if err := fn(m); err != nil {
			return err
		}
	}
	for _, c := range n.Children {
		if err := fn(c); err != nil {
			return err
		}
	}
	return nil
}

// Handler processes one node and returns the next traversal state.
type Handler[S any] func(n *Node, state S) (S, error)

// Dispatcher routes nodes to handlers by Kind and threads an explicit state
// value through them. A panicking handler is converted to an error and the
// state is left as it was before the call.
type Dispatcher[S any] struct {
	handlers  map[Kind]Handler[S]
	otherwise Handler[S]
}

// NewDispatcher returns a dispatcher that passes unhandled kinds through unchanged.
func NewDispatcher[S any]() *Dispatcher[S] {
	return &Dispatcher[S]{handlers: make(map[Kind]Handler[S])}
}

// On registers h for nodes of kind k, replacing any previous handler.
func (d *Dispatcher[S]) On(k Kind, h Handler[S]) *Dispatcher[S] {
	d.handlers[k] = h
	return d
}

// Otherwise registers the handler used for kinds without a dedicated one.
func (d *Dispatcher[S]) Otherwise(h Handler[S]) *Dispatcher[S] {
	d.otherwise = h
	return d
}

// Dispatch runs the handler for n. On error the state returned by the handler is kept.
func (d *Dispatcher[S]) Dispatch(n *Node, state S) (next S, err error) {
	if n == nil {
		return state, nil
	}
	h, ok := d.handlers[n.Kind]
	if !ok {
		h = d.otherwise
	}
	if h == nil {
		return state, nil
	}

	defer func() {
		if r := recover(); r != nil {
			next = state
			err = fmt.Errorf("handler for %s at %s panicked: %v", n.Kind, n.Pos, r)
		}
	}()
	return h(n, state)
}
