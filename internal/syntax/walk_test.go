package syntax

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect_VisitsModifiersBeforeChildren(t *testing.T) {
	root := mustParse(t, "@Route({name: 'a'}) export struct A {}")

	var idents []string
	Inspect(root, func(n *Node) bool {
		if n.Is(KindIdentifier) {
			idents = append(idents, n.Text)
		}
		return true
	})
	assert.Equal(t, []string{"Route", "name", "struct", "A"}, idents)
}

func TestInspect_Prune(t *testing.T) {
	root := mustParse(t, "f(g(h()))")

	calls := 0
	Inspect(root, func(n *Node) bool {
		if n.Is(KindCallExpression) {
			calls++
			return false
		}
		return true
	})
	assert.Equal(t, 1, calls)
}

func TestForEachChild(t *testing.T) {
	root := mustParse(t, "a\nb\nc")

	var seen []string
	err := ForEachChild(root, func(n *Node) error {
		seen = append(seen, n.Expression().Text)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, seen)

	stop := errors.New("stop")
	seen = nil
	err = ForEachChild(root, func(n *Node) error {
		seen = append(seen, n.Expression().Text)
		if len(seen) == 2 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Len(t, seen, 2)

	assert.NoError(t, ForEachChild(nil, func(*Node) error { return stop }))
}

func TestDispatcher(t *testing.T) {
	d := NewDispatcher[int]().
		On(KindExpressionStatement, func(_ *Node, n int) (int, error) { return n + 1, nil }).
		On(KindBlock, func(_ *Node, n int) (int, error) { return n * 10, nil })

	root := mustParse(t, "a\nb\n{}\n;")
	state := 0
	for _, c := range root.Children {
		var err error
		state, err = d.Dispatch(c, state)
		require.NoError(t, err)
	}
	// (0+1+1)*10, the empty statement has no handler
	assert.Equal(t, 20, state)
}

func TestDispatcher_Otherwise(t *testing.T) {
	d := NewDispatcher[[]Kind]().Otherwise(func(n *Node, seen []Kind) ([]Kind, error) {
		return append(seen, n.Kind), nil
	})

	seen, err := d.Dispatch(&Node{Kind: KindBlock}, nil)
	require.NoError(t, err)
	assert.Equal(t, []Kind{KindBlock}, seen)

	seen, err = d.Dispatch(nil, seen)
	require.NoError(t, err)
	assert.Len(t, seen, 1)
}

func TestDispatcher_ErrorKeepsHandlerState(t *testing.T) {
	boom := errors.New("boom")
	d := NewDispatcher[string]().On(KindIdentifier, func(_ *Node, s string) (string, error) {
		return s + "!", boom
	})

	got, err := d.Dispatch(&Node{Kind: KindIdentifier}, "state")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "state!", got)
}

func TestDispatcher_RecoversPanic(t *testing.T) {
	d := NewDispatcher[string]().On(KindIdentifier, func(n *Node, s string) (string, error) {
		_ = n.Children[5]
		return "unreachable", nil
	})

	got, err := d.Dispatch(&Node{Kind: KindIdentifier, Pos: Position{Line: 2, Column: 4}}, "before")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Identifier at 2:4 panicked")
	assert.Equal(t, "before", got)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "MissingDeclaration", KindMissingDeclaration.String())
	assert.Equal(t, "Kind(?)", Kind(999).String())
}
