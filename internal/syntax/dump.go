package syntax

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Dump writes an indented outline of the tree, one node per line.
func Dump(w io.Writer, n *Node) error {
	return dump(w, n, 0, "")
}

func dump(w io.Writer, n *Node, depth int, role string) error {
	if n == nil {
		return nil
	}

	line := strings.Repeat("  ", depth) + role + n.Kind.String()
	if n.Text != "" {
		line += " " + strconv.Quote(n.Text)
	}
	if _, err := fmt.Fprintf(w, "%s @%s\n", line, n.Pos); err != nil {
		return err
	}

	for _, m := range n.Modifiers {
		if err := dump(w, m, depth+1, "mod "); err != nil {
			return err
		}
	}
	for _, c := range n.Children {
		if err := dump(w, c, depth+1, ""); err != nil {
			return err
		}
	}
	return nil
}
