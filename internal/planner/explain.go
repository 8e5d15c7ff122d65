package planner

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/relq/internal/queryir"
)

// Operator names as they appear in plan output.
const (
	OpScan       = "SequentialScan"
	OpSelection  = "Selection"
	OpProjection = "Projection"
)

// Node describes one operator of a plan.
type Node struct {
	Operator string `json:"operator"`
	Detail   string `json:"detail"`
	Child    *Node  `json:"child,omitempty"`
}

// Describe returns the tree Build would assemble for stmt, without opening
// the source.
func Describe(stmt queryir.Select) (*Node, error) {
	if err := Check(stmt); err != nil {
		return nil, err
	}

	node := &Node{Operator: OpScan, Detail: strconv.Quote(stmt.From.Path())}
	if stmt.Filter != nil {
		node = &Node{Operator: OpSelection, Detail: queryir.FormatExpr(stmt.Filter), Child: node}
	}
	if len(stmt.Targets) > 0 {
		node = &Node{Operator: OpProjection, Detail: queryir.FormatTargets(stmt.Targets), Child: node}
	}
	return node, nil
}

// String renders the tree root first, one operator per line, each child
// indented two spaces deeper than its parent.
func (n *Node) String() string {
	var b strings.Builder
	depth := 0
	for cur := n; cur != nil; cur = cur.Child {
		fmt.Fprintf(&b, "%s%s(%s)\n", strings.Repeat("  ", depth), cur.Operator, cur.Detail)
		depth++
	}
	return b.String()
}

// Depth returns the number of operators in the tree.
func (n *Node) Depth() int {
	depth := 0
	for cur := n; cur != nil; cur = cur.Child {
		depth++
	}
	return depth
}
