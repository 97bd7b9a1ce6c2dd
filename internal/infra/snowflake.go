package infra

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// InvoiceNumbers issues invoice numbers of the form INV-<snowflake id>.
// Ids are time-ordered and unique per node, so concurrent servers need
// distinct SNOWFLAKE_NODE values.
type InvoiceNumbers struct {
	node *snowflake.Node
}

func NewInvoiceNumbers(node int64) (*InvoiceNumbers, error) {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, fmt.Errorf("snowflake node %d: %w", node, err)
	}
	return &InvoiceNumbers{node: n}, nil
}

func (g *InvoiceNumbers) Next() string {
	return "INV-" + g.node.Generate().String()
}
