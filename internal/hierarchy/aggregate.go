package hierarchy

import (
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/ledger-sync/internal/domain"
)

// Aggregate recomputes totals bottom-up in place. A node with children gets the
// sum of its children's aggregated totals; a leaf keeps its stored values.
func Aggregate(nodes []domain.TreeNode) {
	for i := range nodes {
		n := &nodes[i]
		if len(n.Children) == 0 {
			continue
		}
		Aggregate(n.Children)

		debt, credit := decimal.Zero, decimal.Zero
		for _, c := range n.Children {
			debt = debt.Add(c.Debt)
			credit = credit.Add(c.Credit)
		}
		n.Debt = debt
		n.Credit = credit
	}
}
