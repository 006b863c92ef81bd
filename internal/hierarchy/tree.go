package hierarchy

import (
	"strings"

	"github.com/josh-kwaku/ledger-sync/internal/domain"
)

// Build links level records into a tree. A sub-group hangs under a group when
// its code starts with the group code followed by ".", and an account under a
// sub-group by the same rule. Order follows the input order within each level.
//
// Records that end up with no parent in the tree are returned as orphans and
// are not part of the result.
func Build(records []domain.LevelRecord) ([]domain.TreeNode, []domain.LevelRecord) {
	var groups, subGroups, accounts []domain.LevelRecord
	var orphans []domain.LevelRecord
	for _, r := range records {
		switch r.Level {
		case domain.LevelGroup:
			groups = append(groups, r)
		case domain.LevelSubGroup:
			subGroups = append(subGroups, r)
		case domain.LevelAccount:
			accounts = append(accounts, r)
		default:
			orphans = append(orphans, r)
		}
	}

	subAttached := make([]bool, len(subGroups))
	accAttached := make([]bool, len(accounts))

	roots := make([]domain.TreeNode, 0, len(groups))
	for _, g := range groups {
		root := newNode(g)
		for i, sg := range subGroups {
			if !isChildCode(sg.Code, g.Code) {
				continue
			}
			subAttached[i] = true

			sub := newNode(sg)
			for j, acc := range accounts {
				if isChildCode(acc.Code, sg.Code) {
					accAttached[j] = true
					sub.Children = append(sub.Children, newNode(acc))
				}
			}
			root.Children = append(root.Children, sub)
		}
		roots = append(roots, root)
	}

	for i, sg := range subGroups {
		if !subAttached[i] {
			orphans = append(orphans, sg)
		}
	}
	for j, acc := range accounts {
		if !accAttached[j] {
			orphans = append(orphans, acc)
		}
	}

	return roots, orphans
}

func isChildCode(code, parent string) bool {
	return strings.HasPrefix(code, parent+".")
}

func newNode(r domain.LevelRecord) domain.TreeNode {
	return domain.TreeNode{
		Code:     r.Code,
		Name:     r.Name,
		Debt:     r.Debt,
		Credit:   r.Credit,
		Level:    r.Level,
		Children: []domain.TreeNode{},
	}
}
