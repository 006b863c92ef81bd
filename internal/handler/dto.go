package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/ledger-sync/internal/domain"
)

// Amounts go over the wire as JSON numbers.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type treeNodeDTO struct {
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Debt     decimal.Decimal `json:"debt"`
	Credit   decimal.Decimal `json:"credit"`
	Level    int             `json:"level"`
	Children []treeNodeDTO   `json:"children"`
}

func toTreeNodeDTOs(nodes []domain.TreeNode) []treeNodeDTO {
	out := make([]treeNodeDTO, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, treeNodeDTO{
			Code:     n.Code,
			Name:     n.Name,
			Debt:     n.Debt,
			Credit:   n.Credit,
			Level:    int(n.Level),
			Children: toTreeNodeDTOs(n.Children),
		})
	}
	return out
}

type levelRecordDTO struct {
	ID        uuid.UUID       `json:"id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Debt      decimal.Decimal `json:"debt"`
	Credit    decimal.Decimal `json:"credit"`
	Level     int             `json:"level"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func toLevelRecordDTOs(records []domain.LevelRecord) []levelRecordDTO {
	out := make([]levelRecordDTO, 0, len(records))
	for _, r := range records {
		out = append(out, levelRecordDTO{
			ID:        r.ID,
			Code:      r.Code,
			Name:      r.Name,
			Debt:      r.Debt,
			Credit:    r.Credit,
			Level:     int(r.Level),
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		})
	}
	return out
}
