// Package export renders the account hierarchy as a spreadsheet.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/josh-kwaku/ledger-sync/internal/domain"
)

const (
	SheetName   = "Hierarchy"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// built-in format "#,##0.00"
	amountNumFmt = 4
)

var header = []any{"Code", "Name", "Level", "Debt", "Credit", "Balance"}

// WriteHierarchyXLSX writes nodes depth-first, one row per node, with names
// indented by level and balance = debt - credit.
func WriteHierarchyXLSX(w io.Writer, nodes []domain.TreeNode) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("WriteHierarchyXLSX: %w", err)
	}

	styles, err := newStyles(f)
	if err != nil {
		return fmt.Errorf("WriteHierarchyXLSX: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("WriteHierarchyXLSX: header: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", "F1", styles.header); err != nil {
		return fmt.Errorf("WriteHierarchyXLSX: header style: %w", err)
	}

	row := 2
	if err := writeNodes(f, styles, nodes, &row); err != nil {
		return fmt.Errorf("WriteHierarchyXLSX: %w", err)
	}

	if err := f.SetColWidth(SheetName, "A", "A", 16); err != nil {
		return fmt.Errorf("WriteHierarchyXLSX: %w", err)
	}
	if err := f.SetColWidth(SheetName, "B", "B", 42); err != nil {
		return fmt.Errorf("WriteHierarchyXLSX: %w", err)
	}
	if err := f.SetColWidth(SheetName, "D", "F", 18); err != nil {
		return fmt.Errorf("WriteHierarchyXLSX: %w", err)
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("WriteHierarchyXLSX: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("WriteHierarchyXLSX: write: %w", err)
	}
	return nil
}

type sheetStyles struct {
	header int
	label  map[domain.Level]int
	amount map[domain.Level]int
}

func newStyles(f *excelize.File) (*sheetStyles, error) {
	s := &sheetStyles{
		label:  make(map[domain.Level]int),
		amount: make(map[domain.Level]int),
	}

	var err error
	if s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9E1F2"}},
	}); err != nil {
		return nil, err
	}

	for _, lvl := range []domain.Level{domain.LevelGroup, domain.LevelSubGroup, domain.LevelAccount} {
		bold := lvl != domain.LevelAccount
		if s.label[lvl], err = f.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Bold: bold},
			Alignment: &excelize.Alignment{Indent: int(lvl) - 1},
		}); err != nil {
			return nil, err
		}
		if s.amount[lvl], err = f.NewStyle(&excelize.Style{
			Font:   &excelize.Font{Bold: bold},
			NumFmt: amountNumFmt,
		}); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func writeNodes(f *excelize.File, styles *sheetStyles, nodes []domain.TreeNode, row *int) error {
	for _, n := range nodes {
		first, err := excelize.CoordinatesToCellName(1, *row)
		if err != nil {
			return err
		}
		values := []any{
			n.Code,
			n.Name,
			int(n.Level),
			n.Debt.InexactFloat64(),
			n.Credit.InexactFloat64(),
			n.Debt.Sub(n.Credit).InexactFloat64(),
		}
		if err := f.SetSheetRow(SheetName, first, &values); err != nil {
			return fmt.Errorf("row %d: %w", *row, err)
		}

		lastLabel, _ := excelize.CoordinatesToCellName(3, *row)
		firstAmount, _ := excelize.CoordinatesToCellName(4, *row)
		lastAmount, _ := excelize.CoordinatesToCellName(6, *row)
		if err := f.SetCellStyle(SheetName, first, lastLabel, styles.label[n.Level]); err != nil {
			return fmt.Errorf("row %d: %w", *row, err)
		}
		if err := f.SetCellStyle(SheetName, firstAmount, lastAmount, styles.amount[n.Level]); err != nil {
			return fmt.Errorf("row %d: %w", *row, err)
		}

		*row++
		if err := writeNodes(f, styles, n.Children, row); err != nil {
			return err
		}
	}
	return nil
}
