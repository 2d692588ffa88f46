// Package reports renders inventory and trading data as xlsx workbooks.
package reports

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/inventory-ledger/internal/domain/item"
	"github.com/inventory-ledger/internal/domain/purchase"
	"github.com/inventory-ledger/internal/domain/sale"
)

// money converts minor units to a display amount
func money(cents int64) float64 {
	return float64(cents) / 100
}

// writeHeader writes and styles the header row of a sheet
func writeHeader(f *excelize.File, sheet string, headers []string) error {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return err
	}

	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
	}
	return nil
}

// writeRow writes one data row starting at column A
func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// newWorkbook creates a workbook whose single sheet carries the given name
func newWorkbook(sheet string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// BuildInventoryReport renders the current item directory, one row per
// item, with a stock valuation column at cost
func BuildInventoryReport(items []*item.Item) (*excelize.File, error) {
	const sheet = "Inventory"
	f, err := newWorkbook(sheet)
	if err != nil {
		return nil, err
	}

	headers := []string{"SKU", "Name", "Category", "Quantity", "Reorder Level", "Low Stock", "Unit Price", "Cost Price", "Stock Value"}
	if err := writeHeader(f, sheet, headers); err != nil {
		f.Close()
		return nil, err
	}

	for i, itm := range items {
		row := []interface{}{
			itm.SKU,
			itm.Name,
			itm.Category,
			itm.Quantity,
			itm.ReorderLevel,
			itm.IsLowStock(),
			money(itm.UnitPrice),
			money(itm.CostPrice),
			money(itm.Quantity * itm.CostPrice),
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

// BuildSalesReport renders sales within a range, one row per sale line
func BuildSalesReport(sales []*sale.Sale, from, to time.Time) (*excelize.File, error) {
	const sheet = "Sales"
	f, err := newWorkbook(sheet)
	if err != nil {
		return nil, err
	}

	headers := []string{"Sale ID", "Occurred At", "Customer", "Payment Method", "Reference", "Item", "Quantity", "Unit Price", "Line Total"}
	if err := writeHeader(f, sheet, headers); err != nil {
		f.Close()
		return nil, err
	}

	rowNum := 2
	var total int64
	for _, s := range sales {
		for _, line := range s.Lines {
			row := []interface{}{
				s.ID.String(),
				s.OccurredAt.Format(time.RFC3339),
				s.CustomerName,
				s.PaymentMethod,
				s.Reference,
				line.ItemName,
				line.Quantity,
				money(line.UnitPrice),
				money(line.LineTotal),
			}
			if err := writeRow(f, sheet, rowNum, row); err != nil {
				f.Close()
				return nil, err
			}
			rowNum++
		}
		total += s.TotalAmount
	}

	footer := []interface{}{
		fmt.Sprintf("Total for %s to %s", from.Format("2006-01-02"), to.Format("2006-01-02")),
		"", "", "", "", "", "", "",
		money(total),
	}
	if err := writeRow(f, sheet, rowNum+1, footer); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

// BuildPurchasesReport renders purchases within a range, one row per
// purchase line
func BuildPurchasesReport(purchases []*purchase.Purchase, from, to time.Time) (*excelize.File, error) {
	const sheet = "Purchases"
	f, err := newWorkbook(sheet)
	if err != nil {
		return nil, err
	}

	headers := []string{"Purchase ID", "Occurred At", "Supplier", "Reference", "Item", "Quantity", "Cost Price", "Line Total"}
	if err := writeHeader(f, sheet, headers); err != nil {
		f.Close()
		return nil, err
	}

	rowNum := 2
	var total int64
	for _, p := range purchases {
		for _, line := range p.Lines {
			row := []interface{}{
				p.ID.String(),
				p.OccurredAt.Format(time.RFC3339),
				p.SupplierName,
				p.Reference,
				line.ItemName,
				line.Quantity,
				money(line.CostPrice),
				money(line.LineTotal),
			}
			if err := writeRow(f, sheet, rowNum, row); err != nil {
				f.Close()
				return nil, err
			}
			rowNum++
		}
		total += p.TotalAmount
	}

	footer := []interface{}{
		fmt.Sprintf("Total for %s to %s", from.Format("2006-01-02"), to.Format("2006-01-02")),
		"", "", "", "", "", "",
		money(total),
	}
	if err := writeRow(f, sheet, rowNum+1, footer); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}
