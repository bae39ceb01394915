package infra

import (
	"fmt"

	"dukapos/internal/dto"

	"github.com/xuri/excelize/v2"
)

// ExcelReports renders report data as .xlsx workbooks for download.
type ExcelReports struct{}

func NewExcelReports() *ExcelReports { return &ExcelReports{} }

// SalesWorkbook writes the sales report into a workbook with a summary sheet,
// the daily breakdown and the top products.
func (e *ExcelReports) SalesWorkbook(report *dto.SalesReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sales"
	f.SetSheetName(f.GetSheetName(0), sheet)

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	rows := [][]interface{}{
		{"Sales report", fmt.Sprintf("%s to %s", report.From, report.To)},
		{},
		{"Total sales", report.TotalSales.StringFixed(2)},
		{"Cash", report.TotalCash.StringFixed(2)},
		{"Card", report.TotalCard.StringFixed(2)},
		{"M-Pesa", report.TotalMpesa.StringFixed(2)},
		{"Transactions", report.SaleCount},
		{},
		{"Date", "Amount"},
	}
	for _, d := range report.DailyTotals {
		rows = append(rows, []interface{}{d.Date, d.Amount.StringFixed(2)})
	}
	rows = append(rows, []interface{}{}, []interface{}{"Product", "Qty", "Amount"})
	for _, p := range report.TopProducts {
		rows = append(rows, []interface{}{p.Name, p.QuantitySum, p.AmountSum.StringFixed(2)})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", bold); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "A", "A", 24); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
