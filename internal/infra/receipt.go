package infra

import (
	"fmt"
	"os"
	"path/filepath"

	"dukapos/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// ReceiptRenderer renders settled sales as 80mm thermal-style PDF tickets
// under the configured storage path.
type ReceiptRenderer struct {
	storagePath string
}

func NewReceiptRenderer(storagePath string) (*ReceiptRenderer, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return nil, err
	}
	return &ReceiptRenderer{storagePath: storagePath}, nil
}

func (r *ReceiptRenderer) Render(sale *model.Sale, settings *model.Settings) (string, error) {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "mm",
		Size:    fpdf.SizeType{Wd: 80, Ht: 200},
	})
	pdf.SetMargins(5, 5, 5)
	pdf.AddPage()

	pdf.SetFont("Courier", "B", 11)
	pdf.CellFormat(70, 5, settings.StoreName, "", 1, "C", false, 0, "")

	pdf.SetFont("Courier", "", 8)
	if settings.ReceiptHeader != nil {
		pdf.CellFormat(70, 4, *settings.ReceiptHeader, "", 1, "C", false, 0, "")
	}
	if settings.ReceiptAddress != nil {
		pdf.CellFormat(70, 4, *settings.ReceiptAddress, "", 1, "C", false, 0, "")
	}
	if settings.ReceiptPhone != nil {
		pdf.CellFormat(70, 4, "Tel: "+*settings.ReceiptPhone, "", 1, "C", false, 0, "")
	}
	pdf.CellFormat(70, 4, sale.SaleDate.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	pdf.CellFormat(70, 4, "Receipt "+shortID(sale), "", 1, "C", false, 0, "")
	divider(pdf)

	for _, item := range sale.Items {
		name := fmt.Sprintf("item %s", item.ProductID)
		if item.Product != nil {
			name = item.Product.Name
		}
		pdf.CellFormat(70, 4, name, "", 1, "L", false, 0, "")
		qtyLine := fmt.Sprintf("%d x %s", item.Quantity, money(settings, item.UnitPrice))
		pdf.CellFormat(40, 4, qtyLine, "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 4, money(settings, item.TotalPrice), "", 1, "R", false, 0, "")
	}
	divider(pdf)

	totalRow(pdf, "Subtotal", money(settings, sale.Subtotal))
	totalRow(pdf, "Tax", money(settings, sale.TaxAmount))
	if sale.DiscountAmount.IsPositive() {
		totalRow(pdf, "Discount", "-"+money(settings, sale.DiscountAmount))
	}
	pdf.SetFont("Courier", "B", 10)
	totalRow(pdf, "TOTAL", money(settings, sale.TotalAmount))
	pdf.SetFont("Courier", "", 8)
	totalRow(pdf, "Paid by", sale.PaymentMethod)

	if settings.ReceiptFooter != nil {
		divider(pdf)
		pdf.CellFormat(70, 4, *settings.ReceiptFooter, "", 1, "C", false, 0, "")
	}

	path := filepath.Join(r.storagePath, sale.ID.String()+".pdf")
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", err
	}
	return path, nil
}

func divider(pdf *fpdf.Fpdf) {
	pdf.CellFormat(70, 3, "------------------------------------", "", 1, "C", false, 0, "")
}

func totalRow(pdf *fpdf.Fpdf, label, value string) {
	pdf.CellFormat(40, 4, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(30, 4, value, "", 1, "R", false, 0, "")
}

func money(settings *model.Settings, amount decimal.Decimal) string {
	return settings.Currency + " " + amount.StringFixed(2)
}

func shortID(sale *model.Sale) string {
	id := sale.ID.String()
	return id[:8]
}
