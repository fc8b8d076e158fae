package invoice

import (
	"bytes"
	"fmt"

	"restaurant-order-services/internal/config"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
)

const timeLayout = "2006-01-02 15:04"

func newDocument(r config.Restaurant) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.SetTitle("Invoice", false)
	pdf.SetCreator(r.Name, false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, r.Name, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, line := range []string{r.Address, r.Phone, r.Email} {
		if line != "" {
			pdf.CellFormat(0, 5, line, "", 1, "C", false, 0, "")
		}
	}
	if r.TaxNumber != "" {
		pdf.CellFormat(0, 5, "Tax No: "+r.TaxNumber, "", 1, "C", false, 0, "")
	}
	pdf.Ln(2)
	return pdf
}

func itemTable(pdf *gofpdf.Fpdf, currency string, lines []Line) {
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(90, 6, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(20, 6, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(38, 6, "Price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(38, 6, "Amount", "B", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, line := range lines {
		pdf.CellFormat(90, 5, line.Name, "", 0, "L", false, 0, "")
		pdf.CellFormat(20, 5, fmt.Sprintf("%d", line.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(38, 5, money(currency, line.UnitPrice), "", 0, "R", false, 0, "")
		pdf.CellFormat(38, 5, money(currency, line.Amount), "", 1, "R", false, 0, "")
		if line.Notes != "" {
			pdf.SetFont("Arial", "I", 8)
			pdf.MultiCell(0, 4, "  Notes: "+line.Notes, "", "L", false)
			pdf.SetFont("Arial", "", 9)
		}
	}
}

func totals(pdf *gofpdf.Fpdf, currency string, t Totals) {
	pdf.Ln(2)
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(148, 5, "Subtotal", "T", 0, "R", false, 0, "")
	pdf.CellFormat(38, 5, money(currency, t.Subtotal), "T", 1, "R", false, 0, "")
	pdf.CellFormat(148, 5, fmt.Sprintf("Tax (%s%%)", t.TaxRate.Mul(decimal.NewFromInt(100)).String()), "", 0, "R", false, 0, "")
	pdf.CellFormat(38, 5, money(currency, t.Tax), "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(148, 7, "Total", "", 0, "R", false, 0, "")
	pdf.CellFormat(38, 7, money(currency, t.Total), "", 1, "R", false, 0, "")
}

func footer(pdf *gofpdf.Fpdf, r config.Restaurant, paymentMethod string) ([]byte, error) {
	pdf.Ln(3)
	pdf.SetFont("Arial", "", 9)
	if paymentMethod != "" {
		pdf.CellFormat(0, 5, "Payment: "+paymentMethod, "", 1, "L", false, 0, "")
	}
	if r.Footer != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "I", 9)
		pdf.CellFormat(0, 5, r.Footer, "", 1, "C", false, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func renderOrder(r config.Restaurant, inv OrderInvoice) ([]byte, error) {
	pdf := newDocument(r)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Invoice for order #%d", inv.OrderID), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf("Table %d", inv.TableNumber), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, "Date: "+inv.OrderDate.Format(timeLayout), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	itemTable(pdf, r.Currency, inv.Items)
	totals(pdf, r.Currency, inv.Totals)
	return footer(pdf, r, inv.PaymentMethod)
}

func renderSession(r config.Restaurant, inv SessionInvoice) ([]byte, error) {
	pdf := newDocument(r)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Table %d session invoice", inv.TableNumber), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, "Session: "+inv.SessionID, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, "Started: "+inv.StartTime.Format(timeLayout), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	for _, order := range inv.Orders {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, fmt.Sprintf("Order #%d  %s  (%s)", order.OrderID, order.OrderDate.Format(timeLayout), order.Status), "", 1, "L", false, 0, "")
		itemTable(pdf, r.Currency, order.Items)
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(148, 5, "Order total", "", 0, "R", false, 0, "")
		pdf.CellFormat(38, 5, money(r.Currency, order.Totals.Total), "", 1, "R", false, 0, "")
		pdf.Ln(2)
	}

	totals(pdf, r.Currency, inv.Totals)
	return footer(pdf, r, inv.PaymentMethod)
}

func money(currency string, v decimal.Decimal) string {
	if currency == "" {
		return v.StringFixed(2)
	}
	return currency + " " + v.StringFixed(2)
}
