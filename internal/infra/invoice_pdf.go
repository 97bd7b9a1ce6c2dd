package infra

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Akilucky-rogue/biz-boundless/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

const walkInCustomer = "Walk-in Customer"

// InvoicePDF renders invoices to A4 PDF files under dir using go-pdf/fpdf.
// Files are named <invoice number>.pdf, so re-rendering overwrites.
type InvoicePDF struct {
	dir       string
	storeName string
}

func NewInvoicePDF(dir, storeName string) *InvoicePDF {
	return &InvoicePDF{dir: dir, storeName: storeName}
}

// Render writes the invoice and returns the file path. inv must carry its
// Items (with Product) and, when present, Customer and Payments.
func (r *InvoicePDF) Render(inv *model.Invoice) (string, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(r.dir, inv.InvoiceNumber+".pdf")

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetTitle(inv.InvoiceNumber, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(contentW/2, 9, tr(r.storeName), "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 9, "INVOICE", "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW/2, 5, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 5, inv.InvoiceNumber, "", 1, "R", false, 0, "")
	pdf.CellFormat(contentW/2, 5, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 5, "Date: "+inv.CreatedAt.Format("02 Jan 2006"), "", 1, "R", false, 0, "")
	if inv.DueDate != nil {
		pdf.CellFormat(contentW/2, 5, "", "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW/2, 5, "Due: "+time.Time(*inv.DueDate).Format("02 Jan 2006"), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// ── Bill to ──────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, "Bill to", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	if c := inv.Customer; c != nil {
		pdf.CellFormat(contentW, 5, tr(c.Name), "", 1, "L", false, 0, "")
		for _, line := range []*string{c.Address, c.Phone, c.Email, c.GSTIN} {
			if line != nil && *line != "" {
				pdf.CellFormat(contentW, 5, tr(*line), "", 1, "L", false, 0, "")
			}
		}
	} else {
		pdf.CellFormat(contentW, 5, walkInCustomer, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// ── Items ────────────────────────────────────────────────────────────────
	cols := []struct {
		title string
		w     float64
		align string
	}{
		{"Item", contentW * 0.40, "L"},
		{"Qty", contentW * 0.12, "R"},
		{"Price", contentW * 0.16, "R"},
		{"Tax %", contentW * 0.12, "R"},
		{"Amount", contentW * 0.20, "R"},
	}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	for i, c := range cols {
		ln := 0
		if i == len(cols)-1 {
			ln = 1
		}
		pdf.CellFormat(c.w, 7, c.title, "B", ln, c.align, true, 0, "")
	}

	pdf.SetFont("Helvetica", "", 9)
	for _, it := range inv.Items {
		name := it.ProductID.String()
		if it.Product != nil {
			name = it.Product.Name
		}
		values := []string{
			truncate(name, 48),
			it.Quantity.String(),
			money(it.UnitPrice),
			it.TaxRate.String(),
			money(it.LineTotal),
		}
		for i, c := range cols {
			ln := 0
			if i == len(cols)-1 {
				ln = 1
			}
			pdf.CellFormat(c.w, 6, tr(values[i]), "", ln, c.align, false, 0, "")
		}
	}
	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	labelW := contentW * 0.80
	valueW := contentW * 0.20
	total := func(label string, v decimal.Decimal, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(labelW, 6, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(valueW, 6, money(v), "", 1, "R", false, 0, "")
	}
	total("Subtotal", inv.Subtotal, false)
	total("Tax", inv.TaxAmount, false)
	if !inv.DiscountAmount.IsZero() {
		total("Discount", inv.DiscountAmount.Neg(), false)
	}
	total("Total", inv.TotalAmount, true)

	// ── Payments ─────────────────────────────────────────────────────────────
	if len(inv.Payments) > 0 {
		paid := decimal.Zero
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "", 9)
		for _, p := range inv.Payments {
			paid = paid.Add(p.Amount)
			label := fmt.Sprintf("Paid %s (%s)", p.PaymentDate.Format("02 Jan 2006"), p.PaymentMethod)
			pdf.CellFormat(labelW, 5, label, "", 0, "R", false, 0, "")
			pdf.CellFormat(valueW, 5, money(p.Amount), "", 1, "R", false, 0, "")
		}
		total("Balance due", decimal.Max(inv.TotalAmount.Sub(paid), decimal.Zero), true)
	}

	if inv.Notes != nil && *inv.Notes != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.MultiCell(contentW, 4, tr(*inv.Notes), "", "L", false)
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 4, "Thank you for your business.", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

func money(d decimal.Decimal) string {
	return "Rs. " + d.StringFixed(2)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "..."
}
