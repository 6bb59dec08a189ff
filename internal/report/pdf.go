package report

import (
	"bytes"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// InvoiceData is the read-only view of a transaction handed to the
// renderers.
type InvoiceData struct {
	InvoiceNumber    string
	DealerName       string
	Status           string
	PromoDescription string
	Discount         int64
	TotalAmount      int64
	CreatedAt        time.Time
	Items            []InvoiceItem
}

type InvoiceItem struct {
	BarangName string
	BarangCode string
	Qty        int
	UnitPrice  int64
	Subtotal   int64
}

// TransactionPDF renders a purchase note as a PDF byte stream.
func TransactionPDF(data InvoiceData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "SINFONI - NOTA TRANSAKSI")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, "Nomor Invoice: "+data.InvoiceNumber)
	pdf.Ln(6)
	pdf.Cell(0, 6, "Tanggal: "+data.CreatedAt.Format("02 Jan 2006 15:04"))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Dealer: "+data.DealerName)
	pdf.Ln(6)
	if data.PromoDescription != "" {
		pdf.Cell(0, 6, "Promo: "+data.PromoDescription)
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, "Status: "+data.Status)
	pdf.Ln(10)

	// Items table
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(90, 7, "Barang", "B", 0, "L", false, 0, "")
	pdf.CellFormat(20, 7, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, "Harga Satuan", "B", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range data.Items {
		pdf.CellFormat(90, 6, item.BarangName+" ("+item.BarangCode+")", "", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, strconv.Itoa(item.Qty), "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, formatRupiah(item.UnitPrice), "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, formatRupiah(item.Subtotal), "", 1, "R", false, 0, "")
	}

	pdf.Ln(6)
	if data.Discount > 0 {
		pdf.CellFormat(150, 6, "Subtotal:", "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, "Rp "+formatRupiah(data.TotalAmount+data.Discount), "", 1, "R", false, 0, "")
		pdf.CellFormat(150, 6, "Diskon:", "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, "- Rp "+formatRupiah(data.Discount), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(150, 8, "TOTAL:", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, "Rp "+formatRupiah(data.TotalAmount), "T", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// formatRupiah renders an integral amount with Indonesian thousand
// separators (1234567 -> "1.234.567").
func formatRupiah(amount int64) string {
	s := strconv.FormatInt(amount, 10)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}

	var out []byte
	for i, digit := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, digit)
	}

	if neg {
		return "-" + string(out)
	}
	return string(out)
}
