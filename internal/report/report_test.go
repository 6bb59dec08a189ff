package report

import (
	"bytes"
	"testing"
	"time"

	"sinfoni-api/internal/repository"

	"github.com/xuri/excelize/v2"
)

func TestTransactionPDF(t *testing.T) {
	data := InvoiceData{
		InvoiceNumber: "INV-100",
		DealerName:    "Dealer Jaya",
		Status:        "Pending",
		Discount:      5000,
		TotalAmount:   95000,
		CreatedAt:     time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		Items: []InvoiceItem{
			{BarangName: "Oli Mesin", BarangCode: "OLI-01", Qty: 2, UnitPrice: 50000, Subtotal: 100000},
		},
	}

	pdf, err := TransactionPDF(data)
	if err != nil {
		t.Fatalf("pdf generation failed: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatal("empty pdf output")
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("output does not look like a PDF")
	}
}

func TestTransactionsExcel(t *testing.T) {
	rows := []repository.TransactionRow{
		{InvoiceNumber: "INV-100", DealerName: "Dealer Jaya", TotalAmount: 95000, Discount: 5000, Status: "Pending", CreatedAt: time.Now()},
		{InvoiceNumber: "INV-101", DealerName: "Dealer Baru", TotalAmount: 40000, Status: "Done", CreatedAt: time.Now()},
	}

	out, err := TransactionsExcel(rows)
	if err != nil {
		t.Fatalf("excel generation failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not a readable workbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetCellValue("Transactions", "A2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if got != "INV-100" {
		t.Errorf("expected INV-100 in A2, got %q", got)
	}
}

func TestFormatRupiah(t *testing.T) {
	cases := map[int64]string{
		0:        "0",
		950:      "950",
		1000:     "1.000",
		1234567:  "1.234.567",
		-50000:   "-50.000",
		95000000: "95.000.000",
	}
	for in, want := range cases {
		if got := formatRupiah(in); got != want {
			t.Errorf("formatRupiah(%d) = %q, want %q", in, got, want)
		}
	}
}
