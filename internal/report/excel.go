package report

import (
	"fmt"

	"sinfoni-api/internal/repository"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Transactions"

// TransactionsExcel renders the transaction list as an xlsx byte stream.
func TransactionsExcel(rows []repository.TransactionRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Invoice Number", "Dealer Name", "Total Amount", "Discount", "Status", "Created At"}
	for i, h := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%c1", 'A'+len(headers)-1), bold); err != nil {
		return nil, err
	}

	for idx, r := range rows {
		row := idx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.InvoiceNumber)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r.DealerName)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), r.TotalAmount)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), r.Discount)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), r.Status)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), r.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
