package service

import (
	"errors"
	"fmt"

	"sinfoni-api/internal/report"
	"sinfoni-api/internal/repository"

	"gorm.io/gorm"
)

type ReportService interface {
	// ExportTransactions renders every transaction as an xlsx workbook.
	ExportTransactions() ([]byte, error)
	// PrintTransaction renders one transaction as a PDF invoice and
	// returns the suggested filename.
	PrintTransaction(headerID uint) ([]byte, string, error)
}

type reportService struct {
	txRepo repository.TransactionRepository
}

func NewReportService(txRepo repository.TransactionRepository) ReportService {
	return &reportService{txRepo: txRepo}
}

func (s *reportService) ExportTransactions() ([]byte, error) {
	rows, err := s.txRepo.ExportRows()
	if err != nil {
		return nil, err
	}
	return report.TransactionsExcel(rows)
}

func (s *reportService) PrintTransaction(headerID uint) ([]byte, string, error) {
	header, err := s.txRepo.FindByID(headerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrTrxNotFound
		}
		return nil, "", err
	}

	pdf, err := report.TransactionPDF(invoiceData(header))
	if err != nil {
		return nil, "", err
	}

	return pdf, fmt.Sprintf("invoice_%s.pdf", header.InvoiceNumber), nil
}
