package service

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"sinfoni-api/internal/model"
	"sinfoni-api/internal/report"
	"sinfoni-api/internal/repository"
	"sinfoni-api/internal/ws"
	"sinfoni-api/pkg/mailer"
	"sinfoni-api/pkg/slug"
	"sinfoni-api/pkg/validator"

	"gorm.io/gorm"
)

var (
	ErrDuplicateInvoice = errors.New("invoice number already exists")
	ErrAmountMismatch   = errors.New("total amount does not match item subtotals")
	ErrInvalidStatus    = errors.New("invalid status value")
	ErrTrxNotFound      = errors.New("transaction not found")
)

// Actor identifies the authenticated user performing an operation.
type Actor struct {
	ID    uint
	Name  string
	Email string
	Role  string
}

type SubmitItem struct {
	BarangID  uint  `json:"barang_id" validate:"required"`
	Qty       int   `json:"qty" validate:"required,gt=0"`
	UnitPrice int64 `json:"unit_price" validate:"gte=0"`
	Subtotal  int64 `json:"subtotal"`
}

type SubmitRequest struct {
	DealerID         uint         `json:"dealer_id" validate:"required"`
	InvoiceNumber    string       `json:"invoice_number" validate:"required"`
	TotalAmount      int64        `json:"total_amount"`
	Discount         int64        `json:"discount" validate:"gte=0"`
	PromoDescription *string      `json:"promo_description"`
	Items            []SubmitItem `json:"items" validate:"required,min=1,dive"`
}

type SubmitResult struct {
	HeaderID uint   `json:"headerId"`
	Slug     string `json:"slug"`
}

type ListFilters struct {
	Status    string
	DealerID  uint
	StartDate string // "2006-01-02", inclusive
	EndDate   string // "2006-01-02", inclusive of the full end day
	Query     string
	Page      int
	Limit     int
}

type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

type ListedTransaction struct {
	repository.TransactionRow
	Slug string `json:"slug"`
}

type ListResult struct {
	Data       []ListedTransaction `json:"data"`
	Pagination Pagination          `json:"pagination"`
}

type TransactionHeaderView struct {
	ID               uint      `json:"id"`
	Slug             string    `json:"slug"`
	InvoiceNumber    string    `json:"invoice_number"`
	DealerID         uint      `json:"dealer_id"`
	DealerName       string    `json:"dealer_name"`
	TotalAmount      int64     `json:"total_amount"`
	Discount         int64     `json:"discount"`
	PromoDescription *string   `json:"promo_description,omitempty"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

type TransactionItemView struct {
	BarangID   uint   `json:"barang_id"`
	BarangName string `json:"barang_name"`
	BarangCode string `json:"barang_code"`
	Qty        int    `json:"qty"`
	UnitPrice  int64  `json:"unit_price"`
	Subtotal   int64  `json:"subtotal"`
}

type StatusLogView struct {
	Status      string    `json:"status"`
	Notes       string    `json:"notes"`
	UpdaterName string    `json:"updater_name"`
	CreatedAt   time.Time `json:"created_at"`
}

type TransactionDetail struct {
	Header TransactionHeaderView `json:"header"`
	Items  []TransactionItemView `json:"items"`
	Logs   []StatusLogView       `json:"logs"`
}

type TransactionService interface {
	Submit(req *SubmitRequest, actor Actor) (*SubmitResult, error)
	UpdateStatus(headerID uint, status, notes string, actor Actor) error
	Detail(headerID uint) (*TransactionDetail, error)
	List(f ListFilters, actor Actor) (*ListResult, error)
}

type transactionService struct {
	db           *gorm.DB
	txRepo       repository.TransactionRepository
	userRepo     repository.UserRepository
	codec        *slug.Codec
	mail         mailer.Mailer
	hub          *ws.Hub
	financeEmail string
}

func NewTransactionService(
	db *gorm.DB,
	txRepo repository.TransactionRepository,
	userRepo repository.UserRepository,
	codec *slug.Codec,
	mail mailer.Mailer,
	hub *ws.Hub,
	financeEmail string,
) TransactionService {
	return &transactionService{
		db:           db,
		txRepo:       txRepo,
		userRepo:     userRepo,
		codec:        codec,
		mail:         mail,
		hub:          hub,
		financeEmail: financeEmail,
	}
}

// Submit creates the header, its items, and the initial "Pending" log entry
// as one all-or-nothing unit. The notification afterwards is best-effort:
// the write has already committed and is never rolled back for a mail
// failure.
func (s *transactionService) Submit(req *SubmitRequest, actor Actor) (*SubmitResult, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}

	// The client computes subtotals and the grand total; never trust them.
	var sum int64
	for _, item := range req.Items {
		expected := int64(item.Qty) * item.UnitPrice
		if item.Subtotal != expected {
			return nil, ErrAmountMismatch
		}
		sum += expected
	}
	if sum-req.Discount != req.TotalAmount {
		return nil, ErrAmountMismatch
	}

	header := model.TrxHeader{
		InvoiceNumber:    req.InvoiceNumber,
		DealerID:         req.DealerID,
		TotalAmount:      req.TotalAmount,
		Discount:         req.Discount,
		PromoDescription: req.PromoDescription,
		Status:           model.StatusPending,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&header).Error; err != nil {
			return err
		}

		items := make([]model.TrxItem, len(req.Items))
		for i, item := range req.Items {
			items[i] = model.TrxItem{
				HeaderID:  header.ID,
				BarangID:  item.BarangID,
				Qty:       item.Qty,
				UnitPrice: item.UnitPrice,
				Subtotal:  item.Subtotal,
			}
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		return tx.Create(&model.TrxStatusLog{
			TrxHeaderID: header.ID,
			Status:      model.StatusPending,
			Notes:       "Initial submission",
			UpdatedBy:   actor.ID,
		}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateInvoice
		}
		return nil, err
	}

	go s.notifySubmission(header.ID, actor)

	return &SubmitResult{HeaderID: header.ID, Slug: s.codec.Encode(header.ID)}, nil
}

// UpdateStatus changes the header status and appends one log row
// atomically. History is only ever appended, never rewritten.
func (s *transactionService) UpdateStatus(headerID uint, status, notes string, actor Actor) error {
	if !model.ValidStatus(status) {
		return ErrInvalidStatus
	}

	if _, err := s.txRepo.FindByID(headerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTrxNotFound
		}
		return err
	}

	if notes == "" {
		notes = "Status updated"
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.TrxHeader{}).Where("id = ?", headerID).Update("status", status).Error; err != nil {
			return err
		}
		return tx.Create(&model.TrxStatusLog{
			TrxHeaderID: headerID,
			Status:      status,
			Notes:       notes,
			UpdatedBy:   actor.ID,
		}).Error
	})
	if err != nil {
		return err
	}

	go s.notifyStatusChange(headerID, status, notes)

	return nil
}

func (s *transactionService) Detail(headerID uint) (*TransactionDetail, error) {
	header, err := s.txRepo.FindByID(headerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrxNotFound
		}
		return nil, err
	}
	return s.buildDetail(header), nil
}

func (s *transactionService) buildDetail(header *model.TrxHeader) *TransactionDetail {
	detail := &TransactionDetail{
		Header: TransactionHeaderView{
			ID:               header.ID,
			Slug:             s.codec.Encode(header.ID),
			InvoiceNumber:    header.InvoiceNumber,
			DealerID:         header.DealerID,
			TotalAmount:      header.TotalAmount,
			Discount:         header.Discount,
			PromoDescription: header.PromoDescription,
			Status:           header.Status,
			CreatedAt:        header.CreatedAt,
		},
		Items: make([]TransactionItemView, 0, len(header.Items)),
		Logs:  make([]StatusLogView, 0, len(header.Logs)),
	}
	if header.Dealer != nil {
		detail.Header.DealerName = header.Dealer.Name
	}

	for _, item := range header.Items {
		view := TransactionItemView{
			BarangID:  item.BarangID,
			Qty:       item.Qty,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		}
		if item.Barang != nil {
			view.BarangName = item.Barang.Name
			view.BarangCode = item.Barang.Code
		}
		detail.Items = append(detail.Items, view)
	}

	for _, entry := range header.Logs {
		view := StatusLogView{
			Status:    entry.Status,
			Notes:     entry.Notes,
			CreatedAt: entry.CreatedAt,
		}
		if entry.User != nil {
			view.UpdaterName = entry.User.Name
		}
		detail.Logs = append(detail.Logs, view)
	}

	return detail
}

func (s *transactionService) List(f ListFilters, actor Actor) (*ListResult, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}

	filter := repository.TransactionFilter{
		Status: f.Status,
		Query:  f.Query,
		Page:   f.Page,
		Limit:  f.Limit,
	}

	if f.DealerID != 0 {
		filter.DealerIDs = []uint{f.DealerID}
	} else if actor.Role == model.RoleDealer {
		// A dealer user only sees the outlets they are mapped to.
		ids, err := s.userRepo.DealerIDsForUser(actor.ID)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return &ListResult{
				Data:       []ListedTransaction{},
				Pagination: Pagination{Page: f.Page, Limit: f.Limit},
			}, nil
		}
		filter.DealerIDs = ids
	}

	if f.StartDate != "" && f.EndDate != "" {
		start, err1 := time.ParseInLocation("2006-01-02", f.StartDate, time.Local)
		end, err2 := time.ParseInLocation("2006-01-02", f.EndDate, time.Local)
		if err1 == nil && err2 == nil {
			filter.Start = start
			filter.End = end.Add(24*time.Hour - time.Second)
		}
	}

	rows, total, err := s.txRepo.List(filter)
	if err != nil {
		return nil, err
	}

	data := make([]ListedTransaction, len(rows))
	for i, row := range rows {
		data[i] = ListedTransaction{TransactionRow: row, Slug: s.codec.Encode(row.ID)}
	}

	return &ListResult{
		Data: data,
		Pagination: Pagination{
			Total:      total,
			Page:       f.Page,
			Limit:      f.Limit,
			TotalPages: int(math.Ceil(float64(total) / float64(f.Limit))),
		},
	}, nil
}

// notifySubmission mails finance a generated invoice PDF after a commit.
// Failures are logged only.
func (s *transactionService) notifySubmission(headerID uint, actor Actor) {
	header, err := s.txRepo.FindByID(headerID)
	if err != nil {
		log.Printf("transaction: failed to load %d for submission notice: %v", headerID, err)
		return
	}

	s.hub.BroadcastEvent("transaction_submitted", map[string]interface{}{
		"header_id":      header.ID,
		"invoice_number": header.InvoiceNumber,
		"status":         header.Status,
		"submitted_by":   actor.Name,
	})

	pdf, err := report.TransactionPDF(invoiceData(header))
	if err != nil {
		log.Printf("transaction: failed to render invoice %s: %v", header.InvoiceNumber, err)
		return
	}

	dealerName := ""
	if header.Dealer != nil {
		dealerName = header.Dealer.Name
	}

	err = s.mail.Send(mailer.Message{
		To:      s.financeEmail,
		Subject: fmt.Sprintf("New Transaction Submitted: %s", header.InvoiceNumber),
		Text: fmt.Sprintf("Dealer %s has submitted a new note: %s. Total amount: Rp %d.",
			dealerName, header.InvoiceNumber, header.TotalAmount),
		Attachments: []mailer.Attachment{
			{Filename: fmt.Sprintf("invoice_%s.pdf", header.InvoiceNumber), Content: pdf},
		},
	})
	if err != nil {
		log.Printf("transaction: failed to send submission email for %s: %v", header.InvoiceNumber, err)
	}
}

// notifyStatusChange mails the dealer contact resolved through the
// user-dealer mapping. Failures are logged only.
func (s *transactionService) notifyStatusChange(headerID uint, status, notes string) {
	header, err := s.txRepo.FindByID(headerID)
	if err != nil {
		log.Printf("transaction: failed to load %d for status notice: %v", headerID, err)
		return
	}

	s.hub.BroadcastEvent("status_changed", map[string]interface{}{
		"header_id":      header.ID,
		"invoice_number": header.InvoiceNumber,
		"status":         status,
	})

	contact, err := s.userRepo.FindDealerUserForDealer(header.DealerID)
	if err != nil {
		log.Printf("transaction: no dealer contact for dealer %d: %v", header.DealerID, err)
		return
	}

	err = s.mail.Send(mailer.Message{
		To:      contact.Email,
		Subject: fmt.Sprintf("Transaction Status Update: %s", header.InvoiceNumber),
		Text: fmt.Sprintf("Your transaction %s status has been updated to: %s.\nNotes: %s",
			header.InvoiceNumber, status, notes),
		HTML: fmt.Sprintf("<p>Your transaction <strong>%s</strong> status has been updated to: <strong>%s</strong>.</p><p>Notes: %s</p>",
			header.InvoiceNumber, status, notes),
	})
	if err != nil {
		log.Printf("transaction: failed to send status email for %s: %v", header.InvoiceNumber, err)
	}
}

func invoiceData(header *model.TrxHeader) report.InvoiceData {
	data := report.InvoiceData{
		InvoiceNumber: header.InvoiceNumber,
		Status:        header.Status,
		Discount:      header.Discount,
		TotalAmount:   header.TotalAmount,
		CreatedAt:     header.CreatedAt,
	}
	if header.Dealer != nil {
		data.DealerName = header.Dealer.Name
	}
	if header.PromoDescription != nil {
		data.PromoDescription = *header.PromoDescription
	}
	for _, item := range header.Items {
		row := report.InvoiceItem{
			Qty:       item.Qty,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		}
		if item.Barang != nil {
			row.BarangName = item.Barang.Name
			row.BarangCode = item.Barang.Code
		}
		data.Items = append(data.Items, row)
	}
	return data
}
