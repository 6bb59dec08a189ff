package service

import (
	"errors"
	"testing"
	"time"

	"sinfoni-api/internal/model"
	"sinfoni-api/pkg/slug"
)

func validSubmit(dealerID, barangID uint, invoice string) *SubmitRequest {
	return &SubmitRequest{
		DealerID:      dealerID,
		InvoiceNumber: invoice,
		TotalAmount:   25000,
		Discount:      5000,
		Items: []SubmitItem{
			{BarangID: barangID, Qty: 3, UnitPrice: 10000, Subtotal: 30000},
		},
	}
}

func TestSubmitPersistsHeaderItemsAndLog(t *testing.T) {
	db := newTestDB(t)
	dealer := seedDealer(t, db, "Dealer Jaya")
	barang := seedBarang(t, db, "BRG-001", "Oli Mesin")
	actor := Actor{ID: 1, Name: "Budi", Role: model.RoleDealer}

	svc := newTxService(db, &recorderMailer{})

	result, err := svc.Submit(validSubmit(dealer.ID, barang.ID, "INV-001"), actor)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.HeaderID == 0 {
		t.Fatal("expected a header id")
	}

	codec := slug.NewCodec(testSlugKey)
	if id, ok := codec.DecodeID(result.Slug); !ok || id != result.HeaderID {
		t.Fatalf("slug %q does not decode to header id %d", result.Slug, result.HeaderID)
	}

	var header model.TrxHeader
	if err := db.Preload("Items").Preload("Logs").First(&header, result.HeaderID).Error; err != nil {
		t.Fatalf("load header: %v", err)
	}
	if header.Status != model.StatusPending {
		t.Errorf("status = %q, want %q", header.Status, model.StatusPending)
	}
	if len(header.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(header.Items))
	}
	if len(header.Logs) != 1 {
		t.Fatalf("logs = %d, want 1", len(header.Logs))
	}
	if header.Logs[0].Status != model.StatusPending || header.Logs[0].UpdatedBy != actor.ID {
		t.Errorf("unexpected initial log: %+v", header.Logs[0])
	}
}

func TestSubmitDuplicateInvoiceLeavesNoPartialRows(t *testing.T) {
	db := newTestDB(t)
	dealer := seedDealer(t, db, "Dealer Jaya")
	barang := seedBarang(t, db, "BRG-001", "Oli Mesin")
	actor := Actor{ID: 1, Role: model.RoleDealer}

	svc := newTxService(db, &recorderMailer{})

	if _, err := svc.Submit(validSubmit(dealer.ID, barang.ID, "INV-001"), actor); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	_, err := svc.Submit(validSubmit(dealer.ID, barang.ID, "INV-001"), actor)
	if !errors.Is(err, ErrDuplicateInvoice) {
		t.Fatalf("err = %v, want ErrDuplicateInvoice", err)
	}

	var headers, items, logs int64
	db.Model(&model.TrxHeader{}).Count(&headers)
	db.Model(&model.TrxItem{}).Count(&items)
	db.Model(&model.TrxStatusLog{}).Count(&logs)
	if headers != 1 || items != 1 || logs != 1 {
		t.Errorf("counts after duplicate = %d/%d/%d, want 1/1/1", headers, items, logs)
	}
}

func TestSubmitRejectsAmountMismatch(t *testing.T) {
	db := newTestDB(t)
	dealer := seedDealer(t, db, "Dealer Jaya")
	barang := seedBarang(t, db, "BRG-001", "Oli Mesin")
	actor := Actor{ID: 1, Role: model.RoleDealer}

	svc := newTxService(db, &recorderMailer{})

	wrongSubtotal := validSubmit(dealer.ID, barang.ID, "INV-001")
	wrongSubtotal.Items[0].Subtotal = 99999
	if _, err := svc.Submit(wrongSubtotal, actor); !errors.Is(err, ErrAmountMismatch) {
		t.Fatalf("wrong subtotal: err = %v, want ErrAmountMismatch", err)
	}

	wrongTotal := validSubmit(dealer.ID, barang.ID, "INV-001")
	wrongTotal.TotalAmount = 30000 // ignores the discount
	if _, err := svc.Submit(wrongTotal, actor); !errors.Is(err, ErrAmountMismatch) {
		t.Fatalf("wrong total: err = %v, want ErrAmountMismatch", err)
	}

	var headers int64
	db.Model(&model.TrxHeader{}).Count(&headers)
	if headers != 0 {
		t.Errorf("headers after rejected submits = %d, want 0", headers)
	}
}

func TestUpdateStatusAppendsLog(t *testing.T) {
	db := newTestDB(t)
	dealer := seedDealer(t, db, "Dealer Jaya")
	barang := seedBarang(t, db, "BRG-001", "Oli Mesin")
	finance := seedUser(t, db, "Sari", "sari@example.com", model.RoleFinance, "secret123", true)

	svc := newTxService(db, &recorderMailer{})

	result, err := svc.Submit(validSubmit(dealer.ID, barang.ID, "INV-001"), Actor{ID: finance.ID, Role: model.RoleDealer})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	err = svc.UpdateStatus(result.HeaderID, model.StatusDone, "approved", Actor{ID: finance.ID, Name: finance.Name, Role: model.RoleFinance})
	if err != nil {
		t.Fatalf("update status: %v", err)
	}

	detail, err := svc.Detail(result.HeaderID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if detail.Header.Status != model.StatusDone {
		t.Errorf("status = %q, want %q", detail.Header.Status, model.StatusDone)
	}
	if len(detail.Logs) != 2 {
		t.Fatalf("logs = %d, want 2", len(detail.Logs))
	}
	// Newest entry first.
	if detail.Logs[0].Status != model.StatusDone || detail.Logs[0].Notes != "approved" {
		t.Errorf("newest log = %+v, want Done/approved", detail.Logs[0])
	}
	if detail.Logs[1].Status != model.StatusPending {
		t.Errorf("oldest log = %+v, want the initial Pending entry", detail.Logs[1])
	}
}

func TestUpdateStatusValidation(t *testing.T) {
	db := newTestDB(t)
	dealer := seedDealer(t, db, "Dealer Jaya")
	barang := seedBarang(t, db, "BRG-001", "Oli Mesin")
	actor := Actor{ID: 1, Role: model.RoleFinance}

	svc := newTxService(db, &recorderMailer{})

	result, err := svc.Submit(validSubmit(dealer.ID, barang.ID, "INV-001"), actor)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := svc.UpdateStatus(result.HeaderID, "Shipped", "", actor); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("unknown status: err = %v, want ErrInvalidStatus", err)
	}
	if err := svc.UpdateStatus(99999, model.StatusDone, "", actor); !errors.Is(err, ErrTrxNotFound) {
		t.Errorf("missing header: err = %v, want ErrTrxNotFound", err)
	}

	// Defaulted notes on an empty string.
	if err := svc.UpdateStatus(result.HeaderID, model.StatusProses, "", actor); err != nil {
		t.Fatalf("update status: %v", err)
	}
	detail, err := svc.Detail(result.HeaderID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if detail.Logs[0].Notes != "Status updated" {
		t.Errorf("notes = %q, want default", detail.Logs[0].Notes)
	}
}

func TestDetailNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newTxService(db, &recorderMailer{})

	if _, err := svc.Detail(42); !errors.Is(err, ErrTrxNotFound) {
		t.Fatalf("err = %v, want ErrTrxNotFound", err)
	}
}

func TestListScopesDealerUserToMappedDealers(t *testing.T) {
	db := newTestDB(t)
	dealerA := seedDealer(t, db, "Dealer A")
	dealerB := seedDealer(t, db, "Dealer B")
	barang := seedBarang(t, db, "BRG-001", "Oli Mesin")
	dealerUser := seedUser(t, db, "Budi", "budi@example.com", model.RoleDealer, "secret123", true)
	mapUserToDealer(t, db, dealerUser.ID, dealerA.ID)

	svc := newTxService(db, &recorderMailer{})
	actor := Actor{ID: dealerUser.ID, Role: model.RoleDealer}

	if _, err := svc.Submit(validSubmit(dealerA.ID, barang.ID, "INV-A"), actor); err != nil {
		t.Fatalf("submit A: %v", err)
	}
	if _, err := svc.Submit(validSubmit(dealerB.ID, barang.ID, "INV-B"), actor); err != nil {
		t.Fatalf("submit B: %v", err)
	}

	result, err := svc.List(ListFilters{}, actor)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Data) != 1 {
		t.Fatalf("rows = %d, want only the mapped dealer's", len(result.Data))
	}
	if result.Data[0].InvoiceNumber != "INV-A" {
		t.Errorf("invoice = %q, want INV-A", result.Data[0].InvoiceNumber)
	}
	if result.Data[0].Slug == "" {
		t.Error("expected a slug on listed rows")
	}

	// A dealer user with no mapping sees nothing rather than everything.
	unmapped := seedUser(t, db, "Tono", "tono@example.com", model.RoleDealer, "secret123", true)
	empty, err := svc.List(ListFilters{}, Actor{ID: unmapped.ID, Role: model.RoleDealer})
	if err != nil {
		t.Fatalf("list unmapped: %v", err)
	}
	if len(empty.Data) != 0 {
		t.Errorf("unmapped rows = %d, want 0", len(empty.Data))
	}

	// Finance is unscoped.
	all, err := svc.List(ListFilters{}, Actor{ID: 99, Role: model.RoleFinance})
	if err != nil {
		t.Fatalf("list finance: %v", err)
	}
	if len(all.Data) != 2 {
		t.Errorf("finance rows = %d, want 2", len(all.Data))
	}
}

func TestListDateRangeIncludesFullEndDay(t *testing.T) {
	db := newTestDB(t)
	dealer := seedDealer(t, db, "Dealer Jaya")

	mk := func(invoice string, created time.Time) {
		header := model.TrxHeader{
			InvoiceNumber: invoice,
			DealerID:      dealer.ID,
			TotalAmount:   1000,
			Status:        model.StatusPending,
			CreatedAt:     created,
		}
		if err := db.Create(&header).Error; err != nil {
			t.Fatalf("seed header: %v", err)
		}
	}
	mk("INV-BEFORE", time.Date(2026, 3, 9, 23, 0, 0, 0, time.Local))
	mk("INV-START", time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local))
	mk("INV-END", time.Date(2026, 3, 12, 23, 30, 0, 0, time.Local))
	mk("INV-AFTER", time.Date(2026, 3, 13, 0, 30, 0, 0, time.Local))

	svc := newTxService(db, &recorderMailer{})
	result, err := svc.List(ListFilters{StartDate: "2026-03-10", EndDate: "2026-03-12"}, Actor{Role: model.RoleSuperadmin})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(result.Data) != 2 {
		t.Fatalf("rows = %d, want 2", len(result.Data))
	}
	got := map[string]bool{}
	for _, row := range result.Data {
		got[row.InvoiceNumber] = true
	}
	if !got["INV-START"] || !got["INV-END"] {
		t.Errorf("rows = %v, want INV-START and INV-END", got)
	}
}

func TestListPagination(t *testing.T) {
	db := newTestDB(t)
	dealer := seedDealer(t, db, "Dealer Jaya")
	barang := seedBarang(t, db, "BRG-001", "Oli Mesin")
	actor := Actor{ID: 1, Role: model.RoleSuperadmin}

	svc := newTxService(db, &recorderMailer{})
	for _, invoice := range []string{"INV-1", "INV-2", "INV-3"} {
		if _, err := svc.Submit(validSubmit(dealer.ID, barang.ID, invoice), actor); err != nil {
			t.Fatalf("submit %s: %v", invoice, err)
		}
	}

	result, err := svc.List(ListFilters{Page: 1, Limit: 2}, actor)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result.Pagination.Total != 3 {
		t.Errorf("total = %d, want 3", result.Pagination.Total)
	}
	if result.Pagination.TotalPages != 2 {
		t.Errorf("totalPages = %d, want 2", result.Pagination.TotalPages)
	}
	if len(result.Data) != 2 {
		t.Errorf("page rows = %d, want 2", len(result.Data))
	}
}
