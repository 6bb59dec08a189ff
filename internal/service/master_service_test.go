package service

import (
	"errors"
	"testing"
	"time"

	"sinfoni-api/internal/model"
	"sinfoni-api/internal/repository"

	"gorm.io/gorm"
)

func masterFixture(t *testing.T) (MasterService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewMasterService(
		repository.NewBarangRepo(db),
		repository.NewPriceRepo(db),
		repository.NewDealerRepo(db),
	)
	return svc, db
}

func TestCreateBarangRejectsDuplicateCode(t *testing.T) {
	svc, _ := masterFixture(t)

	if _, err := svc.CreateBarang(&CreateBarangRequest{Code: "BRG-001", Name: "Oli Mesin"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.CreateBarang(&CreateBarangRequest{Code: "BRG-001", Name: "Oli Lain"})
	if !errors.Is(err, ErrCodeTaken) {
		t.Fatalf("err = %v, want ErrCodeTaken", err)
	}
}

func TestCreatePriceParsesEffectiveDate(t *testing.T) {
	svc, _ := masterFixture(t)
	barang, err := svc.CreateBarang(&CreateBarangRequest{Code: "BRG-001", Name: "Oli Mesin"})
	if err != nil {
		t.Fatalf("create barang: %v", err)
	}

	price, err := svc.CreatePrice(&CreatePriceRequest{BarangID: barang.ID, Price: 45000, EffectiveDate: "2026-01-15"})
	if err != nil {
		t.Fatalf("create price: %v", err)
	}
	if price.EffectiveDate.Format("2006-01-02") != "2026-01-15" {
		t.Errorf("effective date = %v", price.EffectiveDate)
	}

	if _, err := svc.CreatePrice(&CreatePriceRequest{BarangID: barang.ID, Price: 45000, EffectiveDate: "15/01/2026"}); err == nil {
		t.Error("expected an error for a malformed date")
	}
}

func TestListDealersScopedForDealerRole(t *testing.T) {
	svc, db := masterFixture(t)
	dealerA := seedDealer(t, db, "Dealer A")
	seedDealer(t, db, "Dealer B")
	user := seedUser(t, db, "Budi", "budi@example.com", model.RoleDealer, "secret123", true)
	mapUserToDealer(t, db, user.ID, dealerA.ID)

	scoped, err := svc.ListDealers(Actor{ID: user.ID, Role: model.RoleDealer})
	if err != nil {
		t.Fatalf("list scoped: %v", err)
	}
	if len(scoped) != 1 || scoped[0].Name != "Dealer A" {
		t.Errorf("scoped dealers = %+v, want only Dealer A", scoped)
	}

	all, err := svc.ListDealers(Actor{ID: 99, Role: model.RoleSuperadmin})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all dealers = %d, want 2", len(all))
	}
}

func TestSuggestItemsMatchesCatalog(t *testing.T) {
	svc, db := masterFixture(t)
	barang := seedBarang(t, db, "BRG-001", "Oli Mesin Super")
	seedBarang(t, db, "BRG-002", "Ban Luar")

	// Two price records; the older one must not win.
	for _, p := range []struct {
		price     int64
		effective time.Time
	}{
		{40000, time.Now().AddDate(0, -2, 0)},
		{45000, time.Now().AddDate(0, 0, -1)},
	} {
		err := db.Create(&model.BarangPrice{BarangID: barang.ID, Price: p.price, EffectiveDate: p.effective}).Error
		if err != nil {
			t.Fatalf("seed price: %v", err)
		}
	}
	// A future price is not current yet.
	err := db.Create(&model.BarangPrice{BarangID: barang.ID, Price: 50000, EffectiveDate: time.Now().AddDate(0, 1, 0)}).Error
	if err != nil {
		t.Fatalf("seed future price: %v", err)
	}

	suggestions, err := svc.SuggestItems([]OCRGuess{
		{Name: "oli mesin", Qty: 2, Price: 44000},
		{Name: "tidak ada", Qty: 1},
		{Name: "   "},
	})
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if len(suggestions) != 3 {
		t.Fatalf("suggestions = %d, want one per guess", len(suggestions))
	}

	matched := suggestions[0]
	if matched.Match == nil || matched.Match.Code != "BRG-001" {
		t.Fatalf("match = %+v, want BRG-001", matched.Match)
	}
	if matched.CurrentPrice != 45000 {
		t.Errorf("current price = %d, want the newest effective record", matched.CurrentPrice)
	}

	if suggestions[1].Match != nil {
		t.Errorf("unexpected match for unknown item: %+v", suggestions[1].Match)
	}
	if suggestions[2].Match != nil {
		t.Error("blank guess should not be searched")
	}
}
