package service

import (
	"sync"
	"testing"

	"sinfoni-api/internal/model"
	"sinfoni-api/internal/repository"
	"sinfoni-api/pkg/mailer"
	"sinfoni-api/pkg/slug"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSlugKey = "vOVH6sdmpNWjRRIqCc7rdxs01lwHzfr3"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	// A single connection keeps the in-memory database alive and serializes
	// the notification goroutines with the test body.
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&model.User{},
		&model.Dealer{},
		&model.Barang{},
		&model.BarangPrice{},
		&model.TrxHeader{},
		&model.TrxItem{},
		&model.TrxStatusLog{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

// recorderMailer captures outgoing messages instead of dialing SMTP.
type recorderMailer struct {
	mu       sync.Mutex
	messages []mailer.Message
}

func (m *recorderMailer) Send(msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

func seedUser(t *testing.T, db *gorm.DB, name, email, role, password string, active bool) *model.User {
	t.Helper()
	user := &model.User{Name: name, Email: email, Role: role, IsActive: active}
	if err := user.SetPassword(password); err != nil {
		t.Fatalf("set password: %v", err)
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedDealer(t *testing.T, db *gorm.DB, name string) *model.Dealer {
	t.Helper()
	dealer := &model.Dealer{Name: name}
	if err := db.Create(dealer).Error; err != nil {
		t.Fatalf("seed dealer: %v", err)
	}
	return dealer
}

func seedBarang(t *testing.T, db *gorm.DB, code, name string) *model.Barang {
	t.Helper()
	barang := &model.Barang{Code: code, Name: name}
	if err := db.Create(barang).Error; err != nil {
		t.Fatalf("seed barang: %v", err)
	}
	return barang
}

func mapUserToDealer(t *testing.T, db *gorm.DB, userID, dealerID uint) {
	t.Helper()
	err := db.Exec("INSERT INTO user_dealer_mapping (user_id, dealer_id) VALUES (?, ?)", userID, dealerID).Error
	if err != nil {
		t.Fatalf("map user to dealer: %v", err)
	}
}

func newTxService(db *gorm.DB, mail mailer.Mailer) TransactionService {
	return NewTransactionService(
		db,
		repository.NewTransactionRepo(db),
		repository.NewUserRepo(db),
		slug.NewCodec(testSlugKey),
		mail,
		nil,
		"finance@example.com",
	)
}
