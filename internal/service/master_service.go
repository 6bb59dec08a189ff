package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"sinfoni-api/internal/model"
	"sinfoni-api/internal/repository"
	"sinfoni-api/pkg/validator"

	"gorm.io/gorm"
)

var ErrCodeTaken = errors.New("item code already exists")

func validationError(e *validator.ErrorResponse) error {
	return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", e.FailedField, e.Tag)
}

type CreateBarangRequest struct {
	Code string `json:"code" validate:"required"`
	Name string `json:"name" validate:"required"`
}

type CreateDealerRequest struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type CreatePriceRequest struct {
	BarangID      uint   `json:"barang_id" validate:"required"`
	Price         int64  `json:"price" validate:"required,gt=0"`
	EffectiveDate string `json:"effective_date" validate:"required"` // "2006-01-02"
}

// OCRGuess is one best-effort {item, qty, price} triple produced by the
// external receipt reader.
type OCRGuess struct {
	Name  string `json:"name"`
	Qty   int    `json:"qty"`
	Price int64  `json:"price"`
}

// ItemSuggestion pairs an OCR guess with its closest catalog match. It is
// advisory only: the cart still goes through normal submission validation.
type ItemSuggestion struct {
	Guess        OCRGuess      `json:"guess"`
	Match        *model.Barang `json:"match,omitempty"`
	CurrentPrice int64         `json:"current_price,omitempty"`
}

type MasterService interface {
	ListBarang() ([]model.Barang, error)
	CreateBarang(req *CreateBarangRequest) (*model.Barang, error)
	ListDealers(actor Actor) ([]model.Dealer, error)
	CreateDealer(req *CreateDealerRequest) (*model.Dealer, error)
	ListPrices(barangID uint) ([]model.BarangPrice, error)
	CreatePrice(req *CreatePriceRequest) (*model.BarangPrice, error)
	SuggestItems(guesses []OCRGuess) ([]ItemSuggestion, error)
}

type masterService struct {
	barangRepo repository.BarangRepository
	priceRepo  repository.PriceRepository
	dealerRepo repository.DealerRepository
}

func NewMasterService(
	barangRepo repository.BarangRepository,
	priceRepo repository.PriceRepository,
	dealerRepo repository.DealerRepository,
) MasterService {
	return &masterService{
		barangRepo: barangRepo,
		priceRepo:  priceRepo,
		dealerRepo: dealerRepo,
	}
}

func (s *masterService) ListBarang() ([]model.Barang, error) {
	return s.barangRepo.FindAll()
}

func (s *masterService) CreateBarang(req *CreateBarangRequest) (*model.Barang, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs[0])
	}

	if _, err := s.barangRepo.FindByCode(req.Code); err == nil {
		return nil, ErrCodeTaken
	}

	barang := &model.Barang{Code: req.Code, Name: req.Name}
	if err := s.barangRepo.Create(barang); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCodeTaken
		}
		return nil, err
	}
	return barang, nil
}

// ListDealers returns all dealers, or only the mapped subset for a
// Dealer-role user.
func (s *masterService) ListDealers(actor Actor) ([]model.Dealer, error) {
	if actor.Role == model.RoleDealer {
		return s.dealerRepo.FindAllForUser(actor.ID)
	}
	return s.dealerRepo.FindAll()
}

func (s *masterService) CreateDealer(req *CreateDealerRequest) (*model.Dealer, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs[0])
	}

	dealer := &model.Dealer{Name: req.Name, Address: req.Address, Phone: req.Phone}
	if err := s.dealerRepo.Create(dealer); err != nil {
		return nil, err
	}
	return dealer, nil
}

func (s *masterService) ListPrices(barangID uint) ([]model.BarangPrice, error) {
	return s.priceRepo.FindAll(barangID)
}

func (s *masterService) CreatePrice(req *CreatePriceRequest) (*model.BarangPrice, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs[0])
	}

	effective, err := time.ParseInLocation("2006-01-02", req.EffectiveDate, time.Local)
	if err != nil {
		return nil, errors.New("effective_date must be YYYY-MM-DD")
	}

	price := &model.BarangPrice{
		BarangID:      req.BarangID,
		Price:         req.Price,
		EffectiveDate: effective,
	}
	if err := s.priceRepo.Create(price); err != nil {
		return nil, err
	}
	return price, nil
}

// SuggestItems fuzzy-matches OCR line guesses (case-insensitive substring)
// against the catalog and attaches the current price of each match.
func (s *masterService) SuggestItems(guesses []OCRGuess) ([]ItemSuggestion, error) {
	suggestions := make([]ItemSuggestion, 0, len(guesses))
	now := time.Now()

	for _, guess := range guesses {
		suggestion := ItemSuggestion{Guess: guess}

		name := strings.TrimSpace(guess.Name)
		if name != "" {
			matches, err := s.barangRepo.SearchByName(name)
			if err != nil {
				return nil, err
			}
			if len(matches) > 0 {
				match := matches[0]
				suggestion.Match = &match
				if price, err := s.priceRepo.CurrentPrice(match.ID, now); err == nil {
					suggestion.CurrentPrice = price.Price
				}
			}
		}

		suggestions = append(suggestions, suggestion)
	}

	return suggestions, nil
}
