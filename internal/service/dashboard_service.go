package service

import (
	"time"

	"sinfoni-api/internal/model"
	"sinfoni-api/internal/repository"
	"sinfoni-api/pkg/slug"
)

type DashboardData struct {
	Widgets *repository.StatusCounts `json:"widgets"`
	Trend   []repository.TrendPoint  `json:"trend"`
	Recent  []ListedTransaction      `json:"recent"`
}

type DashboardService interface {
	Overview(actor Actor) (*DashboardData, error)
}

type dashboardService struct {
	txRepo   repository.TransactionRepository
	userRepo repository.UserRepository
	codec    *slug.Codec
}

func NewDashboardService(txRepo repository.TransactionRepository, userRepo repository.UserRepository, codec *slug.Codec) DashboardService {
	return &dashboardService{txRepo: txRepo, userRepo: userRepo, codec: codec}
}

func (s *dashboardService) Overview(actor Actor) (*DashboardData, error) {
	var dealerIDs []uint
	if actor.Role == model.RoleDealer {
		ids, err := s.userRepo.DealerIDsForUser(actor.ID)
		if err != nil {
			return nil, err
		}
		// A dealer with no mapped outlets sees an empty dashboard.
		if len(ids) == 0 {
			return &DashboardData{
				Widgets: &repository.StatusCounts{},
				Trend:   []repository.TrendPoint{},
				Recent:  []ListedTransaction{},
			}, nil
		}
		dealerIDs = ids
	}

	widgets, err := s.txRepo.CountByStatus(dealerIDs)
	if err != nil {
		return nil, err
	}

	trend, err := s.txRepo.MonthlyTrend(time.Now().AddDate(0, -6, 0), dealerIDs)
	if err != nil {
		return nil, err
	}

	rows, err := s.txRepo.Recent(5, dealerIDs)
	if err != nil {
		return nil, err
	}
	recent := make([]ListedTransaction, len(rows))
	for i, row := range rows {
		recent[i] = ListedTransaction{TransactionRow: row, Slug: s.codec.Encode(row.ID)}
	}

	return &DashboardData{Widgets: widgets, Trend: trend, Recent: recent}, nil
}
