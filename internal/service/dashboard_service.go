package service

import (
	"time"

	"go-warehouse-ledger/internal/model"
	"go-warehouse-ledger/internal/repository"
)

// DashboardStats summarizes the ledger for the overview screen. All totals
// exclude reversed transactions.
type DashboardStats struct {
	TodayIn         float64 `json:"today_in"`
	TodayOut        float64 `json:"today_out"`
	MonthlyTotal    float64 `json:"monthly_total"`
	OutstandingDebt float64 `json:"outstanding_debt"`
}

type DashboardService interface {
	GetDashboardStats() (*DashboardStats, error)
	GetDailyMovement(days int) ([]repository.DailyMovement, error)
}

type dashboardService struct {
	txRepo repository.TransactionRepository
}

func NewDashboardService(txRepo repository.TransactionRepository) DashboardService {
	return &dashboardService{txRepo: txRepo}
}

func (s *dashboardService) GetDashboardStats() (*DashboardStats, error) {
	now := time.Now()
	today := now.Format("2006-01-02")
	month := now.Format("2006-01")

	todayIn, err := s.txRepo.SumAmountByDatePrefix(model.TxIn, today)
	if err != nil {
		return nil, err
	}
	todayOut, err := s.txRepo.SumAmountByDatePrefix(model.TxOut, today)
	if err != nil {
		return nil, err
	}
	monthIn, err := s.txRepo.SumAmountByDatePrefix(model.TxIn, month)
	if err != nil {
		return nil, err
	}
	monthOut, err := s.txRepo.SumAmountByDatePrefix(model.TxOut, month)
	if err != nil {
		return nil, err
	}
	debt, err := s.txRepo.SumOutstandingDebt()
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TodayIn:         todayIn,
		TodayOut:        todayOut,
		MonthlyTotal:    monthIn + monthOut,
		OutstandingDebt: debt,
	}, nil
}

func (s *dashboardService) GetDailyMovement(days int) ([]repository.DailyMovement, error) {
	if days <= 0 {
		days = 7
	}
	return s.txRepo.GetDailyMovement(days)
}
