package service

import (
	"context"
	"time"

	"canebill/internal/model"

	"gorm.io/gorm"
)

// DirectionSummary aggregates one ledger direction for the dashboard
type DirectionSummary struct {
	BillCount        int64   `json:"bill_count"`
	TotalCaneWeight  float64 `json:"total_cane_weight"`
	TotalBilled      float64 `json:"total_billed"`
	TotalOutstanding float64 `json:"total_outstanding"` // sum of remaining_money, negative when net overpaid
}

type StatisticsResponse struct {
	TimeRangeStartDate time.Time        `json:"time_range_start_date"`
	TimeRangeEndDate   time.Time        `json:"time_range_end_date"`
	FarmerCount        int64            `json:"farmer_count"`
	SellerCount        int64            `json:"seller_count"`
	FarmerBills        DirectionSummary `json:"farmer_bills"`
	SellerBills        DirectionSummary `json:"seller_bills"`
}

type StatisticsService interface {
	GetStatistics(ctx context.Context, startDate, endDate time.Time) (StatisticsResponse, error)
}

type statisticsService struct {
	db *gorm.DB
}

func NewStatisticsService(db *gorm.DB) StatisticsService {
	return &statisticsService{db: db}
}

// GetStatistics aggregates bill volume, weight, and balances per direction
// within the time bracket
func (s *statisticsService) GetStatistics(ctx context.Context, startDate, endDate time.Time) (StatisticsResponse, error) {
	var response StatisticsResponse
	response.TimeRangeStartDate = startDate
	response.TimeRangeEndDate = endDate

	s.db.WithContext(ctx).Model(&model.Party{}).
		Where("variant = ?", model.VariantFarmer).
		Count(&response.FarmerCount)
	s.db.WithContext(ctx).Model(&model.Party{}).
		Where("variant = ?", model.VariantSeller).
		Count(&response.SellerCount)

	response.FarmerBills = s.summarizeDirection(ctx, model.DirectionFarmer, startDate, endDate)
	response.SellerBills = s.summarizeDirection(ctx, model.DirectionSeller, startDate, endDate)

	return response, nil
}

func (s *statisticsService) summarizeDirection(ctx context.Context, direction string, startDate, endDate time.Time) DirectionSummary {
	var row struct {
		Count       int64
		Weight      float64
		Billed      float64
		Outstanding float64
	}
	s.db.WithContext(ctx).Table("bills").
		Select("COUNT(*) as count, COALESCE(SUM(only_sugarcane_weight), 0) as weight, COALESCE(SUM(total_bill), 0) as billed, COALESCE(SUM(remaining_money), 0) as outstanding").
		Where("direction = ? AND created_at >= ? AND created_at <= ?", direction, startDate, endDate).
		Scan(&row)

	return DirectionSummary{
		BillCount:        row.Count,
		TotalCaneWeight:  row.Weight,
		TotalBilled:      row.Billed,
		TotalOutstanding: row.Outstanding,
	}
}
