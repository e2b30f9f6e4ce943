package services

import (
	"context"

	"github.com/nidhishshastri/loyalty-gateway/internal/model"
)

type ReportRepository interface {
	CustomerReport(ctx context.Context) ([]*model.CustomerReport, error)
	RedemptionReport(ctx context.Context, f model.RedemptionFilter) ([]*model.RedemptionReportRow, int64, error)
}

type ReportService struct {
	reportRepo ReportRepository
}

func NewReportService(reportRepo ReportRepository) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
	}
}

func (s *ReportService) CustomerReport(ctx context.Context) ([]*model.CustomerReport, error) {
	return s.reportRepo.CustomerReport(ctx)
}

func (s *ReportService) RedemptionReport(ctx context.Context, f model.RedemptionFilter) ([]*model.RedemptionReportRow, int64, error) {
	return s.reportRepo.RedemptionReport(ctx, f)
}
