package services

import (
	"context"
	"time"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/utils"
)

type ReportServiceInterface interface {
	GetReportForExcel(ctx context.Context, filter entities.ReportFilter) ([]entities.ReportItem, uint64, error)
	GetReportDTOs(ctx context.Context, filter entities.ReportFilter) ([]dto.ReportItemDTO, uint64, error)
}

type reportService struct {
	reportRepo repositories.ReportRepositoryInterface
	gatekeeper *authz.Gatekeeper
	logger     *zap.Logger
}

func NewReportService(
	reportRepo repositories.ReportRepositoryInterface,
	gatekeeper *authz.Gatekeeper,
	logger *zap.Logger,
) ReportServiceInterface {
	return &reportService{
		reportRepo: reportRepo,
		gatekeeper: gatekeeper,
		logger:     logger,
	}
}

func (s *reportService) getAndAuthorizeReport(ctx context.Context, filter entities.ReportFilter) ([]entities.ReportItem, uint64, error) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}
	role, err := utils.GetUserRoleFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}
	if !s.gatekeeper.Can(role, authz.ReportsView) {
		s.logger.Warn("Попытка доступа к отчету без прав", zap.Uint64("userID", userID))
		return nil, 0, apperrors.ErrForbidden
	}

	return s.reportRepo.GetReport(ctx, filter)
}

func (s *reportService) GetReportForExcel(ctx context.Context, filter entities.ReportFilter) ([]entities.ReportItem, uint64, error) {
	return s.getAndAuthorizeReport(ctx, filter)
}

func (s *reportService) GetReportDTOs(ctx context.Context, filter entities.ReportFilter) ([]dto.ReportItemDTO, uint64, error) {
	items, total, err := s.getAndAuthorizeReport(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	formatNullTime := func(t null.Time) string {
		if t.Valid {
			return t.Time.Format(time.RFC3339)
		}
		return ""
	}

	dtos := make([]dto.ReportItemDTO, len(items))
	for i, item := range items {
		dtos[i] = dto.ReportItemDTO{
			RequestID:      item.RequestID,
			Subject:        item.Subject,
			Type:           item.Type,
			Priority:       item.Priority,
			Status:         item.Status,
			EquipmentName:  item.EquipmentName,
			SerialNumber:   item.SerialNumber,
			TeamName:       item.TeamName,
			TechnicianName: item.TechnicianName.String,
			CreatedAt:      item.CreatedAt.Format(time.RFC3339),
			ScheduledDate:  formatNullTime(item.ScheduledDate),
			ClosedAt:       formatNullTime(item.ClosedAt),
			TotalHours:     item.TotalHours.Float64,
		}
	}

	return dtos, total, nil
}
