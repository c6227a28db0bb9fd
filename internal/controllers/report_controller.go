package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"maintenance-system/internal/entities"
	"maintenance-system/internal/services"
	"maintenance-system/pkg/utils"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

func (c *ReportController) GetReport(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	filter, format := c.parseFilters(ctx)
	c.logger.Debug("Запрос на отчет с фильтрами", zap.Any("filters", filter), zap.String("format", format))

	if format == "xlsx" {
		data, _, err := c.reportService.GetReportForExcel(reqCtx, filter)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		return c.respondWithXLSX(ctx, data)
	}

	data, total, err := c.reportService.GetReportDTOs(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, data, "Отчет успешно сформирован", http.StatusOK, total)
}

func (c *ReportController) parseFilters(ctx echo.Context) (entities.ReportFilter, string) {
	stdFilter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	filter := entities.ReportFilter{
		Page:    stdFilter.Page,
		PerPage: stdFilter.Limit,
	}
	format := strings.ToLower(ctx.QueryParam("format"))

	if format == "xlsx" {
		filter.Page = 1
		filter.PerPage = 100000 // Выгружаем все для экспорта
	}

	if df := ctx.QueryParam("date_from"); df != "" {
		if t, err := time.Parse(time.RFC3339, df); err == nil {
			filter.DateFrom = &t
		}
	}
	if dt := ctx.QueryParam("date_to"); dt != "" {
		if t, err := time.Parse(time.RFC3339, dt); err == nil {
			filter.DateTo = &t
		}
	}

	if s := ctx.QueryParam("team_id"); s != "" {
		ids, _ := utils.ParseUint64Slice(strings.Split(s, ","))
		filter.TeamIDs = ids
	}
	if s := ctx.QueryParam("status"); s != "" {
		for _, raw := range strings.Split(s, ",") {
			if status, ok := entities.ParseRequestStatus(raw); ok {
				filter.Statuses = append(filter.Statuses, string(status))
			}
		}
	}
	if s := ctx.QueryParam("type"); s != "" {
		for _, raw := range strings.Split(s, ",") {
			if reqType, ok := entities.ParseRequestType(raw); ok {
				filter.Types = append(filter.Types, string(reqType))
			}
		}
	}

	return filter, format
}

var reportHeaders = []string{
	"№", "Тема", "Тип", "Приоритет", "Статус", "Оборудование", "Серийный номер",
	"Команда", "Техник", "Дата создания", "Плановая дата", "Дата закрытия", "Часы работ",
}

func rowToSlice(item entities.ReportItem) []interface{} {
	dateFmt := "02.01.2006"
	var scheduled, closed, hours string
	if item.ScheduledDate.Valid {
		scheduled = item.ScheduledDate.Time.Format(dateFmt)
	}
	if item.ClosedAt.Valid {
		closed = item.ClosedAt.Time.Format(dateFmt + " 15:04")
	}
	if item.TotalHours.Valid {
		hours = fmt.Sprintf("%.2f", item.TotalHours.Float64)
	}

	return []interface{}{
		item.RequestID, item.Subject, item.Type, item.Priority, item.Status,
		item.EquipmentName, item.SerialNumber, item.TeamName, item.TechnicianName.String,
		item.CreatedAt.Format(dateFmt), scheduled, closed, hours,
	}
}

func (c *ReportController) respondWithXLSX(ctx echo.Context, data []entities.ReportItem) error {
	f := excelize.NewFile()
	sheet := "Отчет по заявкам"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &reportHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "M1", style)

	for i, item := range data {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := rowToSlice(item)
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "B", "B", 40)
	f.SetColWidth(sheet, "F", "H", 25)
	f.SetColWidth(sheet, "J", "L", 18)

	fileName := fmt.Sprintf("maintenance_report_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
