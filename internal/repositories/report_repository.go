package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"maintenance-system/internal/entities"
)

type ReportRepositoryInterface interface {
	GetReport(ctx context.Context, filter entities.ReportFilter) ([]entities.ReportItem, uint64, error)
}

type reportRepository struct {
	db *pgxpool.Pool
}

func NewReportRepository(db *pgxpool.Pool) ReportRepositoryInterface {
	return &reportRepository{db: db}
}

func (r *reportRepository) GetReport(ctx context.Context, filter entities.ReportFilter) ([]entities.ReportItem, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	// Общая база для COUNT и основного запроса.
	baseSelect := psql.Select().
		From("maintenance_requests r").
		Join("equipment eq ON eq.id = r.equipment_id").
		Join("maintenance_teams t ON t.id = r.team_id").
		LeftJoin("users tech ON tech.id = r.technician_id")

	if filter.DateFrom != nil {
		baseSelect = baseSelect.Where(sq.GtOrEq{"r.created_at": filter.DateFrom})
	}
	if filter.DateTo != nil {
		baseSelect = baseSelect.Where(sq.LtOrEq{"r.created_at": filter.DateTo})
	}
	if len(filter.TeamIDs) > 0 {
		baseSelect = baseSelect.Where(sq.Eq{"r.team_id": filter.TeamIDs})
	}
	if len(filter.Statuses) > 0 {
		baseSelect = baseSelect.Where(sq.Eq{"r.status": filter.Statuses})
	}
	if len(filter.Types) > 0 {
		baseSelect = baseSelect.Where(sq.Eq{"r.type": filter.Types})
	}

	countQuery, countArgs, err := baseSelect.Columns("COUNT(r.id)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки COUNT-запроса отчета: %w", err)
	}
	var totalCount uint64
	if err = r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("ошибка выполнения COUNT-запроса отчета: %w", err)
	}
	if totalCount == 0 {
		return []entities.ReportItem{}, 0, nil
	}

	mainBuilder := baseSelect.Columns(
		"r.id", "r.subject", "r.type", "r.priority", "r.status",
		"eq.name", "eq.serial_number", "t.name", "tech.name",
		"r.created_at", "r.scheduled_date",
		// Момент закрытия — последняя запись журнала с терминальным статусом.
		`(SELECT MAX(l.created_at) FROM maintenance_logs l
			WHERE l.request_id = r.id AND l.to_status IN ('REPAIRED', 'SCRAP'))`,
		`(SELECT SUM(l.duration_hours) FROM maintenance_logs l WHERE l.request_id = r.id)`,
	).OrderBy("r.id DESC")

	if filter.PerPage > 0 {
		mainBuilder = mainBuilder.Limit(uint64(filter.PerPage)).Offset(uint64((filter.Page - 1) * filter.PerPage))
	}

	sql, args, err := mainBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки основного запроса отчета: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка выполнения основного запроса отчета: %w", err)
	}
	defer rows.Close()

	var items []entities.ReportItem
	for rows.Next() {
		var item entities.ReportItem
		err := rows.Scan(
			&item.RequestID, &item.Subject, &item.Type, &item.Priority, &item.Status,
			&item.EquipmentName, &item.SerialNumber, &item.TeamName, &item.TechnicianName,
			&item.CreatedAt, &item.ScheduledDate, &item.ClosedAt, &item.TotalHours,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("ошибка сканирования строки отчета: %w", err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	return items, totalCount, nil
}
