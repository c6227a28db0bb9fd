package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/infrastructure/bd"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"
)

type RequestRepositoryInterface interface {
	CreateRequestInTx(ctx context.Context, tx pgx.Tx, request *entities.MaintenanceRequest) (uint64, error)
	FindRequest(ctx context.Context, id uint64) (*entities.MaintenanceRequest, error)
	// FindRequestForUpdateInTx читает заявку с блокировкой строки, чтобы
	// конкурирующие смены статуса выполнялись строго по очереди.
	FindRequestForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRequest, error)
	UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, status entities.RequestStatus) error
	AssignTechnicianInTx(ctx context.Context, tx pgx.Tx, id, technicianID uint64) error
	FindRequestDTO(ctx context.Context, id uint64) (*dto.RequestDTO, error)
	GetRequests(ctx context.Context, filter types.Filter) ([]dto.RequestDTO, uint64, error)
}

type RequestRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewRequestRepository(storage *pgxpool.Pool, logger *zap.Logger) RequestRepositoryInterface {
	return &RequestRepository{storage: storage, logger: logger}
}

const requestColumns = `id, subject, description, type, priority, status,
	equipment_id, team_id, technician_id, scheduled_date, created_at, updated_at`

var requestListColumns = []string{
	"r.id", "r.subject", "r.description", "r.type", "r.priority", "r.status",
	"r.scheduled_date", "r.created_at", "r.updated_at",
	"eq.id AS equipment_id", "eq.name AS equipment_name",
	"t.id AS team_id", "t.name AS team_name",
	"tech.id AS technician_id", "tech.name AS technician_name",
}

var requestFilterMap = map[string]string{
	"type":         "r.type",
	"status":       "r.status",
	"teamId":       "r.team_id",
	"technicianId": "r.technician_id",
	"equipmentId":  "r.equipment_id",
	"priority":     "r.priority",
}

func (r *RequestRepository) CreateRequestInTx(ctx context.Context, tx pgx.Tx, request *entities.MaintenanceRequest) (uint64, error) {
	query := `
		INSERT INTO maintenance_requests
			(subject, description, type, priority, status, equipment_id, team_id,
			 technician_id, scheduled_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id`

	var id uint64
	err := tx.QueryRow(ctx, query,
		request.Subject, request.Description, request.Type, request.Priority,
		request.Status, request.EquipmentID, request.TeamID,
		request.TechnicianID, request.ScheduledDate,
	).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, apperrors.ErrNotFound
		}
		return 0, fmt.Errorf("ошибка создания заявки: %w", err)
	}
	return id, nil
}

func scanRequest(row pgx.Row) (*entities.MaintenanceRequest, error) {
	var req entities.MaintenanceRequest
	err := row.Scan(
		&req.ID, &req.Subject, &req.Description, &req.Type, &req.Priority, &req.Status,
		&req.EquipmentID, &req.TeamID, &req.TechnicianID, &req.ScheduledDate,
		&req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования заявки: %w", err)
	}
	return &req, nil
}

func (r *RequestRepository) FindRequest(ctx context.Context, id uint64) (*entities.MaintenanceRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM maintenance_requests WHERE id = $1`
	return scanRequest(r.storage.QueryRow(ctx, query, id))
}

func (r *RequestRepository) FindRequestForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM maintenance_requests WHERE id = $1 FOR UPDATE`
	return scanRequest(tx.QueryRow(ctx, query, id))
}

func (r *RequestRepository) UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, status entities.RequestStatus) error {
	tag, err := tx.Exec(ctx,
		`UPDATE maintenance_requests SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id)
	if err != nil {
		return fmt.Errorf("ошибка обновления статуса заявки: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *RequestRepository) AssignTechnicianInTx(ctx context.Context, tx pgx.Tx, id, technicianID uint64) error {
	tag, err := tx.Exec(ctx,
		`UPDATE maintenance_requests SET technician_id = $1, updated_at = NOW() WHERE id = $2`,
		technicianID, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("ошибка назначения техника на заявку: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func requestSelectBuilder() sq.SelectBuilder {
	return sq.Select(requestListColumns...).
		From("maintenance_requests r").
		Join("equipment eq ON eq.id = r.equipment_id").
		Join("maintenance_teams t ON t.id = r.team_id").
		LeftJoin("users tech ON tech.id = r.technician_id").
		PlaceholderFormat(sq.Dollar)
}

func scanRequestDTO(row pgx.Row) (*dto.RequestDTO, error) {
	var item dto.RequestDTO
	var techID *uint64
	var techName *string

	err := row.Scan(
		&item.ID, &item.Subject, &item.Description, &item.Type, &item.Priority, &item.Status,
		&item.ScheduledDate, &item.CreatedAt, &item.UpdatedAt,
		&item.Equipment.ID, &item.Equipment.Name,
		&item.Team.ID, &item.Team.Name,
		&techID, &techName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("ошибка сканирования заявки в списке: %w", err)
	}

	if techID != nil {
		item.Technician = &dto.ShortUserDTO{ID: *techID, Name: *techName}
	}
	return &item, nil
}

func (r *RequestRepository) FindRequestDTO(ctx context.Context, id uint64) (*dto.RequestDTO, error) {
	query, args, err := requestSelectBuilder().Where(sq.Eq{"r.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса заявки: %w", err)
	}

	item, err := scanRequestDTO(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

// GetRequests — список заявок, новые сверху. Фильтры: type, status, teamId,
// technicianId, equipmentId, priority.
func (r *RequestRepository) GetRequests(ctx context.Context, filter types.Filter) ([]dto.RequestDTO, uint64, error) {
	countBuilder := bd.ApplyListParams(
		sq.Select("COUNT(*)").From("maintenance_requests r").PlaceholderFormat(sq.Dollar),
		types.Filter{Filter: filter.Filter},
		requestFilterMap,
	)
	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса подсчета заявок: %w", err)
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета заявок: %w", err)
	}

	builder := requestSelectBuilder().OrderBy("r.created_at DESC")
	builder = bd.ApplyListParams(builder, filter, requestFilterMap)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса списка заявок: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения списка заявок: %w", err)
	}
	defer rows.Close()

	items := make([]dto.RequestDTO, 0)
	for rows.Next() {
		item, err := scanRequestDTO(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *item)
	}
	return items, total, rows.Err()
}
