package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
)

// MaintenanceLogRepositoryInterface — журнал жизненного цикла заявок.
// Единственная операция записи — вставка внутри транзакции вместе с
// изменением самой заявки; UPDATE и DELETE у журнала нет.
type MaintenanceLogRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, log *entities.MaintenanceLog) (uint64, error)
	FindByRequestID(ctx context.Context, requestID uint64) ([]dto.MaintenanceLogDTO, error)
}

type MaintenanceLogRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewMaintenanceLogRepository(storage *pgxpool.Pool, logger *zap.Logger) MaintenanceLogRepositoryInterface {
	return &MaintenanceLogRepository{storage: storage, logger: logger}
}

func (r *MaintenanceLogRepository) CreateInTx(ctx context.Context, tx pgx.Tx, log *entities.MaintenanceLog) (uint64, error) {
	query := `
		INSERT INTO maintenance_logs
			(request_id, action, from_status, to_status, performed_by_id, notes,
			 duration_hours, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id`

	var id uint64
	err := tx.QueryRow(ctx, query,
		log.RequestID, log.Action, log.FromStatus, log.ToStatus,
		log.PerformedByID, log.Notes, log.DurationHours,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка записи в журнал заявки: %w", err)
	}
	return id, nil
}

// FindByRequestID возвращает историю заявки в хронологическом порядке.
func (r *MaintenanceLogRepository) FindByRequestID(ctx context.Context, requestID uint64) ([]dto.MaintenanceLogDTO, error) {
	query := `
		SELECT l.id, l.request_id, l.action, l.from_status, l.to_status,
		       u.id, u.name, l.notes, l.duration_hours, l.created_at
		FROM maintenance_logs l
		JOIN users u ON u.id = l.performed_by_id
		WHERE l.request_id = $1
		ORDER BY l.created_at ASC, l.id ASC`

	rows, err := r.storage.Query(ctx, query, requestID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения журнала заявки: %w", err)
	}
	defer rows.Close()

	logs := make([]dto.MaintenanceLogDTO, 0)
	for rows.Next() {
		var l dto.MaintenanceLogDTO
		err := rows.Scan(
			&l.ID, &l.RequestID, &l.Action, &l.FromStatus, &l.ToStatus,
			&l.PerformedBy.ID, &l.PerformedBy.Name,
			&l.Notes, &l.DurationHours, &l.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи журнала: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
