package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

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

type EquipmentRepositoryInterface interface {
	CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (uint64, error)
	FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error)
	FindEquipmentDTO(ctx context.Context, id uint64) (*dto.EquipmentDTO, error)
	GetEquipments(ctx context.Context, filter types.Filter) ([]dto.EquipmentDTO, uint64, error)
	SetScrappedInTx(ctx context.Context, tx pgx.Tx, id uint64, scrapDate time.Time) error
	CountOpenRequests(ctx context.Context, id uint64) (uint64, error)
}

type EquipmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEquipmentRepository(storage *pgxpool.Pool, logger *zap.Logger) EquipmentRepositoryInterface {
	return &EquipmentRepository{storage: storage, logger: logger}
}

// equipmentListColumns — поля для обогащённых выборок с категорией,
// командой и техником по умолчанию.
var equipmentListColumns = []string{
	"eq.id", "eq.name", "eq.serial_number",
	"eq.department", "eq.location", "eq.purchase_date", "eq.warranty_end",
	"eq.is_scrapped", "eq.scrap_date",
	"c.id AS category_id", "c.name AS category_name",
	"t.id AS team_id", "t.name AS team_name",
	"tech.id AS technician_id", "tech.name AS technician_name",
}

var equipmentFilterMap = map[string]string{
	"department": "eq.department",
	"teamId":     "eq.team_id",
	"categoryId": "eq.category_id",
	"isScrapped": "eq.is_scrapped",
}

func (r *EquipmentRepository) CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (uint64, error) {
	query := `
		INSERT INTO equipment
			(name, serial_number, category_id, team_id, technician_id, department, location,
			 purchase_date, warranty_end, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9, NOW(), NOW())
		RETURNING id`

	var id uint64
	err := r.storage.QueryRow(ctx, query,
		payload.Name, payload.SerialNumber, payload.CategoryID, payload.TeamID,
		payload.TechnicianID, payload.Department, payload.Location,
		payload.PurchaseDate, payload.WarrantyEnd,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperrors.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return 0, apperrors.ErrNotFound
		}
		return 0, fmt.Errorf("ошибка создания оборудования: %w", err)
	}
	return id, nil
}

func (r *EquipmentRepository) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	query := `
		SELECT id, name, serial_number, category_id, team_id, technician_id,
		       department, location, purchase_date, warranty_end,
		       is_scrapped, scrap_date, created_at, updated_at
		FROM equipment WHERE id = $1`

	var e entities.Equipment
	err := r.storage.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.Name, &e.SerialNumber, &e.CategoryID, &e.TeamID, &e.TechnicianID,
		&e.Department, &e.Location, &e.PurchaseDate, &e.WarrantyEnd,
		&e.IsScrapped, &e.ScrapDate, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования оборудования: %w", err)
	}
	return &e, nil
}

func (r *EquipmentRepository) FindEquipmentDTO(ctx context.Context, id uint64) (*dto.EquipmentDTO, error) {
	builder := sq.Select(equipmentListColumns...).
		From("equipment eq").
		Join("equipment_categories c ON c.id = eq.category_id").
		Join("maintenance_teams t ON t.id = eq.team_id").
		LeftJoin("users tech ON tech.id = eq.technician_id").
		Where(sq.Eq{"eq.id": id}).
		PlaceholderFormat(sq.Dollar)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса оборудования: %w", err)
	}

	item, err := scanEquipmentDTO(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

func (r *EquipmentRepository) GetEquipments(ctx context.Context, filter types.Filter) ([]dto.EquipmentDTO, uint64, error) {
	countBuilder := bd.ApplyListParams(
		sq.Select("COUNT(*)").From("equipment eq").PlaceholderFormat(sq.Dollar),
		types.Filter{Filter: filter.Filter},
		equipmentFilterMap,
	)
	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса подсчета оборудования: %w", err)
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета оборудования: %w", err)
	}

	builder := sq.Select(equipmentListColumns...).
		From("equipment eq").
		Join("equipment_categories c ON c.id = eq.category_id").
		Join("maintenance_teams t ON t.id = eq.team_id").
		LeftJoin("users tech ON tech.id = eq.technician_id").
		OrderBy("eq.id DESC").
		PlaceholderFormat(sq.Dollar)
	builder = bd.ApplyListParams(builder, filter, equipmentFilterMap)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса списка оборудования: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения списка оборудования: %w", err)
	}
	defer rows.Close()

	items := make([]dto.EquipmentDTO, 0)
	for rows.Next() {
		item, err := scanEquipmentDTO(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *item)
	}
	return items, total, rows.Err()
}

func scanEquipmentDTO(row pgx.Row) (*dto.EquipmentDTO, error) {
	var item dto.EquipmentDTO
	var techID *uint64
	var techName *string

	err := row.Scan(
		&item.ID, &item.Name, &item.SerialNumber,
		&item.Department, &item.Location, &item.PurchaseDate, &item.WarrantyEnd,
		&item.IsScrapped, &item.ScrapDate,
		&item.Category.ID, &item.Category.Name,
		&item.Team.ID, &item.Team.Name,
		&techID, &techName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("ошибка сканирования оборудования в списке: %w", err)
	}

	if techID != nil {
		item.Technician = &dto.ShortUserDTO{ID: *techID, Name: *techName}
	}
	return &item, nil
}

// SetScrappedInTx выставляет флаг списания. Флаг односторонний: сбрасывать
// его последующими заявками нельзя, поэтому UPDATE трогает только
// не-списанное оборудование, а повторное списание — no-op.
func (r *EquipmentRepository) SetScrappedInTx(ctx context.Context, tx pgx.Tx, id uint64, scrapDate time.Time) error {
	_, err := tx.Exec(ctx,
		`UPDATE equipment SET is_scrapped = TRUE, scrap_date = $1, updated_at = NOW()
		 WHERE id = $2 AND is_scrapped = FALSE`,
		scrapDate, id)
	if err != nil {
		return fmt.Errorf("ошибка списания оборудования: %w", err)
	}
	return nil
}

// CountOpenRequests считает заявки по оборудованию вне терминальных статусов.
func (r *EquipmentRepository) CountOpenRequests(ctx context.Context, id uint64) (uint64, error) {
	var count uint64
	err := r.storage.QueryRow(ctx,
		`SELECT COUNT(*) FROM maintenance_requests
		 WHERE equipment_id = $1 AND status NOT IN ($2, $3)`,
		id, entities.StatusRepaired, entities.StatusScrap,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчета открытых заявок: %w", err)
	}
	return count, nil
}
