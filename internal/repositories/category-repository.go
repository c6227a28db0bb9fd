package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/errors"
)

type CategoryRepositoryInterface interface {
	CreateCategory(ctx context.Context, category *entities.EquipmentCategory) (uint64, error)
	FindCategory(ctx context.Context, id uint64) (*entities.EquipmentCategory, error)
	GetCategories(ctx context.Context) ([]entities.EquipmentCategory, error)
}

type CategoryRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewCategoryRepository(storage *pgxpool.Pool, logger *zap.Logger) CategoryRepositoryInterface {
	return &CategoryRepository{storage: storage, logger: logger}
}

func (r *CategoryRepository) CreateCategory(ctx context.Context, category *entities.EquipmentCategory) (uint64, error) {
	query := `
		INSERT INTO equipment_categories (name, company, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id`

	var id uint64
	if err := r.storage.QueryRow(ctx, query, category.Name, category.Company).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return 0, apperrors.ErrConflict
		}
		return 0, fmt.Errorf("ошибка создания категории оборудования: %w", err)
	}
	return id, nil
}

func (r *CategoryRepository) FindCategory(ctx context.Context, id uint64) (*entities.EquipmentCategory, error) {
	query := `SELECT id, name, company, created_at, updated_at FROM equipment_categories WHERE id = $1`

	var c entities.EquipmentCategory
	err := r.storage.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Company, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования категории: %w", err)
	}
	return &c, nil
}

func (r *CategoryRepository) GetCategories(ctx context.Context) ([]entities.EquipmentCategory, error) {
	rows, err := r.storage.Query(ctx,
		`SELECT id, name, company, created_at, updated_at FROM equipment_categories ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка категорий: %w", err)
	}
	defer rows.Close()

	categories := make([]entities.EquipmentCategory, 0)
	for rows.Next() {
		var c entities.EquipmentCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Company, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования категории в списке: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
