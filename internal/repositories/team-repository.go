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

type TeamRepositoryInterface interface {
	CreateTeam(ctx context.Context, team *entities.MaintenanceTeam) (uint64, error)
	FindTeam(ctx context.Context, id uint64) (*entities.MaintenanceTeam, error)
	GetTeams(ctx context.Context) ([]entities.MaintenanceTeam, error)
	UpdateTeam(ctx context.Context, id uint64, name, company string) error
	DeleteTeam(ctx context.Context, id uint64) error
	AddMember(ctx context.Context, teamID, userID uint64) error
	RemoveMember(ctx context.Context, teamID, userID uint64) error
	ListMembers(ctx context.Context, teamID uint64) ([]entities.User, error)
}

type TeamRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewTeamRepository(storage *pgxpool.Pool, logger *zap.Logger) TeamRepositoryInterface {
	return &TeamRepository{storage: storage, logger: logger}
}

func (r *TeamRepository) CreateTeam(ctx context.Context, team *entities.MaintenanceTeam) (uint64, error) {
	query := `
		INSERT INTO maintenance_teams (name, company, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id`

	var id uint64
	if err := r.storage.QueryRow(ctx, query, team.Name, team.Company).Scan(&id); err != nil {
		return 0, fmt.Errorf("ошибка создания команды: %w", err)
	}
	return id, nil
}

func (r *TeamRepository) FindTeam(ctx context.Context, id uint64) (*entities.MaintenanceTeam, error) {
	query := `SELECT id, name, company, created_at, updated_at FROM maintenance_teams WHERE id = $1`

	var t entities.MaintenanceTeam
	err := r.storage.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name, &t.Company, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования команды: %w", err)
	}
	return &t, nil
}

func (r *TeamRepository) GetTeams(ctx context.Context) ([]entities.MaintenanceTeam, error) {
	rows, err := r.storage.Query(ctx,
		`SELECT id, name, company, created_at, updated_at FROM maintenance_teams ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка команд: %w", err)
	}
	defer rows.Close()

	teams := make([]entities.MaintenanceTeam, 0)
	for rows.Next() {
		var t entities.MaintenanceTeam
		if err := rows.Scan(&t.ID, &t.Name, &t.Company, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования команды в списке: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (r *TeamRepository) UpdateTeam(ctx context.Context, id uint64, name, company string) error {
	query := `UPDATE maintenance_teams SET updated_at = NOW()`
	args := []interface{}{}
	argCounter := 1

	if name != "" {
		query += fmt.Sprintf(", name = $%d", argCounter)
		args = append(args, name)
		argCounter++
	}
	if company != "" {
		query += fmt.Sprintf(", company = $%d", argCounter)
		args = append(args, company)
		argCounter++
	}

	query += fmt.Sprintf(" WHERE id = $%d", argCounter)
	args = append(args, id)

	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка обновления команды: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteTeam удаляет команду. Пока на команду ссылаются оборудование или
// заявки, БД откажет по внешнему ключу — наружу уходит Conflict.
func (r *TeamRepository) DeleteTeam(ctx context.Context, id uint64) error {
	tag, err := r.storage.Exec(ctx, `DELETE FROM maintenance_teams WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("ошибка удаления команды: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *TeamRepository) AddMember(ctx context.Context, teamID, userID uint64) error {
	query := `
		INSERT INTO team_members (team_id, user_id, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())`

	if _, err := r.storage.Exec(ctx, query, teamID, userID); err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("ошибка добавления участника команды: %w", err)
	}
	return nil
}

func (r *TeamRepository) RemoveMember(ctx context.Context, teamID, userID uint64) error {
	tag, err := r.storage.Exec(ctx,
		`DELETE FROM team_members WHERE team_id = $1 AND user_id = $2`, teamID, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления участника команды: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListMembers возвращает участников в порядке добавления в команду.
func (r *TeamRepository) ListMembers(ctx context.Context, teamID uint64) ([]entities.User, error) {
	query := `
		SELECT u.id, u.name, u.email, u.password_hash, u.role, u.created_at, u.updated_at
		FROM team_members tm
		JOIN users u ON u.id = tm.user_id
		WHERE tm.team_id = $1
		ORDER BY tm.id ASC`

	rows, err := r.storage.Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения участников команды: %w", err)
	}
	defer rows.Close()

	users := make([]entities.User, 0)
	for rows.Next() {
		var u entities.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования участника команды: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
