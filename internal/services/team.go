package services

import (
	"context"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/utils"
)

type TeamServiceInterface interface {
	CreateTeam(ctx context.Context, payload dto.CreateTeamDTO) (*dto.TeamDTO, error)
	FindTeam(ctx context.Context, id uint64) (*dto.TeamDTO, error)
	GetTeams(ctx context.Context) ([]dto.TeamDTO, error)
	UpdateTeam(ctx context.Context, id uint64, payload dto.UpdateTeamDTO) (*dto.TeamDTO, error)
	DeleteTeam(ctx context.Context, id uint64) error
	AddMember(ctx context.Context, teamID uint64, payload dto.AddMemberDTO) error
	RemoveMember(ctx context.Context, teamID, userID uint64) error
	ListMembers(ctx context.Context, teamID uint64) ([]dto.ShortUserDTO, error)
}

type TeamService struct {
	teamRepo   repositories.TeamRepositoryInterface
	gatekeeper *authz.Gatekeeper
	logger     *zap.Logger
}

func NewTeamService(
	teamRepo repositories.TeamRepositoryInterface,
	gatekeeper *authz.Gatekeeper,
	logger *zap.Logger,
) TeamServiceInterface {
	return &TeamService{teamRepo: teamRepo, gatekeeper: gatekeeper, logger: logger}
}

func (s *TeamService) check(ctx context.Context, op authz.Operation) error {
	role, err := utils.GetUserRoleFromCtx(ctx)
	if err != nil {
		return err
	}
	if !s.gatekeeper.Can(role, op) {
		return apperrors.ErrForbidden
	}
	return nil
}

func teamToDTO(t *entities.MaintenanceTeam) *dto.TeamDTO {
	return &dto.TeamDTO{
		ID:        t.ID,
		Name:      t.Name,
		Company:   t.Company.String,
		CreatedAt: t.CreatedAt,
	}
}

func (s *TeamService) CreateTeam(ctx context.Context, payload dto.CreateTeamDTO) (*dto.TeamDTO, error) {
	if err := s.check(ctx, authz.TeamsCreate); err != nil {
		return nil, err
	}

	team := &entities.MaintenanceTeam{
		Name:    payload.Name,
		Company: null.NewString(payload.Company, payload.Company != ""),
	}
	id, err := s.teamRepo.CreateTeam(ctx, team)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Создана команда обслуживания", zap.Uint64("teamID", id), zap.String("name", payload.Name))
	return s.FindTeam(ctx, id)
}

func (s *TeamService) FindTeam(ctx context.Context, id uint64) (*dto.TeamDTO, error) {
	if err := s.check(ctx, authz.TeamsView); err != nil {
		return nil, err
	}
	team, err := s.teamRepo.FindTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	return teamToDTO(team), nil
}

func (s *TeamService) GetTeams(ctx context.Context) ([]dto.TeamDTO, error) {
	if err := s.check(ctx, authz.TeamsView); err != nil {
		return nil, err
	}
	teams, err := s.teamRepo.GetTeams(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.TeamDTO, 0, len(teams))
	for i := range teams {
		result = append(result, *teamToDTO(&teams[i]))
	}
	return result, nil
}

func (s *TeamService) UpdateTeam(ctx context.Context, id uint64, payload dto.UpdateTeamDTO) (*dto.TeamDTO, error) {
	if err := s.check(ctx, authz.TeamsUpdate); err != nil {
		return nil, err
	}
	if payload.Name == "" && payload.Company == "" {
		return nil, apperrors.NewInvalidInputError("нечего обновлять")
	}
	if err := s.teamRepo.UpdateTeam(ctx, id, payload.Name, payload.Company); err != nil {
		return nil, err
	}
	return s.FindTeam(ctx, id)
}

func (s *TeamService) DeleteTeam(ctx context.Context, id uint64) error {
	if err := s.check(ctx, authz.TeamsDelete); err != nil {
		return err
	}
	if err := s.teamRepo.DeleteTeam(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Команда удалена", zap.Uint64("teamID", id))
	return nil
}

func (s *TeamService) AddMember(ctx context.Context, teamID uint64, payload dto.AddMemberDTO) error {
	if err := s.check(ctx, authz.TeamsMembersManage); err != nil {
		return err
	}
	return s.teamRepo.AddMember(ctx, teamID, payload.UserID)
}

func (s *TeamService) RemoveMember(ctx context.Context, teamID, userID uint64) error {
	if err := s.check(ctx, authz.TeamsMembersManage); err != nil {
		return err
	}
	return s.teamRepo.RemoveMember(ctx, teamID, userID)
}

func (s *TeamService) ListMembers(ctx context.Context, teamID uint64) ([]dto.ShortUserDTO, error) {
	if err := s.check(ctx, authz.TeamsMembersView); err != nil {
		return nil, err
	}
	// Пустой список для отсутствующей команды не отдаём.
	if _, err := s.teamRepo.FindTeam(ctx, teamID); err != nil {
		return nil, err
	}
	users, err := s.teamRepo.ListMembers(ctx, teamID)
	if err != nil {
		return nil, err
	}
	members := make([]dto.ShortUserDTO, 0, len(users))
	for _, u := range users {
		members = append(members, dto.ShortUserDTO{ID: u.ID, Name: u.Name})
	}
	return members, nil
}
