package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/errors"
)

type fakeTeamRepo struct {
	teams   map[uint64]*entities.MaintenanceTeam
	members map[uint64][]entities.User
	nextID  uint64
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{
		teams:   make(map[uint64]*entities.MaintenanceTeam),
		members: make(map[uint64][]entities.User),
		nextID:  1,
	}
}

func (r *fakeTeamRepo) CreateTeam(ctx context.Context, team *entities.MaintenanceTeam) (uint64, error) {
	id := r.nextID
	r.nextID++
	stored := *team
	stored.ID = id
	r.teams[id] = &stored
	return id, nil
}

func (r *fakeTeamRepo) FindTeam(ctx context.Context, id uint64) (*entities.MaintenanceTeam, error) {
	t, ok := r.teams[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTeamRepo) GetTeams(ctx context.Context) ([]entities.MaintenanceTeam, error) {
	result := make([]entities.MaintenanceTeam, 0, len(r.teams))
	for _, t := range r.teams {
		result = append(result, *t)
	}
	return result, nil
}

func (r *fakeTeamRepo) UpdateTeam(ctx context.Context, id uint64, name, company string) error {
	t, ok := r.teams[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if name != "" {
		t.Name = name
	}
	if company != "" {
		t.Company.SetValid(company)
	}
	return nil
}

func (r *fakeTeamRepo) DeleteTeam(ctx context.Context, id uint64) error {
	if _, ok := r.teams[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.teams, id)
	return nil
}

func (r *fakeTeamRepo) AddMember(ctx context.Context, teamID, userID uint64) error {
	if _, ok := r.teams[teamID]; !ok {
		return apperrors.ErrNotFound
	}
	for _, u := range r.members[teamID] {
		if u.ID == userID {
			return apperrors.ErrConflict
		}
	}
	r.members[teamID] = append(r.members[teamID], entities.User{ID: userID})
	return nil
}

func (r *fakeTeamRepo) RemoveMember(ctx context.Context, teamID, userID uint64) error {
	list := r.members[teamID]
	for i, u := range list {
		if u.ID == userID {
			r.members[teamID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *fakeTeamRepo) ListMembers(ctx context.Context, teamID uint64) ([]entities.User, error) {
	return r.members[teamID], nil
}

func newTeamTestService() (TeamServiceInterface, *fakeTeamRepo) {
	repo := newFakeTeamRepo()
	return NewTeamService(repo, authz.NewGatekeeper(), zap.NewNop()), repo
}

func TestCreateTeam_ForbiddenForUserRoles(t *testing.T) {
	svc, repo := newTeamTestService()

	for _, role := range []entities.Role{entities.RoleTechnician, entities.RoleUser} {
		_, err := svc.CreateTeam(ctxWithUser(1, role), dto.CreateTeamDTO{Name: "Механики"})
		assert.ErrorIsf(t, err, apperrors.ErrForbidden, "роль %s не может создавать команды", role)
	}
	assert.Empty(t, repo.teams, "отклонённые операции не создают команд")
}

func TestTeamCRUD_Manager(t *testing.T) {
	svc, _ := newTeamTestService()
	ctx := ctxWithUser(2, entities.RoleManager)

	team, err := svc.CreateTeam(ctx, dto.CreateTeamDTO{Name: "Механики", Company: "Подрядчик"})
	require.NoError(t, err)
	assert.Equal(t, "Механики", team.Name)
	assert.Equal(t, "Подрядчик", team.Company)

	updated, err := svc.UpdateTeam(ctx, team.ID, dto.UpdateTeamDTO{Name: "Электрики"})
	require.NoError(t, err)
	assert.Equal(t, "Электрики", updated.Name)
	assert.Equal(t, "Подрядчик", updated.Company, "незаполненные поля не трогаются")

	require.NoError(t, svc.DeleteTeam(ctx, team.ID))
	_, err = svc.FindTeam(ctx, team.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTeamMembers_DuplicateAndMissing(t *testing.T) {
	svc, _ := newTeamTestService()
	ctx := ctxWithUser(2, entities.RoleAdmin)

	team, err := svc.CreateTeam(ctx, dto.CreateTeamDTO{Name: "Механики"})
	require.NoError(t, err)

	require.NoError(t, svc.AddMember(ctx, team.ID, dto.AddMemberDTO{UserID: 5}))
	err = svc.AddMember(ctx, team.ID, dto.AddMemberDTO{UserID: 5})
	assert.ErrorIs(t, err, apperrors.ErrConflict, "повторное членство — конфликт")

	members, err := svc.ListMembers(ctxWithUser(9, entities.RoleUser), team.ID)
	require.NoError(t, err, "список участников доступен любой роли")
	require.Len(t, members, 1)
	assert.Equal(t, uint64(5), members[0].ID)

	err = svc.RemoveMember(ctx, team.ID, 77)
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "удаление отсутствующего участника — NotFound")

	_, err = svc.ListMembers(ctxWithUser(9, entities.RoleUser), 999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "участники несуществующей команды — NotFound")
}

func TestUpdateTeam_EmptyPayload(t *testing.T) {
	svc, _ := newTeamTestService()
	ctx := ctxWithUser(2, entities.RoleManager)

	team, err := svc.CreateTeam(ctx, dto.CreateTeamDTO{Name: "Механики"})
	require.NoError(t, err)

	_, err = svc.UpdateTeam(ctx, team.ID, dto.UpdateTeamDTO{})
	var invalidInput *apperrors.InvalidInputError
	assert.ErrorAs(t, err, &invalidInput, "пустое обновление отклоняется")
}
