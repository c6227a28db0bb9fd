package services

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/pkg/contextkeys"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"
)

// --- Фейки репозиториев для изолированных тестов сервиса ---

type fakeTxManager struct{}

func (f *fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type fakeRequestRepo struct {
	items  map[uint64]*entities.MaintenanceRequest
	nextID uint64
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{items: make(map[uint64]*entities.MaintenanceRequest), nextID: 1}
}

func (r *fakeRequestRepo) CreateRequestInTx(ctx context.Context, tx pgx.Tx, request *entities.MaintenanceRequest) (uint64, error) {
	id := r.nextID
	r.nextID++
	stored := *request
	stored.ID = id
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.items[id] = &stored
	return id, nil
}

func (r *fakeRequestRepo) FindRequest(ctx context.Context, id uint64) (*entities.MaintenanceRequest, error) {
	req, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *req
	return &copied, nil
}

func (r *fakeRequestRepo) FindRequestForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRequest, error) {
	return r.FindRequest(ctx, id)
}

func (r *fakeRequestRepo) UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, status entities.RequestStatus) error {
	req, ok := r.items[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	req.Status = status
	req.UpdatedAt = time.Now()
	return nil
}

func (r *fakeRequestRepo) AssignTechnicianInTx(ctx context.Context, tx pgx.Tx, id, technicianID uint64) error {
	req, ok := r.items[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	req.TechnicianID.SetValid(technicianID)
	req.UpdatedAt = time.Now()
	return nil
}

func (r *fakeRequestRepo) FindRequestDTO(ctx context.Context, id uint64) (*dto.RequestDTO, error) {
	req, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	item := &dto.RequestDTO{
		ID:        req.ID,
		Subject:   req.Subject,
		Type:      string(req.Type),
		Priority:  string(req.Priority),
		Status:    string(req.Status),
		Equipment: dto.ShortCatalog{ID: req.EquipmentID},
		Team:      dto.ShortTeamDTO{ID: req.TeamID},
		CreatedAt: req.CreatedAt,
		UpdatedAt: req.UpdatedAt,
	}
	if req.TechnicianID.Valid {
		item.Technician = &dto.ShortUserDTO{ID: req.TechnicianID.Uint64}
	}
	return item, nil
}

func (r *fakeRequestRepo) GetRequests(ctx context.Context, filter types.Filter) ([]dto.RequestDTO, uint64, error) {
	result := make([]dto.RequestDTO, 0, len(r.items))
	for id := range r.items {
		item, _ := r.FindRequestDTO(ctx, id)
		result = append(result, *item)
	}
	return result, uint64(len(result)), nil
}

type fakeEquipmentRepo struct {
	items    map[uint64]*entities.Equipment
	scrapped map[uint64]time.Time
}

func newFakeEquipmentRepo() *fakeEquipmentRepo {
	return &fakeEquipmentRepo{
		items:    make(map[uint64]*entities.Equipment),
		scrapped: make(map[uint64]time.Time),
	}
}

func (r *fakeEquipmentRepo) CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (uint64, error) {
	panic("не используется в тестах сервиса заявок")
}

func (r *fakeEquipmentRepo) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	eq, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *eq
	return &copied, nil
}

func (r *fakeEquipmentRepo) FindEquipmentDTO(ctx context.Context, id uint64) (*dto.EquipmentDTO, error) {
	panic("не используется в тестах сервиса заявок")
}

func (r *fakeEquipmentRepo) GetEquipments(ctx context.Context, filter types.Filter) ([]dto.EquipmentDTO, uint64, error) {
	panic("не используется в тестах сервиса заявок")
}

func (r *fakeEquipmentRepo) SetScrappedInTx(ctx context.Context, tx pgx.Tx, id uint64, scrapDate time.Time) error {
	eq, ok := r.items[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if !eq.IsScrapped {
		eq.IsScrapped = true
		eq.ScrapDate.SetValid(scrapDate)
		r.scrapped[id] = scrapDate
	}
	return nil
}

func (r *fakeEquipmentRepo) CountOpenRequests(ctx context.Context, id uint64) (uint64, error) {
	return 0, nil
}

type fakeLogRepo struct {
	logs   []entities.MaintenanceLog
	nextID uint64
}

func newFakeLogRepo() *fakeLogRepo {
	return &fakeLogRepo{nextID: 1}
}

func (r *fakeLogRepo) CreateInTx(ctx context.Context, tx pgx.Tx, log *entities.MaintenanceLog) (uint64, error) {
	id := r.nextID
	r.nextID++
	stored := *log
	stored.ID = id
	stored.CreatedAt = time.Now()
	r.logs = append(r.logs, stored)
	return id, nil
}

func (r *fakeLogRepo) FindByRequestID(ctx context.Context, requestID uint64) ([]dto.MaintenanceLogDTO, error) {
	result := make([]dto.MaintenanceLogDTO, 0)
	for _, l := range r.logs {
		if l.RequestID != requestID {
			continue
		}
		result = append(result, dto.MaintenanceLogDTO{
			ID:          l.ID,
			RequestID:   l.RequestID,
			Action:      string(l.Action),
			FromStatus:  l.FromStatus,
			ToStatus:    l.ToStatus,
			PerformedBy: dto.ShortUserDTO{ID: l.PerformedByID},
			Notes:       l.Notes,
			CreatedAt:   l.CreatedAt,
		})
	}
	return result, nil
}

func (r *fakeLogRepo) byRequest(requestID uint64) []entities.MaintenanceLog {
	var result []entities.MaintenanceLog
	for _, l := range r.logs {
		if l.RequestID == requestID {
			result = append(result, l)
		}
	}
	return result
}

// --- Окружение тестов ---

type requestTestEnv struct {
	service       RequestServiceInterface
	requestRepo   *fakeRequestRepo
	equipmentRepo *fakeEquipmentRepo
	logRepo       *fakeLogRepo
}

func newRequestTestEnv(t *testing.T) *requestTestEnv {
	t.Helper()

	requestRepo := newFakeRequestRepo()
	equipmentRepo := newFakeEquipmentRepo()
	logRepo := newFakeLogRepo()

	equipmentRepo.items[10] = &entities.Equipment{
		ID:           10,
		Name:         "Токарный станок",
		SerialNumber: "LT-0001",
		CategoryID:   1,
		TeamID:       7,
	}

	service := NewRequestService(
		requestRepo, equipmentRepo, logRepo,
		&fakeTxManager{}, authz.NewGatekeeper(), zap.NewNop(),
	)
	return &requestTestEnv{
		service:       service,
		requestRepo:   requestRepo,
		equipmentRepo: equipmentRepo,
		logRepo:       logRepo,
	}
}

func ctxWithUser(userID uint64, role entities.Role) context.Context {
	ctx := context.WithValue(context.Background(), contextkeys.UserIDKey, userID)
	return context.WithValue(ctx, contextkeys.UserRoleKey, role)
}

// --- Сценарии ---

func TestCreateRequest_DefaultsAndLog(t *testing.T) {
	env := newRequestTestEnv(t)
	ctx := ctxWithUser(42, entities.RoleUser)

	res, err := env.service.CreateRequest(ctx, dto.CreateRequestDTO{
		Subject:     "Станок издаёт шум",
		Type:        "corrective",
		EquipmentID: 10,
	})
	require.NoError(t, err, "создание заявки не должно падать")

	assert.Equal(t, "NEW", res.Status, "новая заявка должна быть в статусе NEW")
	assert.Equal(t, "MEDIUM", res.Priority, "приоритет по умолчанию MEDIUM")
	assert.Equal(t, "CORRECTIVE", res.Type, "тип нормализуется к верхнему регистру")
	assert.Equal(t, uint64(7), res.Team.ID, "команда должна копироваться из оборудования")

	logs := env.logRepo.byRequest(res.ID)
	require.Len(t, logs, 1, "ровно одна запись журнала при создании")
	assert.Equal(t, entities.ActionCreate, logs[0].Action)
	assert.False(t, logs[0].FromStatus.Valid, "from_status у CREATE пустой")
	assert.Equal(t, "NEW", logs[0].ToStatus.String)
	assert.Equal(t, uint64(42), logs[0].PerformedByID)
}

func TestCreateRequest_UnknownEquipment(t *testing.T) {
	env := newRequestTestEnv(t)
	ctx := ctxWithUser(42, entities.RoleUser)

	_, err := env.service.CreateRequest(ctx, dto.CreateRequestDTO{
		Subject:     "Заявка в никуда",
		Type:        "PREVENTIVE",
		EquipmentID: 999,
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "несуществующее оборудование — NotFound")
	assert.Empty(t, env.logRepo.logs, "отклонённая заявка не пишет в журнал")
}

func TestCreateRequest_InvalidType(t *testing.T) {
	env := newRequestTestEnv(t)
	ctx := ctxWithUser(42, entities.RoleUser)

	_, err := env.service.CreateRequest(ctx, dto.CreateRequestDTO{
		Subject:     "Сломалось",
		Type:        "EMERGENCY",
		EquipmentID: 10,
	})
	var invalidInput *apperrors.InvalidInputError
	assert.ErrorAs(t, err, &invalidInput, "неизвестный тип — ошибка валидации")
}

func createTestRequest(t *testing.T, env *requestTestEnv) uint64 {
	t.Helper()
	res, err := env.service.CreateRequest(ctxWithUser(42, entities.RoleUser), dto.CreateRequestDTO{
		Subject:     "Тестовая заявка",
		Type:        "CORRECTIVE",
		EquipmentID: 10,
	})
	require.NoError(t, err)
	return res.ID
}

func TestAssignTechnician_ForbiddenForUserAndTechnician(t *testing.T) {
	env := newRequestTestEnv(t)
	id := createTestRequest(t, env)

	for _, role := range []entities.Role{entities.RoleUser, entities.RoleTechnician} {
		_, err := env.service.AssignTechnician(ctxWithUser(1, role), id, dto.AssignTechnicianDTO{TechnicianID: 5})
		assert.ErrorIsf(t, err, apperrors.ErrForbidden, "роль %s не может назначать техника", role)
	}

	req, _ := env.requestRepo.FindRequest(context.Background(), id)
	assert.False(t, req.TechnicianID.Valid, "техник не должен быть назначен")
	assert.Len(t, env.logRepo.byRequest(id), 1, "журнал содержит только запись CREATE")
}

func TestAssignTechnician_ReassignLogsTwice(t *testing.T) {
	env := newRequestTestEnv(t)
	id := createTestRequest(t, env)
	ctx := ctxWithUser(2, entities.RoleManager)

	res, err := env.service.AssignTechnician(ctx, id, dto.AssignTechnicianDTO{TechnicianID: 5})
	require.NoError(t, err)
	require.NotNil(t, res.Technician)
	assert.Equal(t, uint64(5), res.Technician.ID)
	assert.Equal(t, "NEW", res.Status, "назначение не меняет статус")

	res, err = env.service.AssignTechnician(ctx, id, dto.AssignTechnicianDTO{TechnicianID: 6})
	require.NoError(t, err)
	assert.Equal(t, uint64(6), res.Technician.ID, "переназначение разрешено")

	var assignLogs []entities.MaintenanceLog
	for _, l := range env.logRepo.byRequest(id) {
		if l.Action == entities.ActionAssign {
			assignLogs = append(assignLogs, l)
		}
	}
	require.Len(t, assignLogs, 2, "каждое назначение оставляет запись ASSIGN")
	assert.Equal(t, "Assigned to 5", assignLogs[0].Notes.String)
	assert.Equal(t, "Assigned to 6", assignLogs[1].Notes.String)
}

func TestChangeStatus_HappyPathToRepaired(t *testing.T) {
	env := newRequestTestEnv(t)
	id := createTestRequest(t, env)
	ctx := ctxWithUser(2, entities.RoleManager)

	res, err := env.service.ChangeStatus(ctx, id, dto.ChangeStatusDTO{Status: "IN_PROGRESS"})
	require.NoError(t, err)
	assert.Equal(t, "IN_PROGRESS", res.Status)

	res, err = env.service.ChangeStatus(ctx, id, dto.ChangeStatusDTO{Status: "repaired"})
	require.NoError(t, err)
	assert.Equal(t, "REPAIRED", res.Status, "статус принимается без учёта регистра")

	// Терминальный статус: дальнейшие переходы запрещены.
	_, err = env.service.ChangeStatus(ctx, id, dto.ChangeStatusDTO{Status: "SCRAP"})
	var invalidTransition *apperrors.InvalidTransitionError
	require.ErrorAs(t, err, &invalidTransition)
	assert.Equal(t, "REPAIRED", invalidTransition.From)
	assert.Equal(t, "SCRAP", invalidTransition.To)

	logs := env.logRepo.byRequest(id)
	assert.Len(t, logs, 3, "CREATE + два STATUS_CHANGE, отклонённый переход записи не оставляет")
}

func TestChangeStatus_IllegalTransitionNoMutation(t *testing.T) {
	env := newRequestTestEnv(t)
	id := createTestRequest(t, env)
	ctx := ctxWithUser(2, entities.RoleManager)

	_, err := env.service.ChangeStatus(ctx, id, dto.ChangeStatusDTO{Status: "REPAIRED"})
	var invalidTransition *apperrors.InvalidTransitionError
	require.ErrorAs(t, err, &invalidTransition, "NEW -> REPAIRED запрещён")

	req, _ := env.requestRepo.FindRequest(context.Background(), id)
	assert.Equal(t, entities.StatusNew, req.Status, "статус не должен измениться")
	assert.Len(t, env.logRepo.byRequest(id), 1, "журнал без новых записей")
}

func TestChangeStatus_ForbiddenForUser(t *testing.T) {
	env := newRequestTestEnv(t)
	id := createTestRequest(t, env)

	_, err := env.service.ChangeStatus(ctxWithUser(1, entities.RoleUser), id, dto.ChangeStatusDTO{Status: "IN_PROGRESS"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden, "роль USER не меняет статусы")

	req, _ := env.requestRepo.FindRequest(context.Background(), id)
	assert.Equal(t, entities.StatusNew, req.Status)
}

func TestChangeStatus_TechnicianAllowed(t *testing.T) {
	env := newRequestTestEnv(t)
	id := createTestRequest(t, env)

	res, err := env.service.ChangeStatus(ctxWithUser(5, entities.RoleTechnician), id, dto.ChangeStatusDTO{Status: "IN_PROGRESS"})
	require.NoError(t, err, "техник может менять статус")
	assert.Equal(t, "IN_PROGRESS", res.Status)
}

func TestChangeStatus_ScrapMarksEquipment(t *testing.T) {
	env := newRequestTestEnv(t)
	id := createTestRequest(t, env)
	ctx := ctxWithUser(2, entities.RoleAdmin)

	res, err := env.service.ChangeStatus(ctx, id, dto.ChangeStatusDTO{Status: "SCRAP"})
	require.NoError(t, err, "NEW -> SCRAP разрешён")
	assert.Equal(t, "SCRAP", res.Status)

	eq, _ := env.equipmentRepo.FindEquipment(context.Background(), 10)
	assert.True(t, eq.IsScrapped, "оборудование должно быть списано в той же операции")
	assert.True(t, eq.ScrapDate.Valid, "дата списания должна быть выставлена")

	logs := env.logRepo.byRequest(id)
	require.Len(t, logs, 2)
	last := logs[len(logs)-1]
	assert.Equal(t, entities.ActionStatusChange, last.Action)
	assert.Equal(t, "NEW", last.FromStatus.String)
	assert.Equal(t, "SCRAP", last.ToStatus.String)
}

func TestChangeStatus_UnknownStatus(t *testing.T) {
	env := newRequestTestEnv(t)
	id := createTestRequest(t, env)

	_, err := env.service.ChangeStatus(ctxWithUser(2, entities.RoleManager), id, dto.ChangeStatusDTO{Status: "DONE"})
	var invalidInput *apperrors.InvalidInputError
	assert.ErrorAs(t, err, &invalidInput, "неизвестный статус — ошибка валидации, не переход")
	assert.Len(t, env.logRepo.byRequest(id), 1)
}

func TestGetRequestHistory_ChronologicalAndGuarded(t *testing.T) {
	env := newRequestTestEnv(t)
	id := createTestRequest(t, env)
	ctx := ctxWithUser(2, entities.RoleManager)

	_, err := env.service.AssignTechnician(ctx, id, dto.AssignTechnicianDTO{TechnicianID: 5})
	require.NoError(t, err)
	_, err = env.service.ChangeStatus(ctx, id, dto.ChangeStatusDTO{Status: "IN_PROGRESS"})
	require.NoError(t, err)

	history, err := env.service.GetRequestHistory(ctxWithUser(42, entities.RoleUser), id)
	require.NoError(t, err, "историю может читать любой аутентифицированный")
	require.Len(t, history, 3)
	assert.Equal(t, "CREATE", history[0].Action)
	assert.Equal(t, "ASSIGN", history[1].Action)
	assert.Equal(t, "STATUS_CHANGE", history[2].Action)

	_, err = env.service.GetRequestHistory(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "история несуществующей заявки — NotFound")
}
