package services

import (
	"context"

	"go.uber.org/zap"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"
	"maintenance-system/pkg/utils"
)

type EquipmentServiceInterface interface {
	CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (*dto.EquipmentDTO, error)
	FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error)
	GetEquipments(ctx context.Context, filter types.Filter) ([]dto.EquipmentDTO, uint64, error)
	GetAutofill(ctx context.Context, id uint64) (*dto.AutofillDTO, error)
	CountOpenRequests(ctx context.Context, id uint64) (uint64, error)
	CreateCategory(ctx context.Context, payload dto.CreateCategoryDTO) (*entities.EquipmentCategory, error)
	GetCategories(ctx context.Context) ([]entities.EquipmentCategory, error)
}

type EquipmentService struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	categoryRepo  repositories.CategoryRepositoryInterface
	teamRepo      repositories.TeamRepositoryInterface
	gatekeeper    *authz.Gatekeeper
	logger        *zap.Logger
}

func NewEquipmentService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	categoryRepo repositories.CategoryRepositoryInterface,
	teamRepo repositories.TeamRepositoryInterface,
	gatekeeper *authz.Gatekeeper,
	logger *zap.Logger,
) EquipmentServiceInterface {
	return &EquipmentService{
		equipmentRepo: equipmentRepo,
		categoryRepo:  categoryRepo,
		teamRepo:      teamRepo,
		gatekeeper:    gatekeeper,
		logger:        logger,
	}
}

func (s *EquipmentService) check(ctx context.Context, op authz.Operation) error {
	role, err := utils.GetUserRoleFromCtx(ctx)
	if err != nil {
		return err
	}
	if !s.gatekeeper.Can(role, op) {
		return apperrors.ErrForbidden
	}
	return nil
}

func (s *EquipmentService) CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (*dto.EquipmentDTO, error) {
	if err := s.check(ctx, authz.EquipmentCreate); err != nil {
		return nil, err
	}

	// Категория и команда должны существовать до вставки, чтобы наружу
	// уходил внятный NotFound, а не ошибка внешнего ключа.
	if _, err := s.categoryRepo.FindCategory(ctx, payload.CategoryID); err != nil {
		return nil, err
	}
	if _, err := s.teamRepo.FindTeam(ctx, payload.TeamID); err != nil {
		return nil, err
	}

	id, err := s.equipmentRepo.CreateEquipment(ctx, payload)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Добавлено оборудование",
		zap.Uint64("equipmentID", id),
		zap.String("serialNumber", payload.SerialNumber))
	return s.equipmentRepo.FindEquipmentDTO(ctx, id)
}

func (s *EquipmentService) FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error) {
	if err := s.check(ctx, authz.EquipmentView); err != nil {
		return nil, err
	}
	return s.equipmentRepo.FindEquipmentDTO(ctx, id)
}

func (s *EquipmentService) GetEquipments(ctx context.Context, filter types.Filter) ([]dto.EquipmentDTO, uint64, error) {
	if err := s.check(ctx, authz.EquipmentView); err != nil {
		return nil, 0, err
	}
	return s.equipmentRepo.GetEquipments(ctx, filter)
}

// GetAutofill — данные автоподстановки для формы заявки: команда,
// техник по умолчанию и категория выбранного оборудования.
func (s *EquipmentService) GetAutofill(ctx context.Context, id uint64) (*dto.AutofillDTO, error) {
	if err := s.check(ctx, authz.EquipmentView); err != nil {
		return nil, err
	}
	equipment, err := s.equipmentRepo.FindEquipment(ctx, id)
	if err != nil {
		return nil, err
	}
	category, err := s.categoryRepo.FindCategory(ctx, equipment.CategoryID)
	if err != nil {
		return nil, err
	}
	return &dto.AutofillDTO{
		TeamID:       equipment.TeamID,
		TechnicianID: equipment.TechnicianID,
		Category:     category.Name,
	}, nil
}

func (s *EquipmentService) CountOpenRequests(ctx context.Context, id uint64) (uint64, error) {
	if err := s.check(ctx, authz.EquipmentView); err != nil {
		return 0, err
	}
	if _, err := s.equipmentRepo.FindEquipment(ctx, id); err != nil {
		return 0, err
	}
	return s.equipmentRepo.CountOpenRequests(ctx, id)
}

func (s *EquipmentService) CreateCategory(ctx context.Context, payload dto.CreateCategoryDTO) (*entities.EquipmentCategory, error) {
	if err := s.check(ctx, authz.CategoriesCreate); err != nil {
		return nil, err
	}

	category := &entities.EquipmentCategory{Name: payload.Name}
	if payload.Company != "" {
		category.Company.SetValid(payload.Company)
	}

	id, err := s.categoryRepo.CreateCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	return s.categoryRepo.FindCategory(ctx, id)
}

func (s *EquipmentService) GetCategories(ctx context.Context) ([]entities.EquipmentCategory, error) {
	if err := s.check(ctx, authz.CategoriesView); err != nil {
		return nil, err
	}
	return s.categoryRepo.GetCategories(ctx)
}
