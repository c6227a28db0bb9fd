package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"
	"maintenance-system/pkg/utils"
)

type RequestServiceInterface interface {
	CreateRequest(ctx context.Context, payload dto.CreateRequestDTO) (*dto.RequestDTO, error)
	FindRequest(ctx context.Context, id uint64) (*dto.RequestDTO, error)
	GetRequests(ctx context.Context, filter types.Filter) ([]dto.RequestDTO, uint64, error)
	AssignTechnician(ctx context.Context, id uint64, payload dto.AssignTechnicianDTO) (*dto.RequestDTO, error)
	ChangeStatus(ctx context.Context, id uint64, payload dto.ChangeStatusDTO) (*dto.RequestDTO, error)
	GetRequestHistory(ctx context.Context, id uint64) ([]dto.MaintenanceLogDTO, error)
}

// RequestService — движок жизненного цикла заявок. Каждая мутация
// выполняется в одной транзакции вместе со своей записью журнала.
type RequestService struct {
	requestRepo   repositories.RequestRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	logRepo       repositories.MaintenanceLogRepositoryInterface
	txManager     repositories.TxManagerInterface
	gatekeeper    *authz.Gatekeeper
	logger        *zap.Logger
}

func NewRequestService(
	requestRepo repositories.RequestRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	logRepo repositories.MaintenanceLogRepositoryInterface,
	txManager repositories.TxManagerInterface,
	gatekeeper *authz.Gatekeeper,
	logger *zap.Logger,
) RequestServiceInterface {
	return &RequestService{
		requestRepo:   requestRepo,
		equipmentRepo: equipmentRepo,
		logRepo:       logRepo,
		txManager:     txManager,
		gatekeeper:    gatekeeper,
		logger:        logger,
	}
}

func (s *RequestService) authorize(ctx context.Context, op authz.Operation) (uint64, entities.Role, error) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return 0, "", err
	}
	role, err := utils.GetUserRoleFromCtx(ctx)
	if err != nil {
		return 0, "", err
	}
	if !s.gatekeeper.Can(role, op) {
		return 0, "", apperrors.ErrForbidden
	}
	return userID, role, nil
}

// CreateRequest создаёт заявку в статусе NEW. Команда всегда берётся из
// оборудования; приоритет по умолчанию MEDIUM.
func (s *RequestService) CreateRequest(ctx context.Context, payload dto.CreateRequestDTO) (*dto.RequestDTO, error) {
	userID, _, err := s.authorize(ctx, authz.RequestsCreate)
	if err != nil {
		return nil, err
	}

	reqType, ok := entities.ParseRequestType(payload.Type)
	if !ok {
		return nil, apperrors.NewInvalidInputError("неизвестный тип заявки: %s", payload.Type)
	}

	priority := entities.PriorityMedium
	if payload.Priority != "" {
		priority, ok = entities.ParsePriority(payload.Priority)
		if !ok {
			return nil, apperrors.NewInvalidInputError("неизвестный приоритет: %s", payload.Priority)
		}
	}

	equipment, err := s.equipmentRepo.FindEquipment(ctx, payload.EquipmentID)
	if err != nil {
		return nil, err
	}

	request := &entities.MaintenanceRequest{
		Subject:       payload.Subject,
		Description:   null.NewString(payload.Description, payload.Description != ""),
		Type:          reqType,
		Priority:      priority,
		Status:        entities.StatusNew,
		EquipmentID:   equipment.ID,
		TeamID:        equipment.TeamID,
		ScheduledDate: null.TimeFromPtr(payload.ScheduledDate),
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		id, err := s.requestRepo.CreateRequestInTx(ctx, tx, request)
		if err != nil {
			return err
		}
		request.ID = id

		_, err = s.logRepo.CreateInTx(ctx, tx, &entities.MaintenanceLog{
			RequestID:     id,
			Action:        entities.ActionCreate,
			ToStatus:      null.StringFrom(string(entities.StatusNew)),
			PerformedByID: userID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Создана заявка на обслуживание",
		zap.Uint64("requestID", request.ID),
		zap.Uint64("equipmentID", equipment.ID),
		zap.Uint64("teamID", equipment.TeamID),
		zap.Uint64("userID", userID))

	return s.requestRepo.FindRequestDTO(ctx, request.ID)
}

func (s *RequestService) FindRequest(ctx context.Context, id uint64) (*dto.RequestDTO, error) {
	if _, _, err := s.authorize(ctx, authz.RequestsView); err != nil {
		return nil, err
	}
	return s.requestRepo.FindRequestDTO(ctx, id)
}

func (s *RequestService) GetRequests(ctx context.Context, filter types.Filter) ([]dto.RequestDTO, uint64, error) {
	if _, _, err := s.authorize(ctx, authz.RequestsView); err != nil {
		return nil, 0, err
	}
	return s.requestRepo.GetRequests(ctx, filter)
}

// AssignTechnician назначает техника. Статус не меняется; переназначение
// разрешено и каждый раз оставляет отдельную запись ASSIGN в журнале.
func (s *RequestService) AssignTechnician(ctx context.Context, id uint64, payload dto.AssignTechnicianDTO) (*dto.RequestDTO, error) {
	userID, _, err := s.authorize(ctx, authz.RequestsAssign)
	if err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.requestRepo.FindRequestForUpdateInTx(ctx, tx, id); err != nil {
			return err
		}
		if err := s.requestRepo.AssignTechnicianInTx(ctx, tx, id, payload.TechnicianID); err != nil {
			return err
		}
		_, err := s.logRepo.CreateInTx(ctx, tx, &entities.MaintenanceLog{
			RequestID:     id,
			Action:        entities.ActionAssign,
			PerformedByID: userID,
			Notes:         null.StringFrom(fmt.Sprintf("Assigned to %d", payload.TechnicianID)),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Техник назначен на заявку",
		zap.Uint64("requestID", id),
		zap.Uint64("technicianID", payload.TechnicianID),
		zap.Uint64("userID", userID))

	return s.requestRepo.FindRequestDTO(ctx, id)
}

// ChangeStatus переводит заявку по таблице переходов. Строка заявки
// блокируется на время транзакции, поэтому конкурирующие переводы
// выстраиваются в очередь и проигравший проверяется уже против
// закоммиченного статуса.
func (s *RequestService) ChangeStatus(ctx context.Context, id uint64, payload dto.ChangeStatusDTO) (*dto.RequestDTO, error) {
	userID, _, err := s.authorize(ctx, authz.RequestsChangeStatus)
	if err != nil {
		return nil, err
	}

	newStatus, ok := entities.ParseRequestStatus(payload.Status)
	if !ok {
		return nil, apperrors.NewInvalidInputError("неизвестный статус: %s", payload.Status)
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		request, err := s.requestRepo.FindRequestForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}

		if !entities.CanTransition(request.Status, newStatus) {
			return apperrors.NewInvalidTransitionError(string(request.Status), string(newStatus))
		}

		if err := s.requestRepo.UpdateStatusInTx(ctx, tx, id, newStatus); err != nil {
			return err
		}

		_, err = s.logRepo.CreateInTx(ctx, tx, &entities.MaintenanceLog{
			RequestID:     id,
			Action:        entities.ActionStatusChange,
			FromStatus:    null.StringFrom(string(request.Status)),
			ToStatus:      null.StringFrom(string(newStatus)),
			PerformedByID: userID,
		})
		if err != nil {
			return err
		}

		// SCRAP списывает оборудование той же транзакцией.
		if newStatus == entities.StatusScrap {
			return s.equipmentRepo.SetScrappedInTx(ctx, tx, request.EquipmentID, time.Now())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Статус заявки изменён",
		zap.Uint64("requestID", id),
		zap.String("newStatus", string(newStatus)),
		zap.Uint64("userID", userID))

	return s.requestRepo.FindRequestDTO(ctx, id)
}

func (s *RequestService) GetRequestHistory(ctx context.Context, id uint64) ([]dto.MaintenanceLogDTO, error) {
	if _, _, err := s.authorize(ctx, authz.RequestsHistoryView); err != nil {
		return nil, err
	}
	// Историю несуществующей заявки не отдаём как пустой список.
	if _, err := s.requestRepo.FindRequest(ctx, id); err != nil {
		return nil, err
	}
	return s.logRepo.FindByRequestID(ctx, id)
}
