package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/events"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/eventbus"
)

// EventPublisher is satisfied by *eventbus.Bus.
type EventPublisher interface {
	Publish(ctx context.Context, event eventbus.Event)
}

type WorkOrderServiceInterface interface {
	Get(ctx context.Context, session *authz.Session, id uint64) (*dto.WorkOrderDTO, error)
	Create(ctx context.Context, session *authz.Session, in dto.CreateWorkOrderDTO) (*dto.WorkOrderDTO, error)
	Update(ctx context.Context, session *authz.Session, id uint64, in *dto.UpdateWorkOrderDTO) (*dto.WorkOrderDTO, error)
	Delete(ctx context.Context, session *authz.Session, id uint64) error
}

type WorkOrderService struct {
	repo       repositories.WorkOrderRepositoryInterface
	userRepo   repositories.UserRepositoryInterface
	teamRepo   repositories.TeamRepositoryInterface
	assetRepo  repositories.AssetRepositoryInterface
	txManager  repositories.TxManagerInterface
	gatekeeper *authz.Gatekeeper
	bus        EventPublisher
	logger     *zap.Logger
}

func NewWorkOrderService(
	repo repositories.WorkOrderRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	teamRepo repositories.TeamRepositoryInterface,
	assetRepo repositories.AssetRepositoryInterface,
	txManager repositories.TxManagerInterface,
	gatekeeper *authz.Gatekeeper,
	bus EventPublisher,
	logger *zap.Logger,
) WorkOrderServiceInterface {
	return &WorkOrderService{
		repo:       repo,
		userRepo:   userRepo,
		teamRepo:   teamRepo,
		assetRepo:  assetRepo,
		txManager:  txManager,
		gatekeeper: gatekeeper,
		bus:        bus,
		logger:     logger,
	}
}

func (s *WorkOrderService) toDTO(session *authz.Session, wo *entities.WorkOrder) *dto.WorkOrderDTO {
	out := dto.NewWorkOrderDTO(*wo)
	for _, u := range authz.Assignees(wo) {
		out.Assignees = append(out.Assignees, dto.NewUserMiniDTO(u))
	}
	out.CanEdit, out.CanDelete = flags(session, entities.WorkOrders, wo)
	return &out
}

func (s *WorkOrderService) load(ctx context.Context, session *authz.Session, id uint64) (*entities.WorkOrder, error) {
	if session == nil || session.User == nil {
		return nil, apperrors.ErrUnauthorized
	}
	wo, err := s.repo.FindByID(ctx, session.User.CompanyID, id)
	if err != nil {
		return nil, err
	}
	return wo, nil
}

func (s *WorkOrderService) Get(ctx context.Context, session *authz.Session, id uint64) (*dto.WorkOrderDTO, error) {
	wo, err := s.load(ctx, session, id)
	if err != nil {
		return nil, err
	}
	if err := s.gatekeeper.Authorize(session, authz.ActionView, entities.WorkOrders, wo); err != nil {
		s.logger.Warn("work order view denied", zap.Uint64("userID", session.User.ID), zap.Uint64("workOrderID", id))
		return nil, err
	}
	return s.toDTO(session, wo), nil
}

// checkUsers makes sure every referenced user exists in the caller's company
// and can still sign in.
func (s *WorkOrderService) checkUsers(ctx context.Context, companyID uint64, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	unique := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	users, err := s.userRepo.FindByIDs(ctx, nil, ids)
	if err != nil {
		return err
	}
	found := make(map[uint64]struct{}, len(users))
	for _, u := range users {
		if u.CompanyID == companyID && u.Enabled {
			found[u.ID] = struct{}{}
		}
	}
	if len(found) != len(unique) {
		return apperrors.NewBadRequestError("unknown user in assignment")
	}
	return nil
}

// checkRelations rejects a team or asset that does not belong to the
// caller's company. Location ids are free-form and not checked.
func (s *WorkOrderService) checkRelations(ctx context.Context, wo *entities.WorkOrder, checkTeam, checkAsset bool) error {
	if checkTeam && wo.Team != nil {
		if _, err := s.teamRepo.FindByID(ctx, wo.CompanyID, wo.Team.ID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NewBadRequestError("unknown team")
			}
			return err
		}
	}
	if checkAsset && wo.AssetID != nil {
		if _, err := s.assetRepo.FindByID(ctx, wo.CompanyID, *wo.AssetID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NewBadRequestError("unknown asset")
			}
			return err
		}
	}
	return nil
}

func referencedUsers(wo *entities.WorkOrder, assigneeIDs []uint64) []uint64 {
	ids := append([]uint64(nil), assigneeIDs...)
	if wo.PrimaryUser != nil {
		ids = append(ids, wo.PrimaryUser.ID)
	}
	return ids
}

func (s *WorkOrderService) Create(ctx context.Context, session *authz.Session, in dto.CreateWorkOrderDTO) (*dto.WorkOrderDTO, error) {
	if err := s.gatekeeper.Authorize(session, authz.ActionCreate, entities.WorkOrders, nil); err != nil {
		return nil, err
	}
	wo := in.ToEntity(session.User.CompanyID, session.User.ID)
	if err := s.checkUsers(ctx, wo.CompanyID, referencedUsers(&wo, in.AssignedToIDs)); err != nil {
		return nil, err
	}
	if err := s.checkRelations(ctx, &wo, true, true); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		return s.repo.Create(ctx, tx, &wo, in.AssignedToIDs)
	})
	if err != nil {
		s.logger.Error("work order create failed", zap.Uint64("userID", session.User.ID), zap.Error(err))
		return nil, err
	}
	s.logger.Info("work order created", zap.Uint64("workOrderID", wo.ID), zap.String("customID", wo.CustomID), zap.Uint64("userID", session.User.ID))

	created, err := s.repo.FindByID(ctx, wo.CompanyID, wo.ID)
	if err != nil {
		return nil, fmt.Errorf("reload work order %d: %w", wo.ID, err)
	}
	s.bus.Publish(ctx, events.WorkOrderUpdated{WorkOrder: *created, ActorID: session.User.ID})
	return s.toDTO(session, created), nil
}

func (s *WorkOrderService) Update(ctx context.Context, session *authz.Session, id uint64, in *dto.UpdateWorkOrderDTO) (*dto.WorkOrderDTO, error) {
	wo, err := s.load(ctx, session, id)
	if err != nil {
		return nil, err
	}
	if err := s.gatekeeper.Authorize(session, authz.ActionEdit, entities.WorkOrders, wo); err != nil {
		s.logger.Warn("work order edit denied", zap.Uint64("userID", session.User.ID), zap.Uint64("workOrderID", id))
		return nil, err
	}
	// Assignees before the change are notified too, so someone who was
	// removed sees the update.
	before := wo.Assignees()

	in.ApplyTo(wo)
	replaceAssignees := in.Has("assignedToIds")
	var assigneeIDs []uint64
	if replaceAssignees && in.AssignedToIDs != nil {
		assigneeIDs = *in.AssignedToIDs
	}
	// Only references sent in the patch are checked.
	changed := assigneeIDs
	if in.Has("primaryUserId") && wo.PrimaryUser != nil {
		changed = append(append([]uint64(nil), assigneeIDs...), wo.PrimaryUser.ID)
	}
	if err := s.checkUsers(ctx, wo.CompanyID, changed); err != nil {
		return nil, err
	}
	if err := s.checkRelations(ctx, wo, in.Has("teamId"), in.Has("assetId")); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.repo.Update(ctx, tx, wo); err != nil {
			return err
		}
		if replaceAssignees {
			return s.repo.ReplaceAssignees(ctx, tx, wo.ID, assigneeIDs)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("work order update failed", zap.Uint64("workOrderID", id), zap.Error(err))
		return nil, err
	}

	updated, err := s.repo.FindByID(ctx, wo.CompanyID, wo.ID)
	if err != nil {
		return nil, fmt.Errorf("reload work order %d: %w", wo.ID, err)
	}
	notify := *updated
	notify.AssignedTo = append(append([]entities.User(nil), updated.AssignedTo...), before...)
	s.bus.Publish(ctx, events.WorkOrderUpdated{WorkOrder: notify, ActorID: session.User.ID})
	return s.toDTO(session, updated), nil
}

func (s *WorkOrderService) Delete(ctx context.Context, session *authz.Session, id uint64) error {
	wo, err := s.load(ctx, session, id)
	if err != nil {
		return err
	}
	if err := s.gatekeeper.Authorize(session, authz.ActionDelete, entities.WorkOrders, wo); err != nil {
		s.logger.Warn("work order delete denied", zap.Uint64("userID", session.User.ID), zap.Uint64("workOrderID", id))
		return err
	}
	if err := s.repo.SoftDelete(ctx, wo.CompanyID, wo.ID); err != nil {
		return err
	}
	s.logger.Info("work order deleted", zap.Uint64("workOrderID", id), zap.Uint64("userID", session.User.ID))
	s.bus.Publish(ctx, events.WorkOrderDeleted{
		WorkOrderID: wo.ID,
		CustomID:    wo.CustomID,
		Assignees:   wo.Assignees(),
		ActorID:     session.User.ID,
	})
	return nil
}
