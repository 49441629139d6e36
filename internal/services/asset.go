package services

import (
	"context"

	"go.uber.org/zap"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/errors"
)

type AssetServiceInterface interface {
	Get(ctx context.Context, session *authz.Session, id uint64) (*dto.AssetDTO, error)
	Create(ctx context.Context, session *authz.Session, in dto.CreateAssetDTO) (*dto.AssetDTO, error)
	Update(ctx context.Context, session *authz.Session, id uint64, in *dto.UpdateAssetDTO) (*dto.AssetDTO, error)
	Delete(ctx context.Context, session *authz.Session, id uint64) error
}

type AssetService struct {
	repo       repositories.AssetRepositoryInterface
	gatekeeper *authz.Gatekeeper
	logger     *zap.Logger
}

func NewAssetService(repo repositories.AssetRepositoryInterface, gatekeeper *authz.Gatekeeper, logger *zap.Logger) AssetServiceInterface {
	return &AssetService{repo: repo, gatekeeper: gatekeeper, logger: logger}
}

func (s *AssetService) toDTO(session *authz.Session, a *entities.Asset) *dto.AssetDTO {
	out := dto.NewAssetDTO(*a)
	out.CanEdit, out.CanDelete = flags(session, entities.Assets, a)
	return &out
}

func (s *AssetService) load(ctx context.Context, session *authz.Session, id uint64) (*entities.Asset, error) {
	if session == nil || session.User == nil {
		return nil, apperrors.ErrUnauthorized
	}
	return s.repo.FindByID(ctx, session.User.CompanyID, id)
}

func (s *AssetService) Get(ctx context.Context, session *authz.Session, id uint64) (*dto.AssetDTO, error) {
	a, err := s.load(ctx, session, id)
	if err != nil {
		return nil, err
	}
	if err := s.gatekeeper.Authorize(session, authz.ActionView, entities.Assets, a); err != nil {
		return nil, err
	}
	return s.toDTO(session, a), nil
}

func (s *AssetService) Create(ctx context.Context, session *authz.Session, in dto.CreateAssetDTO) (*dto.AssetDTO, error) {
	if err := s.gatekeeper.Authorize(session, authz.ActionCreate, entities.Assets, nil); err != nil {
		return nil, err
	}
	a := in.ToEntity(session.User.CompanyID, session.User.ID)
	if err := s.repo.Create(ctx, &a); err != nil {
		s.logger.Error("asset create failed", zap.Uint64("userID", session.User.ID), zap.Error(err))
		return nil, err
	}
	s.logger.Info("asset created", zap.Uint64("assetID", a.ID), zap.String("customID", a.CustomID))
	return s.toDTO(session, &a), nil
}

func (s *AssetService) Update(ctx context.Context, session *authz.Session, id uint64, in *dto.UpdateAssetDTO) (*dto.AssetDTO, error) {
	a, err := s.load(ctx, session, id)
	if err != nil {
		return nil, err
	}
	if err := s.gatekeeper.Authorize(session, authz.ActionEdit, entities.Assets, a); err != nil {
		s.logger.Warn("asset edit denied", zap.Uint64("userID", session.User.ID), zap.Uint64("assetID", id))
		return nil, err
	}
	in.ApplyTo(a)
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return s.toDTO(session, a), nil
}

func (s *AssetService) Delete(ctx context.Context, session *authz.Session, id uint64) error {
	a, err := s.load(ctx, session, id)
	if err != nil {
		return err
	}
	if err := s.gatekeeper.Authorize(session, authz.ActionDelete, entities.Assets, a); err != nil {
		s.logger.Warn("asset delete denied", zap.Uint64("userID", session.User.ID), zap.Uint64("assetID", id))
		return err
	}
	if err := s.repo.SoftDelete(ctx, a.CompanyID, a.ID); err != nil {
		return err
	}
	s.logger.Info("asset deleted", zap.Uint64("assetID", id), zap.Uint64("userID", session.User.ID))
	return nil
}
