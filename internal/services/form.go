package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/errors"
)

type FormServiceInterface interface {
	Fields(ctx context.Context, session *authz.Session, tag entities.PermissionEntity) ([]entities.FormField, error)
}

type FormService struct {
	repo   repositories.FormFieldRepositoryInterface
	logger *zap.Logger
}

func NewFormService(repo repositories.FormFieldRepositoryInterface, logger *zap.Logger) FormServiceInterface {
	return &FormService{repo: repo, logger: logger}
}

// Fields returns the form descriptors for tag without the inputs the
// company's plan does not include.
func (s *FormService) Fields(ctx context.Context, session *authz.Session, tag entities.PermissionEntity) ([]entities.FormField, error) {
	if session == nil || session.User == nil {
		return nil, apperrors.ErrUnauthorized
	}
	if !session.CanView(tag) && !session.CanCreate(tag) {
		return nil, fmt.Errorf("form %s: %w", tag, apperrors.ErrForbidden)
	}
	fields, err := s.repo.FindByEntity(ctx, session.User.CompanyID, tag)
	if err != nil {
		s.logger.Error("form fields lookup failed", zap.String("entity", string(tag)), zap.Error(err))
		return nil, err
	}
	return session.FilterFieldsByFeature(fields), nil
}
