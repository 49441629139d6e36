package authz

import (
	"fmt"

	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/errors"
)

// Gatekeeper turns evaluator answers into errors for the service layer.
type Gatekeeper struct{}

func NewGatekeeper() *Gatekeeper {
	return &Gatekeeper{}
}

// Can answers a single action question. Instance is required for edit and
// delete and consulted for view when the caller is not its creator.
func (g *Gatekeeper) Can(s *Session, action Action, tag entities.PermissionEntity, instance any) bool {
	switch action {
	case ActionView:
		if !s.CanView(tag) {
			return false
		}
		if isNil(instance) || s.IsOwner(instance) {
			return true
		}
		return s.CanViewOther(tag)
	case ActionViewOther:
		return s.CanViewOther(tag)
	case ActionCreate:
		return s.CanCreate(tag)
	case ActionEdit:
		return s.CanEdit(tag, instance)
	case ActionDelete:
		return s.CanDelete(tag, instance)
	case ActionExport:
		return s.CanView(tag) && s.HasFeature(entities.FeatureAnalytics)
	}
	return false
}

// Authorize is Can returning apperrors.ErrForbidden on denial.
func (g *Gatekeeper) Authorize(s *Session, action Action, tag entities.PermissionEntity, instance any) error {
	if s == nil || s.User == nil {
		return apperrors.ErrUnauthorized
	}
	if !g.Can(s, action, tag, instance) {
		return fmt.Errorf("%s %s: %w", action, tag, apperrors.ErrForbidden)
	}
	return nil
}
