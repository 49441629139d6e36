package authz

import (
	"maintenance-system/internal/entities"
)

// Session is the authorization context of one signed-in user: who they are,
// which role snapshot they hold and which plan their company is on.
// Every check is nil-safe and fails closed.
type Session struct {
	User    *entities.User
	Role    *entities.Role
	Company *entities.Company
}

func NewSession(user *entities.User, role *entities.Role, company *entities.Company) *Session {
	return &Session{User: user, Role: role, Company: company}
}

// Audited is implemented by every instance that records its creator.
type Audited interface {
	CreatorID() (uint64, bool)
}

// Assignable is implemented by instances that can be handed to users.
type Assignable interface {
	IsAssigned(userID uint64) bool
}

func (s *Session) role() *entities.Role {
	if s == nil {
		return nil
	}
	return s.Role
}

func (s *Session) userID() (uint64, bool) {
	if s == nil || s.User == nil {
		return 0, false
	}
	return s.User.ID, true
}

func (s *Session) CanView(tag entities.PermissionEntity) bool {
	return s.role().CanView(tag)
}

// CanViewOther gates records the current user did not create.
func (s *Session) CanViewOther(tag entities.PermissionEntity) bool {
	return s.role().CanViewOther(tag)
}

func (s *Session) CanCreate(tag entities.PermissionEntity) bool {
	return s.role().CanCreate(tag)
}

// IsOwner reports whether the current user created instance.
func (s *Session) IsOwner(instance any) bool {
	me, ok := s.userID()
	if !ok {
		return false
	}
	audited, ok := instance.(Audited)
	if !ok || isNil(audited) {
		return false
	}
	creator, ok := audited.CreatorID()
	return ok && creator == me
}

// CanEdit decides whether instance may be modified.
//
// People may always edit their own profile. Work orders may also be edited by
// any assignee. Everything else needs ownership or the edit-other permission.
func (s *Session) CanEdit(tag entities.PermissionEntity, instance any) bool {
	if isNil(instance) {
		return false
	}
	me, ok := s.userID()
	if !ok {
		return false
	}

	switch tag {
	case entities.PeopleAndTeams:
		if person, ok := instance.(*entities.User); ok && person.ID == me {
			return true
		}
		return s.role().CanEditOther(tag)

	case entities.WorkOrders:
		if s.IsOwner(instance) || s.role().CanEditOther(tag) {
			return true
		}
		assignable, ok := instance.(Assignable)
		return ok && assignable.IsAssigned(me)

	default:
		return s.IsOwner(instance) || s.role().CanEditOther(tag)
	}
}

// CanDelete has no assignee exception: only the creator or a role with
// delete-other may remove an instance.
func (s *Session) CanDelete(tag entities.PermissionEntity, instance any) bool {
	if isNil(instance) {
		return false
	}
	if _, ok := s.userID(); !ok {
		return false
	}
	return s.IsOwner(instance) || s.role().CanDeleteOther(tag)
}

func (s *Session) HasFeature(feature entities.PlanFeature) bool {
	if s == nil {
		return false
	}
	return s.Company.HasFeature(feature)
}

// FilterFieldsByFeature removes form inputs the company's plan cannot use.
func (s *Session) FilterFieldsByFeature(fields []entities.FormField) []entities.FormField {
	allowFiles := s.HasFeature(entities.FeatureFile)
	out := make([]entities.FormField, 0, len(fields))
	for _, f := range fields {
		if f.Type == entities.FieldFile && !allowFiles {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Assignees exposes the work order's deduplicated assignee list.
func Assignees(wo *entities.WorkOrder) []entities.User {
	return wo.Assignees()
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case *entities.User:
		return t == nil
	case *entities.WorkOrder:
		return t == nil
	case *entities.Asset:
		return t == nil
	case *entities.Team:
		return t == nil
	}
	return false
}
