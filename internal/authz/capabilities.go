package authz

import "maintenance-system/internal/entities"

type EntityCapabilities struct {
	View      bool `json:"view"`
	ViewOther bool `json:"viewOther"`
	Create    bool `json:"create"`
}

// Capabilities is what a screen needs to decide which lists, buttons and
// plan-gated inputs to show.
type Capabilities struct {
	UserID   uint64                                           `json:"userId"`
	RoleCode entities.RoleCode                                `json:"roleCode,omitempty"`
	Entities map[entities.PermissionEntity]EntityCapabilities `json:"entities"`
	Features []entities.PlanFeature                           `json:"features"`
}

func (s *Session) Capabilities() Capabilities {
	caps := Capabilities{
		Entities: make(map[entities.PermissionEntity]EntityCapabilities, len(entities.AllPermissionEntities)),
		Features: []entities.PlanFeature{},
	}
	if id, ok := s.userID(); ok {
		caps.UserID = id
	}
	if r := s.role(); r != nil {
		caps.RoleCode = r.Code
	}
	for _, tag := range entities.AllPermissionEntities {
		caps.Entities[tag] = EntityCapabilities{
			View:      s.CanView(tag),
			ViewOther: s.CanViewOther(tag),
			Create:    s.CanCreate(tag),
		}
	}
	if s != nil && s.Company != nil {
		caps.Features = append(caps.Features, s.Company.Subscription.Plan.Features...)
	}
	return caps
}
