package dto

import "maintenance-system/internal/authz"

type SignInDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type AuthResponseDTO struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// SessionDTO is the bootstrap payload a client loads after sign-in.
type SessionDTO struct {
	User         UserDTO            `json:"user"`
	CompanyID    uint64             `json:"companyId"`
	CompanyName  string             `json:"companyName"`
	PlanCode     string             `json:"planCode"`
	Capabilities authz.Capabilities `json:"capabilities"`
}

func NewSessionDTO(s *authz.Session) SessionDTO {
	out := SessionDTO{Capabilities: s.Capabilities()}
	if s.User != nil {
		out.User = NewUserDTO(*s.User)
	}
	if s.Company != nil {
		out.CompanyID = s.Company.ID
		out.CompanyName = s.Company.Name
		out.PlanCode = s.Company.Subscription.Plan.Code
	}
	return out
}
