package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"maintenance-system/internal/authz"
	"maintenance-system/pkg/contextkeys"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/service"
	"maintenance-system/pkg/utils"
)

type AuthMiddleware struct {
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtSvc, logger: logger}
}

// bearerToken reads "Authorization: Bearer <token>". Websocket clients cannot
// set headers, so the "token" query parameter is accepted as a fallback.
func bearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		if token := c.QueryParam("token"); token != "" {
			return token, nil
		}
		return "", apperrors.ErrEmptyAuthHeader
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", apperrors.ErrInvalidAuthHeader
	}
	return parts[1], nil
}

func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := bearerToken(c)
		if err != nil {
			m.logger.Warn("auth: missing or malformed token", zap.String("uri", c.Request().RequestURI), zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		claims, err := m.jwtService.ValidateToken(token)
		if err != nil {
			m.logger.Warn("auth: token rejected", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}
		if claims.IsRefreshToken {
			m.logger.Warn("auth: refresh token used for access", zap.Uint64("userID", claims.UserID))
			return utils.ErrorResponse(c, apperrors.ErrInvalidToken, m.logger)
		}

		ctx := context.WithValue(c.Request().Context(), contextkeys.UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, contextkeys.CompanyIDKey, claims.CompanyID)
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// SessionResolver builds the authorization session of a user.
type SessionResolver interface {
	Resolve(ctx context.Context, userID uint64) (*authz.Session, error)
}

type SessionMiddleware struct {
	sessions SessionResolver
	logger   *zap.Logger
}

func NewSessionMiddleware(sessions SessionResolver, logger *zap.Logger) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions, logger: logger}
}

// Session must run after Auth.
func (m *SessionMiddleware) Session(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		userID, err := utils.GetUserIDFromCtx(ctx)
		if err != nil {
			return utils.ErrorResponse(c, err, m.logger)
		}

		session, err := m.sessions.Resolve(ctx, userID)
		if err != nil {
			m.logger.Warn("session: cannot resolve", zap.Uint64("userID", userID), zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		c.SetRequest(c.Request().WithContext(utils.WithSession(ctx, session)))
		return next(c)
	}
}
