package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"maintenance-system/internal/dto"
	"maintenance-system/pkg/utils"
)

type SessionController struct {
	logger *zap.Logger
}

func NewSessionController(logger *zap.Logger) *SessionController {
	return &SessionController{logger: logger}
}

// GetSession returns the user, company and capability map the client boots
// its screens from.
func (c *SessionController) GetSession(ctx echo.Context) error {
	session, err := utils.GetSessionFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, dto.NewSessionDTO(session), "Successfully", http.StatusOK)
}
