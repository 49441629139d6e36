package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"maintenance-system/internal/entities"
	"maintenance-system/internal/services"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/utils"
)

type FormController struct {
	formService services.FormServiceInterface
	logger      *zap.Logger
}

func NewFormController(formService services.FormServiceInterface, logger *zap.Logger) *FormController {
	return &FormController{formService: formService, logger: logger}
}

// GetForm handles GET /api/forms/:entity. The entity may be a tag or its slug.
func (c *FormController) GetForm(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	tag, ok := entities.ParsePermissionEntity(ctx.Param("entity"))
	if !ok {
		return utils.ErrorResponse(ctx, apperrors.ErrUnknownEntity, c.logger)
	}
	session, err := utils.GetSessionFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	fields, err := c.formService.Fields(reqCtx, session, tag)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, fields, "Successfully", http.StatusOK)
}
