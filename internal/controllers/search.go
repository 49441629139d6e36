package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"maintenance-system/internal/entities"
	"maintenance-system/internal/services"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"
	"maintenance-system/pkg/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SearchController serves the generic search endpoints. Handlers are built
// per entity because every entity lives under its own base path.
type SearchController struct {
	searchService services.SearchServiceInterface
	exportService services.ExportServiceInterface
	timeout       time.Duration
	logger        *zap.Logger
}

func NewSearchController(
	searchService services.SearchServiceInterface,
	exportService services.ExportServiceInterface,
	timeout time.Duration,
	logger *zap.Logger,
) *SearchController {
	return &SearchController{
		searchService: searchService,
		exportService: exportService,
		timeout:       timeout,
		logger:        logger,
	}
}

func (c *SearchController) bindCriteria(ctx echo.Context) (types.SearchCriteria, error) {
	criteria := types.DefaultCriteria()
	if ctx.Request().ContentLength == 0 {
		return criteria, nil
	}
	if err := ctx.Bind(&criteria); err != nil {
		return criteria, apperrors.NewHttpError(http.StatusBadRequest, "Invalid search criteria", err, nil)
	}
	if err := ctx.Validate(&criteria); err != nil {
		return criteria, err
	}
	return criteria, nil
}

// Search handles POST {basePath}/search.
func (c *SearchController) Search(tag entities.PermissionEntity) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		reqCtx, cancel := utils.ContextWithTimeout(ctx, c.timeout)
		defer cancel()

		session, err := utils.GetSessionFromCtx(reqCtx)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		criteria, err := c.bindCriteria(ctx)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}

		page, err := c.searchService.Search(reqCtx, session, tag, criteria)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		return utils.SuccessResponse(ctx, page, "Successfully", http.StatusOK)
	}
}

// QuickSearch handles GET {basePath}?search=.
func (c *SearchController) QuickSearch(tag entities.PermissionEntity) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		reqCtx, cancel := utils.ContextWithTimeout(ctx, c.timeout)
		defer cancel()

		session, err := utils.GetSessionFromCtx(reqCtx)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}

		page, err := c.searchService.QuickSearch(reqCtx, session, tag, ctx.QueryParam("search"))
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		return utils.SuccessResponse(ctx, page, "Successfully", http.StatusOK)
	}
}

// Export handles POST {basePath}/export and streams an xlsx workbook.
func (c *SearchController) Export(tag entities.PermissionEntity) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		reqCtx, cancel := utils.ContextWithTimeout(ctx, 4*c.timeout)
		defer cancel()

		session, err := utils.GetSessionFromCtx(reqCtx)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		criteria, err := c.bindCriteria(ctx)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}

		f, fileName, err := c.exportService.Export(reqCtx, session, tag, criteria)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		defer f.Close()

		ctx.Response().Header().Set(echo.HeaderContentType, xlsxContentType)
		ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fileName))
		ctx.Response().WriteHeader(http.StatusOK)
		return f.Write(ctx.Response().Writer)
	}
}
