package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/controllers"
	"maintenance-system/internal/repositories"
	"maintenance-system/internal/services"
	"maintenance-system/pkg/config"
	"maintenance-system/pkg/eventbus"
	"maintenance-system/pkg/middleware"
	"maintenance-system/pkg/service"
	"maintenance-system/pkg/websocket"
)

// InitRouter builds the repositories, services and controllers and mounts
// every route under /api.
func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	jwtSvc service.JWTService,
	hub *websocket.Hub,
	bus *eventbus.Bus,
	logger *zap.Logger,
	cfg *config.Config,
) {
	logger.Info("InitRouter: building routes")

	api := e.Group("/api")
	gatekeeper := authz.NewGatekeeper()
	txManager := repositories.NewTxManager(dbConn)
	timeout := cfg.Server.RequestTimeout

	// --- repositories ---
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)
	userRepo := repositories.NewUserRepository(dbConn, logger)
	roleRepo := repositories.NewRoleRepository(dbConn)
	companyRepo := repositories.NewCompanyRepository(dbConn)
	teamRepo := repositories.NewTeamRepository(dbConn, userRepo)
	workOrderRepo := repositories.NewWorkOrderRepository(dbConn, userRepo, teamRepo, logger)
	assetRepo := repositories.NewAssetRepository(dbConn)
	formRepo := repositories.NewFormFieldRepository(dbConn)

	// --- services ---
	sessionService := services.NewSessionService(userRepo, roleRepo, companyRepo, cacheRepo, logger, cfg.Cache.RoleTTL)
	authService := services.NewAuthService(userRepo, cacheRepo, jwtSvc, cfg.Auth, logger)
	searchService := services.NewSearchService(workOrderRepo, assetRepo, userRepo, gatekeeper, cfg.Search.MaxPageSize, logger)
	exportService := services.NewExportService(searchService, gatekeeper, cfg.Search.ExportMaxRows, logger)
	workOrderService := services.NewWorkOrderService(workOrderRepo, userRepo, teamRepo, assetRepo, txManager, gatekeeper, bus, logger)
	assetService := services.NewAssetService(assetRepo, gatekeeper, logger)
	formService := services.NewFormService(formRepo, logger)

	// --- middleware ---
	authMW := middleware.NewAuthMiddleware(jwtSvc, logger)
	sessionMW := middleware.NewSessionMiddleware(sessionService, logger)

	// --- routers ---
	runAuthRouter(api, controllers.NewAuthController(authService, logger))

	secure := api.Group("", authMW.Auth, sessionMW.Session)
	runSessionRouter(secure, controllers.NewSessionController(logger))
	runSearchRouter(secure, controllers.NewSearchController(searchService, exportService, timeout, logger))
	runWorkOrderRouter(secure, controllers.NewWorkOrderController(workOrderService, timeout, logger))
	runAssetRouter(secure, controllers.NewAssetController(assetService, timeout, logger))
	runFormRouter(secure, controllers.NewFormController(formService, logger))

	// The socket resolves the session per message, so it only needs the token.
	wsController := controllers.NewWebSocketController(hub, sessionService, searchService, cfg.Server.AllowedOrigins, timeout, logger)
	api.GET("/ws", wsController.ServeWs, authMW.Auth)

	logger.Info("InitRouter: routes ready")
}
