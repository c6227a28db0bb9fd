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
	"maintenance-system/pkg/middleware"
	"maintenance-system/pkg/service"
)

type Loggers struct {
	Main    *zap.Logger
	Auth    *zap.Logger
	Request *zap.Logger
}

// InitRouter собирает весь граф зависимостей и вешает маршруты на echo.
func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, loggers *Loggers, cfg *config.Config) {
	loggers.Main.Info("InitRouter: Начало создания маршрутов")

	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, loggers.Auth)
	txManager := repositories.NewTxManager(dbConn)
	gatekeeper := authz.NewGatekeeper()

	// --- РЕПОЗИТОРИИ ---
	userRepo := repositories.NewUserRepository(dbConn, loggers.Main)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)
	teamRepo := repositories.NewTeamRepository(dbConn, loggers.Main)
	categoryRepo := repositories.NewCategoryRepository(dbConn, loggers.Main)
	equipmentRepo := repositories.NewEquipmentRepository(dbConn, loggers.Main)
	requestRepo := repositories.NewRequestRepository(dbConn, loggers.Request)
	logRepo := repositories.NewMaintenanceLogRepository(dbConn, loggers.Request)
	reportRepo := repositories.NewReportRepository(dbConn)

	// --- СЕРВИСЫ ---
	authService := services.NewAuthService(userRepo, cacheRepo, loggers.Auth, &cfg.Auth)
	userService := services.NewUserService(userRepo, loggers.Main)
	teamService := services.NewTeamService(teamRepo, gatekeeper, loggers.Main)
	equipmentService := services.NewEquipmentService(equipmentRepo, categoryRepo, teamRepo, gatekeeper, loggers.Main)
	requestService := services.NewRequestService(requestRepo, equipmentRepo, logRepo, txManager, gatekeeper, loggers.Request)
	reportService := services.NewReportService(reportRepo, gatekeeper, loggers.Main)

	// --- КОНТРОЛЛЕРЫ ---
	authController := controllers.NewAuthController(authService, jwtSvc, loggers.Auth)
	userController := controllers.NewUserController(userService, loggers.Main)
	teamController := controllers.NewTeamController(teamService, loggers.Main)
	equipmentController := controllers.NewEquipmentController(equipmentService, loggers.Main)
	requestController := controllers.NewRequestController(requestService, loggers.Request)
	reportController := controllers.NewReportController(reportService, loggers.Main)

	// --- МАРШРУТЫ ---
	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, secureGroup, authController)
	runUserRouter(secureGroup, userController)
	runTeamRouter(secureGroup, teamController)
	runEquipmentRouter(secureGroup, equipmentController, requestController)
	runRequestRouter(secureGroup, requestController)
	runReportRouter(secureGroup, reportController)

	loggers.Main.Info("InitRouter: Маршруты созданы")
}
