package main

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/momoworks/webos/internal/api"
	"github.com/momoworks/webos/internal/battle"
	"github.com/momoworks/webos/internal/config"
	"github.com/momoworks/webos/internal/constants"
	"github.com/momoworks/webos/internal/logging"
	"github.com/momoworks/webos/internal/storage"
	"github.com/momoworks/webos/internal/ws"
)

func main() {
	checkEnvVars([]string{constants.EnvJWTSecret, constants.EnvRefreshSecret})

	// Load server configuration (required). Path may be provided via
	// WEBOS_CONFIG env var or defaults to ./webos_config.json in the
	// current working directory.
	configPath := os.Getenv(constants.EnvConfigPath)
	if configPath == "" {
		configPath = "./webos_config.json"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logging.Fatal("Missing or invalid configuration", err, logging.Fields{"config_path": configPath, "hint": "create a webos_config.json with a 'menu_list' array of menu objects (name,desc,category,prices) and optional server.address"})
	}

	dbPath := os.Getenv(constants.EnvDBPath)
	if dbPath == "" {
		dbPath = "./data/webos.db"
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		logging.Fatal("Failed to create data directory", err, logging.Fields{"path": dbPath})
	}

	db, err := storage.OpenAndMigrate(dbPath, cfg.MenuItems)
	if err != nil {
		logging.Fatal("Failed to initialize the database", err, nil)
	}

	repo := storage.NewSQLiteRepository(db)

	authHandler := api.NewAuthHandler(repo)
	noteHandler := api.NewNoteHandler(repo)
	fileHandler := api.NewFileHandler(repo, cfg.UploadDir)
	aiHandler := api.NewAIHandler(repo)
	adminHandler := api.NewAdminHandler(repo)
	restaurantHandler := api.NewRestaurantHandler(repo)

	gateway := ws.NewGateway(battle.NewRegistry(), api.IdentityFromToken)

	router := gin.Default()

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "WebOS backend is running"})
	})
	router.GET(constants.RouteVersion, api.Version)
	router.GET(constants.RouteBattleWS, gateway.Handle)

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		// Public endpoints
		apiRoutes.POST(constants.RouteAuthRegister, authHandler.Register)
		apiRoutes.POST(constants.RouteAuthLogin, authHandler.Login)
		apiRoutes.POST(constants.RouteAuthRefresh, authHandler.Refresh)
		apiRoutes.POST(constants.RouteAuthGoogleCallBack, authHandler.GoogleOAuthCallback)
		apiRoutes.GET(constants.RouteMenu, restaurantHandler.Menu)

		// Guest-capable: orders work without a session but credit loyalty
		// points when one is present.
		apiRoutes.POST(constants.RouteOrders, api.OptionalAuth(), restaurantHandler.CreateOrder)

		// Authenticated endpoints
		protected := apiRoutes.Group("")
		protected.Use(api.AuthRequired())

		protected.POST(constants.RouteAuthLogout, authHandler.Logout)
		protected.GET(constants.RouteAuthProfile, authHandler.Profile)

		protected.POST(constants.RouteNotes, noteHandler.Create)
		protected.GET(constants.RouteNotes, noteHandler.List)
		protected.GET(constants.RouteNoteByID, noteHandler.Get)
		protected.PUT(constants.RouteNoteByID, noteHandler.Update)
		protected.DELETE(constants.RouteNoteByID, noteHandler.Delete)

		protected.POST(constants.RouteFiles, fileHandler.Upload)
		protected.GET(constants.RouteFiles, fileHandler.List)
		protected.GET(constants.RouteFileByID, fileHandler.Get)
		protected.DELETE(constants.RouteFileByID, fileHandler.Delete)

		protected.POST(constants.RouteAIChat, aiHandler.Chat)
		protected.GET(constants.RouteAIHistory, aiHandler.History)

		// Admin endpoints
		admin := protected.Group("")
		admin.Use(api.AdminRequired())

		admin.GET(constants.RouteAdminUsers, adminHandler.ListUsers)
		admin.DELETE(constants.RouteAdminUserByID, adminHandler.DeleteUser)
		admin.GET(constants.RouteAdminStats, adminHandler.DashboardStats)

		admin.GET(constants.RouteOrdersToday, restaurantHandler.TodayOrders)
		admin.PATCH(constants.RouteOrderStatusByID, restaurantHandler.UpdateOrderStatus)
		admin.PATCH(constants.RouteMenuItemByID, restaurantHandler.UpdateMenuItem)
		admin.GET(constants.RouteRestaurantStats, restaurantHandler.Stats)
	}

	addr := cfg.ServerAddress
	displayAddr := addr
	if len(addr) > 0 && addr[0] == ':' {
		displayAddr = "http://localhost" + addr
	}
	logging.Info("Server started", logging.Fields{constants.LogFieldAddr: displayAddr})
	if err := router.Run(addr); err != nil {
		logging.Fatal("Failed to start the server", err, nil)
	}
}

func checkEnvVars(vars []string) {
	for _, v := range vars {
		if os.Getenv(v) == "" {
			logging.Fatal("Required environment variable is not set", nil, logging.Fields{"var": v})
		}
	}
}
