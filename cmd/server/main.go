package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"gamerec/internal/client/igdb"
	"gamerec/internal/config"
	cronrunner "gamerec/internal/cron"
	"gamerec/internal/db"
	"gamerec/internal/handler"
	"gamerec/internal/logger"
	gormrepository "gamerec/internal/repository/gorm"
	"gamerec/internal/search"
	"gamerec/internal/service"

	_ "gamerec/docs"
)

func main() {
	cfgPath := os.Getenv("GR_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("GR_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	igdbHTTP := &http.Client{Timeout: cfg.IGDB.Timeout}
	igdbClient := igdb.NewClient(igdbHTTP, cfg.IGDB.BaseURL, cfg.IGDB.AuthURL, cfg.IGDB.ClientID, cfg.IGDB.ClientSecret)

	searchIndex := search.New(cfg.Search.Host, cfg.Search.APIKey, cfg.Search.Index, logger)
	if err := searchIndex.Setup(); err != nil {
		logger.Warn("search index setup failed (suggestions degraded)", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)
	catalogService := &service.CatalogSyncService{
		Store:  store,
		IGDB:   igdbClient,
		Search: searchIndex,
		Logger: logger,
	}
	queryService := &service.CatalogQueryService{Store: store}
	recommendService := service.NewRecommendService(store, cfg.Recommend, logger)
	suggestService := &service.SuggestService{Index: searchIndex}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	recommendHandler := &handler.RecommendHandler{Service: recommendService, Logger: logger}
	recommendHandler.Register(engine)
	searchHandler := &handler.SearchHandler{Service: suggestService, Logger: logger}
	searchHandler.Register(engine)
	catalogHandler := &handler.CatalogHandler{
		Service:      catalogService,
		QueryService: queryService,
		Logger:       logger,
	}
	catalogHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx)
	syncOpts := service.SyncOptions{
		Scope:            cfg.CatalogSync.Scope,
		Limit:            cfg.CatalogSync.PageLimit,
		MaxPages:         cfg.CatalogSync.MaxPages,
		Resume:           cfg.CatalogSync.Resume,
		RateLimitBackoff: cfg.CatalogSync.RateLimitBackoff,
	}
	if cfg.Cron.Enabled {
		_, err = cronRunner.Add("catalog-sync", cfg.Cron.CatalogSync, func(ctx context.Context) {
			result, err := catalogService.Sync(ctx, syncOpts)
			if err != nil {
				logger.Warn("cron catalog sync failed", zap.Error(err))
				return
			}
			logger.Info("cron catalog sync ok",
				zap.String("scope", result.Scope),
				zap.Int("pages", result.Pages),
				zap.Int("games", result.Games),
				zap.Int("covers", result.Covers),
				zap.Int("genres", result.Genres),
				zap.Int("themes", result.Themes),
				zap.Int("keywords", result.Keywords),
				zap.Int("indexed", result.Indexed),
			)
		})
		if err != nil {
			logger.Warn("cron register catalog sync failed", zap.Error(err))
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
