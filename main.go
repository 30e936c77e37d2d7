package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/vet_admin/cache"
	"github.com/BerniceZTT/vet_admin/client"
	"github.com/BerniceZTT/vet_admin/config"
	"github.com/BerniceZTT/vet_admin/middleware"
	"github.com/BerniceZTT/vet_admin/repository"
	"github.com/BerniceZTT/vet_admin/routes"
	"github.com/BerniceZTT/vet_admin/service"
	"github.com/BerniceZTT/vet_admin/utils"
)

func main() {
	// 加载配置
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	utils.InitLogger(cfg.Debug())
	utils.InitJWT(cfg.JWTKey)

	// 设置Gin模式
	if cfg.Debug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 操作日志存储
	var store repository.OperationLogStore
	if cfg.MongoURI != "" {
		mongoStore, err := repository.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			utils.Logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
		}
		defer mongoStore.Close(context.Background())
		store = mongoStore
	} else {
		utils.Logger.Warn().Msg("未配置 MONGO_URI，操作日志只保存在内存中")
		store = repository.NewMemoryStore(0)
	}

	// 查询缓存
	qc := cache.New(cache.Options{
		StaleTime: cfg.CacheStaleTime,
		GCTime:    cfg.CacheGCTime,
	})
	go qc.Run(ctx, cfg.CacheSweepInterval)

	printer := utils.Printer(cfg.Locale)
	backend := client.New(cfg.APIBaseURL,
		client.WithTimeout(cfg.APITimeout),
		client.WithPrinter(printer),
		client.WithStrict(cfg.StrictValidation),
	)

	svc := service.New(backend, qc, service.Options{
		PageSize:    cfg.PageSize,
		MaxPageSize: cfg.MaxPageSize,
		Printer:     printer,
	})

	// 后台任务
	go service.RunSessionSweeper(ctx, svc.Deps.Sessions, cfg.CacheSweepInterval, cfg.SessionIdle)
	service.ScheduleDailyTaskAt(ctx, 3, 0, 0, service.PurgeOperationLogs(store, cfg.LogRetention))

	// 创建Gin实例
	router := gin.New()

	// 应用中间件
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(cfg.AllowOrigins))
	router.Use(middleware.ErrorHandler())

	// 注册路由
	routes.RegisterRoutes(router, routes.Deps{
		Services: svc,
		Cache:    qc,
		Store:    store,
	})

	// 设置HTTP服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.APITimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 启动服务器
	go func() {
		utils.Logger.Info().Msgf("服务器启动，监听端口: %d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.Logger.Fatal().Err(err).Msg("启动服务器失败")
		}
	}()

	// 优雅关闭
	<-ctx.Done()
	utils.Logger.Info().Msg("正在关闭服务器...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Logger.Error().Err(err).Msg("服务器关闭异常")
	}

	utils.Logger.Info().Msg("服务器已优雅关闭")
}
