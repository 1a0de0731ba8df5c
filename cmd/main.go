package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Gabo9803/IA-GENERADOR/internal/cache"
	"github.com/Gabo9803/IA-GENERADOR/internal/config"
	"github.com/Gabo9803/IA-GENERADOR/internal/handler"
	"github.com/Gabo9803/IA-GENERADOR/internal/render"
	"github.com/Gabo9803/IA-GENERADOR/internal/service"
	"github.com/Gabo9803/IA-GENERADOR/internal/storage"
	"github.com/Gabo9803/IA-GENERADOR/pkg/logger"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "./configs/config.yaml", "配置文件路径")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	// 选择存储后端
	store := newStorage(cfg)
	if err := store.Init(); err != nil {
		logger.Fatalf("Failed to init storage: %v", err)
	}
	defer store.Close()

	// 初始化服务
	aiClient := service.NewOpenAIClient(cfg.OpenAI)
	responses := cache.New[string](cfg.Cache.TTL, cfg.Cache.MaxEntries)
	contexts := cache.NewContextStore(cfg.Session.MaxContexts)
	docService := service.NewDocumentService(cfg, aiClient, responses, contexts)

	translator := service.NewTranslator(cfg.Translator)
	renderer := render.NewRenderer(translator)
	artifacts := cache.New[handler.Artifact](cfg.Cache.TTL, cfg.Cache.MaxEntries)

	// 初始化处理器
	docHandler := handler.NewDocumentHandler(cfg, store, docService, renderer, artifacts)

	// 创建路由
	router := setupRouter(cfg, docHandler)

	// 创建HTTP服务器
	server := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	// 启动服务器
	go func() {
		logger.Infof("服务器启动在端口 %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("服务器启动失败: %v", err)
		}
	}()

	// 等待信号优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("服务器正在关闭...")
	if err := server.Close(); err != nil {
		logger.Errorf("服务器关闭失败: %v", err)
	}
	logger.Info("服务器已关闭")
}

func newStorage(cfg *config.Config) storage.Storage {
	switch cfg.Storage.Type {
	case "disk":
		return storage.NewDiskStorage(cfg.Storage.DataDir)
	default:
		return storage.NewMemoryStorage()
	}
}

func setupRouter(cfg *config.Config, docHandler *handler.DocumentHandler) *gin.Engine {
	// 设置gin模式
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// 中间件
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// CORS配置
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           time.Duration(cfg.CORS.MaxAge) * time.Second,
	}
	router.Use(cors.New(corsConfig))

	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Unix(),
		})
	})

	// API路由
	api := router.Group("/api")
	{
		api.POST("/generate", docHandler.Generate)
		api.POST("/preview", docHandler.Preview)
		api.GET("/download/:file_id", docHandler.Download)

		api.GET("/history", docHandler.GetHistory)
		api.POST("/history/clear", docHandler.ClearHistory)
		api.POST("/context/reset", docHandler.ResetContext)

		api.GET("/templates", docHandler.ListTemplates)
		api.POST("/templates", docHandler.SaveTemplate)

		api.POST("/suggestions/prompts", docHandler.PromptSuggestions)
		api.POST("/suggestions/fields", docHandler.SuggestFields)

		api.POST("/logo", docHandler.UploadLogo)
	}

	return router
}
