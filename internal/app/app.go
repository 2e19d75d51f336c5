package app

import (
	"bookhive_backend/internal/config"
	"bookhive_backend/internal/controller"
	"bookhive_backend/internal/repository"
	"bookhive_backend/internal/service"
	"bookhive_backend/pkg/database"
	"bookhive_backend/pkg/logger"
	"bookhive_backend/pkg/monitoring"
	"bookhive_backend/pkg/security"
	"bookhive_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Mongo           *mongo.Database
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user          *repository.UserRepository
	resource      *repository.ResourceRepository
	multimedia    *repository.MultimediaRepository
	paymentOption *repository.PaymentOptionRepository
	product       *repository.ProductRepository
	progress      *repository.ProgressRepository
}

type services struct {
	storage    *service.StorageService
	cdnSigner  *service.CDNSigner
	strategies *service.StrategyDispatcher
	auth       *service.AuthService
	product    *service.ProductService
	resource   *service.ResourceService
	progress   *service.ProgressService
	exchange   *service.ExchangeService
	settings   *service.SettingsService
}

type controllers struct {
	auth     *controller.AuthController
	product  *controller.ProductController
	resource *controller.ResourceController
	guest    *controller.GuestController
	settings *controller.SettingsController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig 配置文件热更新入口，由配置监听器触发
func (a *App) ReloadConfig(cfg *config.Config) {
	a.Config = cfg
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
	logger.Log.Info("configuration reloaded")
}

// registerValidations 登记请求体的自定义校验规则
func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// HH:MM 时刻，用于每周可预约时段
		v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			_, err := time.Parse("15:04", fl.Field().String())
			return err == nil
		})
	}
}

func (a *App) initRepositories(db *gorm.DB, mdb *mongo.Database) *repositories {
	return &repositories{
		user:          repository.NewUserRepository(db),
		resource:      repository.NewResourceRepository(db),
		multimedia:    repository.NewMultimediaRepository(db),
		paymentOption: repository.NewPaymentOptionRepository(db),
		product:       repository.NewProductRepository(mdb),
		progress:      repository.NewProgressRepository(mdb),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.cdnSigner = service.NewCDNSigner(&cfg.CDN)
	s.strategies = service.NewStrategyDispatcher(s.storage, s.cdnSigner, cfg)

	s.auth = service.NewAuthService(repos.user, rdb, cfg)
	s.product = service.NewProductService(repos.product, repos.resource, repos.multimedia, repos.progress, repos.paymentOption, s.strategies, db)
	s.resource = service.NewResourceService(repos.resource, repos.multimedia, repos.product, s.storage, s.strategies, cfg, db)
	s.progress = service.NewProgressService(repos.progress, repos.resource, repos.product)
	s.exchange = service.NewExchangeService(&cfg.Exchange, rdb)
	s.settings = service.NewSettingsService(repos.product, repos.paymentOption, s.exchange, s.storage, rdb)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, mdb *mongo.Database, rdb *redis.Client) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		product:  controller.NewProductController(s.product),
		resource: controller.NewResourceController(s.resource),
		guest:    controller.NewGuestController(s.product, s.resource, s.progress, s.cdnSigner),
		settings: controller.NewSettingsController(s.settings),
		health:   controller.NewHealthController(db, mdb.Client(), rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	// release 模式默认不自动迁移，需显式传 --migrate
	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode != "release" || cfg.ForceMigrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	mdb, err := database.InitMongo(&cfg.Mongo)
	if err != nil {
		logger.Log.Fatal("Failed to initialize mongo", zap.Error(err))
		log.Fatalf("Failed to initialize mongo: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Mongo:  mdb,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, mdb)
	services := app.initServices(repos, cfg, db, rdb)
	controllers := app.initControllers(services, db, mdb, rdb)

	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	registerValidations()
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		_, err := tracing.InitTracer("bookhive-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
