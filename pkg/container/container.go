package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"bogo-backend/internal/config"
	infraCache "bogo-backend/internal/infrastructure/cache"
	"bogo-backend/internal/infrastructure/database"
	"bogo-backend/pkg/cache"
	"bogo-backend/pkg/jwt"

	"bogo-backend/internal/domains/bogo"

	cartHandler "bogo-backend/internal/domains/cart/handler"
	cartRepo "bogo-backend/internal/domains/cart/repository"
	cartService "bogo-backend/internal/domains/cart/service"

	couponHandler "bogo-backend/internal/domains/coupon/handler"
	couponRepo "bogo-backend/internal/domains/coupon/repository"
	couponService "bogo-backend/internal/domains/coupon/service"

	productHandler "bogo-backend/internal/domains/product/handler"
	productRepo "bogo-backend/internal/domains/product/repository"
	productService "bogo-backend/internal/domains/product/service"

	ruleHandler "bogo-backend/internal/domains/rule/handler"
	ruleRepo "bogo-backend/internal/domains/rule/repository"
	ruleService "bogo-backend/internal/domains/rule/service"

	usageHandler "bogo-backend/internal/domains/usage/handler"
	usageRepo "bogo-backend/internal/domains/usage/repository"
	usageService "bogo-backend/internal/domains/usage/service"

	"github.com/hibiken/asynq"
)

// Container holds every dependency of the application. All entries are
// singletons built once at startup; build order goes config,
// infrastructure, repositories, services, handlers.
type Container struct {
	// Infrastructure
	Config      *config.Config
	DB          *database.PostgresDB
	Cache       cache.Cache
	JWTManager  *jwt.Manager
	AsynqClient *asynq.Client

	// Repositories
	CartRepo    cartRepo.RepositoryInterface
	CouponRepo  couponRepo.RepositoryInterface
	ProductRepo productRepo.RepositoryInterface
	RuleRepo    ruleRepo.RepositoryInterface
	UsageRepo   usageRepo.RepositoryInterface

	// Services
	CartService    cartService.ServiceInterface
	CouponService  couponService.ServiceInterface
	ProductService productService.ServiceInterface
	RuleService    ruleService.ServiceInterface
	UsageService   usageService.ServiceInterface

	// Promotion engine
	Settings bogo.Settings
	Engine   bogo.Engine

	// Handlers
	CartHandler    *cartHandler.Handler
	CouponHandler  *couponHandler.Handler
	ProductHandler *productHandler.Handler
	RuleHandler    *ruleHandler.Handler
	UsageHandler   *usageHandler.Handler
}

// NewContainer builds the whole dependency graph
func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{}

	// Step 1: Configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

	// Step 2: Database
	log.Println("🗄️  Connecting to PostgreSQL...")

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	log.Println("✅ Database connected")

	// Step 3: Redis cache
	log.Println("🔴 Connecting to Redis...")

	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		if err := rc.Connect(context.Background()); err != nil {
			// Cache failure is non-critical; services fall back to the DB
			log.Printf("⚠️  Redis connection failed (non-critical): %v", err)
		} else {
			log.Println("✅ Redis connected")
		}
	}
	c.Cache = redisCache

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret)

	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Step 4: Repositories
	c.initRepositories()

	// Step 5: Services and the promotion engine
	c.initServices()

	// Step 6: Handlers
	c.initHandlers()

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.CartRepo = cartRepo.NewPostgresRepository(pool)
	c.CouponRepo = couponRepo.NewPostgresRepository(pool)
	c.ProductRepo = productRepo.NewPostgresRepository(pool)
	c.RuleRepo = ruleRepo.NewPostgresRepository(pool)
	c.UsageRepo = usageRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.ProductService = productService.NewProductService(c.ProductRepo, c.Cache)
	c.CouponService = couponService.NewCouponService(c.CouponRepo)
	c.RuleService = ruleService.NewRuleService(c.RuleRepo, c.CouponService)
	c.UsageService = usageService.NewUsageService(c.UsageRepo)

	c.Settings = bogo.NewStaticSettings(
		c.Config.Bogo.AutoAddEnabled,
		c.Config.Bogo.AutoApplyEnabled,
		c.Config.Bogo.FreeItemLabel,
	)

	// The engine mutates the cart through the repository, not the cart
	// service, so free-line writes never re-enter the service hooks.
	c.Engine = bogo.NewEngine(
		c.CouponService,
		c.RuleService,
		c.ProductService,
		cartRepo.NewEngineStore(c.CartRepo),
		c.Settings,
	)

	c.CartService = cartService.NewCartService(
		c.CartRepo,
		c.ProductService,
		c.Engine,
		c.Settings,
		c.AsynqClient,
	)
}

func (c *Container) initHandlers() {
	c.CartHandler = cartHandler.NewHandler(c.CartService)
	c.CouponHandler = couponHandler.NewHandler(c.CouponService)
	c.ProductHandler = productHandler.NewHandler(c.ProductService)
	c.RuleHandler = ruleHandler.NewHandler(c.RuleService)
	c.UsageHandler = usageHandler.NewHandler(c.UsageService)
}

// Close releases infrastructure resources
func (c *Container) Close() {
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Printf("⚠️  Failed to close asynq client: %v", err)
		}
	}
	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Printf("⚠️  Failed to close redis: %v", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
