package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"guidelight-backend/internal/config"
	infraCache "guidelight-backend/internal/infrastructure/cache"
	"guidelight-backend/internal/infrastructure/database"
	"guidelight-backend/internal/infrastructure/storage"
	"guidelight-backend/pkg/cache"
	"guidelight-backend/pkg/jwt"

	"guidelight-backend/internal/domains/asset"
	assetHandler "guidelight-backend/internal/domains/asset/handler"
	assetRepo "guidelight-backend/internal/domains/asset/repository"
	assetService "guidelight-backend/internal/domains/asset/service"
	"guidelight-backend/internal/domains/board"
	boardHandler "guidelight-backend/internal/domains/board/handler"
	boardRepo "guidelight-backend/internal/domains/board/repository"
	boardService "guidelight-backend/internal/domains/board/service"
	"guidelight-backend/internal/domains/category"
	categoryHandler "guidelight-backend/internal/domains/category/handler"
	categoryRepo "guidelight-backend/internal/domains/category/repository"
	categoryService "guidelight-backend/internal/domains/category/service"
	"guidelight-backend/internal/domains/draft"
	draftHandler "guidelight-backend/internal/domains/draft/handler"
	draftRepo "guidelight-backend/internal/domains/draft/repository"
	draftService "guidelight-backend/internal/domains/draft/service"
	"guidelight-backend/internal/domains/pick"
	pickHandler "guidelight-backend/internal/domains/pick/handler"
	pickRepo "guidelight-backend/internal/domains/pick/repository"
	pickService "guidelight-backend/internal/domains/pick/service"
	"guidelight-backend/internal/domains/product"
	productHandler "guidelight-backend/internal/domains/product/handler"
	productRepo "guidelight-backend/internal/domains/product/repository"
	productService "guidelight-backend/internal/domains/product/service"
	"guidelight-backend/internal/domains/staff"
	staffHandler "guidelight-backend/internal/domains/staff/handler"
	staffRepo "guidelight-backend/internal/domains/staff/repository"
	staffService "guidelight-backend/internal/domains/staff/service"
)

// Container is the root of the dependency graph shared by cmd/api and
// cmd/worker. Build order: config, infrastructure, repositories, services,
// handlers.
type Container struct {
	// Infrastructure
	Config     *config.Config
	DB         *database.PostgresDB
	Redis      *infraCache.RedisClient
	Cache      cache.Cache
	JWTManager *jwt.Manager
	Storage    *storage.MinIOStorage
	Images     *storage.ImageProcessor
	Queue      *asynq.Client

	// Repositories
	StaffRepo    staff.Repository
	CategoryRepo category.Repository
	ProductRepo  product.Repository
	AssetRepo    asset.Repository
	PickRepo     pick.Repository
	DraftRepo    draft.Repository
	BoardRepo    board.Repository

	// Services
	CategoryCache   *category.Cache
	StaffService    staff.Service
	CategoryService category.Service
	ProductService  product.Service
	AssetService    asset.Service
	PickService     pick.Service
	Publisher       draft.Publisher
	Editor          *draftService.SessionManager
	BoardService    board.Service

	// Handlers
	StaffHandler    *staffHandler.StaffHandler
	CategoryHandler *categoryHandler.CategoryHandler
	ProductHandler  *productHandler.ProductHandler
	AssetHandler    *assetHandler.AssetHandler
	PickHandler     *pickHandler.PickHandler
	DraftHandler    *draftHandler.DraftHandler
	BoardHandler    *boardHandler.BoardHandler
}

// NewContainer builds everything. ctx bounds background work (autosave
// writes); cancel it only after the HTTP server has stopped.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	if err := c.initInfrastructure(ctx); err != nil {
		c.Cleanup()
		return nil, err
	}
	c.initRepositories()
	c.initServices(ctx)
	c.initHandlers()

	log.Info().Str("env", cfg.App.Environment).Msg("container initialized")
	return c, nil
}

func (c *Container) initInfrastructure(ctx context.Context) error {
	cfg := c.Config

	db := database.NewPostgresDB(cfg.Database.PoolConfig())
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.Connect(connectCtx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	// redis is not critical at startup: caches degrade to the database
	c.Redis = infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.Redis.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, continuing without cache")
	}
	c.Cache = infraCache.NewRedisCache(c.Redis.Client)

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Hour)

	store, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
	if err != nil {
		return fmt.Errorf("failed to init object storage: %w", err)
	}
	c.Storage = store
	c.Images = storage.NewImageProcessor()

	c.Queue = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.StaffRepo = staffRepo.NewPostgresRepository(pool)
	c.CategoryRepo = categoryRepo.NewPostgresRepository(pool)
	c.ProductRepo = productRepo.NewPostgresRepository(pool)
	c.AssetRepo = assetRepo.NewPostgresRepository(pool)
	c.PickRepo = pickRepo.NewPostgresRepository(pool)
	c.DraftRepo = draftRepo.NewPostgresRepository(pool)
	c.BoardRepo = boardRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices(ctx context.Context) {
	cfg := c.Config

	c.CategoryCache = category.NewCache(c.CategoryRepo, c.Cache, cfg.Cache.CategoryTTL)
	c.StaffService = staffService.NewStaffService(c.StaffRepo, c.JWTManager, c.Cache)
	c.CategoryService = categoryService.NewCategoryService(c.CategoryRepo, c.CategoryCache)
	c.ProductService = productService.NewProductService(c.ProductRepo, c.CategoryCache)
	c.AssetService = assetService.NewAssetService(c.AssetRepo, c.Storage, c.Images, c.Queue)
	c.PickService = pickService.NewPickService(c.PickRepo, c.CategoryCache, c.Cache, cfg.Cache.DisplayFeedTTL)

	// publishing goes through the pick service so the display feed is invalidated
	c.Publisher = draftService.NewPublisher(c.DraftRepo, c.PickService)
	c.Editor = draftService.NewSessionManager(ctx, c.DraftRepo, c.PickService, c.CategoryCache, c.Publisher,
		draftService.EditorConfig{
			Debounce:    cfg.Autosave.Debounce,
			RevertAfter: cfg.Autosave.RevertAfter,
			SaveTimeout: cfg.Autosave.SaveTimeout,
			IdleTTL:     cfg.Editor.IdleTTL,
		})

	c.BoardService = boardService.NewBoardService(ctx, c.BoardRepo, c.PickService, c.AssetRepo,
		boardService.OrderConfig{
			Debounce:    cfg.Autosave.Debounce,
			RevertAfter: cfg.Autosave.RevertAfter,
			SaveTimeout: cfg.Autosave.SaveTimeout,
		})
}

func (c *Container) initHandlers() {
	c.StaffHandler = staffHandler.NewStaffHandler(c.StaffService, c.Config.App.Environment == "production")
	c.CategoryHandler = categoryHandler.NewCategoryHandler(c.CategoryService)
	c.ProductHandler = productHandler.NewProductHandler(c.ProductService)
	c.AssetHandler = assetHandler.NewAssetHandler(c.AssetService)
	c.PickHandler = pickHandler.NewPickHandler(c.PickService)
	c.DraftHandler = draftHandler.NewDraftHandler(c.Editor)
	c.BoardHandler = boardHandler.NewBoardHandler(c.BoardService)
}

// Cleanup releases connections. Safe on a partially built container.
func (c *Container) Cleanup() {
	if c.Queue != nil {
		if err := c.Queue.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close asynq client")
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close redis")
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close database")
		}
	}
	log.Info().Msg("container cleanup completed")
}
