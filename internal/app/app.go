package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sekolah-web/core/internal/config"
	"github.com/sekolah-web/core/internal/database"
	"github.com/sekolah-web/core/internal/middleware"
	"github.com/sekolah-web/core/internal/models"
	"github.com/sekolah-web/core/internal/modules/content"
	"github.com/sekolah-web/core/internal/modules/content/achievement"
	"github.com/sekolah-web/core/internal/modules/content/alumni"
	"github.com/sekolah-web/core/internal/modules/content/announcement"
	"github.com/sekolah-web/core/internal/modules/content/category"
	"github.com/sekolah-web/core/internal/modules/content/extra"
	"github.com/sekolah-web/core/internal/modules/content/facility"
	"github.com/sekolah-web/core/internal/modules/content/gallery"
	"github.com/sekolah-web/core/internal/modules/content/post"
	"github.com/sekolah-web/core/internal/modules/content/schedule"
	"github.com/sekolah-web/core/internal/modules/content/slider"
	"github.com/sekolah-web/core/internal/modules/content/staff"
	"github.com/sekolah-web/core/internal/modules/media"
	"github.com/sekolah-web/core/internal/modules/system/activitylog"
	"github.com/sekolah-web/core/internal/modules/system/settings"
	"github.com/sekolah-web/core/internal/modules/system/slugtracker"
	"github.com/sekolah-web/core/internal/pkg/apperr"
	"github.com/sekolah-web/core/internal/pkg/cache"
	"github.com/sekolah-web/core/internal/pkg/morph"
	pkgredis "github.com/sekolah-web/core/internal/pkg/redis"
	"github.com/sekolah-web/core/internal/pkg/storage"
)

// Options tune how New prepares the process.
type Options struct {
	// AutoMigrate runs gorm AutoMigrate over every model before returning.
	AutoMigrate bool
	// Now overrides the clock used for publication checks.
	Now func() time.Time
}

// App holds all application dependencies.
type App struct {
	Config *config.AppConfig
	Logger *zap.Logger
	DB     *gorm.DB
	Disks  *storage.Manager
	Cache  cache.Cache

	Registry *morph.Registry
	Activity *activitylog.Logger
	Slugs    *slugtracker.Service
	Media    *media.Service
	Settings *settings.Service

	Posts         *post.Service
	Categories    *category.Service
	Announcements *announcement.Service
	Galleries     *gallery.Service
	Staff         *staff.Service
	Facilities    *facility.Service
	Extras        *extra.Service
	Alumni        *alumni.Service
	Achievements  *achievement.Service
	Sliders       *slider.Service
	Schedules     *schedule.Service

	redis *pkgredis.Client
}

// New wires the application: timezone, database, storage, cache, services.
func New(logger *zap.Logger, cfg *config.AppConfig, opts Options) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := applyTimezone(cfg); err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg, opts.AutoMigrate)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	a := &App{Config: cfg, Logger: logger, DB: db}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	a.Disks, err = storage.FromConfig(ctx, cfg.Storage)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("storage: %w", err)
	}
	if a.Cache, err = a.buildCache(ctx); err != nil {
		a.Close()
		return nil, err
	}

	mediaDisk := cfg.Media.Disk
	if mediaDisk == "" {
		mediaDisk = cfg.Storage.DefaultDisk
	}
	resolver := media.NewResolver(a.Disks, cfg.Storage.PublicDisk)
	converter := media.NewConverter(cfg.Media.Sizes, cfg.Media.Quality)

	a.Registry = morph.NewRegistry()
	a.Activity = activitylog.New(db, a.Registry, logger)
	a.Slugs = slugtracker.NewService(db)
	a.Media = media.NewService(db, a.Disks, mediaDisk, resolver, converter, logger)
	a.Settings = settings.NewService(db, a.Cache, time.Duration(cfg.Settings.TTLSeconds)*time.Second, a.Activity, logger)

	deps := content.Deps{
		DB:       db,
		Slugs:    a.Slugs,
		Media:    a.Media,
		Activity: a.Activity,
		Logger:   logger,
		Now:      opts.Now,
	}
	a.Posts = post.NewService(deps)
	a.Categories = category.NewService(deps)
	a.Announcements = announcement.NewService(deps)
	a.Galleries = gallery.NewService(deps)
	a.Staff = staff.NewService(deps)
	a.Facilities = facility.NewService(deps)
	a.Extras = extra.NewService(deps)
	a.Alumni = alumni.NewService(deps)
	a.Achievements = achievement.NewService(deps)
	a.Sliders = slider.NewService(deps)
	a.Schedules = schedule.NewService(deps)

	a.registerSubjects()

	logger.Info("application ready",
		zap.String("env", cfg.Env),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("settings_cache", cfg.Settings.Cache),
		zap.String("media_disk", mediaDisk),
		zap.String("public_disk", cfg.Storage.PublicDisk),
	)
	return a, nil
}

func (a *App) buildCache(ctx context.Context) (cache.Cache, error) {
	switch strings.ToLower(a.Config.Settings.Cache) {
	case config.CacheRedis:
		rc, err := pkgredis.Connect(ctx, a.Config.Redis.URLValue())
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		a.redis = rc
		return cache.NewRedis(rc, a.Config.Settings.Prefix), nil
	case config.CacheNone:
		return cache.Nop{}, nil
	default:
		return cache.NewMemory(), nil
	}
}

// registerSubjects lets the activity log load the subject of any entry.
func (a *App) registerSubjects() {
	r := a.Registry
	r.Register(models.MorphPost, a.Posts.Repo)
	r.Register(models.MorphCategory, a.Categories.Repo)
	r.Register(models.MorphAnnouncement, a.Announcements.Repo)
	r.Register(models.MorphGallery, a.Galleries.Repo)
	r.Register(models.MorphStaff, a.Staff.Repo)
	r.Register(models.MorphFacility, a.Facilities.Repo)
	r.Register(models.MorphExtra, a.Extras.Repo)
	r.Register(models.MorphAlumni, a.Alumni.Repo)
	r.Register(models.MorphAchievement, a.Achievements.Repo)
	r.Register(models.MorphSlider, a.Sliders.Repo)
	r.Register(models.MorphSchedule, a.Schedules)
	r.Register(models.MorphSetting, morph.LoaderFunc(func(ctx context.Context, id uint) (models.Subject, error) {
		var s models.SettingModel
		if err := a.DB.WithContext(ctx).First(&s, id).Error; err != nil {
			return nil, apperr.FromDB("setting", id, err)
		}
		return &s, nil
	}))
}

// Handler returns a gin engine carrying the request middleware chain and a
// health probe. API routes are mounted on it by the caller.
func (a *App) Handler() *gin.Engine {
	if a.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.RequestContext())
	router.Use(middleware.Logger(a.Logger))
	router.Use(cors.New(corsConfig(a.Config)))
	router.Use(middleware.Errors())

	router.GET("/healthz", func(c *gin.Context) {
		status := http.StatusOK
		dbState := "ok"
		if sqlDB, err := a.DB.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status = http.StatusServiceUnavailable
			dbState = "down"
		}
		c.JSON(status, gin.H{"ok": status == http.StatusOK, "database": dbState, "uptime": humanizeDuration(time.Since(processStart))})
	})
	return router
}

// Close releases the database and redis connections.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.Logger.Warn("close redis failed", zap.Error(err))
		}
	}
	if a.DB != nil {
		if err := database.Close(a.DB); err != nil {
			a.Logger.Warn("close database failed", zap.Error(err))
		}
	}
}

var processStart = time.Now()
