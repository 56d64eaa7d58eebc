package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/edupath/internal/app/auth"
	appControllers "github.com/yigit/edupath/internal/app/controllers"
	appMigrations "github.com/yigit/edupath/internal/app/migrations"
	appRepos "github.com/yigit/edupath/internal/app/repositories"
	appRoutes "github.com/yigit/edupath/internal/app/routes"
	appServices "github.com/yigit/edupath/internal/app/services"
	"github.com/yigit/edupath/internal/config"
	"github.com/yigit/edupath/internal/db"
	appMiddleware "github.com/yigit/edupath/internal/middleware"
	pkgAuth "github.com/yigit/edupath/internal/pkg/auth"
	"github.com/yigit/edupath/internal/pkg/email"
	"github.com/yigit/edupath/internal/pkg/events"
	"github.com/yigit/edupath/internal/pkg/filestorage"
	"github.com/yigit/edupath/internal/pkg/i18n"
	"github.com/yigit/edupath/internal/pkg/kvstore"
	"github.com/yigit/edupath/internal/pkg/logger"
	"github.com/yigit/edupath/internal/pkg/remote"
	"github.com/yigit/edupath/internal/pkg/retry"
	"github.com/yigit/edupath/internal/pkg/websocket"
	"github.com/yigit/edupath/internal/seed"
)

// Infrastructure holds the external resources the application talks to
type Infrastructure struct {
	DB        *db.PostgresDB // nil with the memory driver
	KV        kvstore.Store
	Storage   filestorage.FileStorage
	Publisher events.Publisher
}

// Close releases every resource, collecting the errors
func (i *Infrastructure) Close() error {
	var err error
	if i.Publisher != nil {
		err = errors.Join(err, i.Publisher.Close())
	}
	if i.KV != nil {
		err = errors.Join(err, i.KV.Close())
	}
	if i.DB != nil {
		i.DB.Close()
	}
	return err
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos        *appRepos.Repositories
	JWTService   *pkgAuth.JWTService
	AuthzService *appAuth.AuthorizationService

	AuthService         *appServices.AuthService
	NotificationService *appServices.NotificationService
	SubmissionService   *appServices.SubmissionService
	ApplicationService  *appServices.ApplicationService
	WizardService       *appServices.WizardService
	MessageService      *appServices.MessageService
	CatalogService      appServices.CatalogService

	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	FormLimiter    appMiddleware.Limiter
	Hub            *websocket.Hub
	WSHandler      *websocket.Handler
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = filepath.Join("configs", "config.yaml")
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.EqualFold(cfg.Logging.Format, "text"),
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Str("host", cfg.Database.Host).Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, lgr)
	if err := migrator.Migrate(ctx, appMigrations.Files()); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return database, nil
}

// SetupKVStore connects to Redis, or keeps everything in process when it is disabled.
func SetupKVStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (kvstore.Store, error) {
	if !cfg.Redis.Enabled {
		lgr.Warn().Msg("Redis disabled, applications and drafts are kept in memory")
		return kvstore.NewMemoryStore(), nil
	}

	store, err := kvstore.NewRedisStore(ctx, kvstore.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		lgr.Error().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to Redis")
		return nil, err
	}
	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connection established")
	return store, nil
}

// SetupStorage initializes file storage for the configured driver
func SetupStorage(cfg *config.Config, lgr zerolog.Logger) (filestorage.FileStorage, error) {
	switch cfg.Storage.Driver {
	case "s3":
		storage, err := filestorage.NewS3Storage(filestorage.S3Config{
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			UseSSL:    cfg.Storage.UseSSL,
			PublicURL: cfg.Storage.PublicURL,
		})
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to initialize S3 storage")
			return nil, fmt.Errorf("failed to initialize file storage: %w", err)
		}
		lgr.Info().Str("bucket", cfg.Storage.Bucket).Msg("S3 storage ready")
		return storage, nil
	default:
		// must match the static file serving URL path
		baseURL := strings.TrimRight(cfg.Server.PublicBaseURL, "/") + "/uploads"
		storage, err := filestorage.NewLocalStorage(cfg.Storage.LocalPath, baseURL)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to initialize file storage")
			return nil, fmt.Errorf("failed to initialize file storage: %w", err)
		}
		return storage, nil
	}
}

// SetupPublisher connects to RabbitMQ when the broker is enabled
func SetupPublisher(cfg *config.Config, lgr zerolog.Logger) (events.Publisher, error) {
	if !cfg.Broker.Enabled {
		return events.NopPublisher{}, nil
	}

	publisher, err := events.NewRabbitMQPublisher(cfg.Broker.URL, cfg.Broker.Exchange, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to the message broker")
		return nil, err
	}
	lgr.Info().Str("exchange", cfg.Broker.Exchange).Msg("Message broker connected")
	return publisher, nil
}

// SetupInfrastructure opens every external resource. On failure the ones
// already opened are closed again.
func SetupInfrastructure(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Infrastructure, error) {
	infra := &Infrastructure{}
	var err error

	if cfg.Database.Driver == "postgres" {
		if infra.DB, err = SetupDatabase(ctx, cfg, lgr); err != nil {
			return nil, err
		}
	} else {
		lgr.Warn().Msg("Using the in-memory database driver, data is lost on restart")
	}

	if infra.KV, err = SetupKVStore(ctx, cfg, lgr); err != nil {
		infra.Close()
		return nil, err
	}

	if infra.Storage, err = SetupStorage(cfg, lgr); err != nil {
		infra.Close()
		return nil, err
	}

	if infra.Publisher, err = SetupPublisher(cfg, lgr); err != nil {
		infra.Close()
		return nil, err
	}

	return infra, nil
}

// NewRepositories picks the repository driver matching the infrastructure
func NewRepositories(cfg *config.Config, infra *Infrastructure) *appRepos.Repositories {
	draftTTL := config.Duration(cfg.Submission.DraftTTL)

	var pool *pgxpool.Pool
	if infra.DB != nil {
		pool = infra.DB.Pool
	}
	if pool == nil {
		return appRepos.NewMemoryRepositories(infra.KV, draftTTL)
	}
	return appRepos.NewPostgresRepositories(pool, infra.KV, draftTTL)
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(ctx context.Context, cfg *config.Config, infra *Infrastructure, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}
	deps.Repos = NewRepositories(cfg, infra)

	if cfg.Database.Seed {
		if err := seed.CreateDefaultData(ctx, deps.Repos, seed.Admin{
			Email:    cfg.Database.AdminEmail,
			Password: cfg.Database.AdminPassword,
		}, lgr); err != nil {
			// Log the error but don't fail the startup
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: config.Duration(cfg.JWT.AccessTokenExpiration),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.AuthzService = appAuth.NewAuthorizationService(deps.Repos.Notifications, deps.Repos.Messages)

	mailer := email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
		AgencyTo:  cfg.SMTP.AgencyTo,
	}, lgr)

	remoteClient := remote.NewClient(remote.Config{
		Endpoint:     cfg.Submission.APIEndpoint,
		Timeout:      config.Duration(cfg.Submission.RequestTimeout),
		TotalTimeout: config.Duration(cfg.Submission.TotalTimeout),
		Policy: retry.Policy{
			MaxRetries:      cfg.Submission.MaxRetries,
			InitialInterval: config.Duration(cfg.Submission.InitialBackoff),
			Multiplier:      2,
			MaxInterval:     config.Duration(cfg.Submission.MaxBackoff),
		},
	}, nil, lgr)
	if !remoteClient.Configured() {
		lgr.Warn().Msg("No admissions API endpoint configured, submissions are saved locally only")
	}

	deps.Hub = websocket.NewHub(lgr)
	maxUploadMB := cfg.Storage.MaxSizeMB
	delays := cfg.MessagingDelayRange()

	deps.AuthService = appServices.NewAuthService(deps.Repos.Users, deps.JWTService, lgr)
	deps.NotificationService = appServices.NewNotificationService(deps.Repos.Notifications, deps.Repos.Users, deps.AuthzService, lgr)
	deps.SubmissionService = appServices.NewSubmissionService(deps.Repos, remoteClient, deps.NotificationService, mailer, infra.Publisher, lgr)
	deps.ApplicationService = appServices.NewApplicationService(deps.Repos.Applications, deps.AuthzService, deps.NotificationService, infra.Publisher, lgr)
	deps.WizardService = appServices.NewWizardService(deps.Repos, deps.SubmissionService, infra.Storage, maxUploadMB, deps.AuthzService, lgr)
	deps.MessageService = appServices.NewMessageService(
		deps.Repos,
		deps.AuthzService,
		infra.Storage,
		maxUploadMB,
		deps.Hub,
		infra.Publisher,
		deps.NotificationService,
		appServices.AutoReplyConfig{
			Enabled:  cfg.Messaging.AutoReply,
			MinDelay: delays.Min,
			MaxDelay: delays.Max,
		},
		lgr,
	)
	deps.CatalogService = appServices.NewCatalogService(deps.Repos.Universities, deps.Repos.Programs)
	deps.Hub.SetInboundHandler(deps.MessageService)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)
	deps.FormLimiter = newFormLimiter(cfg, infra)

	messageController := appControllers.NewMessageController(deps.MessageService, lgr)
	deps.Controllers = appRoutes.Controllers{
		Auth:         appControllers.NewAuthController(deps.AuthService, lgr),
		Wizard:       appControllers.NewWizardController(deps.WizardService, lgr),
		Application:  appControllers.NewApplicationController(deps.ApplicationService, deps.SubmissionService, lgr),
		Notification: appControllers.NewNotificationController(deps.NotificationService, lgr),
		Message:      messageController,
		Catalog:      appControllers.NewCatalogController(deps.CatalogService, lgr),
		Agent:        appControllers.NewAgentController(appServices.NewAgentService(deps.Repos.Agents), lgr),
		Student:      appControllers.NewStudentController(appServices.NewStudentService(deps.Repos.Users, deps.Repos.Applications)),
		Analytics:    appControllers.NewAnalyticsController(appServices.NewAnalyticsService(deps.Repos)),
		Contact:      appControllers.NewContactController(appServices.NewContactService(mailer, lgr)),
		Document:     appControllers.NewDocumentController(appServices.NewDocumentService(infra.Storage, maxUploadMB, lgr)),
	}
	deps.WSHandler = websocket.NewHandler(deps.Hub, messageController.Authorize, cfg.Origins(), lgr)

	return deps, nil
}

// newFormLimiter shares counters through Redis when it is available
func newFormLimiter(cfg *config.Config, infra *Infrastructure) appMiddleware.Limiter {
	window := config.Duration(cfg.RateLimit.Window)
	if cfg.Redis.Enabled && infra.KV != nil {
		return appMiddleware.NewStoreLimiter(infra.KV, cfg.RateLimit.Requests, window)
	}
	return appMiddleware.NewLocalLimiter(cfg.RateLimit.Requests, window)
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	defaultLang, ok := i18n.Parse(cfg.Locale.Default)
	if !ok {
		lgr.Warn().Str("locale", cfg.Locale.Default).Msg("Unsupported default locale, falling back to Arabic")
		defaultLang = i18n.Default
	}

	router := gin.New()
	router.MaxMultipartMemory = int64(cfg.Storage.MaxSizeMB) << 20
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestLogger(lgr),
		appMiddleware.CORS(cfg.Origins()),
		appMiddleware.Locale(defaultLang),
	)

	if !cfg.IsProduction() {
		appRoutes.SetupSwagger(router)
	}

	formLimiter := appMiddleware.RateLimit(deps.FormLimiter, config.Duration(cfg.RateLimit.Window))
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, formLimiter, deps.WSHandler)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
