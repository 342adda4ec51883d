package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	accountcache "portfolio/internal/account/adapters/cache"
	accounthttp "portfolio/internal/account/adapters/http"
	"portfolio/internal/account/adapters/http/account"
	"portfolio/internal/account/adapters/mailer"
	"portfolio/internal/account/adapters/media"
	"portfolio/internal/account/adapters/postgres"
	"portfolio/internal/account/adapters/resilience"
	"portfolio/internal/account/adapters/services"
	"portfolio/internal/account/app"
	"portfolio/internal/account/config"
	"portfolio/internal/account/db"
	domainservices "portfolio/internal/account/domain/services"
	"portfolio/internal/account/ports/cache"
	svc "portfolio/internal/account/ports/services"
	"portfolio/pkg/db/redis"
	"portfolio/pkg/logger"
	"portfolio/pkg/shutdown"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "ACCOUNT_LOGGER_MODE"
	EnvLoggerLevel = "ACCOUNT_LOGGER_LEVEL"
	EnvConfigPath  = "ACCOUNT_CONFIG_PATH"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrInitDatabase         = "failed to initialize database"
	ErrCreateRedisClient    = "failed to create Redis client"
	ErrCreateStorageClient  = "failed to create storage client"
	ErrCreateMailClient     = "failed to create SMTP client"
	ErrStartHTTPServer      = "failed to start HTTP server"
	ErrShutdown             = "graceful shutdown finished with errors"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "account service started"
	LogServiceShutdownDone = "account service shutdown complete"
	LogStoppingHTTP        = "stopping HTTP server"
	LogInitDatabase        = "initializing database"
	LogInitCache           = "initializing cache"
	LogCacheDisabled       = "owner cache disabled"
	LogInitStorage         = "initializing media storage"
	LogInitMail            = "initializing mail delivery"
	LogMailDisabled        = "smtp host is not set, emails are written to log"
	LogInitServices        = "initializing services"
	LogInitHTTPServer      = "initializing HTTP server"
	LogStartingHTTP        = "starting HTTP server"
	LogOwnerNotConfigured  = "PORTFOLIO_OWNER_ID is not set, portfolio-owner endpoint returns 404"
)

func main() {
	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == "production" {
		env = logger.Production
	}

	log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}

	logger.SetGlobalLogger(log)

	ctx := logger.NewRequestIDContext(context.Background(), "")

	var exitCode int

	func() {
		defer func() {
			if err := log.Sync(); err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
					return
				}
				if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
					panic(writeErr)
				}
			}
		}()

		cfg, err := config.Load(ctx, os.Getenv(EnvConfigPath))
		if err != nil {
			log.Error(ctx, ErrLoadConfig, zap.Error(err))
			if _, writeErr := fmt.Fprintln(os.Stderr, config.Usage()); writeErr != nil {
				log.Warn(ctx, "failed to print usage", zap.Error(writeErr))
			}
			exitCode = 1
			return
		}

		finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
		if err != nil {
			log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
			exitCode = 1
			return
		}
		logger.SetGlobalLogger(finalLogger)
		log = finalLogger

		log.Info(ctx, LogServiceStarted,
			zap.String("environment", string(cfg.Logging.GetEnvironment())),
			zap.String("log_level", cfg.Logging.Level),
			zap.String("startup_time", time.Now().Format(time.RFC3339)))

		log.Info(ctx, LogInitDatabase)
		database, err := db.New(ctx, &cfg.Postgres)
		if err != nil {
			log.Error(ctx, ErrInitDatabase, zap.Error(err))
			exitCode = 1
			return
		}
		repositories := postgres.NewRepositoryFactory(database.Pool())

		var ownerCache cache.Cache
		if cfg.Redis.Enabled {
			log.Info(ctx, LogInitCache)
			redisClient, err := redis.NewClient(ctx, cfg.Redis.ToClientConfig())
			if err != nil {
				log.Error(ctx, ErrCreateRedisClient, zap.Error(err))
				closeDatabase(ctx, database)
				exitCode = 1
				return
			}
			ownerCache = accountcache.NewRedisCache(redisClient, cfg.Redis.KeyPrefix, cfg.Portfolio.OwnerCacheTTL)
		} else {
			log.Info(ctx, LogCacheDisabled)
		}

		resilienceCfg := resilienceConfig(&cfg.Resilience)

		log.Info(ctx, LogInitStorage, zap.String("bucket", cfg.Storage.Bucket))
		s3Client, err := media.NewS3Client(ctx, media.ClientConfig{
			Endpoint:     cfg.Storage.Endpoint,
			Region:       cfg.Storage.Region,
			AccessKey:    cfg.Storage.AccessKey,
			SecretKey:    cfg.Storage.SecretKey,
			UsePathStyle: cfg.Storage.UsePathStyle,
		})
		if err != nil {
			log.Error(ctx, ErrCreateStorageClient, zap.Error(err))
			closeDatabase(ctx, database)
			exitCode = 1
			return
		}
		mediaStore := resilience.NewMediaStore(
			media.NewS3Store(s3Client, cfg.Storage.Bucket, cfg.Storage.PublicURL),
			resilience.NewServiceResilience("media-store", resilienceCfg))

		log.Info(ctx, LogInitMail)
		var notifier svc.Notifier = mailer.LogNotifier{}
		if cfg.Mail.Enabled() {
			mailCfg := mailer.Config{
				Host:      cfg.Mail.Host,
				Port:      cfg.Mail.Port,
				AuthType:  cfg.Mail.AuthType,
				Username:  cfg.Mail.Username,
				Password:  cfg.Mail.Password,
				SSL:       cfg.Mail.SSL,
				TLSPolicy: cfg.Mail.TLSPolicy,
				Timeout:   cfg.Mail.Timeout,
			}
			// Проверка параметров до старта: клиенты создаются на каждое письмо.
			if _, err := mailer.NewClient(mailCfg); err != nil {
				log.Error(ctx, ErrCreateMailClient, zap.Error(err))
				closeDatabase(ctx, database)
				exitCode = 1
				return
			}
			notifier = mailer.NewSMTPNotifier(mailer.NewClientFactory(mailCfg), cfg.Mail.From)
		} else {
			log.Warn(ctx, LogMailDisabled)
		}
		notifier = resilience.NewNotifier(notifier, resilience.NewServiceResilience("notifier", resilienceCfg))

		if cfg.Portfolio.OwnerID == "" {
			log.Warn(ctx, LogOwnerNotConfigured)
		}

		log.Info(ctx, LogInitServices)
		serviceFactory := services.NewServiceFactory(domainservices.JWTConfig{
			SecretKey:  []byte(cfg.JWT.SecretKey),
			SessionTTL: cfg.JWT.SessionTTL,
			Issuer:     cfg.JWT.Issuer,
		}, cfg.JWT.BCryptCost, cfg.Reset.TokenTTL)

		accountUseCase := app.NewAccountUseCase(
			repositories.UserRepository(),
			serviceFactory.PasswordService(),
			serviceFactory.TokenService(),
			mediaStore,
			ownerCache,
			app.AccountConfig{OwnerID: cfg.Portfolio.OwnerID, OwnerCacheTTL: cfg.Portfolio.OwnerCacheTTL},
		)
		passwordUseCase := app.NewPasswordUseCase(
			repositories.UserRepository(),
			serviceFactory.PasswordService(),
			serviceFactory.TokenService(),
			serviceFactory.ResetTokens(),
			notifier,
			mailer.NewTemplateRegistry(),
			app.PasswordConfig{DashboardURL: cfg.Reset.DashboardURL},
		)

		log.Info(ctx, LogInitHTTPServer)
		server := accounthttp.NewApp(fiber.Config{
			AppName:      "portfolio-account",
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
			IdleTimeout:  cfg.HTTP.IdleTimeout,
			BodyLimit:    cfg.HTTP.BodyLimit,
		})
		accounthttp.SetupRouter(server, accounthttp.RouterDeps{
			Accounts:       accountUseCase,
			Passwords:      passwordUseCase,
			Health:         repositories,
			Cookies:        account.CookieSettings{Secure: cfg.Cookie.Secure, Domain: cfg.Cookie.Domain},
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
		})

		log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.GetAddress()))
		go func() {
			if err := server.Listen(cfg.HTTP.GetAddress(), fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
				log.Error(ctx, ErrStartHTTPServer, zap.Error(err))
			}
		}()

		hooks := []shutdown.Hook{
			// Остановка HTTP сервера.
			func(ctx context.Context) error {
				log.Info(ctx, LogStoppingHTTP)
				return server.ShutdownWithContext(ctx)
			},
			// Закрытие пула соединений.
			func(ctx context.Context) error {
				log.Info(ctx, "Closing database")
				return database.Close(ctx)
			},
		}
		if ownerCache != nil {
			hooks = append(hooks, func(ctx context.Context) error {
				log.Info(ctx, "Closing Redis connection")
				return ownerCache.Close()
			})
		}

		if err := shutdown.Wait(ctx, cfg.Shutdown.GetTimeout(), hooks...); err != nil {
			log.Error(ctx, ErrShutdown, zap.Error(err))
			exitCode = 1
		}

		log.Info(ctx, LogServiceShutdownDone)
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

func resilienceConfig(cfg *config.ResilienceConfig) resilience.Config {
	res := resilience.DefaultConfig()
	res.Retry.MaxAttempts = cfg.RetryAttempts
	res.Retry.InitialBackoff = cfg.InitialBackoff
	res.Retry.MaxBackoff = cfg.MaxBackoff
	res.CircuitBreaker.ErrorThreshold = cfg.BreakerThreshold
	res.CircuitBreaker.Timeout = cfg.BreakerTimeout
	return res
}

func closeDatabase(ctx context.Context, database *db.DB) {
	if err := database.Close(ctx); err != nil {
		logger.Log(ctx).Warn(ctx, "failed to close database", zap.Error(err))
	}
}
