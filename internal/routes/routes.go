package routes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/authbase/authbase/internal/apperr"
	"github.com/authbase/authbase/internal/auth"
	"github.com/authbase/authbase/internal/config"
	"github.com/authbase/authbase/internal/middleware"
	"github.com/authbase/authbase/internal/notification"
	"github.com/authbase/authbase/internal/otp"
	"github.com/authbase/authbase/internal/password"
	"github.com/authbase/authbase/internal/storage"
	"github.com/authbase/authbase/internal/token"
	"github.com/authbase/authbase/internal/user"
)

// Deps aggregates shared dependencies required to wire routes. Notifier and
// Blobs may be pre-set (tests use recording doubles); when nil they are
// built from config.
type Deps struct {
	Cfg      config.Config
	DB       *pgxpool.Pool
	Cache    *redis.Client
	Logger   *slog.Logger
	Notifier notification.Notifier
	Blobs    storage.BlobStore
}

// ErrorHandler maps service error kinds to HTTP statuses so handlers can
// return errors unwrapped. Wire it as the Fiber ErrorHandler.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if status, ok := apperr.Status(err); ok {
		return c.Status(status).JSON(fiber.Map{"message": err.Error()})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal server error"})
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	// Collaborators
	var userRepo user.Repository
	if d.DB != nil {
		userRepo = user.NewPostgresRepository(d.DB)
	} else {
		userRepo = user.NewMemoryRepository()
	}

	notifier := d.Notifier
	if notifier == nil {
		if d.Cfg.SMTPConfigured() {
			notifier = notification.NewSMTPNotifier(notification.SMTPConfig{
				Host:     d.Cfg.EmailHost,
				Port:     d.Cfg.EmailPort,
				Username: d.Cfg.EmailUser,
				Password: d.Cfg.EmailPassword,
				From:     d.Cfg.EmailFrom,
			})
		} else {
			notifier = notification.NewLoggerNotifier(d.Logger)
		}
	}

	blobs := d.Blobs
	if blobs == nil {
		if d.Cfg.S3Configured() {
			s3Store, err := storage.NewS3Store(context.Background(), storage.S3Config{
				Bucket:    d.Cfg.S3Bucket,
				Region:    d.Cfg.S3Region,
				Endpoint:  d.Cfg.S3Endpoint,
				AccessKey: d.Cfg.S3AccessKey,
				SecretKey: d.Cfg.S3SecretKey,
			})
			if err != nil {
				return err
			}
			blobs = s3Store
		} else {
			localStore, err := storage.NewLocalStore(d.Cfg.UploadDir)
			if err != nil {
				return err
			}
			blobs = localStore
			app.Static("/uploads", localStore.Dir())
		}
	}

	hasher := password.NewBcrypt()
	users := user.NewService(userRepo, hasher)
	otps := otp.NewManager(userRepo, notifier, d.Cfg.OTPTTL, d.Logger)
	tokens := token.NewIssuer(d.Cfg.JWTSecret, d.Cfg.RefreshSecret, d.Cfg.AccessTokenTTL, d.Cfg.RefreshTokenTTL)
	authSvc := auth.NewService(users, hasher, otps, tokens, d.Logger)
	authHandler := auth.NewHandler(authSvc)

	RegisterHealthRoutes(app, d)

	api := app.Group("/api/v1")

	// Public routes go in before the JWT group so its middleware does not
	// cover them.
	rateLimiter := middleware.AuthRateLimit(d.Cache, d.Cfg.RateLimitPerMin)
	RegisterAuthRoutes(api, authHandler, rateLimiter)
	RegisterUserRoutes(api, authSvc)

	protected := api.Group("", middleware.JWTAuth(tokens))
	RegisterProtectedUserRoutes(protected, users)
	RegisterUploadRoutes(protected, blobs, d.Cfg.MaxUploadSize)

	return nil
}
