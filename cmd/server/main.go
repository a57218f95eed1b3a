// Command server runs the OpsDesk dashboard and its JSON API.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"

	accountmod "github.com/dmitrymomot/opsdesk/modules/account"
	auditmod "github.com/dmitrymomot/opsdesk/modules/audit"
	buttonsmod "github.com/dmitrymomot/opsdesk/modules/buttons"
	"github.com/dmitrymomot/opsdesk/modules/images"
	inventorymod "github.com/dmitrymomot/opsdesk/modules/inventory"
	"github.com/dmitrymomot/opsdesk/modules/pages"
	toolsmod "github.com/dmitrymomot/opsdesk/modules/tools"
	"github.com/dmitrymomot/opsdesk/pkg/audit"
	"github.com/dmitrymomot/opsdesk/pkg/clientip"
	"github.com/dmitrymomot/opsdesk/pkg/config"
	"github.com/dmitrymomot/opsdesk/pkg/cookie"
	"github.com/dmitrymomot/opsdesk/pkg/file"
	"github.com/dmitrymomot/opsdesk/pkg/fingerprint"
	"github.com/dmitrymomot/opsdesk/pkg/httpserver"
	"github.com/dmitrymomot/opsdesk/pkg/logger"
	mongox "github.com/dmitrymomot/opsdesk/pkg/mongo"
	"github.com/dmitrymomot/opsdesk/pkg/ratelimiter"
	"github.com/dmitrymomot/opsdesk/pkg/rbac"
	"github.com/dmitrymomot/opsdesk/pkg/redis"
	"github.com/dmitrymomot/opsdesk/pkg/requestid"
	"github.com/dmitrymomot/opsdesk/pkg/secrets"
	"github.com/dmitrymomot/opsdesk/pkg/session"
	"github.com/dmitrymomot/opsdesk/svc/account"
	"github.com/dmitrymomot/opsdesk/svc/buttons"
	"github.com/dmitrymomot/opsdesk/svc/inventory"
	"github.com/dmitrymomot/opsdesk/svc/tools"
)

type appConfig struct {
	Logger    logger.Config
	HTTP      httpserver.Config
	Mongo     mongox.Config
	Redis     redis.Config
	Secrets   secrets.Config
	Cookie    cookie.Config
	Session   session.Config
	ClientIP  clientip.Config
	RateLimit ratelimiter.Config
	Files     file.Config
	Audit     audit.Config

	// The super-root account is created on startup when both are set.
	SuperRootUsername string        `env:"SUPER_ROOT_USERNAME"`
	SuperRootPassword string        `env:"SUPER_ROOT_PASSWORD"`
	TOTPIssuer        string        `env:"TOTP_ISSUER" envDefault:"OpsDesk"`
	HealthTimeout     time.Duration `env:"HEALTH_TIMEOUT" envDefault:"3s"`
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log, err := logger.NewFromConfig(cfg.Logger, logger.WithContextExtractors(requestid.LoggerExtractor()))
	if err != nil {
		slog.Error("invalid logger configuration", logger.Error(err))
		os.Exit(1)
	}

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("server stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	client, err := mongox.New(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn("mongo disconnect failed", logger.Error(err))
		}
	}()
	db := client.Database(cfg.Mongo.Database)

	checks := []httpserver.Check{{Name: "mongo", Fn: mongox.Healthcheck(client)}}

	limiterStore, rdb, err := rateLimitStore(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		checks = append(checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(rdb)})
	}
	bucket, err := ratelimiter.NewBucket(limiterStore, cfg.RateLimit)
	if err != nil {
		return err
	}
	ips := clientip.NewFromConfig(cfg.ClientIP)

	keys, err := secrets.KeyFromConfig(cfg.Secrets)
	if err != nil {
		return err
	}
	cipher, err := secrets.NewCipher(ctx, keys)
	if err != nil {
		return err
	}

	cookies, err := cookie.NewFromConfig(cfg.Cookie)
	if err != nil {
		return err
	}
	sessionOpts := []session.Option{session.WithLogger(log)}
	if cfg.Session.BindDevice {
		var fpOpts []fingerprint.Option
		if cfg.Session.BindIP {
			fpOpts = append(fpOpts, fingerprint.WithClientIP(ips))
		}
		sessionOpts = append(sessionOpts, session.WithDeviceBinding(fingerprint.New(fpOpts...)))
	}
	sessions := session.NewFromConfig(cookies, cfg.Session, sessionOpts...)

	imageStore, err := file.NewFromConfig(ctx, cfg.Files)
	if err != nil {
		return err
	}

	svcs, err := newServices(ctx, db, cipher, cfg, log)
	if err != nil {
		return err
	}

	if cfg.SuperRootUsername != "" && cfg.SuperRootPassword != "" {
		if err := svcs.accounts.EnsureSuperRoot(ctx, cfg.SuperRootUsername, cfg.SuperRootPassword); err != nil {
			return err
		}
	}

	authz := rbac.Default()
	limit := ratelimiter.Middleware(bucket, ratelimiter.ByIP(ips), ratelimiter.WithLogger(log))

	auditStore := audit.NewMongoStorage(db, audit.WithRetention(cfg.Audit.Retention))
	if err := auditStore.EnsureIndexes(ctx); err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(
		requestid.Middleware,
		httpserver.Recoverer(log),
		httpserver.AccessLog(log),
		ips.Middleware,
		sessions.Middleware(svcs.accounts),
	)
	if cfg.Audit.Enabled {
		writer, closeWriter := audit.NewAsyncWriter(auditStore, cfg.Audit.Async, log)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Audit.Async.StorageTimeout)
			defer cancel()
			if err := closeWriter(ctx); err != nil {
				log.Warn("audit events not flushed", logger.Error(err))
			}
		}()
		r.Use(audit.Middleware(audit.NewRecorder(writer,
			audit.WithLogger(log),
			audit.WithUserIDExtractor(session.UserIDFromContext),
			audit.WithRequestIDExtractor(requestid.FromContext),
			audit.WithIPExtractor(clientip.FromContext),
		)))
	}

	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(log, cfg.HealthTimeout, checks...))

	accountmod.Mount(r, accountmod.RouterOptions{
		Auth:      accountmod.NewAuthService(svcs.accounts, sessions, accountmod.WithLogger(log), accountmod.WithRateLimit(limit)),
		TwoFactor: accountmod.NewTwoFactorService(svcs.accounts, accountmod.WithLogger(log), accountmod.WithRateLimit(limit)),
		Users:     accountmod.NewUsersService(svcs.accounts, authz, accountmod.WithLogger(log)),
	})
	r.Mount("/buttons", buttonsmod.NewService(svcs.buttons, authz, buttonsmod.WithLogger(log)).Handle())
	r.Mount("/tools", toolsmod.NewService(svcs.tools, authz, toolsmod.WithLogger(log)).Handle())
	r.Mount("/store-items", inventorymod.NewService(svcs.inventory, authz, inventorymod.WithLogger(log)).Handle())
	r.Mount("/images", images.NewService(imageStore, authz, images.WithLogger(log)).Handle())
	r.Mount("/audit", auditmod.NewService(auditStore, authz, auditmod.WithLogger(log)).Handle())
	r.Mount("/", pages.NewService(authz).Handle())

	return httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log)).Run(ctx, r)
}

type services struct {
	accounts  *account.Service
	buttons   *buttons.Service
	tools     *tools.Service
	inventory *inventory.Service
}

// newServices builds the domain services and their indexes.
func newServices(ctx context.Context, db *mongo.Database, cipher *secrets.Cipher, cfg appConfig, log *slog.Logger) (*services, error) {
	users := account.NewMongoStorage(db)
	buttonStore := buttons.NewMongoStorage(db)
	toolStore := tools.NewMongoStorage(db)
	items := inventory.NewMongoStorage(db)

	for _, idx := range []interface{ EnsureIndexes(context.Context) error }{users, buttonStore, toolStore, items} {
		if err := idx.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
	}

	toolSvc := tools.New(toolStore, tools.WithLogger(log))
	return &services{
		accounts:  account.New(users, cipher, account.WithLogger(log), account.WithIssuer(cfg.TOTPIssuer)),
		buttons:   buttons.New(buttonStore, buttons.WithLogger(log), buttons.WithToolLookup(toolSvc.Exists)),
		tools:     toolSvc,
		inventory: inventory.New(items, cipher, inventory.WithLogger(log)),
	}, nil
}

// rateLimitStore shares limits through Redis when it is configured and
// keeps them in memory otherwise.
func rateLimitStore(ctx context.Context, cfg redis.Config) (ratelimiter.Store, *goredis.Client, error) {
	if !cfg.Enabled() {
		return ratelimiter.NewMemoryStore(), nil, nil
	}
	rdb, err := redis.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return ratelimiter.NewRedisStore(rdb), rdb, nil
}
