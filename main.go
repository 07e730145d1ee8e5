// @title           Precast Catalog API
// @version         1.0
// @description     Product configurator, cart, projects and quotation workflow for precast concrete products.

// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @schemes http https
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"precastcatalog/config"
	"precastcatalog/configurator"
	"precastcatalog/docs"
	"precastcatalog/handlers"
	"precastcatalog/middleware"
	"precastcatalog/services"
	"precastcatalog/storage"
	"precastcatalog/utils"
)

func CORSConfig(cfg *config.Config) cors.Config {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Content-Type", "Content-Length", "Accept-Encoding", "Accept", "Origin",
		"X-Requested-With", "Authorization", "User-Agent", "Cache-Control", "X-Request-ID",
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD"}
	corsConfig.ExposeHeaders = []string{
		"Content-Length", "Content-Disposition", "X-Request-ID", "Retry-After",
		"X-RateLimit-Limit", "X-RateLimit-Remaining",
	}
	corsConfig.MaxAge = 12 * time.Hour
	return corsConfig
}

// app wires the store, services and documents shared by every command.
type app struct {
	cfg          *config.Config
	log          *zap.Logger
	kv           storage.KV
	redis        *redis.Client
	configurator *configurator.Configurator
	auth         *services.AuthService
	users        *services.UserAdminService
	projects     *services.ProjectService
	cart         *services.CartService
	quotes       *services.QuoteService
	documents    *services.DocumentService
}

func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := utils.NewLogger(cfg.LogLevel, cfg.IsDevelopment())
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func loadConfigurator(cfg *config.Config) (*configurator.Configurator, error) {
	if cfg.CatalogPath == "" {
		return configurator.New(nil), nil
	}
	catalog, err := configurator.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	return configurator.New(catalog), nil
}

func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	cfgr, err := loadConfigurator(cfg)
	if err != nil {
		return nil, err
	}

	kv, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log, kv: kv, configurator: cfgr}
	if rkv, ok := kv.(*storage.RedisKV); ok {
		a.redis = rkv.Client()
	} else if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			_ = kv.Close()
			return nil, fmt.Errorf("parsing REDIS_URL: %w", err)
		}
		a.redis = redis.NewClient(opts)
	}

	currency := cfgr.Catalog().Currency
	email := services.NewEmailService(services.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		AppURL:   cfg.AppURL,
		Currency: currency,
	}, log)
	if !cfg.SMTPEnabled() {
		log.Info("[Email] SMTP_HOST not set, quotation emails are disabled")
	}

	repos := services.NewRepositories(kv, cfg.StoreTimeout, log)
	a.auth = services.NewAuthService(repos, utils.NewTokenIssuer(cfg.JWTSecret), services.AuthConfig{
		SessionTTL: cfg.SessionTTL,
		BcryptCost: cfg.BcryptCost,
	}, log)
	a.users = services.NewUserAdminService(repos, cfg.BcryptCost, log)
	a.projects = services.NewProjectService(repos, log)
	a.cart = services.NewCartService(repos, cfgr, log)
	a.quotes = services.NewQuoteService(repos, email, log)
	a.documents = services.NewDocumentService(cfg.AppURL, currency)
	return a, nil
}

func (a *app) Close() {
	if a.redis != nil {
		if _, shared := a.kv.(*storage.RedisKV); !shared {
			_ = a.redis.Close()
		}
	}
	if err := a.kv.Close(); err != nil {
		a.log.Warn("[Storage] close failed", zap.Error(err))
	}
}

func (a *app) router() (*gin.Engine, error) {
	if !a.cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.RegisterValidations(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(middleware.Recovery(a.log), middleware.RequestLogger(a.log), cors.New(CORSConfig(a.cfg)))

	handlers.RegisterRoutes(r, handlers.Deps{
		Configurator: a.configurator,
		Auth:         a.auth,
		Users:        a.users,
		Projects:     a.projects,
		Cart:         a.cart,
		Quotes:       a.quotes,
		Documents:    a.documents,
		AuthLimiter:  middleware.NewRateLimiter(a.redis, a.cfg.AuthRateLimit, a.cfg.AuthRatePeriod, "auth", a.log),
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if err := docs.Register(r); err != nil {
		return nil, fmt.Errorf("building swagger doc: %w", err)
	}
	return r, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.auth.EnsureSuperAdmin(ctx, cfg.SuperAdminPassword); err != nil {
		return err
	}

	r, err := a.router()
	if err != nil {
		return err
	}

	sched := services.NewScheduler(log)
	if err := sched.Add(cfg.SessionPurgeSpec, services.SessionPurgeJob(a.auth, log)); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("[Server] listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		sched.Start()
		<-gctx.Done()
		log.Info("[Server] shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		schedErr := sched.Stop(shutdownCtx)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return schedErr
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("[Server] exited")
	return nil
}

var rootCmd = &cobra.Command{
	Use:           "precastcatalog",
	Short:         "Precast product catalog, cart and quotation service",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and background jobs (default)",
	RunE:  runServe,
}

func main() {
	rootCmd.AddCommand(serveCmd, calcCmd, exportQuotesCmd, seedAdminCmd)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
