package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"mycareerlist/analytics"
	"mycareerlist/config"
	"mycareerlist/handler"
	"mycareerlist/messaging"
	"mycareerlist/repository"
	"mycareerlist/service"
	"mycareerlist/utils"
	"mycareerlist/worker/expiration"
)

type Application struct {
	cfg       *config.GlobalConfig
	db        *gorm.DB
	publisher *messaging.Publisher
	views     *analytics.Client
	services  handler.Services
	seed      *service.SeedService
	server    *http.Server
	stopSweep context.CancelFunc
}

func NewApplication(cfg *config.GlobalConfig) *Application {
	return &Application{cfg: cfg}
}

func setupLogging(cfg config.LogConfig) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if cfg.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// InitDatabase opens the store and migrates the schema
func (app *Application) InitDatabase() error {
	log.Infof("connecting to %s database", app.cfg.Database.Driver)

	db, err := repository.Open(app.cfg.Database)
	if err != nil {
		return err
	}
	app.db = db

	if err := repository.AutoMigrate(db); err != nil {
		return err
	}
	log.Info("database schema migrated")
	return nil
}

// InitServices wires repositories, adapters and services
func (app *Application) InitServices() error {
	if err := app.InitDatabase(); err != nil {
		return fmt.Errorf("init database: %w", err)
	}

	var notifier service.Notifier = service.NoopNotifier{}
	if app.cfg.Nats.URL != "" {
		publisher, err := messaging.NewPublisher(app.cfg.Nats)
		if err != nil {
			return fmt.Errorf("init nats: %w", err)
		}
		app.publisher = publisher
		notifier = publisher
		log.Infof("publishing events to %s", app.cfg.Nats.URL)
	}

	var views service.ViewTracker = service.NoopViewTracker{}
	if app.cfg.ClickHouse.Addr != "" {
		client, err := analytics.NewClient(app.cfg.ClickHouse)
		if err != nil {
			return fmt.Errorf("init clickhouse: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.CreateTable(ctx); err != nil {
			return fmt.Errorf("create job_views table: %w", err)
		}
		app.views = client
		views = client
		log.Infof("recording job views in clickhouse at %s", app.cfg.ClickHouse.Addr)
	}

	jobRepo := repository.NewJobRepository(app.db)
	companyRepo := repository.NewCompanyRepository(app.db)
	reviewRepo := repository.NewReviewRepository(app.db)
	userRepo := repository.NewUserRepository(app.db)

	baseURL := app.cfg.Server.BaseURL
	jobs := service.NewJobService(jobRepo, companyRepo, reviewRepo, views, app.db, app.cfg.Listing)
	companies := service.NewCompanyService(companyRepo, jobRepo, reviewRepo, app.db, app.cfg.Listing)

	app.services = handler.Services{
		Jobs:       jobs,
		Companies:  companies,
		Users:      service.NewUserService(userRepo, jobRepo, jobs, companies),
		Payments:   service.NewPaymentService(jobRepo, notifier, app.db, baseURL),
		Expiration: service.NewExpirationService(jobRepo, app.cfg.Expiration.Window),
		Mail:       service.NewMailService(jobRepo, userRepo, notifier, app.db, app.cfg.Mail, baseURL),
	}
	app.seed = service.NewSeedService(userRepo, companyRepo, jobRepo)

	log.Info("services initialised")
	return nil
}

// Seed imports companies and jobs from a YAML file
func (app *Application) Seed(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	result, err := app.seed.Import(ctx, f)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"companies": result.Companies, "jobs": result.Jobs}).Info("seed imported")
	return nil
}

// Expire runs a single expiration sweep
func (app *Application) Expire(ctx context.Context) error {
	count, err := expiration.RunOnce(ctx, app.services.Expiration)
	if err != nil {
		return err
	}
	log.Infof("expired %d jobs", count)
	return nil
}

// Start serves HTTP and, when configured, the in-process expiration ticker
func (app *Application) Start() error {
	if interval := app.cfg.Expiration.Interval; interval > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		app.stopSweep = cancel
		go expiration.Schedule(ctx, app.services.Expiration, interval)
		log.Infof("expiration sweep every %s", interval)
	}

	app.server = &http.Server{
		Addr:              app.cfg.Server.Addr,
		Handler:           handler.New(app.services, app.cfg.Server),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Infof("listening on %s", app.cfg.Server.Addr)
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server failed: %v", err)
		}
	}()
	return nil
}

// Stop releases everything Start and InitServices acquired
func (app *Application) Stop(ctx context.Context) {
	if app.stopSweep != nil {
		app.stopSweep()
	}
	if app.server != nil {
		if err := app.server.Shutdown(ctx); err != nil {
			log.Warnf("http shutdown: %v", err)
		}
	}
	if app.publisher != nil {
		app.publisher.Close()
	}
	if app.views != nil {
		if err := app.views.Close(); err != nil {
			log.Warnf("close clickhouse: %v", err)
		}
	}
	if app.db != nil {
		if err := repository.Close(app.db); err != nil {
			log.Warnf("close database: %v", err)
		}
	}
	log.Info("application stopped")
}

func (app *Application) waitForShutdown() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	sig := <-sigChan
	log.Infof("received %v, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	app.Stop(ctx)
}

func main() {
	configDir := flag.String("config", "", "directory containing config.yaml")
	seedFile := flag.String("seed", "", "import companies and jobs from a YAML file and exit")
	expireOnce := flag.Bool("expire", false, "run one expiration sweep and exit")
	flag.Parse()

	cfg, err := config.InitConfig(utils.ResolveConfigDir(*configDir))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	setupLogging(cfg.Log)

	app := NewApplication(cfg)
	if err := app.InitServices(); err != nil {
		log.Fatalf("init services: %v", err)
	}

	switch {
	case *seedFile != "":
		err = app.Seed(context.Background(), *seedFile)
	case *expireOnce:
		err = app.Expire(context.Background())
	default:
		if err = app.Start(); err == nil {
			app.waitForShutdown()
			return
		}
	}

	app.Stop(context.Background())
	if err != nil {
		log.Fatal(err)
	}
}
