package app

import (
	"context"

	"github.com/solguard/scan-orchestrator/config"
	"github.com/solguard/scan-orchestrator/internal/analyzer"
	"github.com/solguard/scan-orchestrator/internal/batch"
	batchPort "github.com/solguard/scan-orchestrator/internal/batch/port"
	"github.com/solguard/scan-orchestrator/internal/enrich"
	"github.com/solguard/scan-orchestrator/internal/scan"
	scanPort "github.com/solguard/scan-orchestrator/internal/scan/port"
	"github.com/solguard/scan-orchestrator/internal/user"
	userDomain "github.com/solguard/scan-orchestrator/internal/user/domain"
	userPort "github.com/solguard/scan-orchestrator/internal/user/port"
	"github.com/solguard/scan-orchestrator/pkg/adapter/storage"
	appCtx "github.com/solguard/scan-orchestrator/pkg/context"
	"github.com/solguard/scan-orchestrator/pkg/mysql"
	"gorm.io/gorm"
)

type app struct {
	db  *gorm.DB
	cfg config.Config

	registry     *scan.Registry
	janitor      *scan.Janitor
	scanService  scanPort.Service
	batchService batchPort.Service
	userService  userPort.Service
}

// ScanService returns the shared orchestration service. Unlike the user
// service it is a singleton: it owns the in-memory job registry.
func (a *app) ScanService(ctx context.Context) scanPort.Service {
	return a.scanService
}

func (a *app) BatchService(ctx context.Context) batchPort.Service {
	return a.batchService
}

func (a *app) userServiceWithDB(db *gorm.DB) userPort.Service {
	return user.NewUserService(storage.NewUserRepo(db))
}

func (a *app) UserService(ctx context.Context) userPort.Service {
	db := appCtx.GetDB(ctx)
	if db == nil {
		if a.userService == nil {
			a.userService = a.userServiceWithDB(a.db)
		}
		return a.userService
	}

	return a.userServiceWithDB(db)
}

func (a *app) StartJanitor() {
	a.janitor.Start()
}

func (a *app) StopJanitor() {
	a.janitor.Stop()
}

func (a *app) Config() config.Config {
	return a.cfg
}

func (a *app) DB() *gorm.DB {
	return a.db
}

func (a *app) setDB() error {
	db, err := mysql.NewMysqlConnection(mysql.DBConnOptions{
		Host:     a.cfg.DB.Host,
		Port:     a.cfg.DB.Port,
		Username: a.cfg.DB.Username,
		Password: a.cfg.DB.Password,
		Database: a.cfg.DB.Database,
	})
	if err != nil {
		return err
	}
	mysql.GormMigrations(db)
	mysql.SeedData(db, userDomain.HashPassword)
	a.db = db
	return nil
}

func NewApp(cfg config.Config) (AppContainer, error) {
	a := &app{
		cfg: cfg,
	}
	if err := a.setDB(); err != nil {
		return nil, err
	}

	scanCfg := cfg.Scan.WithDefaults()

	a.registry = scan.NewRegistry()
	a.janitor = scan.NewJanitor(a.registry, scanCfg)

	a.scanService = scan.NewScanService(
		a.registry,
		analyzer.NewDefaultRegistry(),
		enrich.NewHeuristicEnricher(),
		storage.NewScanJobRepo(a.db),
		scanCfg,
	)
	a.batchService = batch.NewCoordinator(a.scanService, storage.NewBatchRepo(a.db))

	return a, nil
}

// NewMustApp panics when the container cannot be built
func NewMustApp(cfg config.Config) AppContainer {
	a, err := NewApp(cfg)
	if err != nil {
		panic(err)
	}
	return a
}
