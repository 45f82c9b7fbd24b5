package app

import (
	"context"

	"github.com/solguard/scan-orchestrator/config"
	batchPort "github.com/solguard/scan-orchestrator/internal/batch/port"
	scanPort "github.com/solguard/scan-orchestrator/internal/scan/port"
	userPort "github.com/solguard/scan-orchestrator/internal/user/port"
	"gorm.io/gorm"
)

type AppContainer interface {
	ScanService(ctx context.Context) scanPort.Service
	BatchService(ctx context.Context) batchPort.Service
	UserService(ctx context.Context) userPort.Service
	StartJanitor()
	StopJanitor()
	Config() config.Config
	DB() *gorm.DB
}
