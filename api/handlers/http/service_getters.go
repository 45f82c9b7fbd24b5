package http

import (
	"context"

	"github.com/solguard/scan-orchestrator/api/service"
	"github.com/solguard/scan-orchestrator/app"
	"github.com/solguard/scan-orchestrator/config"
)

// user service transient instance handler
func userServiceGetter(appContainer app.AppContainer, cfg config.ServerConfig) ServiceGetter[*service.UserService] {
	return func(ctx context.Context) *service.UserService {
		return service.NewUserService(appContainer.UserService(ctx), cfg.Secret, cfg.AuthExpMinute, cfg.AuthRefreshMinute)
	}
}

// scan service transient instance handler
func scanServiceGetter(appContainer app.AppContainer) ServiceGetter[*service.ScanService] {
	return func(ctx context.Context) *service.ScanService {
		return service.NewScanService(appContainer.ScanService(ctx))
	}
}

// batch service transient instance handler
func batchServiceGetter(appContainer app.AppContainer) ServiceGetter[*service.BatchService] {
	return func(ctx context.Context) *service.BatchService {
		return service.NewBatchService(appContainer.BatchService(ctx))
	}
}
