package http

import (
	"crypto/tls"
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/solguard/scan-orchestrator/app"
	"github.com/solguard/scan-orchestrator/config"
)

func Run(appContainer app.AppContainer, cfg config.ServerConfig) error {
	router := fiber.New(fiber.Config{
		AppName: "SolGuard Scan Orchestrator",
	})
	router.Use(helmet.New())
	router.Use(TraceMiddleware())
	router.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path} TraceID: ${locals:traceID}\n",
		Output: os.Stdout,
	}))

	router.Get("/", func(c *fiber.Ctx) error {
		c.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		return c.SendString("Secure HTTPS server")
	})

	api := router.Group("/api/v1", setUserContext)

	registerAuthAPI(appContainer, cfg, api)

	secret := []byte(cfg.Secret)
	registerScanAPI(appContainer, api.Group("/scans", newAuthMiddleware(secret)))
	registerBatchAPI(appContainer, api.Group("/batches", newAuthMiddleware(secret)))

	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
		CipherSuites: []uint16{
			tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
		},
		PreferServerCipherSuites: true,
	}

	router.Server().TLSConfig = tlsConfig
	if !cfg.SslEnabled {
		return router.Listen(fmt.Sprintf(":%d", cfg.HttpPort))
	}
	return router.ListenTLS(fmt.Sprintf(":%d", cfg.HttpPort), cfg.Cert, cfg.Key)
}

func registerAuthAPI(appContainer app.AppContainer, cfg config.ServerConfig, router fiber.Router) {
	userSvcGetter := userServiceGetter(appContainer, cfg)
	router.Post("/sign-up", setTransaction(appContainer.DB()), SignUp(userSvcGetter))
	router.Post("/sign-in", setTransaction(appContainer.DB()), SignIn(userSvcGetter, cfg))
	router.Post("/sign-out", setTransaction(appContainer.DB()), SignOut(userSvcGetter))
}

func registerScanAPI(appContainer app.AppContainer, router fiber.Router) {
	scanSvcGetter := scanServiceGetter(appContainer)

	router.Post("/", SubmitScan(scanSvcGetter))
	router.Get("/", ListScanJobs(scanSvcGetter))
	router.Get("/:id", GetScanJob(scanSvcGetter))
	router.Post("/cancel/:id", CancelScanJob(scanSvcGetter))
}

func registerBatchAPI(appContainer app.AppContainer, router fiber.Router) {
	batchSvcGetter := batchServiceGetter(appContainer)

	router.Post("/", SubmitBatch(batchSvcGetter))
	router.Get("/:id", GetBatch(batchSvcGetter))
	router.Post("/cancel/:id", CancelBatch(batchSvcGetter))
	router.Get("/:id/export", ExportBatch(batchSvcGetter))
}
