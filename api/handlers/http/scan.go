package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/solguard/scan-orchestrator/api/dto"
	"github.com/solguard/scan-orchestrator/api/service"
	"github.com/solguard/scan-orchestrator/pkg/logger"
)

// SubmitScan accepts a scan request and returns the job id immediately
func SubmitScan(svcGetter ServiceGetter[*service.ScanService]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		srv := svcGetter(c.UserContext())

		var req dto.SubmitScanRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.ErrBadRequest
		}

		res, err := srv.Submit(c.UserContext(), ownerID(c), &req)
		if err != nil {
			if errors.Is(err, service.ErrInvalidScanInput) || errors.Is(err, service.ErrUnknownTool) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusAccepted).JSON(res)
	}
}

// GetScanJob returns a snapshot of one job, running or finished
func GetScanJob(svcGetter ServiceGetter[*service.ScanService]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		srv := svcGetter(c.UserContext())

		id := c.Params("id")
		if id == "" {
			return fiber.ErrBadRequest
		}

		res, err := srv.GetByID(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrScanJobNotFound) {
				return fiber.ErrNotFound
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(res)
	}
}

func CancelScanJob(svcGetter ServiceGetter[*service.ScanService]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		srv := svcGetter(c.UserContext())

		id := c.Params("id")
		if id == "" {
			logger.WarnContext(c.UserContext(), "Cancel scan job: Job ID is empty")
			return fiber.ErrBadRequest
		}

		logger.InfoContext(c.UserContext(), "Attempting to cancel scan job with ID: %s", id)

		res, err := srv.Cancel(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrScanJobNotFound) {
				return fiber.ErrNotFound
			}
			if errors.Is(err, service.ErrScanTerminal) {
				return fiber.NewError(fiber.StatusConflict, "Scan job already finished")
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusOK).JSON(res)
	}
}

// ListScanJobs returns job snapshots with status filter and pagination
func ListScanJobs(svcGetter ServiceGetter[*service.ScanService]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		srv := svcGetter(c.UserContext())

		limit := c.QueryInt("limit", 20)
		page := c.QueryInt("page", 0)
		status := c.Query("status")

		res, err := srv.List(c.UserContext(), status, ownerID(c), limit, page)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(res)
	}
}
