package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/solguard/scan-orchestrator/api/dto"
	"github.com/solguard/scan-orchestrator/api/service"
)

// SubmitBatch starts one scan job per source and returns the batch id
func SubmitBatch(svcGetter ServiceGetter[*service.BatchService]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		srv := svcGetter(c.UserContext())

		var req dto.SubmitBatchRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.ErrBadRequest
		}

		res, err := srv.Submit(c.UserContext(), ownerID(c), &req)
		if err != nil {
			if errors.Is(err, service.ErrEmptyBatch) ||
				errors.Is(err, service.ErrInvalidScanInput) ||
				errors.Is(err, service.ErrUnknownTool) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusAccepted).JSON(res)
	}
}

func GetBatch(svcGetter ServiceGetter[*service.BatchService]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		srv := svcGetter(c.UserContext())

		id := c.Params("id")
		if id == "" {
			return fiber.ErrBadRequest
		}

		res, err := srv.GetByID(c.UserContext(), id, ownerID(c))
		if err != nil {
			return mapBatchError(err)
		}
		return c.JSON(res)
	}
}

func CancelBatch(svcGetter ServiceGetter[*service.BatchService]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		srv := svcGetter(c.UserContext())

		id := c.Params("id")
		if id == "" {
			return fiber.ErrBadRequest
		}

		res, err := srv.Cancel(c.UserContext(), id, ownerID(c))
		if err != nil {
			return mapBatchError(err)
		}
		return c.Status(fiber.StatusOK).JSON(res)
	}
}

// ExportBatch streams the batch report in the requested format. Partial
// batches export too: jobs without results appear with empty findings.
func ExportBatch(svcGetter ServiceGetter[*service.BatchService]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		srv := svcGetter(c.UserContext())

		id := c.Params("id")
		if id == "" {
			return fiber.ErrBadRequest
		}
		format := c.Query("format", "json")

		data, contentType, err := srv.Export(c.UserContext(), id, ownerID(c), format)
		if err != nil {
			if errors.Is(err, service.ErrUnsupportedFormat) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return mapBatchError(err)
		}

		c.Set(fiber.HeaderContentType, contentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=batch-%s.%s", id, format))
		return c.Send(data)
	}
}

func mapBatchError(err error) error {
	switch {
	case errors.Is(err, service.ErrBatchNotFound):
		return fiber.ErrNotFound
	case errors.Is(err, service.ErrBatchAccessDenied):
		return fiber.ErrForbidden
	case errors.Is(err, service.ErrBatchAlreadyTerminal):
		return fiber.NewError(fiber.StatusConflict, "Batch already finished")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
