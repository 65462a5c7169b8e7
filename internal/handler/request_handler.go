package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"bloodlink/internal/domain"
	"bloodlink/internal/middleware"
	"bloodlink/internal/pkg/validation"
	"bloodlink/internal/service/request"
)

type RequestHandler struct {
	requestService request.Service
}

func NewRequestHandler(requestService request.Service) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

func (h *RequestHandler) Create(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	var input domain.CreateRequestInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if err := validation.ValidateStruct(input); err != nil {
		return middleware.UnprocessableEntity(err.Error())
	}

	req, err := h.requestService.Create(c.Context(), userID, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"request": req})
}

func (h *RequestHandler) Cancel(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid request ID")
	}

	if err := h.requestService.Cancel(c.Context(), requestID, userID); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Request cancelled",
	})
}

func (h *RequestHandler) ListOpen(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	requests, err := h.requestService.ListOpen(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"requests": requests})
}

func (h *RequestHandler) ListMatched(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	requests, err := h.requestService.ListMatched(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"requests": requests})
}

func (h *RequestHandler) GetByID(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid request ID")
	}

	req, err := h.requestService.GetByID(c.Context(), requestID)
	if err != nil {
		return err
	}
	if req == nil || req.RequesterID != userID {
		return middleware.NotFound("Request not found")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"request": req})
}
