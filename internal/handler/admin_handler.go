package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"bloodlink/internal/domain"
	"bloodlink/internal/middleware"
	"bloodlink/internal/service/dashboard"
	"bloodlink/internal/service/matching"
	"bloodlink/internal/service/request"
	"bloodlink/internal/service/user"
)

type AdminHandler struct {
	userService      user.Service
	requestService   request.Service
	matchingService  matching.Service
	dashboardService dashboard.Service
	reaper           *matching.Reaper
}

func NewAdminHandler(
	userService user.Service,
	requestService request.Service,
	matchingService matching.Service,
	dashboardService dashboard.Service,
	reaper *matching.Reaper,
) *AdminHandler {
	return &AdminHandler{
		userService:      userService,
		requestService:   requestService,
		matchingService:  matchingService,
		dashboardService: dashboardService,
		reaper:           reaper,
	}
}

func (h *AdminHandler) ListDonors(c *fiber.Ctx) error {
	donors, err := h.userService.ListByRole(c.Context(), domain.RoleDonor)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"donors": donors})
}

func (h *AdminHandler) ListRequests(c *fiber.Ctx) error {
	requests, err := h.requestService.ListAll(c.Context())
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"requests": requests})
}

func (h *AdminHandler) ListMatches(c *fiber.Ctx) error {
	matches, err := h.matchingService.ListAll(c.Context())
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"matches": matches})
}

func (h *AdminHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.dashboardService.GetStats(c.Context())
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"stats": stats})
}

// TriggerMatching runs a detection pass on demand, optionally scoped to a
// single request or donor.
func (h *AdminHandler) TriggerMatching(c *fiber.Ctx) error {
	var input struct {
		RequestID *string `json:"request_id"`
		DonorID   *string `json:"donor_id"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return middleware.BadRequest("Invalid request body")
		}
	}

	var opts matching.DetectOptions
	if input.RequestID != nil {
		id, err := uuid.Parse(*input.RequestID)
		if err != nil {
			return middleware.BadRequest("Invalid request ID")
		}
		opts.RequestID = &id
	}
	if input.DonorID != nil {
		id, err := uuid.Parse(*input.DonorID)
		if err != nil {
			return middleware.BadRequest("Invalid donor ID")
		}
		opts.DonorID = &id
	}

	created := h.matchingService.Detect(c.Context(), opts)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"matches_created": created,
	})
}

// TriggerSweep runs the expiry and reminder pass immediately instead of
// waiting for the next tick.
func (h *AdminHandler) TriggerSweep(c *fiber.Ctx) error {
	h.reaper.Sweep(c.Context())

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Sweep completed",
	})
}
