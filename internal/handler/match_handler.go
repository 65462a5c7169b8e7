package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"bloodlink/internal/domain"
	"bloodlink/internal/middleware"
	"bloodlink/internal/pkg/validation"
	"bloodlink/internal/service/matching"
)

type MatchHandler struct {
	matchingService matching.Service
}

func NewMatchHandler(matchingService matching.Service) *MatchHandler {
	return &MatchHandler{matchingService: matchingService}
}

// ListPending returns proposals still awaiting the caller's decision.
func (h *MatchHandler) ListPending(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return middleware.Unauthorized("User not found")
	}

	matches, err := h.matchingService.PendingForUser(c.Context(), currentUser)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"matches": matches})
}

func (h *MatchHandler) ListActive(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	matches, err := h.matchingService.ActiveForUser(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"matches": matches})
}

func (h *MatchHandler) Respond(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	matchID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid match ID")
	}

	var input domain.RespondInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if err := validation.ValidateStruct(input); err != nil {
		return middleware.UnprocessableEntity(err.Error())
	}

	match, err := h.matchingService.Respond(c.Context(), matchID, userID, input.Decision)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"match": match})
}
