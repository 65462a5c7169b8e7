package handler

import (
	"github.com/gofiber/fiber/v2"

	"bloodlink/internal/domain"
	"bloodlink/internal/middleware"
	"bloodlink/internal/pkg/validation"
	"bloodlink/internal/service/auth"
	"bloodlink/internal/service/user"
)

type UserHandler struct {
	userService user.Service
	authService auth.Service
}

func NewUserHandler(userService user.Service, authService auth.Service) *UserHandler {
	return &UserHandler{userService: userService, authService: authService}
}

func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return middleware.Unauthorized("User not found")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"user": currentUser})
}

// ChooseRole assigns donor or requester and reissues tokens so the new role
// is reflected in the access token immediately.
func (h *UserHandler) ChooseRole(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	var input domain.ChooseRoleInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if err := validation.ValidateStruct(input); err != nil {
		return middleware.UnprocessableEntity(err.Error())
	}

	updated, err := h.userService.ChooseRole(c.Context(), userID, input)
	if err != nil {
		return err
	}

	tokens, err := h.authService.IssueTokens(c.Context(), updated)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"user":          updated,
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_in":    tokens.ExpiresIn,
	})
}

func (h *UserHandler) UpdateAvailability(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	var input domain.UpdateAvailabilityInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.IsAvailable == nil {
		return middleware.BadRequest("is_available is required")
	}

	if err := h.userService.SetAvailability(c.Context(), userID, *input.IsAvailable); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"is_available": *input.IsAvailable,
	})
}

func (h *UserHandler) DonationHistory(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	history, err := h.userService.DonationHistory(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"history": history})
}

func (h *UserHandler) RequestHistory(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	history, err := h.userService.RequestHistory(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"history": history})
}
