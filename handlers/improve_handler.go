package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"pygamecrafter-server/middleware"
	"pygamecrafter-server/models"
	"pygamecrafter-server/services"
)

// Improver runs the generation flow for one request.
type Improver interface {
	Improve(ctx context.Context, req *models.ImproveRequest) (*models.ImproveResponse, error)
}

type ImproveHandler struct {
	service Improver
}

func NewImproveHandler(svc Improver) *ImproveHandler {
	return &ImproveHandler{service: svc}
}

// ImproveCode godoc
// @Summary Improve or generate pygame code
// @Description Ask the generation backend to modify the given code according to the prompt, or to create a new game from scratch when no code is provided
// @Tags code
// @Accept json
// @Produce json
// @Param request body models.ImproveRequest true "Code, optional selection, and prompt"
// @Success 200 {object} models.ImproveResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /improve-code [post]
func (h *ImproveHandler) ImproveCode(c *fiber.Ctx) error {
	var req models.ImproveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Prompt == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Prompt is required",
		})
	}

	resp, err := h.service.Improve(middleware.GetXRayContext(c), &req)
	if err != nil {
		return c.Status(improveStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(resp)
}

// improveStatus maps a classified generation failure to its HTTP status:
// 401 for a rejected credential, the backend's own status for other upstream
// errors, 502 for transport failures, 500 for everything else (missing or
// malformed credential, empty content, missing code block, unexpected).
func improveStatus(err error) int {
	var genErr *services.GenerationError
	if !errors.As(err, &genErr) {
		return fiber.StatusInternalServerError
	}

	switch genErr.Kind {
	case services.ErrUnauthorized:
		return fiber.StatusUnauthorized
	case services.ErrUpstream:
		return genErr.Status
	case services.ErrTransport:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
