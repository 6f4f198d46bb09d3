package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/semaphore"

	"pygamecrafter-server/models"
	"pygamecrafter-server/services"
)

// Executor runs code in the sandbox and classifies the result.
type Executor interface {
	Execute(code string) *models.Outcome
}

// Validator reports the first syntax defect in code, or nil.
type Validator interface {
	Validate(source string) *services.SyntaxIssue
}

type RunHandler struct {
	sandbox   Executor
	validator Validator
	gate      *semaphore.Weighted
}

// NewRunHandler wires the run flow. maxConcurrent bounds the number of
// simultaneously running sandbox subprocesses: each admitted run blocks its
// handler for the whole lifetime of the child process, which has no timeout.
func NewRunHandler(sandbox Executor, validator Validator, maxConcurrent int64) *RunHandler {
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	return &RunHandler{
		sandbox:   sandbox,
		validator: validator,
		gate:      semaphore.NewWeighted(maxConcurrent),
	}
}

// RunCode godoc
// @Summary Run pygame code in a sandbox
// @Description Syntax-check the code, then run it inside a pygame harness as a subprocess until its window is closed
// @Tags code
// @Accept json
// @Produce json
// @Param request body models.RunRequest true "Code to execute"
// @Success 200 {object} models.RunResponse
// @Failure 400 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /run-code [post]
func (h *RunHandler) RunCode(c *fiber.Ctx) error {
	var req models.RunRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if strings.TrimSpace(req.Code) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No code provided",
		})
	}

	if issue := h.validator.Validate(req.Code); issue != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Your Python code has a syntax issue. " +
				"Fix this before running the Pygame window:\n" + issue.String(),
		})
	}

	// Reject the overflow instead of queueing it: a queued run could wait
	// forever behind windows nobody closes.
	if !h.gate.TryAcquire(1) {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": "Too many Pygame programs are running right now. Close one and try again.",
		})
	}
	defer h.gate.Release(1)

	outcome := h.sandbox.Execute(req.Code)
	if outcome.Status == models.StatusSuccess {
		return c.JSON(models.RunResponse{Output: outcome.Output})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": outcome.Detail,
	})
}
