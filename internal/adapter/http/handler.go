package http

import (
	"context"
	"errors"
	"log"
	"strings"

	"easy-apply/internal/adapter/repository"
	"easy-apply/internal/domain"
	"easy-apply/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Reports reads back what runs have recorded.
type Reports interface {
	Unprepared(ctx context.Context) ([]domain.UnpreparedQuestion, error)
	Attempts(ctx context.Context) ([]repository.AttemptRow, error)
}

// RunOptions overrides the configured run for one start request.
type RunOptions struct {
	Filters  *usecase.Filters `json:"filters,omitempty"`
	TestMode *bool            `json:"testMode,omitempty"`
}

// RunBuilder turns start options into the function the run manager executes.
type RunBuilder func(opts RunOptions) (usecase.RunFunc, error)

type Handler struct {
	// ctx bounds background runs; it ends when the server shuts down.
	ctx     context.Context
	runs    *usecase.Runs
	build   RunBuilder
	reports Reports
}

func NewHandler(ctx context.Context, runs *usecase.Runs, build RunBuilder, reports Reports) *Handler {
	return &Handler{ctx: ctx, runs: runs, build: build, reports: reports}
}

// Register mounts the routes on app.
func (h *Handler) Register(app *fiber.App) {
	app.Post("/runs/start", h.StartRun)
	app.Get("/runs/:id", h.GetRun)
	app.Post("/runs/:id/otp", h.SubmitOTP)
	app.Get("/reports/unprepared", h.Unprepared)
	app.Get("/reports/applications", h.Applications)
}

func (h *Handler) StartRun(c *fiber.Ctx) error {
	var opts RunOptions
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&opts); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
		}
	}

	fn, err := h.build(opts)
	if err != nil {
		var se *usecase.SetupError
		if errors.As(err, &se) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		log.Printf("prepare run: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not prepare run"})
	}

	id, err := h.runs.Start(h.ctx, fn)
	if errors.Is(err, usecase.ErrRunActive) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"runId": id.String(), "status": usecase.RunRunning})
}

func (h *Handler) GetRun(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid run id"})
	}
	st, ok := h.runs.Get(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": usecase.ErrRunNotFound.Error()})
	}
	return c.JSON(st)
}

type otpReq struct {
	Code string `json:"code"`
}

func (h *Handler) SubmitOTP(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid run id"})
	}
	var req otpReq
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Code) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "code is required"})
	}

	switch err := h.runs.SubmitOTP(id, strings.TrimSpace(req.Code)); {
	case errors.Is(err, usecase.ErrRunNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, usecase.ErrOTPNotWanted):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": usecase.RunRunning})
}

func (h *Handler) Unprepared(c *fiber.Ctx) error {
	qs, err := h.reports.Unprepared(c.Context())
	if err != nil {
		log.Printf("read unprepared questions: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not read unprepared questions"})
	}
	return c.JSON(qs)
}

func (h *Handler) Applications(c *fiber.Ctx) error {
	rows, err := h.reports.Attempts(c.Context())
	if err != nil {
		log.Printf("read application status: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not read application status"})
	}
	return c.JSON(rows)
}
