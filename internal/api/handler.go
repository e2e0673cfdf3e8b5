// Package api exposes the extraction pipeline over HTTP for the dashboard.
// The API is a thin read-only surface: it uploads bytes into the core and
// returns the ExtractionResult untouched.
package api

import (
	"errors"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	recovermw "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fiscalpanel/extractito/internal/profiler"
	"github.com/fiscalpanel/extractito/internal/service"
)

const version = "1.0.0"

// maxUploadBytes bounds statement uploads; real statements run well under this.
const maxUploadBytes = 32 << 20

// Handler holds the HTTP handlers for the extraction API.
type Handler struct {
	svc *service.Service
	log zerolog.Logger
}

// NewApp builds the fiber application with all routes registered.
func NewApp(svc *service.Service, log zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:             maxUploadBytes,
		DisableStartupMessage: true,
	})
	app.Use(recovermw.New())

	h := &Handler{svc: svc, log: log}
	app.Post("/api/extract", h.handleExtract)
	app.Get("/api/health", h.handleHealth)
	return app
}

func (h *Handler) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": version,
	})
}

func (h *Handler) handleExtract(c *fiber.Ctx) error {
	reqID := uuid.NewString()
	log := h.log.With().Str("request", reqID).Logger()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "no file uploaded; use form field 'file'")
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		return fail(c, fiber.StatusBadRequest, "only PDF files are supported")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "could not read uploaded file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "could not read uploaded file")
	}

	result, err := h.svc.Extract(data, fileHeader.Filename)
	if err != nil {
		if errors.Is(err, profiler.ErrMalformedDocument) {
			return fail(c, fiber.StatusUnprocessableEntity, err.Error())
		}
		log.Error().Err(err).Msg("extraction failed")
		return fail(c, fiber.StatusInternalServerError, "extraction failed")
	}

	log.Info().
		Str("file", fileHeader.Filename).
		Int("confidence", result.Confidence).
		Msg("statement extracted")

	return c.JSON(result)
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
