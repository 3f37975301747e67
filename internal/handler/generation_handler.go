package handler

import (
	"context"
	"time"

	"tuteai/internal/domain"
	"tuteai/internal/dto"
	"tuteai/internal/logger"
	"tuteai/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Pipeline is the part of service.GenerationService the HTTP layer uses.
type Pipeline interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (domain.Entity, error)
	GetArtifact(ctx context.Context, id string) (*domain.Artifact, error)
}

// GenerationHandler serves the /api/v2 generation routes.
type GenerationHandler struct {
	pipeline  Pipeline
	validator *validation.Validator
	model     string
	now       func() time.Time
}

// NewGenerationHandler creates a handler; model is reported by the health check.
func NewGenerationHandler(pipeline Pipeline, model string) *GenerationHandler {
	return &GenerationHandler{
		pipeline:  pipeline,
		validator: validation.NewValidator(),
		model:     model,
		now:       time.Now,
	}
}

// RegisterRoutes mounts every route under /api/v2.
func (h *GenerationHandler) RegisterRoutes(app fiber.Router) {
	api := app.Group("/api/" + dto.APIVersion)
	api.Post("/plan-course", h.PlanCourse)
	api.Post("/plan-module", h.PlanModule)
	api.Post("/create-lesson-content", h.CreateLessonContent)
	api.Post("/create-quiz", h.CreateQuiz)
	api.Get("/artifacts/:id", h.GetArtifact)
	api.Get("/health", h.Health)
}

// PlanCourse handles POST /api/v2/plan-course
func (h *GenerationHandler) PlanCourse(c *fiber.Ctx) error {
	return h.generate(c, &domain.CourseRequest{})
}

// PlanModule handles POST /api/v2/plan-module
func (h *GenerationHandler) PlanModule(c *fiber.Ctx) error {
	return h.generate(c, &domain.ModuleRequest{})
}

// CreateLessonContent handles POST /api/v2/create-lesson-content
func (h *GenerationHandler) CreateLessonContent(c *fiber.Ctx) error {
	return h.generate(c, &domain.LessonRequest{})
}

// CreateQuiz handles POST /api/v2/create-quiz
func (h *GenerationHandler) CreateQuiz(c *fiber.Ctx) error {
	return h.generate(c, &domain.QuizRequest{})
}

func (h *GenerationHandler) generate(c *fiber.Ctx, req domain.GenerationRequest) error {
	if err := c.BodyParser(req); err != nil {
		logger.Get().Warn("Failed to parse request body",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return domain.NewInvalidInputError("request body must be a JSON object")
	}
	if err := h.validator.Validate(req); err != nil {
		return err
	}

	entity, err := h.pipeline.Generate(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(entity)
}

// GetArtifact handles GET /api/v2/artifacts/:id
func (h *GenerationHandler) GetArtifact(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("id")}
	}

	artifact, err := h.pipeline.GetArtifact(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.ArtifactResponse{
		ID:        artifact.ID,
		Kind:      string(artifact.Kind),
		ParentID:  artifact.ParentID,
		CreatedAt: artifact.CreatedAt,
		Payload:   artifact.Payload,
	})
}

// Health handles GET /api/v2/health
func (h *GenerationHandler) Health(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{
		Status:     "healthy",
		APIVersion: dto.APIVersion,
		Model:      h.model,
		Timestamp:  h.now().UTC(),
	})
}
