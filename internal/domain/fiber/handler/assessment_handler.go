package handler

import (
	"context"
	"strings"

	"github.com/fadilmartias/talent-assessment/internal/apperror"
	"github.com/fadilmartias/talent-assessment/internal/dto"
	"github.com/fadilmartias/talent-assessment/internal/middleware"
	"github.com/fadilmartias/talent-assessment/internal/usecase"
	"github.com/fadilmartias/talent-assessment/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AssessmentUsecaseInterface interface {
	Assign(ctx context.Context, employerID, applicationID uuid.UUID, expiresInHours int) (*usecase.AssignResult, error)
	Preview(ctx context.Context, title string, skills []string) (*usecase.PreviewResult, error)
	Fetch(ctx context.Context, token string) (*usecase.TestView, error)
	Submit(ctx context.Context, token string, answers []string) (*usecase.SubmitResult, error)
	Reset(ctx context.Context, employerID, applicationID uuid.UUID) error
}

type AssessmentHandler struct {
	uc           AssessmentUsecaseInterface
	auth         fiber.Handler
	publicLimits fiber.Handler
}

func NewAssessmentHandler(uc AssessmentUsecaseInterface, auth, publicLimits fiber.Handler) *AssessmentHandler {
	return &AssessmentHandler{uc: uc, auth: auth, publicLimits: publicLimits}
}

// RegisterRoutes mounts /api/tests. Fetch and submit are authorized by the
// test token alone.
func (h *AssessmentHandler) RegisterRoutes(app fiber.Router) {
	employer := middleware.RequireRole(middleware.RoleEmployer, middleware.RoleCompany)

	tests := app.Group("/api/tests")
	tests.Post("/assign", h.auth, employer, h.Assign)
	tests.Post("/preview", h.auth, employer, h.Preview)
	tests.Post("/reset", h.auth, employer, h.Reset)
	tests.Post("/submit", h.publicLimits, h.Submit)
	tests.Get("/:token", h.publicLimits, h.Fetch)
}

func (h *AssessmentHandler) Assign(c *fiber.Ctx) error {
	var req dto.AssignTestRequest
	if err := parseBody(c, &req); err != nil {
		return util.AppErrorResponse(c, err)
	}
	applicationID, err := parseID("applicationId", req.ApplicationID)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}

	res, err := h.uc.Assign(c.UserContext(), middleware.UserID(c), applicationID, req.ExpiresInHours)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Test assigned",
		Data:    res,
	})
}

func (h *AssessmentHandler) Preview(c *fiber.Ctx) error {
	var req dto.PreviewTestRequest
	if err := parseBody(c, &req); err != nil {
		return util.AppErrorResponse(c, err)
	}
	res, err := h.uc.Preview(c.UserContext(), req.Title, req.Skills)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Preview generated",
		Data:    res,
	})
}

func (h *AssessmentHandler) Fetch(c *fiber.Ctx) error {
	view, err := h.uc.Fetch(c.UserContext(), c.Params("token"))
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get test",
		Data:    view,
	})
}

func (h *AssessmentHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitTestRequest
	if err := parseBody(c, &req); err != nil {
		return util.AppErrorResponse(c, err)
	}
	fields := map[string]string{}
	if strings.TrimSpace(req.Token) == "" {
		fields["token"] = "required"
	}
	if req.Answers == nil {
		fields["answers"] = "must be an array"
	}
	if len(fields) > 0 {
		return util.AppErrorResponse(c, apperror.NewValidation("invalid submission", fields))
	}

	res, err := h.uc.Submit(c.UserContext(), req.Token, req.Answers)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Test submitted",
		Data:    res,
	})
}

func (h *AssessmentHandler) Reset(c *fiber.Ctx) error {
	var req dto.ResetTestRequest
	if err := parseBody(c, &req); err != nil {
		return util.AppErrorResponse(c, err)
	}
	applicationID, err := parseID("applicationId", req.ApplicationID)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	if err := h.uc.Reset(c.UserContext(), middleware.UserID(c), applicationID); err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Test reset. Application moved back to shortlisted.",
	})
}
