package handler

import (
	"context"
	"strings"

	"github.com/fadilmartias/talent-assessment/internal/dto"
	"github.com/fadilmartias/talent-assessment/internal/middleware"
	"github.com/fadilmartias/talent-assessment/internal/model"
	"github.com/fadilmartias/talent-assessment/internal/repository"
	"github.com/fadilmartias/talent-assessment/internal/response"
	"github.com/fadilmartias/talent-assessment/internal/usecase"
	"github.com/fadilmartias/talent-assessment/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ApplicationUsecaseInterface interface {
	Apply(ctx context.Context, in usecase.ApplyInput) (*model.Application, error)
	Review(ctx context.Context, employerID, applicationID uuid.UUID, notes string) (*model.Application, error)
	Shortlist(ctx context.Context, employerID, applicationID uuid.UUID, notes string) (*model.Application, error)
	Reject(ctx context.Context, employerID, applicationID uuid.UUID, notes string) (*model.Application, error)
	Accept(ctx context.Context, employerID, applicationID uuid.UUID, notes string) (*model.Application, error)
	Withdraw(ctx context.Context, candidateID, applicationID uuid.UUID) (*model.Application, error)
	Get(ctx context.Context, userID, applicationID uuid.UUID) (*model.Application, error)
	ListForEmployer(ctx context.Context, employerID uuid.UUID, filter repository.ListFilter) ([]model.Application, int64, error)
	ListForCandidate(ctx context.Context, candidateID uuid.UUID, filter repository.ListFilter) ([]model.Application, int64, error)
}

type ApplicationHandler struct {
	uc   ApplicationUsecaseInterface
	auth fiber.Handler
}

func NewApplicationHandler(uc ApplicationUsecaseInterface, auth fiber.Handler) *ApplicationHandler {
	return &ApplicationHandler{uc: uc, auth: auth}
}

func (h *ApplicationHandler) RegisterRoutes(app fiber.Router) {
	employer := middleware.RequireRole(middleware.RoleEmployer, middleware.RoleCompany)
	candidate := middleware.RequireRole(middleware.RoleJobseeker)

	apps := app.Group("/api/applications", h.auth)
	apps.Post("/", candidate, h.Apply)
	apps.Get("/", h.List)
	apps.Get("/:id", h.Get)
	apps.Post("/:id/review", employer, h.decision("Application reviewed", ApplicationUsecaseInterface.Review))
	apps.Post("/:id/shortlist", employer, h.decision("Application shortlisted", ApplicationUsecaseInterface.Shortlist))
	apps.Post("/:id/reject", employer, h.decision("Application rejected", ApplicationUsecaseInterface.Reject))
	apps.Post("/:id/accept", employer, h.decision("Application accepted", ApplicationUsecaseInterface.Accept))
	apps.Post("/:id/withdraw", candidate, h.Withdraw)
}

func (h *ApplicationHandler) Apply(c *fiber.Ctx) error {
	var req dto.ApplyRequest
	if err := parseBody(c, &req); err != nil {
		return util.AppErrorResponse(c, err)
	}
	postingID, err := parseID("postingId", req.PostingID)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	user, _ := middleware.CurrentUser(c)

	app, err := h.uc.Apply(c.UserContext(), usecase.ApplyInput{
		PostingID:      postingID,
		CandidateID:    middleware.UserID(c),
		CandidateName:  user.Name,
		CandidateEmail: user.Email,
		Skills:         req.Skills,
	})
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Application submitted",
		Data:    dto.NewApplicationDTO(app),
	})
}

// List returns the employer's inbox or the candidate's own applications,
// depending on the caller's role.
func (h *ApplicationHandler) List(c *fiber.Ctx) error {
	filter := repository.ListFilter{
		Status:   model.ApplicationStatus(strings.TrimSpace(c.Query("status"))),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 10),
	}.Normalized()
	user, _ := middleware.CurrentUser(c)

	var (
		apps  []model.Application
		total int64
		err   error
	)
	switch strings.ToLower(user.Role) {
	case middleware.RoleEmployer, middleware.RoleCompany:
		apps, total, err = h.uc.ListForEmployer(c.UserContext(), middleware.UserID(c), filter)
	default:
		apps, total, err = h.uc.ListForCandidate(c.UserContext(), middleware.UserID(c), filter)
	}
	if err != nil {
		return util.AppErrorResponse(c, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success get applications",
		Data:       dto.NewApplicationDTOs(apps),
		Pagination: response.NewPagination(filter.Page, filter.PageSize, total),
	})
}

func (h *ApplicationHandler) Get(c *fiber.Ctx) error {
	id, err := parseID("id", c.Params("id"))
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	app, err := h.uc.Get(c.UserContext(), middleware.UserID(c), id)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get application",
		Data:    dto.NewApplicationDTO(app),
	})
}

func (h *ApplicationHandler) Withdraw(c *fiber.Ctx) error {
	id, err := parseID("id", c.Params("id"))
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	app, err := h.uc.Withdraw(c.UserContext(), middleware.UserID(c), id)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Application withdrawn",
		Data:    dto.NewApplicationDTO(app),
	})
}

type decisionFunc func(uc ApplicationUsecaseInterface, ctx context.Context, employerID, applicationID uuid.UUID, notes string) (*model.Application, error)

func (h *ApplicationHandler) decision(message string, act decisionFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID("id", c.Params("id"))
		if err != nil {
			return util.AppErrorResponse(c, err)
		}
		var req dto.DecisionRequest
		if len(c.Body()) > 0 {
			if err := parseBody(c, &req); err != nil {
				return util.AppErrorResponse(c, err)
			}
		}
		app, err := act(h.uc, c.UserContext(), middleware.UserID(c), id, req.Notes)
		if err != nil {
			return util.AppErrorResponse(c, err)
		}
		return util.SuccessResponse(c, util.SuccessResponseFormat{
			Message: message,
			Data:    dto.NewApplicationDTO(app),
		})
	}
}
