package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quizhub/quizhub-api/internal/api/handler/v1/request"
	"github.com/quizhub/quizhub-api/internal/api/handler/v1/response"
	"github.com/quizhub/quizhub-api/internal/api/middleware"
	"github.com/quizhub/quizhub-api/internal/domain"
	"github.com/quizhub/quizhub-api/internal/service"
)

type CompanyService interface {
	CreateCompany(ctx context.Context, company domain.Company, ownerID uint) (domain.Company, error)
	GetCompany(ctx context.Context, id uint) (domain.Company, error)
	ListVisibleCompanies(ctx context.Context) ([]domain.Company, error)
	UpdateCompany(ctx context.Context, companyID uint, update domain.CompanyUpdate, actingUserID uint) (domain.Company, error)
	ChangeVisibility(ctx context.Context, companyID uint, isVisible bool, actingUserID uint) error
	DeleteCompany(ctx context.Context, companyID, actingUserID uint) error

	InviteUser(ctx context.Context, companyID, userID, actingUserID uint) (domain.Invite, error)
	AcceptRequest(ctx context.Context, companyID, userID, actingUserID uint) error
	RemoveEmployee(ctx context.Context, companyID, userID, actingUserID uint) error
	AppointAdmin(ctx context.Context, companyID, userID, actingUserID uint) error
	RemoveAdmin(ctx context.Context, companyID, userID, actingUserID uint) error
}

type CompanyHandler struct {
	svc CompanyService
}

func NewCompanyHandler(svc CompanyService) *CompanyHandler {
	return &CompanyHandler{
		svc: svc,
	}
}

// renderCompanyErr maps membership/authorization sentinels onto HTTP statuses.
func renderCompanyErr(ctx *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrNoAccess):
		response.RenderErr(ctx, response.ErrForbidden(service.ErrNoAccess))
	case errors.Is(err, service.ErrCompanyNotFound):
		response.RenderErr(ctx, response.ErrNotFound(service.ErrCompanyNotFound))
	case errors.Is(err, service.ErrUserNotFound):
		response.RenderErr(ctx, response.ErrNotFound(service.ErrUserNotFound))
	case errors.Is(err, service.ErrNotAnEmployee):
		response.RenderErr(ctx, response.ErrNotFound(service.ErrNotAnEmployee))
	case errors.Is(err, service.ErrNotAnAdmin):
		response.RenderErr(ctx, response.ErrNotFound(service.ErrNotAnAdmin))
	case errors.Is(err, service.ErrInviteNotFound):
		response.RenderErr(ctx, response.ErrNotFound(service.ErrInviteNotFound))
	case errors.Is(err, service.ErrRequestNotFound):
		response.RenderErr(ctx, response.ErrNotFound(service.ErrRequestNotFound))
	case errors.Is(err, service.ErrCompanyTitleExists):
		response.RenderErr(ctx, response.ErrBadRequest(service.ErrCompanyTitleExists))
	default:
		err = fmt.Errorf("%v -> %w", op, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}

// HandleListCompanies godoc
// @Summary      List all visible companies
// @Tags         companies
// @Produce      json
// @Success      200      {object}   []domain.Company
// @Failure      500      {object}   response.Err
// @Router       /companies [get]
func (h *CompanyHandler) HandleListCompanies(ctx *gin.Context) {
	companies, err := h.svc.ListVisibleCompanies(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListCompanies -> h.svc.ListVisibleCompanies -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, companies)
}

// HandleGetCompany godoc
// @Summary      Get a company with its members
// @Tags         companies
// @Produce      json
// @Param        companyID   path    int  true "company ID"
// @Success      200      {object}   domain.Company
// @Failure      404      {object}   response.Err
// @Router       /companies/{companyID} [get]
func (h *CompanyHandler) HandleGetCompany(ctx *gin.Context) {
	companyID, err := parseIDParam(ctx, "companyID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	company, err := h.svc.GetCompany(ctx.Request.Context(), companyID)
	if err != nil {
		renderCompanyErr(ctx, "v1.HandleGetCompany -> h.svc.GetCompany", err)

		return
	}

	ctx.JSON(http.StatusOK, company)
}

// HandleCreateCompany godoc
// @Summary      Create a company owned by the caller
// @Tags         companies
// @Produce      json
// @Param        request   body      request.CreateCompanyRequest true "request body"
// @Success      201      {object}   domain.Company
// @Failure      400      {object}   response.Err
// @Router       /companies [post]
func (h *CompanyHandler) HandleCreateCompany(ctx *gin.Context) {
	var req request.CreateCompanyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	actingUserID, _ := middleware.CurrentUserID(ctx)

	company, err := h.svc.CreateCompany(ctx.Request.Context(), domain.Company{
		Title:       req.Title,
		Description: req.Description,
		IsVisible:   req.IsVisible,
	}, actingUserID)
	if err != nil {
		renderCompanyErr(ctx, "v1.HandleCreateCompany -> h.svc.CreateCompany", err)

		return
	}

	ctx.JSON(http.StatusCreated, company)
}

// HandleUpdateCompany godoc
// @Summary      Update a company's title/description (owner only)
// @Tags         companies
// @Produce      json
// @Param        companyID   path    int  true "company ID"
// @Param        request   body      request.UpdateCompanyRequest true "request body"
// @Success      200      {object}   domain.Company
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /companies/{companyID} [put]
func (h *CompanyHandler) HandleUpdateCompany(ctx *gin.Context) {
	companyID, err := parseIDParam(ctx, "companyID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	var req request.UpdateCompanyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	actingUserID, _ := middleware.CurrentUserID(ctx)

	company, err := h.svc.UpdateCompany(ctx.Request.Context(), companyID, domain.CompanyUpdate{
		Title:       req.Title,
		Description: req.Description,
	}, actingUserID)
	if err != nil {
		renderCompanyErr(ctx, "v1.HandleUpdateCompany -> h.svc.UpdateCompany", err)

		return
	}

	ctx.JSON(http.StatusOK, company)
}

// HandleChangeVisibility godoc
// @Summary      Change a company's visibility (owner only)
// @Tags         companies
// @Produce      json
// @Param        companyID   path    int  true "company ID"
// @Param        request   body      request.ChangeVisibilityRequest true "request body"
// @Success      200      {object}   response.MessageResponse
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /companies/{companyID}/visibility [put]
func (h *CompanyHandler) HandleChangeVisibility(ctx *gin.Context) {
	companyID, err := parseIDParam(ctx, "companyID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	var req request.ChangeVisibilityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	actingUserID, _ := middleware.CurrentUserID(ctx)

	if err := h.svc.ChangeVisibility(ctx.Request.Context(), companyID, *req.IsVisible, actingUserID); err != nil {
		renderCompanyErr(ctx, "v1.HandleChangeVisibility -> h.svc.ChangeVisibility", err)

		return
	}

	ctx.JSON(http.StatusOK, response.MessageResponse{Message: "changes have been applied"})
}

// HandleDeleteCompany godoc
// @Summary      Delete a company (owner only)
// @Tags         companies
// @Produce      json
// @Param        companyID   path    int  true "company ID"
// @Success      200      {object}   response.MessageResponse
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /companies/{companyID} [delete]
func (h *CompanyHandler) HandleDeleteCompany(ctx *gin.Context) {
	companyID, err := parseIDParam(ctx, "companyID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	actingUserID, _ := middleware.CurrentUserID(ctx)

	if err := h.svc.DeleteCompany(ctx.Request.Context(), companyID, actingUserID); err != nil {
		renderCompanyErr(ctx, "v1.HandleDeleteCompany -> h.svc.DeleteCompany", err)

		return
	}

	ctx.JSON(http.StatusOK, response.MessageResponse{
		Message: fmt.Sprintf("company with id %d has been successfully deleted", companyID),
	})
}

// HandleInviteUser godoc
// @Summary      Invite a user to the company (owner only)
// @Tags         companies
// @Produce      json
// @Param        companyID   path    int  true "company ID"
// @Param        request   body      request.MemberRequest true "request body"
// @Success      201      {object}   domain.Invite
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /companies/{companyID}/invites [post]
func (h *CompanyHandler) HandleInviteUser(ctx *gin.Context) {
	companyID, req, ok := h.bindMemberAction(ctx)
	if !ok {
		return
	}

	actingUserID, _ := middleware.CurrentUserID(ctx)

	invite, err := h.svc.InviteUser(ctx.Request.Context(), companyID, req.UserID, actingUserID)
	if err != nil {
		renderCompanyErr(ctx, "v1.HandleInviteUser -> h.svc.InviteUser", err)

		return
	}

	ctx.JSON(http.StatusCreated, invite)
}

// HandleAcceptRequest godoc
// @Summary      Approve a join request (owner only)
// @Tags         companies
// @Produce      json
// @Param        companyID   path    int  true "company ID"
// @Param        request   body      request.MemberRequest true "request body"
// @Success      200      {object}   response.MessageResponse
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /companies/{companyID}/requests/accept [put]
func (h *CompanyHandler) HandleAcceptRequest(ctx *gin.Context) {
	companyID, req, ok := h.bindMemberAction(ctx)
	if !ok {
		return
	}

	actingUserID, _ := middleware.CurrentUserID(ctx)

	if err := h.svc.AcceptRequest(ctx.Request.Context(), companyID, req.UserID, actingUserID); err != nil {
		renderCompanyErr(ctx, "v1.HandleAcceptRequest -> h.svc.AcceptRequest", err)

		return
	}

	ctx.JSON(http.StatusOK, response.MessageResponse{
		Message: fmt.Sprintf("request from user with id %d was approved", req.UserID),
	})
}

// HandleRemoveEmployee godoc
// @Summary      Remove an employee (owner only)
// @Tags         companies
// @Produce      json
// @Param        companyID   path    int  true "company ID"
// @Param        request   body      request.MemberRequest true "request body"
// @Success      200      {object}   response.MessageResponse
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /companies/{companyID}/employees/remove [put]
func (h *CompanyHandler) HandleRemoveEmployee(ctx *gin.Context) {
	companyID, req, ok := h.bindMemberAction(ctx)
	if !ok {
		return
	}

	actingUserID, _ := middleware.CurrentUserID(ctx)

	if err := h.svc.RemoveEmployee(ctx.Request.Context(), companyID, req.UserID, actingUserID); err != nil {
		renderCompanyErr(ctx, "v1.HandleRemoveEmployee -> h.svc.RemoveEmployee", err)

		return
	}

	ctx.JSON(http.StatusOK, response.MessageResponse{
		Message: fmt.Sprintf("employee with id %d has been successfully removed", req.UserID),
	})
}

// HandleAppointAdmin godoc
// @Summary      Appoint an employee as admin (owner only)
// @Tags         companies
// @Produce      json
// @Param        companyID   path    int  true "company ID"
// @Param        request   body      request.MemberRequest true "request body"
// @Success      200      {object}   response.MessageResponse
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /companies/{companyID}/admins [post]
func (h *CompanyHandler) HandleAppointAdmin(ctx *gin.Context) {
	companyID, req, ok := h.bindMemberAction(ctx)
	if !ok {
		return
	}

	actingUserID, _ := middleware.CurrentUserID(ctx)

	if err := h.svc.AppointAdmin(ctx.Request.Context(), companyID, req.UserID, actingUserID); err != nil {
		renderCompanyErr(ctx, "v1.HandleAppointAdmin -> h.svc.AppointAdmin", err)

		return
	}

	ctx.JSON(http.StatusOK, response.MessageResponse{
		Message: fmt.Sprintf("user with id %d was appointed as admin", req.UserID),
	})
}

// HandleRemoveAdmin godoc
// @Summary      Deprive an admin of management rights (owner only)
// @Tags         companies
// @Produce      json
// @Param        companyID   path    int  true "company ID"
// @Param        request   body      request.MemberRequest true "request body"
// @Success      200      {object}   response.MessageResponse
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /companies/{companyID}/admins/remove [put]
func (h *CompanyHandler) HandleRemoveAdmin(ctx *gin.Context) {
	companyID, req, ok := h.bindMemberAction(ctx)
	if !ok {
		return
	}

	actingUserID, _ := middleware.CurrentUserID(ctx)

	if err := h.svc.RemoveAdmin(ctx.Request.Context(), companyID, req.UserID, actingUserID); err != nil {
		renderCompanyErr(ctx, "v1.HandleRemoveAdmin -> h.svc.RemoveAdmin", err)

		return
	}

	ctx.JSON(http.StatusOK, response.MessageResponse{
		Message: fmt.Sprintf("employee with id %d was deprived of administrator rights", req.UserID),
	})
}

func (h *CompanyHandler) bindMemberAction(ctx *gin.Context) (uint, request.MemberRequest, bool) {
	companyID, err := parseIDParam(ctx, "companyID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return 0, request.MemberRequest{}, false
	}

	var req request.MemberRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return 0, request.MemberRequest{}, false
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return 0, request.MemberRequest{}, false
	}

	return companyID, req, true
}
