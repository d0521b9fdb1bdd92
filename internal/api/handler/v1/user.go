package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/quizhub/quizhub-api/internal/api/handler/v1/request"
	"github.com/quizhub/quizhub-api/internal/api/handler/v1/response"
	"github.com/quizhub/quizhub-api/internal/api/middleware"
	"github.com/quizhub/quizhub-api/internal/domain"
	"github.com/quizhub/quizhub-api/internal/service"
)

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, userID uint, update domain.UserUpdate, actingUserID uint) (domain.User, error)
	DeleteUser(ctx context.Context, userID, actingUserID uint) error
}

// MembershipService covers the user-initiated side of the membership workflow.
type MembershipService interface {
	AcceptInvite(ctx context.Context, companyID, actingUserID uint) error
	CreateRequest(ctx context.Context, companyID, actingUserID uint) (domain.Request, error)
}

type UserHandler struct {
	svc        UserService
	membership MembershipService
}

func NewUserHandler(svc UserService, membership MembershipService) *UserHandler {
	return &UserHandler{
		svc:        svc,
		membership: membership,
	}
}

// HandleListUsers godoc
// @Summary      List all users
// @Tags         users
// @Produce      json
// @Success      200      {object}   []domain.User
// @Failure      500      {object}   response.Err
// @Router       /users [get]
func (h *UserHandler) HandleListUsers(ctx *gin.Context) {
	users, err := h.svc.ListUsers(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListUsers -> h.svc.ListUsers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, users)
}

// HandleGetMe godoc
// @Summary      Get the authenticated user's own profile
// @Tags         users
// @Produce      json
// @Success      200      {object}   domain.User
// @Failure      401      {object}   response.Err
// @Router       /users/me [get]
func (h *UserHandler) HandleGetMe(ctx *gin.Context) {
	actingUserID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized())

		return
	}

	user, err := h.svc.GetUser(ctx.Request.Context(), actingUserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrUserNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleGetMe -> h.svc.GetUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleGetUser godoc
// @Summary      Get a user by ID
// @Tags         users
// @Produce      json
// @Param        userID   path       int  true "user ID"
// @Success      200      {object}   domain.User
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users/{userID} [get]
func (h *UserHandler) HandleGetUser(ctx *gin.Context) {
	userID, err := parseIDParam(ctx, "userID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	user, err := h.svc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrUserNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleGetUser -> h.svc.GetUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleUpdateUser godoc
// @Summary      Update own profile (partial)
// @Tags         users
// @Produce      json
// @Param        userID   path       int  true "user ID"
// @Param        request  body       request.UpdateUserRequest true "request body"
// @Success      200      {object}   domain.User
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /users/{userID} [put]
func (h *UserHandler) HandleUpdateUser(ctx *gin.Context) {
	userID, err := parseIDParam(ctx, "userID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	var req request.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	actingUserID, _ := middleware.CurrentUserID(ctx)

	user, err := h.svc.UpdateUser(ctx.Request.Context(), userID, domain.UserUpdate{
		Name:     req.Name,
		Surname:  req.Surname,
		Age:      req.Age,
		Password: req.Password,
	}, actingUserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoAccess):
			response.RenderErr(ctx, response.ErrForbidden(service.ErrNoAccess))
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound(service.ErrUserNotFound))
		default:
			err = fmt.Errorf("v1.HandleUpdateUser -> h.svc.UpdateUser -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleDeleteUser godoc
// @Summary      Delete own account
// @Tags         users
// @Produce      json
// @Param        userID   path       int  true "user ID"
// @Success      200      {object}   response.MessageResponse
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /users/{userID} [delete]
func (h *UserHandler) HandleDeleteUser(ctx *gin.Context) {
	userID, err := parseIDParam(ctx, "userID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	actingUserID, _ := middleware.CurrentUserID(ctx)

	if err := h.svc.DeleteUser(ctx.Request.Context(), userID, actingUserID); err != nil {
		switch {
		case errors.Is(err, service.ErrNoAccess):
			response.RenderErr(ctx, response.ErrForbidden(service.ErrNoAccess))
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound(service.ErrUserNotFound))
		default:
			err = fmt.Errorf("v1.HandleDeleteUser -> h.svc.DeleteUser -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, response.MessageResponse{
		Message: fmt.Sprintf("user with id %d has been successfully deleted", userID),
	})
}

// HandleAcceptInvite godoc
// @Summary      Accept a company's invite
// @Tags         users
// @Produce      json
// @Param        companyID   path    int  true "company ID"
// @Success      200      {object}   response.MessageResponse
// @Failure      404      {object}   response.Err
// @Router       /users/accept-invite/{companyID} [put]
func (h *UserHandler) HandleAcceptInvite(ctx *gin.Context) {
	companyID, err := parseIDParam(ctx, "companyID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	actingUserID, _ := middleware.CurrentUserID(ctx)

	if err := h.membership.AcceptInvite(ctx.Request.Context(), companyID, actingUserID); err != nil {
		switch {
		case errors.Is(err, service.ErrInviteNotFound):
			response.RenderErr(ctx, response.ErrNotFound(service.ErrInviteNotFound))
		case errors.Is(err, service.ErrCompanyNotFound):
			response.RenderErr(ctx, response.ErrNotFound(service.ErrCompanyNotFound))
		default:
			err = fmt.Errorf("v1.HandleAcceptInvite -> h.membership.AcceptInvite -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, response.MessageResponse{
		Message: fmt.Sprintf("invite from company %d was accepted", companyID),
	})
}

// HandleCreateRequest godoc
// @Summary      Ask to join a company
// @Tags         users
// @Produce      json
// @Param        companyID   path    int  true "company ID"
// @Success      201      {object}   domain.Request
// @Failure      404      {object}   response.Err
// @Router       /users/make-request/{companyID} [post]
func (h *UserHandler) HandleCreateRequest(ctx *gin.Context) {
	companyID, err := parseIDParam(ctx, "companyID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	actingUserID, _ := middleware.CurrentUserID(ctx)

	req, err := h.membership.CreateRequest(ctx.Request.Context(), companyID, actingUserID)
	if err != nil {
		if errors.Is(err, service.ErrCompanyNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrCompanyNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleCreateRequest -> h.membership.CreateRequest -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, req)
}

func parseIDParam(ctx *gin.Context, name string) (uint, error) {
	raw := ctx.Param(name)

	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %v", name)
	}

	return uint(id), nil
}
