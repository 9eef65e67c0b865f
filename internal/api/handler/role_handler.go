package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/examplecore/account-service/internal/core/ports"
)

// RoleHandler exposes role management. Every route is gated on the admin
// role by middleware.
type RoleHandler struct {
	roles ports.RoleService
}

func NewRoleHandler(roles ports.RoleService) *RoleHandler {
	return &RoleHandler{roles: roles}
}

type createRoleRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

type roleAssignmentRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role"  validate:"required,max=200"`
}

// List returns all role names.
//
// @Summary      List roles
// @Tags         roles
// @Produce      json
// @Success      200  {array}   string
// @Security     BearerAuth
// @Router       /roles [get]
func (h *RoleHandler) List(c echo.Context) error {
	names, err := h.roles.ListRoles(c.Request().Context())
	if err != nil {
		return err
	}
	if names == nil {
		names = []string{}
	}
	return c.JSON(http.StatusOK, names)
}

// Create adds a new role label.
//
// @Summary      Create a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        body  body      createRoleRequest  true  "Role name"
// @Success      201   {object}  domain.Role
// @Failure      409   {object}  map[string]string
// @Security     BearerAuth
// @Router       /roles [post]
func (h *RoleHandler) Create(c echo.Context) error {
	var req createRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	role, err := h.roles.CreateRole(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, role)
}

// Assign attaches a role to an account.
//
// @Summary      Assign a role to an account
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        body  body      roleAssignmentRequest  true  "Email and role name"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Security     BearerAuth
// @Router       /roles/assign [post]
func (h *RoleHandler) Assign(c echo.Context) error {
	var req roleAssignmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.roles.Assign(c.Request().Context(), req.Email, req.Role); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "role assigned"})
}

// Unassign detaches a role from an account. Detaching a role the account
// does not hold succeeds without effect.
//
// @Summary      Unassign a role from an account
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        body  body      roleAssignmentRequest  true  "Email and role name"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Security     BearerAuth
// @Router       /roles/unassign [post]
func (h *RoleHandler) Unassign(c echo.Context) error {
	var req roleAssignmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.roles.Unassign(c.Request().Context(), req.Email, req.Role); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "role unassigned"})
}
