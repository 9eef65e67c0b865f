package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/examplecore/account-service/internal/api/metrics"
	"github.com/examplecore/account-service/internal/core/ports"
	"github.com/examplecore/account-service/internal/security"
)

// RateLimiter throttles abuse-prone endpoints. The Redis limiter satisfies
// this; tests substitute a stub.
type RateLimiter interface {
	Allow(ctx context.Context, scope, subject string) (bool, error)
}

// AccountHandler exposes the account lifecycle over HTTP.
type AccountHandler struct {
	accounts ports.AccountService
	roles    ports.RoleService
	tokens   *security.SessionTokens
	limiter  RateLimiter
}

func NewAccountHandler(accounts ports.AccountService, roles ports.RoleService, tokens *security.SessionTokens, limiter RateLimiter) *AccountHandler {
	return &AccountHandler{accounts: accounts, roles: roles, tokens: tokens, limiter: limiter}
}

// Create registers a new account and emails a verification link.
//
// @Summary      Register a new account
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      createAccountRequest  true  "Registration details"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /account/create [post]
func (h *AccountHandler) Create(c echo.Context) error {
	var req createAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	_, err := h.accounts.Create(c.Request().Context(), ports.CreateAccountInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, messageResponse{Message: "verification email sent"})
}

// Login authenticates an account and returns a short-lived bearer token
// carrying email, name and role claims.
//
// @Summary      Login
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /account/login [post]
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err := h.allow(ctx, "login", req.Email); err != nil {
		return err
	}

	account, err := h.accounts.Login(ctx, req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("denied").Inc()
		return err
	}

	roles, err := h.roles.RolesFor(ctx, account.Email)
	if err != nil {
		return err
	}

	token, err := h.tokens.Issue(account, roles)
	if err != nil {
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, tokenResponse{Token: token})
}

// Update changes the profile and optionally the password of the
// authenticated account. The old password is always re-verified.
//
// @Summary      Update account
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      updateAccountRequest  true  "Update details"
// @Success      200   {object}  messageResponse
// @Failure      401   {object}  map[string]string
// @Security     BearerAuth
// @Router       /account/update [put]
func (h *AccountHandler) Update(c echo.Context) error {
	email, err := ctxEmail(c)
	if err != nil {
		return err
	}

	var req updateAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.accounts.Update(c.Request().Context(), ports.UpdateAccountInput{
		Email:       email,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
	}); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "account updated"})
}

// GetInfo returns the public projection of the authenticated account.
//
// @Summary      Get account info
// @Tags         account
// @Produce      json
// @Success      200  {object}  domain.AccountInfo
// @Failure      401  {object}  map[string]string
// @Security     BearerAuth
// @Router       /account/info [get]
func (h *AccountHandler) GetInfo(c echo.Context) error {
	email, err := ctxEmail(c)
	if err != nil {
		return err
	}

	info, err := h.accounts.GetInfo(c.Request().Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, info)
}

// VerifyEmail redeems an emailed verification token.
//
// @Summary      Verify email address
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      verifyEmailRequest  true  "Verification token"
// @Success      200   {object}  messageResponse
// @Failure      401   {object}  map[string]string
// @Router       /account/verify-email [post]
func (h *AccountHandler) VerifyEmail(c echo.Context) error {
	var req verifyEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.accounts.VerifyEmail(c.Request().Context(), req.Token); err != nil {
		metrics.VerificationsTotal.WithLabelValues("rejected").Inc()
		return err
	}
	metrics.VerificationsTotal.WithLabelValues("verified").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "email verified"})
}

// RequestPasswordReset opens a reset window. The response is identical
// whether or not the email has an account.
//
// @Summary      Request a password reset link
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      requestResetRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      429   {object}  map[string]string
// @Router       /account/request-password-reset [post]
func (h *AccountHandler) RequestPasswordReset(c echo.Context) error {
	var req requestResetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err := h.allow(ctx, "reset", req.Email); err != nil {
		return err
	}

	metrics.ResetRequestsTotal.Inc()
	if err := h.accounts.RequestPasswordReset(ctx, req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "if the account exists, a reset link has been sent"})
}

// CheckPasswordReset reports whether a reset token is currently redeemable,
// so the client can show the new-password form only for live links.
//
// @Summary      Check a password reset token
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      checkResetRequest  true  "Email and token"
// @Success      200   {object}  checkResetResponse
// @Router       /account/check-password-reset [post]
func (h *AccountHandler) CheckPasswordReset(c echo.Context) error {
	var req checkResetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	valid, err := h.accounts.CheckPasswordReset(c.Request().Context(), req.Email, req.Token)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, checkResetResponse{Valid: valid})
}

// ResetPassword redeems a reset token and installs a new password. The
// token is single-use.
//
// @Summary      Complete a password reset
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Email, token and new password"
// @Success      200   {object}  messageResponse
// @Failure      401   {object}  map[string]string
// @Router       /account/reset-password [post]
func (h *AccountHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.accounts.ResetPassword(c.Request().Context(), req.Email, req.Token, req.NewPassword); err != nil {
		metrics.ResetRedemptionsTotal.WithLabelValues("rejected").Inc()
		return err
	}
	metrics.ResetRedemptionsTotal.WithLabelValues("reset").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "password reset"})
}

// allow consults the rate limiter when one is configured. Limiter errors are
// swallowed so Redis trouble never blocks authentication.
func (h *AccountHandler) allow(ctx context.Context, scope, subject string) error {
	if h.limiter == nil {
		return nil
	}
	ok, _ := h.limiter.Allow(ctx, scope, subject)
	if !ok {
		metrics.RateLimitedTotal.WithLabelValues(scope).Inc()
		return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
	}
	return nil
}
