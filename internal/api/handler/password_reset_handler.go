package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medifirst/medifirst-api/internal/api/metrics"
	"github.com/medifirst/medifirst-api/internal/core/domain"
	"github.com/medifirst/medifirst-api/internal/core/ports"
)

const resetCompletedMessage = "Password reset successfully. You can now sign in."

// PasswordResetHandler exposes the credential recovery flow: request a link,
// open the link in a browser, submit the new password.
type PasswordResetHandler struct {
	service ports.PasswordResetService
}

func NewPasswordResetHandler(service ports.PasswordResetService) *PasswordResetHandler {
	return &PasswordResetHandler{service: service}
}

// ForgotPassword issues a reset link. The response is identical whether or
// not the address belongs to an account.
//
// @Summary      Request a password reset link
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/forgot-password [post]
func (h *PasswordResetHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.ResetRequestsTotal.WithLabelValues(metrics.ResultRejected).Inc()
		return err
	}

	if err := h.service.RequestReset(c.Request().Context(), req.Email); err != nil {
		if errors.Is(err, domain.ErrEmailRequired) {
			metrics.ResetRequestsTotal.WithLabelValues(metrics.ResultRejected).Inc()
		} else {
			metrics.ResetRequestsTotal.WithLabelValues(metrics.ResultError).Inc()
		}
		return err
	}

	metrics.ResetRequestsTotal.WithLabelValues(metrics.ResultOK).Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: ports.ResetRequestedMessage})
}

// ShowResetForm serves the browser page behind a reset link: the password
// form when the token is live, an expired-link page otherwise.
//
// @Summary      Reset password page
// @Tags         auth
// @Produce      html
// @Param        token  path  string  true  "Reset token from the email"
// @Success      200
// @Router       /auth/reset-password/{token} [get]
func (h *PasswordResetHandler) ShowResetForm(c echo.Context) error {
	user, err := h.service.VerifyResetToken(c.Request().Context(), c.Param("token"))
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidResetToken) {
			return err
		}
		page, rerr := renderPage(resetExpiredPage, nil)
		if rerr != nil {
			return rerr
		}
		return c.HTML(http.StatusOK, page)
	}

	page, err := renderPage(resetFormPage, resetFormData{
		FirstName: user.FirstName,
		Action:    c.Request().URL.Path,
		MinLength: domain.MinPasswordLength,
	})
	if err != nil {
		return err
	}
	c.Response().Header().Set("Cache-Control", "no-store")
	return c.HTML(http.StatusOK, page)
}

// ResetPassword sets a new password for the account holding the token.
//
// @Summary      Reset password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token  path      string                true  "Reset token from the email"
// @Param        body   body      resetPasswordRequest  true  "New password"
// @Success      200    {object}  messageResponse
// @Failure      400    {object}  errorResponse
// @Failure      500    {object}  errorResponse
// @Router       /auth/reset-password/{token} [post]
func (h *PasswordResetHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.ResetCompletionsTotal.WithLabelValues(metrics.ResultRejected).Inc()
		return err
	}

	err := h.service.ResetPassword(c.Request().Context(), c.Param("token"), req.Password)
	switch {
	case err == nil:
		metrics.ResetCompletionsTotal.WithLabelValues(metrics.ResultOK).Inc()
		return c.JSON(http.StatusOK, messageResponse{Message: resetCompletedMessage})
	case errors.Is(err, domain.ErrInvalidResetToken):
		metrics.ResetCompletionsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
	case errors.Is(err, domain.ErrWeakPassword), errors.Is(err, domain.ErrPasswordTooLong):
		metrics.ResetCompletionsTotal.WithLabelValues(metrics.ResultRejected).Inc()
	default:
		metrics.ResetCompletionsTotal.WithLabelValues(metrics.ResultError).Inc()
	}
	return err
}
