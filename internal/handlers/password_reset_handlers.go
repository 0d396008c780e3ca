package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yasinhessnawi1/password-reset-backend/internal/constants"
	"github.com/yasinhessnawi1/password-reset-backend/internal/models"
	"github.com/yasinhessnawi1/password-reset-backend/internal/utils"
)

// PasswordResetHandler handles the forgot/reset password routes
type PasswordResetHandler struct {
	resetService PasswordResetServiceInterface
}

// NewPasswordResetHandler creates a new PasswordResetHandler
func NewPasswordResetHandler(resetService PasswordResetServiceInterface) *PasswordResetHandler {
	if resetService == nil {
		panic("resetService cannot be nil")
	}
	return &PasswordResetHandler{
		resetService: resetService,
	}
}

// ForgotPassword sends a reset link to the account with the given email
func (h *PasswordResetHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	if err := h.resetService.ForgotPassword(r.Context(), req.Email); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{
		"message": constants.MsgResetEmailSent,
	})
}

// ResetPassword sets a new password for the user in the path
func (h *PasswordResetHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, constants.ParamUserID)
	token := chi.URLParam(r, constants.ParamResetToken)

	var req models.ResetPasswordRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	user, err := h.resetService.ResetPassword(r.Context(), id, token, req.Password)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"message": constants.MsgPasswordResetDone,
		"user":    user,
	})
}
