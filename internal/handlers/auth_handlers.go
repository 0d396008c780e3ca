package handlers

import (
	"net/http"

	"github.com/yasinhessnawi1/password-reset-backend/internal/constants"
	"github.com/yasinhessnawi1/password-reset-backend/internal/models"
	"github.com/yasinhessnawi1/password-reset-backend/internal/utils"
)

// AuthHandler handles registration and login routes
type AuthHandler struct {
	authService AuthServiceInterface
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService AuthServiceInterface) *AuthHandler {
	if authService == nil {
		panic("authService cannot be nil")
	}
	return &AuthHandler{
		authService: authService,
	}
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var reg models.UserRegistration
	if err := utils.DecodeAndValidate(r, &reg); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	user, err := h.authService.Register(r.Context(), reg.Name, reg.Email, reg.Password)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusCreated, map[string]interface{}{
		"message": constants.MsgUserRegistered,
		"user":    user,
	})
}

// Login handles user authentication
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.UserCredentials
	if err := utils.DecodeAndValidate(r, &creds); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	resp, err := h.authService.Login(r.Context(), creds.Email, creds.Password)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"message": constants.MsgLoginSuccessful,
		"token":   resp.Token,
		"role":    resp.Role,
	})
}
