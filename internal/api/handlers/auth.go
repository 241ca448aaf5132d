package handlers

import (
	"net/http"

	"ecofinds/internal/auth"
	"ecofinds/internal/logger"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth   *auth.Service
	logger *logger.Logger
}

func NewAuthHandler(auth *auth.Service, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger,
	}
}

type signUpRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Username string `json:"username" binding:"required"`
}

type signInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Email, password and username are required")
		return
	}

	user, err := h.auth.SignUp(c.Request.Context(), req.Email, req.Password, req.Username)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create account")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": user})
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Email and password are required")
		return
	}

	session, err := h.auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err, "Failed to sign in")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": session})
}

func (h *AuthHandler) SignOut(c *gin.Context) {
	if err := h.auth.SignOut(c.Request.Context(), c.GetString(auth.ContextToken)); err != nil {
		respondError(c, h.logger, err, "Failed to sign out")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) Profile(c *gin.Context) {
	user, err := h.auth.GetProfile(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": user})
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var update auth.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		badRequest(c, err.Error())
		return
	}

	user, err := h.auth.UpdateProfile(c.Request.Context(), auth.UserID(c), update)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": user})
}
