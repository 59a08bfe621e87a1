package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coursecraft/coursecraft-backend/internal/logger"
	"github.com/coursecraft/coursecraft-backend/internal/services"
)

type AuthHandler struct {
	log *logger.Logger
	svc services.AuthService
}

func NewAuthHandler(baseLog *logger.Logger, svc services.AuthService) *AuthHandler {
	return &AuthHandler{
		log: baseLog.With("handler", "AuthHandler"),
		svc: svc,
	}
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var body loginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "validation_error", fmt.Errorf("invalid request body"))
		return
	}
	token, user, err := h.svc.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"token": token,
		"user":  user,
	})
}

type registerBody struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var body registerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "validation_error", fmt.Errorf("invalid request body"))
		return
	}
	user, err := h.svc.Register(c.Request.Context(), body.Email, body.Password, body.FirstName, body.LastName)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"user": user})
}
