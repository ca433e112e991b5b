package otp

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/DEV-MEDEV/osecours-backend/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/otp-request", h.Request)
		authGroup.POST("/verify-otp", h.Verify)
	}
}

// Request envoie un code de vérification par SMS.
// @Summary		Demande d'OTP
// @Tags		OTP
// @Param		request	body	RequestOtpRequest	true	"Numéro de téléphone"
// @Success		200	{object}	map[string]interface{}
// @Failure		400	{object}	map[string]interface{}
// @Router		/auth/otp-request [POST]
func (h *Handler) Request(c *gin.Context) {
	var req RequestOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Données invalides", nil)
		return
	}

	phone, err := h.service.Request(c.Request.Context(), req.PhoneNumber, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidPhone):
			response.BadRequest(c, "Numéro de téléphone invalide", nil)
		case errors.Is(err, ErrSendFailed):
			response.ServerError(c, "Erreur lors de l'envoi du SMS")
		default:
			response.ServerError(c, "Erreur interne du serveur")
		}
		return
	}

	response.Success(c, "Code de vérification envoyé par SMS", gin.H{
		"phoneNumber": phone,
		"expiresIn":   fmt.Sprintf("%d minutes", int(h.service.cfg.ExpiresIn.Minutes())),
	})
}

// Verify valide le code reçu par SMS; chaque code est à usage unique.
// @Summary		Vérification d'OTP
// @Tags		OTP
// @Param		request	body	VerifyOtpRequest	true	"Numéro et code"
// @Success		200	{object}	map[string]interface{}
// @Failure		400	{object}	map[string]interface{}
// @Router		/auth/verify-otp [POST]
func (h *Handler) Verify(c *gin.Context) {
	var req VerifyOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Données invalides", nil)
		return
	}

	phone, err := h.service.Verify(c.Request.Context(), req.PhoneNumber, req.Otp, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidPhone):
			response.BadRequest(c, "Numéro de téléphone invalide", nil)
		case errors.Is(err, ErrAlreadyUsed):
			response.BadRequest(c, "Ce code a déjà été utilisé. Demandez un nouveau code de vérification.", nil)
		case errors.Is(err, ErrNotFound):
			response.BadRequest(c, "Code de vérification introuvable. Demandez un nouveau code.", nil)
		case errors.Is(err, ErrExpired):
			response.BadRequest(c, "Code de vérification expiré. Demandez un nouveau code.", nil)
		case errors.Is(err, ErrTooManyAttempts):
			response.BadRequest(c, "Trop de tentatives. Demandez un nouveau code de vérification.", nil)
		case errors.Is(err, ErrIncorrect):
			response.BadRequest(c, "Code de vérification incorrect", nil)
		default:
			response.ServerError(c, "Erreur interne du serveur")
		}
		return
	}

	response.Success(c, "Code de vérification validé avec succès", gin.H{
		"phoneNumber": phone,
		"validated":   true,
	})
}
