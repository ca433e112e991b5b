package citizen

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/DEV-MEDEV/osecours-backend/internal/modules/otp"
	"github.com/DEV-MEDEV/osecours-backend/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	citizenGroup := v1.Group("/citizen")
	{
		citizenGroup.POST("/register", h.Register)
	}
}

// Register crée un compte citoyen; le numéro doit avoir été vérifié par
// OTP au préalable.
// @Summary		Inscription citoyen
// @Tags		Citoyen
// @Param		request	body	RegisterRequest	true	"Données d'inscription"
// @Success		201	{object}	map[string]interface{}
// @Failure		400	{object}	map[string]interface{}
// @Router		/citizen/register [POST]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Données d'inscription invalides", nil)
		return
	}

	result, err := h.service.Register(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, otp.ErrInvalidPhone):
			response.BadRequest(c, "Numéro de téléphone invalide", nil)
		case errors.Is(err, ErrPhoneNotVerified):
			response.BadRequest(c, "Ce numéro doit être vérifié avec un code OTP avant l'inscription", nil)
		case errors.Is(err, ErrOtpExpired):
			response.BadRequest(c, "La validation OTP a expiré, veuillez recommencer", nil)
		case errors.Is(err, ErrEmailTaken):
			response.BadRequest(c, "Email déjà utilisé", nil)
		case errors.Is(err, ErrPhoneTaken):
			response.BadRequest(c, "Numéro de téléphone déjà utilisé", nil)
		default:
			response.ServerError(c, "Erreur lors de l'inscription")
		}
		return
	}

	user := result.User
	response.Created(c, "Compte créé avec succès", gin.H{
		"id":     user.ID,
		"nom":    fmt.Sprintf("%s %s", user.FirstName, user.LastName),
		"email":  user.Email,
		"tokens": result.Tokens,
	})
}
