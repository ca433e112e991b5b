package info

import (
	"github.com/gin-gonic/gin"

	"github.com/DEV-MEDEV/osecours-backend/internal/config"
	"github.com/DEV-MEDEV/osecours-backend/internal/pkg/response"
)

type Handler struct {
	env string
}

func NewHandler(env string) *Handler {
	return &Handler{env: env}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	v1.GET("/info", h.Info)
}

// Info expose les métadonnées de l'application.
// @Summary		Informations système
// @Tags		Info
// @Success		200	{object}	map[string]interface{}
// @Router		/info [GET]
func (h *Handler) Info(c *gin.Context) {
	response.Success(c, "Informations du système", gin.H{
		"name":        config.AppName,
		"author":      config.AppAuthor,
		"description": config.AppDescription,
		"environment": h.env,
	})
}
