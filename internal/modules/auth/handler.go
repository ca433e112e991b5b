package auth

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/DEV-MEDEV/osecours-backend/internal/middleware"
	"github.com/DEV-MEDEV/osecours-backend/internal/pkg/response"
)

// Handler manages all HTTP interactions for authentication and sessions.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	authGroup := protected.Group("/auth")
	{
		authGroup.POST("/logout", h.Logout)
		authGroup.DELETE("/logout/all", h.LogoutAll)
		authGroup.GET("/sessions", h.Sessions)
		authGroup.DELETE("/sessions/:id", h.DeleteSession)
	}
}

// Login authentifie un utilisateur (CITIZEN, RESCUE_MEMBER ou ADMIN).
// @Summary		Connexion unifiée
// @Tags		Authentification
// @Param		request	body	LoginRequest	true	"Email et mot de passe"
// @Success		200	{object}	map[string]interface{}
// @Failure		401	{object}	map[string]interface{}
// @Router		/auth/login [POST]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Données invalides", nil)
		return
	}

	result, err := h.service.Login(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Unauthorized(c, "Email ou mot de passe incorrect")
			return
		}
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	user := result.User
	response.Success(c, "Connexion réussie", gin.H{
		"user": gin.H{
			"id":        user.ID,
			"email":     user.Email,
			"role":      user.Role,
			"firstName": user.FirstName,
			"lastName":  user.LastName,
		},
		"tokens":  result.Tokens,
		"context": result.Context,
	})
}

// Logout révoque le token de la session courante.
// @Summary		Déconnexion
// @Tags		Authentification
// @Security	BearerAuth
// @Success		200	{object}	map[string]interface{}
// @Router		/auth/logout [POST]
func (h *Handler) Logout(c *gin.Context) {
	user := middleware.CurrentUser(c)
	token := middleware.CurrentToken(c)

	if err := h.service.Logout(c.Request.Context(), user, token, c.ClientIP()); err != nil {
		response.ServerError(c, "Erreur lors de la déconnexion")
		return
	}
	response.Success(c, "Déconnexion réussie", nil)
}

// LogoutAll révoque tous les tokens actifs de l'utilisateur.
// @Summary		Déconnexion de toutes les sessions
// @Tags		Authentification
// @Security	BearerAuth
// @Success		200	{object}	map[string]interface{}
// @Router		/auth/logout/all [DELETE]
func (h *Handler) LogoutAll(c *gin.Context) {
	user := middleware.CurrentUser(c)

	if err := h.service.LogoutAll(c.Request.Context(), user, c.ClientIP()); err != nil {
		response.ServerError(c, "Erreur lors de la déconnexion de toutes les sessions")
		return
	}
	response.Success(c, "Déconnexion de toutes les sessions réussie", nil)
}

// Refresh échange un refresh token valide contre une nouvelle paire de
// tokens; l'ancien refresh token est révoqué (rotation à usage unique).
// @Summary		Renouvellement de tokens
// @Tags		Authentification
// @Param		request	body	RefreshRequest	true	"Refresh token"
// @Success		200	{object}	map[string]interface{}
// @Failure		401	{object}	map[string]interface{}
// @Router		/auth/refresh [POST]
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Données invalides", nil)
		return
	}

	result, err := h.service.Refresh(c.Request.Context(), req.RefreshToken, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, ErrRefreshTokenExpired):
			response.Unauthorized(c, "Le token a expiré, veuillez vous reconnecter.")
		case errors.Is(err, ErrWrongTokenType):
			response.Unauthorized(c, "Type de token invalide")
		case errors.Is(err, ErrRefreshTokenRevoked):
			response.Unauthorized(c, "Refresh token révoqué, veuillez vous reconnecter")
		case errors.Is(err, ErrUserNotFound):
			response.Unauthorized(c, "Utilisateur non trouvé ou inactif")
		case errors.Is(err, ErrAdminRefresh):
			response.Unauthorized(c, "Les administrateurs ne peuvent pas utiliser les refresh tokens")
		case errors.Is(err, ErrInvalidRefreshToken):
			response.Unauthorized(c, "Refresh token invalide")
		default:
			response.ServerError(c, "Erreur interne du serveur")
		}
		return
	}

	response.Success(c, "Token renouvelé avec succès", gin.H{"tokens": result.Tokens})
}

// Sessions liste les sessions actives de l'utilisateur.
// @Summary		Sessions actives
// @Tags		Authentification
// @Security	BearerAuth
// @Success		200	{object}	map[string]interface{}
// @Router		/auth/sessions [GET]
func (h *Handler) Sessions(c *gin.Context) {
	user := middleware.CurrentUser(c)
	token := middleware.CurrentToken(c)

	result, err := h.service.Sessions(c.Request.Context(), user, token, c.ClientIP())
	if err != nil {
		response.ServerError(c, "Erreur lors de la récupération des sessions")
		return
	}

	response.Success(c, "Sessions actives récupérées", gin.H{
		"sessions": result,
		"summary": gin.H{
			"totalActiveSessions": result.Total,
			"accessTokensCount":   len(result.AccessTokens),
			"refreshTokensCount":  len(result.RefreshTokens),
		},
	})
}

// DeleteSession révoque une session spécifique de l'utilisateur.
// @Summary		Supprimer une session
// @Tags		Authentification
// @Security	BearerAuth
// @Param		id	path	string	true	"ID de session"
// @Success		200	{object}	map[string]interface{}
// @Failure		404	{object}	map[string]interface{}
// @Router		/auth/sessions/{id} [DELETE]
func (h *Handler) DeleteSession(c *gin.Context) {
	user := middleware.CurrentUser(c)
	token := middleware.CurrentToken(c)
	sessionID := c.Param("id")

	deleted, err := h.service.DeleteSession(c.Request.Context(), user, token, sessionID, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, ErrSessionNotFound):
			response.NotFound(c, "Session non trouvée ou non autorisée")
		case errors.Is(err, ErrCurrentSession):
			response.BadRequest(c, "Impossible de supprimer la session actuelle. Utilisez /logout pour vous déconnecter.", nil)
		default:
			response.ServerError(c, "Erreur lors de la suppression de la session")
		}
		return
	}

	response.Success(c, "Session supprimée avec succès", gin.H{"deletedSession": deleted})
}
