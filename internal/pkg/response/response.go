package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Uniform API envelope: {"message": ..., "data": ...}.

func Success(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, gin.H{"message": message, "data": data})
}

func Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, gin.H{"message": message, "data": data})
}

func BadRequest(c *gin.Context, message string, data any) {
	c.JSON(http.StatusBadRequest, gin.H{"message": message, "data": data})
}

func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{"message": message, "data": nil})
}

func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{"message": message, "data": nil})
}

func ServerError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, gin.H{"message": message, "data": nil})
}
