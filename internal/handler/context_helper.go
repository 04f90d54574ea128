package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/kokurikuler-api/internal/middleware"
	"github.com/noah-isme/kokurikuler-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.CallerClaims(c)
}
