package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Health struct {
	AIConfigured bool
}

func (h Health) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":            "healthy",
		"gemini_configured": h.AIConfigured,
	})
}
