package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SuccessResponse writes data as a 200 JSON body.
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// ErrorResponse aborts the request with {"error": message}.
func ErrorResponse(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
