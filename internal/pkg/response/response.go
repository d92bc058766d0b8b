// Package response writes the wire error shape shared by every endpoint:
// a stable machine-readable code, a human-readable message and the HTTP
// status repeated in the body.
package response

import "github.com/gin-gonic/gin"

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"code":    code,
		"message": message,
		"status":  statusCode,
	})
}

func AbortError(c *gin.Context, statusCode int, code string, message string) {
	c.AbortWithStatusJSON(statusCode, gin.H{
		"code":    code,
		"message": message,
		"status":  statusCode,
	})
}
