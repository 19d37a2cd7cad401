package auth

import "github.com/gin-gonic/gin"

const (
	ctxUserID   = "userID"
	ctxUsername = "username"
)

// GetUserID returns the authenticated user's ID or 0.
func GetUserID(c *gin.Context) int64 {
	if v, ok := c.Get(ctxUserID); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

// GetUsername returns the authenticated user's name or empty string.
func GetUsername(c *gin.Context) string {
	return c.GetString(ctxUsername)
}

// SetIdentity stores the authenticated identity on the request context.
func SetIdentity(c *gin.Context, userID int64, username string) {
	c.Set(ctxUserID, userID)
	c.Set(ctxUsername, username)
}
