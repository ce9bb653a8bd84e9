package middleware

import "github.com/gin-gonic/gin"

// userIDKey is the key used to store the acting user's ID in the context.
const userIDKey = contextKey("userID")

// businessIDKey is the key used to store the tenancy scope in the context.
const businessIDKey = contextKey("businessID")

// GetUserIDFromContext retrieves the acting user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		// check in the request context as well
		userIDVal := c.Request.Context().Value(userIDKey)
		if userIDVal != nil {
			return userIDVal.(string), true
		}
		return "", false
	}

	userID, ok := userIDVal.(string)
	if !ok {
		return "", false
	}
	return userID, true
}

// GetBusinessIDFromContext retrieves the tenancy scope from the Gin context.
// The core treats this as an opaque key used to filter all reads and writes.
func GetBusinessIDFromContext(c *gin.Context) (string, bool) {
	businessIDVal, exists := c.Get(string(businessIDKey))
	if !exists {
		businessIDVal := c.Request.Context().Value(businessIDKey)
		if businessIDVal != nil {
			return businessIDVal.(string), true
		}
		return "", false
	}

	businessID, ok := businessIDVal.(string)
	if !ok {
		return "", false
	}
	return businessID, true
}
