package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/dto"
)

const (
	// UserIDKey is the context key for the authenticated user ID
	UserIDKey = "user_id"
	// UserRoleKey is the context key for the authenticated user role
	UserRoleKey = "user_role"

	// RoleAdmin marks administrative callers
	RoleAdmin = "admin"
)

// Auth validates the bearer token and puts the caller's identity in the
// gin context.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error: "missing or malformed authorization header",
				Code:  "UNAUTHORIZED",
			})
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error: "invalid or expired token",
				Code:  "UNAUTHORIZED",
			})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error: "invalid token claims",
				Code:  "UNAUTHORIZED",
			})
			return
		}

		userID, _ := claims["user_id"].(string)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error: "token missing user identity",
				Code:  "UNAUTHORIZED",
			})
			return
		}
		role, _ := claims["role"].(string)

		c.Set(UserIDKey, userID)
		c.Set(UserRoleKey, role)
		c.Next()
	}
}

// RequireAdmin rejects callers without the admin role. Must run after
// Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserRole(c) != RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{
				Error: "admin role required",
				Code:  "FORBIDDEN",
			})
			return
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user ID from context
func GetUserID(c *gin.Context) string {
	if v, exists := c.Get(UserIDKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// GetUserRole returns the authenticated user role from context
func GetUserRole(c *gin.Context) string {
	if v, exists := c.Get(UserRoleKey); exists {
		if role, ok := v.(string); ok {
			return role
		}
	}
	return ""
}

// IsAdmin reports whether the caller holds the admin role
func IsAdmin(c *gin.Context) bool {
	return GetUserRole(c) == RoleAdmin
}
