package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"github.com/uniauth/saml-idp-core/logging"
	"github.com/uniauth/saml-idp-core/model"
)

var logger = logging.Log()

// AdminTokenHandlerFunc guards the admin surface with an HS256 bearer token.
// Requests without a valid token signed by the shared secret are rejected.
func AdminTokenHandlerFunc(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.ProblemDetails{Type: "Unauthorized", Status: http.StatusUnauthorized, Title: "No bearer token provided."})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			logger.Debugf("Rejected admin token. Err: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.ProblemDetails{Type: "Unauthorized", Status: http.StatusUnauthorized, Title: "Invalid bearer token."})
			return
		}
		c.Next()
	}
}
