package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/carwash-market/coin-ledger/internal/domain/entity"
	domainerr "github.com/carwash-market/coin-ledger/internal/domain/error"
	"github.com/carwash-market/coin-ledger/internal/domain/port/usecase"
	"github.com/carwash-market/coin-ledger/internal/infrastructure/adapter/api/dto"
)

// ContextUserID is the gin context key holding the authenticated user ID
const ContextUserID = "currentUserID"

var errTokenMissing = errors.New("bearer token missing")

// TokenVerifier checks identity-provider tokens
type TokenVerifier struct {
	secret []byte
	issuer string
}

// NewTokenVerifier creates a verifier for HS256 tokens. An empty issuer is not checked.
func NewTokenVerifier(secret, issuer string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret), issuer: issuer}
}

// Verify parses the token and returns its subject
func (v *TokenVerifier) Verify(tokenString string) (string, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(subject) == "" {
		return "", errors.New("token has no subject")
	}
	return subject, nil
}

func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	const bearer = "Bearer "
	if len(header) <= len(bearer) || !strings.EqualFold(header[:len(bearer)], bearer) {
		return "", errTokenMissing
	}
	return header[len(bearer):], nil
}

// Auth rejects requests without a valid bearer token and stores the
// token subject under ContextUserID
func Auth(verifier *TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := bearerToken(c)
		if err == nil {
			var userID string
			userID, err = verifier.Verify(tokenString)
			if err == nil {
				c.Set(ContextUserID, userID)
				c.Next()
				return
			}
		}

		if !errors.Is(err, errTokenMissing) {
			_ = c.Error(err).SetType(gin.ErrorTypePrivate)
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
			Code:    domainerr.CodeUnauthorized,
			Message: domainerr.ErrUnauthorized.Error(),
		})
	}
}

// UserID returns the authenticated user ID
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// RequireRole lets the request through only when the caller's stored role
// is one of roles. Banned callers are always rejected.
func RequireRole(users usecase.UserUseCase, roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := users.GetUser(c.Request.Context(), UserID(c))
		if err != nil {
			status := http.StatusInternalServerError
			if domainerr.IsNotFoundError(err) {
				status = http.StatusForbidden
				err = domainerr.ErrForbidden
			}
			c.AbortWithStatusJSON(status, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(err),
				Message: err.Error(),
			})
			return
		}

		if user.Banned {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{
				Code:    domainerr.CodeUserBanned,
				Message: domainerr.ErrUserBanned.Error(),
			})
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{
			Code:    domainerr.CodeForbidden,
			Message: domainerr.ErrForbidden.Error(),
		})
	}
}
