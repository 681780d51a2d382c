package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rotaguide/rota-backend/internal/app/model"
	apperrors "github.com/rotaguide/rota-backend/internal/errors"
	"github.com/rotaguide/rota-backend/pkg/util"
)

// Context keys for the authenticated caller.
const (
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
	UserNameKey  = "user_name"
	UserRoleKey  = "user_role"
	TokenIDKey   = "token_id"
)

// RevocationChecker reports whether a token ID has been revoked by the identity provider.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// UserSyncer mirrors the authenticated identity into local storage.
type UserSyncer interface {
	Sync(user model.User) error
}

type AuthMiddleware struct {
	jwtSecret  string
	revocation RevocationChecker
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{jwtSecret: jwtSecret}
}

// WithRevocation enables the revocation list check on every authenticated request.
func (m *AuthMiddleware) WithRevocation(checker RevocationChecker) *AuthMiddleware {
	m.revocation = checker
	return m
}

var errMalformedHeader = errors.New("malformed authorization header")

func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", nil
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errMalformedHeader
	}
	return parts[1], nil
}

// Authenticate requires a valid, unrevoked bearer token.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, err := bearerToken(c)
		if err != nil {
			log.Warn("Invalid authorization header format", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Authorization header must be 'Bearer <token>'")
			c.Abort()
			return
		}
		if token == "" {
			log.Warn("Missing authorization header", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			apperrors.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		claims, err := util.ValidateToken(token, m.jwtSecret)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			if errors.Is(err, util.ErrExpiredToken) {
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenExpired, "Token has expired")
			} else {
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Invalid token")
			}
			c.Abort()
			return
		}

		if m.revocation != nil {
			revoked, err := m.revocation.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				log.Error("Revocation check failed", err, map[string]interface{}{
					"user_id": claims.UserID,
				})
				apperrors.InternalError(c, "")
				c.Abort()
				return
			}
			if revoked {
				log.Warn("Revoked token presented", map[string]interface{}{
					"user_id": claims.UserID,
					"jti":     claims.ID,
				})
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenRevoked, "Token has been revoked")
				c.Abort()
				return
			}
		}

		setIdentity(c, claims)
		log.Debug("User authenticated", map[string]interface{}{
			"user_id": claims.UserID,
			"role":    claims.Role,
		})

		c.Next()
	}
}

// OptionalAuthenticate sets the caller when a valid token is present and
// otherwise continues as a guest.
func (m *AuthMiddleware) OptionalAuthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, err := bearerToken(c)
		if err != nil || token == "" {
			c.Next()
			return
		}

		claims, err := util.ValidateToken(token, m.jwtSecret)
		if err != nil {
			log.Debug("Token validation failed - continuing as guest", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			c.Next()
			return
		}
		if m.revocation != nil {
			if revoked, err := m.revocation.IsRevoked(c.Request.Context(), claims.ID); err != nil || revoked {
				c.Next()
				return
			}
		}

		setIdentity(c, claims)
		c.Next()
	}
}

func setIdentity(c *gin.Context, claims *util.Claims) {
	role := model.UserRole(claims.Role)
	if role == "" {
		role = model.RoleUser
	}
	c.Set(UserIDKey, claims.UserID)
	c.Set(UserEmailKey, claims.Email)
	c.Set(UserNameKey, claims.Name)
	c.Set(UserRoleKey, role)
	c.Set(TokenIDKey, claims.ID)
}

// RequireRole aborts with 403 unless the caller has one of roles.
func (m *AuthMiddleware) RequireRole(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		role, exists := GetUserRole(c)
		if !exists {
			log.Warn("Role information not found in context", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzRoleNotFound, "Role information not found")
			c.Abort()
			return
		}

		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}

		userID, _ := GetUserID(c)
		log.Warn("Insufficient permissions", map[string]interface{}{
			"user_id":        userID,
			"user_role":      role,
			"required_roles": roles,
			"path":           c.Request.URL.Path,
		})
		apperrors.Forbidden(c, "Insufficient permissions")
		c.Abort()
	}
}

// SyncUser upserts the caller's mirror row. It must run after Authenticate.
func SyncUser(users UserSyncer) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			c.Next()
			return
		}
		role, _ := GetUserRole(c)
		user := model.User{
			ID:    userID,
			Email: c.GetString(UserEmailKey),
			Name:  c.GetString(UserNameKey),
			Role:  role,
		}
		if err := users.Sync(user); err != nil {
			GetLoggerFromContext(c).Error("Failed to sync user", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.InternalError(c, "")
			c.Abort()
			return
		}
		c.Next()
	}
}

func GetUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

func GetUserEmail(c *gin.Context) (string, bool) {
	v, exists := c.Get(UserEmailKey)
	if !exists {
		return "", false
	}
	email, ok := v.(string)
	return email, ok
}

func GetUserRole(c *gin.Context) (model.UserRole, bool) {
	v, exists := c.Get(UserRoleKey)
	if !exists {
		return "", false
	}
	role, ok := v.(model.UserRole)
	return role, ok
}

// GetActor returns the caller; guests get the zero Actor.
func GetActor(c *gin.Context) model.Actor {
	userID, ok := GetUserID(c)
	if !ok {
		return model.Actor{}
	}
	role, _ := GetUserRole(c)
	return model.Actor{UserID: userID, Role: role}
}
