package middleware

import (
	"errors"
	"strings"

	"github.com/fadilmartias/talent-assessment/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	RoleEmployer  = "employer"
	RoleCompany   = "company"
	RoleJobseeker = "jobseeker"

	userLocalsKey = "user"
)

// Claims are issued by the account service; this service only verifies them.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) ID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}

func ParseToken(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if _, err := claims.ID(); err != nil {
		return nil, errors.New("token subject is not a valid user id")
	}
	return claims, nil
}

// Auth requires a valid bearer token and stores its claims in Locals.
func Auth(secret string) fiber.Handler {
	key := []byte(secret)
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(raw) == "" {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusUnauthorized,
				Message: "Access token required",
			})
		}
		claims, err := ParseToken(strings.TrimSpace(raw), key)
		if err != nil {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusUnauthorized,
				Message: "Invalid or expired token",
			}, err)
		}
		c.Locals(userLocalsKey, claims)
		return c.Next()
	}
}

func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := CurrentUser(c)
		if !ok {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusUnauthorized,
				Message: "Access token required",
			})
		}
		for _, r := range roles {
			if strings.EqualFold(claims.Role, r) {
				return c.Next()
			}
		}
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusForbidden,
			Kind:    "unauthorized",
			Message: "Insufficient permissions",
		})
	}
}

func CurrentUser(c *fiber.Ctx) (*Claims, bool) {
	claims, ok := c.Locals(userLocalsKey).(*Claims)
	return claims, ok && claims != nil
}

// UserID returns the authenticated caller's id. Auth must run first.
func UserID(c *fiber.Ctx) uuid.UUID {
	claims, ok := CurrentUser(c)
	if !ok {
		return uuid.Nil
	}
	id, _ := claims.ID()
	return id
}
