// Package session reads the authenticated identity placed in the fiber
// context by the JWT middleware.
package session

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrNoIdentity means the request carries no usable token.
var ErrNoIdentity = errors.New("no authenticated user")

// UserID extracts the user UUID from the JWT "sub" claim.
func UserID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return uuid.Nil, ErrNoIdentity
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, ErrNoIdentity
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return uuid.Nil, ErrNoIdentity
	}

	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, ErrNoIdentity
	}
	return id, nil
}

// Email returns the "email" claim, or "" when absent.
func Email(c *fiber.Ctx) string {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return ""
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	email, _ := claims["email"].(string)
	return email
}
