package session

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, locals any) (uuid.UUID, string, error) {
	t.Helper()
	var (
		id    uuid.UUID
		email string
		err   error
	)
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		if locals != nil {
			c.Locals("user", locals)
		}
		id, err = UserID(c)
		email = Email(c)
		return c.SendStatus(fiber.StatusNoContent)
	})
	resp, testErr := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, testErr)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	return id, email, err
}

func TestUserID(t *testing.T) {
	want := uuid.New()
	token := &jwt.Token{Claims: jwt.MapClaims{"sub": want.String(), "email": "a@example.com"}}

	id, email, err := run(t, token)
	require.NoError(t, err)
	assert.Equal(t, want, id)
	assert.Equal(t, "a@example.com", email)
}

func TestUserID_Missing(t *testing.T) {
	cases := map[string]any{
		"no token":     nil,
		"wrong type":   "token",
		"no sub":       &jwt.Token{Claims: jwt.MapClaims{}},
		"sub not uuid": &jwt.Token{Claims: jwt.MapClaims{"sub": "42"}},
	}
	for name, locals := range cases {
		t.Run(name, func(t *testing.T) {
			id, _, err := run(t, locals)
			assert.ErrorIs(t, err, ErrNoIdentity)
			assert.Equal(t, uuid.Nil, id)
		})
	}
}
