package handlers

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/unauthorized", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("pq: connection refused")
	})

	tests := []struct {
		path    string
		code    int
		message string
	}{
		{"/unauthorized", fiber.StatusUnauthorized, "Unauthorized"},
		{"/boom", fiber.StatusInternalServerError, "Internal server error"},
		{"/missing", fiber.StatusNotFound, "Cannot GET /missing"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.code, resp.StatusCode)

			var body dto.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.True(t, body.Error)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}
