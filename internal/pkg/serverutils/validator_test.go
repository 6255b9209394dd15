package serverutils

import (
	"errors"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestValidateRequest(t *testing.T) {
	type sample struct {
		Title  string `json:"title" validate:"required"`
		UserId string `json:"user_id" validate:"required"`
		Extra  string `json:"extra"`
	}

	t.Run("valid request passes", func(t *testing.T) {
		if err := ValidateRequest(sample{Title: "Launch", UserId: "alice"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("missing required fields map to 400", func(t *testing.T) {
		err := ValidateRequest(sample{Extra: "only optional set"})
		if err == nil {
			t.Fatal("expected validation error")
		}
		var apiErr *ApiError
		if !errors.As(err, &apiErr) {
			t.Fatalf("error type = %T, want *ApiError", err)
		}
		if apiErr.StatusCode != fiber.StatusBadRequest {
			t.Errorf("status = %d, want %d", apiErr.StatusCode, fiber.StatusBadRequest)
		}
		if !strings.Contains(apiErr.Message, "Title") || !strings.Contains(apiErr.Message, "UserId") {
			t.Errorf("message does not name failed fields: %q", apiErr.Message)
		}
	})
}
