package handler // handler defines http handlers

import (
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"
)

// getUserID extracts the authenticated user's identifier from the
// echo context. JWTAuth stores the token subject under "user_id" as a
// string; other value types are stringified.
func getUserID(c echo.Context) (string, error) {
	switch t := c.Get("user_id").(type) {
	case string:
		if t != "" {
			return t, nil
		}
	case nil:
	default:
		return fmt.Sprint(t), nil
	}
	return "", errors.New("missing user_id in context")
}
