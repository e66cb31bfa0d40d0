package middleware

// identity.go holds helpers shared across middleware files. Rate limiting
// keys on the user the JWTAuth middleware stored in context; unauthenticated
// requests are bucketed together as "anon".

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// userKey renders the authenticated user's identifier as a string for use in
// Redis keys. The "sub" claim arrives as float64 after JSON decoding, so
// several numeric shapes are accepted.
func userKey(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return "anon"
}
