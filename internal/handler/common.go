package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/auth"
)

// getUserID extracts the user_id claim from echo.Context and converts
// it to uint64. JWT claims decode numbers as float64, so several
// representations are accepted.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// getActor builds the capability-policy actor from the claims the JWT
// middleware stored in context.
func getActor(c echo.Context) (auth.Actor, error) {
	userID, err := getUserID(c)
	if err != nil {
		return auth.Actor{}, err
	}
	role, _ := c.Get("role").(string)
	return auth.Actor{UserID: userID, Role: auth.Role(role)}, nil
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}
