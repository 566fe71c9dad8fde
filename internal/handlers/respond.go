package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nabilhq/openwall/backend/internal/services"
)

// ok writes the success envelope. EC=0 marks success; extra fields carry the
// operation's payload (token, data, post, ...).
func ok(c echo.Context, fields echo.Map) error {
	body := echo.Map{"EC": 0}
	for k, v := range fields {
		body[k] = v
	}
	return c.JSON(http.StatusOK, body)
}

// fail maps a service error to its transport status and the {EC, EM} envelope.
func fail(c echo.Context, err error) error {
	kind := services.KindOf(err)
	return c.JSON(kind.HTTPStatus(), echo.Map{"EC": kind.EC(), "EM": err.Error()})
}
