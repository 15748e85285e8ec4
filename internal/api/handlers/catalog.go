package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"resume-builder/internal/catalog"
	"resume-builder/pkg/models"
	"resume-builder/pkg/utils"
)

// ListRolesHandler returns every role in display order
func ListRolesHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, catalog.Roles())
}

// ListTemplatesHandler returns every template in display order
func ListTemplatesHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, catalog.Templates())
}

// GetRoleHandler returns one role descriptor
func GetRoleHandler(c echo.Context) error {
	var path models.RolePath
	if err := bindAndValidate(c, &path); err != nil {
		return respondError(c, utils.NewNotFoundError("UNKNOWN_ROLE", "Role not found"))
	}

	id, _ := catalog.ParseRole(path.Role)
	role, _ := catalog.Role(id)
	return c.JSON(http.StatusOK, role)
}
