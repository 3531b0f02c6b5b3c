package reminder

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/pkg/apperr"
)

// Handler exposes the batch scan as an internal endpoint.
type Handler struct {
	scanner *Scanner
}

func NewHandler(scanner *Scanner) *Handler { return &Handler{scanner: scanner} }

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/send_reminders", h.Run, auth.RequireRole(auth.RoleDoctor))
}

// Run executes one scan as of the current time and returns its summary.
func (h *Handler) Run(c echo.Context) error {
	sum, err := h.scanner.Scan(c.Request().Context(), time.Now())
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, sum)
}
