package appointment

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/pkg/apperr"
	"github.com/clinic/clinic/pkg/pagination"
)

// Handler exposes booking and the doctor review endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/appointments", h.Book, auth.RequireRole(auth.RolePatient))
	g.GET("/appointments", h.List)
	g.POST("/appointments/:id/approve", h.Approve, auth.RequireRole(auth.RoleDoctor))
	g.POST("/appointments/:id/reject", h.Reject, auth.RequireRole(auth.RoleDoctor))
	g.POST("/appointments/:id/reminder", h.Reminder, auth.RequireRole(auth.RoleDoctor))
}

func (h *Handler) Book(c echo.Context) error {
	actor, ok := auth.ActorFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	var in BookInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	a, err := h.svc.Book(c.Request().Context(), actor, in)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusCreated, a)
}

// List returns the caller's own appointments: booked ones for a patient,
// the incoming schedule for a doctor.
func (h *Handler) List(c echo.Context) error {
	actor, ok := auth.ActorFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	p := pagination.FromContext(c)

	var (
		items []*Appointment
		total int
		err   error
	)
	if actor.IsDoctor() {
		items, total, err = h.svc.ListForDoctor(c.Request().Context(), actor, p.Limit, p.Offset)
	} else {
		items, total, err = h.svc.ListForPatient(c.Request().Context(), actor, p.Limit, p.Offset)
	}
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	if items == nil {
		items = []*Appointment{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}

func (h *Handler) Approve(c echo.Context) error {
	return h.decide(c, StatusApproved)
}

func (h *Handler) Reject(c echo.Context) error {
	return h.decide(c, StatusRejected)
}

func (h *Handler) decide(c echo.Context, status Status) error {
	actor, ok := auth.ActorFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	a, err := h.svc.SetStatus(c.Request().Context(), actor, id, status)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Reminder(c echo.Context) error {
	actor, ok := auth.ActorFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	sent, err := h.svc.SendReminder(c.Request().Context(), actor, id)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, map[string]bool{"reminded": sent})
}
