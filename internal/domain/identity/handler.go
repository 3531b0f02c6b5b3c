package identity

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/pkg/apperr"
	"github.com/clinic/clinic/pkg/pagination"
)

// Handler exposes registration, login/logout and the doctor directory.
type Handler struct {
	svc      *Service
	secret   string
	tokenTTL time.Duration
	revoked  *auth.TokenRevocationStore
}

func NewHandler(svc *Service, secret string, tokenTTL time.Duration, revoked *auth.TokenRevocationStore) *Handler {
	return &Handler{svc: svc, secret: secret, tokenTTL: tokenTTL, revoked: revoked}
}

// RegisterRoutes mounts the identity endpoints on the API group. register
// and login must be excluded from the auth middleware by the caller.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)
	g.GET("/doctors", h.ListDoctors)
}

func (h *Handler) Register(c echo.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	u, err := h.svc.Register(c.Request().Context(), in)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusCreated, u)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	u, err := h.svc.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	token, err := auth.IssueToken(u.ID, string(u.Role), h.secret, h.tokenTTL)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "issue token")
	}
	return c.JSON(http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(h.tokenTTL),
		User:      u,
	})
}

// Logout revokes the bearer token presented with the request. The token
// becomes unusable immediately even though it has not expired.
func (h *Handler) Logout(c echo.Context) error {
	claims, ok := c.Get(auth.ClaimsContextKey).(*auth.Claims)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	h.revoked.Revoke(claims.ID, claims.ExpiresAt.Time)
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *Handler) ListDoctors(c echo.Context) error {
	p := pagination.FromContext(c)
	doctors, total, err := h.svc.ListDoctors(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	if doctors == nil {
		doctors = []*User{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(doctors, total, p.Limit, p.Offset))
}
