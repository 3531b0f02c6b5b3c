package reminder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/domain/appointment"
	"github.com/clinic/clinic/internal/platform/auth"
)

func TestRunEndpoint(t *testing.T) {
	f := newScanFixture(t, time.UTC, 24*time.Hour)
	h := NewHandler(f.scanner)

	// one row inside the window relative to the wall clock
	at := time.Now().Add(2 * time.Hour)
	f.addAppointment(t, at.UTC().Format(appointment.DateLayout), at.UTC().Format(appointment.TimeLayout), appointment.StatusApproved)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/send_reminders", nil)
	req = req.WithContext(auth.WithActor(context.Background(), auth.Actor{ID: f.doctor.ID, Role: auth.RoleDoctor}))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.Run(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var sum Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &sum); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if sum.Flagged != 1 {
		t.Errorf("flagged = %d, want 1", sum.Flagged)
	}
}
