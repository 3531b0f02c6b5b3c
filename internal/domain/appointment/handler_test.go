package appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/domain/identity"
	"github.com/clinic/clinic/internal/platform/auth"
)

// call invokes a handler with an authenticated actor attached the way the
// JWT middleware would.
func call(h echo.HandlerFunc, actor *auth.Actor, method, path, body string, params map[string]string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if actor != nil {
		req = req.WithContext(auth.WithActor(context.Background(), *actor))
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for k, v := range params {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestBookEndpoint(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	patient := f.dir.add(identity.RolePatient, "alice")
	doctor := f.dir.add(identity.RoleDoctor, "drx")
	actor := actorFor(patient)

	body := fmt.Sprintf(`{"doctor_id":%q,"date":"2025-06-01","time":"10:00","reason":"checkup"}`, doctor.ID)
	rec := call(h.Book, &actor, http.MethodPost, "/api/v1/appointments", body, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var a Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &a); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if a.Status != StatusPending {
		t.Errorf("status = %q, want Pending", a.Status)
	}
}

func TestBookEndpointUnauthenticated(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)

	rec := call(h.Book, nil, http.MethodPost, "/api/v1/appointments", `{}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestListEndpointByRole(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	ctx := context.Background()
	patient := f.dir.add(identity.RolePatient, "alice")
	doctor := f.dir.add(identity.RoleDoctor, "drx")
	other := f.dir.add(identity.RoleDoctor, "dry")

	if _, err := f.svc.Book(ctx, actorFor(patient), BookInput{
		DoctorID: doctor.ID, Date: "2025-06-01", Time: "10:00",
	}); err != nil {
		t.Fatalf("Book failed: %v", err)
	}

	type listResp struct {
		Data  []*Appointment `json:"data"`
		Total int            `json:"total"`
	}
	for _, tc := range []struct {
		name  string
		user  *identity.User
		total int
	}{
		{"patient sees own booking", patient, 1},
		{"doctor sees incoming booking", doctor, 1},
		{"other doctor sees nothing", other, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			actor := actorFor(tc.user)
			rec := call(h.List, &actor, http.MethodGet, "/api/v1/appointments", "", nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
			}
			var resp listResp
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Total != tc.total {
				t.Errorf("total = %d, want %d", resp.Total, tc.total)
			}
		})
	}
}

func TestApproveRejectEndpoints(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	ctx := context.Background()
	patient := f.dir.add(identity.RolePatient, "alice")
	doctor := f.dir.add(identity.RoleDoctor, "drx")
	other := f.dir.add(identity.RoleDoctor, "dry")

	a, err := f.svc.Book(ctx, actorFor(patient), BookInput{
		DoctorID: doctor.ID, Date: "2025-06-01", Time: "10:00",
	})
	if err != nil {
		t.Fatalf("Book failed: %v", err)
	}
	params := map[string]string{"id": a.ID.String()}

	otherActor := actorFor(other)
	rec := call(h.Approve, &otherActor, http.MethodPost, "/", "", params)
	if rec.Code != http.StatusForbidden {
		t.Errorf("foreign doctor status = %d, want 403", rec.Code)
	}

	docActor := actorFor(doctor)
	rec = call(h.Approve, &docActor, http.MethodPost, "/", "", params)
	if rec.Code != http.StatusOK {
		t.Fatalf("approve status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var got Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Status != StatusApproved {
		t.Errorf("status = %q, want Approved", got.Status)
	}

	rec = call(h.Reject, &docActor, http.MethodPost, "/", "", params)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("reject after approve status = %d, want 400", rec.Code)
	}

	rec = call(h.Approve, &docActor, http.MethodPost, "/", "",
		map[string]string{"id": uuid.NewString()})
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", rec.Code)
	}

	rec = call(h.Approve, &docActor, http.MethodPost, "/", "",
		map[string]string{"id": "not-a-uuid"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", rec.Code)
	}
}

func TestReminderEndpoint(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	ctx := context.Background()
	patient := f.dir.add(identity.RolePatient, "alice")
	doctor := f.dir.add(identity.RoleDoctor, "drx")

	a, err := f.svc.Book(ctx, actorFor(patient), BookInput{
		DoctorID: doctor.ID, Date: "2025-06-01", Time: "10:00",
	})
	if err != nil {
		t.Fatalf("Book failed: %v", err)
	}
	params := map[string]string{"id": a.ID.String()}
	docActor := actorFor(doctor)

	rec := call(h.Reminder, &docActor, http.MethodPost, "/", "", params)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp["reminded"] {
		t.Error("first reminder should report true")
	}

	rec = call(h.Reminder, &docActor, http.MethodPost, "/", "", params)
	if rec.Code != http.StatusOK {
		t.Fatalf("repeat status = %d, want 200", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["reminded"] {
		t.Error("repeat reminder should report false")
	}
}
