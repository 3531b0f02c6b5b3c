package appointment

import (
	"testing"
	"time"
)

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusApproved, StatusRejected} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if Status("Cancelled").Valid() {
		t.Error("unknown status should not be valid")
	}
	if StatusPending.Decided() {
		t.Error("Pending is not a decision")
	}
	if !StatusApproved.Decided() || !StatusRejected.Decided() {
		t.Error("Approved and Rejected are decisions")
	}
}

func TestScheduledAt(t *testing.T) {
	a := &Appointment{Date: "2025-06-01", Time: "10:00"}
	got, err := a.ScheduledAt(time.UTC)
	if err != nil {
		t.Fatalf("ScheduledAt failed: %v", err)
	}
	want := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ScheduledAt = %v, want %v", got, want)
	}

	bad := &Appointment{Date: "June 1st", Time: "10:00"}
	if _, err := bad.ScheduledAt(time.UTC); err == nil {
		t.Error("expected an error for an unparseable date")
	}
}
