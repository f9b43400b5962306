package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rishi-store/storefront/internal/domain"
)

type stubBookingAPI struct {
	id    int64
	err   error
	calls int
	last  domain.Consultation
}

func (s *stubBookingAPI) CreateConsultation(ctx context.Context, token string, booking domain.Consultation) (int64, error) {
	s.calls++
	s.last = booking
	return s.id, s.err
}

func completeForm() domain.Consultation {
	return domain.Consultation{
		DoctorID:  4,
		Date:      "2026-09-12",
		TimeStart: "10:00",
		TimeEnd:   "10:30",
		Name:      "Asha Rao",
		Email:     "asha@example.com",
		Phone:     "+91 98765 43210",
	}
}

func newBooking(t *testing.T, api *stubBookingAPI) *BookingService {
	t.Helper()
	svc, err := NewBookingService(BookingServiceDeps{API: api})
	if err != nil {
		t.Fatalf("NewBookingService: %v", err)
	}
	return svc
}

func TestBookingStepClamping(t *testing.T) {
	svc := newBooking(t, &stubBookingAPI{})

	if got := svc.Step(); got != 1 {
		t.Fatalf("initial step = %d, want 1", got)
	}
	if got := svc.PrevStep(); got != 1 {
		t.Fatalf("PrevStep below first = %d, want 1", got)
	}

	for i := 0; i < 10; i++ {
		svc.NextStep()
	}
	if got := svc.Step(); got != 7 {
		t.Fatalf("NextStep past last = %d, want 7", got)
	}

	if got := svc.SetStep(0); got != 1 {
		t.Fatalf("SetStep(0) = %d, want 1", got)
	}
	if got := svc.SetStep(99); got != 7 {
		t.Fatalf("SetStep(99) = %d, want 7", got)
	}
	if got := svc.SetStep(4); got != 4 {
		t.Fatalf("SetStep(4) = %d", got)
	}
}

func TestBookingSubmitValidation(t *testing.T) {
	api := &stubBookingAPI{id: 11}
	svc := newBooking(t, api)
	ctx := context.Background()

	form := completeForm()
	form.Email = ""
	form.Phone = "  "
	svc.SetForm(form)

	_, err := svc.Submit(ctx)
	if !errors.Is(err, ErrBookingIncomplete) {
		t.Fatalf("Submit error = %v, want ErrBookingIncomplete", err)
	}
	if !strings.Contains(err.Error(), "email") || !strings.Contains(err.Error(), "phone") {
		t.Fatalf("error does not name the missing fields: %v", err)
	}
	if api.calls != 0 {
		t.Fatal("invalid form must not reach the backend")
	}
}

func TestBookingSubmit(t *testing.T) {
	api := &stubBookingAPI{id: 42}
	svc := newBooking(t, api)

	svc.SetForm(completeForm())
	id, err := svc.Submit(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if id != 42 || svc.ConsultationID() != 42 {
		t.Fatalf("id = %d, ConsultationID = %d", id, svc.ConsultationID())
	}
	if api.last.DoctorID != 4 {
		t.Fatalf("submitted form = %+v", api.last)
	}
}

func TestBookingSubmitBackendFailure(t *testing.T) {
	api := &stubBookingAPI{err: errors.New("backend down")}
	svc := newBooking(t, api)

	svc.SetForm(completeForm())
	if _, err := svc.Submit(context.Background()); err == nil {
		t.Fatal("backend rejection must surface")
	}
	if svc.ConsultationID() != 0 {
		t.Fatal("failed submit must not record an id")
	}
}

func TestBookingReset(t *testing.T) {
	api := &stubBookingAPI{id: 9}
	svc := newBooking(t, api)

	svc.SetForm(completeForm())
	svc.SetStep(5)
	svc.SetPaymentID(77)
	if _, err := svc.Submit(context.Background()); err != nil {
		t.Fatal(err)
	}

	svc.Reset()

	if svc.Step() != 1 || svc.ConsultationID() != 0 || svc.PaymentID() != 0 {
		t.Fatalf("after reset: step=%d id=%d payment=%d", svc.Step(), svc.ConsultationID(), svc.PaymentID())
	}
	if svc.Form().DoctorID != 0 {
		t.Fatal("form not cleared on reset")
	}
}
