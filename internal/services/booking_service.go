package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/rishi-store/storefront/internal/domain"
	"github.com/rishi-store/storefront/internal/session"
)

const (
	bookingFirstStep = 1
	bookingLastStep  = 7
)

var errBookingAPIRequired = errors.New("booking service: api is required")

// ErrBookingIncomplete indicates required consultation fields are missing.
var ErrBookingIncomplete = errors.New("booking service: required fields missing")

// BookingAPI posts consultation requests to the backend.
type BookingAPI interface {
	CreateConsultation(ctx context.Context, token string, booking domain.Consultation) (int64, error)
}

// BookingServiceDeps wires the consultation boundary and session.
type BookingServiceDeps struct {
	API     BookingAPI
	Session *session.Session
	Logger  *zap.Logger
}

// BookingService drives the multi-step consultation flow: a clamped stepper,
// the accumulated form, and submission.
type BookingService struct {
	mu             sync.Mutex
	api            BookingAPI
	sess           *session.Session
	logger         *zap.Logger
	step           int
	form           domain.Consultation
	consultationID int64
	paymentID      int64
}

// NewBookingService constructs the flow at step one with an empty form.
func NewBookingService(deps BookingServiceDeps) (*BookingService, error) {
	if deps.API == nil {
		return nil, errBookingAPIRequired
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{
		api:    deps.API,
		sess:   deps.Session,
		logger: logger,
		step:   bookingFirstStep,
	}, nil
}

// Step returns the current step, always within [1, 7].
func (s *BookingService) Step() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// NextStep advances the stepper, clamped at the last step.
func (s *BookingService) NextStep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step < bookingLastStep {
		s.step++
	}
	return s.step
}

// PrevStep rewinds the stepper, clamped at the first step.
func (s *BookingService) PrevStep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step > bookingFirstStep {
		s.step--
	}
	return s.step
}

// SetStep jumps to a step, clamped to the valid range.
func (s *BookingService) SetStep(step int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if step < bookingFirstStep {
		step = bookingFirstStep
	}
	if step > bookingLastStep {
		step = bookingLastStep
	}
	s.step = step
	return s.step
}

// SetForm replaces the accumulated form data.
func (s *BookingService) SetForm(form domain.Consultation) {
	s.mu.Lock()
	s.form = form
	s.mu.Unlock()
}

// Form returns a copy of the accumulated form data.
func (s *BookingService) Form() domain.Consultation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// ConsultationID returns the backend identifier once submitted, zero before.
func (s *BookingService) ConsultationID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.consultationID
}

// SetPaymentID records the payment attached to this booking.
func (s *BookingService) SetPaymentID(id int64) {
	s.mu.Lock()
	s.paymentID = id
	s.mu.Unlock()
}

// PaymentID returns the recorded payment identifier, zero when unpaid.
func (s *BookingService) PaymentID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paymentID
}

// Submit validates the form and posts the consultation. Validation failures
// and backend rejections both surface; they are explicit user actions.
func (s *BookingService) Submit(ctx context.Context) (int64, error) {
	s.mu.Lock()
	form := s.form
	s.mu.Unlock()

	if err := validateConsultation(form); err != nil {
		return 0, err
	}

	token := ""
	if s.sess != nil {
		token = s.sess.Token()
	}
	id, err := s.api.CreateConsultation(ctx, token, form)
	if err != nil {
		s.logger.Warn("consultation submit failed", zap.Error(err))
		return 0, err
	}

	s.mu.Lock()
	s.consultationID = id
	s.mu.Unlock()
	return id, nil
}

// Reset clears the form and returns the stepper to the first step.
func (s *BookingService) Reset() {
	s.mu.Lock()
	s.form = domain.Consultation{}
	s.consultationID = 0
	s.paymentID = 0
	s.step = bookingFirstStep
	s.mu.Unlock()
}

func validateConsultation(form domain.Consultation) error {
	missing := []string{}
	if form.DoctorID == 0 {
		missing = append(missing, "doctor_id")
	}
	if strings.TrimSpace(form.Date) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(form.TimeStart) == "" || strings.TrimSpace(form.TimeEnd) == "" {
		missing = append(missing, "time")
	}
	if strings.TrimSpace(form.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(form.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(form.Phone) == "" {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrBookingIncomplete, strings.Join(missing, ", "))
	}
	return nil
}
