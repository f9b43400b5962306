package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rishi-store/storefront/internal/domain"
	"github.com/rishi-store/storefront/internal/platform/httpx"
	"github.com/rishi-store/storefront/internal/services"
)

// BookingHandlers drives the consultation booking stepper over HTTP.
type BookingHandlers struct {
	booking *services.BookingService
}

// NewBookingHandlers constructs the booking endpoints.
func NewBookingHandlers(booking *services.BookingService) *BookingHandlers {
	return &BookingHandlers{booking: booking}
}

// Routes wires the /booking endpoints onto the provided router.
func (h *BookingHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.getState)
	r.Post("/step", h.moveStep)
	r.Put("/form", h.putForm)
	r.Post("/submit", h.submit)
	r.Post("/reset", h.reset)
}

type consultationPayload struct {
	DoctorID  int64  `json:"doctor_id"`
	Date      string `json:"date"`
	TimeStart string `json:"time_start"`
	TimeEnd   string `json:"time_end"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Notes     string `json:"notes,omitempty"`
}

func (p consultationPayload) toDomain() domain.Consultation {
	return domain.Consultation{
		DoctorID:  p.DoctorID,
		Date:      p.Date,
		TimeStart: p.TimeStart,
		TimeEnd:   p.TimeEnd,
		Name:      p.Name,
		Email:     p.Email,
		Phone:     p.Phone,
		Notes:     p.Notes,
	}
}

func fromDomain(c domain.Consultation) consultationPayload {
	return consultationPayload{
		DoctorID:  c.DoctorID,
		Date:      c.Date,
		TimeStart: c.TimeStart,
		TimeEnd:   c.TimeEnd,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Notes:     c.Notes,
	}
}

func (h *BookingHandlers) statePayload() map[string]any {
	payload := map[string]any{
		"step": h.booking.Step(),
		"form": fromDomain(h.booking.Form()),
	}
	if id := h.booking.ConsultationID(); id != 0 {
		payload["consultation_id"] = id
	}
	return payload
}

func (h *BookingHandlers) getState(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, h.statePayload())
}

type stepRequest struct {
	Action string `json:"action"`
	Step   int    `json:"step"`
}

func (h *BookingHandlers) moveStep(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req stepRequest
	if err := decodeBody(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	switch strings.ToLower(strings.TrimSpace(req.Action)) {
	case "next":
		h.booking.NextStep()
	case "prev":
		h.booking.PrevStep()
	case "set":
		h.booking.SetStep(req.Step)
	default:
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "action must be next, prev, or set", http.StatusBadRequest))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.statePayload())
}

func (h *BookingHandlers) putForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req consultationPayload
	if err := decodeBody(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	h.booking.SetForm(req.toDomain())
	httpx.WriteJSON(w, http.StatusOK, h.statePayload())
}

func (h *BookingHandlers) submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := h.booking.Submit(ctx)
	if err != nil {
		if errors.Is(err, services.ErrBookingIncomplete) {
			httpx.WriteError(ctx, w, httpx.NewError("booking_incomplete", err.Error(), http.StatusUnprocessableEntity))
			return
		}
		writeBackendError(ctx, w, err, "could not submit booking")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"consultation_id": id})
}

func (h *BookingHandlers) reset(w http.ResponseWriter, r *http.Request) {
	h.booking.Reset()
	httpx.WriteJSON(w, http.StatusOK, h.statePayload())
}
