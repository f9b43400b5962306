package backend

import (
	"context"

	"github.com/rishi-store/storefront/internal/domain"
)

// CreateConsultation posts a consultation booking and returns its identifier.
func (c *Client) CreateConsultation(ctx context.Context, token string, booking domain.Consultation) (int64, error) {
	body := map[string]any{
		"doctor_id":  booking.DoctorID,
		"date":       booking.Date,
		"time_start": booking.TimeStart,
		"time_end":   booking.TimeEnd,
		"name":       booking.Name,
		"email":      booking.Email,
		"phone":      booking.Phone,
		"notes":      booking.Notes,
	}
	var payload struct {
		ID   ID `json:"id"`
		Data struct {
			ID ID `json:"id"`
		} `json:"data"`
	}
	if err := c.post(ctx, "consultations", token, body, &payload); err != nil {
		return 0, err
	}
	if id := payload.ID.Int64(); id != 0 {
		return id, nil
	}
	return payload.Data.ID.Int64(), nil
}
