package dto

import "github.com/medroute/pilot/internal/models"

// PilotRequestDTO is the JSON body of POST /pilot.
// Only presence is checked server side; the email shape is left to the form.
type PilotRequestDTO struct {
	Org     string `json:"org" validate:"required"`
	Contact string `json:"contact" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	City    string `json:"city" validate:"required"`
	Notes   string `json:"notes"`
}

type PilotResponseDTO struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ToModel converts the wire payload into the stored model.
func (d *PilotRequestDTO) ToModel() models.PilotRequest {
	return *models.NewPilotRequest(d.Org, d.Contact, d.Email, d.Phone, d.City, d.Notes)
}
