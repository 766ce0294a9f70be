package models

import (
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// Field names as stored by the MongoDB and PostgreSQL backends.
const (
	FieldID         = "id"
	FieldOrg        = "org"
	FieldContact    = "contact"
	FieldEmail      = "email"
	FieldPhone      = "phone"
	FieldCity       = "city"
	FieldNotes      = "notes"
	FieldReceivedAt = "received_at"
)

// PilotRequest is one pilot signup as accepted by the API.
type PilotRequest struct {
	ID         string    `bson:"_id,omitempty" mapstructure:"-" db:"id"`
	Org        string    `bson:"org" mapstructure:"org" db:"org"`
	Contact    string    `bson:"contact" mapstructure:"contact" db:"contact"`
	Email      string    `bson:"email" mapstructure:"email" db:"email"`
	Phone      string    `bson:"phone" mapstructure:"phone" db:"phone"`
	City       string    `bson:"city" mapstructure:"city" db:"city"`
	Notes      string    `bson:"notes" mapstructure:"notes" db:"notes"`
	ReceivedAt time.Time `bson:"received_at" mapstructure:"-" db:"received_at"`
}

// NewPilotRequest creates a new PilotRequest from the submitted form values.
// Note: No validation is performed here.
func NewPilotRequest(org, contact, email, phone, city, notes string) *PilotRequest {
	return &PilotRequest{
		Org:     org,
		Contact: contact,
		Email:   email,
		Phone:   phone,
		City:    city,
		Notes:   notes,
	}
}

// Document flattens the request into the generic map form accepted by interfaces.DBClient.
// The ID is left to the caller since each backend names its key differently.
func (p PilotRequest) Document() (map[string]interface{}, error) {
	doc := make(map[string]interface{})
	if err := mapstructure.Decode(p, &doc); err != nil {
		return nil, fmt.Errorf("failed to convert pilot request to document: %w", err)
	}
	doc[FieldReceivedAt] = p.ReceivedAt

	return doc, nil
}
