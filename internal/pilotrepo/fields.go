// Package pilotrepo holds the storage backends for accepted pilot requests.
package pilotrepo

import "github.com/medroute/pilot/internal/models"

// DocumentFields lists every column/field a stored pilot request may carry,
// excluding the backend specific id key.
var DocumentFields = []string{
	models.FieldOrg,
	models.FieldContact,
	models.FieldEmail,
	models.FieldPhone,
	models.FieldCity,
	models.FieldNotes,
	models.FieldReceivedAt,
}
