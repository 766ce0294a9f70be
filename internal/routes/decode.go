package routes

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/medroute/pilot/internal/models"
	"github.com/medroute/pilot/internal/models/dto"
)

var errTrailingData = errors.New("unexpected data after JSON body")

// decodePilotRequest reads exactly one JSON object from body. Keys match
// case-sensitively; unknown keys are ignored.
func decodePilotRequest(body io.Reader) (*dto.PilotRequestDTO, error) {
	dec := json.NewDecoder(body)

	var fields map[string]json.RawMessage
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errTrailingData
		}
		return nil, err
	}

	pilotRequest := &dto.PilotRequestDTO{}
	targets := map[string]*string{
		models.FieldOrg:     &pilotRequest.Org,
		models.FieldContact: &pilotRequest.Contact,
		models.FieldEmail:   &pilotRequest.Email,
		models.FieldPhone:   &pilotRequest.Phone,
		models.FieldCity:    &pilotRequest.City,
		models.FieldNotes:   &pilotRequest.Notes,
	}
	for key, target := range targets {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, target); err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
	}
	return pilotRequest, nil
}
