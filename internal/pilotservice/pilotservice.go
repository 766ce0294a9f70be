// pilotservice.go
package pilotservice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/medroute/pilot/internal/interfaces"
	"github.com/medroute/pilot/internal/models"
	"github.com/medroute/pilot/pkg/helper"
)

type PilotService struct {
	PilotRepo interfaces.PilotRepository
	Logger    interfaces.Logger
	now       func() time.Time
}

// NewPilotService creates a new PilotService instance.
// repo may be nil, in which case accepted requests are only written to the log.
func NewPilotService(repo interfaces.PilotRepository, logger interfaces.Logger) *PilotService {
	return &PilotService{
		PilotRepo: repo,
		Logger:    logger,
		now:       time.Now,
	}
}

// SubmitPilotRequest records an accepted pilot request and returns its generated ID.
// Every field is logged; the repository, when configured, receives the same record.
func (s *PilotService) SubmitPilotRequest(ctx context.Context, request models.PilotRequest) (string, error) {
	funcName := helper.GetFuncName()
	s.Logger.Debug("Entering function", "func", funcName, "org", request.Org)

	request.ID = uuid.NewString()
	request.ReceivedAt = s.now().UTC()

	s.Logger.Info(MsgNewPilotRequest,
		"id", request.ID,
		"org", request.Org,
		"contact", request.Contact,
		"email", request.Email,
		"phone", request.Phone,
		"city", request.City,
		"notes", request.Notes,
	)

	if s.PilotRepo == nil {
		s.Logger.Debug("Exiting function", "func", funcName, "org", request.Org)
		return request.ID, nil
	}

	storedID, err := s.PilotRepo.AddPilotRequest(ctx, request)
	if err != nil {
		s.Logger.Error(ErrFailedToRecordRequest, "func", funcName, "id", request.ID, "error", err)
		return "", fmt.Errorf("%s: %w", ErrFailedToRecordRequest, err)
	}

	s.Logger.Info(MsgPilotRequestRecorded, "func", funcName, "id", storedID)
	s.Logger.Debug("Exiting function", "func", funcName, "org", request.Org)
	return storedID, nil
}
