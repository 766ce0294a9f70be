package interfaces

import (
	"context"

	"github.com/medroute/pilot/internal/models"
)

type PilotService interface {
	SubmitPilotRequest(ctx context.Context, request models.PilotRequest) (string, error)
}
