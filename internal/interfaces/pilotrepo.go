package interfaces

import (
	"context"

	"github.com/medroute/pilot/internal/models"
)

// PilotRepository stores accepted pilot requests.
type PilotRepository interface {
	AddPilotRequest(ctx context.Context, request models.PilotRequest) (string, error)
	EnsureIndices(ctx context.Context) error
	Close(ctx context.Context) error
}
