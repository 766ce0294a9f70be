package pilotservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/medroute/pilot/internal/interfaces/mocks"
	"github.com/medroute/pilot/internal/models"
	"github.com/medroute/pilot/pkg/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

func springfield() models.PilotRequest {
	return *models.NewPilotRequest("Springfield EMS", "Jane Doe", "jane@springfield.gov", "555-0100", "Springfield", "Two hospitals")
}

func TestPilotService_SubmitPilotRequest_LogOnly(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewPilotService(nil, zerolog.NewJSONLogger("pilot", buf))
	s.now = func() time.Time { return fixedNow }

	id, err := s.SubmitPilotRequest(context.Background(), springfield())
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	var entry map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		candidate := map[string]interface{}{}
		require.NoError(t, json.Unmarshal([]byte(line), &candidate))
		if candidate["message"] == MsgNewPilotRequest {
			entry = candidate
		}
	}
	require.NotNil(t, entry, "no %q log entry", MsgNewPilotRequest)
	assert.Equal(t, id, entry["id"])
	assert.Equal(t, "Springfield EMS", entry["org"])
	assert.Equal(t, "Jane Doe", entry["contact"])
	assert.Equal(t, "jane@springfield.gov", entry["email"])
	assert.Equal(t, "555-0100", entry["phone"])
	assert.Equal(t, "Springfield", entry["city"])
	assert.Equal(t, "Two hospitals", entry["notes"])
}

func TestPilotService_SubmitPilotRequest_Repository(t *testing.T) {
	tests := []struct {
		name    string
		repoID  string
		repoErr error
		wantErr bool
	}{
		{
			name:    "recorded",
			repoID:  "stored-id",
			repoErr: nil,
			wantErr: false,
		},
		{
			name:    "repository failure",
			repoID:  "",
			repoErr: errors.New("connection refused"),
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockPilotRepository(t)
			repo.On("AddPilotRequest", mock.Anything, mock.MatchedBy(func(r models.PilotRequest) bool {
				return r.ID != "" && r.ReceivedAt.Equal(fixedNow) && r.Org == "Springfield EMS"
			})).Return(tt.repoID, tt.repoErr).Once()

			s := NewPilotService(repo, zerolog.NewNopLogger())
			s.now = func() time.Time { return fixedNow }

			got, err := s.SubmitPilotRequest(context.Background(), springfield())
			if (err != nil) != tt.wantErr {
				t.Fatalf("SubmitPilotRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				assert.ErrorIs(t, err, tt.repoErr)
				assert.Contains(t, err.Error(), ErrFailedToRecordRequest)
				return
			}
			assert.Equal(t, tt.repoID, got)
		})
	}
}
