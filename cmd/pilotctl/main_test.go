package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/medroute/pilot/pkg/pilotform"
	"github.com/stretchr/testify/assert"
)

func TestSubmitCommand(t *testing.T) {
	fullArgs := []string{
		"--org", "Springfield EMS",
		"--contact", "Jane Doe",
		"--email", "jane@springfield.gov",
		"--phone", "555-0100",
		"--city", "Springfield",
	}

	tests := []struct {
		name       string
		args       []string
		status     int
		wantErr    bool
		wantCalls  int32
		wantOutput []string
	}{
		{
			name:       "Accepted",
			args:       fullArgs,
			status:     http.StatusOK,
			wantCalls:  1,
			wantOutput: []string{pilotform.MsgSuccess, pilotform.MsgSubmitMore},
		},
		{
			name:       "Rejected by server",
			args:       fullArgs,
			status:     http.StatusInternalServerError,
			wantErr:    true,
			wantCalls:  1,
			wantOutput: []string{pilotform.MsgError},
		},
		{
			name:      "Missing fields",
			args:      []string{"--org", "Springfield EMS", "--email", "not-an-email"},
			wantErr:   true,
			wantCalls: 0,
			wantOutput: []string{
				"--city: City is required",
				"--contact: Contact person is required",
				"--email: Email is invalid",
				"--phone: Phone number is required",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			var out bytes.Buffer
			cmd := newRootCmd(&out)
			cmd.SetArgs(append([]string{"submit", "--server", srv.URL}, tt.args...))

			err := cmd.Execute()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(&calls))
			for _, want := range tt.wantOutput {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}

func TestSubmitCommand_InvalidServer(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs([]string{"submit", "--server", "localhost:3001"})

	assert.Error(t, cmd.Execute())
	assert.Contains(t, out.String(), "invalid base url")
}
