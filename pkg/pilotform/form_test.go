package pilotform

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/medroute/pilot/internal/models/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var requiredMessages = map[Field]string{
	FieldOrg:     "Organization name is required",
	FieldContact: "Contact person is required",
	FieldEmail:   "Email is required",
	FieldPhone:   "Phone number is required",
	FieldCity:    "City is required",
}

var springfield = Values{
	Org:     "Springfield EMS",
	Contact: "Jane Doe",
	Email:   "jane@springfield.gov",
	Phone:   "555-0100",
	City:    "Springfield",
}

func fill(t *testing.T, f *Form, v Values) {
	t.Helper()
	for _, field := range Fields {
		require.NoError(t, f.Update(field, v.Get(field)))
	}
}

// pilotServer answers with status and counts requests; received bodies are sent on the returned channel.
func pilotServer(t *testing.T, status int, message string) (*httptest.Server, *int32, chan dto.PilotRequestDTO) {
	t.Helper()
	var calls int32
	bodies := make(chan dto.PilotRequestDTO, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		var body dto.PilotRequestDTO
		_ = json.NewDecoder(r.Body).Decode(&body)
		bodies <- body
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/pilot", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(dto.PilotResponseDTO{Success: status == http.StatusOK, Message: message})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls, bodies
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{name: "http", baseURL: "http://localhost:3001"},
		{name: "trailing slash", baseURL: "https://medroute.example/"},
		{name: "no scheme", baseURL: "localhost:3001", wantErr: true},
		{name: "unparsable", baseURL: "http://[::1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.baseURL)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, f)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, OutcomeNone, f.State().Outcome)
			assert.Equal(t, Values{}, f.State().Values)
		})
	}

	f, err := New("https://medroute.example/")
	require.NoError(t, err)
	assert.Equal(t, "https://medroute.example/pilot", f.endpoint)
}

func TestForm_Update(t *testing.T) {
	f, err := New("http://localhost:3001")
	require.NoError(t, err)

	require.NoError(t, f.Update(FieldOrg, "Springfield EMS"))
	require.NoError(t, f.Update(FieldEmail, "not-an-email"))
	assert.Equal(t, "Springfield EMS", f.State().Values.Org)
	assert.Empty(t, f.State().Errors, "Update never validates")

	err = f.Update(Field("fax"), "555")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestForm_Validate_RequiredSubsets(t *testing.T) {
	required := []Field{FieldOrg, FieldContact, FieldEmail, FieldPhone, FieldCity}

	// every subset of required fields left empty
	for mask := 0; mask < 1<<len(required); mask++ {
		empty := map[Field]bool{}
		values := springfield
		for i, field := range required {
			if mask&(1<<i) != 0 {
				empty[field] = true
				p, _ := values.field(field)
				*p = ""
			}
		}

		f, err := New("http://localhost:3001")
		require.NoError(t, err)
		fill(t, f, values)

		ok := f.Validate()
		errs := f.State().Errors

		assert.Equal(t, len(empty) == 0, ok, "mask %b", mask)
		assert.Len(t, errs, len(empty), "mask %b", mask)
		for field := range empty {
			assert.Equal(t, requiredMessages[field], errs[field], "mask %b", mask)
		}
	}
}

func TestForm_Validate_Email(t *testing.T) {
	tests := []struct {
		email   string
		wantMsg string
	}{
		{email: "jane@springfield.gov"},
		{email: "a@b.c"},
		{email: "x y@b.c"},
		{email: "", wantMsg: "Email is required"},
		{email: "not-an-email", wantMsg: "Email is invalid"},
		{email: "jane@springfield", wantMsg: "Email is invalid"},
		{email: "@springfield.gov", wantMsg: "Email is invalid"},
		{email: "jane@.gov", wantMsg: "Email is invalid"},
		{email: "a@b\v.c", wantMsg: "Email is invalid"},
		{email: "a@b\u00a0.c", wantMsg: "Email is invalid"},
		{email: "a\u2003@b.c", wantMsg: "Email is invalid"},
		{email: "a@b\u2028.c", wantMsg: "Email is invalid"},
		{email: "a@b\ufeff.c", wantMsg: "Email is invalid"},
		{email: "jos\u00e9@m\u00e9dico.mx"},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			f, err := New("http://localhost:3001")
			require.NoError(t, err)
			v := springfield
			v.Email = tt.email
			fill(t, f, v)

			ok := f.Validate()
			assert.Equal(t, tt.wantMsg == "", ok)
			assert.Equal(t, tt.wantMsg, f.State().Errors[FieldEmail])
		})
	}
}

func TestForm_Validate_ReplacesErrors(t *testing.T) {
	f, err := New("http://localhost:3001")
	require.NoError(t, err)

	assert.False(t, f.Validate())
	assert.Len(t, f.State().Errors, 5)

	fill(t, f, springfield)
	assert.True(t, f.Validate())
	assert.Empty(t, f.State().Errors)
}

func TestForm_Submit_Success(t *testing.T) {
	srv, calls, bodies := pilotServer(t, http.StatusOK, "Pilot request received successfully")
	f, err := New(srv.URL)
	require.NoError(t, err)

	v := springfield
	v.Notes = "Two ambulances"
	fill(t, f, v)

	require.NoError(t, f.Submit(context.Background()))

	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	got := <-bodies
	assert.Equal(t, dto.PilotRequestDTO{
		Org:     "Springfield EMS",
		Contact: "Jane Doe",
		Email:   "jane@springfield.gov",
		Phone:   "555-0100",
		City:    "Springfield",
		Notes:   "Two ambulances",
	}, got)

	state := f.State()
	assert.Equal(t, OutcomeSuccess, state.Outcome)
	assert.False(t, state.Submitting)
	assert.Equal(t, Values{}, state.Values)
	assert.Empty(t, state.Errors)
	assert.Equal(t, MsgSuccess, f.StatusMessage())
}

func TestForm_Submit_InvalidEmailMakesNoRequest(t *testing.T) {
	srv, calls, _ := pilotServer(t, http.StatusOK, "")
	f, err := New(srv.URL)
	require.NoError(t, err)

	v := springfield
	v.Email = "not-an-email"
	fill(t, f, v)

	err = f.Submit(context.Background())
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))

	state := f.State()
	assert.Equal(t, map[Field]string{FieldEmail: "Email is invalid"}, state.Errors)
	assert.Equal(t, OutcomeNone, state.Outcome)
	assert.False(t, state.Submitting)
	assert.Equal(t, v, state.Values)
}

func TestForm_Submit_ServerRejects(t *testing.T) {
	srv, calls, _ := pilotServer(t, http.StatusBadRequest, "Missing required fields")
	f, err := New(srv.URL)
	require.NoError(t, err)
	fill(t, f, springfield)

	err = f.Submit(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSubmissionFailed)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Equal(t, "Missing required fields", statusErr.Message)

	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	state := f.State()
	assert.Equal(t, OutcomeError, state.Outcome)
	assert.False(t, state.Submitting)
	assert.Equal(t, springfield, state.Values)
	assert.Equal(t, MsgError, f.StatusMessage())
}

func TestForm_Submit_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	f, err := New(url)
	require.NoError(t, err)
	fill(t, f, springfield)

	err = f.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmissionFailed)

	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr))

	state := f.State()
	assert.Equal(t, OutcomeError, state.Outcome)
	assert.False(t, state.Submitting)
	assert.Equal(t, springfield, state.Values)
}

func TestForm_Submit_ClearsPriorOutcome(t *testing.T) {
	srv, _, _ := pilotServer(t, http.StatusInternalServerError, "Failed to record pilot request")
	f, err := New(srv.URL)
	require.NoError(t, err)
	fill(t, f, springfield)

	assert.Error(t, f.Submit(context.Background()))
	assert.Equal(t, OutcomeError, f.State().Outcome)

	// a failed validation leaves the previous outcome alone
	require.NoError(t, f.Update(FieldCity, ""))
	assert.ErrorIs(t, f.Submit(context.Background()), ErrValidation)
	assert.Equal(t, OutcomeError, f.State().Outcome)
}

func TestForm_ResetOutcome(t *testing.T) {
	srv, _, _ := pilotServer(t, http.StatusOK, "")
	f, err := New(srv.URL)
	require.NoError(t, err)

	f.ResetOutcome()
	assert.Equal(t, OutcomeNone, f.State().Outcome)
	assert.Empty(t, f.StatusMessage())

	fill(t, f, springfield)
	require.NoError(t, f.Submit(context.Background()))
	assert.Equal(t, OutcomeSuccess, f.State().Outcome)

	f.ResetOutcome()
	first := f.State()
	f.ResetOutcome()
	assert.Equal(t, first, f.State())
	assert.Equal(t, OutcomeNone, first.Outcome)
	assert.Empty(t, f.StatusMessage())
}

func TestForm_Submit_OneAtATime(t *testing.T) {
	release := make(chan struct{})
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		<-release
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	f, err := New(srv.URL)
	require.NoError(t, err)
	fill(t, f, springfield)

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		firstErr = f.Submit(context.Background())
	}()

	require.Eventually(t, func() bool { return f.State().Submitting }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, MsgSubmitting, f.StatusMessage())

	assert.ErrorIs(t, f.Submit(context.Background()), ErrSubmissionInProgress)

	close(release)
	wg.Wait()

	require.NoError(t, firstErr)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.False(t, f.State().Submitting)
}

func TestForm_Submit_ContextCanceled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	f, err := New(srv.URL)
	require.NoError(t, err)
	fill(t, f, springfield)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err = f.Submit(ctx)
	assert.ErrorIs(t, err, ErrSubmissionFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, OutcomeError, f.State().Outcome)
	assert.False(t, f.State().Submitting)
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "none", OutcomeNone.String())
	assert.Equal(t, "success", OutcomeSuccess.String())
	assert.Equal(t, "error", OutcomeError.String())
}

type doerFunc func(*http.Request) (*http.Response, error)

func (d doerFunc) Do(req *http.Request) (*http.Response, error) { return d(req) }

func TestForm_Submit_OutcomeAndFlagSettleTogether(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	f, err := New(srv.URL)
	require.NoError(t, err)
	fill(t, f, springfield)

	stop := make(chan struct{})
	var inconsistent int32
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			if s := f.State(); s.Submitting && s.Outcome != OutcomeNone {
				atomic.StoreInt32(&inconsistent, 1)
			}
		}
	}()

	for i := 0; i < 100; i++ {
		assert.ErrorIs(t, f.Submit(context.Background()), ErrSubmissionFailed)
		state := f.State()
		assert.False(t, state.Submitting)
		assert.Equal(t, OutcomeError, state.Outcome)
		assert.Equal(t, MsgError, f.StatusMessage())
	}
	close(stop)
	wg.Wait()

	assert.Equal(t, int32(0), atomic.LoadInt32(&inconsistent), "observed submitting together with a finished outcome")
}

func TestForm_Submit_PanicClearsSubmitting(t *testing.T) {
	f, err := New("http://localhost:3001", WithHTTPClient(doerFunc(func(*http.Request) (*http.Response, error) {
		panic("transport exploded")
	})))
	require.NoError(t, err)
	fill(t, f, springfield)

	assert.Panics(t, func() { _ = f.Submit(context.Background()) })
	assert.False(t, f.State().Submitting)
	assert.Equal(t, springfield, f.State().Values)
}
