// Package pilotform is the client side of the pilot signup: it keeps the form state,
// validates it and posts it to the MedRoute API.
package pilotform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/medroute/pilot/internal/interfaces"
	"github.com/medroute/pilot/internal/models/dto"
	"github.com/medroute/pilot/pkg/zerolog"
)

const (
	pilotPath       = "/pilot"
	contentTypeJSON = "application/json"

	MsgSuccess    = "Request Received! We have received your pilot application. Our implementation team will contact you within 24 hours."
	MsgError      = "There was an error submitting your request. Please try again."
	MsgSubmitting = "Submitting..."
	MsgSubmitMore = "Submit another request"
)

// Outcome is the result of the last finished submission.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeSuccess
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeError:
		return "error"
	default:
		return "none"
	}
}

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// State is a point-in-time copy of the form for rendering.
type State struct {
	Values     Values
	Errors     map[Field]string
	Submitting bool
	Outcome    Outcome
}

// Form holds the signup form. It is safe for concurrent use; at most one
// submission is outstanding at a time.
type Form struct {
	mu         sync.Mutex
	values     Values
	errors     map[Field]string
	submitting bool
	outcome    Outcome

	endpoint string
	client   HTTPDoer
	logger   interfaces.Logger
	validate *validator.Validate
}

// Option configures a Form.
type Option func(*Form)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(client HTTPDoer) Option {
	return func(f *Form) {
		if client != nil {
			f.client = client
		}
	}
}

// WithLogger sets the logger; entries are discarded by default.
func WithLogger(logger interfaces.Logger) Option {
	return func(f *Form) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New returns an empty form posting to baseURL + "/pilot".
func New(baseURL string, opts ...Option) (*Form, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", baseURL)
	}

	f := &Form{
		errors:   make(map[Field]string),
		endpoint: strings.TrimRight(baseURL, "/") + pilotPath,
		client:   http.DefaultClient,
		logger:   zerolog.NewNopLogger(),
		validate: newValidator(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Update sets one field. It never validates.
func (f *Form) Update(field Field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.values.field(field)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	*p = value
	return nil
}

// Validate replaces the error map with exactly the violated fields and reports
// whether there were none.
func (f *Form) Validate() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validateLocked()
}

func (f *Form) validateLocked() bool {
	f.errors = validationMessages(f.validate, f.values)
	return len(f.errors) == 0
}

// Submit validates the form and posts it. Invalid forms return ErrValidation without
// any request. A 2xx answer clears the fields; anything else keeps them, sets
// OutcomeError and returns an error wrapping ErrSubmissionFailed.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return ErrSubmissionInProgress
	}
	if !f.validateLocked() {
		f.mu.Unlock()
		return ErrValidation
	}
	f.submitting = true
	f.outcome = OutcomeNone
	payload := f.values
	f.mu.Unlock()

	// clears the flag if post panics
	settled := false
	defer func() {
		if !settled {
			f.mu.Lock()
			f.submitting = false
			f.mu.Unlock()
		}
	}()

	err := f.post(ctx, payload)

	f.mu.Lock()
	defer f.mu.Unlock()
	settled = true
	f.submitting = false
	if err != nil {
		f.outcome = OutcomeError
		return fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}
	f.outcome = OutcomeSuccess
	f.values = Values{}
	return nil
}

func (f *Form) post(ctx context.Context, payload Values) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode pilot request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build pilot request: %w", err)
	}
	req.Header.Set("Content-Type", contentTypeJSON)

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Error("Error submitting pilot request", "endpoint", f.endpoint, "error", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		var result dto.PilotResponseDTO
		if json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&result) == nil {
			statusErr.Message = result.Message
		}
		f.logger.Warn("Pilot request rejected", "endpoint", f.endpoint, "status", resp.StatusCode, "message", statusErr.Message)
		return statusErr
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	f.logger.Info("Pilot request submitted", "endpoint", f.endpoint, "org", payload.Org)
	return nil
}

// ResetOutcome clears the outcome so the form can be filled in again.
func (f *Form) ResetOutcome() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcome = OutcomeNone
}

// State returns a copy of the form state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	errs := make(map[Field]string, len(f.errors))
	for k, v := range f.errors {
		errs[k] = v
	}
	return State{
		Values:     f.values,
		Errors:     errs,
		Submitting: f.submitting,
		Outcome:    f.outcome,
	}
}

// StatusMessage is the text to show for the current state, or "" when idle.
func (f *Form) StatusMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case f.submitting:
		return MsgSubmitting
	case f.outcome == OutcomeSuccess:
		return MsgSuccess
	case f.outcome == OutcomeError:
		return MsgError
	}
	return ""
}
