package routes

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"time"

	"github.com/medroute/pilot/internal/interfaces"
	"github.com/medroute/pilot/internal/middleware"
	"github.com/medroute/pilot/internal/models/dto"

	structValidator "github.com/go-playground/validator/v10"
)

type Route struct {
	Metrics      interfaces.Metrics
	PilotService interfaces.PilotService
	Logger       interfaces.Logger
	validator    *structValidator.Validate
}

// NewRoute creates a new Route instance.
func NewRoute(metrics interfaces.Metrics, pilotService interfaces.PilotService,
	logger interfaces.Logger, validator *structValidator.Validate,
) *Route {

	return &Route{
		Metrics:      metrics,
		PilotService: pilotService,
		Logger:       logger,
		validator:    validator,
	}
}

// Pilot handles pilot signup submissions. Only the presence of the five required
// fields is checked; any failure to read them answers 400 "Missing required fields".
func (r *Route) Pilot(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		r.writeResponse(w, http.StatusMethodNotAllowed, false, MsgMethodNotAllowed)
		return
	}

	r.Metrics.IncCounter(PilotRequestsTotal)
	r.Metrics.IncGauge(PilotInFlightRequests)
	defer r.Metrics.DecGauge(PilotInFlightRequests)
	startTime := time.Now()

	logger := r.Logger.WithContext(map[string]interface{}{
		"request_id": middleware.RequestIDFromContext(req.Context()),
	})

	mediaType, _, err := mime.ParseMediaType(req.Header.Get(ContentType))
	if err != nil || mediaType != ContentTypeJson {
		logger.Warn("Rejected pilot request", "reason", ReasonInvalidContentType, "content_type", req.Header.Get(ContentType))
		r.reject(w, http.StatusBadRequest, ReasonInvalidContentType, MsgMissingRequiredFields)
		return
	}

	pilotRequest, err := decodePilotRequest(http.MaxBytesReader(w, req.Body, MaxBodyBytes))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			logger.Warn("Rejected pilot request", "reason", ReasonBodyTooLarge, "limit", maxBytesErr.Limit)
			r.reject(w, http.StatusRequestEntityTooLarge, ReasonBodyTooLarge, MsgBodyTooLarge)
			return
		}
		logger.Warn("Rejected pilot request", "reason", ReasonInvalidBody, "error", err)
		r.reject(w, http.StatusBadRequest, ReasonInvalidBody, MsgMissingRequiredFields)
		return
	}

	if err := r.validator.Struct(pilotRequest); err != nil {
		logger.Warn("Rejected pilot request", "reason", ReasonMissingFields, "error", err)
		r.reject(w, http.StatusBadRequest, ReasonMissingFields, MsgMissingRequiredFields)
		return
	}

	_, err = r.PilotService.SubmitPilotRequest(req.Context(), pilotRequest.ToModel())
	if err != nil {
		logger.Error(MsgFailedToRecord, "error", err)
		r.Metrics.IncCounter(PilotErrorsTotal)
		r.writeResponse(w, http.StatusInternalServerError, false, MsgFailedToRecord)
		return
	}

	r.Metrics.IncCounter(PilotSuccessTotal)
	r.Metrics.ObserveHistogram(PilotDurationSeconds, time.Since(startTime).Seconds())

	r.writeResponse(w, http.StatusOK, true, MsgPilotReceived)
}

// Health reports that the process is up.
func (r *Route) Health(w http.ResponseWriter, req *http.Request) {
	w.Header().Set(ContentType, ContentTypeJson)
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (r *Route) reject(w http.ResponseWriter, status int, reason, message string) {
	r.Metrics.IncCounterVec(PilotRejectedTotal, reason)
	r.writeResponse(w, status, false, message)
}

func (r *Route) writeResponse(w http.ResponseWriter, status int, success bool, message string) {
	w.Header().Set(ContentType, ContentTypeJson)
	w.WriteHeader(status)

	response := &dto.PilotResponseDTO{
		Success: success,
		Message: message,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		r.Logger.Error("Failed to encode response", "error", err)
	}
}
