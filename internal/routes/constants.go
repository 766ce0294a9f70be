package routes

var (
	PilotDurationSecondsBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5}
)

const (
	// API route constants
	PilotRouteAPI   = "/pilot"
	HealthRouteAPI  = "/healthz"
	MetricsRouteAPI = "/metrics"

	// Content-Type constants
	ContentType     = "Content-Type"
	ContentTypeJson = "application/json"

	// MaxBodyBytes caps the accepted JSON body.
	MaxBodyBytes = 100 << 10

	// message constants
	MsgPilotReceived         = "Pilot request received successfully"
	MsgMissingRequiredFields = "Missing required fields"
	MsgMethodNotAllowed      = "Method not allowed"
	MsgBodyTooLarge          = "Request body too large"
	MsgFailedToRecord        = "Failed to record pilot request"

	// rejection reasons, used as the metric label
	ReasonInvalidContentType = "invalid_content_type"
	ReasonInvalidBody        = "invalid_body"
	ReasonBodyTooLarge       = "body_too_large"
	ReasonMissingFields      = "missing_fields"

	// metrics constants
	PilotRequestsTotal        = "pilot_requests_total"
	PilotRequestsTotalHelp    = "Total number of pilot requests received"
	PilotSuccessTotal         = "pilot_success_total"
	PilotSuccessTotalHelp     = "Total number of pilot requests accepted"
	PilotErrorsTotal          = "pilot_errors_total"
	PilotErrorsTotalHelp      = "Total number of pilot requests that could not be recorded"
	PilotRejectedTotal        = "pilot_rejected_total"
	PilotRejectedTotalHelp    = "Total number of pilot requests rejected, by reason"
	PilotDurationSeconds      = "pilot_duration_seconds"
	PilotDurationSecondsHelp  = "Duration of pilot requests in seconds"
	PilotInFlightRequests     = "pilot_in_flight_requests"
	PilotInFlightRequestsHelp = "Number of pilot requests currently being handled"
)
