package pilotservice

const (
	// Log and error messages for pilot service operations
	MsgNewPilotRequest       = "New pilot request"
	MsgPilotRequestRecorded  = "Pilot request recorded"
	ErrFailedToRecordRequest = "failed to record pilot request"
)
