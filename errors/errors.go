package errors

import "fmt"

var (
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrMissingFields      = fmt.Errorf("missing required message fields")
	ErrSendFailed         = fmt.Errorf("failed to send message")
	ErrUnknownParticipant = fmt.Errorf("unknown participant")
	ErrEmptyVoiceNote     = fmt.Errorf("voice note file is empty")
	ErrVoiceNoteTooLarge  = fmt.Errorf("voice note exceeds maximum size")
	ErrInvalidVoiceFormat = fmt.Errorf("invalid voice note format")
	ErrForbidden          = fmt.Errorf("forbidden")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity requirements")
	ErrSessionClosed      = fmt.Errorf("session closed")
	ErrSendBufferFull     = fmt.Errorf("send buffer full")
	ErrSearchDisabled     = fmt.Errorf("search index disabled")
)
