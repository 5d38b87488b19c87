package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownUser is returned when the sender is not in the directory.
	ErrUnknownUser = errors.New("sender is not a registered intern")
	// ErrNotConfigured marks an optional collaborator that was never set up.
	ErrNotConfigured = errors.New("not configured")
)

// DestinationIntegrityError signals provisioning drift: an intern points at a
// destination the directory does not know.
type DestinationIntegrityError struct {
	InternPhone   string
	DestinationID string
}

func (e *DestinationIntegrityError) Error() string {
	return fmt.Sprintf("intern %s references unknown destination %q", e.InternPhone, e.DestinationID)
}

// CompletionError covers every way the completion provider can fail to
// produce text. Callers treat all of them the same way.
type CompletionError struct {
	Reason string
	Err    error
}

func (e *CompletionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("completion failed: %s: %v", e.Reason, e.Err)
	}
	return "completion failed: " + e.Reason
}

func (e *CompletionError) Unwrap() error { return e.Err }

// Well-known provider error codes.
const (
	DeliveryCodeUnregisteredRecipient = 21608
	DeliveryCodeInvalidRecipient      = 21211
	DeliveryCodeAuthentication        = 20003
)

// DeliveryError is a provider-side refusal or transport failure when sending.
type DeliveryError struct {
	Provider   string
	Code       int
	Message    string
	HTTPStatus int
	Err        error
}

func (e *DeliveryError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Code != 0 {
		return fmt.Sprintf("%s delivery failed (code %d): %s", e.Provider, e.Code, msg)
	}
	return fmt.Sprintf("%s delivery failed: %s", e.Provider, msg)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// Hint explains the well-known provider codes for operators.
func (e *DeliveryError) Hint() string {
	switch e.Code {
	case DeliveryCodeUnregisteredRecipient:
		return "the phone number is not registered in the Twilio sandbox"
	case DeliveryCodeInvalidRecipient:
		return "invalid phone number format"
	case DeliveryCodeAuthentication:
		return "authentication failed, check the account SID and auth token"
	}
	return ""
}
