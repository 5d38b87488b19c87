package entities

import "time"

type Status string

const (
	StatusSuccess          Status = "success"
	StatusUnknownUser      Status = "unknown_user"
	StatusDestinationError Status = "destination_error"
	StatusError            Status = "error"
)

type ResponseType string

const (
	ResponseNone     ResponseType = ""
	ResponseFAQ      ResponseType = "faq"
	ResponseAI       ResponseType = "ai"
	ResponseFallback ResponseType = "fallback"
)

// Outcome is the closed set of ways a message can be resolved. Only the types
// in this file implement it.
type Outcome interface {
	Reply() string
	Status() Status
	ResponseType() ResponseType
	outcome()
}

// FAQAnswer is a verbatim answer taken from a curated FAQ.
type FAQAnswer struct {
	Text  string
	FAQID string
}

// AIAnswer is text produced by the completion provider.
type AIAnswer struct {
	Text string
}

// FallbackAnswer replaces an AI answer when the provider could not produce one.
type FallbackAnswer struct {
	Text  string
	Cause error
}

// UnknownSender is the reply for a phone that is not in the directory.
type UnknownSender struct {
	Text  string
	Phone string
}

// DestinationMissing is the reply when the intern's destination is unknown.
type DestinationMissing struct {
	Text  string
	Cause *DestinationIntegrityError
}

// Failure is the catch-all reply for anything unexpected.
type Failure struct {
	Text  string
	Cause error
}

func (o FAQAnswer) Reply() string              { return o.Text }
func (o FAQAnswer) Status() Status             { return StatusSuccess }
func (o FAQAnswer) ResponseType() ResponseType { return ResponseFAQ }
func (FAQAnswer) outcome()                     {}

func (o AIAnswer) Reply() string              { return o.Text }
func (o AIAnswer) Status() Status             { return StatusSuccess }
func (o AIAnswer) ResponseType() ResponseType { return ResponseAI }
func (AIAnswer) outcome()                     {}

func (o FallbackAnswer) Reply() string              { return o.Text }
func (o FallbackAnswer) Status() Status             { return StatusSuccess }
func (o FallbackAnswer) ResponseType() ResponseType { return ResponseFallback }
func (FallbackAnswer) outcome()                     {}

func (o UnknownSender) Reply() string              { return o.Text }
func (o UnknownSender) Status() Status             { return StatusUnknownUser }
func (o UnknownSender) ResponseType() ResponseType { return ResponseNone }
func (UnknownSender) outcome()                     {}

func (o DestinationMissing) Reply() string              { return o.Text }
func (o DestinationMissing) Status() Status             { return StatusDestinationError }
func (o DestinationMissing) ResponseType() ResponseType { return ResponseNone }
func (DestinationMissing) outcome()                     {}

func (o Failure) Reply() string              { return o.Text }
func (o Failure) Status() Status             { return StatusError }
func (o Failure) ResponseType() ResponseType { return ResponseNone }
func (Failure) outcome()                     {}

// Resolution is produced once per inbound message.
type Resolution struct {
	CorrelationID string
	Recipient     string
	Outcome       Outcome
	Receipt       *DeliveryReceipt
	DeliveryErr   error // diagnostic only, never changes Status
	Duration      time.Duration
}

func (r Resolution) Reply() string {
	if r.Outcome == nil {
		return ""
	}
	return r.Outcome.Reply()
}

func (r Resolution) Status() Status {
	if r.Outcome == nil {
		return StatusError
	}
	return r.Outcome.Status()
}

func (r Resolution) ResponseType() ResponseType {
	if r.Outcome == nil {
		return ResponseNone
	}
	return r.Outcome.ResponseType()
}

// MatchedFAQID is empty unless the reply came from an FAQ.
func (r Resolution) MatchedFAQID() string {
	if faq, ok := r.Outcome.(FAQAnswer); ok {
		return faq.FAQID
	}
	return ""
}

// Delivered reports whether the notifier accepted the reply.
func (r Resolution) Delivered() bool {
	return r.DeliveryErr == nil && r.Receipt != nil
}
