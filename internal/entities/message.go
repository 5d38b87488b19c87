package entities

import "strings"

// WhatsAppPrefix is the transport prefix Twilio puts in front of WhatsApp numbers.
const WhatsAppPrefix = "whatsapp:"

// InboundMessage is the normalized unit of work handed over by the webhook.
type InboundMessage struct {
	SenderPhone    string // raw, may still carry the transport prefix
	RecipientPhone string
	Text           string
	CorrelationID  string
}

// NormalizePhone strips the transport prefix so the result can be used as a
// directory key: NormalizePhone("whatsapp:+1") == "+1".
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	phone = strings.TrimPrefix(phone, WhatsAppPrefix)
	return strings.TrimSpace(phone)
}

// DeliveryReceipt is what a notifier returns once the provider accepted a message.
type DeliveryReceipt struct {
	ID        string `json:"id"`
	Provider  string `json:"provider"`
	Recipient string `json:"recipient"`
	Status    string `json:"status,omitempty"`
}
